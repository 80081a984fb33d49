// Package middleware provides HTTP middleware for the application,
// currently JWT bearer-token authentication.
package middleware

import (
	"log"
	"strings"

	"finch/internal/services/auth"
	"finch/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates bearer tokens and resolves the caller
// identity. Requests without a valid token never reach a handler.
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Handler validates the JWT and stores the claims in the request
// context. It checks signature, expiry and token version.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	_, claims, err := utils.ParseToken(tokenString)
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	currentVersion, err := m.authService.GetUserTokenVersion(claims.UserID)
	if err != nil {
		log.Printf("User %d from token not found: %v", claims.UserID, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	if claims.TokenVersion != currentVersion {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "session expired"})
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)

	return c.Next()
}
