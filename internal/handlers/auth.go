package handlers

import (
	"errors"
	"log"
	"time"

	"finch/internal/config"
	"finch/internal/models"
	"finch/internal/services/auth"
	"finch/internal/utils/response"
	"finch/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterUser creates a new account.
func (h *AuthHandler) RegisterUser(c *fiber.Ctx) error {
	var input models.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validation.New()
	v.UserRegistration(&input)
	if !v.Valid() {
		return response.ValidationError(c, v.First())
	}

	user, err := h.authService.Register(input)
	if err != nil {
		return response.ServerError(c, "Failed to register user")
	}

	return response.Created(c, "User registered successfully", user)
}

// LoginUser authenticates and returns JWT tokens.
func (h *AuthHandler) LoginUser(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.Email == "" || input.Password == "" {
		return response.BadRequest(c, "Email and password are required")
	}

	user, accessToken, refreshToken, err := h.authService.Login(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return response.Error(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		return response.ServerError(c, "Authentication failed")
	}

	h.setAuthCookies(c, accessToken, refreshToken)

	return c.JSON(fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

// RefreshToken exchanges a valid refresh token for a new pair.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")

	if refreshToken == "" {
		var input struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&input); err == nil {
			refreshToken = input.RefreshToken
		}
	}

	if refreshToken == "" {
		return response.Unauthorized(c)
	}

	newAccessToken, newRefreshToken, err := h.authService.RefreshTokens(refreshToken)
	if err != nil {
		log.Printf("Token refresh failed: %v", err)
		return response.Unauthorized(c)
	}

	h.setAuthCookies(c, newAccessToken, newRefreshToken)

	return response.Success(c, "Tokens refreshed", fiber.Map{
		"access_token":  newAccessToken,
		"refresh_token": newRefreshToken,
	})
}

// LogoutUser invalidates all of the caller's outstanding tokens.
func (h *AuthHandler) LogoutUser(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return response.Unauthorized(c)
	}

	if err := h.authService.Logout(claims.UserID); err != nil {
		return response.ServerError(c, "Failed to logout")
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out", nil)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return response.Unauthorized(c)
	}

	var input struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validation.New()
	v.MinLength("new_password", input.NewPassword, 8)
	if !v.Valid() {
		return response.ValidationError(c, v.First())
	}

	if err := h.authService.ChangePassword(claims.UserID, input.OldPassword, input.NewPassword); err != nil {
		return response.BadRequest(c, err.Error())
	}

	return response.Success(c, "Password changed", nil)
}

func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  time.Now().Add(15 * time.Minute),
		HTTPOnly: true,
		Secure:   config.IsProduction(),
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HTTPOnly: true,
		Secure:   config.IsProduction(),
		Path:     "/",
	})
}

func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			Secure:   config.IsProduction(),
			Path:     "/",
		})
	}
}
