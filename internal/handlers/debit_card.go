package handlers

import (
	"errors"

	"finch/internal/models"
	"finch/internal/services/debitcard"
	"finch/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type DebitCardHandler struct {
	cardService debitcard.Service
}

func NewDebitCardHandler(cardService debitcard.Service) *DebitCardHandler {
	return &DebitCardHandler{
		cardService: cardService,
	}
}

// ListCards returns the caller's own cards, never anyone else's.
func (h *DebitCardHandler) ListCards(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	cards, err := h.cardService.List(c.Context(), claims.UserID)
	if err != nil {
		return response.ServerError(c, "Failed to fetch cards")
	}

	return response.Success(c, "Cards retrieved successfully", cards)
}

func (h *DebitCardHandler) CreateCard(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input models.CreateDebitCardInput
	if err := c.BodyParser(&input); err != nil {
		return response.ValidationError(c, "Invalid request format")
	}

	card, err := h.cardService.Create(c.Context(), claims.UserID, input.Type)
	if err != nil {
		return cardError(c, err)
	}

	return response.Created(c, "Card created successfully", card)
}

func (h *DebitCardHandler) GetCard(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)
	cardID, err := c.ParamsInt("id")
	if err != nil {
		return response.NotFound(c, "Card not found")
	}

	card, err := h.cardService.Get(c.Context(), claims.UserID, uint(cardID))
	if err != nil {
		return cardError(c, err)
	}

	return response.Success(c, "Card retrieved successfully", card)
}

// UpdateCard toggles a card between active and disabled. The is_active
// field must be a real JSON boolean; strings, numbers and null are
// rejected before any state is touched.
func (h *DebitCardHandler) UpdateCard(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)
	cardID, err := c.ParamsInt("id")
	if err != nil {
		return response.NotFound(c, "Card not found")
	}

	var input struct {
		IsActive any `json:"is_active"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.ValidationError(c, "Invalid request format")
	}

	isActive, ok := input.IsActive.(bool)
	if !ok {
		return response.ValidationError(c, "is_active must be a boolean")
	}

	card, err := h.cardService.SetActive(c.Context(), claims.UserID, uint(cardID), isActive)
	if err != nil {
		return cardError(c, err)
	}

	return response.Success(c, "Card updated successfully", card)
}

func (h *DebitCardHandler) DeleteCard(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)
	cardID, err := c.ParamsInt("id")
	if err != nil {
		return response.NotFound(c, "Card not found")
	}

	if err := h.cardService.Delete(c.Context(), claims.UserID, uint(cardID)); err != nil {
		return cardError(c, err)
	}

	return response.NoContent(c)
}

// cardError maps card service errors to HTTP statuses.
func cardError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, debitcard.ErrInvalidCardType),
		errors.Is(err, debitcard.ErrInvalidAmount),
		errors.Is(err, debitcard.ErrInvalidCurrency):
		return response.ValidationError(c, err.Error())
	case errors.Is(err, debitcard.ErrNotCardOwner):
		return response.Forbidden(c, "Forbidden")
	case errors.Is(err, debitcard.ErrCardNotFound):
		return response.NotFound(c, "Card not found")
	case errors.Is(err, debitcard.ErrCardHasTransactions):
		return response.BadRequest(c, err.Error())
	default:
		return response.ServerError(c, "Internal server error")
	}
}
