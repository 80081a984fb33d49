package handlers

import (
	"finch/internal/models"
	"finch/internal/services/debitcard"
	"finch/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type DebitCardTransactionHandler struct {
	cardService debitcard.Service
}

func NewDebitCardTransactionHandler(cardService debitcard.Service) *DebitCardTransactionHandler {
	return &DebitCardTransactionHandler{
		cardService: cardService,
	}
}

// ListTransactions returns transactions for one of the caller's cards.
func (h *DebitCardTransactionHandler) ListTransactions(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	cardID := c.QueryInt("debit_card_id")
	if cardID <= 0 {
		return response.ValidationError(c, "debit_card_id is required")
	}

	txs, err := h.cardService.ListTransactions(c.Context(), claims.UserID, uint(cardID))
	if err != nil {
		return cardError(c, err)
	}

	return response.Success(c, "Transactions retrieved successfully", txs)
}

func (h *DebitCardTransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input models.CreateDebitCardTransactionInput
	if err := c.BodyParser(&input); err != nil {
		return response.ValidationError(c, "Invalid request format")
	}
	if input.DebitCardID == 0 {
		return response.ValidationError(c, "debit_card_id is required")
	}

	tx, err := h.cardService.RecordTransaction(c.Context(), claims.UserID, input)
	if err != nil {
		return cardError(c, err)
	}

	return response.Created(c, "Transaction recorded successfully", tx)
}
