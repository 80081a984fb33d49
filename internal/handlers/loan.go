package handlers

import (
	"errors"

	"finch/internal/models"
	"finch/internal/services/loan"
	"finch/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type LoanHandler struct {
	loanService loan.Service
}

func NewLoanHandler(loanService loan.Service) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
	}
}

func (h *LoanHandler) ListLoans(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	loans, err := h.loanService.List(c.Context(), claims.UserID)
	if err != nil {
		return response.ServerError(c, "Failed to fetch loans")
	}

	return response.Success(c, "Loans retrieved successfully", loans)
}

func (h *LoanHandler) CreateLoan(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input models.CreateLoanInput
	if err := c.BodyParser(&input); err != nil {
		return response.ValidationError(c, "Invalid request format")
	}

	created, err := h.loanService.Create(c.Context(), claims.UserID, input)
	if err != nil {
		return loanError(c, err)
	}

	return response.Created(c, "Loan created successfully", created)
}

func (h *LoanHandler) GetLoan(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)
	loanID, err := c.ParamsInt("id")
	if err != nil {
		return response.NotFound(c, "Loan not found")
	}

	found, installments, err := h.loanService.Get(c.Context(), claims.UserID, uint(loanID))
	if err != nil {
		return loanError(c, err)
	}

	return response.Success(c, "Loan retrieved successfully", fiber.Map{
		"loan":                 found,
		"scheduled_repayments": installments,
	})
}

func (h *LoanHandler) RepayLoan(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)
	loanID, err := c.ParamsInt("id")
	if err != nil {
		return response.NotFound(c, "Loan not found")
	}

	var input models.RepayLoanInput
	if err := c.BodyParser(&input); err != nil {
		return response.ValidationError(c, "Invalid request format")
	}

	updated, err := h.loanService.Repay(c.Context(), claims.UserID, uint(loanID), input)
	if err != nil {
		return loanError(c, err)
	}

	return response.Success(c, "Repayment received", updated)
}

// loanError maps loan service errors to HTTP statuses.
func loanError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, loan.ErrInvalidAmount),
		errors.Is(err, loan.ErrInvalidCurrency),
		errors.Is(err, loan.ErrInvalidTerms),
		errors.Is(err, loan.ErrInvalidDate),
		errors.Is(err, loan.ErrCurrencyMismatch),
		errors.Is(err, loan.ErrOverpayment):
		return response.ValidationError(c, err.Error())
	case errors.Is(err, loan.ErrNotLoanOwner):
		return response.Forbidden(c, "Forbidden")
	case errors.Is(err, loan.ErrLoanNotFound):
		return response.NotFound(c, "Loan not found")
	case errors.Is(err, loan.ErrLoanRepaid):
		return response.BadRequest(c, err.Error())
	default:
		return response.ServerError(c, "Internal server error")
	}
}
