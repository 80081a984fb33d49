package handlers

import (
	"finch/internal/services/loan"
	"finch/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type RatesHandler struct {
	rates loan.RateSource
}

func NewRatesHandler(rates loan.RateSource) *RatesHandler {
	return &RatesHandler{rates: rates}
}

// GetKeyRate returns the current key rate used for new loans.
func (h *RatesHandler) GetKeyRate(c *fiber.Ctx) error {
	rate, err := h.rates.GetKeyRate()
	if err != nil {
		return response.ServerError(c, "Failed to get key rate")
	}

	return c.JSON(fiber.Map{"key_rate": rate})
}
