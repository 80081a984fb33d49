package debitcard

import "errors"

// Service errors
var (
	ErrCardNotFound        = errors.New("card not found")
	ErrNotCardOwner        = errors.New("card does not belong to user")
	ErrInvalidCardType     = errors.New("invalid card type")
	ErrCardHasTransactions = errors.New("card has transactions and cannot be deleted")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidCurrency     = errors.New("invalid currency")
)
