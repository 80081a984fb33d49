package loan

import "errors"

// Service errors
var (
	ErrLoanNotFound     = errors.New("loan not found")
	ErrNotLoanOwner     = errors.New("loan does not belong to user")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidCurrency  = errors.New("invalid currency")
	ErrInvalidTerms     = errors.New("invalid terms")
	ErrInvalidDate      = errors.New("invalid date")
	ErrCurrencyMismatch = errors.New("repayment currency does not match loan")
	ErrOverpayment      = errors.New("repayment exceeds outstanding amount")
	ErrLoanRepaid       = errors.New("loan is already repaid")
)
