package repositories

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrCardNotFound      = errors.New("card not found")
	ErrCardInUse         = errors.New("card is referenced by transactions")
	ErrLoanNotFound      = errors.New("loan not found")
	ErrDatabaseOperation = errors.New("database operation failed")
)
