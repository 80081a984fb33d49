package repositories

import (
	"time"

	"finch/internal/models"
)

// DebitCardRepository defines data access for debit cards. It carries
// no authorization logic; ownership checks live in the card service.
// State transitions that read before they write (SetDisabledAt, Delete)
// run inside a transaction with the card row locked.
type DebitCardRepository interface {
	Create(card *models.DebitCard) error
	GetByID(cardID uint) (*models.DebitCard, error)
	GetByUserID(userID uint) ([]*models.DebitCard, error)
	// SetDisabledAt writes the card's disabled timestamp. A nil value
	// re-enables the card; an already-active card is left untouched.
	SetDisabledAt(cardID uint, disabledAt *time.Time) (*models.DebitCard, error)
	// Delete removes the card, or returns ErrCardInUse while any
	// transaction references it.
	Delete(cardID uint) error
}

// DebitCardTransactionRepository defines data access for card transactions.
type DebitCardTransactionRepository interface {
	Create(tx *models.DebitCardTransaction) error
	GetByCardID(cardID uint) ([]*models.DebitCardTransaction, error)
}
