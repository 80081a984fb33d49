package models

import "time"

// Supported transaction and loan currencies.
const (
	CurrencyVND = "VND"
	CurrencySGD = "SGD"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
)

// Currencies lists every supported currency code.
var Currencies = []string{CurrencyVND, CurrencySGD, CurrencyUSD, CurrencyEUR}

// DebitCardTransaction records a charge against a debit card. The card
// association is immutable, and any transaction on a card permanently
// blocks that card's deletion.
type DebitCardTransaction struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	DebitCardID  uint      `gorm:"not null;index" json:"debit_card_id"`
	Amount       int64     `gorm:"not null" json:"amount"`
	CurrencyCode string    `gorm:"not null" json:"currency_code"`
	Reference    string    `gorm:"uniqueIndex;not null" json:"reference"`
	OccurredAt   time.Time `json:"occurred_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateDebitCardTransactionInput is the transaction recording payload.
type CreateDebitCardTransactionInput struct {
	DebitCardID  uint   `json:"debit_card_id"`
	Amount       int64  `json:"amount"`
	CurrencyCode string `json:"currency_code"`
}
