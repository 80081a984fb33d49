package models

import "time"

// Recognized debit card networks. Create requests carrying any other
// type are rejected before a row is written.
const (
	CardTypeVisa       = "visa"
	CardTypeMastercard = "mastercard"
	CardTypeAmex       = "amex"
	CardTypeDiscover   = "discover"
	CardTypeUnionPay   = "unionpay"
)

// CardTypes lists every recognized card network.
var CardTypes = []string{
	CardTypeVisa,
	CardTypeMastercard,
	CardTypeAmex,
	CardTypeDiscover,
	CardTypeUnionPay,
}

// DebitCard belongs to exactly one user; ownership never transfers.
// DisabledAt encodes the card state: nil means active, a non-nil
// timestamp means disabled since that time.
type DebitCard struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	Type           string     `gorm:"not null" json:"type"`
	Number         string     `gorm:"uniqueIndex;not null" json:"number"`
	ExpirationDate time.Time  `json:"expiration_date"`
	DisabledAt     *time.Time `json:"disabled_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"-"`
}

// IsActive reports whether the card is currently enabled.
func (c *DebitCard) IsActive() bool {
	return c.DisabledAt == nil
}

// CreateDebitCardInput is the card creation request payload.
type CreateDebitCardInput struct {
	Type string `json:"type"`
}
