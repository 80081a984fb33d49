package models

import "time"

// Loan and repayment statuses.
const (
	StatusDue     = "due"
	StatusPartial = "partial"
	StatusRepaid  = "repaid"
	StatusOverdue = "overdue"
)

// Loan is a fixed-term loan repaid in equal monthly installments.
type Loan struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	UserID            uint      `gorm:"not null;index" json:"user_id"`
	Amount            int64     `gorm:"not null" json:"amount"`
	OutstandingAmount int64     `gorm:"not null" json:"outstanding_amount"`
	CurrencyCode      string    `gorm:"not null" json:"currency_code"`
	TermsMonths       int       `gorm:"not null" json:"terms_months"`
	AnnualRate        float64   `json:"annual_rate"`
	Status            string    `gorm:"not null;default:'due'" json:"status"`
	ProcessedAt       time.Time `json:"processed_at"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"-"`
}

// ScheduledRepayment is one monthly installment of a loan.
type ScheduledRepayment struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	LoanID            uint      `gorm:"not null;index" json:"loan_id"`
	Amount            int64     `gorm:"not null" json:"amount"`
	OutstandingAmount int64     `gorm:"not null" json:"outstanding_amount"`
	CurrencyCode      string    `gorm:"not null" json:"currency_code"`
	DueDate           time.Time `gorm:"index" json:"due_date"`
	Status            string    `gorm:"not null;default:'due'" json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"-"`
}

// ReceivedRepayment records money actually received against a loan.
type ReceivedRepayment struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	LoanID       uint      `gorm:"not null;index" json:"loan_id"`
	Amount       int64     `gorm:"not null" json:"amount"`
	CurrencyCode string    `gorm:"not null" json:"currency_code"`
	ReceivedAt   time.Time `json:"received_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateLoanInput is the loan creation payload.
type CreateLoanInput struct {
	Amount       int64  `json:"amount"`
	CurrencyCode string `json:"currency_code"`
	TermsMonths  int    `json:"terms_months"`
	ProcessedAt  string `json:"processed_at"`
}

// RepayLoanInput is the repayment payload.
type RepayLoanInput struct {
	Amount       int64  `json:"amount"`
	CurrencyCode string `json:"currency_code"`
	ReceivedAt   string `json:"received_at"`
}
