package repositories

import "finch/internal/models"

// LoanRepository defines data access for loans and their repayments.
type LoanRepository interface {
	// CreateWithSchedule persists a loan and its installments atomically.
	CreateWithSchedule(loan *models.Loan, installments []*models.ScheduledRepayment) error
	GetByID(loanID uint) (*models.Loan, error)
	GetByUserID(userID uint) ([]*models.Loan, error)
	GetInstallments(loanID uint) ([]*models.ScheduledRepayment, error)
	// SaveRepayment persists the updated loan, the touched installments
	// and the received repayment record in one transaction.
	SaveRepayment(loan *models.Loan, installments []*models.ScheduledRepayment, received *models.ReceivedRepayment) error
	// GetOverdueInstallments returns non-repaid installments past due.
	GetOverdueInstallments() ([]*models.ScheduledRepayment, error)
	MarkInstallmentOverdue(installmentID uint) error
}
