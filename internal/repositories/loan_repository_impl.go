package repositories

import (
	"fmt"
	"time"

	"finch/internal/models"

	"gorm.io/gorm"
)

type loanRepository struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) CreateWithSchedule(loan *models.Loan, installments []*models.ScheduledRepayment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(loan).Error; err != nil {
			return err
		}
		for _, inst := range installments {
			inst.LoanID = loan.ID
			if err := tx.Create(inst).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *loanRepository) GetByID(loanID uint) (*models.Loan, error) {
	var loan models.Loan
	if err := r.db.First(&loan, loanID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrLoanNotFound
		}
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	return &loan, nil
}

func (r *loanRepository) GetByUserID(userID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	if err := r.db.Where("user_id = ?", userID).Order("id").Find(&loans).Error; err != nil {
		return nil, fmt.Errorf("failed to get user loans: %w", err)
	}
	return loans, nil
}

func (r *loanRepository) GetInstallments(loanID uint) ([]*models.ScheduledRepayment, error) {
	var installments []*models.ScheduledRepayment
	if err := r.db.Where("loan_id = ?", loanID).Order("due_date").Find(&installments).Error; err != nil {
		return nil, fmt.Errorf("failed to get installments: %w", err)
	}
	return installments, nil
}

func (r *loanRepository) SaveRepayment(loan *models.Loan, installments []*models.ScheduledRepayment, received *models.ReceivedRepayment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(loan).Error; err != nil {
			return err
		}
		for _, inst := range installments {
			if err := tx.Save(inst).Error; err != nil {
				return err
			}
		}
		return tx.Create(received).Error
	})
}

func (r *loanRepository) GetOverdueInstallments() ([]*models.ScheduledRepayment, error) {
	var installments []*models.ScheduledRepayment
	err := r.db.Where("due_date < ? AND status IN ?", time.Now(),
		[]string{models.StatusDue, models.StatusPartial}).
		Find(&installments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get overdue installments: %w", err)
	}
	return installments, nil
}

func (r *loanRepository) MarkInstallmentOverdue(installmentID uint) error {
	return r.db.Model(&models.ScheduledRepayment{}).
		Where("id = ?", installmentID).
		Update("status", models.StatusOverdue).Error
}
