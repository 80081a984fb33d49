// Package loan manages fixed-term loans and their repayment schedules.
// A loan of N months is split into N equal monthly installments, with
// the rounding remainder carried by the last one. Repayments settle
// installments oldest-first.
package loan

import (
	"context"
	"fmt"
	"log"
	"time"

	"finch/internal/models"
	"finch/internal/repositories"
)

// RateSource supplies the annual rate recorded on new loans.
type RateSource interface {
	GetKeyRate() (float64, error)
}

// Service manages loans and repayments.
type Service interface {
	Create(ctx context.Context, userID uint, input models.CreateLoanInput) (*models.Loan, error)
	List(ctx context.Context, userID uint) ([]*models.Loan, error)
	Get(ctx context.Context, userID, loanID uint) (*models.Loan, []*models.ScheduledRepayment, error)
	Repay(ctx context.Context, userID, loanID uint, input models.RepayLoanInput) (*models.Loan, error)
	MarkOverdue(ctx context.Context) (int, error)
}

type service struct {
	repo        repositories.LoanRepository
	rates       RateSource
	defaultRate float64
	now         func() time.Time
}

// NewService creates a loan service. rates may be nil, in which case
// defaultRate is always used.
func NewService(repo repositories.LoanRepository, rates RateSource, defaultRate float64) Service {
	return &service{
		repo:        repo,
		rates:       rates,
		defaultRate: defaultRate,
		now:         time.Now,
	}
}

func (s *service) Create(ctx context.Context, userID uint, input models.CreateLoanInput) (*models.Loan, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !isKnownCurrency(input.CurrencyCode) {
		return nil, ErrInvalidCurrency
	}
	if input.TermsMonths <= 0 {
		return nil, ErrInvalidTerms
	}

	processedAt := s.now()
	if input.ProcessedAt != "" {
		t, err := time.Parse("2006-01-02", input.ProcessedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: bad processed_at", ErrInvalidDate)
		}
		processedAt = t
	}

	loan := &models.Loan{
		UserID:            userID,
		Amount:            input.Amount,
		OutstandingAmount: input.Amount,
		CurrencyCode:      input.CurrencyCode,
		TermsMonths:       input.TermsMonths,
		AnnualRate:        s.annualRate(),
		Status:            models.StatusDue,
		ProcessedAt:       processedAt,
	}

	installments := buildSchedule(loan)

	if err := s.repo.CreateWithSchedule(loan, installments); err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}
	return loan, nil
}

func (s *service) List(ctx context.Context, userID uint) ([]*models.Loan, error) {
	return s.repo.GetByUserID(userID)
}

func (s *service) Get(ctx context.Context, userID, loanID uint) (*models.Loan, []*models.ScheduledRepayment, error) {
	loan, err := s.ownedLoan(userID, loanID)
	if err != nil {
		return nil, nil, err
	}
	installments, err := s.repo.GetInstallments(loan.ID)
	if err != nil {
		return nil, nil, err
	}
	return loan, installments, nil
}

func (s *service) Repay(ctx context.Context, userID, loanID uint, input models.RepayLoanInput) (*models.Loan, error) {
	loan, err := s.ownedLoan(userID, loanID)
	if err != nil {
		return nil, err
	}

	if loan.Status == models.StatusRepaid {
		return nil, ErrLoanRepaid
	}
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if input.CurrencyCode != loan.CurrencyCode {
		return nil, ErrCurrencyMismatch
	}
	if input.Amount > loan.OutstandingAmount {
		return nil, ErrOverpayment
	}

	receivedAt := s.now()
	if input.ReceivedAt != "" {
		t, err := time.Parse("2006-01-02", input.ReceivedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: bad received_at", ErrInvalidDate)
		}
		receivedAt = t
	}

	installments, err := s.repo.GetInstallments(loan.ID)
	if err != nil {
		return nil, err
	}

	touched := applyToInstallments(installments, input.Amount)

	loan.OutstandingAmount -= input.Amount
	if loan.OutstandingAmount == 0 {
		loan.Status = models.StatusRepaid
	}

	received := &models.ReceivedRepayment{
		LoanID:       loan.ID,
		Amount:       input.Amount,
		CurrencyCode: input.CurrencyCode,
		ReceivedAt:   receivedAt,
	}

	if err := s.repo.SaveRepayment(loan, touched, received); err != nil {
		return nil, fmt.Errorf("failed to save repayment: %w", err)
	}
	return loan, nil
}

// MarkOverdue flags non-repaid installments past their due date. It is
// run periodically by the scheduler and returns how many were flagged.
func (s *service) MarkOverdue(ctx context.Context) (int, error) {
	installments, err := s.repo.GetOverdueInstallments()
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, inst := range installments {
		if err := s.repo.MarkInstallmentOverdue(inst.ID); err != nil {
			log.Printf("Failed to mark installment %d overdue: %v", inst.ID, err)
			continue
		}
		marked++
	}
	return marked, nil
}

func (s *service) ownedLoan(userID, loanID uint) (*models.Loan, error) {
	loan, err := s.repo.GetByID(loanID)
	if err != nil {
		if err == repositories.ErrLoanNotFound {
			return nil, ErrLoanNotFound
		}
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	if loan.UserID != userID {
		return nil, ErrNotLoanOwner
	}
	return loan, nil
}

func (s *service) annualRate() float64 {
	if s.rates == nil {
		return s.defaultRate
	}
	rate, err := s.rates.GetKeyRate()
	if err != nil {
		log.Printf("Key rate unavailable, using default %.2f%%: %v", s.defaultRate, err)
		return s.defaultRate
	}
	return rate
}

// buildSchedule splits the loan amount into equal monthly installments,
// the last one absorbing the rounding remainder.
func buildSchedule(loan *models.Loan) []*models.ScheduledRepayment {
	base := loan.Amount / int64(loan.TermsMonths)
	installments := make([]*models.ScheduledRepayment, 0, loan.TermsMonths)

	for i := 1; i <= loan.TermsMonths; i++ {
		amount := base
		if i == loan.TermsMonths {
			amount = loan.Amount - base*int64(loan.TermsMonths-1)
		}
		installments = append(installments, &models.ScheduledRepayment{
			Amount:            amount,
			OutstandingAmount: amount,
			CurrencyCode:      loan.CurrencyCode,
			DueDate:           loan.ProcessedAt.AddDate(0, i, 0),
			Status:            models.StatusDue,
		})
	}
	return installments
}

// applyToInstallments settles installments oldest-first and returns the
// ones whose state changed.
func applyToInstallments(installments []*models.ScheduledRepayment, amount int64) []*models.ScheduledRepayment {
	remaining := amount
	var touched []*models.ScheduledRepayment

	for _, inst := range installments {
		if remaining == 0 {
			break
		}
		if inst.Status == models.StatusRepaid {
			continue
		}

		if remaining >= inst.OutstandingAmount {
			remaining -= inst.OutstandingAmount
			inst.OutstandingAmount = 0
			inst.Status = models.StatusRepaid
		} else {
			inst.OutstandingAmount -= remaining
			inst.Status = models.StatusPartial
			remaining = 0
		}
		touched = append(touched, inst)
	}
	return touched
}

func isKnownCurrency(code string) bool {
	for _, c := range models.Currencies {
		if c == code {
			return true
		}
	}
	return false
}
