/*
Package debitcard is the single authority for debit card access control
and lifecycle. Every operation takes the caller's user ID explicitly and
enforces ownership before touching state; the repositories carry no
authorization logic of their own.

Card state is encoded in DisabledAt: nil is active, a timestamp is
disabled since that time. Deactivating an already-disabled card
re-stamps the timestamp; that is the intended behavior. A card with
recorded transactions can never be deleted.
*/
package debitcard

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"finch/internal/models"
	"finch/internal/repositories"

	"github.com/google/uuid"
)

// Service manages debit cards and their transactions.
type Service interface {
	List(ctx context.Context, userID uint) ([]*models.DebitCard, error)
	Create(ctx context.Context, userID uint, cardType string) (*models.DebitCard, error)
	Get(ctx context.Context, userID, cardID uint) (*models.DebitCard, error)
	SetActive(ctx context.Context, userID, cardID uint, active bool) (*models.DebitCard, error)
	Delete(ctx context.Context, userID, cardID uint) error

	ListTransactions(ctx context.Context, userID, cardID uint) ([]*models.DebitCardTransaction, error)
	RecordTransaction(ctx context.Context, userID uint, input models.CreateDebitCardTransactionInput) (*models.DebitCardTransaction, error)
}

type service struct {
	cards repositories.DebitCardRepository
	txs   repositories.DebitCardTransactionRepository
	now   func() time.Time
}

// NewService creates a debit card service.
func NewService(cards repositories.DebitCardRepository, txs repositories.DebitCardTransactionRepository) Service {
	return &service{
		cards: cards,
		txs:   txs,
		now:   time.Now,
	}
}

func (s *service) List(ctx context.Context, userID uint) ([]*models.DebitCard, error) {
	return s.cards.GetByUserID(userID)
}

func (s *service) Create(ctx context.Context, userID uint, cardType string) (*models.DebitCard, error) {
	if !isKnownCardType(cardType) {
		return nil, ErrInvalidCardType
	}

	card := &models.DebitCard{
		UserID:         userID,
		Type:           cardType,
		Number:         generateCardNumber(cardType),
		ExpirationDate: s.now().AddDate(3, 0, 0),
		DisabledAt:     nil,
	}

	if err := s.cards.Create(card); err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}
	return card, nil
}

func (s *service) Get(ctx context.Context, userID, cardID uint) (*models.DebitCard, error) {
	card, err := s.cards.GetByID(cardID)
	if err != nil {
		if err == repositories.ErrCardNotFound {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	if card.UserID != userID {
		// Do not reveal anything about the card to non-owners.
		return nil, ErrNotCardOwner
	}
	return card, nil
}

func (s *service) SetActive(ctx context.Context, userID, cardID uint, active bool) (*models.DebitCard, error) {
	card, err := s.Get(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	// Deactivating always stamps the current time, even when the card
	// is already disabled. The repository applies the write with the
	// row locked; re-enabling an already-active card writes nothing.
	var disabledAt *time.Time
	if !active {
		now := s.now()
		disabledAt = &now
	}

	updated, err := s.cards.SetDisabledAt(card.ID, disabledAt)
	if err != nil {
		if err == repositories.ErrCardNotFound {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to update card: %w", err)
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, userID, cardID uint) error {
	card, err := s.Get(ctx, userID, cardID)
	if err != nil {
		return err
	}

	// The repository refuses the delete while transactions reference
	// the card; the check and the delete share one transaction.
	switch err := s.cards.Delete(card.ID); err {
	case nil:
		return nil
	case repositories.ErrCardInUse:
		return ErrCardHasTransactions
	case repositories.ErrCardNotFound:
		return ErrCardNotFound
	default:
		return fmt.Errorf("failed to delete card: %w", err)
	}
}

func (s *service) ListTransactions(ctx context.Context, userID, cardID uint) ([]*models.DebitCardTransaction, error) {
	if _, err := s.Get(ctx, userID, cardID); err != nil {
		return nil, err
	}
	return s.txs.GetByCardID(cardID)
}

func (s *service) RecordTransaction(ctx context.Context, userID uint, input models.CreateDebitCardTransactionInput) (*models.DebitCardTransaction, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !isKnownCurrency(input.CurrencyCode) {
		return nil, ErrInvalidCurrency
	}

	if _, err := s.Get(ctx, userID, input.DebitCardID); err != nil {
		return nil, err
	}

	tx := &models.DebitCardTransaction{
		DebitCardID:  input.DebitCardID,
		Amount:       input.Amount,
		CurrencyCode: input.CurrencyCode,
		Reference:    uuid.NewString(),
		OccurredAt:   s.now(),
	}

	if err := s.txs.Create(tx); err != nil {
		if err == repositories.ErrCardNotFound {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}
	return tx, nil
}

func isKnownCardType(cardType string) bool {
	for _, t := range models.CardTypes {
		if t == cardType {
			return true
		}
	}
	return false
}

func isKnownCurrency(code string) bool {
	for _, c := range models.Currencies {
		if c == code {
			return true
		}
	}
	return false
}

// iinPrefixes maps each network to its issuer identification prefix.
var iinPrefixes = map[string]string{
	models.CardTypeVisa:       "4",
	models.CardTypeMastercard: "51",
	models.CardTypeAmex:       "34",
	models.CardTypeDiscover:   "6011",
	models.CardTypeUnionPay:   "62",
}

// generateCardNumber produces a random 16-digit number in the
// network's issuer range.
func generateCardNumber(cardType string) string {
	var b strings.Builder
	b.WriteString(iinPrefixes[cardType])
	for b.Len() < 16 {
		b.WriteByte(byte('0' + rand.Intn(10)))
	}
	return b.String()
}
