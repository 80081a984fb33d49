package repositories

import (
	"context"
	"fmt"
	"log"
	"time"

	"finch/internal/models"
	"finch/internal/repositories/cache"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type debitCardRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

func NewDebitCardRepository(db *gorm.DB, cache *cache.CacheService) DebitCardRepository {
	return &debitCardRepository{
		db:    db,
		cache: cache,
	}
}

func (r *debitCardRepository) Create(card *models.DebitCard) error {
	return r.db.Create(card).Error
}

func (r *debitCardRepository) GetByID(cardID uint) (*models.DebitCard, error) {
	if r.cache != nil {
		if card, err := r.cache.GetCard(context.Background(), cardID); err == nil {
			return card, nil
		}
	}

	var card models.DebitCard
	if err := r.db.First(&card, cardID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.CacheCard(context.Background(), &card); err != nil {
			log.Printf("Failed to cache card %d: %v", card.ID, err)
		}
	}

	return &card, nil
}

func (r *debitCardRepository) GetByUserID(userID uint) ([]*models.DebitCard, error) {
	var cards []*models.DebitCard
	if err := r.db.Where("user_id = ?", userID).Order("id").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("failed to get user cards: %w", err)
	}
	return cards, nil
}

// SetDisabledAt writes the disabled timestamp with the card row locked,
// so concurrent toggles cannot interleave between the read and the
// write. A nil value re-enables the card; an already-active card is
// left untouched.
func (r *debitCardRepository) SetDisabledAt(cardID uint, disabledAt *time.Time) (*models.DebitCard, error) {
	var card models.DebitCard
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&card, cardID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrCardNotFound
			}
			return fmt.Errorf("failed to lock card: %w", err)
		}
		if disabledAt == nil && card.DisabledAt == nil {
			return nil
		}
		card.DisabledAt = disabledAt
		return tx.Save(&card).Error
	})
	if err != nil {
		return nil, err
	}
	r.invalidate(cardID)
	return &card, nil
}

// Delete removes the card only while no transaction references it. The
// existence check and the delete run in one transaction with the card
// row locked, so a transaction recorded concurrently cannot slip in
// between them; transaction inserts lock the same row.
func (r *debitCardRepository) Delete(cardID uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var card models.DebitCard
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&card, cardID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrCardNotFound
			}
			return fmt.Errorf("failed to lock card: %w", err)
		}
		var count int64
		if err := tx.Model(&models.DebitCardTransaction{}).
			Where("debit_card_id = ?", cardID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count card transactions: %w", err)
		}
		if count > 0 {
			return ErrCardInUse
		}
		return tx.Delete(&card).Error
	})
	if err != nil {
		return err
	}
	r.invalidate(cardID)
	return nil
}

func (r *debitCardRepository) invalidate(cardID uint) {
	if r.cache == nil {
		return
	}
	if err := r.cache.InvalidateCard(context.Background(), cardID); err != nil {
		log.Printf("Failed to invalidate card cache %d: %v", cardID, err)
	}
}

type debitCardTransactionRepository struct {
	db *gorm.DB
}

func NewDebitCardTransactionRepository(db *gorm.DB) DebitCardTransactionRepository {
	return &debitCardTransactionRepository{db: db}
}

// Create inserts the transaction with its card row locked, serializing
// against a concurrent Delete of the same card. Once Delete has taken
// the lock the insert sees the card gone and fails instead of leaving
// an orphaned row.
func (r *debitCardTransactionRepository) Create(txn *models.DebitCardTransaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var card models.DebitCard
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&card, txn.DebitCardID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrCardNotFound
			}
			return fmt.Errorf("failed to lock card: %w", err)
		}
		return tx.Create(txn).Error
	})
}

func (r *debitCardTransactionRepository) GetByCardID(cardID uint) ([]*models.DebitCardTransaction, error) {
	var txs []*models.DebitCardTransaction
	if err := r.db.Where("debit_card_id = ?", cardID).Order("id").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to get card transactions: %w", err)
	}
	return txs, nil
}
