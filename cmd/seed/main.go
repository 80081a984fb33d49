// Command seed populates the database with demo users, debit cards,
// card transactions and loans.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"finch/internal/config"
	"finch/internal/models"
	"finch/internal/repositories"
	"finch/internal/services/debitcard"
	"finch/internal/services/loan"

	"golang.org/x/crypto/bcrypt"
)

const (
	numUsers        = 40
	numCards        = 50
	numTransactions = 50
	numLoans        = 50
)

func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	userRepo := repositories.NewUserRepository(repositories.DB, repositories.CacheService)
	cardRepo := repositories.NewDebitCardRepository(repositories.DB, repositories.CacheService)
	cardTxRepo := repositories.NewDebitCardTransactionRepository(repositories.DB)
	loanRepo := repositories.NewLoanRepository(repositories.DB)

	cardService := debitcard.NewService(cardRepo, cardTxRepo)
	loanService := loan.NewService(loanRepo, nil,
		config.GetFloatEnv("DEFAULT_ANNUAL_RATE", 10.0))

	ctx := context.Background()

	hashed, err := bcrypt.GenerateFromPassword([]byte(config.GetEnv("SEED_PASSWORD", "password")), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash seed password:", err)
	}

	users := make([]*models.User, 0, numUsers)
	for i := 1; i <= numUsers; i++ {
		user := &models.User{
			Name:         fmt.Sprintf("User %d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			Password:     string(hashed),
			TokenVersion: 1,
		}
		if err := userRepo.Create(user); err != nil {
			log.Fatalf("Failed to create user %d: %v", i, err)
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users", len(users))

	cards := make([]*models.DebitCard, 0, numCards)
	for i := 0; i < numCards; i++ {
		owner := users[rand.Intn(len(users))]
		cardType := models.CardTypes[rand.Intn(len(models.CardTypes))]
		card, err := cardService.Create(ctx, owner.ID, cardType)
		if err != nil {
			log.Fatalf("Failed to create card: %v", err)
		}
		cards = append(cards, card)
	}
	log.Printf("Seeded %d debit cards", len(cards))

	for i := 0; i < numTransactions; i++ {
		card := cards[rand.Intn(len(cards))]
		_, err := cardService.RecordTransaction(ctx, card.UserID, models.CreateDebitCardTransactionInput{
			DebitCardID:  card.ID,
			Amount:       int64(rand.Intn(100_000) + 1),
			CurrencyCode: models.Currencies[rand.Intn(len(models.Currencies))],
		})
		if err != nil {
			log.Fatalf("Failed to record transaction: %v", err)
		}
	}
	log.Printf("Seeded %d card transactions", numTransactions)

	for i := 0; i < numLoans; i++ {
		borrower := users[rand.Intn(len(users))]
		processedAt := time.Now().AddDate(0, -rand.Intn(6), 0).Format("2006-01-02")
		_, err := loanService.Create(ctx, borrower.ID, models.CreateLoanInput{
			Amount:       int64(rand.Intn(9_000) + 1_000),
			CurrencyCode: models.Currencies[rand.Intn(len(models.Currencies))],
			TermsMonths:  []int{3, 6, 12}[rand.Intn(3)],
			ProcessedAt:  processedAt,
		})
		if err != nil {
			log.Fatalf("Failed to create loan: %v", err)
		}
	}
	log.Printf("Seeded %d loans", numLoans)
}
