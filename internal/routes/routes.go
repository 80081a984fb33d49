// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"finch/internal/config"
	"finch/internal/handlers"
	"finch/internal/integrations/rates"
	"finch/internal/middleware"
	"finch/internal/repositories"
	"finch/internal/services/auth"
	"finch/internal/services/debitcard"
	"finch/internal/services/loan"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Repositories
	userRepo := repositories.NewUserRepository(db, repositories.CacheService)
	cardRepo := repositories.NewDebitCardRepository(db, repositories.CacheService)
	cardTxRepo := repositories.NewDebitCardTransactionRepository(db)
	loanRepo := repositories.NewLoanRepository(db)

	// Services
	authService := auth.NewService(userRepo)
	cardService := debitcard.NewService(cardRepo, cardTxRepo)
	ratesClient := rates.NewClient(
		config.GetEnv("KEY_RATE_URL", "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"),
		config.GetFloatEnv("KEY_RATE_MARGIN", 5.0),
	)
	loanService := loan.NewService(loanRepo, ratesClient,
		config.GetFloatEnv("DEFAULT_ANNUAL_RATE", 10.0))

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	cardHandler := handlers.NewDebitCardHandler(cardService)
	cardTxHandler := handlers.NewDebitCardTransactionHandler(cardService)
	loanHandler := handlers.NewLoanHandler(loanService)
	ratesHandler := handlers.NewRatesHandler(ratesClient)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/register", authHandler.RegisterUser)
	api.Post("/login", authHandler.LoginUser)
	api.Post("/refresh", authHandler.RefreshToken)
	api.Get("/key-rate", ratesHandler.GetKeyRate)

	// Protected routes
	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/logout", authHandler.LogoutUser)
	protected.Post("/change-password", authHandler.ChangePassword)

	// Debit cards
	protected.Get("/debit-cards", cardHandler.ListCards)
	protected.Post("/debit-cards", cardHandler.CreateCard)
	protected.Get("/debit-cards/:id", cardHandler.GetCard)
	protected.Put("/debit-cards/:id", cardHandler.UpdateCard)
	protected.Delete("/debit-cards/:id", cardHandler.DeleteCard)

	// Debit card transactions
	protected.Get("/debit-card-transactions", cardTxHandler.ListTransactions)
	protected.Post("/debit-card-transactions", cardTxHandler.CreateTransaction)

	// Loans
	protected.Get("/loans", loanHandler.ListLoans)
	protected.Post("/loans", loanHandler.CreateLoan)
	protected.Get("/loans/:id", loanHandler.GetLoan)
	protected.Post("/loans/:id/repayments", loanHandler.RepayLoan)
}
