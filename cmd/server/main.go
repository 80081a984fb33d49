// Package main is the entry point for the API server.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"log"
	"time"

	"finch/internal/config"
	"finch/internal/repositories"
	"finch/internal/routes"
	"finch/internal/services/loan"
	"finch/internal/services/notification"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/robfig/cron/v3"
)

func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	// Clear the cache on startup so stale entries never survive a deploy.
	if repositories.CacheService != nil {
		if err := repositories.CacheService.FlushAll(context.Background()); err != nil {
			log.Printf("Failed to flush cache: %v", err)
		}
	}

	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Failed to close database connection: %v", err)
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("Failed to close Redis connection: %v", err)
			}
		}
	}()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	for _, path := range []string{"/api/register", "/api/login"} {
		app.Use(path, limiter.New(limiter.Config{
			Max:        5,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Too many requests. Please try again later.",
				})
			},
		}))
	}

	routes.SetupRoutes(app, repositories.DB)

	startOverdueWatcher()

	log.Fatal(app.Listen(":" + config.GetEnv("PORT", "3000")))
}

// startOverdueWatcher runs the hourly job that flags overdue
// installments and emails the borrowers.
func startOverdueWatcher() {
	loanRepo := repositories.NewLoanRepository(repositories.DB)
	userRepo := repositories.NewUserRepository(repositories.DB, repositories.CacheService)
	loanService := loan.NewService(loanRepo, nil,
		config.GetFloatEnv("DEFAULT_ANNUAL_RATE", 10.0))
	mailer := notification.NewSender()

	c := cron.New()
	_, err := c.AddFunc("@hourly", func() {
		overdue, err := loanRepo.GetOverdueInstallments()
		if err != nil {
			log.Printf("Overdue scan failed: %v", err)
			return
		}

		marked, err := loanService.MarkOverdue(context.Background())
		if err != nil {
			log.Printf("Overdue marking failed: %v", err)
			return
		}
		if marked > 0 {
			log.Printf("Marked %d installments overdue", marked)
		}

		for _, inst := range overdue {
			l, err := loanRepo.GetByID(inst.LoanID)
			if err != nil {
				continue
			}
			user, err := userRepo.GetByID(l.UserID)
			if err != nil {
				continue
			}
			if err := mailer.SendRepaymentReminder(user.Email, user.Name,
				inst.DueDate, inst.OutstandingAmount, inst.CurrencyCode); err != nil {
				log.Printf("Reminder for installment %d not sent: %v", inst.ID, err)
			}
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule overdue watcher: %v", err)
	}
	c.Start()
}
