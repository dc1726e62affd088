package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/rahulpatwa/paisavest-backend/internal/adapter/http"
	"github.com/rahulpatwa/paisavest-backend/internal/adapter/repository/postgres"
	"github.com/rahulpatwa/paisavest-backend/internal/config"
	"github.com/rahulpatwa/paisavest-backend/internal/scheduler"
	"github.com/rahulpatwa/paisavest-backend/internal/usecase/auth"
	"github.com/rahulpatwa/paisavest-backend/internal/usecase/education"
	"github.com/rahulpatwa/paisavest-backend/internal/usecase/portfolio"
	"github.com/rahulpatwa/paisavest-backend/internal/usecase/seeder"
	"github.com/rahulpatwa/paisavest-backend/internal/usecase/wallet"
)

func main() {
	cfg, err := config.Load(os.Getenv("PV_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 1. Setup Database
	db, err := postgres.NewDB(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// 2. Initialize Repositories (Postgres)
	userRepo := postgres.NewUserRepository(db)
	investmentRepo := postgres.NewInvestmentRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)
	planRepo := postgres.NewPlanRepository(db)
	lessonRepo := postgres.NewLessonRepository(db)

	// 3. Initialize Services (Use Cases)
	authService := auth.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.TokenTTL(), cfg.Security.BcryptCost)
	walletService := wallet.NewWalletService(userRepo, investmentRepo, ledgerRepo, planRepo, db, nil)
	portfolioService := portfolio.NewPortfolioService(investmentRepo, nil)
	educationService := education.NewEducationService(lessonRepo, nil)

	// Seed the plan and lesson catalogs
	if err := seeder.NewCatalogSeeder(planRepo, lessonRepo).Seed(ctx); err != nil {
		log.Fatalf("Failed to seed catalogs: %v", err)
	}
	log.Println("Catalogs seeded successfully")

	// 4. Start the accrual scheduler
	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()

	runner := scheduler.NewAccrualRunner(investmentRepo, walletService, nil, cfg.Accrual.Interval(), cfg.Accrual.MaxConcurrent)
	go runner.Run(schedulerCtx)

	// 5. Start HTTP Server
	router := httpapi.SetupRouter(httpapi.Services{
		Auth:       authService,
		Wallet:     walletService,
		Portfolio:  portfolioService,
		Education:  educationService,
		PlanRepo:   planRepo,
		LedgerRepo: ledgerRepo,
		PageSize:   cfg.App.PageSize,
		GinMode:    cfg.Server.Mode,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Printf("HTTP server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve HTTP server: %v", err)
		}
	}()

	// Graceful shutdown
	waitForShutdown(server, stopScheduler)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *http.Server, stopScheduler context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal: %v. Shutting down gracefully...", sig)

	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Println("HTTP server stopped")
}
