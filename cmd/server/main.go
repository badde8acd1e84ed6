package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wealthlens/wealthlens/internal/clients/quotes"
	"github.com/wealthlens/wealthlens/internal/config"
	"github.com/wealthlens/wealthlens/internal/database"
	"github.com/wealthlens/wealthlens/internal/events"
	"github.com/wealthlens/wealthlens/internal/jobs"
	"github.com/wealthlens/wealthlens/internal/modules/analytics"
	"github.com/wealthlens/wealthlens/internal/modules/goals"
	"github.com/wealthlens/wealthlens/internal/modules/history"
	"github.com/wealthlens/wealthlens/internal/modules/investments"
	"github.com/wealthlens/wealthlens/internal/modules/prices"
	"github.com/wealthlens/wealthlens/internal/modules/recommendations"
	"github.com/wealthlens/wealthlens/internal/modules/risk"
	"github.com/wealthlens/wealthlens/internal/modules/simulation"
	"github.com/wealthlens/wealthlens/internal/modules/transactions"
	"github.com/wealthlens/wealthlens/internal/scheduler"
	"github.com/wealthlens/wealthlens/internal/server"
	"github.com/wealthlens/wealthlens/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting WealthLens")

	// Application database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Quote archive lives in its own database file
	priceArchive, err := prices.NewHistoryDB(cfg.PricesDBPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open price history database")
	}
	defer priceArchive.Close()

	// Repositories
	goalRepo := goals.NewRepository(db.Conn(), log)
	investmentRepo := investments.NewRepository(db.Conn(), log)
	transactionRepo := transactions.NewRepository(db.Conn(), log)
	historyRepo := history.NewRepository(db.Conn(), log)
	simulationRepo := simulation.NewRepository(db.Conn(), log)
	riskRepo := risk.NewRepository(db.Conn(), log)

	if err := riskRepo.SeedQuestions(); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed risk questionnaire")
	}

	// Services
	eventBus := events.NewManager(200, log)
	quoteClient := quotes.NewClient(cfg.QuotesBaseURL, log)
	investmentService := investments.NewService(investmentRepo, quoteClient, eventBus, log)
	transactionService := transactions.NewService(transactionRepo, investmentRepo, eventBus, log)
	historyService := history.NewService(log)
	riskService := risk.NewService(riskRepo, eventBus, log)
	recommendationService := recommendations.NewService(investmentRepo, riskRepo, cfg.DriftThresholdPct, log)
	analyticsService := analytics.NewService(historyRepo, investmentRepo, goalRepo,
		recommendationService, historyService, log)

	// Background jobs
	sched := scheduler.New(log)
	valuation := jobs.NewValuationJob(investmentService, historyRepo, priceArchive, eventBus, log)
	if err := sched.Register(cfg.SnapshotCron, valuation); err != nil {
		log.Fatal().Err(err).Msg("Failed to register valuation job")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Port:    cfg.Port,
		DevMode: cfg.DevMode,
		Log:     log,
		Events:  eventBus,
		Handlers: server.Handlers{
			Analytics:       analytics.NewHandler(analyticsService, log),
			Goals:           goals.NewHandler(goalRepo, eventBus, log),
			Investments:     investments.NewHandler(investmentRepo, investmentService, log),
			Transactions:    transactions.NewHandler(transactionService, log),
			Simulations:     simulation.NewHandler(simulationRepo, eventBus, log),
			Recommendations: recommendations.NewHandler(recommendationService, log),
			Risk:            risk.NewHandler(riskService, log),
		},
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
