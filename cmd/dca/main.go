package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crypto-dca-bot-go/internal/config"
	"crypto-dca-bot-go/internal/database"
	"crypto-dca-bot-go/internal/engine"
	"crypto-dca-bot-go/internal/executor"
	"crypto-dca-bot-go/internal/logger"
	"crypto-dca-bot-go/internal/models"
	"crypto-dca-bot-go/internal/oracle"
	"go.uber.org/zap"
)

func main() {
	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connection successful and schema migrated.")

	// Initialize price oracle
	priceOracle := oracle.NewRestClient(&cfg.Oracle, log.Named("oracle"))
	if _, err := priceOracle.FetchPrice(context.Background(), models.AssetBTC); err != nil {
		// Not fatal: the engine falls back to static prices per asset.
		log.Warn("Price feed unreachable at startup, static fallback prices will be used", zap.Error(err))
	} else {
		log.Info("Successfully connected to price feed.")
	}

	// Initialize chain executors
	executors, err := executor.NewSimulatedRegistry(log)
	if err != nil {
		log.Fatal("Failed to build executor registry", zap.Error(err))
	}

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Wire the engine and expose it over HTTP
	dcaEngine := engine.NewEngine(db, priceOracle, executors, log.Named("engine"))
	apiServer := engine.NewAPIServer(dcaEngine, log, cfg.Server.Port)
	apiServer.Start()

	// The engine is passive; this loop is the external driver.
	interval := time.Duration(cfg.Scheduler.TickInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Info("Starting scheduler loop", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := apiServer.Stop(shutdownCtx); err != nil {
				log.Error("API server shutdown failed", zap.Error(err))
			}
			shutdownCancel()
			log.Info("Bot has been shut down.")
			return
		case <-ticker.C:
			executed := dcaEngine.Tick(ctx, time.Now().Unix())
			if executed > 0 {
				log.Info("Scheduled executions completed", zap.Int("executed", executed))
			}
		}
	}
}
