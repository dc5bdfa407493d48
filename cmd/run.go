package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"creditsvc/api"
	"creditsvc/config"
	"creditsvc/database"
	"creditsvc/events"
	"creditsvc/repository"
	"creditsvc/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting credit service...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()
	registerEventLogging(eventBus)

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	log.Println("Initializing services...")
	validator := service.NewBonusValidator(cfg.BonusRetentionDays)
	profileService := service.NewProfileService(uowFactory)
	creditService := service.NewCreditService(uowFactory, validator, cfg.LedgerHistoryLimit)
	log.Println("Services initialized successfully")

	// Periodically evict stale bonus claim records
	go runValidatorCleanup(ctx, validator, cfg.CleanupInterval)

	// Initialize HTTP server
	server := api.NewServer(cfg, profileService, creditService, db)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	log.Printf("Service is running in %s mode...", cfg.Environment)
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			db.Close()
			return fmt.Errorf("http server error: %w", err)
		}
	}

	// Cleanup resources
	log.Println("Shutting down service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	log.Println("Closing database connection...")
	db.Close()

	log.Println("Shutdown completed")
	return nil
}

// runValidatorCleanup evicts expired daily bonus claim records on a timer
func runValidatorCleanup(ctx context.Context, validator *service.BonusValidator, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := validator.Cleanup(); removed > 0 {
				log.Printf("Evicted %d stale bonus claim records", removed)
			}
		}
	}
}
