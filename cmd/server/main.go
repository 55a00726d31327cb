package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Stewz00/go-account-service/internal/config"
	"github.com/Stewz00/go-account-service/internal/database"
	"github.com/Stewz00/go-account-service/internal/handler"
	"github.com/Stewz00/go-account-service/internal/hasher"
	"github.com/Stewz00/go-account-service/internal/interfaces"
	"github.com/Stewz00/go-account-service/internal/logger"
	"github.com/Stewz00/go-account-service/internal/metrics"
	"github.com/Stewz00/go-account-service/internal/repository"
	"github.com/Stewz00/go-account-service/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(log)

	// Open the account store; the handle lives until shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	accounts, closeStore, err := openStore(ctx, cfg)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to open account store: %w", err)
	}
	defer closeStore()

	passwords, err := hasher.New(cfg.PasswordAlgorithm, cfg.BcryptCost)
	if err != nil {
		return err
	}

	// Initialize services and handlers
	m := metrics.New()
	accountService := service.NewAccountService(accounts, passwords, log)
	accountHandler := handler.NewAccountHandler(accountService, m, cfg.DetailedErrors)

	// Create server with timeouts
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(accountHandler, log, m),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	log.Info("server is shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited properly")
	return nil
}

// openStore builds the repository for the configured backend and returns the
// function that releases the underlying handle.
func openStore(ctx context.Context, cfg *config.Config) (interfaces.AccountRepository, func(), error) {
	opts := repository.Options{
		Timeout:           cfg.StoreTimeout,
		ConditionalInsert: cfg.ConditionalInsert,
		RequireExisting:   cfg.RequireExisting(),
	}

	switch cfg.StoreBackend {
	case config.BackendDynamoDB:
		db, err := database.NewDynamoDB(ctx, cfg.DynamoDB)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewDynamoAccountRepository(db.Client, db.Table, opts), db.Close, nil
	case config.BackendPostgres:
		db, err := database.New(ctx, cfg.DbURL)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresAccountRepository(db, opts), db.Close, nil
	default:
		return repository.NewMemoryAccountRepository(opts), func() {}, nil
	}
}
