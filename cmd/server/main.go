package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	swiftpayroot "github.com/swiftpay-app/swiftpay"
	"github.com/swiftpay-app/swiftpay/internal/config"
	"github.com/swiftpay-app/swiftpay/internal/events/kafka"
	"github.com/swiftpay-app/swiftpay/internal/handler"
	"github.com/swiftpay-app/swiftpay/internal/middleware"
	"github.com/swiftpay-app/swiftpay/internal/processor"
	"github.com/swiftpay-app/swiftpay/internal/service"
	"github.com/swiftpay-app/swiftpay/internal/storage"
	"github.com/swiftpay-app/swiftpay/internal/storage/memory"
	"github.com/swiftpay-app/swiftpay/internal/storage/postgres"
)

func main() {
	// Local overrides; absence is fine in production
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect storage
	var store storage.Store
	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		migrationsFS, err := fs.Sub(swiftpayroot.MigrationsFS, "migrations")
		if err != nil {
			slog.Error("failed to load embedded migrations", "error", err)
			os.Exit(1)
		}
		if err := postgres.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		store = postgres.NewStore(pool)
	} else {
		slog.Warn("DATABASE_URL not set, using in-memory store")
		store = memory.NewStore()
	}

	// Card tokenizer
	var tokenizer service.CardTokenizer
	if cfg.ProcessorEnabled {
		tokenizer = processor.NewClient(cfg.ProcessorURL, cfg.ProcessorKey)
	} else {
		slog.Warn("card processor not configured, using local tokenizer")
		tokenizer = processor.NewLocalTokenizer()
	}

	// Event publisher
	var publisher service.EventPublisher
	if cfg.EventsEnabled() {
		kafkaPublisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	// Initialize services
	transferService := service.NewTransferService(store, publisher)
	ledgerService := service.NewLedgerService(store)
	accountService := service.NewAccountService(store)
	profileService := service.NewProfileService(store)
	paymentMethodService := service.NewPaymentMethodService(store, tokenizer)

	// Initialize handler
	h := handler.New(handler.Deps{
		Transfers:      transferService,
		Ledger:         ledgerService,
		Accounts:       accountService,
		Profiles:       profileService,
		PaymentMethods: paymentMethodService,
	})

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(middleware.Recover())
	app.Use(middleware.Logging())
	h.Register(app)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		slog.Info("starting server", "addr", addr)
		if err := app.Listen(addr); err != nil {
			slog.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	// Graceful shutdown
	if err := app.ShutdownWithTimeout(config.ShutdownTimeout); err != nil {
		slog.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped gracefully")
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
