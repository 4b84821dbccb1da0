package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
	"fintrack/internal/mirror"
)

// The worker consumes ledger events from the broker. Validation events are
// logged; mutation events trigger a fresh snapshot export to Google Sheets
// when a spreadsheet is configured.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New("worker")
	logger.Info("starting fintrack-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := backend.NewFactory(nil)
	result, err := factory.CreateStore(ctx, backend.Config{
		Type:          backend.Type(cfg.DataBackend),
		SQLiteDBPath:  cfg.SQLiteDBPath,
		DataDirectory: cfg.DataDirectory,
	})
	if err != nil {
		logger.Error("failed to initialize data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("backend cleanup failed", "error", err)
			}
		}()
	}
	store := result.Store

	var exporter *mirror.Exporter
	if os.Getenv("GOOGLE_SPREADSHEET_ID") != "" {
		exporter, err = mirror.NewFromEnv(ctx)
		if err != nil {
			logger.Error("failed to initialize sheets mirror", "error", err)
			os.Exit(1)
		}
		logger.Info("sheets mirror enabled")
	} else {
		logger.Info("sheets mirror disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	handler := func(e *amqp.Event) error {
		switch e.Kind {
		case amqp.KindValidation:
			logger.Warn("mutation rejected upstream", "message", e.Message)
			return nil
		case amqp.KindMutation:
			logger.Info("mutation applied", "op", e.Op, "count", e.Count)
			if exporter == nil {
				return nil
			}
			return exportSnapshot(ctx, store, exporter)
		default:
			logger.Warn("unknown event kind", "kind", e.Kind)
			return nil
		}
	}

	err = client.ConsumeEvents(ctx, handler)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("event consumption failed", "error", err)
		os.Exit(1)
	}
	logger.Info("worker stopped gracefully")
}

func exportSnapshot(ctx context.Context, store ledger.Store, exporter *mirror.Exporter) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	records, err := store.Load(ctx)
	if err != nil {
		return err
	}
	goal, hasGoal, err := store.Goal(ctx)
	if err != nil {
		return err
	}
	return exporter.Export(ctx, records, goal, hasGoal)
}
