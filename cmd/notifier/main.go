package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/ff-provenance/internal/adapter"
	"github.com/feral-file/ff-provenance/internal/config"
	"github.com/feral-file/ff-provenance/internal/dispatcher"
	"github.com/feral-file/ff-provenance/internal/logger"
	"github.com/feral-file/ff-provenance/internal/providers/jetstream"
	"github.com/feral-file/ff-provenance/internal/store"
	"github.com/feral-file/ff-provenance/internal/webhook"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadNotifierConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		Environment:     cfg.Environment,
		BreadcrumbLevel: zapcore.InfoLevel,
		Service:         "provenance-notifier",
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger.InfoCtx(ctx, "Starting notification dispatcher")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.Fatal("Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database")

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	httpClient := adapter.NewHTTPClient(cfg.Webhook.HTTPTimeout)
	signer := webhook.NewSigner(adapter.NewJCS())
	clock := adapter.NewClock()

	// Create dispatcher
	d, err := dispatcher.NewDispatcher(dispatcher.Config{
		NATS: jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
			MaxAge:         cfg.NATS.MaxAge,
		},
		ConsumerName:         cfg.NATS.ConsumerName,
		AckWaitTimeout:       cfg.NATS.AckWait,
		MaxDeliver:           cfg.NATS.MaxDeliver,
		WorkerPoolSize:       cfg.Worker.WorkerPoolSize,
		WorkerQueueSize:      cfg.Worker.WorkerQueueSize,
		InitialRetryInterval: cfg.Webhook.InitialRetryInterval,
		MaxRetryInterval:     cfg.Webhook.MaxRetryInterval,
	}, adapter.NewNatsJetStream(), dataStore, httpClient, signer, clock)
	if err != nil {
		logger.Fatal("Failed to create dispatcher", zap.Error(err))
	}
	defer d.Close()

	// Run dispatcher in a goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- d.Run(ctx)
	}()

	// Wait for interrupt signal or dispatcher failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
		// Wait for in-flight deliveries
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorCtx(context.Background(), err, zap.String("component", "dispatcher"))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorCtx(context.Background(), err, zap.String("component", "dispatcher"))
		}
		cancel()
	}

	logger.Info("Notification dispatcher stopped")
}
