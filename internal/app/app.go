package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daveharmswebdev/property-manager-sub008/config"
	"github.com/daveharmswebdev/property-manager-sub008/db"
	"github.com/daveharmswebdev/property-manager-sub008/internal/auth"
	"github.com/daveharmswebdev/property-manager-sub008/internal/rabbitmq"
	"github.com/daveharmswebdev/property-manager-sub008/internal/realtime"
	"github.com/daveharmswebdev/property-manager-sub008/internal/receipt"
	"github.com/daveharmswebdev/property-manager-sub008/internal/server"
	"github.com/daveharmswebdev/property-manager-sub008/pkg/logger"
)

func Start(cfg *config.Config) {
	// Logger
	log := logger.New()

	// DB
	dbPool := db.NewPostgres(cfg.Database.URL, log)

	// Migrate
	err := db.RunMigrations(dbPool)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// RabbitMQ
	rmq := rabbitmq.NewConnection(cfg.RabbitMQ.URL, log)

	// Realtime hub, registrar and publisher
	hub := realtime.NewHub(log)
	registrar := realtime.NewRegistrar(hub, log)
	notifier := realtime.NewGroupPublisher(hub)

	// Event relay for offline consumers
	relay := rabbitmq.NewEventRelay(rmq, log)

	// Receipt service
	receiptRepo := receipt.NewRepository(dbPool)
	receiptService := receipt.NewService(receiptRepo, notifier, relay, log)

	// Auth
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// HTTP Server
	srv := server.NewServer(cfg, receiptService, hub, registrar, jwtManager, log)

	// Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received. Starting graceful shutdown...")

	ctxTimeout, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 1. Stop the HTTP server
	if err := srv.Stop(ctxTimeout); err != nil {
		log.Warn().Err(err).Msg("HTTP server shutdown error")
	}
	log.Info().Msg("HTTP server stopped")

	// 2. Terminate all live real-time sessions
	hub.Close()

	// 3. Close connections
	rmq.Close()
	dbPool.Close()
	log.Info().Msg("Connections closed. Shutdown complete.")
}
