// Command mailer consumes mail requests queued by the API on RabbitMQ and
// delivers them over SMTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"library-api/internal/config"
	"library-api/internal/event"
	"library-api/internal/infrastructure/logging"
	"library-api/internal/notification"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, logger := initializeConfigAndLogger()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rabbitConn, err := event.Dial(cfg.RabbitMQ, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeRabbitMQ(rabbitConn, logger)

	handler := event.NewMailRequestHandler(newMailSender(cfg.Mail, logger), logger)
	consumer, err := event.NewConsumer(
		rabbitConn,
		cfg.RabbitMQ.ExchangeName,
		cfg.RabbitMQ.QueueName,
		cfg.RabbitMQ.ConsumerTag,
		[]string{event.RoutingKeyMailRequested},
		handler.HandleDelivery,
		logger,
	)
	if err != nil {
		logger.Error("Failed to create RabbitMQ consumer", slog.Any("error", err))
		os.Exit(1)
	}

	server := newMetricsServer(cfg.Metrics)
	go func() {
		logger.Info("Serving metrics", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", slog.Any("error", err))
			stop()
		}
	}()

	if err := consumer.Start(ctx); err != nil {
		logger.Error("Failed to start RabbitMQ consumer", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Mailer started. Waiting for mail requests...")

	<-ctx.Done()
	logger.Info("Shutdown signal received. Initiating graceful shutdown...")
	consumer.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down metrics server", slog.Any("error", err))
	}
	logger.Info("Mailer shut down gracefully.")
}

func initializeConfigAndLogger() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := logging.NewLogger(cfg.Logger).With("service", "mailer")
	slog.SetDefault(logger)
	logger.Info("Configuration loaded successfully")
	return cfg, logger
}

// newMailSender delivers over SMTP when a host is configured and only logs
// otherwise.
func newMailSender(cfg config.MailConfig, logger *slog.Logger) notification.Sender {
	if cfg.SMTP.Host == "" {
		logger.Warn("No SMTP host configured; queued mails will only be logged")
		return notification.NewLogSender(logger)
	}
	return notification.NewSMTPSender(cfg, logger)
}

func newMetricsServer(cfg config.MetricsConfig) *http.Server {
	path := cfg.Path
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func closeRabbitMQ(conn *amqp.Connection, logger *slog.Logger) {
	logger.Info("Closing RabbitMQ connection...")
	if err := conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		logger.Error("Error closing RabbitMQ connection", slog.Any("error", err))
	}
}
