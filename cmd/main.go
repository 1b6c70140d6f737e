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

	"library-api/internal/api"
	"library-api/internal/batch"
	"library-api/internal/config"
	"library-api/internal/domain/book"
	"library-api/internal/domain/loan"
	"library-api/internal/event"
	"library-api/internal/infrastructure/database/postgres"
	"library-api/internal/infrastructure/logging"
	"library-api/internal/notification"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

const (
	defaultLateLoansTimeout = 10 * time.Minute
	redisPingTimeout        = 5 * time.Second
)

// @title Library API
// @version 1.0
// @description Books, loans and late loan notifications.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, logger := initializeApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPool := initializeDatabase(ctx, cfg, logger)
	defer closeDatabase(dbPool, logger)

	rabbitConn := initializeRabbitMQ(cfg.RabbitMQ, logger)
	defer closeRabbitMQ(rabbitConn, logger)

	redisClient := initializeRedis(ctx, cfg.Redis, logger)
	defer closeRedis(redisClient, logger)

	publisher := initializePublisher(rabbitConn, cfg.RabbitMQ, logger)
	bookService, loanService := initializeServices(dbPool, publisher, logger)

	sender := selectMailSender(cfg.Mail, publisher, logger)
	lateLoansJob := batch.NewLateLoanNotificationJob(loanService, sender, cfg.Mail, logger)
	cronScheduler := startBatchJobs(cfg, logger, lateLoansJob)

	var limiterStore redis.Cmdable
	if redisClient != nil {
		limiterStore = redisClient
	}
	router := api.SetupRouter(ctx, bookService, loanService, cfg, limiterStore, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	slog.SetDefault(logger)
	logger.Info("Application starting...", "port", cfg.Server.Port, "mail_transport", cfg.Mail.Transport)

	return cfg, logger
}

func initializeDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	logger.Info("Initializing database connection pool...")
	dbPool, err := postgres.NewConnectionPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}

	if cfg.Database.AutoMigrate {
		if err := postgres.ApplySchema(ctx, dbPool, logger); err != nil {
			logger.Error("Failed to apply database schema", "error", err)
			dbPool.Close()
			os.Exit(1)
		}
	}
	return dbPool
}

func closeDatabase(dbPool *pgxpool.Pool, logger *slog.Logger) {
	logger.Info("Closing database connection pool...")
	dbPool.Close()
}

// initializeRabbitMQ returns nil when the broker is disabled.
func initializeRabbitMQ(cfg config.RabbitMQConfig, logger *slog.Logger) *amqp.Connection {
	if !cfg.Enabled {
		logger.Info("RabbitMQ disabled; loan events will not be published.")
		return nil
	}
	conn, err := event.Dial(cfg, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", slog.Any("error", err))
		os.Exit(1)
	}
	return conn
}

func closeRabbitMQ(conn *amqp.Connection, logger *slog.Logger) {
	if conn == nil {
		return
	}
	logger.Info("Closing RabbitMQ connection...")
	if err := conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		logger.Error("Error closing RabbitMQ connection", slog.Any("error", err))
	}
}

// initializeRedis returns nil when no address is configured or the server
// cannot be reached; rate limiting then falls back to process memory.
func initializeRedis(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error("Redis unreachable; using in-memory rate limiting", "addr", cfg.Addr, slog.Any("error", err))
		_ = client.Close()
		return nil
	}

	logger.Info("Redis connection established.", "addr", cfg.Addr)
	return client
}

func closeRedis(client *redis.Client, logger *slog.Logger) {
	if client == nil {
		return
	}
	logger.Info("Closing Redis client...")
	if err := client.Close(); err != nil {
		logger.Error("Error closing Redis client", slog.Any("error", err))
	}
}

func initializePublisher(conn *amqp.Connection, cfg config.RabbitMQConfig, logger *slog.Logger) *event.RabbitMQEventPublisher {
	if conn == nil {
		return nil
	}
	publisher, err := event.NewRabbitMQEventPublisher(conn, cfg.ExchangeName, logger)
	if err != nil {
		logger.Error("Failed to create RabbitMQ event publisher", slog.Any("error", err))
		os.Exit(1)
	}
	return publisher
}

func initializeServices(dbPool *pgxpool.Pool, publisher *event.RabbitMQEventPublisher, logger *slog.Logger) (book.BookService, loan.LoanService) {
	logger.Info("Initializing application components...")
	bookRepo := postgres.NewBookRepository(dbPool, logger)
	loanRepo := postgres.NewLoanRepository(dbPool, logger)

	var loanEvents event.EventPublisher
	if publisher != nil {
		loanEvents = publisher
	}

	return book.NewBookService(bookRepo, logger), loan.NewLoanService(loanRepo, loanEvents, logger)
}

// selectMailSender picks the late loan mail transport. The rabbitmq
// transport hands mails to the mailer process and needs a publisher.
func selectMailSender(cfg config.MailConfig, publisher *event.RabbitMQEventPublisher, logger *slog.Logger) notification.Sender {
	switch cfg.Transport {
	case config.MailTransportSMTP:
		logger.Info("Late loan mails sent over SMTP", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)
		return notification.NewSMTPSender(cfg, logger)
	case config.MailTransportRabbitMQ:
		if publisher != nil {
			logger.Info("Late loan mails queued on RabbitMQ")
			return publisher
		}
		logger.Warn("Mail transport rabbitmq requires rabbitmq.enabled; falling back to log transport")
	case config.MailTransportLog, "":
	default:
		logger.Warn("Unknown mail transport; falling back to log transport", "transport", cfg.Transport)
	}
	return notification.NewLogSender(logger)
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "port", cfg.Server.Port)
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	var triggerReason string
	select {
	case sig := <-shutdownChan:
		triggerReason = "signal: " + sig.String()
		logger.Info("Shutdown signal received.", "signal", sig.String())
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		triggerReason = "server exited"
		logger.Info("Server goroutine finished before signal.", "error", err)
	}

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}

	logger.Info("Application shutdown process complete.")
}

// startBatchJobs schedules the late loan reminder on a fixed daily cron.
func startBatchJobs(cfg *config.Config, logger *slog.Logger, job *batch.LateLoanNotificationJob) *cron.Cron {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	jobTimeout := cfg.Batch.LateLoansTimeout
	if jobTimeout <= 0 {
		jobTimeout = defaultLateLoansTimeout
	}

	jobID, err := c.AddJob(batch.LateLoansSchedule, cron.FuncJob(func() {
		jobLogger := logger.With("job_name", "LateLoanNotification")
		jobLogger.Info("Cron triggered: Running late loan notification job.")

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if runErr := job.Run(ctx); runErr != nil {
			jobLogger.Error("Late loan notification job finished with error", slog.Any("error", runErr))
		} else {
			jobLogger.Info("Late loan notification job finished successfully.")
		}
	}))
	if err != nil {
		logger.Error("Failed to schedule late loan notification job", "schedule", batch.LateLoansSchedule, slog.Any("error", err))
	} else {
		logger.Info("Scheduled late loan notification job", "schedule", batch.LateLoansSchedule, "job_id", jobID, "timeout", jobTimeout)
	}

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}
