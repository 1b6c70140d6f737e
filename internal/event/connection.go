package event

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"

	"library-api/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

// BrokerURI builds the AMQP URI for cfg. Credentials are escaped.
func BrokerURI(cfg config.RabbitMQConfig) string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/",
	}
	return u.String()
}

// Dial connects to the broker and logs when the connection drops.
func Dial(cfg config.RabbitMQConfig, logger *slog.Logger) (*amqp.Connection, error) {
	logger.Info("Connecting to RabbitMQ", "host", cfg.Host, "port", cfg.Port)

	conn, err := amqp.Dial(BrokerURI(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	logger.Info("RabbitMQ connection established.")

	go func() {
		closeErr, ok := <-conn.NotifyClose(make(chan *amqp.Error, 1))
		if ok && closeErr != nil {
			logger.Error("RabbitMQ connection closed unexpectedly", slog.Any("error", closeErr))
		}
	}()

	return conn, nil
}
