package event

import (
	"context"
	"log/slog"

	"library-api/internal/infrastructure/monitoring"
	"library-api/internal/notification"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MailRequestHandler relays queued mail requests to a real transport.
type MailRequestHandler struct {
	sender notification.Sender
	logger *slog.Logger
}

func NewMailRequestHandler(sender notification.Sender, logger *slog.Logger) *MailRequestHandler {
	return &MailRequestHandler{
		sender: sender,
		logger: logger.With("component", "MailRequestHandler"),
	}
}

func (h *MailRequestHandler) HandleDelivery(ctx context.Context, d amqp.Delivery) {
	logCtx := h.logger.With(slog.Uint64("deliveryTag", d.DeliveryTag), slog.String("routingKey", d.RoutingKey))

	if d.RoutingKey != RoutingKeyMailRequested {
		logCtx.WarnContext(ctx, "Received message with unknown routing key. Discarding.")
		_ = d.Reject(false)
		monitoring.RecordMailRequestProcessed(monitoring.StatusSkipped)
		return
	}

	var event MailRequestedEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		logCtx.ErrorContext(ctx, "Failed to unmarshal MailRequestedEvent", "error", err, "body", string(d.Body))
		_ = d.Nack(false, false)
		monitoring.RecordMailRequestProcessed(monitoring.StatusError)
		return
	}

	logCtx = logCtx.With(slog.String("eventId", event.EventID), slog.Int("recipients", len(event.Message.To)))
	if err := h.sender.SendMails(ctx, event.Message); err != nil {
		logCtx.ErrorContext(ctx, "Failed to deliver queued mail", "error", err)
		_ = d.Nack(false, false)
		monitoring.RecordMailRequestProcessed(monitoring.StatusError)
		return
	}

	if err := d.Ack(false); err != nil {
		logCtx.ErrorContext(ctx, "Failed to acknowledge message after successful delivery", "error", err)
	} else {
		logCtx.InfoContext(ctx, "Successfully delivered and acknowledged mail request")
	}
	monitoring.RecordMailRequestProcessed(monitoring.StatusSuccess)
}
