package notification

import (
	"context"
	"errors"
	"log/slog"
)

var ErrNoRecipients = errors.New("mail message has no recipients")

// Message is a single mail addressed to every recipient in To.
type Message struct {
	From    string   `json:"from,omitempty"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

type Sender interface {
	SendMails(ctx context.Context, msg Message) error
}

// LogSender only logs outgoing mail. It is the default transport for
// local environments without an SMTP relay.
type LogSender struct {
	logger *slog.Logger
}

var _ Sender = (*LogSender)(nil)

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger.With("component", "LogSender")}
}

func (s *LogSender) SendMails(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	s.logger.InfoContext(ctx, "Mail delivery skipped, logging message instead",
		slog.String("subject", msg.Subject),
		slog.Any("to", msg.To),
		slog.Int("bodySize", len(msg.Body)),
	)
	return nil
}
