package notification

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"library-api/internal/config"

	"github.com/wneessen/go-mail"
)

// SMTPSender delivers mail through an SMTP relay, upgrading to TLS when the
// server offers STARTTLS.
type SMTPSender struct {
	host    string
	port    int
	from    string
	options []mail.Option
	logger  *slog.Logger
}

var _ Sender = (*SMTPSender)(nil)

func NewSMTPSender(cfg config.MailConfig, logger *slog.Logger) *SMTPSender {
	options := []mail.Option{
		mail.WithPort(cfg.SMTP.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.SMTP.Username != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTP.Username),
			mail.WithPassword(cfg.SMTP.Password),
		)
	}
	return &SMTPSender{
		host:    cfg.SMTP.Host,
		port:    cfg.SMTP.Port,
		from:    cfg.From,
		options: options,
		logger:  logger.With("component", "SMTPSender"),
	}
}

func (s *SMTPSender) SendMails(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	if msg.From == "" {
		msg.From = s.from
	}
	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	logCtx := s.logger.With(slog.String("addr", addr), slog.Int("recipients", len(msg.To)))

	m, err := newMailMessage(msg)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to build mail message", slog.Any("error", err))
		return err
	}

	client, err := mail.NewClient(s.host, s.options...)
	if err != nil {
		return fmt.Errorf("failed to configure smtp client for %s: %w", addr, err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		logCtx.ErrorContext(ctx, "Failed to deliver mail", slog.Any("error", err))
		return fmt.Errorf("failed to deliver mail via %s: %w", addr, err)
	}

	logCtx.InfoContext(ctx, "Mail delivered", slog.String("subject", msg.Subject))
	return nil
}

func newMailMessage(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", msg.From, err)
	}
	if err := m.SetAddrHeader(mail.HeaderTo, msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipient list: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	return m, nil
}
