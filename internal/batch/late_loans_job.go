package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"library-api/internal/config"
	"library-api/internal/domain/loan"
	"library-api/internal/infrastructure/monitoring"
	"library-api/internal/notification"
)

// LateLoansSchedule runs the reminder every day at midnight.
const LateLoansSchedule = "0 0 * * *"

type LateLoanNotificationJob struct {
	loanService loan.LoanService
	sender      notification.Sender
	mail        config.MailConfig
	logger      *slog.Logger
}

func NewLateLoanNotificationJob(
	loanSvc loan.LoanService,
	sender notification.Sender,
	mail config.MailConfig,
	logger *slog.Logger,
) *LateLoanNotificationJob {
	if loanSvc == nil || sender == nil || logger == nil {
		panic("LateLoanNotificationJob dependencies cannot be nil")
	}
	return &LateLoanNotificationJob{
		loanService: loanSvc,
		sender:      sender,
		mail:        mail,
		logger:      logger.With("job", "LateLoanNotification"),
	}
}

// Run sends one reminder addressed to the customer of every late loan.
func (j *LateLoanNotificationJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting late loan notification job.")

	lateLoans, err := j.loanService.GetAllLateLoans(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to fetch late loans, aborting job.", slog.Any("error", err))
		monitoring.RecordLateLoanNotification(monitoring.StatusError, 0)
		return fmt.Errorf("cannot run job, failed to get late loans: %w", err)
	}
	j.logger.InfoContext(ctx, "Fetched late loans.", slog.Int("count", len(lateLoans)))

	if len(lateLoans) == 0 {
		j.logger.InfoContext(ctx, "No late loans found, nothing to send.",
			slog.Duration("duration", time.Since(startTime)))
		monitoring.RecordLateLoanNotification(monitoring.StatusSkipped, 0)
		return nil
	}

	recipients := make([]string, 0, len(lateLoans))
	for _, l := range lateLoans {
		recipients = append(recipients, l.CustomerEmail)
	}

	msg := notification.Message{
		From:    j.mail.From,
		To:      recipients,
		Subject: j.mail.LateLoansSubject,
		Body:    j.mail.LateLoansMessage,
	}
	if err := j.sender.SendMails(ctx, msg); err != nil {
		j.logger.ErrorContext(ctx, "Failed to send late loan notification.",
			slog.Int("recipients", len(recipients)), slog.Any("error", err))
		monitoring.RecordLateLoanNotification(monitoring.StatusError, 0)
		return fmt.Errorf("failed to send late loan notification: %w", err)
	}

	monitoring.RecordLateLoanNotification(monitoring.StatusSuccess, len(recipients))
	j.logger.InfoContext(ctx, "Late loan notification job finished successfully.",
		slog.Int("recipients", len(recipients)),
		slog.Duration("duration", time.Since(startTime)))
	return nil
}
