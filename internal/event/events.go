package event

import (
	"context"
	"time"

	"library-api/internal/notification"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	RoutingKeyLoanCreated      = "loan.created"
	RoutingKeyLoanReturned     = "loan.returned"
	RoutingKeyLoanReopened     = "loan.reopened"
	RoutingKeyMailRequested    = "notification.mail.requested"
	publisherAppID             = "library-api"
	contentTypeApplicationJSON = "application/json"
)

type EventPublisher interface {
	PublishLoanCreated(ctx context.Context, event LoanCreatedEvent) error
	PublishLoanReturnStatusChanged(ctx context.Context, event LoanReturnStatusChangedEvent) error
}

type LoanEventPayload struct {
	LoanID        int64     `json:"loanId"`
	BookID        int64     `json:"bookId"`
	Isbn          string    `json:"isbn"`
	Customer      string    `json:"customer"`
	CustomerEmail string    `json:"customerEmail"`
	LoanDate      time.Time `json:"loanDate"`
	Returned      *bool     `json:"returned,omitempty"`
}

type LoanCreatedEvent struct {
	EventID   string           `json:"eventId"`
	Timestamp time.Time        `json:"timestamp"`
	Payload   LoanEventPayload `json:"payload"`
}

type LoanReturnStatusChangedEvent struct {
	EventID   string           `json:"eventId"`
	Timestamp time.Time        `json:"timestamp"`
	Reopened  bool             `json:"reopened"`
	Payload   LoanEventPayload `json:"payload"`
}

// RoutingKey separates regular returns from loans put back into circulation.
func (e LoanReturnStatusChangedEvent) RoutingKey() string {
	if e.Reopened {
		return RoutingKeyLoanReopened
	}
	return RoutingKeyLoanReturned
}

type MailRequestedEvent struct {
	EventID   string               `json:"eventId"`
	Timestamp time.Time            `json:"timestamp"`
	Message   notification.Message `json:"message"`
}

func NewLoanCreatedEvent(payload LoanEventPayload) LoanCreatedEvent {
	return LoanCreatedEvent{EventID: uuid.NewString(), Timestamp: time.Now(), Payload: payload}
}

func NewLoanReturnStatusChangedEvent(payload LoanEventPayload, reopened bool) LoanReturnStatusChangedEvent {
	return LoanReturnStatusChangedEvent{EventID: uuid.NewString(), Timestamp: time.Now(), Reopened: reopened, Payload: payload}
}

func NewMailRequestedEvent(msg notification.Message) MailRequestedEvent {
	return MailRequestedEvent{EventID: uuid.NewString(), Timestamp: time.Now(), Message: msg}
}
