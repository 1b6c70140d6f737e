package event

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"library-api/internal/notification"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	declared   []string
	published  []published
	publishErr error
	closed     int
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	c.declared = append(c.declared, name+":"+kind)
	return nil
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.published = append(c.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed++
	return nil
}

func newTestPublisher(t *testing.T, ch *fakeChannel) *RabbitMQEventPublisher {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p, err := newPublisher(func() (publisherChannel, error) { return ch, nil }, "library-api", logger)
	require.NoError(t, err)
	return p
}

func TestNewPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Declares topic exchange", func(t *testing.T) {
		ch := &fakeChannel{}
		newTestPublisher(t, ch)

		assert.Equal(t, []string{"library-api:" + amqp.ExchangeTopic}, ch.declared)
		assert.Equal(t, 1, ch.closed)
	})

	t.Run("Empty exchange name", func(t *testing.T) {
		_, err := newPublisher(func() (publisherChannel, error) { return &fakeChannel{}, nil }, "", logger)
		assert.Error(t, err)
	})

	t.Run("Channel open failure", func(t *testing.T) {
		_, err := newPublisher(func() (publisherChannel, error) { return nil, errors.New("closed") }, "x", logger)
		assert.Error(t, err)
	})

	t.Run("Nil connection", func(t *testing.T) {
		_, err := NewRabbitMQEventPublisher(nil, "x", logger)
		assert.Error(t, err)
	})
}

func TestRabbitMQEventPublisher_PublishLoanCreated(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(t, ch)
	evt := NewLoanCreatedEvent(LoanEventPayload{
		LoanID:   7,
		BookID:   3,
		Isbn:     "123",
		Customer: "Fulano",
		LoanDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	err := p.PublishLoanCreated(context.Background(), evt)

	require.NoError(t, err)
	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, "library-api", got.exchange)
	assert.Equal(t, RoutingKeyLoanCreated, got.key)
	assert.Equal(t, evt.EventID, got.msg.MessageId)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, "application/json", got.msg.ContentType)

	var decoded LoanCreatedEvent
	require.NoError(t, json.Unmarshal(got.msg.Body, &decoded))
	assert.Equal(t, int64(7), decoded.Payload.LoanID)
	assert.Equal(t, "123", decoded.Payload.Isbn)
}

func TestRabbitMQEventPublisher_PublishLoanReturnStatusChanged(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(t, ch)
	returned := false

	require.NoError(t, p.PublishLoanReturnStatusChanged(context.Background(),
		NewLoanReturnStatusChangedEvent(LoanEventPayload{LoanID: 1, Returned: &returned}, true)))

	require.Len(t, ch.published, 1)
	assert.Equal(t, RoutingKeyLoanReopened, ch.published[0].key)
}

func TestRabbitMQEventPublisher_SendMails(t *testing.T) {
	t.Run("Queues mail request", func(t *testing.T) {
		ch := &fakeChannel{}
		p := newTestPublisher(t, ch)

		err := p.SendMails(context.Background(), notification.Message{
			To:      []string{"a@example.com"},
			Subject: "Livro em atraso",
			Body:    "body",
		})

		require.NoError(t, err)
		require.Len(t, ch.published, 1)
		assert.Equal(t, RoutingKeyMailRequested, ch.published[0].key)

		var decoded MailRequestedEvent
		require.NoError(t, json.Unmarshal(ch.published[0].msg.Body, &decoded))
		assert.Equal(t, []string{"a@example.com"}, decoded.Message.To)
	})

	t.Run("No recipients", func(t *testing.T) {
		ch := &fakeChannel{}
		p := newTestPublisher(t, ch)

		err := p.SendMails(context.Background(), notification.Message{})

		assert.ErrorIs(t, err, notification.ErrNoRecipients)
		assert.Empty(t, ch.published)
	})

	t.Run("Publish failure", func(t *testing.T) {
		ch := &fakeChannel{}
		p := newTestPublisher(t, ch)
		ch.publishErr = errors.New("channel closed")

		err := p.SendMails(context.Background(), notification.Message{To: []string{"a@example.com"}})

		assert.ErrorContains(t, err, "failed to publish message")
	})
}
