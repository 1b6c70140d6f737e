package batch_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"library-api/internal/batch"
	"library-api/internal/config"
	"library-api/internal/domain/book"
	"library-api/internal/domain/loan"
	"library-api/internal/notification"
	"library-api/internal/pkg/pagination"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) Save(ctx context.Context, l *loan.Loan) (*loan.Loan, error) {
	args := m.Called(ctx, l)
	if saved, ok := args.Get(0).(*loan.Loan); ok {
		return saved, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) UpdateReturnedBook(ctx context.Context, loanID int64, returned bool) (*loan.Loan, error) {
	args := m.Called(ctx, loanID, returned)
	if updated, ok := args.Get(0).(*loan.Loan); ok {
		return updated, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) FindByID(ctx context.Context, loanID int64) (*loan.Loan, bool, error) {
	args := m.Called(ctx, loanID)
	found, _ := args.Get(0).(*loan.Loan)
	return found, args.Bool(1), args.Error(2)
}

func (m *MockLoanService) Find(ctx context.Context, filter loan.Filter, pageable pagination.Pageable) (pagination.Page[loan.Loan], error) {
	args := m.Called(ctx, filter, pageable)
	return args.Get(0).(pagination.Page[loan.Loan]), args.Error(1)
}

func (m *MockLoanService) GetLoansByBook(ctx context.Context, b *book.Book, pageable pagination.Pageable) (pagination.Page[loan.Loan], error) {
	args := m.Called(ctx, b, pageable)
	return args.Get(0).(pagination.Page[loan.Loan]), args.Error(1)
}

func (m *MockLoanService) GetAllLateLoans(ctx context.Context) ([]loan.Loan, error) {
	args := m.Called(ctx)
	if loans, ok := args.Get(0).([]loan.Loan); ok {
		return loans, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendMails(ctx context.Context, msg notification.Message) error {
	return m.Called(ctx, msg).Error(0)
}

var mailConfig = config.MailConfig{
	From:             "library@example.com",
	LateLoansSubject: "Livro em atraso",
	LateLoansMessage: "Devolva o livro",
}

func newJob(svc loan.LoanService, sender notification.Sender) *batch.LateLoanNotificationJob {
	return batch.NewLateLoanNotificationJob(svc, sender, mailConfig, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLateLoanNotificationJob_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("sends one message to every late customer", func(t *testing.T) {
		svc := new(MockLoanService)
		sender := new(MockSender)
		svc.On("GetAllLateLoans", ctx).Return([]loan.Loan{
			{ID: 1, CustomerEmail: "a@email.com"},
			{ID: 2, CustomerEmail: "b@email.com"},
		}, nil).Once()
		sender.On("SendMails", ctx, notification.Message{
			From:    "library@example.com",
			To:      []string{"a@email.com", "b@email.com"},
			Subject: "Livro em atraso",
			Body:    "Devolva o livro",
		}).Return(nil).Once()

		err := newJob(svc, sender).Run(ctx)

		assert.NoError(t, err)
		svc.AssertExpectations(t)
		sender.AssertExpectations(t)
	})

	t.Run("sends nothing when no loan is late", func(t *testing.T) {
		svc := new(MockLoanService)
		sender := new(MockSender)
		svc.On("GetAllLateLoans", ctx).Return([]loan.Loan{}, nil).Once()

		err := newJob(svc, sender).Run(ctx)

		assert.NoError(t, err)
		sender.AssertNotCalled(t, "SendMails", mock.Anything, mock.Anything)
	})

	t.Run("fails when late loans cannot be loaded", func(t *testing.T) {
		svc := new(MockLoanService)
		sender := new(MockSender)
		svc.On("GetAllLateLoans", ctx).Return(nil, errors.New("db down")).Once()

		err := newJob(svc, sender).Run(ctx)

		assert.ErrorContains(t, err, "failed to get late loans")
		sender.AssertNotCalled(t, "SendMails", mock.Anything, mock.Anything)
	})

	t.Run("fails when the transport fails", func(t *testing.T) {
		svc := new(MockLoanService)
		sender := new(MockSender)
		svc.On("GetAllLateLoans", ctx).Return([]loan.Loan{{ID: 1, CustomerEmail: "a@email.com"}}, nil).Once()
		sender.On("SendMails", ctx, mock.Anything).Return(errors.New("smtp unavailable")).Once()

		err := newJob(svc, sender).Run(ctx)

		assert.ErrorContains(t, err, "smtp unavailable")
	})
}

func TestNewLateLoanNotificationJob_PanicsOnNilDependencies(t *testing.T) {
	assert.Panics(t, func() {
		batch.NewLateLoanNotificationJob(nil, new(MockSender), mailConfig, slog.Default())
	})
}

func TestLateLoansScheduleIsValid(t *testing.T) {
	_, err := cron.ParseStandard(batch.LateLoansSchedule)
	assert.NoError(t, err)
}
