package loan

import (
	"context"
	"time"

	"library-api/internal/event"
	"library-api/internal/pkg/pagination"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

type TxMock struct {
	pgx.Tx
}

var tx pgx.Tx = &TxMock{}

func (m *MockRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockRepository) ExistsOutstandingByBookInTx(ctx context.Context, tx pgx.Tx, bookID, excludeLoanID int64) (bool, error) {
	args := m.Called(ctx, tx, bookID, excludeLoanID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) CreateInTx(ctx context.Context, tx pgx.Tx, loan *Loan) (*Loan, error) {
	args := m.Called(ctx, tx, loan)
	if rf, ok := args.Get(0).(func(context.Context, pgx.Tx, *Loan) *Loan); ok {
		return rf(ctx, tx, loan), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Loan), args.Error(1)
}

func (m *MockRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, loanID int64) (*Loan, error) {
	args := m.Called(ctx, tx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Loan), args.Error(1)
}

func (m *MockRepository) UpdateReturnedInTx(ctx context.Context, tx pgx.Tx, loanID int64, returned bool) error {
	return m.Called(ctx, tx, loanID, returned).Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, loanID int64) (*Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Loan), args.Error(1)
}

func (m *MockRepository) FindByIsbnOrCustomer(ctx context.Context, filter Filter, pageable pagination.Pageable) ([]Loan, int64, error) {
	args := m.Called(ctx, filter, pageable)
	var loans []Loan
	if args.Get(0) != nil {
		loans = args.Get(0).([]Loan)
	}
	return loans, args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) FindByBook(ctx context.Context, bookID int64, pageable pagination.Pageable) ([]Loan, int64, error) {
	args := m.Called(ctx, bookID, pageable)
	var loans []Loan
	if args.Get(0) != nil {
		loans = args.Get(0).([]Loan)
	}
	return loans, args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) FindOutstandingBefore(ctx context.Context, loanDate time.Time) ([]Loan, error) {
	args := m.Called(ctx, loanDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Loan), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishLoanCreated(ctx context.Context, evt event.LoanCreatedEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *MockEventPublisher) PublishLoanReturnStatusChanged(ctx context.Context, evt event.LoanReturnStatusChangedEvent) error {
	return m.Called(ctx, evt).Error(0)
}
