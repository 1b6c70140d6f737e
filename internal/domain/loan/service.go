package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"library-api/internal/domain/book"
	"library-api/internal/event"
	"library-api/internal/infrastructure/monitoring"
	"library-api/internal/pkg/apperrors"
	"library-api/internal/pkg/pagination"

	"github.com/jackc/pgx/v5"
)

type LoanService interface {
	Save(ctx context.Context, loan *Loan) (*Loan, error)

	UpdateReturnedBook(ctx context.Context, loanID int64, returned bool) (*Loan, error)

	FindByID(ctx context.Context, loanID int64) (*Loan, bool, error)

	Find(ctx context.Context, filter Filter, pageable pagination.Pageable) (pagination.Page[Loan], error)

	GetLoansByBook(ctx context.Context, b *book.Book, pageable pagination.Pageable) (pagination.Page[Loan], error)

	GetAllLateLoans(ctx context.Context) ([]Loan, error)
}

type Option func(*loanServiceImpl)

// WithClock replaces time.Now, which drives default loan dates and lateness.
func WithClock(now func() time.Time) Option {
	return func(s *loanServiceImpl) { s.now = now }
}

type loanServiceImpl struct {
	repo      Repository
	publisher event.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

var _ LoanService = (*loanServiceImpl)(nil)

// NewLoanService builds the service. publisher may be nil, in which case no
// loan events are emitted.
func NewLoanService(r Repository, publisher event.EventPublisher, logger *slog.Logger, opts ...Option) LoanService {
	if r == nil {
		panic("loan repository cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	s := &loanServiceImpl{
		repo:      r,
		publisher: publisher,
		logger:    logger.With(slog.String("component", "loanService")),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *loanServiceImpl) Save(ctx context.Context, loan *Loan) (saved *Loan, err error) {
	if loan == nil || !loan.Book.HasID() {
		return nil, fmt.Errorf("%w: loan must reference a persisted book", apperrors.ErrInvalidArgument)
	}
	if loan.LoanDate.IsZero() {
		loan.LoanDate = Today(s.now())
	}
	logger := s.logger.With(slog.Int64("bookID", loan.BookID()), slog.String("customer", loan.Customer))
	logger.InfoContext(ctx, "Saving new loan")

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		monitoring.RecordLoanCreated(monitoring.StatusError)
		return nil, fmt.Errorf("%w: could not begin transaction: %v", apperrors.ErrInternalServer, err)
	}

	defer func() {
		status := monitoring.StatusSuccess
		if p := recover(); p != nil {
			logger.ErrorContext(ctx, "Panic occurred while saving loan", "error", p)
			_ = s.repo.RollbackTx(ctx, tx)
			monitoring.RecordLoanCreated(monitoring.StatusError)
			panic(p)
		} else if err != nil {
			_ = s.repo.RollbackTx(ctx, tx)
			status = monitoring.StatusError
			if errors.Is(err, ErrBookAlreadyLoaned) {
				status = monitoring.StatusRejected
			}
		}
		monitoring.RecordLoanCreated(status)
	}()

	exists, err := s.repo.ExistsOutstandingByBookInTx(ctx, tx, loan.BookID(), 0)
	if err != nil {
		if isConcurrentLoan(err) {
			return nil, ErrBookAlreadyLoaned
		}
		logger.ErrorContext(ctx, "Failed to check outstanding loans for book", slog.Any("error", err))
		return nil, fmt.Errorf("failed to check outstanding loans for book %d: %w", loan.BookID(), err)
	}
	if exists {
		logger.WarnContext(ctx, "Book already has an outstanding loan")
		return nil, ErrBookAlreadyLoaned
	}

	saved, err = s.repo.CreateInTx(ctx, tx, loan)
	if err != nil {
		if isConcurrentLoan(err) {
			logger.WarnContext(ctx, "Book loaned concurrently by another request", slog.Any("error", err))
			return nil, ErrBookAlreadyLoaned
		}
		logger.ErrorContext(ctx, "Failed to insert loan", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save loan: %w", err)
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		if isConcurrentLoan(err) {
			logger.WarnContext(ctx, "Loan transaction lost a serialization race", slog.Any("error", err))
			return nil, ErrBookAlreadyLoaned
		}
		logger.ErrorContext(ctx, "Failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%w: could not commit transaction: %v", apperrors.ErrInternalServer, err)
	}

	logger.InfoContext(ctx, "Loan saved", slog.Int64("loanID", saved.ID))
	s.publishLoanCreated(ctx, saved)
	return saved, nil
}

func (s *loanServiceImpl) UpdateReturnedBook(ctx context.Context, loanID int64, returned bool) (updated *Loan, err error) {
	logger := s.logger.With(slog.Int64("loanID", loanID), slog.Bool("returned", returned))
	logger.InfoContext(ctx, "Updating returned flag")

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%w: could not begin transaction: %v", apperrors.ErrInternalServer, err)
	}

	defer func() {
		if p := recover(); p != nil {
			logger.ErrorContext(ctx, "Panic occurred while updating loan", "error", p)
			_ = s.repo.RollbackTx(ctx, tx)
			panic(p)
		} else if err != nil {
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	current, err := s.repo.FindByIDForUpdate(ctx, tx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, pgx.ErrNoRows) {
			logger.WarnContext(ctx, "Loan not found")
			return nil, ErrLoanNotFound
		}
		logger.ErrorContext(ctx, "Failed to load loan", slog.Any("error", err))
		return nil, fmt.Errorf("failed to load loan %d: %w", loanID, err)
	}

	reopened := current.MarkReturned(returned)
	if reopened {
		logger.WarnContext(ctx, "Returned loan is being marked as outstanding again", slog.Int64("bookID", current.BookID()))

		exists, checkErr := s.repo.ExistsOutstandingByBookInTx(ctx, tx, current.BookID(), current.ID)
		if checkErr != nil {
			err = fmt.Errorf("failed to check outstanding loans for book %d: %w", current.BookID(), checkErr)
			return nil, err
		}
		if exists {
			logger.WarnContext(ctx, "Reopen rejected, book is loaned by another customer")
			return nil, ErrBookAlreadyLoaned
		}
	}

	if err = s.repo.UpdateReturnedInTx(ctx, tx, loanID, returned); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrLoanNotFound
		}
		if reopened && isConcurrentLoan(err) {
			return nil, ErrBookAlreadyLoaned
		}
		logger.ErrorContext(ctx, "Failed to update returned flag", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update loan %d: %w", loanID, err)
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		if reopened && isConcurrentLoan(err) {
			return nil, ErrBookAlreadyLoaned
		}
		logger.ErrorContext(ctx, "Failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%w: could not commit transaction: %v", apperrors.ErrInternalServer, err)
	}

	if reopened {
		monitoring.RecordLoanReopened()
	}
	current.UpdatedAt = s.now()
	logger.InfoContext(ctx, "Loan returned flag updated", slog.String("status", string(current.Status())))
	s.publishReturnStatusChanged(ctx, current, reopened)
	return current, nil
}

func (s *loanServiceImpl) FindByID(ctx context.Context, loanID int64) (*Loan, bool, error) {
	loan, err := s.repo.FindByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, false, nil
		}
		s.logger.ErrorContext(ctx, "Failed to get loan", slog.Int64("loanID", loanID), slog.Any("error", err))
		return nil, false, fmt.Errorf("failed to get loan %d: %w", loanID, err)
	}
	return loan, true, nil
}

func (s *loanServiceImpl) Find(ctx context.Context, filter Filter, pageable pagination.Pageable) (pagination.Page[Loan], error) {
	if filter.IsEmpty() {
		return pagination.Empty[Loan](pageable), nil
	}
	loans, total, err := s.repo.FindByIsbnOrCustomer(ctx, filter, pageable)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to search loans", slog.Any("error", err))
		return pagination.Page[Loan]{}, fmt.Errorf("failed to search loans: %w", err)
	}
	return pagination.NewPage(loans, pageable, total), nil
}

func (s *loanServiceImpl) GetLoansByBook(ctx context.Context, b *book.Book, pageable pagination.Pageable) (pagination.Page[Loan], error) {
	if !b.HasID() {
		return pagination.Page[Loan]{}, fmt.Errorf("%w: book id cant be null", apperrors.ErrInvalidArgument)
	}
	loans, total, err := s.repo.FindByBook(ctx, b.ID, pageable)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list loans for book", slog.Int64("bookID", b.ID), slog.Any("error", err))
		return pagination.Page[Loan]{}, fmt.Errorf("failed to list loans for book %d: %w", b.ID, err)
	}
	return pagination.NewPage(loans, pageable, total), nil
}

func (s *loanServiceImpl) GetAllLateLoans(ctx context.Context) ([]Loan, error) {
	threshold := LateThreshold(s.now())
	s.logger.InfoContext(ctx, "Looking up late loans", slog.Time("loanDateBefore", threshold))

	loans, err := s.repo.FindOutstandingBefore(ctx, threshold)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to find late loans", slog.Any("error", err))
		return nil, fmt.Errorf("failed to find late loans: %w", err)
	}

	s.logger.InfoContext(ctx, "Late loans found", slog.Int("count", len(loans)))
	return loans, nil
}

// isConcurrentLoan reports whether err means another outstanding loan for the
// same book was committed first. Other conflicts, such as a deleted book, are
// not.
func isConcurrentLoan(err error) bool {
	return errors.Is(err, apperrors.ErrSerialization) ||
		apperrors.IsConstraintViolation(err, apperrors.ErrAlreadyExists, OutstandingLoanConstraint)
}

func newLoanEventPayload(l *Loan) event.LoanEventPayload {
	payload := event.LoanEventPayload{
		LoanID:        l.ID,
		BookID:        l.BookID(),
		Customer:      l.Customer,
		CustomerEmail: l.CustomerEmail,
		LoanDate:      l.LoanDate,
		Returned:      l.Returned,
	}
	if l.Book != nil {
		payload.Isbn = l.Book.Isbn
	}
	return payload
}

func (s *loanServiceImpl) publishLoanCreated(ctx context.Context, l *Loan) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLoanCreated(ctx, event.NewLoanCreatedEvent(newLoanEventPayload(l))); err != nil {
		s.logger.ErrorContext(ctx, "Loan saved, but FAILED to publish creation event", slog.Int64("loanID", l.ID), slog.Any("error", err))
	}
}

func (s *loanServiceImpl) publishReturnStatusChanged(ctx context.Context, l *Loan, reopened bool) {
	if s.publisher == nil {
		return
	}
	evt := event.NewLoanReturnStatusChangedEvent(newLoanEventPayload(l), reopened)
	if err := s.publisher.PublishLoanReturnStatusChanged(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Loan updated, but FAILED to publish event", slog.Int64("loanID", l.ID), slog.Any("error", err))
	}
}
