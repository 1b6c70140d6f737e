package loan

import (
	"context"
	"time"

	"library-api/internal/pkg/pagination"

	"github.com/jackc/pgx/v5"
)

type Repository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error

	// ExistsOutstandingByBookInTx ignores the loan with excludeLoanID; pass 0 to check all loans.
	ExistsOutstandingByBookInTx(ctx context.Context, tx pgx.Tx, bookID, excludeLoanID int64) (bool, error)

	CreateInTx(ctx context.Context, tx pgx.Tx, loan *Loan) (*Loan, error)

	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, loanID int64) (*Loan, error)

	UpdateReturnedInTx(ctx context.Context, tx pgx.Tx, loanID int64, returned bool) error

	FindByID(ctx context.Context, loanID int64) (*Loan, error)

	FindByIsbnOrCustomer(ctx context.Context, filter Filter, pageable pagination.Pageable) ([]Loan, int64, error)

	FindByBook(ctx context.Context, bookID int64, pageable pagination.Pageable) ([]Loan, int64, error)

	FindOutstandingBefore(ctx context.Context, loanDate time.Time) ([]Loan, error)
}
