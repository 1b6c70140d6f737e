package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"library-api/internal/domain/book"
	"library-api/internal/domain/loan"
	"library-api/internal/pkg/apperrors"
	"library-api/internal/pkg/pagination"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
)

const loanSelect = `
        SELECT l.id, l.customer, l.customer_email, l.loan_date, l.returned, l.created_at, l.updated_at,
               b.id, b.title, b.author, b.isbn, b.created_at, b.updated_at
        FROM loans l
        JOIN books b ON b.id = l.book_id`

var loanSelectColumns = []any{
	goqu.I("l.id"), goqu.I("l.customer"), goqu.I("l.customer_email"), goqu.I("l.loan_date"),
	goqu.I("l.returned"), goqu.I("l.created_at"), goqu.I("l.updated_at"),
	goqu.I("b.id"), goqu.I("b.title"), goqu.I("b.author"), goqu.I("b.isbn"),
	goqu.I("b.created_at"), goqu.I("b.updated_at"),
}

type LoanRepository struct {
	txRunner
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	return &LoanRepository{txRunner{db: db, logger: logger.With("component", "LoanRepository")}}
}

func (r *LoanRepository) ExistsOutstandingByBookInTx(ctx context.Context, tx pgx.Tx, bookID, excludeLoanID int64) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM loans
            WHERE book_id = $1 AND id <> $2 AND returned IS NOT TRUE
        )`

	start := time.Now()
	var exists bool
	err := tx.QueryRow(ctx, query, bookID, excludeLoanID).Scan(&exists)
	observe("ExistsOutstandingLoanByBook", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to check outstanding loans", "book_id", bookID, "error", err)
		return false, translateDBError(err, r.logger)
	}
	return exists, nil
}

func (r *LoanRepository) CreateInTx(ctx context.Context, tx pgx.Tx, newLoan *loan.Loan) (*loan.Loan, error) {
	query := `
        INSERT INTO loans (customer, customer_email, book_id, loan_date, returned, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	start := time.Now()
	created := *newLoan
	err := tx.QueryRow(ctx, query,
		newLoan.Customer, newLoan.CustomerEmail, newLoan.BookID(), newLoan.LoanDate, newLoan.Returned,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	observe("CreateLoan", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", "book_id", newLoan.BookID(), "error", err)
		return nil, translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Loan created in DB", "loan_id", created.ID, "book_id", created.BookID())
	return &created, nil
}

func (r *LoanRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, loanID int64) (*loan.Loan, error) {
	query := loanSelect + ` WHERE l.id = $1 FOR UPDATE OF l`

	start := time.Now()
	l, err := scanLoan(tx.QueryRow(ctx, query, loanID))
	observe("FindLoanByIDForUpdate", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: loan with ID %d", apperrors.ErrNotFound, loanID)
		}
		r.logger.ErrorContext(ctx, "Failed to lock loan", "loan_id", loanID, "error", err)
		return nil, translateDBError(err, r.logger)
	}
	return l, nil
}

func (r *LoanRepository) UpdateReturnedInTx(ctx context.Context, tx pgx.Tx, loanID int64, returned bool) error {
	query := `UPDATE loans SET returned = $1, updated_at = NOW() WHERE id = $2`

	start := time.Now()
	cmdTag, err := tx.Exec(ctx, query, returned, loanID)
	observe("UpdateLoanReturned", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update loan returned flag", "loan_id", loanID, "error", err)
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.ErrorContext(ctx, "Loan returned update affected zero rows", "loan_id", loanID)
		return fmt.Errorf("%w: loan with ID %d", apperrors.ErrNotFound, loanID)
	}
	return nil
}

func (r *LoanRepository) FindByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	query := loanSelect + ` WHERE l.id = $1`

	start := time.Now()
	l, err := scanLoan(r.db.QueryRow(ctx, query, loanID))
	observe("FindLoanByID", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: loan with ID %d", apperrors.ErrNotFound, loanID)
		}
		return nil, translateDBError(err, r.logger)
	}
	return l, nil
}

// FindByIsbnOrCustomer matches loans of the customer OR of the book with the
// given ISBN. Nil filter fields contribute no predicate.
func (r *LoanRepository) FindByIsbnOrCustomer(ctx context.Context, filter loan.Filter, pageable pagination.Pageable) ([]loan.Loan, int64, error) {
	var or []exp.Expression
	if filter.Isbn != nil {
		or = append(or, goqu.I("b.isbn").Eq(*filter.Isbn))
	}
	if filter.Customer != nil {
		or = append(or, goqu.I("l.customer").Eq(*filter.Customer))
	}
	if len(or) == 0 {
		return []loan.Loan{}, 0, nil
	}
	return r.findPage(ctx, "FindLoansByIsbnOrCustomer", goqu.Or(or...), pageable)
}

func (r *LoanRepository) FindByBook(ctx context.Context, bookID int64, pageable pagination.Pageable) ([]loan.Loan, int64, error) {
	return r.findPage(ctx, "FindLoansByBook", goqu.I("l.book_id").Eq(bookID), pageable)
}

func (r *LoanRepository) FindOutstandingBefore(ctx context.Context, loanDate time.Time) ([]loan.Loan, error) {
	query := loanSelect + ` WHERE l.loan_date < $1 AND l.returned IS NOT TRUE ORDER BY l.id`

	start := time.Now()
	rows, err := r.db.Query(ctx, query, loanDate)
	if err != nil {
		observe("FindOutstandingLoansBefore", start, err)
		r.logger.ErrorContext(ctx, "Failed to query late loans", "loan_date", loanDate, "error", err)
		return nil, translateDBError(err, r.logger)
	}
	loans, err := collectLoans(rows, 0)
	observe("FindOutstandingLoansBefore", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to read late loan rows", "error", err)
		return nil, translateDBError(err, r.logger)
	}
	return loans, nil
}

func (r *LoanRepository) findPage(ctx context.Context, queryName string, where exp.Expression, pageable pagination.Pageable) ([]loan.Loan, int64, error) {
	base := dialect.From(goqu.T("loans").As("l")).
		Prepared(true).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("l.book_id")))).
		Where(where)

	countSQL, countArgs, err := base.Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: building loan count query: %w", apperrors.ErrInternalServer, err)
	}

	start := time.Now()
	var total int64
	err = r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total)
	observe(queryName+"Count", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count loans", "query", queryName, "error", err)
		return nil, 0, translateDBError(err, r.logger)
	}
	if total == 0 {
		return []loan.Loan{}, 0, nil
	}

	selectSQL, selectArgs, err := base.Select(loanSelectColumns...).
		Order(goqu.I("l.id").Asc()).
		Limit(uint(pageable.Size)).
		Offset(uint(pageable.Offset())).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: building loan select query: %w", apperrors.ErrInternalServer, err)
	}

	start = time.Now()
	rows, err := r.db.Query(ctx, selectSQL, selectArgs...)
	if err != nil {
		observe(queryName, start, err)
		r.logger.ErrorContext(ctx, "Failed to query loans", "query", queryName, "error", err)
		return nil, 0, translateDBError(err, r.logger)
	}
	loans, err := collectLoans(rows, pageable.Size)
	observe(queryName, start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to read loan rows", "query", queryName, "error", err)
		return nil, 0, translateDBError(err, r.logger)
	}
	return loans, total, nil
}

func collectLoans(rows pgx.Rows, capacity int) ([]loan.Loan, error) {
	defer rows.Close()

	loans := make([]loan.Loan, 0, capacity)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return loans, nil
}

func scanLoan(row pgx.Row) (*loan.Loan, error) {
	var l loan.Loan
	var b book.Book
	err := row.Scan(
		&l.ID, &l.Customer, &l.CustomerEmail, &l.LoanDate, &l.Returned, &l.CreatedAt, &l.UpdatedAt,
		&b.ID, &b.Title, &b.Author, &b.Isbn, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Book = &b
	return &l, nil
}
