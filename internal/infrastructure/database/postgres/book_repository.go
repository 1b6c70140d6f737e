package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"library-api/internal/domain/book"
	"library-api/internal/pkg/apperrors"
	"library-api/internal/pkg/pagination"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
)

const bookColumns = "id, title, author, isbn, created_at, updated_at"

type BookRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ book.Repository = (*BookRepository)(nil)

func NewBookRepository(db DBPool, logger *slog.Logger) *BookRepository {
	return &BookRepository{db: db, logger: logger.With("component", "BookRepository")}
}

func (r *BookRepository) Save(ctx context.Context, b *book.Book) (*book.Book, error) {
	query := `
        INSERT INTO books (title, author, isbn, created_at, updated_at)
        VALUES ($1, $2, $3, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	start := time.Now()
	saved := *b
	err := r.db.QueryRow(ctx, query, b.Title, b.Author, b.Isbn).Scan(&saved.ID, &saved.CreatedAt, &saved.UpdatedAt)
	observe("SaveBook", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert book", "isbn", b.Isbn, "error", err)
		return nil, translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Book created in DB", "book_id", saved.ID)
	return &saved, nil
}

// Update persists title and author. The ISBN is immutable once stored, so
// the returned book carries the stored ISBN whatever b holds.
func (r *BookRepository) Update(ctx context.Context, b *book.Book) (*book.Book, error) {
	query := `
        UPDATE books
        SET title = $1, author = $2, updated_at = NOW()
        WHERE id = $3
        RETURNING isbn, created_at, updated_at`

	start := time.Now()
	updated := *b
	err := r.db.QueryRow(ctx, query, b.Title, b.Author, b.ID).Scan(&updated.Isbn, &updated.CreatedAt, &updated.UpdatedAt)
	observe("UpdateBook", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: book with ID %d", apperrors.ErrNotFound, b.ID)
		}
		r.logger.ErrorContext(ctx, "Failed to update book", "book_id", b.ID, "error", err)
		return nil, translateDBError(err, r.logger)
	}
	return &updated, nil
}

func (r *BookRepository) Delete(ctx context.Context, bookID int64) error {
	query := `DELETE FROM books WHERE id = $1`

	start := time.Now()
	cmdTag, err := r.db.Exec(ctx, query, bookID)
	observe("DeleteBook", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete book", "book_id", bookID, "error", err)
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: book with ID %d", apperrors.ErrNotFound, bookID)
	}

	r.logger.InfoContext(ctx, "Book deleted from DB", "book_id", bookID)
	return nil
}

func (r *BookRepository) FindByID(ctx context.Context, bookID int64) (*book.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	start := time.Now()
	b, err := scanBook(r.db.QueryRow(ctx, query, bookID))
	observe("FindBookByID", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: book with ID %d", apperrors.ErrNotFound, bookID)
		}
		return nil, translateDBError(err, r.logger)
	}
	return b, nil
}

func (r *BookRepository) FindByIsbn(ctx context.Context, isbn string) (*book.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE isbn = $1`

	start := time.Now()
	b, err := scanBook(r.db.QueryRow(ctx, query, isbn))
	observe("FindBookByIsbn", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: book with isbn %s", apperrors.ErrNotFound, isbn)
		}
		return nil, translateDBError(err, r.logger)
	}
	return b, nil
}

func (r *BookRepository) ExistsByIsbn(ctx context.Context, isbn string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM books WHERE isbn = $1)`

	start := time.Now()
	var exists bool
	err := r.db.QueryRow(ctx, query, isbn).Scan(&exists)
	observe("ExistsBookByIsbn", start, err)
	if err != nil {
		return false, translateDBError(err, r.logger)
	}
	return exists, nil
}

// FindAll applies every non-empty filter field as a case-insensitive
// substring match, ordered by id.
func (r *BookRepository) FindAll(ctx context.Context, filter book.Filter, pageable pagination.Pageable) ([]book.Book, int64, error) {
	where := bookFilterExpressions(filter)

	countSQL, countArgs, err := dialect.From("books").
		Prepared(true).
		Select(goqu.COUNT("*")).
		Where(where...).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: building book count query: %w", apperrors.ErrInternalServer, err)
	}

	start := time.Now()
	var total int64
	err = r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total)
	observe("CountBooks", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count books", "error", err)
		return nil, 0, translateDBError(err, r.logger)
	}
	if total == 0 {
		return []book.Book{}, 0, nil
	}

	selectSQL, selectArgs, err := dialect.From("books").
		Prepared(true).
		Select("id", "title", "author", "isbn", "created_at", "updated_at").
		Where(where...).
		Order(goqu.C("id").Asc()).
		Limit(uint(pageable.Size)).
		Offset(uint(pageable.Offset())).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: building book select query: %w", apperrors.ErrInternalServer, err)
	}

	start = time.Now()
	rows, err := r.db.Query(ctx, selectSQL, selectArgs...)
	if err != nil {
		observe("FindBooks", start, err)
		r.logger.ErrorContext(ctx, "Failed to query books", "error", err)
		return nil, 0, translateDBError(err, r.logger)
	}
	defer rows.Close()

	books := make([]book.Book, 0, pageable.Size)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			observe("FindBooks", start, err)
			r.logger.ErrorContext(ctx, "Failed to scan book row", "error", err)
			return nil, 0, translateDBError(err, r.logger)
		}
		books = append(books, *b)
	}
	err = rows.Err()
	observe("FindBooks", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error iterating book rows", "error", err)
		return nil, 0, translateDBError(err, r.logger)
	}

	return books, total, nil
}

func bookFilterExpressions(filter book.Filter) []exp.Expression {
	var where []exp.Expression
	if filter.Title != "" {
		where = append(where, goqu.C("title").ILike(containsPattern(filter.Title)))
	}
	if filter.Author != "" {
		where = append(where, goqu.C("author").ILike(containsPattern(filter.Author)))
	}
	if filter.Isbn != "" {
		where = append(where, goqu.C("isbn").ILike(containsPattern(filter.Isbn)))
	}
	return where
}

func scanBook(row pgx.Row) (*book.Book, error) {
	var b book.Book
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Isbn, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
