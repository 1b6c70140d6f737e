package book

import (
	"context"

	"library-api/internal/pkg/pagination"
)

// Repository returns apperrors.ErrNotFound when a single book lookup misses.
type Repository interface {
	Save(ctx context.Context, book *Book) (*Book, error)

	Update(ctx context.Context, book *Book) (*Book, error)

	Delete(ctx context.Context, bookID int64) error

	FindByID(ctx context.Context, bookID int64) (*Book, error)

	FindByIsbn(ctx context.Context, isbn string) (*Book, error)

	ExistsByIsbn(ctx context.Context, isbn string) (bool, error)

	FindAll(ctx context.Context, filter Filter, pageable pagination.Pageable) ([]Book, int64, error)
}
