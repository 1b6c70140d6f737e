package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"library-api/internal/pkg/apperrors"
	"library-api/internal/pkg/pagination"
)

const errBookIDRequired = "book id cant be null"

type BookService interface {
	CreateBook(ctx context.Context, book *Book) (*Book, error)
	GetByID(ctx context.Context, bookID int64) (*Book, bool, error)
	UpdateBook(ctx context.Context, book *Book) (*Book, error)
	DeleteBook(ctx context.Context, book *Book) error
	Find(ctx context.Context, filter Filter, pageable pagination.Pageable) (pagination.Page[Book], error)
	GetByIsbn(ctx context.Context, isbn string) (*Book, bool, error)
}

var _ BookService = (*bookService)(nil)

type bookService struct {
	repo   Repository
	logger *slog.Logger
}

func NewBookService(repo Repository, logger *slog.Logger) BookService {
	if repo == nil {
		panic("book repository cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewBookService, using default stderr handler")
	}

	return &bookService{
		repo:   repo,
		logger: logger.With(slog.String("component", "bookService")),
	}
}

func (s *bookService) CreateBook(ctx context.Context, book *Book) (*Book, error) {
	if book == nil {
		return nil, fmt.Errorf("%w: book cannot be nil", apperrors.ErrInvalidArgument)
	}
	logger := s.logger.With(slog.String("isbn", book.Isbn))
	logger.InfoContext(ctx, "Attempting to create new book")

	exists, err := s.repo.ExistsByIsbn(ctx, book.Isbn)
	if err != nil {
		logger.ErrorContext(ctx, "Repository error checking isbn", slog.Any("error", err))
		return nil, fmt.Errorf("failed to check isbn %q: %w", book.Isbn, err)
	}
	if exists {
		logger.WarnContext(ctx, "Isbn already used by another book")
		return nil, ErrDuplicateIsbn
	}

	saved, err := s.repo.Save(ctx, book)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			logger.WarnContext(ctx, "Isbn taken concurrently by another book")
			return nil, ErrDuplicateIsbn
		}
		logger.ErrorContext(ctx, "Repository failed to save new book", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new book: %w", err)
	}

	logger.InfoContext(ctx, "Successfully created new book", slog.Int64("bookID", saved.ID))
	return saved, nil
}

func (s *bookService) GetByID(ctx context.Context, bookID int64) (*Book, bool, error) {
	book, err := s.repo.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.DebugContext(ctx, "Book not found by repository", slog.Int64("bookID", bookID))
			return nil, false, nil
		}
		s.logger.ErrorContext(ctx, "Repository error finding book", slog.Int64("bookID", bookID), slog.Any("error", err))
		return nil, false, fmt.Errorf("failed to get book %d: %w", bookID, err)
	}
	return book, true, nil
}

func (s *bookService) UpdateBook(ctx context.Context, book *Book) (*Book, error) {
	if !book.HasID() {
		s.logger.WarnContext(ctx, "Update rejected: book has no id")
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, errBookIDRequired)
	}
	logger := s.logger.With(slog.Int64("bookID", book.ID))

	updated, err := s.repo.Update(ctx, book)
	if err != nil {
		logger.ErrorContext(ctx, "Repository failed to update book", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update book %d: %w", book.ID, err)
	}

	logger.InfoContext(ctx, "Successfully updated book")
	return updated, nil
}

func (s *bookService) DeleteBook(ctx context.Context, book *Book) error {
	if !book.HasID() {
		s.logger.WarnContext(ctx, "Delete rejected: book has no id")
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidArgument, errBookIDRequired)
	}
	logger := s.logger.With(slog.Int64("bookID", book.ID))

	if err := s.repo.Delete(ctx, book.ID); err != nil {
		logger.ErrorContext(ctx, "Repository failed to delete book", slog.Any("error", err))
		return fmt.Errorf("failed to delete book %d: %w", book.ID, err)
	}

	logger.InfoContext(ctx, "Successfully deleted book")
	return nil
}

func (s *bookService) Find(ctx context.Context, filter Filter, pageable pagination.Pageable) (pagination.Page[Book], error) {
	books, total, err := s.repo.FindAll(ctx, filter, pageable)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error searching books", slog.Any("error", err))
		return pagination.Page[Book]{}, fmt.Errorf("failed to search books: %w", err)
	}
	return pagination.NewPage(books, pageable, total), nil
}

func (s *bookService) GetByIsbn(ctx context.Context, isbn string) (*Book, bool, error) {
	book, err := s.repo.FindByIsbn(ctx, isbn)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, false, nil
		}
		s.logger.ErrorContext(ctx, "Repository error finding book by isbn", slog.String("isbn", isbn), slog.Any("error", err))
		return nil, false, fmt.Errorf("failed to get book by isbn %q: %w", isbn, err)
	}
	return book, true, nil
}
