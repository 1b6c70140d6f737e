package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"library-api/internal/api/handler/dto"
	"library-api/internal/domain/book"
	"library-api/internal/domain/loan"
	"library-api/internal/pkg/apperrors"
)

type BookHandler struct {
	bookService book.BookService
	loanService loan.LoanService
	logger      *slog.Logger
}

func NewBookHandler(bs book.BookService, ls loan.LoanService, l *slog.Logger) *BookHandler {
	if bs == nil {
		panic("book service cannot be nil")
	}
	if ls == nil {
		panic("loan service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &BookHandler{
		bookService: bs,
		loanService: ls,
		logger:      l.With("component", "BookHandler"),
	}
}

// loadBook resolves the {bookID} path parameter, writing the error response
// itself when the book cannot be returned.
func (h *BookHandler) loadBook(w http.ResponseWriter, r *http.Request) (*book.Book, bool) {
	bookID, err := getIDFromURL(r, "bookID")
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get book ID from URL", slog.Any("error", err))
		respondError(w, err)
		return nil, false
	}

	found, ok, err := h.bookService.GetByID(r.Context(), bookID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to get book", slog.Int64("bookID", bookID), slog.Any("error", err))
		respondError(w, err)
		return nil, false
	}
	if !ok {
		h.logger.InfoContext(r.Context(), "Book not found", slog.Int64("bookID", bookID))
		respondError(w, fmt.Errorf("%w: book %d", apperrors.ErrNotFound, bookID))
		return nil, false
	}
	return found, true
}

// CreateBook handles POST /api/books
// @Summary Create a new book
// @Description Registers a book. The ISBN must not be used by another book.
// @Tags Books
// @Accept json
// @Produce json
// @Param request body dto.CreateBookRequest true "Book creation request"
// @Success 201 {object} dto.BookResponse "Book successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload, empty fields or ISBN already used"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/books [post]
// @Security BearerAuth
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Validation failed", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Creating book", slog.String("isbn", req.Isbn))
	created, err := h.bookService.CreateBook(r.Context(), req.ToDomain())
	if err != nil {
		h.logger.WarnContext(r.Context(), "Service failed to create book", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewBookResponse(created))
}

// GetBook handles GET /api/books/{bookID}
// @Summary Retrieve a book
// @Tags Books
// @Produce json
// @Param bookID path int true "Book ID" Minimum(1)
// @Success 200 {object} dto.BookResponse "Book details"
// @Failure 400 {object} dto.ErrorResponse "Invalid book ID"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/books/{bookID} [get]
// @Security BearerAuth
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	found, ok := h.loadBook(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, dto.NewBookResponse(found))
}

// UpdateBook handles PUT /api/books/{bookID}
// @Summary Update a book
// @Description Replaces the title and author of a book. The ISBN cannot change.
// @Tags Books
// @Accept json
// @Produce json
// @Param bookID path int true "Book ID" Minimum(1)
// @Param request body dto.UpdateBookRequest true "New title and author"
// @Success 200 {object} dto.BookResponse "Book updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid book ID or payload"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/books/{bookID} [put]
// @Security BearerAuth
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateBookRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	found, ok := h.loadBook(w, r)
	if !ok {
		return
	}
	req.ApplyTo(found)

	updated, err := h.bookService.UpdateBook(r.Context(), found)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to update book", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Book updated successfully", slog.Int64("bookID", updated.ID))
	respondJSON(w, http.StatusOK, dto.NewBookResponse(updated))
}

// DeleteBook handles DELETE /api/books/{bookID}
// @Summary Delete a book
// @Tags Books
// @Param bookID path int true "Book ID" Minimum(1)
// @Success 204 "Book successfully deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid book ID"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Failure 409 {object} dto.ErrorResponse "Book is referenced by loans"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/books/{bookID} [delete]
// @Security BearerAuth
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	found, ok := h.loadBook(w, r)
	if !ok {
		return
	}

	if err := h.bookService.DeleteBook(r.Context(), found); err != nil {
		h.logger.WarnContext(r.Context(), "Service failed to delete book", slog.Int64("bookID", found.ID), slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Book deleted", slog.Int64("bookID", found.ID))
	respondJSON(w, http.StatusNoContent, nil)
}

// FindBooks handles GET /api/books
// @Summary Search books
// @Description Every filter given must be contained, case-insensitively, in the matching field.
// @Tags Books
// @Produce json
// @Param title query string false "Title contains"
// @Param author query string false "Author contains"
// @Param isbn query string false "ISBN contains"
// @Param page query int false "Zero-based page number" Minimum(0)
// @Param size query int false "Page size (max 1000)" Minimum(1)
// @Success 200 {object} dto.PageResponse[dto.BookResponse] "Page of books"
// @Failure 400 {object} dto.ErrorResponse "Invalid paging parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/books [get]
// @Security BearerAuth
func (h *BookHandler) FindBooks(w http.ResponseWriter, r *http.Request) {
	pageable, err := getPageableFromQuery(r)
	if err != nil {
		respondError(w, err)
		return
	}

	query := r.URL.Query()
	filter := book.Filter{
		Title:  query.Get("title"),
		Author: query.Get("author"),
		Isbn:   query.Get("isbn"),
	}

	page, err := h.bookService.Find(r.Context(), filter, pageable)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to search books", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPageResponse(page, dto.NewBookResponseFromValue))
}

// GetBookLoans handles GET /api/books/{bookID}/loans
// @Summary List the loans of a book
// @Tags Books
// @Produce json
// @Param bookID path int true "Book ID" Minimum(1)
// @Param page query int false "Zero-based page number" Minimum(0)
// @Param size query int false "Page size (max 1000)" Minimum(1)
// @Success 200 {object} dto.PageResponse[dto.LoanResponse] "Page of loans"
// @Failure 400 {object} dto.ErrorResponse "Invalid book ID or paging parameters"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/books/{bookID}/loans [get]
// @Security BearerAuth
func (h *BookHandler) GetBookLoans(w http.ResponseWriter, r *http.Request) {
	pageable, err := getPageableFromQuery(r)
	if err != nil {
		respondError(w, err)
		return
	}

	found, ok := h.loadBook(w, r)
	if !ok {
		return
	}

	page, err := h.loanService.GetLoansByBook(r.Context(), found, pageable)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list loans of book", slog.Int64("bookID", found.ID), slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPageResponse(page, dto.NewLoanResponseFromValue))
}
