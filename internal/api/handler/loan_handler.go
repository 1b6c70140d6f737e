package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"library-api/internal/api/handler/dto"
	"library-api/internal/domain/book"
	"library-api/internal/domain/loan"
	"library-api/internal/pkg/apperrors"
)

type LoanHandler struct {
	loanService loan.LoanService
	bookService book.BookService
	logger      *slog.Logger
}

func NewLoanHandler(ls loan.LoanService, bs book.BookService, l *slog.Logger) *LoanHandler {
	if ls == nil {
		panic("loan service cannot be nil")
	}
	if bs == nil {
		panic("book service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &LoanHandler{
		loanService: ls,
		bookService: bs,
		logger:      l.With("component", "LoanHandler"),
	}
}

// CreateLoan handles POST /api/loans
// @Summary Lend a book
// @Description Lends the book with the given ISBN to a customer. A book can only have one outstanding loan.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.CreateLoanRequest true "Loan creation request"
// @Success 201 {object} dto.CreateLoanResponse "Identifier of the new loan"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload, unknown ISBN or book already loaned"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/loans [post]
// @Security BearerAuth
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
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

	b, ok, err := h.bookService.GetByIsbn(r.Context(), req.Isbn)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to get book by isbn", slog.Any("error", err))
		respondError(w, err)
		return
	}
	if !ok {
		h.logger.InfoContext(r.Context(), "No book for isbn", slog.String("isbn", req.Isbn))
		respondError(w, loan.ErrBookNotFoundForIsbn)
		return
	}

	saved, err := h.loanService.Save(r.Context(), loan.NewLoan(b, req.Customer, req.CustomerEmail, time.Time{}))
	if err != nil {
		h.logger.WarnContext(r.Context(), "Service failed to save loan", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Loan created", slog.Int64("loanID", saved.ID), slog.Int64("bookID", b.ID))
	respondJSON(w, http.StatusCreated, dto.CreateLoanResponse{ID: saved.ID})
}

// GetLoan handles GET /api/loans/{loanID}
// @Summary Retrieve a loan
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID" Minimum(1)
// @Success 200 {object} dto.LoanResponse "Loan details"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/loans/{loanID} [get]
// @Security BearerAuth
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	found, ok := h.loadLoan(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanResponse(found))
}

// ReturnBook handles PATCH /api/loans/{loanID}
// @Summary Set the returned flag of a loan
// @Description Marks a loan as returned, or as outstanding again. Reopening fails while another customer holds the book.
// @Tags Loans
// @Accept json
// @Produce json
// @Param loanID path int true "Loan ID" Minimum(1)
// @Param request body dto.ReturnedLoanRequest true "Returned flag"
// @Success 200 {object} dto.LoanResponse "Updated loan"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID or payload, or book loaned by someone else"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/loans/{loanID} [patch]
// @Security BearerAuth
func (h *LoanHandler) ReturnBook(w http.ResponseWriter, r *http.Request) {
	var req dto.ReturnedLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	found, ok := h.loadLoan(w, r)
	if !ok {
		return
	}

	updated, err := h.loanService.UpdateReturnedBook(r.Context(), found.ID, *req.Returned)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Service failed to update loan", slog.Int64("loanID", found.ID), slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanResponse(updated))
}

// FindLoans handles GET /api/loans
// @Summary Search loans
// @Description Returns loans of the given customer OR of the book with the given ISBN. Without any filter the page is empty.
// @Tags Loans
// @Produce json
// @Param isbn query string false "Exact book ISBN"
// @Param customer query string false "Exact customer name"
// @Param page query int false "Zero-based page number" Minimum(0)
// @Param size query int false "Page size (max 1000)" Minimum(1)
// @Success 200 {object} dto.PageResponse[dto.LoanResponse] "Page of loans"
// @Failure 400 {object} dto.ErrorResponse "Invalid paging parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/loans [get]
// @Security BearerAuth
func (h *LoanHandler) FindLoans(w http.ResponseWriter, r *http.Request) {
	pageable, err := getPageableFromQuery(r)
	if err != nil {
		respondError(w, err)
		return
	}

	filter := loan.Filter{
		Isbn:     optionalQuery(r, "isbn"),
		Customer: optionalQuery(r, "customer"),
	}

	page, err := h.loanService.Find(r.Context(), filter, pageable)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to search loans", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPageResponse(page, dto.NewLoanResponseFromValue))
}

func (h *LoanHandler) loadLoan(w http.ResponseWriter, r *http.Request) (*loan.Loan, bool) {
	loanID, err := getIDFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return nil, false
	}

	found, ok, err := h.loanService.FindByID(r.Context(), loanID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to get loan", slog.Int64("loanID", loanID), slog.Any("error", err))
		respondError(w, err)
		return nil, false
	}
	if !ok {
		respondError(w, fmt.Errorf("%w: loan %d", apperrors.ErrNotFound, loanID))
		return nil, false
	}
	return found, true
}
