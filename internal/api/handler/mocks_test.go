package handler_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"library-api/internal/domain/book"
	"library-api/internal/domain/loan"
	"library-api/internal/pkg/pagination"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) CreateBook(ctx context.Context, b *book.Book) (*book.Book, error) {
	args := m.Called(ctx, b)
	created, _ := args.Get(0).(*book.Book)
	return created, args.Error(1)
}

func (m *MockBookService) GetByID(ctx context.Context, bookID int64) (*book.Book, bool, error) {
	args := m.Called(ctx, bookID)
	found, _ := args.Get(0).(*book.Book)
	return found, args.Bool(1), args.Error(2)
}

func (m *MockBookService) UpdateBook(ctx context.Context, b *book.Book) (*book.Book, error) {
	args := m.Called(ctx, b)
	updated, _ := args.Get(0).(*book.Book)
	return updated, args.Error(1)
}

func (m *MockBookService) DeleteBook(ctx context.Context, b *book.Book) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookService) Find(ctx context.Context, filter book.Filter, pageable pagination.Pageable) (pagination.Page[book.Book], error) {
	args := m.Called(ctx, filter, pageable)
	return args.Get(0).(pagination.Page[book.Book]), args.Error(1)
}

func (m *MockBookService) GetByIsbn(ctx context.Context, isbn string) (*book.Book, bool, error) {
	args := m.Called(ctx, isbn)
	found, _ := args.Get(0).(*book.Book)
	return found, args.Bool(1), args.Error(2)
}

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) Save(ctx context.Context, l *loan.Loan) (*loan.Loan, error) {
	args := m.Called(ctx, l)
	saved, _ := args.Get(0).(*loan.Loan)
	return saved, args.Error(1)
}

func (m *MockLoanService) UpdateReturnedBook(ctx context.Context, loanID int64, returned bool) (*loan.Loan, error) {
	args := m.Called(ctx, loanID, returned)
	updated, _ := args.Get(0).(*loan.Loan)
	return updated, args.Error(1)
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
	loans, _ := args.Get(0).([]loan.Loan)
	return loans, args.Error(1)
}

func newRequest(method, target string, body []byte, params map[string]string) *http.Request {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
