package loan

import (
	"strings"
	"time"

	"library-api/internal/domain/book"
	"library-api/internal/pkg/apperrors"
)

// LateLoanDays is how many days a loan may stay outstanding before it is late.
const LateLoanDays = 4

// OutstandingLoanConstraint is the unique index allowing one outstanding loan
// per book.
const OutstandingLoanConstraint = "ux_loans_book_outstanding"

var (
	ErrBookAlreadyLoaned = apperrors.NewBusinessError("Book already loaned.")

	ErrLoanNotFound = apperrors.NewBusinessError("Empréstimo não encontrado!")

	ErrBookNotFoundForIsbn = apperrors.NewBusinessError("Book not found fot passad isbn.")
)

type LoanStatus string

const (
	StatusOpen   LoanStatus = "OPEN"
	StatusClosed LoanStatus = "CLOSED"
)

// Loan records a book lent to a customer. Returned is tri-state: nil and
// false both mean the book is still out.
type Loan struct {
	ID            int64
	Customer      string
	CustomerEmail string
	Book          *book.Book
	LoanDate      time.Time
	Returned      *bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewLoan(b *book.Book, customer, customerEmail string, loanDate time.Time) *Loan {
	if loanDate.IsZero() {
		loanDate = Today(time.Now())
	}
	return &Loan{
		Customer:      strings.TrimSpace(customer),
		CustomerEmail: strings.TrimSpace(customerEmail),
		Book:          b,
		LoanDate:      loanDate,
	}
}

func (l *Loan) IsOutstanding() bool {
	return l.Returned == nil || !*l.Returned
}

func (l *Loan) Status() LoanStatus {
	if l.IsOutstanding() {
		return StatusOpen
	}
	return StatusClosed
}

func (l *Loan) BookID() int64 {
	if l.Book == nil {
		return 0
	}
	return l.Book.ID
}

// MarkReturned sets the returned flag and reports whether a closed loan was
// put back into circulation.
func (l *Loan) MarkReturned(returned bool) (reopened bool) {
	reopened = !l.IsOutstanding() && !returned
	l.Returned = &returned
	return reopened
}

// Today truncates t to midnight in its own location.
func Today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// LateThreshold is the first loan date that is not yet late as of now.
func LateThreshold(now time.Time) time.Time {
	return Today(now).AddDate(0, 0, -LateLoanDays)
}

// Filter matches loans whose customer equals Customer OR whose book ISBN
// equals Isbn. A nil field never matches anything.
type Filter struct {
	Isbn     *string
	Customer *string
}

func (f Filter) IsEmpty() bool {
	return f.Isbn == nil && f.Customer == nil
}
