package dto

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"library-api/internal/domain/loan"
	"library-api/internal/pkg/apperrors"
)

const maxCustomerLength = 100

type CreateLoanRequest struct {
	Isbn          string `json:"isbn"`
	Customer      string `json:"customer"`
	CustomerEmail string `json:"customerEmail"`
}

func (r *CreateLoanRequest) Validate() error {
	var errs apperrors.ValidationErrors
	if strings.TrimSpace(r.Isbn) == "" {
		errs.Add("isbn", "isbn must not be empty")
	}

	customer := strings.TrimSpace(r.Customer)
	switch {
	case customer == "":
		errs.Add("customer", "customer must not be empty")
	case utf8.RuneCountInString(customer) > maxCustomerLength:
		errs.Add("customer", "customer must have at most 100 characters")
	}

	email := strings.TrimSpace(r.CustomerEmail)
	if email == "" {
		errs.Add("customerEmail", "customerEmail must not be empty")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("customerEmail", "customerEmail must be a well-formed email address")
	}
	return errs.ErrOrNil()
}

type CreateLoanResponse struct {
	ID int64 `json:"id"`
}

// ReturnedLoanRequest uses a pointer so a missing flag is told apart from false.
type ReturnedLoanRequest struct {
	Returned *bool `json:"returned"`
}

func (r *ReturnedLoanRequest) Validate() error {
	if r.Returned == nil {
		return apperrors.ValidationErrors{{Field: "returned", Message: "returned must not be null"}}
	}
	return nil
}

type LoanResponse struct {
	ID            int64        `json:"id"`
	Isbn          string       `json:"isbn"`
	Customer      string       `json:"customer"`
	CustomerEmail string       `json:"customerEmail"`
	LoanDate      string       `json:"loanDate"`
	Returned      *bool        `json:"returned"`
	Status        string       `json:"status"`
	Book          BookResponse `json:"book"`
}

func NewLoanResponse(l *loan.Loan) LoanResponse {
	if l == nil {
		return LoanResponse{}
	}
	resp := LoanResponse{
		ID:            l.ID,
		Customer:      l.Customer,
		CustomerEmail: l.CustomerEmail,
		LoanDate:      l.LoanDate.Format("2006-01-02"),
		Returned:      l.Returned,
		Status:        string(l.Status()),
		Book:          NewBookResponse(l.Book),
	}
	if l.Book != nil {
		resp.Isbn = l.Book.Isbn
	}
	return resp
}

func NewLoanResponseFromValue(l loan.Loan) LoanResponse {
	return NewLoanResponse(&l)
}
