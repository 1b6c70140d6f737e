package dto

import (
	"errors"
	"strings"
	"testing"
	"time"

	"library-api/internal/domain/book"
	"library-api/internal/domain/loan"
	"library-api/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLoanRequest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		req      CreateLoanRequest
		expected []string
	}{
		{
			name: "valid request",
			req:  CreateLoanRequest{Isbn: "123", Customer: "Fulano", CustomerEmail: "fulano@email.com"},
		},
		{
			name:     "all fields empty",
			req:      CreateLoanRequest{},
			expected: []string{"isbn must not be empty", "customer must not be empty", "customerEmail must not be empty"},
		},
		{
			name:     "customer too long",
			req:      CreateLoanRequest{Isbn: "123", Customer: strings.Repeat("a", 101), CustomerEmail: "fulano@email.com"},
			expected: []string{"customer must have at most 100 characters"},
		},
		{
			name:     "malformed email",
			req:      CreateLoanRequest{Isbn: "123", Customer: "Fulano", CustomerEmail: "not-an-email"},
			expected: []string{"customerEmail must be a well-formed email address"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.expected == nil {
				assert.NoError(t, err)
				return
			}
			var verrs apperrors.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.expected, verrs.Messages())
		})
	}
}

func TestReturnedLoanRequest_Validate(t *testing.T) {
	returned := false
	assert.NoError(t, (&ReturnedLoanRequest{Returned: &returned}).Validate())
	assert.ErrorIs(t, (&ReturnedLoanRequest{}).Validate(), apperrors.ErrValidation)
}

func TestNewLoanResponse(t *testing.T) {
	returned := true
	l := &loan.Loan{
		ID:            3,
		Customer:      "Fulano",
		CustomerEmail: "fulano@email.com",
		LoanDate:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Returned:      &returned,
		Book:          &book.Book{ID: 1, Title: "Title", Author: "Author", Isbn: "123"},
	}

	resp := NewLoanResponse(l)

	assert.Equal(t, int64(3), resp.ID)
	assert.Equal(t, "123", resp.Isbn)
	assert.Equal(t, "2024-03-01", resp.LoanDate)
	assert.Equal(t, string(loan.StatusClosed), resp.Status)
	assert.Equal(t, &returned, resp.Returned)
	assert.Equal(t, int64(1), resp.Book.ID)
	assert.Equal(t, LoanResponse{}, NewLoanResponse(nil))
}
