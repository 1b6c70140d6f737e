package loan

import (
	"testing"
	"time"

	"library-api/internal/domain/book"

	"github.com/stretchr/testify/assert"
)

func TestNewLoan(t *testing.T) {
	b := &book.Book{ID: 3}

	t.Run("Defaults loan date to today", func(t *testing.T) {
		l := NewLoan(b, " Fulano ", " f@example.com ", time.Time{})

		assert.Equal(t, "Fulano", l.Customer)
		assert.Equal(t, "f@example.com", l.CustomerEmail)
		assert.Equal(t, Today(time.Now()), l.LoanDate)
		assert.Nil(t, l.Returned)
		assert.Equal(t, int64(3), l.BookID())
	})

	t.Run("Keeps given loan date", func(t *testing.T) {
		date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
		l := NewLoan(b, "Fulano", "f@example.com", date)

		assert.Equal(t, date, l.LoanDate)
	})
}

func TestLoan_Status(t *testing.T) {
	tests := []struct {
		name     string
		returned *bool
		expected LoanStatus
	}{
		{"nil is open", nil, StatusOpen},
		{"false is open", boolPtr(false), StatusOpen},
		{"true is closed", boolPtr(true), StatusClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Loan{Returned: tt.returned}
			assert.Equal(t, tt.expected, l.Status())
			assert.Equal(t, tt.expected == StatusOpen, l.IsOutstanding())
		})
	}
}

func TestLoan_MarkReturned(t *testing.T) {
	t.Run("Open to closed", func(t *testing.T) {
		l := &Loan{}
		assert.False(t, l.MarkReturned(true))
		assert.Equal(t, StatusClosed, l.Status())
	})

	t.Run("Open stays open", func(t *testing.T) {
		l := &Loan{Returned: boolPtr(false)}
		assert.False(t, l.MarkReturned(false))
		assert.Equal(t, StatusOpen, l.Status())
	})

	t.Run("Closed to open is a reopen", func(t *testing.T) {
		l := &Loan{Returned: boolPtr(true)}
		assert.True(t, l.MarkReturned(false))
		assert.Equal(t, StatusOpen, l.Status())
	})

	t.Run("Closed stays closed", func(t *testing.T) {
		l := &Loan{Returned: boolPtr(true)}
		assert.False(t, l.MarkReturned(true))
	})
}

func TestLateThreshold(t *testing.T) {
	now := time.Date(2024, time.March, 10, 23, 59, 0, 0, time.UTC)
	threshold := LateThreshold(now)

	assert.Equal(t, time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC), threshold)

	exactlyFourDaysAgo := Today(now).AddDate(0, 0, -4)
	fiveDaysAgo := Today(now).AddDate(0, 0, -5)
	assert.False(t, exactlyFourDaysAgo.Before(threshold), "loan from exactly four days ago is not late")
	assert.True(t, fiveDaysAgo.Before(threshold), "loan from five days ago is late")
}

func TestFilter_IsEmpty(t *testing.T) {
	customer := "Fulano"
	assert.True(t, Filter{}.IsEmpty())
	assert.False(t, Filter{Customer: &customer}.IsEmpty())
}
