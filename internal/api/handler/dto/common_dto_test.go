package dto

import (
	"testing"

	"library-api/internal/domain/book"
	"library-api/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
)

func TestNewPageResponse(t *testing.T) {
	page := pagination.NewPage([]book.Book{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}, pagination.NewPageable(1, 2), 5)

	resp := NewPageResponse(page, NewBookResponseFromValue)

	assert.Len(t, resp.Content, 2)
	assert.Equal(t, "B", resp.Content[1].Title)
	assert.Equal(t, int64(5), resp.TotalElements)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, PageableResponse{PageNumber: 1, PageSize: 2}, resp.Pageable)
}

func TestNewPageResponse_EmptyContentIsNotNil(t *testing.T) {
	resp := NewPageResponse(pagination.Empty[book.Book](pagination.NewPageable(0, 20)), NewBookResponseFromValue)

	assert.NotNil(t, resp.Content)
	assert.Zero(t, resp.TotalPages)
}

func TestNewErrorResponse(t *testing.T) {
	assert.Equal(t, []string{}, NewErrorResponse().Errors)
	assert.Equal(t, []string{"a", "b"}, NewErrorResponse("a", "b").Errors)
}
