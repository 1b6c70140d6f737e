package book

import (
	"strings"
	"time"

	"library-api/internal/pkg/apperrors"
)

var ErrDuplicateIsbn = apperrors.NewBusinessError("Isbn já utilizado por outro livro!")

type Book struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Isbn      string    `json:"isbn"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewBook(title, author, isbn string) *Book {
	return &Book{
		Title:  strings.TrimSpace(title),
		Author: strings.TrimSpace(author),
		Isbn:   strings.TrimSpace(isbn),
	}
}

// HasID reports whether the book was already persisted.
func (b *Book) HasID() bool {
	return b != nil && b.ID > 0
}

// Filter narrows a book search. Every non-empty field must be contained,
// case-insensitively, in the matching column.
type Filter struct {
	Title  string
	Author string
	Isbn   string
}

func (f Filter) IsEmpty() bool {
	return f.Title == "" && f.Author == "" && f.Isbn == ""
}
