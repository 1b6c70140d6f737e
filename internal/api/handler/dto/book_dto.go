package dto

import (
	"strings"

	"library-api/internal/domain/book"
	"library-api/internal/pkg/apperrors"
)

type CreateBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Isbn   string `json:"isbn"`
}

func (r *CreateBookRequest) Validate() error {
	var errs apperrors.ValidationErrors
	if strings.TrimSpace(r.Title) == "" {
		errs.Add("title", "title must not be empty")
	}
	if strings.TrimSpace(r.Author) == "" {
		errs.Add("author", "author must not be empty")
	}
	if strings.TrimSpace(r.Isbn) == "" {
		errs.Add("isbn", "isbn must not be empty")
	}
	return errs.ErrOrNil()
}

func (r *CreateBookRequest) ToDomain() *book.Book {
	return book.NewBook(r.Title, r.Author, r.Isbn)
}

// UpdateBookRequest changes the descriptive fields only; the ISBN of a book
// is fixed once created.
type UpdateBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

func (r *UpdateBookRequest) Validate() error {
	var errs apperrors.ValidationErrors
	if strings.TrimSpace(r.Title) == "" {
		errs.Add("title", "title must not be empty")
	}
	if strings.TrimSpace(r.Author) == "" {
		errs.Add("author", "author must not be empty")
	}
	return errs.ErrOrNil()
}

func (r *UpdateBookRequest) ApplyTo(b *book.Book) {
	b.Title = strings.TrimSpace(r.Title)
	b.Author = strings.TrimSpace(r.Author)
}

type BookResponse struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Isbn   string `json:"isbn"`
}

func NewBookResponse(b *book.Book) BookResponse {
	if b == nil {
		return BookResponse{}
	}
	return BookResponse{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
		Isbn:   b.Isbn,
	}
}

func NewBookResponseFromValue(b book.Book) BookResponse {
	return NewBookResponse(&b)
}
