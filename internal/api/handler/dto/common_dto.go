package dto

import (
	"library-api/internal/pkg/pagination"
)

// ErrorResponse carries one message per problem found with the request.
type ErrorResponse struct {
	Errors []string `json:"errors"`
}

func NewErrorResponse(messages ...string) ErrorResponse {
	if messages == nil {
		messages = []string{}
	}
	return ErrorResponse{Errors: messages}
}

type TokenRequest struct {
	Username string `json:"username"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type PageableResponse struct {
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
}

type PageResponse[T any] struct {
	Content       []T              `json:"content"`
	TotalElements int64            `json:"totalElements"`
	TotalPages    int              `json:"totalPages"`
	Pageable      PageableResponse `json:"pageable"`
}

func NewPageResponse[T, R any](page pagination.Page[T], fn func(T) R) PageResponse[R] {
	mapped := pagination.Map(page, fn)
	return PageResponse[R]{
		Content:       mapped.Content,
		TotalElements: mapped.TotalElements,
		TotalPages:    mapped.TotalPages(),
		Pageable: PageableResponse{
			PageNumber: mapped.Pageable.Page,
			PageSize:   mapped.Pageable.Size,
		},
	}
}
