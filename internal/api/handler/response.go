package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"library-api/internal/api/handler/dto"
	"library-api/internal/pkg/apperrors"
	"library-api/internal/pkg/pagination"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	msgNotFound        = "Resource not found."
	msgConflict        = "The request conflicts with the current state of the resource."
	msgUnauthorized    = "Unauthorized."
	msgUnexpectedError = "An unexpected error occurred."
)

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"errors":["Internal server error"]}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

// respondError maps an error chain to a status code and the list of
// messages returned to the client.
func respondError(w http.ResponseWriter, err error) {
	status, messages := http.StatusInternalServerError, []string{msgUnexpectedError}
	var validationErrors apperrors.ValidationErrors
	var validationError *apperrors.ValidationError
	var businessError *apperrors.BusinessError

	switch {
	case errors.As(err, &validationErrors):
		status, messages = http.StatusBadRequest, validationErrors.Messages()
	case errors.As(err, &businessError):
		status, messages = http.StatusBadRequest, []string{businessError.Message}
	case errors.Is(err, apperrors.ErrNotFound):
		status, messages = http.StatusNotFound, []string{msgNotFound}
	case errors.As(err, &validationError):
		status, messages = http.StatusBadRequest, []string{validationError.Message}
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, messages = http.StatusBadRequest, []string{err.Error()}
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrAlreadyExists):
		status, messages = http.StatusConflict, []string{msgConflict}
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, messages = http.StatusUnauthorized, []string{msgUnauthorized}
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	respondJSON(w, status, dto.NewErrorResponse(messages...))
}

func getIDFromURL(r *http.Request, param string) (int64, error) {
	idStr := chi.URLParam(r, param)
	if idStr == "" {
		return 0, fmt.Errorf("%w: %s not found in URL path", apperrors.ErrInvalidArgument, param)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s format in URL path: %s", apperrors.ErrInvalidArgument, param, idStr)
	}
	return id, nil
}

// getPageableFromQuery reads the zero-based page and size query parameters.
func getPageableFromQuery(r *http.Request) (pagination.Pageable, error) {
	query := r.URL.Query()

	page, err := parseNonNegative(query.Get("page"), "page")
	if err != nil {
		return pagination.Pageable{}, err
	}
	size, err := parseNonNegative(query.Get("size"), "size")
	if err != nil {
		return pagination.Pageable{}, err
	}
	pageable := pagination.NewPageable(page, size)
	if pageable.OffsetOverflows() {
		return pagination.Pageable{}, fmt.Errorf("%w: page is too large for size %d", apperrors.ErrInvalidArgument, pageable.Size)
	}
	return pageable, nil
}

func parseNonNegative(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", apperrors.ErrInvalidArgument, name)
	}
	return n, nil
}

// optionalQuery returns nil when the parameter is absent from the query.
func optionalQuery(r *http.Request, name string) *string {
	query := r.URL.Query()
	if !query.Has(name) {
		return nil
	}
	value := query.Get(name)
	return &value
}
