package middleware

import (
	"net/http"

	"library-api/internal/api/handler/dto"

	jsoniter "github.com/json-iterator/go"
)

func writeErrors(w http.ResponseWriter, status int, messages ...string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsoniter.NewEncoder(w).Encode(dto.NewErrorResponse(messages...))
}
