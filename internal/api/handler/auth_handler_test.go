package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"library-api/internal/api/handler"
	"library-api/internal/api/handler/dto"
	"library-api/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAuthHandler_GenerateBearerToken(t *testing.T) {
	h := handler.NewAuthHandler(config.AuthConfig{Enabled: true, JWTSecret: testSecret}, logger)

	t.Run("issues a signed token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GenerateBearerToken(rec, newRequest(http.MethodPost, "/auth/token", []byte(`{"username":"librarian"}`), nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.TokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.True(t, strings.HasPrefix(resp.Token, "Bearer "))

		claims := jwt.MapClaims{}
		parsed, err := jwt.ParseWithClaims(strings.TrimPrefix(resp.Token, "Bearer "), claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(testSecret), nil
		})
		require.NoError(t, err)
		assert.True(t, parsed.Valid)
		assert.Equal(t, "librarian", claims["username"])
		assert.Contains(t, claims, "exp")
	})

	t.Run("blank username", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GenerateBearerToken(rec, newRequest(http.MethodPost, "/auth/token", []byte(`{"username":"  "}`), nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GenerateBearerToken(rec, newRequest(http.MethodPost, "/auth/token", []byte(`{"username":`), nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
