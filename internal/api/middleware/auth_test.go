package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthapp/hearth-api/internal/api/shared"
	"github.com/hearthapp/hearth-api/internal/service/auth"
)

// okHandler records whether it ran and what user ID it saw.
type okHandler struct {
	called    bool
	gotUserID uuid.UUID
	gotOK     bool
}

func (h *okHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.gotUserID, h.gotOK = GetUserID(r)
	w.WriteHeader(http.StatusOK)
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	t.Run("passes_valid_token_through", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		mockJWT := auth.NewMockJWTService()
		mockJWT.Claims.UserID = userID

		next := &okHandler{}
		middleware := NewAuthMiddleware(mockJWT)

		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer some-valid-token")
		rr := httptest.NewRecorder()
		middleware.Authenticate(next).ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.True(t, next.called)
		require.True(t, next.gotOK)
		assert.Equal(t, userID, next.gotUserID)
	})

	t.Run("rejects_missing_header", func(t *testing.T) {
		t.Parallel()

		next := &okHandler{}
		middleware := NewAuthMiddleware(auth.NewMockJWTService())

		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		rr := httptest.NewRecorder()
		middleware.Authenticate(next).ServeHTTP(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, next.called)
		assert.Equal(t, "Authorization header required", errorBody(t, rr))
	})

	t.Run("rejects_non_bearer_scheme", func(t *testing.T) {
		t.Parallel()

		next := &okHandler{}
		middleware := NewAuthMiddleware(auth.NewMockJWTService())

		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rr := httptest.NewRecorder()
		middleware.Authenticate(next).ServeHTTP(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, next.called)
		assert.Equal(t, "Invalid authorization format", errorBody(t, rr))
	})

	t.Run("rejects_expired_token", func(t *testing.T) {
		t.Parallel()

		next := &okHandler{}
		middleware := NewAuthMiddleware(auth.NewMockJWTService().WithValidationError(auth.ErrExpiredToken))

		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer stale-token")
		rr := httptest.NewRecorder()
		middleware.Authenticate(next).ServeHTTP(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, next.called)
		assert.Equal(t, "Token expired", errorBody(t, rr))
	})

	t.Run("rejects_invalid_token", func(t *testing.T) {
		t.Parallel()

		next := &okHandler{}
		middleware := NewAuthMiddleware(auth.NewMockJWTService().WithValidationError(auth.ErrInvalidToken))

		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rr := httptest.NewRecorder()
		middleware.Authenticate(next).ServeHTTP(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Invalid token", errorBody(t, rr))
	})

	t.Run("rejects_refresh_token_on_api_routes", func(t *testing.T) {
		t.Parallel()

		next := &okHandler{}
		middleware := NewAuthMiddleware(auth.NewMockJWTService().WithValidationError(auth.ErrWrongTokenType))

		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer refresh-token")
		rr := httptest.NewRecorder()
		middleware.Authenticate(next).ServeHTTP(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Invalid token", errorBody(t, rr))
	})

	t.Run("hides_unexpected_validation_failures", func(t *testing.T) {
		t.Parallel()

		next := &okHandler{}
		middleware := NewAuthMiddleware(
			auth.NewMockJWTService().WithValidationError(errors.New("keyring unavailable")),
		)

		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		rr := httptest.NewRecorder()
		middleware.Authenticate(next).ServeHTTP(rr, req)

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.False(t, next.called)
		assert.Equal(t, "Authentication error", errorBody(t, rr))
		assert.NotContains(t, rr.Body.String(), "keyring")
	})
}
