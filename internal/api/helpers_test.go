package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/hearthapp/hearth-api/internal/api/shared"
	"github.com/hearthapp/hearth-api/internal/domain"
)

// newJSONRequest builds a request carrying a JSON-encoded body.
func newJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// newRawRequest builds a request with a literal body, for malformed payloads.
func newRawRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withUser stashes the user ID in the request context the way the auth
// middleware would.
func withUser(r *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
	return r.WithContext(ctx)
}

// serveWithParam routes the request through a one-route chi router so path
// parameters resolve.
func serveWithParam(
	method, pattern string,
	handlerFunc http.HandlerFunc,
	req *http.Request,
) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.MethodFunc(method, pattern, handlerFunc)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// serve invokes the handler directly for routes without path parameters.
func serve(handlerFunc http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handlerFunc(rr, req)
	return rr
}

// decodeBody unmarshals the recorder's JSON body into out.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), out))
}

// fixtureTask builds a valid pending task owned by userID.
func fixtureTask(t *testing.T, userID uuid.UUID, title string) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(userID, title)
	require.NoError(t, err)
	return task
}
