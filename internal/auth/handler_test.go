package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/royalcarriage/platform/internal/shared"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleLoginSuccess(t *testing.T) {
	svc, _ := newTestService(t, testUser(t, "u1", "admin@royalcarriage.test", "super-secret", true))
	handler := NewHandler(discardLogger(), svc)

	body := `{"email":"admin@royalcarriage.test","password":"super-secret"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.handleLogin(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"token"`)
	require.Contains(t, rr.Body.String(), `"role":"admin"`)
}

func TestHandleLoginValidation(t *testing.T) {
	svc, _ := newTestService(t)
	handler := NewHandler(discardLogger(), svc)

	cases := []string{
		`{"email":"not-an-email","password":"super-secret"}`,
		`{"email":"admin@royalcarriage.test","password":"short"}`,
		`{broken json`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		rr := httptest.NewRecorder()
		handler.handleLogin(rr, req)
		require.Equal(t, http.StatusBadRequest, rr.Code, "body=%s", body)
	}
}

func TestHandleLoginBadCredentials(t *testing.T) {
	svc, _ := newTestService(t, testUser(t, "u1", "admin@royalcarriage.test", "super-secret", true))
	handler := NewHandler(discardLogger(), svc)

	body := `{"email":"admin@royalcarriage.test","password":"wrong-password"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.handleLogin(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthenticateMiddleware(t *testing.T) {
	svc, _ := newTestService(t, testUser(t, "u1", "admin@royalcarriage.test", "super-secret", true))
	_, token, err := svc.Authenticate(context.Background(), "admin@royalcarriage.test", "super-secret")
	require.NoError(t, err)

	mw := Middleware{Service: svc, Logger: discardLogger()}
	var seen *shared.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	mw.Authenticate(next).ServeHTTP(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	require.NotNil(t, seen)
	require.Equal(t, "u1", seen.ID)

	// Bad token is rejected before the handler runs.
	seen = nil
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rr = httptest.NewRecorder()
	mw.Authenticate(next).ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Nil(t, seen)
}

func TestRequireUser(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	RequireUser(next).ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(shared.ContextWithIdentity(req.Context(), &shared.Identity{ID: "u1"}))
	rr = httptest.NewRecorder()
	RequireUser(next).ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)
}
