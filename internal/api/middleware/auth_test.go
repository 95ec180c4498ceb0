package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routekit/routekit/internal/api/middleware"
	"github.com/routekit/routekit/internal/auth"
)

func newTestVerifier(t *testing.T) *auth.TokenVerifier {
	t.Helper()
	return auth.NewTokenVerifier(auth.VerifierConfig{
		SigningKey: "test-signing-key-for-middleware",
	})
}

func protectedHandler(verifier *auth.TokenVerifier, scope string) http.Handler {
	return middleware.Auth(verifier, scope)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(middleware.GetSubject(r.Context())))
	}))
}

func TestAuth_MissingHeader(t *testing.T) {
	handler := protectedHandler(newTestVerifier(t), "")

	req := httptest.NewRequest(http.MethodGet, "/admin/routes", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestAuth_MalformedHeader(t *testing.T) {
	handler := protectedHandler(newTestVerifier(t), "")

	req := httptest.NewRequest(http.MethodGet, "/admin/routes", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ValidToken(t *testing.T) {
	verifier := newTestVerifier(t)
	token, err := verifier.Issue("ops-user", "routes:read", time.Minute)
	require.NoError(t, err)

	handler := protectedHandler(verifier, "")

	req := httptest.NewRequest(http.MethodGet, "/admin/routes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ops-user", w.Body.String())
}

func TestAuth_ScopeEnforced(t *testing.T) {
	verifier := newTestVerifier(t)

	token, err := verifier.Issue("ops-user", "profiles:read", time.Minute)
	require.NoError(t, err)

	handler := protectedHandler(verifier, "routes:read")

	req := httptest.NewRequest(http.MethodGet, "/admin/routes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ScopeSatisfied(t *testing.T) {
	verifier := newTestVerifier(t)

	token, err := verifier.Issue("ops-user", "profiles:read routes:read", time.Minute)
	require.NoError(t, err)

	handler := protectedHandler(verifier, "routes:read")

	req := httptest.NewRequest(http.MethodGet, "/admin/routes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_ExpiredToken(t *testing.T) {
	verifier := newTestVerifier(t)

	token, err := verifier.Issue("ops-user", "routes:read", -time.Minute)
	require.NoError(t, err)

	handler := protectedHandler(verifier, "")

	req := httptest.NewRequest(http.MethodGet, "/admin/routes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
