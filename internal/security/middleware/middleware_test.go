package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/security"
	"github.com/aryan0dhankhar/shopcart/internal/security/audit"
	"github.com/aryan0dhankhar/shopcart/internal/security/auth"
	"github.com/aryan0dhankhar/shopcart/internal/security/ratelimit"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestJWTMiddleware(t *testing.T) {
	tm := auth.NewTokenManager("secret", "", time.Minute)
	h := JWTMiddleware(tm, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, role := Identity(r.Context())
		w.Header().Set("X-User", id+"/"+string(role))
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/carts", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code, "login is public")

	token, err := tm.GenerateToken("0102030400", domain.RoleUser)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/carts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "0102030400/USER", rec.Header().Get("X-User"))

	req = httptest.NewRequest(http.MethodGet, "/api/carts", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePermission(t *testing.T) {
	tm := auth.NewTokenManager("secret", "", time.Minute)
	authz := security.NewAuthorizationService(discardLogger())
	h := JWTMiddleware(tm, discardLogger())(RequirePermission(authz, security.PermManageProducts, audit.NewLogger(discardLogger()))(ok))

	for role, want := range map[domain.Role]int{domain.RoleAdmin: http.StatusNoContent, domain.RoleUser: http.StatusForbidden} {
		token, err := tm.GenerateToken("x", role)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader("{}"))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, role)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := ratelimit.NewLimiter(1, time.Minute)
	defer limiter.Stop()
	h := RateLimitMiddleware(limiter, discardLogger(), "/api/auth/login")(ok)

	send := func(path string) int {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, send("/api/auth/login"))
	assert.Equal(t, http.StatusTooManyRequests, send("/api/auth/login"))
	assert.Equal(t, http.StatusNoContent, send("/api/products"))
	assert.Equal(t, http.StatusNoContent, send("/api/products"))
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = audit.RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "abc", seen)
}

func TestValidateJSONContentType(t *testing.T) {
	h := ValidateJSONContentType(discardLogger())(ok)

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader("code=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
