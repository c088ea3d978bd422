package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/security"
	"github.com/aryan0dhankhar/shopcart/internal/security/audit"
	"github.com/aryan0dhankhar/shopcart/internal/security/auth"
	"github.com/aryan0dhankhar/shopcart/internal/security/ratelimit"
)

type ClaimsContextKey struct{}

// IsPublic reports whether a request may be served without a token
func IsPublic(r *http.Request) bool {
	p := r.URL.Path
	switch {
	case p == "/healthz", p == "/readyz", p == "/metrics":
		return true
	case p == "/api/auth/register", p == "/api/auth/login":
		return true
	case strings.HasPrefix(p, "/api/recovery/"):
		return true
	case p == "/api/questions" && r.Method == http.MethodGet:
		return true
	}
	return r.Method == http.MethodOptions
}

func JWTMiddleware(tm *auth.TokenManager, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsPublic(r) {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "missing auth")
				return
			}

			tokenString, err := auth.ExtractToken(authHeader)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid auth")
				return
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				log.Debug("token rejected", slog.String("error", err.Error()))
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission rejects callers whose role lacks perm
func RequirePermission(authz *security.AuthorizationService, perm security.Permission, auditLog *audit.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaimsFromContext(r.Context())
			if claims == nil {
				writeError(w, http.StatusUnauthorized, "missing auth")
				return
			}
			if err := authz.ValidatePermission(claims.Role, perm); err != nil {
				auditLog.LogDenied(r.Context(), claims.UserID, err.Error())
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitMiddleware limits requests by client address on paths with one of prefixes
func RateLimitMiddleware(limiter *ratelimit.Limiter, log *slog.Logger, prefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limited := false
			for _, p := range prefixes {
				if strings.HasPrefix(r.URL.Path, p) {
					limited = true
					break
				}
			}
			if !limited {
				next.ServeHTTP(w, r)
				return
			}

			key := clientIP(r) + " " + r.URL.Path
			if !limiter.Allow(key) {
				log.Warn("rate limit exceeded",
					slog.String("path", r.URL.Path),
					slog.String("client", clientIP(r)),
				)
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func AuditMiddleware(auditLog *audit.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
				userID := ""
				if claims := GetClaimsFromContext(r.Context()); claims != nil {
					userID = claims.UserID
				}
				auditLog.LogAction(r.Context(), userID, strings.ToLower(r.Method), r.URL.Path, "", "initiated", "")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestID tags every request with an id, reusing X-Request-ID when the caller sent one
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(audit.WithRequestID(r.Context(), id)))
	})
}

func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	if c, ok := ctx.Value(ClaimsContextKey{}).(*auth.Claims); ok {
		return c
	}
	return nil
}

// Identity returns the caller's user id and role, empty when unauthenticated
func Identity(ctx context.Context) (string, domain.Role) {
	if c := GetClaimsFromContext(ctx); c != nil {
		return c.UserID, c.Role
	}
	return "", ""
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
