package middleware

import (
	"context"
	"net/http"
	"strings"

	"trattoria-order-service/internal/auth"
	"trattoria-order-service/pkg/response"
)

type contextKey string

const (
	staffContextKey contextKey = "staffClaims"
	cartContextKey  contextKey = "cartSession"

	StaffTokenCookie = "staff_token"
)

func WithStaffClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, staffContextKey, claims)
}

func GetStaffClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(staffContextKey).(*auth.Claims)
	return claims, ok && claims != nil
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	code := "UNAUTHORIZED"
	if status == http.StatusForbidden {
		code = "FORBIDDEN"
	}
	response.Error(w, status, code, message)
}

// staffToken reads the bearer header first, then the cookie set at login
// so that browser pages and websockets work without custom headers.
func staffToken(r *http.Request) string {
	if token := auth.ParseBearerToken(r.Header.Get("Authorization")); token != "" {
		return token
	}
	if c, err := r.Cookie(StaffTokenCookie); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

// StaffAuth guards board and catalog-write routes by role. An empty secret
// disables the check entirely.
func StaffAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if strings.TrimSpace(jwtSecret) == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			need, guarded := auth.RequiredRole(r.URL.Path, r.Method)
			if !guarded {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.VerifyStaffToken(staffToken(r), jwtSecret)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Staff token required")
				return
			}
			if !claims.Role.Allows(need) {
				writeAuthError(w, http.StatusForbidden, "You do not have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithStaffClaims(r.Context(), claims)))
		})
	}
}
