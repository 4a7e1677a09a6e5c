package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"trattoria-order-service/internal/utils"

	"github.com/google/uuid"
)

const (
	CartSessionHeader = "X-Cart-Session"
	CartSessionCookie = "cart_session"

	cartSessionMaxAge = 30 * 24 * time.Hour
)

func WithCartSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, cartContextKey, sessionID)
}

func GetCartSession(ctx context.Context) string {
	id, _ := ctx.Value(cartContextKey).(string)
	return id
}

func readCartToken(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(CartSessionHeader)); v != "" {
		return v
	}
	if c, err := r.Cookie(CartSessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// CartSession resolves the signed cart session of the caller, minting a new
// one on first contact or when the presented token does not verify. The
// token is echoed in both the response header and the cookie.
func CartSession(secret string, secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := readCartToken(r)
			sessionID, ok := utils.VerifyCartSessionToken(secret, token)
			if !ok {
				sessionID = uuid.NewString()
				token = utils.CreateCartSessionToken(secret, sessionID)
				http.SetCookie(w, &http.Cookie{
					Name:     CartSessionCookie,
					Value:    token,
					Path:     "/",
					MaxAge:   int(cartSessionMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secureCookie,
					SameSite: http.SameSiteLaxMode,
				})
			}
			w.Header().Set(CartSessionHeader, token)
			next.ServeHTTP(w, r.WithContext(WithCartSession(r.Context(), sessionID)))
		})
	}
}
