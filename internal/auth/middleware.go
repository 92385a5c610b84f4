package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// CookieName is the HttpOnly cookie that carries the access token.
const CookieName = "token"

// contextKey is unexported so no other package can read or shadow the user ID.
type contextKey string

const userIDKey contextKey = "userID"

var errNoToken = errors.New("auth: no token")

// RequireAuth rejects the request with 401 unless it carries a valid token,
// and otherwise stores the user ID in the request context.
//
// A nil TokenService means authentication is disabled, so every request is
// rejected.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}` + "\n"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// OptionalAuth attaches the user ID when a valid token is present and lets
// anonymous requests through untouched.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := extractUserID(r, tokens); err == nil {
				r = r.WithContext(WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns ("", false) for anonymous requests.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// extractUserID prefers an "Authorization: Bearer" header (API clients) and
// falls back to the cookie set at login (browsers).
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	if tokens == nil {
		return "", errNoToken
	}

	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return "", errNoToken
		}
		return tokens.Validate(strings.TrimSpace(token))
	}

	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", errNoToken
	}
	return tokens.Validate(cookie.Value)
}
