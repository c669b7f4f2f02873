package auth

import (
	"context"
	"net/http"
)

// contextKey is an unexported type for context keys in this package, so
// no other package can read or shadow the values we store.
type contextKey string

const userIDKey contextKey = "userID"

// SessionCookieName is the cookie carrying the session JWT. HttpOnly, so
// scripts on the page cannot read it.
const SessionCookieName = "salvage_session"

// RequireAuth enforces authentication on protected routes.
//
// It reads the session JWT from the cookie, validates it, and stores the
// userID in the request context. A missing or invalid token stops the
// chain with 401. Every /api/files and /api/transpile route sits behind
// this — the userID used for scoping always comes from the validated
// token, never from request data.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				http.Error(w, `{"error":"unauthorized","message":"valid authentication required"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the
// request context. Returns ("", false) for anonymous requests.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// WithUserID returns a context carrying the given userID. Handler tests
// use it to simulate an authenticated request without minting a token.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// extractUserID reads the session cookie and validates the JWT inside it.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", err
	}

	return tokens.Validate(cookie.Value)
}
