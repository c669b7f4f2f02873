package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sadman/salvage/internal/auth"
	"github.com/sadman/salvage/internal/service"
)

// AuthHandler manages the Google Sign-In flow and session management.
//
//   - HandleGoogleLogin → verify the posted ID token, find-or-create the
//     user, set the session cookie, return the user
//   - HandleLogout      → clear the session cookie
//   - HandleMe          → return the logged-in user's profile
type AuthHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users *service.UserService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, logger: logger}
}

type googleLoginRequest struct {
	Token string `json:"token"`
}

// HandleGoogleLogin completes a Google Sign-In.
//
// HTTP: POST /api/auth/google
// BODY: {"token": "<google id token>"}
//
// The browser obtains the ID token from Google Identity Services and
// posts it here. The token is verified against Google's signing keys
// before any claim in it is trusted; a token that merely decodes is not
// accepted. On success the response carries the user record and the
// session JWT rides in an HttpOnly cookie.
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	result, err := h.users.Login(r.Context(), req.Token)
	if err != nil {
		writeError(w, err)
		return
	}

	// SameSite=Lax keeps the cookie off cross-site POSTs; Secure should
	// be enabled when serving over HTTPS.
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(auth.SessionDuration / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, result.User)
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /api/auth/logout
//
// Sessions are stateless JWTs, so logout means deleting the client-side
// cookie; the token itself stays valid until expiry but can no longer be
// sent.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the currently authenticated user's profile.
//
// HTTP: GET /api/me
// Auth: required — RequireAuth has put the userID in the context.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but be safe.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("me: user lookup failed", slog.String("userID", userID))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
