// Package auth provides Google identity verification and session tokens.
//
// Login flow:
//  1. The browser obtains a Google ID token via Google Sign-In and POSTs
//     it to /api/auth/google.
//  2. The server verifies the token against Google's published signing
//     keys (see google.go) — the token is never trusted as-is.
//  3. The user is found-or-created by email, and the server issues its
//     own JWT session token in an HttpOnly cookie.
//  4. Middleware validates the cookie on every protected request and puts
//     the userID in the request context.
//
// The session JWT is signed with HMAC-SHA256; the server verifies it with
// the same secret and needs no DB lookup per request.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionDuration is how long an issued session token stays valid.
// After expiry the client must sign in with Google again.
const SessionDuration = 24 * time.Hour

const issuer = "salvage"

// TokenService handles session JWT creation and validation.
// It holds the HMAC secret used both to sign and to verify.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production,
// e.g. JWT_SECRET=$(openssl rand -hex 32).
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims embeds jwt.RegisteredClaims; the internal user ID travels in the
// standard "sub" claim.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given userID.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, SessionDuration)
}

// GenerateWithDuration creates a token with a custom expiry.
// Used in tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a session token string, returning the
// userID from the "sub" claim.
//
// Pinning the algorithm with WithValidMethods blocks algorithm-confusion
// attacks; pinning the issuer rejects tokens minted by other apps.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
