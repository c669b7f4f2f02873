// Package service contains the business logic layer.
//
// Handlers parse HTTP and write responses; services validate, enforce
// ownership rules, and orchestrate; repositories read and write the
// database. Services receive repository interfaces, not concrete types,
// so tests inject in-memory fakes and the sqlite package is never
// imported here.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sadman/salvage/internal/apperror"
	"github.com/sadman/salvage/internal/auth"
	"github.com/sadman/salvage/internal/model"
	"github.com/sadman/salvage/internal/repository"
)

// UserService handles login and user lookup.
type UserService struct {
	users    repository.UserRepository
	verifier auth.IdentityVerifier
	tokens   *auth.TokenService
	logger   *slog.Logger
}

// NewUserService creates a UserService with all dependencies injected.
func NewUserService(
	users repository.UserRepository,
	verifier auth.IdentityVerifier,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:    users,
		verifier: verifier,
		tokens:   tokens,
		logger:   logger,
	}
}

// LoginResult bundles the user record with the issued session token so
// the handler can set the cookie and respond in one step.
type LoginResult struct {
	User  *model.User
	Token string
}

// Login verifies a Google ID token, finds-or-creates the user it names,
// and issues a session token.
func (s *UserService) Login(ctx context.Context, rawIDToken string) (*LoginResult, error) {
	if strings.TrimSpace(rawIDToken) == "" {
		return nil, apperror.ValidationFailed("token", "ID token is required")
	}

	identity, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		s.logger.Warn("login rejected: ID token failed verification",
			slog.String("error", err.Error()),
		)
		return nil, apperror.ValidationFailed("token", "ID token could not be verified")
	}

	user, err := s.FindOrCreate(ctx, identity.Email, identity.Name, identity.Picture)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/user: generating session token for %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return &LoginResult{User: user, Token: token}, nil
}

// FindOrCreate looks up a user by exact email match, creating one on
// first login. On a hit the stored record is returned unchanged — a new
// name or picture from the latest login is not applied.
//
// Repeated logins with the same email always land on the same row. When
// two first logins race, the UNIQUE(email) constraint makes one insert
// fail; the loser re-reads the winner's row instead of surfacing the
// conflict.
func (s *UserService) FindOrCreate(ctx context.Context, email, name, picture string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, apperror.ValidationFailed("email", "email is malformed")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.Storage(err, "could not look up user")
	}

	user = &model.User{
		Email:   email,
		Name:    name,
		Picture: picture,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost the duplicate-create race — the row exists now, use it.
		if existing, getErr := s.users.GetByEmail(ctx, email); getErr == nil {
			return existing, nil
		}
		s.logger.Error("failed to create user",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Storage(err, "could not create user")
	}

	s.logger.Info("user created",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// GetByID returns the user for the given internal ID. Used by /api/me
// after the middleware has validated the session.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.users.GetByID(ctx, id)
}
