package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sadman/salvage/internal/apperror"
	"github.com/sadman/salvage/internal/model"
	"github.com/sadman/salvage/internal/repository"
)

// UserStore implements repository.UserRepository over the shared
// connection pool.
type UserStore struct {
	conn *sql.DB
}

// compile-time check that *UserStore implements repository.UserRepository
var _ repository.UserRepository = (*UserStore)(nil)

// Create inserts a new user. The ID and CreatedAt are assigned here, so
// after the call the caller's struct carries the canonical record.
//
// The UNIQUE constraint on email means a concurrent create for the same
// address fails with a constraint error; the service layer treats that as
// "someone else won the race" and re-reads by email.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, name, picture, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.Name,
		user.Picture,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}

	return nil
}

// GetByEmail retrieves a user by exact email match.
// Returns apperror.ErrNotFound if no user has that email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User

	err := s.conn.QueryRowContext(ctx,
		`SELECT id, email, name, picture, created_at
		 FROM users WHERE email = ?`,
		email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Picture, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email %s: %w", email, err)
	}

	return &u, nil
}

// GetByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User

	err := s.conn.QueryRowContext(ctx,
		`SELECT id, email, name, picture, created_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Picture, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}

	return &u, nil
}
