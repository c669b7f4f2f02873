// Package repository defines the storage interfaces the service layer
// depends on. The sqlite subpackage provides the real implementation;
// tests use in-memory fakes.
package repository

import (
	"context"

	"github.com/sadman/salvage/internal/model"
)

type UserRepository interface {
	// Create inserts a new user, assigning ID and CreatedAt.
	Create(ctx context.Context, user *model.User) error
	// GetByEmail looks up a user by exact email match.
	// Returns apperror.ErrNotFound when no user has that email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// GetByID looks up a user by internal ID.
	GetByID(ctx context.Context, id string) (*model.User, error)
}

type FileRepository interface {
	// Create inserts a new file, assigning ID and CreatedAt.
	Create(ctx context.Context, file *model.File) error
	// ListByUser returns all files owned by userID in insertion order.
	// A user with no files gets an empty slice, not an error.
	ListByUser(ctx context.Context, userID string) ([]model.File, error)
	// GetByID returns the file with that ID regardless of owner.
	// Ownership checks live in the service layer.
	GetByID(ctx context.Context, id string) (*model.File, error)
	// Delete removes the file with that ID.
	// Returns apperror.ErrNotFound when no such file exists.
	Delete(ctx context.Context, id string) error
}
