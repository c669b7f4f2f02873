package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sadman/salvage/internal/apperror"
	"github.com/sadman/salvage/internal/model"
	"github.com/sadman/salvage/internal/repository"
)

// MaxFileNameLength caps display names. Content is deliberately
// unbounded — it round-trips byte-for-byte, whatever the size.
const MaxFileNameLength = 255

// FileService handles the file-management rules: validation on create,
// and owner scoping on every read and delete. No two users ever see each
// other's files.
type FileService struct {
	files  repository.FileRepository
	logger *slog.Logger
}

// NewFileService creates a FileService.
func NewFileService(files repository.FileRepository, logger *slog.Logger) *FileService {
	return &FileService{
		files:  files,
		logger: logger,
	}
}

// List returns all files owned by userID in insertion order. A user with
// no files gets an empty list, not an error.
func (s *FileService) List(ctx context.Context, userID string) ([]model.File, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}

	files, err := s.files.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list files",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Storage(err, "could not list files")
	}

	return files, nil
}

// Create validates and saves a new file for userID. Duplicate names are
// allowed; content is stored as-is, no matter what the declared type is.
func (s *FileService) Create(ctx context.Context, userID, name, content string, ftype model.FileType) (*model.File, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "file name is required")
	}
	if len(name) > MaxFileNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("file name must be %d characters or less", MaxFileNameLength))
	}
	if !ftype.Valid() {
		return nil, apperror.ValidationFailed("type",
			fmt.Sprintf("type must be %q or %q", model.FileTypeC, model.FileTypeRust))
	}

	file := &model.File{
		Name:    name,
		Content: content,
		Type:    ftype,
		UserID:  userID,
	}

	if err := s.files.Create(ctx, file); err != nil {
		s.logger.Error("failed to create file",
			slog.String("name", name),
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Storage(err, "could not save file")
	}

	s.logger.Info("file created",
		slog.String("id", file.ID),
		slog.String("name", file.Name),
		slog.String("type", string(file.Type)),
		slog.String("userID", userID),
	)

	return file, nil
}

// Delete removes the file with the given ID, scoped to the requesting
// owner. A missing ID reports NotFound; a file owned by someone else
// reports Forbidden — delete-by-id alone is not enough to touch another
// user's data.
func (s *FileService) Delete(ctx context.Context, userID, fileID string) error {
	if userID == "" {
		return apperror.ValidationFailed("userId", "user ID is required")
	}
	fileID = strings.TrimSpace(fileID)
	if fileID == "" {
		return apperror.ValidationFailed("fileId", "file ID is required")
	}

	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if file.UserID != userID {
		s.logger.Warn("delete refused: file belongs to another user",
			slog.String("fileID", fileID),
			slog.String("requestedBy", userID),
		)
		return apperror.Forbidden("file belongs to another user")
	}

	if err := s.files.Delete(ctx, fileID); err != nil {
		return err
	}

	s.logger.Info("file deleted",
		slog.String("id", fileID),
		slog.String("userID", userID),
	)
	return nil
}
