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

// FileStore implements repository.FileRepository over the shared
// connection pool.
type FileStore struct {
	conn *sql.DB
}

// compile-time check that *FileStore implements repository.FileRepository
var _ repository.FileRepository = (*FileStore)(nil)

// Create inserts a new file. xid IDs are globally unique, so file IDs are
// unique across the whole store, not just per user.
//
// Duplicate names are allowed on purpose — name is display metadata, the
// ID is the identity.
func (s *FileStore) Create(ctx context.Context, file *model.File) error {
	file.ID = xid.New().String()
	file.CreatedAt = time.Now()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO files (id, name, content, type, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		file.ID,
		file.Name,
		file.Content,
		string(file.Type),
		file.UserID,
		file.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating file %q: %w", file.Name, err)
	}

	return nil
}

// ListByUser returns all files owned by userID in insertion order.
// xid values sort by creation time, so ORDER BY id is insertion order.
func (s *FileStore) ListByUser(ctx context.Context, userID string) ([]model.File, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, name, content, type, user_id, created_at
		 FROM files
		 WHERE user_id = ?
		 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing files for user %s: %w", userID, err)
	}
	defer rows.Close()

	files := []model.File{}
	for rows.Next() {
		var f model.File
		var ftype string
		if err := rows.Scan(&f.ID, &f.Name, &f.Content, &ftype, &f.UserID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning file row: %w", err)
		}
		f.Type = model.FileType(ftype)
		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating files: %w", err)
	}

	return files, nil
}

// GetByID retrieves a single file by its ID.
// Returns apperror.ErrNotFound if the file doesn't exist.
func (s *FileStore) GetByID(ctx context.Context, id string) (*model.File, error) {
	var f model.File
	var ftype string

	err := s.conn.QueryRowContext(ctx,
		`SELECT id, name, content, type, user_id, created_at
		 FROM files
		 WHERE id = ?`,
		id,
	).Scan(&f.ID, &f.Name, &f.Content, &ftype, &f.UserID, &f.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("file", id)
		}
		return nil, fmt.Errorf("sqlite: getting file %s: %w", id, err)
	}

	f.Type = model.FileType(ftype)
	return &f, nil
}

// Delete removes a file by its ID. Deleting a missing ID reports
// NotFound — RowsAffected tells us whether the WHERE clause matched.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	result, err := s.conn.ExecContext(ctx,
		`DELETE FROM files WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting file %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("file", id)
	}

	return nil
}
