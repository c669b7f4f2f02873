package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sadman/salvage/internal/apperror"
	"github.com/sadman/salvage/internal/model"
	"github.com/sadman/salvage/internal/transpiler"
)

// TranspileService orchestrates a transpilation request: it validates the
// input, asks the requester for Rust text, and on success persists the
// result as a new file owned by the requesting user. The requester itself
// knows nothing about storage.
type TranspileService struct {
	requester transpiler.Transpiler
	files     *FileService
	logger    *slog.Logger
}

// NewTranspileService creates a TranspileService.
func NewTranspileService(requester transpiler.Transpiler, files *FileService, logger *slog.Logger) *TranspileService {
	return &TranspileService{
		requester: requester,
		files:     files,
		logger:    logger,
	}
}

// Transpile requests a C→Rust transpilation for the given user.
//
// Empty source is rejected up front with a validation error rather than
// forwarded — the upstream model would happily fabricate output for it.
// A failed upstream call comes back as a failed Result, not an error; the
// handler passes it through to the client as-is.
func (s *TranspileService) Transpile(ctx context.Context, userID, sourceCode, fileName string) (*transpiler.Result, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}
	if strings.TrimSpace(sourceCode) == "" {
		return nil, apperror.ValidationFailed("sourceCode", "source code is required")
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, apperror.ValidationFailed("fileName", "file name is required")
	}

	result, err := s.requester.Transpile(ctx, transpiler.Request{
		SourceCode: sourceCode,
		FileName:   fileName,
	})
	if err != nil {
		return nil, apperror.Upstream("transpilation request could not be completed")
	}

	if !result.Success {
		return result, nil
	}

	// Persist the returned Rust verbatim as a derived file.
	if _, err := s.files.Create(ctx, userID, rustFileName(fileName), result.RustCode, model.FileTypeRust); err != nil {
		s.logger.Error("transpile succeeded but result could not be saved",
			slog.String("fileName", fileName),
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	return result, nil
}

// rustFileName derives the stored name for a transpiled file:
// "main.c" becomes "main.rs"; a name without the .c extension just gains
// ".rs" (extensions are caller discipline, never enforced).
func rustFileName(name string) string {
	if strings.HasSuffix(name, ".c") {
		return strings.TrimSuffix(name, ".c") + ".rs"
	}
	return name + ".rs"
}
