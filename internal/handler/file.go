package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sadman/salvage/internal/auth"
	"github.com/sadman/salvage/internal/model"
	"github.com/sadman/salvage/internal/service"
)

// FileHandler manages CRUD operations for stored files. Every route sits
// behind RequireAuth; the owning userID always comes from the validated
// session, never from query parameters or the request body.
type FileHandler struct {
	files  *service.FileService
	logger *slog.Logger
}

// NewFileHandler creates a FileHandler.
func NewFileHandler(files *service.FileService, logger *slog.Logger) *FileHandler {
	return &FileHandler{files: files, logger: logger}
}

// HandleList returns all of the authenticated user's files.
//
// HTTP: GET /api/files
//
// Response: [{"id":"...","name":"t.c","content":"...","type":"c",...}]
// An account with no files gets an empty array, not an error.
func (h *FileHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	files, err := h.files.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, files)
}

type createFileRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

// HandleCreate saves a new file for the authenticated user.
//
// HTTP: POST /api/files
// BODY: {"name": "t.c", "content": "int main(){}", "type": "c"}
//
// Returns 201 with the created file, including its assigned id.
func (h *FileHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req createFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid file JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	file, err := h.files.Create(r.Context(), userID, req.Name, req.Content, model.FileType(req.Type))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, file)
}

// HandleDelete removes one of the authenticated user's files.
//
// HTTP: DELETE /api/files/{fileID}
//
// 200 {"message":"file deleted"} on success, 404 for an unknown id, and
// 403 when the file belongs to someone else.
func (h *FileHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	fileID := chi.URLParam(r, "fileID")
	if fileID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "file ID is required",
		})
		return
	}

	if err := h.files.Delete(r.Context(), userID, fileID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "file deleted"})
}
