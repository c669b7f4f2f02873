package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sadman/salvage/internal/auth"
	"github.com/sadman/salvage/internal/service"
	"github.com/sadman/salvage/internal/transpiler"
)

// TranspileHandler handles transpilation requests.
type TranspileHandler struct {
	transpiles *service.TranspileService
	logger     *slog.Logger
}

// NewTranspileHandler creates a TranspileHandler.
func NewTranspileHandler(transpiles *service.TranspileService, logger *slog.Logger) *TranspileHandler {
	return &TranspileHandler{transpiles: transpiles, logger: logger}
}

// HandleTranspile processes an incoming C→Rust transpilation request.
//
// HTTP: POST /api/transpile
// BODY: {"sourceCode": "int main(){...}", "fileName": "t.c"}
//
// Responds 200 with {"success":true,"rustCode":"..."} or
// {"success":false,"errors":["..."]} — an upstream failure is a valid
// outcome the client renders, not a server error. On success the result
// has already been persisted as a new rust file for this user.
func (h *TranspileHandler) HandleTranspile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req transpiler.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid transpile JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	result, err := h.transpiles.Transpile(r.Context(), userID, req.SourceCode, req.FileName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
