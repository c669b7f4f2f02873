package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sadman/salvage/internal/auth"
	"github.com/sadman/salvage/internal/handler"
	"github.com/sadman/salvage/internal/model"
	"github.com/sadman/salvage/internal/service"
	"github.com/sadman/salvage/internal/transpiler"
)

// stubTranspiler returns a canned result instead of calling Gemini.
type stubTranspiler struct {
	capturedReq transpiler.Request
	returnRes   *transpiler.Result
	returnErr   error
}

func (s *stubTranspiler) Transpile(_ context.Context, req transpiler.Request) (*transpiler.Result, error) {
	s.capturedReq = req
	if s.returnErr != nil {
		return nil, s.returnErr
	}
	return s.returnRes, nil
}

func newTranspileHandler(stub *stubTranspiler, repo *memFileRepo) *handler.TranspileHandler {
	files := service.NewFileService(repo, testLogger())
	svc := service.NewTranspileService(stub, files, testLogger())
	return handler.NewTranspileHandler(svc, testLogger())
}

func doTranspile(h *handler.TranspileHandler, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/transpile", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(auth.WithUserID(req.Context(), userID))
	rr := httptest.NewRecorder()
	h.HandleTranspile(rr, req)
	return rr
}

func TestTranspileHandler_Success(t *testing.T) {
	stub := &stubTranspiler{
		returnRes: &transpiler.Result{Success: true, RustCode: "fn main() {}"},
	}
	repo := &memFileRepo{}
	h := newTranspileHandler(stub, repo)

	rr := doTranspile(h, "user-1", `{"sourceCode":"int main(){return 0;}","fileName":"t.c"}`)

	assert.Equal(t, http.StatusOK, rr.Code)

	var res transpiler.Result
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.True(t, res.Success)
	assert.Equal(t, "fn main() {}", res.RustCode)
	assert.Empty(t, res.Errors)

	// The request reached the upstream untouched
	assert.Equal(t, "int main(){return 0;}", stub.capturedReq.SourceCode)
	assert.Equal(t, "t.c", stub.capturedReq.FileName)

	// The rust output is stored for the same user
	files, err := repo.ListByUser(context.Background(), "user-1")
	assert.NoError(t, err)
	if assert.Len(t, files, 1) {
		assert.Equal(t, model.FileTypeRust, files[0].Type)
		assert.Equal(t, "t.rs", files[0].Name)
		assert.Equal(t, "fn main() {}", files[0].Content)
	}
}

func TestTranspileHandler_UpstreamFailure(t *testing.T) {
	stub := &stubTranspiler{
		returnRes: transpiler.Failure("API request failed: Service Unavailable"),
	}
	repo := &memFileRepo{}
	h := newTranspileHandler(stub, repo)

	rr := doTranspile(h, "user-1", `{"sourceCode":"int main(){}","fileName":"t.c"}`)

	// In-band failure: 200 with success=false, nothing persisted
	assert.Equal(t, http.StatusOK, rr.Code)

	var res transpiler.Result
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.False(t, res.Success)
	assert.Equal(t, []string{"API request failed: Service Unavailable"}, res.Errors)
	assert.Empty(t, res.RustCode)

	files, err := repo.ListByUser(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Empty(t, files)
}

func TestTranspileHandler_EmptySource(t *testing.T) {
	stub := &stubTranspiler{returnRes: &transpiler.Result{Success: true, RustCode: "fn main() {}"}}
	h := newTranspileHandler(stub, &memFileRepo{})

	rr := doTranspile(h, "user-1", `{"sourceCode":"","fileName":"t.c"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, stub.capturedReq.SourceCode, "empty source must not be forwarded")
}

func TestTranspileHandler_InvalidJSON(t *testing.T) {
	h := newTranspileHandler(&stubTranspiler{}, &memFileRepo{})

	rr := doTranspile(h, "user-1", `{"sourceCode":`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
