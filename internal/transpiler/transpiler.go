// Package transpiler defines the interface for requesting a C→Rust
// transpilation from an external text-generation service.
//
// There is no transpilation logic here or anywhere in this repository:
// the returned Rust text is an opaque string produced by the upstream
// model, never parsed or type-checked. Persisting a successful result as
// a file is the caller's job — this package knows nothing about storage.
package transpiler

import "context"

// Request carries the C source to transpile. FileName is display context
// for the generation prompt, not a storage reference.
type Request struct {
	SourceCode string `json:"sourceCode"`
	FileName   string `json:"fileName"`
}

// Result mirrors the wire shape the client expects. Upstream failures are
// reported in-band: Success false and a message in Errors, never a
// fabricated RustCode.
type Result struct {
	Success  bool     `json:"success"`
	RustCode string   `json:"rustCode,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// Failure builds a failed Result from an error message.
func Failure(msg string) *Result {
	return &Result{Success: false, Errors: []string{msg}}
}

// Transpiler requests a single transpilation. One synchronous call per
// request: no retry, no streaming, no partial results. A non-nil error is
// reserved for local problems (cancelled context); upstream trouble comes
// back as a failed Result.
type Transpiler interface {
	Transpile(ctx context.Context, req Request) (*Result, error)
}
