package model

import "time"

// FileType tells the client which editor pane a file belongs to.
// The server validates the value but never checks that the content
// actually parses as that language.
type FileType string

const (
	FileTypeC    FileType = "c"
	FileTypeRust FileType = "rust"
)

// Valid reports whether t is one of the known file types.
func (t FileType) Valid() bool {
	return t == FileTypeC || t == FileTypeRust
}

// File represents a stored text artifact: a C source file saved by the
// user, or a transpiled Rust output persisted after a successful
// transpilation. Content is opaque text and round-trips byte-for-byte.
//
// Names are display-only — two files owned by the same user may share a
// name and remain distinct records. Files are created and deleted, never
// updated in place.
type File struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Type      FileType  `json:"type"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
