package gemini

import "time"

// Config holds the settings for the Gemini-backed transpiler.
type Config struct {
	// APIKey authenticates against the generative-language API.
	APIKey string
	// Model is the Gemini model name to call.
	Model string
	// BaseURL overrides the API endpoint. Tests point it at a stub
	// server; empty means the real Google endpoint.
	BaseURL string
	// Timeout caps each outbound generation call.
	Timeout time.Duration
	// MaxConcurrent bounds in-flight calls to the upstream service.
	MaxConcurrent int64
}

// DefaultConfig returns the generation settings the application ships
// with. Temperature, topK, topP, and the output-token cap are fixed per
// call in gemini.go; only the operational knobs live here.
func DefaultConfig() Config {
	return Config{
		Model:         "gemini-pro",
		Timeout:       60 * time.Second,
		MaxConcurrent: 4,
	}
}
