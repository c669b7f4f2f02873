// Package gemini implements the transpiler interface against Google's
// generative-language API.
package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/semaphore"
	"google.golang.org/genai"

	"github.com/sadman/salvage/internal/transpiler"
)

// promptTemplate is the fixed instruction sent upstream. The model is
// asked for bare Rust code; whatever comes back is stored verbatim.
const promptTemplate = `Transpile the following C code to Rust:
File name: %s

%s

Please provide only the transpiled Rust code without any explanations or comments.`

// Generation parameters, fixed per call.
const (
	temperature     = 0.2
	topK            = 40
	topP            = 0.95
	maxOutputTokens = 1024
)

var _ transpiler.Transpiler = (*Transpiler)(nil)

// Transpiler calls Gemini's generateContent endpoint once per request.
// A weighted semaphore bounds concurrent outbound calls so a burst of
// transpile requests can't exhaust connections or the API quota.
type Transpiler struct {
	client *genai.Client
	config Config
	sem    *semaphore.Weighted
	logger *slog.Logger
}

// New creates a Gemini-backed transpiler.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Transpiler, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultConfig().Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultConfig().MaxConcurrent
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}

	return &Transpiler{
		client: client,
		config: cfg,
		sem:    semaphore.NewWeighted(cfg.MaxConcurrent),
		logger: logger,
	}, nil
}

// Transpile sends one generation request and extracts the first
// candidate's first text part verbatim. Any upstream failure — transport
// error, non-2xx status, or a response without usable text — produces a
// failed Result; the caller decides whether to surface it.
func (t *Transpiler) Transpile(ctx context.Context, req transpiler.Request) (*transpiler.Result, error) {
	if err := t.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("gemini: waiting for transpile slot: %w", err)
	}
	defer t.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	prompt := fmt.Sprintf(promptTemplate, req.FileName, req.SourceCode)
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := t.client.Models.GenerateContent(ctx, t.config.Model, contents,
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](temperature),
			TopK:            genai.Ptr[float32](topK),
			TopP:            genai.Ptr[float32](topP),
			MaxOutputTokens: maxOutputTokens,
		},
	)
	if err != nil {
		t.logger.Error("transpile request failed",
			slog.String("fileName", req.FileName),
			slog.String("error", err.Error()),
		)
		return transpiler.Failure(fmt.Sprintf("generation request failed: %v", err)), nil
	}

	rustCode, ok := firstCandidateText(resp)
	if !ok {
		t.logger.Warn("transpile response had no usable text",
			slog.String("fileName", req.FileName),
		)
		return transpiler.Failure("generation response contained no candidate text"), nil
	}

	t.logger.Info("transpile succeeded",
		slog.String("fileName", req.FileName),
		slog.Int("rustBytes", len(rustCode)),
	)

	return &transpiler.Result{Success: true, RustCode: rustCode}, nil
}

// firstCandidateText walks candidates[0].content.parts[0].text, guarding
// each step — the upstream shape is not under our control.
func firstCandidateText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", false
	}
	text := content.Parts[0].Text
	if text == "" {
		return "", false
	}
	return text, true
}
