// Package main is the entry point for the salvage server.
//
// main only does four things: load configuration, build the external
// dependencies (logger, Google verifier, Gemini client), hand them to
// the server package, and start. Everything else lives in internal/.
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/sadman/salvage/internal/auth"
	"github.com/sadman/salvage/internal/config"
	"github.com/sadman/salvage/internal/server"
	"github.com/sadman/salvage/internal/transpiler/gemini"
)

func main() {
	// A missing .env is fine; env vars set directly still apply.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	// Create the data directory so the SQLite file can be opened.
	if dir := filepath.Dir(cfg.DBPath); dir != "." && cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	ctx := context.Background()

	// Fetches Google's OIDC discovery document and signing keys.
	verifier, err := auth.NewGoogleVerifier(ctx, cfg.GoogleClientID)
	if err != nil {
		logger.Error("failed to set up Google token verifier", slog.String("error", err.Error()))
		os.Exit(1)
	}

	requester, err := gemini.New(ctx, gemini.Config{
		APIKey:        cfg.Gemini.APIKey,
		Model:         cfg.Gemini.Model,
		BaseURL:       cfg.Gemini.BaseURL,
		Timeout:       cfg.Gemini.Timeout,
		MaxConcurrent: cfg.Gemini.MaxConcurrent,
	}, logger)
	if err != nil {
		logger.Error("failed to set up Gemini client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv, err := server.New(cfg, logger, verifier, requester)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
