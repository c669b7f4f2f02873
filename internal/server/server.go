// Package server wires the router, middleware, and handlers together.
//
// This is the composition root: main creates the external dependencies
// (config, logger, Google verifier, Gemini transpiler) and hands them
// to New, which assembles the repository → service → handler chain and
// mounts the routes. Handlers never touch the database directly and
// services never touch HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sadman/salvage/internal/auth"
	"github.com/sadman/salvage/internal/config"
	"github.com/sadman/salvage/internal/handler"
	"github.com/sadman/salvage/internal/middleware"
	sqliteRepo "github.com/sadman/salvage/internal/repository/sqlite"
	"github.com/sadman/salvage/internal/service"
	"github.com/sadman/salvage/internal/transpiler"
)

// Server owns the router and the resources that must be released on
// shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain and mounts all routes.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	verifier auth.IdentityVerifier,
	requester transpiler.Transpiler,
) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(verifier, requester); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the API surface:
//
//	POST   /api/auth/google   → exchange a Google ID token for a session
//	POST   /api/auth/logout   → clear the session cookie
//	GET    /api/me            → current user's profile        (auth)
//	GET    /api/files         → list the user's files         (auth)
//	POST   /api/files         → store a file                  (auth)
//	DELETE /api/files/{fileID}→ delete one of the user's files(auth)
//	POST   /api/transpile     → transpile C to Rust and save  (auth)
func (s *Server) setupRoutes(verifier auth.IdentityVerifier, requester transpiler.Transpiler) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// The session rides in a cookie, so the browser needs credentialed
	// CORS against the exact frontend origin.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.config.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	userService := service.NewUserService(s.db.Users(), verifier, tokens, s.logger)
	fileService := service.NewFileService(s.db.Files(), s.logger)
	transpileService := service.NewTranspileService(requester, fileService, s.logger)

	authHandler := handler.NewAuthHandler(userService, s.logger)
	fileHandler := handler.NewFileHandler(fileService, s.logger)
	transpileHandler := handler.NewTranspileHandler(transpileService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/google", authHandler.HandleGoogleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/me", authHandler.HandleMe)
			r.Get("/files", fileHandler.HandleList)
			r.Post("/files", fileHandler.HandleCreate)
			r.Delete("/files/{fileID}", fileHandler.HandleDelete)
			r.Post("/transpile", transpileHandler.HandleTranspile)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests,
// close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // transpile calls can run long
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
