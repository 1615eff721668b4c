// Package server wires the application together: store, limiter, identity
// client, services, handlers, routes, and graceful shutdown. It is the
// composition root — every dependency is constructed here and injected
// downward.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/emoji-feed/internal/auth"
	"github.com/sakif/emoji-feed/internal/config"
	"github.com/sakif/emoji-feed/internal/handler"
	"github.com/sakif/emoji-feed/internal/identity"
	"github.com/sakif/emoji-feed/internal/middleware"
	"github.com/sakif/emoji-feed/internal/ratelimit"
	"github.com/sakif/emoji-feed/internal/repository"
	postgresRepo "github.com/sakif/emoji-feed/internal/repository/postgres"
	sqliteRepo "github.com/sakif/emoji-feed/internal/repository/sqlite"
	"github.com/sakif/emoji-feed/internal/service"
)

// store is what the server needs from a database adapter: both repository
// contracts plus a Close for shutdown.
type store interface {
	repository.PostRepository
	repository.RateEventStore
	io.Closer
}

// Server owns the router and the resources that must be released on
// shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     store
}

// New builds the full dependency chain from config.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func openStore(cfg config.Config) (store, error) {
	if cfg.StoreDriver == "postgres" {
		return postgresRepo.New(context.Background(), cfg.DatabaseURL)
	}
	return sqliteRepo.New(cfg.DBPath)
}

// setupRoutes configures middleware, handlers, and the route table.
//
// GET  /api/posts                 → global feed (public)
// GET  /api/posts/{id}            → single post (public)
// GET  /api/users/{userID}/posts  → per-author feed (public)
// POST /api/posts                 → create post (authenticated)
// GET  /api/profiles/{username}   → identity lookup (public)
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	provider := identity.NewClient(s.config.IdentityAPIURL, s.config.IdentityAPIToken)
	resolver := identity.NewResolver(provider)

	// The limiter's window state lives in the same store as the posts, so
	// every replica of this process enforces one shared quota.
	limiter := ratelimit.NewWindow(s.db, s.config.RateLimit, s.config.RateWindow)

	postService := service.NewPostService(s.db, resolver, limiter, service.EmojiOnly, s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)
	profileHandler := handler.NewProfileHandler(resolver, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/posts", postHandler.HandleGetAll)
		r.Get("/posts/{id}", postHandler.HandleGetByID)
		r.Get("/users/{userID}/posts", postHandler.HandleGetByAuthor)
		r.Get("/profiles/{username}", profileHandler.HandleGetByUsername)

		r.With(auth.RequireAuth(tokens)).Post("/posts", postHandler.HandleCreate)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests, close
// the store.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("store", s.config.StoreDriver),
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
