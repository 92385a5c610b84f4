// Package server is the composition root: it opens the database, builds the
// services and handlers, mounts the routes, and runs the HTTP server with
// graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/snippets/internal/auth"
	"github.com/sakif/snippets/internal/config"
	"github.com/sakif/snippets/internal/handler"
	"github.com/sakif/snippets/internal/highlight"
	"github.com/sakif/snippets/internal/middleware"
	sqliteRepo "github.com/sakif/snippets/internal/repository/sqlite"
	"github.com/sakif/snippets/internal/service"
)

// Server owns the router and the database connection; Start closes the
// database on the way out.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	tokens *auth.TokenService // nil when authentication is disabled
}

// New wires the dependency chain:
//
//	sqlite.DB → SnippetService / UserService / AuthService → handlers → routes
//
// Services get repository interfaces, handlers get services.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	var tokens *auth.TokenService
	if cfg.AuthEnabled() {
		var err error
		if tokens, err = auth.NewTokenService(cfg.JWTSecret); err != nil {
			return nil, fmt.Errorf("creating token service: %w", err)
		}
	} else {
		logger.Warn("JWT_SECRET not set, authentication is disabled and all writes will be rejected")
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		tokens: tokens,
	}
	s.setupRoutes()

	return s, nil
}

// setupRoutes mounts:
//
//	GET    /api                          → links to the collections
//	GET    /api/snippets                 → list (oldest first)
//	POST   /api/snippets                 → create (auth)
//	GET    /api/snippets/{id}            → detail
//	PUT    /api/snippets/{id}            → replace (owner only)
//	DELETE /api/snippets/{id}            → delete (owner only)
//	GET    /api/snippets/{id}/highlight  → rendered HTML document
//	GET    /api/languages, /api/styles   → choice tables
//	GET    /api/users, /api/users/{id}   → accounts with snippet ids
//	GET    /api/me, DELETE /api/me       → current account (auth)
//	POST   /auth/register|login|logout   → sessions (auth enabled only)
//	GET    /auth/github/login|callback   → GitHub OAuth (configured only)
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	if len(s.config.CORSOrigins) > 0 {
		s.router.Use(cors.Handler(corsOptions(s.config.CORSOrigins)))
	}
	s.router.Use(chimiddleware.RequestSize(s.config.MaxBodyBytes))

	snippetService := service.NewSnippetService(s.db, highlight.Default(), s.logger)
	userService := service.NewUserService(s.db, s.db, s.logger)

	snippetHandler := handler.NewSnippetHandler(snippetService, s.logger)
	userHandler := handler.NewUserHandler(userService)
	rootHandler := handler.NewRootHandler(s.tokens != nil)

	requireAuth := auth.RequireAuth(s.tokens)

	var authHandler *handler.AuthHandler
	if s.tokens != nil {
		var github *auth.GitHubProvider
		if s.config.GitHubEnabled() {
			github = auth.NewGitHubProvider(
				s.config.GitHubClientID,
				s.config.GitHubClientSecret,
				s.config.GitHubCallbackURL,
			)
		}
		authService := service.NewAuthService(s.db, s.tokens, auth.NewPasswordService(), s.logger)
		authHandler = handler.NewAuthHandler(authService, userService, s.tokens, github, s.logger)

		s.router.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/logout", authHandler.HandleLogout)
			if github != nil {
				r.Get("/github/login", authHandler.HandleGitHubLogin)
				r.Get("/github/callback", authHandler.HandleGitHubCallback)
			}
		})
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.OptionalAuth(s.tokens))

		r.Get("/", rootHandler.HandleRoot)
		r.Get("/languages", snippetHandler.HandleLanguages)
		r.Get("/styles", snippetHandler.HandleStyles)

		r.Route("/snippets", func(r chi.Router) {
			r.Get("/", snippetHandler.HandleList)
			r.With(requireAuth).Post("/", snippetHandler.HandleCreate)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", snippetHandler.HandleGetByID)
				r.Get("/highlight", snippetHandler.HandleHighlight)
				r.With(requireAuth).Put("/", snippetHandler.HandleUpdate)
				r.With(requireAuth).Delete("/", snippetHandler.HandleDelete)
			})
		})

		r.Get("/users", userHandler.HandleList)
		r.Get("/users/{id}", userHandler.HandleGetByID)

		if authHandler != nil {
			r.With(requireAuth).Get("/me", authHandler.HandleMe)
			r.With(requireAuth).Delete("/me", authHandler.HandleDeleteMe)
		}
	})
}

// corsOptions allows the listed origins. Credentials (the token cookie) are
// only allowed for explicit origins; a "*" entry opens reads to any site but
// never with the user's cookie.
func corsOptions(origins []string) cors.Options {
	wildcard := slices.Contains(origins, "*")
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	}
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database. Start calls it on shutdown.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start serves until SIGINT/SIGTERM, then gives in-flight requests 30
// seconds to finish before closing the database.
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d/api", s.config.Port)),
			slog.String("database", s.config.DBPath),
			slog.Bool("auth", s.tokens != nil),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
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
