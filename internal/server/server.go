package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/bodegita/backend/internal/auth"
	"github.com/bodegita/backend/internal/config"
	"github.com/bodegita/backend/internal/http/handlers"
	"github.com/bodegita/backend/internal/middleware"
	"github.com/bodegita/backend/internal/storage"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Store     storage.AccountStore
	Tokens    *auth.TokenManager
	Verifier  *auth.CredentialVerifier
	Registrar *auth.Registrar
	// Revocations may be nil, in which case logout is not offered.
	Revocations auth.RevocationList
	Logger      *slog.Logger
	Version     string
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, deps Deps) *Server {
	return &Server{inner: &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           Routes(cfg, deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(deps.Logger.Handler(), slog.LevelWarn),
	}}
}

// Routes builds the full handler tree including middleware.
func Routes(cfg config.Config, deps Deps) http.Handler {
	mux := http.NewServeMux()
	gate := middleware.NewGate(deps.Tokens, deps.Revocations, deps.Logger)

	handlers.NewHealthHandler(time.Now(), deps.Store, deps.Version).Register(mux)
	handlers.NewAuthHandler(deps.Registrar, deps.Verifier, deps.Tokens, deps.Store, deps.Revocations, deps.Logger).
		Register(mux, gate)
	handlers.NewUsersHandler(deps.Store, deps.Registrar, deps.Logger).Register(mux, gate)
	handlers.NewUploadHandler(cfg.Upload.Dir, cfg.Upload.MaxBytes, deps.Logger).Register(mux, gate)
	mux.HandleFunc("/", handlers.NotFound)

	return wrap(mux, cfg, deps.Logger)
}

// wrap applies the global middleware. Logging sits outside Recover so
// requests that panic are still logged with their 500.
func wrap(h http.Handler, cfg config.Config, logger *slog.Logger) http.Handler {
	return middleware.Chain(h,
		middleware.Logging(logger),
		middleware.Recover(logger),
		middleware.CORS(cfg.CORSOrigins),
	)
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
