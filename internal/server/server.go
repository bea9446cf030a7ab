package server

import (
	"context"
	"net/http"
	"time"

	"github.com/pharmvigil/medreport-be/internal/auth"
	"github.com/pharmvigil/medreport-be/internal/config"
	"github.com/pharmvigil/medreport-be/internal/http/handlers"
	"github.com/pharmvigil/medreport-be/internal/middleware"
	"github.com/pharmvigil/medreport-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store) *Server {
	return &Server{inner: &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           Routes(cfg, store),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}}
}

// Routes builds the full handler chain: CORS and request logging around the
// API mux. Exposed separately so tests can serve the exact production routes.
func Routes(cfg config.Config, store storage.Store) http.Handler {
	mux := http.NewServeMux()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	gate := middleware.NewGate(store, tokens)

	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewAuthHandler(store, tokens).Register(mux, gate)
	handlers.NewReportHandler(store).Register(mux, gate)
	handlers.NewUserHandler(store).Register(mux, gate)

	return middleware.CORS(cfg.CORSOrigins, middleware.Logging(mux))
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
