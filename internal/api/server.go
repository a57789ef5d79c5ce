// Package api provides the HTTP query surface of the museum server.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ongekimuseum/museum-server/internal/config"
	"github.com/ongekimuseum/museum-server/internal/ratelimit"
	"github.com/ongekimuseum/museum-server/internal/store/sqlite"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       *sqlite.Store
	router      *chi.Mux
	api         huma.API
	logger      *slog.Logger
	rateLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates the HTTP server with all routes configured.
func NewServer(cfg config.ServerConfig, store *sqlite.Store, logger *slog.Logger) *Server {
	s := &Server{
		store:       store,
		router:      chi.NewRouter(),
		logger:      logger,
		rateLimiter: ratelimit.New(cfg.RateLimit, cfg.RateBurst),
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Ongeki Museum API", "1.0.0")
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerCatalogRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(RateLimitMiddleware(s.rateLimiter, s.logger))
}
