package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"usermgmt/backend/internal/config"
	authusecase "usermgmt/backend/internal/usecase/auth"
	userusecase "usermgmt/backend/internal/usecase/user"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server wraps the HTTP server lifecycle.
type Server struct {
	httpServer  *http.Server
	router      chi.Router
	authService *authusecase.Service
	userService *userusecase.Service
	tokens      authusecase.TokenManager
	development bool
	addr        string
}

// NewServer constructs a Server with configured dependencies and routes.
func NewServer(cfg config.Config, logger *zap.Logger, authService *authusecase.Service, userService *userusecase.Service, tokens authusecase.TokenManager) *Server {
	addr := cfg.HTTPPort
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	router := chi.NewRouter()
	router.Use(withRequestLogging(logger))
	router.Use(withCORS(cfg.AllowedOrigins))
	router.Use(chimiddleware.AllowContentType("application/json"))

	srv := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
			IdleTimeout:  time.Duration(cfg.IdleTimeoutSec) * time.Second,
		},
		router:      router,
		authService: authService,
		userService: userService,
		tokens:      tokens,
		development: cfg.Development,
		addr:        addr,
	}
	srv.registerRoutes()
	return srv
}

// Start bootstraps the HTTP server on the configured address.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured network address for the HTTP server.
func (s *Server) Addr() string {
	return s.addr
}
