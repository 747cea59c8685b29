package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/petrotech/siteapi/internal/handler"
	"github.com/petrotech/siteapi/internal/server/middleware"
	"github.com/petrotech/siteapi/internal/service"
	"github.com/petrotech/siteapi/internal/store"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host              string
	Port              int
	ShutdownTimeout   time.Duration
	CORSOrigins       []string
	MaxBodySize       int64 // bytes
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// DefaultConfig returns a Config with production defaults: the original
// deployment's 100 requests per 15 minutes and a 10 MiB body cap.
func DefaultConfig() Config {
	return Config{
		Host:              "0.0.0.0",
		Port:              2000,
		ShutdownTimeout:   30 * time.Second,
		CORSOrigins:       []string{"http://localhost:3000"},
		MaxBodySize:       10 * 1024 * 1024,
		RateLimitRequests: 100,
		RateLimitWindow:   15 * time.Minute,
	}
}

// Server is the top-level HTTP server. It owns the chi router, the store,
// the auth service, and the mailer.
type Server struct {
	cfg        Config
	router     chi.Router
	store      store.Store
	authSvc    *service.AuthService
	mailer     *service.Mailer
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a new Server, wires up all routes and middleware, and returns
// it ready to listen. Call ListenAndServe to start accepting connections.
func New(cfg Config, s store.Store, authSvc *service.AuthService, mailer *service.Mailer, logger *slog.Logger) *Server {
	srv := &Server{
		cfg:     cfg,
		store:   s,
		authSvc: authSvc,
		mailer:  mailer,
		logger:  logger,
	}
	srv.setupRouter()
	return srv
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// --- Global middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.RateLimit(s.cfg.RateLimitRequests, s.cfg.RateLimitWindow))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimw.Compress(5))
	r.Use(s.limitBodySize)

	authGate := middleware.Authenticate(s.authSvc, s.store)

	adminHandler := handler.NewAdminHandler(s.store, s.authSvc, s.logger)
	postHandler := handler.NewPostHandler(s.store, s.logger)
	contactHandler := handler.NewContactHandler(s.store, s.mailer, s.logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", adminHandler.Login)
			r.Post("/register", adminHandler.Register)
			r.With(authGate).Get("/verify", adminHandler.Verify)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postHandler.List)
			r.Get("/{slug}", postHandler.GetBySlug)

			r.Group(func(r chi.Router) {
				r.Use(authGate)
				r.Post("/", postHandler.Create)
				r.Put("/{id}", postHandler.Update)
				r.Delete("/{id}", postHandler.Delete)
			})
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Post("/", contactHandler.Submit)

			r.Group(func(r chi.Router) {
				r.Use(authGate)
				r.Get("/", contactHandler.List)
				r.Get("/{id}", contactHandler.Get)
				r.Put("/{id}", contactHandler.Update)
				r.Delete("/{id}", contactHandler.Delete)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Route not found"}`))
	})

	s.router = r
}

func (s *Server) limitBodySize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodySize)
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth reports process liveness and database reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	mongoState := "Connected"
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		mongoState = "Disconnected"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"mongodb":   mongoState,
	})
}

// ListenAndServe starts the HTTP server and blocks until a SIGINT or SIGTERM
// is received. It then performs a graceful shutdown, draining in-flight
// requests before returning.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Router returns the underlying chi router, useful for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler, delegating to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
