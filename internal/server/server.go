package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/wealthlens/wealthlens/internal/events"
	"github.com/wealthlens/wealthlens/internal/identity"
	"github.com/wealthlens/wealthlens/internal/modules/analytics"
	"github.com/wealthlens/wealthlens/internal/modules/goals"
	"github.com/wealthlens/wealthlens/internal/modules/investments"
	"github.com/wealthlens/wealthlens/internal/modules/recommendations"
	"github.com/wealthlens/wealthlens/internal/modules/risk"
	"github.com/wealthlens/wealthlens/internal/modules/simulation"
	"github.com/wealthlens/wealthlens/internal/modules/transactions"
)

// Handlers collects the module handlers the server mounts
type Handlers struct {
	Analytics       *analytics.Handler
	Goals           *goals.Handler
	Investments     *investments.Handler
	Transactions    *transactions.Handler
	Simulations     *simulation.Handler
	Recommendations *recommendations.Handler
	Risk            *risk.Handler
}

// Config holds server configuration
type Config struct {
	Port     int
	DevMode  bool
	Log      zerolog.Logger
	Events   *events.Manager
	Handlers Handlers
}

// Server is the HTTP front of the application
type Server struct {
	router   *chi.Mux
	server   *http.Server
	log      zerolog.Logger
	events   *events.Manager
	handlers Handlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		log:      cfg.Log.With().Str("component", "server").Logger(),
		events:   cfg.Events,
		handlers: cfg.Handlers,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(identity.Middleware)

		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.handleSystemStatus)
			r.Get("/events", s.handleRecentEvents)
		})

		r.Route("/goals", s.handlers.Goals.Routes)
		r.Route("/investments", s.handlers.Investments.Routes)
		r.Route("/transactions", s.handlers.Transactions.Routes)
		r.Route("/simulations", s.handlers.Simulations.Routes)
		r.Route("/risk", s.handlers.Risk.Routes)
		r.Get("/recommendations", s.handlers.Recommendations.HandleGet)

		r.Route("/dashboard", s.handlers.Analytics.Routes)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Router exposes the mux, used by httptest in handler tests
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
