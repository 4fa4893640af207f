package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/user/retroboard/internal/board"
	"github.com/user/retroboard/internal/metrics"
)

// AdminHeader carries the admin capability on /api/admin routes.
const AdminHeader = "X-Admin-Code"

// Server is the HTTP boundary in front of a board.Registry.
type Server struct {
	registry *board.Registry
	logger   *zap.Logger
	metrics  *metrics.Collector
	origins  []string
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics records request metrics and serves them on /metrics.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) { s.metrics = c }
}

// WithAllowedOrigins sets the CORS origin list. Defaults to "*".
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.origins = origins }
}

// New builds the router for registry.
func New(registry *board.Registry, opts ...Option) *Server {
	s := &Server{
		registry: registry,
		logger:   zap.NewNop(),
		origins:  []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// ServeHTTP delegates to the router, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", AdminHeader, "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)

		r.Route("/sessions/{sid}", func(r chi.Router) {
			r.Use(s.sessionID)

			r.Get("/", s.handleGetSession)

			r.Get("/feedback", s.handleListItems)
			r.Post("/feedback", s.handleAppendItem)
			r.Delete("/feedback/{id}", s.handleDeleteItem)
			r.Post("/vote/{id}", s.handleVote)
			r.Post("/edit/{id}", s.handleEditItem)
			r.Post("/move/{id}", s.handleMoveItem)
			r.Post("/reorder/{category}", s.handleReorder)

			r.Get("/export", s.handleExport("json"))
			r.Get("/export/{format}", s.handleExportFormat)

			r.Get("/timer", s.handleTimer)
			r.Post("/timer/start", s.handleTimerStart)
			r.Post("/timer/pause", s.handleTimerPause)
			r.Post("/timer/resume", s.handleTimerResume)
			r.Post("/timer/reset", s.handleTimerReset)

			r.Get("/events", s.handleEvents)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/sessions", s.handleAdminList)
			r.Delete("/sessions/{sid}", s.handleAdminDelete)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found", Kind: string(board.KindNotFound)})
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
