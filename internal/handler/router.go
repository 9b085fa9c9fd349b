package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/notesapi/notesapi/internal/auth"
	"github.com/notesapi/notesapi/internal/metrics"
	"github.com/notesapi/notesapi/internal/middleware"
	"github.com/notesapi/notesapi/internal/service"
)

// RouterConfig holds everything NewRouter wires together.
type RouterConfig struct {
	Logger        *slog.Logger
	Codec         *auth.Codec
	Users         *service.UserService
	Notes         *service.NoteService
	Health        *HealthHandler
	Metrics       metrics.Snapshotter
	CORSOrigins   []string
	IsDevelopment bool
	MaxBodySize   int64
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = 1 << 20
	}
	if cfg.Health == nil {
		cfg.Health = NewHealthHandler(nil, nil)
	}

	h := New()
	authHandler := NewAuthHandler(cfg.Users, cfg.Codec, cfg.Logger)
	userHandler := NewUserHandler(cfg.Users, cfg.Logger)
	noteHandler := NewNoteHandler(cfg.Notes, cfg.Logger)
	metricsHandler := NewMetricsHandler(cfg.Metrics)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.StripSlashes)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(cfg.IsDevelopment))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.MaxBodySize(cfg.MaxBodySize))

	// Unauthenticated endpoints
	r.Get("/", h.Hello)
	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)
	r.Post("/login", authHandler.Login)

	authCfg := middleware.AuthConfig{
		Logger: cfg.Logger,
		Codec:  cfg.Codec,
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(authCfg))

		r.Get("/users", userHandler.List)

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", noteHandler.List)
			r.Post("/", noteHandler.Create)
			r.Put("/{note_id}", noteHandler.Update)
			r.Delete("/{note_id}", noteHandler.Delete)
		})
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
