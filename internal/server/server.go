package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/taskhive/internal/auth"
	"github.com/gosuda/taskhive/internal/config"
	"github.com/gosuda/taskhive/internal/notify"
	"github.com/gosuda/taskhive/internal/server/middleware"
	"github.com/gosuda/taskhive/internal/store/postgres"
	"github.com/gosuda/taskhive/internal/uploads"
)

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      *postgres.Store
	auth       *auth.Service
	notifier   *notify.Notifier
	cfg        *config.Config
}

// New creates a Server with all routes wired.
// events feeds the live notification stream; when nil the stream route is
// not mounted and clients fall back to polling GET /user/notifications.
// webAssets may be nil; when provided, the React SPA is served on all
// unmatched routes (embedded via go:embed for single-binary distribution).
func New(ctx context.Context, cfg *config.Config, store *postgres.Store, authSvc *auth.Service, notifier *notify.Notifier, events EventSource, webAssets fs.FS) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	s := &Server{
		router:   router,
		store:    store,
		auth:     authSvc,
		notifier: notifier,
		cfg:      cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	uploadHandler := uploads.NewHandler(
		uploads.NewStore(cfg.Uploads.Dir, cfg.Uploads.BaseURL),
		store.Tasks(),
	)

	// Mount API routes on /api with three sub-groups:
	// 1. Unauthenticated group for the auth endpoints.
	// 2. Cookie-authenticated group for regular endpoints.
	// 3. Admin group for destructive and team-wide endpoints.
	router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(ctx, 5, 10))

			authAPI := humachi.New(r, apiConfig("TaskHive Auth API"))
			registerAuthRoutes(authAPI, authSvc, cfg.SelfHosted)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT.Secret, store.Users()))
			r.Use(middleware.RateLimit(ctx, 100, 200))

			api := humachi.New(r, apiConfig("TaskHive API"))
			registerAPIRoutes(api, store, notifier)

			r.Post("/task/upload/{id}", uploadHandler.ServeHTTP)

			if events != nil {
				r.Get("/user/notifications/stream", notificationStream(events))
			}
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT.Secret, store.Users()))
			r.Use(middleware.RequireAdmin())
			r.Use(middleware.RateLimit(ctx, 100, 200))

			adminAPI := humachi.New(r, apiConfig("TaskHive Admin API"))
			registerAdminRoutes(adminAPI, store)
		})
	})

	// Stored attachments (unauthenticated, URLs are unguessable enough for
	// the self-hosted use case and the SPA loads them directly).
	router.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(cfg.Uploads.Dir))))

	// Health check (unauthenticated).
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Serve the embedded React SPA on all unmatched routes.
	// This must be the last route registered so API routes take priority.
	if webAssets != nil {
		router.NotFound(spaFileServer(webAssets).ServeHTTP)
		log.Info().Msg("embedded React dashboard enabled")
	}

	return s
}

func apiConfig(title string) huma.Config {
	cfg := huma.DefaultConfig(title, "1.0.0")
	cfg.Servers = []*huma.Server{{URL: "/api"}}
	return cfg
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
