// Package server wires the chi router and runs the HTTP server.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pantrychef/v2/internal/infrastructure/config"
	"github.com/pantrychef/v2/internal/infrastructure/http/handlers"
	"github.com/pantrychef/v2/internal/infrastructure/http/middleware"
	"github.com/pantrychef/v2/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

// Server runs the HTTP API
type Server struct {
	config     *config.Config
	logger     *zap.Logger
	httpServer *http.Server
}

// New builds the router and the underlying http.Server
func New(
	cfg *config.Config,
	logger *zap.Logger,
	api *handlers.API,
	mw *middleware.Middleware,
	metrics *monitoring.MetricsCollector,
) *Server {
	router := NewRouter(cfg, api, mw, metrics)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		config:     cfg,
		logger:     logger.Named("http-server"),
		httpServer: httpServer,
	}
}

// NewRouter assembles the full route table with middleware applied
func NewRouter(
	cfg *config.Config,
	api *handlers.API,
	mw *middleware.Middleware,
	metrics *monitoring.MetricsCollector,
) chi.Router {
	router := chi.NewRouter()

	router.Use(mw.RequestID)
	router.Use(mw.Recovery)
	router.Use(mw.Logger)
	router.Use(mw.RateLimit)

	router.Get(cfg.Monitoring.HealthCheckPath, api.Health)
	if cfg.Monitoring.EnableMetrics {
		router.Handle(cfg.Monitoring.MetricsPath, metrics.Handler())
	}

	router.Route("/api/v2", func(r chi.Router) {
		r.Get("/recipes", api.ListRecipes)
		r.Get("/recipes/{id}", api.GetRecipe)

		r.Get("/pantry", api.GetPantry)
		r.Put("/pantry", api.PutPantry)
		r.Post("/pantry/match", api.MatchPantry)

		r.Get("/active-list", api.GetActiveList)
		r.Put("/active-list", api.PutActiveList)

		r.Route("/shopping-lists", func(r chi.Router) {
			r.Get("/", api.GetAllLists)
			r.Post("/", api.CreateList)

			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", api.GetList)
				r.Delete("/", api.DeleteList)
				r.Put("/name", api.RenameList)
				r.Post("/items", api.AddItems)
				r.Post("/recipes", api.AddRecipes)
				r.Patch("/items/{ingredient}", api.ToggleItem)
				r.Delete("/items/{ingredient}", api.RemoveItem)
				r.Get("/export.csv", api.ExportCSV)
			})
		})
	})

	return router
}

// Start begins serving in a background goroutine
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.httpServer.Addr),
		zap.String("environment", s.config.App.Environment),
	)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server failed", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}
