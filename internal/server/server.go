// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"

	"hotindex/internal/config"
	"hotindex/internal/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	natsConn *nats.Conn,
	eventsTopic string,
	runner handlers.AnalysisRunner,
	records handlers.RecordStore,
	weightStore handlers.WeightStore,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(5 * time.Minute))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	analysisHandler := handlers.NewAnalysisHandler(runner, records)
	weightsHandler := handlers.NewWeightsHandler(weightStore)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// Weight configuration API
			r.Route("/weights", func(r chi.Router) {
				r.Get("/", weightsHandler.GetActive)
				r.Post("/", weightsHandler.Create)
				r.Get("/history", weightsHandler.History)
				r.Post("/activate/{id}", weightsHandler.Activate)
			})

			// Hot topics API
			r.Route("/hot-topics", func(r chi.Router) {
				r.Post("/start", analysisHandler.Start)
				r.Get("/results", analysisHandler.Results)
				r.Get("/timeseries/{keyword}", analysisHandler.TimeSeries)
				r.Get("/stats/{keyword}", analysisHandler.Stats)
				r.Get("/{id}", analysisHandler.Get)
				r.Delete("/{id}", analysisHandler.Delete)
			})
		})
	})

	// WebSocket endpoint for live analysis events
	router.Get("/ws/analyses", handlers.AnalysesWebSocketHandler(natsConn, eventsTopic))

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
