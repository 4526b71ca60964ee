// Package server exposes the quote store and comparison engine over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/samruben96/documine-sub012/internal/engine"
	"github.com/samruben96/documine-sub012/internal/export"
	"github.com/samruben96/documine-sub012/internal/store"
)

// Server holds handler dependencies.
type Server struct {
	store     store.Store
	engineCfg engine.Config
	exporter  *export.Exporter
	origins   []string
}

// New creates a Server over the given store.
func New(st store.Store, engineCfg engine.Config, allowedOrigins []string) *Server {
	return &Server{
		store:     st,
		engineCfg: engineCfg,
		exporter:  export.New(),
		origins:   allowedOrigins,
	}
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(api chi.Router) {
		api.Post("/quotes", s.handleCreateQuote)
		api.Get("/quotes", s.handleListQuotes)
		api.Get("/quotes/{id}", s.handleGetQuote)
		api.Delete("/quotes/{id}", s.handleDeleteQuote)

		api.Post("/compare", s.handleCompare)
		api.Get("/comparisons", s.handleListComparisons)
		api.Get("/comparisons/{id}", s.handleGetComparison)
		api.Get("/comparisons/{id}/export", s.handleExportComparison)
	})

	return r
}

// requestLogger logs each request with the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
