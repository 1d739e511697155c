// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api serves the catalog and the nutrition engine as JSON over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/pdiddy/nutrilabel/internal/calc"
	"github.com/pdiddy/nutrilabel/internal/predicate"
	"github.com/pdiddy/nutrilabel/pkg/types"
)

// Catalog is the read surface the API needs. *catalog.Store satisfies it.
type Catalog interface {
	calc.Catalog
	SearchByName(ctx context.Context, term string) ([]types.FoodSummary, error)
	Search(ctx context.Context, p predicate.Predicate, columns []types.Nutrient) ([]types.FoodSummary, error)
	ListRetentionProfiles(ctx context.Context, text string) ([]types.RetentionProfile, error)
}

// Router wires handlers and middleware.
type Router struct {
	cat     Catalog
	calc    *calc.Calculator
	logger  *zap.Logger
	origins []string
}

// NewRouter returns a router over cat. A nil logger discards output.
func NewRouter(cat Catalog, logger *zap.Logger, cfg types.ServerConfig) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Router{
		cat:     cat,
		calc:    calc.New(cat, logger),
		logger:  logger,
		origins: origins,
	}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(Logger(rt.logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", rt.health)

	router.Route("/api", func(r chi.Router) {
		r.Get("/nutrients", rt.listNutrients)

		r.Route("/foods", func(r chi.Router) {
			r.Get("/", rt.searchFoods)
			r.Post("/query", rt.queryFoods)
			r.Get("/{code}", rt.getFood)
		})
		r.Post("/compare", rt.compare)
		r.Post("/daily", rt.daily)

		r.Get("/retentions", rt.listRetentions)
		r.Get("/retentions/{code}", rt.getRetention)
		r.Get("/recipes/{code}", rt.getRecipe)
		r.Post("/mix", rt.computeMix)
	})

	return router
}
