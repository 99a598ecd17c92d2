// Package http exposes the storefront-facing API: product listing with
// vehicle filtering, the vehicle filter config tree, conversational part
// search, and the classification pass trigger.
package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ramusparts/catalog/internal/cache"
	"github.com/ramusparts/catalog/internal/classifier"
	"github.com/ramusparts/catalog/internal/domain"
	"github.com/ramusparts/catalog/internal/fitment"
	"github.com/ramusparts/catalog/internal/repository"
	"github.com/ramusparts/catalog/pkg/health"
	"github.com/ramusparts/catalog/pkg/middleware"
)

// CatalogService is the slice of the classification engine the API uses.
type CatalogService interface {
	RunPass(ctx context.Context) (*classifier.RunSummary, error)
	SearchParts(ctx context.Context, query string, limit int) (fitment.QueryIntent, []domain.Product, error)
}

// ProductLister lists products for the storefront.
type ProductLister interface {
	List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error)
}

// VehicleSource loads the vehicle universe for the filter config tree.
type VehicleSource interface {
	Vehicles(ctx context.Context) ([]domain.Vehicle, error)
}

// Handler holds the HTTP handlers and their dependencies.
type Handler struct {
	catalog     CatalogService
	products    ProductLister
	vehicles    VehicleSource
	configCache *cache.Value[VehicleConfigTree]
	now         cache.Clock
	logger      *slog.Logger
}

// NewHandler creates the API handler. A nil clock defaults to time.Now via
// the cache package.
func NewHandler(
	catalog CatalogService,
	products ProductLister,
	vehicles VehicleSource,
	configCache *cache.Value[VehicleConfigTree],
	now cache.Clock,
	log *slog.Logger,
) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		catalog:     catalog,
		products:    products,
		vehicles:    vehicles,
		configCache: configCache,
		now:         now,
		logger:      log,
	}
}

// NewRouter assembles the full HTTP router with middleware, health, metrics,
// and the versioned API routes.
func NewRouter(h *Handler, healthHandler *health.Handler, serviceName string, log *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestLogging(log))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(CORS)

	r.Get("/healthz", healthHandler.LivenessHandler())
	r.Get("/readyz", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/products", h.ListProducts)
		r.Get("/vehicles/config", h.VehicleConfig)
		r.Get("/search/parts", h.SearchParts)
		r.Post("/catalog/classify", h.Classify)
	})

	return r
}
