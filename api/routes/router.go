package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/webcodesigner/pricemanager-backend/api/controllers"
	"github.com/webcodesigner/pricemanager-backend/api/middleware"
	"github.com/webcodesigner/pricemanager-backend/internal/catalog"
	"github.com/webcodesigner/pricemanager-backend/internal/customprices"
	"github.com/webcodesigner/pricemanager-backend/internal/importfiles"
	"github.com/webcodesigner/pricemanager-backend/internal/pricing"
	"github.com/webcodesigner/pricemanager-backend/pkg/config"
	"github.com/webcodesigner/pricemanager-backend/pkg/db"
	"github.com/webcodesigner/pricemanager-backend/pkg/logger"
)

// RouterParams collects everything the HTTP surface needs.
type RouterParams struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              db.Pinger
	Redis           controllers.Pinger
	Importer        controllers.PriceImporter
	CatalogRepo     catalog.Repository
	CustomPricesSvc customprices.Service
	ImportFilesRepo importfiles.Repository
	Resolver        *pricing.Resolver
	MetricsRegistry *prometheus.Registry
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DB, params.Redis))
	})

	if params.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, logg))
		r.Get("/products/{sku}/price", controllers.ProductPrice(cfg, params.CatalogRepo, params.Resolver, logg))
		r.Post("/prices/range", controllers.PriceRange(cfg, params.Resolver, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Post("/prices/import", controllers.ImportPrices(cfg, params.Importer, logg))
		r.Get("/prices/import/last", controllers.LastImports(params.ImportFilesRepo, logg))

		r.Post("/custom-prices/clear", controllers.ClearCustomPrices(params.CustomPricesSvc, logg))
		r.Route("/customers/{customerID}/custom-prices", func(r chi.Router) {
			r.Get("/", controllers.ListCustomerPrices(params.CustomPricesSvc, logg))
			r.Delete("/", controllers.ClearCustomerPrices(params.CustomPricesSvc, logg))
		})
	})

	return r
}
