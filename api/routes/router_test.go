package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/webcodesigner/pricemanager-backend/internal/csvimport"
	"github.com/webcodesigner/pricemanager-backend/internal/customprices"
	"github.com/webcodesigner/pricemanager-backend/internal/pricing"
	pkgAuth "github.com/webcodesigner/pricemanager-backend/pkg/auth"
	"github.com/webcodesigner/pricemanager-backend/pkg/config"
	"github.com/webcodesigner/pricemanager-backend/pkg/db/models"
	pkgerrors "github.com/webcodesigner/pricemanager-backend/pkg/errors"
	"github.com/webcodesigner/pricemanager-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubImporter struct{}

func (stubImporter) ImportCustomPrices(_ context.Context, file io.Reader, _ string) (*csvimport.Report, error) {
	io.Copy(io.Discard, file)
	return &csvimport.Report{Kind: models.ImportKindCustomPrices}, nil
}

func (stubImporter) ImportPriceList(_ context.Context, file io.Reader, _ string) (*csvimport.Report, error) {
	io.Copy(io.Discard, file)
	return &csvimport.Report{Kind: models.ImportKindPriceList}, nil
}

func (stubImporter) Currency() string { return "$" }

type stubCatalogRepo struct{}

func (stubCatalogRepo) FindBySKU(_ context.Context, sku string) (*models.Product, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no product with SKU "+sku)
}

func (stubCatalogRepo) CurrentPrice(*models.Product) (decimal.Decimal, bool) {
	return decimal.Decimal{}, false
}

func (stubCatalogRepo) SetPrice(context.Context, uuid.UUID, decimal.Decimal) (int64, error) {
	return 0, nil
}

type stubCustomPricesService struct{}

func (stubCustomPricesService) ClearAll(context.Context) (int64, error) { return 0, nil }

func (stubCustomPricesService) ClearForCustomer(context.Context, int64) error { return nil }

func (stubCustomPricesService) ListForCustomer(context.Context, int64) ([]customprices.CustomerPrice, error) {
	return nil, nil
}

type stubImportFilesRepo struct{}

func (stubImportFilesRepo) Save(context.Context, string, string) error { return nil }

func (stubImportFilesRepo) Get(context.Context, string) (*models.ImportFile, error) {
	return nil, nil
}

func (stubImportFilesRepo) List(context.Context) ([]models.ImportFile, error) { return nil, nil }

type emptyLookup struct{}

func (emptyLookup) Lookup(context.Context, int64, string) (decimal.Decimal, bool, error) {
	return decimal.Decimal{}, false, nil
}

func testRouter(t *testing.T) (http.Handler, *config.Config) {
	t.Helper()

	cfg := &config.Config{
		App:     config.AppConfig{Env: "test"},
		JWT:     config.JWTConfig{Secret: "test-secret", Issuer: "pricemanager", ExpirationMinutes: 15},
		Upload:  config.UploadConfig{MaxUploadMB: 5},
		Pricing: config.PricingConfig{Decimals: 2, CurrencySymbol: "$"},
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	resolver, err := pricing.NewResolver(emptyLookup{}, logg)
	if err != nil {
		t.Fatalf("creating resolver: %v", err)
	}

	router := NewRouter(RouterParams{
		Config:          cfg,
		Logger:          logg,
		DB:              stubPinger{},
		Redis:           stubPinger{},
		Importer:        stubImporter{},
		CatalogRepo:     stubCatalogRepo{},
		CustomPricesSvc: stubCustomPricesService{},
		ImportFilesRepo: stubImportFilesRepo{},
		Resolver:        resolver,
		MetricsRegistry: prometheus.NewRegistry(),
	})
	return router, cfg
}

func mintToken(t *testing.T, cfg *config.Config, role pkgAuth.Role, customerID *int64) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:     uuid.New(),
		CustomerID: customerID,
		Role:       role,
		JTI:        uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	return token
}

func TestRouterHealthAndMetrics(t *testing.T) {
	router, _ := testRouter(t)

	for _, path := range []string{"/health/live", "/health/ready", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 from %s, got %d", path, rec.Code)
		}
	}
}

func TestRouterAdminGuards(t *testing.T) {
	router, cfg := testRouter(t)

	t.Run("no token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/custom-prices/clear", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("customer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/custom-prices/clear", nil)
		req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, pkgAuth.RoleCustomer, nil))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("admin token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/custom-prices/clear", nil)
		req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, pkgAuth.RoleAdmin, nil))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestRouterPublicPrice(t *testing.T) {
	router, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/NOPE/price", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// Anonymous access is allowed; the stub catalog just has no products.
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
