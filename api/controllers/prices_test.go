package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/webcodesigner/pricemanager-backend/api/middleware"
	"github.com/webcodesigner/pricemanager-backend/internal/pricing"
	"github.com/webcodesigner/pricemanager-backend/pkg/config"
	"github.com/webcodesigner/pricemanager-backend/pkg/db/models"
	pkgerrors "github.com/webcodesigner/pricemanager-backend/pkg/errors"
	"github.com/webcodesigner/pricemanager-backend/pkg/logger"
)

type stubCatalogRepo struct {
	product *models.Product
}

func (s *stubCatalogRepo) FindBySKU(_ context.Context, sku string) (*models.Product, error) {
	if s.product == nil || s.product.SKU != sku {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no product with SKU "+sku)
	}
	return s.product, nil
}

func (s *stubCatalogRepo) CurrentPrice(product *models.Product) (decimal.Decimal, bool) {
	if product.DisplayPrice != nil {
		return *product.DisplayPrice, true
	}
	return decimal.Decimal{}, false
}

func (s *stubCatalogRepo) SetPrice(context.Context, uuid.UUID, decimal.Decimal) (int64, error) {
	panic("unimplemented")
}

type fixedLookup struct {
	price string
}

func (s *fixedLookup) Lookup(_ context.Context, _ int64, _ string) (decimal.Decimal, bool, error) {
	if s.price == "" {
		return decimal.Decimal{}, false, nil
	}
	return decimal.RequireFromString(s.price), true, nil
}

func pricingTestConfig() *config.Config {
	return &config.Config{Pricing: config.PricingConfig{Decimals: 2, CurrencySymbol: "$"}}
}

func newTestResolver(t *testing.T, lookup pricing.CustomPriceLookup) *pricing.Resolver {
	t.Helper()
	resolver, err := pricing.NewResolver(lookup, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("creating resolver: %v", err)
	}
	return resolver
}

func withSKUParam(req *http.Request, sku string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("sku", sku)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestProductPrice(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	display := decimal.RequireFromString("20.00")
	repo := &stubCatalogRepo{product: &models.Product{ID: uuid.New(), SKU: "ABC", DisplayPrice: &display}}

	t.Run("anonymous viewer sees the catalog price", func(t *testing.T) {
		resolver := newTestResolver(t, &fixedLookup{price: "15.00"})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/ABC/price", nil)
		rec := httptest.NewRecorder()

		ProductPrice(pricingTestConfig(), repo, resolver, logg).ServeHTTP(rec, withSKUParam(req, "ABC"))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var envelope struct {
			Data map[string]any `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if envelope.Data["price"] != "20.00" {
			t.Fatalf("expected catalog price 20.00, got %v", envelope.Data["price"])
		}
	})

	t.Run("customer with an entry sees the custom price", func(t *testing.T) {
		resolver := newTestResolver(t, &fixedLookup{price: "15.00"})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/ABC/price", nil)
		req = req.WithContext(middleware.WithCustomerID(req.Context(), 7))
		rec := httptest.NewRecorder()

		ProductPrice(pricingTestConfig(), repo, resolver, logg).ServeHTTP(rec, withSKUParam(req, "ABC"))

		var envelope struct {
			Data map[string]any `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if envelope.Data["price"] != "15.00" {
			t.Fatalf("expected custom price 15.00, got %v", envelope.Data["price"])
		}
		if envelope.Data["custom"] != true {
			t.Fatalf("expected custom flag to be set")
		}
	})

	t.Run("unknown sku", func(t *testing.T) {
		resolver := newTestResolver(t, &fixedLookup{})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/NOPE/price", nil)
		rec := httptest.NewRecorder()

		ProductPrice(pricingTestConfig(), repo, resolver, logg).ServeHTTP(rec, withSKUParam(req, "NOPE"))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestPriceRange(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	t.Run("returns the span of variation prices", func(t *testing.T) {
		resolver := newTestResolver(t, &fixedLookup{})
		body := `{"variations":[{"sku":"A-S","catalog_price":"10.00"},{"sku":"A-L","catalog_price":"14.00"}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/prices/range", strings.NewReader(body))
		rec := httptest.NewRecorder()

		PriceRange(pricingTestConfig(), resolver, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var envelope struct {
			Data map[string]any `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if envelope.Data["formatted"] != "$10.00 - $14.00" {
			t.Fatalf("expected range formatting, got %v", envelope.Data["formatted"])
		}
	})

	t.Run("rejects an empty variation list", func(t *testing.T) {
		resolver := newTestResolver(t, &fixedLookup{})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/prices/range", strings.NewReader(`{"variations":[]}`))
		rec := httptest.NewRecorder()

		PriceRange(pricingTestConfig(), resolver, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
