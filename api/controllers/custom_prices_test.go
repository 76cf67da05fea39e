package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/webcodesigner/pricemanager-backend/internal/customprices"
	"github.com/webcodesigner/pricemanager-backend/pkg/logger"
)

type stubCustomPricesService struct {
	clearedAll bool
	clearedID  int64
}

func (s *stubCustomPricesService) ClearAll(context.Context) (int64, error) {
	s.clearedAll = true
	return 3, nil
}

func (s *stubCustomPricesService) ClearForCustomer(_ context.Context, customerID int64) error {
	s.clearedID = customerID
	return nil
}

func (s *stubCustomPricesService) ListForCustomer(context.Context, int64) ([]customprices.CustomerPrice, error) {
	return []customprices.CustomerPrice{{SKU: "ABC", Price: "9.99"}}, nil
}

func withCustomerParam(req *http.Request, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("customerID", value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestClearCustomPrices(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	stub := &stubCustomPricesService{}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/custom-prices/clear", nil)
	rec := httptest.NewRecorder()

	ClearCustomPrices(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !stub.clearedAll {
		t.Fatalf("expected ClearAll to be invoked")
	}
}

func TestClearCustomerPrices(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	t.Run("valid id", func(t *testing.T) {
		stub := &stubCustomPricesService{}
		req := httptest.NewRequest(http.MethodDelete, "/api/admin/v1/customers/7/custom-prices", nil)
		rec := httptest.NewRecorder()

		ClearCustomerPrices(stub, logg).ServeHTTP(rec, withCustomerParam(req, "7"))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if stub.clearedID != 7 {
			t.Fatalf("expected customer 7 to be cleared, got %d", stub.clearedID)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		stub := &stubCustomPricesService{}
		req := httptest.NewRequest(http.MethodDelete, "/api/admin/v1/customers/abc/custom-prices", nil)
		rec := httptest.NewRecorder()

		ClearCustomerPrices(stub, logg).ServeHTTP(rec, withCustomerParam(req, "abc"))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if stub.clearedID != 0 {
			t.Fatalf("service must not run for an invalid id")
		}
	})
}

func TestListCustomerPrices(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/customers/7/custom-prices", nil)
	rec := httptest.NewRecorder()

	ListCustomerPrices(&stubCustomPricesService{}, logg).ServeHTTP(rec, withCustomerParam(req, "7"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
