package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/webcodesigner/pricemanager-backend/api/responses"
	"github.com/webcodesigner/pricemanager-backend/internal/customprices"
	pkgerrors "github.com/webcodesigner/pricemanager-backend/pkg/errors"
	"github.com/webcodesigner/pricemanager-backend/pkg/logger"
)

// ClearCustomPrices wipes every custom price entry.
func ClearCustomPrices(svc customprices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		removed, err := svc.ClearAll(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"removed": removed})
	}
}

// ClearCustomerPrices removes all entries for one customer.
func ClearCustomerPrices(svc customprices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		customerID, err := customerIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.ClearForCustomer(ctx, customerID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"customer_id": customerID, "cleared": true})
	}
}

// ListCustomerPrices returns a customer's entries for admin inspection.
func ListCustomerPrices(svc customprices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		customerID, err := customerIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		entries, err := svc.ListForCustomer(ctx, customerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"customer_id": customerID, "prices": entries})
	}
}

func customerIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "customerID")
	customerID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || customerID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "customer id must be a positive integer")
	}
	return customerID, nil
}
