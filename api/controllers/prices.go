package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/webcodesigner/pricemanager-backend/api/middleware"
	"github.com/webcodesigner/pricemanager-backend/api/responses"
	"github.com/webcodesigner/pricemanager-backend/api/validators"
	"github.com/webcodesigner/pricemanager-backend/internal/catalog"
	"github.com/webcodesigner/pricemanager-backend/internal/pricing"
	"github.com/webcodesigner/pricemanager-backend/pkg/config"
	pkgerrors "github.com/webcodesigner/pricemanager-backend/pkg/errors"
	"github.com/webcodesigner/pricemanager-backend/pkg/logger"
)

// ProductPrice resolves the price of a simple product for the current
// viewer. Anonymous requests see the catalog price.
func ProductPrice(cfg *config.Config, catalogRepo catalog.Repository, resolver *pricing.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sku := chi.URLParam(r, "sku")
		product, err := catalogRepo.FindBySKU(ctx, sku)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		catalogPrice, ok := catalogRepo.CurrentPrice(product)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product has no price"))
			return
		}

		viewer := pricing.Viewer{CustomerID: middleware.CustomerIDFromContext(ctx)}
		price := resolver.Resolve(ctx, product.SKU, catalogPrice, viewer)

		responses.WriteSuccess(w, map[string]any{
			"sku":       product.SKU,
			"price":     price.StringFixed(cfg.Pricing.Decimals),
			"formatted": cfg.Pricing.CurrencySymbol + price.StringFixed(cfg.Pricing.Decimals),
			"custom":    !price.Equal(catalogPrice),
		})
	}
}

type variationRequest struct {
	SKU          string          `json:"sku" validate:"required"`
	CatalogPrice decimal.Decimal `json:"catalog_price" validate:"required"`
}

type priceRangeRequest struct {
	Variations []variationRequest `json:"variations" validate:"required,min=1,dive"`
}

// PriceRange resolves a variable product's price span for the current
// viewer. The host catalog posts its variation prices, and the resolver
// substitutes any per-customer entries before taking the min and max.
func PriceRange(cfg *config.Config, resolver *pricing.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body priceRangeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		variations := make([]pricing.VariationPrice, 0, len(body.Variations))
		for _, variation := range body.Variations {
			variations = append(variations, pricing.VariationPrice{
				SKU:          variation.SKU,
				CatalogPrice: variation.CatalogPrice,
			})
		}

		viewer := pricing.Viewer{CustomerID: middleware.CustomerIDFromContext(ctx)}
		display, ok := resolver.ResolveRange(ctx, variations, viewer)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "no variations provided"))
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"min":       display.Min.StringFixed(cfg.Pricing.Decimals),
			"max":       display.Max.StringFixed(cfg.Pricing.Decimals),
			"is_range":  display.IsRange(),
			"formatted": display.Format(cfg.Pricing.CurrencySymbol, cfg.Pricing.Decimals),
		})
	}
}
