package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/webcodesigner/pricemanager-backend/pkg/logger"
)

// CustomPriceLookup is the single read the resolver needs from the custom
// price store.
type CustomPriceLookup interface {
	Lookup(ctx context.Context, customerID int64, sku string) (decimal.Decimal, bool, error)
}

// Viewer identifies who is looking at a price. A nil CustomerID is an
// anonymous or non-customer viewer.
type Viewer struct {
	CustomerID *int64
}

// Anonymous is the zero viewer, always shown catalog prices.
var Anonymous = Viewer{}

// VariationPrice pairs one variation SKU with its catalog price.
type VariationPrice struct {
	SKU          string
	CatalogPrice decimal.Decimal
}

// PriceDisplay is a resolved price span. Min equals Max for simple products
// and for variable products whose variations all resolve to the same amount.
type PriceDisplay struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// IsRange reports whether the display spans two distinct amounts.
func (d PriceDisplay) IsRange() bool {
	return !d.Min.Equal(d.Max)
}

// Format renders the display the way product pages show it.
func (d PriceDisplay) Format(currencySymbol string, decimals int32) string {
	if !d.IsRange() {
		return currencySymbol + d.Min.StringFixed(decimals)
	}
	return fmt.Sprintf("%s%s - %s%s",
		currencySymbol, d.Min.StringFixed(decimals),
		currencySymbol, d.Max.StringFixed(decimals))
}

// Resolver picks the price a given viewer should see. Admin screens and
// import flows bypass it entirely and always read catalog prices.
type Resolver struct {
	lookup CustomPriceLookup
	logg   *logger.Logger
}

func NewResolver(lookup CustomPriceLookup, logg *logger.Logger) (*Resolver, error) {
	if lookup == nil {
		return nil, fmt.Errorf("custom price lookup is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Resolver{lookup: lookup, logg: logg}, nil
}

// Resolve returns the custom price for the viewer's customer when one
// exists, otherwise the catalog price unchanged. A lookup failure degrades
// to the catalog price rather than blanking the product page.
func (r *Resolver) Resolve(ctx context.Context, sku string, catalogPrice decimal.Decimal, viewer Viewer) decimal.Decimal {
	if viewer.CustomerID == nil || sku == "" {
		return catalogPrice
	}

	price, ok, err := r.lookup.Lookup(ctx, *viewer.CustomerID, sku)
	if err != nil {
		rowCtx := r.logg.WithCustomerID(r.logg.WithSKU(ctx, sku), *viewer.CustomerID)
		r.logg.Error(rowCtx, "custom price lookup failed", err)
		return catalogPrice
	}
	if !ok {
		return catalogPrice
	}
	return price
}

// ResolveRange resolves every variation for the viewer and returns the
// min to max span. ok=false means there were no variations to price.
func (r *Resolver) ResolveRange(ctx context.Context, variations []VariationPrice, viewer Viewer) (PriceDisplay, bool) {
	if len(variations) == 0 {
		return PriceDisplay{}, false
	}

	first := r.Resolve(ctx, variations[0].SKU, variations[0].CatalogPrice, viewer)
	display := PriceDisplay{Min: first, Max: first}
	for _, variation := range variations[1:] {
		resolved := r.Resolve(ctx, variation.SKU, variation.CatalogPrice, viewer)
		if resolved.LessThan(display.Min) {
			display.Min = resolved
		}
		if resolved.GreaterThan(display.Max) {
			display.Max = resolved
		}
	}
	return display, true
}
