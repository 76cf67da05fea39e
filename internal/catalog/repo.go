package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/webcodesigner/pricemanager-backend/pkg/db/models"
	pkgerrors "github.com/webcodesigner/pricemanager-backend/pkg/errors"
)

// Repository reads and prices products in the host catalog. Imports never
// create or delete products, only touch the two price attributes.
type Repository interface {
	FindBySKU(ctx context.Context, sku string) (*models.Product, error)
	CurrentPrice(product *models.Product) (decimal.Decimal, bool)
	SetPrice(ctx context.Context, productID uuid.UUID, price decimal.Decimal) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no product with SKU %s", sku))
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CurrentPrice resolves the product's effective price: the display price when
// set, otherwise the regular price. ok=false means the product has never
// been priced.
func (r *repository) CurrentPrice(product *models.Product) (decimal.Decimal, bool) {
	if product == nil {
		return decimal.Decimal{}, false
	}
	if product.DisplayPrice != nil {
		return *product.DisplayPrice, true
	}
	if product.RegularPrice != nil {
		return *product.RegularPrice, true
	}
	return decimal.Decimal{}, false
}

// SetPrice writes the new amount to both price attributes so the catalog
// shows it immediately and keeps it as the new baseline. The WHERE clause
// skips rows already at the target amount, so the affected count reads zero
// for an unchanged price.
func (r *repository) SetPrice(ctx context.Context, productID uuid.UUID, price decimal.Decimal) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Where("(display_price IS NULL OR display_price <> ?) OR (regular_price IS NULL OR regular_price <> ?)", price, price).
		Updates(map[string]any{
			"display_price": price,
			"regular_price": price,
			"updated_at":    time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}
