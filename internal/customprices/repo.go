package customprices

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/webcodesigner/pricemanager-backend/pkg/db/models"
)

// Repository stores per-customer price entries keyed on (customer, SKU).
type Repository interface {
	Upsert(ctx context.Context, entry models.CustomPrice) error
	Lookup(ctx context.Context, customerID int64, sku string) (decimal.Decimal, bool, error)
	ListForCustomer(ctx context.Context, customerID int64) ([]models.CustomPrice, error)
	Count(ctx context.Context) (int64, error)
	ClearAll(ctx context.Context) error
	ClearForCustomer(ctx context.Context, customerID int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a custom price repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Upsert inserts the entry, or overwrites the price when the (customer, SKU)
// pair already exists. Re-importing the same file is therefore idempotent.
func (r *repository) Upsert(ctx context.Context, entry models.CustomPrice) error {
	entry.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "customer_id"}, {Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "updated_at"}),
	}).Create(&entry).Error
}

// Lookup returns the entry price for the pair, or ok=false when the customer
// has no entry for that SKU.
func (r *repository) Lookup(ctx context.Context, customerID int64, sku string) (decimal.Decimal, bool, error) {
	var entry models.CustomPrice
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND sku = ?", customerID, sku).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Decimal{}, false, nil
	}
	if err != nil {
		return decimal.Decimal{}, false, err
	}
	return entry.Price, true, nil
}

func (r *repository) ListForCustomer(ctx context.Context, customerID int64) ([]models.CustomPrice, error) {
	var entries []models.CustomPrice
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("sku ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CustomPrice{}).Count(&count).Error
	return count, err
}

func (r *repository) ClearAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.CustomPrice{}).Error
}

func (r *repository) ClearForCustomer(ctx context.Context, customerID int64) error {
	return r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Delete(&models.CustomPrice{}).Error
}
