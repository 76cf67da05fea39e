package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomPrice is a per-customer price override keyed by (CustomerID, SKU).
// The pair is unique; a second import row for the same pair replaces the
// first.
type CustomPrice struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CustomerID int64           `gorm:"column:customer_id;not null;uniqueIndex:uq_custom_prices_customer_sku,priority:1" json:"customer_id"`
	SKU        string          `gorm:"column:sku;size:9;not null;uniqueIndex:uq_custom_prices_customer_sku,priority:2" json:"sku"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(8,2);not null" json:"price"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (CustomPrice) TableName() string {
	return "custom_prices"
}
