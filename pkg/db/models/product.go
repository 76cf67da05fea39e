package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product mirrors the host catalog's product rows. Price imports only ever
// update the two price attributes; products are never created or deleted
// here.
type Product struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SKU   string    `gorm:"column:sku;not null;uniqueIndex" json:"sku"`
	Title string    `gorm:"column:title" json:"title"`

	// DisplayPrice is the price shown to shoppers; RegularPrice is the
	// undiscounted baseline. Either can be unset for products that have
	// never been priced.
	DisplayPrice *decimal.Decimal `gorm:"column:display_price;type:numeric(10,2)" json:"display_price,omitempty"`
	RegularPrice *decimal.Decimal `gorm:"column:regular_price;type:numeric(10,2)" json:"regular_price,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
