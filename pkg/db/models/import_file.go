package models

import "time"

// Import file kinds.
const (
	ImportKindCustomPrices = "custom_prices"
	ImportKindPriceList    = "price_list"
)

// ImportFile records the locator of the last successfully imported CSV file
// of each kind. The locator is opaque; it is only echoed back for display.
type ImportFile struct {
	Kind      string    `gorm:"column:kind;primaryKey" json:"kind"`
	Locator   string    `gorm:"column:locator;not null" json:"locator"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ImportFile) TableName() string {
	return "import_files"
}
