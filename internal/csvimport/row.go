package csvimport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// maxSKULength matches the varchar(9) column backing custom price entries.
const maxSKULength = 9

// CustomPriceRow is a validated three-column row (CustomerID, SKU, Price).
type CustomPriceRow struct {
	CustomerID int64
	SKU        string
	Price      decimal.Decimal
}

// ListPriceRow is a validated two-column row (SKU, Price).
type ListPriceRow struct {
	SKU   string
	Price decimal.Decimal
}

// InvalidRowError reports a data row that failed shape or value checks. The
// raw fields are kept for the per-row report.
type InvalidRowError struct {
	Raw    []string
	Reason string
}

func (e *InvalidRowError) Error() string {
	return fmt.Sprintf("invalid row: %s", e.Reason)
}

func invalidRow(raw []string, format string, args ...any) *InvalidRowError {
	return &InvalidRowError{Raw: raw, Reason: fmt.Sprintf(format, args...)}
}

// ParseCustomPriceRow validates a raw record against the custom price schema.
// All three columns must be present and non-blank.
func ParseCustomPriceRow(fields []string, decimals int32) (CustomPriceRow, error) {
	if len(fields) != 3 {
		return CustomPriceRow{}, invalidRow(fields, "expected 3 columns, got %d", len(fields))
	}

	rawCustomer := strings.TrimSpace(fields[0])
	sku := strings.TrimSpace(fields[1])
	rawPrice := strings.TrimSpace(fields[2])
	if rawCustomer == "" || sku == "" || rawPrice == "" {
		return CustomPriceRow{}, invalidRow(fields, "blank column")
	}
	if len(sku) > maxSKULength {
		return CustomPriceRow{}, invalidRow(fields, "SKU longer than %d characters", maxSKULength)
	}

	customerID, err := strconv.ParseInt(rawCustomer, 10, 64)
	if err != nil || customerID < 0 {
		return CustomPriceRow{}, invalidRow(fields, "customer id %q is not a valid id", rawCustomer)
	}

	price, err := parsePrice(rawPrice, decimals)
	if err != nil {
		return CustomPriceRow{}, invalidRow(fields, "price %q is not a valid amount", rawPrice)
	}

	return CustomPriceRow{CustomerID: customerID, SKU: sku, Price: price}, nil
}

// ParseListPriceRow validates a raw record against the price list schema.
func ParseListPriceRow(fields []string, decimals int32) (ListPriceRow, error) {
	if len(fields) != 2 {
		return ListPriceRow{}, invalidRow(fields, "expected 2 columns, got %d", len(fields))
	}

	sku := strings.TrimSpace(fields[0])
	rawPrice := strings.TrimSpace(fields[1])
	if sku == "" || rawPrice == "" {
		return ListPriceRow{}, invalidRow(fields, "blank column")
	}

	price, err := parsePrice(rawPrice, decimals)
	if err != nil {
		return ListPriceRow{}, invalidRow(fields, "price %q is not a valid amount", rawPrice)
	}

	return ListPriceRow{SKU: sku, Price: price}, nil
}

func parsePrice(raw string, decimals int32) (decimal.Decimal, error) {
	// Tolerate a leading currency symbol plus comma-style amounts, the way
	// prices tend to arrive from spreadsheet exports. A lone comma with no
	// dot is a decimal comma ("9,99"); otherwise commas are thousands
	// separators ("1,234.56").
	cleaned := strings.TrimLeft(raw, "$€£ ")
	if strings.Count(cleaned, ",") == 1 && !strings.Contains(cleaned, ".") {
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if price.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("negative price")
	}
	return price.Round(decimals), nil
}
