package csvimport

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Outcome classifies what happened to a single data row.
type Outcome string

const (
	OutcomeUpdated        Outcome = "updated"
	OutcomeNoChange       Outcome = "no_change"
	OutcomeInvalid        Outcome = "invalid"
	OutcomeNotFound       Outcome = "not_found"
	OutcomeNoCurrentPrice Outcome = "no_current_price"
	OutcomeFailed         Outcome = "failed"
)

// RowResult records the outcome of one CSV data row, in file order.
type RowResult struct {
	// Line is the 1-based line number in the file, header included.
	Line       int              `json:"line"`
	SKU        string           `json:"sku,omitempty"`
	CustomerID *int64           `json:"customer_id,omitempty"`
	Outcome    Outcome          `json:"outcome"`
	OldPrice   *decimal.Decimal `json:"old_price,omitempty"`
	NewPrice   *decimal.Decimal `json:"new_price,omitempty"`
	Detail     string           `json:"detail,omitempty"`
}

// Report is the full result of one import run. Rows are kept for every data
// row regardless of the aggregate result, so a failed run still explains
// itself line by line.
type Report struct {
	Kind    string      `json:"kind"`
	Rows    []RowResult `json:"rows"`
	Changed int         `json:"changed"`
	Success bool        `json:"success"`
	// Truncated marks a run where the file could not be read to the end;
	// Rows covers only what was read before the failure.
	Truncated bool   `json:"truncated,omitempty"`
	Summary   string `json:"summary"`
}

func (r *Report) add(row RowResult) {
	r.Rows = append(r.Rows, row)
}

// CountByOutcome tallies rows per outcome, mostly for tests and logging.
func (r *Report) CountByOutcome(outcome Outcome) int {
	count := 0
	for _, row := range r.Rows {
		if row.Outcome == outcome {
			count++
		}
	}
	return count
}

// Describe renders the row the way the admin report shows it.
func (row RowResult) Describe(currencySymbol string) string {
	switch row.Outcome {
	case OutcomeUpdated:
		if row.CustomerID != nil {
			return fmt.Sprintf("Customer ID: %d, Product SKU: %s, Customer Price: %s%s",
				*row.CustomerID, row.SKU, currencySymbol, row.NewPrice)
		}
		return fmt.Sprintf("Product with SKU %s updated from %s%s to %s%s",
			row.SKU, currencySymbol, row.OldPrice, currencySymbol, row.NewPrice)
	case OutcomeNoChange:
		return fmt.Sprintf("No update needed for SKU %s. Existing price is the same as the new price (%s%s).",
			row.SKU, currencySymbol, row.NewPrice)
	case OutcomeNotFound:
		return fmt.Sprintf("There is no product with SKU %s. Please check the CSV file and try again.", row.SKU)
	case OutcomeNoCurrentPrice:
		return fmt.Sprintf("No current price set for SKU %s.", row.SKU)
	case OutcomeInvalid:
		return fmt.Sprintf("Incorrect number of columns or invalid CSV data on line %d. %s", row.Line, row.Detail)
	default:
		return fmt.Sprintf("Failed to update SKU %s, please check the CSV file and try again.", row.SKU)
	}
}
