package csvimport

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/webcodesigner/pricemanager-backend/pkg/db/models"
	pkgerrors "github.com/webcodesigner/pricemanager-backend/pkg/errors"
	"github.com/webcodesigner/pricemanager-backend/pkg/logger"
	"github.com/webcodesigner/pricemanager-backend/pkg/metrics"
)

// CatalogStore is the slice of the catalog the importer needs.
type CatalogStore interface {
	FindBySKU(ctx context.Context, sku string) (*models.Product, error)
	CurrentPrice(product *models.Product) (decimal.Decimal, bool)
	SetPrice(ctx context.Context, productID uuid.UUID, price decimal.Decimal) (int64, error)
}

// CustomPriceStore upserts per-customer price entries.
type CustomPriceStore interface {
	Upsert(ctx context.Context, entry models.CustomPrice) error
}

// FileRefStore remembers the locator of the last successfully imported file
// per import kind.
type FileRefStore interface {
	Save(ctx context.Context, kind, locator string) error
}

// CacheInvalidator bumps the shared price version so downstream caches
// rebuild. A nil invalidator is a no-op.
type CacheInvalidator interface {
	BumpVersion(ctx context.Context) error
}

// Importer runs CSV price imports. It deliberately does not wrap a run in a
// transaction: each row commits on its own, and a run that dies mid-file
// leaves the rows already written in place.
type Importer struct {
	catalog CatalogStore
	custom  CustomPriceStore
	refs    FileRefStore
	cache   CacheInvalidator
	metrics *metrics.ImportMetrics
	logg    *logger.Logger

	decimals int32
	currency string
}

// ImporterParams collects the importer's dependencies.
type ImporterParams struct {
	Catalog  CatalogStore
	Custom   CustomPriceStore
	Refs     FileRefStore
	Cache    CacheInvalidator
	Metrics  *metrics.ImportMetrics
	Logger   *logger.Logger
	Decimals int32
	Currency string
}

func NewImporter(params ImporterParams) (*Importer, error) {
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog store is required")
	}
	if params.Custom == nil {
		return nil, fmt.Errorf("custom price store is required")
	}
	if params.Refs == nil {
		return nil, fmt.Errorf("file ref store is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if params.Currency == "" {
		params.Currency = "$"
	}
	return &Importer{
		catalog:  params.Catalog,
		custom:   params.Custom,
		refs:     params.Refs,
		cache:    params.Cache,
		metrics:  params.Metrics,
		logg:     params.Logger,
		decimals: params.Decimals,
		currency: params.Currency,
	}, nil
}

// Currency returns the symbol used when rendering report rows.
func (m *Importer) Currency() string {
	return m.currency
}

// ImportCustomPrices processes a three-column (CustomerID, SKU, Price) file.
// The locator is remembered only when at least one row changed.
func (m *Importer) ImportCustomPrices(ctx context.Context, file io.Reader, locator string) (*Report, error) {
	start := time.Now()
	report := &Report{Kind: models.ImportKindCustomPrices, Rows: []RowResult{}}
	readErr := m.eachDataRow(file, report, func(line int, fields []string) {
		m.applyCustomRow(ctx, report, line, fields)
	})
	return m.finish(ctx, report, locator, start, readErr)
}

// ImportPriceList processes a two-column (SKU, Price) file against the
// catalog. The locator is remembered only when at least one row changed.
func (m *Importer) ImportPriceList(ctx context.Context, file io.Reader, locator string) (*Report, error) {
	start := time.Now()
	report := &Report{Kind: models.ImportKindPriceList, Rows: []RowResult{}}
	readErr := m.eachDataRow(file, report, func(line int, fields []string) {
		m.applyListRow(ctx, report, line, fields)
	})
	return m.finish(ctx, report, locator, start, readErr)
}

// eachDataRow streams the file row by row, skipping the header line. The
// delimiter is sniffed from the first line before any CSV parsing happens.
// A malformed row is reported and skipped; an IO failure stops the run and
// is returned after the rows read so far have been processed.
func (m *Importer) eachDataRow(file io.Reader, report *Report, apply func(line int, fields []string)) error {
	buffered := bufio.NewReader(file)
	delimiter := DetectDelimiter(peekFirstLine(buffered))

	reader := csv.NewReader(buffered)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	line := 0
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				if line == 1 {
					continue
				}
				report.add(RowResult{Line: line, Outcome: OutcomeInvalid, Detail: parseErr.Err.Error()})
				m.countRow(report.Kind, OutcomeInvalid)
				continue
			}
			report.Truncated = true
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading upload")
		}
		if line == 1 {
			// Header row, always skipped.
			continue
		}
		apply(line, fields)
	}
}

func (m *Importer) applyCustomRow(ctx context.Context, report *Report, line int, fields []string) {
	row, err := ParseCustomPriceRow(fields, m.decimals)
	if err != nil {
		report.add(RowResult{Line: line, Outcome: OutcomeInvalid, Detail: err.Error()})
		m.countRow(report.Kind, OutcomeInvalid)
		return
	}

	result := RowResult{Line: line, SKU: row.SKU, CustomerID: &row.CustomerID, NewPrice: &row.Price}
	entry := models.CustomPrice{CustomerID: row.CustomerID, SKU: row.SKU, Price: row.Price}
	if err := m.custom.Upsert(ctx, entry); err != nil {
		rowCtx := m.logg.WithCustomerID(m.logg.WithSKU(ctx, row.SKU), row.CustomerID)
		m.logg.Error(rowCtx, "custom price upsert failed", err)
		result.Outcome = OutcomeFailed
		result.Detail = "store write failed"
	} else {
		result.Outcome = OutcomeUpdated
		report.Changed++
	}
	report.add(result)
	m.countRow(report.Kind, result.Outcome)
}

func (m *Importer) applyListRow(ctx context.Context, report *Report, line int, fields []string) {
	row, err := ParseListPriceRow(fields, m.decimals)
	if err != nil {
		report.add(RowResult{Line: line, Outcome: OutcomeInvalid, Detail: err.Error()})
		m.countRow(report.Kind, OutcomeInvalid)
		return
	}

	result := RowResult{Line: line, SKU: row.SKU, NewPrice: &row.Price}
	result.Outcome = m.updateCatalogPrice(ctx, row, &result)
	if result.Outcome == OutcomeUpdated {
		report.Changed++
	}
	report.add(result)
	m.countRow(report.Kind, result.Outcome)
}

func (m *Importer) updateCatalogPrice(ctx context.Context, row ListPriceRow, result *RowResult) Outcome {
	product, err := m.catalog.FindBySKU(ctx, row.SKU)
	if err != nil {
		if coded := pkgerrors.As(err); coded != nil && coded.Code() == pkgerrors.CodeNotFound {
			return OutcomeNotFound
		}
		m.logg.Error(m.logg.WithSKU(ctx, row.SKU), "catalog lookup failed", err)
		result.Detail = "catalog lookup failed"
		return OutcomeFailed
	}

	current, ok := m.catalog.CurrentPrice(product)
	if !ok {
		return OutcomeNoCurrentPrice
	}
	result.OldPrice = &current

	affected, err := m.catalog.SetPrice(ctx, product.ID, row.Price)
	if err != nil {
		m.logg.Error(m.logg.WithSKU(ctx, row.SKU), "catalog price update failed", err)
		result.Detail = "store write failed"
		return OutcomeFailed
	}
	if affected == 0 {
		if current.Equal(row.Price) {
			return OutcomeNoChange
		}
		result.Detail = "no rows updated"
		return OutcomeFailed
	}
	return OutcomeUpdated
}

// finish settles the aggregate result. A run succeeds only when at least one
// row changed; only then are the file reference and the price caches touched.
// Cache and reference failures are logged but never fail a finished run.
func (m *Importer) finish(ctx context.Context, report *Report, locator string, start time.Time, readErr error) (*Report, error) {
	report.Success = report.Changed > 0
	report.Summary = m.summarize(report)

	if report.Success {
		if err := m.refs.Save(ctx, report.Kind, locator); err != nil {
			m.logg.Error(ctx, "saving import file reference", err)
		}
		if m.cache != nil {
			if err := m.cache.BumpVersion(ctx); err != nil {
				m.logg.Error(ctx, "bumping price cache version", err)
			}
		}
	}

	if m.metrics != nil {
		m.metrics.IncRun(report.Kind, report.Success)
		m.metrics.ObserveDuration(report.Kind, time.Since(start))
	}

	runCtx := m.logg.WithFields(ctx, map[string]any{
		"kind":    report.Kind,
		"rows":    len(report.Rows),
		"changed": report.Changed,
		"success": report.Success,
	})
	if readErr != nil {
		m.logg.Warn(runCtx, "import stopped before end of file")
		return report, readErr
	}
	m.logg.Info(runCtx, "import finished")
	return report, nil
}

func (m *Importer) summarize(report *Report) string {
	var summary string
	switch {
	case report.Kind == models.ImportKindCustomPrices && report.Success:
		summary = fmt.Sprintf("Customer price file processed. %d price(s) updated.", report.Changed)
	case report.Kind == models.ImportKindCustomPrices:
		summary = "Customer price file processed but no price was updated. Please check the file and try again."
	case report.Success:
		summary = fmt.Sprintf("%d product price(s) updated.", report.Changed)
	default:
		summary = "No product prices were updated. Please check the file and try again."
	}
	if report.Truncated {
		summary += " The file could not be read to the end; this report covers only the rows read."
	}
	return summary
}

func (m *Importer) countRow(kind string, outcome Outcome) {
	if m.metrics != nil {
		m.metrics.IncRow(kind, string(outcome))
	}
}

// peekFirstLine returns the first line of the stream without consuming it.
// Files with a first line longer than the buffer are sniffed on the buffered
// prefix, which is plenty for a header row.
func peekFirstLine(reader *bufio.Reader) string {
	// Peek returns whatever it buffered alongside any fill error; the
	// prefix is still good for sniffing.
	peeked, _ := reader.Peek(reader.Size())
	text := string(peeked)
	if idx := strings.IndexAny(text, "\r\n"); idx >= 0 {
		return text[:idx]
	}
	return text
}
