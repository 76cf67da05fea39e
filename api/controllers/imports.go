package controllers

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/webcodesigner/pricemanager-backend/api/responses"
	"github.com/webcodesigner/pricemanager-backend/internal/csvimport"
	"github.com/webcodesigner/pricemanager-backend/internal/importfiles"
	"github.com/webcodesigner/pricemanager-backend/pkg/config"
	"github.com/webcodesigner/pricemanager-backend/pkg/db/models"
	pkgerrors "github.com/webcodesigner/pricemanager-backend/pkg/errors"
	"github.com/webcodesigner/pricemanager-backend/pkg/logger"
)

// Multipart field names recognized by the upload endpoint.
const (
	fieldCustomPrices = "custom_prices"
	fieldPriceList    = "price_list"
)

const multipartMemoryBytes = 8 << 20

// PriceImporter runs the two import flows.
type PriceImporter interface {
	ImportCustomPrices(ctx context.Context, file io.Reader, locator string) (*csvimport.Report, error)
	ImportPriceList(ctx context.Context, file io.Reader, locator string) (*csvimport.Report, error)
	Currency() string
}

type importResult struct {
	Report *csvimport.Report `json:"report"`
	Lines  []string          `json:"lines"`
}

type importResponse struct {
	CustomPrices *importResult `json:"custom_prices,omitempty"`
	PriceList    *importResult `json:"price_list,omitempty"`
}

// ImportPrices accepts a multipart upload with a custom_prices file, a
// price_list file, or both, and runs each through its importer. The MIME
// check rejects the whole request before any file content is read.
func ImportPrices(cfg *config.Config, importer PriceImporter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		maxBytes := int64(cfg.Upload.MaxUploadMB) << 20
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(multipartMemoryBytes); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart upload"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		customHeader := firstFile(r, fieldCustomPrices)
		listHeader := firstFile(r, fieldPriceList)
		if customHeader == nil && listHeader == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "no import file provided"))
			return
		}

		// Both files are vetted before either import starts, so a rejected
		// type never leaves a half-processed request behind.
		for _, header := range []*multipart.FileHeader{customHeader, listHeader} {
			if header == nil {
				continue
			}
			if err := csvimport.CheckMIME(header.Header.Get("Content-Type"), cfg.Upload.StrictMIME); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}

		var result importResponse
		if customHeader != nil {
			report, ok := runImport(ctx, logg, w, customHeader, importer.ImportCustomPrices)
			if !ok {
				return
			}
			result.CustomPrices = buildResult(report, importer.Currency())
		}
		if listHeader != nil {
			report, ok := runImport(ctx, logg, w, listHeader, importer.ImportPriceList)
			if !ok {
				return
			}
			result.PriceList = buildResult(report, importer.Currency())
		}

		responses.WriteSuccess(w, result)
	}
}

// LastImports returns the locator of the last successfully imported file per
// import kind.
func LastImports(refs importfiles.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		records, err := refs.List(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing import files"))
			return
		}

		files := map[string]any{
			models.ImportKindCustomPrices: nil,
			models.ImportKindPriceList:    nil,
		}
		for _, record := range records {
			files[record.Kind] = map[string]any{
				"locator":    record.Locator,
				"updated_at": record.UpdatedAt,
			}
		}
		responses.WriteSuccess(w, files)
	}
}

type importFunc func(ctx context.Context, file io.Reader, locator string) (*csvimport.Report, error)

// runImport streams one uploaded file through an importer. A mid-file read
// failure is not fatal to the response: the partial report is returned with
// the rows that were processed.
func runImport(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, header *multipart.FileHeader, run importFunc) (*csvimport.Report, bool) {
	file, err := header.Open()
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "opening upload"))
		return nil, false
	}
	defer file.Close()

	report, err := run(ctx, file, header.Filename)
	if err != nil && report == nil {
		responses.WriteError(ctx, logg, w, err)
		return nil, false
	}
	return report, true
}

func buildResult(report *csvimport.Report, currencySymbol string) *importResult {
	lines := make([]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		lines = append(lines, row.Describe(currencySymbol))
	}
	return &importResult{Report: report, Lines: lines}
}

func firstFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil
	}
	return headers[0]
}
