package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/webcodesigner/pricemanager-backend/internal/csvimport"
	"github.com/webcodesigner/pricemanager-backend/pkg/config"
	"github.com/webcodesigner/pricemanager-backend/pkg/db/models"
	"github.com/webcodesigner/pricemanager-backend/pkg/logger"
)

type stubImporter struct {
	customCalls int
	listCalls   int
	report      *csvimport.Report
}

func (s *stubImporter) ImportCustomPrices(_ context.Context, file io.Reader, _ string) (*csvimport.Report, error) {
	s.customCalls++
	io.Copy(io.Discard, file)
	return s.report, nil
}

func (s *stubImporter) ImportPriceList(_ context.Context, file io.Reader, _ string) (*csvimport.Report, error) {
	s.listCalls++
	io.Copy(io.Discard, file)
	return s.report, nil
}

func (s *stubImporter) Currency() string { return "$" }

func testUploadConfig() *config.Config {
	return &config.Config{
		Upload:  config.UploadConfig{MaxUploadMB: 5},
		Pricing: config.PricingConfig{Decimals: 2, CurrencySymbol: "$"},
	}
}

func multipartUpload(t *testing.T, field, filename, contentType, body string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("creating part: %v", err)
	}
	if _, err := part.Write([]byte(body)); err != nil {
		t.Fatalf("writing part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestImportPrices(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	t.Run("runs the custom price import", func(t *testing.T) {
		stub := &stubImporter{report: &csvimport.Report{
			Kind:    models.ImportKindCustomPrices,
			Success: true,
			Changed: 2,
		}}
		body, contentType := multipartUpload(t, "custom_prices", "custom.csv", "text/csv", "CustomerID,SKU,Price\n7,ABC,9.99\n")

		req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/prices/import", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		ImportPrices(testUploadConfig(), stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.customCalls != 1 || stub.listCalls != 0 {
			t.Fatalf("expected one custom import, got custom=%d list=%d", stub.customCalls, stub.listCalls)
		}

		var envelope struct {
			Data importResponse `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if envelope.Data.CustomPrices == nil || !envelope.Data.CustomPrices.Report.Success {
			t.Fatalf("expected a successful custom prices report")
		}
	})

	t.Run("rejects a non CSV content type before importing", func(t *testing.T) {
		stub := &stubImporter{report: &csvimport.Report{}}
		body, contentType := multipartUpload(t, "price_list", "list.pdf", "application/pdf", "%PDF-1.4")

		req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/prices/import", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		ImportPrices(testUploadConfig(), stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnsupportedMediaType {
			t.Fatalf("expected 415, got %d", rec.Code)
		}
		if stub.listCalls != 0 {
			t.Fatalf("importer must not run for a rejected upload")
		}
	})

	t.Run("requires at least one file", func(t *testing.T) {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		writer.WriteField("note", "no files here")
		writer.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/prices/import", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rec := httptest.NewRecorder()

		ImportPrices(testUploadConfig(), &stubImporter{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects a non multipart body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/prices/import", bytes.NewBufferString("{}"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		ImportPrices(testUploadConfig(), &stubImporter{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
