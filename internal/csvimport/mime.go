package csvimport

import (
	"mime"
	"strings"

	pkgerrors "github.com/webcodesigner/pricemanager-backend/pkg/errors"
)

// csvMIMETypes is the lenient allow-list of content types browsers and
// spreadsheet tools report for CSV uploads. application/octet-stream is
// included because several browsers fall back to it for .csv files.
var csvMIMETypes = []string{
	"text/csv",
	"text/plain",
	"application/csv",
	"text/comma-separated-values",
	"application/excel",
	"application/vnd.ms-excel",
	"application/vnd.msexcel",
	"text/anytext",
	"application/octet-stream",
	"application/txt",
}

// strictMIMETypes is the reduced allow-list used when strict upload checking
// is enabled.
var strictMIMETypes = []string{
	"text/csv",
	"application/csv",
	"text/comma-separated-values",
}

// CheckMIME validates the declared content type of an upload against the
// CSV allow-list. Media type parameters (charset etc.) are ignored. A
// rejection aborts the whole upload, so the error carries the offending
// type in its details.
func CheckMIME(contentType string, strict bool) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	allowed := csvMIMETypes
	if strict {
		allowed = strictMIMETypes
	}
	for _, candidate := range allowed {
		if mediaType == candidate {
			return nil
		}
	}

	return pkgerrors.New(pkgerrors.CodeWrongFileType, "unsupported upload content type").
		WithDetails(map[string]string{"content_type": mediaType})
}
