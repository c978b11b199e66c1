package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/paperfetch/scholar-crawler/internal/scholar"
)

// ErrNotPDF is returned when fetched bytes fail the magic-byte check.
var ErrNotPDF = errors.New("content is not a PDF")

var pdfMagic = []byte("%PDF")

// IsPDF reports whether data starts with the PDF magic signature.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// DownloadPDF fetches url with browser headers and validates the
// payload's magic bytes. Non-PDF content yields ErrNotPDF.
func DownloadPDF(ctx context.Context, fetcher scholar.Fetcher, url string, timeout time.Duration) ([]byte, error) {
	resp, err := fetcher.Fetch(ctx, scholar.FetchRequest{
		URL:     url,
		Headers: scholar.BrowserHeaders(),
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch pdf: %w", err)
	}
	if !IsPDF(resp.Body) {
		return nil, ErrNotPDF
	}
	return resp.Body, nil
}
