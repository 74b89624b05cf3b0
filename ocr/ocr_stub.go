//go:build !ocr

// Package ocr provides the recognition engine that turns a page image into
// positioned text tokens.
//
// This is the stub implementation used when the "ocr" build tag is not set.
// All functions return ErrNotEnabled.
//
// To enable OCR, rebuild with the "ocr" build tag:
//
//	go build -tags ocr
//
// This requires Tesseract to be installed along with the language data for
// the configured languages. On macOS:
//
//	brew install tesseract tesseract-lang
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr tesseract-ocr-jpn
package ocr

import (
	"errors"

	"github.com/tsawler/meisai/model"
)

// ErrNotEnabled is returned when OCR functions are called but OCR support
// was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// PageSegMode represents page segmentation modes for OCR. These control how
// Tesseract analyzes the page layout (matching the OCR-enabled build).
type PageSegMode int

// Client is a stub OCR client that returns errors for all operations.
type Client struct{}

// New returns an error indicating OCR support is not enabled.
// To enable OCR, rebuild with: go build -tags ocr
func New(languages ...string) (*Client, error) {
	return nil, ErrNotEnabled
}

// Close is a no-op for the stub client. It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// Recognize returns an error indicating OCR support is not enabled.
func (c *Client) Recognize(imageData []byte) ([]model.Token, error) {
	return nil, ErrNotEnabled
}

// SetPageSegMode returns an error indicating OCR support is not enabled.
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return ErrNotEnabled
}
