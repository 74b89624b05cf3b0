//go:build ocr

// Package ocr provides the recognition engine that turns a page image into
// positioned text tokens.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract to be installed on the system, along with the language data for
// the configured languages (e.g. tesseract-ocr-jpn). On macOS, install via:
//
//	brew install tesseract tesseract-lang
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr tesseract-ocr-jpn
package ocr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/tsawler/meisai/model"
)

// ErrNotEnabled is returned by the stub build when OCR support was not
// compiled in. It is defined in both builds so callers can test against it
// unconditionally.
var ErrNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Client wraps Tesseract for token recognition. It is expensive to create
// (model load) and should be reused across documents; recognition calls are
// not assumed to be concurrency-safe and must be serialized by the caller.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client configured for the given languages
// (e.g. "jpn", "eng"). The client should be closed when no longer needed to
// release resources.
func New(languages ...string) (*Client, error) {
	client := gosseract.NewClient()
	if len(languages) > 0 {
		if err := client.SetLanguage(languages...); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set languages %v: %w", languages, err)
		}
	}
	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Recognize performs OCR on image data (PNG, TIFF, JPEG, etc.) and returns
// one token per recognized word, with its bounding quad in image coordinates
// and the engine's confidence normalized to [0, 1].
//
// No confidence cutoff is applied here; the caller owns that policy.
func (c *Client) Recognize(imageData []byte) ([]model.Token, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	toks := make([]model.Token, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		toks = append(toks, model.NewToken(
			text,
			float64(box.Box.Min.X),
			float64(box.Box.Min.Y),
			float64(box.Box.Max.X),
			float64(box.Box.Max.Y),
			box.Confidence/100.0,
		))
	}

	return toks, nil
}

// SetPageSegMode sets the page segmentation mode, which controls how
// Tesseract analyzes the page layout.
func (c *Client) SetPageSegMode(mode gosseract.PageSegMode) error {
	return c.client.SetPageSegMode(mode)
}
