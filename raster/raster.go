// Package raster turns an input document into the page image the recognition
// engine consumes.
//
// Image inputs (PNG, JPEG, TIFF, BMP) pass through with grayscale
// preprocessing. PDF inputs are validated for readability and page count,
// then rasterized through poppler's pdftoppm at a fixed working resolution.
package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ledongthuc/pdf"

	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned for input files whose extension is not a
// supported image or PDF format.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// ErrNoPages is returned when a PDF yields no rasterizable page.
var ErrNoPages = errors.New("no pages in document")

// imageExtensions are the directly supported raster input formats.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tiff": true,
	".tif":  true,
	".bmp":  true,
}

// Config holds configuration for page preparation.
type Config struct {
	// DPI is the rasterization resolution for PDF inputs (default: 180).
	// The extraction tolerances are tuned for this working resolution.
	DPI int `yaml:"dpi"`

	// Page is the 1-based page to rasterize from PDF inputs (default: 1).
	Page int `yaml:"page"`

	// PdftoppmPath is the poppler pdftoppm binary (default: "pdftoppm",
	// resolved via PATH).
	PdftoppmPath string `yaml:"pdftoppm_path"`

	// Grayscale converts the page to grayscale before OCR (default: true).
	Grayscale bool `yaml:"grayscale"`
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		DPI:          180,
		Page:         1,
		PdftoppmPath: "pdftoppm",
		Grayscale:    true,
	}
}

// Source prepares page images from input documents.
type Source struct {
	config Config
}

// NewSource creates a source with default configuration.
func NewSource() *Source {
	return &Source{config: DefaultConfig()}
}

// NewSourceWithConfig creates a source with custom configuration.
func NewSourceWithConfig(config Config) *Source {
	if config.DPI <= 0 {
		config.DPI = DefaultConfig().DPI
	}
	if config.Page <= 0 {
		config.Page = DefaultConfig().Page
	}
	if config.PdftoppmPath == "" {
		config.PdftoppmPath = DefaultConfig().PdftoppmPath
	}
	return &Source{config: config}
}

// Prepare produces the PNG-encoded page image for the given input file.
// Unreadable sources, unsupported formats, and page-less PDFs are reported
// as distinct errors, never silently swallowed.
func (s *Source) Prepare(ctx context.Context, path string) ([]byte, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("input file not readable: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".pdf":
		return s.preparePDF(ctx, path)
	case imageExtensions[ext]:
		return s.prepareImage(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// prepareImage loads an already-rasterized image and re-encodes it as PNG
// after preprocessing.
func (s *Source) prepareImage(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return s.encode(img)
}

// preparePDF validates the PDF and rasterizes the configured page.
func (s *Source) preparePDF(ctx context.Context, path string) ([]byte, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	pageCount := reader.NumPage()
	f.Close()

	if pageCount == 0 {
		return nil, ErrNoPages
	}
	if s.config.Page > pageCount {
		return nil, fmt.Errorf("%w: page %d requested, document has %d",
			ErrNoPages, s.config.Page, pageCount)
	}

	tmpDir, err := os.MkdirTemp("", "meisai-raster-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	page := strconv.Itoa(s.config.Page)

	cmd := exec.CommandContext(ctx, s.config.PdftoppmPath,
		"-png",
		"-r", strconv.Itoa(s.config.DPI),
		"-f", page,
		"-l", page,
		"-singlefile",
		path, prefix,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	rendered, err := os.Open(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("pdftoppm produced no page image: %w", err)
	}
	defer rendered.Close()

	img, _, err := image.Decode(rendered)
	if err != nil {
		return nil, fmt.Errorf("failed to decode rendered page: %w", err)
	}

	return s.encode(img)
}

// encode applies preprocessing and encodes the page as PNG.
func (s *Source) encode(img image.Image) ([]byte, error) {
	if s.config.Grayscale {
		img = imaging.Grayscale(img)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode page image: %w", err)
	}
	return buf.Bytes(), nil
}
