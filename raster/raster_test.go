package raster

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// writeTestPNG creates a small test image on disk.
func writeTestPNG(t *testing.T, dir, name string) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.White)
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return path
}

func TestPrepareImage(t *testing.T) {
	s := NewSource()
	path := writeTestPNG(t, t.TempDir(), "page.png")

	data, err := s.Prepare(context.Background(), path)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output not decodable: %v", err)
	}
	if format != "png" {
		t.Errorf("output format = %q, want png", format)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 20 {
		t.Errorf("output bounds = %v, want 40x20", img.Bounds())
	}
}

func TestPrepareMissingFile(t *testing.T) {
	s := NewSource()

	_, err := s.Prepare(context.Background(), filepath.Join(t.TempDir(), "absent.png"))
	if err == nil {
		t.Fatal("Prepare succeeded on missing file, want error")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want fs.ErrNotExist in chain", err)
	}
}

func TestPrepareUnsupportedFormat(t *testing.T) {
	s := NewSource()

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := s.Prepare(context.Background(), path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestPrepareCorruptPDF(t *testing.T) {
	s := NewSource()

	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(path, []byte("not a pdf"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := s.Prepare(context.Background(), path); err == nil {
		t.Error("Prepare succeeded on corrupt PDF, want error")
	}
}

func TestPrepareCorruptImage(t *testing.T) {
	s := NewSource()

	dir := t.TempDir()
	path := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(path, []byte("not a png"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := s.Prepare(context.Background(), path); err == nil {
		t.Error("Prepare succeeded on corrupt image, want error")
	}
}

func TestNewSourceWithConfigDefaults(t *testing.T) {
	s := NewSourceWithConfig(Config{})

	if s.config.DPI != 180 {
		t.Errorf("DPI = %d, want default 180", s.config.DPI)
	}
	if s.config.Page != 1 {
		t.Errorf("Page = %d, want default 1", s.config.Page)
	}
	if s.config.PdftoppmPath != "pdftoppm" {
		t.Errorf("PdftoppmPath = %q, want default pdftoppm", s.config.PdftoppmPath)
	}
}
