//go:build !ocr

package ocr

import (
	"errors"
	"testing"
)

func TestNewReturnsError(t *testing.T) {
	client, err := New("jpn", "eng")
	if err == nil {
		t.Error("Expected error from New() when OCR is disabled")
	}
	if !errors.Is(err, ErrNotEnabled) {
		t.Errorf("Expected ErrNotEnabled, got: %v", err)
	}
	if client != nil {
		t.Error("Expected nil client when OCR is disabled")
	}
}

func TestRecognizeReturnsError(t *testing.T) {
	var client Client
	toks, err := client.Recognize([]byte("image"))
	if !errors.Is(err, ErrNotEnabled) {
		t.Errorf("Expected ErrNotEnabled, got: %v", err)
	}
	if toks != nil {
		t.Errorf("Expected nil tokens, got: %v", toks)
	}
}

func TestSetPageSegModeReturnsError(t *testing.T) {
	var client Client
	if err := client.SetPageSegMode(PageSegMode(6)); !errors.Is(err, ErrNotEnabled) {
		t.Errorf("Expected ErrNotEnabled, got: %v", err)
	}
}

func TestCloseOnNilClient(t *testing.T) {
	var client *Client
	if err := client.Close(); err != nil {
		t.Errorf("Close on nil client should not error: %v", err)
	}
}
