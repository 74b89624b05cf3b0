// Package meisai reconstructs structured invoice records from recognized
// text fragments.
//
// The input is a flat, unordered set of tokens (each with a position on the
// page and a confidence score, as produced by an OCR engine) and the output
// is a document record: scalar header fields (identifiers, dates,
// counterparty name, monetary total, bank transfer details) plus an ordered
// table of line items. Structure is inferred purely from 2-D token geometry
// and text patterns.
//
// Basic usage:
//
//	result, err := meisai.Open("invoice.pdf").Extract(ctx)
//	if err != nil {
//	    // handle error
//	}
//	data, _ := json.Marshal(result)
//
// With options:
//
//	result, err := meisai.Open("invoice.pdf").
//	    Languages("jpn", "eng").
//	    Page(1).
//	    MinConfidence(0.5).
//	    Extract(ctx)
//
// For repeated extraction across documents, create one [Engine] and reuse
// it: the recognition model is loaded once, lazily, on the first call.
// Heuristic misses are not errors: a result may legitimately carry null
// header fields or an empty line item table. Only input problems and
// recognition-engine unavailability abort an extraction.
package meisai

import (
	"context"

	"github.com/tsawler/meisai/model"
)

// Open prepares extraction of the given invoice document (PDF or image
// file) with default configuration. Configure the returned Extractor with
// its chain methods, then call Extract.
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		config:   DefaultConfig(),
	}
}

// FromEngine creates an Extractor bound to an existing engine, reusing its
// recognition client. The caller keeps ownership of the engine and is
// responsible for closing it.
func FromEngine(engine *Engine, filename string) *Extractor {
	return &Extractor{
		filename: filename,
		config:   engine.config,
		engine:   engine,
	}
}

// Extract runs the pipeline and returns the structured record. When the
// Extractor was not bound to an engine, a private one is created for the
// call and closed afterwards.
func (e *Extractor) Extract(ctx context.Context) (*model.ExtractionResult, error) {
	engine := e.engine
	if engine == nil {
		engine = NewEngineWithConfig(e.config)
		defer engine.Close()
	}
	return engine.ExtractFile(ctx, e.filename)
}

// Must is a helper that wraps a call to a function returning (T, error) and
// panics if the error is non-nil. It is intended for use in scripts or tests
// where error handling would be cumbersome.
//
// Example:
//
//	result := meisai.Must(meisai.Open("invoice.pdf").Extract(ctx))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
