package meisai

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/tsawler/meisai/fields"
	"github.com/tsawler/meisai/layout"
	"github.com/tsawler/meisai/model"
	"github.com/tsawler/meisai/ocr"
	"github.com/tsawler/meisai/raster"
	"github.com/tsawler/meisai/tables"
	"github.com/tsawler/meisai/tokens"
)

// Engine runs the extraction pipeline: filter, cluster, locate, assign,
// extract, reconcile. The pipeline itself is a pure function of the input
// tokens; the one long-lived resource is the recognition client, which is
// expensive to initialize and therefore created lazily exactly once and
// reused across documents. Recognition calls are serialized; the underlying
// engine is not assumed to support concurrent use.
type Engine struct {
	config Config

	initOnce sync.Once
	initErr  error
	client   *ocr.Client
	ocrMu    sync.Mutex

	source    *raster.Source
	filter    *tokens.Filter
	clusterer *layout.RowClusterer
	locator   *tables.AnchorLocator
	assigner  *tables.Assigner
	extractor *fields.Extractor
}

// NewEngine creates an engine with default configuration.
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultConfig())
}

// NewEngineWithConfig creates an engine with custom configuration.
func NewEngineWithConfig(config Config) *Engine {
	return &Engine{
		config:    config,
		source:    raster.NewSourceWithConfig(config.Raster),
		filter:    tokens.NewFilterWithConfig(config.Tokens),
		clusterer: layout.NewRowClustererWithConfig(config.Layout),
		locator:   tables.NewAnchorLocatorWithConfig(config.Anchors),
		assigner:  tables.NewAssignerWithConfig(config.Assign),
		extractor: fields.NewExtractorWithConfig(config.Fields),
	}
}

// Close releases the recognition client if one was initialized.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// ensureClient initializes the shared recognition client exactly once.
// Initialization failure is sticky: every subsequent call reports the same
// error, distinctly from input errors.
func (e *Engine) ensureClient() (*ocr.Client, error) {
	e.initOnce.Do(func() {
		e.client, e.initErr = ocr.New(e.config.Languages...)
	})
	return e.client, e.initErr
}

// ExtractFile runs the full pipeline on an input document: rasterize,
// recognize, then reconstruct structure from the tokens. The context bounds
// the rasterization and recognition steps, the only potentially slow ones.
func (e *Engine) ExtractFile(ctx context.Context, path string) (*model.ExtractionResult, error) {
	img, err := e.source.Prepare(ctx, path)
	if err != nil {
		return nil, err
	}

	toks, err := e.Recognize(ctx, img)
	if err != nil {
		return nil, err
	}

	return e.ExtractTokens(toks), nil
}

// Recognize runs the recognition engine on a PNG-encoded page image and
// applies the configured confidence cutoff. The cutoff is this caller's
// responsibility, not the recognition engine's.
func (e *Engine) Recognize(ctx context.Context, imageData []byte) ([]model.Token, error) {
	client, err := e.ensureClient()
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.ocrMu.Lock()
	raw, err := client.Recognize(imageData)
	e.ocrMu.Unlock()
	if err != nil {
		return nil, err
	}

	toks := make([]model.Token, 0, len(raw))
	for _, tok := range raw {
		if tok.Confidence > e.config.MinConfidence {
			toks = append(toks, tok)
		}
	}

	log.Debug().
		Int("recognized", len(raw)).
		Int("kept", len(toks)).
		Float64("min_confidence", e.config.MinConfidence).
		Msg("recognition complete")

	return toks, nil
}

// ExtractTokens reconstructs the structured record from recognized tokens.
// It never fails: heuristic misses degrade to unset fields and an empty
// table, since header-less or table-less documents are valid inputs. An
// empty token list yields an empty result, not an error.
func (e *Engine) ExtractTokens(toks []model.Token) *model.ExtractionResult {
	result := model.NewExtractionResult()
	if len(toks) == 0 {
		return result
	}

	// Reading-order corpus for the header patterns: all tokens, clustered
	// and joined. The filter guards only the table path, since header
	// patterns anchor on exactly the label vocabulary the filter strips.
	joined := layout.JoinText(e.clusterer.Cluster(toks))

	filtered := e.filter.Apply(toks)
	rows := e.clusterer.Cluster(filtered)

	var items []model.LineItem
	anchors := e.locator.Locate(rows)
	if anchors == nil {
		log.Debug().Int("rows", len(rows)).Msg("no table header row found")
	} else {
		items = e.assigner.Assign(rows, anchors)
		log.Debug().
			Int("rows", len(rows)).
			Int("header_row", anchors.HeaderIndex).
			Int("line_items", len(items)).
			Msg("table reconstructed")
	}

	header := e.extractor.Extract(joined, toks)
	header.TotalAmount = PatchTotal(header.TotalAmount, items, e.config.Validation)

	result.Header = header
	result.LineItems = append(result.LineItems, items...)
	return result
}
