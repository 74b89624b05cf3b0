package meisai

// Extractor provides a fluent interface for extracting a structured record
// from an invoice document. Each configuration method returns a new
// Extractor instance, making chains safe to fork and reuse.
type Extractor struct {
	filename string
	config   Config
	engine   *Engine // nil until a terminal operation runs, unless injected
}

// clone creates a copy of the Extractor so chain methods stay immutable.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		config:   e.config,
		engine:   e.engine,
	}
}

// WithConfig replaces the whole configuration.
func (e *Extractor) WithConfig(config Config) *Extractor {
	next := e.clone()
	next.config = config
	return next
}

// Languages sets the recognition language packs (e.g. "jpn", "eng").
func (e *Extractor) Languages(languages ...string) *Extractor {
	next := e.clone()
	next.config.Languages = append([]string(nil), languages...)
	return next
}

// Page selects the 1-based PDF page to extract from.
func (e *Extractor) Page(page int) *Extractor {
	next := e.clone()
	next.config.Raster.Page = page
	return next
}

// DPI sets the PDF rasterization resolution.
func (e *Extractor) DPI(dpi int) *Extractor {
	next := e.clone()
	next.config.Raster.DPI = dpi
	return next
}

// MinConfidence sets the recognition confidence cutoff.
func (e *Extractor) MinConfidence(min float64) *Extractor {
	next := e.clone()
	next.config.MinConfidence = min
	return next
}
