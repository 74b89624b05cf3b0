// Package tokens provides filtering of recognized tokens before layout
// analysis.
//
// The filter removes tokens that would otherwise pollute row clustering or be
// mis-typed as description or amount content: punctuation-only noise, stray
// currency glyphs, document boilerplate, and bare date/time fragments. Table
// header labels are a special case: they must survive clustering so the
// column anchor locator can find the header row, and are instead kept out of
// assembled line items via [Filter.IsHeaderLabel]. The vocabularies are
// carried in [Config] so rule sets can be extended without touching control
// flow.
package tokens

import (
	"regexp"
	"strings"

	"github.com/tsawler/meisai/model"
)

// Config holds the vocabularies and patterns used by the filter.
type Config struct {
	// NoiseSymbols are tokens discarded when their trimmed text matches
	// exactly: punctuation fragments and stray currency glyphs.
	NoiseSymbols []string `yaml:"noise_symbols"`

	// Boilerplate are substrings that mark a token as document furniture
	// (field labels, address vocabulary, honorifics). A token containing any
	// of them is discarded. Footer and bank vocabulary is deliberately not
	// listed here: those tokens must reach row assembly so whole summary
	// rows can be excluded rather than leaving orphaned numbers behind.
	Boilerplate []string `yaml:"boilerplate"`

	// HeaderLabels are exact table column header labels. Tokens matching
	// them are retained for column anchor location but excluded from line
	// item content.
	HeaderLabels []string `yaml:"header_labels"`
}

// DefaultConfig returns the filter vocabulary for Japanese invoices.
func DefaultConfig() Config {
	return Config{
		NoiseSymbols: []string{
			"-", "/", "\\", "|", "=", "_", ".", ":", ";", "(", ")",
			"#", "半", "¥", "￥",
		},
		Boilerplate: []string{
			"請求書番号", "請求日", "お支払期限", "発行日",
			"INVOICE", "TEL:", "登録番号", "東京都", "御中", "様", "担当者",
			"備考", "下記のとおり", "商品コード", "伝票番号",
		},
		HeaderLabels: []string{
			"品目名", "商品名", "サービス内容", "明細", "単価", "数量", "金額", "単位",
			"合計",
		},
	}
}

var (
	// datePattern matches bare dates like 2024/5/1, 2024-05-01, 2024年5月1日.
	datePattern = regexp.MustCompile(`^\d{4}[/\-年]\d{1,2}[/\-月]?\d{1,2}日?$`)

	// timePattern matches bare times like 9:30 or 14:05.
	timePattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
)

// Filter removes noise tokens ahead of table reconstruction.
type Filter struct {
	config Config
}

// NewFilter creates a filter with the default Japanese invoice vocabulary.
func NewFilter() *Filter {
	return &Filter{config: DefaultConfig()}
}

// NewFilterWithConfig creates a filter with a custom vocabulary.
func NewFilterWithConfig(config Config) *Filter {
	return &Filter{config: config}
}

// Apply returns the tokens that survive filtering, in input order. It is a
// pure transform: the input slice is not modified.
func (f *Filter) Apply(toks []model.Token) []model.Token {
	kept := make([]model.Token, 0, len(toks))
	for _, tok := range toks {
		if f.Keep(tok) {
			kept = append(kept, tok)
		}
	}
	return kept
}

// Keep reports whether a single token survives filtering. The checks run in
// order: empty/noise symbols, boilerplate substrings, then bare dates and
// times. Header labels are deliberately kept (see the package comment).
func (f *Filter) Keep(tok model.Token) bool {
	text := strings.TrimSpace(tok.Text)
	if len(text) == 0 {
		return false
	}

	for _, sym := range f.config.NoiseSymbols {
		if text == sym {
			return false
		}
	}

	if f.IsHeaderLabel(text) {
		return true
	}

	for _, term := range f.config.Boilerplate {
		if strings.Contains(text, term) {
			return false
		}
	}

	if datePattern.MatchString(text) || timePattern.MatchString(text) {
		return false
	}

	return true
}

// IsHeaderLabel reports whether the trimmed text is exactly a known table
// column header label.
func (f *Filter) IsHeaderLabel(text string) bool {
	text = strings.TrimSpace(text)
	for _, label := range f.config.HeaderLabels {
		if text == label {
			return true
		}
	}
	return false
}
