package fields

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/width"

	"github.com/tsawler/meisai/amount"
	"github.com/tsawler/meisai/model"
)

// TotalConfig holds configuration for spatial total-amount resolution. The
// window dimensions are empirically tuned constants with no stated
// derivation; treat them as configurable defaults, not guaranteed geometry.
type TotalConfig struct {
	// Keywords are total-class labels in priority order: earlier entries
	// beat later ones when both anchor a candidate.
	Keywords []string `yaml:"keywords"`

	// KeywordConfidence is the minimum confidence for a keyword token to
	// anchor a search window (default: 0.6).
	KeywordConfidence float64 `yaml:"keyword_confidence"`

	// WindowRight is how far the search window extends rightward beyond the
	// keyword's right edge (default: 300).
	WindowRight float64 `yaml:"window_right"`

	// WindowSlack is the loose vertical extension above and below the
	// keyword's quad (default: 20).
	WindowSlack float64 `yaml:"window_slack"`

	// MinPlausible is the floor below which a corpus-scan candidate is
	// rejected as implausibly small (default: 100).
	MinPlausible float64 `yaml:"min_plausible"`
}

// DefaultTotalConfig returns spatial resolution defaults.
func DefaultTotalConfig() TotalConfig {
	return TotalConfig{
		Keywords:          []string{"ご請求金額", "合計", "総額"},
		KeywordConfidence: 0.6,
		WindowRight:       300.0,
		WindowSlack:       20.0,
		MinPlausible:      100.0,
	}
}

// TotalResolver resolves the document total spatially when pattern matching
// over the joined text fails.
type TotalResolver struct {
	config TotalConfig
}

// NewTotalResolver creates a resolver with default configuration.
func NewTotalResolver() *TotalResolver {
	return &TotalResolver{config: DefaultTotalConfig()}
}

// NewTotalResolverWithConfig creates a resolver with custom configuration.
func NewTotalResolverWithConfig(config TotalConfig) *TotalResolver {
	if len(config.Keywords) == 0 {
		config.Keywords = DefaultTotalConfig().Keywords
	}
	return &TotalResolver{config: config}
}

// totalCandidate is a numeric token found inside a keyword's search window.
type totalCandidate struct {
	cleaned    string
	priority   int
	confidence float64
	distance   float64
}

// Resolve locates total-class keyword tokens, searches a rectangular window
// rightward of each for digit-like tokens, and ranks candidates by keyword
// priority, confidence, then horizontal proximity. When no keyword-anchored
// candidate exists it falls back to the largest currency-prefixed value in
// the corpus above the plausibility floor. Returns "" when nothing resolves.
func (r *TotalResolver) Resolve(toks []model.Token, joined string) string {
	var candidates []totalCandidate

	for i, tok := range toks {
		prio := r.keywordPriority(tok)
		if prio < 0 {
			continue
		}

		window := model.Window{
			Left:   tok.Quad.Left(),
			Right:  tok.Quad.Right() + r.config.WindowRight,
			Top:    tok.Quad.Top() - r.config.WindowSlack,
			Bottom: tok.Quad.Bottom() + r.config.WindowSlack,
		}

		for j, cand := range toks {
			if i == j || !window.Contains(cand.Quad.Center()) {
				continue
			}
			cleaned := amount.Clean(cand.Text)
			if cleaned == "" || !amount.IsNumeric(cleaned) {
				continue
			}
			candidates = append(candidates, totalCandidate{
				cleaned:    cleaned,
				priority:   prio,
				confidence: cand.Confidence,
				distance:   math.Abs(cand.CenterX() - tok.Quad.Right()),
			})
		}
	}

	if len(candidates) > 0 {
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].priority != candidates[j].priority {
				return candidates[i].priority < candidates[j].priority
			}
			if candidates[i].confidence != candidates[j].confidence {
				return candidates[i].confidence > candidates[j].confidence
			}
			return candidates[i].distance < candidates[j].distance
		})
		// The candidate was already cleaned on collection; regroup it
		// without cleaning again.
		best := candidates[0].cleaned
		if v, ok := amount.Parse(best); ok {
			return amount.FormatAuto(v)
		}
		return best
	}

	return r.scanCorpus(joined)
}

// keywordPriority returns the priority index of the total-class keyword the
// token carries, or -1 when the token is not a usable keyword anchor.
func (r *TotalResolver) keywordPriority(tok model.Token) int {
	if tok.Confidence < r.config.KeywordConfidence {
		return -1
	}
	text := width.Fold.String(strings.TrimSpace(tok.Text))
	for i, kw := range r.config.Keywords {
		if strings.Contains(text, kw) {
			return i
		}
	}
	return -1
}

// currencyScan matches currency-glyph-prefixed numeric substrings.
var currencyScan = regexp.MustCompile(`[¥￥半#]\s*([\d,]+(?:\.\d{1,2})?)`)

// scanCorpus takes the maximum currency-prefixed value in the joined text
// above the plausibility floor.
func (r *TotalResolver) scanCorpus(joined string) string {
	best := ""
	bestValue := 0.0

	for _, m := range currencyScan.FindAllStringSubmatch(joined, -1) {
		cleaned := amount.Clean(m[1])
		v, ok := amount.Parse(cleaned)
		if !ok || v < r.config.MinPlausible {
			continue
		}
		if best == "" || v > bestValue {
			best = cleaned
			bestValue = v
		}
	}

	if best == "" {
		return ""
	}
	return amount.FormatAuto(bestValue)
}
