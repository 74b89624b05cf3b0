package fields

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/width"

	"github.com/tsawler/meisai/model"
)

// AccountConfig holds configuration for the account-holder spatial fallback.
type AccountConfig struct {
	// WindowRight is how far the search window extends rightward beyond the
	// account number token's right edge (default: 260).
	WindowRight float64 `yaml:"window_right"`

	// WindowSlack is the narrow vertical extension above and below the
	// account number token's quad (default: 10).
	WindowSlack float64 `yaml:"window_slack"`

	// MinConfidence is the confidence floor for holder candidates
	// (default: 0.5).
	MinConfidence float64 `yaml:"min_confidence"`
}

// DefaultAccountConfig returns account-holder fallback defaults.
func DefaultAccountConfig() AccountConfig {
	return AccountConfig{
		WindowRight:   260.0,
		WindowSlack:   10.0,
		MinConfidence: 0.5,
	}
}

// AccountHolderResolver locates the account holder name spatially when the
// pattern rules fail but an account number was resolved: holder names are
// printed immediately right of the number on Japanese transfer blocks.
type AccountHolderResolver struct {
	config AccountConfig
}

// NewAccountHolderResolver creates a resolver with default configuration.
func NewAccountHolderResolver() *AccountHolderResolver {
	return &AccountHolderResolver{config: DefaultAccountConfig()}
}

// NewAccountHolderResolverWithConfig creates a resolver with custom
// configuration.
func NewAccountHolderResolverWithConfig(config AccountConfig) *AccountHolderResolver {
	return &AccountHolderResolver{config: config}
}

// nameScript matches characters consistent with Japanese personal and
// organization names.
var nameScript = regexp.MustCompile(`[\p{Han}\p{Hiragana}\p{Katakana}]`)

// holderCandidate is a name-like token found inside the search window.
type holderCandidate struct {
	text       string
	confidence float64
	distance   float64
}

// Resolve finds the token carrying the resolved account number, searches a
// small rightward window, and picks the best name-script candidate ranked by
// confidence then horizontal proximity. Returns "" when nothing qualifies.
func (r *AccountHolderResolver) Resolve(toks []model.Token, accountNumber string) string {
	anchorIdx := -1
	for i, tok := range toks {
		if strings.Contains(width.Fold.String(tok.Text), accountNumber) {
			anchorIdx = i
			break
		}
	}
	if anchorIdx < 0 {
		return ""
	}

	anchor := toks[anchorIdx]
	window := model.Window{
		Left:   anchor.Quad.Left(),
		Right:  anchor.Quad.Right() + r.config.WindowRight,
		Top:    anchor.Quad.Top() - r.config.WindowSlack,
		Bottom: anchor.Quad.Bottom() + r.config.WindowSlack,
	}

	var candidates []holderCandidate
	for i, tok := range toks {
		if i == anchorIdx || tok.Confidence < r.config.MinConfidence {
			continue
		}
		if !window.Contains(tok.Quad.Center()) {
			continue
		}
		if !nameScript.MatchString(tok.Text) {
			continue
		}
		candidates = append(candidates, holderCandidate{
			text:       strings.TrimSpace(tok.Text),
			confidence: tok.Confidence,
			distance:   math.Abs(tok.CenterX() - anchor.Quad.Right()),
		})
	}

	if len(candidates) == 0 {
		return ""
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].confidence != candidates[j].confidence {
			return candidates[i].confidence > candidates[j].confidence
		}
		return candidates[i].distance < candidates[j].distance
	})

	return candidates[0].text
}
