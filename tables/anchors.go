package tables

import (
	"sort"
	"strings"

	"github.com/tsawler/meisai/model"
)

// Column identifies a canonical table column.
type Column int

const (
	Description Column = iota
	UnitPrice
	Quantity
	Unit
	Amount
)

// String returns the canonical column name.
func (c Column) String() string {
	switch c {
	case Description:
		return "DESCRIPTION"
	case UnitPrice:
		return "UNIT_PRICE"
	case Quantity:
		return "QUANTITY"
	case Unit:
		return "UNIT"
	case Amount:
		return "AMOUNT"
	default:
		return "UNKNOWN"
	}
}

// columnOrder is the canonical left-to-right order of table columns.
var columnOrder = []Column{Description, UnitPrice, Quantity, Unit, Amount}

// AnchorConfig holds configuration for column anchor location.
type AnchorConfig struct {
	// HeaderConfidence is the minimum token confidence for a header label
	// match (default: 0.6).
	HeaderConfidence float64 `yaml:"header_confidence"`

	// Synonyms maps canonical column names to header label keywords. A
	// token matches a column when its trimmed text equals one of the
	// column's keywords.
	Synonyms map[string][]string `yaml:"synonyms"`

	// UnitPriceRatio and QuantityRatio drive interpolation of missing
	// anchors between DESCRIPTION and AMOUNT (defaults: 0.40 each). The
	// ratios are empirically tuned approximations, not layout facts.
	UnitPriceRatio float64 `yaml:"unit_price_ratio"`
	QuantityRatio  float64 `yaml:"quantity_ratio"`
}

// DefaultAnchorConfig returns the anchor vocabulary and interpolation
// defaults for Japanese invoices.
func DefaultAnchorConfig() AnchorConfig {
	return AnchorConfig{
		HeaderConfidence: 0.6,
		Synonyms: map[string][]string{
			"DESCRIPTION": {"品目名", "商品名", "サービス内容", "明細", "品名", "内容"},
			"UNIT_PRICE":  {"単価"},
			"QUANTITY":    {"数量"},
			"UNIT":        {"単位"},
			"AMOUNT":      {"金額", "合計"},
		},
		UnitPriceRatio: 0.40,
		QuantityRatio:  0.40,
	}
}

// Anchors maps canonical columns to x-coordinates. It is built once per
// document from the detected header row and then frozen.
type Anchors struct {
	// X holds the anchor x-coordinate per column.
	X map[Column]float64

	// HeaderIndex is the index of the header row within the clustered rows.
	HeaderIndex int

	// HeaderBottom is the bottom edge of the header row; line item rows lie
	// strictly below it.
	HeaderBottom float64
}

// AnchorLocator finds the table header row and derives column anchors.
type AnchorLocator struct {
	config AnchorConfig
}

// NewAnchorLocator creates a locator with default configuration.
func NewAnchorLocator() *AnchorLocator {
	return &AnchorLocator{config: DefaultAnchorConfig()}
}

// NewAnchorLocatorWithConfig creates a locator with custom configuration.
func NewAnchorLocatorWithConfig(config AnchorConfig) *AnchorLocator {
	return &AnchorLocator{config: config}
}

// Locate scans rows for the table header and returns the column anchors, or
// nil when no header row qualifies. A document without a tabular section is
// legitimate, so a nil result is not an error.
//
// The header row is the one with the most distinct canonical column matches,
// provided it has at least two and includes both a DESCRIPTION-class and an
// AMOUNT-class match. Matches require token confidence at or above
// HeaderConfidence. Anchor x-coordinates are the horizontal centers of the
// matched tokens; missing anchors among UNIT_PRICE, QUANTITY, and UNIT are
// interpolated between DESCRIPTION and AMOUNT.
func (l *AnchorLocator) Locate(rows []model.Row) *Anchors {
	bestIndex := -1
	var bestMatches map[Column]float64

	for i, row := range rows {
		matches := l.matchRow(row)
		if len(matches) < 2 {
			continue
		}
		if _, ok := matches[Description]; !ok {
			continue
		}
		if _, ok := matches[Amount]; !ok {
			continue
		}
		if bestMatches == nil || len(matches) > len(bestMatches) {
			bestIndex = i
			bestMatches = matches
		}
	}

	if bestIndex < 0 {
		return nil
	}

	l.interpolate(bestMatches)

	return &Anchors{
		X:            bestMatches,
		HeaderIndex:  bestIndex,
		HeaderBottom: rows[bestIndex].Bottom(),
	}
}

// matchRow returns the anchor x per column matched in the row. When a column
// keyword appears more than once, the leftmost occurrence wins.
func (l *AnchorLocator) matchRow(row model.Row) map[Column]float64 {
	matches := make(map[Column]float64)

	for _, tok := range row.Tokens {
		if tok.Confidence < l.config.HeaderConfidence {
			continue
		}
		text := strings.TrimSpace(tok.Text)
		for _, col := range columnOrder {
			if _, seen := matches[col]; seen {
				continue
			}
			for _, kw := range l.config.Synonyms[col.String()] {
				if text == kw {
					matches[col] = tok.CenterX()
					break
				}
			}
		}
	}

	return matches
}

// interpolate synthesizes missing anchors among UNIT_PRICE, QUANTITY, and
// UNIT by linear interpolation in canonical left-to-right order:
// UNIT_PRICE at UnitPriceRatio of the DESCRIPTION→AMOUNT span, QUANTITY at
// QuantityRatio of the remaining span, UNIT at the midpoint of what is left.
func (l *AnchorLocator) interpolate(anchors map[Column]float64) {
	desc := anchors[Description]
	amt := anchors[Amount]

	up, ok := anchors[UnitPrice]
	if !ok {
		up = desc + (amt-desc)*l.config.UnitPriceRatio
		anchors[UnitPrice] = up
	}

	qty, ok := anchors[Quantity]
	if !ok {
		qty = up + (amt-up)*l.config.QuantityRatio
		anchors[Quantity] = qty
	}

	if _, ok := anchors[Unit]; !ok {
		anchors[Unit] = (qty + amt) / 2
	}
}

// Nearest returns the column whose anchor is closest to x and the absolute
// distance to it.
func (a *Anchors) Nearest(x float64) (Column, float64) {
	best := Description
	bestDist := -1.0
	for _, col := range columnOrder {
		anchorX, ok := a.X[col]
		if !ok {
			continue
		}
		dist := anchorX - x
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			best = col
			bestDist = dist
		}
	}
	return best, bestDist
}

// SortedColumns returns the anchored columns ordered by x-coordinate. Useful
// for debugging detected layouts.
func (a *Anchors) SortedColumns() []Column {
	cols := make([]Column, 0, len(a.X))
	for _, col := range columnOrder {
		if _, ok := a.X[col]; ok {
			cols = append(cols, col)
		}
	}
	sort.SliceStable(cols, func(i, j int) bool {
		return a.X[cols[i]] < a.X[cols[j]]
	})
	return cols
}
