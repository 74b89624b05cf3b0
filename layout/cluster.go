// Package layout provides spatial row reconstruction: grouping recognized
// tokens into horizontal rows by vertical-center proximity.
package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/meisai/model"
)

// Config holds configuration for row clustering.
type Config struct {
	// VerticalTolerance is the maximum distance between a token's vertical
	// center and a row's running mean center for the token to join the row,
	// in pixel units at the recognition engine's working resolution
	// (default: 15). This is the primary control for row-splitting false
	// positives and negatives.
	VerticalTolerance float64 `yaml:"vertical_tolerance"`
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		VerticalTolerance: 15.0,
	}
}

// RowClusterer groups tokens into horizontal rows.
type RowClusterer struct {
	config Config
}

// NewRowClusterer creates a clusterer with default configuration.
func NewRowClusterer() *RowClusterer {
	return &RowClusterer{config: DefaultConfig()}
}

// NewRowClustererWithConfig creates a clusterer with custom configuration.
func NewRowClustererWithConfig(config Config) *RowClusterer {
	return &RowClusterer{config: config}
}

// Cluster groups tokens into rows by vertical-center proximity.
//
// Tokens are first sorted top to bottom by vertical center. Each token joins
// the current row when its center is within VerticalTolerance of the row's
// running mean center (the arithmetic mean over all members, recomputed as
// members are added), and otherwise starts a new row. Within a finished row,
// tokens are sorted by horizontal position ascending, which produces reading
// order. Given a fixed tolerance the result is independent of input order.
//
// Zero input tokens produce zero rows, not an error.
func (c *RowClusterer) Cluster(toks []model.Token) []model.Row {
	if len(toks) == 0 {
		return nil
	}

	sorted := make([]model.Token, len(toks))
	copy(sorted, toks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CenterY() != sorted[j].CenterY() {
			return sorted[i].CenterY() < sorted[j].CenterY()
		}
		// Same band - order by X so clustering stays order independent.
		return sorted[i].Quad.Left() < sorted[j].Quad.Left()
	})

	var rows []model.Row
	current := model.Row{}

	for _, tok := range sorted {
		if len(current.Tokens) == 0 {
			current.Add(tok)
			continue
		}

		if math.Abs(tok.CenterY()-current.YCenter) <= c.config.VerticalTolerance {
			current.Add(tok)
		} else {
			rows = append(rows, finishRow(current))
			current = model.Row{}
			current.Add(tok)
		}
	}

	if len(current.Tokens) > 0 {
		rows = append(rows, finishRow(current))
	}

	return rows
}

// finishRow sorts a row's tokens into reading order (left to right).
func finishRow(row model.Row) model.Row {
	sort.SliceStable(row.Tokens, func(i, j int) bool {
		return row.Tokens[i].Quad.Left() < row.Tokens[j].Quad.Left()
	})
	return row
}

// JoinText returns the text of all rows in reading order, tokens joined with
// single spaces. This is the corpus the header field patterns match over.
func JoinText(rows []model.Row) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(row.Text())
	}
	return b.String()
}
