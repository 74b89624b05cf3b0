package tables

import (
	"math"
	"strings"

	"github.com/tsawler/meisai/amount"
	"github.com/tsawler/meisai/model"
)

// AssignConfig holds configuration for row-to-line-item assignment.
type AssignConfig struct {
	// AssignmentTolerance is the maximum horizontal distance between a
	// token's center and a column anchor for the token to be assigned to
	// that column (default: 120). It prevents a stray token from
	// contaminating a distant column.
	AssignmentTolerance float64 `yaml:"assignment_tolerance"`

	// RowBuffer is the vertical clearance below the header row's bottom
	// edge before data rows begin (default: 5).
	RowBuffer float64 `yaml:"row_buffer"`

	// FooterKeywords mark subtotal, tax, grand total, and bank transfer
	// rows that must not be counted as line items.
	FooterKeywords []string `yaml:"footer_keywords"`

	// UnitWords are unit-of-measure words assigned to the UNIT column by
	// content, regardless of anchor distance.
	UnitWords []string `yaml:"unit_words"`
}

// DefaultAssignConfig returns assignment defaults for Japanese invoices.
func DefaultAssignConfig() AssignConfig {
	return AssignConfig{
		AssignmentTolerance: 120.0,
		RowBuffer:           5.0,
		FooterKeywords: []string{
			"小計", "消費税", "合計", "税込", "税抜", "ご請求",
			"振込", "支払", "銀行", "口座",
		},
		UnitWords: []string{
			"パック", "kg", "g", "個", "本", "枚", "セット", "袋",
			"円", "式", "件", "個口",
		},
	}
}

// Assigner turns data rows below the table header into line items.
type Assigner struct {
	config AssignConfig
}

// NewAssigner creates an assigner with default configuration.
func NewAssigner() *Assigner {
	return &Assigner{config: DefaultAssignConfig()}
}

// NewAssignerWithConfig creates an assigner with custom configuration.
func NewAssignerWithConfig(config AssignConfig) *Assigner {
	return &Assigner{config: config}
}

// Assign builds line items from the rows strictly below the header row.
//
// Each token is assigned to the nearest column anchor by absolute horizontal
// distance, provided the distance is within AssignmentTolerance; tokens
// assigned to the same column are joined left to right with single spaces.
// Footer and summary rows are excluded, numeric fields are cleaned and
// reformatted, and a missing numeric field is derived from the other two
// where possible. Rows violating the line item invariant are discarded.
func (a *Assigner) Assign(rows []model.Row, anchors *Anchors) []model.LineItem {
	if anchors == nil {
		return nil
	}

	var items []model.LineItem
	floor := anchors.HeaderBottom + a.config.RowBuffer

	for _, row := range rows {
		if row.YCenter <= floor {
			continue
		}
		if a.isFooterRow(row) {
			continue
		}
		if item, ok := a.buildItem(row, anchors); ok {
			items = append(items, item)
		}
	}

	return items
}

// isFooterRow reports whether the row resembles a subtotal, tax, total, or
// bank transfer row.
func (a *Assigner) isFooterRow(row model.Row) bool {
	text := row.Text()
	for _, kw := range a.config.FooterKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// buildItem assembles a single line item from a data row. The second return
// value reports whether the row survives the line item invariant.
func (a *Assigner) buildItem(row model.Row, anchors *Anchors) (model.LineItem, bool) {
	cells := make(map[Column][]string)

	for _, tok := range row.Tokens {
		col, ok := a.columnFor(tok, anchors)
		if !ok {
			continue
		}
		cells[col] = append(cells[col], strings.TrimSpace(tok.Text))
	}

	item := model.LineItem{
		Description: strings.Join(cells[Description], " "),
		UnitPrice:   amount.Reformat(strings.Join(cells[UnitPrice], " ")),
		Quantity:    amount.Reformat(strings.Join(cells[Quantity], " ")),
		Unit:        strings.Join(cells[Unit], " "),
		Amount:      amount.Reformat(strings.Join(cells[Amount], " ")),
	}

	a.reconcile(&item)

	if !survives(item) {
		return model.LineItem{}, false
	}
	return item, true
}

// columnFor determines the column a token belongs to: unit words go to the
// UNIT column by content, everything else to the nearest anchor within the
// assignment tolerance.
func (a *Assigner) columnFor(tok model.Token, anchors *Anchors) (Column, bool) {
	text := strings.TrimSpace(tok.Text)
	for _, w := range a.config.UnitWords {
		if text == w {
			return Unit, true
		}
	}

	col, dist := anchors.Nearest(tok.CenterX())
	if dist > a.config.AssignmentTolerance {
		return Description, false
	}
	return col, true
}

// reconcile derives exactly one absent numeric field from the other two:
// amount = round(quantity × unit price); a missing unit price or quantity is
// the corresponding quotient, formatted as an integer when exact and with
// two decimals otherwise. Division by zero or non-numeric inputs leave the
// field unset.
func (a *Assigner) reconcile(item *model.LineItem) {
	up, hasUP := amount.Parse(item.UnitPrice)
	qty, hasQty := amount.Parse(item.Quantity)
	amt, hasAmt := amount.Parse(item.Amount)

	switch {
	case hasQty && hasUP && !hasAmt:
		item.Amount = amount.Format(math.Round(qty * up))
	case hasQty && hasAmt && !hasUP:
		if qty != 0 {
			item.UnitPrice = amount.FormatAuto(amt / qty)
		}
	case hasUP && hasAmt && !hasQty:
		if up != 0 {
			item.Quantity = amount.FormatAuto(amt / up)
		}
	}
}

// survives implements the line item invariant: a non-empty description, or an
// amount, or a coherent unit-price and quantity pair.
func survives(item model.LineItem) bool {
	if item.Description != "" {
		return true
	}
	if item.Amount != "" {
		return true
	}
	return item.UnitPrice != "" && item.Quantity != ""
}
