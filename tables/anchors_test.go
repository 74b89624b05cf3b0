package tables

import (
	"math"
	"testing"

	"github.com/tsawler/meisai/model"
)

func makeRow(toks ...model.Token) model.Row {
	var row model.Row
	for _, tok := range toks {
		row.Add(tok)
	}
	return row
}

func headerTok(text string, centerX, top, bottom, conf float64) model.Token {
	return model.NewToken(text, centerX-30, top, centerX+30, bottom, conf)
}

func TestLocateFindsHeaderRow(t *testing.T) {
	l := NewAnchorLocator()

	rows := []model.Row{
		makeRow(headerTok("テスト株式会社", 200, 10, 30, 0.9)),
		makeRow(
			headerTok("品目名", 100, 40, 60, 0.9),
			headerTok("金額", 500, 40, 60, 0.9),
		),
		makeRow(
			headerTok("リンゴ", 100, 90, 110, 0.9),
			headerTok("1,000", 490, 90, 110, 0.9),
		),
	}

	anchors := l.Locate(rows)
	if anchors == nil {
		t.Fatal("Locate returned nil, want anchors")
	}
	if anchors.HeaderIndex != 1 {
		t.Errorf("HeaderIndex = %d, want 1", anchors.HeaderIndex)
	}
	if anchors.HeaderBottom != 60 {
		t.Errorf("HeaderBottom = %v, want 60", anchors.HeaderBottom)
	}
	if got := anchors.X[Description]; got != 100 {
		t.Errorf("DESCRIPTION anchor = %v, want 100", got)
	}
	if got := anchors.X[Amount]; got != 500 {
		t.Errorf("AMOUNT anchor = %v, want 500", got)
	}
}

func TestLocateInterpolatesMissingAnchors(t *testing.T) {
	l := NewAnchorLocator()

	rows := []model.Row{
		makeRow(
			headerTok("品目名", 100, 40, 60, 0.9),
			headerTok("金額", 500, 40, 60, 0.9),
		),
	}

	anchors := l.Locate(rows)
	if anchors == nil {
		t.Fatal("Locate returned nil, want anchors")
	}

	// UNIT_PRICE at 40% of the span, QUANTITY at 40% of the remainder,
	// UNIT at the midpoint of what is left.
	wants := map[Column]float64{
		UnitPrice: 260,
		Quantity:  356,
		Unit:      428,
	}
	for col, want := range wants {
		got, ok := anchors.X[col]
		if !ok {
			t.Fatalf("missing interpolated anchor for %v", col)
		}
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("%v anchor = %v, want %v", col, got, want)
		}
	}
}

func TestLocateRequiresDescriptionAndAmount(t *testing.T) {
	l := NewAnchorLocator()

	tests := []struct {
		name string
		rows []model.Row
	}{
		{
			"no rows", nil,
		},
		{
			"single match",
			[]model.Row{makeRow(headerTok("品目名", 100, 40, 60, 0.9))},
		},
		{
			"two matches without amount",
			[]model.Row{makeRow(
				headerTok("品目名", 100, 40, 60, 0.9),
				headerTok("単価", 300, 40, 60, 0.9),
			)},
		},
		{
			"two matches without description",
			[]model.Row{makeRow(
				headerTok("数量", 300, 40, 60, 0.9),
				headerTok("金額", 500, 40, 60, 0.9),
			)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.Locate(tt.rows); got != nil {
				t.Errorf("Locate = %+v, want nil", got)
			}
		})
	}
}

func TestLocateRejectsLowConfidenceLabels(t *testing.T) {
	l := NewAnchorLocator()

	rows := []model.Row{
		makeRow(
			headerTok("品目名", 100, 40, 60, 0.3),
			headerTok("金額", 500, 40, 60, 0.9),
		),
	}

	if got := l.Locate(rows); got != nil {
		t.Errorf("Locate = %+v, want nil for low-confidence label", got)
	}
}

func TestLocatePrefersRowWithMostMatches(t *testing.T) {
	l := NewAnchorLocator()

	rows := []model.Row{
		makeRow(
			headerTok("明細", 100, 10, 30, 0.9),
			headerTok("合計", 500, 10, 30, 0.9),
		),
		makeRow(
			headerTok("品目名", 100, 40, 60, 0.9),
			headerTok("単価", 250, 40, 60, 0.9),
			headerTok("数量", 350, 40, 60, 0.9),
			headerTok("金額", 500, 40, 60, 0.9),
		),
	}

	anchors := l.Locate(rows)
	if anchors == nil {
		t.Fatal("Locate returned nil, want anchors")
	}
	if anchors.HeaderIndex != 1 {
		t.Errorf("HeaderIndex = %d, want 1", anchors.HeaderIndex)
	}
}

func TestLocateLeftmostDuplicateWins(t *testing.T) {
	l := NewAnchorLocator()

	rows := []model.Row{
		makeRow(
			headerTok("品目名", 100, 40, 60, 0.9),
			headerTok("金額", 400, 40, 60, 0.9),
			headerTok("金額", 550, 40, 60, 0.9),
		),
	}

	anchors := l.Locate(rows)
	if anchors == nil {
		t.Fatal("Locate returned nil, want anchors")
	}
	if got := anchors.X[Amount]; got != 400 {
		t.Errorf("AMOUNT anchor = %v, want leftmost 400", got)
	}
}

func TestNearest(t *testing.T) {
	a := &Anchors{X: map[Column]float64{
		Description: 100,
		Amount:      500,
	}}

	col, dist := a.Nearest(110)
	if col != Description || dist != 10 {
		t.Errorf("Nearest(110) = (%v, %v), want (DESCRIPTION, 10)", col, dist)
	}

	col, dist = a.Nearest(490)
	if col != Amount || dist != 10 {
		t.Errorf("Nearest(490) = (%v, %v), want (AMOUNT, 10)", col, dist)
	}
}

func TestSortedColumns(t *testing.T) {
	a := &Anchors{X: map[Column]float64{
		Amount:      500,
		Description: 100,
		Quantity:    350,
	}}

	got := a.SortedColumns()
	want := []Column{Description, Quantity, Amount}
	if len(got) != len(want) {
		t.Fatalf("SortedColumns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SortedColumns[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
