package model

import "strings"

// Token is a single recognized text fragment with its position on the page
// and the recognition engine's confidence. Tokens are immutable: they are
// produced once by the engine and only read by the extraction pipeline.
type Token struct {
	// Text is the recognized text content.
	Text string

	// Quad is the bounding quadrilateral in image coordinates.
	Quad Quad

	// Confidence is the engine's confidence in [0, 1].
	Confidence float64
}

// NewToken creates a token with an axis-aligned bounding quad.
func NewToken(text string, left, top, right, bottom, confidence float64) Token {
	return Token{
		Text:       text,
		Quad:       RectQuad(left, top, right, bottom),
		Confidence: confidence,
	}
}

// CenterX returns the horizontal center of the token's quad.
func (t Token) CenterX() float64 {
	return t.Quad.CenterX()
}

// CenterY returns the vertical center of the token's quad.
func (t Token) CenterY() float64 {
	return t.Quad.CenterY()
}

// Row is a horizontal cluster of tokens inferred to share one line of text.
// Rows are transient: they are rebuilt for every document and never persisted.
type Row struct {
	// Tokens are the member tokens, sorted left to right once the row is
	// finalized.
	Tokens []Token

	// YCenter is the running arithmetic mean of member vertical centers.
	YCenter float64
}

// Add appends a token to the row and updates the running mean y-center over
// all members, not just the first and last.
func (r *Row) Add(t Token) {
	r.Tokens = append(r.Tokens, t)
	total := 0.0
	for _, tok := range r.Tokens {
		total += tok.CenterY()
	}
	r.YCenter = total / float64(len(r.Tokens))
}

// Bottom returns the lowest bottom edge among the row's tokens.
func (r *Row) Bottom() float64 {
	bottom := 0.0
	for i, tok := range r.Tokens {
		if i == 0 || tok.Quad.Bottom() > bottom {
			bottom = tok.Quad.Bottom()
		}
	}
	return bottom
}

// Text returns the row's tokens joined left to right with single spaces.
func (r *Row) Text() string {
	var b strings.Builder
	for i, tok := range r.Tokens {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}
