package model

import "math"

// Point represents a 2D point in image coordinates (Y grows downward).
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Quad is the four-corner bounding quadrilateral of a recognized text
// fragment, in the corner order the recognition engine reports:
// top-left, top-right, bottom-right, bottom-left.
type Quad struct {
	TopLeft     Point
	TopRight    Point
	BottomRight Point
	BottomLeft  Point
}

// RectQuad creates an axis-aligned quad from edge coordinates.
func RectQuad(left, top, right, bottom float64) Quad {
	return Quad{
		TopLeft:     Point{X: left, Y: top},
		TopRight:    Point{X: right, Y: top},
		BottomRight: Point{X: right, Y: bottom},
		BottomLeft:  Point{X: left, Y: bottom},
	}
}

// Left returns the left edge X coordinate.
func (q Quad) Left() float64 {
	return q.TopLeft.X
}

// Right returns the right edge X coordinate.
func (q Quad) Right() float64 {
	return q.TopRight.X
}

// Top returns the top edge Y coordinate.
func (q Quad) Top() float64 {
	return q.TopLeft.Y
}

// Bottom returns the bottom edge Y coordinate.
func (q Quad) Bottom() float64 {
	return q.BottomLeft.Y
}

// Width returns the horizontal extent of the quad.
func (q Quad) Width() float64 {
	return q.Right() - q.Left()
}

// Height returns the vertical extent of the quad.
func (q Quad) Height() float64 {
	return q.Bottom() - q.Top()
}

// CenterX returns the horizontal center of the quad.
func (q Quad) CenterX() float64 {
	return (q.Left() + q.Right()) / 2
}

// CenterY returns the vertical center of the quad.
func (q Quad) CenterY() float64 {
	return (q.Top() + q.Bottom()) / 2
}

// Center returns the center point of the quad.
func (q Quad) Center() Point {
	return Point{X: q.CenterX(), Y: q.CenterY()}
}

// Window is an axis-aligned rectangular search region in image coordinates.
type Window struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// Contains reports whether the point is inside the window (edges inclusive).
func (w Window) Contains(p Point) bool {
	return p.X >= w.Left && p.X <= w.Right &&
		p.Y >= w.Top && p.Y <= w.Bottom
}
