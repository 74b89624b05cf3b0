// Package model provides the data types shared by the extraction pipeline.
//
// This package defines the user-facing structures produced by extraction,
// along with the geometric primitives the heuristics operate on. All pipeline
// stages ultimately consume and produce these types.
//
// # Tokens and Geometry
//
// A [Token] is a single recognized text fragment with a bounding [Quad] and a
// confidence score, exactly as the recognition engine reports it. Coordinates
// are image coordinates: the origin is the top-left corner of the page and Y
// grows downward. Axis-aligned bounds (Left, Right, Top, Bottom) are derived
// from the quad corners.
//
// A [Row] is a transient horizontal cluster of tokens built by the layout
// package; rows are rebuilt for every document and never persisted.
//
// # Results
//
// [ExtractionResult] is the sole output artifact: the scalar [HeaderFields]
// plus an ordered slice of [LineItem] values. Its JSON encoding is the stable
// wire contract with downstream consumers: unresolved scalar fields encode
// as null, and a document without a tabular section encodes line_items as an
// empty array.
package model
