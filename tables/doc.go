// Package tables reconstructs the line item table of a document from
// clustered token rows, without relying on gridlines or cell borders.
//
// Reconstruction runs in two stages. The [AnchorLocator] scans rows for the
// table header: the row with the most distinct canonical column label
// matches, which must include both a description-class and an amount-class
// label. The matched label centers become frozen column anchor x-coordinates;
// anchors for columns the header does not name are interpolated between the
// description and amount positions.
//
// The [Assigner] then walks the rows strictly below the header, assigns each
// token to its nearest anchor within a horizontal tolerance, and assembles
// [model.LineItem] values. Unit-of-measure words are routed by content
// rather than position, subtotal and bank transfer rows are excluded by
// vocabulary, and a single missing numeric field per row is derived from the
// other two.
//
// Both stages are driven by [AnchorConfig] and [AssignConfig]; the default
// vocabularies target Japanese invoices.
package tables
