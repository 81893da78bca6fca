// Package grid describes the square layout of a thumbnail sprite.
//
// A sprite holding N thumbnails is a grid of [Dimension] columns and the same
// number of rows, filled left-to-right, top-to-bottom. Every cell has the
// same pixel size, described by a [Cell] that is usually obtained from an
// image tool's geometry output with [ParseGeometry]:
//
//	cell, err := grid.ParseGeometry("100x56+0+0")
//	cols, err := grid.Dimension(len(frames))
//	rect := grid.CellRect(3, cols, cell) // {X: 100, Y: 56, W: 100, H: 56}
//
// When N is not a perfect square, the final row holds fewer than Columns
// thumbnails and the remaining cells stay empty.
package grid
