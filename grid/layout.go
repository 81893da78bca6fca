package grid

import "fmt"

// Layout is the resolved geometry of a sprite holding Count cells.
//
// Create instances with [NewLayout].
type Layout struct {
	Cell    Cell
	Columns int
	Count   int
}

// NewLayout returns the [Layout] for count cells of the given size.
func NewLayout(count int, cell Cell) (Layout, error) {
	err := cell.Validate()
	if err != nil {
		return Layout{}, err
	}

	cols, err := Dimension(count)
	if err != nil {
		return Layout{}, err
	}

	return Layout{Cell: cell, Columns: cols, Count: count}, nil
}

// Rows returns the number of rows that hold at least one cell. It may be
// less than Columns, e.g. 5 cells in a 3x3 grid occupy 2 rows.
func (l Layout) Rows() int {
	if l.Columns <= 0 {
		return 0
	}

	return (l.Count + l.Columns - 1) / l.Columns
}

// Width returns the sprite width in pixels.
func (l Layout) Width() int {
	return l.Columns * l.Cell.Width
}

// Height returns the height of the populated rows in pixels.
func (l Layout) Height() int {
	return l.Rows() * l.Cell.Height
}

// Rect returns the rectangle of the i-th cell.
func (l Layout) Rect(i int) Rect {
	return CellRect(i, l.Columns, l.Cell)
}

// Tile returns the "CxR" tile argument for montage-style composers, which
// always reserve a square grid.
func (l Layout) Tile() string {
	return fmt.Sprintf("%dx%d", l.Columns, l.Columns)
}
