package grid

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidInput indicates a non-positive count, size or column number.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMalformedGeometry indicates a geometry string that is not in
	// "WxH+X+Y" form.
	ErrMalformedGeometry = errors.New("malformed geometry")
)

// Cell is the pixel size of one grid cell.
type Cell struct {
	Width  int
	Height int
}

// String renders c in the "WxH+0+0" form accepted by image tools.
func (c Cell) String() string {
	return fmt.Sprintf("%dx%d+0+0", c.Width, c.Height)
}

// Validate returns [ErrInvalidInput] unless both sides are positive.
func (c Cell) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: cell size %dx%d", ErrInvalidInput, c.Width, c.Height)
	}

	return nil
}

// Rect is a rectangle in sprite pixel space.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// String renders r as "X,Y,W,H", the media fragment form used in cue
// payloads.
func (r Rect) String() string {
	return strconv.Itoa(r.X) + "," + strconv.Itoa(r.Y) + "," +
		strconv.Itoa(r.W) + "," + strconv.Itoa(r.H)
}

// Dimension returns the number of columns (and rows) of the smallest square
// grid that holds count cells, i.e. ceil(sqrt(count)).
func Dimension(count int) (int, error) {
	if count <= 0 {
		return 0, fmt.Errorf("%w: count must be positive, got %d", ErrInvalidInput, count)
	}

	n := int(math.Sqrt(float64(count)))

	// Float sqrt can be off by one for large counts.
	for n*n > count {
		n--
	}

	for n*n < count {
		n++
	}

	return n, nil
}

// CellRect returns the rectangle of the i-th cell (0-based, row-major) in a
// grid with the given number of columns.
func CellRect(i, columns int, cell Cell) Rect {
	row := i / columns
	col := i - row*columns

	return Rect{
		X: col * cell.Width,
		Y: row * cell.Height,
		W: cell.Width,
		H: cell.Height,
	}
}

// ParseGeometry extracts the width and height from a "WxH+X+Y" descriptor,
// as printed by ImageMagick's identify "%g" escape. The offsets must be
// present but are ignored.
func ParseGeometry(s string) (Cell, error) {
	s = strings.TrimSpace(s)

	size, _, ok := strings.Cut(s, "+")
	if !ok {
		return Cell{}, fmt.Errorf("%w: %q: missing '+' offset", ErrMalformedGeometry, s)
	}

	ws, hs, ok := strings.Cut(size, "x")
	if !ok {
		return Cell{}, fmt.Errorf("%w: %q: missing 'x' separator", ErrMalformedGeometry, s)
	}

	w, err := strconv.Atoi(ws)
	if err != nil || w <= 0 {
		return Cell{}, fmt.Errorf("%w: %q: bad width %q", ErrMalformedGeometry, s, ws)
	}

	h, err := strconv.Atoi(hs)
	if err != nil || h <= 0 {
		return Cell{}, fmt.Errorf("%w: %q: bad height %q", ErrMalformedGeometry, s, hs)
	}

	return Cell{Width: w, Height: h}, nil
}
