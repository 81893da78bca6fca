package grid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/thumbsprite/grid"
)

func TestDimension(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		count int
		want  int
	}{
		"one":              {count: 1, want: 1},
		"two":              {count: 2, want: 2},
		"perfect square":   {count: 4, want: 2},
		"just over square": {count: 5, want: 3},
		"nine":             {count: 9, want: 3},
		"ten":              {count: 10, want: 4},
		"large square":     {count: 1 << 40, want: 1 << 20},
		"large over":       {count: 1<<40 + 1, want: 1<<20 + 1},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := grid.Dimension(tc.count)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDimensionInvalid(t *testing.T) {
	t.Parallel()

	for _, count := range []int{0, -1, -100} {
		_, err := grid.Dimension(count)
		require.ErrorIs(t, err, grid.ErrInvalidInput)
	}
}

func TestDimensionIsMinimal(t *testing.T) {
	t.Parallel()

	for count := 1; count <= 2000; count++ {
		cols, err := grid.Dimension(count)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, cols*cols, count, "count %d", count)
		assert.Less(t, (cols-1)*(cols-1), count, "count %d", count)
	}
}

func TestCellRect(t *testing.T) {
	t.Parallel()

	cell := grid.Cell{Width: 100, Height: 56}

	want := []grid.Rect{
		{X: 0, Y: 0, W: 100, H: 56},
		{X: 100, Y: 0, W: 100, H: 56},
		{X: 0, Y: 56, W: 100, H: 56},
		{X: 100, Y: 56, W: 100, H: 56},
	}

	for i, w := range want {
		assert.Equal(t, w, grid.CellRect(i, 2, cell), "index %d", i)
	}
}

func TestCellRectWithinBounds(t *testing.T) {
	t.Parallel()

	cell := grid.Cell{Width: 160, Height: 90}

	for count := 1; count <= 200; count++ {
		layout, err := grid.NewLayout(count, cell)
		require.NoError(t, err)

		for i := range count {
			r := layout.Rect(i)
			assert.GreaterOrEqual(t, r.X, 0)
			assert.GreaterOrEqual(t, r.Y, 0)
			assert.LessOrEqual(t, r.X+r.W, layout.Width(), "count %d index %d", count, i)
			assert.LessOrEqual(t, r.Y+r.H, layout.Height(), "count %d index %d", count, i)
		}
	}
}

func TestLayout(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		count      int
		wantCols   int
		wantRows   int
		wantWidth  int
		wantHeight int
		wantTile   string
	}{
		"single": {
			count: 1, wantCols: 1, wantRows: 1,
			wantWidth: 100, wantHeight: 56, wantTile: "1x1",
		},
		"remainder row": {
			count: 7, wantCols: 3, wantRows: 3,
			wantWidth: 300, wantHeight: 168, wantTile: "3x3",
		},
		"short last row count": {
			count: 5, wantCols: 3, wantRows: 2,
			wantWidth: 300, wantHeight: 112, wantTile: "3x3",
		},
		"full": {
			count: 16, wantCols: 4, wantRows: 4,
			wantWidth: 400, wantHeight: 224, wantTile: "4x4",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			l, err := grid.NewLayout(tc.count, grid.Cell{Width: 100, Height: 56})
			require.NoError(t, err)
			assert.Equal(t, tc.wantCols, l.Columns)
			assert.Equal(t, tc.wantRows, l.Rows())
			assert.Equal(t, tc.wantWidth, l.Width())
			assert.Equal(t, tc.wantHeight, l.Height())
			assert.Equal(t, tc.wantTile, l.Tile())
		})
	}
}

func TestNewLayoutInvalid(t *testing.T) {
	t.Parallel()

	_, err := grid.NewLayout(0, grid.Cell{Width: 1, Height: 1})
	require.ErrorIs(t, err, grid.ErrInvalidInput)

	_, err = grid.NewLayout(3, grid.Cell{Width: 0, Height: 1})
	require.ErrorIs(t, err, grid.ErrInvalidInput)
}

func TestParseGeometry(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		want    grid.Cell
		wantErr bool
	}{
		"identify output": {
			input: "100x56+0+0",
			want:  grid.Cell{Width: 100, Height: 56},
		},
		"non-zero offsets": {
			input: "4200x66+12+3",
			want:  grid.Cell{Width: 4200, Height: 66},
		},
		"surrounding whitespace": {
			input: "  160x90+0+0 \n",
			want:  grid.Cell{Width: 160, Height: 90},
		},
		"garbage": {
			input:   "abc",
			wantErr: true,
		},
		"empty": {
			input:   "",
			wantErr: true,
		},
		"missing offset": {
			input:   "100x56",
			wantErr: true,
		},
		"missing x": {
			input:   "100+0+0",
			wantErr: true,
		},
		"zero width": {
			input:   "0x56+0+0",
			wantErr: true,
		},
		"negative height": {
			input:   "100x-5+0+0",
			wantErr: true,
		},
		"non-numeric": {
			input:   "wxh+0+0",
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := grid.ParseGeometry(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, grid.ErrMalformedGeometry)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCellString(t *testing.T) {
	t.Parallel()

	cell := grid.Cell{Width: 100, Height: 56}
	assert.Equal(t, "100x56+0+0", cell.String())

	parsed, err := grid.ParseGeometry(cell.String())
	require.NoError(t, err)
	assert.Equal(t, cell, parsed)
}

func TestRectString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "100,56,100,56", grid.Rect{X: 100, Y: 56, W: 100, H: 56}.String())
}
