package preview_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/thumbsprite/grid"
	"go.jacobcolvin.com/thumbsprite/preview"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

// sprite returns a 2x1 grid of w x h cells, red then blue.
func sprite(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2*w, h))

	for y := range h {
		for x := range 2 * w {
			c := red
			if x >= w {
				c = blue
			}

			img.SetRGBA(x, y, c)
		}
	}

	return img
}

func TestTile(t *testing.T) {
	t.Parallel()

	src := sprite(4, 2)

	tcs := map[string]struct {
		rect    grid.Rect
		want    color.RGBA
		wantErr bool
	}{
		"first cell":   {rect: grid.Rect{X: 0, Y: 0, W: 4, H: 2}, want: red},
		"second cell":  {rect: grid.Rect{X: 4, Y: 0, W: 4, H: 2}, want: blue},
		"out of range": {rect: grid.Rect{X: 6, Y: 0, W: 4, H: 2}, wantErr: true},
		"empty":        {rect: grid.Rect{X: 0, Y: 0, W: 0, H: 2}, wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tile, err := preview.Tile(src, tc.rect)
			if tc.wantErr {
				require.ErrorIs(t, err, preview.ErrOutOfBounds)

				return
			}

			require.NoError(t, err)

			b := tile.Bounds()
			assert.Equal(t, tc.rect.W, b.Dx())
			assert.Equal(t, tc.rect.H, b.Dy())
			assert.Equal(t, tc.want, color.RGBAModel.Convert(tile.At(b.Min.X, b.Min.Y)))
		})
	}
}

func TestRows(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		w, h, cols int
		want       int
	}{
		"16:9 at 40 cols": {w: 160, h: 90, cols: 40, want: 12},
		"square":          {w: 10, h: 10, cols: 10, want: 5},
		"odd pixel rows":  {w: 10, h: 3, cols: 10, want: 2},
		"zero cols":       {w: 10, h: 10, cols: 0, want: 0},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			img := image.NewRGBA(image.Rect(0, 0, tc.w, tc.h))
			assert.Equal(t, tc.want, preview.Rows(img, tc.cols))
		})
	}
}

func TestFitAndRender(t *testing.T) {
	t.Parallel()

	tile, err := preview.Tile(sprite(8, 8), grid.Rect{X: 8, Y: 0, W: 8, H: 8})
	require.NoError(t, err)

	fitted := preview.Fit(tile, 4, 2)
	assert.Equal(t, image.Rect(0, 0, 4, 4), fitted.Bounds())
	assert.Equal(t, blue, fitted.RGBAAt(1, 1))

	var buf bytes.Buffer

	require.NoError(t, preview.Render(&buf, fitted))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	for _, line := range lines {
		assert.Equal(t, 4, strings.Count(line, "▀"))
		assert.True(t, strings.HasSuffix(line, "\033[0m"))
	}

	assert.Contains(t, lines[0], "\033[38;2;0;0;255m\033[48;2;0;0;255m▀")
}

func TestFitLetterbox(t *testing.T) {
	t.Parallel()

	wide := image.NewRGBA(image.Rect(0, 0, 8, 2))
	for x := range 8 {
		wide.SetRGBA(x, 0, red)
		wide.SetRGBA(x, 1, red)
	}

	fitted := preview.Fit(wide, 8, 4)
	assert.Equal(t, color.RGBA{}, fitted.RGBAAt(0, 0), "padding is black")
	assert.Equal(t, red, fitted.RGBAAt(4, 4))
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sprite.png")

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, sprite(3, 3)))
	require.NoError(t, f.Close())

	img, err := preview.Load(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 3), img.Bounds())

	_, err = preview.Load(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
}
