// Package preview renders sprite tiles in a true-color terminal.
//
// Each terminal cell shows two vertical pixels: the upper one as the
// foreground color and the lower one as the background color of a "▀"
// character.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // Sprite decoders.
	_ "image/png"
	"io"
	"os"
	"strings"

	"golang.org/x/image/draw"

	"go.jacobcolvin.com/thumbsprite/grid"
)

// ErrOutOfBounds indicates a tile rect outside the sprite.
var ErrOutOfBounds = errors.New("tile outside sprite bounds")

// Load decodes the sprite image at path.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // Sprite path derived from the cue file.
	if err != nil {
		return nil, fmt.Errorf("opening sprite: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only file.

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding sprite %s: %w", path, err)
	}

	return img, nil
}

// Tile returns the region r of sprite.
func Tile(sprite image.Image, r grid.Rect) (image.Image, error) {
	b := sprite.Bounds()
	rect := image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H).Add(b.Min)

	if r.W <= 0 || r.H <= 0 || !rect.In(b) {
		return nil, fmt.Errorf("%w: %s in %dx%d", ErrOutOfBounds, r, b.Dx(), b.Dy())
	}

	if sub, ok := sprite.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(rect), nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.W, r.H))
	draw.Draw(dst, dst.Bounds(), sprite, rect.Min, draw.Src)

	return dst, nil
}

// Rows returns the number of terminal rows needed to show img at cols
// columns without distortion.
func Rows(img image.Image, cols int) int {
	b := img.Bounds()
	if b.Dx() == 0 || cols <= 0 {
		return 0
	}

	px := (b.Dy()*cols + b.Dx() - 1) / b.Dx()

	return (px + 1) / 2
}

// Fit scales img to fit within cols x rows terminal cells, centered and
// padded with black.
func Fit(img image.Image, cols, rows int) *image.RGBA {
	pixW := cols
	pixH := rows * 2

	dst := image.NewRGBA(image.Rect(0, 0, pixW, pixH))

	src := img.Bounds()
	if src.Empty() || pixW == 0 || pixH == 0 {
		return dst
	}

	scale := min(float64(pixW)/float64(src.Dx()), float64(pixH)/float64(src.Dy()))

	newW := int(float64(src.Dx()) * scale)
	newH := int(float64(src.Dy()) * scale)

	offsetX := (pixW - newW) / 2
	offsetY := (pixH - newH) / 2

	draw.ApproxBiLinear.Scale(dst, image.Rect(offsetX, offsetY, offsetX+newW, offsetY+newH), img, src, draw.Over, nil)

	return dst
}

// Render writes img as ANSI half-block rows to w.
func Render(w io.Writer, img *image.RGBA) error {
	b := img.Bounds()

	var sb strings.Builder

	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top := img.RGBAAt(x, y)

			var bot color.RGBA
			if y+1 < b.Max.Y {
				bot = img.RGBAAt(x, y+1)
			}

			fmt.Fprintf(&sb, "\033[38;2;%d;%d;%dm\033[48;2;%d;%d;%dm▀", top.R, top.G, top.B, bot.R, bot.G, bot.B)
		}

		sb.WriteString("\033[0m\n")
	}

	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return fmt.Errorf("writing preview: %w", err)
	}

	return nil
}
