package media

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"go.jacobcolvin.com/thumbsprite/grid"
)

// DefaultJPEGQuality is the JPEG quality used by [Native] when none is set.
const DefaultJPEGQuality = 85

// Native implements [Inspector], [Resizer] and [Composer] in Go. It reads
// JPEG and PNG input and writes PNG for ".png" destinations and JPEG
// otherwise.
//
// Create instances with [NewNative].
type Native struct {
	scaler draw.Scaler
	options
	quality int
}

// NewNative creates a [Native] writing JPEG output at the given quality
// (1-100). Out of range values select [DefaultJPEGQuality].
func NewNative(quality int, opts ...Option) *Native {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	return &Native{
		scaler:  draw.CatmullRom,
		quality: quality,
		options: newOptions(opts),
	}
}

// Inspect returns the size of image as "WxH+0+0".
func (n *Native) Inspect(_ context.Context, image string) (string, error) {
	cfg, err := decodeConfig(image)
	if err != nil {
		return "", err
	}

	return grid.Cell{Width: cfg.Width, Height: cfg.Height}.String(), nil
}

// Resize scales each image in place to width pixels wide.
func (n *Native) Resize(ctx context.Context, images []string, width int) error {
	if width <= 0 {
		return fmt.Errorf("%w: width must be positive, got %d", ErrInvalidArgument, width)
	}

	for _, path := range images {
		err := ctx.Err()
		if err != nil {
			return err
		}

		src, err := decodeImage(path)
		if err != nil {
			return err
		}

		b := src.Bounds()
		if b.Dx() == width {
			continue
		}

		height := max((b.Dy()*width+b.Dx()/2)/b.Dx(), 1)

		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		n.scaler.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

		err = n.encode(path, dst)
		if err != nil {
			return err
		}
	}

	n.logger.Debug("resized frames",
		slog.Int("count", len(images)),
		slog.Int("width", width),
	)

	return nil
}

// Compose draws images row-major onto a white canvas with columns cells per
// row and as many rows as needed, and writes it to dst. Images whose size
// differs from the cell are scaled to fill it.
func (n *Native) Compose(ctx context.Context, images []string, geometry string, columns int, dst string) (string, error) {
	if len(images) == 0 {
		return "", fmt.Errorf("%w: no images to compose", ErrInvalidArgument)
	}

	if columns <= 0 {
		return "", fmt.Errorf("%w: columns must be positive, got %d", ErrInvalidArgument, columns)
	}

	cell, err := grid.ParseGeometry(geometry)
	if err != nil {
		return "", err
	}

	layout := grid.Layout{Cell: cell, Columns: columns, Count: len(images)}

	canvas := image.NewRGBA(image.Rect(0, 0, layout.Width(), layout.Height()))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	for i, path := range images {
		err := ctx.Err()
		if err != nil {
			return "", err
		}

		src, err := decodeImage(path)
		if err != nil {
			return "", err
		}

		r := layout.Rect(i)
		dr := image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)

		sb := src.Bounds()
		if sb.Dx() == r.W && sb.Dy() == r.H {
			draw.Draw(canvas, dr, src, sb.Min, draw.Src)
		} else {
			n.scaler.Scale(canvas, dr, src, sb, draw.Src, nil)
		}
	}

	err = n.encode(dst, canvas)
	if err != nil {
		return "", err
	}

	n.logger.Debug("composed sprite",
		slog.String("path", dst),
		slog.Int("columns", columns),
		slog.String("geometry", geometry),
	)

	return dst, nil
}

func (n *Native) encode(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".png") {
		err = png.Encode(f, img)
	} else {
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: n.quality})
	}

	closeErr := f.Close()

	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	if closeErr != nil {
		return fmt.Errorf("closing %s: %w", path, closeErr)
	}

	return nil
}

func decodeConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, fmt.Errorf("opening %s: %w", path, err)
	}

	defer f.Close() //nolint:errcheck // read-only

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Config{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	return cfg, nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	defer f.Close() //nolint:errcheck // read-only

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return img, nil
}
