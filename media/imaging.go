package media

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/disintegration/imaging"

	"go.jacobcolvin.com/thumbsprite/grid"
)

// Imaging implements [Inspector], [Resizer] and [Composer] with the
// [imaging] package, resampling with a Lanczos filter. Output format follows
// the destination extension.
//
// Create instances with [NewImaging].
//
// [imaging]: https://github.com/disintegration/imaging
type Imaging struct {
	filter imaging.ResampleFilter
	options
	quality int
}

// NewImaging creates an [Imaging] writing JPEG output at the given quality
// (1-100). Out of range values select [DefaultJPEGQuality].
func NewImaging(quality int, opts ...Option) *Imaging {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	return &Imaging{
		filter:  imaging.Lanczos,
		quality: quality,
		options: newOptions(opts),
	}
}

// Inspect returns the size of image as "WxH+0+0".
func (m *Imaging) Inspect(_ context.Context, image string) (string, error) {
	cfg, err := decodeConfig(image)
	if err != nil {
		return "", err
	}

	return grid.Cell{Width: cfg.Width, Height: cfg.Height}.String(), nil
}

// Resize scales each image in place to width pixels wide.
func (m *Imaging) Resize(ctx context.Context, images []string, width int) error {
	if width <= 0 {
		return fmt.Errorf("%w: width must be positive, got %d", ErrInvalidArgument, width)
	}

	for _, path := range images {
		err := ctx.Err()
		if err != nil {
			return err
		}

		src, err := imaging.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}

		if src.Bounds().Dx() == width {
			continue
		}

		err = m.save(imaging.Resize(src, width, 0, m.filter), path)
		if err != nil {
			return err
		}
	}

	m.logger.Debug("resized frames",
		slog.Int("count", len(images)),
		slog.Int("width", width),
	)

	return nil
}

// Compose pastes images row-major onto a white canvas with columns cells per
// row and writes it to dst. Images whose size differs from the cell are
// resized to fill it.
func (m *Imaging) Compose(ctx context.Context, images []string, geometry string, columns int, dst string) (string, error) {
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
	canvas := imaging.New(layout.Width(), layout.Height(), color.White)

	for i, path := range images {
		err := ctx.Err()
		if err != nil {
			return "", err
		}

		src, err := imaging.Open(path)
		if err != nil {
			return "", fmt.Errorf("opening %s: %w", path, err)
		}

		b := src.Bounds()
		if b.Dx() != cell.Width || b.Dy() != cell.Height {
			src = imaging.Resize(src, cell.Width, cell.Height, m.filter)
		}

		r := layout.Rect(i)
		canvas = imaging.Paste(canvas, src, image.Pt(r.X, r.Y))
	}

	err = m.save(canvas, dst)
	if err != nil {
		return "", err
	}

	m.logger.Debug("composed sprite",
		slog.String("path", dst),
		slog.Int("columns", columns),
		slog.String("geometry", geometry),
	)

	return dst, nil
}

func (m *Imaging) save(img image.Image, path string) error {
	err := imaging.Save(img, path, imaging.JPEGQuality(m.quality))
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
