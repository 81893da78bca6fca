package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
)

// mogrifyBatch bounds the number of files passed to a single mogrify call to
// stay clear of argument length limits.
const mogrifyBatch = 256

// ImageMagick implements [Inspector], [Resizer] and [Composer] with the
// identify, mogrify and montage binaries.
//
// Create instances with [NewImageMagick].
type ImageMagick struct {
	options
}

// NewImageMagick creates an [ImageMagick].
func NewImageMagick(opts ...Option) *ImageMagick {
	return &ImageMagick{options: newOptions(opts)}
}

// Inspect returns the page geometry of image as reported by identify, e.g.
// "100x56+0+0".
func (m *ImageMagick) Inspect(ctx context.Context, image string) (string, error) {
	out, err := m.run(ctx, "identify", "-format", "%g - %f\n", image)
	if err != nil {
		return "", fmt.Errorf("identifying %s: %w", image, err)
	}

	line, _, _ := strings.Cut(string(out), "\n")

	// Output is "<geometry> - <filename>".
	geometry, _, _ := strings.Cut(line, " - ")

	geometry = strings.TrimSpace(geometry)
	if geometry == "" {
		return "", fmt.Errorf("%w: identify printed no geometry for %s", ErrNoOutput, image)
	}

	return geometry, nil
}

// Resize scales images in place to width pixels wide.
func (m *ImageMagick) Resize(ctx context.Context, images []string, width int) error {
	if width <= 0 {
		return fmt.Errorf("%w: width must be positive, got %d", ErrInvalidArgument, width)
	}

	geometry := strconv.Itoa(width) + "x"

	for batch := range slices.Chunk(images, mogrifyBatch) {
		args := append([]string{"-geometry", geometry}, batch...)

		_, err := m.run(ctx, "mogrify", args...)
		if err != nil {
			return fmt.Errorf("resizing frames: %w", err)
		}
	}

	m.logger.Debug("resized frames",
		slog.Int("count", len(images)),
		slog.Int("width", width),
	)

	return nil
}

// Compose tiles images into a columns x columns montage at dst.
func (m *ImageMagick) Compose(ctx context.Context, images []string, geometry string, columns int, dst string) (string, error) {
	if len(images) == 0 {
		return "", fmt.Errorf("%w: no images to compose", ErrInvalidArgument)
	}

	if columns <= 0 {
		return "", fmt.Errorf("%w: columns must be positive, got %d", ErrInvalidArgument, columns)
	}

	tile := strconv.Itoa(columns) + "x" + strconv.Itoa(columns)

	args := make([]string, 0, len(images)+5)
	args = append(args, images...)
	args = append(args, "-tile", tile, "-geometry", geometry, dst)

	_, err := m.run(ctx, "montage", args...)
	if err != nil {
		return "", fmt.Errorf("composing sprite: %w", err)
	}

	info, err := os.Stat(dst)
	if err != nil || info.Size() == 0 {
		return "", fmt.Errorf("%w: montage did not write %s", ErrNoOutput, dst)
	}

	m.logger.Debug("composed sprite",
		slog.String("path", dst),
		slog.String("tile", tile),
		slog.String("geometry", geometry),
	)

	return dst, nil
}
