package media

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// framePattern names sampled frames. The image2 muxer widens the number past
// five digits, so frames are ordered by [frameIndex] rather than by name.
const framePattern = "frame%05d.jpg"

// FFmpeg samples frames with the ffmpeg binary and resizes them with a
// [Resizer].
//
// Create instances with [NewFFmpeg].
type FFmpeg struct {
	resizer Resizer
	bin     string
	options
}

// NewFFmpeg creates an [FFmpeg] that invokes bin (usually "ffmpeg"). A nil
// resizer leaves frames at their sampled size.
func NewFFmpeg(bin string, resizer Resizer, opts ...Option) *FFmpeg {
	if bin == "" {
		bin = "ffmpeg"
	}

	return &FFmpeg{
		bin:     bin,
		resizer: resizer,
		options: newOptions(opts),
	}
}

// Extract samples one frame every opts.Interval seconds into opts.Dir.
func (f *FFmpeg) Extract(ctx context.Context, video string, opts ExtractOptions) ([]string, error) {
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive, got %v", ErrInvalidArgument, opts.Interval)
	}

	if opts.Dir == "" {
		return nil, fmt.Errorf("%w: empty frame directory", ErrInvalidArgument)
	}

	rate := "fps=1/" + strconv.FormatFloat(opts.Interval, 'f', -1, 64)

	f.logger.Debug("sampling frames",
		slog.String("video", video),
		slog.String("filter", rate),
		slog.String("dir", opts.Dir),
	)

	_, err := f.run(ctx, f.bin,
		"-nostdin",
		"-i", video,
		"-f", "image2",
		"-bt", "20M",
		"-vf", rate,
		"-aspect", "16:9",
		filepath.Join(opts.Dir, framePattern),
	)
	if err != nil {
		return nil, fmt.Errorf("sampling frames: %w", err)
	}

	frames, err := filepath.Glob(filepath.Join(opts.Dir, "frame*.jpg"))
	if err != nil {
		return nil, fmt.Errorf("listing frames: %w", err)
	}

	sortFrames(frames)

	if opts.SkipFirst && len(frames) > 0 {
		err := os.Remove(frames[0])
		if err != nil {
			return nil, fmt.Errorf("discarding first frame: %w", err)
		}

		frames = frames[1:]
	}

	f.logger.Debug("sampled frames", slog.Int("count", len(frames)))

	if len(frames) == 0 || opts.Width <= 0 || f.resizer == nil {
		return frames, nil
	}

	err = f.resizer.Resize(ctx, frames, opts.Width)
	if err != nil {
		return nil, fmt.Errorf("resizing frames: %w", err)
	}

	return frames, nil
}

// sortFrames orders frames by capture index. Names without an index sort
// after indexed ones, by name.
func sortFrames(frames []string) {
	slices.SortFunc(frames, func(a, b string) int {
		ia, oka := frameIndex(a)
		ib, okb := frameIndex(b)

		switch {
		case oka && okb && ia != ib:
			return cmp.Compare(ia, ib)
		case oka != okb:
			if oka {
				return -1
			}

			return 1
		}

		return strings.Compare(a, b)
	})
}

// frameIndex returns the number in a "frameN.jpg" path.
func frameIndex(path string) (int, bool) {
	name := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), "frame"), ".jpg")

	n, err := strconv.Atoi(name)
	if err != nil || n < 0 {
		return 0, false
	}

	return n, true
}
