package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

var (
	// ErrToolNotFound indicates that an external binary is not in PATH.
	ErrToolNotFound = errors.New("tool not found")
	// ErrToolFailed indicates that an external binary exited unsuccessfully.
	ErrToolFailed = errors.New("tool failed")
	// ErrNoOutput indicates that an operation completed without producing
	// its expected output.
	ErrNoOutput = errors.New("no output")
	// ErrInvalidArgument indicates an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ExtractOptions configures [Producer.Extract].
type ExtractOptions struct {
	// Dir receives the sampled frames. It must exist and be empty.
	Dir string
	// Interval is the time between samples, in seconds.
	Interval float64
	// Width is the target frame width in pixels. Zero keeps the source size.
	Width int
	// SkipFirst discards the frame sampled at time zero.
	SkipFirst bool
}

// Producer samples still frames from a video at a fixed interval.
type Producer interface {
	// Extract returns the sampled frame paths ordered by increasing video
	// time. An empty result is not an error.
	Extract(ctx context.Context, video string, opts ExtractOptions) ([]string, error)
}

// Inspector reports the geometry of an image in "WxH+X+Y" form.
type Inspector interface {
	Inspect(ctx context.Context, image string) (string, error)
}

// Resizer scales images in place to a fixed width, keeping aspect ratio.
type Resizer interface {
	Resize(ctx context.Context, images []string, width int) error
}

// Composer tiles images row-major into a grid with the given number of
// columns, each cell having the given "WxH+X+Y" geometry, and writes the
// result to dst. It returns the path of the written sprite.
type Composer interface {
	Compose(ctx context.Context, images []string, geometry string, columns int, dst string) (string, error)
}

// Runner executes the named binary and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner is the default [Runner]. It resolves name in PATH and runs it
// with [exec.CommandContext]. On failure the returned error carries the
// command's standard error.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrToolNotFound, name, err)
	}

	var stderr bytes.Buffer

	//nolint:gosec // name and args are built from CLI configuration, not untrusted input.
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return out, fmt.Errorf("%w: %s: %w", ErrToolFailed, name, err)
		}

		return out, fmt.Errorf("%w: %s: %w: %s", ErrToolFailed, name, err, msg)
	}

	return out, nil
}

// Option configures the tools in this package.
type Option func(*options)

type options struct {
	run    Runner
	logger *slog.Logger
}

// WithRunner sets the [Runner] used to invoke binaries.
func WithRunner(r Runner) Option {
	return func(o *options) {
		o.run = r
	}
}

// WithLogger sets the logger. The default discards all records.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		run:    ExecRunner,
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}
