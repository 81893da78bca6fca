package sprite

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/thumbsprite/media"
	"go.jacobcolvin.com/thumbsprite/vtt"
)

// Backend names the implementation of the image operations.
type Backend string

const (
	// BackendImageMagick uses the identify, mogrify and montage binaries.
	BackendImageMagick Backend = "imagemagick"
	// BackendNative uses the pure Go implementation.
	BackendNative Backend = "native"
	// BackendImaging uses the imaging library with Lanczos resampling.
	BackendImaging Backend = "imaging"
)

// GetAllBackendStrings returns the accepted backend names.
func GetAllBackendStrings() []string {
	return []string{string(BackendImageMagick), string(BackendNative), string(BackendImaging)}
}

// Flags holds CLI flag names for generator configuration, allowing callers
// to customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Interval     string
	Width        string
	AdjustFactor string
	SkipFirst    string
	Backend      string
	Timestamps   string
	OutputDir    string
	Timeout      string
	FFmpeg       string
	Quality      string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags:        f,
		Interval:     DefaultInterval,
		Width:        DefaultWidth,
		AdjustFactor: DefaultAdjustFactor,
		SkipFirst:    DefaultSkipFirst,
		Backend:      string(BackendImageMagick),
		Timestamps:   string(vtt.TimestampLegacy),
		FFmpeg:       "ffmpeg",
		Quality:      media.DefaultJPEGQuality,
	}
}

// Config holds CLI flag values for generator configuration.
//
// Create instances with [NewConfig], register CLI flags with
// [Config.RegisterFlags] and optionally load a YAML file with
// [Config.LoadFile]. Use [Config.NewGenerator] to create a [Generator].
type Config struct {
	Flags        Flags
	Backend      string
	Timestamps   string
	OutputDir    string
	FFmpeg       string
	Interval     float64
	AdjustFactor float64
	Timeout      time.Duration
	Width        int
	Quality      int
	SkipFirst    bool
}

// NewConfig returns a new [Config] with default flag names and values.
func NewConfig() *Config {
	f := Flags{
		Interval:     "interval",
		Width:        "width",
		AdjustFactor: "adjust-factor",
		SkipFirst:    "skip-first",
		Backend:      "backend",
		Timestamps:   "timestamps",
		OutputDir:    "output-dir",
		Timeout:      "timeout",
		FFmpeg:       "ffmpeg",
		Quality:      "quality",
	}

	return f.NewConfig()
}

// RegisterFlags adds generator flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.Float64VarP(&c.Interval, c.Flags.Interval, "i", c.Interval,
		"seconds between sampled frames")
	flags.IntVarP(&c.Width, c.Flags.Width, "w", c.Width,
		"thumbnail width in pixels")
	flags.Float64Var(&c.AdjustFactor, c.Flags.AdjustFactor, c.AdjustFactor,
		"time-sync adjustment as a multiple of the interval")
	flags.BoolVar(&c.SkipFirst, c.Flags.SkipFirst, c.SkipFirst,
		"discard the frame sampled at time zero")
	flags.StringVar(&c.Backend, c.Flags.Backend, c.Backend,
		fmt.Sprintf("image backend, one of: %s", GetAllBackendStrings()))
	flags.StringVar(&c.Timestamps, c.Flags.Timestamps, c.Timestamps,
		fmt.Sprintf("cue timestamp format, one of: %s", vtt.GetAllTimestampFormatStrings()))
	flags.StringVarP(&c.OutputDir, c.Flags.OutputDir, "o", c.OutputDir,
		"output directory (default: the video's directory)")
	flags.DurationVar(&c.Timeout, c.Flags.Timeout, c.Timeout,
		"abort if the pipeline runs longer than this (0 = no limit)")
	flags.StringVar(&c.FFmpeg, c.Flags.FFmpeg, c.FFmpeg,
		"ffmpeg binary")
	flags.IntVar(&c.Quality, c.Flags.Quality, c.Quality,
		"JPEG quality for the native and imaging backends (1-100)")
}

// RegisterCompletions registers shell completions for generator flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	fixed := map[string][]string{
		c.Flags.Backend:    GetAllBackendStrings(),
		c.Flags.Timestamps: vtt.GetAllTimestampFormatStrings(),
	}

	for flag, values := range fixed {
		err := cmd.RegisterFlagCompletionFunc(flag,
			cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, flag := range []string{
		c.Flags.Interval, c.Flags.Width, c.Flags.AdjustFactor,
		c.Flags.Timeout, c.Flags.Quality,
	} {
		err := cmd.RegisterFlagCompletionFunc(flag, noFileComp)
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	err := cmd.RegisterFlagCompletionFunc(c.Flags.OutputDir,
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveFilterDirs
		})
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.OutputDir, err)
	}

	return nil
}

// NewTools returns the media collaborators for the configured backend.
func (c *Config) NewTools(logger *slog.Logger) (Tools, error) {
	opts := []media.Option{media.WithLogger(logger)}

	var (
		inspector media.Inspector
		composer  media.Composer
		resizer   media.Resizer
	)

	switch Backend(strings.ToLower(c.Backend)) {
	case BackendImageMagick:
		im := media.NewImageMagick(opts...)
		inspector, composer, resizer = im, im, im

	case BackendNative:
		n := media.NewNative(c.Quality, opts...)
		inspector, composer, resizer = n, n, n

	case BackendImaging:
		m := media.NewImaging(c.Quality, opts...)
		inspector, composer, resizer = m, m, m

	default:
		return Tools{}, fmt.Errorf("%w: unknown backend %q", ErrUsage, c.Backend)
	}

	return Tools{
		Producer:  media.NewFFmpeg(c.FFmpeg, resizer, opts...),
		Inspector: inspector,
		Composer:  composer,
	}, nil
}

// NewGenerator creates a [Generator] using this [Config]. Extra options are
// applied after the configured ones.
func (c *Config) NewGenerator(logger *slog.Logger, extra ...Option) (*Generator, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	timestamps, err := vtt.ParseTimestampFormat(c.Timestamps)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	if c.Interval <= 0 {
		return nil, fmt.Errorf("%w: --%s must be positive, got %v", ErrUsage, c.Flags.Interval, c.Interval)
	}

	if c.Width <= 0 {
		return nil, fmt.Errorf("%w: --%s must be positive, got %d", ErrUsage, c.Flags.Width, c.Width)
	}

	if c.Timeout < 0 {
		return nil, fmt.Errorf("%w: --%s must not be negative", ErrUsage, c.Flags.Timeout)
	}

	tools, err := c.NewTools(logger)
	if err != nil {
		return nil, err
	}

	opts := []Option{
		WithInterval(c.Interval),
		WithWidth(c.Width),
		WithAdjustFactor(c.AdjustFactor),
		WithSkipFirst(c.SkipFirst),
		WithTimestamps(timestamps),
		WithOutputDir(c.OutputDir),
		WithTimeout(c.Timeout),
		WithLogger(logger),
	}

	return NewGenerator(tools, append(opts, extra...)...), nil
}
