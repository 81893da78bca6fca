package sprite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.jacobcolvin.com/thumbsprite/grid"
	"go.jacobcolvin.com/thumbsprite/media"
	"go.jacobcolvin.com/thumbsprite/vtt"
)

// Defaults used by [NewGenerator].
const (
	DefaultInterval     = 45.0
	DefaultWidth        = 100
	DefaultAdjustFactor = -0.5
	DefaultSkipFirst    = true
)

// Tools holds the external collaborators of a [Generator].
type Tools struct {
	Producer  media.Producer
	Inspector media.Inspector
	Composer  media.Composer
}

// Generator produces a sprite and cue track for a video.
//
// Create instances with [NewGenerator].
type Generator struct {
	tools        Tools
	logger       *slog.Logger
	observe      func(Stage)
	timestamps   vtt.TimestampFormat
	outputDir    string
	interval     float64
	adjustFactor float64
	timeout      time.Duration
	width        int
	skipFirst    bool
}

// Option configures a [Generator].
type Option func(*Generator)

// WithInterval sets the sampling interval in seconds.
func WithInterval(seconds float64) Option {
	return func(g *Generator) {
		g.interval = seconds
	}
}

// WithWidth sets the thumbnail width in pixels.
func WithWidth(px int) Option {
	return func(g *Generator) {
		g.width = px
	}
}

// WithAdjustFactor sets the time-sync adjustment as a multiple of the
// interval. The default of -0.5 centers each cue on its frame.
func WithAdjustFactor(f float64) Option {
	return func(g *Generator) {
		g.adjustFactor = f
	}
}

// WithSkipFirst sets whether the frame at time zero is discarded.
func WithSkipFirst(skip bool) Option {
	return func(g *Generator) {
		g.skipFirst = skip
	}
}

// WithTimestamps sets the cue timestamp format.
func WithTimestamps(f vtt.TimestampFormat) Option {
	return func(g *Generator) {
		g.timestamps = f
	}
}

// WithOutputDir writes outputs to dir instead of the video's directory.
func WithOutputDir(dir string) Option {
	return func(g *Generator) {
		g.outputDir = dir
	}
}

// WithTimeout bounds the whole pipeline. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		g.timeout = d
	}
}

// WithLogger sets the logger. The default discards all records.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithObserver registers fn to be called as each [Stage] starts.
func WithObserver(fn func(Stage)) Option {
	return func(g *Generator) {
		if fn != nil {
			g.observe = fn
		}
	}
}

// NewGenerator creates a [Generator] using tools and the given options.
func NewGenerator(tools Tools, opts ...Option) *Generator {
	g := &Generator{
		tools:        tools,
		interval:     DefaultInterval,
		width:        DefaultWidth,
		adjustFactor: DefaultAdjustFactor,
		skipFirst:    DefaultSkipFirst,
		timestamps:   vtt.TimestampLegacy,
		logger:       slog.New(slog.DiscardHandler),
		observe:      func(Stage) {},
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Result describes a completed run.
type Result struct {
	Document *vtt.Document
	Video    string
	Sprite   string
	Cues     string
	Layout   grid.Layout
}

// Adjust returns the time-sync adjustment in seconds.
func (g *Generator) Adjust() float64 {
	return g.interval * g.adjustFactor
}

// OutputPaths returns the sprite and cue file paths for video.
func (g *Generator) OutputPaths(video string) (string, string) {
	dir := g.outputDir
	if dir == "" {
		dir = filepath.Dir(video)
	}

	base := filepath.Base(video)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	return filepath.Join(dir, base+".jpg"), filepath.Join(dir, base+".vtt")
}

// Generate runs the pipeline for video and writes "<name>.jpg" and
// "<name>.vtt" next to it (or to the configured output directory).
func (g *Generator) Generate(ctx context.Context, video string) (res *Result, err error) {
	err = g.validate()
	if err != nil {
		return nil, err
	}

	video, err = resolveInput(video)
	if err != nil {
		return nil, err
	}

	spritePath, cuePath := g.OutputPaths(video)
	if spritePath == video || cuePath == video {
		return nil, fmt.Errorf("%w: output would overwrite input %s", ErrUsage, video)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	g.logger.Info("processing video",
		slog.String("video", video),
		slog.Float64("interval", g.interval),
		slog.Int("width", g.width),
	)

	outDir := filepath.Dir(spritePath)

	err = os.MkdirAll(outDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("%w: creating output directory: %w", ErrWorkspace, err)
	}

	ws, err := os.MkdirTemp(outDir, ".thumbsprite-*")
	if err != nil {
		return nil, fmt.Errorf("%w: creating scratch directory: %w", ErrWorkspace, err)
	}

	g.logger.Debug("created workspace", slog.String("path", ws))

	defer func() {
		rmErr := os.RemoveAll(ws)
		if rmErr == nil {
			return
		}

		g.logger.Warn("removing workspace", slog.String("path", ws), slog.Any("error", rmErr))

		if err == nil {
			res = nil
			err = fmt.Errorf("%w: removing scratch directory: %w", ErrWorkspace, rmErr)
		}
	}()

	frameDir := filepath.Join(ws, "frames")

	err = os.Mkdir(frameDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWorkspace, err)
	}

	g.observe(StageExtract)

	frames, err := g.tools.Producer.Extract(ctx, video, media.ExtractOptions{
		Dir:       frameDir,
		Interval:  g.interval,
		Width:     g.width,
		SkipFirst: g.skipFirst,
	})
	if err != nil {
		return nil, &StageError{Stage: StageExtract, Err: err}
	}

	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: %s produced no frames", ErrNoSamples, filepath.Base(video))
	}

	g.logger.Info("sampled frames", slog.Int("count", len(frames)))

	g.observe(StageInspect)

	geometry, err := g.tools.Inspector.Inspect(ctx, frames[0])
	if err != nil {
		return nil, &StageError{Stage: StageInspect, Err: err}
	}

	cell, err := grid.ParseGeometry(geometry)
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", filepath.Base(frames[0]), err)
	}

	layout, err := grid.NewLayout(len(frames), cell)
	if err != nil {
		return nil, err
	}

	g.logger.Info("sprite layout",
		slog.String("cell", geometry),
		slog.String("tile", layout.Tile()),
	)

	g.observe(StageCompose)

	stagedSprite := filepath.Join(ws, filepath.Base(spritePath))

	composed, err := g.tools.Composer.Compose(ctx, frames, geometry, layout.Columns, stagedSprite)
	if err != nil {
		return nil, &StageError{Stage: StageCompose, Err: err}
	}

	g.observe(StageCues)

	doc, err := vtt.Build(vtt.Params{
		Sprite:     filepath.Base(spritePath),
		Samples:    layout.Count,
		Cell:       cell,
		Columns:    layout.Columns,
		Interval:   g.interval,
		SkipFirst:  g.skipFirst,
		Adjust:     g.Adjust(),
		Timestamps: g.timestamps,
	})
	if err != nil {
		return nil, err
	}

	stagedCues := filepath.Join(ws, filepath.Base(cuePath))

	err = os.WriteFile(stagedCues, []byte(doc.String()), 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	g.observe(StageWrite)

	err = ctx.Err()
	if err != nil {
		return nil, err
	}

	err = os.Rename(composed, spritePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	err = os.Rename(stagedCues, cuePath)
	if err != nil {
		rmErr := os.Remove(spritePath)
		if rmErr != nil {
			g.logger.Warn("removing sprite", slog.String("path", spritePath), slog.Any("error", rmErr))
		}

		return nil, fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	g.logger.Info("wrote outputs",
		slog.String("sprite", spritePath),
		slog.String("cues", cuePath),
		slog.Int("cues_count", len(doc.Cues)),
	)

	return &Result{
		Video:    video,
		Sprite:   spritePath,
		Cues:     cuePath,
		Layout:   layout,
		Document: doc,
	}, nil
}

func (g *Generator) validate() error {
	if g.tools.Producer == nil || g.tools.Inspector == nil || g.tools.Composer == nil {
		return fmt.Errorf("%w: missing media tools", ErrUsage)
	}

	if g.interval <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %v", ErrUsage, g.interval)
	}

	if g.width < 0 {
		return fmt.Errorf("%w: width must not be negative, got %d", ErrUsage, g.width)
	}

	_, err := vtt.ParseTimestampFormat(string(g.timestamps))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	return nil
}

func resolveInput(video string) (string, error) {
	if video == "" {
		return "", fmt.Errorf("%w: missing video path", ErrUsage)
	}

	abs, err := filepath.Abs(video)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUsage, err)
	}

	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrInputNotFound, abs)
	}

	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInputNotFound, err)
	}

	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a regular file", ErrInputNotFound, abs)
	}

	return abs, nil
}
