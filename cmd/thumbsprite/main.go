// Command thumbsprite generates a tooltip sprite sheet and a WebVTT cue track
// for a video, for use as seek-bar preview thumbnails.
//
// # Usage
//
//	thumbsprite [flags] <video>
//	thumbsprite inspect <file.vtt>
//	thumbsprite preview [--at 1m30s] <file.vtt>
//	thumbsprite config-schema
//
// The sprite and cue track are written next to the video (or to
// --output-dir) as <name>.jpg and <name>.vtt. Run with --help for flags.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"go.jacobcolvin.com/thumbsprite/grid"
	"go.jacobcolvin.com/thumbsprite/log"
	"go.jacobcolvin.com/thumbsprite/preview"
	"go.jacobcolvin.com/thumbsprite/profile"
	"go.jacobcolvin.com/thumbsprite/progress"
	"go.jacobcolvin.com/thumbsprite/sprite"
	"go.jacobcolvin.com/thumbsprite/version"
	"go.jacobcolvin.com/thumbsprite/vtt"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

// execute runs the CLI with args and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)

	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)

		if errors.Is(err, sprite.ErrUsage) && cmd != nil {
			fmt.Fprintf(stderr, "\n%s", cmd.UsageString())
		}
	}

	return sprite.ExitCode(err)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cfg := sprite.NewConfig()
	logCfg := log.NewConfig()
	profCfg := profile.NewConfig()

	var (
		configFile string
		tui        bool
	)

	rootCmd := &cobra.Command{
		Use:   "thumbsprite [flags] <video>",
		Short: "Generate seek-bar preview sprites and WebVTT cues",
		Long: `thumbsprite samples a video at a fixed interval, tiles the frames into a
square sprite sheet and writes a WebVTT track whose cues point at each tile
with a #xywh= media fragment.`,
		Version:       version.String(),
		Args:          exactArgs(1, "video path"),
		SilenceErrors: true,
		SilenceUsage:  true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if configFile == "" {
				return nil
			}

			return cfg.LoadFile(configFile, cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			session := profCfg.NewSession()

			err = session.Start()
			if err != nil {
				return err
			}

			defer func() {
				err = errors.Join(err, session.Stop())
			}()

			if tui && isTerminal(stderr) {
				return runTUI(cmd.Context(), cfg, logCfg, args[0], stdout, stderr)
			}

			logger, err := logCfg.NewLogger(stderr)
			if err != nil {
				return fmt.Errorf("%w: %w", sprite.ErrUsage, err)
			}

			return run(cmd.Context(), cfg, logger, args[0], stdout)
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", sprite.ErrUsage, err)
	})

	cfg.RegisterFlags(rootCmd.Flags())
	profCfg.RegisterFlags(rootCmd.Flags())
	logCfg.RegisterFlags(rootCmd.PersistentFlags())
	rootCmd.Flags().StringVar(&configFile, "config", "", "YAML config file; explicit flags take precedence")
	rootCmd.Flags().BoolVar(&tui, "tui", false, "show a progress view when stderr is a terminal")

	for _, register := range []func(*cobra.Command) error{
		cfg.RegisterCompletions, logCfg.RegisterCompletions, profCfg.RegisterCompletions,
	} {
		err := register(rootCmd)
		if err != nil {
			fmt.Fprintf(stderr, "register completions: %v\n", err)
		}
	}

	rootCmd.AddCommand(newInspectCmd(stdout), newPreviewCmd(stdout), newConfigSchemaCmd(stdout))

	return rootCmd
}

func run(ctx context.Context, cfg *sprite.Config, logger *slog.Logger, video string, stdout io.Writer, opts ...sprite.Option) error {
	gen, err := cfg.NewGenerator(logger, opts...)
	if err != nil {
		return err
	}

	res, err := gen.Generate(ctx, video)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "wrote %s and %s (%d cues)\n", res.Sprite, res.Cues, len(res.Document.Cues))

	return nil
}

func runTUI(
	ctx context.Context,
	cfg *sprite.Config,
	logCfg *log.Config,
	video string,
	stdout, stderr io.Writer,
) error {
	pub := log.NewPublisher()
	defer pub.Close() //nolint:errcheck // Close always returns nil.

	logger, err := logCfg.NewLogger(pub)
	if err != nil {
		return fmt.Errorf("%w: %w", sprite.ErrUsage, err)
	}

	return progress.Run(ctx, stderr, filepath.Base(video), func(ctx context.Context, r *progress.Reporter) error {
		sub := pub.Subscribe()

		forwarded := make(chan struct{})
		go func() {
			defer close(forwarded)

			for line := range sub.C() {
				r.Log(line)
			}
		}()

		err := run(ctx, cfg, logger, video, stdout, sprite.WithObserver(r.Stage))

		pub.Close() //nolint:errcheck,gosec // Close always returns nil.
		<-forwarded

		return err
	})
}

func newInspectCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.vtt>",
		Short: "Print the cues of a sprite cue track and the grid they imply",
		Args:  exactArgs(1, "cue file"),
		RunE: func(_ *cobra.Command, args []string) error {
			return inspect(args[0], stdout)
		},
	}
}

func inspect(path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", sprite.ErrInputNotFound, err)
	}
	defer f.Close() //nolint:errcheck // Read-only file.

	doc, err := vtt.Parse(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	sprites := map[string]struct{}{}
	columns, rows := 0, 0

	var cell grid.Cell

	for i, c := range doc.Cues {
		fmt.Fprintf(w, "%4d  %s --> %s  %s\n", i+1,
			vtt.FormatDuration(c.Start),
			vtt.FormatDuration(c.End),
			c.Payload())

		sprites[c.Sprite] = struct{}{}

		if i == 0 {
			cell = grid.Cell{Width: c.Rect.W, Height: c.Rect.H}
		}

		if cell.Width > 0 && cell.Height > 0 {
			columns = max(columns, c.Rect.X/cell.Width+1)
			rows = max(rows, c.Rect.Y/cell.Height+1)
		}
	}

	fmt.Fprintf(w, "\n%d cues across %d sprite(s)\n", len(doc.Cues), len(sprites))

	if len(doc.Cues) == 0 || cell.Validate() != nil {
		return nil
	}

	fmt.Fprintf(w, "grid: %d columns x %d rows of %dx%d cells (%dx%d px)\n",
		columns, rows, cell.Width, cell.Height, columns*cell.Width, rows*cell.Height)

	dim, err := grid.Dimension(len(doc.Cues))
	if err == nil && dim != columns {
		fmt.Fprintf(w, "note: %d cues imply %d columns\n", len(doc.Cues), dim)
	}

	return nil
}

func newPreviewCmd(stdout io.Writer) *cobra.Command {
	var (
		at   time.Duration
		cols int
	)

	cmd := &cobra.Command{
		Use:   "preview <file.vtt>",
		Short: "Render the sprite tiles of a cue track in the terminal",
		Long: `preview draws each cue's tile with true-color half-block characters, or only
the tile shown at --at.`,
		Args: exactArgs(1, "cue file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cols <= 0 {
				cols = terminalWidth(stdout)
			}

			var when *time.Duration
			if cmd.Flags().Changed("at") {
				when = &at
			}

			return renderPreview(args[0], when, cols, stdout)
		},
	}

	cmd.Flags().DurationVar(&at, "at", 0, "only show the tile for this playback position")
	cmd.Flags().IntVar(&cols, "cols", 0, "render width in columns (0 = terminal width, capped at 80)")

	return cmd
}

func renderPreview(path string, at *time.Duration, cols int, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", sprite.ErrInputNotFound, err)
	}
	defer f.Close() //nolint:errcheck // Read-only file.

	doc, err := vtt.Parse(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	cues := doc.Cues

	if at != nil {
		cue, ok := doc.At(*at)
		if !ok {
			return fmt.Errorf("%w: no cue at %s", sprite.ErrUsage, *at)
		}

		cues = []vtt.Cue{cue}
	}

	sprites := map[string]image.Image{}

	for _, c := range cues {
		img, ok := sprites[c.Sprite]
		if !ok {
			img, err = preview.Load(filepath.Join(filepath.Dir(path), c.Sprite))
			if err != nil {
				return fmt.Errorf("%w: %w", sprite.ErrInputNotFound, err)
			}

			sprites[c.Sprite] = img
		}

		tile, err := preview.Tile(img, c.Rect)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%s --> %s\n",
			vtt.FormatDuration(c.Start),
			vtt.FormatDuration(c.End))

		err = preview.Render(w, preview.Fit(tile, cols, preview.Rows(tile, cols)))
		if err != nil {
			return fmt.Errorf("%w: %w", sprite.ErrWriteOutput, err)
		}
	}

	return nil
}

func newConfigSchemaCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "config-schema",
		Short: "Print the JSON Schema of the YAML config file",
		Args:  exactArgs(0, ""),
		RunE: func(_ *cobra.Command, _ []string) error {
			schema, err := sprite.FileSchema()
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return fmt.Errorf("%w: %w", sprite.ErrWriteOutput, err)
			}

			_, err = fmt.Fprintf(stdout, "%s\n", out)
			if err != nil {
				return fmt.Errorf("%w: %w", sprite.ErrWriteOutput, err)
			}

			return nil
		},
	}
}

func exactArgs(n int, what string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) == n {
			return nil
		}

		if n == 0 {
			return fmt.Errorf("%w: unexpected arguments %q", sprite.ErrUsage, args)
		}

		return fmt.Errorf("%w: expected exactly %d argument (%s), got %d", sprite.ErrUsage, n, what, len(args))
	}
}

func terminalWidth(w io.Writer) int {
	const fallback = 80

	f, ok := w.(*os.File)
	if !ok {
		return fallback
	}

	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}

	return min(width, fallback)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}
