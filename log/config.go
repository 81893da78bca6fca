package log

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags names the logging flags of a command. Verbose and Quiet are boolean
// shortcuts for the debug and error levels; an empty name skips the flag.
type Flags struct {
	Level   string
	Format  string
	Verbose string
	Quiet   string
}

// NewConfig creates a [Config] that registers flags under these names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags:  f,
		Level:  string(LevelInfo),
		Format: string(FormatText),
	}
}

// Config holds logging flag values.
//
// thumbsprite logs pipeline progress to stderr, or into a [Publisher] when
// the progress view owns the terminal. Both paths build their logger with
// [Config.NewLogger], so the level and format flags apply to either.
type Config struct {
	Level   string
	Format  string
	Flags   Flags
	Verbose bool
	Quiet   bool
}

// NewConfig returns a [Config] with the "log-level", "log-format",
// "verbose" (-v) and "quiet" (-q) flags, info level and text format.
func NewConfig() *Config {
	f := Flags{
		Level:   "log-level",
		Format:  "log-format",
		Verbose: "verbose",
		Quiet:   "quiet",
	}

	return f.NewConfig()
}

// RegisterFlags adds logging flags to flags.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.Flags.Level, c.Level,
		fmt.Sprintf("log level, one of: %s", GetAllLevelStrings()))
	flags.StringVar(&c.Format, c.Flags.Format, c.Format,
		fmt.Sprintf("log format, one of: %s", GetAllFormatStrings()))

	if c.Flags.Verbose != "" {
		flags.BoolVarP(&c.Verbose, c.Flags.Verbose, "v", c.Verbose,
			"log tool invocations and workspace paths (same as --"+c.Flags.Level+"=debug)")
	}

	if c.Flags.Quiet != "" {
		flags.BoolVarP(&c.Quiet, c.Flags.Quiet, "q", c.Quiet,
			"log errors only (same as --"+c.Flags.Level+"=error)")
	}
}

// RegisterCompletions registers shell completions for the level and format
// flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	for flag, values := range map[string][]string{
		c.Flags.Level:  GetAllLevelStrings(),
		c.Flags.Format: GetAllFormatStrings(),
	} {
		err := cmd.RegisterFlagCompletionFunc(flag,
			cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	return nil
}

// EffectiveLevel returns the level name after applying Verbose and Quiet.
func (c *Config) EffectiveLevel() (string, error) {
	switch {
	case c.Verbose && c.Quiet:
		return "", fmt.Errorf("%w: --%s and --%s are mutually exclusive",
			ErrInvalidArgument, c.Flags.Verbose, c.Flags.Quiet)
	case c.Verbose:
		return string(LevelDebug), nil
	case c.Quiet:
		return string(LevelError), nil
	}

	return c.Level, nil
}

// NewHandler creates a [Handler] writing to w.
func (c *Config) NewHandler(w io.Writer) (Handler, error) {
	level, err := c.EffectiveLevel()
	if err != nil {
		return nil, err
	}

	return NewHandlerFromStrings(w, level, c.Format)
}

// NewLogger creates a [*slog.Logger] writing to w.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	h, err := c.NewHandler(w)
	if err != nil {
		return nil, err
	}

	return slog.New(h), nil
}
