package profile

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for profiling, allowing callers to customize
// flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	CPUProfile  string
	HeapProfile string
	MemRate     string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags:   f,
		MemRate: DefaultMemRate,
	}
}

// DefaultMemRate matches the runtime's default [runtime.MemProfileRate].
const DefaultMemRate = 512 * 1024

// Config holds profile output paths. Empty paths disable the profile.
type Config struct {
	Flags       Flags
	CPUProfile  string
	HeapProfile string
	MemRate     int
}

// NewConfig returns a new [Config] with default flag names and profiling
// disabled.
func NewConfig() *Config {
	f := Flags{
		CPUProfile:  "cpu-profile",
		HeapProfile: "heap-profile",
		MemRate:     "mem-profile-rate",
	}

	return f.NewConfig()
}

// RegisterFlags adds profiling flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.CPUProfile, c.Flags.CPUProfile, c.CPUProfile, "write a CPU profile to file")
	flags.StringVar(&c.HeapProfile, c.Flags.HeapProfile, c.HeapProfile, "write a heap profile to file")
	flags.IntVar(&c.MemRate, c.Flags.MemRate, c.MemRate, "bytes allocated per heap profile sample")
}

// RegisterCompletions registers shell completions for profile flags on cmd.
// Path flags keep the default file completion.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.MemRate,
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		})
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.MemRate, err)
	}

	return nil
}

// Enabled reports whether any profile is requested.
func (c *Config) Enabled() bool {
	return c.CPUProfile != "" || c.HeapProfile != ""
}

// NewSession creates a [Session] using this [Config].
func (c *Config) NewSession() *Session {
	return &Session{cfg: *c}
}
