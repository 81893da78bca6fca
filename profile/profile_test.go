package profile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/thumbsprite/profile"
)

func TestConfigFlags(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		args     []string
		wantCPU  string
		wantHeap string
		wantRate int
		enabled  bool
	}{
		"defaults": {
			wantRate: profile.DefaultMemRate,
		},
		"cpu only": {
			args:     []string{"--cpu-profile=cpu.prof"},
			wantCPU:  "cpu.prof",
			wantRate: profile.DefaultMemRate,
			enabled:  true,
		},
		"heap with rate": {
			args:     []string{"--heap-profile=heap.prof", "--mem-profile-rate=1024"},
			wantHeap: "heap.prof",
			wantRate: 1024,
			enabled:  true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := profile.NewConfig()
			flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
			cfg.RegisterFlags(flags)

			require.NoError(t, flags.Parse(tc.args))

			assert.Equal(t, tc.wantCPU, cfg.CPUProfile)
			assert.Equal(t, tc.wantHeap, cfg.HeapProfile)
			assert.Equal(t, tc.wantRate, cfg.MemRate)
			assert.Equal(t, tc.enabled, cfg.Enabled())
		})
	}
}

func TestRegisterCompletions(t *testing.T) {
	t.Parallel()

	cfg := profile.NewConfig()

	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())

	require.NoError(t, cfg.RegisterCompletions(cmd))

	completionFn, ok := cmd.GetFlagCompletionFunc("mem-profile-rate")
	require.True(t, ok)

	values, directive := completionFn(cmd, nil, "")
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	assert.Nil(t, values)
}

//nolint:paralleltest // CPU profiling is process-global.
func TestSession(t *testing.T) {
	dir := t.TempDir()

	cfg := profile.NewConfig()
	cfg.CPUProfile = filepath.Join(dir, "cpu.prof")
	cfg.HeapProfile = filepath.Join(dir, "heap.prof")
	cfg.MemRate = 0

	s := cfg.NewSession()
	require.NoError(t, s.Start())
	require.Error(t, s.Start())
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())

	for _, name := range []string{"cpu.prof", "heap.prof"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Positive(t, info.Size(), name)
	}
}

func TestSessionErrors(t *testing.T) {
	t.Parallel()

	t.Run("stop without start", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, profile.NewConfig().NewSession().Stop())
	})

	t.Run("heap path not writable", func(t *testing.T) {
		t.Parallel()

		cfg := profile.NewConfig()
		cfg.HeapProfile = filepath.Join(t.TempDir(), "missing", "heap.prof")
		cfg.MemRate = 0

		s := cfg.NewSession()
		require.NoError(t, s.Start())
		require.ErrorContains(t, s.Stop(), "creating heap profile")
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		s := profile.NewConfig().NewSession()
		require.NoError(t, s.Start())
		require.NoError(t, s.Stop())
	})
}
