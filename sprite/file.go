package sprite

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/pflag"
)

// File is the YAML configuration file format. Every field is optional;
// unset fields keep the flag defaults.
type File struct {
	Interval     *float64 `json:"interval,omitempty"      jsonschema:"seconds between sampled frames"                yaml:"interval,omitempty"`
	Width        *int     `json:"width,omitempty"         jsonschema:"thumbnail width in pixels"                     yaml:"width,omitempty"`
	AdjustFactor *float64 `json:"adjustFactor,omitempty"  jsonschema:"time-sync adjustment as a multiple of interval" yaml:"adjustFactor,omitempty"`
	SkipFirst    *bool    `json:"skipFirst,omitempty"     jsonschema:"discard the frame sampled at time zero"        yaml:"skipFirst,omitempty"`
	Backend      *string  `json:"backend,omitempty"       jsonschema:"image backend: imagemagick, native or imaging" yaml:"backend,omitempty"`
	Timestamps   *string  `json:"timestamps,omitempty"    jsonschema:"cue timestamp format: legacy or cascade"       yaml:"timestamps,omitempty"`
	OutputDir    *string  `json:"outputDir,omitempty"     jsonschema:"output directory"                              yaml:"outputDir,omitempty"`
	Timeout      *string  `json:"timeout,omitempty"       jsonschema:"pipeline time limit as a Go duration, e.g. 10m" yaml:"timeout,omitempty"`
	FFmpeg       *string  `json:"ffmpeg,omitempty"        jsonschema:"ffmpeg binary"                                 yaml:"ffmpeg,omitempty"`
	Quality      *int     `json:"quality,omitempty"       jsonschema:"JPEG quality for the Go backends"              yaml:"quality,omitempty"`
}

// FileSchema returns the JSON Schema of [File].
func FileSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[File](nil)
	if err != nil {
		return nil, fmt.Errorf("generating config schema: %w", err)
	}

	schema.Title = "thumbsprite configuration"

	return schema, nil
}

// ParseFile decodes YAML configuration. Unknown keys are rejected.
func ParseFile(data []byte) (*File, error) {
	var f File

	err := yaml.UnmarshalWithOptions(data, &f, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("%w: config file: %w", ErrUsage, err)
	}

	return &f, nil
}

// LoadFile reads the YAML file at path and applies it to c. Values of flags
// that were set explicitly on flags take precedence; a nil flags applies
// every value.
func (c *Config) LoadFile(path string, flags *pflag.FlagSet) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: reading config file: %w", ErrUsage, err)
	}

	f, err := ParseFile(data)
	if err != nil {
		return err
	}

	changed := func(string) bool { return false }
	if flags != nil {
		changed = flags.Changed
	}

	return c.Apply(f, changed)
}

// Apply copies the set fields of f into c, skipping those for which
// changed(flagName) reports true.
func (c *Config) Apply(f *File, changed func(string) bool) error {
	set(&c.Interval, f.Interval, !changed(c.Flags.Interval))
	set(&c.Width, f.Width, !changed(c.Flags.Width))
	set(&c.AdjustFactor, f.AdjustFactor, !changed(c.Flags.AdjustFactor))
	set(&c.SkipFirst, f.SkipFirst, !changed(c.Flags.SkipFirst))
	set(&c.Backend, f.Backend, !changed(c.Flags.Backend))
	set(&c.Timestamps, f.Timestamps, !changed(c.Flags.Timestamps))
	set(&c.OutputDir, f.OutputDir, !changed(c.Flags.OutputDir))
	set(&c.FFmpeg, f.FFmpeg, !changed(c.Flags.FFmpeg))
	set(&c.Quality, f.Quality, !changed(c.Flags.Quality))

	if f.Timeout != nil && !changed(c.Flags.Timeout) {
		d, err := time.ParseDuration(*f.Timeout)
		if err != nil {
			return fmt.Errorf("%w: config file timeout: %w", ErrUsage, err)
		}

		c.Timeout = d
	}

	return nil
}

func set[T any](dst *T, src *T, ok bool) {
	if ok && src != nil {
		*dst = *src
	}
}
