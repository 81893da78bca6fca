package sprite

import (
	"context"
	"errors"
	"fmt"

	"go.jacobcolvin.com/thumbsprite/grid"
	"go.jacobcolvin.com/thumbsprite/vtt"
)

var (
	// ErrUsage indicates a missing or invalid argument or option.
	ErrUsage = errors.New("usage")
	// ErrInputNotFound indicates that the video does not exist or is not a
	// regular file.
	ErrInputNotFound = errors.New("input not found")
	// ErrWorkspace indicates that the scratch workspace could not be created
	// or removed.
	ErrWorkspace = errors.New("workspace")
	// ErrExternalTool indicates that a pipeline stage failed to produce usable
	// output. Such errors are reported as a [*StageError].
	ErrExternalTool = errors.New("external tool")
	// ErrWriteOutput indicates that the sprite or cue file could not be
	// written.
	ErrWriteOutput = errors.New("write output")
	// ErrNoSamples indicates that no frames were sampled from the video.
	ErrNoSamples = vtt.ErrNoSamples
)

// Process exit statuses returned by [ExitCode].
const (
	ExitOK                = 0
	ExitUsage             = 1
	ExitInputNotFound     = 2
	ExitWorkspace         = 3
	ExitNoSamples         = 4
	ExitExternalTool      = 5
	ExitMalformedGeometry = 6
	ExitWriteOutput       = 7
	ExitFailure           = 1
)

// Stage names a step of the pipeline.
type Stage string

const (
	StageExtract Stage = "extract"
	StageInspect Stage = "inspect"
	StageCompose Stage = "compose"
	StageCues    Stage = "cues"
	StageWrite   Stage = "write"
)

// Stages returns the pipeline stages in execution order.
func Stages() []Stage {
	return []Stage{StageExtract, StageInspect, StageCompose, StageCues, StageWrite}
}

// StageError reports the failure of an external pipeline stage. It matches
// both [ErrExternalTool] and the underlying error with [errors.Is].
type StageError struct {
	Err   error
	Stage Stage
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() []error {
	return []error{ErrExternalTool, e.Err}
}

// ExitCode maps an error returned by this package to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.Is(err, ErrInputNotFound):
		return ExitInputNotFound
	case errors.Is(err, ErrWorkspace):
		return ExitWorkspace
	case errors.Is(err, ErrNoSamples):
		return ExitNoSamples
	case errors.Is(err, grid.ErrMalformedGeometry):
		return ExitMalformedGeometry
	case errors.Is(err, ErrExternalTool), errors.Is(err, context.DeadlineExceeded):
		return ExitExternalTool
	case errors.Is(err, ErrWriteOutput):
		return ExitWriteOutput
	}

	return ExitFailure
}
