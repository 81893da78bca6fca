package profile

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Session is one profiled run.
//
// Create instances with [Config.NewSession].
type Session struct {
	cpu     *os.File
	cfg     Config
	started bool
}

// Start sets the heap sampling rate and starts CPU profiling if enabled.
func (s *Session) Start() error {
	if s.started {
		return errors.New("profile session already started")
	}

	s.started = true

	if s.cfg.HeapProfile != "" && s.cfg.MemRate > 0 {
		runtime.MemProfileRate = s.cfg.MemRate
	}

	if s.cfg.CPUProfile == "" {
		return nil
	}

	f, err := os.Create(s.cfg.CPUProfile) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("creating CPU profile: %w", err)
	}

	err = pprof.StartCPUProfile(f)
	if err != nil {
		return errors.Join(fmt.Errorf("starting CPU profile: %w", err), f.Close())
	}

	s.cpu = f

	return nil
}

// Stop stops CPU profiling and writes the heap profile. It is a no-op for a
// session that was never started.
func (s *Session) Stop() error {
	if !s.started {
		return nil
	}

	s.started = false

	var errs []error

	if s.cpu != nil {
		pprof.StopCPUProfile()

		err := s.cpu.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("closing CPU profile: %w", err))
		}

		s.cpu = nil
	}

	if s.cfg.HeapProfile != "" {
		err := writeHeap(s.cfg.HeapProfile)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func writeHeap(path string) error {
	f, err := os.Create(path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("creating heap profile: %w", err)
	}

	runtime.GC()

	err = pprof.Lookup("heap").WriteTo(f, 0)
	if err != nil {
		return errors.Join(fmt.Errorf("writing heap profile: %w", err), f.Close())
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("closing heap profile: %w", err)
	}

	return nil
}
