package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/mnafees/chopper/internal"
	"github.com/mnafees/chopper/pkg/trace"
	"github.com/mnafees/chopper/pkg/wavrec"
	"github.com/retroenv/retrogolib/log"
)

// Session is a VM with the program loaded and the optional tracer and sound
// recorder attached.
type Session struct {
	VM *internal.C8VM

	logger   *log.Logger
	recorder *wavrec.Recorder
}

// NewSession creates a VM for the options and loads the program file. The
// clock paces the timers and the sound recording, nil selects wall-clock time.
func NewSession(logger *log.Logger, opts Options, clock func() time.Time) (*Session, error) {
	s := &Session{
		logger: logger,
	}

	vmOpts := opts.VMOptions(logger)
	vmOpts.Clock = clock
	if opts.Trace {
		vmOpts.DebugHook = trace.New(logger)
	}
	if opts.Wav != "" {
		s.recorder = wavrec.New(opts.Wav, logger, clock)
		vmOpts.Speaker = s.recorder
	}

	s.VM = internal.NewC8VM(vmOpts)
	if err := s.VM.LoadProgramFile(opts.ROM); err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}

	logger.Info("Loaded program",
		log.String("file", opts.ROM),
		log.Int("size", len(s.VM.ROM())),
		log.Int("rate", opts.Rate))
	return s, nil
}

// Close finishes the sound recording, if any. A VM fault is returned as well
// so that the caller can report it.
func (s *Session) Close() error {
	var errs []error
	if s.recorder != nil {
		if err := s.recorder.Close(); err != nil {
			errs = append(errs, err)
		} else {
			s.logger.Info("Sound recorded", log.Int("beeps", s.recorder.Edges()))
		}
	}
	if err := s.VM.Halted(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
