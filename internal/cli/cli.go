// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/mnafees/chopper/internal"
	"github.com/retroenv/retrogolib/log"
)

// Options holds the settings shared by all chopper frontends
type Options struct {
	ROM string

	Rate   int // instructions per second
	Scale  int // window pixels per CHIP-8 pixel
	Cycles int // cycles to run in headless mode

	Wrap          bool
	IndexOverflow bool
	Seed          int64

	Trace bool
	Wav   string

	Debug bool
	Quiet bool
}

// Default option values and limits
const (
	DefaultRate   = 500
	DefaultScale  = 20
	DefaultCycles = 1000

	MaxRate = 1_000_000
)

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage message and the flag defaults
func (e *UsageError) ShowUsage(w io.Writer) {
	fmt.Fprintf(w, "usage: %s [options] <CHIP-8 program>\n\n", e.flags.Name())
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	fmt.Fprintln(w)
}

// ParseFlags parses the arguments following the program name
func ParseFlags(name string, args []string) (Options, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts Options
	readOptionFlags(flags, &opts)

	err := flags.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		return opts, &UsageError{flags: flags}
	}
	if err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	rest := flags.Args()
	if len(rest) != 1 {
		return opts, &UsageError{flags: flags, msg: "exactly one CHIP-8 program must be given"}
	}
	opts.ROM = rest[0]

	if err := validateOptions(opts); err != nil {
		return opts, err
	}
	return opts, nil
}

func readOptionFlags(flags *flag.FlagSet, opts *Options) {
	flags.IntVar(&opts.Rate, "rate", DefaultRate, "instructions executed per second")
	flags.IntVar(&opts.Scale, "scale", DefaultScale, "window pixels per CHIP-8 pixel")
	flags.IntVar(&opts.Cycles, "cycles", DefaultCycles, "number of cycles to run in headless mode")
	flags.BoolVar(&opts.Wrap, "wrap", false, "wrap sprites around the screen edges instead of clipping them")
	flags.BoolVar(&opts.IndexOverflow, "index-overflow", false, "allow ADD I, Vx to move I past 0xFFF")
	flags.Int64Var(&opts.Seed, "seed", 0, "seed for the random number generator, 0 seeds from the clock")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction with a register dump")
	flags.StringVar(&opts.Wav, "wav", "", "record the beeper to the given WAV file")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}

func validateOptions(opts Options) error {
	if opts.Rate <= 0 || opts.Rate > MaxRate {
		return fmt.Errorf("invalid instruction rate %d, must be between 1 and %d", opts.Rate, MaxRate)
	}
	if opts.Scale <= 0 {
		return fmt.Errorf("invalid scale %d, must be positive", opts.Scale)
	}
	if opts.Cycles < 0 {
		return fmt.Errorf("invalid cycle count %d", opts.Cycles)
	}
	return nil
}

// VMOptions returns the VM configuration for these options. Speaker and debug
// hook are left for the caller to set.
func (o Options) VMOptions(logger *log.Logger) internal.Options {
	vmOpts := internal.Options{
		Logger:             logger,
		WrapSprites:        o.Wrap,
		AllowIndexOverflow: o.IndexOverflow,
	}
	if o.Seed != 0 {
		vmOpts.Rand = rand.New(rand.NewSource(o.Seed))
	}
	return vmOpts
}

// Exit prints a parse error and exits the process. Usage errors print the
// usage message.
func Exit(err error) {
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		if usageErr.msg != "" {
			fmt.Fprintln(os.Stderr, usageErr.msg)
		}
		usageErr.ShowUsage(os.Stderr)
		os.Exit(2)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
