// Package main implements a headless runner for the chopper CHIP-8 emulator.
// It executes a program for a fixed number of cycles on a simulated clock and
// prints the final screen and registers.
package main

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mnafees/chopper/internal"
	"github.com/mnafees/chopper/internal/cli"
	"github.com/mnafees/chopper/internal/config"
	"github.com/mnafees/chopper/pkg/trace"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags(os.Args[0], os.Args[1:])
	if err != nil {
		cli.Exit(err)
	}
	logger := config.CreateLogger(opts.Debug, opts.Quiet)

	clock := newVirtualClock(opts.Rate)
	session, err := cli.NewSession(logger, opts, clock.Now)
	if err != nil {
		logger.Fatal("Starting emulator failed", log.Err(err))
	}

	executed := run(ctx, session.VM, clock, opts.Cycles)
	logger.Info("Emulation finished",
		log.Int("cycles", executed),
		log.Hex("pc", session.VM.PC()))

	printState(os.Stdout, session.VM)

	if err := session.Close(); err != nil {
		logger.Error("Emulation ended with error", log.Err(err))
		os.Exit(1)
	}
}

// virtualClock advances by one instruction period per executed cycle so that
// timers behave as if the program ran at the configured rate.
type virtualClock struct {
	now  time.Time
	step time.Duration
}

func newVirtualClock(rate int) *virtualClock {
	return &virtualClock{
		now:  time.Unix(0, 0),
		step: time.Second / time.Duration(rate),
	}
}

func (c *virtualClock) Now() time.Time {
	return c.now
}

func (c *virtualClock) advance() {
	c.now = c.now.Add(c.step)
}

// run steps the VM up to cycles times and returns the number of cycles
// executed. It stops early on a fault, when the program waits for a key that
// can never be pressed, or when ctx is cancelled.
func run(ctx context.Context, vm *internal.C8VM, clock *virtualClock, cycles int) int {
	for i := range cycles {
		if ctx.Err() != nil {
			return i
		}

		clock.advance()
		result, err := vm.Step()
		if err != nil || result == internal.ResultAwaitingKey {
			return i + 1
		}
	}
	return cycles
}

func printState(w io.Writer, vm *internal.C8VM) {
	fmt.Fprint(w, trace.Screen(vm))
	fmt.Fprintf(w, "PC:%03X %s\n", vm.PC(), trace.Registers(vm.Snapshot()))
}
