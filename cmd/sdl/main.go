// Package main implements the SDL frontend of the chopper CHIP-8 emulator
package main

import (
	"os"

	"github.com/mnafees/chopper/internal/cli"
	"github.com/mnafees/chopper/internal/config"
	"github.com/mnafees/chopper/pkg/sdl"
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

	session, err := cli.NewSession(logger, opts, nil)
	if err != nil {
		logger.Fatal("Starting emulator failed", log.Err(err))
	}

	io := sdl.NewIO(session.VM, logger, opts.Rate, opts.Scale)
	if err := io.SetupWindow("Chopper | CHIP-8 Emulator"); err != nil {
		io.Destroy()
		logger.Fatal("Opening window failed", log.Err(err))
	}

	if err := io.Loop(ctx); err != nil {
		logger.Error("Emulation failed", log.Err(err))
	}
	io.Destroy()

	if err := session.Close(); err != nil {
		logger.Error("Emulation ended with error", log.Err(err))
		os.Exit(1)
	}
}
