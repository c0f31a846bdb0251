package sdl

import (
	"context"
	"fmt"
	"time"

	"github.com/mnafees/chopper/internal"
	"github.com/mnafees/chopper/pkg/pacer"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	screenColor = 0x1A237E
	spriteColor = 0x9FA8DA
)

// IO is the input/output abstraction layer for the VM
type IO struct {
	window  *sdl.Window
	surface *sdl.Surface
	beeper  *beeper

	vm        *internal.C8VM
	logger    *log.Logger
	rate      int
	pixelSize int32
}

// NewIO returns a new I/O instance for the SDL frontend. rate is the number of
// instructions executed per second and scale the size of a CHIP-8 pixel on
// screen.
func NewIO(vm *internal.C8VM, logger *log.Logger, rate, scale int) *IO {
	return &IO{
		vm:        vm,
		logger:    logger,
		rate:      rate,
		pixelSize: int32(scale),
	}
}

// SetupWindow initialises and sets up the main SDL window
func (io *IO) SetupWindow(title string) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("initialising SDL: %w", err)
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		internal.ScreenWidth*io.pixelSize, internal.ScreenHeight*io.pixelSize, sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	io.window = window
	io.surface, err = window.GetSurface()
	if err != nil {
		return fmt.Errorf("getting window surface: %w", err)
	}
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		return fmt.Errorf("clearing window surface: %w", err)
	}

	io.beeper, err = newBeeper()
	if err != nil {
		// the emulator stays usable without sound
		io.logger.Warn("Audio disabled", log.Err(err))
	}
	return nil
}

// Destroy should be called before quitting the application
func (io *IO) Destroy() {
	if io.beeper != nil {
		io.beeper.close()
	}
	if io.window != nil {
		_ = io.window.Destroy()
	}
	sdl.Quit()
}

// Loop is the main application loop. The VM is stepped at the configured
// instruction rate while the window is presented once per timer period. It
// returns when the window is closed or ctx is cancelled.
func (io *IO) Loop(ctx context.Context) error {
	p := pacer.New(io.rate, time.Now())
	frame := time.NewTicker(internal.TimerPeriod)
	defer frame.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-frame.C:
		}

		if !io.pollEvents() {
			return nil
		}

		io.runCycles(p.Due(time.Now()))

		if io.vm.IsDrawFlagSet() {
			if err := io.draw(); err != nil {
				return err
			}
		}

		if io.beeper != nil {
			if err := io.beeper.update(io.vm.SoundActive() && io.vm.Halted() == nil); err != nil {
				io.logger.Warn("Queueing audio failed", log.Err(err))
			}
		}
	}
}

// runCycles steps the VM n times. A halted VM keeps its last frame on screen
// until the program is restarted.
func (io *IO) runCycles(n int) {
	for ; n > 0; n-- {
		result, err := io.vm.Step()
		if err != nil {
			return
		}
		if result == internal.ResultAwaitingKey {
			// keys only change between frames
			return
		}
	}
}

// pollEvents handles all pending SDL events and returns false once the
// window has been closed.
func (io *IO) pollEvents() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.KeyboardEvent:
			io.handleKey(t)
		case *sdl.QuitEvent:
			return false
		}
	}
	return true
}

func (io *IO) handleKey(event *sdl.KeyboardEvent) {
	scancode := event.Keysym.Scancode
	pressed := event.GetType() == sdl.KEYDOWN

	if scancode == sdl.SCANCODE_BACKSPACE && pressed {
		io.restart()
		return
	}

	code := keymap(scancode)
	if code != -1 {
		io.vm.SetKey(uint8(code), pressed)
	}
}

// restart reloads the current program, which also clears a fault
func (io *IO) restart() {
	if err := io.vm.LoadProgram(io.vm.ROM()); err != nil {
		io.logger.Error("Restarting program failed", log.Err(err))
		return
	}
	io.logger.Info("Program restarted")
}

// Draws the current sprite configuration on screen
func (io *IO) draw() error {
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		return fmt.Errorf("clearing window surface: %w", err)
	}
	pixels := io.vm.Pixels()
	for w := int32(0); w < internal.ScreenWidth; w++ {
		for h := int32(0); h < internal.ScreenHeight; h++ {
			if pixels[w][h] == 0 {
				continue
			}
			rect := &sdl.Rect{X: w * io.pixelSize, Y: h * io.pixelSize, W: io.pixelSize, H: io.pixelSize}
			if err := io.surface.FillRect(rect, spriteColor); err != nil {
				return fmt.Errorf("drawing pixel: %w", err)
			}
		}
	}
	if err := io.window.UpdateSurface(); err != nil {
		return fmt.Errorf("updating window surface: %w", err)
	}
	io.vm.UnsetDrawFlag()
	return nil
}

// Maps keys from a QWERTY keyboard to the keypad used by CHIP-8
// Below we have a mapping QWERTY keyboard to the CHIP-8 keypad
// +--------+--------+--------+--------+
// | 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
// +--------+--------+--------+--------+
// | Q -> 4 | W -> 5 | E -> 6 | R -> D |
// +--------+--------+--------+--------+
// | A -> 7 | S -> 8 | D -> 9 | F -> E |
// +--------+--------+--------+--------+
// | Z -> A | X -> 0 | C -> B | V -> F |
// +--------+--------+--------+--------+
func keymap(code sdl.Scancode) int8 {
	switch code {
	case sdl.SCANCODE_1:
		return 0x1
	case sdl.SCANCODE_2:
		return 0x2
	case sdl.SCANCODE_3:
		return 0x3
	case sdl.SCANCODE_4:
		return 0xC
	case sdl.SCANCODE_Q:
		return 0x4
	case sdl.SCANCODE_W:
		return 0x5
	case sdl.SCANCODE_E:
		return 0x6
	case sdl.SCANCODE_R:
		return 0xD
	case sdl.SCANCODE_A:
		return 0x7
	case sdl.SCANCODE_S:
		return 0x8
	case sdl.SCANCODE_D:
		return 0x9
	case sdl.SCANCODE_F:
		return 0xE
	case sdl.SCANCODE_Z:
		return 0xA
	case sdl.SCANCODE_X:
		return 0x0
	case sdl.SCANCODE_C:
		return 0xB
	case sdl.SCANCODE_V:
		return 0xF
	default:
		return -1
	}
}
