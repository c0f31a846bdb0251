// Package ebiten implements an Ebitengine frontend for the VM.
package ebiten

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/mnafees/chopper/internal"
	"github.com/mnafees/chopper/pkg/pacer"
	"github.com/retroenv/retrogolib/log"
)

var (
	screenColor = color.RGBA{R: 0x1A, G: 0x23, B: 0x7E, A: 0xFF}
	spriteColor = color.RGBA{R: 0x9F, G: 0xA8, B: 0xDA, A: 0xFF}
)

// keypad maps a QWERTY keyboard to the CHIP-8 keypad, see the SDL frontend
// for the layout.
var keypad = map[ebiten.Key]uint8{
	ebiten.Key1: 0x1, ebiten.Key2: 0x2, ebiten.Key3: 0x3, ebiten.Key4: 0xC,
	ebiten.KeyQ: 0x4, ebiten.KeyW: 0x5, ebiten.KeyE: 0x6, ebiten.KeyR: 0xD,
	ebiten.KeyA: 0x7, ebiten.KeyS: 0x8, ebiten.KeyD: 0x9, ebiten.KeyF: 0xE,
	ebiten.KeyZ: 0xA, ebiten.KeyX: 0x0, ebiten.KeyC: 0xB, ebiten.KeyV: 0xF,
}

// Game implements ebiten.Game for the VM
type Game struct {
	ctx    context.Context
	vm     *internal.C8VM
	logger *log.Logger
	pacer  *pacer.Pacer

	frame  *ebiten.Image
	pixels []byte // RGBA buffer of the frame image

	windowWidth  int
	windowHeight int
}

// NewGame returns a game that runs vm at rate instructions per second until
// ctx is cancelled.
func NewGame(ctx context.Context, vm *internal.C8VM, logger *log.Logger, rate int) *Game {
	return &Game{
		ctx:    ctx,
		vm:     vm,
		logger: logger,
		pacer:  pacer.New(rate, time.Now()),
		pixels: make([]byte, internal.ScreenWidth*internal.ScreenHeight*4),
	}
}

// Run opens the window and blocks until it is closed.
func (g *Game) Run(title string, scale int) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(internal.ScreenWidth*scale, internal.ScreenHeight*scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(int(time.Second / internal.TimerPeriod))

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("running game loop: %w", err)
	}
	return nil
}

// Update implements ebiten.Game.Update
func (g *Game) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		g.restart()
	}
	for key, code := range keypad {
		g.vm.SetKey(code, ebiten.IsKeyPressed(key))
	}

	for n := g.pacer.Due(time.Now()); n > 0; n-- {
		result, err := g.vm.Step()
		if err != nil || result == internal.ResultAwaitingKey {
			break
		}
	}
	return nil
}

// Draw implements ebiten.Game.Draw
func (g *Game) Draw(screen *ebiten.Image) {
	redraw := g.vm.IsDrawFlagSet()
	if g.frame == nil {
		g.frame = ebiten.NewImage(internal.ScreenWidth, internal.ScreenHeight)
		redraw = true
	}
	if redraw {
		g.vm.UnsetDrawFlag()
		rasterize(g.vm, g.pixels)
		g.frame.WritePixels(g.pixels)
	}

	screen.Fill(color.Black)
	scale, offsetX, offsetY := fit(g.windowWidth, g.windowHeight)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)
	screen.DrawImage(g.frame, op)
}

// Layout implements ebiten.Game.Layout
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	g.windowWidth = outsideWidth
	g.windowHeight = outsideHeight
	return outsideWidth, outsideHeight
}

// restart reloads the current program, which also clears a fault
func (g *Game) restart() {
	if err := g.vm.LoadProgram(g.vm.ROM()); err != nil {
		g.logger.Error("Restarting program failed", log.Err(err))
		return
	}
	g.logger.Info("Program restarted")
}

// rasterize writes the display of vm as RGBA pixels into buf
func rasterize(vm *internal.C8VM, buf []byte) {
	for y := range internal.ScreenHeight {
		for x := range internal.ScreenWidth {
			c := screenColor
			if vm.Pixel(x, y) {
				c = spriteColor
			}
			i := (y*internal.ScreenWidth + x) * 4
			buf[i] = c.R
			buf[i+1] = c.G
			buf[i+2] = c.B
			buf[i+3] = c.A
		}
	}
}

// fit returns the scale that fits the display into a window of the given size
// while keeping its aspect ratio, and the offsets that center it.
func fit(width, height int) (scale, offsetX, offsetY float64) {
	scaleX := float64(width) / internal.ScreenWidth
	scaleY := float64(height) / internal.ScreenHeight
	scale = min(scaleX, scaleY)

	offsetX = (float64(width) - internal.ScreenWidth*scale) / 2
	offsetY = (float64(height) - internal.ScreenHeight*scale) / 2
	return scale, offsetX, offsetY
}
