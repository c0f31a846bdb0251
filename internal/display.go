package internal

// clearScreen resets all pixels to a value of 0
func (vm *C8VM) clearScreen() {
	vm.pixels = [ScreenWidth][ScreenHeight]uint8{}
	vm.drawFlag = true
}

// drawSprite XORs the n byte sprite at I onto the display at (x, y). VF is set
// when a lit pixel is turned off. Pixels past the screen edges are clipped
// unless sprite wrapping is enabled.
func (vm *C8VM) drawSprite(x uint8, y uint8, n uint8) error {
	if err := vm.checkRange(vm.regI, int(n)); err != nil {
		return err
	}

	vm.regV[0xF] = 0
	for row := 0; row < int(n); row++ {
		spriteByte := vm.memory[int(vm.regI)+row]
		for col := 0; col < 8; col++ {
			if spriteByte&(0x80>>col) == 0 {
				continue
			}

			px := int(x) + col
			py := int(y) + row
			if vm.opts.WrapSprites {
				px %= ScreenWidth
				py %= ScreenHeight
			} else if px >= ScreenWidth || py >= ScreenHeight {
				continue
			}

			if vm.pixels[px][py] == 1 {
				vm.regV[0xF] = 1
			}
			vm.pixels[px][py] ^= 1
		}
	}
	vm.drawFlag = true
	return nil
}

// Pixels returns a copy of the display, indexed [x][y]
func (vm *C8VM) Pixels() [ScreenWidth][ScreenHeight]byte {
	return vm.pixels
}

// Pixel returns whether the pixel at (x, y) is lit. Coordinates outside the
// display are never lit.
func (vm *C8VM) Pixel(x, y int) bool {
	if x < 0 || y < 0 || x >= ScreenWidth || y >= ScreenHeight {
		return false
	}
	return vm.pixels[x][y] == 1
}

// IsDrawFlagSet returns whether the display changed since UnsetDrawFlag was
// last called
func (vm *C8VM) IsDrawFlagSet() bool {
	return vm.drawFlag
}

// UnsetDrawFlag unsets the draw flag, to be called by the renderer after a redraw
func (vm *C8VM) UnsetDrawFlag() {
	vm.drawFlag = false
}
