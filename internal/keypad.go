package internal

// SetKey records a key press or release. Keys outside 0x0-0xF are ignored.
func (vm *C8VM) SetKey(code uint8, pressed bool) {
	if code >= KeyCount {
		return
	}
	if pressed {
		vm.key |= 1 << code
	} else {
		vm.key &^= 1 << code
	}
}

// IsKeyPressed returns whether the key is currently held
func (vm *C8VM) IsKeyPressed(code uint8) bool {
	return vm.issetKeymask(code)
}

func (vm *C8VM) issetKeymask(code uint8) bool {
	if code >= KeyCount {
		return false
	}
	mask := uint16(1) << code
	return vm.key&mask == mask
}

// firstPressedKey returns the lowest held key
func (vm *C8VM) firstPressedKey() (uint8, bool) {
	for i := uint8(0); i < KeyCount; i++ {
		if vm.issetKeymask(i) {
			return i, true
		}
	}
	return 0, false
}
