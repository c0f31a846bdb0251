package internal

// checkRange verifies that the n bytes starting at addr lie inside memory
func (vm *C8VM) checkRange(addr uint16, n int) error {
	if int(addr)+n > totalMemory {
		return addressError(addr, n)
	}
	return nil
}

// fetch reads the big-endian opcode at PC
func (vm *C8VM) fetch() (uint16, error) {
	if err := vm.checkRange(vm.pc, 2); err != nil {
		return 0, err
	}
	return uint16(vm.memory[vm.pc])<<8 | uint16(vm.memory[vm.pc+1]), nil
}

// push saves a return address on the call stack
func (vm *C8VM) push(addr uint16) error {
	if vm.sp >= stackDepth {
		return ErrStackOverflow
	}
	vm.stack[vm.sp] = addr
	vm.sp++
	return nil
}

// pop removes the most recent return address from the call stack
func (vm *C8VM) pop() (uint16, error) {
	if vm.sp == 0 {
		return 0, ErrStackUnderflow
	}
	vm.sp--
	return vm.stack[vm.sp], nil
}

// CallStack returns the saved return addresses, oldest first
func (vm *C8VM) CallStack() []uint16 {
	s := make([]uint16, vm.sp)
	copy(s, vm.stack[:vm.sp])
	return s
}
