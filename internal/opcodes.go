package internal

// instruction is a fetched opcode with the register fields most handlers need
type instruction struct {
	opcode uint16
	x      uint8 // the lower 4 bits of the high byte of the instruction
	y      uint8 // the upper 4 bits of the low byte of the instruction
}

func decode(opcode uint16) instruction {
	return instruction{
		opcode: opcode,
		x:      uint8((opcode >> 8) & 0x000F),
		y:      uint8((opcode >> 4) & 0x000F),
	}
}

// the lowest 4 bits of the instruction
func (ins instruction) n() uint8 { return uint8(ins.opcode & 0x000F) }

// the lowest 8 bits of the instruction
func (ins instruction) kk() uint8 { return uint8(ins.opcode & 0x00FF) }

// the lowest 12 bits of the instruction
func (ins instruction) nnn() uint16 { return ins.opcode & 0x0FFF }

// handler executes one instruction and leaves PC on the next instruction to run
type handler func(vm *C8VM, ins instruction) error

// opTable is indexed by the first 4 bits of the instruction. Classes sharing a
// first nibble dispatch again on the low byte or low nibble.
var opTable = [16]handler{
	0x0: (*C8VM).execSystem,
	0x1: (*C8VM).jp,
	0x2: (*C8VM).call,
	0x3: (*C8VM).se,
	0x4: (*C8VM).sne,
	0x5: (*C8VM).seReg,
	0x6: (*C8VM).ld,
	0x7: (*C8VM).add,
	0x8: (*C8VM).execALU,
	0x9: (*C8VM).sneReg,
	0xA: (*C8VM).ldI,
	0xB: (*C8VM).jpV0,
	0xC: (*C8VM).rnd,
	0xD: (*C8VM).drw,
	0xE: (*C8VM).execKey,
	0xF: (*C8VM).execMisc,
}

// 00kk, keyed by kk
var systemTable = map[uint8]handler{
	0xE0: (*C8VM).cls,
	0xEE: (*C8VM).ret,
}

// 8xyn, keyed by n
var aluTable = [16]handler{
	0x0: (*C8VM).ldReg,
	0x1: (*C8VM).or,
	0x2: (*C8VM).and,
	0x3: (*C8VM).xor,
	0x4: (*C8VM).addReg,
	0x5: (*C8VM).sub,
	0x6: (*C8VM).shr,
	0x7: (*C8VM).subn,
	0xE: (*C8VM).shl,
}

// Exkk, keyed by kk
var keyTable = map[uint8]handler{
	0x9E: (*C8VM).skp,
	0xA1: (*C8VM).sknp,
}

// Fxkk, keyed by kk
var miscTable = map[uint8]handler{
	0x07: (*C8VM).ldVxDT,
	0x0A: (*C8VM).ldVxK,
	0x15: (*C8VM).ldDTVx,
	0x18: (*C8VM).ldSTVx,
	0x1E: (*C8VM).addIVx,
	0x29: (*C8VM).ldFVx,
	0x33: (*C8VM).ldBVx,
	0x55: (*C8VM).ldIVx,
	0x65: (*C8VM).ldVxI,
}

func dispatch(vm *C8VM, ins instruction) error {
	return opTable[ins.opcode>>12](vm, ins)
}

func dispatchByte(vm *C8VM, ins instruction, table map[uint8]handler) error {
	h, ok := table[ins.kk()]
	if !ok {
		return ErrUnknownOpcode
	}
	return h(vm, ins)
}

// 0nnn machine code routines are not supported, only 00E0 and 00EE
func (vm *C8VM) execSystem(ins instruction) error {
	if ins.opcode&0x0F00 != 0 {
		return ErrUnknownOpcode
	}
	return dispatchByte(vm, ins, systemTable)
}

func (vm *C8VM) execKey(ins instruction) error {
	return dispatchByte(vm, ins, keyTable)
}

func (vm *C8VM) execMisc(ins instruction) error {
	return dispatchByte(vm, ins, miscTable)
}

func (vm *C8VM) execALU(ins instruction) error {
	h := aluTable[ins.n()]
	if h == nil {
		return ErrUnknownOpcode
	}
	if err := h(vm, ins); err != nil {
		return err
	}
	vm.pc += 2
	return nil
}

// skipIf moves past the next instruction when cond holds
func (vm *C8VM) skipIf(cond bool) {
	if cond {
		vm.pc += 2
	}
	vm.pc += 2
}

// CLS
func (vm *C8VM) cls(_ instruction) error {
	vm.clearScreen()
	vm.pc += 2
	return nil
}

// RET
func (vm *C8VM) ret(_ instruction) error {
	addr, err := vm.pop()
	if err != nil {
		return err
	}
	vm.pc = addr
	return nil
}

// JP nnn
func (vm *C8VM) jp(ins instruction) error {
	vm.pc = ins.nnn()
	return nil
}

// CALL nnn
func (vm *C8VM) call(ins instruction) error {
	if err := vm.push(vm.pc + 2); err != nil {
		return err
	}
	vm.pc = ins.nnn()
	return nil
}

// SE Vx, kk
func (vm *C8VM) se(ins instruction) error {
	vm.skipIf(vm.regV[ins.x] == ins.kk())
	return nil
}

// SNE Vx, kk
func (vm *C8VM) sne(ins instruction) error {
	vm.skipIf(vm.regV[ins.x] != ins.kk())
	return nil
}

// SE Vx, Vy
func (vm *C8VM) seReg(ins instruction) error {
	if ins.n() != 0 {
		return ErrUnknownOpcode
	}
	vm.skipIf(vm.regV[ins.x] == vm.regV[ins.y])
	return nil
}

// LD Vx, kk
func (vm *C8VM) ld(ins instruction) error {
	vm.regV[ins.x] = ins.kk()
	vm.pc += 2
	return nil
}

// ADD Vx, kk
func (vm *C8VM) add(ins instruction) error {
	vm.regV[ins.x] += ins.kk()
	vm.pc += 2
	return nil
}

// The 8xyn handlers below leave PC to execALU. Flag results are computed from
// the operands before either register is written, and VF is written last.

// LD Vx, Vy
func (vm *C8VM) ldReg(ins instruction) error {
	vm.regV[ins.x] = vm.regV[ins.y]
	return nil
}

// OR Vx, Vy
func (vm *C8VM) or(ins instruction) error {
	vm.regV[ins.x] |= vm.regV[ins.y]
	return nil
}

// AND Vx, Vy
func (vm *C8VM) and(ins instruction) error {
	vm.regV[ins.x] &= vm.regV[ins.y]
	return nil
}

// XOR Vx, Vy
func (vm *C8VM) xor(ins instruction) error {
	vm.regV[ins.x] ^= vm.regV[ins.y]
	return nil
}

// ADD Vx, Vy
func (vm *C8VM) addReg(ins instruction) error {
	sum := uint16(vm.regV[ins.x]) + uint16(vm.regV[ins.y])
	vm.regV[ins.x] = uint8(sum)
	vm.regV[0xF] = flag(sum > 0xFF)
	return nil
}

// SUB Vx, Vy
func (vm *C8VM) sub(ins instruction) error {
	vx, vy := vm.regV[ins.x], vm.regV[ins.y]
	vm.regV[ins.x] = vx - vy
	vm.regV[0xF] = flag(vx >= vy)
	return nil
}

// SHR Vx {, Vy}
func (vm *C8VM) shr(ins instruction) error {
	vx := vm.regV[ins.x]
	vm.regV[ins.x] = vx >> 1
	vm.regV[0xF] = vx & 0x01
	return nil
}

// SUBN Vx, Vy
func (vm *C8VM) subn(ins instruction) error {
	vx, vy := vm.regV[ins.x], vm.regV[ins.y]
	vm.regV[ins.x] = vy - vx
	vm.regV[0xF] = flag(vy >= vx)
	return nil
}

// SHL Vx {, Vy}
func (vm *C8VM) shl(ins instruction) error {
	vx := vm.regV[ins.x]
	vm.regV[ins.x] = vx << 1
	vm.regV[0xF] = (vx >> 7) & 0x01
	return nil
}

// SNE Vx, Vy
func (vm *C8VM) sneReg(ins instruction) error {
	if ins.n() != 0 {
		return ErrUnknownOpcode
	}
	vm.skipIf(vm.regV[ins.x] != vm.regV[ins.y])
	return nil
}

// LD I, nnn
func (vm *C8VM) ldI(ins instruction) error {
	vm.regI = ins.nnn()
	vm.pc += 2
	return nil
}

// JP V0, nnn
func (vm *C8VM) jpV0(ins instruction) error {
	vm.pc = ins.nnn() + uint16(vm.regV[0])
	return nil
}

// RND Vx, kk
func (vm *C8VM) rnd(ins instruction) error {
	vm.regV[ins.x] = uint8(vm.random.Intn(256)) & ins.kk()
	vm.pc += 2
	return nil
}

// DRW Vx, Vy, n
func (vm *C8VM) drw(ins instruction) error {
	if err := vm.drawSprite(vm.regV[ins.x], vm.regV[ins.y], ins.n()); err != nil {
		return err
	}
	vm.pc += 2
	return nil
}

// SKP Vx
func (vm *C8VM) skp(ins instruction) error {
	vm.skipIf(vm.issetKeymask(vm.regV[ins.x]))
	return nil
}

// SKNP Vx
func (vm *C8VM) sknp(ins instruction) error {
	vm.skipIf(!vm.issetKeymask(vm.regV[ins.x]))
	return nil
}

// LD Vx, DT
func (vm *C8VM) ldVxDT(ins instruction) error {
	vm.regV[ins.x] = vm.delayTimer
	vm.pc += 2
	return nil
}

// LD Vx, K
//
// PC does not move while no key is held, so the same instruction is executed
// again on the next cycle.
func (vm *C8VM) ldVxK(ins instruction) error {
	key, ok := vm.firstPressedKey()
	if !ok {
		vm.awaitingKey = true
		return nil
	}
	vm.awaitingKey = false
	vm.regV[ins.x] = key
	vm.pc += 2
	return nil
}

// LD DT, Vx
func (vm *C8VM) ldDTVx(ins instruction) error {
	vm.delayTimer = vm.regV[ins.x]
	vm.pc += 2
	return nil
}

// LD ST, Vx
func (vm *C8VM) ldSTVx(ins instruction) error {
	vm.soundTimer = vm.regV[ins.x]
	vm.pc += 2
	return nil
}

// ADD I, Vx
func (vm *C8VM) addIVx(ins instruction) error {
	sum := vm.regI + uint16(vm.regV[ins.x])
	if sum >= totalMemory && !vm.opts.AllowIndexOverflow {
		return ErrIndexOverflow
	}
	vm.regI = sum
	vm.pc += 2
	return nil
}

// LD F, Vx
func (vm *C8VM) ldFVx(ins instruction) error {
	vm.regI = uint16(vm.regV[ins.x]) * fontSize
	vm.pc += 2
	return nil
}

// LD B, Vx
func (vm *C8VM) ldBVx(ins instruction) error {
	if err := vm.checkRange(vm.regI, 3); err != nil {
		return err
	}
	v := vm.regV[ins.x]
	vm.memory[vm.regI] = v / 100
	vm.memory[vm.regI+1] = (v / 10) % 10
	vm.memory[vm.regI+2] = v % 10
	vm.pc += 2
	return nil
}

// LD [I], Vx
func (vm *C8VM) ldIVx(ins instruction) error {
	count := int(ins.x) + 1
	if err := vm.checkRange(vm.regI, count); err != nil {
		return err
	}
	copy(vm.memory[vm.regI:], vm.regV[:count])
	vm.regI += uint16(count)
	vm.pc += 2
	return nil
}

// LD Vx, [I]
func (vm *C8VM) ldVxI(ins instruction) error {
	count := int(ins.x) + 1
	if err := vm.checkRange(vm.regI, count); err != nil {
		return err
	}
	copy(vm.regV[:count], vm.memory[vm.regI:])
	vm.regI += uint16(count)
	vm.pc += 2
	return nil
}

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
