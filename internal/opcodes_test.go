package internal

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	ins := decode(0xD12A)
	assert.Equal(t, uint8(0x1), ins.x)
	assert.Equal(t, uint8(0x2), ins.y)
	assert.Equal(t, uint8(0xA), ins.n())
	assert.Equal(t, uint8(0x2A), ins.kk())
	assert.Equal(t, uint16(0x12A), ins.nnn())
}

func TestALU(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		vx, vy uint8
		wantVx uint8
		wantVF uint8
	}{
		{"LD Vx, Vy", 0x8120, 0x11, 0x22, 0x22, 0},
		{"OR", 0x8121, 0xF0, 0x0F, 0xFF, 0},
		{"AND", 0x8122, 0xF3, 0x3F, 0x33, 0},
		{"XOR", 0x8123, 0xFF, 0x0F, 0xF0, 0},
		{"ADD with carry", 0x8124, 0xFE, 0x04, 0x02, 1},
		{"ADD without carry", 0x8124, 0x10, 0x0F, 0x1F, 0},
		{"ADD exactly 255", 0x8124, 0xF0, 0x0F, 0xFF, 0},
		{"SUB no borrow", 0x8125, 0x05, 0x03, 0x02, 1},
		{"SUB equal operands", 0x8125, 0x05, 0x05, 0x00, 1},
		{"SUB borrow", 0x8125, 0x03, 0x05, 0xFE, 0},
		{"SHR odd", 0x8126, 0x05, 0x00, 0x02, 1},
		{"SHR even", 0x8126, 0x04, 0x00, 0x02, 0},
		{"SUBN no borrow", 0x8127, 0x01, 0x02, 0x01, 1},
		{"SUBN borrow", 0x8127, 0x02, 0x01, 0xFF, 0},
		{"SHL high bit", 0x812E, 0x81, 0x00, 0x02, 1},
		{"SHL clear high bit", 0x812E, 0x41, 0x00, 0x82, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(t, byte(tt.opcode>>8), byte(tt.opcode))
			vm.regV[1] = tt.vx
			vm.regV[2] = tt.vy
			vm.regV[0xF] = 0xAA

			assert.Equal(t, ResultExecuted, mustStep(t, vm))
			assert.Equal(t, tt.wantVx, vm.regV[1])
			if tt.opcode&0x000F >= 0x4 {
				assert.Equal(t, tt.wantVF, vm.regV[0xF])
			} else {
				assert.Equal(t, uint8(0xAA), vm.regV[0xF])
			}
			assert.Equal(t, uint16(0x202), vm.pc)
		})
	}
}

func TestALUFlagRegisterAsDestination(t *testing.T) {
	// ADD VF, V1: the carry flag wins over the sum
	vm := newTestVM(t, 0x8F, 0x14)
	vm.regV[0xF] = 0xFF
	vm.regV[1] = 0x02
	mustStep(t, vm)
	assert.Equal(t, uint8(1), vm.regV[0xF])
}

func TestAddImmediateWrapsWithoutFlag(t *testing.T) {
	for _, before := range []uint8{0x00, 0x7F, 0xFF} {
		vm := newTestVM(t, 0x73, 0x81)
		vm.regV[3] = before
		vm.regV[0xF] = 0x55
		mustStep(t, vm)
		assert.Equal(t, before+0x81, vm.regV[3])
		assert.Equal(t, uint8(0x55), vm.regV[0xF])
	}
}

func TestConditionalSkips(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		vx, vy uint8
		wantPC uint16
	}{
		{"SE taken", 0x3142, 0x42, 0, 0x204},
		{"SE not taken", 0x3142, 0x41, 0, 0x202},
		{"SNE taken", 0x4142, 0x41, 0, 0x204},
		{"SNE not taken", 0x4142, 0x42, 0, 0x202},
		{"SE reg taken", 0x5120, 0x07, 0x07, 0x204},
		{"SE reg not taken", 0x5120, 0x07, 0x08, 0x202},
		{"SNE reg taken", 0x9120, 0x07, 0x08, 0x204},
		{"SNE reg not taken", 0x9120, 0x07, 0x07, 0x202},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(t, byte(tt.opcode>>8), byte(tt.opcode))
			vm.regV[1] = tt.vx
			vm.regV[2] = tt.vy
			mustStep(t, vm)
			assert.Equal(t, tt.wantPC, vm.pc)
		})
	}
}

func TestKeySkips(t *testing.T) {
	vm := newTestVM(t, 0xE1, 0x9E, 0x00, 0x00, 0xE1, 0xA1)
	vm.regV[1] = 0xA
	vm.SetKey(0xA, true)

	mustStep(t, vm)
	assert.Equal(t, uint16(0x204), vm.pc)

	vm.SetKey(0xA, false)
	mustStep(t, vm)
	assert.Equal(t, uint16(0x208), vm.pc)
}

func TestJumps(t *testing.T) {
	vm := newTestVM(t, 0x13, 0x45)
	mustStep(t, vm)
	assert.Equal(t, uint16(0x345), vm.pc)

	vm = newTestVM(t, 0xB3, 0x00)
	vm.regV[0] = 0x10
	mustStep(t, vm)
	assert.Equal(t, uint16(0x310), vm.pc)
}

func TestCallAndReturn(t *testing.T) {
	program := make([]byte, 0x12)
	program[0x00], program[0x01] = 0x22, 0x10
	program[0x10], program[0x11] = 0x00, 0xEE
	vm := newTestVM(t, program...)

	mustStep(t, vm)
	assert.Equal(t, uint16(0x210), vm.pc)
	assert.Equal(t, []uint16{0x202}, vm.CallStack())

	mustStep(t, vm)
	assert.Equal(t, uint16(0x202), vm.pc)
	assert.Equal(t, 0, len(vm.CallStack()))
}

func TestStackOverflow(t *testing.T) {
	vm := newTestVM(t, 0x22, 0x00) // CALL 0x200

	for i := 0; i < stackDepth; i++ {
		mustStep(t, vm)
	}

	result, err := vm.Step()
	assert.Equal(t, ResultHalted, result)
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, uint8(stackDepth), vm.sp)
	assert.Equal(t, uint16(0x200), vm.pc)

	var fault *Fault
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, uint16(0x200), fault.PC)
	assert.Equal(t, uint16(0x2200), fault.Opcode)

	// halted until reset
	_, err = vm.Step()
	assert.True(t, errors.Is(err, ErrStackOverflow))
	vm.Reset()
	assert.NoError(t, vm.Halted())
}

func TestStackUnderflow(t *testing.T) {
	vm := newTestVM(t, 0x00, 0xEE)
	result, err := vm.Step()
	assert.Equal(t, ResultHalted, result)
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, uint16(0x200), vm.pc)
}

func TestClearScreen(t *testing.T) {
	vm := newTestVM(t, 0x00, 0xE0)
	for x := range vm.pixels {
		for y := range vm.pixels[x] {
			vm.pixels[x][y] = 1
		}
	}
	vm.UnsetDrawFlag()

	mustStep(t, vm)
	assert.Equal(t, 0, litPixels(vm))
	assert.True(t, vm.IsDrawFlagSet())
	assert.Equal(t, uint16(0x202), vm.pc)
}

func TestLoadIndexAndFont(t *testing.T) {
	vm := newTestVM(t, 0xA1, 0x23, 0xF4, 0x29)
	vm.regV[4] = 0xB

	mustStep(t, vm)
	assert.Equal(t, uint16(0x123), vm.regI)

	mustStep(t, vm)
	assert.Equal(t, uint16(0xB*fontSize), vm.regI)
	assert.Equal(t, uint8(0xE0), vm.memory[vm.regI])
}

func TestRandomMasksByte(t *testing.T) {
	vm, _ := newTestVMWithOptions(t, Options{Rand: rand.New(rand.NewSource(42))}, 0xC1, 0xF0)
	expected := uint8(rand.New(rand.NewSource(42)).Intn(256)) & 0xF0

	mustStep(t, vm)
	assert.Equal(t, expected, vm.regV[1])
	assert.Equal(t, uint8(0), vm.regV[1]&0x0F)
}

func TestBCD(t *testing.T) {
	vm := newTestVM(t, 0xA3, 0x00, 0xF1, 0x33)
	vm.regV[1] = 254

	mustStep(t, vm)
	mustStep(t, vm)
	assert.Equal(t, uint8(2), vm.memory[0x300])
	assert.Equal(t, uint8(5), vm.memory[0x301])
	assert.Equal(t, uint8(4), vm.memory[0x302])
	assert.Equal(t, uint16(0x204), vm.pc)
}

func TestRegisterBlockStoreAndLoad(t *testing.T) {
	vm := newTestVM(t, 0xF2, 0x55, 0xF2, 0x65)
	vm.regI = 0x300
	vm.regV[0], vm.regV[1], vm.regV[2], vm.regV[3] = 1, 2, 3, 9

	mustStep(t, vm)
	assert.Equal(t, []uint8{1, 2, 3, 0}, vm.memory[0x300:0x304])
	assert.Equal(t, uint16(0x303), vm.regI)

	vm.regI = 0x300
	vm.regV = [16]uint8{}
	mustStep(t, vm)
	assert.Equal(t, uint8(1), vm.regV[0])
	assert.Equal(t, uint8(2), vm.regV[1])
	assert.Equal(t, uint8(3), vm.regV[2])
	assert.Equal(t, uint8(0), vm.regV[3])
	assert.Equal(t, uint16(0x303), vm.regI)
}

func TestRegisterBlockStoreOutOfRange(t *testing.T) {
	vm := newTestVM(t, 0xF3, 0x55)
	vm.regI = 0xFFE

	_, err := vm.Step()
	assert.True(t, errors.Is(err, ErrAddressRange))
	assert.Equal(t, uint16(0xFFE), vm.regI)
	assert.Equal(t, uint8(0), vm.memory[0xFFE])
}

func TestAddIndex(t *testing.T) {
	vm := newTestVM(t, 0xF1, 0x1E)
	vm.regI = 0x100
	vm.regV[1] = 0x20
	mustStep(t, vm)
	assert.Equal(t, uint16(0x120), vm.regI)

	vm = newTestVM(t, 0xF1, 0x1E)
	vm.regI = 0xFFE
	vm.regV[1] = 0x04
	result, err := vm.Step()
	assert.Equal(t, ResultHalted, result)
	assert.True(t, errors.Is(err, ErrIndexOverflow))
	assert.Equal(t, uint16(0xFFE), vm.regI)

	vm, _ = newTestVMWithOptions(t, Options{AllowIndexOverflow: true}, 0xF1, 0x1E)
	vm.regI = 0xFFE
	vm.regV[1] = 0x04
	mustStep(t, vm)
	assert.Equal(t, uint16(0x1002), vm.regI)
}

func TestTimerRegisters(t *testing.T) {
	vm := newTestVM(t, 0xF1, 0x15, 0xF2, 0x18, 0xF3, 0x07)
	vm.regV[1] = 0x30
	vm.regV[2] = 0x40

	mustStep(t, vm)
	mustStep(t, vm)
	mustStep(t, vm)
	assert.Equal(t, uint8(0x30), vm.DelayTimer())
	assert.Equal(t, uint8(0x40), vm.SoundTimer())
	assert.Equal(t, uint8(0x30), vm.regV[3])
}

func TestWaitForKey(t *testing.T) {
	vm := newTestVM(t, 0xF3, 0x0A)

	for i := 0; i < 5; i++ {
		assert.Equal(t, ResultAwaitingKey, mustStep(t, vm))
		assert.Equal(t, uint16(0x200), vm.pc)
		assert.True(t, vm.AwaitingKey())
	}

	vm.SetKey(0x7, true)
	vm.SetKey(0xC, true)
	assert.Equal(t, ResultExecuted, mustStep(t, vm))
	assert.Equal(t, uint8(0x7), vm.regV[3])
	assert.Equal(t, uint16(0x202), vm.pc)
	assert.False(t, vm.AwaitingKey())
}

func TestUnknownOpcodes(t *testing.T) {
	opcodes := []uint16{0x0123, 0x01E0, 0x5121, 0x8128, 0x9121, 0xE1FF, 0xF1FF}

	for _, opcode := range opcodes {
		vm := newTestVM(t, byte(opcode>>8), byte(opcode))
		result, err := vm.Step()
		assert.NoError(t, err)
		assert.Equal(t, ResultUnknownOpcode, result)
		assert.Equal(t, uint16(0x202), vm.pc)
		assert.NoError(t, vm.Halted())
	}
}

func TestFetchOutOfRange(t *testing.T) {
	vm := newTestVM(t, 0x1F, 0xFF) // JP 0xFFF
	mustStep(t, vm)

	result, err := vm.Step()
	assert.Equal(t, ResultHalted, result)
	assert.True(t, errors.Is(err, ErrAddressRange))
}
