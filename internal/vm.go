package internal

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// CHIP-8 VM constants
const (
	totalMemory    = 0x1000
	pcStartAddr    = 0x200
	maxProgramSize = totalMemory - pcStartAddr
	stackDepth     = 16
	fontSize       = 5 // bytes per glyph

	// TimerPeriod is the wall-clock interval between two timer decrements (60Hz)
	TimerPeriod  = time.Second / 60
	ScreenWidth  = 64
	ScreenHeight = 32
	KeyCount     = 16
)

// C8VM is an emulated CHIP-8 VM
type C8VM struct {
	opcode     uint16             // 16-bit opcode of the current instruction
	regV       [16]uint8          // 16 general purpose 8-bit registers
	regI       uint16             // 16-bit register that is generally used to store memory addresses
	delayTimer uint8              // Delay timer
	soundTimer uint8              // Sound timer
	pc         uint16             // Program counter
	sp         uint8              // Stack pointer
	stack      [stackDepth]uint16 // A stack of 16 16-bit values
	memory     [totalMemory]uint8 // 4 KB global memory

	rom []byte // program image as last loaded

	prevTime time.Time // time of the last timer tick
	cycles   uint64

	drawFlag    bool  // Display changed since the consumer last redrew
	awaitingKey bool  // Fx0A is stalled until a key is held
	fault       error // set once a fatal fault halts the VM

	// A 16-bit integer to hold the current key values in the form of individual bits.
	// So when 0 is pushed in the keypad, the 0'th bit will be set and so on.
	key uint16

	// 64 px x 32 px display
	pixels [ScreenWidth][ScreenHeight]uint8

	opts   Options
	logger *log.Logger
	clock  func() time.Time
	random *rand.Rand
}

var fontset = [16 * fontSize]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// NewC8VM creates a new instance of an emulated CHIP-8 VM in its power-on state
func NewC8VM(opts Options) *C8VM {
	vm := &C8VM{
		opts:   opts,
		logger: opts.logger(),
		clock:  opts.clock(),
		random: opts.random(),
	}
	vm.Reset()
	return vm
}

// Reset restores every register, timer, the stack, memory, the display and the
// keypad to their power-on defaults and reloads the font glyphs. The last loaded
// ROM image is kept so that it can be loaded again.
func (vm *C8VM) Reset() {
	vm.opcode = 0
	vm.regV = [16]uint8{}
	vm.regI = 0
	vm.delayTimer = 0
	vm.soundTimer = 0
	vm.pc = pcStartAddr
	vm.sp = 0
	vm.stack = [stackDepth]uint16{}
	vm.memory = [totalMemory]uint8{}
	copy(vm.memory[:], fontset[:])

	vm.prevTime = vm.clock()
	vm.cycles = 0
	vm.drawFlag = true
	vm.awaitingKey = false
	vm.fault = nil
	vm.key = 0
	vm.pixels = [ScreenWidth][ScreenHeight]uint8{}
}

// LoadProgram resets the VM and copies the program into memory at 0x200. A
// program that does not fit is rejected before any state changes.
func (vm *C8VM) LoadProgram(data []byte) error {
	size := len(data)
	if size > maxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrProgramTooLarge, size, maxProgramSize)
	}

	rom := make([]byte, size)
	copy(rom, data)

	vm.Reset()
	copy(vm.memory[pcStartAddr:], rom)
	vm.rom = rom

	vm.logger.Debug("Program loaded", log.Int("size", size))
	return nil
}

// LoadProgramFile reads a CHIP-8 program from disk and loads it into the VM's memory
func (vm *C8VM) LoadProgramFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	if err := vm.LoadProgram(data); err != nil {
		return fmt.Errorf("loading program '%s': %w", filename, err)
	}
	return nil
}

// ROM returns a copy of the program image as it was loaded
func (vm *C8VM) ROM() []byte {
	rom := make([]byte, len(vm.rom))
	copy(rom, vm.rom)
	return rom
}

// Memory returns a copy of the 4 KB memory
func (vm *C8VM) Memory() [totalMemory]uint8 {
	return vm.memory
}

// Register returns the value of Vx
func (vm *C8VM) Register(x uint8) uint8 {
	return vm.regV[x&0xF]
}

// IndexRegister returns the value of I
func (vm *C8VM) IndexRegister() uint16 {
	return vm.regI
}

// PC returns the program counter
func (vm *C8VM) PC() uint16 {
	return vm.pc
}

// DelayTimer returns the value of DT
func (vm *C8VM) DelayTimer() uint8 {
	return vm.delayTimer
}

// SoundTimer returns the value of ST
func (vm *C8VM) SoundTimer() uint8 {
	return vm.soundTimer
}

// SoundActive returns whether the sound timer is running, for frontends that
// play a continuous tone rather than reacting to sound edges.
func (vm *C8VM) SoundActive() bool {
	return vm.soundTimer > 0
}

// AwaitingKey returns whether execution is stalled on a Fx0A key wait
func (vm *C8VM) AwaitingKey() bool {
	return vm.awaitingKey
}

// Halted returns the fatal fault that stopped the VM, or nil
func (vm *C8VM) Halted() error {
	return vm.fault
}

// Cycles returns the number of cycles executed since the last reset
func (vm *C8VM) Cycles() uint64 {
	return vm.cycles
}
