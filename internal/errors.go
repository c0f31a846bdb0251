package internal

import (
	"errors"
	"fmt"
)

// Errors reported by the VM. All of them except ErrUnknownOpcode are fatal to
// the running program and are returned wrapped in a *Fault.
var (
	ErrUnknownOpcode   = errors.New("unknown opcode")
	ErrStackOverflow   = errors.New("stack overflow")
	ErrStackUnderflow  = errors.New("stack underflow")
	ErrAddressRange    = errors.New("address out of range")
	ErrIndexOverflow   = errors.New("index register overflow")
	ErrProgramTooLarge = errors.New("program size exceeds the maximum size")
)

// Fault describes a fatal condition raised while executing an instruction. The
// VM state is left as it was before the faulting instruction.
type Fault struct {
	PC     uint16
	Opcode uint16
	Err    error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("fault at %03X (opcode %04X): %v", f.PC, f.Opcode, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

func addressError(addr uint16, n int) error {
	return fmt.Errorf("%w: %03X+%d", ErrAddressRange, addr, n)
}
