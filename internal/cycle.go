package internal

import (
	"errors"

	"github.com/retroenv/retrogolib/log"
)

// Result describes how a cycle ended.
type Result int

// Cycle results. Fatal faults are reported as ResultHalted together with a
// *Fault error.
const (
	ResultExecuted Result = iota
	ResultUnknownOpcode
	ResultAwaitingKey
	ResultHalted
)

func (r Result) String() string {
	switch r {
	case ResultExecuted:
		return "executed"
	case ResultUnknownOpcode:
		return "unknown opcode"
	case ResultAwaitingKey:
		return "awaiting key"
	case ResultHalted:
		return "halted"
	}
	return "unknown result"
}

// Snapshot is a copy of the register file, stack and timers taken after a cycle
type Snapshot struct {
	PC          uint16
	I           uint16
	V           [16]uint8
	Stack       [stackDepth]uint16
	SP          uint8
	DelayTimer  uint8
	SoundTimer  uint8
	Opcode      uint16 // last executed opcode
	AwaitingKey bool
	Cycles      uint64
}

// CallStack returns the saved return addresses, oldest first
func (s Snapshot) CallStack() []uint16 {
	return s.Stack[:s.SP]
}

// Snapshot returns a copy of the VM's registers, stack and timers
func (vm *C8VM) Snapshot() Snapshot {
	return Snapshot{
		PC:          vm.pc,
		I:           vm.regI,
		V:           vm.regV,
		Stack:       vm.stack,
		SP:          vm.sp,
		DelayTimer:  vm.delayTimer,
		SoundTimer:  vm.soundTimer,
		Opcode:      vm.opcode,
		AwaitingKey: vm.awaitingKey,
		Cycles:      vm.cycles,
	}
}

// Step runs exactly one fetch, decode and execute cycle and then services the
// timers. An unknown opcode is skipped and reported through the result. Any
// other error is a *Fault that halts the VM until it is reset.
func (vm *C8VM) Step() (Result, error) {
	if vm.fault != nil {
		return ResultHalted, vm.fault
	}

	pc := vm.pc
	opcode, err := vm.fetch()
	if err != nil {
		return vm.halt(pc, vm.opcode, err)
	}
	vm.opcode = opcode

	result := ResultExecuted
	if err := dispatch(vm, decode(opcode)); err != nil {
		if !errors.Is(err, ErrUnknownOpcode) {
			return vm.halt(pc, opcode, err)
		}
		vm.logger.Warn("Unknown opcode",
			log.Hex("address", pc),
			log.Hex("opcode", opcode))
		vm.pc += 2
		result = ResultUnknownOpcode
	} else if vm.awaitingKey {
		result = ResultAwaitingKey
	}

	vm.cycles++
	vm.tickTimers()

	if vm.opts.DebugHook != nil {
		vm.opts.DebugHook.OnCycle(vm.Snapshot())
	}
	return result, nil
}

func (vm *C8VM) halt(pc, opcode uint16, err error) (Result, error) {
	vm.fault = &Fault{
		PC:     pc,
		Opcode: opcode,
		Err:    err,
	}
	vm.logger.Warn("VM halted", log.Err(vm.fault))
	return ResultHalted, vm.fault
}
