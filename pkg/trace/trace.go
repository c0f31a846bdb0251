// Package trace implements a VM debug hook that logs every executed
// instruction together with the register file.
package trace

import (
	"fmt"
	"strings"

	"github.com/mnafees/chopper/internal"
	"github.com/retroenv/retrogolib/log"
)

// Tracer logs one debug entry per cycle. The opcode is disassembled and the
// registers are formatted as a single line, the way the debug panel of a
// frontend would show them.
type Tracer struct {
	logger *log.Logger
	last   internal.Snapshot
}

// New returns a tracer that writes to logger
func New(logger *log.Logger) *Tracer {
	return &Tracer{
		logger: logger,
	}
}

// OnCycle implements the internal.DebugHook interface.
func (tr *Tracer) OnCycle(s internal.Snapshot) {
	tr.last = s
	tr.logger.Debug("Cycle",
		log.Hex("pc", s.PC),
		log.Hex("opcode", s.Opcode),
		log.String("instruction", internal.Disassemble(s.Opcode)),
		log.String("registers", Registers(s)))
}

// Registers formats the register file, index, timers and stack depth of a
// snapshot.
func Registers(s internal.Snapshot) string {
	b := strings.Builder{}
	for i, v := range s.V {
		fmt.Fprintf(&b, "V%X:%02X ", i, v)
	}
	fmt.Fprintf(&b, "I:%03X DT:%02X ST:%02X SP:%d", s.I, s.DelayTimer, s.SoundTimer, s.SP)
	return b.String()
}

// Screen renders the display of vm as text, one line per row, with lit pixels
// drawn as '#'.
func Screen(vm *internal.C8VM) string {
	b := strings.Builder{}
	for y := range internal.ScreenHeight {
		for x := range internal.ScreenWidth {
			if vm.Pixel(x, y) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
