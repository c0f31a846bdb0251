package internal

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Disassemble returns the mnemonic of an opcode followed by its operands, such
// as "V1, V2, $5" for a DRW. Opcodes that are not part of the instruction set
// are rendered as a data word.
func Disassemble(opcode uint16) string {
	ins := lookupInstruction(opcode)
	if ins == nil {
		return fmt.Sprintf("DW $%04X", opcode)
	}
	if params := operands(decode(opcode)); params != "" {
		return fmt.Sprintf("%s %s", ins.Name, params)
	}
	return ins.Name
}

func lookupInstruction(opcode uint16) *chip8.Instruction {
	for _, op := range chip8.Opcodes[int(opcode>>12)] {
		if op.Info.Mask&opcode == op.Info.Value {
			return op.Instruction
		}
	}
	return nil
}

func operands(ins instruction) string {
	switch ins.opcode & 0xF000 {
	case 0x0000:
		return ""
	case 0x1000, 0x2000:
		return fmt.Sprintf("$%03X", ins.nnn())
	case 0x3000, 0x4000, 0x6000, 0x7000, 0xC000:
		return fmt.Sprintf("V%X, $%02X", ins.x, ins.kk())
	case 0x5000, 0x9000:
		return fmt.Sprintf("V%X, V%X", ins.x, ins.y)
	case 0x8000:
		if n := ins.n(); n == 0x6 || n == 0xE {
			return fmt.Sprintf("V%X", ins.x)
		}
		return fmt.Sprintf("V%X, V%X", ins.x, ins.y)
	case 0xA000:
		return fmt.Sprintf("I, $%03X", ins.nnn())
	case 0xB000:
		return fmt.Sprintf("V0, $%03X", ins.nnn())
	case 0xD000:
		return fmt.Sprintf("V%X, V%X, $%X", ins.x, ins.y, ins.n())
	case 0xE000:
		return fmt.Sprintf("V%X", ins.x)
	}

	switch ins.kk() {
	case 0x07:
		return fmt.Sprintf("V%X, DT", ins.x)
	case 0x0A:
		return fmt.Sprintf("V%X, K", ins.x)
	case 0x15:
		return fmt.Sprintf("DT, V%X", ins.x)
	case 0x18:
		return fmt.Sprintf("ST, V%X", ins.x)
	case 0x1E:
		return fmt.Sprintf("I, V%X", ins.x)
	case 0x29:
		return fmt.Sprintf("F, V%X", ins.x)
	case 0x33:
		return fmt.Sprintf("B, V%X", ins.x)
	case 0x55:
		return fmt.Sprintf("[I], V%X", ins.x)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", ins.x)
	}
	return ""
}
