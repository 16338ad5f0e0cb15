package cpu

import (
	"fmt"
	"io"
)

// writeTraceLine emits one nestest-style disassembly line using the
// pre-advance PC and the pre-execute register file, per spec.md §6. Column
// widths are fixed; callers comparing against reference logs are expected
// to tolerate harmless formatting differences in operand rendering.
func writeTraceLine(w io.Writer, cpu *CPU, bus Bus, pc uint16, op uint8, instr *instruction) {
	bytes := []uint8{op}
	switch instr.bytes {
	case 2:
		bytes = append(bytes, cpu.opcode8)
	case 3:
		bytes = append(bytes, uint8(cpu.opcode16), uint8(cpu.opcode16>>8))
	}

	var dump string
	for _, b := range bytes {
		dump += fmt.Sprintf("%02X ", b)
	}
	for len(dump) < 9 {
		dump += " "
	}

	mnemonic := instr.name
	if mnemonic == "" {
		mnemonic = "???"
	}
	operand := renderOperand(cpu, instr, pc)
	disasm := mnemonic
	if operand != "" {
		disasm += " " + operand
	}
	for len(disasm) < 30 {
		disasm += " "
	}

	fmt.Fprintf(w, "%04X  %s %sA:%02X X:%02X Y:%02X P:%02X SP:%02X\n",
		pc, dump, disasm, cpu.A, cpu.X, cpu.Y, cpu.pack(false), cpu.S)
}

func renderOperand(cpu *CPU, instr *instruction, pc uint16) string {
	switch instr.mode {
	case Implied:
		return ""
	case Accumulator:
		return "A"
	case Immediate:
		return fmt.Sprintf("#$%02X", cpu.opcode8)
	case ZeroPage:
		return fmt.Sprintf("$%02X", cpu.opcode8)
	case ZeroPageX:
		return fmt.Sprintf("$%02X,X", cpu.opcode8)
	case ZeroPageY:
		return fmt.Sprintf("$%02X,Y", cpu.opcode8)
	case Absolute:
		return fmt.Sprintf("$%04X", cpu.opcode16)
	case AbsoluteX:
		return fmt.Sprintf("$%04X,X", cpu.opcode16)
	case AbsoluteY:
		return fmt.Sprintf("$%04X,Y", cpu.opcode16)
	case Indirect:
		return fmt.Sprintf("($%04X)", cpu.opcode16)
	case IndirectX:
		return fmt.Sprintf("($%02X,X)", cpu.opcode8)
	case IndirectY:
		return fmt.Sprintf("($%02X),Y", cpu.opcode8)
	case Relative:
		target := uint16(int32(pc) + int32(instr.bytes) + int32(int8(cpu.opcode8)))
		return fmt.Sprintf("$%04X", target)
	default:
		return ""
	}
}
