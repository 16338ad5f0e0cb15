package cpu

// AddressingMode tags how an instruction's operand bytes resolve to an
// effective address. See spec.md §4.2.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX
	IndirectY
	Relative
)

// address resolves the effective address for the current instruction's
// cached operand bytes. Implied, Accumulator and Immediate modes have no
// meaningful address and are handled separately by read/write.
func (cpu *CPU) address(bus Bus, mode AddressingMode) uint16 {
	switch mode {
	case ZeroPage:
		return uint16(cpu.opcode8)
	case ZeroPageX:
		return uint16(cpu.opcode8 + cpu.X)
	case ZeroPageY:
		return uint16(cpu.opcode8 + cpu.Y)
	case Absolute:
		return cpu.opcode16
	case AbsoluteX:
		return cpu.opcode16 + uint16(cpu.X)
	case AbsoluteY:
		return cpu.opcode16 + uint16(cpu.Y)
	case Indirect:
		return cpu.readPointerBuggy(bus, cpu.opcode16)
	case IndirectX:
		ptr := cpu.opcode8 + cpu.X
		lo := uint16(bus.Read(uint16(ptr)))
		hi := uint16(bus.Read(uint16(ptr + 1)))
		return hi<<8 | lo
	case IndirectY:
		lo := uint16(bus.Read(uint16(cpu.opcode8)))
		hi := uint16(bus.Read(uint16(cpu.opcode8 + 1)))
		return (hi<<8 | lo) + uint16(cpu.Y)
	case Relative:
		offset := int8(cpu.opcode8)
		return uint16(int32(cpu.PC) + int32(offset))
	default:
		return 0
	}
}

// readPointerBuggy reproduces the JMP ($xxFF) page-wrap bug: when the
// pointer's low byte is $FF, the high byte is fetched from the start of the
// same page instead of the next page.
func (cpu *CPU) readPointerBuggy(bus Bus, ptr uint16) uint16 {
	lo := uint16(bus.Read(ptr))
	var hiAddr uint16
	if ptr&0x00FF == 0x00FF {
		hiAddr = ptr & 0xFF00
	} else {
		hiAddr = ptr + 1
	}
	hi := uint16(bus.Read(hiAddr))
	return hi<<8 | lo
}

// read fetches the operand value for modes that read a value (as opposed to
// only an address), handling Accumulator and Immediate directly.
func (cpu *CPU) read(bus Bus, mode AddressingMode) uint8 {
	switch mode {
	case Accumulator:
		return cpu.A
	case Immediate:
		return cpu.opcode8
	default:
		return bus.Read(cpu.address(bus, mode))
	}
}

// write stores a value for modes that support a write-back destination.
func (cpu *CPU) write(bus Bus, mode AddressingMode, v uint8) {
	if mode == Accumulator {
		cpu.A = v
		return
	}
	bus.Write(cpu.address(bus, mode), v)
}
