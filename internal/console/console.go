// Package console wires the CPU, PPU, cartridge mapper, APU stub, and
// controller ports into one addressable machine and drives the fixed
// 1-CPU-instruction : 3-PPU-dot tick ratio. See spec.md §4.1 and §5.
package console

import (
	"io"

	"nesgo/internal/apu"
	"nesgo/internal/cartridge"
	"nesgo/internal/cpu"
	"nesgo/internal/input"
	"nesgo/internal/memmap"
	"nesgo/internal/ppu"
)

// Hardware is the "hardware bundle" spec.md §9 calls for: the CPU and PPU
// never hold pointers to each other or to Hardware itself. Hardware
// implements cpu.Bus and is handed to CPU.Step/Reset/RaiseInterrupt fresh
// on every call.
type Hardware struct {
	CPU    *cpu.CPU
	PPU    *ppu.PPU
	Mapper cartridge.Mapper
	APU    apu.Stub
	Pads   input.Pair

	ram [memmap.RAMSize]uint8

	dmaPending bool
	dmaPage    uint8
}

// New builds a Hardware instance for the given cartridge mapper and wires
// the PPU's NMI line back to the CPU.
func New(mapper cartridge.Mapper) *Hardware {
	h := &Hardware{
		CPU:    cpu.New(),
		PPU:    ppu.New(mapper),
		Mapper: mapper,
	}
	h.PPU.NMI = func() { h.CPU.RaiseInterrupt(h, cpu.InterruptNMI) }
	return h
}

// Reset powers on the CPU and PPU.
func (h *Hardware) Reset() {
	h.PPU.Reset()
	h.CPU.Reset(h)
}

// Read implements cpu.Bus: CPU-visible $0000-$FFFF.
func (h *Hardware) Read(addr uint16) uint8 {
	switch {
	case addr <= memmap.RAMEnd:
		return h.ram[addr&memmap.RAMMirrorMask]
	case addr >= memmap.PPURegStart && addr <= memmap.PPURegEnd:
		return h.PPU.ReadRegister(addr)
	case addr == memmap.Controller1:
		return h.Pads.P1.Read()
	case addr == memmap.Controller2:
		return h.Pads.P2.Read() | 0x40
	case addr >= memmap.APUIOStart && addr <= memmap.APUIOEnd:
		return h.APU.Read(addr)
	default:
		return h.Mapper.CPURead(addr)
	}
}

// Write implements cpu.Bus: CPU-visible $0000-$FFFF.
func (h *Hardware) Write(addr uint16, value uint8) {
	switch {
	case addr <= memmap.RAMEnd:
		h.ram[addr&memmap.RAMMirrorMask] = value
	case addr >= memmap.PPURegStart && addr <= memmap.PPURegEnd:
		h.PPU.WriteRegister(addr, value)
	case addr == memmap.OAMDMA:
		h.runOAMDMA(value)
	case addr == memmap.Controller1:
		h.Pads.Write(value)
	case addr >= memmap.APUIOStart && addr <= memmap.APUIOEnd:
		h.APU.Write(addr, value)
	default:
		h.Mapper.CPUWrite(addr, value)
	}
}

// runOAMDMA copies the 256-byte page starting at value*$100 into OAM. Real
// hardware stalls the CPU for 513 or 514 cycles; since this driver steps
// the CPU one full instruction at a time rather than per-cycle, that stall
// is not separately accounted for (see spec.md §9).
func (h *Hardware) runOAMDMA(page uint8) {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		h.PPU.WriteOAMByte(h.Read(base + uint16(i)))
	}
}

// Tick runs exactly one CPU instruction followed by three PPU dots, the
// fixed interleaving spec.md §5 requires. trace, if non-nil, receives one
// disassembly line per CPU instruction.
func (h *Hardware) Tick(trace io.Writer) error {
	if err := h.CPU.Step(h, trace); err != nil {
		return err
	}
	h.PPU.Step()
	h.PPU.Step()
	h.PPU.Step()
	return nil
}

// FrameBuffer-less rendering: Hardware does not own a framebuffer itself.
// SetPixelSink wires the PPU straight to whatever the caller is using to
// present pixels (an ebiten-backed window, or nil for headless runs).
func (h *Hardware) SetPixelSink(sink ppu.PixelSink) {
	h.PPU.Sink = sink
}
