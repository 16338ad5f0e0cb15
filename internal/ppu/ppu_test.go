package ppu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nesgo/internal/cartridge"
)

type mockMapper struct {
	chr    [0x2000]uint8
	mirror cartridge.MirrorMode
}

func (m *mockMapper) CPURead(addr uint16) uint8     { return 0 }
func (m *mockMapper) CPUWrite(addr uint16, v uint8) {}
func (m *mockMapper) PPURead(addr uint16) uint8     { return m.chr[addr&0x1FFF] }
func (m *mockMapper) PPUWrite(addr uint16, v uint8) { m.chr[addr&0x1FFF] = v }
func (m *mockMapper) MirrorMode() cartridge.MirrorMode { return m.mirror }

func newTestPPU(mirror cartridge.MirrorMode) (*PPU, *mockMapper) {
	m := &mockMapper{mirror: mirror}
	p := New(m)
	p.Reset()
	return p, m
}

// Palette aliasing: $3F10/$3F14/$3F18/$3F1C mirror $3F00/$3F04/$3F08/$3F0C.
func TestPaletteBackdropAliasing(t *testing.T) {
	p, _ := newTestPPU(cartridge.MirrorHorizontal)
	p.writePalette(0x3F00, 0x0F)
	require.Equal(t, uint8(0x0F), p.readPalette(0x3F10))

	p.writePalette(0x3F14, 0x20)
	require.Equal(t, uint8(0x20), p.readPalette(0x3F04))
}

func TestPPUAddrDataRoundTrip(t *testing.T) {
	p, m := newTestPPU(cartridge.MirrorVertical)
	m.chr[0x0010] = 0x77

	p.WriteRegister(0x2006, 0x00)
	p.WriteRegister(0x2006, 0x10) // v = $0010, pattern table space
	p.ReadRegister(0x2007) // returns the stale buffered byte, buffers $0010's byte
	v := p.ReadRegister(0x2007)
	require.Equal(t, uint8(0x77), v, "second read returns the buffered pattern-table byte")
}

func TestPPUDataWriteGoesThroughToNametableRAM(t *testing.T) {
	p, _ := newTestPPU(cartridge.MirrorVertical)
	p.WriteRegister(0x2006, 0x20)
	p.WriteRegister(0x2006, 0x05)
	p.WriteRegister(0x2007, 0x42)
	require.Equal(t, uint8(0x42), p.nametable[p.mirrorIndex(0x2005)])
}

// Vertical mirroring: $2000 and $2800 alias the same physical bank; $2000
// and $2400 do not.
func TestVerticalMirroring(t *testing.T) {
	p, _ := newTestPPU(cartridge.MirrorVertical)
	require.Equal(t, p.mirrorIndex(0x2000), p.mirrorIndex(0x2800))
	require.NotEqual(t, p.mirrorIndex(0x2000), p.mirrorIndex(0x2400))
}

// Horizontal mirroring: $2000 and $2400 alias; $2000 and $2800 do not.
func TestHorizontalMirroring(t *testing.T) {
	p, _ := newTestPPU(cartridge.MirrorHorizontal)
	require.Equal(t, p.mirrorIndex(0x2000), p.mirrorIndex(0x2400))
	require.NotEqual(t, p.mirrorIndex(0x2000), p.mirrorIndex(0x2800))
}

func TestSingleScreenMirroringAliasesAllFourTables(t *testing.T) {
	p, _ := newTestPPU(cartridge.MirrorSingleLower)
	a := p.mirrorIndex(0x2000)
	require.Equal(t, a, p.mirrorIndex(0x2400))
	require.Equal(t, a, p.mirrorIndex(0x2800))
	require.Equal(t, a, p.mirrorIndex(0x2C00))
}

// Open-bus artefact: any register write latches the byte, and reads of
// write-only registers (plus the unused low bits of $2002) return it.
func TestOpenBusArtefactFromLastWrite(t *testing.T) {
	p, _ := newTestPPU(cartridge.MirrorHorizontal)

	p.WriteRegister(0x2000, 0xA5)
	require.Equal(t, uint8(0xA5), p.ReadRegister(0x2001), "PPUMASK is write-only")
	require.Equal(t, uint8(0xA5)&0x1F, p.ReadRegister(0x2002)&0x1F, "low 5 bits of PPUSTATUS are the artefact")

	p.WriteRegister(0x2005, 0x3C)
	require.Equal(t, uint8(0x3C), p.ReadRegister(0x2000), "PPUCTRL is write-only")
}

func TestVBlankSetAndClearedAtScanlineBoundaries(t *testing.T) {
	p, _ := newTestPPU(cartridge.MirrorHorizontal)
	nmiCount := 0
	p.NMI = func() { nmiCount++ }
	p.ctrl = ctrlNMIEnable

	for p.scanline != 241 || p.dot != 1 {
		p.Step()
	}
	require.True(t, p.status&statusVBlank != 0)
	require.Equal(t, 1, nmiCount)

	for p.scanline != -1 || p.dot != 1 {
		p.Step()
	}
	require.Zero(t, p.status&statusVBlank)
}
