package console

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nesgo/internal/cartridge"
)

type countingMapper struct {
	cpuReads, cpuWrites int
	mirror              cartridge.MirrorMode
}

func (m *countingMapper) CPURead(addr uint16) uint8     { m.cpuReads++; return 0 }
func (m *countingMapper) CPUWrite(addr uint16, v uint8) { m.cpuWrites++ }
func (m *countingMapper) PPURead(addr uint16) uint8     { return 0 }
func (m *countingMapper) PPUWrite(addr uint16, v uint8) {}
func (m *countingMapper) MirrorMode() cartridge.MirrorMode { return m.mirror }

// Internal RAM mirroring: the same physical byte is visible at offsets
// 0x000, 0x800, 0x1000, 0x1800 within $0000-$1FFF.
func TestInternalRAMMirroring(t *testing.T) {
	h := New(&countingMapper{})
	h.Write(0x0011, 0x99)
	require.Equal(t, uint8(0x99), h.Read(0x0811))
	require.Equal(t, uint8(0x99), h.Read(0x1011))
	require.Equal(t, uint8(0x99), h.Read(0x1811))
}

// Exactly one mapper access per CPU bus access at or above $4020.
func TestCartridgeSpaceRoutesExactlyOnce(t *testing.T) {
	m := &countingMapper{}
	h := New(m)

	h.Read(0x8000)
	require.Equal(t, 1, m.cpuReads)

	h.Write(0xC000, 0x01)
	require.Equal(t, 1, m.cpuWrites)

	h.Read(0x4020)
	require.Equal(t, 2, m.cpuReads)
}

func TestOAMDMACopiesFullPage(t *testing.T) {
	h := New(&countingMapper{})
	for i := 0; i < 256; i++ {
		h.Write(0x0200+uint16(i), uint8(i))
	}
	h.Write(0x4014, 0x02)
	for i := 0; i < 256; i++ {
		h.PPU.WriteRegister(0x2003, uint8(i))
		require.Equal(t, uint8(i), h.PPU.ReadRegister(0x2004))
	}
}

func TestControllerPortsShareStrobeButReadIndependently(t *testing.T) {
	h := New(&countingMapper{})
	h.Pads.P1.SetButton(0x01, true) // ButtonA
	h.Pads.P2.SetButton(0x02, true) // ButtonB
	h.Write(0x4016, 1)
	h.Write(0x4016, 0)
	require.Equal(t, uint8(1), h.Read(0x4016)&0x01)
	require.Equal(t, uint8(0), h.Read(0x4017)&0x01) // P2 bit 0: A not held
	require.Equal(t, uint8(1), h.Read(0x4017)&0x01) // P2 bit 1: B held
}
