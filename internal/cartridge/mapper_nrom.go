package cartridge

// nrom implements mapper 0 (NROM): no bank switching. PRG-ROM is 16KB or
// 32KB; the 16KB case mirrors across $8000-$FFFF. CHR is a fixed 8KB bank
// (ROM or RAM). See spec.md §4.3.
type nrom struct {
	cart   *Cartridge
	prgLen int
}

func newNROM(c *Cartridge) *nrom {
	return &nrom{cart: c, prgLen: len(c.PRG)}
}

func (m *nrom) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if len(m.cart.PRGRAM) == 0 {
			return 0
		}
		return m.cart.PRGRAM[int(addr-0x6000)%len(m.cart.PRGRAM)]
	case addr >= 0x8000:
		off := int(addr-0x8000) % m.prgLen
		return m.cart.PRG[off]
	default:
		return 0
	}
}

func (m *nrom) CPUWrite(addr uint16, value uint8) {
	if addr >= 0x6000 && addr < 0x8000 && len(m.cart.PRGRAM) > 0 {
		m.cart.PRGRAM[int(addr-0x6000)%len(m.cart.PRGRAM)] = value
	}
	// Writes to PRG-ROM space are discarded: NROM has no registers.
}

func (m *nrom) PPURead(addr uint16) uint8 {
	addr &= 0x1FFF
	if int(addr) >= len(m.cart.CHR) {
		return 0
	}
	return m.cart.CHR[addr]
}

func (m *nrom) PPUWrite(addr uint16, value uint8) {
	if !m.cart.ChrIsRAM {
		return
	}
	addr &= 0x1FFF
	if int(addr) < len(m.cart.CHR) {
		m.cart.CHR[addr] = value
	}
}

func (m *nrom) MirrorMode() MirrorMode {
	return m.cart.Mirror
}
