// Package ppu implements the NES Picture Processing Unit (2C02): register
// file, VRAM/OAM/palette state, and the scanline/dot raster that emits
// pixels to a PixelSink. See spec.md §4.4.
package ppu

import "nesgo/internal/cartridge"

// PixelSink receives one fully-resolved pixel at a time as the raster
// advances; it is the PPU's only external collaborator besides the
// cartridge mapper, kept orthogonal so a headless trace run can supply a
// no-op sink at zero cost. See spec.md Glossary, "Pixel sink".
type PixelSink interface {
	SetPixel(x, y int, r, g, b uint8)
}

// Control/mask/status register bit masks.
const (
	ctrlNametableMask  = 0x03
	ctrlIncrement32    = 0x04
	ctrlSpritePattern  = 0x08
	ctrlBGPattern      = 0x10
	ctrlSpriteSize16   = 0x20
	ctrlNMIEnable      = 0x80
	maskShowBGLeft     = 0x02
	maskShowSpriteLeft = 0x04
	maskShowBG         = 0x08
	maskShowSprites    = 0x10
	statusOverflow     = 0x20
	statusSprite0Hit   = 0x40
	statusVBlank       = 0x80
)

// PPU is the whole PPU state: registers, internal scroll latches, OAM,
// palette RAM, and the raster position. Nametable storage is two
// physical 1KB banks; the logical 4 nametables alias onto them per the
// cartridge's mirroring mode, resolved dynamically on every access (see
// spec.md §9 design-note resolution: MMC1 mirror bits apply here too, not
// just the cartridge-fixed mode).
type PPU struct {
	Mapper cartridge.Mapper
	Sink   PixelSink

	// NMI is invoked at the start of vertical blank when ctrl bit 7 is set.
	// Wired by the console driver to CPU.RaiseInterrupt(bus, InterruptNMI).
	NMI func()

	ctrl, mask, status uint8
	oamAddr            uint8

	// openBus is the "open-bus artefact byte": the last value driven onto
	// the $2000-$2007 bus by any register write, decayed reads of
	// write-only registers and the unused low bits of $2002 return this.
	openBus uint8

	oam       [256]uint8
	nametable [2048]uint8
	paletteRAM [32]uint8

	v, t uint16
	x    uint8
	w    bool

	readBuffer uint8

	scanline int // -1 (pre-render) .. 260
	dot      int // 0 .. 340
	oddFrame bool

	frameScrollX, frameScrollY int

	sprites      [8]spriteSlot
	spriteCount  int
	sprite0InRow bool
}

type spriteSlot struct {
	index   int
	y       uint8
	tile    uint8
	attr    uint8
	x       uint8
}

// New constructs a PPU wired to the given cartridge mapper.
func New(mapper cartridge.Mapper) *PPU {
	return &PPU{Mapper: mapper}
}

// Reset establishes power-up register state.
func (p *PPU) Reset() {
	p.ctrl, p.mask = 0, 0
	p.status = 0
	p.oamAddr = 0
	p.v, p.t, p.x = 0, 0, 0
	p.w = false
	p.readBuffer = 0
	p.openBus = 0
	p.scanline = -1
	p.dot = 0
	p.oddFrame = false
}

func (p *PPU) renderingEnabled() bool {
	return p.mask&(maskShowBG|maskShowSprites) != 0
}

// ReadRegister implements the CPU-visible $2000-$2007 read semantics,
// including the open-bus behavior of the write-only registers: a read of
// any write-only register, and the unused low 5 bits of $2002, return
// the openBus artefact byte left by the last register write.
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr & 0x0007 {
	case 2:
		v := (p.status & 0xE0) | (p.openBus & 0x1F)
		p.status &^= statusVBlank
		p.w = false
		return v
	case 4:
		return p.oam[p.oamAddr]
	case 7:
		return p.readPPUData()
	default:
		return p.openBus
	}
}

// WriteRegister implements the CPU-visible $2000-$2007 write semantics.
// Every write, regardless of register, drives the byte onto the shared
// bus latch that decayed/write-only reads observe.
func (p *PPU) WriteRegister(addr uint16, value uint8) {
	p.openBus = value
	switch addr & 0x0007 {
	case 0:
		p.ctrl = value
		p.t = (p.t &^ 0x0C00) | (uint16(value&ctrlNametableMask) << 10)
	case 1:
		p.mask = value
	case 3:
		p.oamAddr = value
	case 4:
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 5:
		p.writeScroll(value)
	case 6:
		p.writeAddr(value)
	case 7:
		p.writePPUData(value)
	}
}

// WriteOAMByte writes one byte at the current OAM address and advances it,
// the path OAM DMA ($4014) drives 256 times per transfer.
func (p *PPU) WriteOAMByte(value uint8) {
	p.oam[p.oamAddr] = value
	p.oamAddr++
}

func (p *PPU) writeScroll(value uint8) {
	if !p.w {
		p.t = (p.t &^ 0x001F) | uint16(value>>3)
		p.x = value & 0x07
	} else {
		p.t = (p.t &^ 0x73E0) | (uint16(value&0x07) << 12) | (uint16(value&0xF8) << 2)
	}
	p.w = !p.w
}

func (p *PPU) writeAddr(value uint8) {
	if !p.w {
		p.t = (p.t &^ 0x7F00) | (uint16(value&0x3F) << 8)
	} else {
		p.t = (p.t &^ 0x00FF) | uint16(value)
		p.v = p.t
	}
	p.w = !p.w
}

func (p *PPU) addrIncrement() uint16 {
	if p.ctrl&ctrlIncrement32 != 0 {
		return 32
	}
	return 1
}

// readPPUData implements the $2007 read buffer: below $3F00 a read returns
// the byte buffered by the previous read and buffers the newly addressed
// byte; palette reads return at once and buffer the nametable byte $1000
// below the palette address.
func (p *PPU) readPPUData() uint8 {
	addr := p.v & 0x3FFF
	var value uint8
	if addr >= 0x3F00 {
		value = p.readPalette(addr)
		p.readBuffer = p.busRead(addr - 0x1000)
	} else {
		value = p.readBuffer
		p.readBuffer = p.busRead(addr)
	}
	p.v += p.addrIncrement()
	return value
}

func (p *PPU) writePPUData(value uint8) {
	addr := p.v & 0x3FFF
	if addr >= 0x3F00 {
		p.writePalette(addr, value)
	} else {
		p.busWrite(addr, value)
	}
	p.v += p.addrIncrement()
}

// busRead/busWrite resolve the PPU's own $0000-$3FFF address space:
// pattern tables through the cartridge mapper, nametables through local
// RAM with mirroring resolved via the mapper's mirror mode.
func (p *PPU) busRead(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		return p.Mapper.PPURead(addr)
	case addr < 0x3F00:
		return p.nametable[p.mirrorIndex(addr)]
	default:
		return p.readPalette(addr)
	}
}

func (p *PPU) busWrite(addr uint16, value uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		p.Mapper.PPUWrite(addr, value)
	case addr < 0x3F00:
		p.nametable[p.mirrorIndex(addr)] = value
	default:
		p.writePalette(addr, value)
	}
}

// mirrorIndex resolves a $2000-$2FFF nametable address into the 2KB
// physical VRAM per the cartridge's current mirror mode.
func (p *PPU) mirrorIndex(addr uint16) uint16 {
	addr = (addr - 0x2000) % 0x1000
	table := addr / 0x0400
	offset := addr % 0x0400

	var bank uint16
	switch p.Mapper.MirrorMode() {
	case cartridge.MirrorHorizontal:
		bank = table / 2
	case cartridge.MirrorVertical:
		bank = table % 2
	case cartridge.MirrorSingleLower:
		bank = 0
	case cartridge.MirrorSingleUpper:
		bank = 1
	default: // four-screen: only 2 physical banks exist, alias pairwise
		bank = table % 2
	}
	return bank*0x0400 + offset
}

func (p *PPU) readPalette(addr uint16) uint8 {
	return p.paletteRAM[paletteIndex(addr)]
}

func (p *PPU) writePalette(addr uint16, value uint8) {
	p.paletteRAM[paletteIndex(addr)] = value & 0x3F
}

// paletteIndex aliases the backdrop-color mirror entries ($10/$14/$18/$1C
// read as $00/$04/$08/$0C), the palette-aliasing property spec.md §8 names.
func paletteIndex(addr uint16) uint16 {
	i := addr & 0x1F
	if i&0x13 == 0x10 {
		i &^= 0x10
	}
	return i
}
