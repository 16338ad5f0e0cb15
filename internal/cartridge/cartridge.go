// Package cartridge implements the iNES ROM loader and the mapper
// abstraction that routes CPU and PPU bus accesses to PRG/CHR banks.
package cartridge

import "fmt"

// MirrorMode selects how the PPU's 2KB nametable RAM is mirrored into the
// four 1KB logical nametable slots.
type MirrorMode uint8

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
	MirrorSingleLower
	MirrorSingleUpper
	MirrorFourScreen
)

// Mapper is the interface every cartridge board implements. All addresses
// are full 16-bit CPU or PPU addresses; only the documented ranges for a
// given mapper are honored, per spec.md §4.3.
type Mapper interface {
	CPURead(addr uint16) uint8
	CPUWrite(addr uint16, value uint8)
	PPURead(addr uint16) uint8
	PPUWrite(addr uint16, value uint8)
	MirrorMode() MirrorMode
}

// Cartridge holds the ROM/RAM images decoded from an iNES file. It is not
// itself a Mapper; NewMapper returns the concrete Mapper for the
// cartridge's mapper number, constructed around this image.
type Cartridge struct {
	PRG       []uint8
	CHR       []uint8 // possibly CHR-RAM if the header declared zero CHR-ROM blocks
	PRGRAM    []uint8
	ChrIsRAM  bool
	Mirror    MirrorMode
	MapperNum uint8
}

// LoadError wraps any failure to parse or instantiate a ROM image, per the
// error taxonomy in spec.md §7: load errors are a single user-visible
// message and the caller may retry with a different file.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// NewMapper constructs the concrete Mapper for c.MapperNum, or an error if
// the mapper isn't one of the two this core implements (0, 1), per
// spec.md §1 Non-goals ("support for mappers beyond 0 and 1").
func NewMapper(c *Cartridge) (Mapper, error) {
	switch c.MapperNum {
	case 0:
		return newNROM(c), nil
	case 1:
		return newMMC1(c), nil
	default:
		return nil, fmt.Errorf("unsupported mapper %d", c.MapperNum)
	}
}
