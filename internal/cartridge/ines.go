package cartridge

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const (
	prgBlockSize = 16384
	chrBlockSize = 8192
	prgRAMUnit   = 8192
	trainerSize  = 512
)

var iNESMagic = [4]byte{0x4E, 0x45, 0x53, 0x1A} // "NES\x1A"

// iNESHeader mirrors the 16-byte iNES header layout exactly, so it can be
// decoded in one binary.Read call the way the teacher's cartridge loader
// does (RNG999-gones internal/cartridge.LoadFromReader).
type iNESHeader struct {
	Magic      [4]byte
	PRGSize    uint8 // 16KB units
	CHRSize    uint8 // 8KB units; 0 means CHR-RAM
	Flags6     uint8
	Flags7     uint8
	PRGRAMSize uint8 // 8KB units; 0 means 8KB (legacy convention)
	Flags9     uint8
	Flags10    uint8
	Unused     [5]byte
}

// LoadFile reads path as an iNES ROM image. See spec.md §6 for the header
// field semantics this enforces.
func LoadFile(path string) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	c, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return c, nil
}

// Load parses an iNES image from r.
func Load(r io.Reader) (*Cartridge, error) {
	var h iNESHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if h.Magic != iNESMagic {
		return nil, fmt.Errorf("bad magic %x, want %x", h.Magic, iNESMagic)
	}
	if h.Flags6&0x04 != 0 {
		return nil, fmt.Errorf("trainer present: unsupported")
	}
	if h.Flags7&0x01 != 0 {
		return nil, fmt.Errorf("VS Unisystem cartridge: unsupported")
	}
	if h.Flags7&0x0C != 0 {
		return nil, fmt.Errorf("non-archaic-iNES file format (flags7 bits 2-3 = %#x): unsupported", (h.Flags7>>2)&0x03)
	}
	if h.Flags9 & ^uint8(0x01) != 0 {
		return nil, fmt.Errorf("flags9 must be 0 or 1, got %#x", h.Flags9)
	}
	for i, b := range h.Unused {
		if b != 0 {
			return nil, fmt.Errorf("unused header byte %d not zero: %#x", 11+i, b)
		}
	}
	if h.PRGSize == 0 {
		return nil, fmt.Errorf("PRG-ROM size is zero")
	}

	prg := make([]byte, int(h.PRGSize)*prgBlockSize)
	if _, err := io.ReadFull(r, prg); err != nil {
		return nil, fmt.Errorf("reading PRG-ROM: %w", err)
	}

	chrIsRAM := h.CHRSize == 0
	chrSize := int(h.CHRSize) * chrBlockSize
	var chr []byte
	if chrIsRAM {
		chr = make([]byte, chrBlockSize) // CHR-RAM, one 8KB bank
	} else {
		chr = make([]byte, chrSize)
		if _, err := io.ReadFull(r, chr); err != nil {
			return nil, fmt.Errorf("reading CHR-ROM: %w", err)
		}
	}

	mirror := MirrorHorizontal
	if h.Flags6&0x08 != 0 {
		mirror = MirrorFourScreen
	} else if h.Flags6&0x01 != 0 {
		mirror = MirrorVertical
	}

	ramUnits := h.PRGRAMSize
	if ramUnits == 0 {
		ramUnits = 1
	}
	ramSize := int(ramUnits) * prgRAMUnit
	if ramSize > 8192 {
		ramSize = 8192 // spec.md §4.3 NROM invariant: PRG-RAM is <= 8KB
	}

	mapperNum := (h.Flags6 >> 4) | (h.Flags7 & 0xF0)

	return &Cartridge{
		PRG:       prg,
		CHR:       chr,
		PRGRAM:    make([]byte, ramSize),
		ChrIsRAM:  chrIsRAM,
		Mirror:    mirror,
		MapperNum: mapperNum,
	}, nil
}
