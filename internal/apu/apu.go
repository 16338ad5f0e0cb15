// Package apu stands in for the NES APU: audio synthesis is out of scope
// (spec.md Non-goals), but $4000-$4013/$4015/$4017 must still be valid
// bus targets so games that probe or initialize audio registers don't
// corrupt unrelated state. See spec.md §4.5.
package apu

// Stub answers every APU/IO register access as an inert device: reads
// return 0, writes are discarded. The console bus routes $4014 writes
// (OAM DMA), $4016 reads and writes, and $4017 reads (controller ports)
// elsewhere; $4014 reads and $4017 writes do reach Stub.
type Stub struct{}

func (Stub) Read(addr uint16) uint8        { return 0 }
func (Stub) Write(addr uint16, value uint8) {}
