// Command nesgo runs the nesgo NES emulator against an iNES ROM image.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"nesgo/internal/cartridge"
	"nesgo/internal/console"
	"nesgo/internal/video"
)

func main() {
	var (
		trace    = flag.Bool("trace", false, "emit a disassembly line per CPU instruction to stdout")
		headless = flag.Bool("headless", false, "run without opening a window, driving the CPU/PPU directly")
		startPC  = flag.String("start-pc", "", "override the reset vector, e.g. -start-pc=0xC000 (for automated test ROMs)")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] rom.nes\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cart, err := cartridge.LoadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("nesgo: %v", err)
	}
	mapper, err := cartridge.NewMapper(cart)
	if err != nil {
		log.Fatalf("nesgo: %v", err)
	}

	hw := console.New(mapper)
	hw.Reset()

	if *startPC != "" {
		pc, err := parseHex16(*startPC)
		if err != nil {
			log.Fatalf("nesgo: -start-pc: %v", err)
		}
		hw.CPU.PC = pc
	}

	var traceOut io.Writer
	if *trace {
		traceOut = os.Stdout
	}

	if *headless {
		runHeadless(hw, traceOut)
		return
	}

	ebiten.SetWindowSize(256*3, 240*3)
	ebiten.SetWindowTitle("nesgo")
	win := video.NewWindow(hw)
	if err := ebiten.RunGame(win); err != nil {
		log.Fatalf("nesgo: %v", err)
	}
}

func runHeadless(hw *console.Hardware, trace io.Writer) {
	for {
		if err := hw.Tick(trace); err != nil {
			log.Fatalf("nesgo: %v", err)
		}
	}
}

func parseHex16(s string) (uint16, error) {
	var v uint16
	_, err := fmt.Sscanf(s, "0x%x", &v)
	if err != nil {
		_, err = fmt.Sscanf(s, "%x", &v)
	}
	return v, err
}
