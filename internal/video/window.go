// Package video presents the PPU's framebuffer in an ebiten window and
// forwards keyboard state into the controller ports. See spec.md §4.5.
package video

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"nesgo/internal/console"
)

const (
	screenWidth  = 256
	screenHeight = 240

	// cpuTicksPerFrame is one full PPU frame at the fixed 1:3 CPU:PPU tick
	// ratio: 262 scanlines x 341 dots = 89342 dots, at 3 dots per tick,
	// rounded up.
	cpuTicksPerFrame = 29781
)

// Framebuffer is a PixelSink backed by an ebiten.Image; console.Hardware
// writes into it pixel-by-pixel as the PPU rasters each frame.
type Framebuffer struct {
	img *ebiten.Image
}

// NewFramebuffer allocates a 256x240 backing image, NES native resolution.
func NewFramebuffer() *Framebuffer {
	return &Framebuffer{img: ebiten.NewImage(screenWidth, screenHeight)}
}

// SetPixel implements ppu.PixelSink.
func (f *Framebuffer) SetPixel(x, y int, r, g, b uint8) {
	f.img.Set(x, y, color.RGBA{R: r, G: g, B: b, A: 0xFF})
}

// Window is the ebiten.Game driving one NES session: it ticks Hardware,
// polls the keyboard into controller port 1, and blits the framebuffer
// each Draw.
type Window struct {
	hw  *console.Hardware
	fb  *Framebuffer
	err error
}

// NewWindow builds a Window around a running console.Hardware instance and
// wires its PPU straight to the returned framebuffer.
func NewWindow(h *console.Hardware) *Window {
	fb := NewFramebuffer()
	h.SetPixelSink(fb)
	return &Window{hw: h, fb: fb}
}

func (win *Window) Update() error {
	if win.err != nil {
		return win.err
	}
	win.hw.Pads.P1.PollKeyboard()
	for i := 0; i < cpuTicksPerFrame; i++ {
		if err := win.hw.Tick(nil); err != nil {
			win.err = err
			return err
		}
	}
	return nil
}

func (win *Window) Draw(screen *ebiten.Image) {
	screen.DrawImage(win.fb.img, nil)
	if win.err != nil {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("halted: %v", win.err))
	}
}

func (win *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}
