// Package input implements the standard NES controller's serial shift
// register protocol over $4016/$4017, polled from the keyboard via ebiten.
// See spec.md §4.5 and §6.
package input

import "github.com/hajimehoshi/ebiten/v2"

// Button is a bit position in the 8-button state byte, in the order the
// shift register reports them: A, B, Select, Start, Up, Down, Left, Right.
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Controller is one NES controller port. Strobe high continuously
// re-latches button state and reports button A on every read; strobe low
// shifts the latched snapshot out one bit per read, reporting 1 past the
// eighth bit.
type Controller struct {
	buttons  uint8
	snapshot uint8
	strobe   bool
	bit      uint8
}

// Write handles a write to $4016 (both controller ports share the strobe
// line).
func (c *Controller) Write(value uint8) {
	wasStrobe := c.strobe
	c.strobe = value&0x01 != 0
	// Latching again as strobe falls keeps the snapshot equal to the
	// buttons held for as long as strobe was high.
	if c.strobe || wasStrobe {
		c.snapshot = c.buttons
		c.bit = 0
	}
}

// Read handles a read from this controller's port.
func (c *Controller) Read() uint8 {
	if c.strobe {
		return c.buttons & 0x01
	}
	if c.bit >= 8 {
		return 1
	}
	v := (c.snapshot >> c.bit) & 0x01
	c.bit++
	return v
}

// SetButton updates one button's held state directly, for programmatic or
// headless control (tests, TAS-style input scripts).
func (c *Controller) SetButton(b Button, pressed bool) {
	if pressed {
		c.buttons |= uint8(b)
	} else {
		c.buttons &^= uint8(b)
	}
}

// defaultKeymap maps ebiten keys to NES buttons for an interactive session.
var defaultKeymap = map[ebiten.Key]Button{
	ebiten.KeyX:         ButtonA,
	ebiten.KeyZ:         ButtonB,
	ebiten.KeyShiftRight: ButtonSelect,
	ebiten.KeyEnter:     ButtonStart,
	ebiten.KeyArrowUp:    ButtonUp,
	ebiten.KeyArrowDown:  ButtonDown,
	ebiten.KeyArrowLeft:  ButtonLeft,
	ebiten.KeyArrowRight: ButtonRight,
}

// PollKeyboard samples the keyboard through ebiten.IsKeyPressed and updates
// c's button state; call once per ebiten Update.
func (c *Controller) PollKeyboard() {
	for key, button := range defaultKeymap {
		c.SetButton(button, ebiten.IsKeyPressed(key))
	}
}

// Pair bundles both controller ports; the console bus dispatches $4016 to
// both (strobe is shared) and $4017 to the second port alone.
type Pair struct {
	P1, P2 Controller
}

func (p *Pair) Write(value uint8) {
	p.P1.Write(value)
	p.P2.Write(value)
}
