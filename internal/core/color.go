package core

import "fmt"

// Color is an opaque material tag stored in grid cells and screen cells.
// The value is a 24-bit RGB triple; zero is reserved for "no color" (an empty cell).
type Color uint32

// ColorNone marks an empty cell.
const ColorNone Color = 0

// Archetype colors.
const (
	ColorCyan   Color = 0x00ffff
	ColorBlue   Color = 0x0000ff
	ColorOrange Color = 0xffa500
	ColorYellow Color = 0xffff00
	ColorGreen  Color = 0x00ff00
	ColorPurple Color = 0x800080
	ColorRed    Color = 0xff0000
)

// Interface colors.
const (
	ColorWhite Color = 0xffffff
	ColorGray  Color = 0x808080
	ColorDim   Color = 0x4e4e4e
	ColorFrame Color = 0x3a9a3a
)

// IsNone reports whether c is the empty tag.
func (c Color) IsNone() bool {
	return c == ColorNone
}

// Hex returns the color as a "#rrggbb" string.
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	if c.IsNone() {
		return "none"
	}
	return c.Hex()
}
