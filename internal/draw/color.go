package draw

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a packed 24-bit RGB value. The zero value means "no pixel".
type Color uint32

const opaque Color = 1 << 24

// RGB builds an opaque color.
func RGB(r, g, b uint8) Color {
	return opaque | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// ParseColor parses a "#rrggbb" (or "#rgb") string.
func ParseColor(hex string) (Color, error) {
	c, err := colorful.Hex(expandShortHex(hex))
	if err != nil {
		return 0, fmt.Errorf("parse color %q: %w", hex, err)
	}
	return fromColorful(c), nil
}

// MustParseColor is ParseColor for trusted literals.
func MustParseColor(hex string) Color {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// IsSet reports whether c is a real color rather than an empty pixel.
func (c Color) IsSet() bool {
	return c&opaque != 0
}

// RGB returns the channels of c.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Hex formats c as "#rrggbb".
func (c Color) Hex() string {
	r, g, b := c.RGB()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Blend mixes from toward to by t in [0,1]. Empty colors are returned unchanged.
func Blend(from, to Color, t float64) Color {
	if !from.IsSet() || !to.IsSet() {
		return from
	}
	if t <= 0 {
		return from
	}
	if t >= 1 {
		return to
	}
	return fromColorful(toColorful(from).BlendRgb(toColorful(to), t))
}

func toColorful(c Color) colorful.Color {
	r, g, b := c.RGB()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

func fromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return RGB(r, g, b)
}

func expandShortHex(hex string) string {
	if len(hex) == 4 && hex[0] == '#' {
		return string([]byte{'#', hex[1], hex[1], hex[2], hex[2], hex[3], hex[3]})
	}
	return hex
}
