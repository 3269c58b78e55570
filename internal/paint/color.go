package paint

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an sRGB color as picked by a user.
type Color struct {
	colorful.Color
}

// FromUint builds a color from a 0xRRGGBB value.
func FromUint(v uint32) Color {
	return Color{colorful.Color{
		R: float64(v>>16&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v&0xff) / 255,
	}}
}

// ParseHex accepts "#rrggbb", "rrggbb" and "0xrrggbb".
func ParseHex(s string) (Color, error) {
	t := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(t, "#"):
	case strings.HasPrefix(t, "0x"), strings.HasPrefix(t, "0X"):
		t = "#" + t[2:]
	default:
		t = "#" + t
	}
	if len(t) != 7 {
		return Color{}, fmt.Errorf("paint: parse color %q: want 6 hex digits", s)
	}
	c, err := colorful.Hex(t)
	if err != nil {
		return Color{}, fmt.Errorf("paint: parse color %q: %w", s, err)
	}
	return Color{c}, nil
}

// Uint returns the 0xRRGGBB encoding.
func (c Color) Uint() uint32 {
	r, g, b := c.Clamped().RGB255()
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Linear returns the color in linear RGB, the space materials are stored in.
func (c Color) Linear() (r, g, b float64) {
	return c.Clamped().LinearRgb()
}

func (c Color) String() string {
	return c.Clamped().Hex()
}
