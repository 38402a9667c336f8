package pixl

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/pkg/errors"

	"github.com/cheryl-qian/pixl/utils"
)

// ErrInvalidHex is returned when a color string does not match the
// canonical #RRGGBB form.
var ErrInvalidHex = errors.New("invalid hex color format")

// Color is a 24 bit RGB value. All colors handled by the package are
// fully opaque; alpha only appears at the encoding boundary.
type Color struct {
	R, G, B uint8
}

// Basic colors used as defaults around the package.
var (
	White = Color{0xFF, 0xFF, 0xFF}
	Black = Color{}
)

// ParseHex parses a color in the canonical #RRGGBB form, upper or lower
// case. Shorthand, missing hash and wrong length inputs are rejected
// with ErrInvalidHex.
func ParseHex(s string) (Color, error) {
	if len(s) != 7 || s[0] != '#' {
		return Color{}, errors.Wrapf(ErrInvalidHex, "%q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return Color{}, errors.Wrapf(ErrInvalidHex, "%q", s)
	}
	return Color{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// String returns the canonical #RRGGBB form with upper case digits.
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// NRGBA returns the color as a fully opaque color.NRGBA value.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

// Hue returns the hue angle of the color in degrees, in [0,360), using
// the max/min channel chroma method. Achromatic colors report 0.
func (c Color) Hue() int {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	diff := max - min

	if diff == 0 {
		return 0
	}

	var hue float64
	switch max {
	case r:
		hue = 60 * math.Mod((g-b)/diff, 6)
	case g:
		hue = 60 * ((b-r)/diff + 2)
	case b:
		hue = 60 * ((r-g)/diff + 4)
	}
	if hue < 0 {
		hue += 360
	}
	return int(math.Round(hue)) % 360
}

// FromHue maps a hue angle to its fully saturated color at 50% lightness.
// This is deliberately not a full HSL conversion: saturation and lightness
// are fixed, which makes hue -> color -> hue exact for every integer angle.
func FromHue(hue int) Color {
	h := math.Mod(float64(hue), 360)
	if h < 0 {
		h += 360
	}

	x := 1 - math.Abs(math.Mod(h/60, 2)-1)

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = 1, x, 0
	case h < 120:
		r, g, b = x, 1, 0
	case h < 180:
		r, g, b = 0, 1, x
	case h < 240:
		r, g, b = 0, x, 1
	case h < 300:
		r, g, b = x, 0, 1
	default:
		r, g, b = 1, 0, x
	}

	return Color{channel(r), channel(g), channel(b)}
}

// Brighten moves the color toward black (level < 50) or toward white
// (level > 50); 50 returns the color untouched. The adjustment operates
// on the raw channels rather than a lightness axis, so successive
// adjustments compound instead of replaying from a fixed base.
func (c Color) Brighten(level int) Color {
	level = utils.Clamp(level, 0, 100)
	if level == 50 {
		return c
	}

	adjust := func(ch uint8) uint8 {
		v := float64(ch)
		if level < 50 {
			v *= float64(level) / 50
		} else {
			v += (255 - v) * float64(level-50) / 50
		}
		return uint8(utils.Clamp(math.Round(v), 0, 255))
	}
	return Color{adjust(c.R), adjust(c.G), adjust(c.B)}
}

// channel converts a normalized [0,1] component to its 8 bit value.
func channel(v float64) uint8 {
	return uint8(utils.Clamp(int(math.Round(v*255)), 0, 255))
}
