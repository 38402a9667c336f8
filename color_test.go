package pixl

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestColor_HueRoundTrip(t *testing.T) {
	for h := 0; h < 360; h++ {
		c := FromHue(h)
		if got := c.Hue(); got != h {
			t.Errorf("hue %d expected to round-trip. Got %d", h, got)
		}
	}
}

func TestColor_FromHueSextants(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(Color{0xFF, 0x00, 0x00}, FromHue(0))
	assert.Equal(Color{0xFF, 0xFF, 0x00}, FromHue(60))
	assert.Equal(Color{0x00, 0xFF, 0x00}, FromHue(120))
	assert.Equal(Color{0x00, 0xFF, 0xFF}, FromHue(180))
	assert.Equal(Color{0x00, 0x00, 0xFF}, FromHue(240))
	assert.Equal(Color{0xFF, 0x00, 0xFF}, FromHue(300))

	// Angles outside [0,360) wrap around.
	assert.Equal(FromHue(0), FromHue(360))
	assert.Equal(FromHue(300), FromHue(-60))
}

func TestColor_HueOfAchromatics(t *testing.T) {
	for _, c := range []Color{Black, White, {0x80, 0x80, 0x80}} {
		if got := c.Hue(); got != 0 {
			t.Errorf("achromatic hue expected to be %v. Got %v", 0, got)
		}
	}
}

func TestColor_BrightenNeutral(t *testing.T) {
	colors := []Color{Black, White, {0x12, 0x34, 0x56}, {0xFF, 0x00, 0x7F}}
	for _, c := range colors {
		if got := c.Brighten(50); got != c {
			t.Errorf("brightness 50 expected to keep %v. Got %v", c, got)
		}
	}
}

func TestColor_BrightenScalesChannels(t *testing.T) {
	assert := assert.New(t)

	c := Color{200, 100, 0}
	assert.Equal(Color{100, 50, 0}, c.Brighten(25))
	assert.Equal(Black, c.Brighten(0))
	assert.Equal(White, c.Brighten(100))
	assert.Equal(Color{228, 178, 128}, c.Brighten(75))

	// Successive adjustments compound rather than replaying from a base.
	assert.NotEqual(c, c.Brighten(25).Brighten(75))
}

func TestColor_ParseHex(t *testing.T) {
	tests := []struct {
		input string
		color Color
		valid bool
	}{
		{"#FF0000", Color{0xFF, 0x00, 0x00}, true},
		{"#00ff7f", Color{0x00, 0xFF, 0x7F}, true},
		{"#123AbC", Color{0x12, 0x3A, 0xBC}, true},
		{"FF0000", Color{}, false},
		{"#FFF", Color{}, false},
		{"#GGGGGG", Color{}, false},
		{"#FF00001", Color{}, false},
		{"#ff 000", Color{}, false},
		{"", Color{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			c, err := ParseHex(tc.input)
			if tc.valid {
				if err != nil {
					t.Fatalf("unexpected parse error: %v", err)
				}
				if c != tc.color {
					t.Errorf("parsed color expected to be %v. Got %v", tc.color, c)
				}
				return
			}
			if !errors.Is(err, ErrInvalidHex) {
				t.Errorf("%q expected to be rejected with ErrInvalidHex", tc.input)
			}
		})
	}
}

func TestColor_CanonicalString(t *testing.T) {
	c := Color{0x0A, 0xB0, 0x05}
	if got := c.String(); got != "#0AB005" {
		t.Errorf("canonical form expected to be %v. Got %v", "#0AB005", got)
	}

	nrgba := c.NRGBA()
	if nrgba.A != 0xFF {
		t.Errorf("colors expected to be fully opaque. Got alpha %v", nrgba.A)
	}
}
