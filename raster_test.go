package pixl

import (
	"bytes"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"golang.org/x/image/bmp"
)

func TestRaster_RenderScalesCellsToBlocks(t *testing.T) {
	g, err := NewGrid(DefaultSide)
	if err != nil {
		t.Fatalf("could not create the grid: %v", err)
	}
	red := Color{0xFF, 0x00, 0x00}
	g, err = g.SetCell(0, 0, red)
	if err != nil {
		t.Fatalf("could not paint the cell: %v", err)
	}

	img, err := Render(g, 10)
	if err != nil {
		t.Fatalf("could not render the grid: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 320 || bounds.Dy() != 320 {
		t.Fatalf("buffer expected to be 320x320. Got %dx%d", bounds.Dx(), bounds.Dy())
	}

	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			expected := White.NRGBA()
			if x < 10 && y < 10 {
				expected = red.NRGBA()
			}
			if got := img.NRGBAAt(x, y); got != expected {
				t.Fatalf("pixel (%d,%d) expected to be %v. Got %v", x, y, expected, got)
			}
		}
	}
}

func TestRaster_RenderMapsRowsToY(t *testing.T) {
	g, err := NewGrid(4)
	if err != nil {
		t.Fatalf("could not create the grid: %v", err)
	}
	blue := Color{0x00, 0x00, 0xFF}

	// Cell (row 2, col 1) must land at x in [5,10), y in [10,15).
	g, err = g.SetCell(2, 1, blue)
	if err != nil {
		t.Fatalf("could not paint the cell: %v", err)
	}

	img, err := Render(g, 5)
	if err != nil {
		t.Fatalf("could not render the grid: %v", err)
	}

	if got := img.NRGBAAt(7, 12); got != blue.NRGBA() {
		t.Errorf("pixel inside the block expected to be %v. Got %v", blue.NRGBA(), got)
	}
	if got := img.NRGBAAt(12, 7); got != White.NRGBA() {
		t.Errorf("transposed pixel expected to stay white. Got %v", got)
	}
}

func TestRaster_RejectsInvalidScale(t *testing.T) {
	g, err := NewGrid(4)
	if err != nil {
		t.Fatalf("could not create the grid: %v", err)
	}

	for _, scale := range []int{0, -5} {
		if _, err := Render(g, scale); !errors.Is(err, ErrInvalidScale) {
			t.Errorf("scale %d expected to be rejected with ErrInvalidScale", scale)
		}
	}
}

func TestRaster_EncodeFormats(t *testing.T) {
	g, err := NewGrid(8)
	if err != nil {
		t.Fatalf("could not create the grid: %v", err)
	}
	g, _ = g.SetCell(0, 0, Color{0xFF, 0x00, 0x00})

	img, err := Render(g, 5)
	if err != nil {
		t.Fatalf("could not render the grid: %v", err)
	}

	tests := []struct {
		name   string
		format Format
		magic  []byte
	}{
		{"png", PNG, []byte("\x89PNG")},
		{"jpg", JPEG, []byte("\xff\xd8\xff")},
		{"bmp", BMP, []byte("BM")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, img, tc.format, 100); err != nil {
				t.Fatalf("could not encode the image: %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), tc.magic) {
				t.Errorf("encoded output expected to start with the %s magic bytes", tc.name)
			}
		})
	}
}

func TestRaster_LosslessEncodePreservesBlocks(t *testing.T) {
	assert := assert.New(t)

	g, err := NewGrid(8)
	assert.NoError(err)
	red := Color{0xFF, 0x00, 0x00}
	g, _ = g.SetCell(1, 0, red)

	img, err := Render(g, 5)
	assert.NoError(err)

	var buf bytes.Buffer
	assert.NoError(Encode(&buf, img, PNG, 0))

	decoded, err := png.Decode(&buf)
	assert.NoError(err)

	r, gr, b, _ := decoded.At(2, 7).RGBA()
	assert.EqualValues(0xFFFF, r)
	assert.EqualValues(0, gr)
	assert.EqualValues(0, b)

	buf.Reset()
	assert.NoError(Encode(&buf, img, BMP, 0))
	decodedBmp, err := bmp.Decode(&buf)
	assert.NoError(err)
	assert.Equal(img.Bounds(), decodedBmp.Bounds())
}

func TestRaster_JPEGFlattensOverWhite(t *testing.T) {
	g, err := NewGrid(4)
	if err != nil {
		t.Fatalf("could not create the grid: %v", err)
	}

	img, err := Render(g, 5)
	if err != nil {
		t.Fatalf("could not render the grid: %v", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, img, JPEG, 90); err != nil {
		t.Fatalf("could not encode the image: %v", err)
	}

	decoded, err := jpeg.Decode(&buf)
	if err != nil {
		t.Fatalf("could not decode the encoded image: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("encoded bounds expected to be %v. Got %v", img.Bounds(), decoded.Bounds())
	}

	// A blank white grid must stay white through the flatten step.
	r, gr, b, _ := decoded.At(10, 10).RGBA()
	for _, ch := range []uint32{r, gr, b} {
		if ch>>8 < 0xFA {
			t.Errorf("flattened white expected to survive the encoder. Got channel %v", ch>>8)
		}
	}
}

func TestRaster_SessionExport(t *testing.T) {
	assert := assert.New(t)

	s, err := NewSession(DefaultSide)
	assert.NoError(err)
	assert.NoError(s.SetHex("#FF0000"))
	assert.NoError(s.Press(0, 0))
	s.Release()

	var buf bytes.Buffer
	assert.NoError(s.Export(&buf, ExportOptions{Format: PNG, Scale: 5}))

	decoded, err := png.Decode(&buf)
	assert.NoError(err)
	assert.Equal(160, decoded.Bounds().Dx())

	r, _, _, _ := decoded.At(2, 2).RGBA()
	assert.EqualValues(0xFFFF, r)
}

func TestRaster_FormatFromExt(t *testing.T) {
	valid := map[string]Format{
		"":      PNG,
		".png":  PNG,
		"png":   PNG,
		".jpg":  JPEG,
		".JPEG": JPEG,
		"bmp":   BMP,
	}
	for ext, expected := range valid {
		got, err := FormatFromExt(ext)
		if err != nil {
			t.Fatalf("extension %q expected to be accepted: %v", ext, err)
		}
		if got != expected {
			t.Errorf("extension %q expected to map to %v. Got %v", ext, expected, got)
		}
	}

	if _, err := FormatFromExt(".gif"); err == nil {
		t.Errorf("an unsupported extension expected to be rejected")
	}
}

func BenchmarkRender(b *testing.B) {
	g, err := NewGrid(DefaultSide)
	if err != nil {
		b.Fatalf("could not create the grid: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Render(g, 10); err != nil {
			b.Fatal(err)
		}
	}
}
