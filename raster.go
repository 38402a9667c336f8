package pixl

import (
	"image"
	"io"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"

	"github.com/cheryl-qian/pixl/imop"
	"github.com/cheryl-qian/pixl/utils"
)

// ErrInvalidScale is returned when the requested per cell scale cannot
// produce an image.
var ErrInvalidScale = errors.New("scale must be at least 1")

// Format selects the export encoding. PNG and BMP reproduce the
// rendered block structure losslessly; JPEG is lossy and the buffer is
// flattened over opaque white before it reaches the encoder.
type Format int

const (
	PNG Format = iota
	JPEG
	BMP
)

func (f Format) String() string {
	switch f {
	case JPEG:
		return "jpg"
	case BMP:
		return "bmp"
	default:
		return "png"
	}
}

// FormatFromExt maps a file extension or bare format name to its
// encoding. The empty extension defaults to the lossless PNG.
func FormatFromExt(ext string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "", "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	default:
		return PNG, errors.Errorf("unsupported image format: %q", ext)
	}
}

// Render rasterizes the grid at an integer per cell scale factor: cell
// (row,col) fills the pixel block [col*scale,(col+1)*scale) x
// [row*scale,(row+1)*scale), uniformly colored.
func Render(g Grid, scale int) (*image.NRGBA, error) {
	if scale < 1 {
		return nil, errors.Wrapf(ErrInvalidScale, "scale %d", scale)
	}

	side := g.Side()
	img := image.NewNRGBA(image.Rect(0, 0, side*scale, side*scale))

	for row := 0; row < side; row++ {
		y0 := row * scale

		// Fill the top pixel row of the cell band, then replicate it
		// over the remaining rows of the band.
		for col := 0; col < side; col++ {
			c := g.cells[row*side+col]
			di := img.PixOffset(col*scale, y0)
			for x := 0; x < scale; x++ {
				img.Pix[di+0] = c.R
				img.Pix[di+1] = c.G
				img.Pix[di+2] = c.B
				img.Pix[di+3] = 0xFF
				di += 4
			}
		}

		bandStart := img.PixOffset(0, y0)
		bandRow := img.Pix[bandStart : bandStart+img.Stride]
		for y := 1; y < scale; y++ {
			copy(img.Pix[img.PixOffset(0, y0+y):], bandRow)
		}
	}

	return img, nil
}

// Encode serializes a rendered buffer to the destination writer. The
// quality setting only affects JPEG output.
func Encode(w io.Writer, img *image.NRGBA, format Format, quality int) error {
	switch format {
	case JPEG:
		// The JPEG encoder carries no alpha channel, so the buffer is
		// composited over an opaque white backdrop first.
		flat := flattenOverWhite(img)
		quality = utils.Clamp(quality, 1, 100)
		return imaging.Encode(w, flat, imaging.JPEG, imaging.JPEGQuality(quality))
	case BMP:
		return bmp.Encode(w, img)
	case PNG:
		return imaging.Encode(w, img, imaging.PNG)
	default:
		return errors.Errorf("unsupported image format: %v", format)
	}
}

// flattenOverWhite composes the buffer over an opaque white backdrop.
func flattenOverWhite(img *image.NRGBA) *image.NRGBA {
	backdrop := image.NewNRGBA(img.Bounds())
	for i := range backdrop.Pix {
		backdrop.Pix[i] = 0xFF
	}

	flat := imop.NewBitmap(img.Bounds())
	op := imop.InitOp()
	op.Set(imop.SrcOver)
	op.Draw(flat, img, backdrop)

	return flat.Img
}

// ExportOptions bundles the parameters of one export request.
type ExportOptions struct {
	Format  Format
	Scale   int
	Quality int
}

// Export renders the grid and writes the encoded image to w. Nothing is
// written when the request is rejected.
func Export(w io.Writer, g Grid, opts ExportOptions) error {
	img, err := Render(g, opts.Scale)
	if err != nil {
		return err
	}

	Logger().Debug("exporting grid",
		slog.Int("side", g.Side()),
		slog.Int("scale", opts.Scale),
		slog.String("format", opts.Format.String()))

	return Encode(w, img, opts.Format, opts.Quality)
}

// Export renders and encodes the snapshot currently displayed by the
// session. An export only ever reads the immutable snapshot, so edits
// arriving afterwards cannot bleed into the written image.
func (s *Session) Export(w io.Writer, opts ExportOptions) error {
	return Export(w, s.Grid(), opts)
}
