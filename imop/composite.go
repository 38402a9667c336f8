// Package imop implements the alpha composition operators the package
// needs at its encoding boundary: flattening a rendered grid over an
// opaque background for encoders without an alpha channel, and building
// the checkerboard backdrop shown behind the editor canvas.
package imop

import (
	"image"
	"image/color"

	"github.com/cheryl-qian/pixl/utils"
)

// The supported composition operations.
const (
	Clear   = "clear"
	Copy    = "copy"
	Dst     = "dst"
	SrcOver = "src_over"
	DstOver = "dst_over"
)

// Bitmap holds the composition target.
type Bitmap struct {
	Img *image.NRGBA
}

// NewBitmap allocates a composition target covering rect.
func NewBitmap(rect image.Rectangle) *Bitmap {
	return &Bitmap{
		Img: image.NewNRGBA(rect),
	}
}

// Composite applies a Porter-Duff composition operation pixel by pixel.
type Composite struct {
	current string
	ops     []string
}

// InitOp returns a new composition with SrcOver as the active operation.
func InitOp() *Composite {
	return &Composite{
		current: SrcOver,
		ops: []string{
			Clear,
			Copy,
			Dst,
			SrcOver,
			DstOver,
		},
	}
}

// Set selects the active composition operation. Unknown operations are
// ignored and the current one is kept.
func (op *Composite) Set(cop string) {
	if utils.Contains(op.ops, cop) {
		op.current = cop
	}
}

// Get returns the active composition operation.
func (op *Composite) Get() string {
	return op.current
}

// Draw composes src against the dst backdrop into the bitmap using the
// active operation. The three images must share the same bounds.
func (op *Composite) Draw(bitmap *Bitmap, src, dst *image.NRGBA) {
	dx, dy := src.Bounds().Dx(), src.Bounds().Dy()

	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			si := src.PixOffset(x, y)
			di := dst.PixOffset(x, y)

			rsn := float64(src.Pix[si+0]) / 255
			gsn := float64(src.Pix[si+1]) / 255
			bsn := float64(src.Pix[si+2]) / 255
			asn := float64(src.Pix[si+3]) / 255

			rbn := float64(dst.Pix[di+0]) / 255
			gbn := float64(dst.Pix[di+1]) / 255
			bbn := float64(dst.Pix[di+2]) / 255
			abn := float64(dst.Pix[di+3]) / 255

			var rn, gn, bn, an float64

			// The alpha composition formula, un-premultiplied on the
			// way out so the NRGBA target stays straight-alpha.
			switch op.current {
			case Clear:
				// Everything stays zero.
			case Copy:
				rn, gn, bn, an = rsn, gsn, bsn, asn
			case Dst:
				rn, gn, bn, an = rbn, gbn, bbn, abn
			case SrcOver:
				an = asn + abn*(1-asn)
				if an > 0 {
					rn = (asn*rsn + abn*rbn*(1-asn)) / an
					gn = (asn*gsn + abn*gbn*(1-asn)) / an
					bn = (asn*bsn + abn*bbn*(1-asn)) / an
				}
			case DstOver:
				an = abn + asn*(1-abn)
				if an > 0 {
					rn = (abn*rbn + asn*rsn*(1-abn)) / an
					gn = (abn*gbn + asn*gsn*(1-abn)) / an
					bn = (abn*bbn + asn*bsn*(1-abn)) / an
				}
			default:
				continue
			}

			oi := bitmap.Img.PixOffset(x, y)
			bitmap.Img.Pix[oi+0] = uint8(rn*255 + 0.5)
			bitmap.Img.Pix[oi+1] = uint8(gn*255 + 0.5)
			bitmap.Img.Pix[oi+2] = uint8(bn*255 + 0.5)
			bitmap.Img.Pix[oi+3] = uint8(an*255 + 0.5)
		}
	}
}

// Checker fills a bitmap with the classic editor checkerboard used as
// the canvas backdrop; block is the square size in pixels.
func Checker(rect image.Rectangle, block int, light, dark color.NRGBA) *Bitmap {
	bitmap := NewBitmap(rect)
	if block < 1 {
		block = 1
	}

	dx, dy := rect.Dx(), rect.Dy()
	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			c := light
			if (x/block+y/block)%2 == 1 {
				c = dark
			}
			i := bitmap.Img.PixOffset(x, y)
			bitmap.Img.Pix[i+0] = c.R
			bitmap.Img.Pix[i+1] = c.G
			bitmap.Img.Pix[i+2] = c.B
			bitmap.Img.Pix[i+3] = c.A
		}
	}

	return bitmap
}
