package raster

import (
	"image"

	"github.com/disintegration/imaging"
)

// FromImage converts an arbitrary decoded image into a Gray buffer scaled
// to targetWidth (aspect preserved), following the resize-then-grayscale
// order the teacher's renderImage used with imaging.Resize.
func FromImage(img image.Image, targetWidth int) *Gray {
	if img.Bounds().Dx() != targetWidth {
		img = imaging.Resize(img, targetWidth, 0, imaging.Lanczos)
	}
	bounds := img.Bounds()
	g := NewGray(bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, gg, b, _ := img.At(x, y).RGBA()
			lum := (r + gg + b) / 3 / 256
			// Invert: image luminance is light-is-high, our buffer is ink-is-high.
			g.Set(x-bounds.Min.X, y-bounds.Min.Y, uint8(255-lum))
		}
	}
	return g
}

// Pack thresholds and packs g directly with the None algorithm, a
// convenience used by callers that already know they want no dithering.
func Pack(g *Gray) *Bits {
	return Dither(g, DitherNone)
}
