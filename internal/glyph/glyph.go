// Package glyph rasterizes text using fogleman/gg for fonts that lack a
// protocol codepage, grounded on the teacher's internal/renderer text path.
package glyph

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/thereceipt/printcore/internal/errs"
	"github.com/thereceipt/printcore/internal/raster"
)

// Rasterizer renders text to a grayscale strip via a loaded TTF/OTF face.
type Rasterizer struct {
	fontPath string
	pointSize float64
}

// New constructs a Rasterizer that loads fontPath at pointSize on first use.
func New(fontPath string, pointSize float64) *Rasterizer {
	if pointSize <= 0 {
		pointSize = 24
	}
	return &Rasterizer{fontPath: fontPath, pointSize: pointSize}
}

// RasterizeText draws text left-aligned into a widthDots-wide grayscale
// strip 1.6x the point size tall, optionally bolded by a double
// stroke pass (gg has no synthetic-bold primitive).
func (r *Rasterizer) RasterizeText(text string, widthDots int, bold, italic bool) (*raster.Gray, error) {
	dc := gg.NewContext(widthDots, int(r.pointSize*1.6))
	dc.SetColor(color.White)
	dc.Clear()
	if err := dc.LoadFontFace(r.fontPath, r.pointSize); err != nil {
		return nil, errs.Wrap(errs.InvalidParam, err, "loading font %s", r.fontPath)
	}
	dc.SetColor(color.Black)
	x, y := 2.0, r.pointSize
	dc.DrawString(text, x, y)
	if bold {
		dc.DrawString(text, x+0.6, y)
	}
	return fromImage(dc.Image()), nil
}

// fromImage converts an *image.RGBA (as gg produces) into the ink-high
// grayscale convention the raster pipeline expects.
func fromImage(img image.Image) *raster.Gray {
	b := img.Bounds()
	g := raster.NewGray(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r16, g16, b16, _ := img.At(x, y).RGBA()
			lum := (299*r16 + 587*g16 + 114*b16) / 1000
			// gg draws black-on-white; invert so ink density is high for dark text.
			ink := 255 - uint8(lum>>8)
			g.Set(x-b.Min.X, y-b.Min.Y, ink)
		}
	}
	return g
}
