package pattern

import (
	"math"

	"github.com/thereceipt/printcore/internal/raster"
)

func builtinGenerators() []Generator {
	return []Generator{
		rippleGen{}, wavesGen{}, plasmaGen{}, voronoiGen{}, flowFieldGen{},
		reactionDiffusionGen{}, crosshatchGen{}, stippleGen{},
		cellularAutomatonGen{}, strangeAttractorGen{}, moireGen{},
		opArtStripesGen{}, calibrationStripesGen{},
		topographyGen{}, zebraGen{}, tunnelGen{}, glitchGen{}, woodgrainGen{},
		rileyGen{}, vasarelyGen{}, estrellaGen{},
	}
}

// rippleGen renders concentric sine rings from a center point.
type rippleGen struct{}

func (rippleGen) Name() string { return "ripple" }
func (rippleGen) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "frequency", Label: "Frequency", Kind: KindSlider, Min: 0.02, Max: 0.5, Step: 0.01},
		{Name: "amplitude", Label: "Amplitude", Kind: KindSlider, Min: 0, Max: 1, Step: 0.05},
	}
}
func (rippleGen) Golden(int64) map[string]interface{} {
	return map[string]interface{}{"frequency": 0.15, "amplitude": 0.8}
}
func (g rippleGen) Randomize(seed int64) map[string]interface{} {
	r := newRand(seed)
	return map[string]interface{}{"frequency": 0.02 + r.Float64()*0.48, "amplitude": r.Float64()}
}
func (g rippleGen) Render(width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error) {
	freq := floatParam(params, "frequency", 0.15)
	amp := floatParam(params, "amplitude", 0.8)
	cx, cy := float64(width)/2, float64(height)/2
	out := newGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			d := math.Sqrt(dx*dx + dy*dy)
			v := (math.Sin(d*freq)*amp + 1) / 2 * 255
			out.Set(x, y, clampGray(v))
		}
	}
	return out, nil
}

// wavesGen renders horizontal sine waves.
type wavesGen struct{}

func (wavesGen) Name() string { return "waves" }
func (wavesGen) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "frequency", Label: "Frequency", Kind: KindSlider, Min: 0.01, Max: 0.3, Step: 0.01},
		{Name: "phase", Label: "Phase", Kind: KindFloat, Min: 0, Max: 6.28},
	}
}
func (wavesGen) Golden(int64) map[string]interface{} {
	return map[string]interface{}{"frequency": 0.08, "phase": 0.0}
}
func (g wavesGen) Randomize(seed int64) map[string]interface{} {
	r := newRand(seed)
	return map[string]interface{}{"frequency": 0.01 + r.Float64()*0.29, "phase": r.Float64() * 2 * math.Pi}
}
func (g wavesGen) Render(width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error) {
	freq := floatParam(params, "frequency", 0.08)
	phase := floatParam(params, "phase", 0)
	out := newGray(width, height)
	for y := 0; y < height; y++ {
		v := (math.Sin(float64(y)*freq+phase) + 1) / 2 * 255
		row := clampGray(v)
		for x := 0; x < width; x++ {
			out.Set(x, y, row)
		}
	}
	return out, nil
}

// plasmaGen renders a classic sum-of-sines plasma field.
type plasmaGen struct{}

func (plasmaGen) Name() string { return "plasma" }
func (plasmaGen) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "scale", Label: "Scale", Kind: KindSlider, Min: 0.01, Max: 0.2, Step: 0.01},
	}
}
func (plasmaGen) Golden(int64) map[string]interface{} { return map[string]interface{}{"scale": 0.05} }
func (g plasmaGen) Randomize(seed int64) map[string]interface{} {
	r := newRand(seed)
	return map[string]interface{}{"scale": 0.01 + r.Float64()*0.19}
}
func (g plasmaGen) Render(width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error) {
	scale := floatParam(params, "scale", 0.05)
	out := newGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			fx, fy := float64(x)*scale, float64(y)*scale
			v := math.Sin(fx) + math.Sin(fy) + math.Sin(fx+fy) + math.Sin(math.Sqrt(fx*fx+fy*fy))
			out.Set(x, y, clampGray((v/4+1)/2*255))
		}
	}
	return out, nil
}

// voronoiGen renders cell distance fields from randomly seeded points.
type voronoiGen struct{}

func (voronoiGen) Name() string { return "voronoi" }
func (voronoiGen) Schema() []ParamSpec {
	return []ParamSpec{{Name: "cells", Label: "Cell count", Kind: KindInt, Min: 4, Max: 64}}
}
func (voronoiGen) Golden(int64) map[string]interface{} { return map[string]interface{}{"cells": 16} }
func (g voronoiGen) Randomize(seed int64) map[string]interface{} {
	r := newRand(seed)
	return map[string]interface{}{"cells": 4 + r.Intn(60)}
}
func (g voronoiGen) Render(width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error) {
	n := intParam(params, "cells", 16)
	r := newRand(seed)
	type pt struct{ x, y float64 }
	pts := make([]pt, n)
	for i := range pts {
		pts[i] = pt{r.Float64() * float64(width), r.Float64() * float64(height)}
	}
	out := newGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			min1, min2 := math.MaxFloat64, math.MaxFloat64
			for _, p := range pts {
				dx, dy := float64(x)-p.x, float64(y)-p.y
				d := dx*dx + dy*dy
				if d < min1 {
					min2 = min1
					min1 = d
				} else if d < min2 {
					min2 = d
				}
			}
			edge := math.Sqrt(min2) - math.Sqrt(min1)
			out.Set(x, y, clampGray(clamp01(edge/8)*255))
		}
	}
	return out, nil
}

// flowFieldGen renders a Perlin-free pseudo flow field via layered sines,
// approximating vector-field streak density without an external noise lib.
type flowFieldGen struct{}

func (flowFieldGen) Name() string { return "flowfield" }
func (flowFieldGen) Schema() []ParamSpec {
	return []ParamSpec{{Name: "density", Label: "Density", Kind: KindSlider, Min: 0.02, Max: 0.3, Step: 0.01}}
}
func (flowFieldGen) Golden(int64) map[string]interface{} {
	return map[string]interface{}{"density": 0.1}
}
func (g flowFieldGen) Randomize(seed int64) map[string]interface{} {
	r := newRand(seed)
	return map[string]interface{}{"density": 0.02 + r.Float64()*0.28}
}
func (g flowFieldGen) Render(width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error) {
	density := floatParam(params, "density", 0.1)
	r := newRand(seed)
	phaseX, phaseY := r.Float64()*10, r.Float64()*10
	out := newGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			angle := math.Sin(float64(x)*density+phaseX) + math.Cos(float64(y)*density+phaseY)
			streak := math.Sin(float64(x)*density*3 + angle*4)
			out.Set(x, y, clampGray((streak+1)/2*255))
		}
	}
	return out, nil
}

// reactionDiffusionGen approximates a Gray-Scott pattern by iterating a
// coarse grid then upsampling, cheap enough for receipt-strip heights.
type reactionDiffusionGen struct{}

func (reactionDiffusionGen) Name() string { return "reaction_diffusion" }
func (reactionDiffusionGen) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "feed", Label: "Feed rate", Kind: KindFloat, Min: 0.01, Max: 0.1},
		{Name: "kill", Label: "Kill rate", Kind: KindFloat, Min: 0.03, Max: 0.07},
		{Name: "iterations", Label: "Iterations", Kind: KindInt, Min: 10, Max: 400},
	}
}
func (reactionDiffusionGen) Golden(int64) map[string]interface{} {
	return map[string]interface{}{"feed": 0.037, "kill": 0.06, "iterations": 120}
}
func (g reactionDiffusionGen) Randomize(seed int64) map[string]interface{} {
	r := newRand(seed)
	return map[string]interface{}{"feed": 0.01 + r.Float64()*0.09, "kill": 0.03 + r.Float64()*0.04, "iterations": 10 + r.Intn(390)}
}
func (g reactionDiffusionGen) Render(width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error) {
	feed := floatParam(params, "feed", 0.037)
	kill := floatParam(params, "kill", 0.06)
	iters := intParam(params, "iterations", 120)
	scale := 4
	gw, gh := width/scale+1, height/scale+1
	a := make([]float64, gw*gh)
	b := make([]float64, gw*gh)
	for i := range a {
		a[i] = 1
	}
	r := newRand(seed)
	for k := 0; k < 20; k++ {
		x, y := r.Intn(gw), r.Intn(gh)
		b[y*gw+x] = 1
	}
	const dA, dB = 1.0, 0.5
	idx := func(x, y int) int {
		x = (x + gw) % gw
		y = (y + gh) % gh
		return y*gw + x
	}
	for step := 0; step < iters; step++ {
		na := make([]float64, gw*gh)
		nb := make([]float64, gw*gh)
		for y := 0; y < gh; y++ {
			for x := 0; x < gw; x++ {
				i := idx(x, y)
				lapA := a[idx(x-1, y)] + a[idx(x+1, y)] + a[idx(x, y-1)] + a[idx(x, y+1)] - 4*a[i]
				lapB := b[idx(x-1, y)] + b[idx(x+1, y)] + b[idx(x, y-1)] + b[idx(x, y+1)] - 4*b[i]
				av, bv := a[i], b[i]
				reaction := av * bv * bv
				na[i] = av + dA*lapA - reaction + feed*(1-av)
				nb[i] = bv + dB*lapB + reaction - (kill+feed)*bv
			}
		}
		a, b = na, nb
	}
	out := newGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := b[idx(x/scale, y/scale)]
			out.Set(x, y, clampGray((1-v)*255))
		}
	}
	return out, nil
}

// crosshatchGen renders two overlaid diagonal line grids.
type crosshatchGen struct{}

func (crosshatchGen) Name() string { return "crosshatch" }
func (crosshatchGen) Schema() []ParamSpec {
	return []ParamSpec{{Name: "spacing", Label: "Spacing", Kind: KindInt, Min: 2, Max: 40}}
}
func (crosshatchGen) Golden(int64) map[string]interface{} { return map[string]interface{}{"spacing": 8} }
func (g crosshatchGen) Randomize(seed int64) map[string]interface{} {
	r := newRand(seed)
	return map[string]interface{}{"spacing": 2 + r.Intn(38)}
}
func (g crosshatchGen) Render(width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error) {
	spacing := intParam(params, "spacing", 8)
	if spacing < 1 {
		spacing = 1
	}
	out := newGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.Set(x, y, 255)
		}
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x+y)%spacing == 0 || (x-y+width)%spacing == 0 {
				out.Set(x, y, 0)
			}
		}
	}
	return out, nil
}

// stippleGen renders pseudo-random ink dots at a target density.
type stippleGen struct{}

func (stippleGen) Name() string { return "stipple" }
func (stippleGen) Schema() []ParamSpec {
	return []ParamSpec{{Name: "density", Label: "Density", Kind: KindSlider, Min: 0.01, Max: 0.5, Step: 0.01}}
}
func (stippleGen) Golden(int64) map[string]interface{} {
	return map[string]interface{}{"density": 0.15}
}
func (g stippleGen) Randomize(seed int64) map[string]interface{} {
	r := newRand(seed)
	return map[string]interface{}{"density": 0.01 + r.Float64()*0.49}
}
func (g stippleGen) Render(width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error) {
	density := floatParam(params, "density", 0.15)
	r := newRand(seed)
	out := newGray(width, height)
	n := int(float64(width*height) * density)
	for i := 0; i < n; i++ {
		out.Set(r.Intn(width), r.Intn(height), 255)
	}
	return out, nil
}

// cellularAutomatonGen renders a 1D elementary CA (rule 30 family) stacked
// row by row, a classic generative-art texture.
type cellularAutomatonGen struct{}

func (cellularAutomatonGen) Name() string { return "cellular_automaton" }
func (cellularAutomatonGen) Schema() []ParamSpec {
	return []ParamSpec{{Name: "rule", Label: "Rule number", Kind: KindInt, Min: 0, Max: 255}}
}
func (cellularAutomatonGen) Golden(int64) map[string]interface{} { return map[string]interface{}{"rule": 30} }
func (g cellularAutomatonGen) Randomize(seed int64) map[string]interface{} {
	r := newRand(seed)
	return map[string]interface{}{"rule": r.Intn(256)}
}
func (g cellularAutomatonGen) Render(width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error) {
	rule := byte(intParam(params, "rule", 30))
	row := make([]bool, width)
	row[width/2] = true
	out := newGray(width, height)
	for y := 0; y < height; y++ {
		next := make([]bool, width)
		for x := 0; x < width; x++ {
			l := row[(x-1+width)%width]
			c := row[x]
			r := row[(x+1)%width]
			idx := 0
			if l {
				idx |= 4
			}
			if c {
				idx |= 2
			}
			if r {
				idx |= 1
			}
			next[x] = rule&(1<<uint(idx)) != 0
			v := uint8(255)
			if row[x] {
				v = 0
			}
			out.Set(x, y, v)
		}
		row = next
	}
	return out, nil
}

// strangeAttractorGen plots a De Jong attractor as ink density.
type strangeAttractorGen struct{}

func (strangeAttractorGen) Name() string { return "strange_attractor" }
func (strangeAttractorGen) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "a", Label: "a", Kind: KindFloat, Min: -3, Max: 3},
		{Name: "b", Label: "b", Kind: KindFloat, Min: -3, Max: 3},
		{Name: "c", Label: "c", Kind: KindFloat, Min: -3, Max: 3},
		{Name: "d", Label: "d", Kind: KindFloat, Min: -3, Max: 3},
		{Name: "iterations", Label: "Iterations", Kind: KindInt, Min: 1000, Max: 200000},
	}
}
func (strangeAttractorGen) Golden(int64) map[string]interface{} {
	return map[string]interface{}{"a": -2.0, "b": -2.0, "c": -1.2, "d": 2.0, "iterations": 50000}
}
func (g strangeAttractorGen) Randomize(seed int64) map[string]interface{} {
	r := newRand(seed)
	f := func() float64 { return -3 + r.Float64()*6 }
	return map[string]interface{}{"a": f(), "b": f(), "c": f(), "d": f(), "iterations": 50000}
}
func (g strangeAttractorGen) Render(width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error) {
	a := floatParam(params, "a", -2.0)
	b := floatParam(params, "b", -2.0)
	c := floatParam(params, "c", -1.2)
	d := floatParam(params, "d", 2.0)
	iters := intParam(params, "iterations", 50000)
	counts := make([]int, width*height)
	x, y := 0.1, 0.1
	maxCount := 1
	for i := 0; i < iters; i++ {
		nx := math.Sin(a*y) - math.Cos(b*x)
		ny := math.Sin(c*x) - math.Cos(d*y)
		x, y = nx, ny
		px := int((x + 2) / 4 * float64(width))
		py := int((y + 2) / 4 * float64(height))
		if px >= 0 && px < width && py >= 0 && py < height {
			counts[py*width+px]++
			if counts[py*width+px] > maxCount {
				maxCount = counts[py*width+px]
			}
		}
	}
	out := newGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := counts[y*width+x]
			v := clampGray(math.Log(float64(c+1)) / math.Log(float64(maxCount+1)) * 255)
			out.Set(x, y, v)
		}
	}
	return out, nil
}

// moireGen overlays two rotated line gratings to produce interference bands.
type moireGen struct{}

func (moireGen) Name() string { return "moire" }
func (moireGen) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "spacing", Label: "Line spacing", Kind: KindInt, Min: 2, Max: 40},
		{Name: "angle", Label: "Angle (deg)", Kind: KindFloat, Min: 0, Max: 45},
	}
}
func (moireGen) Golden(int64) map[string]interface{} {
	return map[string]interface{}{"spacing": 6, "angle": 5.0}
}
func (g moireGen) Randomize(seed int64) map[string]interface{} {
	r := newRand(seed)
	return map[string]interface{}{"spacing": 2 + r.Intn(38), "angle": r.Float64() * 45}
}
func (g moireGen) Render(width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error) {
	spacing := floatParam(params, "spacing", 6)
	angle := floatParam(params, "angle", 5) * math.Pi / 180
	out := newGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g1 := math.Sin(float64(x) / spacing * 2 * math.Pi)
			rx := float64(x)*math.Cos(angle) - float64(y)*math.Sin(angle)
			g2 := math.Sin(rx / spacing * 2 * math.Pi)
			v := (g1*g2 + 1) / 2 * 255
			out.Set(x, y, clampGray(v))
		}
	}
	return out, nil
}

// opArtStripesGen renders sinusoidally-warped vertical stripes.
type opArtStripesGen struct{}

func (opArtStripesGen) Name() string { return "op_art_stripes" }
func (opArtStripesGen) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "spacing", Label: "Stripe spacing", Kind: KindInt, Min: 2, Max: 40},
		{Name: "warp", Label: "Warp amount", Kind: KindFloat, Min: 0, Max: 20},
	}
}
func (opArtStripesGen) Golden(int64) map[string]interface{} {
	return map[string]interface{}{"spacing": 10, "warp": 8.0}
}
func (g opArtStripesGen) Randomize(seed int64) map[string]interface{} {
	r := newRand(seed)
	return map[string]interface{}{"spacing": 2 + r.Intn(38), "warp": r.Float64() * 20}
}
func (g opArtStripesGen) Render(width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error) {
	spacing := intParam(params, "spacing", 10)
	warp := floatParam(params, "warp", 8)
	if spacing < 1 {
		spacing = 1
	}
	out := newGray(width, height)
	for y := 0; y < height; y++ {
		offset := int(math.Sin(float64(y)*0.05) * warp)
		for x := 0; x < width; x++ {
			v := uint8(255)
			if ((x+offset)/spacing)%2 == 0 {
				v = 0
			}
			out.Set(x, y, v)
		}
	}
	return out, nil
}

// calibrationStripesGen renders a fixed 0..255 luminance ramp banded into
// discrete stripes, used to visually verify dithering fidelity on-device.
type calibrationStripesGen struct{}

func (calibrationStripesGen) Name() string { return "calibration_stripes" }
func (calibrationStripesGen) Schema() []ParamSpec {
	return []ParamSpec{{Name: "bands", Label: "Band count", Kind: KindInt, Min: 2, Max: 32}}
}
func (calibrationStripesGen) Golden(int64) map[string]interface{} {
	return map[string]interface{}{"bands": 16}
}
func (g calibrationStripesGen) Randomize(seed int64) map[string]interface{} {
	r := newRand(seed)
	return map[string]interface{}{"bands": 2 + r.Intn(30)}
}
func (g calibrationStripesGen) Render(width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error) {
	bands := intParam(params, "bands", 16)
	if bands < 1 {
		bands = 1
	}
	out := newGray(width, height)
	bandWidth := width / bands
	if bandWidth < 1 {
		bandWidth = 1
	}
	for x := 0; x < width; x++ {
		band := x / bandWidth
		if band >= bands {
			band = bands - 1
		}
		v := clampGray(float64(band) / float64(bands-1+boolToInt(bands == 1)) * 255)
		for y := 0; y < height; y++ {
			out.Set(x, y, v)
		}
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
