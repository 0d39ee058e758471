package pattern

import (
	"math"

	"github.com/thereceipt/printcore/internal/raster"
)

// topographyGen renders contour-line bands from three overlaid sine fields,
// like elevation lines on a map.
type topographyGen struct{}

func (topographyGen) Name() string { return "topography" }
func (topographyGen) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "freq1", Label: "Frequency 1", Kind: KindFloat, Min: 5, Max: 60},
		{Name: "freq2", Label: "Frequency 2", Kind: KindFloat, Min: 5, Max: 60},
		{Name: "freq3", Label: "Frequency 3", Kind: KindFloat, Min: 5, Max: 80},
		{Name: "gamma", Label: "Contour sharpness", Kind: KindFloat, Min: 1, Max: 4},
	}
}
func (topographyGen) Golden(int64) map[string]interface{} {
	return map[string]interface{}{"freq1": 17.0, "freq2": 29.0, "freq3": 41.0, "gamma": 2.2}
}
func (g topographyGen) Randomize(seed int64) map[string]interface{} {
	r := newRand(seed)
	return map[string]interface{}{
		"freq1": 10 + r.Float64()*30, "freq2": 15 + r.Float64()*35,
		"freq3": 20 + r.Float64()*50, "gamma": 1.5 + r.Float64()*2,
	}
}
func (g topographyGen) Render(width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error) {
	f1 := floatParam(params, "freq1", 17.0)
	f2 := floatParam(params, "freq2", 29.0)
	f3 := floatParam(params, "freq3", 41.0)
	gamma := floatParam(params, "gamma", 2.2)
	out := newGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			xf, yf := float64(x), float64(y)
			t := math.Sin(xf/f1) + math.Sin(yf/f2) + math.Sin((xf+yf)/f3)
			t -= math.Floor(t)
			contours := math.Abs(t-0.5) * 2
			v := math.Pow(clamp01(1-contours), gamma)
			out.Set(x, y, clampGray(v*255))
		}
	}
	return out, nil
}

// zebraGen renders undulating stripes displaced by three stacked sine
// waves, like Bridget Riley's zebra studies.
type zebraGen struct{}

func (zebraGen) Name() string { return "zebra" }
func (zebraGen) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "stripe_width", Label: "Stripe width", Kind: KindFloat, Min: 6, Max: 40},
		{Name: "direction", Label: "Direction (deg)", Kind: KindFloat, Min: 0, Max: 180},
	}
}
func (zebraGen) Golden(int64) map[string]interface{} {
	return map[string]interface{}{"stripe_width": 18.0, "direction": 90.0}
}
func (g zebraGen) Randomize(seed int64) map[string]interface{} {
	r := newRand(seed)
	return map[string]interface{}{"stripe_width": 10 + r.Float64()*18, "direction": r.Float64() * 180}
}
func (g zebraGen) Render(width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error) {
	stripeWidth := floatParam(params, "stripe_width", 18.0)
	direction := floatParam(params, "direction", 90.0) * math.Pi / 180
	const wave1Amp, wave1Freq = 40.0, 0.012
	const wave2Amp, wave2Freq = 20.0, 0.025
	const wave3Amp, wave3Freq = 8.0, 0.06
	cx, cy := float64(width)/2, float64(height)/2
	sinD, cosD := math.Sin(-direction), math.Cos(-direction)
	out := newGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			u := dx*cosD - dy*sinD
			v := dx*sinD + dy*cosD
			disp := wave1Amp*math.Sin(u*wave1Freq) + wave2Amp*math.Sin(u*wave2Freq+v*0.005) + wave3Amp*math.Sin(u*wave3Freq)
			pos := math.Mod(v+disp, stripeWidth)
			if pos < 0 {
				pos += stripeWidth
			}
			if pos < stripeWidth/2 {
				out.Set(x, y, 255)
			} else {
				out.Set(x, y, 0)
			}
		}
	}
	return out, nil
}

// tunnelGen renders concentric frames receding toward a vanishing point,
// with an optional perspective compression toward the center.
type tunnelGen struct{}

func (tunnelGen) Name() string { return "tunnel" }
func (tunnelGen) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "frame_thickness", Label: "Frame thickness", Kind: KindFloat, Min: 4, Max: 30},
		{Name: "gap_thickness", Label: "Gap thickness", Kind: KindFloat, Min: 4, Max: 30},
		{Name: "perspective", Label: "Perspective", Kind: KindSlider, Min: 0, Max: 0.9, Step: 0.05},
		{Name: "rectangular", Label: "Rectangular", Kind: KindBool},
	}
}
func (tunnelGen) Golden(int64) map[string]interface{} {
	return map[string]interface{}{"frame_thickness": 15.0, "gap_thickness": 15.0, "perspective": 0.3, "rectangular": true}
}
func (g tunnelGen) Randomize(seed int64) map[string]interface{} {
	r := newRand(seed)
	return map[string]interface{}{
		"frame_thickness": 8 + r.Float64()*17, "gap_thickness": 8 + r.Float64()*17,
		"perspective": r.Float64() * 0.6, "rectangular": r.Float64() < 0.7,
	}
}
func (g tunnelGen) Render(width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error) {
	frameThick := floatParam(params, "frame_thickness", 15.0)
	gapThick := floatParam(params, "gap_thickness", 15.0)
	perspective := floatParam(params, "perspective", 0.3)
	rectangular := true
	if v, ok := params["rectangular"].(bool); ok {
		rectangular = v
	}
	cx, cy := float64(width)/2, float64(height)/2
	maxDist := math.Max(float64(width)/2, float64(height)/2)
	out := newGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			var dist float64
			if rectangular {
				dist = math.Max(math.Abs(dx), math.Abs(dy))
			} else {
				dist = math.Sqrt(dx*dx + dy*dy)
			}
			normDist := dist / maxDist
			factor := 1 - perspective*(1-normDist)
			period := (frameThick + gapThick) * factor
			if period < 1 {
				out.Set(x, y, 128)
				continue
			}
			pos := math.Mod(dist, period)
			if pos < frameThick*factor {
				out.Set(x, y, 255)
			} else {
				out.Set(x, y, 0)
			}
		}
	}
	return out, nil
}

// glitchGen renders blocky columns overlaid with periodic scanlines, for a
// digital-corruption texture.
type glitchGen struct{}

func (glitchGen) Name() string { return "glitch" }
func (glitchGen) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "column_width", Label: "Column width", Kind: KindInt, Min: 4, Max: 40},
		{Name: "scanline_period", Label: "Scanline period", Kind: KindInt, Min: 8, Max: 60},
	}
}
func (glitchGen) Golden(int64) map[string]interface{} {
	return map[string]interface{}{"column_width": 12, "scanline_period": 24}
}
func (g glitchGen) Randomize(seed int64) map[string]interface{} {
	r := newRand(seed)
	return map[string]interface{}{"column_width": 4 + r.Intn(36), "scanline_period": 8 + r.Intn(52)}
}
func (g glitchGen) Render(width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error) {
	columnWidth := intParam(params, "column_width", 12)
	if columnWidth < 1 {
		columnWidth = 1
	}
	scanlinePeriod := intParam(params, "scanline_period", 24)
	if scanlinePeriod < 1 {
		scanlinePeriod = 1
	}
	const columnFreq, wobbleFreq, wobbleVert = 0.7, 15.0, 7.0
	const baseWeight, wobbleWeight = 0.55, 0.45
	const scanlineThickness = 2
	out := newGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			col := float64(x / columnWidth)
			base := (math.Sin(col*columnFreq) + 1) / 2
			wobble := (math.Sin((float64(x)+float64(y)*wobbleVert)/wobbleFreq) + 1) / 2
			scan := 0.0
			if y%scanlinePeriod < scanlineThickness {
				scan = 1.0
			}
			blended := baseWeight*base + wobbleWeight*wobble
			v := math.Max(blended, scan)
			out.Set(x, y, clampGray(clamp01(v)*255))
		}
	}
	return out, nil
}

// woodgrainGen renders flowing parallel rings distorted around a handful
// of knots, like the growth rings of a wood plank.
type woodgrainGen struct{}

func (woodgrainGen) Name() string { return "woodgrain" }
func (woodgrainGen) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "ring_spacing", Label: "Ring spacing", Kind: KindFloat, Min: 4, Max: 20},
		{Name: "num_knots", Label: "Knots", Kind: KindInt, Min: 0, Max: 6},
	}
}
func (woodgrainGen) Golden(int64) map[string]interface{} {
	return map[string]interface{}{"ring_spacing": 8.0, "num_knots": 3}
}
func (g woodgrainGen) Randomize(seed int64) map[string]interface{} {
	r := newRand(seed)
	return map[string]interface{}{"ring_spacing": 5 + r.Float64()*10, "num_knots": r.Intn(6)}
}
func (g woodgrainGen) Render(width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error) {
	ringSpacing := floatParam(params, "ring_spacing", 8.0)
	if ringSpacing < 1 {
		ringSpacing = 1
	}
	numKnots := intParam(params, "num_knots", 3)
	const flowFreq, flowAmp = 0.02, 30.0
	const ringThickness = 2.0
	r := newRand(seed)
	type knot struct{ x, y, size float64 }
	knots := make([]knot, numKnots)
	for i := range knots {
		knots[i] = knot{x: r.Float64() * float64(width), y: r.Float64() * float64(height), size: 25 + r.Float64()*35}
	}
	out := newGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			xf, yf := float64(x), float64(y)
			ringDist := xf + math.Sin(yf*flowFreq)*flowAmp*0.5
			for _, k := range knots {
				dx, dy := xf-k.x, yf-k.y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist < k.size*2 {
					influence := 1 - math.Min(dist/(k.size*2), 1)
					angle := math.Atan2(dy, dx)
					ringDist += influence * dist * 0.5 * math.Cos(angle)
				}
			}
			distToRing := math.Mod(ringDist, ringSpacing)
			if distToRing < 0 {
				distToRing += ringSpacing
			}
			distToRing = math.Abs(distToRing - ringSpacing/2)
			if distToRing < ringThickness/2 {
				out.Set(x, y, 200)
			} else {
				out.Set(x, y, 40)
			}
		}
	}
	return out, nil
}

// rileyGen renders horizontal lines displaced by two stacked sine waves,
// the classic Bridget Riley optical-movement study.
type rileyGen struct{}

func (rileyGen) Name() string { return "riley" }
func (rileyGen) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "line_spacing", Label: "Line spacing", Kind: KindFloat, Min: 4, Max: 20},
		{Name: "thickness", Label: "Line thickness", Kind: KindFloat, Min: 1, Max: 6},
	}
}
func (rileyGen) Golden(int64) map[string]interface{} {
	return map[string]interface{}{"line_spacing": 8.0, "thickness": 3.0}
}
func (g rileyGen) Randomize(seed int64) map[string]interface{} {
	r := newRand(seed)
	return map[string]interface{}{"line_spacing": 6 + r.Float64()*6, "thickness": 1.5 + r.Float64()*3}
}
func (g rileyGen) Render(width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error) {
	lineSpacing := floatParam(params, "line_spacing", 8.0)
	if lineSpacing < 1 {
		lineSpacing = 1
	}
	thickness := floatParam(params, "thickness", 3.0)
	const amp1, freq1 = 15.0, 0.02
	const amp2, freq2, yFreq = 8.0, 0.05, 0.01
	out := newGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			xf, yf := float64(x), float64(y)
			disp := amp1*math.Sin(xf*freq1) + amp2*math.Sin(xf*freq2+yf*yFreq)
			displacedY := yf + disp
			distToLine := math.Abs(math.Mod(displacedY, lineSpacing) - lineSpacing/2)
			if distToLine < thickness/2 {
				out.Set(x, y, 255)
			} else {
				out.Set(x, y, 0)
			}
		}
	}
	return out, nil
}

// vasarelyGen renders a regular grid bulging outward from a center point,
// creating a sphere-emerging-from-the-page illusion.
type vasarelyGen struct{}

func (vasarelyGen) Name() string { return "vasarely" }
func (vasarelyGen) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "cell_size", Label: "Cell size", Kind: KindFloat, Min: 8, Max: 40},
		{Name: "bulge_strength", Label: "Bulge strength", Kind: KindSlider, Min: 0, Max: 1, Step: 0.05},
	}
}
func (vasarelyGen) Golden(int64) map[string]interface{} {
	return map[string]interface{}{"cell_size": 20.0, "bulge_strength": 0.6}
}
func (g vasarelyGen) Randomize(seed int64) map[string]interface{} {
	r := newRand(seed)
	return map[string]interface{}{"cell_size": 15 + r.Float64()*15, "bulge_strength": 0.4 + r.Float64()*0.4}
}
func (g vasarelyGen) Render(width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error) {
	cellSize := floatParam(params, "cell_size", 20.0)
	if cellSize < 1 {
		cellSize = 1
	}
	bulge := floatParam(params, "bulge_strength", 0.6)
	const lineThickness = 2.0
	cx, cy := float64(width)/2, float64(height)/2
	sphereR := math.Min(float64(width), float64(height)) * 0.35
	out := newGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			xf, yf := float64(x), float64(y)
			dx, dy := xf-cx, yf-cy
			sphereDist := math.Sqrt(dx*dx + dy*dy)
			normDist := sphereDist / sphereR
			gx, gy := xf, yf
			if normDist < 1 {
				z := math.Sqrt(1 - normDist*normDist)
				factor := 1 + bulge*z
				gx = cx + dx*factor
				gy = cy + dy*factor
			}
			distX := math.Abs(math.Mod(gx, cellSize) - cellSize/2)
			distY := math.Abs(math.Mod(gy, cellSize) - cellSize/2)
			distToLine := math.Min(distX, distY)
			if distToLine < lineThickness/2 {
				out.Set(x, y, 255)
			} else {
				out.Set(x, y, 0)
			}
		}
	}
	return out, nil
}

// estrellaGen renders a rounded five-pointed star with a simple face,
// this product's signature mark.
type estrellaGen struct{}

func (estrellaGen) Name() string { return "estrella" }
func (estrellaGen) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "size", Label: "Size", Kind: KindSlider, Min: 0.2, Max: 0.6, Step: 0.02},
		{Name: "points", Label: "Points", Kind: KindInt, Min: 3, Max: 8},
		{Name: "inner_ratio", Label: "Inner ratio", Kind: KindSlider, Min: 0.3, Max: 0.7, Step: 0.02},
		{Name: "roundness", Label: "Roundness", Kind: KindSlider, Min: 0, Max: 1, Step: 0.05},
		{Name: "show_face", Label: "Show face", Kind: KindBool},
	}
}
func (estrellaGen) Golden(int64) map[string]interface{} {
	return map[string]interface{}{"size": 0.42, "points": 5, "inner_ratio": 0.5, "roundness": 0.75, "show_face": true}
}
func (g estrellaGen) Randomize(seed int64) map[string]interface{} {
	r := newRand(seed)
	return map[string]interface{}{
		"size": 0.3 + r.Float64()*0.2, "points": 5, "inner_ratio": 0.35 + r.Float64()*0.3,
		"roundness": 0.4 + r.Float64()*0.5, "show_face": r.Float64() < 0.8,
	}
}
func (g estrellaGen) Render(width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error) {
	size := floatParam(params, "size", 0.42)
	points := intParam(params, "points", 5)
	if points < 3 {
		points = 5
	}
	innerRatio := floatParam(params, "inner_ratio", 0.5)
	roundness := floatParam(params, "roundness", 0.75)
	showFace := true
	if v, ok := params["show_face"].(bool); ok {
		showFace = v
	}
	minDim := math.Min(float64(width), float64(height))
	cx, cy := float64(width)*0.5, float64(height)*0.52
	rOuter := size
	rInner := size * innerRatio
	sector := 2 * math.Pi / float64(points)
	out := newGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			px := (float64(x) - cx) / (minDim * 0.5)
			py := (float64(y) - cy) / (minDim * 0.5)
			d := math.Sqrt(px*px + py*py)
			theta := math.Atan2(py, px)
			a := math.Mod(theta, sector)
			if a < 0 {
				a += sector
			}
			a = math.Abs(a - sector/2)
			t := math.Pow(a/(sector/2), 1-0.6*roundness)
			r := rOuter - (rOuter-rInner)*t
			starD := d - r
			switch {
			case starD > 0.04:
				out.Set(x, y, 0)
			case starD > 0:
				out.Set(x, y, 230)
			default:
				ink := uint8(60)
				if showFace {
					eyeDX, eyeDY := math.Abs(px)-0.15, py+0.05
					if eyeDX > -0.05 && eyeDX < 0.05 && math.Abs(eyeDY) < 0.06 {
						ink = 255
					}
				}
				out.Set(x, y, ink)
			}
		}
	}
	return out, nil
}
