// Package pattern implements the procedural generator registry and the
// multi-pattern weaving algorithm described in spec.md §4.5.
package pattern

import (
	"math/rand"

	"github.com/thereceipt/printcore/internal/errs"
	"github.com/thereceipt/printcore/internal/raster"
)

// ParamKind is the closed set of parameter widget types a generator's
// schema can describe.
type ParamKind string

const (
	KindSlider ParamKind = "slider"
	KindFloat  ParamKind = "float"
	KindInt    ParamKind = "int"
	KindSelect ParamKind = "select"
	KindBool   ParamKind = "bool"
)

// ParamSpec describes one generator parameter for host-side UI generation,
// per spec.md §9's "pattern schema discoverability" note.
type ParamSpec struct {
	Name        string
	Label       string
	Kind        ParamKind
	Min, Max    float64
	Step        float64
	Options     []string
	Description string
}

// Generator is the interface every named pattern implements.
type Generator interface {
	Name() string
	Schema() []ParamSpec
	Render(width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error)
	Golden(seed int64) map[string]interface{}
	Randomize(seed int64) map[string]interface{}
}

// Registry is a write-once, read-many collection of generators, matching
// the concurrency model in spec.md §5 ("write-once at startup, read-only
// thereafter").
type Registry struct {
	generators map[string]Generator
	order      []string
}

// NewRegistry builds a registry from the built-in generator set.
func NewRegistry() *Registry {
	r := &Registry{generators: map[string]Generator{}}
	for _, g := range builtinGenerators() {
		r.generators[g.Name()] = g
		r.order = append(r.order, g.Name())
	}
	return r
}

// Names returns the registered generator names in registration order.
func (r *Registry) Names() []string { return append([]string(nil), r.order...) }

// Get looks up a generator by name.
func (r *Registry) Get(name string) (Generator, error) {
	g, ok := r.generators[name]
	if !ok {
		return nil, errs.New(errs.InvalidParam, "generator name %q is not registered", name)
	}
	return g, nil
}

// Render is a convenience wrapper used by lowering's PatternRenderer seam.
func (r *Registry) Render(name string, width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error) {
	g, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if params == nil {
		params = g.Golden(seed)
	}
	return g.Render(width, height, seed, params)
}

func floatParam(params map[string]interface{}, name string, def float64) float64 {
	v, ok := params[name]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	default:
		return def
	}
}

func intParam(params map[string]interface{}, name string, def int) int {
	return int(floatParam(params, name, float64(def)))
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func clampGray(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func newGray(width, height int) *raster.Gray {
	return raster.NewGray(width, height)
}

// CrossfadeCurve is the closed set of weave transition shapes.
type CrossfadeCurve string

const (
	CurveLinear   CrossfadeCurve = "linear"
	CurveSmooth   CrossfadeCurve = "smooth"
	CurveEaseIn   CrossfadeCurve = "ease-in"
	CurveEaseOut  CrossfadeCurve = "ease-out"
)

func applyCurve(curve CrossfadeCurve, t float64) float64 {
	switch curve {
	case CurveSmooth:
		return t * t * (3 - 2*t)
	case CurveEaseIn:
		return t * t
	case CurveEaseOut:
		return 1 - (1-t)*(1-t)
	default:
		return t
	}
}

// Weave renders N named patterns into equal bands stacked vertically over
// a total height and crossfades adjacent bands within a transition window
// centered on each band boundary, per spec.md §4.5. The composite is
// returned pre-dither; the caller dithers the whole result once.
func (r *Registry) Weave(names []string, width, height, crossfade int, curve CrossfadeCurve, seed int64) (*raster.Gray, error) {
	if len(names) < 2 {
		return nil, errs.New(errs.InvalidParam, "weave requires at least 2 pattern names, got %d", len(names))
	}
	n := len(names)
	bandHeight := height / n
	frames := make([]*raster.Gray, n)
	for i, name := range names {
		g, err := r.Render(name, width, height, seed+int64(i), nil)
		if err != nil {
			return nil, err
		}
		frames[i] = g
	}

	bandOf := func(y int) int {
		b := y / bandHeight
		if b >= n {
			b = n - 1
		}
		return b
	}

	out := newGray(width, height)
	for y := 0; y < height; y++ {
		band := bandOf(y)
		outgoing, incoming, t, blending := band, band, 0.0, false

		for boundary := 1; boundary < n; boundary++ {
			center := boundary * bandHeight
			lo, hi := center-crossfade/2, center+crossfade/2
			if y >= lo && y < hi && crossfade > 0 {
				outgoing, incoming = boundary-1, boundary
				t = applyCurve(curve, clamp01(float64(y-lo)/float64(crossfade)))
				blending = true
				break
			}
		}

		for x := 0; x < width; x++ {
			var val float64
			if blending {
				a := float64(frames[outgoing].At(x, y))
				b := float64(frames[incoming].At(x, y))
				val = lerp(t, a, b)
			} else {
				val = float64(frames[band].At(x, y))
			}
			out.Set(x, y, clampGray(val))
		}
	}
	return out, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerp(t, a, b float64) float64 { return a + t*(b-a) }
