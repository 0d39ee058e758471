// Package control implements the host-facing Surface described in
// spec.md §6: render_preview, print, canvas_layout, pattern discovery,
// and profile management. The surface never throws — every call returns
// a result record, per spec.md §7.
package control

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"

	"github.com/thereceipt/printcore/internal/canvas"
	"github.com/thereceipt/printcore/internal/document"
	"github.com/thereceipt/printcore/internal/errs"
	"github.com/thereceipt/printcore/internal/ir"
	"github.com/thereceipt/printcore/internal/lower"
	"github.com/thereceipt/printcore/internal/pattern"
	"github.com/thereceipt/printcore/internal/profileconfig"
	"github.com/thereceipt/printcore/internal/protocol"
	"github.com/thereceipt/printcore/internal/raster"
	"github.com/thereceipt/printcore/internal/segment"
	"github.com/thereceipt/printcore/internal/transport"
)

// PrintResult mirrors the host interface's print() result record.
type PrintResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// LayoutResult mirrors canvas_layout()'s response shape.
type LayoutResult struct {
	Width          int          `json:"width"`
	Height         int          `json:"height"`
	YOffset        int          `json:"y_offset"`
	DocumentHeight int          `json:"document_height"`
	Elements       []canvas.Box `json:"elements"`
}

// PatternInfo mirrors pattern_params()'s response shape.
type PatternInfo struct {
	Params map[string]interface{} `json:"params"`
	Specs  []pattern.ParamSpec    `json:"specs"`
}

// previewCanvasRenderer is a no-transport canvas sub-renderer that lowers
// and rasterizes a child in isolation, used both by real canvas rendering
// and preview mode.
type previewCanvasRenderer struct {
	l *lower.Lowerer
}

func (p *previewCanvasRenderer) RenderChild(ctx context.Context, c *document.Component, width int) (*raster.Gray, error) {
	prog, err := lower.Lower(ctx, &document.Document{Components: []document.Component{*c}, Cut: boolPtr(false)}, p.l.ForCanvasChild())
	if err != nil {
		return nil, err
	}
	return rasterFromProgram(prog)
}

func boolPtr(b bool) *bool { return &b }

// canvasAdapter satisfies lower.CanvasRenderer by driving canvas.Compositor
// with a sub-renderer that recursively lowers each child in isolation.
type canvasAdapter struct{}

func (canvasAdapter) Render(ctx context.Context, c *document.Component, width int, l *lower.Lowerer) (*raster.Gray, error) {
	compositor := canvas.New(&previewCanvasRenderer{l: l})
	return compositor.Render(ctx, c, width)
}

// rasterFromProgram concatenates every Raster op's grayscale-equivalent
// bits vertically, the same way assemblePreview accumulates a whole
// document's strips. A single-child lowering normally yields exactly one
// Raster op (text-as-raster, pattern, image, canvas); stacking handles a
// component that happens to emit more than one. A child that lowers to
// native ops only (e.g. a divider) yields no Raster op and comes back as a
// 1x1 blank buffer.
func rasterFromProgram(prog ir.Program) (*raster.Gray, error) {
	var strips []*raster.Gray
	width := 0
	for _, op := range prog.Ops {
		if op.Kind == ir.OpRaster && op.Raster != nil {
			g := bitsToGray(op.Raster)
			strips = append(strips, g)
			if g.Width > width {
				width = g.Width
			}
		}
	}
	if len(strips) == 0 {
		return raster.NewGray(1, 1), nil
	}
	height := 0
	for _, s := range strips {
		height += s.Height
	}
	out := raster.NewGray(width, height)
	y := 0
	for _, s := range strips {
		for sy := 0; sy < s.Height; sy++ {
			for sx := 0; sx < s.Width; sx++ {
				out.Set(sx, y+sy, s.At(sx, sy))
			}
		}
		y += s.Height
	}
	return out, nil
}

func bitsToGray(b *raster.Bits) *raster.Gray {
	g := raster.NewGray(b.Width, b.Height)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.GetBit(x, y) == 1 {
				g.Set(x, y, 255)
			}
		}
	}
	return g
}

// Surface implements the abstract control surface from spec.md §6, wiring
// lowering, the optimizer, codegen, segmentation, and transport together
// behind a small blocking API.
type Surface struct {
	profiles  *profileconfig.Store
	patterns  *pattern.Registry
	lowerOpts lower.Options
	transport *transport.Transport
	maxRows   int
}

// New constructs a Surface. transport may be nil for preview-only use.
func New(profiles *profileconfig.Store, patterns *pattern.Registry, lowerOpts lower.Options, t *transport.Transport, maxRows int) *Surface {
	if maxRows <= 0 {
		maxRows = segment.DefaultMaxRowsPerJob
	}
	return &Surface{profiles: profiles, patterns: patterns, lowerOpts: lowerOpts, transport: t, maxRows: maxRows}
}

// compile lowers, optimizes, and returns the IR program for d, using the
// active profile's width.
func (s *Surface) compile(ctx context.Context, d *document.Document) (ir.Program, profileconfig.Profile, error) {
	profile := s.profiles.Get()
	opts := s.lowerOpts
	opts.Profile.WidthDots = profile.WidthDots
	if opts.Canvas == nil {
		opts.Canvas = canvasAdapter{}
	}
	if opts.Patterns == nil {
		opts.Patterns = s.patterns
	}
	l := lower.New(opts)
	prog, err := lower.Lower(ctx, d, l)
	if err != nil {
		return ir.Program{}, profile, err
	}
	prog.Ops = ir.Optimize(prog.Ops)
	return prog, profile, nil
}

// RenderPreview lowers d and stacks every Raster op into one cumulative
// grayscale image, returned as PNG bytes. Native text, barcode and feed ops
// are not drawn.
func (s *Surface) RenderPreview(ctx context.Context, d *document.Document) ([]byte, error) {
	prog, profile, err := s.compile(ctx, d)
	if err != nil {
		return nil, err
	}
	frame := assemblePreview(prog, profile.WidthDots)
	return encodePNG(frame)
}

func assemblePreview(prog ir.Program, width int) *raster.Gray {
	var strips []*raster.Gray
	for _, op := range prog.Ops {
		if op.Kind == ir.OpRaster && op.Raster != nil {
			strips = append(strips, bitsToGray(op.Raster))
		}
	}
	height := 0
	for _, s := range strips {
		height += s.Height
	}
	if height == 0 {
		height = 1
	}
	out := raster.NewGray(width, height)
	y := 0
	for _, strip := range strips {
		for sy := 0; sy < strip.Height; sy++ {
			for sx := 0; sx < strip.Width && sx < width; sx++ {
				out.Set(sx, y+sy, strip.At(sx, sy))
			}
		}
		y += strip.Height
	}
	return out
}

func encodePNG(g *raster.Gray) ([]byte, error) {
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			// invert back to light-is-high for PNG viewers.
			img.SetGray(x, y, color.Gray{Y: 255 - g.At(x, y)})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errs.Wrap(errs.InvalidDocument, err, "encoding preview PNG")
	}
	return buf.Bytes(), nil
}

// Print compiles, segments, and streams d to the active transport. The
// surface never throws: failures come back as PrintResult.Error, per
// spec.md §7.
func (s *Surface) Print(ctx context.Context, d *document.Document) PrintResult {
	prog, profile, err := s.compile(ctx, d)
	if err != nil {
		return PrintResult{Success: false, Error: describeError(err)}
	}
	if profile.Kind == profileconfig.KindCanvas {
		if _, err := s.RenderPreview(ctx, d); err != nil {
			return PrintResult{Success: false, Error: describeError(err)}
		}
		return PrintResult{Success: true, Message: "rendered to canvas profile, no transport used"}
	}
	if s.transport == nil {
		return PrintResult{Success: false, Error: errs.New(errs.DeviceUnavailable, "no transport configured").Error()}
	}
	subs, err := segment.Split(prog, s.maxRows)
	if err != nil {
		return PrintResult{Success: false, Error: describeError(err)}
	}
	if err := s.transport.Send(ctx, subs, profile.WidthDots); err != nil {
		return PrintResult{Success: false, Error: describeError(err), Message: "partial output may exist on paper"}
	}
	return PrintResult{Success: true}
}

func describeError(err error) string {
	if e, ok := errs.AsError(err); ok {
		return e.Kind.String() + ": " + e.Message
	}
	return err.Error()
}

// CanvasLayout returns the layout of the canvas at canvasIndex within d,
// rasterizing its children through the same sub-renderer Render uses so the
// reported boxes agree bit-exactly with what a real print would composite.
func (s *Surface) CanvasLayout(ctx context.Context, d *document.Document, canvasIndex int) (LayoutResult, error) {
	if canvasIndex < 0 || canvasIndex >= len(d.Components) || d.Components[canvasIndex].Type != document.TypeCanvas {
		return LayoutResult{}, errs.New(errs.InvalidParam, "no canvas component at index %d", canvasIndex)
	}
	profile := s.profiles.Get()
	comp := &d.Components[canvasIndex]
	opts := s.lowerOpts
	opts.Profile.WidthDots = profile.WidthDots
	if opts.Patterns == nil {
		opts.Patterns = s.patterns
	}
	l := lower.New(opts)
	compositor := canvas.New(&previewCanvasRenderer{l: l})
	layout, err := compositor.Layout(ctx, comp, profile.WidthDots)
	if err != nil {
		return LayoutResult{}, err
	}
	docHeight := 0
	for i := range d.Components {
		h, err := s.componentHeight(ctx, l, &d.Components[i], i, canvasIndex, layout.Canvas.Height)
		if err != nil {
			return LayoutResult{}, err
		}
		docHeight += h
	}
	yOffset := 0
	for i := 0; i < canvasIndex; i++ {
		h, err := s.componentHeight(ctx, l, &d.Components[i], i, canvasIndex, layout.Canvas.Height)
		if err != nil {
			return LayoutResult{}, err
		}
		yOffset += h
	}
	return LayoutResult{
		Width: layout.Canvas.Width, Height: layout.Canvas.Height,
		YOffset: yOffset, DocumentHeight: docHeight, Elements: layout.Children,
	}, nil
}

// componentHeight measures a top-level document component's rendered
// height, so canvas_layout's YOffset and DocumentHeight agree bit-exactly
// with the height codegen actually produces for that component instead of
// a flat per-component guess. The canvas under measurement reuses the
// height Layout already computed, rather than lowering it a second time.
func (s *Surface) componentHeight(ctx context.Context, l *lower.Lowerer, c *document.Component, index, canvasIndex, canvasHeight int) (int, error) {
	if index == canvasIndex {
		return canvasHeight, nil
	}
	if c.Height > 0 {
		return c.Height, nil
	}
	prog, err := lower.Lower(ctx, &document.Document{Components: []document.Component{*c}, Cut: boolPtr(false)}, l)
	if err != nil {
		return 0, err
	}
	// Lower ends every program with a document-level Newline; the real
	// document carries that line once, not once per component.
	ops := prog.Ops
	if n := len(ops); n > 0 && ops[n-1].Kind == ir.OpNewline {
		ops = ops[:n-1]
	}
	return measureOpsHeight(ops), nil
}

// measureOpsHeight sums the vertical dots a lowered op stream advances,
// the same distance codegen's Newline/FeedUnits handling and rasterized
// content would move the print head.
func measureOpsHeight(ops []ir.Op) int {
	const lineHeightDots = 24 // matches lowerSpacer's line-height constant
	h := 0
	for _, op := range ops {
		switch op.Kind {
		case ir.OpRaster:
			if op.Raster != nil {
				h += op.Raster.Height
			}
		case ir.OpNewline:
			h += lineHeightDots
		case ir.OpFeedUnits:
			h += op.FeedUnits
		case ir.OpBarcode:
			h += op.BarcodeHeight
		}
	}
	return h
}

// Patterns lists every registered generator name.
func (s *Surface) Patterns() []string { return s.patterns.Names() }

// PatternParams returns a generator's schema plus its golden defaults.
func (s *Surface) PatternParams(name string) (PatternInfo, error) {
	g, err := s.patterns.Get(name)
	if err != nil {
		return PatternInfo{}, err
	}
	return PatternInfo{Params: g.Golden(0), Specs: g.Schema()}, nil
}

// PatternRandom returns a generator's schema plus a randomized parameter set.
func (s *Surface) PatternRandom(name string, seed int64) (PatternInfo, error) {
	g, err := s.patterns.Get(name)
	if err != nil {
		return PatternInfo{}, err
	}
	return PatternInfo{Params: g.Randomize(seed), Specs: g.Schema()}, nil
}

// SetActiveProfile installs name as the active profile.
func (s *Surface) SetActiveProfile(name string) (profileconfig.Profile, error) {
	return s.profiles.SetByName(name)
}

// GetActiveProfile returns the currently active profile.
func (s *Surface) GetActiveProfile() profileconfig.Profile { return s.profiles.Get() }

// weaveProgram renders names via the pattern registry's Weave crossfade and
// wraps the result in a self-contained page-mode raster program, used by
// both WeavePreview and Weave.
func (s *Surface) weaveProgram(names []string, heightDots, crossfadeDots int, curve pattern.CrossfadeCurve, seed int64) (ir.Program, profileconfig.Profile, error) {
	profile := s.profiles.Get()
	g, err := s.patterns.Weave(names, profile.WidthDots, heightDots, crossfadeDots, curve, seed)
	if err != nil {
		return ir.Program{}, profile, err
	}
	bits := raster.Pack(g)
	prog := ir.Program{Ops: []ir.Op{ir.Init(), ir.Raster(bits, ir.RasterPage), ir.Newline(), ir.Cut()}}
	return prog, profile, nil
}

// WeavePreview renders a multi-pattern crossfade weave to PNG bytes.
func (s *Surface) WeavePreview(names []string, heightDots, crossfadeDots int, curve pattern.CrossfadeCurve, seed int64) ([]byte, error) {
	prog, profile, err := s.weaveProgram(names, heightDots, crossfadeDots, curve, seed)
	if err != nil {
		return nil, err
	}
	frame := assemblePreview(prog, profile.WidthDots)
	return encodePNG(frame)
}

// Weave renders and streams a multi-pattern crossfade weave to the active
// transport, per spec.md §6's "weave" CLI subcommand.
func (s *Surface) Weave(ctx context.Context, names []string, heightDots, crossfadeDots int, curve pattern.CrossfadeCurve, seed int64) PrintResult {
	prog, profile, err := s.weaveProgram(names, heightDots, crossfadeDots, curve, seed)
	if err != nil {
		return PrintResult{Success: false, Error: describeError(err)}
	}
	if s.transport == nil {
		return PrintResult{Success: false, Error: errs.New(errs.DeviceUnavailable, "no transport configured").Error()}
	}
	subs, err := segment.Split(prog, s.maxRows)
	if err != nil {
		return PrintResult{Success: false, Error: describeError(err)}
	}
	if err := s.transport.Send(ctx, subs, profile.WidthDots); err != nil {
		return PrintResult{Success: false, Error: describeError(err), Message: "partial output may exist on paper"}
	}
	return PrintResult{Success: true}
}

// StoreLogo thresholds img to 1-bit (raster.Pack) at its own size, without
// resizing, and uploads it to the device's NV graphic store under key, per
// spec.md §6's "logo store" CLI command.
func (s *Surface) StoreLogo(ctx context.Context, img *raster.Gray, key string) error {
	if s.transport == nil {
		return errs.New(errs.DeviceUnavailable, "no transport configured")
	}
	bits := raster.Pack(img)
	data, err := protocol.EncodeNVStore(key, bits)
	if err != nil {
		return err
	}
	return s.transport.SendRaw(ctx, data)
}

// DeleteLogo frees the NV graphic slot at key.
func (s *Surface) DeleteLogo(ctx context.Context, key string) error {
	if s.transport == nil {
		return errs.New(errs.DeviceUnavailable, "no transport configured")
	}
	data, err := protocol.EncodeNVDelete(key)
	if err != nil {
		return err
	}
	return s.transport.SendRaw(ctx, data)
}

// DeleteAllLogos frees every NV graphic slot on the device.
func (s *Surface) DeleteAllLogos(ctx context.Context) error {
	if s.transport == nil {
		return errs.New(errs.DeviceUnavailable, "no transport configured")
	}
	return s.transport.SendRaw(ctx, protocol.EncodeNVDeleteAll())
}

// ListProfiles returns every built-in profile.
func (s *Surface) ListProfiles() []profileconfig.Profile {
	names := profileconfig.BuiltinNames()
	out := make([]profileconfig.Profile, 0, len(names))
	for _, n := range names {
		p, _ := profileconfig.Lookup(n)
		out = append(out, p)
	}
	return out
}
