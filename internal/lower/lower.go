// Package lower walks a document.Document and emits the IR op stream that
// the optimizer and codec consume, per spec.md §4.3.
package lower

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/thereceipt/printcore/internal/document"
	"github.com/thereceipt/printcore/internal/errs"
	"github.com/thereceipt/printcore/internal/ir"
	"github.com/thereceipt/printcore/internal/raster"
)

// ImageSource fetches pixel data for an image component. Grounded on
// spec.md §9's injected-trait design: the core never performs network I/O
// itself, so tests can supply a deterministic stub.
type ImageSource interface {
	Fetch(ctx context.Context, url string) (*raster.Gray, error)
}

// BarcodeEncoder turns a barcode-like component into an IR Barcode op,
// choosing between a native opcode and a rasterized fallback.
type BarcodeEncoder interface {
	Encode(kind ir.BarcodeKind, payload string, width int, params map[string]interface{}) (ir.Op, error)
}

// PatternRenderer renders a named generator to a grayscale strip.
type PatternRenderer interface {
	Render(name string, width, height int, seed int64, params map[string]interface{}) (*raster.Gray, error)
}

// CanvasRenderer composites a canvas component's children to one grayscale
// frame buffer, per spec.md §4.6.
type CanvasRenderer interface {
	Render(ctx context.Context, c *document.Component, width int, l *Lowerer) (*raster.Gray, error)
}

// GlyphRasterizer rasterizes text into a grayscale strip for fonts that
// lack a protocol codepage (e.g. IBM Plex), per spec.md §4.2.
type GlyphRasterizer interface {
	RasterizeText(text string, widthDots int, bold, italic bool) (*raster.Gray, error)
}

// Profile carries the target device geometry lowering needs to make
// layout decisions (column counts, divider width, spacer conversion).
type Profile struct {
	WidthDots int
	DPI       int
}

// Options bundles the collaborators lowering needs for the components that
// require raster production, per spec.md §9's injected-trait design.
type Options struct {
	Images    ImageSource
	Barcodes  BarcodeEncoder
	Patterns  PatternRenderer
	Canvas    CanvasRenderer
	Glyphs    GlyphRasterizer
	Profile   Profile
	Clock     document.Clock
	DitherAlg raster.Algorithm
}

// Lowerer holds the collaborators, and whether text is forced down the
// raster path, for a document's lowering pass.
type Lowerer struct {
	opts        Options
	forceRaster bool
}

// New constructs a Lowerer bound to the given collaborators.
func New(opts Options) *Lowerer {
	if opts.DitherAlg == 0 && opts.DitherAlg != raster.DitherNone {
		// zero value happens to be DitherNone already; keep explicit for clarity.
	}
	return &Lowerer{opts: opts}
}

// ForCanvasChild returns a Lowerer that rasterizes text, header and banner
// components instead of emitting native printer text ops, so those canvas
// children produce a real pixel buffer for the compositor's blend modes to
// operate on, per spec.md §4.6. Other components that lower to native ops
// only (divider, line_item, total, columns, table, markdown, barcodes,
// nv_logo) still emit no Raster op here.
func (l *Lowerer) ForCanvasChild() *Lowerer {
	cp := *l
	cp.forceRaster = true
	return &cp
}

const (
	colsFontA = 48
	colsFontB = 64
)

// Lower applies variable substitution then emits the IR op stream for d.
func Lower(ctx context.Context, d *document.Document, l *Lowerer) (ir.Program, error) {
	document.ResolveVariables(d, l.opts.Clock)
	var ops []ir.Op
	ops = append(ops, ir.Init())
	for i := range d.Components {
		compOps, err := l.lowerComponent(ctx, &d.Components[i])
		if err != nil {
			return ir.Program{}, err
		}
		ops = append(ops, compOps...)
	}
	ops = append(ops, ir.Newline())
	if d.WantsCut() {
		ops = append(ops, ir.Cut())
	}
	return ir.Program{Ops: ops}, nil
}

func (l *Lowerer) lowerComponent(ctx context.Context, c *document.Component) ([]ir.Op, error) {
	switch c.Type {
	case document.TypeText, document.TypeHeader, document.TypeBanner:
		return l.lowerText(c)
	case document.TypeLineItem:
		return l.lowerLineItem(c)
	case document.TypeTotal:
		return l.lowerTotal(c)
	case document.TypeDivider:
		return l.lowerDivider(c)
	case document.TypeSpacer:
		return l.lowerSpacer(c)
	case document.TypeColumns:
		return l.lowerColumns(c)
	case document.TypeTable:
		return l.lowerTable(c)
	case document.TypeMarkdown:
		return l.lowerMarkdown(c)
	case document.TypeQRCode:
		return l.lowerBarcodeLike(c, ir.BarcodeQR)
	case document.TypePDF417:
		return l.lowerBarcodeLike(c, ir.BarcodePDF417)
	case document.TypeBarcode:
		return l.lowerBarcodeLike(c, barcodeKindFromFormat(c.Format))
	case document.TypeImage:
		return l.lowerImage(ctx, c)
	case document.TypePattern:
		return l.lowerPattern(c)
	case document.TypeCanvas:
		return l.lowerCanvas(ctx, c)
	case document.TypeNVLogo:
		return l.lowerNVLogo(c)
	default:
		return nil, errs.New(errs.InvalidDocument, "unhandled component type %q", c.Type)
	}
}

// textAlign maps the component's boolean layout flags to an IR alignment.
func textAlign(center, right bool) ir.Align {
	switch {
	case center:
		return ir.AlignCenter
	case right:
		return ir.AlignRight
	default:
		return ir.AlignLeft
	}
}

// lowerText emits the canonical text-component shape described in
// spec.md §4.3: style sets, then Text/Newline, then trailing restores.
// Escalates to the raster pipeline when the requested font has no
// protocol codepage.
func (l *Lowerer) lowerText(c *document.Component) ([]ir.Op, error) {
	if l.forceRaster || strings.EqualFold(c.Font, "ibm") || strings.EqualFold(c.Font, "ibm-plex") || strings.EqualFold(c.Font, "plex") {
		return l.rasterizeTextComponent(c)
	}

	var ops []ir.Op
	align := textAlign(c.Center, c.Right)
	if align != ir.AlignLeft {
		ops = append(ops, ir.SetAlign(align))
	}
	font := fontFromName(c.Font)
	if font != ir.FontA {
		ops = append(ops, ir.SetFont(font))
	}
	h, w := sizeToHW(c)
	if h != 1 || w != 1 {
		ops = append(ops, ir.SetSize(h, w))
	}
	if c.Bold {
		ops = append(ops, ir.SetBold(true))
	}
	if c.Underline {
		ops = append(ops, ir.SetUnderline(true))
	}
	if c.Upperline {
		ops = append(ops, ir.SetUpperline(true))
	}
	if c.Invert {
		ops = append(ops, ir.SetInvert(true))
	}
	if c.UpsideDown {
		ops = append(ops, ir.SetUpsideDown(true))
	}
	if c.Reduced {
		ops = append(ops, ir.SetReduced(true))
	}

	ops = append(ops, ir.Text(c.Content), ir.Newline())

	if c.Reduced {
		ops = append(ops, ir.SetReduced(false))
	}
	if c.UpsideDown {
		ops = append(ops, ir.SetUpsideDown(false))
	}
	if c.Invert {
		ops = append(ops, ir.SetInvert(false))
	}
	if c.Upperline {
		ops = append(ops, ir.SetUpperline(false))
	}
	if c.Underline {
		ops = append(ops, ir.SetUnderline(false))
	}
	if c.Bold {
		ops = append(ops, ir.SetBold(false))
	}
	if h != 1 || w != 1 {
		ops = append(ops, ir.SetSize(1, 1))
	}
	if font != ir.FontA {
		ops = append(ops, ir.SetFont(ir.FontA))
	}
	if align != ir.AlignLeft {
		ops = append(ops, ir.SetAlign(ir.AlignLeft))
	}
	return ops, nil
}

func (l *Lowerer) rasterizeTextComponent(c *document.Component) ([]ir.Op, error) {
	if l.opts.Glyphs == nil {
		return nil, errs.New(errs.InvalidParam, "no glyph rasterizer configured for font %q", c.Font)
	}
	g, err := l.opts.Glyphs.RasterizeText(c.Content, l.opts.Profile.WidthDots, c.Bold, false)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidParam, err, "rasterizing text component")
	}
	bits := raster.Dither(g, l.ditherAlg())
	return []ir.Op{ir.Raster(bits, ir.RasterPage)}, nil
}

func fontFromName(name string) ir.Font {
	switch strings.ToUpper(name) {
	case "B":
		return ir.FontB
	case "IBM":
		return ir.FontIBM
	default:
		return ir.FontA
	}
}

func sizeToHW(c *document.Component) (int, int) {
	if c.SizeHW[0] != 0 || c.SizeHW[1] != 0 {
		h, w := c.SizeHW[0], c.SizeHW[1]
		if h < 1 {
			h = 1
		}
		if w < 1 {
			w = 1
		}
		return h, w
	}
	n := c.Size + 1
	if n < 1 {
		n = 1
	}
	return n, n
}

func (l *Lowerer) columnsFor(font ir.Font) int {
	if font == ir.FontB {
		return colsFontB
	}
	return colsFontA
}

func (l *Lowerer) ditherAlg() raster.Algorithm {
	if l.opts.DitherAlg == 0 {
		return raster.DitherAuto
	}
	return l.opts.DitherAlg
}

// lowerLineItem right-pads name and right-aligns a 2-decimal price within
// the active font's column count, per spec.md §4.3.
func (l *Lowerer) lowerLineItem(c *document.Component) ([]ir.Op, error) {
	width := c.Width
	if width <= 0 {
		width = l.columnsFor(ir.FontA)
	}
	price := formatCurrency(c.Price)
	line := layoutLeftRight(c.Name, price, width)
	return []ir.Op{ir.Text(line), ir.Newline()}, nil
}

// lowerTotal right-aligns "Label Amount" content within the column
// width, bolding the whole line per the teacher's total-line convention.
func (l *Lowerer) lowerTotal(c *document.Component) ([]ir.Op, error) {
	width := l.columnsFor(ir.FontA)
	amount := formatCurrency(c.Amount)
	line := c.Label + " " + amount
	if pad := width - len(line); pad > 0 {
		line = strings.Repeat(" ", pad) + line
	}
	return []ir.Op{
		ir.SetBold(true),
		ir.Text(line), ir.Newline(),
		ir.SetBold(false),
	}, nil
}

func formatCurrency(s string) string {
	v, err := strconv.ParseFloat(strings.TrimPrefix(s, "$"), 64)
	if err != nil {
		return s
	}
	return fmt.Sprintf("$%.2f", v)
}

// layoutLeftRight pads or truncates left+right to exactly width columns,
// left-justified on the left and right-justified on the right, with at
// least one space of separation.
func layoutLeftRight(left, right string, width int) string {
	if len(left)+len(right)+1 > width {
		maxLeft := width - len(right) - 1
		if maxLeft < 0 {
			maxLeft = 0
		}
		if len(left) > maxLeft {
			left = left[:maxLeft]
		}
	}
	pad := width - len(left) - len(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

var dividerGlyphs = map[document.DividerStyle]rune{
	document.DividerDashed: '-',
	document.DividerSolid:  '─',
	document.DividerDouble: '═',
	document.DividerEquals: '=',
}

func (l *Lowerer) lowerDivider(c *document.Component) ([]ir.Op, error) {
	glyph, ok := dividerGlyphs[c.Style]
	if !ok {
		glyph = dividerGlyphs[document.DividerDashed]
	}
	width := l.columnsFor(ir.FontA)
	line := strings.Repeat(string(glyph), width)
	return []ir.Op{ir.Text(line), ir.Newline()}, nil
}

// lowerSpacer converts mm/lines/units to a FeedUnits count, per spec.md
// §4.3: mm via profile DPI, lines via a fixed 24-dot line pitch that does
// not vary with the font.
func (l *Lowerer) lowerSpacer(c *document.Component) ([]ir.Op, error) {
	const lineHeightDots = 24 // one band row group; matches the raster line pitch
	var n int
	switch {
	case c.Units > 0:
		n = c.Units
	case c.Lines > 0:
		n = c.Lines * lineHeightDots
	case c.MM > 0:
		dpi := l.opts.Profile.DPI
		if dpi == 0 {
			dpi = 203
		}
		n = int(c.MM / 25.4 * float64(dpi))
	default:
		n = lineHeightDots
	}
	return []ir.Op{ir.FeedUnits(n)}, nil
}

func (l *Lowerer) lowerColumns(c *document.Component) ([]ir.Op, error) {
	width := l.columnsFor(ir.FontA)
	line := layoutLeftRight(c.Left, c.Right2, width)
	return []ir.Op{ir.Text(line), ir.Newline()}, nil
}

func barcodeKindFromFormat(format string) ir.BarcodeKind {
	switch strings.ToUpper(format) {
	case "CODE39":
		return ir.BarcodeCode39
	case "EAN13":
		return ir.BarcodeEAN13
	case "EAN8":
		return ir.BarcodeEAN8
	case "UPCA":
		return ir.BarcodeUPCA
	case "ITF":
		return ir.BarcodeITF
	default:
		return ir.BarcodeCode128
	}
}

func (l *Lowerer) lowerBarcodeLike(c *document.Component, kind ir.BarcodeKind) ([]ir.Op, error) {
	if l.opts.Barcodes == nil {
		return nil, errs.New(errs.InvalidParam, "no barcode encoder configured")
	}
	op, err := l.opts.Barcodes.Encode(kind, c.Payload, l.opts.Profile.WidthDots, c.Params)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidParam, err, "encoding barcode")
	}
	return []ir.Op{ir.SetAlign(ir.AlignCenter), op, ir.SetAlign(ir.AlignLeft)}, nil
}

func (l *Lowerer) lowerImage(ctx context.Context, c *document.Component) ([]ir.Op, error) {
	if l.opts.Images == nil {
		return nil, errs.New(errs.InvalidParam, "no image source configured")
	}
	g, err := l.opts.Images.Fetch(ctx, c.URL)
	if err != nil {
		return nil, errs.Wrap(errs.ImageFetchFailed, err, "fetching %s", c.URL)
	}
	scaled := raster.Resize(g, l.opts.Profile.WidthDots)
	if c.HeightCap > 0 && scaled.Height > c.HeightCap {
		scaled.Height = c.HeightCap
		scaled.Pix = scaled.Pix[:c.HeightCap*scaled.Width]
	}
	algo := l.ditherAlgFor(c.DitherMode)
	bits := raster.Dither(scaled, algo)
	return []ir.Op{ir.Raster(bits, ir.RasterPage)}, nil
}

func (l *Lowerer) ditherAlgFor(mode string) raster.Algorithm {
	switch strings.ToLower(mode) {
	case "none":
		return raster.DitherNone
	case "bayer":
		return raster.DitherBayer
	case "floyd_steinberg", "floydsteinberg":
		return raster.DitherFloydSteinberg
	case "atkinson":
		return raster.DitherAtkinson
	case "jarvis_judice_ninke", "jjn":
		return raster.DitherJarvisJudiceNinke
	case "", "auto":
		return raster.DitherAuto
	default:
		return l.ditherAlg()
	}
}

func (l *Lowerer) lowerPattern(c *document.Component) ([]ir.Op, error) {
	if l.opts.Patterns == nil {
		return nil, errs.New(errs.InvalidParam, "no pattern renderer configured")
	}
	height := c.Height
	if height <= 0 {
		height = 200
	}
	g, err := l.opts.Patterns.Render(c.Generator, l.opts.Profile.WidthDots, height, c.Seed, c.Params)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidParam, err, "rendering pattern %q", c.Generator)
	}
	bits := raster.Dither(g, l.ditherAlg())
	return []ir.Op{ir.Raster(bits, ir.RasterBand)}, nil
}

func (l *Lowerer) lowerCanvas(ctx context.Context, c *document.Component) ([]ir.Op, error) {
	if l.opts.Canvas == nil {
		return nil, errs.New(errs.InvalidParam, "no canvas renderer configured")
	}
	g, err := l.opts.Canvas.Render(ctx, c, l.opts.Profile.WidthDots, l)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidDocument, err, "rendering canvas")
	}
	algo := l.ditherAlgFor(c.DitherMode)
	bits := raster.Dither(g, algo)
	return []ir.Op{ir.Raster(bits, ir.RasterPage)}, nil
}

func (l *Lowerer) lowerNVLogo(c *document.Component) ([]ir.Op, error) {
	if len(c.Key) != 2 {
		return nil, errs.New(errs.InvalidDocument, "nv_logo key must be exactly 2 characters")
	}
	scale := c.Scale
	if scale <= 0 {
		scale = 1
	}
	sx := int(scale)
	if sx < 1 {
		sx = 1
	}
	return []ir.Op{ir.NvLogoRecall(c.Key, sx, sx)}, nil
}
