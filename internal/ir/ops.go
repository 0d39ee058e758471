// Package ir defines the linear intermediate representation emitted by
// lowering and consumed by codegen, plus the peephole optimizer that runs
// over it.
package ir

import "github.com/thereceipt/printcore/internal/raster"

// Align is a text alignment value.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Font selects the active codepage/font.
type Font int

const (
	FontA Font = iota
	FontB
	FontIBM
)

// RasterMode selects how a Raster op's bit buffer is framed on the wire.
type RasterMode int

const (
	RasterPage RasterMode = iota
	RasterBand
)

// OpKind tags the closed set of primitive printer operations.
type OpKind int

const (
	OpInit OpKind = iota
	OpSetBold
	OpSetUnderline
	OpSetInvert
	OpSetUpperline
	OpSetUpsideDown
	OpSetReduced
	OpSetAlign
	OpSetFont
	OpSetSize
	OpText
	OpNewline
	OpFeedUnits
	OpCut
	OpRaster
	OpBarcode
	OpNvLogoRecall
	OpRaw
)

// BarcodeKind is the closed set of symbologies the codec understands.
type BarcodeKind int

const (
	BarcodeCode128 BarcodeKind = iota
	BarcodeCode39
	BarcodeEAN13
	BarcodeEAN8
	BarcodeUPCA
	BarcodeITF
	BarcodeQR
	BarcodePDF417
)

// Op is a single IR instruction. Only the fields relevant to Kind are set;
// the zero value of the rest is ignored by codegen.
type Op struct {
	Kind OpKind

	Bool  bool  // SetBold/SetUnderline/SetInvert/SetUpperline/SetUpsideDown/SetReduced
	Align Align // SetAlign
	Font  Font  // SetFont
	SizeH int   // SetSize
	SizeW int   // SetSize

	Text string // Text

	FeedUnits int // FeedUnits

	Raster     *raster.Bits // Raster
	RasterMode RasterMode   // Raster

	BarcodeKind    BarcodeKind  // Barcode
	BarcodePayload string       // Barcode
	BarcodeHeight  int          // Barcode
	BarcodeWidth   int          // Barcode
	BarcodeECLevel int          // Barcode: QR/PDF417 error-correction level, 0=L..3=H
	BarcodeBits    *raster.Bits // Barcode: pre-rendered 2D/1D bits when the codec has no native opcode

	NvKey string // NvLogoRecall
	NvSX  int    // NvLogoRecall
	NvSY  int    // NvLogoRecall

	Raw []byte // Raw
}

// Program is an IR stream plus an optional post-program pause hint used by
// the segmenter/transport to pace sub-programs.
type Program struct {
	Ops       []Op
	PauseHint bool
}

// Init returns the canonical Init op.
func Init() Op { return Op{Kind: OpInit} }

// Text returns a Text op.
func Text(s string) Op { return Op{Kind: OpText, Text: s} }

// Newline returns a Newline op.
func Newline() Op { return Op{Kind: OpNewline} }

// SetBold returns a SetBold op.
func SetBold(v bool) Op { return Op{Kind: OpSetBold, Bool: v} }

// SetUnderline returns a SetUnderline op.
func SetUnderline(v bool) Op { return Op{Kind: OpSetUnderline, Bool: v} }

// SetInvert returns a SetInvert op.
func SetInvert(v bool) Op { return Op{Kind: OpSetInvert, Bool: v} }

// SetUpperline returns a SetUpperline op.
func SetUpperline(v bool) Op { return Op{Kind: OpSetUpperline, Bool: v} }

// SetUpsideDown returns a SetUpsideDown op.
func SetUpsideDown(v bool) Op { return Op{Kind: OpSetUpsideDown, Bool: v} }

// SetReduced returns a SetReduced op.
func SetReduced(v bool) Op { return Op{Kind: OpSetReduced, Bool: v} }

// SetAlign returns a SetAlign op.
func SetAlign(a Align) Op { return Op{Kind: OpSetAlign, Align: a} }

// SetFont returns a SetFont op.
func SetFont(f Font) Op { return Op{Kind: OpSetFont, Font: f} }

// SetSize returns a SetSize op.
func SetSize(h, w int) Op { return Op{Kind: OpSetSize, SizeH: h, SizeW: w} }

// FeedUnits returns a FeedUnits op.
func FeedUnits(n int) Op { return Op{Kind: OpFeedUnits, FeedUnits: n} }

// Cut returns a Cut op.
func Cut() Op { return Op{Kind: OpCut} }

// Raster returns a Raster op.
func Raster(b *raster.Bits, mode RasterMode) Op {
	return Op{Kind: OpRaster, Raster: b, RasterMode: mode}
}

// Barcode returns a Barcode op addressed by native opcode (kind, payload,
// height/width in dots).
func Barcode(kind BarcodeKind, payload string, height, width int) Op {
	return Op{Kind: OpBarcode, BarcodeKind: kind, BarcodePayload: payload, BarcodeHeight: height, BarcodeWidth: width}
}

// BarcodeRastered returns a Barcode op carrying pre-rendered bits for a
// symbology with no native protocol opcode.
func BarcodeRastered(kind BarcodeKind, bits *raster.Bits) Op {
	return Op{Kind: OpBarcode, BarcodeKind: kind, BarcodeBits: bits}
}

// NvLogoRecall returns an NvLogoRecall op.
func NvLogoRecall(key string, sx, sy int) Op {
	return Op{Kind: OpNvLogoRecall, NvKey: key, NvSX: sx, NvSY: sy}
}

// Raw returns a Raw op that passes bytes through untouched.
func Raw(b []byte) Op { return Op{Kind: OpRaw, Raw: b} }

// isConsumer reports whether an op observes the current style state (i.e.
// produces visible output), which bounds style-toggle collapsing.
func isConsumer(o Op) bool {
	switch o.Kind {
	case OpText, OpRaster, OpNewline, OpFeedUnits, OpCut, OpBarcode, OpNvLogoRecall, OpRaw:
		return true
	default:
		return false
	}
}

// isStyleSet reports whether an op mutates one axis of style state.
func isStyleSet(o Op) bool {
	switch o.Kind {
	case OpSetBold, OpSetUnderline, OpSetInvert, OpSetUpperline, OpSetUpsideDown,
		OpSetReduced, OpSetAlign, OpSetFont, OpSetSize:
		return true
	default:
		return false
	}
}

// sameAxis reports whether a and b mutate the same style axis.
func sameAxis(a, b Op) bool {
	return a.Kind == b.Kind
}

// sameValue reports whether a and b set the same axis to the same value.
func sameValue(a, b Op) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case OpSetBold, OpSetUnderline, OpSetInvert, OpSetUpperline, OpSetUpsideDown, OpSetReduced:
		return a.Bool == b.Bool
	case OpSetAlign:
		return a.Align == b.Align
	case OpSetFont:
		return a.Font == b.Font
	case OpSetSize:
		return a.SizeH == b.SizeH && a.SizeW == b.SizeW
	default:
		return false
	}
}
