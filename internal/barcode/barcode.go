// Package barcode wraps boombuler/barcode to satisfy lower.BarcodeEncoder,
// choosing native protocol opcodes for every symbology the codec
// understands (1D symbologies through GS k, QR and PDF417 through the
// printer's own GS ( k 2D-symbol command family) and using boombuler only
// to render preview images for hosts that want to see what the opcode
// would draw. Grounded on the teacher's internal/renderer/codes.go.
package barcode

import (
	stdbarcode "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/twooffive"

	"github.com/thereceipt/printcore/internal/errs"
	"github.com/thereceipt/printcore/internal/ir"
	"github.com/thereceipt/printcore/internal/raster"
)

// Encoder implements lower.BarcodeEncoder. Every symbology it supports has
// a native protocol opcode; none of them carry pre-rendered bits.
type Encoder struct{}

// New constructs a barcode Encoder.
func New() *Encoder { return &Encoder{} }

// Encode implements lower.BarcodeEncoder.
func (e *Encoder) Encode(kind ir.BarcodeKind, payload string, widthDots int, params map[string]interface{}) (ir.Op, error) {
	height := intParam(params, "height", 80)
	width := intParam(params, "width", 2)

	switch kind {
	case ir.BarcodeQR, ir.BarcodePDF417:
		op := ir.Barcode(kind, payload, height, width)
		op.BarcodeECLevel = ecLevelParam(params)
		return op, nil
	case ir.BarcodeCode128, ir.BarcodeCode39, ir.BarcodeEAN13, ir.BarcodeEAN8, ir.BarcodeUPCA, ir.BarcodeITF:
		return ir.Barcode(kind, payload, height, width), nil
	default:
		return ir.Op{}, errs.New(errs.InvalidParam, "unsupported symbology %d", kind)
	}
}

func intParam(params map[string]interface{}, name string, def int) int {
	v, ok := params[name]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	default:
		return def
	}
}

func ecLevelParam(params map[string]interface{}) int {
	v, _ := params["error_correction"].(string)
	switch v {
	case "L":
		return 0
	case "Q":
		return 2
	case "H":
		return 3
	default:
		return 1 // M
	}
}

// RasterizePreview renders a barcode through boombuler for hosts that want
// a PNG preview of what the native opcode would draw, mirroring the
// teacher's renderBarcode centering/scaling logic.
func RasterizePreview(kind ir.BarcodeKind, payload string, targetWidth, height int) (*raster.Gray, error) {
	var bc stdbarcode.Barcode
	var err error
	switch kind {
	case ir.BarcodeCode39:
		bc, err = code39.Encode(payload, false, false)
	case ir.BarcodeEAN13, ir.BarcodeEAN8:
		bc, err = ean.Encode(payload)
	case ir.BarcodeUPCA:
		// UPC-A is EAN-13 with an implicit leading zero.
		bc, err = ean.Encode("0" + payload)
	case ir.BarcodeITF:
		bc, err = twooffive.Encode(payload, true)
	default:
		bc, err = code128.Encode(payload)
	}
	if err != nil {
		return nil, errs.Wrap(errs.InvalidParam, err, "encoding barcode payload")
	}
	bc, err = stdbarcode.Scale(bc, targetWidth, height)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidParam, err, "scaling barcode")
	}
	b := bc.Bounds()
	g := raster.NewGray(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, _, _, _ := bc.At(x, y).RGBA()
			ink := uint8(255)
			if r>>8 < 128 {
				ink = 0
			}
			g.Set(x-b.Min.X, y-b.Min.Y, 255-ink)
		}
	}
	return g, nil
}
