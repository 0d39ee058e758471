package protocol

import (
	"bytes"

	"github.com/thereceipt/printcore/internal/errs"
	"github.com/thereceipt/printcore/internal/ir"
	"github.com/thereceipt/printcore/internal/raster"
)

// Encode translates a full IR program into the printer's byte stream. It is
// a pure function: no I/O, deterministic for a given program and width.
func Encode(prog ir.Program, widthDots int) ([]byte, error) {
	var buf bytes.Buffer
	for _, op := range prog.Ops {
		if err := encodeOp(&buf, op, widthDots); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func encodeOp(buf *bytes.Buffer, op ir.Op, widthDots int) error {
	switch op.Kind {
	case ir.OpInit:
		buf.Write(OpInit)
	case ir.OpSetBold:
		if op.Bool {
			buf.Write(OpBoldOn)
		} else {
			buf.Write(OpBoldOff)
		}
	case ir.OpSetUnderline:
		if op.Bool {
			buf.Write(OpUnderline1)
		} else {
			buf.Write(OpUnderline0)
		}
	case ir.OpSetInvert:
		if op.Bool {
			buf.Write(OpInvertOn)
		} else {
			buf.Write(OpInvertOff)
		}
	case ir.OpSetUpperline:
		if op.Bool {
			buf.Write(OpUpperline1)
		} else {
			buf.Write(OpUpperline0)
		}
	case ir.OpSetUpsideDown:
		if op.Bool {
			buf.Write(OpUpsideOn)
		} else {
			buf.Write(OpUpsideOff)
		}
	case ir.OpSetReduced:
		if op.Bool {
			buf.Write(OpReducedOn)
		} else {
			buf.Write(OpReducedOff)
		}
	case ir.OpSetAlign:
		buf.WriteByte(ESC)
		buf.WriteByte('a')
		switch op.Align {
		case ir.AlignLeft:
			buf.WriteByte(AlignLeft)
		case ir.AlignCenter:
			buf.WriteByte(AlignCenter)
		case ir.AlignRight:
			buf.WriteByte(AlignRight)
		}
	case ir.OpSetFont:
		buf.WriteByte(ESC)
		buf.WriteByte('M')
		switch op.Font {
		case ir.FontA:
			buf.WriteByte(FontA)
		case ir.FontB:
			buf.WriteByte(FontB)
		case ir.FontIBM:
			// Never reaches the wire: lowering escalates IBM-family text to
			// the raster pipeline before codegen sees it.
			return errs.New(errs.ProtocolInvariantViolated, "SetFont(ibm) reached the codec; lowering should have rasterized")
		}
	case ir.OpSetSize:
		h, w := clampSize(op.SizeH), clampSize(op.SizeW)
		buf.WriteByte(GS)
		buf.WriteByte('!')
		buf.WriteByte(byte(((w - 1) << 4) | (h - 1)))
	case ir.OpText:
		buf.WriteString(op.Text)
	case ir.OpNewline:
		buf.WriteByte(0x0A)
	case ir.OpFeedUnits:
		buf.WriteByte(ESC)
		buf.WriteByte('J')
		buf.WriteByte(byte(clampByte(op.FeedUnits)))
	case ir.OpCut:
		buf.Write(OpCutPartial)
	case ir.OpRaster:
		return encodeRaster(buf, op, widthDots)
	case ir.OpBarcode:
		return encodeBarcode(buf, op)
	case ir.OpNvLogoRecall:
		if len(op.NvKey) != 2 {
			return errs.New(errs.ProtocolInvariantViolated, "NV logo key must be exactly 2 bytes, got %q", op.NvKey)
		}
		buf.Write(OpNVRecallPrefix)
		buf.WriteString(op.NvKey)
		buf.WriteByte(byte(clampByte(op.NvSX)))
		buf.WriteByte(byte(clampByte(op.NvSY)))
	case ir.OpRaw:
		buf.Write(op.Raw)
	default:
		return errs.New(errs.ProtocolInvariantViolated, "unknown op kind %d", op.Kind)
	}
	return nil
}

func encodeRaster(buf *bytes.Buffer, op ir.Op, widthDots int) error {
	bits := op.Raster
	if bits == nil {
		return errs.New(errs.ProtocolInvariantViolated, "Raster op carries a nil buffer")
	}
	switch op.RasterMode {
	case ir.RasterPage:
		buf.WriteByte(GS)
		buf.WriteByte('v')
		buf.WriteByte('0')
		buf.WriteByte(0) // mode byte: normal density
		buf.WriteByte(byte(bits.Stride & 0xFF))
		buf.WriteByte(byte((bits.Stride >> 8) & 0xFF))
		buf.WriteByte(byte(bits.Height & 0xFF))
		buf.WriteByte(byte((bits.Height >> 8) & 0xFF))
		buf.Write(bits.Data)
		return nil
	case ir.RasterBand:
		if err := errBandHeight(bits.Height); err != nil {
			return err
		}
		for row := 0; row < bits.Height; row += BandRows {
			chunk := bits.Slice(row, BandRows)
			writeBandHeader(buf, chunk)
			buf.Write(chunk.Data)
		}
		return nil
	default:
		return errs.New(errs.ProtocolInvariantViolated, "unknown raster mode %d", op.RasterMode)
	}
}

func errBandHeight(h int) error {
	if h%BandRows != 0 {
		return errs.New(errs.ProtocolInvariantViolated, "band-mode raster height %d is not a multiple of %d", h, BandRows)
	}
	return nil
}

// writeBandHeader emits the GS 8 L store-graphics header for one 24-row band.
func writeBandHeader(buf *bytes.Buffer, band *raster.Bits) {
	payloadLen := len(band.Data)
	blockSize := 10 + payloadLen
	buf.WriteByte(GS)
	buf.WriteByte('8')
	buf.WriteByte('L')
	buf.WriteByte(byte(blockSize))
	buf.WriteByte(byte(blockSize >> 8))
	buf.WriteByte(byte(blockSize >> 16))
	buf.WriteByte(byte(blockSize >> 24))
	buf.WriteByte(0x30)
	buf.WriteByte(0x70)
	buf.WriteByte(0x30)
	buf.WriteByte(0x01)
	buf.WriteByte(0x01)
	buf.WriteByte(0x31)
	buf.WriteByte(byte(band.Width))
	buf.WriteByte(byte(band.Width >> 8))
	buf.WriteByte(byte(band.Height))
	buf.WriteByte(byte(band.Height >> 8))
}

func clampSize(v int) int {
	if v < 1 {
		return 1
	}
	if v > 6 {
		return 6
	}
	return v
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
