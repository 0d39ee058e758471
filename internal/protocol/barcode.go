package protocol

import (
	"bytes"

	"github.com/thereceipt/printcore/internal/errs"
	"github.com/thereceipt/printcore/internal/ir"
)

// encodeBarcode emits a native barcode opcode when the symbology has one,
// or falls back to a raster page-mode block when the op already carries
// pre-rendered bits (a symbology without a native opcode).
func encodeBarcode(buf *bytes.Buffer, op ir.Op) error {
	if op.BarcodeBits != nil {
		return encodeRaster(buf, ir.Raster(op.BarcodeBits, ir.RasterPage), op.BarcodeBits.Width)
	}

	switch op.BarcodeKind {
	case ir.BarcodeCode128, ir.BarcodeCode39, ir.BarcodeEAN13, ir.BarcodeEAN8, ir.BarcodeUPCA, ir.BarcodeITF:
		return encode1DBarcode(buf, op)
	case ir.BarcodeQR:
		return encodeQR(buf, op)
	case ir.BarcodePDF417:
		return encodePDF417(buf, op)
	default:
		return errs.New(errs.ProtocolInvariantViolated, "barcode kind %d has neither native opcode nor pre-rendered bits", op.BarcodeKind)
	}
}

func barcodeSelector(kind ir.BarcodeKind) byte {
	switch kind {
	case ir.BarcodeUPCA:
		return BarcodeUPCA
	case ir.BarcodeEAN13:
		return BarcodeEAN13
	case ir.BarcodeEAN8:
		return BarcodeEAN8
	case ir.BarcodeCode39:
		return BarcodeCode39
	case ir.BarcodeITF:
		return BarcodeITF
	case ir.BarcodeCode128:
		return BarcodeCode128
	default:
		return BarcodeCode128
	}
}

func encode1DBarcode(buf *bytes.Buffer, op ir.Op) error {
	// GS h n: set barcode height in dots.
	buf.WriteByte(GS)
	buf.WriteByte('h')
	buf.WriteByte(byte(clampByte(op.BarcodeHeight)))
	// GS w n: set module width.
	buf.WriteByte(GS)
	buf.WriteByte('w')
	buf.WriteByte(byte(clampByte(op.BarcodeWidth)))
	// GS k m ... : print the barcode payload.
	buf.Write(OpBarcodeSelect)
	buf.WriteByte(barcodeSelector(op.BarcodeKind))
	payload := op.BarcodePayload
	if op.BarcodeKind == ir.BarcodeCode128 {
		// Code128 payloads under GS k m>=65 are length-prefixed rather than
		// NUL-terminated.
		buf.WriteByte(byte(len(payload)))
		buf.WriteString(payload)
		return nil
	}
	buf.WriteString(payload)
	buf.WriteByte(0)
	return nil
}

func encodeQR(buf *bytes.Buffer, op ir.Op) error {
	payload := op.BarcodePayload
	storeLen := len(payload) + 3
	// Function 180: store QR data in the symbol storage area.
	buf.Write(OpQRSelect)
	buf.WriteByte(byte(storeLen))
	buf.WriteByte(byte(storeLen >> 8))
	buf.WriteByte(0x31)
	buf.WriteByte(0x50)
	buf.WriteByte(0x30)
	buf.WriteString(payload)
	// Function 167: module size.
	buf.Write(OpQRSelect)
	buf.WriteByte(3)
	buf.WriteByte(0)
	buf.WriteByte(0x31)
	buf.WriteByte(0x43)
	buf.WriteByte(byte(clampByte(op.BarcodeWidth)))
	// Function 169: error correction level.
	buf.Write(OpQRSelect)
	buf.WriteByte(3)
	buf.WriteByte(0)
	buf.WriteByte(0x31)
	buf.WriteByte(0x45)
	buf.WriteByte(byte(clampByte(op.BarcodeECLevel)))
	// Function 181: print the stored symbol.
	buf.Write(OpQRSelect)
	buf.WriteByte(3)
	buf.WriteByte(0)
	buf.WriteByte(0x31)
	buf.WriteByte(0x51)
	buf.WriteByte(0x30)
	return nil
}

// encodePDF417 mirrors encodeQR's GS ( k framing: the same 2D-symbol
// command family, distinguished by cn=0x30 (PDF417) instead of QR's
// cn=0x31. Order matches the printer's own dependency chain: the ECC
// level and module width must be set before the data is stored, and the
// data must be stored before the print function fires.
func encodePDF417(buf *bytes.Buffer, op ir.Op) error {
	payload := op.BarcodePayload
	// Function 69: error correction level.
	buf.Write(OpPDF417Select)
	buf.WriteByte(3)
	buf.WriteByte(0)
	buf.WriteByte(0x30)
	buf.WriteByte(0x45)
	buf.WriteByte(byte(clampByte(op.BarcodeECLevel)))
	// Function 67: module width.
	buf.Write(OpPDF417Select)
	buf.WriteByte(3)
	buf.WriteByte(0)
	buf.WriteByte(0x30)
	buf.WriteByte(0x43)
	buf.WriteByte(byte(clampByte(op.BarcodeWidth)))
	// Function 80: store PDF417 data in the symbol storage area.
	storeLen := len(payload) + 3
	buf.Write(OpPDF417Select)
	buf.WriteByte(byte(storeLen))
	buf.WriteByte(byte(storeLen >> 8))
	buf.WriteByte(0x30)
	buf.WriteByte(0x50)
	buf.WriteByte(0x30)
	buf.WriteString(payload)
	// Function 81: print the stored symbol.
	buf.Write(OpPDF417Select)
	buf.WriteByte(3)
	buf.WriteByte(0)
	buf.WriteByte(0x30)
	buf.WriteByte(0x51)
	buf.WriteByte(0x30)
	return nil
}
