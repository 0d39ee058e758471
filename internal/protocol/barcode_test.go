package protocol

import (
	"bytes"
	"testing"

	"github.com/thereceipt/printcore/internal/ir"
	"github.com/thereceipt/printcore/internal/raster"
)

func TestEncodeCode128BarcodeIsLengthPrefixed(t *testing.T) {
	op := ir.Barcode(ir.BarcodeCode128, "ABC", 80, 3)
	got, err := Encode(ir.Program{Ops: []ir.Op{op}}, 384)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	idx := bytes.Index(got, OpBarcodeSelect)
	if idx < 0 {
		t.Fatal("expected a GS k selector in the output")
	}
	payloadStart := idx + len(OpBarcodeSelect) + 1 // + selector byte
	if got[payloadStart] != 3 {
		t.Fatalf("expected length prefix 3, got %d", got[payloadStart])
	}
	if string(got[payloadStart+1:payloadStart+4]) != "ABC" {
		t.Fatalf("payload mismatch: %q", got[payloadStart+1:payloadStart+4])
	}
}

func TestEncodeEAN13BarcodeIsNULTerminated(t *testing.T) {
	op := ir.Barcode(ir.BarcodeEAN13, "1234567890128", 80, 3)
	got, err := Encode(ir.Program{Ops: []ir.Op{op}}, 384)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got[len(got)-1] != 0 {
		t.Fatalf("expected a trailing NUL terminator, got %v", got[len(got)-4:])
	}
}

func TestEncodeQREmitsFourFunctionBlocks(t *testing.T) {
	op := ir.Barcode(ir.BarcodeQR, "https://example.com", 0, 6)
	got, err := Encode(ir.Program{Ops: []ir.Op{op}}, 384)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	count := bytes.Count(got, OpQRSelect)
	if count != 4 {
		t.Fatalf("expected 4 GS ( k blocks (store, size, EC, print), got %d", count)
	}
}

func TestEncodeBarcodeWithPreRenderedBitsFallsBackToRaster(t *testing.T) {
	bits := raster.NewBits(200, 200)
	op := ir.BarcodeRastered(ir.BarcodeQR, bits)
	got, err := Encode(ir.Program{Ops: []ir.Op{op}}, 384)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got[0] != GS || got[1] != 'v' {
		t.Fatalf("expected a raster page-mode header for pre-rendered barcode bits, got %v", got[:2])
	}
}

func TestEncodeBarcodeWithUnknownKindAndNoBitsFails(t *testing.T) {
	op := ir.Barcode(ir.BarcodeKind(999), "payload", 0, 0)
	_, err := Encode(ir.Program{Ops: []ir.Op{op}}, 384)
	if err == nil {
		t.Fatal("expected an error: an unrecognized barcode kind has neither native opcode nor pre-rendered bits")
	}
}

func TestEncodePDF417EmitsFourFunctionBlocks(t *testing.T) {
	op := ir.Barcode(ir.BarcodePDF417, "12345", 0, 4)
	op.BarcodeECLevel = 2
	got, err := Encode(ir.Program{Ops: []ir.Op{op}}, 384)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	count := bytes.Count(got, OpPDF417Select)
	if count != 4 {
		t.Fatalf("expected 4 GS ( k blocks (ECC, module width, store, print), got %d", count)
	}
	if bytes.Count(got, []byte{0x30}) == 0 {
		t.Fatal("expected the PDF417 cn byte (0x30) to appear in the output")
	}
	if !bytes.Contains(got, []byte("12345")) {
		t.Fatal("expected the payload to appear literally in the stored-data block")
	}
}
