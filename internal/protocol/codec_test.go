package protocol

import (
	"bytes"
	"testing"

	"github.com/thereceipt/printcore/internal/ir"
	"github.com/thereceipt/printcore/internal/raster"
)

func TestEncodeInitEmitsEscAt(t *testing.T) {
	got, err := Encode(ir.Program{Ops: []ir.Op{ir.Init()}}, 384)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{ESC, '@'}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEncodeBoldTogglesOnAndOff(t *testing.T) {
	got, err := Encode(ir.Program{Ops: []ir.Op{ir.SetBold(true), ir.SetBold(false)}}, 384)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := append(append([]byte{}, OpBoldOn...), OpBoldOff...)
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEncodeAlignEmitsEscALiteral(t *testing.T) {
	got, err := Encode(ir.Program{Ops: []ir.Op{ir.SetAlign(ir.AlignCenter)}}, 384)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{ESC, 'a', AlignCenter}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEncodeTextWritesRawBytes(t *testing.T) {
	got, err := Encode(ir.Program{Ops: []ir.Op{ir.Text("hi")}}, 384)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(got) != "hi" {
		t.Fatalf("got %q", got)
	}
}

func TestEncodeCutEmitsPartialCut(t *testing.T) {
	got, err := Encode(ir.Program{Ops: []ir.Op{ir.Cut()}}, 384)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(got, OpCutPartial) {
		t.Fatalf("got %v, want %v", got, OpCutPartial)
	}
}

func TestEncodeFontIBMIsRejected(t *testing.T) {
	_, err := Encode(ir.Program{Ops: []ir.Op{ir.SetFont(ir.FontIBM)}}, 384)
	if err == nil {
		t.Fatal("expected an error: FontIBM must never reach the codec")
	}
}

func TestEncodePageRasterHeaderCarriesStrideAndHeightLittleEndian(t *testing.T) {
	bits := raster.NewBits(16, 300) // stride = 2
	got, err := Encode(ir.Program{Ops: []ir.Op{ir.Raster(bits, ir.RasterPage)}}, 384)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got[0] != GS || got[1] != 'v' || got[2] != '0' {
		t.Fatalf("expected GS v 0 header, got %v", got[:3])
	}
	stride := int(got[4]) | int(got[5])<<8
	height := int(got[6]) | int(got[7])<<8
	if stride != 2 || height != 300 {
		t.Fatalf("got stride=%d height=%d, want stride=2 height=300", stride, height)
	}
}

func TestEncodeBandRasterRejectsNonMultipleOf24(t *testing.T) {
	bits := raster.NewBits(384, 25)
	_, err := Encode(ir.Program{Ops: []ir.Op{ir.Raster(bits, ir.RasterBand)}}, 384)
	if err == nil {
		t.Fatal("expected an error for a band-mode raster whose height is not a multiple of 24")
	}
}

func TestEncodeBandRasterEmitsOneHeaderPerBand(t *testing.T) {
	bits := raster.NewBits(384, 48) // two bands
	got, err := Encode(ir.Program{Ops: []ir.Op{ir.Raster(bits, ir.RasterBand)}}, 384)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	count := bytes.Count(got, []byte{GS, '8', 'L'})
	if count != 2 {
		t.Fatalf("expected 2 band headers for 48 rows, got %d", count)
	}
}

func TestEncodeNvLogoRecallRejectsBadKeyLength(t *testing.T) {
	op := ir.Op{Kind: ir.OpNvLogoRecall, NvKey: "ABC"}
	_, err := Encode(ir.Program{Ops: []ir.Op{op}}, 384)
	if err == nil {
		t.Fatal("expected an error for a non-2-byte NV logo key")
	}
}

func TestEncodeNvLogoRecallEmitsPrefixKeyAndScale(t *testing.T) {
	op := ir.Op{Kind: ir.OpNvLogoRecall, NvKey: "A1", NvSX: 2, NvSY: 3}
	got, err := Encode(ir.Program{Ops: []ir.Op{op}}, 384)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := append(append([]byte{}, OpNVRecallPrefix...), 'A', '1', 2, 3)
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEncodeSetSizePacksWidthAndHeightNibbles(t *testing.T) {
	got, err := Encode(ir.Program{Ops: []ir.Op{ir.SetSize(2, 3)}}, 384)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{GS, '!', byte(((3 - 1) << 4) | (2 - 1))}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
