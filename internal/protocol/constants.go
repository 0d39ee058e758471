// Package protocol translates IR ops into the printer's binary control
// language. It owns every byte-level constant so the vendor spec has a
// single source of truth in this codebase.
package protocol

// Control bytes shared by most opcodes.
const (
	ESC byte = 0x1B
	GS  byte = 0x1D
	FS  byte = 0x1C
)

// Init and text style opcodes.
var (
	OpInit       = []byte{ESC, '@'}
	OpBoldOn     = []byte{ESC, 'E', 1}
	OpBoldOff    = []byte{ESC, 'E', 0}
	OpUnderline1 = []byte{ESC, '-', 1}
	OpUnderline0 = []byte{ESC, '-', 0}
	OpUpperline1 = []byte{FS, '-', 1} // vendor-defined, mirrors underline on FS
	OpUpperline0 = []byte{FS, '-', 0}
	OpInvertOn   = []byte{GS, 'B', 1}
	OpInvertOff  = []byte{GS, 'B', 0}
	OpUpsideOn   = []byte{ESC, '{', 1}
	OpUpsideOff  = []byte{ESC, '{', 0}
	OpReducedOn  = []byte{FS, 'S', 1}
	OpReducedOff = []byte{FS, 'S', 0}
)

// Alignment values for ESC a n.
const (
	AlignLeft   byte = 0
	AlignCenter byte = 1
	AlignRight  byte = 2
)

// Font selectors for ESC M n.
const (
	FontA   byte = 0
	FontB   byte = 1
	FontIBM byte = 2 // not natively addressable; lowering must rasterize instead
)

// Feed and cut opcodes.
var (
	OpCutPartial = []byte{GS, 'V', 1}
	OpCutFull    = []byte{GS, 'V', 0}
)

// Raster / band mode headers.
const (
	// RasterModeCmd is the GS v 0 raster bit-image header prefix (mode byte
	// selects normal density; width/height follow as little-endian 16-bit).
	RasterModeCmd = 0x30
	// BandRows is the fixed row count of a single band-mode chunk.
	BandRows = 24
	// bandMaxBytesPerBand bounds a single GS 8 L payload (device buffer limit).
	bandMaxBytesPerBand = 0xFFFF
)

// NV graphic opcodes by key (FS q to store, FS p to recall).
var (
	OpNVStorePrefix  = []byte{FS, 'q'}
	OpNVRecallPrefix = []byte{FS, 'p'}
)

// nvDeleteAllKey is the reserved key value the logo CLI's delete-all
// command sends; no on-device symbol is ever assigned this key by store.
var nvDeleteAllKey = [2]byte{0xFF, 0xFF}

// Barcode opcodes per symbology, following GS k n and GS ( k framing.
const (
	BarcodeUPCA   byte = 0
	BarcodeUPCE   byte = 1
	BarcodeEAN13  byte = 2
	BarcodeEAN8   byte = 3
	BarcodeCode39 byte = 4
	BarcodeITF    byte = 5
	BarcodeCode93 byte = 72
	BarcodeCode128 byte = 73
)

var (
	OpBarcodeSelect = []byte{GS, 'k'}
	OpQRSelect      = []byte{GS, '(', 'k'} // 2D symbol storage command family
	OpPDF417Select  = []byte{GS, '(', 'k'}
)
