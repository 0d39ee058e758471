package protocol

import (
	"bytes"

	"github.com/thereceipt/printcore/internal/errs"
	"github.com/thereceipt/printcore/internal/raster"
)

// EncodeNVStore builds the FS q command that uploads bits as the device's
// NV graphic under key, used only by the logo CLI (never by document
// lowering, which only ever recalls by key).
func EncodeNVStore(key string, bits *raster.Bits) ([]byte, error) {
	if len(key) != 2 {
		return nil, errs.New(errs.ProtocolInvariantViolated, "NV logo key must be exactly 2 bytes, got %q", key)
	}
	var buf bytes.Buffer
	buf.Write(OpNVStorePrefix)
	buf.WriteString(key)
	buf.WriteByte(byte(bits.Stride & 0xFF))
	buf.WriteByte(byte((bits.Stride >> 8) & 0xFF))
	buf.WriteByte(byte(bits.Height & 0xFF))
	buf.WriteByte(byte((bits.Height >> 8) & 0xFF))
	buf.Write(bits.Data)
	return buf.Bytes(), nil
}

// EncodeNVDelete builds the FS q command that stores a zero-length graphic
// under key, the device's convention for freeing a previously stored logo.
func EncodeNVDelete(key string) ([]byte, error) {
	if len(key) != 2 {
		return nil, errs.New(errs.ProtocolInvariantViolated, "NV logo key must be exactly 2 bytes, got %q", key)
	}
	var buf bytes.Buffer
	buf.Write(OpNVStorePrefix)
	buf.WriteString(key)
	buf.WriteByte(0)
	buf.WriteByte(0)
	buf.WriteByte(0)
	buf.WriteByte(0)
	return buf.Bytes(), nil
}

// EncodeNVDeleteAll builds the FS q command against the reserved
// delete-all key, freeing every NV graphic slot on the device.
func EncodeNVDeleteAll() []byte {
	var buf bytes.Buffer
	buf.Write(OpNVStorePrefix)
	buf.Write(nvDeleteAllKey[:])
	buf.WriteByte(0)
	buf.WriteByte(0)
	buf.WriteByte(0)
	buf.WriteByte(0)
	return buf.Bytes()
}
