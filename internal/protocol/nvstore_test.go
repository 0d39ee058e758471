package protocol

import (
	"bytes"
	"testing"

	"github.com/thereceipt/printcore/internal/raster"
)

func TestEncodeNVStoreRejectsBadKeyLength(t *testing.T) {
	bits := raster.NewBits(8, 8)
	if _, err := EncodeNVStore("ABC", bits); err == nil {
		t.Fatal("expected an error for a non-2-byte key")
	}
}

func TestEncodeNVStoreFramesKeyStrideAndHeight(t *testing.T) {
	bits := raster.NewBits(16, 24) // stride = 2
	got, err := EncodeNVStore("A1", bits)
	if err != nil {
		t.Fatalf("EncodeNVStore: %v", err)
	}
	want := append(append([]byte{}, OpNVStorePrefix...), 'A', '1', 2, 0, 24, 0)
	want = append(want, bits.Data...)
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEncodeNVDeleteSendsZeroLengthPayload(t *testing.T) {
	got, err := EncodeNVDelete("A1")
	if err != nil {
		t.Fatalf("EncodeNVDelete: %v", err)
	}
	want := append(append([]byte{}, OpNVStorePrefix...), 'A', '1', 0, 0, 0, 0)
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEncodeNVDeleteRejectsBadKeyLength(t *testing.T) {
	if _, err := EncodeNVDelete("X"); err == nil {
		t.Fatal("expected an error for a 1-byte key")
	}
}

func TestEncodeNVDeleteAllUsesReservedKey(t *testing.T) {
	got := EncodeNVDeleteAll()
	want := append(append([]byte{}, OpNVStorePrefix...), 0xFF, 0xFF, 0, 0, 0, 0)
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
