package bitcoin

import (
	"encoding/hex"
	"testing"
)

// TestEncodeDecodeVarInt covers the same byte-width boundaries as the
// original wire-format tests this encoding is grounded on.
func TestEncodeDecodeVarInt(t *testing.T) {
	tests := []struct {
		name        string
		value       uint64
		expectedHex string
	}{
		{"single byte (0-252)", 42, "2a"},
		{"two bytes (253-65535)", 1000, "fde803"},
		{"four bytes (65536-4294967295)", 100000, "fea0860100"},
		{"eight bytes (4294967296+)", 5000000000, "ff00f2052a01000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodeVarInt(tt.value)
			if got := hex.EncodeToString(encoded); got != tt.expectedHex {
				t.Errorf("EncodeVarInt(%d) = %s, want %s", tt.value, got, tt.expectedHex)
			}

			raw, err := hex.DecodeString(tt.expectedHex)
			if err != nil {
				t.Fatalf("failed to decode test hex: %v", err)
			}
			decoded, bytesRead, err := DecodeVarInt(raw)
			if err != nil {
				t.Fatalf("DecodeVarInt failed: %v", err)
			}
			if decoded != tt.value {
				t.Errorf("DecodeVarInt decoded %d, want %d", decoded, tt.value)
			}
			if bytesRead != len(raw) {
				t.Errorf("DecodeVarInt read %d bytes, want %d", bytesRead, len(raw))
			}
		})
	}
}

func TestDecodeVarInt_InsufficientData(t *testing.T) {
	cases := [][]byte{
		{},
		{0xfd, 0x01},
		{0xfe, 0x01, 0x02, 0x03},
		{0xff, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07},
	}
	for _, data := range cases {
		if _, _, err := DecodeVarInt(data); err == nil {
			t.Errorf("DecodeVarInt(%x) should fail on truncated input", data)
		}
	}
}
