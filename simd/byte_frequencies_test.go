package simd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByteFrequencies_BinaryBytesAreCommon(t *testing.T) {
	rare := ByteRank(0xA7)
	for _, b := range []byte{0x00, 0xFF, 0x48, 0x8B, 0xCC, 0x90} {
		assert.Greater(t, ByteRank(b), rare, "0x%02X should rank above 0x%02X", b, 0xA7)
	}
	assert.Equal(t, byte(255), ByteRank(0x00))
}

func TestSelectRareBytes(t *testing.T) {
	tests := []struct {
		name   string
		needle []byte
		want   RareByteInfo
	}{
		{"empty", nil, RareByteInfo{}},
		{"single", []byte{0x90}, RareByteInfo{Byte1: 0x90, Byte2: 0x90}},
		{"two_bytes_swapped", []byte{0x00, 0xA7}, RareByteInfo{Byte1: 0xA7, Index1: 1, Byte2: 0x00, Index2: 0}},
		{"padding_then_rare", []byte{0x00, 0x00, 0xDE, 0x00}, RareByteInfo{Byte1: 0xDE, Index1: 2, Byte2: 0x00, Index2: 0}},
		{"two_rare", []byte{0x48, 0xDE, 0x8B, 0xAD}, RareByteInfo{Byte1: 0xDE, Index1: 1, Byte2: 0xAD, Index2: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectRareBytes(tt.needle))
		})
	}
}

func TestRarity(t *testing.T) {
	assert.Equal(t, 0, Rarity(nil))
	assert.Less(t, Rarity([]byte{0xDE, 0xAD}), Rarity([]byte{0x00, 0x00}))
}
