// Package simd provides the byte search primitives behind the signature
// scanner's prefilter: single-byte search (Memchr) and substring search
// (Memmem), plus the byte rarity table used to pick search anchors.
//
// On CPUs with wide vector units the package hands long inputs to the Go
// runtime's vectorized bytes.IndexByte. Everywhere else it uses a SWAR
// (SIMD Within A Register) loop that tests 8 bytes per step.
package simd

import (
	"bytes"
	"encoding/binary"
	"math/bits"

	"golang.org/x/sys/cpu"
)

// vectorMinLen is the input size at which the vectorized path amortizes its
// setup cost.
const vectorMinLen = 32

// hasVector reports whether the runtime's byte search runs on 256-bit (AVX2)
// or NEON (ASIMD) vectors on this machine.
var hasVector = cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD

// Memchr returns the index of the first instance of needle in haystack,
// or -1 if needle is not present in haystack.
//
// Example:
//
//	pos := simd.Memchr([]byte{0x90, 0x90, 0xCC}, 0xCC)
//	// pos == 2
func Memchr(haystack []byte, needle byte) int {
	if len(haystack) == 0 {
		return -1
	}
	if hasVector && len(haystack) >= vectorMinLen {
		return bytes.IndexByte(haystack, needle)
	}
	return memchrGeneric(haystack, needle)
}

// memchrGeneric implements byte search with the SWAR technique.
//
// Algorithm:
//  1. Broadcast needle to every byte of a uint64 mask
//  2. XOR each 8-byte chunk with the mask (matching bytes become 0x00)
//  3. Detect zero bytes with (v - 0x01..01) & ^v & 0x80..80
//  4. The lowest set bit gives the first matching byte
//
// The zero-byte formula may flag bytes after a real zero, never before it,
// so the lowest flagged byte is always exact.
func memchrGeneric(haystack []byte, needle byte) int {
	n := len(haystack)
	if n < 8 {
		for i := 0; i < n; i++ {
			if haystack[i] == needle {
				return i
			}
		}
		return -1
	}

	const lo8 = 0x0101010101010101
	const hi8 = 0x8080808080808080
	mask := uint64(needle) * lo8

	i := 0
	for ; i+8 <= n; i += 8 {
		v := binary.LittleEndian.Uint64(haystack[i:]) ^ mask
		if found := (v - lo8) & ^v & hi8; found != 0 {
			return i + bits.TrailingZeros64(found)/8
		}
	}

	for ; i < n; i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}
