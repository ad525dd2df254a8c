package simd

import "bytes"

// Memmem returns the index of the first instance of needle in haystack,
// or -1 if needle is not present in haystack.
//
// It is equivalent to bytes.Index. The search looks for the rarest byte of
// needle (per ByteFrequencies) with Memchr, rejects candidates whose second
// rarest byte differs, and only then compares the full needle. This skips
// the zero padding and opcode bytes that make first-byte search slow on
// binary data.
//
// Example:
//
//	haystack := []byte{0x00, 0x00, 0x7F, 'E', 'L', 'F'}
//	pos := simd.Memmem(haystack, []byte{0x7F, 'E', 'L', 'F'})
//	// pos == 2
func Memmem(haystack, needle []byte) int {
	needleLen := len(needle)
	haystackLen := len(haystack)

	// Empty needle matches at start (mimics bytes.Index behavior)
	if needleLen == 0 {
		return 0
	}
	if haystackLen == 0 || needleLen > haystackLen {
		return -1
	}
	if needleLen == 1 {
		return Memchr(haystack, needle[0])
	}

	rare := SelectRareBytes(needle)

	// Byte1 can only sit in [Index1, haystackLen-needleLen+Index1].
	searchStart := rare.Index1
	searchEnd := haystackLen - needleLen + rare.Index1 + 1
	for searchStart < searchEnd {
		candidate := Memchr(haystack[searchStart:searchEnd], rare.Byte1)
		if candidate == -1 {
			return -1
		}
		candidate += searchStart

		start := candidate - rare.Index1
		if haystack[start+rare.Index2] == rare.Byte2 &&
			bytes.Equal(haystack[start:start+needleLen], needle) {
			return start
		}
		searchStart = candidate + 1
	}
	return -1
}
