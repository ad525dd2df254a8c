package simd

// ByteFrequencies ranks every byte value by how often it shows up in
// executable images, memory dumps and packet captures.
//
// Lower rank = rarer byte (better anchor for a Memchr-driven search).
// Higher rank = more common byte (worse anchor).
//
// Binary data is dominated by zero padding, 0xFF fill, x86-64 opcode
// prefixes (REX.W 0x48, MOV 0x8B/0x89, 0x0F escape) and int3 padding (0xCC),
// so those rank highest. Printable ASCII sits in the middle because string
// tables are common but sparse. The remaining high bytes are the rarest.
var ByteFrequencies = [256]byte{
	// 0x00-0x0F: zero padding, small integers, 0x0F two-byte opcode escape
	255, 190, 140, 125, 135, 40, 40, 40, 130, 40, 80, 40, 40, 40, 40, 145,
	// 0x10-0x1F
	120, 40, 40, 40, 40, 40, 40, 40, 40, 40, 40, 40, 40, 40, 40, 40,
	// 0x20-0x2F: space, '$' (SIB byte 0x24 for rsp-relative addressing)
	150, 45, 45, 45, 130, 45, 45, 45, 45, 45, 45, 45, 45, 45, 45, 45,
	// 0x30-0x3F: digits
	70, 70, 70, 70, 70, 70, 70, 70, 70, 70, 45, 45, 45, 45, 45, 45,
	// 0x40-0x4F: REX prefixes overlap uppercase A-O
	125, 60, 60, 60, 105, 100, 60, 60, 175, 60, 60, 60, 110, 60, 60, 60,
	// 0x50-0x5F
	60, 60, 60, 60, 60, 60, 60, 60, 60, 60, 60, 45, 45, 45, 45, 45,
	// 0x60-0x6F: lowercase a-o
	45, 115, 90, 90, 90, 125, 90, 90, 90, 110, 90, 90, 90, 90, 110, 110,
	// 0x70-0x7F: lowercase p-z, short jcc opcodes 0x74/0x75
	90, 90, 105, 110, 115, 110, 90, 90, 90, 90, 90, 45, 45, 45, 45, 15,
	// 0x80-0x8F: group-1 ALU, TEST, MOV, LEA
	110, 20, 20, 140, 20, 100, 20, 20, 20, 155, 20, 165, 20, 120, 20, 20,
	// 0x90-0x9F: NOP
	135, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20,
	// 0xA0-0xAF
	20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20,
	// 0xB0-0xBF
	20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20,
	// 0xC0-0xCF: RET 0xC3, INT3 0xCC
	105, 20, 20, 90, 20, 20, 20, 20, 20, 20, 20, 20, 160, 20, 20, 20,
	// 0xD0-0xDF
	20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20,
	// 0xE0-0xEF: CALL rel32
	20, 20, 20, 20, 20, 20, 20, 20, 120, 20, 20, 20, 20, 20, 20, 20,
	// 0xF0-0xFF: 0xFF fill
	20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 20, 95, 225,
}

// ByteRank returns the frequency rank of a byte.
// Lower values indicate rarer bytes.
func ByteRank(b byte) byte {
	return ByteFrequencies[b]
}

// RareByteInfo holds the two rarest bytes of a needle and their positions.
type RareByteInfo struct {
	// Byte1 is the rarest byte found in the needle.
	Byte1 byte
	// Index1 is the position of Byte1 in the needle.
	Index1 int
	// Byte2 is the second rarest byte (different from Byte1 when possible).
	Byte2 byte
	// Index2 is the position of Byte2 in the needle.
	Index2 int
}

// SelectRareBytes finds the two rarest bytes in needle using ByteFrequencies.
//
// Ties keep the earlier position. For needles shorter than 2 bytes,
// Byte2/Index2 equal Byte1/Index1.
func SelectRareBytes(needle []byte) RareByteInfo {
	n := len(needle)
	if n == 0 {
		return RareByteInfo{}
	}
	if n == 1 {
		return RareByteInfo{Byte1: needle[0], Byte2: needle[0]}
	}

	byte1, idx1 := needle[0], 0
	byte2, idx2 := needle[1], 1
	if ByteFrequencies[byte2] < ByteFrequencies[byte1] {
		byte1, byte2 = byte2, byte1
		idx1, idx2 = idx2, idx1
	}

	for i := 2; i < n; i++ {
		b := needle[i]
		rank := ByteFrequencies[b]
		if rank < ByteFrequencies[byte1] {
			byte2, idx2 = byte1, idx1
			byte1, idx1 = b, i
		} else if b != byte1 && (byte2 == byte1 || rank < ByteFrequencies[byte2]) {
			byte2, idx2 = b, i
		}
	}

	return RareByteInfo{
		Byte1:  byte1,
		Index1: idx1,
		Byte2:  byte2,
		Index2: idx2,
	}
}

// Rarity sums the ranks of needle's bytes. Lower totals describe more
// selective needles of the same length.
func Rarity(needle []byte) int {
	total := 0
	for _, b := range needle {
		total += int(ByteFrequencies[b])
	}
	return total
}
