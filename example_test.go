package binmatch_test

import (
	"errors"
	"fmt"

	"github.com/coregx/binmatch"
)

// ExampleCompile demonstrates compiling a signature and extracting the byte
// that follows a fixed prefix.
func ExampleCompile() {
	p, err := binmatch.Compile("00 00 ??")
	if err != nil {
		panic(err)
	}

	fmt.Println(p.Len(), p.FindMatches([]byte{0x12, 0x13, 0x14, 0x00, 0x00, 0x42, 0x15}))
	// Output: 3 [66]
}

// ExampleCompile_invalidCharacter demonstrates inspecting a compile error.
func ExampleCompile_invalidCharacter() {
	_, err := binmatch.Compile("GG")

	var charErr *binmatch.InvalidCharacterError
	if errors.As(err, &charErr) {
		fmt.Printf("%q at %d\n", charErr.Char, charErr.Offset)
	}
	// Output: 'G' at 0
}

// ExamplePattern_MatchChunk demonstrates comparing a single window.
func ExamplePattern_MatchChunk() {
	p := binmatch.MustCompile("00 ?? 00 ??")
	fmt.Println(p.MatchChunk([]byte{0, 42, 0, 13}))
	fmt.Println(p.MatchChunk([]byte{1, 42, 0, 13}))
	// Output:
	// [{42 1} {13 3}]
	// []
}

// ExamplePattern_FindMatchesWithIndex demonstrates absolute capture offsets.
func ExamplePattern_FindMatchesWithIndex() {
	haystack := []byte{0x00, 0x7F, 0x45, 0x4C, 0x46, 0x02, 0x01}
	p := binmatch.MustCompile("7F 45 4C 46 ?? ??")
	for _, c := range p.FindMatchesWithIndex(haystack) {
		fmt.Printf("0x%02X at %d\n", c.Value, c.Index)
	}
	// Output:
	// 0x02 at 5
	// 0x01 at 6
}

// ExamplePattern_Count demonstrates presence checks for a pattern without
// placeholders, which never produces captures.
func ExamplePattern_Count() {
	p := binmatch.MustCompile("FF")
	haystack := []byte{0xFF, 0x00, 0xFF}
	fmt.Println(len(p.FindMatches(haystack)), p.Count(haystack), p.Match(haystack))
	// Output: 0 2 true
}

// ExamplePattern_String demonstrates the canonical signature form.
func ExamplePattern_String() {
	fmt.Println(binmatch.MustCompile("48 8b05 ????????").String())
	// Output: 48 8B 05 ?? ?? ?? ??
}
