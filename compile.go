package binmatch

import (
	"fmt"
	"strings"
)

// inAlphabet reports whether c may appear in a normalized signature.
func inAlphabet(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F') || c == '?'
}

// normalize removes spaces and folds letters to upper case.
func normalize(text string) string {
	return strings.ToUpper(strings.ReplaceAll(text, " ", ""))
}

// parse validates and decodes a signature into elements.
//
// Validation covers the whole normalized string before any decoding, so the
// reported character is always the first offending one.
func parse(text string) ([]Element, error) {
	s := normalize(text)

	for i, c := range s {
		if !inAlphabet(c) {
			return nil, &InvalidCharacterError{Char: c, Offset: i}
		}
	}

	// s is pure ASCII from here on.
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: %d digits, last %q at offset %d",
			ErrOddLength, len(s), s[len(s)-1], len(s)-1)
	}

	elements := make([]Element, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		hi, lo := s[i], s[i+1]
		switch {
		case hi == '?' && lo == '?':
			elements = append(elements, Placeholder{})
		case hi == '?' || lo == '?':
			return nil, fmt.Errorf("%w: %q at offset %d", ErrPartialWildcard, s[i:i+2], i)
		default:
			elements = append(elements, Literal(hexValue(hi)<<4|hexValue(lo)))
		}
	}
	return elements, nil
}

// hexValue decodes one validated uppercase hex digit.
func hexValue(c byte) byte {
	if c <= '9' {
		return c - '0'
	}
	return c - 'A' + 10
}
