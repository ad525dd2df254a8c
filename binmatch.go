// Package binmatch compiles binary signatures and scans byte buffers for
// them.
//
// A signature is written as hexadecimal byte pairs, optionally separated by
// spaces, where "??" stands for any byte:
//
//	48 8B 05 ?? ?? ?? ?? 48 85 C0
//
// Compile turns the text into an immutable Pattern. A Pattern slides a window
// of Len() bytes over a haystack and, wherever every literal byte matches,
// reports the bytes that fell on placeholders. Those are typically the
// interesting values: a relative address after an opcode, a version field
// after a magic number, a key after a known header.
//
// Basic usage:
//
//	p, err := binmatch.Compile("00 00 ??")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(p.FindMatches([]byte{0x12, 0x00, 0x00, 0x42})) // [66]
//
// Captures and match success are different signals. A pattern without
// placeholders captures nothing even where it matches, so use Match, Count
// or FindAllIndex to test for presence.
//
// Performance characteristics:
//   - The rarest run of literal bytes is located with SIMD byte search and
//     only windows containing it are compared (see Config.Prefilter).
//   - Literal bytes are compared rarest first, so most windows are rejected
//     after one comparison.
//   - Worst case is O(len(haystack) * Len()).
//
// A Pattern is safe to use concurrently from multiple goroutines.
package binmatch

import (
	"sort"
	"strings"

	"github.com/coregx/binmatch/prefilter"
	"github.com/coregx/binmatch/simd"
)

// Pattern is a compiled signature: an ordered sequence of Literal and
// Placeholder elements. Position i of the pattern corresponds to byte i of
// any window it is compared against.
//
// A Pattern is never modified after construction.
type Pattern struct {
	source   string
	elements []Element

	// values[i] is the expected byte at literal position i (0 at placeholders).
	values []byte
	// checks lists literal positions, rarest expected byte first.
	checks []int
	// holes lists placeholder positions in ascending order.
	holes []int

	pf     prefilter.Prefilter
	config Config
}

// Compile compiles a signature with the default configuration.
//
// Spaces are removed and letters are case-folded before validation. Every
// remaining character must be a hex digit or '?'; the first one that is not
// is reported as an *InvalidCharacterError wrapped in a *CompileError. The
// text is then decoded two characters at a time: "??" becomes a Placeholder,
// two hex digits become a Literal. A trailing single digit fails with
// ErrOddLength and a byte mixing '?' with a digit fails with
// ErrPartialWildcard.
//
// An empty or all-space signature compiles to an empty pattern.
//
// Example:
//
//	p, err := binmatch.Compile("DEADBEEF ??")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(p.Len()) // 5
func Compile(pattern string) (*Pattern, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile compiles a signature and panics if it fails.
//
// This is useful for signatures known to be valid at compile time.
//
// Example:
//
//	var elfMagic = binmatch.MustCompile("7F 45 4C 46")
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic("binmatch: Compile(`" + pattern + "`): " + err.Error())
	}
	return p
}

// CompileWithConfig compiles a signature with a custom configuration.
//
// The configuration is validated first; an invalid one is reported as a
// *ConfigError (errors.Is(err, ErrInvalidConfig) holds).
func CompileWithConfig(pattern string, config Config) (*Pattern, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	elements, err := parse(pattern)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	p := &Pattern{
		source:   pattern,
		elements: elements,
		values:   make([]byte, len(elements)),
		config:   config,
	}

	var runs []prefilter.Run
	for i, e := range elements {
		switch e := e.(type) {
		case Literal:
			p.values[i] = byte(e)
			p.checks = append(p.checks, i)
			if n := len(runs); n > 0 && runs[n-1].Offset+len(runs[n-1].Bytes) == i {
				runs[n-1].Bytes = append(runs[n-1].Bytes, byte(e))
			} else {
				runs = append(runs, prefilter.Run{Offset: i, Bytes: []byte{byte(e)}})
			}
		case Placeholder:
			p.holes = append(p.holes, i)
		}
	}

	sort.SliceStable(p.checks, func(a, b int) bool {
		return simd.ByteRank(p.values[p.checks[a]]) < simd.ByteRank(p.values[p.checks[b]])
	})

	if config.Prefilter {
		p.pf = prefilter.New(runs, len(elements))
	}

	return p, nil
}

// Len returns the number of bytes the pattern consumes per window.
func (p *Pattern) Len() int {
	return len(p.elements)
}

// IsEmpty reports whether the pattern has no elements.
func (p *Pattern) IsEmpty() bool {
	return len(p.elements) == 0
}

// NumPlaceholders returns the number of Placeholder elements, which is the
// number of captures a single matching window produces.
func (p *Pattern) NumPlaceholders() int {
	return len(p.holes)
}

// Elements returns a copy of the pattern's elements.
func (p *Pattern) Elements() []Element {
	out := make([]Element, len(p.elements))
	copy(out, p.elements)
	return out
}

// Source returns the signature text the pattern was compiled from.
func (p *Pattern) Source() string {
	return p.source
}

// Config returns the configuration the pattern was compiled with.
func (p *Pattern) Config() Config {
	return p.config
}

// Anchor returns the literal run the prefilter searches for and its offset
// within the pattern. ok is false when the pattern scans without a
// prefilter.
func (p *Pattern) Anchor() (needle []byte, offset int, ok bool) {
	if p.pf == nil {
		return nil, 0, false
	}
	needle = append([]byte(nil), p.pf.Needle()...)
	return needle, p.pf.Offset(), true
}

// String returns the canonical form of the pattern: uppercase byte pairs
// separated by single spaces, e.g. "7F 45 ?? 46".
func (p *Pattern) String() string {
	var b strings.Builder
	b.Grow(3 * len(p.elements))
	for i, e := range p.elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(e.String())
	}
	return b.String()
}
