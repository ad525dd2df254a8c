// Package prefilter finds candidate windows for a signature scan.
//
// A signature of fixed bytes and placeholders contains one or more literal
// runs: maximal stretches of consecutive fixed bytes. Every matching window
// must contain every run at its fixed offset, so searching for one run (the
// anchor) with a SIMD-accelerated primitive rejects most of the haystack
// without running the per-window comparison at all.
//
// The anchor is the run with the highest Score. A single-byte anchor uses
// Memchr; anything longer uses Memmem.
//
// Example usage:
//
//	runs := []prefilter.Run{{Offset: 0, Bytes: []byte{0xDE, 0xAD}}}
//	pf := prefilter.New(runs, 5) // pattern "DE AD ?? ?? ??"
//	w := pf.Find(haystack, 0)
//	for w != -1 {
//	    // verify the full window haystack[w:w+5]
//	    w = pf.Find(haystack, w+1)
//	}
package prefilter

import (
	"github.com/coregx/binmatch/simd"
)

// Run is a maximal sequence of literal bytes inside a pattern.
type Run struct {
	// Offset is the position of the first byte of the run within the pattern.
	Offset int
	// Bytes are the literal values.
	Bytes []byte
}

// Prefilter finds candidate window starts.
//
// A candidate is a window start w such that the anchor occurs at
// w+Offset() and the whole window fits in the haystack. Candidates are not
// guaranteed matches; the caller verifies each one.
type Prefilter interface {
	// Find returns the smallest candidate window start >= start, or -1 if
	// none exists.
	Find(haystack []byte, start int) int

	// Offset returns the anchor's position within the pattern.
	Offset() int

	// Needle returns the anchor bytes. Callers must not modify it.
	Needle() []byte
}

// Score rates how selective a run is as an anchor. Every byte contributes
// 256 minus its frequency rank, so longer runs and rarer bytes both score
// higher. A run of zero padding contributes almost nothing.
func Score(b []byte) int {
	return 256*len(b) - simd.Rarity(b)
}

// New builds a prefilter for a pattern of length window from its literal
// runs. Returns nil when runs is empty or window is not positive.
//
// Ties in Score keep the earliest run.
func New(runs []Run, window int) Prefilter {
	if len(runs) == 0 || window <= 0 {
		return nil
	}

	best := -1
	bestScore := -1
	for i, r := range runs {
		if len(r.Bytes) == 0 {
			continue
		}
		if s := Score(r.Bytes); s > bestScore {
			best, bestScore = i, s
		}
	}
	if best == -1 {
		return nil
	}

	anchor := runs[best]
	needle := make([]byte, len(anchor.Bytes))
	copy(needle, anchor.Bytes)

	if len(needle) == 1 {
		return &Memchr{needle: needle[0], offset: anchor.Offset, window: window}
	}
	return &Memmem{needle: needle, offset: anchor.Offset, window: window}
}

// Memchr is a single-byte anchor prefilter.
type Memchr struct {
	needle byte
	offset int
	window int
}

// Find implements Prefilter.
func (p *Memchr) Find(haystack []byte, start int) int {
	if start < 0 {
		start = 0
	}
	lastStart := len(haystack) - p.window
	if start > lastStart {
		return -1
	}

	// Anchor positions that leave room for the whole window.
	from := start + p.offset
	to := lastStart + p.offset + 1
	pos := simd.Memchr(haystack[from:to], p.needle)
	if pos == -1 {
		return -1
	}
	return start + pos
}

// Offset implements Prefilter.
func (p *Memchr) Offset() int { return p.offset }

// Needle implements Prefilter.
func (p *Memchr) Needle() []byte { return []byte{p.needle} }

// Memmem is a multi-byte anchor prefilter.
type Memmem struct {
	needle []byte
	offset int
	window int
}

// Find implements Prefilter.
func (p *Memmem) Find(haystack []byte, start int) int {
	if start < 0 {
		start = 0
	}
	lastStart := len(haystack) - p.window
	if start > lastStart {
		return -1
	}

	from := start + p.offset
	to := lastStart + p.offset + len(p.needle)
	pos := simd.Memmem(haystack[from:to], p.needle)
	if pos == -1 {
		return -1
	}
	return start + pos
}

// Offset implements Prefilter.
func (p *Memmem) Offset() int { return p.offset }

// Needle implements Prefilter.
func (p *Memmem) Needle() []byte { return p.needle }
