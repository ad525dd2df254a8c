package binmatch

import "github.com/coregx/binmatch/prefilter"

// FindMatchesWithIndex slides a window of p.Len() bytes over haystack, one
// byte at a time, and returns the captures of every matching window with
// absolute haystack indices.
//
// Windows overlap, so one haystack byte may be captured by several windows.
// Results are ordered by window start, then by placeholder position. A
// haystack shorter than the pattern yields no windows and an empty result.
//
// Example:
//
//	p := binmatch.MustCompile("DEADBEEF ??")
//	p.FindMatchesWithIndex([]byte{0x01, 0xDE, 0xAD, 0xBE, 0xEF, 0x17}) // [{23 5}]
func (p *Pattern) FindMatchesWithIndex(haystack []byte) []Capture {
	captures, _ := p.appendMatches(nil, haystack, 0)
	return captures
}

// FindMatches is FindMatchesWithIndex without the indices.
//
// Example:
//
//	p := binmatch.MustCompile("00 00 ??")
//	p.FindMatches([]byte{0x12, 0x13, 0x14, 0x00, 0x00, 0x42, 0x15}) // [0x42]
func (p *Pattern) FindMatches(haystack []byte) []byte {
	captures := p.FindMatchesWithIndex(haystack)
	if len(captures) == 0 {
		return nil
	}
	out := make([]byte, len(captures))
	for i, c := range captures {
		out[i] = c.Value
	}
	return out
}

// Match reports whether any window of haystack matches the pattern. Unlike
// the capture methods it works for patterns without placeholders.
func (p *Pattern) Match(haystack []byte) bool {
	found := false
	p.scan(haystack, func(int) bool {
		found = true
		return false
	})
	return found
}

// FindAllIndex returns the start offsets of all matching windows in
// ascending order.
func (p *Pattern) FindAllIndex(haystack []byte) []int {
	starts, _ := p.FindAllIndexWithStats(haystack)
	return starts
}

// FindAllIndexWithStats is FindAllIndex that also reports how the prefilter
// performed.
func (p *Pattern) FindAllIndexWithStats(haystack []byte) ([]int, ScanStats) {
	var starts []int
	stats := p.scan(haystack, func(w int) bool {
		starts = append(starts, w)
		return true
	})
	return starts, stats
}

// Count returns the number of matching windows in haystack.
func (p *Pattern) Count(haystack []byte) int {
	n := 0
	p.scan(haystack, func(int) bool {
		n++
		return true
	})
	return n
}

// appendMatches appends the captures of every matching window of haystack
// to dst. base is added to every index.
func (p *Pattern) appendMatches(dst []Capture, haystack []byte, base int) ([]Capture, ScanStats) {
	if len(p.holes) == 0 {
		return dst, ScanStats{}
	}
	n := len(p.elements)
	stats := p.scan(haystack, func(w int) bool {
		dst = p.appendCaptures(dst, haystack[w:w+n], base+w)
		return true
	})
	return dst, stats
}

// scan calls yield with the start of every matching window in ascending
// order until yield returns false.
//
// With a prefilter, only anchor candidates are verified. If the tracker
// retires the prefilter, the remaining windows are verified one by one from
// the first unvisited start. An empty pattern has no windows.
func (p *Pattern) scan(haystack []byte, yield func(start int) bool) ScanStats {
	n := len(p.elements)
	if n == 0 || len(haystack) < n {
		return ScanStats{}
	}
	if p.pf == nil {
		p.scanFrom(haystack, 0, yield)
		return ScanStats{}
	}

	tracker := prefilter.NewTracker(p.pf, p.config.Tracker)
	start := 0
	for tracker.Active() {
		w := tracker.Find(haystack, start)
		if w == -1 {
			return scanStatsFrom(tracker.Stats())
		}
		if p.verify(haystack[w : w+n]) {
			tracker.Confirm()
			if !yield(w) {
				return scanStatsFrom(tracker.Stats())
			}
		}
		start = w + 1
	}

	p.scanFrom(haystack, start, yield)
	return scanStatsFrom(tracker.Stats())
}

// scanFrom verifies every window starting at or after start.
func (p *Pattern) scanFrom(haystack []byte, start int, yield func(start int) bool) {
	n := len(p.elements)
	for w, last := start, len(haystack)-n; w <= last; w++ {
		if p.verify(haystack[w:w+n]) && !yield(w) {
			return
		}
	}
}
