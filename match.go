package binmatch

import "strconv"

// Capture is a byte that fell on a placeholder of a matching window, with
// its index. MatchChunk reports indices relative to the chunk; the Find
// methods report absolute haystack offsets.
type Capture struct {
	Value byte `json:"value"`
	Index int  `json:"index"`
}

// MatchChunk compares chunk against the pattern position by position.
//
// If every literal matches, it returns one Capture per placeholder, with
// indices relative to the start of chunk. A single literal mismatch returns
// nil: a failed chunk never yields partial captures. A matching chunk of a
// pattern without placeholders also returns nil.
//
// len(chunk) must equal p.Len(); MatchChunk panics otherwise. The Find
// methods always pass correctly sized windows.
//
// Example:
//
//	p := binmatch.MustCompile("00 ?? 00 ??")
//	p.MatchChunk([]byte{0, 42, 0, 13}) // [{42 1} {13 3}]
func (p *Pattern) MatchChunk(chunk []byte) []Capture {
	if len(chunk) != len(p.elements) {
		panic("binmatch: MatchChunk: chunk length " + strconv.Itoa(len(chunk)) +
			" != pattern length " + strconv.Itoa(len(p.elements)))
	}
	if !p.verify(chunk) {
		return nil
	}
	return p.appendCaptures(nil, chunk, 0)
}

// verify reports whether every literal of the pattern matches window.
// window must be exactly p.Len() bytes.
func (p *Pattern) verify(window []byte) bool {
	for _, i := range p.checks {
		if window[i] != p.values[i] {
			return false
		}
	}
	return true
}

// appendCaptures appends the placeholder bytes of a verified window to dst,
// shifting indices by base.
func (p *Pattern) appendCaptures(dst []Capture, window []byte, base int) []Capture {
	for _, i := range p.holes {
		dst = append(dst, Capture{Value: window[i], Index: base + i})
	}
	return dst
}
