package prefilter

import (
	"bytes"
	"sort"

	"github.com/coregx/ahocorasick"
)

// Screen decides which signatures of a set are worth scanning a haystack for.
//
// Each signature contributes its anchor (see New). One Aho-Corasick pass
// over the haystack reports which anchors occur at least once; a signature
// whose anchor never occurs cannot match anywhere and is skipped. The screen
// never merges or reports matches itself: every surviving signature is still
// scanned on its own.
//
// Signatures without an anchor (all placeholders, or empty) are always
// candidates.
//
// A Screen is immutable after NewScreen and safe for concurrent use.
type Screen struct {
	auto *ahocorasick.Automaton

	// anchors holds each distinct anchor once; owners[i] lists the
	// signature indices that share anchors[i].
	anchors [][]byte
	owners  [][]int
	always  []int
	total   int
}

// NewScreen builds a screen from one anchor per signature. anchors[i] is the
// anchor of signature i; a nil or empty anchor marks signature i as always
// scanned.
func NewScreen(anchors [][]byte) (*Screen, error) {
	s := &Screen{total: len(anchors)}

	index := make(map[string]int)
	for i, a := range anchors {
		if len(a) == 0 {
			s.always = append(s.always, i)
			continue
		}
		key := string(a)
		j, ok := index[key]
		if !ok {
			j = len(s.anchors)
			index[key] = j
			s.anchors = append(s.anchors, []byte(key))
			s.owners = append(s.owners, nil)
		}
		s.owners[j] = append(s.owners[j], i)
	}

	if len(s.anchors) == 0 {
		return s, nil
	}

	builder := ahocorasick.NewBuilder()
	for _, a := range s.anchors {
		builder.AddPattern(a)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	s.auto = auto
	return s, nil
}

// Len returns the number of signatures the screen was built for.
func (s *Screen) Len() int {
	return s.total
}

// Candidates returns, in ascending order, the indices of signatures that may
// match haystack.
//
// The automaton reports one match per call. Whatever its match semantics, an
// anchor occurrence starting anywhere in [at, m.Start] is checked directly
// before the search resumes at m.Start+1, so no occurrence is skipped.
func (s *Screen) Candidates(haystack []byte) []int {
	result := make([]int, 0, s.total)
	result = append(result, s.always...)

	if s.auto != nil {
		seen := make([]bool, len(s.anchors))
		remaining := len(s.anchors)

		at := 0
		for remaining > 0 && at < len(haystack) {
			m := s.auto.Find(haystack, at)
			if m == nil {
				break
			}
			for i, a := range s.anchors {
				if seen[i] {
					continue
				}
				end := m.Start + len(a)
				if end > len(haystack) {
					end = len(haystack)
				}
				if bytes.Contains(haystack[at:end], a) {
					seen[i] = true
					remaining--
				}
			}
			at = m.Start + 1
		}

		for i, ok := range seen {
			if ok {
				result = append(result, s.owners[i]...)
			}
		}
	}

	sort.Ints(result)
	return result
}
