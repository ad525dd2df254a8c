package prefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	assert.Equal(t, 0, Score(nil))
	assert.Equal(t, 1, Score([]byte{0x00}))
	assert.Greater(t, Score([]byte{0xDE, 0xAD}), Score([]byte{0x00, 0x00, 0x00, 0x00}))
	assert.Greater(t, Score([]byte{0xDE, 0xAD, 0xBE}), Score([]byte{0xDE, 0xAD}))
}

func TestNewSelectsAnchor(t *testing.T) {
	tests := []struct {
		name       string
		runs       []Run
		window     int
		wantNil    bool
		wantOffset int
		wantNeedle []byte
		wantMemchr bool
	}{
		{name: "no_runs", window: 4, wantNil: true},
		{name: "zero_window", runs: []Run{{0, []byte{1}}}, window: 0, wantNil: true},
		{name: "empty_run_only", runs: []Run{{0, nil}}, window: 2, wantNil: true},
		{
			name:       "single_byte",
			runs:       []Run{{Offset: 1, Bytes: []byte{0xE8}}},
			window:     5,
			wantOffset: 1,
			wantNeedle: []byte{0xE8},
			wantMemchr: true,
		},
		{
			name: "rare_run_beats_padding",
			runs: []Run{
				{Offset: 0, Bytes: []byte{0x00, 0x00, 0x00, 0x00}},
				{Offset: 5, Bytes: []byte{0xDE, 0xAD}},
			},
			window:     7,
			wantOffset: 5,
			wantNeedle: []byte{0xDE, 0xAD},
		},
		{
			name: "tie_keeps_first",
			runs: []Run{
				{Offset: 0, Bytes: []byte{0xA1, 0xA2}},
				{Offset: 3, Bytes: []byte{0xB1, 0xB2}},
			},
			window:     5,
			wantOffset: 0,
			wantNeedle: []byte{0xA1, 0xA2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := New(tt.runs, tt.window)
			if tt.wantNil {
				assert.Nil(t, pf)
				return
			}
			require.NotNil(t, pf)
			assert.Equal(t, tt.wantOffset, pf.Offset())
			assert.Equal(t, tt.wantNeedle, pf.Needle())
			_, isMemchr := pf.(*Memchr)
			assert.Equal(t, tt.wantMemchr, isMemchr)
		})
	}
}

func TestNewCopiesRunBytes(t *testing.T) {
	b := []byte{0xDE, 0xAD}
	pf := New([]Run{{Offset: 0, Bytes: b}}, 2)
	b[0] = 0x00
	assert.Equal(t, []byte{0xDE, 0xAD}, pf.Needle())
}

// naiveCandidates lists every window start whose anchor bytes match.
func naiveCandidates(haystack []byte, r Run, window int) []int {
	var out []int
	for w := 0; w+window <= len(haystack); w++ {
		ok := true
		for i, b := range r.Bytes {
			if haystack[w+r.Offset+i] != b {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, w)
		}
	}
	return out
}

func collect(pf Prefilter, haystack []byte) []int {
	var out []int
	for w := pf.Find(haystack, 0); w != -1; w = pf.Find(haystack, w+1) {
		out = append(out, w)
	}
	return out
}

func TestFindAgreesWithNaive(t *testing.T) {
	haystack := []byte{
		0xDE, 0xAD, 0x00, 0xDE, 0xAD, 0xDE, 0xAD, 0x11,
		0x22, 0xDE, 0x00, 0xAD, 0xDE, 0xAD,
	}
	tests := []struct {
		name   string
		run    Run
		window int
	}{
		{"memmem_at_start", Run{0, []byte{0xDE, 0xAD}}, 2},
		{"memmem_window_tail", Run{0, []byte{0xDE, 0xAD}}, 4},
		{"memmem_offset", Run{2, []byte{0xDE, 0xAD}}, 4},
		{"memchr_offset", Run{1, []byte{0xAD}}, 3},
		{"memchr_last_position", Run{0, []byte{0xAD}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := New([]Run{tt.run}, tt.window)
			require.NotNil(t, pf)
			assert.Equal(t, naiveCandidates(haystack, tt.run, tt.window), collect(pf, haystack))
		})
	}
}

func TestFindBounds(t *testing.T) {
	pf := New([]Run{{Offset: 1, Bytes: []byte{0xAA, 0xBB}}}, 4)
	require.NotNil(t, pf)

	assert.Equal(t, -1, pf.Find(nil, 0))
	assert.Equal(t, -1, pf.Find([]byte{0x00, 0xAA, 0xBB}, 0), "window does not fit")
	assert.Equal(t, 0, pf.Find([]byte{0x00, 0xAA, 0xBB, 0x00}, -3))
	assert.Equal(t, -1, pf.Find([]byte{0x00, 0xAA, 0xBB, 0x00}, 1))
}
