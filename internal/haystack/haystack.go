// Package haystack loads scan inputs.
//
// Regular files are memory-mapped. Zstandard-compressed inputs are detected
// by their frame magic and decoded in full before scanning, so signatures
// are matched against the uncompressed bytes.
package haystack

import (
	"github.com/cockroachdb/errors"
	"github.com/coregx/binmatch"
	"github.com/coregx/binmatch/internal/mmap"
	"github.com/klauspost/compress/zstd"
)

// zstdMagic matches the start of a Zstandard frame.
var zstdMagic = binmatch.MustCompile("28 B5 2F FD")

// decoder is shared; DecodeAll is safe for concurrent use.
var decoder = mustDecoder(zstd.WithDecoderConcurrency(0))

// mustDecoder is like zstd.NewReader but panics if the options are invalid.
func mustDecoder(opts ...zstd.DOption) *zstd.Decoder {
	d, err := zstd.NewReader(nil, opts...)
	if err != nil {
		panic("haystack: zstd decoder: " + err.Error())
	}
	return d
}

// Haystack is the content of one scan input.
type Haystack struct {
	data       []byte
	mapping    *mmap.Mapping
	compressed bool
}

// Open loads the file at path.
func Open(path string) (*Haystack, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	h, err := load(m.Bytes())
	if err != nil {
		_ = m.Close()
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	if h.compressed {
		// Decoded bytes live on the heap.
		if err := m.Close(); err != nil {
			return nil, errors.Wrapf(err, "unmapping %s", path)
		}
		return h, nil
	}
	h.mapping = m
	return h, nil
}

// FromBytes wraps in-memory content, e.g. standard input. Compressed content
// is decoded like in Open.
func FromBytes(b []byte) (*Haystack, error) {
	return load(b)
}

func load(b []byte) (*Haystack, error) {
	if !IsZstd(b) {
		return &Haystack{data: b}, nil
	}
	out, err := decoder.DecodeAll(b, nil)
	if err != nil {
		return nil, errors.Wrap(err, "zstd")
	}
	return &Haystack{data: out, compressed: true}, nil
}

// IsZstd reports whether b starts with a Zstandard frame.
func IsZstd(b []byte) bool {
	n := zstdMagic.Len()
	return len(b) >= n && zstdMagic.Match(b[:n])
}

// Bytes returns the content to scan. It is invalid after Close.
func (h *Haystack) Bytes() []byte {
	return h.data
}

// Len returns the content length.
func (h *Haystack) Len() int {
	return len(h.data)
}

// Compressed reports whether the content was decoded from a compressed input.
func (h *Haystack) Compressed() bool {
	return h.compressed
}

// Close releases the content.
func (h *Haystack) Close() error {
	h.data = nil
	if h.mapping != nil {
		return h.mapping.Close()
	}
	return nil
}
