// Package signature loads named binary signatures from YAML files and
// compiles them into binmatch patterns.
//
// A signatures file holds a top-level "signatures" list:
//
//	signatures:
//	  - id: elf.header
//	    name: ELF header
//	    pattern: "7F 45 4C 46 ?? ?? ??"
//	    description: ELF magic followed by class, data encoding and version
//	    tags: [elf, header]
//
// A set of builtin signatures for common file formats and x86-64 idioms is
// embedded in the package (see Loader.LoadBuiltin).
package signature

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/coregx/binmatch"
)

// Signature is a named, compiled binary signature.
type Signature struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Pattern     string   `json:"pattern"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	compiled *binmatch.Pattern
}

// Compiled returns the compiled pattern.
func (s *Signature) Compiled() *binmatch.Pattern {
	return s.compiled
}

// HasTag reports whether the signature carries tag (case-insensitive).
func (s *Signature) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Parse compiles an ad-hoc signature, e.g. one given on the command line.
// The name defaults to the canonical pattern text.
func Parse(id, pattern string, config binmatch.Config) (*Signature, error) {
	s := &Signature{ID: id, Pattern: pattern}
	if err := s.compile(config); err != nil {
		return nil, err
	}
	s.Name = s.compiled.String()
	return s, nil
}

// compile validates the signature and compiles its pattern.
func (s *Signature) compile(config binmatch.Config) error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.Newf("signature with pattern %q has no id", s.Pattern)
	}
	if strings.TrimSpace(s.Pattern) == "" {
		return errors.Newf("signature %s: empty pattern", s.ID)
	}
	p, err := binmatch.CompileWithConfig(s.Pattern, config)
	if err != nil {
		return errors.Wrapf(err, "signature %s", s.ID)
	}
	s.compiled = p
	return nil
}

// Filter returns the signatures carrying at least one of tags. With no tags
// it returns sigs unchanged.
func Filter(sigs []*Signature, tags ...string) []*Signature {
	if len(tags) == 0 {
		return sigs
	}
	var out []*Signature
	for _, s := range sigs {
		for _, tag := range tags {
			if s.HasTag(tag) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
