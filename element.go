package binmatch

import "fmt"

// Element is one position of a compiled Pattern: either a Literal byte that
// must match exactly, or a Placeholder that accepts any byte and captures it.
//
// The interface is sealed; Literal and Placeholder are the only
// implementations, so a type switch over both is exhaustive.
type Element interface {
	fmt.Stringer
	element()
}

// Literal is an exact byte value that must match at its position.
type Literal byte

func (Literal) element() {}

// String returns the two-digit uppercase hex form, e.g. "7F".
func (l Literal) String() string {
	return fmt.Sprintf("%02X", byte(l))
}

// Placeholder accepts any byte at its position and reports it as a capture.
type Placeholder struct{}

func (Placeholder) element() {}

// String returns "??".
func (Placeholder) String() string {
	return "??"
}
