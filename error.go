package binmatch

import (
	"errors"
	"fmt"
)

var (
	// ErrOddLength indicates the signature has a trailing single hex digit.
	ErrOddLength = errors.New("odd number of hex digits")

	// ErrPartialWildcard indicates a byte written as one hex digit and one
	// '?', e.g. "4?". Wildcards cover whole bytes only.
	ErrPartialWildcard = errors.New("wildcard must cover a whole byte")

	// ErrInvalidConfig indicates an out-of-range Config field.
	ErrInvalidConfig = errors.New("invalid config")
)

// InvalidCharacterError reports the first character of a signature that is
// not a hex digit, '?' or a space.
type InvalidCharacterError struct {
	// Char is the offending character after case normalization.
	Char rune
	// Offset is the byte offset of Char in the signature with spaces removed.
	Offset int
}

// Error implements the error interface.
func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("invalid character %q at offset %d", e.Char, e.Offset)
}

// CompileError wraps a signature compilation failure with the signature text.
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("binmatch: compiling %q: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "binmatch: invalid config: " + e.Field + ": " + e.Message
}

// Unwrap lets errors.Is match ErrInvalidConfig.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
