package core

import (
	"errors"
	"fmt"
)

// Error classes every failure of the engine belongs to. Callers classify
// errors with errors.Is; the wrapped message carries the detail.
var (
	// ErrCorruptDocument reports malformed syntax, a broken cross-reference
	// section, a reference cycle or an invalid page tree.
	ErrCorruptDocument = errors.New("corrupt document")

	// ErrUnsupportedFeature reports encryption, an unknown stream filter or a
	// font program needed to decode a glyph that cannot be read.
	ErrUnsupportedFeature = errors.New("unsupported feature")

	// ErrIOTruncated reports input that ends before a required structure
	// is complete.
	ErrIOTruncated = errors.New("input truncated")

	// ErrPageIndexOutOfRange reports a page index outside [0, PageCount).
	ErrPageIndexOutOfRange = errors.New("page index out of range")
)

// Corruptf returns an error wrapping ErrCorruptDocument
func Corruptf(format string, args ...any) error {
	return classed(ErrCorruptDocument, format, args)
}

// Unsupportedf returns an error wrapping ErrUnsupportedFeature
func Unsupportedf(format string, args ...any) error {
	return classed(ErrUnsupportedFeature, format, args)
}

// Truncatedf returns an error wrapping ErrIOTruncated
func Truncatedf(format string, args ...any) error {
	return classed(ErrIOTruncated, format, args)
}

func classed(class error, format string, args []any) error {
	return fmt.Errorf("%w: %s", class, fmt.Sprintf(format, args...))
}
