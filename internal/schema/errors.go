package schema

import (
	"errors"
	"fmt"
)

var (
	ErrSchema          = errors.New("schema error")
	ErrInvalidRange    = errors.New("invalid range")
	ErrUnsupportedType = errors.New("unsupported type")
)

// SchemaError reports a malformed specification or a missing required
// attribute (array without items, object without schema, ...).
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error at %s: %s", displayPath(e.Path), e.Reason)
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// InvalidRangeError reports a min bound greater than its max bound. It
// matches both ErrInvalidRange and ErrSchema.
type InvalidRangeError struct {
	Path string
	Type string
	Min  string
	Max  string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range at %s: %s min %s is greater than max %s", displayPath(e.Path), e.Type, e.Min, e.Max)
}

func (e *InvalidRangeError) Is(target error) bool {
	return target == ErrInvalidRange || target == ErrSchema
}

// UnsupportedTypeError reports an unknown type token.
type UnsupportedTypeError struct {
	Path string
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %q at %s", e.Type, displayPath(e.Path))
}

func (e *UnsupportedTypeError) Unwrap() error { return ErrUnsupportedType }

func displayPath(p string) string {
	if p == "" {
		return "<root>"
	}
	return p
}
