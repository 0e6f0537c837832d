package generator

import (
	"errors"
	"fmt"
)

var ErrUniquenessExhausted = errors.New("uniqueness exhausted")

// UniquenessExhaustedError is returned when a unique field cannot produce a
// value that was not already emitted in the batch. DomainSize is -1 when the
// number of distinct values of the field is not known.
type UniquenessExhaustedError struct {
	Path       string
	Key        string
	DomainSize int64
	Emitted    int
	Attempts   int
}

func (e *UniquenessExhaustedError) Error() string {
	domain := "unknown domain size"
	if e.DomainSize >= 0 {
		domain = fmt.Sprintf("domain size %d", e.DomainSize)
	}
	return fmt.Sprintf("uniqueness exhausted at %s: %d distinct value(s) already emitted for %q (%s) after %d attempt(s)",
		e.Path, e.Emitted, e.Key, domain, e.Attempts)
}

func (e *UniquenessExhaustedError) Unwrap() error { return ErrUniquenessExhausted }
