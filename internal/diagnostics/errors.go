// Package diagnostics defines the errors raised by call-site bootstraps and
// carrier generation.
package diagnostics

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBootstrapShape is returned when the calling contract declared
	// at a call site does not match the one the bootstrap requires.
	ErrInvalidBootstrapShape = errors.New("invalid bootstrap shape")

	// ErrNullCandidateList is returned when a bootstrap receives a nil label list.
	ErrNullCandidateList = errors.New("candidate label list is nil")

	// ErrNotImplemented is returned by extension points that are declared but not built.
	ErrNotImplemented = errors.New("not implemented")

	// ErrGeneration is the sentinel behind every GenerationError.
	ErrGeneration = errors.New("carrier generation failed")
)

// BootstrapError reports a calling-contract mismatch at a call site.
type BootstrapError struct {
	Site string
	Want string
	Got  string
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("%s: %v: want %s, got %s", e.Site, ErrInvalidBootstrapShape, e.Want, e.Got)
}

func (e *BootstrapError) Unwrap() error { return ErrInvalidBootstrapShape }

func NewBootstrapError(site, want, got string) *BootstrapError {
	return &BootstrapError{Site: site, Want: want, Got: got}
}

// GenerationError wraps a failure of the synthesis backend for one shape.
type GenerationError struct {
	Descriptor string
	Err        error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%v for %s: %v", ErrGeneration, e.Descriptor, e.Err)
}

// Unwrap exposes both the sentinel and the backend's own error.
func (e *GenerationError) Unwrap() []error { return []error{ErrGeneration, e.Err} }

func NewGenerationError(descriptor string, err error) *GenerationError {
	return &GenerationError{Descriptor: descriptor, Err: err}
}

// NotImplemented returns ErrNotImplemented annotated with the operation name.
func NotImplemented(op string) error {
	return fmt.Errorf("%s: %w", op, ErrNotImplemented)
}
