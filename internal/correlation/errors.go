package correlation

import "errors"

var (
	// ErrInvalidDescriptor is returned before any window query when the
	// descriptor lacks a title or start, or has an end not after its start.
	ErrInvalidDescriptor = errors.New("invalid event descriptor")
	ErrInvalidPolicy     = errors.New("invalid correlation policy")
)
