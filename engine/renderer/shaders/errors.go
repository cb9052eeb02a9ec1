package shaders

import "errors"

// Contract violations. None of these are retryable; they indicate caller
// misuse and are reported at the offending call, never deferred.
var (
	// ErrConfiguration marks invalid construction arguments, such as a
	// zero material or draw count with uniform buffers enabled.
	ErrConfiguration = errors.New("invalid shader configuration")

	// ErrWrongMode marks an operation that is not part of the legal
	// operation set of the mode the shader was constructed with.
	ErrWrongMode = errors.New("operation not available in this uniform mode")

	// ErrMissingCapability marks an operation gated behind a capability
	// flag that was not enabled at construction.
	ErrMissingCapability = errors.New("shader capability not enabled")

	// ErrOutOfRange marks a draw offset outside [0, drawCount).
	ErrOutOfRange = errors.New("draw offset out of range")
)
