package core

import (
	"errors"
)

var (
	// ErrNotSupported signals that the active graphics backend lacks a
	// capability the caller asked for.
	ErrNotSupported = errors.New("not supported by the active backend")
	ErrUnknown      = errors.New("unknown")
)
