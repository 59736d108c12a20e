package stegastamp

import "errors"

// Sentinel errors returned (wrapped) by the constructors.
var (
	// ErrInvalidResolution means the resolution is not a power of two the
	// networks can be built for.
	ErrInvalidResolution = errors.New("invalid resolution")

	// ErrInvalidConfig means a size in Config is out of range.
	ErrInvalidConfig = errors.New("invalid config")
)
