package vehicle

import "errors"

// Domain errors for vehicle operations.
var (
	// ErrUnsupportedGear indicates a gear symbol outside P, R, N, D, 1..5.
	ErrUnsupportedGear = errors.New("vehicle: unsupported gear")

	// ErrInvalidSpecs indicates engine specs that violate idle < redline <= max.
	ErrInvalidSpecs = errors.New("vehicle: invalid engine specs")

	// ErrInvalidDeltaTime indicates a negative or non-finite tick delta.
	ErrInvalidDeltaTime = errors.New("vehicle: invalid delta time")
)
