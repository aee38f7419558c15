package sphere

import "errors"

var (
	// ErrChordExceedsDiameter is returned when a chord is longer than the sphere
	// diameter, which cannot happen for two points that actually lie on it.
	ErrChordExceedsDiameter = errors.New("sphere: chord exceeds diameter")

	// ErrInvalidRadius is returned for a non-positive sphere radius.
	ErrInvalidRadius = errors.New("sphere: radius must be positive")
)
