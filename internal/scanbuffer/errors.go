package scanbuffer

import "errors"

var (
	// ErrResolutionOutOfRange is returned by New when the resolution lies
	// outside [MinResolution, MaxResolution].
	ErrResolutionOutOfRange = errors.New("scanbuffer: resolution out of range")

	// ErrEmptyBuffer is returned by reads and removals on a buffer with no scans.
	ErrEmptyBuffer = errors.New("scanbuffer: buffer is empty")

	// ErrAngleOutOfRange is returned by Distance for angles outside
	// [MinAngle, MaxAngle].
	ErrAngleOutOfRange = errors.New("scanbuffer: angle out of range")
)
