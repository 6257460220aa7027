package scanbuffer

import (
	"fmt"
	"math"
)

// AngleToIndex maps an angle in degrees to the nearest sample position for the
// given resolution. Halfway cases round away from zero, so with a resolution of
// 0.5 an angle of 0.75 maps to index 2.
func AngleToIndex(angle, resolution float64) int {
	return int(math.Round(angle / resolution))
}

// AngleOf returns the angle in degrees of the sample at index.
func (b *ScanBuffer) AngleOf(index int) float64 {
	return float64(index) * b.resolution
}

// Distance returns the sample nearest to angle in the newest scan.
func (b *ScanBuffer) Distance(angle float64) (float64, error) {
	if b.occupied == 0 {
		return 0, fmt.Errorf("distance at %v: %w", angle, ErrEmptyBuffer)
	}
	if math.IsNaN(angle) || angle < MinAngle || angle > MaxAngle {
		return 0, fmt.Errorf("%w: %v not in [%v, %v]", ErrAngleOutOfRange, angle, MinAngle, MaxAngle)
	}

	// Near MaxAngle the rounded index can land one past the last sample when
	// (MaxAngle-MinAngle)/resolution has a fractional part of at least 0.5.
	idx := AngleToIndex(angle, b.resolution)
	if idx < 0 || idx >= b.scanWidth {
		return 0, fmt.Errorf("%w: %v maps to sample %d, scan has %d", ErrAngleOutOfRange, angle, idx, b.scanWidth)
	}
	return b.slots[b.newest][idx], nil
}
