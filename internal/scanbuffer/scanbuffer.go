// Package scanbuffer holds the most recent sweeps of a rotating rangefinder in a
// fixed-capacity circular buffer.
//
// Each sweep (a scan) is a sequence of distance samples taken every Resolution
// degrees between MinAngle and MaxAngle. The buffer keeps the last Capacity
// scans, overwriting the oldest when full, and answers single-angle distance
// queries against the newest scan.
//
// A ScanBuffer is not safe for concurrent use. Callers sharing one across
// goroutines must guard it with their own mutex.
package scanbuffer

import (
	"fmt"
	"math"
)

const (
	// Capacity is the number of scan slots in every buffer.
	Capacity = 10

	// MinAngle and MaxAngle bound the sweep in degrees.
	MinAngle = 0.0
	MaxAngle = 180.0

	// MinResolution and MaxResolution bound the angular step in degrees.
	MinResolution = 0.1
	MaxResolution = 1.0
)

// ScanBuffer is a fixed-capacity ring of scans.
type ScanBuffer struct {
	slots    [][]float64
	newest   int // slot of the most recently inserted scan
	oldest   int // slot of the least recently inserted scan still held
	occupied int // number of held scans, 0..Capacity

	scanWidth  int
	resolution float64
}

// ScanWidth returns the number of samples in a scan taken at resolution.
func ScanWidth(resolution float64) int {
	return int(math.Floor((MaxAngle-MinAngle)/resolution)) + 1
}

// New creates an empty buffer for scans taken at the given angular resolution.
func New(resolution float64) (*ScanBuffer, error) {
	if math.IsNaN(resolution) || resolution < MinResolution || resolution > MaxResolution {
		return nil, fmt.Errorf("%w: %v not in [%v, %v]",
			ErrResolutionOutOfRange, resolution, MinResolution, MaxResolution)
	}
	return &ScanBuffer{
		slots:      make([][]float64, Capacity),
		scanWidth:  ScanWidth(resolution),
		resolution: resolution,
	}, nil
}

// Len returns the number of scans currently held.
func (b *ScanBuffer) Len() int { return b.occupied }

// Capacity returns the number of slots in the buffer.
func (b *ScanBuffer) Capacity() int { return len(b.slots) }

// ScanWidth returns the number of samples stored per scan.
func (b *ScanBuffer) ScanWidth() int { return b.scanWidth }

// Resolution returns the angular step between samples, in degrees.
func (b *ScanBuffer) Resolution() float64 { return b.resolution }

// Insert stores scan as the newest entry. Scans shorter than ScanWidth are
// zero-padded and longer ones truncated. When the buffer is full the oldest
// scan is overwritten.
//
// The samples are copied; the caller keeps ownership of scan.
func (b *ScanBuffer) Insert(scan []float64) {
	normalized := b.normalize(scan)

	if b.occupied != 0 {
		b.newest = (b.newest + 1) % len(b.slots)
	}
	b.slots[b.newest] = normalized

	if b.occupied == len(b.slots) {
		// The slot just written held the oldest scan.
		b.oldest = (b.oldest + 1) % len(b.slots)
		return
	}
	b.occupied++
}

// RemoveOldest removes and returns the least recently inserted scan.
func (b *ScanBuffer) RemoveOldest() ([]float64, error) {
	if b.occupied == 0 {
		return nil, fmt.Errorf("remove oldest: %w", ErrEmptyBuffer)
	}

	scan := b.slots[b.oldest]
	b.slots[b.oldest] = nil
	b.occupied--
	if b.occupied != 0 {
		b.oldest = (b.oldest + 1) % len(b.slots)
	}
	return scan, nil
}

// PeekNewest returns a copy of the most recently inserted scan without
// removing it.
func (b *ScanBuffer) PeekNewest() ([]float64, error) {
	if b.occupied == 0 {
		return nil, fmt.Errorf("peek newest: %w", ErrEmptyBuffer)
	}
	return cloneScan(b.slots[b.newest]), nil
}

// Clear discards every held scan and resets the cursors.
func (b *ScanBuffer) Clear() {
	b.slots = make([][]float64, Capacity)
	b.newest = 0
	b.oldest = 0
	b.occupied = 0
}

// Scans returns copies of all held scans, oldest first.
func (b *ScanBuffer) Scans() [][]float64 {
	if b.occupied == 0 {
		return nil
	}
	out := make([][]float64, b.occupied)
	for i := range out {
		out[i] = cloneScan(b.slots[(b.oldest+i)%len(b.slots)])
	}
	return out
}

// Clone returns an independent deep copy of the buffer.
func (b *ScanBuffer) Clone() *ScanBuffer {
	c := *b
	c.slots = make([][]float64, len(b.slots))
	for i, s := range b.slots {
		if s != nil {
			c.slots[i] = cloneScan(s)
		}
	}
	return &c
}

// Take moves the buffer's contents into a new ScanBuffer and leaves b
// cleared. The resolution of b is unchanged.
func (b *ScanBuffer) Take() *ScanBuffer {
	moved := *b
	b.Clear()
	return &moved
}

// normalize returns a fresh slice of exactly scanWidth samples.
func (b *ScanBuffer) normalize(scan []float64) []float64 {
	out := make([]float64, b.scanWidth)
	copy(out, scan)
	return out
}

func cloneScan(s []float64) []float64 {
	out := make([]float64, len(s))
	copy(out, s)
	return out
}
