// Package sweepsim feeds synthetic sweeps into a ScanBuffer at a fixed rate,
// standing in for a rangefinder during bench runs.
package sweepsim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/banshee-data/lidar-scanbuffer/internal/monitoring"
	"github.com/banshee-data/lidar-scanbuffer/internal/scanbuffer"
	"github.com/banshee-data/lidar-scanbuffer/internal/timeutil"
)

// Source produces the samples of sweep number n for a scan of width samples
// taken every resolution degrees. It may return more or fewer samples than
// width; the buffer normalises them.
type Source func(n, width int, resolution float64) []float64

// RampSource yields sample i of sweep n as n*step + i, which makes every
// sample identify both its sweep and its position.
func RampSource(step float64) Source {
	return func(n, width int, _ float64) []float64 {
		scan := make([]float64, width)
		for i := range scan {
			scan[i] = float64(n)*step + float64(i)
		}
		return scan
	}
}

// WallSource yields the range to a flat wall at perpendicular distance d,
// parallel to the 0-180 degree axis. Rays that would not hit the wall within
// maxRange report maxRange.
func WallSource(d, maxRange float64) Source {
	return func(_, width int, resolution float64) []float64 {
		scan := make([]float64, width)
		for i := range scan {
			theta := (scanbuffer.MinAngle + float64(i)*resolution) * math.Pi / 180
			s := math.Sin(theta)
			if s <= d/maxRange {
				scan[i] = maxRange
				continue
			}
			scan[i] = d / s
		}
		return scan
	}
}

// Simulator inserts one sweep per Period into a buffer.
type Simulator struct {
	Clock  timeutil.Clock
	Period time.Duration
	Source Source
}

// Run inserts sweeps sweeps into buf, one per tick, and returns when all are
// inserted or ctx is done. buf must not be used by other goroutines while Run
// is in progress.
func (s *Simulator) Run(ctx context.Context, buf *scanbuffer.ScanBuffer, sweeps int) error {
	if s.Source == nil {
		return fmt.Errorf("sweepsim: no source")
	}
	if s.Period <= 0 {
		return fmt.Errorf("sweepsim: period must be positive, got %v", s.Period)
	}
	clock := s.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}

	ticker := clock.NewTicker(s.Period)
	defer ticker.Stop()

	start := clock.Now()
	for n := 0; n < sweeps; n++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("sweepsim: stopped after %d of %d sweeps: %w", n, sweeps, ctx.Err())
		case <-ticker.C():
		}
		evicting := buf.Len() == buf.Capacity()
		buf.Insert(s.Source(n, buf.ScanWidth(), buf.Resolution()))
		if evicting {
			monitoring.Logf("[Simulator] sweep %d overwrote the oldest scan", n)
		}
	}
	monitoring.Logf("[Simulator] inserted %d sweeps in %v", sweeps, clock.Now().Sub(start))
	return nil
}
