// Package scanstats summarises the samples of a single scan.
package scanstats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes one scan. The zero value describes an empty scan.
type Summary struct {
	Samples int
	First   float64
	Last    float64
	Min     float64
	Max     float64
	Mean    float64
	StdDev  float64 // sample standard deviation; 0 for fewer than two samples
}

// Summarize computes a Summary of scan.
func Summarize(scan []float64) Summary {
	if len(scan) == 0 {
		return Summary{}
	}
	s := Summary{
		Samples: len(scan),
		First:   scan[0],
		Last:    scan[len(scan)-1],
		Min:     floats.Min(scan),
		Max:     floats.Max(scan),
	}
	if len(scan) < 2 {
		s.Mean = scan[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(scan, nil)
	return s
}

// Equal reports whether a and b hold the same samples in the same order.
func Equal(a, b []float64) bool {
	return floats.Equal(a, b)
}

// CountNonZero returns how many samples in scan are non-zero. Zero-padded
// tails of short scans are excluded by this count.
func CountNonZero(scan []float64) int {
	n := 0
	for _, v := range scan {
		if v != 0 {
			n++
		}
	}
	return n
}
