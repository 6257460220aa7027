// Package testutil provides shared test utilities and scan fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"errors"
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertErrorIs fails the test unless err wraps target.
func AssertErrorIs(t testing.TB, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}

// RampScan returns n samples where sample i is offset+i.
func RampScan(n int, offset float64) []float64 {
	scan := make([]float64, n)
	for i := range scan {
		scan[i] = offset + float64(i)
	}
	return scan
}

// ConstantScan returns n samples all equal to v.
func ConstantScan(n int, v float64) []float64 {
	scan := make([]float64, n)
	for i := range scan {
		scan[i] = v
	}
	return scan
}
