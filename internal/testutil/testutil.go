// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files. It must not import the packages under test.
package testutil

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultTolerance is the absolute tolerance used by the Near helpers when
// callers pass zero.
const DefaultTolerance = 1e-9

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
		t.Fatalf("error = %v, want it to wrap %v", err, target)
	}
}

// Near reports whether got and want differ by at most tol.
func Near(got, want, tol float64) bool {
	if tol == 0 {
		tol = DefaultTolerance
	}
	if math.IsNaN(got) || math.IsNaN(want) {
		return false
	}
	return scalar.EqualWithinAbs(got, want, tol)
}

// AssertNear fails the test if got and want differ by more than tol.
func AssertNear(t testing.TB, name string, got, want, tol float64) {
	t.Helper()
	if !Near(got, want, tol) {
		t.Errorf("%s = %g, want %g ± %g", name, got, want, tol)
	}
}

// AssertVecNear fails the test if got is further than tol from want.
func AssertVecNear(t testing.TB, name string, got, want r2.Vec, tol float64) {
	t.Helper()
	if !Near(r2.Norm(r2.Sub(got, want)), 0, tol) {
		t.Errorf("%s = (%g, %g), want (%g, %g) ± %g", name, got.X, got.Y, want.X, want.Y, tol)
	}
}
