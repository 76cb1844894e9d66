package testutil

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestAssertNoError(t *testing.T) {
	t.Parallel()

	// Verify nil error doesn't cause issues
	AssertNoError(t, nil)
}

func TestAssertError(t *testing.T) {
	t.Parallel()

	AssertError(t, errors.New("test error"))
}

func TestAssertErrorIs(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	AssertErrorIs(t, fmt.Errorf("wrapped: %w", sentinel), sentinel)
	AssertErrorIs(t, sentinel, sentinel)
}

func TestNear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		got, want float64
		tol       float64
		expected  bool
	}{
		{"exact", 1, 1, 0, true},
		{"within default tolerance", 1, 1 + 1e-12, 0, true},
		{"outside default tolerance", 1, 1 + 1e-6, 0, false},
		{"within explicit tolerance", 1, 1.05, 0.1, true},
		{"outside explicit tolerance", 1, 1.2, 0.1, false},
		{"NaN never matches", math.NaN(), math.NaN(), 1, false},
		{"negative values", -3, -3.0001, 1e-3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Near(tt.got, tt.want, tt.tol); got != tt.expected {
				t.Errorf("Near(%g, %g, %g) = %v, want %v", tt.got, tt.want, tt.tol, got, tt.expected)
			}
		})
	}
}

func TestAssertNear(t *testing.T) {
	t.Parallel()

	AssertNear(t, "value", 0.1+0.2, 0.3, 0)
	AssertVecNear(t, "point", r2.Vec{X: 1, Y: 2}, r2.Vec{X: 1.0005, Y: 2}, 1e-3)
}
