package units

import (
	"math"
	"testing"
)

func TestRadiansDegrees(t *testing.T) {
	tests := []struct {
		deg, rad float64
	}{
		{0, 0},
		{45, math.Pi / 4},
		{180, math.Pi},
		{-90, -math.Pi / 2},
	}
	for _, tt := range tests {
		if got := Radians(tt.deg); math.Abs(got-tt.rad) > 1e-12 {
			t.Errorf("Radians(%v) = %v, want %v", tt.deg, got, tt.rad)
		}
		if got := Degrees(tt.rad); math.Abs(got-tt.deg) > 1e-9 {
			t.Errorf("Degrees(%v) = %v, want %v", tt.rad, got, tt.deg)
		}
	}
}
