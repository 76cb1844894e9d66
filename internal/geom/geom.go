// Package geom provides the planar geometry used by the track, controller
// and vehicle packages. Points and vectors are gonum r2.Vec values; this
// package adds the segment projection and angle helpers that r2 lacks.
package geom

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

// Projection is the result of projecting a point onto a line segment.
type Projection struct {
	Point    r2.Vec  // Closest point on the segment
	T        float64 // Unclamped segment parameter: 0 at A, 1 at B
	Along    float64 // Distance from A to Point (metres)
	Distance float64 // Distance from the query point to Point
}

// Beyond reports whether the orthogonal projection falls at or past B.
func (p Projection) Beyond() bool {
	return p.T >= 1
}

// ClosestPointOnSegment projects q orthogonally onto segment AB, clamping to
// the endpoints. A zero-length segment is treated as the single point A, with
// T reported as 1 so that the point counts as reached.
func ClosestPointOnSegment(a, b, q r2.Vec) Projection {
	ab := r2.Sub(b, a)
	lenSq := r2.Norm2(ab)
	if lenSq == 0 {
		return Projection{Point: a, T: 1, Distance: r2.Norm(r2.Sub(q, a))}
	}
	t := r2.Dot(r2.Sub(q, a), ab) / lenSq
	clamped := math.Max(0, math.Min(1, t))
	pt := r2.Add(a, r2.Scale(clamped, ab))
	return Projection{
		Point:    pt,
		T:        t,
		Along:    clamped * math.Sqrt(lenSq),
		Distance: r2.Norm(r2.Sub(q, pt)),
	}
}

// FromPolar returns the vector of the given length pointing along heading.
func FromPolar(length, heading float64) r2.Vec {
	s, c := math.Sincos(heading)
	return r2.Vec{X: length * c, Y: length * s}
}

// Unit returns v scaled to unit length, or the zero vector when v is zero.
func Unit(v r2.Vec) r2.Vec {
	n := r2.Norm(v)
	if n == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/n, v)
}

// SignedAngle returns the angle that rotates from to onto to, in (-π, π].
// Positive angles are counter-clockwise. Zero vectors yield 0.
func SignedAngle(from, to r2.Vec) float64 {
	if r2.Norm2(from) == 0 || r2.Norm2(to) == 0 {
		return 0
	}
	return NormalizeAngle(math.Atan2(r2.Cross(from, to), r2.Dot(from, to)))
}

// NormalizeAngle wraps a to the half-open interval (-π, π].
func NormalizeAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return a
	}
	a = math.Mod(a, 2*math.Pi)
	switch {
	case a <= -math.Pi:
		a += 2 * math.Pi
	case a > math.Pi:
		a -= 2 * math.Pi
	}
	return a
}

// PolylineLength returns the summed length of consecutive segments.
func PolylineLength(pts []r2.Vec) float64 {
	if len(pts) < 2 {
		return 0
	}
	lengths := make([]float64, len(pts)-1)
	for i := range lengths {
		lengths[i] = r2.Norm(r2.Sub(pts[i+1], pts[i]))
	}
	return floats.Sum(lengths)
}
