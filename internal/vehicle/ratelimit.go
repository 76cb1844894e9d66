package vehicle

import "math"

// RateLimiter moves a value toward a setpoint at a bounded rate, keeping
// both the setpoint and the result inside [Min, Max].
type RateLimiter struct {
	Rate float64 // Maximum change per second
	Min  float64
	Max  float64
}

// Step returns current moved toward target by at most Rate*dt.
func (r RateLimiter) Step(current, target, dt float64) float64 {
	target = clamp(target, r.Min, r.Max)
	delta := target - current
	limit := r.Rate * dt
	if math.Abs(delta) > limit {
		delta = math.Copysign(limit, delta)
	}
	return clamp(current+delta, r.Min, r.Max)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
