// Package units provides the angle conversions shared by the configuration
// layer, the vehicle model and progress logging.
package units

import "math"

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// Degrees converts radians to degrees for logging/display.
func Degrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}
