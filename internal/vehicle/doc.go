// Package vehicle provides the kinematic bicycle model used to validate
// path-tracking commands in closed-loop simulation.
//
// Responsibilities: converting curvature commands to steering angles,
// rate-limiting steering and speed, forward Euler pose integration and
// short-horizon path prediction.
// Key types: RobotState, Params, BicycleModel, RateLimiter.
//
// Conventions: SI units, angles in radians, heading measured
// counter-clockwise from +X, positive curvature turns left.
package vehicle
