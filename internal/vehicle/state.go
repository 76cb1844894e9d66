package vehicle

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// RobotState is the vehicle pose and kinematics at one instant.
// Position is the rear axle centre. Values are never mutated after creation.
type RobotState struct {
	X             float64 // Rear axle X (m)
	Y             float64 // Rear axle Y (m)
	Theta         float64 // Heading (rad, CCW from +X)
	V             float64 // Longitudinal speed (m/s)
	SteeringAngle float64 // Front wheel angle (rad)
	Time          float64 // Elapsed simulation time (s)
	FrontX        float64 // Front axle X (m)
	FrontY        float64 // Front axle Y (m)
}

// Position returns the rear axle position.
func (s RobotState) Position() r2.Vec {
	return r2.Vec{X: s.X, Y: s.Y}
}

// FrontPosition returns the front axle position.
func (s RobotState) FrontPosition() r2.Vec {
	return r2.Vec{X: s.FrontX, Y: s.FrontY}
}
