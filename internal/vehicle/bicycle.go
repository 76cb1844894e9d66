package vehicle

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"go.uber.org/multierr"

	"github.com/banshee-data/pathtrack/internal/config"
	"github.com/banshee-data/pathtrack/internal/geom"
	"github.com/banshee-data/pathtrack/internal/units"
)

// ErrInvalidParams is returned when a BicycleModel is built with bad parameters.
var ErrInvalidParams = errors.New("invalid bicycle model parameters")

// straightSteeringThreshold is the steering angle (rad) below which the
// projected path is drawn as a straight line.
const straightSteeringThreshold = 0.01

// Params holds the physical parameters of the bicycle model.
type Params struct {
	Wheelbase        float64 // Rear-to-front axle distance (m)
	MaxSteeringAngle float64 // Steering angle magnitude limit (rad), < π/2
	MaxSteeringRate  float64 // Steering angle rate limit (rad/s)
	MaxAcceleration  float64 // Longitudinal rate limit (m/s²)
	MaxVelocity      float64 // Speed magnitude limit (m/s); 0 means unlimited
}

// DefaultParams returns a passenger-car sized model.
func DefaultParams() Params {
	return Params{
		Wheelbase:        2.5,
		MaxSteeringAngle: units.Radians(45),
		MaxSteeringRate:  units.Radians(45),
		MaxAcceleration:  1.0,
		MaxVelocity:      10.0,
	}
}

// ParamsFromTuning builds Params from a loaded TuningConfig.
func ParamsFromTuning(cfg *config.TuningConfig) Params {
	return Params{
		Wheelbase:        cfg.GetWheelbase(),
		MaxSteeringAngle: cfg.GetMaxSteeringAngle(),
		MaxSteeringRate:  cfg.GetMaxSteeringRate(),
		MaxAcceleration:  cfg.GetMaxAcceleration(),
		MaxVelocity:      cfg.GetMaxVelocity(),
	}
}

// Validate reports every parameter that is out of range.
func (p Params) Validate() error {
	var err error
	if !(p.Wheelbase > 0) {
		err = multierr.Append(err, fmt.Errorf("wheelbase must be positive, got %g", p.Wheelbase))
	}
	if !(p.MaxSteeringAngle >= 0 && p.MaxSteeringAngle < math.Pi/2) {
		err = multierr.Append(err, fmt.Errorf("max steering angle must be in [0, π/2), got %g", p.MaxSteeringAngle))
	}
	if !(p.MaxSteeringRate >= 0) {
		err = multierr.Append(err, fmt.Errorf("max steering rate must be non-negative, got %g", p.MaxSteeringRate))
	}
	if !(p.MaxAcceleration >= 0) {
		err = multierr.Append(err, fmt.Errorf("max acceleration must be non-negative, got %g", p.MaxAcceleration))
	}
	if !(p.MaxVelocity >= 0) {
		err = multierr.Append(err, fmt.Errorf("max velocity must be non-negative, got %g", p.MaxVelocity))
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return nil
}

func (p Params) steering() RateLimiter {
	return RateLimiter{Rate: p.MaxSteeringRate, Min: -p.MaxSteeringAngle, Max: p.MaxSteeringAngle}
}

func (p Params) speed() RateLimiter {
	limit := p.MaxVelocity
	if limit == 0 {
		limit = math.Inf(1)
	}
	return RateLimiter{Rate: p.MaxAcceleration, Min: -limit, Max: limit}
}

// SteeringForCurvature converts a path curvature to the unclamped steering
// angle that produces it: δ = atan(κ·L).
func (p Params) SteeringForCurvature(curvature float64) float64 {
	return math.Atan(curvature * p.Wheelbase)
}

// Integrate advances s by dt under the commanded curvature and speed.
// Steering and speed first move toward their targets within the rate limits,
// then the pose is integrated with forward Euler using the new values.
// Integrate is a pure function; non-positive dt returns s unchanged.
func Integrate(p Params, s RobotState, dt, curvature, speed float64) RobotState {
	if !(dt > 0) {
		return s
	}
	phi := p.steering().Step(s.SteeringAngle, p.SteeringForCurvature(curvature), dt)
	v := p.speed().Step(s.V, speed, dt)

	sinT, cosT := math.Sincos(s.Theta)
	next := RobotState{
		X:             s.X + v*cosT*dt,
		Y:             s.Y + v*sinT*dt,
		Theta:         s.Theta + (v/p.Wheelbase)*math.Tan(phi)*dt,
		V:             v,
		SteeringAngle: phi,
		Time:          s.Time + dt,
	}
	return withFrontAxle(next, p.Wheelbase)
}

func withFrontAxle(s RobotState, wheelbase float64) RobotState {
	f := r2.Add(s.Position(), geom.FromPolar(wheelbase, s.Theta))
	s.FrontX, s.FrontY = f.X, f.Y
	return s
}

// BicycleModel is a kinematic bicycle with rate-limited steering and speed.
// It holds the current state and replaces it wholesale on every Step.
type BicycleModel struct {
	params Params
	state  RobotState
}

// NewBicycleModel validates p and returns a model starting at initial.
// The front axle fields of initial are recomputed from its pose. An initial
// speed or steering angle outside the limits of p is rejected.
func NewBicycleModel(p Params, initial RobotState) (*BicycleModel, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := p.CheckState(initial); err != nil {
		return nil, err
	}
	return &BicycleModel{params: p, state: withFrontAxle(initial, p.Wheelbase)}, nil
}

// CheckState reports whether s lies within the steering and speed limits.
func (p Params) CheckState(s RobotState) error {
	var err error
	if !(math.Abs(s.SteeringAngle) <= p.MaxSteeringAngle) {
		err = multierr.Append(err, fmt.Errorf("steering angle %g exceeds limit %g", s.SteeringAngle, p.MaxSteeringAngle))
	}
	if math.IsNaN(s.V) || (p.MaxVelocity > 0 && math.Abs(s.V) > p.MaxVelocity) {
		err = multierr.Append(err, fmt.Errorf("speed %g exceeds limit %g", s.V, p.MaxVelocity))
	}
	if err != nil {
		return fmt.Errorf("%w: initial state: %w", ErrInvalidParams, err)
	}
	return nil
}

// Params returns the model parameters.
func (m *BicycleModel) Params() Params { return m.params }

// State returns the current state.
func (m *BicycleModel) State() RobotState { return m.state }

// Reset replaces the current state. A state outside the model limits is
// rejected and the current state is kept.
func (m *BicycleModel) Reset(s RobotState) error {
	if err := m.params.CheckState(s); err != nil {
		return err
	}
	m.state = withFrontAxle(s, m.params.Wheelbase)
	return nil
}

// Step integrates one time step and returns the new state.
func (m *BicycleModel) Step(dt, curvature, speed float64) RobotState {
	m.state = Integrate(m.params, m.state, dt, curvature, speed)
	return m.state
}

// ProjectedPath predicts n points covering distance metres of travel from
// the front axle, holding the current steering angle. Near-zero steering
// yields a straight line along the heading; otherwise the front axle follows
// a circle about the instantaneous centre of rotation.
func (m *BicycleModel) ProjectedPath(distance float64, n int) []r2.Vec {
	if n <= 0 {
		return nil
	}
	s := m.state
	front := s.FrontPosition()
	out := make([]r2.Vec, n)

	frac := func(i int) float64 {
		if n == 1 {
			return 0
		}
		return float64(i) / float64(n-1)
	}

	if math.Abs(s.SteeringAngle) < straightSteeringThreshold {
		dir := geom.FromPolar(1, s.Theta)
		for i := range out {
			out[i] = r2.Add(front, r2.Scale(frac(i)*distance, dir))
		}
		return out
	}

	// Signed rear-axle turning radius; positive turns left.
	rRear := m.params.Wheelbase / math.Tan(s.SteeringAngle)
	sinT, cosT := math.Sincos(s.Theta)
	icr := r2.Vec{X: s.X - rRear*sinT, Y: s.Y + rRear*cosT}

	rel := r2.Sub(front, icr)
	rFront := r2.Norm(rel)
	start := math.Atan2(rel.Y, rel.X)
	sweep := math.Copysign(distance/rFront, s.SteeringAngle)
	for i := range out {
		sa, ca := math.Sincos(start + frac(i)*sweep)
		out[i] = r2.Vec{X: icr.X + rFront*ca, Y: icr.Y + rFront*sa}
	}
	return out
}
