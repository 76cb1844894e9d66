package control

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"go.uber.org/multierr"

	"github.com/banshee-data/pathtrack/internal/config"
	"github.com/banshee-data/pathtrack/internal/geom"
	"github.com/banshee-data/pathtrack/internal/monitoring"
	"github.com/banshee-data/pathtrack/internal/track"
	"github.com/banshee-data/pathtrack/internal/vehicle"
)

// ErrInvalidConfig is returned by NewController for out-of-range tuning.
var ErrInvalidConfig = errors.New("invalid controller configuration")

var logf = monitoring.Component("control")

// ControlOutput is the result of one controller evaluation.
type ControlOutput struct {
	Curvature      float64 // Commanded path curvature (1/m, positive turns left)
	Velocity       float64 // Commanded speed (m/s)
	TargetPoint    r2.Vec  // Look-ahead point the vehicle is steering toward
	FuturePosition r2.Vec  // Projected position used for the track query
	AngleError     float64 // Signed heading error to the target (rad)
	TrackComplete  bool
}

// Config holds the pure pursuit tuning parameters.
type Config struct {
	LookAheadDistance    float64 // Distance along the path to the target (m)
	VelocityVectorLength float64 // Forward projection of the position (m)
	ProportionalGain     float64 // Scales the curvature command
	TargetSpeed          float64 // Constant commanded speed (m/s)
}

// DefaultConfig returns the small-robot defaults.
func DefaultConfig() Config {
	return Config{
		LookAheadDistance:    0.2,
		VelocityVectorLength: 0.1,
		ProportionalGain:     1.0,
		TargetSpeed:          0.1,
	}
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	return Config{
		LookAheadDistance:    cfg.GetLookAheadDistance(),
		VelocityVectorLength: cfg.GetVelocityVectorLength(),
		ProportionalGain:     cfg.GetProportionalGain(),
		TargetSpeed:          cfg.GetTargetSpeed(),
	}
}

// Validate reports every out-of-range parameter.
func (c Config) Validate() error {
	var err error
	if !(c.LookAheadDistance > 0) {
		err = multierr.Append(err, fmt.Errorf("look-ahead distance must be positive, got %g", c.LookAheadDistance))
	}
	if !(c.VelocityVectorLength >= 0) {
		err = multierr.Append(err, fmt.Errorf("velocity vector length must be non-negative, got %g", c.VelocityVectorLength))
	}
	if math.IsNaN(c.ProportionalGain) || math.IsInf(c.ProportionalGain, 0) {
		err = multierr.Append(err, fmt.Errorf("proportional gain must be finite, got %g", c.ProportionalGain))
	}
	if !(c.TargetSpeed >= 0) {
		err = multierr.Append(err, fmt.Errorf("target speed must be non-negative, got %g", c.TargetSpeed))
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Controller is a pure pursuit path tracker with a velocity-projected query
// point. It is bound to at most one Track at a time.
type Controller struct {
	cfg   Config
	track *track.Track

	completeLogged bool
}

// NewController validates cfg and returns an unbound controller.
func NewController(cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Controller{cfg: cfg}, nil
}

// Config returns the tuning parameters.
func (c *Controller) Config() Config { return c.cfg }

// SetTrack binds the controller to t, replacing any previous track.
// Passing nil unbinds it.
func (c *Controller) SetTrack(t *track.Track) {
	c.track = t
	c.completeLogged = false
}

// Track returns the bound track, or nil.
func (c *Controller) Track() *track.Track { return c.track }

// Done reports whether the controller has no track or its track is reached.
func (c *Controller) Done() bool {
	return c.track == nil || c.track.TargetReached()
}

// Control computes the command for the given vehicle state. It advances the
// bound track's progress. With no track, or once the track is reached, it
// returns a zero command flagged complete.
func (c *Controller) Control(state vehicle.RobotState) ControlOutput {
	pos := state.Position()
	if c.Done() {
		return c.complete(pos, pos)
	}

	future := c.futurePosition(state)
	segment := c.track.FindClosestSegment(future)
	if c.track.TargetReached() {
		return c.complete(pos, future)
	}

	_, along := c.track.Project(segment, future)
	target, offEnd := c.track.LookaheadPoint(segment, along, c.cfg.LookAheadDistance)

	heading := geom.FromPolar(1, state.Theta)
	angleError := geom.SignedAngle(heading, r2.Sub(target, pos))

	return ControlOutput{
		Curvature:      c.curvature(angleError),
		Velocity:       c.cfg.TargetSpeed,
		TargetPoint:    target,
		FuturePosition: future,
		AngleError:     angleError,
		TrackComplete:  offEnd,
	}
}

// futurePosition projects the position along the velocity vector. A
// stationary vehicle uses its current position.
func (c *Controller) futurePosition(state vehicle.RobotState) r2.Vec {
	pos := state.Position()
	if state.V == 0 || c.cfg.VelocityVectorLength == 0 {
		return pos
	}
	length := math.Copysign(c.cfg.VelocityVectorLength, state.V)
	return r2.Add(pos, geom.FromPolar(length, state.Theta))
}

// curvature maps the heading error to a curvature command using the pure
// pursuit arc through the target: κ = 2·sin(α)/Ld, scaled by the gain.
// Beyond ±π/2 the target is behind the vehicle and the command holds at
// its peak, so a vehicle facing away still turns at full rate.
func (c *Controller) curvature(angleError float64) float64 {
	peak := c.cfg.ProportionalGain * 2 / c.cfg.LookAheadDistance
	if math.Abs(angleError) >= math.Pi/2 {
		return math.Copysign(peak, angleError)
	}
	return peak * math.Sin(angleError)
}

func (c *Controller) complete(pos, future r2.Vec) ControlOutput {
	target := pos
	if c.track != nil {
		target = c.track.Waypoint(-1)
		if !c.completeLogged {
			logf("track complete at (%.2f, %.2f), segment %d", pos.X, pos.Y, c.track.CurrentIndex())
			c.completeLogged = true
		}
	}
	return ControlOutput{
		TargetPoint:    target,
		FuturePosition: future,
		TrackComplete:  true,
	}
}
