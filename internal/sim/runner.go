package sim

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/pathtrack/internal/config"
	"github.com/banshee-data/pathtrack/internal/control"
	"github.com/banshee-data/pathtrack/internal/geom"
	"github.com/banshee-data/pathtrack/internal/monitoring"
	"github.com/banshee-data/pathtrack/internal/timeutil"
	"github.com/banshee-data/pathtrack/internal/track"
	"github.com/banshee-data/pathtrack/internal/units"
	"github.com/banshee-data/pathtrack/internal/vehicle"
)

var (
	// ErrTimeout is returned when the step budget runs out before the track
	// is reached. The partial Result is still returned.
	ErrTimeout = errors.New("simulation timed out before reaching the end of the track")
	// ErrInvalidConfig is returned for a non-positive time step.
	ErrInvalidConfig = errors.New("invalid simulation configuration")
)

// fallbackMaxSteps bounds a run whose timeout cannot be derived from the
// track length and target speed (for example a zero target speed).
const fallbackMaxSteps = 100_000

var logf = monitoring.Component("sim")

// Config controls a closed-loop run.
type Config struct {
	Dt            float64 // Integration step (s)
	TimeoutFactor float64 // Timeout = track length / target speed × factor
	MaxSteps      int     // Explicit step budget; 0 derives it from TimeoutFactor
	LogEvery      int     // Progress log interval in steps; 0 disables
}

// DefaultConfig returns a 10 ms step with a 5× timeout.
func DefaultConfig() Config {
	return Config{Dt: 0.01, TimeoutFactor: 5, LogEvery: 20}
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	return Config{
		Dt:            cfg.GetDt(),
		TimeoutFactor: cfg.GetTimeoutFactor(),
		MaxSteps:      cfg.GetMaxSteps(),
		LogEvery:      cfg.GetLogEvery(),
	}
}

// Frame pairs a vehicle state with the command computed from it.
type Frame struct {
	State  vehicle.RobotState
	Output control.ControlOutput
}

// Result is the recorded history of one run. Consumers only read it.
type Result struct {
	RunID         string
	States        []vehicle.RobotState    // Initial state plus one per step
	Outputs       []control.ControlOutput // One per controller evaluation
	Segments      []int                   // Track index after each evaluation
	Completed     bool
	Steps         int
	MaxSegment    int
	ExecutionTime time.Duration
}

// Frames returns States and Outputs paired by evaluation order.
func (r *Result) Frames() []Frame {
	n := min(len(r.States), len(r.Outputs))
	frames := make([]Frame, n)
	for i := range frames {
		frames[i] = Frame{State: r.States[i], Output: r.Outputs[i]}
	}
	return frames
}

// Trajectory returns the rear axle positions.
func (r *Result) Trajectory() []r2.Vec {
	pts := make([]r2.Vec, len(r.States))
	for i, s := range r.States {
		pts[i] = s.Position()
	}
	return pts
}

// PathLength returns the distance travelled by the rear axle.
func (r *Result) PathLength() float64 {
	return geom.PolylineLength(r.Trajectory())
}

// Runner drives a model and controller around a track.
type Runner struct {
	cfg   Config
	clock timeutil.Clock
}

// NewRunner validates cfg and returns a Runner using the real clock.
func NewRunner(cfg Config) (*Runner, error) {
	if !(cfg.Dt > 0) {
		return nil, fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.MaxSteps < 0 || cfg.LogEvery < 0 {
		return nil, fmt.Errorf("%w: max steps and log interval must be non-negative", ErrInvalidConfig)
	}
	return &Runner{cfg: cfg, clock: timeutil.RealClock{}}, nil
}

// SetClock replaces the clock used to time runs.
func (r *Runner) SetClock(c timeutil.Clock) { r.clock = c }

// stepBudget returns the maximum number of steps for a run on trk.
func (r *Runner) stepBudget(trk *track.Track, speed float64) int {
	if r.cfg.MaxSteps > 0 {
		return r.cfg.MaxSteps
	}
	if speed <= 0 || r.cfg.TimeoutFactor <= 0 {
		return fallbackMaxSteps
	}
	timeout := trk.Length() / speed * r.cfg.TimeoutFactor
	steps := math.Ceil(timeout / r.cfg.Dt)
	if steps > fallbackMaxSteps*100 {
		return fallbackMaxSteps * 100
	}
	return max(1, int(steps))
}

// Run binds trk to ctrl and alternates Control and Step until the track
// reports completion or the step budget is exhausted.
func (r *Runner) Run(model *vehicle.BicycleModel, ctrl *control.Controller, trk *track.Track) (*Result, error) {
	ctrl.SetTrack(trk)
	start := r.clock.Now()

	budget := r.stepBudget(trk, ctrl.Config().TargetSpeed)
	res := &Result{
		RunID:   uuid.NewString(),
		States:  []vehicle.RobotState{model.State()},
		Outputs: make([]control.ControlOutput, 0, min(budget, 1<<16)),
	}
	logf("run %s: %d waypoints, %.1f m, target speed %.2f m/s, dt %gs, budget %d steps",
		res.RunID, trk.Len(), trk.Length(), ctrl.Config().TargetSpeed, r.cfg.Dt, budget)

	for step := 0; step < budget; step++ {
		out := ctrl.Control(model.State())
		res.Outputs = append(res.Outputs, out)
		res.Segments = append(res.Segments, trk.CurrentIndex())
		res.MaxSegment = max(res.MaxSegment, trk.CurrentIndex())
		if ctrl.Done() {
			res.Completed = true
			break
		}

		s := model.Step(r.cfg.Dt, out.Curvature, out.Velocity)
		res.States = append(res.States, s)
		res.Steps++

		if r.cfg.LogEvery > 0 && step%r.cfg.LogEvery == 0 {
			logf("step %5d: pos=(%6.2f, %6.2f) heading=%6.1f° v=%.2f target=(%6.2f, %6.2f) segment=%d",
				step, s.X, s.Y, units.Degrees(s.Theta), s.V, out.TargetPoint.X, out.TargetPoint.Y, trk.CurrentIndex())
		}
	}
	res.ExecutionTime = r.clock.Since(start)

	if !res.Completed {
		logf("run %s timed out after %d steps (%.1fs simulated)", res.RunID, res.Steps, model.State().Time)
		return res, fmt.Errorf("%w: %d steps", ErrTimeout, res.Steps)
	}
	logf("run %s reached the end in %d steps (%.2fs simulated, %s wall)",
		res.RunID, res.Steps, model.State().Time, res.ExecutionTime)
	return res, nil
}

// Run is a convenience wrapper around NewRunner(cfg).Run.
func Run(model *vehicle.BicycleModel, ctrl *control.Controller, trk *track.Track, cfg Config) (*Result, error) {
	r, err := NewRunner(cfg)
	if err != nil {
		return nil, err
	}
	return r.Run(model, ctrl, trk)
}
