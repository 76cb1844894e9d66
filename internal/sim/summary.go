package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/banshee-data/pathtrack/internal/vehicle"
)

// Summary condenses a Result for reporting.
type Summary struct {
	RunID          string
	Completed      bool
	Steps          int
	StateCount     int
	FinalState     vehicle.RobotState
	SimulatedTime  float64 // seconds
	PathLength     float64 // metres
	MaxSegment     int
	ExecutionTime  time.Duration
	MaxAbsSteering float64 // radians
}

// Summary computes summary statistics for the run.
func (r *Result) Summary() Summary {
	s := Summary{
		RunID:         r.RunID,
		Completed:     r.Completed,
		Steps:         r.Steps,
		StateCount:    len(r.States),
		PathLength:    r.PathLength(),
		MaxSegment:    r.MaxSegment,
		ExecutionTime: r.ExecutionTime,
	}
	if len(r.States) > 0 {
		s.FinalState = r.States[len(r.States)-1]
		s.SimulatedTime = s.FinalState.Time - r.States[0].Time
	}
	for _, st := range r.States {
		s.MaxAbsSteering = max(s.MaxAbsSteering, math.Abs(st.SteeringAngle))
	}
	return s
}

func (s Summary) String() string {
	status := "completed"
	if !s.Completed {
		status = "timed out"
	}
	return fmt.Sprintf("run %s %s: %d states, final (%.2f, %.2f), %.2f s simulated, %.2f m travelled, %s wall",
		s.RunID, status, s.StateCount, s.FinalState.X, s.FinalState.Y, s.SimulatedTime, s.PathLength, s.ExecutionTime)
}

