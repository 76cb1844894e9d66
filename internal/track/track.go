package track

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/pathtrack/internal/geom"
)

// ErrTooFewWaypoints is returned when a Track is built from fewer than two points.
var ErrTooFewWaypoints = errors.New("track must contain at least 2 waypoints")

// Track is an immutable polyline of waypoints plus forward-progress state.
//
// The only mutable state is the current segment index, which is advanced by
// FindClosestSegment and never decreases. A Track is not safe for concurrent
// use; callers sharing one between goroutines must serialise access.
type Track struct {
	waypoints []r2.Vec
	// finalSegment is the last segment with non-zero length. Zero-length
	// segments after it collapse onto the final waypoint.
	finalSegment int

	currentIndex int
	reached      bool
}

// New builds a Track from an ordered list of waypoints. The slice is copied.
func New(waypoints []r2.Vec) (*Track, error) {
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewWaypoints, len(waypoints))
	}
	copied := make([]r2.Vec, len(waypoints))
	copy(copied, waypoints)
	final := 0
	for i := len(copied) - 2; i >= 0; i-- {
		if copied[i] != copied[i+1] {
			final = i
			break
		}
	}
	return &Track{waypoints: copied, finalSegment: final}, nil
}

// NewFromXY builds a Track from (x, y) pairs.
func NewFromXY(points [][2]float64) (*Track, error) {
	wps := make([]r2.Vec, len(points))
	for i, p := range points {
		wps[i] = r2.Vec{X: p[0], Y: p[1]}
	}
	return New(wps)
}

// MustNew is like New but panics on error. Intended for fixed tracks in tests.
func MustNew(waypoints []r2.Vec) *Track {
	t, err := New(waypoints)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of waypoints.
func (t *Track) Len() int { return len(t.waypoints) }

// SegmentCount returns the number of segments (Len()-1).
func (t *Track) SegmentCount() int { return len(t.waypoints) - 1 }

// Waypoint returns the i-th waypoint. Negative indices count from the end.
func (t *Track) Waypoint(i int) r2.Vec {
	if i < 0 {
		i += len(t.waypoints)
	}
	return t.waypoints[i]
}

// Waypoints returns a copy of the waypoint list.
func (t *Track) Waypoints() []r2.Vec {
	out := make([]r2.Vec, len(t.waypoints))
	copy(out, t.waypoints)
	return out
}

// Length returns the total polyline length.
func (t *Track) Length() float64 {
	return geom.PolylineLength(t.waypoints)
}

// CurrentIndex returns the index of the segment last confirmed as current.
func (t *Track) CurrentIndex() int { return t.currentIndex }

// TargetReached reports whether progress has reached the final segment and a
// query point has projected at or beyond its end. Once true it stays true.
func (t *Track) TargetReached() bool { return t.reached }

// Project returns the closest point on the given segment to p and its
// distance from the segment start.
func (t *Track) Project(segment int, p r2.Vec) (r2.Vec, float64) {
	proj := t.project(segment, p)
	return proj.Point, proj.Along
}

func (t *Track) project(segment int, p r2.Vec) geom.Projection {
	return geom.ClosestPointOnSegment(t.waypoints[segment], t.waypoints[segment+1], p)
}

// FindClosestSegment returns the segment nearest to p, considering only
// segments at or after the current index. Ties resolve to the lowest index.
// The winning index becomes the new current index. When the winner is the
// final non-degenerate segment and p projects at or past its end, progress
// jumps to the last segment and the track is marked reached.
func (t *Track) FindClosestSegment(p r2.Vec) int {
	best := t.currentIndex
	bestDist := math.Inf(1)
	var bestProj geom.Projection
	for i := t.currentIndex; i < t.SegmentCount(); i++ {
		proj := t.project(i, p)
		if proj.Distance < bestDist {
			best, bestDist, bestProj = i, proj.Distance, proj
		}
	}
	// A NaN query point never beats +Inf; keep the current segment.
	if math.IsInf(bestDist, 1) {
		return t.currentIndex
	}

	t.currentIndex = best
	if best >= t.finalSegment && bestProj.Beyond() {
		t.currentIndex = t.SegmentCount() - 1
		t.reached = true
	}
	return t.currentIndex
}

// LookaheadPoint walks distance metres forward along the track starting
// along metres into segment. It reports true when the walk ran past the
// final waypoint, in which case the returned point is that waypoint.
func (t *Track) LookaheadPoint(segment int, along, distance float64) (r2.Vec, bool) {
	last := t.waypoints[len(t.waypoints)-1]
	if segment < 0 || segment >= t.SegmentCount() {
		return last, true
	}
	remaining := distance
	for i := segment; i < t.SegmentCount(); i++ {
		a, b := t.waypoints[i], t.waypoints[i+1]
		ab := r2.Sub(b, a)
		segLen := r2.Norm(ab)
		left := segLen - along
		if remaining <= left {
			if segLen == 0 {
				return a, false
			}
			return r2.Add(a, r2.Scale((along+remaining)/segLen, ab)), false
		}
		remaining -= left
		along = 0
	}
	return last, true
}
