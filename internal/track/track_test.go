package track

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func squareTrack(t *testing.T) *Track {
	t.Helper()
	trk, err := NewFromXY([][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}})
	require.NoError(t, err)
	return trk
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		points  []r2.Vec
		wantErr bool
	}{
		{"nil", nil, true},
		{"single waypoint", []r2.Vec{{X: 1, Y: 1}}, true},
		{"two waypoints", []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}}, false},
		{"three waypoints", []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trk, err := New(tt.points)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrTooFewWaypoints))
				assert.Nil(t, trk)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.points), trk.Len())
			assert.Equal(t, len(tt.points)-1, trk.SegmentCount())
			assert.Equal(t, 0, trk.CurrentIndex())
			assert.False(t, trk.TargetReached())
		})
	}
}

func TestNew_CopiesWaypoints(t *testing.T) {
	t.Parallel()

	pts := []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}
	trk := MustNew(pts)
	pts[1] = r2.Vec{X: 99, Y: 99}
	assert.Equal(t, r2.Vec{X: 1, Y: 1}, trk.Waypoint(1))

	out := trk.Waypoints()
	out[0] = r2.Vec{X: -5}
	assert.Equal(t, r2.Vec{}, trk.Waypoint(0))
	assert.Equal(t, r2.Vec{X: 2, Y: 0}, trk.Waypoint(-1))
}

func TestMustNew_Panics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { MustNew([]r2.Vec{{X: 1}}) })
}

func TestFindClosestSegment_Progression(t *testing.T) {
	t.Parallel()

	trk := squareTrack(t)

	assert.Equal(t, 0, trk.FindClosestSegment(r2.Vec{X: 2, Y: 0.5}))
	assert.Equal(t, 0, trk.FindClosestSegment(r2.Vec{X: 8, Y: -0.5}))
	assert.Equal(t, 1, trk.FindClosestSegment(r2.Vec{X: 10.5, Y: 4}))
	assert.Equal(t, 2, trk.FindClosestSegment(r2.Vec{X: 6, Y: 9.5}))
	assert.Equal(t, 2, trk.CurrentIndex())
	assert.False(t, trk.TargetReached())
}

func TestFindClosestSegment_NoRegression(t *testing.T) {
	t.Parallel()

	trk := squareTrack(t)
	require.Equal(t, 1, trk.FindClosestSegment(r2.Vec{X: 10, Y: 5}))

	// Back near the start: segment 0 is far closer but is no longer eligible.
	got := trk.FindClosestSegment(r2.Vec{X: 1, Y: 0})
	assert.Equal(t, 1, got)
	assert.Equal(t, 1, trk.CurrentIndex())
}

func TestFindClosestSegment_TieBreaksToLowestIndex(t *testing.T) {
	t.Parallel()

	trk := squareTrack(t)
	// Equidistant from the end of segment 0 and the start of segment 1.
	assert.Equal(t, 0, trk.FindClosestSegment(r2.Vec{X: 11, Y: -1}))
	assert.Equal(t, 0, trk.FindClosestSegment(r2.Vec{X: 10, Y: 0}))
}

func TestFindClosestSegment_MonotonicForRandomPoints(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 50; trial++ {
		trk := squareTrack(t)
		prev := trk.CurrentIndex()
		for i := 0; i < 200; i++ {
			p := r2.Vec{X: rng.Float64()*30 - 10, Y: rng.Float64()*30 - 10}
			idx := trk.FindClosestSegment(p)
			require.Equal(t, idx, trk.CurrentIndex())
			require.GreaterOrEqual(t, idx, prev, "trial %d step %d regressed", trial, i)
			prev = idx
		}
	}
}

func TestTargetReached(t *testing.T) {
	t.Parallel()

	t.Run("two waypoints point past end", func(t *testing.T) {
		trk, err := NewFromXY([][2]float64{{0, 0}, {1, 0}})
		require.NoError(t, err)

		assert.Equal(t, 0, trk.FindClosestSegment(r2.Vec{X: 2, Y: 0}))
		assert.True(t, trk.TargetReached())
	})

	t.Run("false strictly before the end", func(t *testing.T) {
		trk, err := NewFromXY([][2]float64{{0, 0}, {1, 0}})
		require.NoError(t, err)

		for _, x := range []float64{-1, 0, 0.25, 0.5, 0.999} {
			trk.FindClosestSegment(r2.Vec{X: x, Y: 0.3})
			assert.False(t, trk.TargetReached(), "x=%v", x)
		}
		trk.FindClosestSegment(r2.Vec{X: 1, Y: 0.3})
		assert.True(t, trk.TargetReached())
	})

	t.Run("requires final segment", func(t *testing.T) {
		trk := squareTrack(t)
		// Past the end of segment 0 but closest to segment 0 and not the last.
		trk.FindClosestSegment(r2.Vec{X: 10.1, Y: -3})
		assert.Equal(t, 0, trk.CurrentIndex())
		assert.False(t, trk.TargetReached())

		trk.FindClosestSegment(r2.Vec{X: -1, Y: 10})
		assert.Equal(t, 2, trk.CurrentIndex())
		assert.True(t, trk.TargetReached())
	})

	t.Run("stays reached", func(t *testing.T) {
		trk, err := NewFromXY([][2]float64{{0, 0}, {1, 0}})
		require.NoError(t, err)
		trk.FindClosestSegment(r2.Vec{X: 3})
		trk.FindClosestSegment(r2.Vec{X: 0.2})
		assert.True(t, trk.TargetReached())
	})
}

func TestDegenerateSegments(t *testing.T) {
	t.Parallel()

	trk := MustNew([]r2.Vec{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 0}})

	assert.NotPanics(t, func() {
		idx := trk.FindClosestSegment(r2.Vec{X: 2, Y: 1})
		assert.Equal(t, 1, idx)
	})
	pt, along := trk.Project(0, r2.Vec{X: 3, Y: 4})
	assert.Equal(t, r2.Vec{}, pt)
	assert.Equal(t, 0.0, along)

	// Final segment is a single point: reaching it completes the track.
	assert.Equal(t, 2, trk.FindClosestSegment(r2.Vec{X: 6, Y: 0}))
	assert.True(t, trk.TargetReached())
}

func TestFindClosestSegment_NaNKeepsProgress(t *testing.T) {
	t.Parallel()

	trk := squareTrack(t)
	trk.FindClosestSegment(r2.Vec{X: 10, Y: 5})
	assert.Equal(t, 1, trk.FindClosestSegment(r2.Vec{X: math.NaN(), Y: 0}))
	assert.False(t, trk.TargetReached())
}

func TestLookaheadPoint(t *testing.T) {
	t.Parallel()

	trk := squareTrack(t)
	tests := []struct {
		name     string
		segment  int
		along    float64
		distance float64
		want     r2.Vec
		complete bool
	}{
		{"within segment", 0, 2, 3, r2.Vec{X: 5, Y: 0}, false},
		{"carries onto next segment", 0, 9, 2, r2.Vec{X: 10, Y: 1}, false},
		{"spans two segments", 0, 9, 12, r2.Vec{X: 9, Y: 10}, false},
		{"exactly at end", 2, 8, 2, r2.Vec{X: 0, Y: 10}, false},
		{"runs off the end", 2, 9, 2, r2.Vec{X: 0, Y: 10}, true},
		{"segment past last", 3, 0, 1, r2.Vec{X: 0, Y: 10}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, complete := trk.LookaheadPoint(tt.segment, tt.along, tt.distance)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
			assert.Equal(t, tt.complete, complete)
		})
	}
}

func TestLength(t *testing.T) {
	t.Parallel()
	assert.InDelta(t, 30.0, squareTrack(t).Length(), 1e-12)
}
