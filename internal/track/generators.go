package track

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Track kinds accepted by Generate.
const (
	KindSquare    = "square"
	KindRectangle = "rectangle"
	KindCircle    = "circle"
	KindFigure8   = "figure8"
)

var (
	// ErrUnknownTrackKind is returned by Generate for an unsupported kind.
	ErrUnknownTrackKind = errors.New("unsupported track kind")
	// ErrInvalidGeneratorParams is returned for non-positive sizes or too few points.
	ErrInvalidGeneratorParams = errors.New("invalid track generator parameters")
)

// Minimum waypoint counts for the sampled shapes.
const (
	MinCircleResolution  = 3
	MinFigure8Resolution = 6
)

// GenerateOptions carries the parameters for Generate. Zero values pick the
// per-kind defaults.
type GenerateOptions struct {
	Size       float64 // square side, figure-8 extent
	Width      float64 // rectangle
	Height     float64 // rectangle
	Radius     float64 // circle
	Center     r2.Vec  // circle
	Resolution int     // circle, figure-8
}

// Generate builds a track of the named kind.
func Generate(kind string, opts GenerateOptions) (*Track, error) {
	switch kind {
	case KindSquare:
		return Square(orDefault(opts.Size, 1))
	case KindRectangle:
		return Rectangle(orDefault(opts.Width, 2), orDefault(opts.Height, 1))
	case KindCircle:
		res := opts.Resolution
		if res == 0 {
			res = 16
		}
		return Circle(orDefault(opts.Radius, 1), opts.Center, res)
	case KindFigure8:
		res := opts.Resolution
		if res == 0 {
			res = 32
		}
		return Figure8(orDefault(opts.Size, 1), res)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTrackKind, kind)
	}
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// Square returns a closed square starting and ending at the origin,
// counter-clockwise: (0,0) (s,0) (s,s) (0,s) (0,0).
func Square(size float64) (*Track, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %g", ErrInvalidGeneratorParams, size)
	}
	return Rectangle(size, size)
}

// Rectangle returns a closed width x height rectangle anchored at the origin.
func Rectangle(width, height float64) (*Track, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width and height must be positive, got %g x %g",
			ErrInvalidGeneratorParams, width, height)
	}
	return New([]r2.Vec{
		{X: 0, Y: 0},
		{X: width, Y: 0},
		{X: width, Y: height},
		{X: 0, Y: height},
		{X: 0, Y: 0},
	})
}

// Circle samples resolution points counter-clockwise around center,
// starting at angle zero. The loop is left open.
func Circle(radius float64, center r2.Vec, resolution int) (*Track, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive, got %g", ErrInvalidGeneratorParams, radius)
	}
	if resolution < MinCircleResolution {
		return nil, fmt.Errorf("%w: circle resolution must be at least %d, got %d",
			ErrInvalidGeneratorParams, MinCircleResolution, resolution)
	}
	wps := make([]r2.Vec, resolution)
	for i := range wps {
		s, c := math.Sincos(2 * math.Pi * float64(i) / float64(resolution))
		wps[i] = r2.Vec{X: center.X + radius*c, Y: center.Y + radius*s}
	}
	return New(wps)
}

// Figure8 samples a lemniscate of Bernoulli with the given extent.
func Figure8(size float64, resolution int) (*Track, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %g", ErrInvalidGeneratorParams, size)
	}
	if resolution < MinFigure8Resolution {
		return nil, fmt.Errorf("%w: figure-8 resolution must be at least %d, got %d",
			ErrInvalidGeneratorParams, MinFigure8Resolution, resolution)
	}
	wps := make([]r2.Vec, resolution)
	for i := range wps {
		s, c := math.Sincos(2 * math.Pi * float64(i) / float64(resolution))
		d := 1 + c*c
		wps[i] = r2.Vec{X: size * s / d, Y: size * s * c / d}
	}
	return New(wps)
}
