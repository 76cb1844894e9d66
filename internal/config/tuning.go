package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/banshee-data/pathtrack/internal/fsutil"
	"github.com/banshee-data/pathtrack/internal/units"
)

// DefaultConfigPath is the path to the tuning defaults file. It and the Get*
// fallbacks describe a passenger-car sized vehicle. control.DefaultConfig and
// vehicle.DefaultParams keep the separate small-robot set used when no file
// is loaded.
const DefaultConfigPath = "config/tuning.defaults.json"

// ErrInvalidConfig wraps every validation failure reported by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// TuningConfig represents the root configuration for tuning parameters.
// Every field is optional; the Get* accessors supply defaults for fields
// omitted from the JSON.
type TuningConfig struct {
	// Controller params
	LookAheadDistance    *float64 `json:"look_ahead_distance,omitempty"`
	VelocityVectorLength *float64 `json:"velocity_vector_length,omitempty"`
	ProportionalGain     *float64 `json:"proportional_gain,omitempty"`
	TargetSpeed          *float64 `json:"target_speed,omitempty"`

	// Vehicle params
	Wheelbase           *float64 `json:"wheelbase,omitempty"`
	MaxSteeringAngleDeg *float64 `json:"max_steering_angle_deg,omitempty"`
	MaxSteeringRateDeg  *float64 `json:"max_steering_rate_deg,omitempty"` // degrees per second
	MaxAcceleration     *float64 `json:"max_acceleration,omitempty"`
	MaxVelocity         *float64 `json:"max_velocity,omitempty"` // 0 disables the limit

	// Simulation params
	Dt            *float64 `json:"dt,omitempty"`
	TimeoutFactor *float64 `json:"timeout_factor,omitempty"`
	MaxSteps      *int     `json:"max_steps,omitempty"` // 0 derives the budget from the timeout factor
	LogEvery      *int     `json:"log_every,omitempty"` // 0 disables progress logging
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns a TuningConfig with every field set to its
// built-in default. It matches config/tuning.defaults.json.
func DefaultTuningConfig() *TuningConfig {
	e := EmptyTuningConfig()
	return &TuningConfig{
		LookAheadDistance:    ptrFloat64(e.GetLookAheadDistance()),
		VelocityVectorLength: ptrFloat64(e.GetVelocityVectorLength()),
		ProportionalGain:     ptrFloat64(e.GetProportionalGain()),
		TargetSpeed:          ptrFloat64(e.GetTargetSpeed()),
		Wheelbase:            ptrFloat64(e.GetWheelbase()),
		MaxSteeringAngleDeg:  ptrFloat64(units.Degrees(e.GetMaxSteeringAngle())),
		MaxSteeringRateDeg:   ptrFloat64(units.Degrees(e.GetMaxSteeringRate())),
		MaxAcceleration:      ptrFloat64(e.GetMaxAcceleration()),
		MaxVelocity:          ptrFloat64(e.GetMaxVelocity()),
		Dt:                   ptrFloat64(e.GetDt()),
		TimeoutFactor:        ptrFloat64(e.GetTimeoutFactor()),
		MaxSteps:             ptrInt(e.GetMaxSteps()),
		LogEvery:             ptrInt(e.GetLogEvery()),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	return LoadTuningConfigFS(fsutil.OSFileSystem{}, path)
}

// LoadTuningConfigFS is LoadTuningConfig reading through fsys.
func LoadTuningConfigFS(fsys fsutil.FileSystem, path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindDefaultConfig returns the first candidate location of DefaultConfigPath
// that exists in fsys, searching the current directory and its parents.
func FindDefaultConfig(fsys fsutil.FileSystem) (string, bool) {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/<pkg>/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if fsys.Exists(path) {
			return path, true
		}
	}
	return "", false
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	fsys := fsutil.OSFileSystem{}
	path, ok := FindDefaultConfig(fsys)
	if !ok {
		panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
	}
	cfg, err := LoadTuningConfigFS(fsys, path)
	if err != nil {
		panic(fmt.Sprintf("cannot load %s: %v", path, err))
	}
	return cfg
}

// Validate checks that the configuration values are valid. Every violation
// is reported, not just the first.
func (c *TuningConfig) Validate() error {
	var err error
	positive := func(name string, v *float64) {
		if v != nil && !(*v > 0) {
			err = multierr.Append(err, fmt.Errorf("%s must be positive, got %g", name, *v))
		}
	}
	nonNegative := func(name string, v *float64) {
		if v != nil && !(*v >= 0) {
			err = multierr.Append(err, fmt.Errorf("%s must be non-negative, got %g", name, *v))
		}
	}

	positive("look_ahead_distance", c.LookAheadDistance)
	nonNegative("velocity_vector_length", c.VelocityVectorLength)
	if c.ProportionalGain != nil && (math.IsNaN(*c.ProportionalGain) || math.IsInf(*c.ProportionalGain, 0)) {
		err = multierr.Append(err, fmt.Errorf("proportional_gain must be finite, got %g", *c.ProportionalGain))
	}
	nonNegative("target_speed", c.TargetSpeed)

	positive("wheelbase", c.Wheelbase)
	if c.MaxSteeringAngleDeg != nil && !(*c.MaxSteeringAngleDeg >= 0 && *c.MaxSteeringAngleDeg < 90) {
		err = multierr.Append(err, fmt.Errorf("max_steering_angle_deg must be in [0, 90), got %g", *c.MaxSteeringAngleDeg))
	}
	nonNegative("max_steering_rate_deg", c.MaxSteeringRateDeg)
	nonNegative("max_acceleration", c.MaxAcceleration)
	nonNegative("max_velocity", c.MaxVelocity)

	positive("dt", c.Dt)
	positive("timeout_factor", c.TimeoutFactor)
	if c.MaxSteps != nil && *c.MaxSteps < 0 {
		err = multierr.Append(err, fmt.Errorf("max_steps must be non-negative, got %d", *c.MaxSteps))
	}
	if c.LogEvery != nil && *c.LogEvery < 0 {
		err = multierr.Append(err, fmt.Errorf("log_every must be non-negative, got %d", *c.LogEvery))
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// GetLookAheadDistance returns the look_ahead_distance value or the default.
func (c *TuningConfig) GetLookAheadDistance() float64 {
	if c.LookAheadDistance == nil {
		return 2.0
	}
	return *c.LookAheadDistance
}

// GetVelocityVectorLength returns the velocity_vector_length value or the default.
func (c *TuningConfig) GetVelocityVectorLength() float64 {
	if c.VelocityVectorLength == nil {
		return 1.0
	}
	return *c.VelocityVectorLength
}

// GetProportionalGain returns the proportional_gain value or the default.
func (c *TuningConfig) GetProportionalGain() float64 {
	if c.ProportionalGain == nil {
		return 1.0
	}
	return *c.ProportionalGain
}

// GetTargetSpeed returns the target_speed value or the default.
func (c *TuningConfig) GetTargetSpeed() float64 {
	if c.TargetSpeed == nil {
		return 5.0
	}
	return *c.TargetSpeed
}

// GetWheelbase returns the wheelbase value or the default.
func (c *TuningConfig) GetWheelbase() float64 {
	if c.Wheelbase == nil {
		return 2.5
	}
	return *c.Wheelbase
}

// GetMaxSteeringAngle returns the steering angle limit in radians.
func (c *TuningConfig) GetMaxSteeringAngle() float64 {
	if c.MaxSteeringAngleDeg == nil {
		return units.Radians(45)
	}
	return units.Radians(*c.MaxSteeringAngleDeg)
}

// GetMaxSteeringRate returns the steering rate limit in radians per second.
func (c *TuningConfig) GetMaxSteeringRate() float64 {
	if c.MaxSteeringRateDeg == nil {
		return units.Radians(60)
	}
	return units.Radians(*c.MaxSteeringRateDeg)
}

// GetMaxAcceleration returns the max_acceleration value or the default.
func (c *TuningConfig) GetMaxAcceleration() float64 {
	if c.MaxAcceleration == nil {
		return 3.0
	}
	return *c.MaxAcceleration
}

// GetMaxVelocity returns the max_velocity value or the default.
func (c *TuningConfig) GetMaxVelocity() float64 {
	if c.MaxVelocity == nil {
		return 15.0
	}
	return *c.MaxVelocity
}

// GetDt returns the simulation time step in seconds.
func (c *TuningConfig) GetDt() float64 {
	if c.Dt == nil {
		return 0.01
	}
	return *c.Dt
}

// GetTimeoutFactor returns the timeout_factor value or the default.
func (c *TuningConfig) GetTimeoutFactor() float64 {
	if c.TimeoutFactor == nil {
		return 5.0
	}
	return *c.TimeoutFactor
}

// GetMaxSteps returns the max_steps value or the default.
func (c *TuningConfig) GetMaxSteps() int {
	if c.MaxSteps == nil {
		return 0
	}
	return *c.MaxSteps
}

// GetLogEvery returns the log_every value or the default.
func (c *TuningConfig) GetLogEvery() int {
	if c.LogEvery == nil {
		return 20
	}
	return *c.LogEvery
}
