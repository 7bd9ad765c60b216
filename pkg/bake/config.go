// Package bake turns authored strokes into renderable, arc-length indexed
// polylines: adaptive Bezier flattening, fixed-spacing line sampling,
// deterministic depth displacement and Douglas-Peucker simplification.
//
// Baking is a one-shot synchronous operation. The same input and Config
// always produce bit-identical output.
package bake

import (
	"errors"
	"fmt"
)

const (
	// MinPointCap is the lower bound for both point caps.
	MinPointCap = 16

	minSegmentLength = 1e-4
	minBezierError   = 1e-5
)

// Config controls how every stroke of one drawing is baked.
type Config struct {
	MaxSegmentLength   float32 `yaml:"max_segment_length"`
	MaxBezierError     float32 `yaml:"max_bezier_error"`
	SimplifyTolerance  float32 `yaml:"simplify_tolerance"`
	MaxPointsPerStroke int     `yaml:"max_points_per_stroke"`
	MaxTotalPoints     int     `yaml:"max_total_points"`
	Seed               int     `yaml:"seed"`
	ZAmplitude         float32 `yaml:"z_amplitude"`
	ZFrequency         float32 `yaml:"z_frequency"`
}

// DefaultConfig returns the settings used when a drawing specifies none.
func DefaultConfig() Config {
	return Config{
		MaxSegmentLength:   0.1,
		MaxBezierError:     0.01,
		SimplifyTolerance:  0.002,
		MaxPointsPerStroke: 2048,
		MaxTotalPoints:     16384,
		Seed:               0,
		ZAmplitude:         0.02,
		ZFrequency:         1.5,
	}
}

// Validate reports every setting outside its allowed range.
func (c Config) Validate() error {
	var errs []error
	if !(c.MaxSegmentLength > 0) {
		errs = append(errs, fmt.Errorf("max_segment_length must be > 0, got %v", c.MaxSegmentLength))
	}
	if !(c.MaxBezierError > 0) {
		errs = append(errs, fmt.Errorf("max_bezier_error must be > 0, got %v", c.MaxBezierError))
	}
	if c.SimplifyTolerance < 0 {
		errs = append(errs, fmt.Errorf("simplify_tolerance must be >= 0, got %v", c.SimplifyTolerance))
	}
	if c.MaxPointsPerStroke < MinPointCap {
		errs = append(errs, fmt.Errorf("max_points_per_stroke must be >= %d, got %d", MinPointCap, c.MaxPointsPerStroke))
	}
	if c.MaxTotalPoints < MinPointCap {
		errs = append(errs, fmt.Errorf("max_total_points must be >= %d, got %d", MinPointCap, c.MaxTotalPoints))
	}
	if c.ZAmplitude < 0 {
		errs = append(errs, fmt.Errorf("z_amplitude must be >= 0, got %v", c.ZAmplitude))
	}
	if c.ZFrequency < 0 {
		errs = append(errs, fmt.Errorf("z_frequency must be >= 0, got %v", c.ZFrequency))
	}
	return errors.Join(errs...)
}

// Sanitized returns a copy with every field forced into its allowed range.
// The pipeline always bakes with a sanitized config so bad authoring data
// degrades instead of failing.
func (c Config) Sanitized() Config {
	if !(c.MaxSegmentLength >= minSegmentLength) {
		c.MaxSegmentLength = minSegmentLength
	}
	if !(c.MaxBezierError >= minBezierError) {
		c.MaxBezierError = minBezierError
	}
	if !(c.SimplifyTolerance >= 0) {
		c.SimplifyTolerance = 0
	}
	if c.MaxPointsPerStroke < MinPointCap {
		c.MaxPointsPerStroke = MinPointCap
	}
	if c.MaxTotalPoints < MinPointCap {
		c.MaxTotalPoints = MinPointCap
	}
	if !(c.ZAmplitude >= 0) {
		c.ZAmplitude = 0
	}
	if !(c.ZFrequency >= 0) {
		c.ZFrequency = 0
	}
	return c
}
