// Package drawing loads, bakes and exports drawing assets.
//
// A drawing is a named set of authored strokes plus the bake settings used
// to turn them into polylines. Baking happens on demand; the baked strokes
// are owned by the drawing and replaced wholesale on every bake.
package drawing

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/strokereveal/internal/logger"
	"github.com/Faultbox/strokereveal/pkg/bake"
	"github.com/Faultbox/strokereveal/pkg/curve"
	"github.com/Faultbox/strokereveal/pkg/math"
)

var (
	// ErrUnknownPointType is returned for a point type string that is not
	// recognized.
	ErrUnknownPointType = errors.New("unknown point type")

	// ErrStrokeIndex is returned for a stroke index out of range.
	ErrStrokeIndex = errors.New("stroke index out of range")
)

// DefaultWidth is the line width of drawings that do not set one.
const DefaultWidth = 0.02

// Drawing is an authored drawing asset.
type Drawing struct {
	Name    string
	Width   float32
	Config  bake.Config
	Strokes []curve.Stroke

	baked []*bake.BakedStroke
	stats []bake.Stats
}

// New creates an empty drawing using cfg for baking.
func New(name string, cfg bake.Config) *Drawing {
	return &Drawing{
		Name:   name,
		Width:  DefaultWidth,
		Config: cfg,
	}
}

// AddStroke appends a stroke and returns its index. Previously baked data
// is kept until the next Bake.
func (d *Drawing) AddStroke(s curve.Stroke) int {
	d.Strokes = append(d.Strokes, s)
	return len(d.Strokes) - 1
}

// Stroke returns the authored stroke at index i.
func (d *Drawing) Stroke(i int) (*curve.Stroke, error) {
	if i < 0 || i >= len(d.Strokes) {
		return nil, fmt.Errorf("%w: %d of %d", ErrStrokeIndex, i, len(d.Strokes))
	}
	return &d.Strokes[i], nil
}

// Bake runs the bake pipeline over every stroke and replaces the baked
// data. Per-stroke statistics are logged.
func (d *Drawing) Bake() []*bake.BakedStroke {
	d.baked, d.stats = bake.BakeAll(d.Strokes, d.Config)

	total := 0
	for i, st := range d.stats {
		total += st.Points
		fields := []zap.Field{
			zap.String("drawing", d.Name),
			zap.Int("stroke", i),
			zap.Int("sampled", st.Sampled),
			zap.Int("simplified", st.Simplified),
			zap.Int("points", st.Points),
			zap.Float32("length", d.baked[i].TotalLength),
		}
		if st.SamplingCut || st.StrokeCapped || st.BudgetCapped {
			logger.Warn("stroke truncated during bake", append(fields,
				zap.Bool("sampling_cut", st.SamplingCut),
				zap.Bool("stroke_capped", st.StrokeCapped),
				zap.Bool("budget_capped", st.BudgetCapped),
				zap.Int("budget_on_entry", st.BudgetOnEntry),
			)...)
			continue
		}
		logger.Debug("stroke baked", fields...)
	}

	logger.Info("drawing baked",
		zap.String("drawing", d.Name),
		zap.Int("strokes", len(d.Strokes)),
		zap.Int("points", total),
	)
	return d.baked
}

// Baked returns the baked strokes from the last Bake, or nil before the
// first one.
func (d *Drawing) Baked() []*bake.BakedStroke {
	return d.baked
}

// BakedStroke returns the baked stroke at index i.
func (d *Drawing) BakedStroke(i int) (*bake.BakedStroke, error) {
	if i < 0 || i >= len(d.baked) {
		return nil, fmt.Errorf("%w: %d of %d baked", ErrStrokeIndex, i, len(d.baked))
	}
	return d.baked[i], nil
}

// Stats returns the statistics of the last Bake.
func (d *Drawing) Stats() []bake.Stats {
	return d.stats
}

// Artifact is what a renderer consumes for one stroke. Points must not be
// modified.
type Artifact struct {
	Points []math.Vec3
	Loop   bool
	Width  float32
}

// Artifacts returns one artifact per baked stroke.
func (d *Drawing) Artifacts() []Artifact {
	out := make([]Artifact, len(d.baked))
	for i, b := range d.baked {
		out[i] = Artifact{Points: b.Points, Loop: b.Loop, Width: d.Width}
	}
	return out
}

// Bounds returns the bounding box of all authored anchors and handles.
func (d *Drawing) Bounds() (min, max math.Vec3, ok bool) {
	for i := range d.Strokes {
		smin, smax, sok := d.Strokes[i].Bounds()
		if !sok {
			continue
		}
		if !ok {
			min, max, ok = smin, smax, true
			continue
		}
		min = min.Min(smin)
		max = max.Max(smax)
	}
	return min, max, ok
}
