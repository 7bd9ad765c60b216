package bake

import (
	"github.com/Faultbox/strokereveal/pkg/curve"
	"github.com/Faultbox/strokereveal/pkg/math"
)

// Stats describes what happened to one stroke during a bake.
type Stats struct {
	Sampled       int  // points produced by the samplers
	Simplified    int  // points left after simplification
	Points        int  // points in the final baked stroke
	SamplingCut   bool // sampling stopped at the per-stroke cap
	StrokeCapped  bool // truncated to MaxPointsPerStroke
	BudgetCapped  bool // truncated by the drawing-wide budget
	BudgetOnEntry int  // drawing-wide points remaining before this stroke
}

// BakeStroke bakes one stroke. strokeIndex keys the displacement noise and
// budget is the number of points the drawing may still spend. Fewer than two
// control points produce an empty stroke.
func BakeStroke(s *curve.Stroke, strokeIndex int, cfg Config, budget int) (*BakedStroke, Stats) {
	cfg = cfg.Sanitized()
	stats := Stats{BudgetOnEntry: budget}

	if s == nil || len(s.Points) < 2 {
		return NewBakedStroke(nil, s != nil && s.Closed), stats
	}

	points := sampleStroke(s, cfg)
	stats.Sampled = len(points)
	stats.SamplingCut = len(points) > cfg.MaxPointsPerStroke

	Displace(points, strokeIndex, cfg)

	if cfg.SimplifyTolerance > 0 && len(points) > 3 {
		points = Simplify(points, cfg.SimplifyTolerance)
	}
	stats.Simplified = len(points)

	if len(points) > cfg.MaxPointsPerStroke {
		points = points[:cfg.MaxPointsPerStroke]
		stats.StrokeCapped = true
	}
	if budget < 0 {
		budget = 0
	}
	if len(points) > budget {
		points = points[:budget]
		stats.BudgetCapped = true
	}
	stats.Points = len(points)

	return NewBakedStroke(points, s.Closed), stats
}

// sampleStroke flattens every segment in order. Sampling stops as soon as
// the running count exceeds the per-stroke cap, even mid-segment, so at most
// MaxPointsPerStroke+1 points are ever produced.
func sampleStroke(s *curve.Stroke, cfg Config) []math.Vec3 {
	limit := cfg.MaxPointsPerStroke + 1
	var points []math.Vec3
	count := s.SegmentCount()
	for i := 0; i < count && len(points) < limit; i++ {
		seg := s.Segment(i)
		first := i == 0
		if seg.Curved {
			points = sampleCubic(points, seg.C0, seg.C1, seg.C2, seg.C3, cfg.MaxBezierError, cfg.MaxSegmentLength, first, limit)
		} else {
			points = sampleLine(points, seg.C0, seg.C3, cfg.MaxSegmentLength, first, limit)
		}
	}
	return points
}

// BakeAll bakes strokes in declaration order against one drawing-wide point
// budget. Later strokes are truncated or emptied once it runs out.
func BakeAll(strokes []curve.Stroke, cfg Config) ([]*BakedStroke, []Stats) {
	cfg = cfg.Sanitized()
	baked := make([]*BakedStroke, len(strokes))
	stats := make([]Stats, len(strokes))

	spent := 0
	for i := range strokes {
		baked[i], stats[i] = BakeStroke(&strokes[i], i, cfg, cfg.MaxTotalPoints-spent)
		spent += baked[i].Len()
	}
	return baked, stats
}
