// Package curve holds the authoring representation of drawn paths: control
// points with Bezier handles grouped into open or closed strokes.
package curve

import (
	"fmt"
	"strings"

	"github.com/Faultbox/strokereveal/pkg/math"
)

// PointType selects how the segments adjoining a control point are sampled.
type PointType uint8

const (
	// Straight points contribute their anchor as their own handle.
	Straight PointType = iota
	// Curved points contribute handleIn/handleOut to adjoining segments.
	Curved
)

// String returns the lowercase name used in drawing files.
func (t PointType) String() string {
	switch t {
	case Straight:
		return "straight"
	case Curved:
		return "curved"
	default:
		return fmt.Sprintf("PointType(%d)", uint8(t))
	}
}

// ParsePointType converts a drawing-file name into a PointType. The empty
// string is treated as Straight.
func ParsePointType(s string) (PointType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "straight", "linear":
		return Straight, true
	case "curved", "curve", "bezier":
		return Curved, true
	default:
		return Straight, false
	}
}

// Point is one control point of a stroke. Handles are absolute positions and
// are only meaningful when Type is Curved.
type Point struct {
	Anchor    math.Vec3
	HandleIn  math.Vec3
	HandleOut math.Vec3
	Type      PointType
}

// Stroke is an ordered sequence of control points.
type Stroke struct {
	Points []Point
	Closed bool
}

// Segment is the cubic control quadruple between two consecutive points.
// Curved is false when both endpoints are Straight, in which case C1 == C0
// and C2 == C3.
type Segment struct {
	C0, C1, C2, C3 math.Vec3
	Curved         bool
}

// SegmentCount returns the number of segments, including the wrap segment
// of a closed stroke. Strokes with fewer than two points have none.
func (s *Stroke) SegmentCount() int {
	n := len(s.Points)
	if n < 2 {
		return 0
	}
	if s.Closed {
		return n
	}
	return n - 1
}

// Segment returns segment i, running from point i to point i+1 (wrapping to
// point 0 for the closing segment).
func (s *Stroke) Segment(i int) Segment {
	a := s.Points[i]
	b := s.Points[(i+1)%len(s.Points)]

	seg := Segment{
		C0:     a.Anchor,
		C1:     a.Anchor,
		C2:     b.Anchor,
		C3:     b.Anchor,
		Curved: a.Type == Curved || b.Type == Curved,
	}
	if a.Type == Curved {
		seg.C1 = a.HandleOut
	}
	if b.Type == Curved {
		seg.C2 = b.HandleIn
	}
	return seg
}

// Segments returns every segment of the stroke in order.
func (s *Stroke) Segments() []Segment {
	count := s.SegmentCount()
	segs := make([]Segment, 0, count)
	for i := 0; i < count; i++ {
		segs = append(segs, s.Segment(i))
	}
	return segs
}

// Bounds returns the axis-aligned bounds of all anchors and handles.
func (s *Stroke) Bounds() (min, max math.Vec3, ok bool) {
	for i, p := range s.Points {
		pts := [3]math.Vec3{p.Anchor, p.HandleIn, p.HandleOut}
		if p.Type != Curved {
			pts[1], pts[2] = p.Anchor, p.Anchor
		}
		for j, v := range pts {
			if i == 0 && j == 0 {
				min, max = v, v
				continue
			}
			min = min.Min(v)
			max = max.Max(v)
		}
	}
	return min, max, len(s.Points) > 0
}
