package bake

import (
	stdmath "math"

	"github.com/chewxy/math32"

	"github.com/Faultbox/strokereveal/pkg/math"
)

// MaxSubdivisionDepth caps the recursion of SampleCubic. Past the cap the
// end point of the current piece is emitted even if it is not flat enough.
const MaxSubdivisionDepth = 18

// chordSlack lets a flat piece's chord exceed maxSegmentLength by half
// before it is split for length alone.
const chordSlack = 1.5

// SampleCubic appends a flattening of the cubic p0,p1,p2,p3 to dst. Every
// emitted piece has both inner control points within maxError of its chord
// and a chord no longer than 1.5*maxSegmentLength, unless the depth cap was
// hit. p0 is emitted only when includeStart is set.
func SampleCubic(dst []math.Vec3, p0, p1, p2, p3 math.Vec3, maxError, maxSegmentLength float32, includeStart bool) []math.Vec3 {
	return sampleCubic(dst, p0, p1, p2, p3, maxError, maxSegmentLength, includeStart, stdmath.MaxInt)
}

// sampleCubic is SampleCubic that stops appending once dst holds limit
// points.
func sampleCubic(dst []math.Vec3, p0, p1, p2, p3 math.Vec3, maxError, maxSegmentLength float32, includeStart bool, limit int) []math.Vec3 {
	if includeStart && len(dst) < limit {
		dst = append(dst, p0)
	}
	return subdivide(dst, p0, p1, p2, p3, maxError, maxSegmentLength*chordSlack, 0, limit)
}

func subdivide(dst []math.Vec3, p0, p1, p2, p3 math.Vec3, maxError, maxChord float32, depth, limit int) []math.Vec3 {
	if len(dst) >= limit {
		return dst
	}
	if depth >= MaxSubdivisionDepth || flatEnough(p0, p1, p2, p3, maxError, maxChord) {
		return append(dst, p3)
	}

	// De Casteljau halving at t=0.5.
	p01 := p0.Midpoint(p1)
	p12 := p1.Midpoint(p2)
	p23 := p2.Midpoint(p3)
	p012 := p01.Midpoint(p12)
	p123 := p12.Midpoint(p23)
	mid := p012.Midpoint(p123)

	dst = subdivide(dst, p0, p01, p012, mid, maxError, maxChord, depth+1, limit)
	return subdivide(dst, mid, p123, p23, p3, maxError, maxChord, depth+1, limit)
}

func flatEnough(p0, p1, p2, p3 math.Vec3, maxError, maxChord float32) bool {
	if p0.Distance(p3) > maxChord {
		return false
	}
	return math.DistanceToLine(p1, p0, p3) <= maxError &&
		math.DistanceToLine(p2, p0, p3) <= maxError
}

// SampleLine appends ceil(L/maxSegmentLength) evenly spaced points from a
// (exclusive) to b (inclusive), at least one. a is emitted first when
// includeStart is set.
func SampleLine(dst []math.Vec3, a, b math.Vec3, maxSegmentLength float32, includeStart bool) []math.Vec3 {
	return sampleLine(dst, a, b, maxSegmentLength, includeStart, stdmath.MaxInt)
}

// sampleLine is SampleLine that stops appending once dst holds limit
// points. The spacing is that of the full segment.
func sampleLine(dst []math.Vec3, a, b math.Vec3, maxSegmentLength float32, includeStart bool, limit int) []math.Vec3 {
	if includeStart && len(dst) < limit {
		dst = append(dst, a)
	}
	steps := lineSteps(a.Distance(b), maxSegmentLength)
	for i := 1; i <= steps && len(dst) < limit; i++ {
		dst = append(dst, a.Lerp(b, float32(i)/float32(steps)))
	}
	return dst
}

// lineSteps is ceil(length/maxSegmentLength), at least 1 and saturated at
// MaxInt32 for infinite or overflowing ratios.
func lineSteps(length, maxSegmentLength float32) int {
	if !(maxSegmentLength > 0) {
		return 1
	}
	q := math32.Ceil(length / maxSegmentLength)
	switch {
	case !(q > 1):
		return 1
	case q >= stdmath.MaxInt32:
		return stdmath.MaxInt32
	}
	return int(q)
}

// CubicAt evaluates the cubic p0,p1,p2,p3 at parameter t.
func CubicAt(p0, p1, p2, p3 math.Vec3, t float32) math.Vec3 {
	s := 1 - t
	a := s * s * s
	b := 3 * s * s * t
	c := 3 * s * t * t
	d := t * t * t
	return p0.Scale(a).Add(p1.Scale(b)).Add(p2.Scale(c)).Add(p3.Scale(d))
}
