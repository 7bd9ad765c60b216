package bake

import (
	"sort"

	"github.com/Faultbox/strokereveal/pkg/math"
)

// TangentStep is the parameter offset used by the finite-difference tangent.
const TangentStep = 0.0025

// BakedStroke is the renderable result of baking one stroke. Points and
// CumulativeLengths are parallel; CumulativeLengths[0] is 0 and the table is
// non-decreasing. A BakedStroke is replaced wholesale on re-bake and is
// read-only for everyone else.
type BakedStroke struct {
	Points            []math.Vec3
	CumulativeLengths []float32
	TotalLength       float32
	Loop              bool
}

// NewBakedStroke builds a stroke over points and indexes its arc length.
func NewBakedStroke(points []math.Vec3, loop bool) *BakedStroke {
	b := &BakedStroke{Points: points, Loop: loop}
	b.Reindex()
	return b
}

// Reindex rebuilds CumulativeLengths and TotalLength from Points.
func (b *BakedStroke) Reindex() {
	n := len(b.Points)
	if cap(b.CumulativeLengths) >= n {
		b.CumulativeLengths = b.CumulativeLengths[:n]
	} else {
		b.CumulativeLengths = make([]float32, n)
	}

	var total float32
	for i := range b.Points {
		if i > 0 {
			total += b.Points[i].Distance(b.Points[i-1])
		}
		b.CumulativeLengths[i] = total
	}

	if n < 2 {
		total = 0
	}
	b.TotalLength = total
}

// Len returns the number of baked points.
func (b *BakedStroke) Len() int {
	return len(b.Points)
}

// Evaluate returns the point at normalized arc-length parameter t, clamped
// to [0, 1]. An empty stroke yields the zero point.
func (b *BakedStroke) Evaluate(t float32) math.Vec3 {
	n := len(b.Points)
	switch {
	case n == 0:
		return math.Vec3{}
	case n == 1:
		return b.Points[0]
	}

	t = math.Clamp01(t)
	if t == 0 {
		return b.Points[0]
	}
	if t == 1 {
		return b.Points[n-1]
	}

	i, f := b.locate(float32(t * b.TotalLength))
	return b.Points[i-1].Lerp(b.Points[i], f)
}

// locate returns the index i of the first point at or beyond arc length
// target (at least 1) and the fractional position of target between point
// i-1 and point i.
func (b *BakedStroke) locate(target float32) (int, float32) {
	n := len(b.Points)
	i := sort.Search(n, func(k int) bool { return b.CumulativeLengths[k] >= target })
	if i < 1 {
		i = 1
	}
	if i > n-1 {
		i = n - 1
	}

	seg := b.CumulativeLengths[i] - b.CumulativeLengths[i-1]
	if seg < math.Epsilon {
		seg = math.Epsilon
	}
	return i, math.Clamp01((target - b.CumulativeLengths[i-1]) / seg)
}

// Tangent returns the unit direction of travel at t, estimated by finite
// difference. When the difference vanishes (at the very end, or on
// coincident points) the direction of the first baked segment is used.
func (b *BakedStroke) Tangent(t float32) math.Vec3 {
	if len(b.Points) < 2 {
		return math.Vec3{}
	}
	t = math.Clamp01(t)
	ahead := t + TangentStep
	if ahead > 1 {
		ahead = 1
	}

	d := b.Evaluate(ahead).Sub(b.Evaluate(t))
	if d.Length() > math.Epsilon {
		return d.Normalize()
	}
	return b.Points[1].Sub(b.Points[0]).Normalize()
}

// VisibleCount returns how many leading baked points lie at or before
// normalized arc length amount.
func (b *BakedStroke) VisibleCount(amount float32) int {
	n := len(b.Points)
	if n == 0 {
		return 0
	}
	amount = math.Clamp01(amount)
	if amount == 1 {
		return n
	}
	target := float32(amount * b.TotalLength)
	return sort.Search(n, func(k int) bool { return b.CumulativeLengths[k] > target })
}

// Prefix appends the revealed part of the stroke up to normalized arc length
// amount to dst: every baked point at or before it, followed by the
// interpolated head when it falls between two points.
func (b *BakedStroke) Prefix(dst []math.Vec3, amount float32) []math.Vec3 {
	amount = math.Clamp01(amount)
	if len(b.Points) == 0 || amount == 0 {
		return dst
	}
	k := b.VisibleCount(amount)
	dst = append(dst, b.Points[:k]...)
	if k < len(b.Points) {
		head := b.Evaluate(amount)
		if k == 0 || head != b.Points[k-1] {
			dst = append(dst, head)
		}
	}
	return dst
}
