package bake

import "github.com/Faultbox/strokereveal/pkg/math"

// Simplify reduces points with Douglas-Peucker: within each interval between
// kept points, the point farthest from the line through the interval's ends
// is kept if its distance exceeds tolerance, otherwise the interval's
// interior is dropped. The first and last points are always kept. Closed
// strokes are simplified as open ones; the endpoints are not forced equal.
func Simplify(points []math.Vec3, tolerance float32) []math.Vec3 {
	n := len(points)
	if n < 3 || tolerance < 0 {
		return append([]math.Vec3(nil), points...)
	}

	keep := make([]bool, n)
	keep[0], keep[n-1] = true, true

	type span struct{ first, last int }
	stack := []span{{0, n - 1}}
	for len(stack) > 0 {
		sp := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if sp.last-sp.first < 2 {
			continue
		}

		a, b := points[sp.first], points[sp.last]
		farthest, maxDist := -1, float32(0)
		for i := sp.first + 1; i < sp.last; i++ {
			if d := math.DistanceToLine(points[i], a, b); d > maxDist {
				farthest, maxDist = i, d
			}
		}
		if farthest < 0 || maxDist <= tolerance {
			continue
		}
		keep[farthest] = true
		stack = append(stack, span{farthest, sp.last}, span{sp.first, farthest})
	}

	out := make([]math.Vec3, 0, n)
	for i, k := range keep {
		if k {
			out = append(out, points[i])
		}
	}
	return out
}
