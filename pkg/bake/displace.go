package bake

import "github.com/Faultbox/strokereveal/pkg/math"

const (
	seedScale        = 0.001
	strokeIndexScale = 0.173
)

// NoiseRow returns the noise-space Y coordinate used for one stroke of a
// drawing. Distinct strokes of the same drawing walk distinct noise rows.
func NoiseRow(seed, strokeIndex int) float32 {
	return float32(float32(seed)*seedScale) + float32(float32(strokeIndex)*strokeIndexScale)
}

// DepthOffset is the Z offset applied at arc length s along a stroke.
func DepthOffset(s, row, amplitude, frequency float32) float32 {
	n := Noise2D(float32(s*frequency), row)
	return float32(float32(float32(n*2)-1) * amplitude)
}

// Displace adds a deterministic Z offset to every point. The offset is a
// function of the accumulated arc length of the undisplaced sequence, the
// stroke index and the seed only. X and Y are never modified.
func Displace(points []math.Vec3, strokeIndex int, cfg Config) {
	if len(points) == 0 || cfg.ZAmplitude == 0 {
		return
	}
	row := NoiseRow(cfg.Seed, strokeIndex)

	var s float32
	prev := points[0]
	for i := range points {
		orig := points[i]
		if i > 0 {
			s += orig.Distance(prev)
		}
		prev = orig
		points[i].Z = orig.Z + DepthOffset(s, row, cfg.ZAmplitude, cfg.ZFrequency)
	}
}
