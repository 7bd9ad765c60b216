package bake

import (
	stdmath "math"
	"testing"

	"github.com/Faultbox/strokereveal/pkg/curve"
)

func flatConfig() Config {
	cfg := DefaultConfig()
	cfg.ZAmplitude = 0
	cfg.SimplifyTolerance = 0
	return cfg
}

func polyline(closed bool, xy ...float32) curve.Stroke {
	s := curve.Stroke{Closed: closed}
	for i := 0; i+1 < len(xy); i += 2 {
		s.Points = append(s.Points, curve.Point{Anchor: v3(xy[i], xy[i+1], 0)})
	}
	return s
}

func checkIndex(t *testing.T, b *BakedStroke) {
	t.Helper()
	if len(b.CumulativeLengths) != len(b.Points) {
		t.Fatalf("len(CumulativeLengths) = %d, len(Points) = %d", len(b.CumulativeLengths), len(b.Points))
	}
	for i, l := range b.CumulativeLengths {
		if i == 0 && l != 0 {
			t.Errorf("CumulativeLengths[0] = %v, want 0", l)
		}
		if i > 0 && l < b.CumulativeLengths[i-1] {
			t.Errorf("CumulativeLengths decreases at %d: %v < %v", i, l, b.CumulativeLengths[i-1])
		}
	}
}

func TestBakeStrokeTooFewPoints(t *testing.T) {
	for _, s := range []curve.Stroke{{}, polyline(false, 1, 1)} {
		b, stats := BakeStroke(&s, 0, DefaultConfig(), 1000)
		if b.Len() != 0 || b.TotalLength != 0 {
			t.Errorf("%d control points baked to %d points, length %v", len(s.Points), b.Len(), b.TotalLength)
		}
		if stats.Points != 0 {
			t.Errorf("stats.Points = %d, want 0", stats.Points)
		}
	}
}

func TestBakeStrokeStraight(t *testing.T) {
	s := polyline(false, 0, 0, 1, 0, 1, 1)
	b, stats := BakeStroke(&s, 0, flatConfig(), 1000)

	checkIndex(t, b)
	// 10 steps per unit side plus the start point.
	if b.Len() != 21 {
		t.Errorf("baked %d points, want 21", b.Len())
	}
	if stats.Sampled != b.Len() {
		t.Errorf("stats.Sampled = %d, want %d", stats.Sampled, b.Len())
	}
	if d := b.TotalLength - 2; d > 1e-4 || d < -1e-4 {
		t.Errorf("TotalLength = %v, want 2", b.TotalLength)
	}
	if b.Points[0] != s.Points[0].Anchor || b.Points[b.Len()-1] != s.Points[2].Anchor {
		t.Error("baked stroke does not run from first to last anchor")
	}
}

func TestBakeStrokeNoDuplicateJoins(t *testing.T) {
	s := polyline(false, 0, 0, 1, 0, 2, 0, 2, 1)
	b, _ := BakeStroke(&s, 0, flatConfig(), 1000)
	for i := 1; i < b.Len(); i++ {
		if b.Points[i] == b.Points[i-1] {
			t.Errorf("duplicate point %v at %d", b.Points[i], i)
		}
	}
}

func TestBakeStrokeClosed(t *testing.T) {
	s := polyline(true, 0, 0, 1, 0, 1, 1)
	b, _ := BakeStroke(&s, 0, flatConfig(), 1000)

	if !b.Loop {
		t.Error("closed stroke should bake to a loop")
	}
	if b.Points[b.Len()-1] != s.Points[0].Anchor {
		t.Errorf("closed stroke ends at %v, want first anchor", b.Points[b.Len()-1])
	}
	want := float32(2 + stdmath.Sqrt2)
	if d := b.TotalLength - want; d > 1e-4 || d < -1e-4 {
		t.Errorf("TotalLength = %v, want %v", b.TotalLength, want)
	}
}

func TestBakeStrokePerStrokeCap(t *testing.T) {
	cfg := flatConfig()
	cfg.MaxSegmentLength = 0.01
	cfg.MaxPointsPerStroke = 50

	s := polyline(false, 0, 0, 10, 0, 10, 10, 0, 10)
	b, stats := BakeStroke(&s, 0, cfg, 1_000_000)

	if b.Len() != 50 {
		t.Errorf("baked %d points, want cap 50", b.Len())
	}
	if !stats.SamplingCut || !stats.StrokeCapped {
		t.Errorf("stats = %+v, want sampling cut and stroke cap", stats)
	}
	// Sampling stops inside the first segment, one point past the cap.
	if stats.Sampled != 51 {
		t.Errorf("stats.Sampled = %d, want 51", stats.Sampled)
	}
	checkIndex(t, b)
}

func TestBakeAllTotalBudget(t *testing.T) {
	cfg := flatConfig()
	cfg.MaxSegmentLength = 0.1
	cfg.MaxTotalPoints = 30

	strokes := []curve.Stroke{
		polyline(false, 0, 0, 2, 0), // 21 points
		polyline(false, 0, 1, 2, 1), // 9 left
		polyline(false, 0, 2, 2, 2), // nothing left
	}
	baked, stats := BakeAll(strokes, cfg)

	wantLens := []int{21, 9, 0}
	for i, b := range baked {
		if b.Len() != wantLens[i] {
			t.Errorf("stroke %d baked to %d points, want %d", i, b.Len(), wantLens[i])
		}
		checkIndex(t, b)
	}
	if stats[0].BudgetCapped || !stats[1].BudgetCapped || !stats[2].BudgetCapped {
		t.Errorf("budget flags = %v %v %v", stats[0].BudgetCapped, stats[1].BudgetCapped, stats[2].BudgetCapped)
	}
	if baked[2].TotalLength != 0 {
		t.Errorf("emptied stroke has length %v", baked[2].TotalLength)
	}
}

func TestBakeSimplifiesDisplacedPoints(t *testing.T) {
	s := polyline(false, 0, 0, 4, 0)

	flat := flatConfig()
	flat.SimplifyTolerance = 0.001
	b, _ := BakeStroke(&s, 0, flat, 1000)
	if b.Len() != 2 {
		t.Errorf("flat straight line simplified to %d points, want 2", b.Len())
	}

	bumpy := flat
	bumpy.ZAmplitude = 0.2
	bumpy.ZFrequency = 2
	b, _ = BakeStroke(&s, 0, bumpy, 1000)
	if b.Len() <= 2 {
		t.Errorf("displaced line simplified to %d points, want Z detail kept", b.Len())
	}
}

func TestBakeDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7
	cfg.ZAmplitude = 0.1
	strokes := []curve.Stroke{
		{Points: []curve.Point{
			{Anchor: v3(0, 0, 0), HandleOut: v3(0.5, 1, 0), Type: curve.Curved},
			{Anchor: v3(2, 0, 0), HandleIn: v3(1.5, -1, 0), Type: curve.Curved},
		}},
		polyline(true, 0, 0, 1, 0, 1, 1, 0, 1),
	}

	a, _ := BakeAll(strokes, cfg)
	b, _ := BakeAll(strokes, cfg)
	for i := range a {
		if a[i].Len() != b[i].Len() {
			t.Fatalf("stroke %d: %d vs %d points", i, a[i].Len(), b[i].Len())
		}
		for j := range a[i].Points {
			pa, pb := a[i].Points[j], b[i].Points[j]
			if stdmath.Float32bits(pa.Z) != stdmath.Float32bits(pb.Z) || pa != pb {
				t.Fatalf("stroke %d point %d differs: %v vs %v", i, j, pa, pb)
			}
		}
	}
}

func TestBakeCubicScenario(t *testing.T) {
	cfg := flatConfig()
	cfg.MaxBezierError = 0.01
	cfg.MaxSegmentLength = 0.1

	p0, p1, p2, p3 := v3(0, 0, 0), v3(0.3, 1, 0), v3(1.2, 1, 0), v3(1.5, 0, 0)
	s := curve.Stroke{Points: []curve.Point{
		{Anchor: p0, HandleIn: v3(-0.3, -1, 0), HandleOut: p1, Type: curve.Curved},
		{Anchor: p3, HandleIn: p2, HandleOut: v3(1.8, -1, 0), Type: curve.Curved},
	}}
	b, _ := BakeStroke(&s, 0, cfg, 10_000)

	checkIndex(t, b)
	if b.Evaluate(0) != p0 || b.Evaluate(1) != p3 {
		t.Errorf("Evaluate endpoints = %v, %v; want %v, %v", b.Evaluate(0), b.Evaluate(1), p0, p3)
	}
	for k := 0; k <= 200; k++ {
		c := CubicAt(p0, p1, p2, p3, float32(k)/200)
		if d := distanceToPolyline(c, b.Points); d > cfg.MaxBezierError+1e-4 {
			t.Errorf("curve point %v is %v from the baked polyline", c, d)
		}
	}
	for i := 1; i < b.Len(); i++ {
		if d := b.Points[i].Distance(b.Points[i-1]); d > cfg.MaxSegmentLength*1.5+1e-5 {
			t.Errorf("baked segment %d has length %v", i, d)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	bad := Config{MaxSegmentLength: 0, MaxBezierError: -1, SimplifyTolerance: -1, MaxPointsPerStroke: 3}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for invalid config")
	}

	s := bad.Sanitized()
	if err := s.Validate(); err != nil {
		t.Errorf("sanitized config still invalid: %v", err)
	}
}

func TestBakeStrokeNil(t *testing.T) {
	b, _ := BakeStroke(nil, 0, DefaultConfig(), 100)
	if b == nil || b.Len() != 0 {
		t.Error("nil stroke should bake to an empty stroke")
	}
}

func TestBakeStrokeHugeSegmentStopsAtCap(t *testing.T) {
	cfg := flatConfig()
	cfg.MaxSegmentLength = 1e-4
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config should be valid: %v", err)
	}

	// 500 units at 1e-4 spacing would be five million samples.
	s := polyline(false, 0, 0, 500, 0)
	b, stats := BakeStroke(&s, 0, cfg, cfg.MaxTotalPoints)

	if stats.Sampled > cfg.MaxPointsPerStroke+1 {
		t.Errorf("stats.Sampled = %d, want at most %d", stats.Sampled, cfg.MaxPointsPerStroke+1)
	}
	if !stats.SamplingCut {
		t.Error("expected SamplingCut")
	}
	if b.Len() != cfg.MaxPointsPerStroke {
		t.Errorf("baked %d points, want %d", b.Len(), cfg.MaxPointsPerStroke)
	}
	// The kept prefix keeps the spacing of the whole segment.
	if d := b.Points[1].X - b.Points[0].X; d < 0.9e-4 || d > 1.1e-4 {
		t.Errorf("first step = %v, want about 1e-4", d)
	}
	checkIndex(t, b)
}

func TestBakeStrokeCurvedStopsAtCap(t *testing.T) {
	cfg := flatConfig()
	cfg.MaxSegmentLength = 1e-4
	cfg.MaxBezierError = 1e-5
	cfg.MaxPointsPerStroke = 100

	s := curve.Stroke{Points: []curve.Point{
		{Anchor: v3(0, 0, 0), HandleOut: v3(100, 200, 0), Type: curve.Curved},
		{Anchor: v3(300, 0, 0), HandleIn: v3(200, -200, 0), Type: curve.Curved},
		{Anchor: v3(600, 0, 0)},
	}}
	_, stats := BakeStroke(&s, 0, cfg, cfg.MaxTotalPoints)

	if stats.Sampled != cfg.MaxPointsPerStroke+1 {
		t.Errorf("stats.Sampled = %d, want %d", stats.Sampled, cfg.MaxPointsPerStroke+1)
	}
	if !stats.SamplingCut || !stats.StrokeCapped {
		t.Errorf("stats = %+v, want sampling cut and stroke cap", stats)
	}
}

func TestBakeStrokeGolden(t *testing.T) {
	// Pinned bits of a full bake: a straight segment then a cubic, displaced
	// and simplified. Any change to the arithmetic order shows up here,
	// including fused multiply-adds on architectures that have them.
	cfg := DefaultConfig()
	cfg.MaxSegmentLength = 0.25
	cfg.MaxBezierError = 0.02
	cfg.SimplifyTolerance = 0.02
	cfg.Seed = 7
	cfg.ZAmplitude = 0.1
	cfg.ZFrequency = 1.5

	s := curve.Stroke{Points: []curve.Point{
		{Anchor: v3(-1, 0.5, 0)},
		{Anchor: v3(0, 0, 0)},
		{Anchor: v3(2, 0, 0), HandleIn: v3(1.5, -1, 0), HandleOut: v3(2.5, 1, 0), Type: curve.Curved},
	}}
	b, stats := BakeStroke(&s, 1, cfg, cfg.MaxTotalPoints)

	want := [][3]uint32{
		{0xbf800000, 0x3f000000, 0x3c5f4d4d},
		{0xbf19999a, 0x3e99999a, 0xbce55ef0},
		{0x00000000, 0x00000000, 0x3b985080},
		{0x3f004000, 0xbe870000, 0xbd46ee00},
		{0x3f500000, 0xbec00000, 0x3ca0125a},
		{0x3f92e000, 0xbee10000, 0x3d57e4d0},
		{0x3fbd0000, 0xbed80000, 0xbbcbe440},
		{0x3fd09c00, 0xbebe2000, 0xbc66d553},
		{0x3fe2a000, 0xbe930000, 0x3c112140},
		{0x3ff29400, 0xbe28c000, 0x3ced192d},
		{0x40000000, 0x00000000, 0x3c27814d},
	}
	if stats.Sampled != 15 {
		t.Errorf("stats.Sampled = %d, want 15", stats.Sampled)
	}
	if b.Len() != len(want) {
		t.Fatalf("baked %d points, want %d", b.Len(), len(want))
	}
	for i, p := range b.Points {
		got := [3]uint32{stdmath.Float32bits(p.X), stdmath.Float32bits(p.Y), stdmath.Float32bits(p.Z)}
		if got != want[i] {
			t.Errorf("point %d = %v (%#x), want %#x", i, p, got, want[i])
		}
	}
	if bits := stdmath.Float32bits(b.TotalLength); bits != 0x4059d79c {
		t.Errorf("TotalLength = %v (%#x), want %#x", b.TotalLength, bits, 0x4059d79c)
	}
}
