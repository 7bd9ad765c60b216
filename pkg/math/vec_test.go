package math

import (
	"testing"
)

func TestVec3Length(t *testing.T) {
	v := Vec3{3, 4, 0}
	if got := v.Length(); got != 5 {
		t.Errorf("Vec3.Length() = %v, want 5", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 4, 12}.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if zero := (Vec3{}).Normalize(); zero != (Vec3{}) {
		t.Errorf("zero vector normalized to %v, want zero", zero)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3LerpEndpointsExact(t *testing.T) {
	a := Vec3{0.1, 0.2, 0.3}
	b := Vec3{0.7, -1.3, 2.9}
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v, want %v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v, want %v", got, b)
	}
}

func TestDistanceToLine(t *testing.T) {
	tests := []struct {
		name    string
		p, a, b Vec3
		want    float32
	}{
		{"above x axis", Vec3{5, 2, 0}, Vec3{0, 0, 0}, Vec3{1, 0, 0}, 2},
		{"beyond segment end", Vec3{10, 0, 3}, Vec3{0, 0, 0}, Vec3{1, 0, 0}, 3},
		{"degenerate line", Vec3{3, 4, 0}, Vec3{0, 0, 0}, Vec3{0, 0, 0}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceToLine(tt.p, tt.a, tt.b)
			if d := got - tt.want; d > 1e-5 || d < -1e-5 {
				t.Errorf("DistanceToLine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDistanceToSegment(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{4, 0, 0}
	if got := DistanceToSegment(Vec3{2, 3, 0}, a, b); got != 3 {
		t.Errorf("inside projection: got %v, want 3", got)
	}
	if got := DistanceToSegment(Vec3{7, 4, 0}, a, b); got != 5 {
		t.Errorf("past end: got %v, want 5", got)
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct {
		v, want float32
	}{
		{0.5, 0.5},
		{-1, 0},
		{2, 1},
		{0, 0},
		{1, 1},
	}

	for _, tt := range tests {
		if got := Clamp01(tt.v); got != tt.want {
			t.Errorf("Clamp01(%f) = %f, want %f", tt.v, got, tt.want)
		}
	}
}
