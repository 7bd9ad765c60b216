// Package camera provides the preview cameras: a flat orthographic view and
// an orbit view for inspecting depth displacement.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/strokereveal/pkg/math"
)

// OrbitCamera orbits around a center point. With zero yaw and pitch it
// looks down the -Z axis, so the XY drawing plane faces the viewer.
type OrbitCamera struct {
	Center math.Vec3

	Distance float32
	Yaw      float32 // radians around Y
	Pitch    float32 // radians above the XY plane

	// Constraints
	MinDistance float32
	MaxDistance float32
	MaxPitch    float32

	FovY float32 // radians

	// Sensitivity
	TurnSpeed float32 // radians per second
	ZoomStep  float32 // fraction of the distance per step
}

// NewOrbitCamera creates an orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:    5,
		MinDistance: 0.01,
		MaxDistance: 1000,
		MaxPitch:    1.4,
		FovY:        math32.Pi / 4,
		TurnSpeed:   1.5,
		ZoomStep:    0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cp := math32.Cos(c.Pitch)
	return c.Center.Add(math.Vec3{
		X: c.Distance * cp * math32.Sin(c.Yaw),
		Y: c.Distance * math32.Sin(c.Pitch),
		Z: c.Distance * cp * math32.Cos(c.Yaw),
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// Projection returns projection * view for the given aspect ratio.
func (c *OrbitCamera) Projection(aspect float32) math.Mat4 {
	near := c.Distance * 0.01
	far := c.Distance * 100
	return math.Perspective(c.FovY, aspect, near, far).Mul(c.ViewMatrix())
}

// Turn rotates the camera by the given yaw and pitch directions, scaled by
// dt and TurnSpeed.
func (c *OrbitCamera) Turn(yaw, pitch, dt float32) {
	c.Yaw += yaw * c.TurnSpeed * dt
	c.Pitch += pitch * c.TurnSpeed * dt
	if c.Pitch < -c.MaxPitch {
		c.Pitch = -c.MaxPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}

// Zoom moves the camera toward (positive steps) or away from the center.
func (c *OrbitCamera) Zoom(steps float32) {
	c.Distance -= steps * c.Distance * c.ZoomStep
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// FitToBounds centers the camera on the box and backs off far enough to
// see all of it face-on.
func (c *OrbitCamera) FitToBounds(min, max math.Vec3) {
	c.Center = min.Midpoint(max)
	radius := max.Sub(min).Length() * 0.5
	if radius < math.Epsilon {
		radius = 1
	}
	c.Distance = radius / math32.Sin(c.FovY/2)
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.MaxDistance = c.Distance * 4
	}
	c.Yaw = 0
	c.Pitch = 0
}
