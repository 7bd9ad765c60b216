// Package follower implements entities that ride along a baked stroke.
//
// A follower is wired at construction with the director, the stroke it
// follows and its identity. Each frame it reads its reveal channel and
// places its head at that fraction of the stroke's arc length.
package follower

import (
	"github.com/Faultbox/strokereveal/internal/reveal"
	"github.com/Faultbox/strokereveal/pkg/bake"
	"github.com/Faultbox/strokereveal/pkg/math"
)

// Follower tracks the revealed head of one baked stroke.
type Follower struct {
	ID reveal.Identity

	director *reveal.Director
	stroke   *bake.BakedStroke

	// State after the last Update
	Reveal   float32
	Position math.Vec3
	Tangent  math.Vec3

	active bool
}

// New creates an inactive follower.
func New(director *reveal.Director, stroke *bake.BakedStroke, id reveal.Identity) *Follower {
	return &Follower{
		ID:       id,
		director: director,
		stroke:   stroke,
	}
}

// Key returns the follower's channel key.
func (f *Follower) Key() reveal.ChannelKey {
	return f.ID.Key()
}

// Stroke returns the baked stroke being followed.
func (f *Follower) Stroke() *bake.BakedStroke {
	return f.stroke
}

// SetStroke swaps in a freshly baked stroke. The next Update evaluates
// against it.
func (f *Follower) SetStroke(stroke *bake.BakedStroke) {
	f.stroke = stroke
}

// Active returns whether the follower is registered with its director.
func (f *Follower) Active() bool {
	return f.active
}

// Activate registers the follower with its director.
func (f *Follower) Activate() {
	if f.active {
		return
	}
	f.director.RegisterFollower(f.ID)
	f.active = true
}

// Deactivate unregisters the follower. Its channel keeps its value.
func (f *Follower) Deactivate() {
	if !f.active {
		return
	}
	f.director.UnregisterFollower(f.ID)
	f.active = false
}

// Update reads the reveal channel and moves the head along the stroke.
func (f *Follower) Update() {
	f.Reveal = f.director.GetReveal(f.ID.Drawing, f.ID.Follower, f.ID.Instance)
	if f.stroke == nil {
		f.Position = math.Vec3{}
		f.Tangent = math.Vec3{}
		return
	}
	f.Position = f.stroke.Evaluate(f.Reveal)
	f.Tangent = f.stroke.Tangent(f.Reveal)
}

// Visible appends the revealed prefix of the stroke to dst.
func (f *Follower) Visible(dst []math.Vec3) []math.Vec3 {
	if f.stroke == nil {
		return dst
	}
	return f.stroke.Prefix(dst, f.Reveal)
}
