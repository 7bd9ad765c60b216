package main

import (
	"fmt"
	"path/filepath"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/strokereveal/internal/config"
	"github.com/Faultbox/strokereveal/internal/drawing"
	"github.com/Faultbox/strokereveal/internal/engine/camera"
	"github.com/Faultbox/strokereveal/internal/engine/input"
	"github.com/Faultbox/strokereveal/internal/engine/renderer"
	"github.com/Faultbox/strokereveal/internal/follower"
	"github.com/Faultbox/strokereveal/internal/logger"
	"github.com/Faultbox/strokereveal/internal/reveal"
	"github.com/Faultbox/strokereveal/pkg/math"
)

// allGroup is the group every stroke follower joins.
const allGroup = "all"

var headColor = [4]float32{1, 1, 1, 1}

// scene holds the previewed drawing and the reveal state driving it.
type scene struct {
	cfg      *config.Config
	path     string // absolute path of the loaded drawing
	drawing  *drawing.Drawing
	director *reveal.Director
	set      *follower.Set

	revealed bool // last group ramp target was 1
	visible  []math.Vec3
	heads    []math.Vec3

	orbit     bool // perspective orbit view instead of the flat view
	cam       *camera.OrbitCamera
	wantShot  bool
	toggleRec bool
}

func newScene(cfg *config.Config, path string) (*scene, error) {
	s := &scene{
		cfg: cfg,
		set: follower.NewSet(),
		cam: camera.NewOrbitCamera(),
	}
	s.director = reveal.NewDirector(reveal.Options{
		DefaultAmount: cfg.Reveal.DefaultAmount,
		RebuildOnMiss: cfg.Reveal.RebuildOnMiss,
		Source:        s.set,
	})
	if err := s.reload(path); err != nil {
		return nil, err
	}
	return s, nil
}

func followerName(i int) string {
	return fmt.Sprintf("stroke%d", i)
}

// reload loads and bakes a drawing. Followers of strokes that still exist
// keep their channels; the rest are removed.
func (s *scene) reload(path string) error {
	d, err := drawing.Load(path, s.cfg.Bake)
	if err != nil {
		return err
	}
	baked := d.Bake()

	if s.drawing != nil && s.drawing.Name != d.Name {
		for _, f := range s.set.All() {
			s.set.Remove(f.Key())
		}
	}
	s.drawing = d
	s.path = absPath(path)

	for i, b := range baked {
		id := reveal.Identity{Drawing: d.Name, Follower: followerName(i), Group: allGroup}
		if f := s.set.Get(id.Key()); f != nil {
			f.SetStroke(b)
			continue
		}
		f := follower.New(s.director, b, id)
		s.set.Add(f)
		f.Activate()
	}
	for _, f := range s.set.All() {
		if f.ID.Drawing == d.Name && s.strokeIndex(f) >= len(baked) {
			s.set.Remove(f.Key())
		}
	}

	logger.Info("drawing loaded",
		zap.String("path", path),
		zap.String("drawing", d.Name),
		zap.Int("followers", s.set.Count()),
	)
	return nil
}

// fileChanged reloads the drawing if p is the file currently shown. Changes
// to a file that a drop has since replaced are ignored.
func (s *scene) fileChanged(p string) (bool, error) {
	if absPath(p) != s.path {
		logger.Debug("ignoring change to a drawing no longer shown", zap.String("path", p))
		return false, nil
	}
	return true, s.reload(p)
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

func (s *scene) strokeIndex(f *follower.Follower) int {
	var i int
	if _, err := fmt.Sscanf(f.ID.Follower, "stroke%d", &i); err != nil {
		return -1
	}
	return i
}

// handleKeys applies this frame's key presses. It returns false on quit.
//
//	Space  ramp every stroke in or out
//	R      hide every stroke immediately
//	F      show every stroke immediately
//	L      toggle the lock on the first stroke
//	1-9    ramp a single stroke in
//	V      switch between the flat and the orbit view
//	Arrows orbit, -/= zoom (orbit view)
//	F12    screenshot, C start/stop a frame sequence
func (s *scene) handleKeys(in *input.Input) bool {
	name := s.drawing.Name
	seconds := s.cfg.Preview.RampSeconds

	switch {
	case in.KeyPressed(sdl.SCANCODE_ESCAPE):
		return false
	case in.KeyPressed(sdl.SCANCODE_SPACE):
		s.revealed = !s.revealed
		var target float32
		if s.revealed {
			target = 1
		}
		n := s.director.RampRevealGroup(name, allGroup, target, seconds, "")
		logger.Debug("group ramp", zap.Float32("target", target), zap.Int("followers", n))
	case in.KeyPressed(sdl.SCANCODE_R):
		s.revealed = false
		s.director.SetRevealGroup(name, allGroup, 0, "")
	case in.KeyPressed(sdl.SCANCODE_F):
		s.revealed = true
		s.director.SetRevealGroup(name, allGroup, 1, "")
	case in.KeyPressed(sdl.SCANCODE_L):
		first := followerName(0)
		locked := !s.director.IsLocked(name, first, "")
		s.director.LockReveal(name, first, locked, "")
		logger.Info("stroke lock toggled", zap.String("follower", first), zap.Bool("locked", locked))
	case in.KeyPressed(sdl.SCANCODE_V):
		s.orbit = !s.orbit
		if s.orbit {
			if min, max, ok := s.drawing.Bounds(); ok {
				s.cam.FitToBounds(min, max)
			}
		}
	case in.KeyPressed(sdl.SCANCODE_F12):
		s.wantShot = true
	case in.KeyPressed(sdl.SCANCODE_C):
		s.toggleRec = true
	}

	if s.orbit {
		const step = 1.0 / 15.0
		switch {
		case in.KeyTyped(sdl.SCANCODE_LEFT):
			s.cam.Turn(-1, 0, step)
		case in.KeyTyped(sdl.SCANCODE_RIGHT):
			s.cam.Turn(1, 0, step)
		case in.KeyTyped(sdl.SCANCODE_UP):
			s.cam.Turn(0, 1, step)
		case in.KeyTyped(sdl.SCANCODE_DOWN):
			s.cam.Turn(0, -1, step)
		case in.KeyTyped(sdl.SCANCODE_EQUALS):
			s.cam.Zoom(1)
		case in.KeyTyped(sdl.SCANCODE_MINUS):
			s.cam.Zoom(-1)
		}
	}

	for i := 0; i < 9; i++ {
		if in.KeyPressed(sdl.Scancode(sdl.SCANCODE_1 + i)) {
			s.director.RampReveal(name, followerName(i), 1, seconds, "")
		}
	}
	return true
}

func (s *scene) update(dt float32) {
	s.director.Tick(dt)
	s.set.Update()
}

// projection frames the drawing's bounds with a margin, or returns the
// orbit camera's view.
func (s *scene) projection(aspect float32) math.Mat4 {
	if s.orbit {
		return s.cam.Projection(aspect)
	}
	min, max, ok := s.drawing.Bounds()
	if !ok {
		return math.Identity()
	}
	margin := max.Sub(min).Length()*0.05 + s.drawing.Width
	return math.FitOrtho(min, max, aspect, margin)
}

func (s *scene) draw(r *renderer.Renderer) {
	color := s.cfg.Preview.LineColor
	width := s.drawing.Width * 100
	s.heads = s.heads[:0]

	for _, f := range s.set.All() {
		if !f.Active() || f.Stroke() == nil {
			continue
		}
		s.visible = f.Visible(s.visible[:0])
		loop := f.Stroke().Loop && f.Reveal >= 1
		r.DrawStrip(s.visible, loop, color, width)
		if f.Reveal > 0 && f.Reveal < 1 {
			s.heads = append(s.heads, f.Position)
		}
	}
	r.DrawPoints(s.heads, headColor, 8)
}
