package main

import (
	"fmt"
	"io"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/strokereveal/internal/config"
	"github.com/Faultbox/strokereveal/internal/drawing"
	"github.com/Faultbox/strokereveal/internal/follower"
	"github.com/Faultbox/strokereveal/internal/logger"
	"github.com/Faultbox/strokereveal/internal/reveal"
	"github.com/Faultbox/strokereveal/pkg/bake"
)

// Script is a timed sequence of reveal operations against one drawing.
type Script struct {
	Drawing    string           `yaml:"drawing"`
	File       string           `yaml:"file"` // optional drawing file followers ride on
	Duration   float32          `yaml:"duration"`
	Rate       int              `yaml:"rate"`
	PrintEvery int              `yaml:"print_every"`
	Followers  []scriptFollower `yaml:"followers"`
	Steps      []scriptStep     `yaml:"steps"`
}

type scriptFollower struct {
	Name     string `yaml:"name"`
	Group    string `yaml:"group"`
	Instance string `yaml:"instance"`
	Stroke   int    `yaml:"stroke"`
}

type scriptStep struct {
	At       float32 `yaml:"at"`
	Op       string  `yaml:"op"`
	Follower string  `yaml:"follower"`
	Group    string  `yaml:"group"`
	Instance string  `yaml:"instance"`
	Amount   float32 `yaml:"amount"`
	Seconds  float32 `yaml:"seconds"`
}

var scriptOps = map[string]bool{
	"set": true, "ramp": true, "lock": true, "unlock": true,
	"set_group": true, "ramp_group": true,
	"activate": true, "deactivate": true, "rebuild": true,
}

func parseScript(r io.Reader) (*Script, error) {
	var s Script
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(s.Steps, func(i, j int) bool { return s.Steps[i].At < s.Steps[j].At })
	return &s, nil
}

func (s *Script) validate() error {
	if s.Drawing == "" {
		return fmt.Errorf("script needs a drawing key")
	}
	if s.Duration < 0 {
		return fmt.Errorf("duration must be >= 0, got %v", s.Duration)
	}
	for i, st := range s.Steps {
		if !scriptOps[st.Op] {
			return fmt.Errorf("step %d: unknown op %q", i, st.Op)
		}
		switch st.Op {
		case "set_group", "ramp_group":
			if st.Group == "" {
				return fmt.Errorf("step %d: %s needs a group", i, st.Op)
			}
		case "rebuild":
		default:
			if st.Follower == "" {
				return fmt.Errorf("step %d: %s needs a follower", i, st.Op)
			}
		}
	}
	return nil
}

// runScript drives a fresh director at a fixed tick rate and prints every
// channel periodically.
func runScript(s *Script, cfg *config.Config, out io.Writer) error {
	rate := s.Rate
	if rate <= 0 {
		rate = cfg.Reveal.TickRate
	}
	every := s.PrintEvery
	if every <= 0 {
		every = rate / 4
		if every < 1 {
			every = 1
		}
	}
	dt := 1 / float32(rate)
	ticks := int(s.Duration*float32(rate) + 0.5)

	var strokes []*bake.BakedStroke
	if s.File != "" {
		d, err := drawing.Load(s.File, cfg.Bake)
		if err != nil {
			return err
		}
		strokes = d.Bake()
	}

	set := follower.NewSet()
	director := reveal.NewDirector(reveal.Options{
		DefaultAmount: cfg.Reveal.DefaultAmount,
		RebuildOnMiss: cfg.Reveal.RebuildOnMiss,
		Source:        set,
	})
	for _, sf := range s.Followers {
		var stroke *bake.BakedStroke
		if sf.Stroke >= 0 && sf.Stroke < len(strokes) {
			stroke = strokes[sf.Stroke]
		}
		f := follower.New(director, stroke, reveal.Identity{
			Drawing:  s.Drawing,
			Follower: sf.Name,
			Instance: sf.Instance,
			Group:    sf.Group,
		})
		set.Add(f)
		f.Activate()
	}

	next := 0
	for i := 0; i <= ticks; i++ {
		now := float32(i) * dt
		for next < len(s.Steps) && s.Steps[next].At <= now+dt*0.5 {
			applyStep(director, set, s.Drawing, s.Steps[next])
			next++
		}
		set.Update()

		if i%every == 0 || i == ticks {
			printChannels(out, now, director)
		}
		if i < ticks {
			director.Tick(dt)
		}
	}

	if strokes != nil {
		for _, f := range set.All() {
			fmt.Fprintf(out, "%s head (%.4f, %.4f, %.4f) tangent (%.4f, %.4f, %.4f)\n", f.Key(),
				f.Position.X, f.Position.Y, f.Position.Z, f.Tangent.X, f.Tangent.Y, f.Tangent.Z)
		}
	}
	return nil
}

func applyStep(d *reveal.Director, set *follower.Set, drawingKey string, st scriptStep) {
	logger.Debug("reveal step",
		zap.Float32("at", st.At),
		zap.String("op", st.Op),
		zap.String("follower", st.Follower),
		zap.String("group", st.Group),
	)

	switch st.Op {
	case "set":
		d.SetReveal(drawingKey, st.Follower, st.Amount, st.Instance)
	case "ramp":
		d.RampReveal(drawingKey, st.Follower, st.Amount, st.Seconds, st.Instance)
	case "lock":
		d.LockReveal(drawingKey, st.Follower, true, st.Instance)
	case "unlock":
		d.LockReveal(drawingKey, st.Follower, false, st.Instance)
	case "set_group":
		d.SetRevealGroup(drawingKey, st.Group, st.Amount, st.Instance)
	case "ramp_group":
		d.RampRevealGroup(drawingKey, st.Group, st.Amount, st.Seconds, st.Instance)
	case "activate", "deactivate":
		f := set.Get(reveal.NewChannelKey(drawingKey, st.Follower, st.Instance))
		if f == nil {
			logger.Warn("script step names unknown follower", zap.String("follower", st.Follower))
			return
		}
		if st.Op == "activate" {
			f.Activate()
		} else {
			f.Deactivate()
		}
	case "rebuild":
		d.Rebuild()
	}
}

func printChannels(out io.Writer, now float32, d *reveal.Director) {
	fmt.Fprintf(out, "%7.3f", now)
	for _, k := range d.Store().Keys() {
		ch, _ := d.Store().Channel(k)
		mark := ""
		if ch.Locked {
			mark = "*"
		}
		fmt.Fprintf(out, " %s=%.4f%s", k, ch.Current, mark)
	}
	fmt.Fprintln(out)
}
