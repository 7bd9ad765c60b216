// Package main is the stroke preview window: it bakes a drawing, drives
// the reveal director every frame and draws each stroke's revealed prefix.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/strokereveal/internal/config"
	"github.com/Faultbox/strokereveal/internal/engine/capture"
	"github.com/Faultbox/strokereveal/internal/engine/input"
	"github.com/Faultbox/strokereveal/internal/engine/renderer"
	"github.com/Faultbox/strokereveal/internal/engine/window"
	"github.com/Faultbox/strokereveal/internal/logger"
	"github.com/Faultbox/strokereveal/internal/watch"
)

const windowTitle = "Stroke Reveal"

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := config.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: strokeview [flags] <drawing.yaml>")
		os.Exit(1)
	}

	logger.Info("=== Stroke Reveal Preview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg, args[0]); err != nil {
		logger.Error("preview error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("preview closed normally")
}

func run(cfg *config.Config, path string) error {
	scene, err := newScene(cfg, path)
	if err != nil {
		return err
	}
	format, err := capture.ParseFormat(cfg.Preview.CaptureFormat)
	if err != nil {
		return err
	}
	capturer := capture.New(cfg.Preview.CaptureDir, "stroke", format)

	win, err := window.New(window.Config{
		Title:      windowTitle + " - " + scene.drawing.Name,
		Width:      cfg.Preview.Width,
		Height:     cfg.Preview.Height,
		Fullscreen: cfg.Preview.Fullscreen,
		VSync:      cfg.Preview.VSync,
		Samples:    4,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	w, h := win.DrawableSize()
	r, err := renderer.New(renderer.Config{
		Width:      w,
		Height:     h,
		Background: [4]float32{0.1, 0.1, 0.15, 1},
	})
	if err != nil {
		return err
	}
	defer r.Close()

	// File changes arrive on the watcher goroutine; the reload itself
	// happens on the main thread. A dropped drawing replaces the watcher.
	changed := make(chan string, 1)
	stopWatch := startWatcher(scene.path, changed)
	defer func() { stopWatch() }()

	in := input.New()
	var pixels []byte
	last := time.Now()
	for {
		if in.Update() {
			return nil
		}
		for _, ev := range in.Events() {
			switch ev.Type {
			case input.EventWindowResize:
				r.Resize(win.DrawableSize())
			case input.EventDrop:
				if err := scene.reload(ev.Path); err != nil {
					logger.Error("failed to load dropped drawing", zap.String("path", ev.Path), zap.Error(err))
				} else {
					win.SetTitle(windowTitle + " - " + scene.drawing.Name)
					stopWatch()
					stopWatch = startWatcher(scene.path, changed)
				}
			}
		}
		if !scene.handleKeys(in) {
			return nil
		}

		select {
		case p := <-changed:
			if _, err := scene.fileChanged(p); err != nil {
				logger.Error("reload failed", zap.String("path", p), zap.Error(err))
			}
		default:
		}

		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now
		scene.update(dt)

		r.SetProjection(scene.projection(r.Aspect()))
		r.Begin()
		scene.draw(r)
		r.End()
		pixels = grab(r, capturer, scene, pixels)
		win.SwapBuffers()
	}
}

// startWatcher watches path and forwards its changes to changed. The
// returned function stops the watcher.
func startWatcher(path string, changed chan<- string) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	wt, err := watch.New(path, watch.DefaultDebounce, func(p string) {
		select {
		case changed <- p:
		default:
		}
	})
	if err != nil {
		logger.Warn("drawing will not reload on change", zap.String("path", path), zap.Error(err))
		return cancel
	}
	go wt.Run(ctx)
	return cancel
}

// grab writes the frame just drawn when a screenshot was requested or a
// sequence is recording. The pixel buffer is reused between frames.
func grab(r *renderer.Renderer, c *capture.Capturer, s *scene, pixels []byte) []byte {
	if s.toggleRec {
		s.toggleRec = false
		logger.Info("frame recording toggled", zap.Bool("recording", c.Toggle()))
	}
	if !s.wantShot && !c.Recording() {
		return pixels
	}
	pixels, w, h := r.ReadPixels(pixels)
	if s.wantShot {
		s.wantShot = false
		if path, err := c.Screenshot(pixels, w, h); err != nil {
			logger.Error("screenshot failed", zap.Error(err))
		} else {
			logger.Info("screenshot saved", zap.String("path", path))
		}
	}
	if c.Recording() {
		if _, err := c.Frame(pixels, w, h); err != nil {
			logger.Error("frame capture failed, recording stopped", zap.Error(err))
		}
	}
	return pixels
}
