// Package config handles tool configuration loading and management.
package config

import "github.com/Faultbox/strokereveal/pkg/bake"

// Config holds all settings shared by the bake CLI and the preview window.
type Config struct {
	Bake    bake.Config   `yaml:"bake"`
	Reveal  RevealConfig  `yaml:"reveal"`
	Preview PreviewConfig `yaml:"preview"`
	Logging LoggingConfig `yaml:"logging"`
}

// RevealConfig holds reveal director settings.
type RevealConfig struct {
	DefaultAmount float32 `yaml:"default_amount"`  // value of channels nobody has set yet
	RebuildOnMiss bool    `yaml:"rebuild_on_miss"` // rebuild the group index once when a group is empty
	TickRate      int     `yaml:"tick_rate"`       // fixed ticks per second for scripted runs
}

// PreviewConfig holds preview window settings.
type PreviewConfig struct {
	Width       int        `yaml:"width"`
	Height      int        `yaml:"height"`
	Fullscreen  bool       `yaml:"fullscreen"`
	VSync       bool       `yaml:"vsync"`
	LineColor   [4]float32 `yaml:"line_color,flow"`
	RampSeconds float32    `yaml:"ramp_seconds"`

	CaptureDir    string `yaml:"capture_dir"`    // screenshots and frame sequences
	CaptureFormat string `yaml:"capture_format"` // png, bmp or tiff
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Bake: bake.DefaultConfig(),
		Reveal: RevealConfig{
			DefaultAmount: 0,
			RebuildOnMiss: true,
			TickRate:      60,
		},
		Preview: PreviewConfig{
			Width:       1280,
			Height:      720,
			Fullscreen:  false,
			VSync:       true,
			LineColor:   [4]float32{0.95, 0.85, 0.35, 1},
			RampSeconds: 2,

			CaptureDir:    "captures",
			CaptureFormat: "png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
