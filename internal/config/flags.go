package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagSeed       = flag.Int("seed", -1, "Displacement seed (negative keeps the configured seed)")
	flagSimplify   = flag.Float64("simplify", -1, "Simplify tolerance (negative keeps the configured value)")
	flagWindowed   = flag.Bool("windowed", false, "Run the preview in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run the preview in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Preview window width")
	flagHeight     = flag.Int("height", 0, "Preview window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments left after ParseFlags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSeed >= 0 {
		cfg.Bake.Seed = *flagSeed
	}
	if *flagSimplify >= 0 {
		cfg.Bake.SimplifyTolerance = float32(*flagSimplify)
	}
	if *flagWindowed {
		cfg.Preview.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Preview.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Preview.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Preview.Height = *flagHeight
	}
}
