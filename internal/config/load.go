package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path takes priority over the search locations
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that cannot be repaired silently.
func (c *Config) Validate() error {
	if err := c.Bake.Validate(); err != nil {
		return fmt.Errorf("invalid bake settings: %w", err)
	}
	if c.Reveal.DefaultAmount < 0 || c.Reveal.DefaultAmount > 1 {
		return fmt.Errorf("reveal.default_amount must be within [0, 1], got %v", c.Reveal.DefaultAmount)
	}
	if c.Reveal.TickRate <= 0 {
		return fmt.Errorf("reveal.tick_rate must be > 0, got %d", c.Reveal.TickRate)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./strokereveal.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "StrokeReveal")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "StrokeReveal")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "strokereveal")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "strokereveal")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
