// Package config loads the daemon's keypad layout from a YAML file. The file
// assigns a visual (still image, SVG, solid color, or GIF animation) to each
// grid key and optionally to the full screen.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/GarThor/logilinux/internal/protocol"
)

// Config is the full daemon layout.
type Config struct {
	Screen *Visual     `yaml:"screen,omitempty"`
	Keys   []KeyConfig `yaml:"keys"`
}

// KeyConfig binds one visual to a grid key (0-8, row-major from top-left).
type KeyConfig struct {
	Key    int `yaml:"key"`
	Visual `yaml:",inline"`
}

// Visual describes what to show on one surface. Exactly one of Image, Color,
// or GIF must be set. Image covers PNG, JPEG, GIF stills, and SVG by file
// extension; Color is rrggbb hex; GIF animates, looping unless Loop is false.
type Visual struct {
	Image string `yaml:"image,omitempty"`
	Color string `yaml:"color,omitempty"`
	GIF   string `yaml:"gif,omitempty"`
	Loop  *bool  `yaml:"loop,omitempty"`
}

// ShouldLoop reports whether a GIF visual loops. Unset means loop.
func (v *Visual) ShouldLoop() bool {
	return v.Loop == nil || *v.Loop
}

func (v *Visual) validate(where string) error {
	set := 0
	for _, s := range []string{v.Image, v.Color, v.GIF} {
		if s != "" {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("%s: exactly one of image, color, or gif must be set", where)
	}
	if v.Loop != nil && v.GIF == "" {
		return fmt.Errorf("%s: loop only applies to gif", where)
	}
	return nil
}

// Validate checks key ranges, duplicate assignments, and that every visual
// names exactly one source.
func (c *Config) Validate() error {
	if c.Screen != nil {
		if err := c.Screen.validate("screen"); err != nil {
			return err
		}
	}

	seen := make(map[int]bool)
	for i := range c.Keys {
		kc := &c.Keys[i]
		if !protocol.ValidKey(kc.Key) {
			return fmt.Errorf("keys[%d]: key %d out of range 0-%d", i, kc.Key, protocol.KeyCount-1)
		}
		if seen[kc.Key] {
			return fmt.Errorf("keys[%d]: key %d assigned twice", i, kc.Key)
		}
		seen[kc.Key] = true
		if err := kc.validate(fmt.Sprintf("keys[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "logilinux")
}

// DefaultConfigPath returns the default config file path, honoring the
// LOGILINUX_CONFIG environment variable.
func DefaultConfigPath() string {
	if p := os.Getenv("LOGILINUX_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Load reads and validates the layout at path. An empty path means the
// default location; a missing file there yields an empty layout, while an
// explicitly named file must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// WriteConfigFile writes the layout to the default config file, creating the
// directory if needed.
func WriteConfigFile(cfg *Config) error {
	dir := filepath.Dir(DefaultConfigPath())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(DefaultConfigPath(), data, 0o644)
}
