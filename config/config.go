// Package config loads the view configuration: layout and collision modes,
// rendering toggles and thresholds, viewport limits, and gesture tuning.
// Values come from defaults overlaid by an optional YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/TFMV/canopy/layout"
)

// Config is the full view configuration.
type Config struct {
	Layout   LayoutConfig   `yaml:"layout"`
	Render   RenderConfig   `yaml:"render"`
	Viewport ViewportConfig `yaml:"viewport"`
	Interact InteractConfig `yaml:"interact"`
}

// LayoutConfig selects the layout and collision modes.
type LayoutConfig struct {
	Mode      string `yaml:"mode"`
	Collision string `yaml:"collision"`
	// MaxVisibleNodes caps how many nodes the engine accepts per load; zero
	// means no cap.
	MaxVisibleNodes int `yaml:"max_visible_nodes"`
}

// RenderConfig holds the pipeline toggles and level-of-detail thresholds.
type RenderConfig struct {
	ShowRings      bool    `yaml:"show_rings"`
	ShowLevelBadge bool    `yaml:"show_level_badge"`
	ShowChildCount bool    `yaml:"show_child_count"`
	LabelMinZoom   float64 `yaml:"label_min_zoom"`
	BadgeMinZoom   float64 `yaml:"badge_min_zoom"`
	RingLabelZoom  float64 `yaml:"ring_label_min_zoom"`
}

// ViewportConfig bounds the zoom scale.
type ViewportConfig struct {
	MinScale float64 `yaml:"min_scale"`
	MaxScale float64 `yaml:"max_scale"`
}

// InteractConfig tunes the gesture thresholds.
type InteractConfig struct {
	DragThresholdPx   float64  `yaml:"drag_threshold_px"`
	HoverClearDelay   Duration `yaml:"hover_clear_delay"`
	DoubleClickWindow Duration `yaml:"double_click_window"`
	KeepPinned        bool     `yaml:"keep_pinned"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "250ms".
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalYAML accepts either a duration string or integer nanoseconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration %v", value.Value)
	}
	*d = Duration(n)
	return nil
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			Mode:      layout.ModeConcentric,
			Collision: string(layout.CollisionFull),
		},
		Render: RenderConfig{
			ShowRings:      true,
			ShowChildCount: true,
			LabelMinZoom:   0.8,
			BadgeMinZoom:   0.6,
			RingLabelZoom:  0.4,
		},
		Viewport: ViewportConfig{
			MinScale: 0.1,
			MaxScale: 4,
		},
		Interact: InteractConfig{
			DragThresholdPx:   3,
			HoverClearDelay:   Duration(250 * time.Millisecond),
			DoubleClickWindow: Duration(300 * time.Millisecond),
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if _, err := layout.LookupMode(c.Layout.Mode); err != nil {
		return err
	}
	switch layout.CollisionMode(c.Layout.Collision) {
	case layout.CollisionFull, layout.CollisionMinimal, layout.CollisionOff:
	default:
		return fmt.Errorf("unknown collision mode %q", c.Layout.Collision)
	}
	if c.Viewport.MinScale <= 0 || c.Viewport.MaxScale < c.Viewport.MinScale {
		return fmt.Errorf("invalid scale bounds [%g, %g]", c.Viewport.MinScale, c.Viewport.MaxScale)
	}
	return nil
}
