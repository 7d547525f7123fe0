package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/canopy/layout"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "canopy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, layout.ModeConcentric, cfg.Layout.Mode)
	assert.Equal(t, 4.0, cfg.Viewport.MaxScale)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeFile(t, `
layout:
  mode: hierarchical
  collision: minimal
interact:
  hover_clear_delay: 100ms
  keep_pinned: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, layout.ModeHierarchical, cfg.Layout.Mode)
	assert.Equal(t, "minimal", cfg.Layout.Collision)
	assert.Equal(t, 100*time.Millisecond, cfg.Interact.HoverClearDelay.Std())
	assert.True(t, cfg.Interact.KeepPinned)
	// Untouched sections keep defaults.
	assert.Equal(t, 0.8, cfg.Render.LabelMinZoom)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown layout mode", "layout:\n  mode: spiral\n"},
		{"unknown collision mode", "layout:\n  collision: sometimes\n"},
		{"inverted scale bounds", "viewport:\n  min_scale: 2\n  max_scale: 1\n"},
		{"not yaml", "{{{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
