package repeater

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"width":           func(c *Config) { c.Width = 0 },
		"height":          func(c *Config) { c.Height = -1 },
		"tps":             func(c *Config) { c.TPS = 0 },
		"fixed_time_step": func(c *Config) { c.FixedTimeStep = 0 },
		"max_fixed_steps": func(c *Config) { c.MaxFixedSteps = 0 },
		"drag_dead_zone":  func(c *Config) { c.DragDeadZone = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), errInvalidConfig)
		})
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(`
title: demo
width: 1280
height: 720
fixed_time_step: 0.02
debug: true
log_level: warn
recover_panics: true
`))
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Title)
	assert.Equal(t, 1280, cfg.Width)
	assert.Equal(t, 720, cfg.Height)
	assert.Equal(t, 0.02, cfg.FixedTimeStep)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.RecoverPanics)
	assert.Equal(t, "warn", cfg.LogLevel)

	// Untouched fields keep their defaults.
	assert.Equal(t, 60, cfg.TPS)
	assert.Equal(t, 5, cfg.MaxFixedSteps)
}

func TestLoadConfigEmptyIsDefault(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigJSON(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(`{"width": 320, "height": 240}`))
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
}

func TestLoadConfigRejectsUnknownField(t *testing.T) {
	_, err := LoadConfig(strings.NewReader("fps: 30\n"))
	assert.Error(t, err)
}

func TestLoadConfigValidates(t *testing.T) {
	_, err := LoadConfig(strings.NewReader("tps: 0\n"))
	assert.ErrorIs(t, err, errInvalidConfig)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: from file\n"), 0o644))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from file", cfg.Title)

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
