package repeater

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config configures an Engine. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// Window
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	// TPS is the ebiten tick rate used by Run.
	TPS int `yaml:"tps"`
	// FixedTimeStep is the fixedUpdate period in seconds.
	FixedTimeStep float64 `yaml:"fixed_time_step"`
	// MaxFixedSteps caps fixedUpdate emissions per Advance so a long stall
	// does not snowball.
	MaxFixedSteps int `yaml:"max_fixed_steps"`

	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"log_level"`
	// RecoverPanics turns panics raised by listeners during a tick into
	// errors returned from Engine.Step. The rest of that tick is skipped
	// either way.
	RecoverPanics bool `yaml:"recover_panics"`

	// DragDeadZone is the pointer travel, in world units, before a press
	// turns into a drag.
	DragDeadZone float64 `yaml:"drag_dead_zone"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		Title:         "repeater",
		Width:         640,
		Height:        480,
		TPS:           60,
		FixedTimeStep: 1.0 / 60,
		MaxFixedSteps: 5,
		LogLevel:      "info",
		DragDeadZone:  defaultDragDeadZone,
	}
}

var errInvalidConfig = errors.New("repeater: invalid config")

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", errInvalidConfig, c.Width, c.Height)
	case c.TPS <= 0:
		return fmt.Errorf("%w: tps %d", errInvalidConfig, c.TPS)
	case c.FixedTimeStep <= 0:
		return fmt.Errorf("%w: fixed_time_step %v", errInvalidConfig, c.FixedTimeStep)
	case c.MaxFixedSteps <= 0:
		return fmt.Errorf("%w: max_fixed_steps %d", errInvalidConfig, c.MaxFixedSteps)
	case c.DragDeadZone < 0:
		return fmt.Errorf("%w: drag_dead_zone %v", errInvalidConfig, c.DragDeadZone)
	}
	return nil
}

// LoadConfig decodes YAML (or JSON) over DefaultConfig and validates it.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("repeater: decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML or JSON config file.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("repeater: open config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}
