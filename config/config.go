// Package config loads the TOML configuration with built-in defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Game    GameConfig    `toml:"game"`
	Physics PhysicsConfig `toml:"physics"`
	Audio   AudioConfig   `toml:"audio"`
	Logging LoggingConfig `toml:"logging"`
	Paths   PathsConfig   `toml:"paths"`
	Render  RenderConfig  `toml:"render"`
}

type GameConfig struct {
	TickRate time.Duration `toml:"tick_rate"`
	Players  int           `toml:"players"`  // local players, 1-4
	Wraiths  int           `toml:"wraiths"`  // initial wraith count; 0 uses the map's spawns
	Seed     int64         `toml:"seed"`     // 0 picks a random seed
	Duration time.Duration `toml:"duration"` // 0 runs until quit
}

type PhysicsConfig struct {
	GravityX   float64 `toml:"gravity_x"`
	GravityY   float64 `toml:"gravity_y"`
	Damping    float64 `toml:"damping"` // fraction of velocity kept per second
	Iterations int     `toml:"iterations"`
}

type AudioConfig struct {
	Enabled    bool    `toml:"enabled"`
	Volume     float64 `toml:"volume"` // master volume 0-1
	SampleRate int     `toml:"sample_rate"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // the screen owns stdout, so logs go to a file
}

type PathsConfig struct {
	Data    string `toml:"data"`    // world table override; empty uses the embedded table
	Scripts string `toml:"scripts"` // directory with *.lua overrides
}

type RenderConfig struct {
	CellScale float64 `toml:"cell_scale"` // world units per terminal column
	Headless  bool    `toml:"headless"`   // run without a screen
}

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid config")

// Load reads path over the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes TOML over the defaults and validates the result
func Parse(data []byte, name string) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", name, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", name, err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Game: GameConfig{
			TickRate: 16 * time.Millisecond,
			Players:  2,
		},
		Physics: PhysicsConfig{
			Damping:    1,
			Iterations: 10,
		},
		Audio: AudioConfig{
			Enabled:    true,
			Volume:     0.6,
			SampleRate: 44100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "fortress.log",
		},
		Render: RenderConfig{
			CellScale: 1,
		},
	}
}

func (c *Config) Validate() error {
	switch {
	case c.Game.TickRate <= 0:
		return fmt.Errorf("%w: game.tick_rate must be positive", ErrInvalid)
	case c.Game.Players < 1 || c.Game.Players > 4:
		return fmt.Errorf("%w: game.players must be 1-4, got %d", ErrInvalid, c.Game.Players)
	case c.Game.Wraiths < 0:
		return fmt.Errorf("%w: game.wraiths must not be negative", ErrInvalid)
	case c.Physics.Damping <= 0 || c.Physics.Damping > 1:
		return fmt.Errorf("%w: physics.damping must be in (0, 1], got %g", ErrInvalid, c.Physics.Damping)
	case c.Physics.Iterations <= 0:
		return fmt.Errorf("%w: physics.iterations must be positive", ErrInvalid)
	case c.Audio.Volume < 0 || c.Audio.Volume > 1:
		return fmt.Errorf("%w: audio.volume must be in [0, 1], got %g", ErrInvalid, c.Audio.Volume)
	case c.Audio.SampleRate <= 0:
		return fmt.Errorf("%w: audio.sample_rate must be positive", ErrInvalid)
	case c.Render.CellScale <= 0:
		return fmt.Errorf("%w: render.cell_scale must be positive", ErrInvalid)
	case c.Logging.Format != "json" && c.Logging.Format != "console":
		return fmt.Errorf("%w: logging.format must be json or console, got %q", ErrInvalid, c.Logging.Format)
	}
	return nil
}
