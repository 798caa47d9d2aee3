package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	World   WorldConfig   `toml:"world"`
	Logging LoggingConfig `toml:"logging"`
	Demo    DemoConfig    `toml:"demo"`
}

type WorldConfig struct {
	TickRate     time.Duration `toml:"tick_rate"`
	MaxFrames    uint64        `toml:"max_frames"`    // 0 = run until interrupted
	TypeCapacity int           `toml:"type_capacity"` // distinct component types, at most 256
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type DemoConfig struct {
	Scene       string  `toml:"scene"`
	Profile     string  `toml:"profile"`      // "", "cpu" or "mem"
	HealthDrain float64 `toml:"health_drain"` // health points lost per second
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaults()
}

func (c *Config) validate() error {
	if c.World.TickRate <= 0 {
		return fmt.Errorf("world.tick_rate must be positive, got %s", c.World.TickRate)
	}
	if c.World.TypeCapacity < 1 || c.World.TypeCapacity > 256 {
		return fmt.Errorf("world.type_capacity must be in [1, 256], got %d", c.World.TypeCapacity)
	}
	switch c.Demo.Profile {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("demo.profile %q: want cpu, mem or empty", c.Demo.Profile)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		World: WorldConfig{
			TickRate:     16 * time.Millisecond,
			MaxFrames:    0,
			TypeCapacity: 256,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Demo: DemoConfig{
			Scene:       "data/yaml/scene.yaml",
			HealthDrain: 10,
		},
	}
}
