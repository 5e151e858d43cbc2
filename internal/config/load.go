package config

import (
	"fmt"
	"os"
)

// Load reads, parses, applies env overrides, normalizes, and validates a
// config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	root := ProjectRoot(path)
	Normalize(&cfg, root)
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns a normalized config for runs without a config file.
// Environment overrides still apply.
func Default(root string) (Config, error) {
	cfg := Config{Version: 1}
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	Normalize(&cfg, root)
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
