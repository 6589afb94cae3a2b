// Package config loads the emulator's TOML configuration file with
// github.com/BurntSushi/toml.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk emulator configuration.
type Config struct {
	BIOSPath  string `toml:"bios_path"`
	SaveDir   string `toml:"save_dir"`
	Video     VideoConfig
	Input     InputConfig
}

type VideoConfig struct {
	Scale      int  `toml:"scale"`
	VSync      bool `toml:"vsync"`
}

type InputConfig struct {
	// Button name -> host key name, e.g. "A" -> "Z".
	KeyMap map[string]string `toml:"keymap"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{
		SaveDir: ".",
		Video:   VideoConfig{Scale: 2, VSync: true},
		Input:   InputConfig{KeyMap: defaultKeyMap()},
	}
}

func defaultKeyMap() map[string]string {
	return map[string]string{
		"A": "X", "B": "Z", "Select": "RShift", "Start": "Return",
		"Right": "Right", "Left": "Left", "Up": "Up", "Down": "Down",
		"R": "S", "L": "A",
	}
}

// Load reads and parses a TOML config file, filling any field the file
// omits with its Default() value.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Input.KeyMap == nil {
		cfg.Input.KeyMap = defaultKeyMap()
	}
	return cfg, nil
}
