package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// Config holds the emulator settings read from an optional TOML file.
type Config struct {
	LogLevel     string `toml:"log_level"`
	LogFile      string `toml:"log_file"`
	ANDSetsFlags bool   `toml:"and_sets_flags"` // AND updates COND as in the ISA manual
	RawTerminal  bool   `toml:"raw_terminal"`   // toggle ICANON/ECHO around traps
}

func Default() Config {
	return Config{
		LogLevel:    "warn",
		RawTerminal: true,
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if len(path) == 0 {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return cfg, fmt.Errorf("%s: unknown keys %v", path, undecoded)
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}
