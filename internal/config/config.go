// Package config handles configuration loading from TOML files and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Index IndexConfig `toml:"index"`
	Todos TodoConfig  `toml:"todos"`
	Log   LogConfig   `toml:"log"`
}

// IndexConfig controls what the workspace indexer covers.
type IndexConfig struct {
	// Languages restricts indexing to the listed language ids. Empty
	// means every supported language.
	Languages []string `toml:"languages"`

	// IgnorePrefixes are symbol name prefixes the unused-symbol
	// heuristic skips, on top of the underscore default.
	IgnorePrefixes []string `toml:"ignore_prefixes"`
}

// TodoConfig controls the comment scanner.
type TodoConfig struct {
	// Markers are additional marker words reported alongside the
	// builtin TODO/FIXME/HACK set.
	Markers []string `toml:"markers"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a zerolog level name. Defaults to "info" if unset.
	Level string `toml:"level"`
}

// LevelOrDefault returns the configured level or "info" if unset.
func (l LogConfig) LevelOrDefault() string {
	if l.Level == "" {
		return "info"
	}
	return l.Level
}

var validLevels = map[string]bool{
	"trace": true, "debug": true, "info": true,
	"warn": true, "error": true, "disabled": true,
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{}
}

// Load reads configuration from a TOML file and applies environment
// variable overrides. A missing file is an error; callers that treat a
// config file as optional should stat it first and fall back to
// Default.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is required")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error

	if level := c.Log.LevelOrDefault(); !validLevels[level] {
		errs = append(errs, fmt.Errorf("log.level=%q is not a valid level", level))
	}
	for _, marker := range c.Todos.Markers {
		if strings.TrimSpace(marker) == "" {
			errs = append(errs, errors.New("todos.markers: markers must be non-empty"))
		}
	}
	for _, prefix := range c.Index.IgnorePrefixes {
		if prefix == "" {
			errs = append(errs, errors.New("index.ignore_prefixes: prefixes must be non-empty"))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// IndexesLanguage reports whether the given language id should be
// indexed under this configuration.
func (c *Config) IndexesLanguage(lang string) bool {
	if len(c.Index.Languages) == 0 {
		return true
	}
	for _, l := range c.Index.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// applyEnvOverrides applies environment variable overrides to the
// configuration.
func applyEnvOverrides(cfg *Config) {
	for _, setter := range []struct {
		env   string
		apply func(string)
	}{
		{"LOUPE_LOG_LEVEL", func(v string) {
			if v != "" {
				cfg.Log.Level = v
			}
		}},
	} {
		setter.apply(os.Getenv(setter.env))
	}
}
