// Package config loads user-level defaults for the CLI (registry URL,
// cache TTL, default output format) from a TOML file, so repeated
// invocations don't need to repeat the same flags.
//
// Grounded on pkg/deps/python/poetry.go's BurntSushi/toml decode
// pattern: decode a fixed-shape struct straight from a file, defaulting
// every field that normal Go zero values already cover correctly.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds user-level CLI defaults.
type Config struct {
	// RegistryURL is the default value of "check --registry", used when
	// no --registry flag is given.
	RegistryURL string `toml:"registry_url"`

	// CacheTTLSeconds is how long a registry response is cached before a
	// refetch is attempted.
	CacheTTLSeconds int `toml:"cache_ttl_seconds"`

	// DefaultFormat is the render format ("dot" or "svg") used when
	// "render --format" is omitted.
	DefaultFormat string `toml:"default_format"`
}

// Default returns the built-in configuration used when no file is
// present.
func Default() Config {
	return Config{CacheTTLSeconds: 3600, DefaultFormat: "dot"}
}

// CacheTTL returns CacheTTLSeconds as a time.Duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Load reads a Config from path, merging decoded fields onto Default.
// A missing file is not an error; Load returns the default config.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
