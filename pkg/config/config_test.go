package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/swarmcheck/pkg/config"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != config.Default() {
		t.Errorf("Load() = %+v, want default %+v", cfg, config.Default())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `
registry_url = "https://registry.example.com"
cache_ttl_seconds = 60
default_format = "svg"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.RegistryURL != "https://registry.example.com" {
		t.Errorf("RegistryURL = %q", cfg.RegistryURL)
	}
	if cfg.CacheTTL() != 60*time.Second {
		t.Errorf("CacheTTL() = %v, want 60s", cfg.CacheTTL())
	}
	if cfg.DefaultFormat != "svg" {
		t.Errorf("DefaultFormat = %q", cfg.DefaultFormat)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("not = [valid"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.Load(path); err == nil {
		t.Fatal("Load() error = nil, want a decode error")
	}
}
