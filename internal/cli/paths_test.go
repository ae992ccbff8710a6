package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDirXDG(t *testing.T) {
	customCache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", customCache)
	t.Setenv(configEnv, "")

	c := New(io.Discard, LogInfo)
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestCacheDirFromConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "netblend.toml")
	if err := os.WriteFile(cfgPath, []byte("[cache]\ndir = \"/srv/netblend-cache\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	c.configPath = cfgPath
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != "/srv/netblend-cache" {
		t.Errorf("cacheDir() = %q, want the configured directory", dir)
	}
}

func TestConfigFromEnv(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "netblend.toml")
	if err := os.WriteFile(cfgPath, []byte("[server]\naddr = \":9999\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(configEnv, cfgPath)

	cfg, err := New(io.Discard, LogInfo).loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}
