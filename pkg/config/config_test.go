package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/graphprobe/graphprobe/pkg/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	if cfg.FalkorPort != 6380 {
		t.Errorf("Expected default FalkorDB port 6380, got %d", cfg.FalkorPort)
	}
	if cfg.FalkorDatabase != "shared_knowledge_graph" {
		t.Errorf("Unexpected default database: %s", cfg.FalkorDatabase)
	}
	if cfg.StoreBackend != "jsonfile" {
		t.Errorf("Expected jsonfile backend, got %s", cfg.StoreBackend)
	}
	if cfg.QuoteStyle != "single" {
		t.Errorf("Expected single quote style, got %s", cfg.QuoteStyle)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FALKORDB_HOST", "falkor.internal")
	t.Setenv("FALKORDB_PORT", "6390")
	t.Setenv("FALKORDB_DATABASE", "probe_test")
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("QUOTE_STYLE", "double")
	t.Setenv("DEBUG", "yes")

	cfg := config.Default()
	config.LoadFromEnv(cfg)

	if cfg.FalkorHost != "falkor.internal" {
		t.Errorf("FalkorHost not loaded: %s", cfg.FalkorHost)
	}
	if cfg.FalkorPort != 6390 {
		t.Errorf("FalkorPort not loaded: %d", cfg.FalkorPort)
	}
	if cfg.FalkorDatabase != "probe_test" {
		t.Errorf("FalkorDatabase not loaded: %s", cfg.FalkorDatabase)
	}
	if cfg.StoreBackend != "sqlite" {
		t.Errorf("StoreBackend not loaded: %s", cfg.StoreBackend)
	}
	if cfg.QuoteStyle != "double" {
		t.Errorf("QuoteStyle not loaded: %s", cfg.QuoteStyle)
	}
	if !cfg.Debug {
		t.Error("Debug not loaded")
	}
	if got := cfg.FalkorAddr(); got != "falkor.internal:6390" {
		t.Errorf("Unexpected FalkorAddr: %s", got)
	}
}

func TestLoadFromEnvIgnoresBadNumbers(t *testing.T) {
	t.Setenv("FALKORDB_PORT", "not-a-port")

	cfg := config.Default()
	config.LoadFromEnv(cfg)

	if cfg.FalkorPort != 6380 {
		t.Errorf("Bad port value should keep default, got %d", cfg.FalkorPort)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "graphprobe.yaml")

	content := []byte("falkor_port: 7000\nstore_backend: sqlite\ngroup_id: tenant-a\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	if err := config.LoadFromFile(cfg, path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.FalkorPort != 7000 {
		t.Errorf("Expected port 7000, got %d", cfg.FalkorPort)
	}
	if cfg.StoreBackend != "sqlite" {
		t.Errorf("Expected sqlite backend, got %s", cfg.StoreBackend)
	}
	if cfg.GroupID != "tenant-a" {
		t.Errorf("Expected group id tenant-a, got %s", cfg.GroupID)
	}
	// Untouched fields keep defaults
	if cfg.FalkorHost != "localhost" {
		t.Errorf("FalkorHost should keep default, got %s", cfg.FalkorHost)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := config.Default()
	if err := config.LoadFromFile(cfg, filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Errorf("Missing file should not error: %v", err)
	}
}

func TestValidateRejectsUnknownEnums(t *testing.T) {
	cases := []func(*config.Config){
		func(c *config.Config) { c.StoreBackend = "postgres" },
		func(c *config.Config) { c.QuoteStyle = "backtick" },
		func(c *config.Config) { c.CacheType = "memcached" },
	}

	for i, mutate := range cases {
		cfg := config.Default()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}
