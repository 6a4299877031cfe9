package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tabula.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	old := configFile
	configFile = path
	t.Cleanup(func() { configFile = old })
}

func TestLoadConfigDefaults(t *testing.T) {
	old := configFile
	configFile = filepath.Join(t.TempDir(), "missing.yaml")
	t.Cleanup(func() { configFile = old })

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.ArtifactDir != "./artifacts" {
		t.Errorf("ArtifactDir = %q, want ./artifacts", cfg.ArtifactDir)
	}
}

func TestLoadConfigFile(t *testing.T) {
	writeConfig(t, `
artifact_dir: /tmp/charts
timeout: 2s
max_output: 1024
datasets:
  sales:
    csv: ./data/sales.csv
  users:
    url: postgres://app@localhost:5432/app
    table: users
`)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.ArtifactDir != "/tmp/charts" {
		t.Errorf("ArtifactDir = %q", cfg.ArtifactDir)
	}
	if cfg.Timeout != "2s" {
		t.Errorf("Timeout = %q", cfg.Timeout)
	}
	if cfg.MaxOutput != 1024 {
		t.Errorf("MaxOutput = %d", cfg.MaxOutput)
	}
	if len(cfg.Datasets) != 2 {
		t.Fatalf("Datasets = %v", cfg.Datasets)
	}
	if cfg.Datasets["sales"].CSV != "./data/sales.csv" {
		t.Errorf("sales = %+v", cfg.Datasets["sales"])
	}
	if cfg.Datasets["users"].Table != "users" {
		t.Errorf("users = %+v", cfg.Datasets["users"])
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	writeConfig(t, "artifact_dir: /tmp/charts\ntimeout: 2s\n")
	t.Setenv("TABULA_ARTIFACT_DIR", "/tmp/override")
	t.Setenv("TABULA_TIMEOUT", "750ms")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.ArtifactDir != "/tmp/override" {
		t.Errorf("ArtifactDir = %q, env should win", cfg.ArtifactDir)
	}
	if cfg.Timeout != "750ms" {
		t.Errorf("Timeout = %q, env should win", cfg.Timeout)
	}
}

func TestSessionOptionsBadTimeout(t *testing.T) {
	cfg := &Config{Timeout: "soon"}
	if _, err := cfg.sessionOptions(); err == nil {
		t.Error("expected error for invalid timeout")
	}
}

func TestSessionOptionsIncompleteDataset(t *testing.T) {
	cfg := &Config{Datasets: map[string]DatasetConfig{"broken": {}}}
	if _, err := cfg.sessionOptions(); err == nil {
		t.Error("expected error for dataset without csv or url")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TABULA_TEST_DB", "postgres://app@db:5432/app")
	got := expandEnvVars("${TABULA_TEST_DB}")
	if got != "postgres://app@db:5432/app" {
		t.Errorf("expandEnvVars = %q", got)
	}
}
