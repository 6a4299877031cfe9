package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tabula-dev/tabula/internal/dataset"
	"github.com/tabula-dev/tabula/pkg/tabula"
)

// DatasetConfig describes one extra dataset source in tabula.yaml.
// Either CSV or URL must be set; URL sources read Table (or a custom Query).
type DatasetConfig struct {
	CSV   string `yaml:"csv"`
	URL   string `yaml:"url"`
	Table string `yaml:"table"`
	Query string `yaml:"query"`
}

// Config represents the tabula.yaml configuration file.
// Timeout is a Go duration string like "5s" or "500ms".
type Config struct {
	ArtifactDir string                   `yaml:"artifact_dir"`
	Timeout     string                   `yaml:"timeout"`
	MaxOutput   int                      `yaml:"max_output"`
	Datasets    map[string]DatasetConfig `yaml:"datasets"`
}

// loadConfig loads configuration from file and env vars.
// Precedence: env vars > config file > defaults
func loadConfig() (*Config, error) {
	cfg := &Config{
		ArtifactDir: "./artifacts",
	}

	// Load config file if it exists
	if data, err := os.ReadFile(configFile); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Override with env vars
	if envDir := os.Getenv("TABULA_ARTIFACT_DIR"); envDir != "" {
		cfg.ArtifactDir = envDir
	}
	if envTimeout := os.Getenv("TABULA_TIMEOUT"); envTimeout != "" {
		cfg.Timeout = envTimeout
	}

	return cfg, nil
}

// expandEnvVars expands ${VAR} patterns in a string.
func expandEnvVars(s string) string {
	return os.Expand(s, os.Getenv)
}

// sessionOptions converts a Config into session options, registering every
// configured dataset source alongside the builtins.
func (c *Config) sessionOptions() ([]tabula.Option, error) {
	opts := []tabula.Option{
		tabula.WithArtifactDir(c.ArtifactDir),
	}
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
		}
		opts = append(opts, tabula.WithTimeout(d))
	}
	if c.MaxOutput > 0 {
		opts = append(opts, tabula.WithMaxOutput(c.MaxOutput))
	}

	for name, dc := range c.Datasets {
		switch {
		case dc.CSV != "":
			opts = append(opts, tabula.WithDataset(name, dataset.FileSource{
				Path: expandEnvVars(dc.CSV),
			}))
		case dc.URL != "":
			opts = append(opts, tabula.WithDataset(name, dataset.SQLSource{
				URL:   expandEnvVars(dc.URL),
				Table: dc.Table,
				Query: dc.Query,
			}))
		default:
			return nil, fmt.Errorf("dataset %q needs either csv or url", name)
		}
	}

	return opts, nil
}

// newSession creates a session from config.
func newSession(extra ...tabula.Option) (*tabula.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.sessionOptions()
	if err != nil {
		return nil, err
	}
	return tabula.NewSession(append(opts, extra...)...), nil
}

// loadedSession creates a session and loads the named dataset into it.
func loadedSession(name string, extra ...tabula.Option) (*tabula.Session, error) {
	s, err := newSession(extra...)
	if err != nil {
		return nil, err
	}
	if _, err := s.LoadDataset(name); err != nil {
		return nil, err
	}
	return s, nil
}
