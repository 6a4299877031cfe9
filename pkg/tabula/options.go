package tabula

import (
	"time"

	"github.com/tabula-dev/tabula/internal/dataset"
)

// Config holds all configuration options for a Session.
type Config struct {
	// Timeout is the wall-clock limit for a single execution.
	// Default: 5s
	Timeout time.Duration

	// MaxOutput caps captured print output in bytes.
	// Default: 64 KiB
	MaxOutput int

	// ArtifactDir is where rendered figures are written. Empty keeps
	// figures inline (base64) only.
	ArtifactDir string

	// ScreenTokens overrides the builtin denylist when non-empty.
	ScreenTokens []string

	// Datasets maps extra dataset names to their sources, on top of the
	// builtins.
	Datasets map[string]dataset.Source

	// Logger is used for logging operations.
	// If nil, no logging is performed.
	Logger Logger
}

// Logger is the interface for logging operations.
// It's compatible with the standard library's log.Logger.
type Logger interface {
	// Printf writes a formatted message to the log.
	Printf(format string, v ...any)
}

// Option is a functional option for configuring a Session.
type Option func(*Config)

// WithTimeout sets the execution time limit.
// Default: 5s
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithMaxOutput caps captured print output in bytes.
// Default: 64 KiB
func WithMaxOutput(n int) Option {
	return func(c *Config) {
		c.MaxOutput = n
	}
}

// WithArtifactDir sets the directory for rendered figure files.
// If not set, figures are returned inline only.
func WithArtifactDir(dir string) Option {
	return func(c *Config) {
		c.ArtifactDir = dir
	}
}

// WithScreenTokens replaces the builtin code denylist.
func WithScreenTokens(tokens ...string) Option {
	return func(c *Config) {
		c.ScreenTokens = tokens
	}
}

// WithDataset registers an extra named dataset source.
//
// Examples:
//   - CSV file: WithDataset("sales", dataset.FileSource{Path: "sales.csv"})
//   - SQL table: WithDataset("users", dataset.SQLSource{URL: dbURL, Table: "users"})
func WithDataset(name string, src dataset.Source) Option {
	return func(c *Config) {
		if c.Datasets == nil {
			c.Datasets = make(map[string]dataset.Source)
		}
		c.Datasets[name] = src
	}
}

// WithLogger sets the logger for the session.
// If not set, no logging is performed.
func WithLogger(l Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// nopLogger discards all log output.
type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
