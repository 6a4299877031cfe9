// Package cli renders tabula's terminal output: rustc-style diagnostics
// for sandbox errors, plain tables for dataset and history listings, and
// JSON documents when another program consumes the output.
package cli

import (
	"os"

	"github.com/mattn/go-isatty"
)

// OutputMode selects how command output is rendered.
type OutputMode int

const (
	// ModeTTY renders colored output for interactive terminals.
	ModeTTY OutputMode = iota
	// ModePlain strips colors for pipes and CI logs.
	ModePlain
	// ModeJSON emits structured JSON documents.
	ModeJSON

	modeUnset OutputMode = -1
)

var activeMode = modeUnset

// Mode returns the active output mode. Unless forced with SetMode it is
// detected lazily: a real terminal gets ModeTTY, while NO_COLOR
// (https://no-color.org/) or TERM=dumb downgrade to ModePlain.
func Mode() OutputMode {
	if activeMode == modeUnset {
		activeMode = detectMode()
	}
	return activeMode
}

// SetMode overrides detection. The --json flag and tests use this.
func SetMode(m OutputMode) {
	activeMode = m
}

func detectMode() OutputMode {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return ModePlain
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return ModePlain
	}
	return ModeTTY
}

// EnableColors reports whether styled output should be emitted.
func EnableColors() bool { return Mode() == ModeTTY }

// JSONOutput reports whether commands should emit JSON documents.
func JSONOutput() bool { return Mode() == ModeJSON }
