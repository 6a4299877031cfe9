package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/tabula-dev/tabula/internal/taberr"
)

func init() {
	// Force plain mode in tests so style functions return raw text (no ANSI codes).
	SetMode(ModePlain)
}

func TestFormatError_FullSourceContext(t *testing.T) {
	err := taberr.New(taberr.ErrExecution, "x is not defined").
		WithLocation(3, 5).
		WithSource("let y = x + 1;").
		WithNote("a variable or function was not found in scope").
		WithHelp("available globals are df, stats, ml, plot, print, and console")

	output := FormatError(err)

	checks := []string{
		"error",
		"E3001",
		"x is not defined",
		"-->",
		"code:3:5",
		"let y = x + 1;",
		"^",
		"note:",
		"help:",
		"available globals are df, stats, ml, plot, print, and console",
	}
	for _, want := range checks {
		if !strings.Contains(output, want) {
			t.Errorf("FormatError output missing %q\ngot:\n%s", want, output)
		}
	}
}

func TestFormatError_ContextDetailsWithoutSource(t *testing.T) {
	err := taberr.New(taberr.ErrUnsupportedDataset, "dataset not supported").
		WithDataset("titanic").
		With("available", "iris")

	output := FormatError(err)

	checks := []string{
		"error",
		"E1002",
		"dataset not supported",
		"dataset: titanic",
		"available: iris",
	}
	for _, want := range checks {
		if !strings.Contains(output, want) {
			t.Errorf("FormatError output missing %q\ngot:\n%s", want, output)
		}
	}

	// No location attached, so no arrow line.
	if strings.Contains(output, "-->") {
		t.Errorf("FormatError should not include a location arrow without a location\ngot:\n%s", output)
	}
}

func TestFormatError_CauseStripsNativeFrames(t *testing.T) {
	cause := errors.New("unknown column \"petal\" at github.com/tabula-dev/tabula/internal/runtime.(*environment).bind.func1 (native)")
	err := taberr.Wrap(taberr.ErrExecution, cause, "code execution failed")

	output := FormatError(err)

	if !strings.Contains(output, "cause:") {
		t.Fatalf("FormatError missing cause line\ngot:\n%s", output)
	}
	if !strings.Contains(output, `unknown column "petal"`) {
		t.Errorf("FormatError missing cause message\ngot:\n%s", output)
	}
	if strings.Contains(output, "(native)") {
		t.Errorf("FormatError should strip native stack frames\ngot:\n%s", output)
	}
}

func TestFormatError_GenericError(t *testing.T) {
	output := FormatError(errors.New("something broke"))
	if !strings.Contains(output, "error: something broke") {
		t.Errorf("unexpected generic error output:\n%s", output)
	}
}

func TestFormatError_Nil(t *testing.T) {
	if got := FormatError(nil); got != "" {
		t.Errorf("FormatError(nil) = %q, want empty", got)
	}
}

func TestTable_Render(t *testing.T) {
	tbl := NewTable("NAME", "ROWS")
	tbl.AddRow("iris", "150")
	tbl.AddRow("short")

	output := tbl.String()

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines (header, separator, 2 rows), got %d:\n%s", len(lines), output)
	}
	if !strings.HasPrefix(lines[0], "NAME") {
		t.Errorf("header row = %q", lines[0])
	}
	if !strings.Contains(lines[2], "iris") || !strings.Contains(lines[2], "150") {
		t.Errorf("data row = %q", lines[2])
	}
	// Short row padded with empty cell, must not panic and must render.
	if !strings.Contains(lines[3], "short") {
		t.Errorf("padded row = %q", lines[3])
	}
}

func TestFormatCount(t *testing.T) {
	if got := FormatCount(1, "entry", "entries"); got != "1 entry" {
		t.Errorf("FormatCount(1) = %q", got)
	}
	if got := FormatCount(3, "entry", "entries"); got != "3 entries" {
		t.Errorf("FormatCount(3) = %q", got)
	}
}

func TestOutputModes(t *testing.T) {
	defer SetMode(ModePlain)

	SetMode(ModeJSON)
	if !JSONOutput() || EnableColors() {
		t.Errorf("ModeJSON misreported: mode = %v", Mode())
	}

	SetMode(ModePlain)
	if EnableColors() || JSONOutput() {
		t.Error("plain mode should disable colors and JSON")
	}
}
