package cli

import (
	"fmt"
	"strings"

	"github.com/tabula-dev/tabula/internal/taberr"
)

// FormatError formats an error for CLI display in Cargo/rustc style.
// If the error is a *taberr.Error, it extracts structured information.
// Otherwise, it formats as a generic error.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	if te, ok := err.(*taberr.Error); ok {
		return formatTabError(te)
	}

	return formatGenericError(err)
}

// formatTabError formats a *taberr.Error in Cargo style.
func formatTabError(err *taberr.Error) string {
	var b strings.Builder

	code := string(err.GetCode())
	msg := err.GetMessage()
	ctx := err.GetContext()

	// First line: error[E3001]: message
	b.WriteString(Error("error"))
	b.WriteString("[")
	b.WriteString(Code(code))
	b.WriteString("]: ")
	b.WriteString(msg)
	b.WriteString("\n")

	line, col, hasLoc := err.Location()
	if hasLoc {
		b.WriteString("  ")
		b.WriteString(stylePipe.Render("-->"))
		b.WriteString(" ")
		loc := fmt.Sprintf("code:%d", line)
		if col > 0 {
			loc = fmt.Sprintf("code:%d:%d", line, col)
		}
		b.WriteString(Highlight(loc))
		b.WriteString("\n")
	}

	// Source context if available
	source, hasSource := ctx["source"].(string)
	var linePadding string
	if hasSource && hasLoc {
		b.WriteString(formatSourceContext(line, source, col))
		lineStr := fmt.Sprintf("%d", line)
		linePadding = strings.Repeat(" ", len(lineStr)) + " "
	}

	// Context details (excluding already shown items)
	excludeKeys := map[string]bool{
		"line": true, "column": true, "source": true,
		"trace": true, "notes": true, "helps": true,
	}

	var details []string
	for k, v := range ctx {
		if excludeKeys[k] {
			continue
		}
		details = append(details, fmt.Sprintf("%s: %v", k, v))
	}

	if len(details) > 0 && !hasSource {
		b.WriteString("   ")
		b.WriteString(Pipe())
		b.WriteString("\n")
		for _, detail := range details {
			b.WriteString("   ")
			b.WriteString(Pipe())
			b.WriteString(" ")
			b.WriteString(detail)
			b.WriteString("\n")
		}
	}

	for _, note := range err.Notes() {
		b.WriteString("   ")
		b.WriteString(Pipe())
		b.WriteString("\n")
		b.WriteString(Note("note"))
		b.WriteString(": ")
		b.WriteString(note)
		b.WriteString("\n")
	}

	for _, help := range err.Helps() {
		b.WriteString(Help("help"))
		b.WriteString(": ")
		b.WriteString(help)
		b.WriteString("\n")
	}

	if cause := err.GetCause(); cause != nil {
		if linePadding != "" {
			b.WriteString(linePadding)
		} else {
			b.WriteString("   ")
		}
		b.WriteString(Pipe())
		b.WriteString("\n")
		b.WriteString(Note("cause"))
		b.WriteString(": ")
		b.WriteString(cleanCauseMessage(cause.Error()))
		b.WriteString("\n")
	}

	return b.String()
}

// cleanCauseMessage removes Goja stack trace noise from error messages.
// Strips " at github.com/.../func (native)" patterns for cleaner output.
func cleanCauseMessage(msg string) string {
	if idx := strings.Index(msg, " at github.com"); idx != -1 {
		msg = strings.TrimSpace(msg[:idx])
	}
	return msg
}

// formatSourceContext renders the offending source line with a line number
// and a caret pointing at the reported column.
func formatSourceContext(line int, source string, col int) string {
	var b strings.Builder

	lineStr := fmt.Sprintf("%d", line)
	padding := strings.Repeat(" ", len(lineStr))

	// Empty line with pipe
	b.WriteString(padding)
	b.WriteString(" ")
	b.WriteString(Pipe())
	b.WriteString("\n")

	// Source line: "3 | df.drop("species")"
	b.WriteString(LineNum(lineStr))
	b.WriteString(" ")
	b.WriteString(Pipe())
	b.WriteString(" ")
	b.WriteString(source)
	b.WriteString("\n")

	// Pointer line: "  |     ^"
	if col > 0 {
		b.WriteString(padding)
		b.WriteString(" ")
		b.WriteString(Pipe())
		b.WriteString(" ")
		if col > 1 {
			b.WriteString(strings.Repeat(" ", col-1))
		}
		b.WriteString(Pointer("^"))
		b.WriteString("\n")
	}

	// Closing pipe line
	b.WriteString(padding)
	b.WriteString(" ")
	b.WriteString(Pipe())
	b.WriteString("\n")

	return b.String()
}

// formatGenericError formats a non-taberr error.
func formatGenericError(err error) string {
	var b strings.Builder
	b.WriteString(Error("error"))
	b.WriteString(": ")
	b.WriteString(err.Error())
	b.WriteString("\n")
	return b.String()
}

// FormatNote formats a note message.
func FormatNote(msg string) string {
	return Note("note") + ": " + msg + "\n"
}

// FormatSuccess formats a success message.
func FormatSuccess(msg string) string {
	return Success("success") + ": " + msg + "\n"
}
