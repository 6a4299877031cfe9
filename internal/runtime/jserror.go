package runtime

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/dop251/goja"

	"github.com/tabula-dev/tabula/internal/taberr"
)

// jsErrorInfo is the information extracted from a Goja error.
type jsErrorInfo struct {
	Message string
	Line    int
	Column  int
	Stack   string
}

// parseJSError extracts message, position, and stack from a Goja error.
func parseJSError(err error) *jsErrorInfo {
	if err == nil {
		return nil
	}

	info := &jsErrorInfo{Message: err.Error()}

	if syntaxErr, ok := err.(*goja.CompilerSyntaxError); ok {
		info.Message = syntaxErr.Error()
		if syntaxErr.File != nil {
			pos := syntaxErr.File.Position(syntaxErr.Offset)
			info.Line = pos.Line
			info.Column = pos.Column
		}
		return info
	}

	if exception, ok := err.(*goja.Exception); ok {
		info.Message = exception.Value().String()
		info.Stack = exception.String()

		// Skip native Go frames (line 0) to find the first JS call site.
		if frames := exception.Stack(); len(frames) > 0 {
			for _, frame := range frames {
				pos := frame.Position()
				if pos.Line > 0 {
					info.Line = pos.Line
					info.Column = pos.Column
					break
				}
			}
		} else {
			// Syntax errors wrapped in an Exception carry no stack frames;
			// fall back to Goja's "Line X:Y" message format.
			parseGojaErrorMessage(info)
		}
		return info
	}

	return info
}

// parseGojaErrorMessage parses Goja's syntax error message format:
// "SyntaxError: (file): Line X:Y Unexpected token".
func parseGojaErrorMessage(info *jsErrorInfo) {
	msg := info.Message

	lineIdx := strings.Index(msg, "Line ")
	if lineIdx == -1 {
		return
	}
	rest := msg[lineIdx+5:]

	colonIdx := strings.Index(rest, ":")
	if colonIdx == -1 {
		return
	}
	if line, err := strconv.Atoi(rest[:colonIdx]); err == nil {
		info.Line = line
	}

	rest = rest[colonIdx+1:]
	spaceIdx := strings.Index(rest, " ")
	if spaceIdx != -1 {
		if col, err := strconv.Atoi(rest[:spaceIdx]); err == nil {
			info.Column = col
		}
	}
}

// sourceLine returns the 1-indexed line of code, matching Goja's error
// reporting convention.
func sourceLine(code string, lineNum int) string {
	if lineNum <= 0 || code == "" {
		return ""
	}
	scanner := bufio.NewScanner(strings.NewReader(code))
	current := 0
	for scanner.Scan() {
		current++
		if current == lineNum {
			return scanner.Text()
		}
	}
	return ""
}

// wrapJSError converts a Goja error into an execution-fault error with
// position, source context, and a trace when available.
func wrapJSError(err error, code string) *taberr.Error {
	info := parseJSError(err)
	if info == nil {
		return taberr.Wrap(taberr.ErrExecution, err, "execution failed")
	}

	e := taberr.New(taberr.ErrExecution, info.Message)
	if info.Line > 0 {
		e.WithLocation(info.Line, info.Column)
		if line := sourceLine(code, info.Line); line != "" {
			e.WithSource(line)
		}
	}
	if info.Stack != "" {
		e.WithTrace(info.Stack)
	}

	addErrorHelp(e, info.Message)
	return e
}

// bindingHints maps host-facility mentions to the sandbox equivalent.
var bindingHints = map[string]string{
	"date":           "wall-clock time is not available inside the sandbox",
	"settimeout":     "asynchronous scheduling is not available; code runs to completion",
	"setinterval":    "asynchronous scheduling is not available; code runs to completion",
	"xmlhttprequest": "network access is not available inside the sandbox",
}

// addErrorHelp attaches notes based on common failure messages.
func addErrorHelp(e *taberr.Error, message string) {
	msg := strings.ToLower(message)

	for name, hint := range bindingHints {
		if strings.Contains(msg, name) {
			e.WithNote(hint)
			return
		}
	}

	switch {
	case strings.Contains(msg, "is not a function"):
		e.WithNote("attempted to call something that is not a function")
		e.WithHelp("available globals are df, stats, ml, plot, print, and console")
	case strings.Contains(msg, "is not defined"):
		e.WithNote("a variable or function was not found in scope")
		e.WithHelp("available globals are df, stats, ml, plot, print, and console")
	case strings.Contains(msg, "unexpected token"):
		e.WithNote("check for missing brackets, quotes, or commas")
	}
}
