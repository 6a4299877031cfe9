// Package taberr provides standardized error handling for Tabula.
// All errors have stable, machine-readable codes, structured context, and proper wrapping.
package taberr

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// Code represents a stable, machine-readable error code.
// Format: E{category}{number} where category is 1-9 and number is 001-999.
type Code string

// Error codes organized by category.
const (
	// Dataset errors (E1xxx) - problems with the dataset store and loader
	ErrNoDataset          Code = "E1001" // Operation requires a loaded dataset
	ErrUnsupportedDataset Code = "E1002" // Named dataset is not registered
	ErrDatasetLoad        Code = "E1003" // Dataset source failed to load
	ErrColumnNotFound     Code = "E1004" // Referenced column does not exist
	ErrColumnType         Code = "E1005" // Column has the wrong type for the operation
	ErrFrameInvalid       Code = "E1006" // Frame invariant violated (ragged columns, dup names)

	// Screening errors (E2xxx) - code rejected before execution
	ErrScreeningRejected Code = "E2001" // Code matched a disallowed token

	// Execution errors (E3xxx) - problems while running sandboxed code
	ErrExecution   Code = "E3001" // Sandboxed code raised an error
	ErrExecTimeout Code = "E3002" // Sandboxed code exceeded the wall-clock budget

	// Artifact errors (E4xxx) - problems capturing graphical output
	ErrArtifactCapture Code = "E4001" // Visualization produced no figure
	ErrArtifactEncode  Code = "E4002" // Figure could not be rendered or encoded
	ErrArtifactWrite   Code = "E4003" // Artifact file could not be written

	// Source errors (E5xxx) - problems with external dataset sources
	ErrSourceConnection Code = "E5001" // Database connection failed
	ErrSourceQuery      Code = "E5002" // Source query failed
	ErrSourceParse      Code = "E5003" // Source data could not be parsed

	// History errors (E6xxx) - problems with the execution ledger
	ErrHistoryIntegrity Code = "E6001" // Ledger checksum chain is broken

	// Internal errors (E9xxx) - unexpected internal errors
	ErrInternal Code = "E9001" // Internal error
)

// Error is the standard error type for Tabula.
// It provides structured error information with codes, context, and wrapping support.
type Error struct {
	code    Code           // Machine-readable error code
	message string         // Human-readable error message
	context map[string]any // Structured context data
	cause   error          // Wrapped underlying error
	stack   string         // Stack trace for debugging
}

// Error returns the formatted error string.
// Format:
//
//	[E2001] operation 'process' is not allowed
//	  token: process
//	  position: 14
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.code, e.message))

	// Write context in sorted order for deterministic output
	if len(e.context) > 0 {
		keys := make([]string, 0, len(e.context))
		for k := range e.context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			b.WriteString(fmt.Sprintf("\n  %s: %v", k, e.context[k]))
		}
	}

	if e.cause != nil {
		b.WriteString(fmt.Sprintf("\n  cause: %v", e.cause))
	}

	return b.String()
}

// Unwrap returns the underlying cause error for errors.Unwrap compatibility.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether the target error matches this error.
// It matches if target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.code == targetErr.code
	}

	return false
}

// GetCode returns the error code.
func (e *Error) GetCode() Code {
	return e.code
}

// GetMessage returns the error message.
func (e *Error) GetMessage() string {
	return e.message
}

// GetContext returns the error context map.
func (e *Error) GetContext() map[string]any {
	return e.context
}

// GetCause returns the underlying cause error.
func (e *Error) GetCause() error {
	return e.cause
}

// GetStack returns the stack trace.
func (e *Error) GetStack() string {
	return e.stack
}

// With adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *Error) With(key string, value any) *Error {
	if e.context == nil {
		e.context = make(map[string]any)
	}
	e.context[key] = value
	return e
}

// WithDataset adds dataset name context to the error.
func (e *Error) WithDataset(name string) *Error {
	return e.With("dataset", name)
}

// WithColumn adds column context to the error.
func (e *Error) WithColumn(name string) *Error {
	return e.With("column", name)
}

// WithToken adds the matched screening token to the error.
func (e *Error) WithToken(token string) *Error {
	return e.With("token", token)
}

// WithLocation adds source location context (line, column) from the sandbox.
func (e *Error) WithLocation(line, col int) *Error {
	if line > 0 {
		e.With("line", line)
	}
	if col > 0 {
		e.With("column", col)
	}
	return e
}

// WithSource adds the offending source code line for display in error messages.
func (e *Error) WithSource(source string) *Error {
	return e.With("source", source)
}

// WithTrace adds a diagnostic trace (JS stack) to the error.
func (e *Error) WithTrace(trace string) *Error {
	if trace != "" {
		e.With("trace", trace)
	}
	return e
}

// WithNote adds a note to the error (displayed as "note: ...").
func (e *Error) WithNote(note string) *Error {
	notes, _ := e.context["notes"].([]string)
	notes = append(notes, note)
	return e.With("notes", notes)
}

// WithHelp adds a help suggestion to the error (displayed as "help: ...").
func (e *Error) WithHelp(help string) *Error {
	helps, _ := e.context["helps"].([]string)
	helps = append(helps, help)
	return e.With("helps", helps)
}

// Location returns the source location if set.
func (e *Error) Location() (line, col int, ok bool) {
	line, _ = e.context["line"].(int)
	col, _ = e.context["column"].(int)
	ok = line > 0
	return
}

// Trace returns the diagnostic trace if set.
func (e *Error) Trace() string {
	trace, _ := e.context["trace"].(string)
	return trace
}

// Notes returns all notes attached to this error.
func (e *Error) Notes() []string {
	notes, _ := e.context["notes"].([]string)
	return notes
}

// Helps returns all help suggestions attached to this error.
func (e *Error) Helps() []string {
	helps, _ := e.context["helps"].([]string)
	return helps
}

// captureStack captures a stack trace for debugging.
func captureStack(skip int) string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return ""
	}

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		// Skip runtime internals
		if strings.Contains(frame.File, "runtime/") {
			if !more {
				break
			}
			continue
		}
		b.WriteString(fmt.Sprintf("%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line))
		if !more {
			break
		}
	}
	return b.String()
}

// New creates a new Error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{
		code:    code,
		message: msg,
		context: make(map[string]any),
		stack:   captureStack(3),
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{
		code:    code,
		message: fmt.Sprintf(format, args...),
		context: make(map[string]any),
		stack:   captureStack(3),
	}
}

// Wrap creates a new Error that wraps an existing error.
func Wrap(code Code, err error, msg string) *Error {
	if err == nil {
		return New(code, msg)
	}
	return &Error{
		code:    code,
		message: msg,
		context: make(map[string]any),
		cause:   err,
		stack:   captureStack(3),
	}
}

// Wrapf creates a new Error that wraps an existing error with a formatted message.
func Wrapf(code Code, err error, format string, args ...any) *Error {
	return Wrap(code, err, fmt.Sprintf(format, args...))
}

// GetErrorCode extracts the error code from an error chain.
// Returns empty string if no code is found.
func GetErrorCode(err error) Code {
	if err == nil {
		return ""
	}

	var terr *Error
	if errors.As(err, &terr) {
		return terr.code
	}

	return ""
}

// Is checks if an error has the specified code.
func Is(err error, code Code) bool {
	return GetErrorCode(err) == code
}

// HasCode checks if an error has any error code.
func HasCode(err error) bool {
	return GetErrorCode(err) != ""
}
