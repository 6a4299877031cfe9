// Package runtime provides a restricted, deterministic JavaScript execution
// environment for analysis code, built on the Goja JS engine. Each execution
// gets a fresh VM with only the analysis bindings (df, stats, ml, plot,
// print) in scope, a capped output buffer, and a wall-clock timeout.
package runtime

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/tabula-dev/tabula/internal/dataset"
	"github.com/tabula-dev/tabula/internal/plot"
	"github.com/tabula-dev/tabula/internal/taberr"
)

// FixedSeed is the deterministic seed for Math.random inside the sandbox.
// A fixed seed makes repeated runs of the same code reproducible.
const FixedSeed = 12345

// Defaults for execution limits.
const (
	DefaultTimeout   = 5 * time.Second
	DefaultMaxOutput = 64 * 1024
)

// Sandbox executes analysis code against a working copy of a dataset frame.
// The zero value is not usable; construct with NewSandbox.
type Sandbox struct {
	timeout   time.Duration
	maxOutput int
}

// Option configures a sandbox.
type Option func(*Sandbox)

// WithTimeout sets the wall-clock limit for a single execution.
func WithTimeout(d time.Duration) Option {
	return func(s *Sandbox) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMaxOutput caps the captured print output in bytes.
func WithMaxOutput(n int) Option {
	return func(s *Sandbox) {
		if n > 0 {
			s.maxOutput = n
		}
	}
}

// NewSandbox creates a sandbox with the given limits.
func NewSandbox(opts ...Option) *Sandbox {
	s := &Sandbox{
		timeout:   DefaultTimeout,
		maxOutput: DefaultMaxOutput,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Timeout returns the configured wall-clock limit.
func (s *Sandbox) Timeout() time.Duration { return s.timeout }

// Result is the outcome of one successful execution.
type Result struct {
	// Output is the captured print/console output, possibly truncated.
	Output    string
	Truncated bool

	// Value is the exported value of the final expression, when meaningful.
	Value any

	// Frame is the working copy after the code ran. The caller commits it
	// to the store; the sandbox never touches the stored frame.
	Frame *dataset.Frame

	// Figure is the last figure created by the code, or nil.
	Figure *plot.Figure

	Duration time.Duration
}

// Execute runs code against a working copy of frame. On any error the
// original frame is untouched and no result is returned. The caller is
// responsible for cloning the stored frame before calling Execute; the
// sandbox mutates the frame it is given.
func (s *Sandbox) Execute(code string, frame *dataset.Frame) (res *Result, err error) {
	// Goja converts binding panics that carry a goja.Value into JS
	// exceptions, but a stray Go panic from binding code would escape
	// RunString and take down the process. Turn those into errors.
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = taberr.Newf(taberr.ErrExecution, "execution failed: %v", r)
		}
	}()

	vm := newVM()

	out := newCappedBuffer(s.maxOutput)
	env := &environment{
		vm:    vm,
		out:   out,
		frame: frame,
	}
	env.bind()

	timer := time.AfterFunc(s.timeout, func() {
		vm.Interrupt("execution timeout")
	})
	defer timer.Stop()

	start := time.Now()
	value, err := vm.RunString(code)
	elapsed := time.Since(start)

	if err != nil {
		if _, ok := err.(*goja.InterruptedError); ok {
			return nil, taberr.New(taberr.ErrExecTimeout, "execution exceeded the time limit").
				With("timeout", s.timeout.String()).
				WithHelp("reduce the amount of work or raise the execution timeout")
		}
		return nil, wrapJSError(err, code)
	}
	vm.ClearInterrupt()

	res = &Result{
		Output:    out.String(),
		Truncated: out.Truncated(),
		Frame:     env.frame,
		Figure:    env.figure,
		Duration:  elapsed,
	}
	if value != nil && !goja.IsUndefined(value) && !goja.IsNull(value) && !isFrameObject(value) {
		res.Value = value.Export()
	}
	return res, nil
}

// isFrameObject reports whether a JS value is the df binding, which is not
// meaningful as an execution result.
func isFrameObject(v goja.Value) bool {
	obj, ok := v.(*goja.Object)
	if !ok {
		return false
	}
	marker := obj.Get("_frame")
	return marker != nil && marker.ToBoolean()
}

// newVM builds a hardened VM: stack limit, deterministic Math.random, and
// dangerous globals removed.
func newVM() *goja.Runtime {
	vm := goja.New()

	vm.SetMaxCallStackSize(500)
	// Expose Go structs to JS under their json names, so df.info().rows
	// and df.describe().<col>.mean resolve.
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))

	seedRand := rand.New(rand.NewSource(FixedSeed))
	vm.SetRandSource(func() float64 { return seedRand.Float64() })

	disableDangerousGlobals(vm)
	return vm
}

// disableDangerousGlobals removes JS features that would widen the sandbox
// surface or make execution non-deterministic.
func disableDangerousGlobals(vm *goja.Runtime) {
	vm.Set("eval", goja.Undefined())
	vm.Set("Function", goja.Undefined())
	vm.Set("globalThis", goja.Undefined())

	// Freeze prototypes to prevent pollution attacks; failures are ignored.
	_, _ = vm.RunString(`
		(function() {
			try {
				Object.freeze(Object.prototype);
				Object.freeze(Array.prototype);
				Object.freeze(String.prototype);
				Object.freeze(Number.prototype);
				Object.freeze(Boolean.prototype);
			} catch(e) {}
		})();
	`)
}

// environment holds the per-execution state the bindings close over.
type environment struct {
	vm     *goja.Runtime
	out    *cappedBuffer
	frame  *dataset.Frame
	figure *plot.Figure
	rng    *rand.Rand
}

// bind installs the analysis globals on the VM.
func (e *environment) bind() {
	e.rng = rand.New(rand.NewSource(FixedSeed))

	e.vm.Set("df", e.frameObject(e.frame))
	e.vm.Set("print", e.printFunc())
	e.bindConsole()
	e.bindStats()
	e.bindML()
	e.bindPlot()
}

// printFunc writes space-joined arguments plus a newline to the capture
// buffer, formatting objects as JSON the way console output does.
func (e *environment) printFunc() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = formatValue(arg)
		}
		e.out.WriteString(strings.Join(parts, " "))
		e.out.WriteString("\n")
		return goja.Undefined()
	}
}

func (e *environment) bindConsole() {
	console := e.vm.NewObject()
	logFn := e.printFunc()
	_ = console.Set("log", logFn)
	_ = console.Set("info", logFn)
	_ = console.Set("warn", logFn)
	_ = console.Set("error", logFn)
	e.vm.Set("console", console)
}

// throw raises a JS exception carrying a Go-side error message.
func (e *environment) throw(err error) {
	panic(e.vm.ToValue(err.Error()))
}

func (e *environment) throwf(format string, args ...any) {
	panic(e.vm.ToValue(fmt.Sprintf(format, args...)))
}
