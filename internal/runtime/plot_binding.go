package runtime

import (
	"github.com/dop251/goja"

	"github.com/tabula-dev/tabula/internal/plot"
)

// bindPlot installs the `plot` object. Each call replaces the pending
// figure; the last figure standing when the code finishes is the one
// captured as an artifact.
func (e *environment) bindPlot() {
	p := e.vm.NewObject()

	_ = p.Set("scatter", func(call goja.FunctionCall) goja.Value {
		x := e.floatsArg(call, 0, "plot.scatter")
		y := e.floatsArg(call, 1, "plot.scatter")
		fig, err := plot.NewScatter(e.optString(call, 2), x, y)
		if err != nil {
			e.throw(err)
		}
		e.figure = fig
		return goja.Undefined()
	})

	_ = p.Set("line", func(call goja.FunctionCall) goja.Value {
		y := e.floatsArg(call, 0, "plot.line")
		fig, err := plot.NewLine(e.optString(call, 1), nil, y)
		if err != nil {
			e.throw(err)
		}
		e.figure = fig
		return goja.Undefined()
	})

	_ = p.Set("histogram", func(call goja.FunctionCall) goja.Value {
		values := e.floatsArg(call, 0, "plot.histogram")
		bins := 0
		if len(call.Arguments) > 1 {
			bins = int(call.Arguments[1].ToInteger())
		}
		fig, err := plot.NewHistogram(e.optString(call, 2), values, bins)
		if err != nil {
			e.throw(err)
		}
		e.figure = fig
		return goja.Undefined()
	})

	_ = p.Set("bar", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			e.throwf("plot.bar() requires labels and heights")
		}
		labels, ok := toStrings(call.Arguments[0].Export())
		if !ok {
			e.throwf("plot.bar() labels must be an array of strings")
		}
		heights := e.floatsArg(call, 1, "plot.bar")
		fig, err := plot.NewBar(e.optString(call, 2), labels, heights)
		if err != nil {
			e.throw(err)
		}
		e.figure = fig
		return goja.Undefined()
	})

	_ = p.Set("heatmap", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			e.throwf("plot.heatmap() requires names and a matrix")
		}
		names, ok := toStrings(call.Arguments[0].Export())
		if !ok {
			e.throwf("plot.heatmap() names must be an array of strings")
		}
		matrix := e.matrixArg(call, 1, "plot.heatmap")
		fig, err := plot.NewHeatmap(e.optString(call, 2), names, matrix)
		if err != nil {
			e.throw(err)
		}
		e.figure = fig
		return goja.Undefined()
	})

	e.vm.Set("plot", p)
}

// optString reads an optional trailing string argument, typically a title.
func (e *environment) optString(call goja.FunctionCall, idx int) string {
	if len(call.Arguments) <= idx {
		return ""
	}
	arg := call.Arguments[idx]
	if goja.IsUndefined(arg) || goja.IsNull(arg) {
		return ""
	}
	return arg.String()
}
