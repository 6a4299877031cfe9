package runtime

import (
	"github.com/dop251/goja"

	"github.com/tabula-dev/tabula/internal/analysis"
	"github.com/tabula-dev/tabula/internal/dataset"
	"github.com/tabula-dev/tabula/internal/taberr"
)

// frameObject builds the `df` binding. Methods read and mutate the
// environment's working frame, so structural operations (filter, sortBy)
// swap the frame underneath the same JS object.
func (e *environment) frameObject(initial *dataset.Frame) *goja.Object {
	e.frame = initial

	obj := e.vm.NewObject()
	_ = obj.Set("_frame", true)

	_ = obj.Set("shape", func(goja.FunctionCall) goja.Value {
		rows, cols := e.frame.Shape()
		return e.vm.ToValue([]int{rows, cols})
	})

	_ = obj.Set("count", func(goja.FunctionCall) goja.Value {
		return e.vm.ToValue(e.frame.Rows())
	})

	_ = obj.Set("columns", func(goja.FunctionCall) goja.Value {
		return e.vm.ToValue(e.frame.ColumnNames())
	})

	_ = obj.Set("head", func(call goja.FunctionCall) goja.Value {
		n := 5
		if len(call.Arguments) > 0 {
			n = int(call.Arguments[0].ToInteger())
		}
		if n < 0 {
			n = 0
		}
		return e.vm.ToValue(e.frame.Head(n))
	})

	_ = obj.Set("row", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			e.throwf("row() requires an index")
		}
		i := int(call.Arguments[0].ToInteger())
		if i < 0 || i >= e.frame.Rows() {
			e.throwf("row index %d out of range [0, %d)", i, e.frame.Rows())
		}
		return e.vm.ToValue(e.frame.Row(i))
	})

	_ = obj.Set("values", func(call goja.FunctionCall) goja.Value {
		col := e.requireColumn(call, "values")
		if col.Kind == dataset.String {
			return e.vm.ToValue(col.Strings)
		}
		return e.vm.ToValue(col.Floats)
	})

	_ = obj.Set("numeric", func(call goja.FunctionCall) goja.Value {
		name := e.requireString(call, 0, "numeric", "column name")
		values, err := e.frame.NumericValues(name)
		if err != nil {
			e.throw(err)
		}
		return e.vm.ToValue(values)
	})

	_ = obj.Set("set", func(call goja.FunctionCall) goja.Value {
		name := e.requireString(call, 0, "set", "column name")
		if len(call.Arguments) < 2 {
			e.throwf("set() requires a column name and values")
		}
		exported := call.Arguments[1].Export()
		if values, ok := toFloats(exported); ok {
			if err := e.frame.SetColumn(name, values); err != nil {
				e.throw(err)
			}
			return obj
		}
		if values, ok := toStrings(exported); ok {
			if err := e.frame.SetColumn(name, values); err != nil {
				e.throw(err)
			}
			return obj
		}
		e.throw(taberr.New(taberr.ErrColumnType, "set() values must be an array of numbers or strings").
			WithColumn(name))
		return goja.Undefined()
	})

	_ = obj.Set("drop", func(call goja.FunctionCall) goja.Value {
		name := e.requireString(call, 0, "drop", "column name")
		if err := e.frame.Drop(name); err != nil {
			e.throw(err)
		}
		return obj
	})

	_ = obj.Set("rename", func(call goja.FunctionCall) goja.Value {
		oldName := e.requireString(call, 0, "rename", "current name")
		newName := e.requireString(call, 1, "rename", "new name")
		if err := e.frame.Rename(oldName, newName); err != nil {
			e.throw(err)
		}
		return obj
	})

	_ = obj.Set("filter", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			e.throwf("filter() requires a predicate function")
		}
		pred, ok := goja.AssertFunction(call.Arguments[0])
		if !ok {
			e.throwf("filter() argument must be a function")
		}

		rows := e.frame.Rows()
		keep := make([]bool, rows)
		for i := 0; i < rows; i++ {
			ret, err := pred(goja.Undefined(), e.vm.ToValue(e.frame.Row(i)), e.vm.ToValue(i))
			if err != nil {
				panic(err)
			}
			keep[i] = ret.ToBoolean()
		}
		e.frame = e.frame.FilterRows(keep)
		return obj
	})

	_ = obj.Set("sortBy", func(call goja.FunctionCall) goja.Value {
		name := e.requireString(call, 0, "sortBy", "column name")
		ascending := true
		if len(call.Arguments) > 1 {
			ascending = call.Arguments[1].ToBoolean()
		}
		sorted, err := e.frame.SortBy(name, ascending)
		if err != nil {
			e.throw(err)
		}
		e.frame = sorted
		return obj
	})

	_ = obj.Set("info", func(goja.FunctionCall) goja.Value {
		return e.vm.ToValue(dataset.Summarize("", e.frame, false))
	})

	_ = obj.Set("describe", func(goja.FunctionCall) goja.Value {
		out := make(map[string]analysis.Summary)
		for _, name := range e.frame.NumericColumnNames() {
			values, err := e.frame.NumericValues(name)
			if err != nil || len(values) == 0 {
				continue
			}
			out[name] = analysis.Describe(values)
		}
		return e.vm.ToValue(out)
	})

	_ = obj.Set("corr", func(goja.FunctionCall) goja.Value {
		names := e.frame.NumericColumnNames()
		matrix, err := e.corrMatrix(names)
		if err != nil {
			e.throw(err)
		}
		return e.vm.ToValue(map[string]any{
			"columns": names,
			"matrix":  matrix,
		})
	})

	return obj
}

// corrMatrix computes pairwise correlations over complete rows of the named
// numeric columns.
func (e *environment) corrMatrix(names []string) ([][]float64, error) {
	rows, err := e.frame.NumericMatrix(names)
	if err != nil {
		return nil, err
	}
	cols := make([][]float64, len(names))
	for j := range names {
		cols[j] = make([]float64, len(rows))
		for i, row := range rows {
			cols[j][i] = row[j]
		}
	}
	return analysis.CorrelationMatrix(cols), nil
}

// requireColumn resolves the first argument as a column of the working frame.
func (e *environment) requireColumn(call goja.FunctionCall, method string) *dataset.Column {
	name := e.requireString(call, 0, method, "column name")
	col, err := e.frame.Column(name)
	if err != nil {
		e.throw(err)
	}
	return col
}

// requireString extracts a required string argument.
func (e *environment) requireString(call goja.FunctionCall, idx int, method, what string) string {
	if len(call.Arguments) <= idx {
		e.throwf("%s() requires a %s", method, what)
	}
	return call.Arguments[idx].String()
}
