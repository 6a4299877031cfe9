package runtime

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/dop251/goja"
)

// formatValue renders a JS value for print output. Scalars use their string
// form; objects and arrays are rendered as JSON.
func formatValue(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	exported := v.Export()
	switch x := exported.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return formatFloat(x)
	}
	data, err := json.Marshal(exported)
	if err != nil {
		return v.String()
	}
	return string(data)
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// toFloats converts an exported JS array to a float slice. Numeric strings
// are not accepted; nulls become NaN so missing values survive round trips.
func toFloats(v any) ([]float64, bool) {
	switch x := v.(type) {
	case []float64:
		return x, true
	case []any:
		out := make([]float64, len(x))
		for i, item := range x {
			f, ok := toFloat(item)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case nil:
		return math.NaN(), true
	}
	return 0, false
}

// toStrings converts an exported JS array to a string slice.
func toStrings(v any) ([]string, bool) {
	switch x := v.(type) {
	case []string:
		return x, true
	case []any:
		out := make([]string, len(x))
		for i, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

// toMatrix converts an exported JS array of arrays to a float matrix.
func toMatrix(v any) ([][]float64, bool) {
	rows, ok := v.([]any)
	if !ok {
		if m, ok := v.([][]float64); ok {
			return m, true
		}
		return nil, false
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		fs, ok := toFloats(row)
		if !ok {
			return nil, false
		}
		out[i] = fs
	}
	return out, true
}
