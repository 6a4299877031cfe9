package dataset

import (
	"github.com/tabula-dev/tabula/internal/analysis"
)

// Schema is the derived summary of a frame, returned by dataset info and
// bound into the sandbox as df.info().
type Schema struct {
	Name        string                      `json:"name"`
	Rows        int                         `json:"rows"`
	Columns     int                         `json:"columns"`
	Shape       [2]int                      `json:"shape"`
	Names       []string                    `json:"column_names"`
	DTypes      map[string]string           `json:"dtypes"`
	Missing     map[string]int              `json:"missing"`
	Numeric     []string                    `json:"numeric_columns"`
	Categorical []string                    `json:"categorical_columns"`
	Head        []map[string]any            `json:"head"`
	Describe    map[string]analysis.Summary `json:"describe,omitempty"`
}

// headRows is the number of preview rows included in a schema summary.
const headRows = 5

// Summarize computes the schema of a frame. When describe is true the
// summary includes per-column descriptive statistics for numeric columns.
func Summarize(name string, f *Frame, describe bool) Schema {
	rows, cols := f.Shape()
	s := Schema{
		Name:        name,
		Rows:        rows,
		Columns:     cols,
		Shape:       [2]int{rows, cols},
		Names:       f.ColumnNames(),
		DTypes:      make(map[string]string, cols),
		Missing:     make(map[string]int, cols),
		Numeric:     f.NumericColumnNames(),
		Categorical: f.CategoricalColumnNames(),
		Head:        f.Head(headRows),
	}
	for _, c := range f.Columns() {
		s.DTypes[c.Name] = c.Kind.DType()
		s.Missing[c.Name] = c.Missing()
	}
	if describe {
		s.Describe = make(map[string]analysis.Summary, len(s.Numeric))
		for _, name := range s.Numeric {
			values, err := f.NumericValues(name)
			if err != nil || len(values) == 0 {
				continue
			}
			s.Describe[name] = analysis.Describe(values)
		}
	}
	return s
}
