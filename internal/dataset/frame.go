// Package dataset owns the live tabular dataset: the Frame structure, its
// derived schema summary, the store that holds the current frame, and the
// named sources that load frames from embedded data, CSV files, or SQL
// databases.
package dataset

import (
	"math"
	"sort"

	"github.com/tabula-dev/tabula/internal/taberr"
)

// Kind identifies the storage type of a column.
type Kind int

const (
	Float Kind = iota
	Int
	String
)

// DType returns the user-facing type name for the kind.
func (k Kind) DType() string {
	switch k {
	case Float:
		return "float64"
	case Int:
		return "int64"
	default:
		return "string"
	}
}

// Column is a single named, typed column. Numeric kinds (Float, Int) store
// values in Floats with NaN marking missing cells; String stores values in
// Strings with "" marking missing cells.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Strings []string
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	if c.Kind == String {
		return len(c.Strings)
	}
	return len(c.Floats)
}

// IsNumeric reports whether the column holds numeric values.
func (c *Column) IsNumeric() bool {
	return c.Kind != String
}

// Missing counts the missing cells in the column.
func (c *Column) Missing() int {
	n := 0
	if c.Kind == String {
		for _, v := range c.Strings {
			if v == "" {
				n++
			}
		}
		return n
	}
	for _, v := range c.Floats {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}

// Value returns the cell at row i as a JSON-friendly value.
func (c *Column) Value(i int) any {
	if c.Kind == String {
		return c.Strings[i]
	}
	v := c.Floats[i]
	if math.IsNaN(v) {
		return nil
	}
	if c.Kind == Int {
		return int64(v)
	}
	return v
}

// clone returns a deep copy of the column.
func (c *Column) clone() *Column {
	cp := &Column{Name: c.Name, Kind: c.Kind}
	if c.Kind == String {
		cp.Strings = append([]string(nil), c.Strings...)
	} else {
		cp.Floats = append([]float64(nil), c.Floats...)
	}
	return cp
}

// Frame is an ordered sequence of named, typed columns with equal row counts.
type Frame struct {
	cols  []*Column
	index map[string]int
}

// NewFrame returns an empty frame.
func NewFrame() *Frame {
	return &Frame{index: make(map[string]int)}
}

// AddColumn appends a column to the frame. Column names must be unique and
// every column must match the frame's row count.
func (f *Frame) AddColumn(col *Column) error {
	if _, exists := f.index[col.Name]; exists {
		return taberr.New(taberr.ErrFrameInvalid, "duplicate column name").
			WithColumn(col.Name)
	}
	if len(f.cols) > 0 && col.Len() != f.Rows() {
		return taberr.Newf(taberr.ErrFrameInvalid, "column has %d rows, frame has %d", col.Len(), f.Rows()).
			WithColumn(col.Name)
	}
	f.index[col.Name] = len(f.cols)
	f.cols = append(f.cols, col)
	return nil
}

// Rows returns the number of rows in the frame.
func (f *Frame) Rows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].Len()
}

// Cols returns the number of columns in the frame.
func (f *Frame) Cols() int {
	return len(f.cols)
}

// Shape returns (rows, columns).
func (f *Frame) Shape() (int, int) {
	return f.Rows(), f.Cols()
}

// ColumnNames returns the column names in order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column.
func (f *Frame) Column(name string) (*Column, error) {
	idx, ok := f.index[name]
	if !ok {
		return nil, taberr.New(taberr.ErrColumnNotFound, "column does not exist").
			WithColumn(name).
			WithHelp("call df.columns() to list available columns")
	}
	return f.cols[idx], nil
}

// HasColumn reports whether the named column exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Columns returns the columns in order. The slice is shared; callers must not
// mutate it.
func (f *Frame) Columns() []*Column {
	return f.cols
}

// NumericColumnNames returns the names of numeric columns in order.
func (f *Frame) NumericColumnNames() []string {
	var names []string
	for _, c := range f.cols {
		if c.IsNumeric() {
			names = append(names, c.Name)
		}
	}
	return names
}

// CategoricalColumnNames returns the names of string columns in order.
func (f *Frame) CategoricalColumnNames() []string {
	var names []string
	for _, c := range f.cols {
		if !c.IsNumeric() {
			names = append(names, c.Name)
		}
	}
	return names
}

// Clone returns a deep copy of the frame. The sandbox binds a clone so a
// faulted execution never mutates the stored dataset.
func (f *Frame) Clone() *Frame {
	cp := NewFrame()
	for _, c := range f.cols {
		// errors impossible: cloning preserves invariants
		_ = cp.AddColumn(c.clone())
	}
	return cp
}

// Head returns the first n rows as ordered records.
func (f *Frame) Head(n int) []map[string]any {
	if n > f.Rows() {
		n = f.Rows()
	}
	records := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		rec := make(map[string]any, len(f.cols))
		for _, c := range f.cols {
			rec[c.Name] = c.Value(i)
		}
		records = append(records, rec)
	}
	return records
}

// Row returns row i as a record.
func (f *Frame) Row(i int) map[string]any {
	rec := make(map[string]any, len(f.cols))
	for _, c := range f.cols {
		rec[c.Name] = c.Value(i)
	}
	return rec
}

// SetColumn replaces the named column's data, or appends a new column.
// Numeric data becomes a Float column, string data a String column.
func (f *Frame) SetColumn(name string, values any) error {
	var col *Column
	switch v := values.(type) {
	case []float64:
		col = &Column{Name: name, Kind: Float, Floats: v}
	case []string:
		col = &Column{Name: name, Kind: String, Strings: v}
	default:
		return taberr.New(taberr.ErrColumnType, "column values must be numeric or string").
			WithColumn(name)
	}
	if len(f.cols) > 0 && col.Len() != f.Rows() {
		return taberr.Newf(taberr.ErrFrameInvalid, "column has %d rows, frame has %d", col.Len(), f.Rows()).
			WithColumn(name)
	}
	if idx, ok := f.index[name]; ok {
		f.cols[idx] = col
		return nil
	}
	f.index[name] = len(f.cols)
	f.cols = append(f.cols, col)
	return nil
}

// Drop removes the named column.
func (f *Frame) Drop(name string) error {
	idx, ok := f.index[name]
	if !ok {
		return taberr.New(taberr.ErrColumnNotFound, "column does not exist").
			WithColumn(name)
	}
	f.cols = append(f.cols[:idx], f.cols[idx+1:]...)
	delete(f.index, name)
	for i, c := range f.cols {
		f.index[c.Name] = i
	}
	return nil
}

// Rename changes a column's name.
func (f *Frame) Rename(oldName, newName string) error {
	idx, ok := f.index[oldName]
	if !ok {
		return taberr.New(taberr.ErrColumnNotFound, "column does not exist").
			WithColumn(oldName)
	}
	if _, exists := f.index[newName]; exists {
		return taberr.New(taberr.ErrFrameInvalid, "duplicate column name").
			WithColumn(newName)
	}
	f.cols[idx].Name = newName
	delete(f.index, oldName)
	f.index[newName] = idx
	return nil
}

// FilterRows returns a new frame keeping rows where keep[i] is true.
func (f *Frame) FilterRows(keep []bool) *Frame {
	out := NewFrame()
	for _, c := range f.cols {
		nc := &Column{Name: c.Name, Kind: c.Kind}
		if c.Kind == String {
			for i, v := range c.Strings {
				if i < len(keep) && keep[i] {
					nc.Strings = append(nc.Strings, v)
				}
			}
		} else {
			for i, v := range c.Floats {
				if i < len(keep) && keep[i] {
					nc.Floats = append(nc.Floats, v)
				}
			}
		}
		_ = out.AddColumn(nc)
	}
	return out
}

// SortBy returns a new frame with rows stably sorted by the named column.
func (f *Frame) SortBy(name string, ascending bool) (*Frame, error) {
	col, err := f.Column(name)
	if err != nil {
		return nil, err
	}

	order := make([]int, f.Rows())
	for i := range order {
		order[i] = i
	}
	less := func(a, b int) bool {
		if col.Kind == String {
			if ascending {
				return col.Strings[a] < col.Strings[b]
			}
			return col.Strings[a] > col.Strings[b]
		}
		if ascending {
			return col.Floats[a] < col.Floats[b]
		}
		return col.Floats[a] > col.Floats[b]
	}
	sort.SliceStable(order, func(i, j int) bool { return less(order[i], order[j]) })

	out := NewFrame()
	for _, c := range f.cols {
		nc := &Column{Name: c.Name, Kind: c.Kind}
		if c.Kind == String {
			nc.Strings = make([]string, len(order))
			for i, idx := range order {
				nc.Strings[i] = c.Strings[idx]
			}
		} else {
			nc.Floats = make([]float64, len(order))
			for i, idx := range order {
				nc.Floats[i] = c.Floats[idx]
			}
		}
		_ = out.AddColumn(nc)
	}
	return out, nil
}

// NumericValues returns the non-missing values of a numeric column.
func (f *Frame) NumericValues(name string) ([]float64, error) {
	col, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	if !col.IsNumeric() {
		return nil, taberr.New(taberr.ErrColumnType, "column is not numeric").
			WithColumn(name)
	}
	out := make([]float64, 0, len(col.Floats))
	for _, v := range col.Floats {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// NumericMatrix returns the rows of the named numeric columns as a matrix.
// Rows containing missing values are skipped.
func (f *Frame) NumericMatrix(names []string) ([][]float64, error) {
	cols := make([]*Column, len(names))
	for i, name := range names {
		col, err := f.Column(name)
		if err != nil {
			return nil, err
		}
		if !col.IsNumeric() {
			return nil, taberr.New(taberr.ErrColumnType, "column is not numeric").
				WithColumn(name)
		}
		cols[i] = col
	}

	rows := f.Rows()
	out := make([][]float64, 0, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, len(cols))
		skip := false
		for j, c := range cols {
			v := c.Floats[i]
			if math.IsNaN(v) {
				skip = true
				break
			}
			row[j] = v
		}
		if !skip {
			out = append(out, row)
		}
	}
	return out, nil
}
