package dataset

import (
	"math"
	"testing"

	"github.com/tabula-dev/tabula/internal/taberr"
)

func sampleFrame(t *testing.T) *Frame {
	t.Helper()
	f := NewFrame()
	cols := []*Column{
		{Name: "a", Kind: Float, Floats: []float64{1.5, 2.5, 3.5}},
		{Name: "b", Kind: Int, Floats: []float64{3, 1, 2}},
		{Name: "label", Kind: String, Strings: []string{"x", "y", "x"}},
	}
	for _, c := range cols {
		if err := f.AddColumn(c); err != nil {
			t.Fatalf("AddColumn(%s): %v", c.Name, err)
		}
	}
	return f
}

func TestFrameInvariants(t *testing.T) {
	t.Run("duplicate column rejected", func(t *testing.T) {
		f := sampleFrame(t)
		err := f.AddColumn(&Column{Name: "a", Kind: Float, Floats: []float64{0, 0, 0}})
		if !taberr.Is(err, taberr.ErrFrameInvalid) {
			t.Fatalf("expected %s, got %v", taberr.ErrFrameInvalid, err)
		}
	})

	t.Run("row count mismatch rejected", func(t *testing.T) {
		f := sampleFrame(t)
		err := f.AddColumn(&Column{Name: "short", Kind: Float, Floats: []float64{1}})
		if !taberr.Is(err, taberr.ErrFrameInvalid) {
			t.Fatalf("expected %s, got %v", taberr.ErrFrameInvalid, err)
		}
	})

	t.Run("shape", func(t *testing.T) {
		f := sampleFrame(t)
		rows, cols := f.Shape()
		if rows != 3 || cols != 3 {
			t.Fatalf("shape = (%d, %d), want (3, 3)", rows, cols)
		}
	})

	t.Run("missing column", func(t *testing.T) {
		f := sampleFrame(t)
		_, err := f.Column("nope")
		if !taberr.Is(err, taberr.ErrColumnNotFound) {
			t.Fatalf("expected %s, got %v", taberr.ErrColumnNotFound, err)
		}
	})
}

func TestFrameClone(t *testing.T) {
	f := sampleFrame(t)
	cp := f.Clone()

	col, err := cp.Column("a")
	if err != nil {
		t.Fatal(err)
	}
	col.Floats[0] = 99

	orig, _ := f.Column("a")
	if orig.Floats[0] != 1.5 {
		t.Fatalf("clone mutation leaked into original: %v", orig.Floats[0])
	}
}

func TestFrameMutations(t *testing.T) {
	t.Run("set existing column", func(t *testing.T) {
		f := sampleFrame(t)
		if err := f.SetColumn("a", []float64{9, 9, 9}); err != nil {
			t.Fatal(err)
		}
		col, _ := f.Column("a")
		if col.Floats[1] != 9 {
			t.Fatalf("SetColumn did not replace values: %v", col.Floats)
		}
		if f.Cols() != 3 {
			t.Fatalf("SetColumn on existing name changed column count: %d", f.Cols())
		}
	})

	t.Run("set new column", func(t *testing.T) {
		f := sampleFrame(t)
		if err := f.SetColumn("c", []string{"p", "q", "r"}); err != nil {
			t.Fatal(err)
		}
		if f.Cols() != 4 {
			t.Fatalf("expected 4 columns, got %d", f.Cols())
		}
	})

	t.Run("drop reindexes", func(t *testing.T) {
		f := sampleFrame(t)
		if err := f.Drop("a"); err != nil {
			t.Fatal(err)
		}
		if f.HasColumn("a") {
			t.Fatal("dropped column still present")
		}
		col, err := f.Column("label")
		if err != nil || col.Name != "label" {
			t.Fatalf("index stale after drop: %v", err)
		}
	})

	t.Run("rename", func(t *testing.T) {
		f := sampleFrame(t)
		if err := f.Rename("b", "count"); err != nil {
			t.Fatal(err)
		}
		if f.HasColumn("b") || !f.HasColumn("count") {
			t.Fatalf("rename left stale names: %v", f.ColumnNames())
		}
	})

	t.Run("filter rows", func(t *testing.T) {
		f := sampleFrame(t)
		out := f.FilterRows([]bool{true, false, true})
		if out.Rows() != 2 {
			t.Fatalf("filter kept %d rows, want 2", out.Rows())
		}
		col, _ := out.Column("label")
		if col.Strings[1] != "x" {
			t.Fatalf("filter misaligned rows: %v", col.Strings)
		}
	})

	t.Run("sort by numeric", func(t *testing.T) {
		f := sampleFrame(t)
		out, err := f.SortBy("b", true)
		if err != nil {
			t.Fatal(err)
		}
		col, _ := out.Column("b")
		if col.Floats[0] != 1 || col.Floats[2] != 3 {
			t.Fatalf("sort order wrong: %v", col.Floats)
		}
		labels, _ := out.Column("label")
		if labels.Strings[0] != "y" {
			t.Fatalf("sort did not carry sibling columns: %v", labels.Strings)
		}
	})
}

func TestNumericAccess(t *testing.T) {
	f := NewFrame()
	if err := f.AddColumn(&Column{Name: "v", Kind: Float, Floats: []float64{1, math.NaN(), 3}}); err != nil {
		t.Fatal(err)
	}
	if err := f.AddColumn(&Column{Name: "w", Kind: Float, Floats: []float64{2, 5, 6}}); err != nil {
		t.Fatal(err)
	}

	t.Run("values skip missing", func(t *testing.T) {
		values, err := f.NumericValues("v")
		if err != nil {
			t.Fatal(err)
		}
		if len(values) != 2 {
			t.Fatalf("expected 2 values, got %v", values)
		}
	})

	t.Run("matrix skips rows with missing", func(t *testing.T) {
		m, err := f.NumericMatrix([]string{"v", "w"})
		if err != nil {
			t.Fatal(err)
		}
		if len(m) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(m))
		}
	})
}

func TestSchemaSummary(t *testing.T) {
	f := sampleFrame(t)
	s := Summarize("sample", f, true)

	if s.Shape != [2]int{3, 3} {
		t.Fatalf("shape = %v", s.Shape)
	}
	if s.DTypes["a"] != "float64" || s.DTypes["b"] != "int64" || s.DTypes["label"] != "string" {
		t.Fatalf("dtypes = %v", s.DTypes)
	}
	if len(s.Numeric) != 2 || len(s.Categorical) != 1 {
		t.Fatalf("column partition wrong: %v / %v", s.Numeric, s.Categorical)
	}
	if len(s.Head) != 3 {
		t.Fatalf("head rows = %d", len(s.Head))
	}
	if _, ok := s.Describe["a"]; !ok {
		t.Fatalf("describe missing numeric column: %v", s.Describe)
	}
}

func TestStore(t *testing.T) {
	st := NewStore()

	t.Run("empty store errors", func(t *testing.T) {
		_, err := st.Current()
		if !taberr.Is(err, taberr.ErrNoDataset) {
			t.Fatalf("expected %s, got %v", taberr.ErrNoDataset, err)
		}
	})

	t.Run("replace and clear", func(t *testing.T) {
		st.Replace("sample", sampleFrame(t))
		if !st.Loaded() || st.Name() != "sample" {
			t.Fatalf("store did not record dataset: %q", st.Name())
		}
		st.Clear()
		if st.Loaded() {
			t.Fatal("store still loaded after clear")
		}
	})
}
