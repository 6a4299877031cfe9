package tabula

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tabula-dev/tabula/internal/dataset"
	"github.com/tabula-dev/tabula/internal/taberr"
)

func irisSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession()
	if _, err := s.LoadDataset("iris"); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSessionLoad(t *testing.T) {
	s := NewSession()

	t.Run("operations before load fail", func(t *testing.T) {
		if _, err := s.DatasetInfo(); !taberr.Is(err, taberr.ErrNoDataset) {
			t.Fatalf("info: %v", err)
		}
		if _, err := s.ExecuteCode("1"); !taberr.Is(err, taberr.ErrNoDataset) {
			t.Fatalf("execute: %v", err)
		}
		if _, err := s.Chart("histogram", ""); !taberr.Is(err, taberr.ErrNoDataset) {
			t.Fatalf("visualization: %v", err)
		}
	})

	t.Run("unknown dataset", func(t *testing.T) {
		_, err := s.LoadDataset("titanic")
		if !taberr.Is(err, taberr.ErrUnsupportedDataset) {
			t.Fatalf("expected %s, got %v", taberr.ErrUnsupportedDataset, err)
		}
	})

	t.Run("iris summary", func(t *testing.T) {
		info, err := s.LoadDataset("iris")
		if err != nil {
			t.Fatal(err)
		}
		if info.Shape != [2]int{150, 6} {
			t.Fatalf("shape = %v", info.Shape)
		}
		if info.DTypes["species"] != "string" || info.DTypes["target"] != "int64" {
			t.Fatalf("dtypes = %v", info.DTypes)
		}
		if len(info.Head) != 5 {
			t.Fatalf("head rows = %d", len(info.Head))
		}
		if _, ok := info.Describe["sepal_length"]; !ok {
			t.Fatal("describe missing")
		}
	})
}

func TestSessionExecute(t *testing.T) {
	s := irisSession(t)

	t.Run("success records one entry verbatim", func(t *testing.T) {
		code := `print("rows:", df.count())`
		res, err := s.ExecuteCode(code)
		if err != nil {
			t.Fatal(err)
		}
		if res.Output != "rows: 150\n" {
			t.Fatalf("output = %q", res.Output)
		}

		entries := s.History()
		if len(entries) != 1 {
			t.Fatalf("history len = %d", len(entries))
		}
		if entries[0].Code != code || entries[0].Output != res.Output {
			t.Fatalf("entry = %+v", entries[0])
		}
	})

	t.Run("screened code rejected without side effects", func(t *testing.T) {
		before := len(s.History())
		_, err := s.ExecuteCode(`import os`)
		if !taberr.Is(err, taberr.ErrScreeningRejected) {
			t.Fatalf("expected %s, got %v", taberr.ErrScreeningRejected, err)
		}
		if !strings.Contains(err.Error(), "import") {
			t.Fatalf("token not named: %v", err)
		}
		if len(s.History()) != before {
			t.Fatal("rejected code reached history")
		}
	})

	t.Run("substring of blocked token passes", func(t *testing.T) {
		if _, err := s.ExecuteCode(`var files_system = 1;`); err != nil {
			t.Fatalf("false positive: %v", err)
		}
	})

	t.Run("failure leaves dataset and history unchanged", func(t *testing.T) {
		before, _ := s.DatasetInfo()
		histBefore := len(s.History())

		_, err := s.ExecuteCode(`df.drop("sepal_length"); nope();`)
		if !taberr.Is(err, taberr.ErrExecution) {
			t.Fatalf("expected %s, got %v", taberr.ErrExecution, err)
		}

		after, _ := s.DatasetInfo()
		if before.Shape != after.Shape {
			t.Fatalf("shape changed on failure: %v -> %v", before.Shape, after.Shape)
		}
		if !contains(after.Names, "sepal_length") {
			t.Fatal("partial mutation committed")
		}
		if len(s.History()) != histBefore {
			t.Fatal("failed execution recorded")
		}
	})

	t.Run("success commits mutation", func(t *testing.T) {
		if _, err := s.ExecuteCode(`df.drop("target")`); err != nil {
			t.Fatal(err)
		}
		info, _ := s.DatasetInfo()
		if contains(info.Names, "target") {
			t.Fatal("drop not committed")
		}
		if info.Shape != [2]int{150, 5} {
			t.Fatalf("shape = %v", info.Shape)
		}
	})

	t.Run("empty code runs as no-op and is recorded", func(t *testing.T) {
		before := len(s.History())
		res, err := s.ExecuteCode("")
		if err != nil {
			t.Fatal(err)
		}
		if res.Output != "" {
			t.Fatalf("output = %q", res.Output)
		}
		if len(s.History()) != before+1 {
			t.Fatal("empty execution not recorded")
		}
	})

	t.Run("output isolated between calls", func(t *testing.T) {
		first, err := s.ExecuteCode(`print("first")`)
		if err != nil {
			t.Fatal(err)
		}
		second, err := s.ExecuteCode(`print("second")`)
		if err != nil {
			t.Fatal(err)
		}
		if first.Output != "first\n" || second.Output != "second\n" {
			t.Fatalf("outputs bled: %q / %q", first.Output, second.Output)
		}
	})
}

func TestSessionTimeout(t *testing.T) {
	s := NewSession(WithTimeout(50 * time.Millisecond))
	if _, err := s.LoadDataset("iris"); err != nil {
		t.Fatal(err)
	}

	_, err := s.ExecuteCode("while (true) {}")
	if !taberr.Is(err, taberr.ErrExecTimeout) {
		t.Fatalf("expected %s, got %v", taberr.ErrExecTimeout, err)
	}
	if len(s.History()) != 0 {
		t.Fatal("timed-out execution recorded")
	}

	// The session stays usable after a timeout.
	if _, err := s.ExecuteCode("1 + 1"); err != nil {
		t.Fatalf("session wedged after timeout: %v", err)
	}
}

func TestSessionVisualization(t *testing.T) {
	dir := t.TempDir()
	s := NewSession(WithArtifactDir(dir))
	if _, err := s.LoadDataset("iris"); err != nil {
		t.Fatal(err)
	}

	t.Run("histogram artifact", func(t *testing.T) {
		res, err := s.Chart("histogram", "petal_width")
		if err != nil {
			t.Fatal(err)
		}
		if res.Artifact == nil || res.Artifact.Path == "" || res.Artifact.Base64PNG == "" {
			t.Fatalf("artifact = %+v", res.Artifact)
		}
		entries := s.History()
		if len(entries) != 1 || entries[0].ArtifactPath != res.Artifact.Path {
			t.Fatalf("history entry = %+v", entries)
		}
	})

	t.Run("arbitrary plot code", func(t *testing.T) {
		res, err := s.CreateVisualization(`plot.scatter(df.numeric("sepal_length"), df.numeric("sepal_width"), "sepals")`)
		if err != nil {
			t.Fatal(err)
		}
		if res.Artifact == nil {
			t.Fatal("expected an artifact")
		}
	})

	t.Run("code without a plot call", func(t *testing.T) {
		before := len(s.History())
		_, err := s.CreateVisualization(`df.shape()`)
		if !taberr.Is(err, taberr.ErrArtifactCapture) {
			t.Fatalf("expected %s, got %v", taberr.ErrArtifactCapture, err)
		}
		// The code itself ran fine, so the execution is still recorded.
		if got := len(s.History()); got != before+1 {
			t.Fatalf("history length = %d, want %d", got, before+1)
		}
	})

	t.Run("default columns", func(t *testing.T) {
		for _, kind := range []string{"scatter", "line", "bar", "heatmap"} {
			if _, err := s.Chart(kind, ""); err != nil {
				t.Errorf("%s: %v", kind, err)
			}
		}
	})

	t.Run("bad chart type", func(t *testing.T) {
		_, err := s.Chart("pie", "")
		if !taberr.Is(err, taberr.ErrArtifactCapture) {
			t.Fatalf("expected %s, got %v", taberr.ErrArtifactCapture, err)
		}
	})

	t.Run("numeric column for bar rejected", func(t *testing.T) {
		_, err := s.Chart("bar", "sepal_length")
		if !taberr.Is(err, taberr.ErrColumnType) {
			t.Fatalf("expected %s, got %v", taberr.ErrColumnType, err)
		}
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := s.Chart("histogram", "wingspan")
		if !taberr.Is(err, taberr.ErrColumnNotFound) {
			t.Fatalf("expected %s, got %v", taberr.ErrColumnNotFound, err)
		}
	})
}

func TestSessionReset(t *testing.T) {
	s := irisSession(t)

	if _, err := s.ExecuteCode(`df.drop("target")`); err != nil {
		t.Fatal(err)
	}
	if len(s.History()) != 1 {
		t.Fatalf("history len = %d", len(s.History()))
	}

	info, err := s.Reset()
	if err != nil {
		t.Fatal(err)
	}
	if info.Shape != [2]int{150, 6} {
		t.Fatalf("reset shape = %v", info.Shape)
	}
	if len(s.History()) != 0 {
		t.Fatal("history survived reset")
	}

	t.Run("reset without dataset clears history only", func(t *testing.T) {
		empty := NewSession()
		info, err := empty.Reset()
		if err != nil || info != nil {
			t.Fatalf("info = %v, err = %v", info, err)
		}
	})

	t.Run("failed reload preserves frame and history", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "temps.csv")
		if err := os.WriteFile(path, []byte("celsius\n1\n2\n3\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		s := NewSession(WithDataset("temps", dataset.FileSource{Path: path}))
		if _, err := s.LoadDataset("temps"); err != nil {
			t.Fatal(err)
		}
		if _, err := s.ExecuteCode(`df.set("kelvin", df.numeric("celsius").map(function(v) { return v + 273.15; }))`); err != nil {
			t.Fatal(err)
		}

		if err := os.Remove(path); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Reset(); !taberr.Is(err, taberr.ErrDatasetLoad) {
			t.Fatalf("expected %s, got %v", taberr.ErrDatasetLoad, err)
		}

		// Nothing moved: the mutated frame and the ledger both survive.
		if got := len(s.History()); got != 1 {
			t.Fatalf("history len = %d, want 1", got)
		}
		info, err := s.DatasetInfo()
		if err != nil {
			t.Fatal(err)
		}
		if info.Shape != [2]int{3, 2} {
			t.Fatalf("shape = %v", info.Shape)
		}
	})
}

func TestSessionOutputIsolation(t *testing.T) {
	s := irisSession(t)

	type run struct {
		res *ExecResult
		err error
	}
	slow := make(chan run, 1)
	fast := make(chan run, 1)

	// Two concurrent callers: the session serializes them, and each
	// result must carry only its own captured output.
	go func() {
		res, err := s.ExecuteCode(`
			var n = 0;
			for (var i = 0; i < 2000000; i++) { n += i; }
			print("tortoise", n > 0);
		`)
		slow <- run{res, err}
	}()
	go func() {
		res, err := s.ExecuteCode(`print("hare");`)
		fast <- run{res, err}
	}()

	a, b := <-slow, <-fast
	if a.err != nil || b.err != nil {
		t.Fatalf("errs = %v / %v", a.err, b.err)
	}
	if !strings.Contains(a.res.Output, "tortoise") || strings.Contains(a.res.Output, "hare") {
		t.Fatalf("slow output = %q", a.res.Output)
	}
	if b.res.Output != "hare\n" {
		t.Fatalf("fast output = %q", b.res.Output)
	}
	if len(s.History()) != 2 {
		t.Fatalf("history len = %d", len(s.History()))
	}
}

func TestSessionHistoryIntegrity(t *testing.T) {
	s := irisSession(t)
	for _, code := range []string{`print(1)`, `print(2)`, `print(3)`} {
		if _, err := s.ExecuteCode(code); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.VerifyHistory(); err != nil {
		t.Fatal(err)
	}
	root, err := s.HistoryRoot()
	if err != nil {
		t.Fatal(err)
	}
	if root == "" {
		t.Fatal("empty merkle root")
	}

	entries := s.History()
	for i := 1; i < len(entries); i++ {
		if entries[i].PrevChecksum != entries[i-1].Checksum {
			t.Fatalf("chain broken at %d", i)
		}
	}
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
