package dataset

import (
	"bytes"
	_ "embed"
	"os"
	"sort"

	"github.com/tabula-dev/tabula/internal/taberr"
)

//go:embed assets/iris.csv
var irisCSV []byte

// Source produces a frame on demand. Builtin datasets are sources, and so
// are CSV files and SQL tables registered by the host.
type Source interface {
	Load() (*Frame, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() (*Frame, error)

// Load implements Source.
func (f SourceFunc) Load() (*Frame, error) { return f() }

// Loader resolves dataset names against a registry of sources. The builtin
// "iris" dataset is always registered.
type Loader struct {
	sources map[string]Source
}

// NewLoader returns a loader with the builtin datasets registered.
func NewLoader() *Loader {
	l := &Loader{sources: make(map[string]Source)}
	l.Register("iris", SourceFunc(loadIris))
	return l
}

// Register adds or replaces a named source.
func (l *Loader) Register(name string, src Source) {
	l.sources[name] = src
}

// Names returns the registered dataset names, sorted.
func (l *Loader) Names() []string {
	names := make([]string, 0, len(l.sources))
	for name := range l.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load resolves a dataset name and loads its frame. Unknown names fail with
// an unsupported-dataset error naming the available datasets.
func (l *Loader) Load(name string) (*Frame, error) {
	src, ok := l.sources[name]
	if !ok {
		return nil, taberr.New(taberr.ErrUnsupportedDataset, "dataset is not available").
			WithDataset(name).
			With("available", l.Names()).
			WithHelp("register the dataset or use one of the builtin names")
	}
	frame, err := src.Load()
	if err != nil {
		if taberr.GetErrorCode(err) != "" {
			return nil, err
		}
		return nil, taberr.Wrap(taberr.ErrDatasetLoad, err, "dataset source failed").
			WithDataset(name)
	}
	return frame, nil
}

// loadIris builds the builtin iris frame from the embedded CSV, adding an
// integer target column derived from the species label.
func loadIris() (*Frame, error) {
	frame, err := ParseCSV(bytes.NewReader(irisCSV))
	if err != nil {
		return nil, err
	}

	species, err := frame.Column("species")
	if err != nil {
		return nil, err
	}
	classes := map[string]float64{"setosa": 0, "versicolor": 1, "virginica": 2}
	target := &Column{Name: "target", Kind: Int, Floats: make([]float64, species.Len())}
	for i, label := range species.Strings {
		target.Floats[i] = classes[label]
	}
	if err := frame.AddColumn(target); err != nil {
		return nil, err
	}
	return frame, nil
}

// FileSource loads a frame from a CSV file on disk.
type FileSource struct {
	Path string
}

// Load implements Source.
func (s FileSource) Load() (*Frame, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, taberr.Wrap(taberr.ErrDatasetLoad, err, "cannot read dataset file").
			With("path", s.Path)
	}
	return ParseCSV(bytes.NewReader(data))
}
