// Package plot builds chart figures and rasterizes them to PNG. Figures are
// created inside the sandbox (or by the canned visualization operation) and
// captured as artifacts when the execution succeeds.
package plot

import (
	"math"

	"github.com/tabula-dev/tabula/internal/taberr"
)

// Kind selects the chart type of a figure.
type Kind string

const (
	Scatter   Kind = "scatter"
	Line      Kind = "line"
	Histogram Kind = "histogram"
	Bar       Kind = "bar"
	Heatmap   Kind = "heatmap"
)

// Figure is a single chart description. A figure is inert until rendered.
type Figure struct {
	Kind   Kind
	Title  string
	XLabel string
	YLabel string

	// Scatter and Line use X/Y pairs.
	X []float64
	Y []float64

	// Histogram uses Values and Bins.
	Values []float64
	Bins   int

	// Bar uses Labels with matching Heights.
	Labels  []string
	Heights []float64

	// Heatmap uses a square Matrix with row/column Names.
	Matrix [][]float64
	Names  []string
}

// ParseKind validates a user-supplied chart type string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Scatter, Line, Histogram, Bar, Heatmap:
		return Kind(s), nil
	}
	return "", taberr.New(taberr.ErrArtifactCapture, "unknown chart type").
		With("type", s).
		WithHelp("use one of: scatter, line, histogram, bar, heatmap")
}

// NewScatter builds a scatter figure from paired series.
func NewScatter(title string, x, y []float64) (*Figure, error) {
	if len(x) != len(y) {
		return nil, taberr.Newf(taberr.ErrArtifactCapture, "series lengths differ: %d vs %d", len(x), len(y))
	}
	if len(x) == 0 {
		return nil, taberr.New(taberr.ErrArtifactCapture, "scatter needs at least one point")
	}
	return &Figure{Kind: Scatter, Title: title, X: x, Y: y}, nil
}

// NewLine builds a line figure. With nil x the index is used.
func NewLine(title string, x, y []float64) (*Figure, error) {
	if len(y) == 0 {
		return nil, taberr.New(taberr.ErrArtifactCapture, "line needs at least one point")
	}
	if x == nil {
		x = make([]float64, len(y))
		for i := range x {
			x[i] = float64(i)
		}
	}
	if len(x) != len(y) {
		return nil, taberr.Newf(taberr.ErrArtifactCapture, "series lengths differ: %d vs %d", len(x), len(y))
	}
	return &Figure{Kind: Line, Title: title, X: x, Y: y}, nil
}

// NewHistogram builds a histogram figure. Bins below 1 default to 10.
func NewHistogram(title string, values []float64, bins int) (*Figure, error) {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return nil, taberr.New(taberr.ErrArtifactCapture, "histogram needs at least one finite value")
	}
	if bins < 1 {
		bins = 10
	}
	return &Figure{Kind: Histogram, Title: title, Values: clean, Bins: bins}, nil
}

// NewBar builds a bar figure from labeled heights.
func NewBar(title string, labels []string, heights []float64) (*Figure, error) {
	if len(labels) != len(heights) {
		return nil, taberr.Newf(taberr.ErrArtifactCapture, "labels and heights differ: %d vs %d", len(labels), len(heights))
	}
	if len(labels) == 0 {
		return nil, taberr.New(taberr.ErrArtifactCapture, "bar needs at least one category")
	}
	return &Figure{Kind: Bar, Title: title, Labels: labels, Heights: heights}, nil
}

// NewHeatmap builds a heatmap from a square matrix with axis names.
func NewHeatmap(title string, names []string, matrix [][]float64) (*Figure, error) {
	if len(matrix) == 0 || len(matrix) != len(names) {
		return nil, taberr.New(taberr.ErrArtifactCapture, "heatmap needs a square matrix with matching names")
	}
	for _, row := range matrix {
		if len(row) != len(names) {
			return nil, taberr.New(taberr.ErrArtifactCapture, "heatmap matrix is not square")
		}
	}
	return &Figure{Kind: Heatmap, Title: title, Names: names, Matrix: matrix}, nil
}
