package analysis

import "math"

// StandardScaler standardizes feature columns to zero mean and unit variance.
// Columns with zero variance are left centered but unscaled.
type StandardScaler struct {
	Mean []float64
	Std  []float64
	fit  bool
}

// NewStandardScaler returns an unfit scaler.
func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

// Fit computes per-column mean and standard deviation from X.
func (s *StandardScaler) Fit(X [][]float64) {
	if len(X) == 0 {
		return
	}
	r, c := len(X), len(X[0])
	s.Mean = make([]float64, c)
	s.Std = make([]float64, c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			s.Mean[j] += X[i][j]
		}
		s.Mean[j] /= float64(r)
		v := 0.0
		for i := 0; i < r; i++ {
			d := X[i][j] - s.Mean[j]
			v += d * d
		}
		v /= float64(r)
		s.Std[j] = math.Sqrt(v)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	s.fit = true
}

// Transform returns a standardized copy of X using the fitted parameters.
func (s *StandardScaler) Transform(X [][]float64) [][]float64 {
	if !s.fit || len(X) == 0 {
		return X
	}
	r, c := len(X), len(X[0])
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		row := make([]float64, c)
		for j := 0; j < c; j++ {
			row[j] = (X[i][j] - s.Mean[j]) / s.Std[j]
		}
		out[i] = row
	}
	return out
}

// FitTransform fits the scaler and transforms X in one step.
func (s *StandardScaler) FitTransform(X [][]float64) [][]float64 {
	s.Fit(X)
	return s.Transform(X)
}

// MinMaxScale scales each column of X to [0, 1]. Constant columns become zero.
func MinMaxScale(X [][]float64) [][]float64 {
	if len(X) == 0 {
		return X
	}
	rows, cols := len(X), len(X[0])
	out := make([][]float64, rows)
	mins := make([]float64, cols)
	maxs := make([]float64, cols)
	for j := 0; j < cols; j++ {
		col := make([]float64, rows)
		for i := 0; i < rows; i++ {
			col[i] = X[i][j]
		}
		mins[j], maxs[j] = MinMax(col)
	}
	for i := 0; i < rows; i++ {
		out[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			if maxs[j] != mins[j] {
				out[i][j] = (X[i][j] - mins[j]) / (maxs[j] - mins[j])
			}
		}
	}
	return out
}
