package analysis

import (
	"math"
	"testing"
)

func approx(t *testing.T, got, want, eps float64) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Fatalf("got %v, want %v (±%v)", got, want, eps)
	}
}

func TestMoments(t *testing.T) {
	x := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	approx(t, Mean(x), 5, 1e-12)
	approx(t, Variance(x), 4, 1e-9)
	approx(t, Std(x), 2, 1e-9)
	approx(t, Sum(x), 40, 1e-12)

	if Mean(nil) != 0 || Variance(nil) != 0 {
		t.Fatal("empty input should yield zero")
	}
}

func TestMedian(t *testing.T) {
	cases := []struct {
		name string
		in   []float64
		want float64
	}{
		{"odd", []float64{3, 1, 2}, 2},
		{"even", []float64{4, 1, 3, 2}, 2.5},
		{"single", []float64{7}, 7},
		{"empty", nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			approx(t, Median(tc.in), tc.want, 1e-12)
		})
	}
}

func TestPercentile(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}

	approx(t, Percentile(x, 0), 1, 1e-12)
	approx(t, Percentile(x, 50), 3, 1e-12)
	approx(t, Percentile(x, 100), 5, 1e-12)
	// Linear interpolation between ranks 1 and 2.
	approx(t, Percentile(x, 37.5), 2.5, 1e-12)
	// Out-of-range p clamps to the extremes.
	approx(t, Percentile(x, -10), 1, 1e-12)
	approx(t, Percentile(x, 200), 5, 1e-12)
}

func TestCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4}

	approx(t, Correlation(x, []float64{2, 4, 6, 8}), 1, 1e-12)
	approx(t, Correlation(x, []float64{8, 6, 4, 2}), -1, 1e-12)
	// Constant column has zero variance; correlation is defined as 0.
	approx(t, Correlation(x, []float64{5, 5, 5, 5}), 0, 1e-12)

	cov := Covariance(x, []float64{2, 4, 6, 8})
	approx(t, cov, 2.5, 1e-12)
}

func TestCorrelationMatrix(t *testing.T) {
	m := CorrelationMatrix([][]float64{
		{1, 2, 3, 4},
		{2, 4, 6, 8},
		{4, 3, 2, 1},
	})

	for i := range m {
		approx(t, m[i][i], 1, 1e-12)
		for j := range m {
			if m[i][j] != m[j][i] {
				t.Fatalf("matrix not symmetric at (%d,%d)", i, j)
			}
		}
	}
	approx(t, m[0][1], 1, 1e-12)
	approx(t, m[0][2], -1, 1e-12)
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{1, 2, 3, 4, 5})

	if s.Count != 5 {
		t.Fatalf("count = %d", s.Count)
	}
	approx(t, s.Mean, 3, 1e-12)
	approx(t, s.Min, 1, 1e-12)
	approx(t, s.P25, 2, 1e-12)
	approx(t, s.P50, 3, 1e-12)
	approx(t, s.P75, 4, 1e-12)
	approx(t, s.Max, 5, 1e-12)
}
