package analysis

import (
	"math"
	"sort"
)

// LogisticRegression is a multiclass classifier trained one-vs-rest with
// full-batch gradient descent. Weights start at zero for determinism.
type LogisticRegression struct {
	Classes []float64
	W       [][]float64 // one weight vector per class
	B       []float64   // one bias per class
	Lr      float64
	Epochs  int
}

// NewLogisticRegression returns a model with the default learning schedule.
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{Lr: 0.1, Epochs: 500}
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// Fit trains one binary classifier per distinct label in y.
func (m *LogisticRegression) Fit(X [][]float64, y []float64) {
	if len(X) == 0 || len(X) != len(y) {
		return
	}
	n := len(X)
	features := len(X[0])

	seen := make(map[float64]bool)
	m.Classes = m.Classes[:0]
	for _, label := range y {
		if !seen[label] {
			seen[label] = true
			m.Classes = append(m.Classes, label)
		}
	}
	sort.Float64s(m.Classes)

	m.W = make([][]float64, len(m.Classes))
	m.B = make([]float64, len(m.Classes))

	for c, class := range m.Classes {
		w := make([]float64, features)
		b := 0.0
		for ep := 0; ep < m.Epochs; ep++ {
			gW := make([]float64, features)
			gB := 0.0
			for i, row := range X {
				z := b
				for j, v := range row {
					z += w[j] * v
				}
				target := 0.0
				if y[i] == class {
					target = 1.0
				}
				d := (sigmoid(z) - target) / float64(n)
				for j, v := range row {
					gW[j] += d * v
				}
				gB += d
			}
			for j := range w {
				w[j] -= m.Lr * gW[j]
			}
			b -= m.Lr * gB
		}
		m.W[c] = w
		m.B[c] = b
	}
}

// PredictProba returns, for each row, the per-class scores in Classes order.
func (m *LogisticRegression) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		scores := make([]float64, len(m.Classes))
		for c := range m.Classes {
			z := m.B[c]
			for j, v := range row {
				if j < len(m.W[c]) {
					z += m.W[c][j] * v
				}
			}
			scores[c] = sigmoid(z)
		}
		out[i] = scores
	}
	return out
}

// Predict returns the highest-scoring class label for each row.
func (m *LogisticRegression) Predict(X [][]float64) []float64 {
	proba := m.PredictProba(X)
	out := make([]float64, len(X))
	for i, scores := range proba {
		best := 0
		for c := 1; c < len(scores); c++ {
			if scores[c] > scores[best] {
				best = c
			}
		}
		out[i] = m.Classes[best]
	}
	return out
}
