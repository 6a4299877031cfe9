package analysis

// LinearRegression fits y = Xw + b via full-batch gradient descent.
// Weights start at zero so training is deterministic for fixed inputs.
type LinearRegression struct {
	W      []float64
	B      float64
	Lr     float64
	Epochs int
}

// NewLinearRegression returns a model with the default learning schedule.
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{Lr: 0.01, Epochs: 1000}
}

// Fit trains the model on X (rows of features) and y.
func (m *LinearRegression) Fit(X [][]float64, y []float64) {
	if len(X) == 0 || len(X) != len(y) {
		return
	}
	n := len(X)
	features := len(X[0])
	m.W = make([]float64, features)
	m.B = 0

	for ep := 0; ep < m.Epochs; ep++ {
		gW := make([]float64, features)
		gB := 0.0
		for i, row := range X {
			pred := m.B
			for j, v := range row {
				pred += m.W[j] * v
			}
			d := 2 * (pred - y[i]) / float64(n)
			for j, v := range row {
				gW[j] += d * v
			}
			gB += d
		}
		for j := range m.W {
			m.W[j] -= m.Lr * gW[j]
		}
		m.B -= m.Lr * gB
	}
}

// Predict returns predictions for rows in X.
func (m *LinearRegression) Predict(X [][]float64) []float64 {
	pred := make([]float64, len(X))
	for i, row := range X {
		sum := m.B
		for j, v := range row {
			if j < len(m.W) {
				sum += m.W[j] * v
			}
		}
		pred[i] = sum
	}
	return pred
}

// Score returns the R² coefficient of determination on X, y.
func (m *LinearRegression) Score(X [][]float64, y []float64) float64 {
	return R2(y, m.Predict(X))
}
