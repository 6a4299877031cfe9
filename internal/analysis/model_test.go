package analysis

import (
	"math"
	"math/rand"
	"testing"
)

func TestLinearRegression(t *testing.T) {
	// y = 2x + 1, exactly.
	var X [][]float64
	var y []float64
	for i := 0; i < 20; i++ {
		v := float64(i) / 10
		X = append(X, []float64{v})
		y = append(y, 2*v+1)
	}

	m := NewLinearRegression()
	m.Fit(X, y)

	approx(t, m.W[0], 2, 0.05)
	approx(t, m.B, 1, 0.05)
	if score := m.Score(X, y); score < 0.999 {
		t.Fatalf("score = %v", score)
	}

	pred := m.Predict([][]float64{{5}})
	approx(t, pred[0], 11, 0.2)
}

func TestLogisticRegression(t *testing.T) {
	// Two well-separated classes on a single feature.
	var X [][]float64
	var y []float64
	for i := 0; i < 10; i++ {
		X = append(X, []float64{float64(i)})
		y = append(y, 0)
		X = append(X, []float64{float64(i) + 20})
		y = append(y, 1)
	}

	m := NewLogisticRegression()
	m.Fit(X, y)

	if len(m.Classes) != 2 || m.Classes[0] != 0 || m.Classes[1] != 1 {
		t.Fatalf("classes = %v", m.Classes)
	}
	if acc := Accuracy(y, m.Predict(X)); acc != 1 {
		t.Fatalf("accuracy = %v", acc)
	}

	probs := m.PredictProba([][]float64{{0}})
	if probs[0][0] <= probs[0][1] {
		t.Fatalf("x=0 should favor class 0: %v", probs[0])
	}
}

func TestKMeans(t *testing.T) {
	// Two tight blobs far apart.
	var X [][]float64
	for i := 0; i < 10; i++ {
		X = append(X, []float64{float64(i%3) * 0.1, 0})
		X = append(X, []float64{100 + float64(i%3)*0.1, 0})
	}

	rng := rand.New(rand.NewSource(1))
	m := NewKMeans(2)
	m.Fit(X, rng)

	if len(m.Centroids) != 2 || len(m.Labels) != len(X) {
		t.Fatalf("centroids = %d, labels = %d", len(m.Centroids), len(m.Labels))
	}
	// Even indices form one blob, odd indices the other.
	for i := 2; i < len(X); i += 2 {
		if m.Labels[i] != m.Labels[0] {
			t.Fatalf("row %d split from its blob", i)
		}
	}
	if m.Labels[1] == m.Labels[0] {
		t.Fatal("blobs merged into one cluster")
	}

	pred := m.Predict([][]float64{{0.05, 0}, {100.05, 0}})
	if pred[0] != m.Labels[0] || pred[1] != m.Labels[1] {
		t.Fatalf("predict = %v", pred)
	}
}

func TestStandardScaler(t *testing.T) {
	X := [][]float64{{1, 10}, {2, 20}, {3, 30}, {4, 40}}

	s := NewStandardScaler()
	out := s.FitTransform(X)

	for j := 0; j < 2; j++ {
		var col []float64
		for i := range out {
			col = append(col, out[i][j])
		}
		approx(t, Mean(col), 0, 1e-9)
		approx(t, Std(col), 1, 1e-9)
	}

	t.Run("zero variance column", func(t *testing.T) {
		s := NewStandardScaler()
		out := s.FitTransform([][]float64{{5}, {5}, {5}})
		for i := range out {
			approx(t, out[i][0], 0, 1e-12)
		}
	})
}

func TestTrainTestSplit(t *testing.T) {
	var X [][]float64
	var y []float64
	for i := 0; i < 100; i++ {
		X = append(X, []float64{float64(i)})
		y = append(y, float64(i))
	}

	rng := rand.New(rand.NewSource(7))
	XTrain, XTest, yTrain, yTest := TrainTestSplit(X, y, 0.2, rng)

	if len(XTest) != 20 || len(XTrain) != 80 {
		t.Fatalf("split sizes = %d/%d", len(XTrain), len(XTest))
	}
	if len(yTrain) != len(XTrain) || len(yTest) != len(XTest) {
		t.Fatal("X and y lengths diverged")
	}

	// Rows stay paired with their labels and nothing is duplicated.
	seen := make(map[float64]bool)
	check := func(X [][]float64, y []float64) {
		for i := range X {
			if X[i][0] != y[i] {
				t.Fatalf("row %v paired with label %v", X[i][0], y[i])
			}
			if seen[y[i]] {
				t.Fatalf("row %v appears twice", y[i])
			}
			seen[y[i]] = true
		}
	}
	check(XTrain, yTrain)
	check(XTest, yTest)
	if len(seen) != 100 {
		t.Fatalf("rows lost: %d", len(seen))
	}
}

func TestRegressionMetrics(t *testing.T) {
	yTrue := []float64{1, 2, 3}
	yPred := []float64{1, 2, 6}

	approx(t, MSE(yTrue, yPred), 3, 1e-12)
	approx(t, MAE(yTrue, yPred), 1, 1e-12)
	approx(t, RMSE(yTrue, yPred), math.Sqrt(3), 1e-12)
	approx(t, R2(yTrue, yTrue), 1, 1e-12)
}

func TestConfusionMatrix(t *testing.T) {
	yTrue := []float64{0, 0, 1, 1, 2}
	yPred := []float64{0, 1, 1, 1, 2}

	labels, matrix := ConfusionMatrix(yTrue, yPred)
	if len(labels) != 3 {
		t.Fatalf("labels = %v", labels)
	}
	if matrix[0][0] != 1 || matrix[0][1] != 1 {
		t.Fatalf("class 0 row = %v", matrix[0])
	}
	if matrix[1][1] != 2 || matrix[2][2] != 1 {
		t.Fatalf("matrix = %v", matrix)
	}

	approx(t, Accuracy(yTrue, yPred), 0.8, 1e-12)
}
