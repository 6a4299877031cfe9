package analysis

import "math/rand"

// TrainTestSplit splits X, y into train and test sets by ratio.
// The permutation comes from rng so callers control determinism.
func TrainTestSplit(X [][]float64, y []float64, testRatio float64, rng *rand.Rand) (XTrain, XTest [][]float64, yTrain, yTest []float64) {
	n := len(X)
	if testRatio < 0 {
		testRatio = 0
	}
	if testRatio > 1 {
		testRatio = 1
	}
	indices := rng.Perm(n)
	nTest := int(float64(n) * testRatio)
	for i := 0; i < n; i++ {
		if i < nTest {
			XTest = append(XTest, X[indices[i]])
			yTest = append(yTest, y[indices[i]])
		} else {
			XTrain = append(XTrain, X[indices[i]])
			yTrain = append(yTrain, y[indices[i]])
		}
	}
	return
}

// Shuffle shuffles X and y in unison using rng.
func Shuffle(X [][]float64, y []float64, rng *rand.Rand) ([][]float64, []float64) {
	n := len(X)
	indices := rng.Perm(n)
	xs := make([][]float64, n)
	ys := make([]float64, n)
	for i, idx := range indices {
		xs[i] = X[idx]
		ys[i] = y[idx]
	}
	return xs, ys
}
