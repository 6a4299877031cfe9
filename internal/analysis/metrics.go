package analysis

import (
	"math"
	"sort"
)

// MSE returns the mean squared error between true and predicted values.
func MSE(yTrue, yPred []float64) float64 {
	n := float64(len(yTrue))
	if n == 0 {
		return 0
	}
	s := 0.0
	for i := range yTrue {
		d := yPred[i] - yTrue[i]
		s += d * d
	}
	return s / n
}

// MAE returns the mean absolute error between true and predicted values.
func MAE(yTrue, yPred []float64) float64 {
	n := float64(len(yTrue))
	if n == 0 {
		return 0
	}
	s := 0.0
	for i := range yTrue {
		s += math.Abs(yPred[i] - yTrue[i])
	}
	return s / n
}

// RMSE returns the root mean squared error.
func RMSE(yTrue, yPred []float64) float64 { return math.Sqrt(MSE(yTrue, yPred)) }

// R2 returns the coefficient of determination.
func R2(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	m := Mean(yTrue)
	ssTot := 0.0
	ssRes := 0.0
	for i := range yTrue {
		d := yTrue[i] - m
		ssTot += d * d
		r := yTrue[i] - yPred[i]
		ssRes += r * r
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// Accuracy returns the fraction of exactly matching labels.
func Accuracy(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// ConfusionMatrix returns the label list (sorted) and the matrix of counts
// where cell [i][j] counts rows with true label labels[i] predicted as labels[j].
func ConfusionMatrix(yTrue, yPred []float64) (labels []float64, matrix [][]int) {
	seen := make(map[float64]bool)
	for _, v := range yTrue {
		if !seen[v] {
			seen[v] = true
			labels = append(labels, v)
		}
	}
	for _, v := range yPred {
		if !seen[v] {
			seen[v] = true
			labels = append(labels, v)
		}
	}
	sort.Float64s(labels)

	index := make(map[float64]int, len(labels))
	for i, v := range labels {
		index[v] = i
	}
	matrix = make([][]int, len(labels))
	for i := range matrix {
		matrix[i] = make([]int, len(labels))
	}
	for i := range yTrue {
		if i < len(yPred) {
			matrix[index[yTrue[i]]][index[yPred[i]]]++
		}
	}
	return labels, matrix
}
