package analysis

import "math/rand"

// KMeans clusters rows of X into K groups with Lloyd's algorithm.
// Initial centroids are sampled from X using rng, so a fixed seed gives
// reproducible clusterings.
type KMeans struct {
	K         int
	MaxIter   int
	Centroids [][]float64
	Labels    []int
}

// NewKMeans returns a clusterer for k groups.
func NewKMeans(k int) *KMeans {
	return &KMeans{K: k, MaxIter: 100}
}

func squaredDistance(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

// Fit assigns every row of X to one of K clusters.
func (m *KMeans) Fit(X [][]float64, rng *rand.Rand) {
	n := len(X)
	if n == 0 || m.K <= 0 {
		return
	}
	k := m.K
	if k > n {
		k = n
	}

	// Sample distinct rows as initial centroids.
	perm := rng.Perm(n)
	m.Centroids = make([][]float64, k)
	for i := 0; i < k; i++ {
		row := X[perm[i]]
		centroid := make([]float64, len(row))
		copy(centroid, row)
		m.Centroids[i] = centroid
	}

	m.Labels = make([]int, n)
	for iter := 0; iter < m.MaxIter; iter++ {
		changed := false
		for i, row := range X {
			best := 0
			bestDist := squaredDistance(row, m.Centroids[0])
			for c := 1; c < k; c++ {
				if d := squaredDistance(row, m.Centroids[c]); d < bestDist {
					best = c
					bestDist = d
				}
			}
			if m.Labels[i] != best {
				m.Labels[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, len(X[0]))
		}
		for i, row := range X {
			c := m.Labels[i]
			counts[c]++
			for j, v := range row {
				sums[c][j] += v
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			for j := range sums[c] {
				m.Centroids[c][j] = sums[c][j] / float64(counts[c])
			}
		}
	}
}

// Predict returns the nearest centroid index for each row of X.
func (m *KMeans) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i, row := range X {
		best := 0
		bestDist := squaredDistance(row, m.Centroids[0])
		for c := 1; c < len(m.Centroids); c++ {
			if d := squaredDistance(row, m.Centroids[c]); d < bestDist {
				best = c
				bestDist = d
			}
		}
		out[i] = best
	}
	return out
}
