// Package cluster implements the two clustering families the pipeline tunes:
// k-means with multi-restart Lloyd iteration and agglomerative hierarchical
// clustering with Ward linkage, both behind one Model interface so the tuner
// treats them as interchangeable strategies. Silhouette scoring lives here
// too, next to the distance helpers it shares with the models.
package cluster

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Model is one fitted clustering strategy.
type Model interface {
	// Fit clusters the rows of x and records the training assignment.
	Fit(x *mat.Dense) error
	// Predict assigns each row of x to the nearest fitted cluster.
	Predict(x *mat.Dense) []int
	// Centroids returns the k cluster centers, one per row.
	Centroids() *mat.Dense
	// Assignments returns the training labels recorded by Fit.
	Assignments() []int
}

// sqDist is the squared Euclidean distance between two vectors.
func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

// nearest returns the index of the centroid row closest to p and its
// squared distance.
func nearest(p []float64, centroids *mat.Dense) (int, float64) {
	k, d := centroids.Dims()
	best, bestDist := 0, math.Inf(1)
	row := make([]float64, d)
	for c := 0; c < k; c++ {
		mat.Row(row, c, centroids)
		if dist := sqDist(p, row); dist < bestDist {
			best, bestDist = c, dist
		}
	}
	return best, bestDist
}

// AssignNearest labels every row of x with the index of the nearest centroid
// row, by Euclidean distance. It is the predict rule shared by both model
// families and by snapshot-restored models.
func AssignNearest(x, centroids *mat.Dense) []int {
	return assignAll(x, centroids)
}

// assignAll labels every row of x with its nearest centroid.
func assignAll(x, centroids *mat.Dense) []int {
	n, d := x.Dims()
	labels := make([]int, n)
	row := make([]float64, d)
	for i := 0; i < n; i++ {
		mat.Row(row, i, x)
		labels[i], _ = nearest(row, centroids)
	}
	return labels
}

// distinctRows counts unique rows in x, capped at limit. Used to reject
// cluster counts that exceed the number of distinguishable points.
func distinctRows(x *mat.Dense, limit int) int {
	n, d := x.Dims()
	seen := make([][]float64, 0, limit)
	a := make([]float64, d)
outer:
	for i := 0; i < n; i++ {
		mat.Row(a, i, x)
		for _, s := range seen {
			if sqDist(a, s) == 0 {
				continue outer
			}
		}
		seen = append(seen, append([]float64(nil), a...))
		if len(seen) >= limit {
			break
		}
	}
	return len(seen)
}

// meansByLabel computes the mean vector of each label group. Labels must be
// 0..k-1; empty groups yield zero rows.
func meansByLabel(x *mat.Dense, labels []int, k int) *mat.Dense {
	n, d := x.Dims()
	sums := mat.NewDense(k, d, nil)
	counts := make([]float64, k)
	row := make([]float64, d)
	for i := 0; i < n; i++ {
		mat.Row(row, i, x)
		c := labels[i]
		counts[c]++
		for j := 0; j < d; j++ {
			sums.Set(c, j, sums.At(c, j)+row[j])
		}
	}
	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			continue
		}
		for j := 0; j < d; j++ {
			sums.Set(c, j, sums.At(c, j)/counts[c])
		}
	}
	return sums
}
