package cluster

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/CaskBytes/vinolab-cli/internal/errs"
)

// Silhouettes computes the per-point silhouette coefficient
// (b − a) / max(a, b), where a is the mean distance to the point's own
// cluster and b the mean distance to the nearest other cluster. Points that
// are alone in their cluster score 0 by convention. Every coefficient lies
// in [−1, 1]. Fails if fewer than two clusters are populated, where the
// score is undefined.
func Silhouettes(x *mat.Dense, labels []int) ([]float64, error) {
	n, d := x.Dims()
	if len(labels) != n {
		return nil, errs.Configf("silhouette: %d labels for %d points", len(labels), n)
	}
	k := 0
	for _, l := range labels {
		if l < 0 {
			return nil, errs.Configf("silhouette: negative label %d", l)
		}
		if l+1 > k {
			k = l + 1
		}
	}
	counts := make([]int, k)
	for _, l := range labels {
		counts[l]++
	}
	populated := 0
	for _, c := range counts {
		if c > 0 {
			populated++
		}
	}
	if populated < 2 {
		return nil, errs.Configf("silhouette: undefined for %d populated cluster(s)", populated)
	}

	// Pairwise Euclidean distances; n is small enough that the full matrix
	// beats recomputing rows per point.
	dist := make([][]float64, n)
	ri := make([]float64, d)
	rj := make([]float64, d)
	for i := 0; i < n; i++ {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		mat.Row(ri, i, x)
		for j := i + 1; j < n; j++ {
			mat.Row(rj, j, x)
			e := math.Sqrt(sqDist(ri, rj))
			dist[i][j] = e
			dist[j][i] = e
		}
	}

	out := make([]float64, n)
	sums := make([]float64, k)
	for i := 0; i < n; i++ {
		own := labels[i]
		if counts[own] == 1 {
			out[i] = 0
			continue
		}
		for c := range sums {
			sums[c] = 0
		}
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			sums[labels[j]] += dist[i][j]
		}
		a := sums[own] / float64(counts[own]-1)
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == own || counts[c] == 0 {
				continue
			}
			if m := sums[c] / float64(counts[c]); m < b {
				b = m
			}
		}
		if a == 0 && b == 0 {
			out[i] = 0
			continue
		}
		out[i] = (b - a) / math.Max(a, b)
	}
	return out, nil
}

// Silhouette is the mean silhouette coefficient over all points.
func Silhouette(x *mat.Dense, labels []int) (float64, error) {
	s, err := Silhouettes(x, labels)
	if err != nil {
		return math.NaN(), err
	}
	var sum float64
	for _, v := range s {
		sum += v
	}
	return sum / float64(len(s)), nil
}
