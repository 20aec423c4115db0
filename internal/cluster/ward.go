package cluster

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/CaskBytes/vinolab-cli/internal/errs"
)

// Merge is one step of the agglomeration. A and B are node ids: ids below n
// are leaves (input rows), id n+t is the cluster produced by merge t. Dist is
// the Ward criterion value of the merge (the increase in total within-cluster
// variance), non-decreasing over the sequence. Size is the merged cluster's
// point count.
type Merge struct {
	A, B int
	Dist float64
	Size int
}

// Ward is bottom-up agglomerative clustering under Ward's minimum-variance
// linkage. Fit builds the full merge tree; the recorded tree is cut at K to
// produce the training assignment. Predict assigns by nearest cut-cluster
// mean, which the cross-validation tuner needs to score held-out folds;
// genuinely new points have no natural home in a fitted hierarchy, so the
// CLI only exposes that path behind an explicit opt-in.
type Ward struct {
	K int

	merges []Merge
	lab    []int
	cent   *mat.Dense
	n      int
}

// NewWard builds an unfitted Ward model that will be cut at k clusters.
func NewWard(k int) *Ward { return &Ward{K: k} }

var _ Model = (*Ward)(nil)

// node is an active cluster during agglomeration.
type node struct {
	id       int
	size     float64
	centroid []float64
}

func (w *Ward) Fit(x *mat.Dense) error {
	n, d := x.Dims()
	if w.K < 1 {
		return errs.Configf("ward: cluster count %d", w.K)
	}
	if w.K > n {
		return errs.Configf("ward: %d clusters requested from %d points", w.K, n)
	}

	active := make([]*node, n)
	for i := 0; i < n; i++ {
		c := make([]float64, d)
		mat.Row(c, i, x)
		active[i] = &node{id: i, size: 1, centroid: c}
	}

	w.n = n
	w.merges = make([]Merge, 0, n-1)
	for t := 0; len(active) > 1; t++ {
		bi, bj, bd := -1, -1, math.Inf(1)
		for i := 0; i < len(active); i++ {
			for j := i + 1; j < len(active); j++ {
				if dist := wardDist(active[i], active[j]); dist < bd {
					bi, bj, bd = i, j, dist
				}
			}
		}
		a, b := active[bi], active[bj]
		merged := &node{
			id:       n + t,
			size:     a.size + b.size,
			centroid: make([]float64, d),
		}
		for j := 0; j < d; j++ {
			merged.centroid[j] = (a.size*a.centroid[j] + b.size*b.centroid[j]) / merged.size
		}
		w.merges = append(w.merges, Merge{A: a.id, B: b.id, Dist: bd, Size: int(merged.size)})
		active[bi] = merged
		active = append(active[:bj], active[bj+1:]...)
	}

	w.lab = w.Cut(w.K)
	w.cent = meansByLabel(x, w.lab, w.K)
	return nil
}

// wardDist is the increase in total within-cluster sum of squares caused by
// merging a and b: |a||b|/(|a|+|b|) · ‖ca − cb‖².
func wardDist(a, b *node) float64 {
	return a.size * b.size / (a.size + b.size) * sqDist(a.centroid, b.centroid)
}

// Cut labels the original points with the k clusters obtained by undoing the
// last k−1 merges. Labels are renumbered 0..k−1 in first-appearance order.
func (w *Ward) Cut(k int) []int {
	parent := make([]int, w.n+len(w.merges))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	// Replay merges until only k clusters remain.
	for t := 0; t < w.n-k; t++ {
		m := w.merges[t]
		root := w.n + t
		parent[find(m.A)] = root
		parent[find(m.B)] = root
	}
	labels := make([]int, w.n)
	next := 0
	byRoot := make(map[int]int, k)
	for i := 0; i < w.n; i++ {
		r := find(i)
		l, ok := byRoot[r]
		if !ok {
			l = next
			byRoot[r] = l
			next++
		}
		labels[i] = l
	}
	return labels
}

// Dendrogram returns the recorded merge sequence.
func (w *Ward) Dendrogram() []Merge { return w.merges }

func (w *Ward) Predict(x *mat.Dense) []int { return assignAll(x, w.cent) }

func (w *Ward) Centroids() *mat.Dense { return w.cent }

func (w *Ward) Assignments() []int { return w.lab }
