package cluster

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/CaskBytes/vinolab-cli/internal/errs"
)

func TestWardRecoversBlobs(t *testing.T) {
	x := blobs(10, 20, 0.3, []float64{0, 0}, []float64{10, 0}, []float64{0, 10})
	w := NewWard(3)
	if err := w.Fit(x); err != nil {
		t.Fatalf("fit: %v", err)
	}
	labels := w.Assignments()
	for b := 0; b < 3; b++ {
		want := labels[b*20]
		for i := 0; i < 20; i++ {
			if labels[b*20+i] != want {
				t.Fatalf("blob %d split across clusters", b)
			}
		}
	}
}

func TestWardMergeSequence(t *testing.T) {
	x := blobs(11, 10, 0.5, []float64{0, 0}, []float64{5, 5})
	w := NewWard(2)
	if err := w.Fit(x); err != nil {
		t.Fatalf("fit: %v", err)
	}
	n, _ := x.Dims()
	merges := w.Dendrogram()
	if len(merges) != n-1 {
		t.Fatalf("got %d merges for %d points, want %d", len(merges), n, n-1)
	}
	// Ward merge criterion is non-decreasing.
	for i := 1; i < len(merges); i++ {
		if merges[i].Dist < merges[i-1].Dist {
			t.Fatalf("merge criterion decreases at step %d: %v -> %v", i, merges[i-1].Dist, merges[i].Dist)
		}
	}
	if got := merges[len(merges)-1].Size; got != n {
		t.Fatalf("final merge size %d, want %d", got, n)
	}
}

func TestWardCutCounts(t *testing.T) {
	x := blobs(12, 8, 0.4, []float64{0, 0}, []float64{4, 0}, []float64{0, 4}, []float64{4, 4})
	w := NewWard(4)
	if err := w.Fit(x); err != nil {
		t.Fatalf("fit: %v", err)
	}
	for _, k := range []int{1, 2, 3, 4, 7} {
		labels := w.Cut(k)
		seen := map[int]bool{}
		for _, l := range labels {
			seen[l] = true
		}
		if len(seen) != k {
			t.Fatalf("cut at %d produced %d clusters", k, len(seen))
		}
	}
}

func TestWardTooManyClusters(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{1, 2, 3})
	w := NewWard(5)
	if err := w.Fit(x); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("want ErrConfig, got %v", err)
	}
}

func TestWardPredictUsesClusterMeans(t *testing.T) {
	x := blobs(13, 15, 0.3, []float64{0, 0}, []float64{9, 9})
	w := NewWard(2)
	if err := w.Fit(x); err != nil {
		t.Fatalf("fit: %v", err)
	}
	probe := mat.NewDense(1, 2, []float64{8.5, 9.4})
	if got, want := w.Predict(probe)[0], w.Assignments()[15]; got != want {
		t.Fatalf("probe near blob 1 assigned %d, want %d", got, want)
	}
}
