package cluster

import (
	"errors"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/CaskBytes/vinolab-cli/internal/errs"
)

// blobs generates n points around each of the given centers with the given
// spread, deterministically.
func blobs(seed int64, n int, spread float64, centers ...[]float64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	d := len(centers[0])
	x := mat.NewDense(n*len(centers), d, nil)
	for c, center := range centers {
		for i := 0; i < n; i++ {
			row := make([]float64, d)
			for j := 0; j < d; j++ {
				row[j] = center[j] + rng.NormFloat64()*spread
			}
			x.SetRow(c*n+i, row)
		}
	}
	return x
}

func TestKMeansRecoversBlobs(t *testing.T) {
	x := blobs(1, 30, 0.2, []float64{0, 0}, []float64{10, 0}, []float64{0, 10})
	km := NewKMeans(KMeansConfig{K: 3, Seed: 42})
	if err := km.Fit(x); err != nil {
		t.Fatalf("fit: %v", err)
	}
	labels := km.Assignments()
	n, _ := x.Dims()
	if len(labels) != n {
		t.Fatalf("got %d labels for %d points", len(labels), n)
	}
	// Every point assigned to exactly one of the 3 clusters, and each blob
	// lands in a single cluster.
	for b := 0; b < 3; b++ {
		want := labels[b*30]
		if want < 0 || want > 2 {
			t.Fatalf("label out of range: %d", want)
		}
		for i := 0; i < 30; i++ {
			if labels[b*30+i] != want {
				t.Fatalf("blob %d split across clusters", b)
			}
		}
	}
}

func TestKMeansFixedPoint(t *testing.T) {
	x := blobs(2, 25, 0.5, []float64{0, 0}, []float64{6, 6})
	km := NewKMeans(KMeansConfig{K: 2, Seed: 7})
	if err := km.Fit(x); err != nil {
		t.Fatalf("fit: %v", err)
	}
	// Reassigning every point to its nearest centroid after convergence
	// must not change any assignment.
	again := km.Predict(x)
	for i, l := range km.Assignments() {
		if again[i] != l {
			t.Fatalf("assignment %d changed on reassignment: %d -> %d", i, l, again[i])
		}
	}
}

func TestKMeansDeterministicWithSeed(t *testing.T) {
	x := blobs(3, 20, 1.0, []float64{0, 0}, []float64{5, 5})
	fit := func() []int {
		km := NewKMeans(KMeansConfig{K: 2, Seed: 99})
		if err := km.Fit(x); err != nil {
			t.Fatalf("fit: %v", err)
		}
		return km.Assignments()
	}
	a, b := fit(), fit()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different assignments at %d", i)
		}
	}
}

func TestKMeansTooManyClusters(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{
		1, 1,
		1, 1,
		2, 2,
		2, 2,
	})
	km := NewKMeans(KMeansConfig{K: 3, Seed: 1})
	if err := km.Fit(x); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("want ErrConfig for 3 clusters over 2 distinct points, got %v", err)
	}
}

func TestKMeansPredictNearestCentroid(t *testing.T) {
	x := blobs(4, 20, 0.3, []float64{0, 0}, []float64{8, 8})
	km := NewKMeans(KMeansConfig{K: 2, Seed: 5})
	if err := km.Fit(x); err != nil {
		t.Fatalf("fit: %v", err)
	}
	probe := mat.NewDense(2, 2, []float64{
		0.5, -0.2, // near first blob
		7.6, 8.3, // near second blob
	})
	got := km.Predict(probe)
	if got[0] == got[1] {
		t.Fatalf("probes near different blobs got the same cluster %d", got[0])
	}
	// Each probe agrees with the training points of its blob.
	if got[0] != km.Assignments()[0] {
		t.Fatalf("probe 0 assigned %d, blob 0 is cluster %d", got[0], km.Assignments()[0])
	}
	if got[1] != km.Assignments()[20] {
		t.Fatalf("probe 1 assigned %d, blob 1 is cluster %d", got[1], km.Assignments()[20])
	}
}

func TestRepairEmptySeedsFarthestFromOwnCentroid(t *testing.T) {
	// Cluster 1 is empty and its stale centroid (29) sits right next to the
	// point at 30. The reseeding candidate must be ranked by distance to the
	// centroid it is assigned to (0), not to whichever centroid is nearest,
	// so the point at 30 wins over the one at 10.
	x := mat.NewDense(4, 1, []float64{0, 1, 10, 30})
	cent := mat.NewDense(2, 1, []float64{0, 29})
	labels := []int{0, 0, 0, 0}

	km := NewKMeans(KMeansConfig{K: 2, Seed: 1})
	if err := km.repairEmpty(x, cent, labels); err != nil {
		t.Fatalf("repair: %v", err)
	}
	if got := cent.At(1, 0); got != 30 {
		t.Fatalf("empty cluster reseeded at %v, want 30", got)
	}
	if labels[3] != 1 {
		t.Fatalf("reseeded point keeps label %d, want 1", labels[3])
	}
	for i := 0; i < 3; i++ {
		if labels[i] != 0 {
			t.Fatalf("unrelated point %d relabeled to %d", i, labels[i])
		}
	}
}

func TestKMeansWCSSImprovesWithRightK(t *testing.T) {
	x := blobs(6, 25, 0.3, []float64{0, 0}, []float64{10, 0}, []float64{0, 10})
	fit := func(k int) float64 {
		km := NewKMeans(KMeansConfig{K: k, Seed: 11})
		if err := km.Fit(x); err != nil {
			t.Fatalf("fit k=%d: %v", k, err)
		}
		return km.WCSS()
	}
	if w3, w1 := fit(3), fit(1); w3 >= w1 {
		t.Fatalf("WCSS should drop from k=1 (%v) to k=3 (%v)", w1, w3)
	}
}
