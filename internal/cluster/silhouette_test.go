package cluster

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/CaskBytes/vinolab-cli/internal/errs"
)

func TestSilhouetteRange(t *testing.T) {
	x := blobs(20, 25, 1.5, []float64{0, 0}, []float64{3, 3})
	km := NewKMeans(KMeansConfig{K: 2, Seed: 3})
	if err := km.Fit(x); err != nil {
		t.Fatalf("fit: %v", err)
	}
	scores, err := Silhouettes(x, km.Assignments())
	if err != nil {
		t.Fatalf("silhouettes: %v", err)
	}
	for i, s := range scores {
		if s < -1 || s > 1 {
			t.Fatalf("silhouette[%d] = %v outside [-1, 1]", i, s)
		}
	}
}

func TestSilhouetteSeparatedBeatsOverlapping(t *testing.T) {
	far := blobs(21, 20, 0.2, []float64{0, 0}, []float64{20, 20})
	near := blobs(21, 20, 2.0, []float64{0, 0}, []float64{1, 1})
	labels := make([]int, 40)
	for i := 20; i < 40; i++ {
		labels[i] = 1
	}
	sFar, err := Silhouette(far, labels)
	if err != nil {
		t.Fatalf("silhouette far: %v", err)
	}
	sNear, err := Silhouette(near, labels)
	if err != nil {
		t.Fatalf("silhouette near: %v", err)
	}
	if sFar <= sNear {
		t.Fatalf("separated blobs scored %v, overlapping %v; want separated higher", sFar, sNear)
	}
	if sFar < 0.8 {
		t.Fatalf("well-separated blobs scored only %v", sFar)
	}
}

func TestSilhouetteSingleClusterUndefined(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	if _, err := Silhouette(x, []int{0, 0, 0, 0}); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("want ErrConfig, got %v", err)
	}
}

func TestSilhouetteSingletonScoresZero(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{0, 0.1, 0.2, 9})
	scores, err := Silhouettes(x, []int{0, 0, 0, 1})
	if err != nil {
		t.Fatalf("silhouettes: %v", err)
	}
	if scores[3] != 0 {
		t.Fatalf("singleton cluster point scored %v, want 0", scores[3])
	}
}

func TestSilhouetteLabelMismatch(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{1, 2, 3})
	if _, err := Silhouette(x, []int{0, 1}); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("want ErrConfig, got %v", err)
	}
}
