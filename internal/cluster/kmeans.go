package cluster

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/CaskBytes/vinolab-cli/internal/errs"
)

// KMeansConfig controls a k-means fit. Zero values fall back to defaults.
type KMeansConfig struct {
	K        int
	MaxIter  int   // iteration cap per restart
	Restarts int   // random initializations tried; best WCSS kept
	Seed     int64 // seeds centroid initialization
}

// KMeans is Lloyd's relocation algorithm with multiple seeded random
// initializations. The restart with the lowest within-cluster sum of squares
// wins, which damps sensitivity to the initial centroid draw.
type KMeans struct {
	cfg  KMeansConfig
	rng  *rand.Rand
	cent *mat.Dense
	lab  []int
	wcss float64
}

// NewKMeans builds an unfitted k-means model.
func NewKMeans(cfg KMeansConfig) *KMeans {
	if cfg.MaxIter <= 0 {
		cfg.MaxIter = 100
	}
	if cfg.Restarts <= 0 {
		cfg.Restarts = 10
	}
	return &KMeans{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

var _ Model = (*KMeans)(nil)

func (km *KMeans) Fit(x *mat.Dense) error {
	k := km.cfg.K
	if k < 1 {
		return errs.Configf("kmeans: cluster count %d", k)
	}
	if distinct := distinctRows(x, k); distinct < k {
		return errs.Configf("kmeans: %d clusters requested but only %d distinct points", k, distinct)
	}

	bestWCSS := math.Inf(1)
	var bestCent *mat.Dense
	var bestLab []int
	for r := 0; r < km.cfg.Restarts; r++ {
		cent, lab, wcss, err := km.run(x)
		if err != nil {
			return err
		}
		if wcss < bestWCSS {
			bestWCSS, bestCent, bestLab = wcss, cent, lab
		}
	}
	km.cent, km.lab, km.wcss = bestCent, bestLab, bestWCSS
	return nil
}

// run is one restart: seed centroids from distinct data rows, then relocate
// until assignments stop changing or the iteration cap is hit.
func (km *KMeans) run(x *mat.Dense) (*mat.Dense, []int, float64, error) {
	n, d := x.Dims()
	k := km.cfg.K
	cent := km.initCentroids(x)
	labels := assignAll(x, cent)
	for iter := 0; iter < km.cfg.MaxIter; iter++ {
		cent = meansByLabel(x, labels, k)
		if err := km.repairEmpty(x, cent, labels); err != nil {
			return nil, nil, 0, err
		}
		next := assignAll(x, cent)
		changed := false
		for i := range next {
			if next[i] != labels[i] {
				changed = true
				break
			}
		}
		labels = next
		if !changed {
			break
		}
	}
	var wcss float64
	row := make([]float64, d)
	for i := 0; i < n; i++ {
		mat.Row(row, i, x)
		_, dist := nearest(row, cent)
		wcss += dist
	}
	return cent, labels, wcss, nil
}

// initCentroids draws k distinct data rows as starting centroids.
func (km *KMeans) initCentroids(x *mat.Dense) *mat.Dense {
	n, d := x.Dims()
	k := km.cfg.K
	cent := mat.NewDense(k, d, nil)
	row := make([]float64, d)
	other := make([]float64, d)
	chosen := 0
	for chosen < k {
		mat.Row(row, km.rng.Intn(n), x)
		dup := false
		for c := 0; c < chosen; c++ {
			mat.Row(other, c, cent)
			if sqDist(row, other) == 0 {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		cent.SetRow(chosen, row)
		chosen++
	}
	return cent
}

// repairEmpty reseeds any empty cluster with the point farthest from its
// current centroid and relabels that point. Returns a numerical error only
// if repair is impossible.
func (km *KMeans) repairEmpty(x, cent *mat.Dense, labels []int) error {
	n, d := x.Dims()
	k, _ := cent.Dims()
	counts := make([]int, k)
	for _, l := range labels {
		counts[l]++
	}
	row := make([]float64, d)
	own := make([]float64, d)
	for c := 0; c < k; c++ {
		if counts[c] > 0 {
			continue
		}
		far, farDist := -1, -1.0
		for i := 0; i < n; i++ {
			if counts[labels[i]] <= 1 {
				continue // cannot steal the last member of another cluster
			}
			mat.Row(row, i, x)
			mat.Row(own, labels[i], cent)
			if dist := sqDist(row, own); dist > farDist {
				far, farDist = i, dist
			}
		}
		if far < 0 {
			return errs.Numericalf("kmeans: empty cluster %d could not be reseeded", c)
		}
		mat.Row(row, far, x)
		cent.SetRow(c, row)
		counts[labels[far]]--
		labels[far] = c
		counts[c]++
	}
	return nil
}

func (km *KMeans) Predict(x *mat.Dense) []int { return assignAll(x, km.cent) }

func (km *KMeans) Centroids() *mat.Dense { return km.cent }

func (km *KMeans) Assignments() []int { return km.lab }

// WCSS reports the within-cluster sum of squares of the winning restart.
func (km *KMeans) WCSS() float64 { return km.wcss }
