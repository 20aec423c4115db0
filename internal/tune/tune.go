// Package tune cross-validates clustering models over a grid of candidate
// cluster counts and selects the count with the best mean silhouette.
package tune

import (
	"errors"
	"math"

	"github.com/CaskBytes/vinolab-cli/internal/cluster"
	"github.com/CaskBytes/vinolab-cli/internal/dataset"
	"github.com/CaskBytes/vinolab-cli/internal/errs"
)

// Factory builds an unfitted model for a candidate cluster count.
type Factory func(k int) cluster.Model

// Candidate is the cross-validated score of one cluster count. Score is NaN
// for the degenerate count 1, where silhouette is undefined. Folds counts
// the folds that actually contributed (a fold is skipped when every held-out
// point lands in one cluster).
type Candidate struct {
	K     int     `yaml:"k"`
	Score float64 `yaml:"mean_silhouette"`
	Folds int     `yaml:"folds_scored"`
}

// Result is the outcome of tuning one algorithm over the candidate grid.
type Result struct {
	Algorithm  string      `yaml:"algorithm"`
	PCA        int         `yaml:"pca_components"`
	Candidates []Candidate `yaml:"candidates"`
	Best       int         `yaml:"best_k"`
}

// BestScore returns the winning candidate's mean silhouette.
func (r *Result) BestScore() float64 {
	for _, c := range r.Candidates {
		if c.K == r.Best {
			return c.Score
		}
	}
	return math.NaN()
}

// Run scores every candidate count in [kMin, kMax] by k-fold cross-validated
// mean silhouette: fit on the fold remainder, assign held-out points to the
// nearest fitted cluster, score the held-out assignment, average over folds.
// Selection takes the exact maximum; ties break toward the smaller count.
func Run(algorithm string, factory Factory, folds []dataset.Fold, kMin, kMax int) (*Result, error) {
	if kMin < 1 || kMax < kMin {
		return nil, errs.Configf("tune %s: bad candidate range [%d, %d]", algorithm, kMin, kMax)
	}
	if len(folds) < 2 {
		return nil, errs.Configf("tune %s: need at least 2 folds, got %d", algorithm, len(folds))
	}

	res := &Result{Algorithm: algorithm}
	for k := kMin; k <= kMax; k++ {
		if k == 1 {
			res.Candidates = append(res.Candidates, Candidate{K: 1, Score: math.NaN()})
			continue
		}
		var sum float64
		scored := 0
		for _, f := range folds {
			m := factory(k)
			if err := m.Fit(f.Train.Dense()); err != nil {
				if errors.Is(err, errs.ErrConfig) {
					continue // fold remainder has too few distinct points for k
				}
				return nil, err
			}
			labels := m.Predict(f.Test.Dense())
			s, err := cluster.Silhouette(f.Test.Dense(), labels)
			if err != nil {
				if errors.Is(err, errs.ErrConfig) {
					continue // degenerate fold: all held-out points in one cluster
				}
				return nil, err
			}
			sum += s
			scored++
		}
		score := math.NaN()
		if scored > 0 {
			score = sum / float64(scored)
		}
		res.Candidates = append(res.Candidates, Candidate{K: k, Score: score, Folds: scored})
	}

	best, bestScore := 0, math.Inf(-1)
	for _, c := range res.Candidates {
		if !math.IsNaN(c.Score) && c.Score > bestScore {
			best, bestScore = c.K, c.Score
		}
	}
	if best == 0 {
		return nil, errs.Numericalf("tune %s: no candidate produced a defined silhouette", algorithm)
	}
	res.Best = best
	return res, nil
}
