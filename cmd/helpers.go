package cmd

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/CaskBytes/vinolab-cli/internal/cluster"
	"github.com/CaskBytes/vinolab-cli/internal/dataset"
	"github.com/CaskBytes/vinolab-cli/internal/preprocess"
	"github.com/CaskBytes/vinolab-cli/internal/tune"
)

const (
	algoKMeans = "kmeans"
	algoWard   = "ward"
)

// prepared is the front half of every pipeline run: the seeded split, the
// transform fitted on the training split only, and both splits passed
// through it.
type prepared struct {
	train, test   *dataset.Table
	transform     *preprocess.Transform
	trainX, testX *mat.Dense
}

// preparePipeline splits the table and fits the preprocessing transform
// (standardization, plus PCA when pca > 0) on the training side.
func preparePipeline(t *dataset.Table, pca int) (*prepared, error) {
	train, test, err := t.Split(cfg.TrainFrac, cfg.Seed)
	if err != nil {
		return nil, err
	}
	tr, err := preprocess.Fit(train, pca)
	if err != nil {
		return nil, err
	}
	trainX, err := tr.Apply(train)
	if err != nil {
		return nil, err
	}
	testX, err := tr.Apply(test)
	if err != nil {
		return nil, err
	}
	debugf("split %d/%d rows, %d transformed columns", train.Rows(), test.Rows(), colsOf(trainX))
	return &prepared{train: train, test: test, transform: tr, trainX: trainX, testX: testX}, nil
}

// featureNames labels the transformed space: principal components when a PCA
// step is fitted, otherwise the retained input columns.
func (p *prepared) featureNames() []string {
	if n := p.transform.Components(); n > 0 {
		names := make([]string, n)
		for i := range names {
			names[i] = fmt.Sprintf("PC%d", i+1)
		}
		return names
	}
	return p.transform.Columns()
}

// trainTable wraps the transformed training matrix for folding.
func (p *prepared) trainTable() *dataset.Table {
	return dataset.FromMatrix(p.train.Name, p.featureNames(), p.trainX)
}

// modelFactory builds the tuner factory for one algorithm under the loaded
// configuration.
func modelFactory(algo string) (tune.Factory, error) {
	switch algo {
	case algoKMeans:
		return func(k int) cluster.Model {
			return cluster.NewKMeans(cluster.KMeansConfig{
				K:        k,
				MaxIter:  cfg.KMeansMaxIter,
				Restarts: cfg.KMeansRestarts,
				Seed:     cfg.Seed,
			})
		}, nil
	case algoWard:
		return func(k int) cluster.Model { return cluster.NewWard(k) }, nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q (use %s or %s)", algo, algoKMeans, algoWard)
	}
}

// tuneAlgorithm cross-validates one algorithm over the configured grid on
// the transformed training split.
func tuneAlgorithm(algo string, p *prepared, pca int) (*tune.Result, error) {
	factory, err := modelFactory(algo)
	if err != nil {
		return nil, err
	}
	folds, err := p.trainTable().Folds(cfg.Folds, cfg.Seed)
	if err != nil {
		return nil, err
	}
	res, err := tune.Run(algo, factory, folds, cfg.KMin, cfg.KMax)
	if err != nil {
		return nil, err
	}
	res.PCA = pca
	return res, nil
}

// fitModel refits one algorithm at the chosen count on the full transformed
// training split.
func fitModel(algo string, k int, p *prepared) (cluster.Model, error) {
	factory, err := modelFactory(algo)
	if err != nil {
		return nil, err
	}
	m := factory(k)
	if err := m.Fit(p.trainX); err != nil {
		return nil, err
	}
	return m, nil
}

func colsOf(m *mat.Dense) int {
	_, c := m.Dims()
	return c
}
