package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/CaskBytes/vinolab-cli/internal/preprocess"
)

// ModelSnapshot is the persisted form of a fitted clustering run: enough to
// reconstruct the frozen transform and centroids exactly, so predictions on
// new data use only training-split parameters.
type ModelSnapshot struct {
	Algorithm string              `yaml:"algorithm"`
	K         int                 `yaml:"k"`
	Seed      int64               `yaml:"seed"`
	Transform preprocess.Snapshot `yaml:"transform"`
	Centroids [][]float64         `yaml:"centroids"`
}

// NewModelSnapshot flattens a fitted model and its transform for saving.
func NewModelSnapshot(algorithm string, k int, seed int64, tr *preprocess.Transform, centroids *mat.Dense) ModelSnapshot {
	kr, d := centroids.Dims()
	cents := make([][]float64, kr)
	for c := 0; c < kr; c++ {
		cents[c] = make([]float64, d)
		mat.Row(cents[c], c, centroids)
	}
	return ModelSnapshot{
		Algorithm: algorithm,
		K:         k,
		Seed:      seed,
		Transform: tr.Snapshot(),
		Centroids: cents,
	}
}

// SaveModel writes the snapshot as YAML.
func SaveModel(path string, s ModelSnapshot) error {
	b, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal model snapshot: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write model snapshot: %w", err)
	}
	return nil
}

// LoadModel reads a model snapshot from disk.
func LoadModel(path string) (*ModelSnapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("model snapshot not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read model snapshot: %w", err)
	}
	var s ModelSnapshot
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse model snapshot: %w", err)
	}
	if s.K <= 0 || len(s.Centroids) != s.K {
		return nil, fmt.Errorf("model snapshot: %d centroids for k=%d", len(s.Centroids), s.K)
	}
	return &s, nil
}

// CentroidMatrix rebuilds the centroid matrix from the snapshot.
func (s *ModelSnapshot) CentroidMatrix() (*mat.Dense, error) {
	if len(s.Centroids) == 0 {
		return nil, fmt.Errorf("model snapshot: no centroids")
	}
	d := len(s.Centroids[0])
	flat := make([]float64, 0, len(s.Centroids)*d)
	for _, row := range s.Centroids {
		if len(row) != d {
			return nil, fmt.Errorf("model snapshot: ragged centroid rows")
		}
		flat = append(flat, row...)
	}
	return mat.NewDense(len(s.Centroids), d, flat), nil
}
