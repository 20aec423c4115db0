// Package preprocess implements the fitted preprocessing transform: a
// zero-variance column filter, per-column standardization, and an optional
// projection onto leading principal components. Parameters are learned from
// the training split once and frozen; applying the transform never
// re-estimates anything, so held-out statistics cannot leak into it.
package preprocess

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/CaskBytes/vinolab-cli/internal/dataset"
	"github.com/CaskBytes/vinolab-cli/internal/errs"
)

// Transform holds the frozen parameters of a fitted preprocessing pipeline.
type Transform struct {
	width   int       // column count of the fit table
	kept    []int     // column indices that survived the zero-variance filter
	columns []string  // names of kept columns, in kept order
	means   []float64 // per kept column, training mean
	stds    []float64 // per kept column, training standard deviation

	ncomp    int        // 0 means no PCA step
	rotation *mat.Dense // kept-dim × ncomp, columns are principal axes
	vars     []float64  // explained variance per retained component
}

// Fit learns filter, standardization, and (if ncomp > 0) PCA parameters from
// the training table. ncomp principal components are retained ranked by
// explained variance; component sign is whatever the decomposition returns.
func Fit(train *dataset.Table, ncomp int) (*Transform, error) {
	n, p := train.Rows(), train.Cols()
	if n < 2 {
		return nil, errs.Numericalf("preprocess fit: need at least 2 rows, got %d", n)
	}
	if n < p {
		return nil, errs.Numericalf("preprocess fit: %d rows < %d columns, covariance is singular", n, p)
	}
	if ncomp < 0 {
		return nil, errs.Configf("preprocess fit: negative component count %d", ncomp)
	}

	tr := &Transform{width: p, ncomp: ncomp}
	for j := 0; j < p; j++ {
		col := train.Column(j)
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 {
			continue // constant feature carries no information
		}
		tr.kept = append(tr.kept, j)
		tr.columns = append(tr.columns, train.Columns[j])
		tr.means = append(tr.means, mean)
		tr.stds = append(tr.stds, std)
	}
	if len(tr.kept) == 0 {
		return nil, errs.Numericalf("preprocess fit: every column has zero variance")
	}
	if ncomp > len(tr.kept) {
		return nil, errs.Configf("preprocess fit: %d components requested from %d usable columns", ncomp, len(tr.kept))
	}
	if ncomp == 0 {
		return tr, nil
	}

	z := tr.standardize(train.Dense())
	var pc stat.PC
	if ok := pc.PrincipalComponents(z, nil); !ok {
		return nil, errs.Numericalf("preprocess fit: principal component decomposition failed (singular covariance)")
	}
	var vec mat.Dense
	pc.VectorsTo(&vec)
	d := len(tr.kept)
	tr.rotation = mat.DenseCopyOf(vec.Slice(0, d, 0, ncomp))
	tr.vars = pc.VarsTo(nil)[:ncomp]
	return tr, nil
}

// Apply runs a table with the original column layout through the frozen
// transform: filter, standardize, and project if a PCA step was fitted. The
// table must match the fit table's width and column names, so a reordered or
// truncated file cannot be standardized with the wrong parameters.
func (tr *Transform) Apply(t *dataset.Table) (*mat.Dense, error) {
	if tr.width > 0 && t.Cols() != tr.width {
		return nil, errs.Inputf("apply transform: table has %d columns, transform was fitted on %d", t.Cols(), tr.width)
	}
	if t.Cols() <= tr.kept[len(tr.kept)-1] {
		return nil, errs.Inputf("apply transform: table has %d columns, transform was fitted on wider data", t.Cols())
	}
	for jj, j := range tr.kept {
		if j < len(t.Columns) && t.Columns[j] != tr.columns[jj] {
			return nil, errs.Inputf("apply transform: column %d is %q, transform was fitted with %q there", j, t.Columns[j], tr.columns[jj])
		}
	}
	z := tr.standardize(t.Dense())
	if tr.ncomp == 0 {
		return z, nil
	}
	r, _ := z.Dims()
	proj := mat.NewDense(r, tr.ncomp, nil)
	proj.Mul(z, tr.rotation)
	return proj, nil
}

// standardize selects kept columns and applies (x - mean) / std per column.
func (tr *Transform) standardize(m *mat.Dense) *mat.Dense {
	r, _ := m.Dims()
	out := mat.NewDense(r, len(tr.kept), nil)
	for i := 0; i < r; i++ {
		for jj, j := range tr.kept {
			out.Set(i, jj, (m.At(i, j)-tr.means[jj])/tr.stds[jj])
		}
	}
	return out
}

// InverseStandardize undoes the standardization step on a matrix in the kept
// column space. Only meaningful for transforms without a PCA step, where
// Apply output lives in that space.
func (tr *Transform) InverseStandardize(z *mat.Dense) (*mat.Dense, error) {
	if tr.ncomp != 0 {
		return nil, errs.Configf("inverse standardize: transform includes a PCA projection")
	}
	r, c := z.Dims()
	if c != len(tr.kept) {
		return nil, errs.Inputf("inverse standardize: %d columns, want %d", c, len(tr.kept))
	}
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, z.At(i, j)*tr.stds[j]+tr.means[j])
		}
	}
	return out, nil
}

// Columns returns the names of the retained input columns.
func (tr *Transform) Columns() []string { return append([]string(nil), tr.columns...) }

// Components reports the fitted PCA component count (0 if none).
func (tr *Transform) Components() int { return tr.ncomp }

// ExplainedVariance returns the variance associated with each retained
// principal component, in non-increasing order. Nil without a PCA step.
func (tr *Transform) ExplainedVariance() []float64 {
	return append([]float64(nil), tr.vars...)
}

// Rotation returns the fitted projection matrix, or nil without a PCA step.
func (tr *Transform) Rotation() *mat.Dense { return tr.rotation }

// Snapshot is the serializable form of a fitted transform.
type Snapshot struct {
	Width      int         `yaml:"input_columns"`
	Kept       []int       `yaml:"kept_columns"`
	Columns    []string    `yaml:"column_names"`
	Means      []float64   `yaml:"means"`
	Stds       []float64   `yaml:"stds"`
	Components int         `yaml:"pca_components"`
	Rotation   [][]float64 `yaml:"rotation,omitempty"`
	Variances  []float64   `yaml:"explained_variance,omitempty"`
}

// Snapshot captures the frozen parameters for persistence.
func (tr *Transform) Snapshot() Snapshot {
	s := Snapshot{
		Width:      tr.width,
		Kept:       append([]int(nil), tr.kept...),
		Columns:    tr.Columns(),
		Means:      append([]float64(nil), tr.means...),
		Stds:       append([]float64(nil), tr.stds...),
		Components: tr.ncomp,
		Variances:  tr.ExplainedVariance(),
	}
	if tr.rotation != nil {
		r, c := tr.rotation.Dims()
		s.Rotation = make([][]float64, r)
		for i := 0; i < r; i++ {
			s.Rotation[i] = make([]float64, c)
			for j := 0; j < c; j++ {
				s.Rotation[i][j] = tr.rotation.At(i, j)
			}
		}
	}
	return s
}

// FromSnapshot reconstructs a fitted transform from persisted parameters.
func FromSnapshot(s Snapshot) (*Transform, error) {
	if len(s.Kept) == 0 || len(s.Kept) != len(s.Means) || len(s.Means) != len(s.Stds) {
		return nil, errs.Inputf("transform snapshot: inconsistent parameter lengths")
	}
	tr := &Transform{
		width:   s.Width,
		kept:    append([]int(nil), s.Kept...),
		columns: append([]string(nil), s.Columns...),
		means:   append([]float64(nil), s.Means...),
		stds:    append([]float64(nil), s.Stds...),
		ncomp:   s.Components,
		vars:    append([]float64(nil), s.Variances...),
	}
	if s.Components > 0 {
		if len(s.Rotation) != len(s.Kept) {
			return nil, errs.Inputf("transform snapshot: rotation has %d rows, want %d", len(s.Rotation), len(s.Kept))
		}
		flat := make([]float64, 0, len(s.Rotation)*s.Components)
		for _, row := range s.Rotation {
			if len(row) != s.Components {
				return nil, errs.Inputf("transform snapshot: ragged rotation matrix")
			}
			flat = append(flat, row...)
		}
		tr.rotation = mat.NewDense(len(s.Rotation), s.Components, flat)
	}
	return tr, nil
}
