// Package dataset loads delimited wine-chemistry tables into dense matrices
// and produces the seeded train/test splits and cross-validation folds the
// rest of the pipeline consumes.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/CaskBytes/vinolab-cli/internal/errs"
)

// Table is an immutable rectangular table of numeric features. Every cell is
// a parsed float64; validation happens at load time, so downstream code never
// re-checks for missing or non-numeric values.
type Table struct {
	Name    string
	Columns []string
	data    *mat.Dense
}

// Load reads a delimited file with a header row naming the feature columns
// and one numeric data row per sample. Empty or non-numeric cells fail fast
// with row/column context.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Inputf("open dataset: %v", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.Comma = sniffDelimiter(path)

	header, err := r.Read()
	if err != nil {
		return nil, errs.Inputf("read header of %s: %v", filepath.Base(path), err)
	}
	ncol := len(header)
	if ncol == 0 {
		return nil, errs.Inputf("%s: header row is empty", filepath.Base(path))
	}
	cols := make([]string, ncol)
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}

	var vals []float64
	rows := 0
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, errs.Inputf("read row %d: %v", rows+2, err)
		}
		if len(rec) != ncol {
			return nil, errs.Inputf("row %d has %d fields, want %d", rows+2, len(rec), ncol)
		}
		for j, cell := range rec {
			v := strings.TrimSpace(cell)
			if v == "" {
				return nil, errs.Inputf("missing value at row %d, column %q", rows+2, cols[j])
			}
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, errs.Inputf("non-numeric value %q at row %d, column %q", v, rows+2, cols[j])
			}
			vals = append(vals, x)
		}
		rows++
	}
	if rows == 0 {
		return nil, errs.Inputf("%s: no data rows", filepath.Base(path))
	}
	return &Table{
		Name:    filepath.Base(path),
		Columns: cols,
		data:    mat.NewDense(rows, ncol, vals),
	}, nil
}

// FromMatrix wraps an existing matrix as a Table. The matrix is not copied.
func FromMatrix(name string, cols []string, m *mat.Dense) *Table {
	return &Table{Name: name, Columns: cols, data: m}
}

func (t *Table) Rows() int { return rawRows(t.data) }

func (t *Table) Cols() int {
	_, c := t.data.Dims()
	return c
}

// Matrix exposes the underlying data read-only.
func (t *Table) Matrix() mat.Matrix { return t.data }

// Dense returns the underlying dense matrix. Callers must not mutate it.
func (t *Table) Dense() *mat.Dense { return t.data }

// Column copies column j into a new slice.
func (t *Table) Column(j int) []float64 {
	out := make([]float64, t.Rows())
	mat.Col(out, j, t.data)
	return out
}

// Row copies row i into a new slice.
func (t *Table) Row(i int) []float64 {
	out := make([]float64, t.Cols())
	mat.Row(out, i, t.data)
	return out
}

// Select builds a new Table from the given row indices, in order.
func (t *Table) Select(rows []int) *Table {
	nc := t.Cols()
	out := mat.NewDense(len(rows), nc, nil)
	for i, r := range rows {
		out.SetRow(i, t.Row(r))
	}
	return &Table{Name: t.Name, Columns: t.Columns, data: out}
}

// Split partitions the table into disjoint train and test subsets covering
// all rows, by a seeded shuffle. frac is the training fraction.
func (t *Table) Split(frac float64, seed int64) (train, test *Table, err error) {
	if frac <= 0 || frac >= 1 {
		return nil, nil, errs.Configf("train fraction %g outside (0,1)", frac)
	}
	n := t.Rows()
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	cut := int(float64(n) * frac)
	if cut == 0 || cut == n {
		return nil, nil, errs.Configf("split of %d rows at fraction %g leaves an empty side", n, frac)
	}
	return t.Select(perm[:cut]), t.Select(perm[cut:]), nil
}

// Fold is one cross-validation fold: held-out rows and the remainder.
type Fold struct {
	Train *Table
	Test  *Table
}

// Folds partitions the table into k disjoint folds by a seeded shuffle and
// returns, for each fold, the held-out subset and the complement.
func (t *Table) Folds(k int, seed int64) ([]Fold, error) {
	n := t.Rows()
	if k < 2 {
		return nil, errs.Configf("need at least 2 folds, got %d", k)
	}
	if k > n {
		return nil, errs.Configf("%d folds over %d rows", k, n)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	folds := make([]Fold, k)
	for i := 0; i < k; i++ {
		lo := i * n / k
		hi := (i + 1) * n / k
		held := perm[lo:hi]
		rest := make([]int, 0, n-len(held))
		rest = append(rest, perm[:lo]...)
		rest = append(rest, perm[hi:]...)
		folds[i] = Fold{Train: t.Select(rest), Test: t.Select(held)}
	}
	return folds, nil
}

func rawRows(m *mat.Dense) int {
	r, _ := m.Dims()
	return r
}

func sniffDelimiter(path string) rune {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv":
		return '\t'
	case ".ssv":
		return ';'
	}
	// Peek the header line; semicolon-delimited exports are common for
	// lab instruments.
	b, err := os.ReadFile(path)
	if err == nil {
		if i := strings.IndexByte(string(b), '\n'); i > 0 {
			line := string(b[:i])
			commas := strings.Count(line, ",")
			if n := strings.Count(line, "\t"); n > commas && n >= strings.Count(line, ";") {
				return '\t'
			}
			if strings.Count(line, ";") > commas {
				return ';'
			}
		}
	}
	return ','
}

// String describes the table shape, for error and log messages.
func (t *Table) String() string {
	return fmt.Sprintf("%s (%d rows × %d cols)", t.Name, t.Rows(), t.Cols())
}
