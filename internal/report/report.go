// Package report assembles a pipeline run into an on-disk artifact
// directory: the markdown report, tuning-score and model snapshots, and the
// rendered plots.
package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/CaskBytes/vinolab-cli/internal/tune"
)

// Run is one report run rooted at <base>/<run-id>/.
type Run struct {
	ID      string
	Dir     string
	Started time.Time

	sections []string
}

// NewRun creates the run directory under base with a fresh uuid.
func NewRun(base string) (*Run, error) {
	id := uuid.New().String()
	dir := filepath.Join(base, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create run dir: %w", err)
	}
	return &Run{ID: id, Dir: dir, Started: time.Now()}, nil
}

// Path resolves a file name inside the run directory.
func (r *Run) Path(name string) string { return filepath.Join(r.Dir, name) }

// AddSection appends a markdown section to the report body. Sections are
// only added after their stage succeeded, so a failed run never reports a
// metric from a failed fit.
func (r *Run) AddSection(title, body string) {
	r.sections = append(r.sections, fmt.Sprintf("## %s\n\n%s", title, strings.TrimRight(body, "\n")))
}

// WriteMarkdown writes report.md from the accumulated sections.
func (r *Run) WriteMarkdown(datasetName string) error {
	var b strings.Builder
	b.WriteString("# vinolab report\n\n")
	b.WriteString(fmt.Sprintf("Run: %s\n", r.ID))
	b.WriteString(fmt.Sprintf("Dataset: %s\n", datasetName))
	b.WriteString(fmt.Sprintf("Started: %s\n\n", r.Started.Format(time.RFC3339)))
	for _, s := range r.sections {
		b.WriteString(s)
		b.WriteString("\n\n")
	}
	if err := os.WriteFile(r.Path("report.md"), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write report.md: %w", err)
	}
	return nil
}

// WriteYAML marshals v into the run directory under name.
func (r *Run) WriteYAML(name string, v any) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(r.Path(name), b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// ScoresTable renders a tuning result as a markdown table.
func ScoresTable(res *tune.Result) string {
	var b strings.Builder
	b.WriteString("| k | mean silhouette | folds scored |\n")
	b.WriteString("|---|-----------------|--------------|\n")
	for _, c := range res.Candidates {
		score := "n/a"
		if !math.IsNaN(c.Score) {
			score = fmt.Sprintf("%.4f", c.Score)
		}
		marker := ""
		if c.K == res.Best {
			marker = " ←"
		}
		b.WriteString(fmt.Sprintf("| %d | %s%s | %d |\n", c.K, score, marker, c.Folds))
	}
	return b.String()
}

// CentroidTable renders cluster centroids with their feature names.
func CentroidTable(centroids *mat.Dense, columns []string) string {
	k, d := centroids.Dims()
	var b strings.Builder
	b.WriteString("| cluster |")
	for j := 0; j < d; j++ {
		name := fmt.Sprintf("c%d", j)
		if j < len(columns) {
			name = columns[j]
		}
		b.WriteString(" " + name + " |")
	}
	b.WriteString("\n|---|")
	for j := 0; j < d; j++ {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for c := 0; c < k; c++ {
		b.WriteString(fmt.Sprintf("| %d |", c))
		for j := 0; j < d; j++ {
			b.WriteString(fmt.Sprintf(" %.4g |", centroids.At(c, j)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// SizeLine summarizes cluster membership counts.
func SizeLine(labels []int) string {
	k := 0
	for _, l := range labels {
		if l+1 > k {
			k = l + 1
		}
	}
	counts := make([]int, k)
	for _, l := range labels {
		counts[l]++
	}
	parts := make([]string, k)
	for c, n := range counts {
		parts[c] = fmt.Sprintf("cluster %d: %d", c, n)
	}
	return strings.Join(parts, ", ")
}
