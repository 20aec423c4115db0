package visual

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/CaskBytes/vinolab-cli/internal/cluster"
	"github.com/CaskBytes/vinolab-cli/internal/dataset"
	"github.com/CaskBytes/vinolab-cli/internal/describe"
)

func sampleTable() *dataset.Table {
	return dataset.FromMatrix("wine.csv", []string{"alcohol", "ash"}, mat.NewDense(8, 2, []float64{
		13.2, 2.1,
		12.4, 1.4,
		14.1, 2.6,
		13.8, 2.4,
		12.1, 1.5,
		12.9, 2.0,
		13.5, 2.3,
		12.6, 1.7,
	}))
}

func TestHistogramsWriteFiles(t *testing.T) {
	dir := t.TempDir()
	paths, err := Histograms(sampleTable(), dir)
	if err != nil {
		t.Fatalf("histograms: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d files, want 2", len(paths))
	}
	for _, p := range paths {
		if fi, err := os.Stat(p); err != nil || fi.Size() == 0 {
			t.Fatalf("histogram %s not written: %v", p, err)
		}
	}
}

func TestCorrHeatmapWritesFile(t *testing.T) {
	rep := describe.Analyze(sampleTable())
	path := filepath.Join(t.TempDir(), "heatmap.png")
	if err := CorrHeatmap(rep.Corr, path); err != nil {
		t.Fatalf("heatmap: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Fatalf("heatmap not written: %v", err)
	}
}

func TestClusterScatterWritesFile(t *testing.T) {
	tab := sampleTable()
	labels := []int{0, 1, 0, 0, 1, 1, 0, 1}
	cents := mat.NewDense(2, 2, []float64{13.6, 2.35, 12.5, 1.65})
	path := filepath.Join(t.TempDir(), "clusters.png")
	if err := ClusterScatter(tab.Dense(), labels, cents, "alcohol", "ash", path); err != nil {
		t.Fatalf("cluster scatter: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Fatalf("scatter not written: %v", err)
	}
}

func TestDendrogramWritesFile(t *testing.T) {
	w := cluster.NewWard(2)
	if err := w.Fit(sampleTable().Dense()); err != nil {
		t.Fatalf("ward fit: %v", err)
	}
	path := filepath.Join(t.TempDir(), "dendrogram.png")
	if err := Dendrogram(w.Dendrogram(), path); err != nil {
		t.Fatalf("dendrogram: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Fatalf("dendrogram not written: %v", err)
	}
}

func TestInteractiveScatterWritesHTML(t *testing.T) {
	tab := sampleTable()
	labels := []int{0, 1, 0, 0, 1, 1, 0, 1}
	path := filepath.Join(t.TempDir(), "scatter.html")
	if err := InteractiveScatter(tab, 0, 1, labels, "clusters", path); err != nil {
		t.Fatalf("interactive scatter: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read html: %v", err)
	}
	html := string(b)
	if !strings.Contains(html, "cluster 0") || !strings.Contains(html, "cluster 1") {
		t.Fatalf("rendered html missing cluster series")
	}
}

func TestInteractiveScatterValidatesInput(t *testing.T) {
	tab := sampleTable()
	if err := InteractiveScatter(tab, 0, 5, nil, "x", "x.html"); err == nil {
		t.Fatalf("expected error for out-of-range column")
	}
	if err := InteractiveScatter(tab, 0, 1, []int{0}, "x", "x.html"); err == nil {
		t.Fatalf("expected error for label count mismatch")
	}
}
