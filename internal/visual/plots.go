// Package visual renders the analysis artifacts: histograms, the correlation
// heatmap, 2D cluster scatters with convex-hull and covariance-ellipse
// overlays, the dendrogram, and an interactive HTML scatterplot.
package visual

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/CaskBytes/vinolab-cli/internal/cluster"
	"github.com/CaskBytes/vinolab-cli/internal/dataset"
	"github.com/CaskBytes/vinolab-cli/internal/describe"
)

// Histograms writes one histogram PNG per column into dir and returns the
// written paths.
func Histograms(t *dataset.Table, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir plots dir: %w", err)
	}
	var out []string
	for j, name := range t.Columns {
		p := plot.New()
		p.Title.Text = name
		p.X.Label.Text = name
		p.Y.Label.Text = "count"
		h, err := plotter.NewHist(plotter.Values(t.Column(j)), 16)
		if err != nil {
			return nil, fmt.Errorf("histogram %s: %w", name, err)
		}
		h.FillColor = color.NRGBA{R: 0x6b, G: 0x2d, B: 0x5b, A: 0xb0}
		p.Add(h)
		path := filepath.Join(dir, "hist_"+slug(name)+".png")
		if err := p.Save(4*vg.Inch, 3*vg.Inch, path); err != nil {
			return nil, fmt.Errorf("save histogram %s: %w", name, err)
		}
		out = append(out, path)
	}
	return out, nil
}

// corrGrid adapts a correlation matrix to the heatmap grid interface.
type corrGrid struct{ c *describe.CorrMatrix }

func (g corrGrid) Dims() (int, int)   { n := len(g.c.Columns); return n, n }
func (g corrGrid) Z(c, r int) float64 { return g.c.At(r, c) }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

// CorrHeatmap renders the correlation matrix as a diverging-palette heatmap
// with column names on both axes.
func CorrHeatmap(c *describe.CorrMatrix, path string) error {
	p := plot.New()
	p.Title.Text = "Pearson correlation"
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	pal := cm.Palette(255)
	hm := plotter.NewHeatMap(corrGrid{c}, pal)
	hm.Min, hm.Max = -1, 1
	p.Add(hm)

	ticks := make([]plot.Tick, len(c.Columns))
	for i, name := range c.Columns {
		ticks[i] = plot.Tick{Value: float64(i), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)

	if err := p.Save(6*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save heatmap: %w", err)
	}
	return nil
}

// ClusterScatter plots the first two columns of x colored by label, with a
// convex-hull polygon and a 2σ covariance ellipse per cluster, and the
// cluster centroids as crosses.
func ClusterScatter(x *mat.Dense, labels []int, centroids *mat.Dense, xName, yName, path string) error {
	p := plot.New()
	p.Title.Text = "Cluster assignment"
	p.X.Label.Text = xName
	p.Y.Label.Text = yName

	k := 0
	for _, l := range labels {
		if l+1 > k {
			k = l + 1
		}
	}
	for c := 0; c < k; c++ {
		pts := clusterPoints(x, labels, c)
		if len(pts) == 0 {
			continue
		}
		col := plotutil.Color(c)

		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("scatter cluster %d: %w", c, err)
		}
		sc.GlyphStyle.Color = col
		sc.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(sc)
		p.Legend.Add(fmt.Sprintf("cluster %d", c), sc)

		if hull := convexHull(pts); len(hull) >= 3 {
			poly, err := plotter.NewPolygon(hull)
			if err != nil {
				return fmt.Errorf("hull cluster %d: %w", c, err)
			}
			poly.Color = fade(col, 0x20)
			poly.LineStyle.Color = col
			p.Add(poly)
		}
		if ell := covarianceEllipse(pts); ell != nil {
			line, err := plotter.NewLine(ell)
			if err != nil {
				return fmt.Errorf("ellipse cluster %d: %w", c, err)
			}
			line.LineStyle.Color = col
			line.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(2)}
			p.Add(line)
		}
	}

	if centroids != nil {
		kc, _ := centroids.Dims()
		cents := make(plotter.XYs, kc)
		for c := 0; c < kc; c++ {
			cents[c] = plotter.XY{X: centroids.At(c, 0), Y: centroids.At(c, 1)}
		}
		sc, err := plotter.NewScatter(cents)
		if err != nil {
			return fmt.Errorf("centroid scatter: %w", err)
		}
		sc.GlyphStyle.Shape = plotutil.Shape(7)
		sc.GlyphStyle.Radius = vg.Points(5)
		sc.GlyphStyle.Color = color.Black
		p.Add(sc)
	}

	if err := p.Save(6*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save cluster scatter: %w", err)
	}
	return nil
}

// Dendrogram renders the Ward merge tree. Leaves are laid out by recursive
// traversal; each merge draws the usual u-link at its criterion height.
func Dendrogram(merges []cluster.Merge, path string) error {
	n := len(merges) + 1
	p := plot.New()
	p.Title.Text = "Ward dendrogram"
	p.Y.Label.Text = "merge criterion"
	p.X.Tick.Marker = plot.ConstantTicks(nil)

	// Place leaves left to right in traversal order of the final tree.
	xpos := make(map[int]float64, 2*n-1)
	height := make(map[int]float64, 2*n-1)
	var place func(id int, next *float64)
	place = func(id int, next *float64) {
		if id < n {
			xpos[id] = *next
			*next++
			return
		}
		m := merges[id-n]
		place(m.A, next)
		place(m.B, next)
		xpos[id] = (xpos[m.A] + xpos[m.B]) / 2
		height[id] = m.Dist
	}
	var cursor float64
	place(n+len(merges)-1, &cursor)

	for t, m := range merges {
		id := n + t
		h := height[id]
		link := plotter.XYs{
			{X: xpos[m.A], Y: height[m.A]},
			{X: xpos[m.A], Y: h},
			{X: xpos[m.B], Y: h},
			{X: xpos[m.B], Y: height[m.B]},
		}
		line, err := plotter.NewLine(link)
		if err != nil {
			return fmt.Errorf("dendrogram link %d: %w", t, err)
		}
		p.Add(line)
	}

	if err := p.Save(7*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save dendrogram: %w", err)
	}
	return nil
}

func clusterPoints(x *mat.Dense, labels []int, c int) plotter.XYs {
	var pts plotter.XYs
	for i, l := range labels {
		if l == c {
			pts = append(pts, plotter.XY{X: x.At(i, 0), Y: x.At(i, 1)})
		}
	}
	return pts
}

func fade(c color.Color, alpha uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: alpha}
}

func slug(name string) string {
	var b strings.Builder
	prev := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev {
				b.WriteByte('_')
			}
			prev = true
		}
	}
	return strings.Trim(b.String(), "_")
}
