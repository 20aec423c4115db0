package visual

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/CaskBytes/vinolab-cli/internal/dataset"
)

// InteractiveScatter writes an HTML scatterplot of two raw feature columns
// colored by cluster assignment, one echarts series per cluster.
func InteractiveScatter(t *dataset.Table, xCol, yCol int, labels []int, title, path string) error {
	if xCol < 0 || yCol < 0 || xCol >= t.Cols() || yCol >= t.Cols() {
		return fmt.Errorf("interactive scatter: column pair (%d, %d) out of range", xCol, yCol)
	}
	if len(labels) != t.Rows() {
		return fmt.Errorf("interactive scatter: %d labels for %d rows", len(labels), t.Rows())
	}

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: t.Columns[xCol], Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: t.Columns[yCol], Type: "value"}),
	)

	k := 0
	for _, l := range labels {
		if l+1 > k {
			k = l + 1
		}
	}
	xs := t.Column(xCol)
	ys := t.Column(yCol)
	for c := 0; c < k; c++ {
		var data []opts.ScatterData
		for i, l := range labels {
			if l != c {
				continue
			}
			data = append(data, opts.ScatterData{
				Value:      []interface{}{xs[i], ys[i]},
				SymbolSize: 8,
			})
		}
		if len(data) > 0 {
			sc.AddSeries(fmt.Sprintf("cluster %d", c), data)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := sc.Render(f); err != nil {
		return fmt.Errorf("render interactive scatter: %w", err)
	}
	return nil
}
