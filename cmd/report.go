package cmd

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CaskBytes/vinolab-cli/internal/cluster"
	"github.com/CaskBytes/vinolab-cli/internal/dataset"
	"github.com/CaskBytes/vinolab-cli/internal/describe"
	"github.com/CaskBytes/vinolab-cli/internal/report"
	"github.com/CaskBytes/vinolab-cli/internal/tune"
	"github.com/CaskBytes/vinolab-cli/internal/visual"
)

var reportOutDir string

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Run the full analysis pipeline and write a report directory",
	Long: `Report runs every stage end to end: descriptive statistics, silhouette
tuning of k-means and Ward clustering with and without the PCA step, final
fits at the winning cluster counts, held-out predictions, and all plots.
Artifacts land in <out-dir>/<run-id>/.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := dataset.Load(args[0])
		if err != nil {
			return err
		}
		outDir := reportOutDir
		if outDir == "" {
			outDir = cfg.ReportsDir
		}
		run, err := report.NewRun(outDir)
		if err != nil {
			return err
		}
		fmt.Printf("Run %s → %s\n", run.ID, run.Dir)

		// Stage 1: descriptive analysis.
		rep := describe.Analyze(t)
		run.AddSection("Dataset", rep.Markdown())
		if _, err := visual.Histograms(t, run.Dir); err != nil {
			return err
		}
		if err := visual.CorrHeatmap(rep.Corr, run.Path("correlation_heatmap.png")); err != nil {
			return err
		}

		// Stage 2: tune both algorithms, with and without the PCA step.
		type variant struct {
			pca  int
			prep *prepared
			res  map[string]*tune.Result
		}
		variants := []*variant{{pca: 0}, {pca: cfg.PCAComponents}}
		var allResults []*tune.Result
		for _, v := range variants {
			v.prep, err = preparePipeline(t, v.pca)
			if err != nil {
				return err
			}
			v.res = make(map[string]*tune.Result)
			for _, algo := range []string{algoKMeans, algoWard} {
				res, err := tuneAlgorithm(algo, v.prep, v.pca)
				if err != nil {
					return err
				}
				v.res[algo] = res
				allResults = append(allResults, res)
				title := fmt.Sprintf("Tuning: %s, pca=%d", algo, v.pca)
				body := report.ScoresTable(res) +
					fmt.Sprintf("\nBest k = %d (mean silhouette %.4f)\n", res.Best, res.BestScore())
				run.AddSection(title, body)
			}
		}
		if err := run.WriteYAML("scores.yaml", allResults); err != nil {
			return err
		}

		// Stage 3: final fits on the winning pipeline variant per algorithm.
		var kmModel cluster.Model
		var kmPrep *prepared
		for _, algo := range []string{algoKMeans, algoWard} {
			best := variants[0]
			if variants[1].res[algo].BestScore() > best.res[algo].BestScore() {
				best = variants[1]
			}
			res := best.res[algo]
			m, err := fitModel(algo, res.Best, best.prep)
			if err != nil {
				return err
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Pipeline: pca=%d, k=%d, cross-validated silhouette %.4f\n\n", res.PCA, res.Best, res.BestScore())
			fmt.Fprintf(&b, "Cluster sizes: %s\n\n", report.SizeLine(m.Assignments()))
			b.WriteString(report.CentroidTable(m.Centroids(), best.prep.featureNames()))
			if s, err := cluster.Silhouette(best.prep.trainX, m.Assignments()); err == nil {
				fmt.Fprintf(&b, "\nTraining silhouette: %.4f\n", s)
			}

			if names := best.prep.featureNames(); len(names) >= 2 {
				scatter := run.Path("clusters_" + algo + ".png")
				if err := visual.ClusterScatter(best.prep.trainX, m.Assignments(), m.Centroids(), names[0], names[1], scatter); err != nil {
					return err
				}
			}

			switch algo {
			case algoKMeans:
				kmModel, kmPrep = m, best.prep
				snap := report.NewModelSnapshot(algo, res.Best, cfg.Seed, best.prep.transform, m.Centroids())
				if err := report.SaveModel(run.Path("model_kmeans.yaml"), snap); err != nil {
					return err
				}
				// Held-out predictions through the frozen transform.
				testLabels := m.Predict(best.prep.testX)
				fmt.Fprintf(&b, "\nTest-split predictions (%d rows): %s\n", len(testLabels), report.SizeLine(testLabels))
				sample := len(testLabels)
				if sample > 10 {
					sample = 10
				}
				for i := 0; i < sample; i++ {
					fmt.Fprintf(&b, "- test row %d → cluster %d\n", i+1, testLabels[i])
				}
			case algoWard:
				w := m.(*cluster.Ward)
				if err := visual.Dendrogram(w.Dendrogram(), run.Path("dendrogram.png")); err != nil {
					return err
				}
				b.WriteString("\nMembership reported in-sample only; hierarchical fits do not generalize to unseen points.\n")
			}
			run.AddSection("Model: "+algo, b.String())
		}

		// Stage 4: interactive scatter of the two most correlated raw
		// features, colored by the k-means training assignment.
		xc, yc := strongestPair(rep)
		if err := visual.InteractiveScatter(kmPrep.train, xc, yc, kmModel.Assignments(),
			"k-means clusters", run.Path("clusters_interactive.html")); err != nil {
			return err
		}

		if err := run.WriteMarkdown(t.Name); err != nil {
			return err
		}
		fmt.Printf("✓ Report written to %s\n", run.Path("report.md"))
		return nil
	},
}

// strongestPair returns the column indices of the strongest off-diagonal
// correlation, falling back to the first two columns.
func strongestPair(rep *describe.Report) (int, int) {
	n := len(rep.Corr.Columns)
	bi, bj, br := 0, 1, -1.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if r := math.Abs(rep.Corr.At(i, j)); r > br {
				bi, bj, br = i, j, r
			}
		}
	}
	return bi, bj
}

func init() {
	reportCmd.Flags().StringVar(&reportOutDir, "out-dir", "", "base directory for run artifacts (default: reports_dir from config)")
	rootCmd.AddCommand(reportCmd)
}
