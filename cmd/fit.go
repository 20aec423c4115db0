package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CaskBytes/vinolab-cli/internal/cluster"
	"github.com/CaskBytes/vinolab-cli/internal/dataset"
	"github.com/CaskBytes/vinolab-cli/internal/report"
)

var (
	fitAlgo string
	fitK    int
	fitPCA  int
	fitOut  string
)

var fitCmd = &cobra.Command{
	Use:   "fit <file>",
	Short: "Fit a clustering model on the training split",
	Long: `Fit refits the chosen algorithm on the full training split at the given
cluster count (or at the cross-validated best count when --k is omitted),
then prints cluster sizes and centroids in the transformed feature space.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := dataset.Load(args[0])
		if err != nil {
			return err
		}
		pca := cfg.PCAComponents
		if cmd.Flags().Changed("pca") {
			pca = fitPCA
		}
		p, err := preparePipeline(t, pca)
		if err != nil {
			return err
		}

		k := fitK
		if k == 0 {
			res, err := tuneAlgorithm(fitAlgo, p, pca)
			if err != nil {
				return err
			}
			k = res.Best
			fmt.Printf("Tuned k = %d (mean silhouette %.4f)\n\n", k, res.BestScore())
		}

		m, err := fitModel(fitAlgo, k, p)
		if err != nil {
			return err
		}

		fmt.Printf("[FIT %s, k=%d, pca=%d]\n", fitAlgo, k, pca)
		fmt.Printf("Cluster sizes: %s\n\n", report.SizeLine(m.Assignments()))
		fmt.Println("[CENTROIDS]")
		fmt.Print(report.CentroidTable(m.Centroids(), p.featureNames()))

		if s, err := cluster.Silhouette(p.trainX, m.Assignments()); err == nil {
			fmt.Printf("\nTraining silhouette: %.4f\n", s)
		}

		if w, ok := m.(*cluster.Ward); ok {
			fmt.Printf("Dendrogram: %d merges recorded\n", len(w.Dendrogram()))
		}

		if fitOut != "" {
			snap := report.NewModelSnapshot(fitAlgo, k, cfg.Seed, p.transform, m.Centroids())
			if err := report.SaveModel(fitOut, snap); err != nil {
				return err
			}
			fmt.Printf("✓ Wrote %s\n", fitOut)
		}
		return nil
	},
}

func init() {
	fitCmd.Flags().StringVar(&fitAlgo, "algo", algoKMeans, "clustering algorithm: "+strings.Join([]string{algoKMeans, algoWard}, " or "))
	fitCmd.Flags().IntVar(&fitK, "k", 0, "cluster count (0 tunes by cross-validated silhouette first)")
	fitCmd.Flags().IntVar(&fitPCA, "pca", 0, "principal components to retain, 0 disables PCA (overrides config)")
	fitCmd.Flags().StringVar(&fitOut, "out", "", "save the fitted model snapshot as YAML for vinolab predict")
	rootCmd.AddCommand(fitCmd)
}
