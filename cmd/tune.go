package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/CaskBytes/vinolab-cli/internal/dataset"
	"github.com/CaskBytes/vinolab-cli/internal/report"
	"github.com/CaskBytes/vinolab-cli/internal/tune"
)

var (
	tuneAlgo string
	tuneKMin int
	tuneKMax int
	tunePCA  int
	tuneOut  string
)

var tuneCmd = &cobra.Command{
	Use:   "tune <file>",
	Short: "Cross-validate cluster counts by mean silhouette and pick the best",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := dataset.Load(args[0])
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("k-min") {
			cfg.KMin = tuneKMin
		}
		if cmd.Flags().Changed("k-max") {
			cfg.KMax = tuneKMax
		}
		pca := cfg.PCAComponents
		if cmd.Flags().Changed("pca") {
			pca = tunePCA
		}

		p, err := preparePipeline(t, pca)
		if err != nil {
			return err
		}

		algos := []string{tuneAlgo}
		if tuneAlgo == "all" {
			algos = []string{algoKMeans, algoWard}
		}
		var results []*tune.Result
		for _, algo := range algos {
			res, err := tuneAlgorithm(algo, p, pca)
			if err != nil {
				return err
			}
			results = append(results, res)
			fmt.Printf("[%s, pca=%d]\n%s", res.Algorithm, res.PCA, report.ScoresTable(res))
			fmt.Printf("→ best k = %d (mean silhouette %.4f)\n\n", res.Best, res.BestScore())
		}

		if tuneOut != "" {
			b, err := yaml.Marshal(results)
			if err != nil {
				return fmt.Errorf("marshal tuning results: %w", err)
			}
			if err := os.WriteFile(tuneOut, b, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", tuneOut, err)
			}
			fmt.Printf("✓ Wrote %s\n", tuneOut)
		}
		return nil
	},
}

func init() {
	tuneCmd.Flags().StringVar(&tuneAlgo, "algo", "all", "clustering algorithm: kmeans, ward, or all")
	tuneCmd.Flags().IntVar(&tuneKMin, "k-min", 0, "smallest candidate cluster count (overrides config)")
	tuneCmd.Flags().IntVar(&tuneKMax, "k-max", 0, "largest candidate cluster count (overrides config)")
	tuneCmd.Flags().IntVar(&tunePCA, "pca", 0, "principal components to retain, 0 disables PCA (overrides config)")
	tuneCmd.Flags().StringVar(&tuneOut, "out", "", "write the tuning result as YAML")
	rootCmd.AddCommand(tuneCmd)
}
