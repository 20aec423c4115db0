package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/CaskBytes/vinolab-cli/internal/dataset"
	"github.com/CaskBytes/vinolab-cli/internal/describe"
	"github.com/CaskBytes/vinolab-cli/internal/visual"
)

var descPlotsDir string

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Summarize a wine-chemistry table and its correlation structure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := dataset.Load(args[0])
		if err != nil {
			return err
		}
		debugf("loaded %s: %d rows, %d columns", t.Name, t.Rows(), t.Cols())

		rep := describe.Analyze(t)
		fmt.Print(rep.Markdown())

		if descPlotsDir == "" {
			return nil
		}
		paths, err := visual.Histograms(t, descPlotsDir)
		if err != nil {
			return err
		}
		heat := filepath.Join(descPlotsDir, "correlation_heatmap.png")
		if err := visual.CorrHeatmap(rep.Corr, heat); err != nil {
			return err
		}
		fmt.Printf("\n✓ Wrote %d histograms and %s\n", len(paths), heat)
		return nil
	},
}

func init() {
	describeCmd.Flags().StringVar(&descPlotsDir, "plots", "", "directory for histogram and heatmap PNGs (omit to skip plots)")
	rootCmd.AddCommand(describeCmd)
}
