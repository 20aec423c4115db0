package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CaskBytes/vinolab-cli/internal/cluster"
	"github.com/CaskBytes/vinolab-cli/internal/dataset"
	"github.com/CaskBytes/vinolab-cli/internal/preprocess"
	"github.com/CaskBytes/vinolab-cli/internal/report"
)

var predictNearest bool

var predictCmd = &cobra.Command{
	Use:   "predict <model.yaml> <file>",
	Short: "Assign new observations to the clusters of a saved model",
	Long: `Predict applies the frozen preprocessing transform stored in the model
snapshot, then labels each row with the nearest centroid. Hierarchical models
define membership only for the points they were fitted on, so Ward snapshots
are refused unless --nearest-centroid explicitly opts into that rule.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := report.LoadModel(args[0])
		if err != nil {
			return err
		}
		if snap.Algorithm == algoWard && !predictNearest {
			return fmt.Errorf("hierarchical models do not generalize to unseen points; rerun with --nearest-centroid to assign by nearest cluster mean")
		}

		t, err := dataset.Load(args[1])
		if err != nil {
			return err
		}
		tr, err := preprocess.FromSnapshot(snap.Transform)
		if err != nil {
			return err
		}
		x, err := tr.Apply(t)
		if err != nil {
			return err
		}
		cents, err := snap.CentroidMatrix()
		if err != nil {
			return err
		}

		labels := cluster.AssignNearest(x, cents)
		fmt.Printf("[PREDICT %s, k=%d]\n", snap.Algorithm, snap.K)
		for i, l := range labels {
			fmt.Printf("row %d → cluster %d\n", i+1, l)
		}
		fmt.Printf("\nCluster sizes: %s\n", report.SizeLine(labels))
		return nil
	},
}

func init() {
	predictCmd.Flags().BoolVar(&predictNearest, "nearest-centroid", false, "allow nearest-centroid assignment for hierarchical models")
	rootCmd.AddCommand(predictCmd)
}
