package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/CaskBytes/vinolab-cli/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags (wired to config/viper)
	cfgFile string
	debug   bool
	// Pipeline flags shared by every subcommand (override config if set)
	flagSeed      int64
	flagTrainFrac float64
	flagFolds     int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "vinolab",
	Short: "vinolab CLI: descriptive statistics and clustering for wine-chemistry tables",
	Long: `vinolab loads a numeric wine-chemistry dataset, summarizes it, tunes k-means
and Ward-linkage hierarchical clustering by cross-validated silhouette score
(optionally after a PCA projection), fits the winning model, and renders
plots and reports for human review.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.vinolab/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "random seed for splits and initialization (overrides config)")
	rootCmd.PersistentFlags().Float64Var(&flagTrainFrac, "train-frac", 0, "training split fraction (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagFolds, "folds", 0, "cross-validation fold count (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so commands still run
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{}
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("seed") {
		cfg.Seed = flagSeed
	}
	if f.Changed("train-frac") && flagTrainFrac > 0 {
		cfg.TrainFrac = flagTrainFrac
	}
	if f.Changed("folds") && flagFolds > 0 {
		cfg.Folds = flagFolds
	}
}

func debugf(format string, args ...any) {
	if debug {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
