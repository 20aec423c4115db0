package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/CaskBytes/vinolab-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set vinolab configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("seed: %d\n", cfg.Seed)
		fmt.Printf("train_frac: %.3f\n", cfg.TrainFrac)
		fmt.Printf("folds: %d\n", cfg.Folds)
		fmt.Printf("k_min: %d\n", cfg.KMin)
		fmt.Printf("k_max: %d\n", cfg.KMax)
		fmt.Printf("pca_components: %d\n", cfg.PCAComponents)
		fmt.Printf("kmeans_restarts: %d\n", cfg.KMeansRestarts)
		fmt.Printf("kmeans_max_iter: %d\n", cfg.KMeansMaxIter)
		fmt.Printf("plots_dir: %s\n", cfg.PlotsDir)
		fmt.Printf("reports_dir: %s\n", cfg.ReportsDir)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "seed":
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return fmt.Errorf("seed must be an integer: %w", err)
			}
			cfg.Seed = n
		case "train_frac":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 || f >= 1 {
				return fmt.Errorf("train_frac must be a fraction in (0,1)")
			}
			cfg.TrainFrac = f
		case "folds", "k_min", "k_max", "pca_components", "kmeans_restarts", "kmeans_max_iter":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return fmt.Errorf("%s must be a non-negative integer", key)
			}
			switch key {
			case "folds":
				cfg.Folds = n
			case "k_min":
				cfg.KMin = n
			case "k_max":
				cfg.KMax = n
			case "pca_components":
				cfg.PCAComponents = n
			case "kmeans_restarts":
				cfg.KMeansRestarts = n
			case "kmeans_max_iter":
				cfg.KMeansMaxIter = n
			}
		case "plots_dir":
			cfg.PlotsDir = val
		case "reports_dir":
			cfg.ReportsDir = val
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Saved %s\n", key)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
