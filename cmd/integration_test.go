package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	cfgpkg "github.com/CaskBytes/vinolab-cli/internal/config"
)

var loadOnce sync.Once

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) {
	t.Helper()
	loadOnce.Do(func() { cobra.OnInitialize(loadConfig) })
	// Reset sticky flags that may persist Changed state across invocations
	for _, c := range []*cobra.Command{tuneCmd, fitCmd, predictCmd, describeCmd} {
		c.Flags().Visit(func(f *pflag.Flag) { f.Changed = false })
	}
	descPlotsDir = ""
	tuneAlgo, tuneKMin, tuneKMax, tunePCA, tuneOut = "all", 0, 0, 0, ""
	fitAlgo, fitK, fitPCA, fitOut = algoKMeans, 0, 0, ""
	predictNearest = false
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
}

// setupHome points HOME at a temp dir with a small fast configuration.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	c := &cfgpkg.Global{
		Seed:           1,
		TrainFrac:      0.75,
		Folds:          4,
		KMin:           1,
		KMax:           4,
		PCAComponents:  2,
		KMeansRestarts: 3,
		KMeansMaxIter:  50,
		PlotsDir:       filepath.Join(home, "plots"),
		ReportsDir:     filepath.Join(home, "reports"),
	}
	if err := cfgpkg.Save(c, ""); err != nil {
		t.Fatalf("save config: %v", err)
	}
	return home
}

func TestCLI_Describe_Tune_Fit_Predict(t *testing.T) {
	if testing.Short() {
		t.Skip("end-to-end pipeline")
	}
	home := setupHome(t)
	data := blobCSV(t)

	plots := filepath.Join(home, "plots")
	runCmd(t, "describe", data, "--plots", plots)
	entries, err := os.ReadDir(plots)
	if err != nil || len(entries) == 0 {
		t.Fatalf("describe wrote no plots: %v", err)
	}

	scores := filepath.Join(home, "scores.yaml")
	runCmd(t, "tune", data, "--algo", "kmeans", "--out", scores)
	if b, err := os.ReadFile(scores); err != nil || !strings.Contains(string(b), "candidates") {
		t.Fatalf("tune scores not written: %v", err)
	}

	model := filepath.Join(home, "model.yaml")
	runCmd(t, "fit", data, "--algo", "kmeans", "--k", "3", "--out", model)
	if _, err := os.Stat(model); err != nil {
		t.Fatalf("model snapshot not written: %v", err)
	}

	runCmd(t, "predict", model, data)
}

func TestCLI_PredictRefusesWardWithoutOptIn(t *testing.T) {
	if testing.Short() {
		t.Skip("end-to-end pipeline")
	}
	home := setupHome(t)
	data := blobCSV(t)

	model := filepath.Join(home, "ward.yaml")
	runCmd(t, "fit", data, "--algo", "ward", "--k", "3", "--out", model)

	rootCmd.SetArgs([]string{"predict", model, data})
	if err := rootCmd.Execute(); err == nil {
		t.Fatalf("expected refusal for hierarchical model without --nearest-centroid")
	}
	runCmd(t, "predict", model, data, "--nearest-centroid")
}
