package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	Seed          int64   `mapstructure:"seed" yaml:"seed"`
	TrainFrac     float64 `mapstructure:"train_frac" yaml:"train_frac"`
	Folds         int     `mapstructure:"folds" yaml:"folds"`
	KMin          int     `mapstructure:"k_min" yaml:"k_min"`
	KMax          int     `mapstructure:"k_max" yaml:"k_max"`
	PCAComponents int     `mapstructure:"pca_components" yaml:"pca_components"`

	KMeansRestarts int `mapstructure:"kmeans_restarts" yaml:"kmeans_restarts"`
	KMeansMaxIter  int `mapstructure:"kmeans_max_iter" yaml:"kmeans_max_iter"`

	PlotsDir   string `mapstructure:"plots_dir" yaml:"plots_dir"`
	ReportsDir string `mapstructure:"reports_dir" yaml:"reports_dir"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.vinolab/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".vinolab")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("VINOLAB")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("seed", 2137)
	v.SetDefault("train_frac", 0.75)
	v.SetDefault("folds", 10)
	v.SetDefault("k_min", 1)
	v.SetDefault("k_max", 10)
	v.SetDefault("pca_components", 4)
	v.SetDefault("kmeans_restarts", 10)
	v.SetDefault("kmeans_max_iter", 100)
	v.SetDefault("plots_dir", "plots")
	v.SetDefault("reports_dir", "reports")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".vinolab")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
