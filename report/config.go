// Package report runs the whole exploratory workflow end to end and writes
// its artifacts to a directory: the figures from package viz plus
// analysis.md, a Markdown narrative whose every number comes from the
// results computed in the same run.
package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tbielke/genecluster"
)

// Scaling modes for the expression matrix before clustering.
const (
	ScaleZScore = "zscore"
	ScaleMedian = "median"
	ScaleRaw    = "raw"
)

// Config selects what the report computes. The zero value is not runnable;
// start from DefaultConfig or LoadConfig.
type Config struct {
	// OutDir receives analysis.md and the figures. Required.
	OutDir string `yaml:"out_dir"`

	// Scale transforms genes before any distance is computed: zscore,
	// median or raw. Default: zscore.
	Scale string `yaml:"scale"`

	// TopGenes restricts the analysis to the n most variable genes.
	// 0 keeps every gene. Default: 0.
	TopGenes int `yaml:"top_genes"`

	// Metric names the sample distance, resolved by MetricByName.
	// Default: euclidean.
	Metric string `yaml:"metric"`

	// Linkage is the hierarchical merge rule. Default: average.
	Linkage genecluster.Linkage `yaml:"linkage"`

	// K fixes the number of clusters for k-means and the dendrogram cut.
	// 0 picks the k with the best mean silhouette from the sweep.
	K int `yaml:"k"`

	// KMax bounds the k selection sweep, which runs over [2, KMax].
	// Default: 6; capped at the sample count.
	KMax int `yaml:"k_max"`

	// Dimensions is the MDS embedding width. Default: 2.
	Dimensions int `yaml:"dimensions"`

	// Seed feeds every randomized step. Default: 1.
	Seed int64 `yaml:"seed"`

	// Formats lists the figure encodings to write: png, svg, pdf and/or
	// html (the interactive pages). Default: png and html.
	Formats []string `yaml:"formats"`

	// Workers bounds the worker pools. 0 means one per CPU.
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the settings the tutorial text walks through.
func DefaultConfig() Config {
	return Config{
		Scale:      ScaleZScore,
		Metric:     "euclidean",
		Linkage:    genecluster.LinkageAverage,
		KMax:       6,
		Dimensions: 2,
		Seed:       1,
		Formats:    []string{"png", "html"},
	}
}

func applyConfigDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.Scale == "" {
		cfg.Scale = def.Scale
	}
	if cfg.Metric == "" {
		cfg.Metric = def.Metric
	}
	if cfg.Linkage == "" {
		cfg.Linkage = def.Linkage
	}
	if cfg.KMax == 0 {
		cfg.KMax = def.KMax
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = def.Dimensions
	}
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	if len(cfg.Formats) == 0 {
		cfg.Formats = def.Formats
	}
}

// Validate reports the first problem with the configuration. Defaults are
// not applied here; Run applies them before validating.
func (c *Config) Validate() error {
	if c.OutDir == "" {
		return fmt.Errorf("report: out_dir is required")
	}
	switch c.Scale {
	case ScaleZScore, ScaleMedian, ScaleRaw:
	default:
		return fmt.Errorf("report: unknown scale %q, want zscore, median or raw", c.Scale)
	}
	if c.TopGenes < 0 {
		return fmt.Errorf("report: top_genes must be >= 0, got %d", c.TopGenes)
	}
	if _, err := genecluster.MetricByName(c.Metric); err != nil {
		return err
	}
	switch c.Linkage {
	case genecluster.LinkageSingle, genecluster.LinkageComplete,
		genecluster.LinkageAverage, genecluster.LinkageWard:
	default:
		return fmt.Errorf("report: unknown linkage %q", c.Linkage)
	}
	if c.K == 1 || c.K < 0 {
		return fmt.Errorf("report: k must be 0 (auto) or >= 2, got %d", c.K)
	}
	if c.KMax < 2 {
		return fmt.Errorf("report: k_max must be >= 2, got %d", c.KMax)
	}
	if c.Dimensions < 1 {
		return fmt.Errorf("report: dimensions must be >= 1, got %d", c.Dimensions)
	}
	if c.Workers < 0 {
		return fmt.Errorf("report: workers must be >= 0, got %d", c.Workers)
	}
	for _, f := range c.Formats {
		switch f {
		case "png", "svg", "pdf", "html":
		default:
			return fmt.Errorf("report: unknown figure format %q, want png, svg, pdf or html", f)
		}
	}
	return nil
}

// LoadConfig reads a YAML run configuration. Absent keys keep their
// defaults, so a file may pin only the handful of settings it cares about.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("report: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("report: parsing %s: %w", path, err)
	}
	return cfg, nil
}
