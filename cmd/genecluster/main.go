package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tbielke/genecluster"
	"github.com/tbielke/genecluster/leukemia"
)

var (
	inputPath string
	verbose   bool
	workers   int

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "genecluster",
	Short: "Exploratory clustering of gene expression matrices",
	Long: `genecluster walks an expression matrix through the standard exploratory
toolkit: hierarchical clustering under the classic linkage rules, k-means
with a k selection sweep, classical MDS, and the figures that go with them.

Without --input it analyzes the bundled acute leukemia teaching subset
(60 genes across 38 samples, 27 ALL and 11 AML).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// loadDataset reads --input, or falls back to the embedded leukemia matrix.
func loadDataset() (*genecluster.Dataset, error) {
	if inputPath == "" {
		return leukemia.Load()
	}
	return genecluster.ReadCSVFile(inputPath)
}

func resolveWorkers() int {
	if workers > 0 {
		return workers
	}
	return runtime.NumCPU()
}

// clusterSamples runs the shared front half of most commands: pairwise
// sample distances under the named metric, then hierarchical clustering.
func clusterSamples(ds *genecluster.Dataset, metricName string, linkage genecluster.Linkage) (genecluster.DistMatrix, *genecluster.Dendrogram, error) {
	metric, err := genecluster.MetricByName(metricName)
	if err != nil {
		return genecluster.DistMatrix{}, nil, err
	}
	dm, err := genecluster.PairwiseDistancesParallel(ds.SampleVectors(), metric, resolveWorkers())
	if err != nil {
		return genecluster.DistMatrix{}, nil, err
	}
	dend, err := genecluster.HCluster(dm, genecluster.HClustConfig{Linkage: linkage})
	if err != nil {
		return genecluster.DistMatrix{}, nil, err
	}
	return dm, dend, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "expression CSV (default: bundled leukemia dataset)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "worker pool size (0 = one per CPU)")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(hclustCmd)
	rootCmd.AddCommand(kmeansCmd)
	rootCmd.AddCommand(mdsCmd)
	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(dendrogramCmd)
	rootCmd.AddCommand(scatterCmd)
	rootCmd.AddCommand(reportCmd)
}

func main() {
	rootCmd.SetOut(os.Stdout)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
