package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tbielke/genecluster"
)

var (
	kmeansK        int
	kmeansRestarts int
	kmeansSeed     int64
	kmeansSweep    string
)

var kmeansCmd = &cobra.Command{
	Use:   "kmeans",
	Short: "Partition the samples with Lloyd's k-means",
	Long: `Partitions the samples into k clusters and reports the assignment, the
within-cluster sum of squares, and the mean silhouette under euclidean
distance. With --sweep it instead runs every candidate k in the range and
prints the selection table, marking the k with the best silhouette.`,
	Args: cobra.NoArgs,
	RunE: runKMeans,
}

func init() {
	kmeansCmd.Flags().IntVar(&kmeansK, "k", 2, "number of clusters")
	kmeansCmd.Flags().IntVar(&kmeansRestarts, "restarts", 10, "independent restarts, best inertia wins")
	kmeansCmd.Flags().Int64Var(&kmeansSeed, "seed", 1, "seed for the restart RNG")
	kmeansCmd.Flags().StringVar(&kmeansSweep, "sweep", "", "sweep a k range instead, e.g. 2:6")
}

func runKMeans(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	vectors := ds.SampleVectors()

	if kmeansSweep != "" {
		return runKMeansSweep(cmd, vectors)
	}

	cfg := genecluster.DefaultKMeansConfig(kmeansK)
	cfg.Restarts = kmeansRestarts
	cfg.Seed = kmeansSeed
	cfg.Workers = resolveWorkers()
	res, err := genecluster.KMeans(vectors, cfg)
	if err != nil {
		return err
	}
	logger.Debug("k-means finished",
		zap.Int("k", kmeansK),
		zap.Int("iterations", res.Iterations),
		zap.Bool("converged", res.Converged))

	for i, l := range res.Labels {
		cmd.Printf("  %-20s cluster %d\n", sampleName(ds, i), l)
	}
	cmd.Printf("\nInertia:    %.4f\n", res.Inertia)
	cmd.Printf("Iterations: %d (restart %d", res.Iterations, res.Restart)
	if res.Converged {
		cmd.Printf(", converged)\n")
	} else {
		cmd.Printf(", hit the iteration cap)\n")
	}

	dm, err := genecluster.PairwiseDistancesParallel(vectors, genecluster.EuclideanMetric{}, resolveWorkers())
	if err != nil {
		return err
	}
	sil, err := genecluster.MeanSilhouette(dm, res.Labels)
	if err != nil {
		return err
	}
	cmd.Printf("Silhouette: %.4f\n", sil)
	return nil
}

func runKMeansSweep(cmd *cobra.Command, vectors [][]float64) error {
	kmin, kmax, err := parseSweepRange(kmeansSweep)
	if err != nil {
		return err
	}
	cfg := genecluster.DefaultKMeansConfig(0)
	cfg.Restarts = kmeansRestarts
	cfg.Seed = kmeansSeed
	cfg.Workers = resolveWorkers()

	var bar *progressbar.ProgressBar
	if isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(kmax-kmin+1,
			progressbar.OptionSetDescription("sweeping k"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	// One candidate per call so the bar ticks per k.
	points := make([]genecluster.KSweepPoint, 0, kmax-kmin+1)
	for k := kmin; k <= kmax; k++ {
		part, err := genecluster.SweepK(cmd.Context(), vectors, k, k, cfg)
		if err != nil {
			return err
		}
		points = append(points, part...)
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	best := genecluster.BestSilhouetteK(points)
	cmd.Printf("%4s  %12s  %12s\n", "k", "inertia", "silhouette")
	for _, pt := range points {
		marker := " "
		if pt.K == best {
			marker = "*"
		}
		cmd.Printf("%3d%s  %12.4f  %12.4f\n", pt.K, marker, pt.Inertia, pt.MeanSilhouette)
	}
	cmd.Printf("\nBest k by silhouette: %d\n", best)
	return nil
}

func parseSweepRange(s string) (kmin, kmax int, err error) {
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid sweep range %q, want kmin:kmax", s)
	}
	if kmin, err = strconv.Atoi(lo); err != nil {
		return 0, 0, fmt.Errorf("invalid sweep range %q: %w", s, err)
	}
	if kmax, err = strconv.Atoi(hi); err != nil {
		return 0, 0, fmt.Errorf("invalid sweep range %q: %w", s, err)
	}
	if kmax < kmin {
		return 0, 0, fmt.Errorf("invalid sweep range %q: kmax is below kmin", s)
	}
	return kmin, kmax, nil
}
