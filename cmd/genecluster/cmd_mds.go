package main

import (
	"github.com/spf13/cobra"

	"github.com/tbielke/genecluster"
)

var (
	mdsDims   int
	mdsMetric string
)

var mdsCmd = &cobra.Command{
	Use:   "mds",
	Short: "Embed the samples with classical MDS",
	Long: `Embeds the samples into a low-dimensional space whose pairwise euclidean
distances approximate the chosen metric, then prints the coordinates and the
share of variance each axis carries.`,
	Args: cobra.NoArgs,
	RunE: runMDS,
}

func init() {
	mdsCmd.Flags().IntVar(&mdsDims, "dims", 2, "number of embedding dimensions")
	mdsCmd.Flags().StringVar(&mdsMetric, "metric", "euclidean", "distance metric (euclidean, manhattan, chebyshev, cosine, pearson, abspearson, spearman)")
}

func runMDS(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	metric, err := genecluster.MetricByName(mdsMetric)
	if err != nil {
		return err
	}
	dm, err := genecluster.PairwiseDistancesParallel(ds.SampleVectors(), metric, resolveWorkers())
	if err != nil {
		return err
	}
	res, err := genecluster.MDS(dm, genecluster.MDSConfig{Dimensions: mdsDims})
	if err != nil {
		return err
	}

	cmd.Printf("%5s  %14s  %10s  %10s\n", "axis", "eigenvalue", "explained", "cumulative")
	cumulative := 0.0
	for i, ev := range res.Eigenvalues[:res.EffectiveDims] {
		cumulative += res.ExplainedProportion[i]
		cmd.Printf("%5d  %14.4f  %9.1f%%  %9.1f%%\n", i+1, ev, 100*res.ExplainedProportion[i], 100*cumulative)
	}
	if res.EffectiveDims < mdsDims {
		cmd.Printf("(only %d axes carry positive variance)\n", res.EffectiveDims)
	}

	cmd.Printf("\n%-20s", "sample")
	for d := 0; d < res.EffectiveDims; d++ {
		cmd.Printf("  %9s %d", "axis", d+1)
	}
	cmd.Printf("\n")
	for i, row := range res.Coordinates {
		cmd.Printf("%-20s", sampleName(ds, i))
		for d := 0; d < res.EffectiveDims; d++ {
			cmd.Printf("  %11.4f", row[d])
		}
		cmd.Printf("\n")
	}
	return nil
}
