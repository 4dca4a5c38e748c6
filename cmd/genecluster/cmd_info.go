package main

import (
	"github.com/spf13/cobra"

	"github.com/tbielke/genecluster"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Summarize the dataset",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	genes, samples := ds.Dims()
	lo, hi := valueRange(ds)

	cmd.Printf("Genes:    %d\n", genes)
	cmd.Printf("Samples:  %d\n", samples)
	cmd.Printf("Values:   [%.4g, %.4g]\n", lo, hi)
	if ds.Phenotypes == nil {
		cmd.Printf("Phenotypes: none\n")
		return nil
	}
	labels, levels, err := ds.PhenotypeLabels()
	if err != nil {
		return err
	}
	counts := make([]int, len(levels))
	for _, l := range labels {
		counts[l]++
	}
	cmd.Printf("Phenotypes:\n")
	for i, level := range levels {
		cmd.Printf("  %-12s %d samples\n", level, counts[i])
	}
	return nil
}

func valueRange(ds *genecluster.Dataset) (lo, hi float64) {
	if len(ds.Values) == 0 {
		return 0, 0
	}
	lo, hi = ds.Values[0], ds.Values[0]
	for _, v := range ds.Values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
