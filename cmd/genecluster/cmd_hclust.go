package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tbielke/genecluster"
)

var (
	hclustMetric  string
	hclustLinkage string
	hclustCutK    int
	hclustNewick  string
)

var hclustCmd = &cobra.Command{
	Use:   "hclust",
	Short: "Hierarchical clustering of the samples",
	Long: `Clusters the samples agglomeratively and prints the merge table: one row
per merge with the two subtrees joined, the height the linkage rule assigned,
and the size of the resulting cluster. Subtree ids below the sample count are
leaves; higher ids refer to earlier rows.`,
	Args: cobra.NoArgs,
	RunE: runHClust,
}

func init() {
	hclustCmd.Flags().StringVar(&hclustMetric, "metric", "euclidean", "distance metric (euclidean, manhattan, chebyshev, cosine, pearson, abspearson, spearman)")
	hclustCmd.Flags().StringVar(&hclustLinkage, "linkage", "average", "linkage rule (single, complete, average, ward)")
	hclustCmd.Flags().IntVar(&hclustCutK, "cut-k", 0, "also cut the tree into this many clusters (0 = no cut)")
	hclustCmd.Flags().StringVar(&hclustNewick, "newick", "", "write the tree in Newick format to this file")
}

func runHClust(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	dm, dend, err := clusterSamples(ds, hclustMetric, genecluster.Linkage(hclustLinkage))
	if err != nil {
		return err
	}
	logger.Debug("clustered samples",
		zap.String("metric", hclustMetric),
		zap.String("linkage", hclustLinkage),
		zap.Int("merges", dend.NumMerges()))

	cmd.Printf("%5s  %6s  %6s  %12s  %5s\n", "merge", "left", "right", "height", "size")
	for i := 0; i < dend.NumMerges(); i++ {
		left, right, height, size := dend.Merge(i)
		cmd.Printf("%5d  %6d  %6d  %12.4f  %5d\n", i, left, right, height, size)
	}

	cophenetic, err := dend.CopheneticCorrelation(dm)
	if err != nil {
		return err
	}
	cmd.Printf("\nCophenetic correlation: %.4f\n", cophenetic)

	if hclustCutK > 0 {
		labels, err := dend.CutK(hclustCutK)
		if err != nil {
			return err
		}
		cmd.Printf("\nCut at k = %d:\n", hclustCutK)
		for i, l := range labels {
			cmd.Printf("  %-20s cluster %d\n", sampleName(ds, i), l)
		}
	}

	if hclustNewick != "" {
		tree, err := dend.Newick(ds.Samples)
		if err != nil {
			return err
		}
		if err := os.WriteFile(hclustNewick, []byte(tree+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing newick tree: %w", err)
		}
		logger.Info("wrote newick tree", zap.String("path", hclustNewick))
	}
	return nil
}

func sampleName(ds *genecluster.Dataset, i int) string {
	if ds.Samples != nil {
		return ds.Samples[i]
	}
	return fmt.Sprintf("sample %d", i)
}
