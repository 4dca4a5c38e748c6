package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tbielke/genecluster"
	"github.com/tbielke/genecluster/viz"
)

var (
	heatmapMetric  string
	heatmapLinkage string
	heatmapOut     string

	dendroMetric  string
	dendroLinkage string
	dendroOut     string

	scatterMetric string
	scatterOut    string
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Render the clustered expression heatmap",
	Long: `Renders the expression matrix as a heatmap with genes and samples both
reordered by hierarchical clustering, marginal dendrograms on both axes, and
a phenotype strip when the dataset carries one. A .html output writes the
interactive variant instead of a static figure.`,
	Args: cobra.NoArgs,
	RunE: runHeatmap,
}

var dendrogramCmd = &cobra.Command{
	Use:   "dendrogram",
	Short: "Render the sample dendrogram",
	Args:  cobra.NoArgs,
	RunE:  runDendrogram,
}

var scatterCmd = &cobra.Command{
	Use:   "scatter",
	Short: "Render the 2-D MDS embedding of the samples",
	Long: `Embeds the samples with classical MDS and renders the first two axes,
colored by phenotype when the dataset carries one. A .html output writes the
interactive variant instead of a static figure.`,
	Args: cobra.NoArgs,
	RunE: runScatter,
}

func init() {
	heatmapCmd.Flags().StringVar(&heatmapMetric, "metric", "euclidean", "distance metric for both axes")
	heatmapCmd.Flags().StringVar(&heatmapLinkage, "linkage", "average", "linkage rule for both axes")
	heatmapCmd.Flags().StringVar(&heatmapOut, "out", "heatmap.png", "output file (.png, .svg, .pdf, or .html)")

	dendrogramCmd.Flags().StringVar(&dendroMetric, "metric", "euclidean", "distance metric")
	dendrogramCmd.Flags().StringVar(&dendroLinkage, "linkage", "average", "linkage rule")
	dendrogramCmd.Flags().StringVar(&dendroOut, "out", "dendrogram.png", "output file (.png, .svg, or .pdf)")

	scatterCmd.Flags().StringVar(&scatterMetric, "metric", "euclidean", "distance metric for the embedding")
	scatterCmd.Flags().StringVar(&scatterOut, "out", "mds.png", "output file (.png, .svg, .pdf, or .html)")
}

func runHeatmap(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	linkage := genecluster.Linkage(heatmapLinkage)
	_, sampleDend, err := clusterSamples(ds, heatmapMetric, linkage)
	if err != nil {
		return err
	}
	metric, err := genecluster.MetricByName(heatmapMetric)
	if err != nil {
		return err
	}
	geneDM, err := genecluster.PairwiseDistancesParallel(ds.GeneVectors(), metric, resolveWorkers())
	if err != nil {
		return err
	}
	geneDend, err := genecluster.HCluster(geneDM, genecluster.HClustConfig{Linkage: linkage})
	if err != nil {
		return err
	}

	o := viz.HeatmapOptions{Title: "expression heatmap", RowDend: geneDend, ColDend: sampleDend}
	if isHTMLPath(heatmapOut) {
		err = writeHTML(heatmapOut, func(w io.Writer) error {
			return viz.HTMLHeatmap(ds, o, w)
		})
	} else {
		p, perr := viz.Heatmap(ds, o)
		if perr != nil {
			return perr
		}
		err = viz.SavePlot(p, heatmapOut)
	}
	if err != nil {
		return err
	}
	logger.Info("wrote heatmap", zap.String("path", heatmapOut))
	cmd.Printf("Wrote %s\n", heatmapOut)
	return nil
}

func runDendrogram(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	_, dend, err := clusterSamples(ds, dendroMetric, genecluster.Linkage(dendroLinkage))
	if err != nil {
		return err
	}
	p, err := viz.Dendrogram(dend, ds.Samples, viz.DendrogramOptions{
		Title: fmt.Sprintf("samples, %s linkage", dendroLinkage),
	})
	if err != nil {
		return err
	}
	if err := viz.SavePlot(p, dendroOut); err != nil {
		return err
	}
	logger.Info("wrote dendrogram", zap.String("path", dendroOut))
	cmd.Printf("Wrote %s\n", dendroOut)
	return nil
}

func runScatter(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset()
	if err != nil {
		return err
	}
	metric, err := genecluster.MetricByName(scatterMetric)
	if err != nil {
		return err
	}
	dm, err := genecluster.PairwiseDistancesParallel(ds.SampleVectors(), metric, resolveWorkers())
	if err != nil {
		return err
	}
	res, err := genecluster.MDS(dm, genecluster.MDSConfig{Dimensions: 2})
	if err != nil {
		return err
	}

	o := viz.ScatterOptions{Title: "classical MDS of samples"}
	if isHTMLPath(scatterOut) {
		err = writeHTML(scatterOut, func(w io.Writer) error {
			return viz.HTMLScatter(res, ds.Phenotypes, o, w)
		})
	} else {
		p, perr := viz.MDSScatter(res, ds.Phenotypes, o)
		if perr != nil {
			return perr
		}
		err = viz.SavePlot(p, scatterOut)
	}
	if err != nil {
		return err
	}
	logger.Info("wrote mds scatter", zap.String("path", scatterOut))
	cmd.Printf("Wrote %s\n", scatterOut)
	return nil
}

func isHTMLPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".html")
}

func writeHTML(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
