package report

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"

	"github.com/tbielke/genecluster"
	"github.com/tbielke/genecluster/viz"
)

// writeFigures renders every configured figure into cfg.OutDir and records
// the file names on sum. The MDS scatter needs at least two embedding axes
// and is skipped for narrower configurations.
func writeFigures(sum *Summary, work *genecluster.Dataset, sampleDend *genecluster.Dendrogram, metric genecluster.DistanceMetric, cfg Config, workers int) error {
	gdm, err := genecluster.PairwiseDistancesParallel(work.GeneVectors(), metric, workers)
	if err != nil {
		return err
	}
	geneDend, err := genecluster.HCluster(gdm, genecluster.HClustConfig{Linkage: cfg.Linkage})
	if err != nil {
		return err
	}

	heatOpts := viz.HeatmapOptions{
		Title:   "expression heatmap",
		RowDend: geneDend,
		ColDend: sampleDend,
	}
	heat, err := viz.Heatmap(work, heatOpts)
	if err != nil {
		return err
	}
	dendro, err := viz.Dendrogram(sampleDend, work.Samples, viz.DendrogramOptions{
		Title: fmt.Sprintf("samples, %s linkage", cfg.Linkage),
	})
	if err != nil {
		return err
	}
	ksel, err := viz.KSelection(sum.Sweep)
	if err != nil {
		return err
	}
	scatterOpts := viz.ScatterOptions{Title: "classical MDS of sample distances"}
	var scatter *plot.Plot
	if len(sum.MDS.Coordinates) > 0 && len(sum.MDS.Coordinates[0]) >= 2 {
		scatter, err = viz.MDSScatter(sum.MDS, work.Phenotypes, scatterOpts)
		if err != nil {
			return err
		}
	}

	figures := []struct {
		name string
		p    *plot.Plot
	}{
		{"heatmap", heat},
		{"dendrogram", dendro},
		{"k_selection", ksel},
		{"mds", scatter},
	}
	for _, format := range cfg.Formats {
		if format == "html" {
			if err := writeHTMLFigures(sum, work, heatOpts, scatterOpts, cfg); err != nil {
				return err
			}
			continue
		}
		for _, fig := range figures {
			if fig.p == nil {
				continue
			}
			name := fig.name + "." + format
			if err := viz.SavePlot(fig.p, filepath.Join(cfg.OutDir, name)); err != nil {
				return err
			}
			sum.Figures = append(sum.Figures, name)
		}
	}
	return nil
}

func writeHTMLFigures(sum *Summary, work *genecluster.Dataset, heatOpts viz.HeatmapOptions, scatterOpts viz.ScatterOptions, cfg Config) error {
	if err := renderHTML(filepath.Join(cfg.OutDir, "heatmap.html"), func(f *os.File) error {
		return viz.HTMLHeatmap(work, heatOpts, f)
	}); err != nil {
		return err
	}
	sum.Figures = append(sum.Figures, "heatmap.html")

	if len(sum.MDS.Coordinates) == 0 || len(sum.MDS.Coordinates[0]) < 2 {
		return nil
	}
	if err := renderHTML(filepath.Join(cfg.OutDir, "mds.html"), func(f *os.File) error {
		return viz.HTMLScatter(sum.MDS, work.Phenotypes, scatterOpts, f)
	}); err != nil {
		return err
	}
	sum.Figures = append(sum.Figures, "mds.html")
	return nil
}

func renderHTML(path string, render func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("report: rendering %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}
