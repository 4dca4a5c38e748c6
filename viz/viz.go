// Package viz renders the tutorial's figures: expression heatmaps with
// dendrogram margins and a phenotype strip, standalone dendrograms, MDS
// embeddings and k-selection curves. Figures are gonum/plot plots saved to
// PNG, SVG or PDF; the heatmap and scatter also have interactive HTML
// variants for the generated report. Rendering is deterministic: the same
// inputs produce the same bytes.
package viz

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/tbielke/genecluster"
)

// Default figure size for SavePlot. Landscape suits the dendrogram and curve
// figures; the heatmap stays legible because its margins scale with the grid.
const (
	defaultWidth  = 8 * vg.Inch
	defaultHeight = 6 * vg.Inch
)

// HeatmapOptions configures Heatmap and HTMLHeatmap.
type HeatmapOptions struct {
	// Title is drawn above the figure.
	Title string

	// RowDend reorders the genes by its leaf order and is drawn in the
	// left margin. Nil keeps the dataset's gene order with no margin tree.
	RowDend *genecluster.Dendrogram

	// ColDend reorders the samples by its leaf order and is drawn in the
	// top margin, above the phenotype strip.
	ColDend *genecluster.Dendrogram

	// PaletteSteps is the number of discrete palette colors. Default 255.
	PaletteSteps int
}

// DendrogramOptions configures the standalone Dendrogram figure.
type DendrogramOptions struct {
	Title string
}

// ScatterOptions configures MDSScatter and HTMLScatter.
type ScatterOptions struct {
	Title string
}

// SavePlot writes p to path, choosing the encoder from the extension.
// Supported formats are .png, .svg and .pdf.
func SavePlot(p *plot.Plot, path string) error {
	if p == nil {
		return errors.New("viz: nil plot")
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png", ".svg", ".pdf":
	case "":
		return fmt.Errorf("viz: %q has no extension, want .png, .svg or .pdf", path)
	default:
		return fmt.Errorf("viz: unsupported figure format %q, want .png, .svg or .pdf", ext)
	}
	return p.Save(defaultWidth, defaultHeight, path)
}

// resolveOrder returns the permutation a dendrogram imposes on one axis of
// the matrix, or the identity when dend is nil.
func resolveOrder(dend *genecluster.Dendrogram, n int, axis, item string) ([]int, error) {
	if dend == nil {
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		return order, nil
	}
	order := dend.LeafOrder()
	if len(order) != n {
		return nil, fmt.Errorf("viz: %s dendrogram has %d leaves for %d %ss", axis, len(order), n, item)
	}
	return order, nil
}

// phenotypeLevels assigns each distinct phenotype a dense index in order of
// first appearance, mirroring Dataset.PhenotypeLabels.
func phenotypeLevels(phenotypes []string) (levels []string, index map[string]int) {
	index = make(map[string]int)
	for _, p := range phenotypes {
		if _, ok := index[p]; !ok {
			index[p] = len(levels)
			levels = append(levels, p)
		}
	}
	return levels, index
}
