package viz

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/tbielke/genecluster"
)

// Diverging blue-white-red ramp for the interactive heatmap's visual map.
var divergingRamp = []string{"#4575b4", "#ffffff", "#d73027"}

// HTMLHeatmap writes an interactive echarts version of the expression
// heatmap to w as a standalone HTML page. Rows and columns follow the same
// dendrogram orders as Heatmap; hovering a cell shows its value.
func HTMLHeatmap(ds *genecluster.Dataset, o HeatmapOptions, w io.Writer) error {
	if ds == nil {
		return errors.New("viz: nil dataset")
	}
	nGenes, nSamples := ds.Dims()
	if nGenes == 0 || nSamples == 0 {
		return errors.New("viz: empty dataset")
	}
	rowOrder, err := resolveOrder(o.RowDend, nGenes, "row", "gene")
	if err != nil {
		return err
	}
	colOrder, err := resolveOrder(o.ColDend, nSamples, "column", "sample")
	if err != nil {
		return err
	}

	sampleNames := make([]string, nSamples)
	for c, s := range colOrder {
		sampleNames[c] = ds.Samples[s]
	}
	geneNames := make([]string, nGenes)
	for r, g := range rowOrder {
		geneNames[r] = ds.Genes[g]
	}

	// Same symmetric range as Heatmap, so both variants read identically.
	var limit float64
	data := make([]opts.HeatMapData, 0, nGenes*nSamples)
	for r, g := range rowOrder {
		for c, s := range colOrder {
			v := ds.At(g, s)
			limit = math.Max(limit, math.Abs(v))
			data = append(data, opts.HeatMapData{Value: []interface{}{c, r, v}})
		}
	}
	if limit == 0 {
		limit = 1
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: o.Title, Width: "1100px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: o.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: sampleNames}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: geneNames}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(-limit),
			Max:        float32(limit),
			Orient:     "horizontal",
			Left:       "center",
			InRange:    &opts.VisualMapInRange{Color: divergingRamp},
		}),
	)
	hm.AddSeries("expression", data)
	return hm.Render(w)
}

// HTMLScatter writes an interactive scatter of the first two embedding axes
// to w, one echarts series per phenotype group so groups toggle from the
// legend. phenotypes may be nil for a single unnamed series.
func HTMLScatter(res *genecluster.MDSResult, phenotypes []string, o ScatterOptions, w io.Writer) error {
	if res == nil {
		return errors.New("viz: nil MDS result")
	}
	n := len(res.Coordinates)
	if n == 0 {
		return errors.New("viz: empty embedding")
	}
	if len(res.Coordinates[0]) < 2 {
		return fmt.Errorf("viz: embedding has %d axes, need 2", len(res.Coordinates[0]))
	}
	if phenotypes != nil && len(phenotypes) != n {
		return fmt.Errorf("viz: %d phenotypes for %d points", len(phenotypes), n)
	}

	groups := []string{"samples"}
	index := map[string]int{}
	if phenotypes != nil {
		groups, index = phenotypeLevels(phenotypes)
	}
	series := make([][]opts.ScatterData, len(groups))
	for i, coord := range res.Coordinates {
		g := 0
		if phenotypes != nil {
			g = index[phenotypes[i]]
		}
		series[g] = append(series[g], opts.ScatterData{
			Value:      []interface{}{coord[0], coord[1]},
			SymbolSize: 10,
		})
	}

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: o.Title, Width: "900px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: o.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: axisLabel(1, res.ExplainedProportion), Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: axisLabel(2, res.ExplainedProportion), Type: "value"}),
	)
	for g, points := range series {
		sc.AddSeries(groups[g], points)
	}
	return sc.Render(w)
}
