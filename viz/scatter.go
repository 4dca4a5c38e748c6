package viz

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/tbielke/genecluster"
)

// MDSScatter renders the first two embedding axes as a scatter, one glyph
// style per phenotype with a legend entry each. phenotypes gives one group
// name per embedded point; nil draws a single anonymous series. Axis labels
// carry the explained variance when the result provides it.
func MDSScatter(res *genecluster.MDSResult, phenotypes []string, o ScatterOptions) (*plot.Plot, error) {
	if res == nil {
		return nil, errors.New("viz: nil MDS result")
	}
	n := len(res.Coordinates)
	if n == 0 {
		return nil, errors.New("viz: empty embedding")
	}
	if len(res.Coordinates[0]) < 2 {
		return nil, fmt.Errorf("viz: embedding has %d axes, need 2", len(res.Coordinates[0]))
	}
	if phenotypes != nil && len(phenotypes) != n {
		return nil, fmt.Errorf("viz: %d phenotypes for %d points", len(phenotypes), n)
	}

	p := plot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = axisLabel(1, res.ExplainedProportion)
	p.Y.Label.Text = axisLabel(2, res.ExplainedProportion)
	p.Add(plotter.NewGrid())

	groups := []string{""}
	index := map[string]int{"": 0}
	if phenotypes != nil {
		groups, index = phenotypeLevels(phenotypes)
	}
	series := make([]plotter.XYs, len(groups))
	for i, coord := range res.Coordinates {
		g := 0
		if phenotypes != nil {
			g = index[phenotypes[i]]
		}
		series[g] = append(series[g], plotter.XY{X: coord[0], Y: coord[1]})
	}
	for g, xys := range series {
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("viz: %v", err)
		}
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(3)
		sc.GlyphStyle.Color = plotutil.Color(g)
		p.Add(sc)
		if phenotypes != nil {
			p.Legend.Add(groups[g], sc)
		}
	}
	p.Legend.Top = true
	return p, nil
}

func axisLabel(axis int, explained []float64) string {
	if len(explained) >= axis {
		return fmt.Sprintf("MDS %d (%.0f%% of variance)", axis, 100*explained[axis-1])
	}
	return fmt.Sprintf("MDS %d", axis)
}

// KSelection plots the k sweep: inertia (scaled to its maximum so both
// curves share an axis) and mean silhouette against k, with a dashed rule at
// the silhouette's argmax. The elbow in the falling inertia curve and the
// silhouette peak are the two standard reads for choosing k.
func KSelection(sweep []genecluster.KSweepPoint) (*plot.Plot, error) {
	if len(sweep) == 0 {
		return nil, errors.New("viz: empty k sweep")
	}

	p := plot.New()
	p.Title.Text = "choosing k"
	p.X.Label.Text = "k"
	p.Y.Label.Text = "score"

	var maxInertia float64
	for _, pt := range sweep {
		maxInertia = math.Max(maxInertia, pt.Inertia)
	}
	if maxInertia == 0 {
		maxInertia = 1
	}

	inertia := make(plotter.XYs, len(sweep))
	sil := make(plotter.XYs, len(sweep))
	ticks := make([]plot.Tick, len(sweep))
	yLo, yHi := 0.0, 1.0
	for i, pt := range sweep {
		k := float64(pt.K)
		inertia[i] = plotter.XY{X: k, Y: pt.Inertia / maxInertia}
		sil[i] = plotter.XY{X: k, Y: pt.MeanSilhouette}
		ticks[i] = plot.Tick{Value: k, Label: strconv.Itoa(pt.K)}
		yLo = math.Min(yLo, pt.MeanSilhouette)
		yHi = math.Max(yHi, pt.MeanSilhouette)
	}

	il, ip, err := plotter.NewLinePoints(inertia)
	if err != nil {
		return nil, fmt.Errorf("viz: %v", err)
	}
	il.Color = plotutil.Color(0)
	ip.GlyphStyle.Color = plotutil.Color(0)
	p.Add(il, ip)
	p.Legend.Add("inertia / max", il, ip)

	sl, sp, err := plotter.NewLinePoints(sil)
	if err != nil {
		return nil, fmt.Errorf("viz: %v", err)
	}
	sl.Color = plotutil.Color(1)
	sp.GlyphStyle.Color = plotutil.Color(1)
	p.Add(sl, sp)
	p.Legend.Add("mean silhouette", sl, sp)

	best := float64(genecluster.BestSilhouetteK(sweep))
	rule, err := plotter.NewLine(plotter.XYs{{X: best, Y: yLo}, {X: best, Y: yHi}})
	if err != nil {
		return nil, fmt.Errorf("viz: %v", err)
	}
	rule.Color = plotutil.Color(2)
	rule.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(rule)
	p.Legend.Add("best k by silhouette", rule)

	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Legend.Top = true
	return p, nil
}
