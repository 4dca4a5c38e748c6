package viz

import (
	"errors"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/tbielke/genecluster"
)

// exprGrid adapts a reordered Dataset to plotter.GridXYZ. Row r of the grid
// is gene rows[r], column c is sample cols[c]; row 0 is drawn at the bottom.
type exprGrid struct {
	ds   *genecluster.Dataset
	rows []int
	cols []int
}

func (g *exprGrid) Dims() (c, r int)   { return len(g.cols), len(g.rows) }
func (g *exprGrid) Z(c, r int) float64 { return g.ds.At(g.rows[r], g.cols[c]) }
func (g *exprGrid) X(c int) float64    { return float64(c) }
func (g *exprGrid) Y(r int) float64    { return float64(r) }

// cellStrip draws one colored cell per column between y0 and y1. It renders
// the phenotype bar that ties the heatmap columns to their diagnosis.
type cellStrip struct {
	y0, y1 float64
	colors []color.Color
}

func (cs *cellStrip) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	y0, y1 := trY(cs.y0), trY(cs.y1)
	for i, clr := range cs.colors {
		x0, x1 := trX(float64(i)-0.5), trX(float64(i)+0.5)
		c.FillPolygon(clr, []vg.Point{
			{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
		})
	}
}

func (cs *cellStrip) DataRange() (xmin, xmax, ymin, ymax float64) {
	return -0.5, float64(len(cs.colors)) - 0.5, cs.y0, cs.y1
}

// swatch is a legend thumbnail filled with a single color.
type swatch struct {
	color.Color
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	c.FillPolygon(s.Color, []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	})
}

// Margin layout, in units of heatmap cells.
const (
	marginPad   = 0.6
	stripHeight = 1.2
)

func treeBand(leaves int) float64 {
	band := 0.18 * float64(leaves)
	return math.Min(math.Max(band, 2), 14)
}

// maxHeight returns the tallest merge of the tree, 0 for degenerate trees.
func maxHeight(dend *genecluster.Dendrogram) float64 {
	var m float64
	for _, h := range dend.Heights() {
		m = math.Max(m, h)
	}
	return m
}

// mapSegments rebases tree segments from (leaf position, merge height) space
// into figure space: position feeds posAxis, height feeds growth away from
// base. Horizontal trees grow along x, vertical trees along y.
func mapSegments(segs []segment, base, scale float64, horizontal bool) []segment {
	out := make([]segment, len(segs))
	for i, s := range segs {
		if horizontal {
			out[i] = segment{base + s.y0*scale, s.x0, base + s.y1*scale, s.x1}
		} else {
			out[i] = segment{s.x0, base + s.y0*scale, s.x1, base + s.y1*scale}
		}
	}
	return out
}

// Heatmap renders the expression matrix as a color map on a symmetric
// blue-white-red scale, genes on rows and samples on columns. Dendrograms in
// o reorder their axis and are sketched in the margins; when the dataset
// carries phenotypes, a color strip above the matrix marks each sample's
// group. Trees with fewer than two leaves render without a margin sketch.
func Heatmap(ds *genecluster.Dataset, o HeatmapOptions) (*plot.Plot, error) {
	if ds == nil {
		return nil, errors.New("viz: nil dataset")
	}
	nGenes, nSamples := ds.Dims()
	if nGenes == 0 || nSamples == 0 {
		return nil, errors.New("viz: empty dataset")
	}
	rowOrder, err := resolveOrder(o.RowDend, nGenes, "row", "gene")
	if err != nil {
		return nil, err
	}
	colOrder, err := resolveOrder(o.ColDend, nSamples, "column", "sample")
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = o.Title

	// Symmetric range keeps white pinned at zero so the diverging palette
	// reads as below/above baseline.
	var limit float64
	for _, v := range ds.Values {
		limit = math.Max(limit, math.Abs(v))
	}
	if limit == 0 {
		limit = 1
	}
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-limit)
	cm.SetMax(limit)
	steps := o.PaletteSteps
	if steps <= 0 {
		steps = 255
	}
	grid := &exprGrid{ds: ds, rows: rowOrder, cols: colOrder}
	hm := plotter.NewHeatMap(grid, cm.Palette(steps))
	hm.Min, hm.Max = -limit, limit
	p.Add(hm)

	matrixTop := float64(nGenes) - 0.5
	colTreeBase := matrixTop + marginPad

	if ds.Phenotypes != nil {
		levels, index := phenotypeLevels(ds.Phenotypes)
		strip := &cellStrip{
			y0:     matrixTop + marginPad,
			y1:     matrixTop + marginPad + stripHeight,
			colors: make([]color.Color, nSamples),
		}
		for c, s := range colOrder {
			strip.colors[c] = plotutil.Color(index[ds.Phenotypes[s]])
		}
		p.Add(strip)
		for i, level := range levels {
			p.Legend.Add(level, swatch{plotutil.Color(i)})
		}
		p.Legend.Top = true
		colTreeBase = strip.y1 + marginPad
	}

	if o.ColDend != nil {
		if segs := dendrogramSegments(o.ColDend); len(segs) > 0 {
			band := treeBand(nGenes)
			scale := 0.0
			if h := maxHeight(o.ColDend); h > 0 {
				scale = band / h
			}
			p.Add(&lineSet{segs: mapSegments(segs, colTreeBase, scale, false), style: treeLineStyle()})
		}
	}
	if o.RowDend != nil {
		if segs := dendrogramSegments(o.RowDend); len(segs) > 0 {
			band := treeBand(nSamples)
			scale := 0.0
			if h := maxHeight(o.RowDend); h > 0 {
				scale = -band / h
			}
			p.Add(&lineSet{segs: mapSegments(segs, -0.5-marginPad, scale, true), style: treeLineStyle()})
		}
	}

	sampleNames := make([]string, nSamples)
	for c, s := range colOrder {
		sampleNames[c] = ds.Samples[s]
	}
	p.NominalX(sampleNames...)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.Font.Size = vg.Points(6)

	geneNames := make([]string, nGenes)
	for r, g := range rowOrder {
		geneNames[r] = ds.Genes[g]
	}
	p.NominalY(geneNames...)
	p.Y.Tick.Label.Font.Size = vg.Points(5)

	return p, nil
}
