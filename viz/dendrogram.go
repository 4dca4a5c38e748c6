package viz

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/tbielke/genecluster"
)

// segment is one line piece of a figure, in data coordinates.
type segment struct {
	x0, y0, x1, y1 float64
}

// lineSet draws a fixed bag of segments. It backs both the standalone
// dendrogram figure and the margin trees of the heatmap.
type lineSet struct {
	segs  []segment
	style draw.LineStyle
}

func (ls *lineSet) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for _, s := range ls.segs {
		c.StrokeLine2(ls.style, trX(s.x0), trY(s.y0), trX(s.x1), trY(s.y1))
	}
}

func (ls *lineSet) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for _, s := range ls.segs {
		xmin = math.Min(xmin, math.Min(s.x0, s.x1))
		xmax = math.Max(xmax, math.Max(s.x0, s.x1))
		ymin = math.Min(ymin, math.Min(s.y0, s.y1))
		ymax = math.Max(ymax, math.Max(s.y0, s.y1))
	}
	return xmin, xmax, ymin, ymax
}

func treeLineStyle() draw.LineStyle {
	return draw.LineStyle{Color: color.Gray{Y: 0x30}, Width: vg.Points(0.9)}
}

// dendrogramSegments lays the tree out over its leaf order: leaf i of
// LeafOrder sits at position i, every internal node at the mean position of
// its children, and each merge contributes two risers and one crossbar at
// the merge height. Position is on the x axis, height on y; callers that
// want another orientation remap the segments.
func dendrogramSegments(d *genecluster.Dendrogram) []segment {
	order := d.LeafOrder()
	n := len(order)
	if n < 2 {
		return nil
	}
	pos := make([]float64, 2*n-1)
	height := make([]float64, 2*n-1)
	for i, leaf := range order {
		pos[leaf] = float64(i)
	}
	merges := d.Merges()
	segs := make([]segment, 0, 3*len(merges))
	for i, m := range merges {
		l, r := int(m[0]), int(m[1])
		h := m[2]
		id := n + i
		pos[id] = (pos[l] + pos[r]) / 2
		height[id] = h
		segs = append(segs,
			segment{pos[l], height[l], pos[l], h},
			segment{pos[r], height[r], pos[r], h},
			segment{pos[l], h, pos[r], h},
		)
	}
	return segs
}

// Dendrogram renders dend as the classic bracket figure, leaves along the x
// axis in dendrogram order and merge height on y. labels gives one name per
// leaf in the original observation order; nil falls back to leaf indices.
func Dendrogram(dend *genecluster.Dendrogram, labels []string, o DendrogramOptions) (*plot.Plot, error) {
	if dend == nil {
		return nil, errors.New("viz: nil dendrogram")
	}
	order := dend.LeafOrder()
	n := len(order)
	if n == 0 {
		return nil, errors.New("viz: empty dendrogram")
	}
	if labels == nil {
		labels = make([]string, n)
		for i := range labels {
			labels[i] = strconv.Itoa(i)
		}
	}
	if len(labels) != n {
		return nil, fmt.Errorf("viz: %d labels for %d leaves", len(labels), n)
	}

	p := plot.New()
	p.Title.Text = o.Title
	p.Y.Label.Text = "merge height"
	p.Y.Min = 0

	if segs := dendrogramSegments(dend); len(segs) > 0 {
		p.Add(&lineSet{segs: segs, style: treeLineStyle()})
	}

	ordered := make([]string, n)
	for i, leaf := range order {
		ordered[i] = labels[leaf]
	}
	p.NominalX(ordered...)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.Font.Size = vg.Points(6)
	return p, nil
}
