package genecluster

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Dendrogram is the result of hierarchical clustering: a sequence of n-1
// merge rows over n leaves in the usual linkage-matrix format. Row i is
// [left, right, height, size]: the two cluster IDs merged, the distance at
// which they merged, and the size of the merged cluster. Leaves are IDs
// 0..n-1 and the cluster created by row i has ID n+i, so the root is 2n-2.
type Dendrogram struct {
	n      int
	merges [][4]float64
}

// NewDendrogram validates externally produced merge rows and wraps them.
// A complete dendrogram over n leaves has exactly n-1 rows, every cluster ID
// appears as a child at most once, and each row's size equals the sum of its
// children's sizes.
func NewDendrogram(n int, merges [][4]float64) (*Dendrogram, error) {
	if n < 0 {
		return nil, fmt.Errorf("genecluster: dendrogram leaf count must be >= 0, got %d", n)
	}
	want := n - 1
	if n <= 1 {
		want = 0
	}
	if len(merges) != want {
		return nil, fmt.Errorf("genecluster: dendrogram over %d leaves needs %d merge rows, got %d", n, want, len(merges))
	}

	total := n + len(merges)
	merged := make([]bool, total)
	sizes := make([]int, total)
	for i := 0; i < n; i++ {
		sizes[i] = 1
	}
	for r, row := range merges {
		left, right, height, size := row[0], row[1], row[2], row[3]
		li, ri := int(left), int(right)
		if float64(li) != left || float64(ri) != right {
			return nil, fmt.Errorf("genecluster: merge row %d has non-integral child IDs [%v, %v]", r, left, right)
		}
		if li < 0 || li >= n+r || ri < 0 || ri >= n+r {
			return nil, fmt.Errorf("genecluster: merge row %d child IDs [%d, %d] out of range [0, %d)", r, li, ri, n+r)
		}
		if li == ri {
			return nil, fmt.Errorf("genecluster: merge row %d merges cluster %d with itself", r, li)
		}
		if merged[li] || merged[ri] {
			return nil, fmt.Errorf("genecluster: merge row %d reuses an already merged cluster", r)
		}
		if math.IsNaN(height) || math.IsInf(height, 0) || height < 0 {
			return nil, fmt.Errorf("genecluster: merge row %d has invalid height %v", r, height)
		}
		if int(size) != sizes[li]+sizes[ri] {
			return nil, fmt.Errorf("genecluster: merge row %d size %v does not match children sizes %d+%d", r, size, sizes[li], sizes[ri])
		}
		merged[li] = true
		merged[ri] = true
		sizes[n+r] = sizes[li] + sizes[ri]
	}
	return &Dendrogram{n: n, merges: merges}, nil
}

// NumLeaves returns the number of clustered points.
func (d *Dendrogram) NumLeaves() int { return d.n }

// NumMerges returns the number of merge rows (n-1 for n >= 2).
func (d *Dendrogram) NumMerges() int { return len(d.merges) }

// Merge returns row i decomposed into its parts.
func (d *Dendrogram) Merge(i int) (left, right int, height float64, size int) {
	row := d.merges[i]
	return int(row[0]), int(row[1]), row[2], int(row[3])
}

// Merges returns a copy of the raw merge rows.
func (d *Dendrogram) Merges() [][4]float64 {
	return append([][4]float64(nil), d.merges...)
}

// Heights returns the merge heights in merge order. For the linkages
// implemented here heights are non-decreasing.
func (d *Dendrogram) Heights() []float64 {
	out := make([]float64, len(d.merges))
	for i, row := range d.merges {
		out[i] = row[2]
	}
	return out
}

// CutK cuts the tree into exactly k flat clusters by undoing the last k-1
// merges. Labels are assigned by first appearance in point order, so label 0
// always belongs to point 0.
func (d *Dendrogram) CutK(k int) ([]int, error) {
	if k < 1 || k > d.n {
		return nil, fmt.Errorf("genecluster: cut k must be in [1, %d], got %d", d.n, k)
	}
	return d.labelsFromPrefix(d.n - k), nil
}

// CutHeight cuts the tree at the given height: every merge with height <= h
// is applied. h below the first merge yields all singletons; h at or above
// the root yields one cluster.
func (d *Dendrogram) CutHeight(h float64) []int {
	applied := 0
	for applied < len(d.merges) && d.merges[applied][2] <= h {
		applied++
	}
	return d.labelsFromPrefix(applied)
}

// labelsFromPrefix applies the first `applied` merge rows and labels each
// point by its component, numbering components by first appearance.
func (d *Dendrogram) labelsFromPrefix(applied int) []int {
	uf := newUnionFind(d.n)
	for r := 0; r < applied; r++ {
		uf.merge(int(d.merges[r][0]), int(d.merges[r][1]))
	}
	labels := make([]int, d.n)
	seen := make(map[int]int)
	for p := 0; p < d.n; p++ {
		root := uf.find(p)
		id, ok := seen[root]
		if !ok {
			id = len(seen)
			seen[root] = id
		}
		labels[p] = id
	}
	return labels
}

// LeafOrder returns the left-to-right order of the leaves under the tree,
// the ordering used to arrange heatmap rows so that similar profiles sit
// next to each other.
func (d *Dendrogram) LeafOrder() []int {
	order := make([]int, 0, d.n)
	if d.n == 0 {
		return order
	}
	if len(d.merges) == 0 {
		// No merges: a single leaf.
		return append(order, 0)
	}

	stack := []int{d.n + len(d.merges) - 1}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node < d.n {
			order = append(order, node)
			continue
		}
		row := d.merges[node-d.n]
		// Push right first so the left child is visited first.
		stack = append(stack, int(row[1]), int(row[0]))
	}
	return order
}

// CopheneticDistances returns the matrix of cophenetic distances: the height
// at which each pair of points first ends up in the same cluster.
func (d *Dendrogram) CopheneticDistances() DistMatrix {
	n := d.n
	data := make([]float64, n*n)
	members := make([][]int, n+len(d.merges))
	for i := 0; i < n; i++ {
		members[i] = []int{i}
	}
	for r, row := range d.merges {
		a, b, h := int(row[0]), int(row[1]), row[2]
		for _, p := range members[a] {
			for _, q := range members[b] {
				data[p*n+q] = h
				data[q*n+p] = h
			}
		}
		joined := make([]int, 0, len(members[a])+len(members[b]))
		joined = append(joined, members[a]...)
		joined = append(joined, members[b]...)
		members[n+r] = joined
	}
	return DistMatrix{n: n, data: data}
}

// CopheneticCorrelation measures how faithfully the dendrogram preserves the
// original distances: the Pearson correlation between input and cophenetic
// distances over all pairs. Values near 1 mean the tree is an honest summary.
func (d *Dendrogram) CopheneticCorrelation(dm DistMatrix) (float64, error) {
	if dm.N() != d.n {
		return 0, fmt.Errorf("genecluster: distance matrix is over %d points, dendrogram over %d", dm.N(), d.n)
	}
	if d.n < 2 {
		return 0, fmt.Errorf("genecluster: cophenetic correlation needs at least 2 points, got %d", d.n)
	}
	coph := d.CopheneticDistances()
	pairs := d.n * (d.n - 1) / 2
	xs := make([]float64, 0, pairs)
	ys := make([]float64, 0, pairs)
	for i := 0; i < d.n; i++ {
		for j := i + 1; j < d.n; j++ {
			xs = append(xs, dm.At(i, j))
			ys = append(ys, coph.At(i, j))
		}
	}
	return pearsonR(xs, ys), nil
}

// Newick renders the tree in Newick format with branch lengths, the exchange
// format most tree viewers accept. labels names the leaves; nil falls back to
// "0", "1", ... Labels must not contain the Newick metacharacters ,():; or
// whitespace.
func (d *Dendrogram) Newick(labels []string) (string, error) {
	if d.n == 0 {
		return "", fmt.Errorf("genecluster: cannot render an empty dendrogram")
	}
	if labels == nil {
		labels = make([]string, d.n)
		for i := range labels {
			labels[i] = strconv.Itoa(i)
		}
	}
	if len(labels) != d.n {
		return "", fmt.Errorf("genecluster: got %d labels for %d leaves", len(labels), d.n)
	}
	for i, l := range labels {
		if strings.ContainsAny(l, ",():; \t\n") {
			return "", fmt.Errorf("genecluster: leaf label %d (%q) contains Newick metacharacters", i, l)
		}
	}

	if len(d.merges) == 0 {
		return labels[0] + ";", nil
	}

	var b strings.Builder
	// render writes the subtree rooted at node and returns its height, so
	// the caller can emit the branch length up to its own height.
	var render func(node int) float64
	child := func(node int, parentHeight float64) {
		h := render(node)
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(parentHeight-h, 'g', -1, 64))
	}
	render = func(node int) float64 {
		if node < d.n {
			b.WriteString(labels[node])
			return 0
		}
		row := d.merges[node-d.n]
		b.WriteByte('(')
		child(int(row[0]), row[2])
		b.WriteByte(',')
		child(int(row[1]), row[2])
		b.WriteByte(')')
		return row[2]
	}
	render(d.n + len(d.merges) - 1)
	b.WriteByte(';')
	return b.String(), nil
}
