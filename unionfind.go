package genecluster

// unionFind is a disjoint-set structure sized for dendrogram cluster IDs:
// original points are 0..n-1 and merged clusters take fresh IDs n..2n-2, so
// the arrays hold 2*n - 1 elements. Merge always creates the next fresh ID,
// which keeps roots aligned with linkage-matrix cluster numbering.
type unionFind struct {
	parent []int
	size   []int
	// nextLabel is the ID assigned to the next merged cluster, starting at n.
	nextLabel int
}

func newUnionFind(n int) *unionFind {
	total := 2*n - 1
	if total < 1 {
		total = 1
	}
	parent := make([]int, total)
	size := make([]int, total)
	for i := range parent {
		parent[i] = -1 // -1 means "is a root"
	}
	for i := 0; i < n; i++ {
		size[i] = 1
	}
	return &unionFind{
		parent:    parent,
		size:      size,
		nextLabel: n,
	}
}

// find returns the root of the set containing x, with path compression.
func (uf *unionFind) find(x int) int {
	root := x
	for uf.parent[root] != -1 {
		root = uf.parent[root]
	}
	for uf.parent[x] != -1 {
		x, uf.parent[x] = uf.parent[x], root
	}
	return root
}

// merge attaches roots a and b under the next fresh cluster ID and returns
// that ID. Callers must pass roots; dendrogram rows guarantee this because
// every cluster ID appears as a child exactly once.
func (uf *unionFind) merge(a, b int) int {
	id := uf.nextLabel
	uf.size[id] = uf.size[a] + uf.size[b]
	uf.parent[a] = id
	uf.parent[b] = id
	uf.nextLabel++
	return id
}
