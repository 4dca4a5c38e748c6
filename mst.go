package genecluster

import (
	"math"
	"sort"
)

// PrimMST computes a minimum spanning tree of the complete graph described by
// the distance matrix, using Prim's algorithm. It returns n-1 edges as
// [][3]float64 rows [from, to, weight] in chain format: "from" is the node
// added immediately before "to", not necessarily to's nearest tree neighbor.
// Processed in ascending weight order the chain yields the same merge
// sequence as the true tree, which is all single linkage needs.
func PrimMST(dm DistMatrix) [][3]float64 {
	n := dm.N()
	if n <= 1 {
		return nil
	}

	inTree := make([]bool, n)
	currentDistances := make([]float64, n)

	// Start from node 0: seed distances from its row in the matrix.
	inTree[0] = true
	currentNode := 0
	currentDistances[0] = math.Inf(1) // node 0 is in tree, distance irrelevant
	for j := 1; j < n; j++ {
		currentDistances[j] = dm.At(0, j)
	}

	edges := make([][3]float64, 0, n-1)
	for i := 0; i < n-1; i++ {
		// Find the nearest node not yet in the tree.
		minDist := math.Inf(1)
		minNode := -1
		for j := 0; j < n; j++ {
			if !inTree[j] && currentDistances[j] < minDist {
				minDist = currentDistances[j]
				minNode = j
			}
		}

		edges = append(edges, [3]float64{
			float64(currentNode),
			float64(minNode),
			minDist,
		})

		inTree[minNode] = true
		currentNode = minNode

		for k := 0; k < n; k++ {
			if !inTree[k] {
				if d := dm.At(minNode, k); d < currentDistances[k] {
					currentDistances[k] = d
				}
			}
		}
	}

	return edges
}

// mstLinkage converts MST edges into single-linkage dendrogram rows. Edges
// are sorted by weight ascending (ties keep chain order) and each one merges
// the sets containing its endpoints; the two set roots become the row's child
// IDs, ordered low-high.
func mstLinkage(mstEdges [][3]float64, n int) [][4]float64 {
	if len(mstEdges) == 0 {
		return nil
	}

	sorted := make([][3]float64, len(mstEdges))
	copy(sorted, mstEdges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i][2] < sorted[j][2]
	})

	uf := newUnionFind(n)
	merges := make([][4]float64, 0, len(sorted))
	for _, edge := range sorted {
		a := uf.find(int(edge[0]))
		b := uf.find(int(edge[1]))
		if a > b {
			a, b = b, a
		}
		newSize := uf.size[a] + uf.size[b]
		merges = append(merges, [4]float64{float64(a), float64(b), edge[2], float64(newSize)})
		uf.merge(a, b)
	}
	return merges
}

// singleLinkage is the O(n²) single-linkage path: build an MST, sort its
// edges, and replay them as merges.
func singleLinkage(dm DistMatrix) *Dendrogram {
	return &Dendrogram{n: dm.N(), merges: mstLinkage(PrimMST(dm), dm.N())}
}
