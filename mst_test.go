package genecluster

import (
	"math"
	"testing"
)

// helper: sum all MST edge weights.
func totalMSTWeight(edges [][3]float64) float64 {
	total := 0.0
	for _, e := range edges {
		total += e[2]
	}
	return total
}

// helper: build a DistMatrix from a 2D slice.
func distMatrixFrom(t *testing.T, m [][]float64) DistMatrix {
	t.Helper()
	n := len(m)
	flat := make([]float64, n*n)
	for i := range m {
		for j := range m[i] {
			flat[i*n+j] = m[i][j]
		}
	}
	dm, err := NewDistMatrix(n, flat)
	if err != nil {
		t.Fatalf("NewDistMatrix() error: %v", err)
	}
	return dm
}

func TestPrimMST_FourPointKnownMST(t *testing.T) {
	// Distance matrix:
	//      0  1  3  4
	//      1  0  2  5
	//      3  2  0  1
	//      4  5  1  0
	// Known MST edges (by weight): {0,1}=1, {2,3}=1, {1,2}=2  total=4
	dm := distMatrixFrom(t, [][]float64{
		{0, 1, 3, 4},
		{1, 0, 2, 5},
		{3, 2, 0, 1},
		{4, 5, 1, 0},
	})

	edges := PrimMST(dm)

	if len(edges) != 3 {
		t.Fatalf("expected 3 edges, got %d", len(edges))
	}

	total := totalMSTWeight(edges)
	if math.Abs(total-4.0) > 1e-10 {
		t.Errorf("expected total MST weight 4.0, got %f", total)
	}

	// Verify individual edge weights are {1, 1, 2} in some order.
	weights := make(map[float64]int)
	for _, e := range edges {
		weights[e[2]]++
	}
	if weights[1.0] != 2 || weights[2.0] != 1 {
		t.Errorf("expected weights {1:2, 2:1}, got %v", weights)
	}
}

func TestPrimMST_ChainFormat(t *testing.T) {
	// Vertices at (0,0), (3,0), (0,4): side lengths 3, 4, 5. The tree keeps
	// the two short sides and the chain walks 0 -> 1 -> 2.
	dm, err := PairwiseDistances([][]float64{{0, 0}, {3, 0}, {0, 4}}, EuclideanMetric{})
	if err != nil {
		t.Fatalf("PairwiseDistances() error: %v", err)
	}
	edges := PrimMST(dm)
	want := [][3]float64{
		{0, 1, 3},
		{1, 2, 4},
	}
	if len(edges) != len(want) {
		t.Fatalf("expected %d edges, got %d", len(want), len(edges))
	}
	for i := range want {
		for c := 0; c < 3; c++ {
			if !almostEqual(edges[i][c], want[i][c], floatTol) {
				t.Errorf("edge[%d][%d] = %v, want %v", i, c, edges[i][c], want[i][c])
			}
		}
	}
}

func TestPrimMST_SinglePointAndEmpty(t *testing.T) {
	one, err := NewDistMatrix(1, []float64{0})
	if err != nil {
		t.Fatalf("NewDistMatrix() error: %v", err)
	}
	if edges := PrimMST(one); edges != nil {
		t.Fatalf("expected no edges for n=1, got %v", edges)
	}
	if edges := PrimMST(DistMatrix{}); edges != nil {
		t.Fatalf("expected no edges for n=0, got %v", edges)
	}
}

func TestPrimMST_TwoPoints(t *testing.T) {
	dm := distMatrixFrom(t, [][]float64{
		{0, 5},
		{5, 0},
	})

	edges := PrimMST(dm)

	if len(edges) != 1 {
		t.Fatalf("expected 1 edge for n=2, got %d", len(edges))
	}
	if math.Abs(edges[0][2]-5.0) > 1e-10 {
		t.Errorf("expected edge weight 5.0, got %f", edges[0][2])
	}
}

func TestPrimMST_SixPoint(t *testing.T) {
	// 6-point complete graph (symmetric).
	// Hand-computed from a simple structure:
	//   0-1:1, 0-2:4, 0-3:7, 0-4:10, 0-5:13
	//   1-2:2, 1-3:6, 1-4:9,  1-5:12
	//   2-3:3, 2-4:8, 2-5:11
	//   3-4:5, 3-5:10
	//   4-5:6
	// MST (greedy): {0,1}=1, {1,2}=2, {2,3}=3, {3,4}=5, {4,5}=6  total=17
	dm := distMatrixFrom(t, [][]float64{
		{0, 1, 4, 7, 10, 13},
		{1, 0, 2, 6, 9, 12},
		{4, 2, 0, 3, 8, 11},
		{7, 6, 3, 0, 5, 10},
		{10, 9, 8, 5, 0, 6},
		{13, 12, 11, 10, 6, 0},
	})

	edges := PrimMST(dm)

	if len(edges) != 5 {
		t.Fatalf("expected 5 edges, got %d", len(edges))
	}

	total := totalMSTWeight(edges)
	if math.Abs(total-17.0) > 1e-10 {
		t.Errorf("expected total MST weight 17.0, got %f", total)
	}
}

func TestMSTLinkage_FourPointKnownTree(t *testing.T) {
	// Replaying the four-point MST above: the two weight-1 edges merge
	// {0,1} and {2,3} into clusters 4 and 5, then the weight-2 edge joins
	// the two cluster roots.
	edges := [][3]float64{
		{0, 1, 1},
		{1, 2, 2},
		{2, 3, 1},
	}
	merges := mstLinkage(edges, 4)
	want := [][4]float64{
		{0, 1, 1, 2},
		{2, 3, 1, 2},
		{4, 5, 2, 4},
	}
	if len(merges) != len(want) {
		t.Fatalf("expected %d merge rows, got %d", len(want), len(merges))
	}
	for i := range want {
		for c := 0; c < 4; c++ {
			if !almostEqual(merges[i][c], want[i][c], floatTol) {
				t.Errorf("merge[%d][%d] = %v, want %v", i, c, merges[i][c], want[i][c])
			}
		}
	}
}

func TestMSTLinkage_SortsEdgesByWeight(t *testing.T) {
	// Chain order 0->1->2 but the second edge is the cheaper one, so the
	// merge sequence must start with {1,2}.
	edges := [][3]float64{
		{0, 1, 5},
		{1, 2, 1},
	}
	merges := mstLinkage(edges, 3)
	if len(merges) != 2 {
		t.Fatalf("expected 2 merge rows, got %d", len(merges))
	}
	if merges[0][0] != 1 || merges[0][1] != 2 || merges[0][2] != 1 {
		t.Errorf("first merge = %v, want [1 2 1 2]", merges[0])
	}
	if merges[1][0] != 0 || merges[1][1] != 3 || merges[1][2] != 5 {
		t.Errorf("second merge = %v, want [0 3 5 3]", merges[1])
	}
}

func TestMSTLinkage_NoEdges(t *testing.T) {
	if merges := mstLinkage(nil, 0); merges != nil {
		t.Errorf("expected nil merges for no edges, got %v", merges)
	}
}
