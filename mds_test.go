package genecluster

import (
	"math"
	"testing"
)

func TestMDS_ReconstructsPlanarDistances(t *testing.T) {
	// A 3x4 rectangle is intrinsically 2-D, so a full-dimensional embedding
	// must reproduce every pairwise distance.
	vectors := [][]float64{{0, 0}, {3, 0}, {0, 4}, {3, 4}}
	dm, err := PairwiseDistances(vectors, EuclideanMetric{})
	if err != nil {
		t.Fatalf("PairwiseDistances() error: %v", err)
	}
	res, err := MDS(dm, MDSConfig{Dimensions: 4})
	if err != nil {
		t.Fatalf("MDS() error: %v", err)
	}
	redm, err := PairwiseDistances(res.Coordinates, EuclideanMetric{})
	if err != nil {
		t.Fatalf("PairwiseDistances() error: %v", err)
	}
	for i := 0; i < dm.N(); i++ {
		for j := 0; j < dm.N(); j++ {
			if !almostEqual(redm.At(i, j), dm.At(i, j), 1e-6) {
				t.Errorf("embedded distance (%d,%d) = %v, want %v", i, j, redm.At(i, j), dm.At(i, j))
			}
		}
	}
}

func TestMDS_CollinearPoints(t *testing.T) {
	// Points on a line carry all their spread on one axis: the first
	// eigenvalue is the centered sum of squares (21 here) and the first
	// coordinate recovers the original gaps up to sign.
	xs := []float64{0, 1, 3, 6}
	vectors := [][]float64{{0}, {1}, {3}, {6}}
	dm, err := PairwiseDistances(vectors, EuclideanMetric{})
	if err != nil {
		t.Fatalf("PairwiseDistances() error: %v", err)
	}
	res, err := MDS(dm, MDSConfig{})
	if err != nil {
		t.Fatalf("MDS() error: %v", err)
	}
	if !almostEqual(res.Eigenvalues[0], 21, 1e-9) {
		t.Errorf("Eigenvalues[0] = %v, want 21", res.Eigenvalues[0])
	}
	if !almostEqual(res.ExplainedProportion[0], 1, 1e-9) {
		t.Errorf("ExplainedProportion[0] = %v, want 1", res.ExplainedProportion[0])
	}
	for i := range xs {
		for j := i + 1; j < len(xs); j++ {
			gap := math.Abs(res.Coordinates[i][0] - res.Coordinates[j][0])
			if !almostEqual(gap, math.Abs(xs[i]-xs[j]), 1e-9) {
				t.Errorf("axis-1 gap (%d,%d) = %v, want %v", i, j, gap, math.Abs(xs[i]-xs[j]))
			}
		}
	}
}

func TestMDS_SquareHasTwoEqualAxes(t *testing.T) {
	vectors := [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	dm, err := PairwiseDistances(vectors, EuclideanMetric{})
	if err != nil {
		t.Fatalf("PairwiseDistances() error: %v", err)
	}
	res, err := MDS(dm, MDSConfig{Dimensions: 2})
	if err != nil {
		t.Fatalf("MDS() error: %v", err)
	}
	if !almostEqual(res.Eigenvalues[0], 1, 1e-9) || !almostEqual(res.Eigenvalues[1], 1, 1e-9) {
		t.Errorf("Eigenvalues[:2] = %v, want [1 1]", res.Eigenvalues[:2])
	}
	if !almostEqual(res.ExplainedProportion[0], 0.5, 1e-9) {
		t.Errorf("ExplainedProportion[0] = %v, want 0.5", res.ExplainedProportion[0])
	}
	if res.EffectiveDims != 2 {
		t.Errorf("EffectiveDims = %d, want 2", res.EffectiveDims)
	}
}

func TestMDS_EigenvaluesDescending(t *testing.T) {
	vectors := [][]float64{
		{0.2, 1.4, 3.3}, {4.1, 0.3, 2.2}, {1.1, 5.0, 0.4}, {3.3, 3.1, 1.9}, {2.0, 0.1, 4.8},
	}
	dm, err := PairwiseDistances(vectors, EuclideanMetric{})
	if err != nil {
		t.Fatalf("PairwiseDistances() error: %v", err)
	}
	res, err := MDS(dm, MDSConfig{Dimensions: 3})
	if err != nil {
		t.Fatalf("MDS() error: %v", err)
	}
	for i := 1; i < len(res.Eigenvalues); i++ {
		if res.Eigenvalues[i] > res.Eigenvalues[i-1]+1e-12 {
			t.Errorf("Eigenvalues[%d] = %v above Eigenvalues[%d] = %v", i, res.Eigenvalues[i], i-1, res.Eigenvalues[i-1])
		}
	}
	var explained float64
	for _, e := range res.ExplainedProportion {
		if e < 0 {
			t.Errorf("negative explained proportion %v", e)
		}
		explained += e
	}
	if explained > 1+1e-9 {
		t.Errorf("explained proportions sum to %v > 1", explained)
	}
}

func TestMDS_CoordinateShape(t *testing.T) {
	vectors := [][]float64{{0, 0}, {3, 0}, {0, 4}, {3, 4}, {1, 1}}
	dm, err := PairwiseDistances(vectors, EuclideanMetric{})
	if err != nil {
		t.Fatalf("PairwiseDistances() error: %v", err)
	}
	res, err := MDS(dm, MDSConfig{Dimensions: 3})
	if err != nil {
		t.Fatalf("MDS() error: %v", err)
	}
	if len(res.Coordinates) != 5 {
		t.Fatalf("got %d coordinate rows, want 5", len(res.Coordinates))
	}
	for i, row := range res.Coordinates {
		if len(row) != 3 {
			t.Errorf("row %d has %d dims, want 3", i, len(row))
		}
	}
	if res.EffectiveDims > 3 {
		t.Errorf("EffectiveDims = %d, want <= 3", res.EffectiveDims)
	}
}

func TestMDS_DimensionsCappedAtN(t *testing.T) {
	dm, err := PairwiseDistances([][]float64{{0}, {4}}, EuclideanMetric{})
	if err != nil {
		t.Fatalf("PairwiseDistances() error: %v", err)
	}
	res, err := MDS(dm, MDSConfig{Dimensions: 10})
	if err != nil {
		t.Fatalf("MDS() error: %v", err)
	}
	for i, row := range res.Coordinates {
		if len(row) != 2 {
			t.Errorf("row %d has %d dims, want 2 (capped at n)", i, len(row))
		}
	}
	// Two points at distance 4 embed at +-2 on the first axis.
	gap := math.Abs(res.Coordinates[0][0] - res.Coordinates[1][0])
	if !almostEqual(gap, 4, 1e-9) {
		t.Errorf("axis-1 gap = %v, want 4", gap)
	}
}

func TestMDS_DegenerateInputs(t *testing.T) {
	empty, err := MDS(DistMatrix{}, MDSConfig{})
	if err != nil {
		t.Fatalf("MDS(empty) error: %v", err)
	}
	if len(empty.Coordinates) != 0 {
		t.Errorf("empty input produced %d coordinate rows", len(empty.Coordinates))
	}

	one, err := NewDistMatrix(1, []float64{0})
	if err != nil {
		t.Fatalf("NewDistMatrix() error: %v", err)
	}
	res, err := MDS(one, MDSConfig{})
	if err != nil {
		t.Fatalf("MDS(single) error: %v", err)
	}
	if len(res.Coordinates) != 1 {
		t.Fatalf("got %d coordinate rows, want 1", len(res.Coordinates))
	}
	if res.EffectiveDims != 0 {
		t.Errorf("EffectiveDims = %d, want 0 for a single point", res.EffectiveDims)
	}
}

func TestMDS_Errors(t *testing.T) {
	dm, err := PairwiseDistances([][]float64{{0}, {1}}, EuclideanMetric{})
	if err != nil {
		t.Fatalf("PairwiseDistances() error: %v", err)
	}
	if _, err := MDS(dm, MDSConfig{Dimensions: -1}); err == nil {
		t.Error("expected error for negative Dimensions, got nil")
	}
	bad, _ := NewDistMatrix(2, []float64{0, 1, 2, 0})
	if _, err := MDS(bad, MDSConfig{}); err == nil {
		t.Error("expected error for an asymmetric matrix, got nil")
	}
}
