package genecluster

import (
	"math"
	"testing"
)

func TestSilhouetteScores_HandComputed(t *testing.T) {
	// Points 0, 1, 5 with {0,1} together and 5 alone:
	// s(0) = (5-1)/5, s(1) = (4-1)/4, s(2) = 0 (singleton).
	dm, err := PairwiseDistances([][]float64{{0}, {1}, {5}}, EuclideanMetric{})
	if err != nil {
		t.Fatalf("PairwiseDistances() error: %v", err)
	}
	scores, err := SilhouetteScores(dm, []int{0, 0, 1})
	if err != nil {
		t.Fatalf("SilhouetteScores() error: %v", err)
	}
	want := []float64{0.8, 0.75, 0}
	for i := range want {
		if !almostEqual(scores[i], want[i], floatTol) {
			t.Errorf("scores[%d] = %v, want %v", i, scores[i], want[i])
		}
	}

	mean, err := MeanSilhouette(dm, []int{0, 0, 1})
	if err != nil {
		t.Fatalf("MeanSilhouette() error: %v", err)
	}
	if !almostEqual(mean, 31.0/60.0, floatTol) {
		t.Errorf("MeanSilhouette() = %v, want %v", mean, 31.0/60.0)
	}
}

func TestSilhouetteScores_WellSeparatedNearOne(t *testing.T) {
	dm, err := PairwiseDistances([][]float64{
		{0, 0}, {0.5, 0}, {100, 100}, {100.5, 100},
	}, EuclideanMetric{})
	if err != nil {
		t.Fatalf("PairwiseDistances() error: %v", err)
	}
	scores, err := SilhouetteScores(dm, []int{0, 0, 1, 1})
	if err != nil {
		t.Fatalf("SilhouetteScores() error: %v", err)
	}
	for i, s := range scores {
		if s < 0.99 {
			t.Errorf("scores[%d] = %v, want > 0.99 for well separated clusters", i, s)
		}
	}
}

func TestSilhouetteScores_MisassignedPointIsNegative(t *testing.T) {
	// Point 2 sits at 10 but is labeled with the cluster at the origin.
	dm, err := PairwiseDistances([][]float64{{0}, {1}, {10}, {10.5}, {11}}, EuclideanMetric{})
	if err != nil {
		t.Fatalf("PairwiseDistances() error: %v", err)
	}
	scores, err := SilhouetteScores(dm, []int{0, 0, 0, 1, 1})
	if err != nil {
		t.Fatalf("SilhouetteScores() error: %v", err)
	}
	if scores[2] >= 0 {
		t.Errorf("scores[2] = %v, want negative for a misassigned point", scores[2])
	}
}

func TestSilhouetteScores_AllIdenticalPoints(t *testing.T) {
	// a and b are both zero, so the score defaults to 0 rather than NaN.
	dm, err := PairwiseDistances([][]float64{{2}, {2}, {2}, {2}}, EuclideanMetric{})
	if err != nil {
		t.Fatalf("PairwiseDistances() error: %v", err)
	}
	scores, err := SilhouetteScores(dm, []int{0, 0, 1, 1})
	if err != nil {
		t.Fatalf("SilhouetteScores() error: %v", err)
	}
	for i, s := range scores {
		if s != 0 {
			t.Errorf("scores[%d] = %v, want 0", i, s)
		}
	}
}

func TestSilhouetteScores_NonConsecutiveLabels(t *testing.T) {
	dm, err := PairwiseDistances([][]float64{{0}, {1}, {5}}, EuclideanMetric{})
	if err != nil {
		t.Fatalf("PairwiseDistances() error: %v", err)
	}
	scores, err := SilhouetteScores(dm, []int{0, 0, 5})
	if err != nil {
		t.Fatalf("SilhouetteScores() error: %v", err)
	}
	if !almostEqual(scores[0], 0.8, floatTol) || !almostEqual(scores[1], 0.75, floatTol) {
		t.Errorf("scores = %v, want [0.8 0.75 0]", scores)
	}
}

func TestSilhouetteScores_Errors(t *testing.T) {
	dm, err := PairwiseDistances([][]float64{{0}, {1}, {5}}, EuclideanMetric{})
	if err != nil {
		t.Fatalf("PairwiseDistances() error: %v", err)
	}
	if _, err := SilhouetteScores(dm, []int{0, 0}); err == nil {
		t.Error("expected error for wrong label count, got nil")
	}
	if _, err := SilhouetteScores(dm, []int{0, -1, 1}); err == nil {
		t.Error("expected error for a negative label, got nil")
	}
	if _, err := SilhouetteScores(dm, []int{0, 0, 0}); err == nil {
		t.Error("expected error for a single cluster, got nil")
	}
}

func TestSilhouetteByCluster(t *testing.T) {
	dm, err := PairwiseDistances([][]float64{{0}, {1}, {5}}, EuclideanMetric{})
	if err != nil {
		t.Fatalf("PairwiseDistances() error: %v", err)
	}
	byCluster, err := SilhouetteByCluster(dm, []int{0, 0, 1})
	if err != nil {
		t.Fatalf("SilhouetteByCluster() error: %v", err)
	}
	if len(byCluster) != 2 {
		t.Fatalf("got %d clusters, want 2", len(byCluster))
	}
	if !almostEqual(byCluster[0], 0.775, floatTol) {
		t.Errorf("byCluster[0] = %v, want 0.775", byCluster[0])
	}
	if byCluster[1] != 0 {
		t.Errorf("byCluster[1] = %v, want 0", byCluster[1])
	}
}

func TestSilhouetteByCluster_EmptyLabelsAreNaN(t *testing.T) {
	dm, err := PairwiseDistances([][]float64{{0}, {1}, {5}}, EuclideanMetric{})
	if err != nil {
		t.Fatalf("PairwiseDistances() error: %v", err)
	}
	byCluster, err := SilhouetteByCluster(dm, []int{0, 0, 3})
	if err != nil {
		t.Fatalf("SilhouetteByCluster() error: %v", err)
	}
	if len(byCluster) != 4 {
		t.Fatalf("got %d entries, want 4", len(byCluster))
	}
	for _, c := range []int{1, 2} {
		if !math.IsNaN(byCluster[c]) {
			t.Errorf("byCluster[%d] = %v, want NaN for an unused label", c, byCluster[c])
		}
	}
}

func TestRandIndex(t *testing.T) {
	cases := []struct {
		name string
		a, b []int
		want float64
	}{
		{"Identical", []int{0, 0, 1, 1}, []int{0, 0, 1, 1}, 1},
		{"PermutedLabels", []int{0, 0, 1, 1}, []int{1, 1, 0, 0}, 1},
		{"MaximallyCrossed", []int{0, 0, 1, 1}, []int{0, 1, 0, 1}, 1.0 / 3.0},
		{"OneMoved", []int{0, 0, 1, 1}, []int{0, 0, 0, 1}, 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := RandIndex(tc.a, tc.b)
			if err != nil {
				t.Fatalf("RandIndex() error: %v", err)
			}
			if !almostEqual(got, tc.want, floatTol) {
				t.Errorf("RandIndex() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRandIndex_Errors(t *testing.T) {
	if _, err := RandIndex([]int{0, 1}, []int{0}); err == nil {
		t.Error("expected error for mismatched lengths, got nil")
	}
	if _, err := RandIndex([]int{0}, []int{0}); err == nil {
		t.Error("expected error for fewer than 2 points, got nil")
	}
}

func TestAdjustedRandIndex(t *testing.T) {
	cases := []struct {
		name string
		a, b []int
		want float64
	}{
		{"Identical", []int{0, 0, 1, 1}, []int{0, 0, 1, 1}, 1},
		{"PermutedLabels", []int{0, 0, 1, 2}, []int{2, 2, 0, 1}, 1},
		{"MaximallyCrossed", []int{0, 0, 1, 1}, []int{0, 1, 0, 1}, -0.5},
		{"SingletonsVsOneCluster", []int{0, 1, 2}, []int{0, 0, 0}, 0},
		{"BothAllSingletons", []int{0, 1, 2}, []int{2, 0, 1}, 1},
		{"BothOneCluster", []int{0, 0, 0}, []int{1, 1, 1}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AdjustedRandIndex(tc.a, tc.b)
			if err != nil {
				t.Fatalf("AdjustedRandIndex() error: %v", err)
			}
			if !almostEqual(got, tc.want, floatTol) {
				t.Errorf("AdjustedRandIndex() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAdjustedRandIndex_BelowRandForRandomLike(t *testing.T) {
	// The plain Rand index of the maximally crossed pair is 1/3, but chance
	// correction drives the adjusted index negative.
	a := []int{0, 0, 1, 1}
	b := []int{0, 1, 0, 1}
	ri, err := RandIndex(a, b)
	if err != nil {
		t.Fatalf("RandIndex() error: %v", err)
	}
	ari, err := AdjustedRandIndex(a, b)
	if err != nil {
		t.Fatalf("AdjustedRandIndex() error: %v", err)
	}
	if ari >= ri {
		t.Errorf("ARI %v should fall below RI %v here", ari, ri)
	}
}

func TestAdjustedRandIndex_Errors(t *testing.T) {
	if _, err := AdjustedRandIndex([]int{0, 1}, []int{0}); err == nil {
		t.Error("expected error for mismatched lengths, got nil")
	}
	if _, err := AdjustedRandIndex([]int{0}, []int{0}); err == nil {
		t.Error("expected error for fewer than 2 points, got nil")
	}
	if _, err := AdjustedRandIndex([]int{0, -1}, []int{0, 1}); err == nil {
		t.Error("expected error for a negative label, got nil")
	}
}

func TestCrossTab(t *testing.T) {
	table, err := CrossTab([]int{0, 0, 2, 2, 5}, []int{1, 1, 1, 3, 3})
	if err != nil {
		t.Fatalf("CrossTab() error: %v", err)
	}
	if !equalInts(table.RowLabels, []int{0, 2, 5}) {
		t.Errorf("RowLabels = %v, want [0 2 5]", table.RowLabels)
	}
	if !equalInts(table.ColLabels, []int{1, 3}) {
		t.Errorf("ColLabels = %v, want [1 3]", table.ColLabels)
	}
	want := [][]int{{2, 0}, {1, 1}, {0, 1}}
	for i := range want {
		if !equalInts(table.Counts[i], want[i]) {
			t.Errorf("Counts[%d] = %v, want %v", i, table.Counts[i], want[i])
		}
	}
}

func TestCrossTab_Errors(t *testing.T) {
	if _, err := CrossTab([]int{0, 1}, []int{0}); err == nil {
		t.Error("expected error for mismatched lengths, got nil")
	}
	if _, err := CrossTab([]int{0, -1}, []int{0, 0}); err == nil {
		t.Error("expected error for a negative label, got nil")
	}
}
