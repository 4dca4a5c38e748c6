package genecluster

import (
	"fmt"
	"math"
)

// checkLabels verifies a flat labeling over n points: right length, no
// negatives, and at least minClusters distinct non-empty clusters. It returns
// the per-cluster counts indexed by label (length max+1).
func checkLabels(labels []int, n, minClusters int) ([]int, error) {
	if len(labels) != n {
		return nil, fmt.Errorf("genecluster: got %d labels for %d points", len(labels), n)
	}
	maxLabel := -1
	for i, l := range labels {
		if l < 0 {
			return nil, fmt.Errorf("genecluster: label %d of point %d is negative", l, i)
		}
		if l > maxLabel {
			maxLabel = l
		}
	}
	counts := make([]int, maxLabel+1)
	for _, l := range labels {
		counts[l]++
	}
	distinct := 0
	for _, c := range counts {
		if c > 0 {
			distinct++
		}
	}
	if distinct < minClusters {
		return nil, fmt.Errorf("genecluster: need at least %d clusters, got %d", minClusters, distinct)
	}
	return counts, nil
}

// SilhouetteScores computes the per-point silhouette s(i) = (b-a)/max(a,b),
// where a is the mean distance to the point's own cluster and b the mean
// distance to the nearest other cluster. Scores live in [-1, 1]: near 1 the
// point sits deep inside its cluster, near 0 on a boundary, and negative
// scores mark probable misassignments. Points in singleton clusters score 0.
// The labeling must contain at least 2 clusters.
func SilhouetteScores(dm DistMatrix, labels []int) ([]float64, error) {
	counts, err := checkLabels(labels, dm.N(), 2)
	if err != nil {
		return nil, err
	}
	out := make([]float64, dm.N())
	silhouetteRange(dm, labels, counts, out, 0, dm.N())
	return out, nil
}

// silhouetteRange fills out[p] for p in [start, end). Split across workers by
// SilhouetteScoresParallel; each point is independent.
func silhouetteRange(dm DistMatrix, labels []int, counts []int, out []float64, start, end int) {
	n := dm.N()
	k := len(counts)
	sums := make([]float64, k)
	for p := start; p < end; p++ {
		for c := range sums {
			sums[c] = 0
		}
		row := dm.Row(p)
		for q := 0; q < n; q++ {
			if q == p {
				continue
			}
			sums[labels[q]] += row[q]
		}

		own := labels[p]
		if counts[own] <= 1 {
			out[p] = 0
			continue
		}
		a := sums[own] / float64(counts[own]-1)
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == own || counts[c] == 0 {
				continue
			}
			if v := sums[c] / float64(counts[c]); v < b {
				b = v
			}
		}
		if denom := math.Max(a, b); denom > 0 {
			out[p] = (b - a) / denom
		} else {
			out[p] = 0
		}
	}
}

// MeanSilhouette is the mean of SilhouetteScores, the usual single-number
// summary used to pick k.
func MeanSilhouette(dm DistMatrix, labels []int) (float64, error) {
	scores, err := SilhouetteScores(dm, labels)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores)), nil
}

// SilhouetteByCluster returns the mean silhouette of each cluster, indexed by
// label. Empty labels yield NaN entries.
func SilhouetteByCluster(dm DistMatrix, labels []int) ([]float64, error) {
	scores, err := SilhouetteScores(dm, labels)
	if err != nil {
		return nil, err
	}
	maxLabel := 0
	for _, l := range labels {
		if l > maxLabel {
			maxLabel = l
		}
	}
	sums := make([]float64, maxLabel+1)
	counts := make([]int, maxLabel+1)
	for i, l := range labels {
		sums[l] += scores[i]
		counts[l]++
	}
	out := make([]float64, maxLabel+1)
	for c := range out {
		if counts[c] == 0 {
			out[c] = math.NaN()
			continue
		}
		out[c] = sums[c] / float64(counts[c])
	}
	return out, nil
}

// ContingencyTable cross-tabulates two labelings of the same points:
// Counts[i][j] is the number of points with RowLabels[i] in the first
// labeling and ColLabels[j] in the second.
type ContingencyTable struct {
	RowLabels []int
	ColLabels []int
	Counts    [][]int
}

// CrossTab builds the contingency table of two labelings. Row and column
// labels are listed in ascending order of the label values that occur.
func CrossTab(a, b []int) (*ContingencyTable, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("genecluster: labelings have different lengths %d and %d", len(a), len(b))
	}
	rows, err := denseIndex(a)
	if err != nil {
		return nil, err
	}
	cols, err := denseIndex(b)
	if err != nil {
		return nil, err
	}
	t := &ContingencyTable{
		RowLabels: rows,
		ColLabels: cols,
		Counts:    make([][]int, len(rows)),
	}
	rowIdx := indexOfLabel(rows)
	colIdx := indexOfLabel(cols)
	for i := range t.Counts {
		t.Counts[i] = make([]int, len(cols))
	}
	for p := range a {
		t.Counts[rowIdx[a[p]]][colIdx[b[p]]]++
	}
	return t, nil
}

// denseIndex returns the sorted distinct labels of x, rejecting negatives.
func denseIndex(x []int) ([]int, error) {
	present := map[int]struct{}{}
	maxLabel := -1
	for i, l := range x {
		if l < 0 {
			return nil, fmt.Errorf("genecluster: label %d of point %d is negative", l, i)
		}
		present[l] = struct{}{}
		if l > maxLabel {
			maxLabel = l
		}
	}
	out := make([]int, 0, len(present))
	for l := 0; l <= maxLabel; l++ {
		if _, ok := present[l]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func indexOfLabel(labels []int) map[int]int {
	idx := make(map[int]int, len(labels))
	for i, l := range labels {
		idx[l] = i
	}
	return idx
}

// RandIndex is the fraction of point pairs on which two labelings agree
// (both together or both apart). 1 means identical partitions.
func RandIndex(a, b []int) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("genecluster: labelings have different lengths %d and %d", len(a), len(b))
	}
	n := len(a)
	if n < 2 {
		return 0, fmt.Errorf("genecluster: Rand index needs at least 2 points, got %d", n)
	}
	var agree int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sameA := a[i] == a[j]
			sameB := b[i] == b[j]
			if sameA == sameB {
				agree++
			}
		}
	}
	return float64(agree) / float64(n*(n-1)/2), nil
}

// AdjustedRandIndex is the Rand index corrected for chance: 0 is the expected
// agreement of random labelings, 1 is a perfect match. Computed from the
// contingency table via the Hubert-Arabie formula.
func AdjustedRandIndex(a, b []int) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("genecluster: labelings have different lengths %d and %d", len(a), len(b))
	}
	n := len(a)
	if n < 2 {
		return 0, fmt.Errorf("genecluster: adjusted Rand index needs at least 2 points, got %d", n)
	}
	t, err := CrossTab(a, b)
	if err != nil {
		return 0, err
	}

	choose2 := func(m int) float64 { return float64(m) * float64(m-1) / 2 }
	var sumCells, sumRows, sumCols float64
	for _, row := range t.Counts {
		var rowTotal int
		for _, c := range row {
			sumCells += choose2(c)
			rowTotal += c
		}
		sumRows += choose2(rowTotal)
	}
	colTotals := make([]int, len(t.ColLabels))
	for _, row := range t.Counts {
		for j, c := range row {
			colTotals[j] += c
		}
	}
	for _, c := range colTotals {
		sumCols += choose2(c)
	}

	expected := sumRows * sumCols / choose2(n)
	maxIndex := (sumRows + sumCols) / 2
	if maxIndex == expected {
		// Degenerate partitions (e.g. both all-singletons or both one
		// cluster); identical partitions count as perfect agreement.
		return 1, nil
	}
	return (sumCells - expected) / (maxIndex - expected), nil
}
