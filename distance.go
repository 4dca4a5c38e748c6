package genecluster

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// DistanceMetric provides distance computation with optional reduced distance
// for algorithms that can defer the final root (e.g. squared Euclidean skips
// sqrt when only the ordering matters).
type DistanceMetric interface {
	Distance(a, b []float64) float64
	ReducedDistance(a, b []float64) float64
}

// DistanceFunc adapts a plain function into a DistanceMetric.
// ReducedDistance delegates to the same function.
type DistanceFunc func(a, b []float64) float64

func (f DistanceFunc) Distance(a, b []float64) float64        { return f(a, b) }
func (f DistanceFunc) ReducedDistance(a, b []float64) float64 { return f(a, b) }

// EuclideanMetric computes the Euclidean (L2) distance.
// ReducedDistance returns squared Euclidean distance (skips sqrt).
type EuclideanMetric struct{}

func (EuclideanMetric) Distance(a, b []float64) float64 {
	return math.Sqrt(euclideanSumOfSquares(a, b))
}

func (EuclideanMetric) ReducedDistance(a, b []float64) float64 {
	return euclideanSumOfSquares(a, b)
}

func euclideanSumOfSquares(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// ManhattanMetric computes the Manhattan (L1 / city-block) distance.
type ManhattanMetric struct{}

func (ManhattanMetric) Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}

func (m ManhattanMetric) ReducedDistance(a, b []float64) float64 { return m.Distance(a, b) }

// CosineMetric computes the cosine distance: 1 - cosine_similarity.
// For two zero vectors, the result is NaN (0/0).
type CosineMetric struct{}

func (CosineMetric) Distance(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	return 1.0 - dot/math.Sqrt(normA*normB)
}

func (m CosineMetric) ReducedDistance(a, b []float64) float64 { return m.Distance(a, b) }

// ChebyshevMetric computes the Chebyshev (L-infinity) distance.
type ChebyshevMetric struct{}

func (ChebyshevMetric) Distance(a, b []float64) float64 {
	var maxVal float64
	for i := range a {
		if v := math.Abs(a[i] - b[i]); v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

func (m ChebyshevMetric) ReducedDistance(a, b []float64) float64 { return m.Distance(a, b) }

// MinkowskiMetric computes the Minkowski distance parameterized by P.
// P must be >= 1. Panics if P < 1.
// ReducedDistance returns sum(|a[i]-b[i]|^P) without the final root.
type MinkowskiMetric struct {
	P float64
}

func (m MinkowskiMetric) Distance(a, b []float64) float64 {
	return math.Pow(m.rawSum(a, b), 1.0/m.P)
}

func (m MinkowskiMetric) ReducedDistance(a, b []float64) float64 {
	return m.rawSum(a, b)
}

func (m MinkowskiMetric) rawSum(a, b []float64) float64 {
	if m.P < 1 {
		panic("MinkowskiMetric: P must be >= 1")
	}
	var sum float64
	for i := range a {
		sum += math.Pow(math.Abs(a[i]-b[i]), m.P)
	}
	return sum
}

// PearsonMetric computes the Pearson correlation distance 1 - r. Vectors with
// identical shape have distance near 0 regardless of scale and offset, which
// is why this is the canonical metric for clustering expression profiles.
// If either vector has zero variance, r is defined as 0 and the distance is 1.
type PearsonMetric struct{}

func (PearsonMetric) Distance(a, b []float64) float64 {
	return 1 - pearsonR(a, b)
}

func (m PearsonMetric) ReducedDistance(a, b []float64) float64 { return m.Distance(a, b) }

// AbsPearsonMetric computes 1 - |r|, treating strongly anti-correlated
// profiles as close. Useful when regulation direction is irrelevant.
type AbsPearsonMetric struct{}

func (AbsPearsonMetric) Distance(a, b []float64) float64 {
	return 1 - math.Abs(pearsonR(a, b))
}

func (m AbsPearsonMetric) ReducedDistance(a, b []float64) float64 { return m.Distance(a, b) }

// SpearmanMetric computes 1 - rho, the Pearson distance on average ranks.
// Robust to outliers and to any monotone transform of the data.
type SpearmanMetric struct{}

func (SpearmanMetric) Distance(a, b []float64) float64 {
	return 1 - pearsonR(averageRanks(a), averageRanks(b))
}

func (m SpearmanMetric) ReducedDistance(a, b []float64) float64 { return m.Distance(a, b) }

// pearsonR computes the Pearson correlation coefficient, clamped to [-1, 1]
// so that rounding never produces a negative correlation distance. Zero
// variance on either side yields r = 0.
func pearsonR(a, b []float64) float64 {
	n := len(a)
	if n == 0 {
		return 0
	}
	var sumA, sumB float64
	for i := 0; i < n; i++ {
		sumA += a[i]
		sumB += b[i]
	}
	meanA := sumA / float64(n)
	meanB := sumB / float64(n)

	var num, varA, varB float64
	for i := 0; i < n; i++ {
		da := a[i] - meanA
		db := b[i] - meanB
		num += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	r := num / math.Sqrt(varA*varB)
	if r > 1 {
		return 1
	}
	if r < -1 {
		return -1
	}
	return r
}

// averageRanks returns 1-based ranks of x, with ties assigned the average of
// the ranks they span.
func averageRanks(x []float64) []float64 {
	n := len(x)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && x[idx[j+1]] == x[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

// MetricByName returns the parameter-free metric with the given name:
// "euclidean", "manhattan", "chebyshev", "cosine", "pearson", "abspearson"
// or "spearman". Minkowski needs its exponent and is constructed directly.
func MetricByName(name string) (DistanceMetric, error) {
	switch strings.ToLower(name) {
	case "euclidean":
		return EuclideanMetric{}, nil
	case "manhattan":
		return ManhattanMetric{}, nil
	case "chebyshev":
		return ChebyshevMetric{}, nil
	case "cosine":
		return CosineMetric{}, nil
	case "pearson":
		return PearsonMetric{}, nil
	case "abspearson":
		return AbsPearsonMetric{}, nil
	case "spearman":
		return SpearmanMetric{}, nil
	default:
		return nil, fmt.Errorf("genecluster: unknown metric %q", name)
	}
}

// PairwiseDistances computes the full symmetric distance matrix over the
// given vectors. All vectors must share the same dimensionality. A nil
// metric defaults to Euclidean.
func PairwiseDistances(vectors [][]float64, metric DistanceMetric) (DistMatrix, error) {
	if metric == nil {
		metric = EuclideanMetric{}
	}
	n := len(vectors)
	if n == 0 {
		return DistMatrix{}, nil
	}
	dims := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dims {
			return DistMatrix{}, fmt.Errorf("genecluster: vector %d has %d dims, want %d", i, len(v), dims)
		}
	}

	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := metric.Distance(vectors[i], vectors[j])
			data[i*n+j] = d
			data[j*n+i] = d
		}
	}
	return DistMatrix{n: n, data: data}, nil
}
