package genecluster

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// MDSConfig configures classical multidimensional scaling.
type MDSConfig struct {
	// Dimensions is the number of output coordinates per point, capped at
	// the number of points. Default: 2.
	Dimensions int
}

// DefaultMDSConfig returns the usual 2-D embedding configuration.
func DefaultMDSConfig() MDSConfig {
	return MDSConfig{Dimensions: 2}
}

// MDSResult is a classical MDS embedding.
type MDSResult struct {
	// Coordinates[i] is point i's embedding. Columns beyond EffectiveDims
	// are zero. Axis signs are arbitrary, as with any eigendecomposition.
	Coordinates [][]float64
	// Eigenvalues of the doubly centered Gram matrix, descending. Negative
	// values measure how far the distances are from being Euclidean.
	Eigenvalues []float64
	// ExplainedProportion[t] is Eigenvalues[t] divided by the sum of the
	// positive eigenvalues, or 0 for non-positive eigenvalues.
	ExplainedProportion []float64
	// EffectiveDims is how many requested axes carry signal: the number of
	// positive eigenvalues, capped at the requested dimensions.
	EffectiveDims int
}

// MDS computes classical (Torgerson) multidimensional scaling: it converts
// the distance matrix to a Gram matrix by double centering, eigendecomposes
// it, and places each point at eigenvector times sqrt(eigenvalue) along every
// positive-eigenvalue axis. For Euclidean distances this reproduces the
// original configuration up to rotation; the first axes capture the dominant
// directions of variation.
func MDS(dm DistMatrix, cfg MDSConfig) (*MDSResult, error) {
	if cfg.Dimensions == 0 {
		cfg.Dimensions = 2
	}
	if cfg.Dimensions < 0 {
		return nil, fmt.Errorf("genecluster: Dimensions must be >= 1, got %d", cfg.Dimensions)
	}
	if err := dm.Validate(); err != nil {
		return nil, err
	}
	n := dm.N()
	if n == 0 {
		return &MDSResult{Coordinates: [][]float64{}}, nil
	}
	dims := cfg.Dimensions
	if dims > n {
		dims = n
	}

	gram := doubleCenter(dm)
	var eig mat.EigenSym
	if ok := eig.Factorize(mat.NewSymDense(n, gram), true); !ok {
		return nil, fmt.Errorf("genecluster: eigendecomposition did not converge")
	}
	asc := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	res := &MDSResult{
		Coordinates:         make([][]float64, n),
		Eigenvalues:         make([]float64, n),
		ExplainedProportion: make([]float64, n),
	}
	// gonum returns eigenvalues ascending; we expose them descending so
	// axis t is the t-th strongest.
	var positiveSum float64
	positives := 0
	for t := 0; t < n; t++ {
		v := asc[n-1-t]
		res.Eigenvalues[t] = v
		if v > 0 {
			positiveSum += v
			positives++
		}
	}
	for t, v := range res.Eigenvalues {
		if v > 0 {
			res.ExplainedProportion[t] = v / positiveSum
		}
	}
	res.EffectiveDims = positives
	if res.EffectiveDims > dims {
		res.EffectiveDims = dims
	}

	for i := 0; i < n; i++ {
		res.Coordinates[i] = make([]float64, dims)
		for t := 0; t < res.EffectiveDims; t++ {
			col := n - 1 - t
			res.Coordinates[i][t] = vecs.At(i, col) * math.Sqrt(asc[col])
		}
	}
	return res, nil
}

// doubleCenter converts squared distances into the Gram matrix
// B = -1/2 J D² J, where J is the centering matrix. B's eigenvectors are the
// MDS axes.
func doubleCenter(dm DistMatrix) []float64 {
	n := dm.N()
	sq := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d := dm.At(i, j)
			sq[i*n+j] = d * d
		}
	}
	rowMean := make([]float64, n)
	for i := 0; i < n; i++ {
		var s float64
		for j := 0; j < n; j++ {
			s += sq[i*n+j]
		}
		rowMean[i] = s / float64(n)
	}
	var grand float64
	for i := 0; i < n; i++ {
		grand += rowMean[i]
	}
	grand /= float64(n)

	b := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			b[i*n+j] = -0.5 * (sq[i*n+j] - rowMean[i] - rowMean[j] + grand)
		}
	}
	return b
}
