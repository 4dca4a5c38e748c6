package genecluster

import (
	"fmt"
	"math"
)

// DistMatrix is a symmetric n-by-n pairwise distance matrix stored as a flat
// row-major slice. The zero value is an empty matrix.
type DistMatrix struct {
	n    int
	data []float64
}

// NewDistMatrix wraps a flat row-major slice of length n*n as a DistMatrix.
// It checks the length only; call Validate to verify symmetry and the zero
// diagonal of precomputed input.
func NewDistMatrix(n int, data []float64) (DistMatrix, error) {
	if n < 0 {
		return DistMatrix{}, fmt.Errorf("genecluster: n must be >= 0, got %d", n)
	}
	if len(data) != n*n {
		return DistMatrix{}, fmt.Errorf("genecluster: distance data length %d does not match n*n = %d (n=%d)", len(data), n*n, n)
	}
	return DistMatrix{n: n, data: data}, nil
}

// N returns the number of points.
func (m DistMatrix) N() int { return m.n }

// At returns the distance between points i and j.
func (m DistMatrix) At(i, j int) float64 { return m.data[i*m.n+j] }

// Row returns point i's distances to every point. The returned slice aliases
// the matrix.
func (m DistMatrix) Row(i int) []float64 { return m.data[i*m.n : (i+1)*m.n] }

// Data returns the flat row-major backing slice. Mutating it mutates the
// matrix.
func (m DistMatrix) Data() []float64 { return m.data }

// Clone returns a deep copy of the matrix.
func (m DistMatrix) Clone() DistMatrix {
	return DistMatrix{n: m.n, data: append([]float64(nil), m.data...)}
}

// Validate checks that every entry is finite and non-negative, the diagonal
// is zero, and the matrix is symmetric.
func (m DistMatrix) Validate() error {
	for i := 0; i < m.n; i++ {
		if d := m.At(i, i); d != 0 {
			return fmt.Errorf("genecluster: distance matrix diagonal entry (%d,%d) is %v, want 0", i, i, d)
		}
		for j := i + 1; j < m.n; j++ {
			d := m.At(i, j)
			if math.IsNaN(d) || math.IsInf(d, 0) {
				return fmt.Errorf("genecluster: distance matrix entry (%d,%d) is not finite: %v", i, j, d)
			}
			if d < 0 {
				return fmt.Errorf("genecluster: distance matrix entry (%d,%d) is negative: %v", i, j, d)
			}
			if d != m.At(j, i) {
				return fmt.Errorf("genecluster: distance matrix is asymmetric at (%d,%d): %v != %v", i, j, d, m.At(j, i))
			}
		}
	}
	return nil
}
