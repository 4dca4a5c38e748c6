package genecluster

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Log2Transform replaces every value v with log2(v + pseudocount), the usual
// variance-stabilizing step for raw expression intensities. It returns an
// error if any shifted value is not positive.
func (ds *Dataset) Log2Transform(pseudocount float64) error {
	for _, v := range ds.Values {
		if v+pseudocount <= 0 {
			return fmt.Errorf("genecluster: log2 transform: value %v + pseudocount %v is not positive", v, pseudocount)
		}
	}
	for i, v := range ds.Values {
		ds.Values[i] = math.Log2(v + pseudocount)
	}
	return nil
}

// ZScoreGenes standardizes each gene row to mean 0 and unit sample standard
// deviation. Rows with zero variance become all zeros.
func (ds *Dataset) ZScoreGenes() {
	for g := 0; g < ds.NumGenes(); g++ {
		row := ds.Row(g)
		mean := stat.Mean(row, nil)
		sd := stat.StdDev(row, nil)
		if sd == 0 {
			for i := range row {
				row[i] = 0
			}
			continue
		}
		for i, v := range row {
			row[i] = (v - mean) / sd
		}
	}
}

// MedianCenterGenes subtracts each gene row's median from the row.
func (ds *Dataset) MedianCenterGenes() {
	for g := 0; g < ds.NumGenes(); g++ {
		row := ds.Row(g)
		m := median(row)
		for i := range row {
			row[i] -= m
		}
	}
}

// MedianCenterSamples subtracts each sample column's median from the column,
// a crude correction for per-array intensity shifts.
func (ds *Dataset) MedianCenterSamples() {
	for s := 0; s < ds.NumSamples(); s++ {
		col := ds.Col(s)
		m := median(col)
		for g := 0; g < ds.NumGenes(); g++ {
			ds.Values[g*ds.NumSamples()+s] -= m
		}
	}
}

// median returns the middle value of x (mean of the middle two for even
// lengths). x is not modified.
func median(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	tmp := append([]float64(nil), x...)
	sort.Float64s(tmp)
	mid := len(tmp) / 2
	if len(tmp)%2 == 1 {
		return tmp[mid]
	}
	return (tmp[mid-1] + tmp[mid]) / 2
}

// GeneVariances returns the sample variance of every gene row.
func (ds *Dataset) GeneVariances() []float64 {
	out := make([]float64, ds.NumGenes())
	for g := range out {
		out[g] = stat.Variance(ds.Row(g), nil)
	}
	return out
}

// TopVarGenes returns a new dataset containing the n most variable genes,
// ordered by descending variance (ties keep the original row order). This is
// the standard filter applied before sample clustering so that uninformative
// flat genes do not dilute the distances.
func (ds *Dataset) TopVarGenes(n int) (*Dataset, error) {
	if n <= 0 {
		return nil, fmt.Errorf("genecluster: TopVarGenes n must be >= 1, got %d", n)
	}
	if n > ds.NumGenes() {
		n = ds.NumGenes()
	}
	variances := ds.GeneVariances()
	order := make([]int, ds.NumGenes())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return variances[order[a]] > variances[order[b]]
	})
	return ds.Subset(order[:n], nil)
}
