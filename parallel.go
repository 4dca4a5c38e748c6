package genecluster

import (
	"fmt"
	"sync"
)

// PairwiseDistancesParallel computes the full distance matrix using multiple
// goroutines. numWorkers controls the degree of parallelism; if <= 1, it
// falls back to the single-threaded PairwiseDistances.
//
// The result is bitwise identical to PairwiseDistances: each worker handles a
// contiguous range of source rows and computes dist(i,j) for all j > i in
// that range, so no write overlaps and no synchronization is needed.
func PairwiseDistancesParallel(vectors [][]float64, metric DistanceMetric, numWorkers int) (DistMatrix, error) {
	n := len(vectors)
	if numWorkers <= 1 || n <= 1 {
		return PairwiseDistances(vectors, metric)
	}
	if metric == nil {
		metric = EuclideanMetric{}
	}
	dims := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dims {
			return DistMatrix{}, fmt.Errorf("genecluster: vector %d has %d dims, want %d", i, len(v), dims)
		}
	}

	data := make([]float64, n*n)
	var wg sync.WaitGroup
	rowsPerWorker := (n + numWorkers - 1) / numWorkers
	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := startRow + rowsPerWorker
		if endRow > n {
			endRow = n
		}
		if startRow >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				for j := i + 1; j < n; j++ {
					d := metric.Distance(vectors[i], vectors[j])
					data[i*n+j] = d
					data[j*n+i] = d
				}
			}
		}(startRow, endRow)
	}
	wg.Wait()
	return DistMatrix{n: n, data: data}, nil
}

// SilhouetteScoresParallel computes silhouette scores using multiple
// goroutines. Each worker handles a contiguous range of points; scores are
// bitwise identical to SilhouetteScores. Falls back to the sequential
// version if numWorkers <= 1.
func SilhouetteScoresParallel(dm DistMatrix, labels []int, numWorkers int) ([]float64, error) {
	n := dm.N()
	if numWorkers <= 1 || n <= 1 {
		return SilhouetteScores(dm, labels)
	}
	counts, err := checkLabels(labels, n, 2)
	if err != nil {
		return nil, err
	}

	out := make([]float64, n)
	var wg sync.WaitGroup
	rowsPerWorker := (n + numWorkers - 1) / numWorkers
	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := startRow + rowsPerWorker
		if endRow > n {
			endRow = n
		}
		if startRow >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			silhouetteRange(dm, labels, counts, out, start, end)
		}(startRow, endRow)
	}
	wg.Wait()
	return out, nil
}
