package genecluster

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// KSweepPoint summarizes one candidate cluster count from SweepK.
type KSweepPoint struct {
	K              int
	Inertia        float64
	MeanSilhouette float64
}

// SweepK runs KMeans for every k in [kmin, kmax] and scores each candidate
// with its inertia and mean silhouette. Inertia always falls as k grows (the
// "elbow" heuristic looks for where it stops falling fast); the silhouette
// peaks at the most natural k, which is what BestSilhouetteK picks.
//
// Candidates run concurrently, bounded by cfg.Workers; each individual
// KMeans call runs single-threaded. The distance matrix for the silhouettes
// is computed once up front.
func SweepK(ctx context.Context, vectors [][]float64, kmin, kmax int, cfg KMeansConfig) ([]KSweepPoint, error) {
	n := len(vectors)
	if kmin < 2 {
		return nil, fmt.Errorf("genecluster: sweep kmin must be >= 2, got %d", kmin)
	}
	if kmax < kmin {
		return nil, fmt.Errorf("genecluster: sweep kmax %d is below kmin %d", kmax, kmin)
	}
	if kmax > n {
		return nil, fmt.Errorf("genecluster: sweep kmax %d exceeds the %d points", kmax, n)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	dm, err := PairwiseDistancesParallel(vectors, EuclideanMetric{}, workers)
	if err != nil {
		return nil, err
	}

	points := make([]KSweepPoint, kmax-kmin+1)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for k := kmin; k <= kmax; k++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			kcfg := cfg
			kcfg.K = k
			kcfg.Workers = 1
			res, err := KMeans(vectors, kcfg)
			if err != nil {
				return fmt.Errorf("k=%d: %w", k, err)
			}
			sil, err := MeanSilhouette(dm, res.Labels)
			if err != nil {
				return fmt.Errorf("k=%d: %w", k, err)
			}
			points[k-kmin] = KSweepPoint{K: k, Inertia: res.Inertia, MeanSilhouette: sil}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// BestSilhouetteK returns the candidate with the highest mean silhouette,
// breaking ties toward the smaller k. Panics on an empty sweep.
func BestSilhouetteK(points []KSweepPoint) int {
	best := points[0]
	for _, p := range points[1:] {
		if p.MeanSilhouette > best.MeanSilhouette {
			best = p
		}
	}
	return best.K
}
