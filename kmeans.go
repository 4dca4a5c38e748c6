package genecluster

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"
)

// KMeansInit selects the centroid seeding strategy.
type KMeansInit string

const (
	// KMeansInitPlusPlus seeds with k-means++ D² sampling: each new centroid
	// is drawn with probability proportional to its squared distance from the
	// nearest centroid chosen so far.
	KMeansInitPlusPlus KMeansInit = "kmeans++"
	// KMeansInitRandom seeds with k distinct points chosen uniformly.
	KMeansInitRandom KMeansInit = "random"
	// KMeansInitFirstK seeds with the first k points. Fully deterministic,
	// mostly useful in tests and worked examples.
	KMeansInitFirstK KMeansInit = "first-k"
)

// KMeansConfig configures Lloyd's k-means.
type KMeansConfig struct {
	// K is the number of clusters. Required; must be in [1, len(vectors)].
	K int

	// MaxIterations caps the Lloyd iterations per restart.
	// Default: 100.
	MaxIterations int

	// Restarts is the number of independent seedings; the run with the
	// lowest inertia wins. Ignored for KMeansInitFirstK, which is
	// deterministic. Default: 10.
	Restarts int

	// Init is the seeding strategy. Default: KMeansInitPlusPlus.
	Init KMeansInit

	// Tolerance stops a run early once the total squared centroid movement
	// in one iteration drops to this value or below. 0 disables the check,
	// leaving only assignment stability as the stopping rule.
	Tolerance float64

	// Seed feeds the random number generator; restart r uses Seed+r, so a
	// fixed Seed makes the whole sweep reproducible. Default: 1.
	Seed int64

	// Workers controls parallelism of the assignment step.
	// Default: runtime.NumCPU().
	Workers int
}

// DefaultKMeansConfig returns the default configuration for k clusters.
func DefaultKMeansConfig(k int) KMeansConfig {
	return KMeansConfig{
		K:             k,
		MaxIterations: 100,
		Restarts:      10,
		Init:          KMeansInitPlusPlus,
		Seed:          1,
	}
}

// KMeansResult is the best run of KMeans across restarts.
type KMeansResult struct {
	// Labels[i] is the cluster ID for point i, in 0..K-1.
	Labels []int
	// Centroids[c] is the mean of cluster c's points.
	Centroids [][]float64
	// Inertia is the within-cluster sum of squared Euclidean distances, the
	// quantity Lloyd's algorithm descends.
	Inertia float64
	// Iterations is how many Lloyd iterations the winning run used.
	Iterations int
	// Converged reports whether the winning run stabilized before
	// MaxIterations ran out.
	Converged bool
	// Restart is the index of the winning restart.
	Restart int
}

func applyKMeansDefaults(cfg *KMeansConfig) {
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = 100
	}
	if cfg.Restarts == 0 {
		cfg.Restarts = 10
	}
	if cfg.Init == "" {
		cfg.Init = KMeansInitPlusPlus
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Init == KMeansInitFirstK {
		cfg.Restarts = 1
	}
}

func validateKMeansConfig(cfg *KMeansConfig, n int) error {
	if cfg.K < 1 {
		return fmt.Errorf("genecluster: K must be >= 1, got %d", cfg.K)
	}
	if cfg.K > n {
		return fmt.Errorf("genecluster: K = %d exceeds the %d points", cfg.K, n)
	}
	if cfg.MaxIterations < 1 {
		return fmt.Errorf("genecluster: MaxIterations must be >= 1, got %d", cfg.MaxIterations)
	}
	if cfg.Restarts < 1 {
		return fmt.Errorf("genecluster: Restarts must be >= 1, got %d", cfg.Restarts)
	}
	switch cfg.Init {
	case KMeansInitPlusPlus, KMeansInitRandom, KMeansInitFirstK:
	default:
		return fmt.Errorf("genecluster: invalid Init %q", cfg.Init)
	}
	if cfg.Tolerance < 0 {
		return fmt.Errorf("genecluster: Tolerance must be >= 0, got %v", cfg.Tolerance)
	}
	return nil
}

// KMeans partitions the vectors into cfg.K clusters with Lloyd's algorithm:
// assign every point to its nearest centroid, move each centroid to the mean
// of its points, repeat until the assignment stops changing. The best of
// cfg.Restarts independent seedings (by inertia) is returned. Ties on
// distance and on inertia both resolve to the lower index, so results are
// reproducible for a fixed Seed.
func KMeans(vectors [][]float64, cfg KMeansConfig) (*KMeansResult, error) {
	n := len(vectors)
	applyKMeansDefaults(&cfg)
	if err := validateKMeansConfig(&cfg, n); err != nil {
		return nil, err
	}
	dims := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dims {
			return nil, fmt.Errorf("genecluster: vector %d has %d dims, want %d", i, len(v), dims)
		}
	}

	var best *KMeansResult
	for restart := 0; restart < cfg.Restarts; restart++ {
		rng := rand.New(rand.NewSource(cfg.Seed + int64(restart)))
		centroids := seedCentroids(vectors, cfg.K, cfg.Init, rng)
		res := lloyd(vectors, centroids, cfg)
		res.Restart = restart
		if best == nil || res.Inertia < best.Inertia {
			best = res
		}
	}
	return best, nil
}

// seedCentroids produces K initial centroids (as copies) per the strategy.
func seedCentroids(vectors [][]float64, k int, init KMeansInit, rng *rand.Rand) [][]float64 {
	n := len(vectors)
	centroids := make([][]float64, 0, k)
	pick := func(i int) {
		centroids = append(centroids, append([]float64(nil), vectors[i]...))
	}

	switch init {
	case KMeansInitFirstK:
		for i := 0; i < k; i++ {
			pick(i)
		}

	case KMeansInitRandom:
		for _, i := range rng.Perm(n)[:k] {
			pick(i)
		}

	default: // KMeansInitPlusPlus
		pick(rng.Intn(n))
		minD2 := make([]float64, n)
		metric := EuclideanMetric{}
		for i := range minD2 {
			minD2[i] = metric.ReducedDistance(vectors[i], centroids[0])
		}
		for len(centroids) < k {
			var total float64
			for _, d := range minD2 {
				total += d
			}
			var next int
			if total == 0 {
				// All remaining mass is on already chosen points
				// (duplicates); fall back to a uniform draw.
				next = rng.Intn(n)
			} else {
				r := rng.Float64() * total
				var cum float64
				for i, d := range minD2 {
					cum += d
					if cum >= r {
						next = i
						break
					}
				}
			}
			pick(next)
			for i := range minD2 {
				if d := metric.ReducedDistance(vectors[i], centroids[len(centroids)-1]); d < minD2[i] {
					minD2[i] = d
				}
			}
		}
	}
	return centroids
}

// lloyd runs the assignment/update loop from the given starting centroids.
func lloyd(vectors, centroids [][]float64, cfg KMeansConfig) *KMeansResult {
	n := len(vectors)
	k := len(centroids)
	dims := len(vectors[0])

	labels := make([]int, n)
	assignToNearest(vectors, centroids, labels, cfg.Workers)

	res := &KMeansResult{Labels: labels, Centroids: centroids}
	sums := make([][]float64, k)
	counts := make([]int, k)
	for c := range sums {
		sums[c] = make([]float64, dims)
	}

	for it := 1; it <= cfg.MaxIterations; it++ {
		res.Iterations = it

		// Update step: move each centroid to the mean of its points. An
		// emptied cluster is reseeded to the point farthest from its
		// current centroid, which keeps K clusters alive.
		for c := range sums {
			counts[c] = 0
			for t := range sums[c] {
				sums[c][t] = 0
			}
		}
		for i, v := range vectors {
			c := labels[i]
			counts[c]++
			for t, x := range v {
				sums[c][t] += x
			}
		}
		var shift float64
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				far := farthestPoint(vectors, centroids, labels)
				copy(centroids[c], vectors[far])
				continue
			}
			for t := 0; t < dims; t++ {
				m := sums[c][t] / float64(counts[c])
				d := m - centroids[c][t]
				shift += d * d
				centroids[c][t] = m
			}
		}

		if changed := assignToNearest(vectors, centroids, labels, cfg.Workers); !changed {
			res.Converged = true
			break
		}
		if cfg.Tolerance > 0 && shift <= cfg.Tolerance {
			res.Converged = true
			break
		}
	}

	res.Inertia = inertia(vectors, centroids, labels)
	return res
}

// assignToNearest fills out[i] with the index of the centroid nearest to
// vectors[i] (squared Euclidean, ties to the lower index). Rows are split
// across workers; disjoint writes need no synchronization. Returns true if
// any entry of out changed.
func assignToNearest(vectors, centroids [][]float64, out []int, numWorkers int) bool {
	n := len(vectors)
	metric := EuclideanMetric{}
	assignRange := func(start, end int) bool {
		changed := false
		for i := start; i < end; i++ {
			bestD := math.Inf(1)
			best := -1
			for c, cent := range centroids {
				if d := metric.ReducedDistance(vectors[i], cent); d < bestD {
					bestD = d
					best = c
				}
			}
			if out[i] != best {
				out[i] = best
				changed = true
			}
		}
		return changed
	}

	if numWorkers <= 1 || n <= 1 {
		return assignRange(0, n)
	}

	var wg sync.WaitGroup
	rowsPerWorker := (n + numWorkers - 1) / numWorkers
	changed := make([]bool, numWorkers)
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
		go func(w, start, end int) {
			defer wg.Done()
			changed[w] = assignRange(start, end)
		}(w, startRow, endRow)
	}
	wg.Wait()
	for _, c := range changed {
		if c {
			return true
		}
	}
	return false
}

// farthestPoint returns the index of the point farthest from its assigned
// centroid, the natural reseed for an emptied cluster.
func farthestPoint(vectors, centroids [][]float64, labels []int) int {
	metric := EuclideanMetric{}
	best := 0
	bestD := -1.0
	for i, v := range vectors {
		if d := metric.ReducedDistance(v, centroids[labels[i]]); d > bestD {
			bestD = d
			best = i
		}
	}
	return best
}

// inertia is the within-cluster sum of squared distances.
func inertia(vectors, centroids [][]float64, labels []int) float64 {
	metric := EuclideanMetric{}
	var sum float64
	for i, v := range vectors {
		sum += metric.ReducedDistance(v, centroids[labels[i]])
	}
	return sum
}

// Assign labels each vector with its nearest centroid under squared
// Euclidean distance, the prediction step for points outside the training
// set. Centroids must be non-empty and dimensions must agree.
func Assign(vectors, centroids [][]float64) ([]int, error) {
	if len(centroids) == 0 {
		return nil, fmt.Errorf("genecluster: Assign needs at least one centroid")
	}
	dims := len(centroids[0])
	for c, cent := range centroids {
		if len(cent) != dims {
			return nil, fmt.Errorf("genecluster: centroid %d has %d dims, want %d", c, len(cent), dims)
		}
	}
	for i, v := range vectors {
		if len(v) != dims {
			return nil, fmt.Errorf("genecluster: vector %d has %d dims, want %d", i, len(v), dims)
		}
	}
	out := make([]int, len(vectors))
	assignToNearest(vectors, centroids, out, 1)
	return out, nil
}
