package genecluster

import (
	"fmt"
	"math"
)

// Linkage selects the cluster-distance update rule used by HCluster.
type Linkage string

const (
	// LinkageSingle merges on the minimum distance between members.
	// Produces chained, elongated clusters; computed via an MST.
	LinkageSingle Linkage = "single"
	// LinkageComplete merges on the maximum distance between members.
	LinkageComplete Linkage = "complete"
	// LinkageAverage merges on the size-weighted mean distance (UPGMA).
	LinkageAverage Linkage = "average"
	// LinkageWard merges the pair whose union least increases total
	// within-cluster variance. Assumes Euclidean input distances.
	LinkageWard Linkage = "ward"
)

// HClustConfig configures agglomerative hierarchical clustering.
type HClustConfig struct {
	// Linkage is the update rule. Defaults to LinkageAverage.
	Linkage Linkage
}

// DefaultHClustConfig returns the usual starting configuration: average
// linkage, the compromise between single's chaining and complete's tight
// spheres.
func DefaultHClustConfig() HClustConfig {
	return HClustConfig{Linkage: LinkageAverage}
}

func applyHClustDefaults(cfg *HClustConfig) {
	if cfg.Linkage == "" {
		cfg.Linkage = LinkageAverage
	}
}

func validateHClustConfig(cfg *HClustConfig) error {
	switch cfg.Linkage {
	case LinkageSingle, LinkageComplete, LinkageAverage, LinkageWard:
		return nil
	default:
		return fmt.Errorf("genecluster: invalid Linkage %q", cfg.Linkage)
	}
}

// HCluster performs agglomerative hierarchical clustering on a pairwise
// distance matrix. It starts from n singleton clusters and repeatedly merges
// the closest pair, recording each merge as a dendrogram row. Ties are broken
// deterministically in favor of the lowest pair indices, so equal inputs
// always produce equal trees.
//
// Single linkage runs through an O(n²) minimum-spanning-tree construction;
// the other rules share the O(n³) Lance-Williams matrix update.
func HCluster(dm DistMatrix, cfg HClustConfig) (*Dendrogram, error) {
	applyHClustDefaults(&cfg)
	if err := validateHClustConfig(&cfg); err != nil {
		return nil, err
	}
	if err := dm.Validate(); err != nil {
		return nil, err
	}
	n := dm.N()
	if n <= 1 {
		return &Dendrogram{n: n}, nil
	}
	if cfg.Linkage == LinkageSingle {
		return singleLinkage(dm), nil
	}
	return &Dendrogram{n: n, merges: lanceWilliams(dm, cfg.Linkage)}, nil
}

// lanceWilliams runs the generic agglomeration loop on a working copy of the
// distance matrix. Merged clusters reuse the slot of their lower index; the
// slot's cluster ID is rewritten to the fresh dendrogram ID after each merge.
func lanceWilliams(dm DistMatrix, linkage Linkage) [][4]float64 {
	n := dm.N()
	d := append([]float64(nil), dm.Data()...)
	size := make([]int, n)
	active := make([]bool, n)
	id := make([]int, n)
	for i := 0; i < n; i++ {
		size[i] = 1
		active[i] = true
		id[i] = i
	}

	merges := make([][4]float64, 0, n-1)
	for step := 0; step < n-1; step++ {
		// Nearest active pair; strict < keeps the first (lowest-index) pair
		// on ties.
		best := math.Inf(1)
		bi, bj := -1, -1
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if !active[j] {
					continue
				}
				if v := d[i*n+j]; v < best {
					best = v
					bi, bj = i, j
				}
			}
		}

		h := best
		si, sj := size[bi], size[bj]
		left, right := id[bi], id[bj]
		if left > right {
			left, right = right, left
		}
		merges = append(merges, [4]float64{float64(left), float64(right), h, float64(si + sj)})

		for k := 0; k < n; k++ {
			if !active[k] || k == bi || k == bj {
				continue
			}
			dik := d[bi*n+k]
			djk := d[bj*n+k]
			var nd float64
			switch linkage {
			case LinkageComplete:
				nd = math.Max(dik, djk)
			case LinkageAverage:
				nd = (float64(si)*dik + float64(sj)*djk) / float64(si+sj)
			case LinkageWard:
				sk := size[k]
				nd = math.Sqrt((float64(si+sk)*dik*dik + float64(sj+sk)*djk*djk - float64(sk)*h*h) / float64(si+sj+sk))
			default: // LinkageSingle through the matrix path
				nd = math.Min(dik, djk)
			}
			d[bi*n+k] = nd
			d[k*n+bi] = nd
		}

		size[bi] = si + sj
		active[bj] = false
		id[bi] = n + step
	}
	return merges
}
