// Package genecluster implements the classic exploratory-clustering toolbox
// for expression matrices: pairwise distances, agglomerative hierarchical
// clustering, Lloyd's k-means, classical multidimensional scaling, and the
// internal validity measures used to compare the results.
//
// The package is organized around two small value types. A Dataset holds a
// genes-by-samples matrix with row and column names, and a DistMatrix holds a
// symmetric pairwise distance matrix. Everything else consumes one of the two:
//
//	ds, err := leukemia.Load()
//	dm, err := genecluster.PairwiseDistances(ds.SampleVectors(), genecluster.EuclideanMetric{})
//	dend, err := genecluster.HCluster(dm, genecluster.DefaultHClustConfig())
//	labels, err := dend.CutK(2)
//
// Hierarchical results are returned as a Dendrogram, a sequence of merge rows
// in the usual linkage format (left child, right child, merge height, merged
// size). CutK and CutHeight extract flat labelings, LeafOrder gives the
// left-to-right leaf ordering used to arrange heatmap rows and columns, and
// CopheneticCorrelation measures how faithfully the tree preserves the input
// distances.
//
// K-means follows the same shape:
//
//	cfg := genecluster.DefaultKMeansConfig(2)
//	res, err := genecluster.KMeans(ds.SampleVectors(), cfg)
//	// res.Labels[i] is the cluster ID for sample i
//	// res.Inertia is the within-cluster sum of squared distances
//
// # Linkage selection
//
// HCluster runs the generic Lance-Williams update for every linkage rule. For
// LinkageSingle it instead builds a minimum spanning tree with Prim's
// algorithm and sorts its edges, which produces the identical dendrogram in
// O(n²) time. The other rules (complete, average, Ward) share the O(n³)
// matrix update loop.
package genecluster
