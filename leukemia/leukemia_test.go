package leukemia_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbielke/genecluster"
	"github.com/tbielke/genecluster/leukemia"
)

func TestLoad_Shape(t *testing.T) {
	ds, err := leukemia.Load()
	require.NoError(t, err)

	genes, samples := ds.Dims()
	assert.Equal(t, leukemia.NumGenes, genes)
	assert.Equal(t, leukemia.NumSamples, samples)

	labels, levels, err := ds.PhenotypeLabels()
	require.NoError(t, err)
	require.Equal(t, []string{"ALL", "AML"}, levels)

	counts := map[int]int{}
	for _, l := range labels {
		counts[l]++
	}
	assert.Equal(t, leukemia.NumALL, counts[0])
	assert.Equal(t, leukemia.NumAML, counts[1])
}

func TestMustLoad_ReturnsFreshCopies(t *testing.T) {
	a := leukemia.MustLoad()
	a.Values[0] = -999

	b := leukemia.MustLoad()
	assert.NotEqual(t, -999.0, b.Values[0], "Load must not share backing data between calls")
}

// phenotypeLabels loads the dataset and returns its diagnosis labels.
func phenotypeLabels(t *testing.T, ds *genecluster.Dataset) []int {
	t.Helper()
	labels, _, err := ds.PhenotypeLabels()
	require.NoError(t, err)
	return labels
}

// TestHierarchicalClusteringRecoversDiagnosis is the tutorial's headline
// result: a two-cluster cut of the dendrogram reproduces the ALL/AML split
// exactly, for every linkage rule and for the common metric choices.
func TestHierarchicalClusteringRecoversDiagnosis(t *testing.T) {
	linkages := []genecluster.Linkage{
		genecluster.LinkageSingle,
		genecluster.LinkageComplete,
		genecluster.LinkageAverage,
		genecluster.LinkageWard,
	}

	prepare := map[string]func(t *testing.T) (genecluster.DistMatrix, []int){
		"EuclideanRaw": func(t *testing.T) (genecluster.DistMatrix, []int) {
			ds := leukemia.MustLoad()
			dm, err := genecluster.PairwiseDistances(ds.SampleVectors(), genecluster.EuclideanMetric{})
			require.NoError(t, err)
			return dm, phenotypeLabels(t, ds)
		},
		"EuclideanZScored": func(t *testing.T) (genecluster.DistMatrix, []int) {
			ds := leukemia.MustLoad()
			ds.ZScoreGenes()
			dm, err := genecluster.PairwiseDistances(ds.SampleVectors(), genecluster.EuclideanMetric{})
			require.NoError(t, err)
			return dm, phenotypeLabels(t, ds)
		},
		"PearsonRaw": func(t *testing.T) (genecluster.DistMatrix, []int) {
			ds := leukemia.MustLoad()
			dm, err := genecluster.PairwiseDistances(ds.SampleVectors(), genecluster.PearsonMetric{})
			require.NoError(t, err)
			return dm, phenotypeLabels(t, ds)
		},
	}

	for name, prep := range prepare {
		t.Run(name, func(t *testing.T) {
			dm, truth := prep(t)
			for _, linkage := range linkages {
				t.Run(string(linkage), func(t *testing.T) {
					dend, err := genecluster.HCluster(dm, genecluster.HClustConfig{Linkage: linkage})
					require.NoError(t, err)

					cut, err := dend.CutK(2)
					require.NoError(t, err)

					ari, err := genecluster.AdjustedRandIndex(cut, truth)
					require.NoError(t, err)
					assert.InDelta(t, 1.0, ari, 1e-12, "two-cluster cut should match the diagnosis")
				})
			}
		})
	}
}

func TestKMeansRecoversDiagnosis(t *testing.T) {
	for _, zscore := range []bool{false, true} {
		name := "Raw"
		if zscore {
			name = "ZScored"
		}
		t.Run(name, func(t *testing.T) {
			ds := leukemia.MustLoad()
			if zscore {
				ds.ZScoreGenes()
			}
			truth := phenotypeLabels(t, ds)

			res, err := genecluster.KMeans(ds.SampleVectors(), genecluster.DefaultKMeansConfig(2))
			require.NoError(t, err)
			require.True(t, res.Converged)

			ari, err := genecluster.AdjustedRandIndex(res.Labels, truth)
			require.NoError(t, err)
			assert.InDelta(t, 1.0, ari, 1e-12, "k=2 k-means should match the diagnosis")
		})
	}
}

func TestDiagnosisSplitSilhouette(t *testing.T) {
	ds := leukemia.MustLoad()
	truth := phenotypeLabels(t, ds)

	euclid, err := genecluster.PairwiseDistances(ds.SampleVectors(), genecluster.EuclideanMetric{})
	require.NoError(t, err)
	meanEuclid, err := genecluster.MeanSilhouette(euclid, truth)
	require.NoError(t, err)
	assert.Greater(t, meanEuclid, 0.7, "Euclidean silhouette of the true split")

	pearson, err := genecluster.PairwiseDistances(ds.SampleVectors(), genecluster.PearsonMetric{})
	require.NoError(t, err)
	meanPearson, err := genecluster.MeanSilhouette(pearson, truth)
	require.NoError(t, err)
	assert.Greater(t, meanPearson, 0.9, "Pearson silhouette of the true split")
}

func TestAverageLinkageCopheneticCorrelation(t *testing.T) {
	ds := leukemia.MustLoad()
	dm, err := genecluster.PairwiseDistances(ds.SampleVectors(), genecluster.EuclideanMetric{})
	require.NoError(t, err)

	dend, err := genecluster.HCluster(dm, genecluster.HClustConfig{Linkage: genecluster.LinkageAverage})
	require.NoError(t, err)

	corr, err := dend.CopheneticCorrelation(dm)
	require.NoError(t, err)
	assert.Greater(t, corr, 0.98, "average linkage should summarize these distances faithfully")
}

// TestMDSSeparatesDiagnosisOnFirstAxis checks the ordination plot's story:
// the first principal coordinate splits ALL from AML with clear air between
// the groups. Axis signs are arbitrary, so the check is direction-agnostic.
func TestMDSSeparatesDiagnosisOnFirstAxis(t *testing.T) {
	ds := leukemia.MustLoad()
	ds.ZScoreGenes()
	truth := phenotypeLabels(t, ds)

	dm, err := genecluster.PairwiseDistances(ds.SampleVectors(), genecluster.EuclideanMetric{})
	require.NoError(t, err)
	res, err := genecluster.MDS(dm, genecluster.MDSConfig{Dimensions: 2})
	require.NoError(t, err)
	require.GreaterOrEqual(t, res.EffectiveDims, 2)

	minByGroup := map[int]float64{0: math.Inf(1), 1: math.Inf(1)}
	maxByGroup := map[int]float64{0: math.Inf(-1), 1: math.Inf(-1)}
	for i, g := range truth {
		c := res.Coordinates[i][0]
		minByGroup[g] = math.Min(minByGroup[g], c)
		maxByGroup[g] = math.Max(maxByGroup[g], c)
	}
	separated := maxByGroup[0] < minByGroup[1] || maxByGroup[1] < minByGroup[0]
	assert.True(t, separated, "axis-1 ranges overlap: ALL [%v, %v], AML [%v, %v]",
		minByGroup[0], maxByGroup[0], minByGroup[1], maxByGroup[1])

	assert.InDelta(t, 0.72, res.ExplainedProportion[0], 0.04,
		"first axis should carry roughly 72%% of the positive eigenvalue mass")
}
