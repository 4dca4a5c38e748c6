package viz

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbielke/genecluster"
)

func fourLeafTree(t *testing.T) *genecluster.Dendrogram {
	t.Helper()
	dend, err := genecluster.NewDendrogram(4, [][4]float64{
		{0, 1, 1, 2},
		{2, 3, 2, 2},
		{4, 5, 5.5, 4},
	})
	require.NoError(t, err)
	return dend
}

func TestDendrogramSegments_HandComputedLayout(t *testing.T) {
	// Leaf order is 0,1,2,3; internal nodes sit at the mean of their
	// children: node 4 at 0.5, node 5 at 2.5, the root at 1.5.
	segs := dendrogramSegments(fourLeafTree(t))
	want := []segment{
		{0, 0, 0, 1}, {1, 0, 1, 1}, {0, 1, 1, 1},
		{2, 0, 2, 2}, {3, 0, 3, 2}, {2, 2, 3, 2},
		{0.5, 1, 0.5, 5.5}, {2.5, 2, 2.5, 5.5}, {0.5, 5.5, 2.5, 5.5},
	}
	if diff := cmp.Diff(want, segs, cmp.AllowUnexported(segment{})); diff != "" {
		t.Errorf("segments mismatch (-want +got):\n%s", diff)
	}
}

func TestDendrogramSegments_Degenerate(t *testing.T) {
	single, err := genecluster.NewDendrogram(1, nil)
	require.NoError(t, err)
	assert.Empty(t, dendrogramSegments(single))
}

func TestMapSegments_Orientations(t *testing.T) {
	segs := []segment{{1, 0, 1, 2}}

	vertical := mapSegments(segs, 10, 0.5, false)
	assert.Equal(t, []segment{{1, 10, 1, 11}}, vertical)

	horizontal := mapSegments(segs, -1.1, -2.0, true)
	assert.Equal(t, []segment{{-1.1, 1, -5.1, 1}}, horizontal)
}

func TestLineSet_DataRange(t *testing.T) {
	ls := &lineSet{segs: []segment{{0, 1, 2, -3}, {5, 0, 4, 7}}}
	xmin, xmax, ymin, ymax := ls.DataRange()
	assert.Equal(t, 0.0, xmin)
	assert.Equal(t, 5.0, xmax)
	assert.Equal(t, -3.0, ymin)
	assert.Equal(t, 7.0, ymax)
}

func TestDendrogram_RendersWithLabels(t *testing.T) {
	p, err := Dendrogram(fourLeafTree(t), []string{"a", "b", "c", "d"}, DendrogramOptions{Title: "tree"})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "dend.png")
	require.NoError(t, SavePlot(p, path))
	assertPNG(t, path)
}

func TestDendrogram_DefaultLabels(t *testing.T) {
	p, err := Dendrogram(fourLeafTree(t), nil, DendrogramOptions{})
	require.NoError(t, err)
	require.NotNil(t, p)
}

func TestDendrogram_Errors(t *testing.T) {
	_, err := Dendrogram(nil, nil, DendrogramOptions{})
	require.Error(t, err)

	empty, err := genecluster.NewDendrogram(0, nil)
	require.NoError(t, err)
	_, err = Dendrogram(empty, nil, DendrogramOptions{})
	require.Error(t, err)

	_, err = Dendrogram(fourLeafTree(t), []string{"a", "b"}, DendrogramOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 labels for 4 leaves")
}
