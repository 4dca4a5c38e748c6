package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"

	"github.com/tbielke/genecluster"
)

// LinkageFit is one row of the linkage comparison: how faithfully each merge
// rule's cophenetic distances reproduce the observed ones.
type LinkageFit struct {
	Linkage    genecluster.Linkage
	Cophenetic float64
}

// Summary collects everything the narrative reports, so tests and callers
// can assert on the numbers instead of parsing Markdown.
type Summary struct {
	Genes      int
	TotalGenes int
	Samples    int
	Scale      string
	Metric     string
	Linkage    genecluster.Linkage

	HasPhenotypes   bool
	PhenotypeLevels []string
	PhenotypeCounts []int

	LinkageFits []LinkageFit
	Cophenetic  float64

	Sweep   []genecluster.KSweepPoint
	ChosenK int
	KAuto   bool

	KMeans           *genecluster.KMeansResult
	KMeansSilhouette float64
	HierLabels       []int
	KMeansVsHierARI  float64

	PhenotypeARI     float64
	HierPhenotypeARI float64
	CrossTab         *genecluster.ContingencyTable

	MDS *genecluster.MDSResult

	// Figures lists the files written to OutDir, analysis.md excluded.
	Figures []string
}

// allLinkages is the comparison order used in the narrative.
var allLinkages = []genecluster.Linkage{
	genecluster.LinkageSingle,
	genecluster.LinkageComplete,
	genecluster.LinkageAverage,
	genecluster.LinkageWard,
}

// Run executes the exploratory workflow on ds and writes figures and
// analysis.md to cfg.OutDir. The input dataset is never mutated. A nil
// logger disables logging. Cancellation is honored between stages.
func Run(ctx context.Context, ds *genecluster.Dataset, cfg Config, logger *zap.Logger) (*Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	applyConfigDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, errors.New("report: nil dataset")
	}
	totalGenes, nSamples := ds.Dims()
	if nSamples < 2 {
		return nil, fmt.Errorf("report: need at least 2 samples, got %d", nSamples)
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	metric, err := genecluster.MetricByName(cfg.Metric)
	if err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	sum := &Summary{
		TotalGenes: totalGenes,
		Samples:    nSamples,
		Scale:      cfg.Scale,
		Metric:     cfg.Metric,
		Linkage:    cfg.Linkage,
	}
	if ds.Phenotypes != nil {
		labels, levels, err := ds.PhenotypeLabels()
		if err != nil {
			return nil, err
		}
		sum.HasPhenotypes = true
		sum.PhenotypeLevels = levels
		sum.PhenotypeCounts = make([]int, len(levels))
		for _, l := range labels {
			sum.PhenotypeCounts[l]++
		}
	}

	// Scaling.
	work := ds.Clone()
	switch cfg.Scale {
	case ScaleZScore:
		work.ZScoreGenes()
	case ScaleMedian:
		work.MedianCenterGenes()
	case ScaleRaw:
	}
	if cfg.TopGenes > 0 {
		work, err = work.TopVarGenes(cfg.TopGenes)
		if err != nil {
			return nil, err
		}
	}
	sum.Genes, _ = work.Dims()
	logger.Info("prepared expression matrix",
		zap.String("scale", cfg.Scale),
		zap.Int("genes", sum.Genes),
		zap.Int("samples", nSamples))

	// Distances.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vectors := work.SampleVectors()
	dm, err := genecluster.PairwiseDistancesParallel(vectors, metric, workers)
	if err != nil {
		return nil, err
	}
	logger.Info("computed pairwise distances",
		zap.String("metric", cfg.Metric),
		zap.Int("samples", nSamples))

	// Hierarchical clustering, all rules for comparison.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var sampleDend *genecluster.Dendrogram
	for _, linkage := range allLinkages {
		dend, err := genecluster.HCluster(dm, genecluster.HClustConfig{Linkage: linkage})
		if err != nil {
			return nil, err
		}
		corr, err := dend.CopheneticCorrelation(dm)
		if err != nil {
			return nil, err
		}
		sum.LinkageFits = append(sum.LinkageFits, LinkageFit{Linkage: linkage, Cophenetic: corr})
		if linkage == cfg.Linkage {
			sampleDend = dend
			sum.Cophenetic = corr
		}
	}
	logger.Info("built dendrograms",
		zap.String("linkage", string(cfg.Linkage)),
		zap.Float64("cophenetic", sum.Cophenetic))

	// K selection sweep.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	kmax := cfg.KMax
	if kmax > nSamples {
		kmax = nSamples
	}
	kmCfg := genecluster.DefaultKMeansConfig(0)
	kmCfg.Seed = cfg.Seed
	kmCfg.Workers = workers
	sum.Sweep, err = genecluster.SweepK(ctx, vectors, 2, kmax, kmCfg)
	if err != nil {
		return nil, err
	}
	sum.ChosenK = cfg.K
	if sum.ChosenK == 0 {
		sum.ChosenK = genecluster.BestSilhouetteK(sum.Sweep)
		sum.KAuto = true
	}
	logger.Info("swept k candidates",
		zap.Int("kmax", kmax),
		zap.Int("chosen", sum.ChosenK),
		zap.Bool("auto", sum.KAuto))

	// K-means at the chosen k.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	kCfg := genecluster.DefaultKMeansConfig(sum.ChosenK)
	kCfg.Seed = cfg.Seed
	kCfg.Workers = workers
	sum.KMeans, err = genecluster.KMeans(vectors, kCfg)
	if err != nil {
		return nil, err
	}
	sum.KMeansSilhouette, err = genecluster.MeanSilhouette(dm, sum.KMeans.Labels)
	if err != nil {
		return nil, err
	}
	logger.Info("ran k-means",
		zap.Int("k", sum.ChosenK),
		zap.Float64("inertia", sum.KMeans.Inertia),
		zap.Float64("silhouette", sum.KMeansSilhouette))

	// Agreement between the two clusterings, and with the phenotypes.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sum.HierLabels, err = sampleDend.CutK(sum.ChosenK)
	if err != nil {
		return nil, err
	}
	sum.KMeansVsHierARI, err = genecluster.AdjustedRandIndex(sum.KMeans.Labels, sum.HierLabels)
	if err != nil {
		return nil, err
	}
	if sum.HasPhenotypes {
		truth, _, err := work.PhenotypeLabels()
		if err != nil {
			return nil, err
		}
		sum.PhenotypeARI, err = genecluster.AdjustedRandIndex(sum.KMeans.Labels, truth)
		if err != nil {
			return nil, err
		}
		sum.HierPhenotypeARI, err = genecluster.AdjustedRandIndex(sum.HierLabels, truth)
		if err != nil {
			return nil, err
		}
		sum.CrossTab, err = genecluster.CrossTab(sum.KMeans.Labels, truth)
		if err != nil {
			return nil, err
		}
	}

	// Ordination.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sum.MDS, err = genecluster.MDS(dm, genecluster.MDSConfig{Dimensions: cfg.Dimensions})
	if err != nil {
		return nil, err
	}
	logger.Info("embedded samples",
		zap.Int("dimensions", cfg.Dimensions),
		zap.Int("effective", sum.MDS.EffectiveDims))

	// Figures.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := writeFigures(sum, work, sampleDend, metric, cfg, workers); err != nil {
		return nil, err
	}
	logger.Info("wrote figures", zap.Strings("files", sum.Figures))

	// Narrative.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, err := renderNarrative(sum)
	if err != nil {
		return nil, err
	}
	if err := writeAtomic(filepath.Join(cfg.OutDir, "analysis.md"), text); err != nil {
		return nil, err
	}
	logger.Info("wrote narrative", zap.String("path", filepath.Join(cfg.OutDir, "analysis.md")))
	return sum, nil
}

// writeAtomic writes data through a temp file in the same directory so a
// crashed run never leaves a truncated artifact behind.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("report: %w", err)
	}
	return nil
}
