package genecluster

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// phenotypeMarker introduces the optional second CSV row that carries
// per-sample group labels.
const phenotypeMarker = "#phenotype"

// Dataset is a genes-by-samples expression matrix with row and column names.
// Values is row-major: Values[g*len(Samples)+s] is the expression of gene g
// in sample s. Phenotypes optionally labels each sample with a group name
// (e.g. "ALL" / "AML"); it is either empty or has one entry per sample.
type Dataset struct {
	Genes      []string
	Samples    []string
	Phenotypes []string
	Values     []float64
}

// NewDataset builds a Dataset from row names, column names and a row-major
// value matrix. It returns an error if the dimensions disagree, a name is
// duplicated or empty, or a value is not finite.
func NewDataset(genes, samples []string, values []float64) (*Dataset, error) {
	ds := &Dataset{Genes: genes, Samples: samples, Values: values}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Validate checks the internal consistency of the dataset.
func (ds *Dataset) Validate() error {
	if len(ds.Values) != len(ds.Genes)*len(ds.Samples) {
		return fmt.Errorf("genecluster: values length %d does not match genes*samples = %d*%d", len(ds.Values), len(ds.Genes), len(ds.Samples))
	}
	if len(ds.Phenotypes) != 0 && len(ds.Phenotypes) != len(ds.Samples) {
		return fmt.Errorf("genecluster: phenotypes length %d does not match %d samples", len(ds.Phenotypes), len(ds.Samples))
	}
	if err := checkNames("gene", ds.Genes); err != nil {
		return err
	}
	if err := checkNames("sample", ds.Samples); err != nil {
		return err
	}
	for i, v := range ds.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("genecluster: value at flat index %d is not finite: %v", i, v)
		}
	}
	return nil
}

func checkNames(kind string, names []string) error {
	seen := make(map[string]struct{}, len(names))
	for i, name := range names {
		if name == "" {
			return fmt.Errorf("genecluster: %s %d has an empty name", kind, i)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("genecluster: duplicate %s name %q", kind, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// NumGenes returns the number of rows.
func (ds *Dataset) NumGenes() int { return len(ds.Genes) }

// NumSamples returns the number of columns.
func (ds *Dataset) NumSamples() int { return len(ds.Samples) }

// Dims returns the matrix shape as (genes, samples).
func (ds *Dataset) Dims() (genes, samples int) {
	return len(ds.Genes), len(ds.Samples)
}

// At returns the expression of gene g in sample s.
func (ds *Dataset) At(g, s int) float64 {
	return ds.Values[g*len(ds.Samples)+s]
}

// Row returns gene g's expression across all samples. The returned slice
// aliases the dataset's backing array; callers that mutate it mutate the
// dataset.
func (ds *Dataset) Row(g int) []float64 {
	s := len(ds.Samples)
	return ds.Values[g*s : (g+1)*s]
}

// Col returns a copy of sample s's expression across all genes.
func (ds *Dataset) Col(s int) []float64 {
	out := make([]float64, len(ds.Genes))
	for g := range out {
		out[g] = ds.Values[g*len(ds.Samples)+s]
	}
	return out
}

// GeneIndex returns the row index of the named gene, or -1 if absent.
func (ds *Dataset) GeneIndex(name string) int {
	for i, g := range ds.Genes {
		if g == name {
			return i
		}
	}
	return -1
}

// SampleIndex returns the column index of the named sample, or -1 if absent.
func (ds *Dataset) SampleIndex(name string) int {
	for i, s := range ds.Samples {
		if s == name {
			return i
		}
	}
	return -1
}

// SampleVectors returns one vector per sample (the matrix columns), the shape
// consumed by PairwiseDistances and KMeans when clustering samples. The
// vectors are copies.
func (ds *Dataset) SampleVectors() [][]float64 {
	out := make([][]float64, len(ds.Samples))
	for s := range ds.Samples {
		out[s] = ds.Col(s)
	}
	return out
}

// GeneVectors returns one vector per gene (the matrix rows), the shape used
// when clustering genes. The vectors alias the dataset's backing array.
func (ds *Dataset) GeneVectors() [][]float64 {
	out := make([][]float64, len(ds.Genes))
	for g := range ds.Genes {
		out[g] = ds.Row(g)
	}
	return out
}

// Clone returns a deep copy of the dataset.
func (ds *Dataset) Clone() *Dataset {
	out := &Dataset{
		Genes:   append([]string(nil), ds.Genes...),
		Samples: append([]string(nil), ds.Samples...),
		Values:  append([]float64(nil), ds.Values...),
	}
	if ds.Phenotypes != nil {
		out.Phenotypes = append([]string(nil), ds.Phenotypes...)
	}
	return out
}

// PhenotypeLabels converts the phenotype strings into integer labels, with
// level names ordered by first appearance. It returns an error if the dataset
// carries no phenotypes.
func (ds *Dataset) PhenotypeLabels() (labels []int, levels []string, err error) {
	if len(ds.Phenotypes) == 0 {
		return nil, nil, fmt.Errorf("genecluster: dataset has no phenotype annotations")
	}
	index := make(map[string]int)
	labels = make([]int, len(ds.Phenotypes))
	for i, p := range ds.Phenotypes {
		id, ok := index[p]
		if !ok {
			id = len(levels)
			index[p] = id
			levels = append(levels, p)
		}
		labels[i] = id
	}
	return labels, levels, nil
}

// Subset returns a new dataset restricted to the given gene and sample
// indices, in the given order. A nil index slice keeps the full axis.
func (ds *Dataset) Subset(geneIdx, sampleIdx []int) (*Dataset, error) {
	if geneIdx == nil {
		geneIdx = make([]int, len(ds.Genes))
		for i := range geneIdx {
			geneIdx[i] = i
		}
	}
	if sampleIdx == nil {
		sampleIdx = make([]int, len(ds.Samples))
		for i := range sampleIdx {
			sampleIdx[i] = i
		}
	}
	for _, g := range geneIdx {
		if g < 0 || g >= len(ds.Genes) {
			return nil, fmt.Errorf("genecluster: gene index %d out of range [0,%d)", g, len(ds.Genes))
		}
	}
	for _, s := range sampleIdx {
		if s < 0 || s >= len(ds.Samples) {
			return nil, fmt.Errorf("genecluster: sample index %d out of range [0,%d)", s, len(ds.Samples))
		}
	}

	out := &Dataset{
		Genes:   make([]string, len(geneIdx)),
		Samples: make([]string, len(sampleIdx)),
		Values:  make([]float64, len(geneIdx)*len(sampleIdx)),
	}
	for i, g := range geneIdx {
		out.Genes[i] = ds.Genes[g]
	}
	for j, s := range sampleIdx {
		out.Samples[j] = ds.Samples[s]
	}
	if len(ds.Phenotypes) > 0 {
		out.Phenotypes = make([]string, len(sampleIdx))
		for j, s := range sampleIdx {
			out.Phenotypes[j] = ds.Phenotypes[s]
		}
	}
	for i, g := range geneIdx {
		for j, s := range sampleIdx {
			out.Values[i*len(sampleIdx)+j] = ds.At(g, s)
		}
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// FilterGenes returns a new dataset keeping the genes for which pred returns
// true, in their original order. The values slice passed to pred aliases the
// dataset and must not be retained.
func (ds *Dataset) FilterGenes(pred func(name string, values []float64) bool) (*Dataset, error) {
	keep := make([]int, 0, len(ds.Genes))
	for g := range ds.Genes {
		if pred(ds.Genes[g], ds.Row(g)) {
			keep = append(keep, g)
		}
	}
	return ds.Subset(keep, nil)
}

// ReadCSV parses a dataset from CSV. The first row is a header whose first
// cell is ignored and whose remaining cells name the samples. An optional
// second row starting with "#phenotype" labels each sample with a group.
// Every other row is a gene name followed by one numeric value per sample.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("genecluster: reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("genecluster: csv is empty")
	}

	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("genecluster: csv header has %d columns, need a name column plus at least one sample", len(header))
	}
	samples := append([]string(nil), header[1:]...)
	rows := records[1:]

	var phenotypes []string
	if len(rows) > 0 && rows[0][0] == phenotypeMarker {
		phenotypes = append([]string(nil), rows[0][1:]...)
		rows = rows[1:]
	}

	genes := make([]string, 0, len(rows))
	values := make([]float64, 0, len(rows)*len(samples))
	for i, row := range rows {
		genes = append(genes, row[0])
		for j, cell := range row[1:] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("genecluster: row %d (%s), sample %s: parsing %q: %w", i+2, row[0], samples[j], cell, err)
			}
			values = append(values, v)
		}
	}

	ds := &Dataset{Genes: genes, Samples: samples, Phenotypes: phenotypes, Values: values}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// ReadCSVFile reads a dataset from the named CSV file.
func ReadCSVFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("genecluster: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// WriteCSV writes the dataset in the format ReadCSV parses. Values are
// formatted with the shortest representation that round-trips exactly.
func (ds *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := make([]string, 1+len(ds.Samples))
	header[0] = "gene"
	copy(header[1:], ds.Samples)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("genecluster: writing csv: %w", err)
	}
	if len(ds.Phenotypes) > 0 {
		row := make([]string, 1+len(ds.Phenotypes))
		row[0] = phenotypeMarker
		copy(row[1:], ds.Phenotypes)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("genecluster: writing csv: %w", err)
		}
	}
	row := make([]string, 1+len(ds.Samples))
	for g, name := range ds.Genes {
		row[0] = name
		for s := range ds.Samples {
			row[1+s] = strconv.FormatFloat(ds.At(g, s), 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("genecluster: writing csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("genecluster: writing csv: %w", err)
	}
	return nil
}
