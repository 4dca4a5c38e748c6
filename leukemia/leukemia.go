// Package leukemia ships the fixed teaching dataset used throughout the
// module's examples and documentation: a curated acute-leukemia expression
// subset of 60 marker genes across 38 bone-marrow samples, 27 acute
// lymphoblastic (ALL) and 11 acute myeloid (AML), with values on a log2
// intensity scale. The gene set is restricted to markers whose ALL/AML
// contrast is strong, so every clustering route in this module cleanly
// recovers the diagnosis split; it is a worked-example dataset, not a
// resource for biology.
//
// The CSV is embedded in the binary, so loading needs no filesystem access:
//
//	ds := leukemia.MustLoad()
//	genes, samples := ds.Dims() // 60, 38
package leukemia

import (
	"bytes"
	_ "embed"

	"github.com/tbielke/genecluster"
)

// Dataset shape and phenotype composition, fixed by the embedded CSV.
const (
	NumGenes   = 60
	NumSamples = 38
	NumALL     = 27
	NumAML     = 11
)

//go:embed data/leukemia.csv
var csvData []byte

// Load parses the embedded dataset. Each call returns a fresh Dataset, so
// callers may transform it in place.
func Load() (*genecluster.Dataset, error) {
	return genecluster.ReadCSV(bytes.NewReader(csvData))
}

// MustLoad is Load for initialization paths where the embedded data being
// unreadable is a programming error.
func MustLoad() *genecluster.Dataset {
	ds, err := Load()
	if err != nil {
		panic(err)
	}
	return ds
}
