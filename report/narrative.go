package report

import (
	"bytes"
	"fmt"
	"strconv"
	"text/template"

	"github.com/tbielke/genecluster"
)

type phenoCount struct {
	Name  string
	Count int
}

type crossTabRow struct {
	Cluster int
	Counts  []int
}

type crossTabView struct {
	Cols []string
	Rows []crossTabRow
}

// narrativeData is the Summary plus the small views the template needs.
type narrativeData struct {
	*Summary
	Phenotypes   []phenoCount
	CrossTabView *crossTabView
	SweepBestK   int
}

func renderNarrative(sum *Summary) ([]byte, error) {
	data := narrativeData{Summary: sum}
	for i, level := range sum.PhenotypeLevels {
		data.Phenotypes = append(data.Phenotypes, phenoCount{Name: level, Count: sum.PhenotypeCounts[i]})
	}
	if len(sum.Sweep) > 0 {
		data.SweepBestK = genecluster.BestSilhouetteK(sum.Sweep)
	}
	if sum.CrossTab != nil {
		view := &crossTabView{}
		for _, code := range sum.CrossTab.ColLabels {
			view.Cols = append(view.Cols, sum.PhenotypeLevels[code])
		}
		for i, cluster := range sum.CrossTab.RowLabels {
			view.Rows = append(view.Rows, crossTabRow{Cluster: cluster, Counts: sum.CrossTab.Counts[i]})
		}
		data.CrossTabView = view
	}
	var buf bytes.Buffer
	if err := narrativeTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("report: rendering narrative: %w", err)
	}
	return buf.Bytes(), nil
}

var narrativeTmpl = template.Must(template.New("analysis").Funcs(template.FuncMap{
	"f2":  func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	"f3":  func(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) },
	"pct": func(v float64) string { return strconv.FormatFloat(100*v, 'f', 1, 64) + "%" },
	"inc": func(i int) int { return i + 1 },
}).Parse(narrativeText))

const narrativeText = `# Exploratory clustering report

Every number below was computed by the run that wrote this file.

## Dataset

{{.Samples}} samples measured over {{.Genes}} genes{{if ne .Genes .TotalGenes}} (the {{.Genes}} most variable of {{.TotalGenes}}){{end}}.
{{- if .HasPhenotypes}}
Phenotype groups: {{range $i, $p := .Phenotypes}}{{if $i}}, {{end}}{{$p.Name}} ({{$p.Count}} samples){{end}}.
{{- end}}
Scaling: {{.Scale}}. Sample distance: {{.Metric}}.

## Hierarchical clustering

Cophenetic correlation by linkage rule, measuring how faithfully each tree's
merge heights reproduce the observed distances:

| linkage | cophenetic correlation |
|---------|------------------------|
{{range .LinkageFits -}}
| {{.Linkage}} | {{f3 .Cophenetic}} |
{{end}}
The tree in the figures uses {{.Linkage}} linkage (cophenetic correlation
{{f3 .Cophenetic}}).

## Choosing k

K-means ran for every candidate below. Inertia always falls as k grows; the
mean silhouette peaks at the most natural split.

| k | inertia | mean silhouette |
|---|---------|-----------------|
{{range .Sweep -}}
| {{.K}} | {{f2 .Inertia}} | {{f3 .MeanSilhouette}} |
{{end}}
{{if .KAuto -}}
The silhouette peaks at k = {{.ChosenK}}, which the rest of the report uses.
{{- else -}}
The sweep's best k by silhouette is {{.SweepBestK}}; this report pins
k = {{.ChosenK}} by configuration.
{{- end}}

## K-means at k = {{.ChosenK}}

The winning restart (index {{.KMeans.Restart}}) {{if .KMeans.Converged}}converged after {{.KMeans.Iterations}} iterations{{else}}stopped at the iteration cap{{end}}
with inertia {{f2 .KMeans.Inertia}} and mean silhouette {{f3 .KMeansSilhouette}}.

## Agreement between clusterings

The k-means labels and the dendrogram cut at k = {{.ChosenK}} agree with an
adjusted Rand index of {{f3 .KMeansVsHierARI}}.
{{- if .HasPhenotypes}}
Against the phenotype labels, k-means reaches ARI {{f3 .PhenotypeARI}} and
the hierarchical cut ARI {{f3 .HierPhenotypeARI}}.

Cross-tabulation of k-means clusters (rows) against phenotypes (columns):

| cluster |{{range .CrossTabView.Cols}} {{.}} |{{end}}
|---------|{{range .CrossTabView.Cols}}---|{{end}}
{{range .CrossTabView.Rows -}}
| {{.Cluster}} |{{range .Counts}} {{.}} |{{end}}
{{end}}
{{- end}}

## MDS embedding

Classical MDS keeps {{.MDS.EffectiveDims}} informative axes.
Explained proportion of the positive eigenvalue mass:
{{- range $i, $p := .MDS.ExplainedProportion}}{{if $i}},{{end}} axis {{inc $i}}: {{pct $p}}{{end}}.

## Figures

{{range .Figures -}}
- {{.}}
{{end}}`
