// Package report renders a benchmark report in-process from the analysis
// file, for hosts where create_report.py or its Python stack is unavailable.
// It only formats numbers the analysis already contains.
package report

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"text/template"
	"time"

	"mscorebench/internal/format"
	"mscorebench/internal/results"
)

// Data is the template context for one report.
type Data struct {
	RunID       string
	GeneratedAt string
	Overall     Row
	PerDomain   []Row
	PerAgent    []Row
}

// Row is one rendered metric line.
type Row struct {
	Label    string
	Accuracy string
	Samples  string
}

// defaultTemplate is the built-in HTML report, used when no template file is
// given. Kept print-friendly for the PDF pass.
const defaultTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>MSCoRe benchmark report {{.RunID}}</title>
<style>
body { font-family: Georgia, serif; margin: 3em; color: #1a1a1a; }
h1 { border-bottom: 2px solid #444; padding-bottom: 0.3em; }
table { border-collapse: collapse; margin: 1.5em 0; }
th, td { border: 1px solid #999; padding: 0.4em 1em; text-align: left; }
th { background: #eee; }
.meta { color: #666; font-size: 0.9em; }
</style>
</head>
<body>
<h1>MSCoRe benchmark report</h1>
<p class="meta">Run {{.RunID}} · generated {{.GeneratedAt}}</p>

<h2>Overall</h2>
<table>
<tr><th>Accuracy</th><th>Samples</th></tr>
<tr><td>{{.Overall.Accuracy}}</td><td>{{.Overall.Samples}}</td></tr>
</table>

{{if .PerDomain}}
<h2>By domain</h2>
<table>
<tr><th>Domain</th><th>Accuracy</th><th>Samples</th></tr>
{{range .PerDomain}}<tr><td>{{.Label}}</td><td>{{.Accuracy}}</td><td>{{.Samples}}</td></tr>
{{end}}</table>
{{end}}

{{if .PerAgent}}
<h2>By agent</h2>
<table>
<tr><th>Agent</th><th>Accuracy</th><th>Samples</th></tr>
{{range .PerAgent}}<tr><td>{{.Label}}</td><td>{{.Accuracy}}</td><td>{{.Samples}}</td></tr>
{{end}}</table>
{{end}}

</body>
</html>
`

// BuildData converts an analysis into the template context.
func BuildData(runID string, a *results.Analysis, now time.Time) Data {
	return Data{
		RunID:       runID,
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Overall: Row{
			Accuracy: format.FmtPercent(a.Overall.Accuracy),
			Samples:  format.FmtCount(a.Overall.Samples),
		},
		PerDomain: metricRows(a.PerDomain),
		PerAgent:  metricRows(a.PerAgent),
	}
}

func metricRows(metrics map[string]results.Metric) []Row {
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([]Row, 0, len(keys))
	for _, k := range keys {
		m := metrics[k]
		rows = append(rows, Row{
			Label:    k,
			Accuracy: format.FmtPercent(m.Accuracy),
			Samples:  format.FmtCount(m.Samples),
		})
	}
	return rows
}

// RenderHTML executes the report template (templatePath, or the built-in
// default when empty) with the given data.
func RenderHTML(data Data, templatePath string) (string, error) {
	tmplStr := defaultTemplate
	name := "report"
	if templatePath != "" {
		raw, err := os.ReadFile(templatePath)
		if err != nil {
			return "", fmt.Errorf("read report template: %w", err)
		}
		tmplStr = string(raw)
		name = templatePath
	}

	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("parse report template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute report template %s: %w", name, err)
	}
	return buf.String(), nil
}

// WriteHTML renders and writes the report HTML file.
func WriteHTML(data Data, templatePath, outPath string) error {
	html, err := RenderHTML(data, templatePath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, []byte(html), 0644); err != nil {
		return fmt.Errorf("write report html: %w", err)
	}
	return nil
}
