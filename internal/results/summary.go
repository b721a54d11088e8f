package results

import (
	"sort"
	"time"

	"mscorebench/internal/format"
)

// ExperimentTable renders an experiment results summary.
func ExperimentTable(res *ExperimentResults, mode format.Mode) string {
	tb := format.NewTable(mode)
	tb.Header("Metric", "Value")
	tb.Row("Samples", format.FmtCount(res.TotalSamples))
	tb.Row("Correct", format.FmtCount(res.Correct))
	tb.Row("Accuracy", format.FmtPercent(res.Accuracy))
	if res.DurationSeconds >= 0 {
		tb.Row("Duration", format.FmtDuration(time.Duration(res.DurationSeconds)*time.Second))
	}
	return tb.String()
}

// AnalysisTables renders the overall, per-domain, and per-agent breakdowns.
func AnalysisTables(a *Analysis, mode format.Mode) string {
	out := metricTable("Overall", map[string]Metric{"overall": a.Overall}, mode)
	if len(a.PerDomain) > 0 {
		out += "\n" + metricTable("Domain", a.PerDomain, mode)
	}
	if len(a.PerAgent) > 0 {
		out += "\n" + metricTable("Agent", a.PerAgent, mode)
	}
	return out
}

func metricTable(label string, metrics map[string]Metric, mode format.Mode) string {
	tb := format.NewTable(mode)
	tb.Header(label, "Accuracy", "Samples")
	tb.Columns(
		format.ColumnConfig{Number: 2, Align: format.AlignRight},
		format.ColumnConfig{Number: 3, Align: format.AlignRight},
	)
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m := metrics[k]
		tb.Row(k, format.FmtPercent(m.Accuracy), format.FmtCount(m.Samples))
	}
	return tb.String()
}
