// Package results reads the JSON artifacts the external MaAS scripts
// produce. Their schemas are owned by those scripts, so decoding is
// deliberately tolerant: known fields are read when present, unknown fields
// are ignored, and absent metrics render as missing rather than zero.
package results

import (
	"encoding/json"
	"fmt"
	"os"
)

// Metric is an accuracy/sample-count pair. Accuracy is a 0..1 fraction;
// -1 marks a value the file did not carry.
type Metric struct {
	Accuracy float64 `json:"accuracy"`
	Samples  int     `json:"samples"`
}

// ExperimentResults mirrors the known fields of experiment_results.json.
type ExperimentResults struct {
	TotalSamples    int                `json:"total_samples"`
	Correct         int                `json:"correct"`
	Accuracy        float64            `json:"accuracy"`
	DurationSeconds float64            `json:"duration_seconds"`
	PerAgent        map[string]Metric  `json:"per_agent"`
}

// Analysis mirrors the known fields of analysis_report.json.
type Analysis struct {
	Overall   Metric            `json:"overall"`
	PerDomain map[string]Metric `json:"per_domain"`
	PerAgent  map[string]Metric `json:"per_agent"`
}

// LoadExperiment reads a results file. Fields the file omits stay at their
// missing markers.
func LoadExperiment(path string) (*ExperimentResults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	res := ExperimentResults{Accuracy: -1, DurationSeconds: -1}
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parse results %s: %w", path, err)
	}
	return &res, nil
}

// LoadAnalysis reads an analysis file.
func LoadAnalysis(path string) (*Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read analysis: %w", err)
	}
	a := Analysis{Overall: Metric{Accuracy: -1}}
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse analysis %s: %w", path, err)
	}
	return &a, nil
}
