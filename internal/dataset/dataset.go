// Package dataset reads the MSCoRe benchmark file and converts its examples
// to the input shape the external MaAS scripts consume. Only the file
// contract lives here; all reasoning over the examples belongs to MaAS.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
)

// Defaults applied when an example omits the optional fields.
const (
	DefaultDomain     = "general"
	DefaultDifficulty = "medium"
)

// Example is one MSCoRe benchmark item.
type Example struct {
	ID             string   `json:"id"`
	Question       string   `json:"question"`
	Answer         string   `json:"answer"`
	ReasoningSteps []string `json:"reasoning_steps,omitempty"`
	Domain         string   `json:"domain,omitempty"`
	Difficulty     string   `json:"difficulty,omitempty"`
}

// Dataset is the top-level MSCoRe file shape.
type Dataset struct {
	Examples []Example `json:"examples"`
}

// Load reads and parses the dataset file, applying field defaults.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	for i := range ds.Examples {
		if ds.Examples[i].Domain == "" {
			ds.Examples[i].Domain = DefaultDomain
		}
		if ds.Examples[i].Difficulty == "" {
			ds.Examples[i].Difficulty = DefaultDifficulty
		}
	}
	return &ds, nil
}

// Validate checks the fields the MaAS adapter requires on every example.
// All problems are reported, not just the first.
func (ds *Dataset) Validate() error {
	var problems []string
	if len(ds.Examples) == 0 {
		problems = append(problems, "dataset has no examples")
	}
	seen := make(map[string]int, len(ds.Examples))
	for i, ex := range ds.Examples {
		if ex.ID == "" {
			problems = append(problems, fmt.Sprintf("example %d: missing id", i))
		} else if prev, dup := seen[ex.ID]; dup {
			problems = append(problems, fmt.Sprintf("example %d: duplicate id %q (first at %d)", i, ex.ID, prev))
		} else {
			seen[ex.ID] = i
		}
		if ex.Question == "" {
			problems = append(problems, fmt.Sprintf("example %d: missing question", i))
		}
		if ex.Answer == "" {
			problems = append(problems, fmt.Sprintf("example %d: missing answer", i))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid dataset: %d problem(s): %v", len(problems), problems)
	}
	return nil
}

// Summary aggregates counts for display.
type Summary struct {
	Total         int
	PerDomain     map[string]int
	PerDifficulty map[string]int
}

// Summarize computes per-domain and per-difficulty counts.
func (ds *Dataset) Summarize() Summary {
	s := Summary{
		Total:         len(ds.Examples),
		PerDomain:     make(map[string]int),
		PerDifficulty: make(map[string]int),
	}
	for _, ex := range ds.Examples {
		s.PerDomain[ex.Domain]++
		s.PerDifficulty[ex.Difficulty]++
	}
	return s
}
