// Package pipeline drives the MaAS evaluation pipeline: an ordered list of
// external Python script invocations with the contractually fixed flags.
// The scripts themselves (experiment, analysis, visualization, report) are
// owned by MaAS; this package only sequences them, checks their exit codes,
// and persists per-step state so an interrupted pipeline can resume.
package pipeline

import (
	"fmt"
	"path/filepath"
	"strconv"

	"mscorebench/internal/config"
	"mscorebench/internal/workspace"
)

// Step names, in pipeline order.
const (
	StepRun       = "run"
	StepAnalyze   = "analyze"
	StepVisualize = "visualize"
	StepReport    = "report"
)

// RunContext carries everything argv builders need for one run.
type RunContext struct {
	RunID string
	Cfg   *config.Config
	WS    *workspace.Workspace

	// Agents overrides Cfg.Agents when non-empty (sweep members).
	Agents string
}

func (rc RunContext) agents() string {
	if rc.Agents != "" {
		return rc.Agents
	}
	return rc.Cfg.Agents
}

// ExperimentLogPath is the path handed to run_experiment.py as --log. It is
// the script's own log, separate from the runner's captured stdout/stderr.
func (rc RunContext) ExperimentLogPath() string {
	return rc.WS.StepLogPath(rc.RunID, "experiment")
}

// Step is one external script invocation in the pipeline.
type Step struct {
	Name   string
	Script string
	// Args builds the script's argv (excluding interpreter and script path).
	Args func(rc RunContext) []string
	// Output names the artifact this step is expected to produce; recorded
	// in the store and shown by status. Empty for multi-file outputs.
	Output func(rc RunContext) string
}

// ScriptPath resolves the step's script under the configured scripts dir.
func (s Step) ScriptPath(cfg *config.Config) string {
	return filepath.Join(cfg.ScriptsDir, s.Script)
}

// Definition returns the four pipeline steps in execution order. Flag names
// and defaults follow the documented script contracts.
func Definition() []Step {
	return []Step{
		{
			Name:   StepRun,
			Script: "run_experiment.py",
			Args: func(rc RunContext) []string {
				return []string{
					"--dataset", rc.Cfg.Dataset,
					"--output", rc.WS.ResultsPath(rc.RunID),
					"--log", rc.ExperimentLogPath(),
					"--agents", rc.agents(),
					"--max_time", strconv.Itoa(rc.Cfg.MaxTime),
					"--samples", strconv.Itoa(rc.Cfg.Samples),
				}
			},
			Output: func(rc RunContext) string { return rc.WS.ResultsPath(rc.RunID) },
		},
		{
			Name:   StepAnalyze,
			Script: "analyze_results.py",
			Args: func(rc RunContext) []string {
				return []string{
					"--input", rc.WS.ResultsPath(rc.RunID),
					"--output", rc.WS.AnalysisPath(rc.RunID),
				}
			},
			Output: func(rc RunContext) string { return rc.WS.AnalysisPath(rc.RunID) },
		},
		{
			Name:   StepVisualize,
			Script: "generate_visualizations.py",
			Args: func(rc RunContext) []string {
				return []string{
					"--input", rc.WS.AnalysisPath(rc.RunID),
					"--output_dir", rc.WS.RunVizDir(rc.RunID),
				}
			},
			Output: func(rc RunContext) string { return rc.WS.RunVizDir(rc.RunID) },
		},
		{
			Name:   StepReport,
			Script: "create_report.py",
			Args: func(rc RunContext) []string {
				return []string{
					"--results", rc.WS.AnalysisPath(rc.RunID),
					"--template", rc.Cfg.ReportTemplate,
					"--output", rc.WS.ReportPath(rc.RunID),
				}
			},
			Output: func(rc RunContext) string { return rc.WS.ReportPath(rc.RunID) },
		},
	}
}

// StepByName returns the named step from Definition.
func StepByName(name string) (Step, error) {
	for _, s := range Definition() {
		if s.Name == name {
			return s, nil
		}
	}
	return Step{}, fmt.Errorf("unknown pipeline step %q", name)
}
