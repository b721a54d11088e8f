// Package config holds the benchmark configuration: where the MaAS scripts
// and the MSCoRe dataset live, which interpreter drives them, and the
// experiment parameters forwarded to run_experiment.py.
package config

import (
	"fmt"
)

// DefaultPath is the config file looked up in the current directory when
// --config is not given. Both .yaml and .json are accepted.
const DefaultPath = "mscorebench.yaml"

// Config is the full benchmark configuration. Zero values fall back to
// Default(); flags override file values.
type Config struct {
	// Workspace is the root directory for runs, logs, visualizations,
	// reports, and the run-history DB.
	Workspace string `json:"workspace" yaml:"workspace"`

	// Dataset is the MSCoRe dataset JSON passed to run_experiment.py.
	Dataset string `json:"dataset" yaml:"dataset"`

	// ScriptsDir contains the four MaAS pipeline scripts.
	ScriptsDir string `json:"scripts_dir" yaml:"scripts_dir"`

	// Python is the interpreter used to create the venv (and to run steps
	// when no venv exists).
	Python string `json:"python" yaml:"python"`

	// Venv is the virtualenv directory; empty disables venv resolution.
	Venv string `json:"venv" yaml:"venv"`

	// Requirements is the pip requirements file installed into the venv.
	Requirements string `json:"requirements" yaml:"requirements"`

	// Agents, Samples, and MaxTime are forwarded verbatim as --agents,
	// --samples, and --max_time. MaxTime is opaque to the runner; the
	// external script defines its unit (minutes).
	Agents  string `json:"agents" yaml:"agents"`
	Samples int    `json:"samples" yaml:"samples"`
	MaxTime int    `json:"max_time" yaml:"max_time"`

	// StepTimeout bounds each step on the runner side. 0 means no bound.
	StepTimeout Duration `json:"step_timeout" yaml:"step_timeout"`

	// Retries is the number of re-attempts after a nonzero exit.
	Retries int `json:"retries" yaml:"retries"`

	// KeepGoing continues the pipeline past a failed step.
	KeepGoing bool `json:"keep_going" yaml:"keep_going"`

	// ReportTemplate is the Markdown template passed to create_report.py.
	ReportTemplate string `json:"report_template" yaml:"report_template"`
}

// Default returns the configuration matching the original wrapper's
// hard-coded values.
func Default() Config {
	return Config{
		Workspace:      ".mscorebench",
		Dataset:        "data/mscore.json",
		ScriptsDir:     "maas/scripts",
		Python:         "python3",
		Venv:           ".mscorebench/venv",
		Requirements:   "requirements.txt",
		Agents:         "all",
		Samples:        500,
		MaxTime:        10,
		ReportTemplate: "templates/report.md",
	}
}

// Validate checks fields the pipeline cannot run without.
func (c *Config) Validate() error {
	if c.Workspace == "" {
		return fmt.Errorf("config: workspace must not be empty")
	}
	if c.ScriptsDir == "" {
		return fmt.Errorf("config: scripts_dir must not be empty")
	}
	if c.Python == "" {
		return fmt.Errorf("config: python must not be empty")
	}
	if c.Samples < 0 {
		return fmt.Errorf("config: samples must be >= 0, got %d", c.Samples)
	}
	if c.MaxTime < 0 {
		return fmt.Errorf("config: max_time must be >= 0, got %d", c.MaxTime)
	}
	if c.Retries < 0 {
		return fmt.Errorf("config: retries must be >= 0, got %d", c.Retries)
	}
	return nil
}

// applyDefaults fills zero-valued fields from Default(). Booleans and
// durations are left as loaded.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Workspace == "" {
		c.Workspace = d.Workspace
	}
	if c.Dataset == "" {
		c.Dataset = d.Dataset
	}
	if c.ScriptsDir == "" {
		c.ScriptsDir = d.ScriptsDir
	}
	if c.Python == "" {
		c.Python = d.Python
	}
	if c.Venv == "" {
		c.Venv = d.Venv
	}
	if c.Requirements == "" {
		c.Requirements = d.Requirements
	}
	if c.Agents == "" {
		c.Agents = d.Agents
	}
	if c.Samples == 0 {
		c.Samples = d.Samples
	}
	if c.MaxTime == 0 {
		c.MaxTime = d.MaxTime
	}
	if c.ReportTemplate == "" {
		c.ReportTemplate = d.ReportTemplate
	}
}
