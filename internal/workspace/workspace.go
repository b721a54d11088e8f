// Package workspace owns the on-disk layout of a benchmark workspace:
// per-run directories, step logs, visualization output, reports, and the
// run-history database.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Subdirectories created under the workspace root.
const (
	RunsDir   = "runs"
	LogsDir   = "logs"
	VizDir    = "visualizations"
	ReportDir = "reports"
)

// DBFilename is the run-history SQLite database inside the workspace.
const DBFilename = "mscorebench.db"

// Workspace resolves paths under a single benchmark root directory.
type Workspace struct {
	Root string
}

// New returns a Workspace rooted at dir. It does not touch the filesystem;
// call EnsureLayout before writing anything.
func New(dir string) *Workspace {
	return &Workspace{Root: dir}
}

// EnsureLayout creates the workspace root and its standard subdirectories.
// Idempotent.
func (w *Workspace) EnsureLayout() error {
	for _, d := range []string{w.Root, w.RunsRoot(), w.LogsRoot(), w.VizRoot(), w.ReportsRoot()} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("create workspace dir %s: %w", d, err)
		}
	}
	return nil
}

// Clean removes derived directories (runs, logs, visualizations, reports)
// and the run-history DB. The workspace root itself and anything else in it
// (e.g. a dataset) is left alone.
func (w *Workspace) Clean() error {
	for _, d := range []string{w.RunsRoot(), w.LogsRoot(), w.VizRoot(), w.ReportsRoot()} {
		if err := os.RemoveAll(d); err != nil {
			return fmt.Errorf("clean %s: %w", d, err)
		}
	}
	if err := os.Remove(w.DBPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clean %s: %w", w.DBPath(), err)
	}
	return nil
}

func (w *Workspace) RunsRoot() string    { return filepath.Join(w.Root, RunsDir) }
func (w *Workspace) LogsRoot() string    { return filepath.Join(w.Root, LogsDir) }
func (w *Workspace) VizRoot() string     { return filepath.Join(w.Root, VizDir) }
func (w *Workspace) ReportsRoot() string { return filepath.Join(w.Root, ReportDir) }

// DBPath returns the run-history database path.
func (w *Workspace) DBPath() string { return filepath.Join(w.Root, DBFilename) }

// RunDir returns the per-run directory holding results.json, analysis.json
// and state.json for one run.
func (w *Workspace) RunDir(runID string) string {
	return filepath.Join(w.RunsRoot(), runID)
}

// EnsureRunDir creates the per-run directory (and its visualization dir).
func (w *Workspace) EnsureRunDir(runID string) (string, error) {
	dir := w.RunDir(runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}
	if err := os.MkdirAll(w.RunVizDir(runID), 0755); err != nil {
		return "", fmt.Errorf("create run viz dir: %w", err)
	}
	return dir, nil
}

// RunVizDir returns the per-run visualization output directory.
func (w *Workspace) RunVizDir(runID string) string {
	return filepath.Join(w.VizRoot(), runID)
}

// StepLogPath returns the log file for one step of one run.
func (w *Workspace) StepLogPath(runID, step string) string {
	return filepath.Join(w.LogsRoot(), fmt.Sprintf("%s-%s.log", runID, step))
}

// ResultsPath, AnalysisPath, and StatePath name the per-run artifacts.
func (w *Workspace) ResultsPath(runID string) string {
	return filepath.Join(w.RunDir(runID), "results.json")
}

func (w *Workspace) AnalysisPath(runID string) string {
	return filepath.Join(w.RunDir(runID), "analysis.json")
}

func (w *Workspace) StatePath(runID string) string {
	return filepath.Join(w.RunDir(runID), "state.json")
}

// ReportPath returns the PDF report path for a run.
func (w *Workspace) ReportPath(runID string) string {
	return filepath.Join(w.ReportsRoot(), runID+".pdf")
}

// NewRunID returns a timestamp-based run ID, unique within this workspace.
// A same-second collision gets a numeric suffix.
func (w *Workspace) NewRunID(now time.Time) string {
	base := now.UTC().Format("20060102-150405")
	id := base
	for n := 2; ; n++ {
		if _, err := os.Stat(w.RunDir(id)); os.IsNotExist(err) {
			return id
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
}

// ListRunIDs returns the run directories present in the workspace, sorted by
// name (which sorts by start time given the ID format).
func (w *Workspace) ListRunIDs() ([]string, error) {
	entries, err := os.ReadDir(w.RunsRoot())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list runs: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}
