package store

// Run is one recorded benchmark run (a pipeline invocation or a single step
// executed standalone).
type Run struct {
	ID         string // workspace run ID (timestamp-based)
	StartedAt  string // ISO 8601
	FinishedAt string // ISO 8601; empty while running
	Status     string // running, done, failed, canceled
	Dataset    string
	Agents     string
	Samples    int
	MaxTime    int
}

// Step is one pipeline step execution within a run.
type Step struct {
	RunID      string
	Name       string // setup, run, analyze, visualize, report
	Status     string // pending, running, done, failed, skipped
	ExitCode   int
	Attempts   int
	StartedAt  string
	FinishedAt string
	LogPath    string
	OutputPath string
}

// Store is the run-history persistence facade. The CLI and the pipeline
// runner use only this interface; implementation is SQLite or in-memory.
type Store interface {
	CreateRun(r *Run) error
	FinishRun(runID, status string) error
	GetRun(runID string) (*Run, error)
	ListRuns() ([]*Run, error)
	// RecordStep inserts or replaces the step row for (run, name).
	RecordStep(s *Step) error
	ListSteps(runID string) ([]*Step, error)
	Close() error
}
