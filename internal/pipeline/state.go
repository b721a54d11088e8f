package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Step statuses.
const (
	StatusPending = "pending"
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// ErrNoState is returned when resuming a run that has no state file.
var ErrNoState = errors.New("no pipeline state")

// StepState tracks one step's progress within a run.
type StepState struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	ExitCode   int    `json:"exit_code"`
	Attempts   int    `json:"attempts"`
	StartedAt  string `json:"started_at,omitempty"`
	FinishedAt string `json:"finished_at,omitempty"`
	LogPath    string `json:"log_path,omitempty"`
	OutputPath string `json:"output_path,omitempty"`
}

// RunState is the per-run pipeline state, persisted to state.json in the run
// directory after every transition so an interrupted pipeline can resume.
type RunState struct {
	RunID   string       `json:"run_id"`
	Agents  string       `json:"agents"`
	Status  string       `json:"status"` // running, done, failed, canceled
	Steps   []*StepState `json:"steps"`
	Started string       `json:"started_at"`
}

// InitState creates a fresh RunState with all definition steps pending.
func InitState(runID, agents string) *RunState {
	st := &RunState{
		RunID:   runID,
		Agents:  agents,
		Status:  "running",
		Started: time.Now().UTC().Format(time.RFC3339),
	}
	for _, s := range Definition() {
		st.Steps = append(st.Steps, &StepState{Name: s.Name, Status: StatusPending})
	}
	return st
}

// Step returns the named step state, or nil.
func (rs *RunState) Step(name string) *StepState {
	for _, s := range rs.Steps {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// FirstUnfinished returns the name of the first step that is not done, or ""
// when the pipeline is complete.
func (rs *RunState) FirstUnfinished() string {
	for _, s := range rs.Steps {
		if s.Status != StatusDone {
			return s.Name
		}
	}
	return ""
}

// LoadState reads the persisted state from statePath. Returns ErrNoState if
// the file does not exist.
func LoadState(statePath string) (*RunState, error) {
	data, err := os.ReadFile(statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoState
		}
		return nil, fmt.Errorf("read state: %w", err)
	}
	var rs RunState
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", statePath, err)
	}
	return &rs, nil
}

// SaveState persists the run state. Written atomically via a temp file so a
// crash mid-write never leaves a truncated state.json behind.
func SaveState(statePath string, rs *RunState) error {
	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	tmp := statePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, statePath); err != nil {
		return fmt.Errorf("commit state: %w", err)
	}
	return nil
}
