package mcp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"mscorebench/internal/config"
	"mscorebench/internal/logging"
	"mscorebench/internal/pipeline"
	"mscorebench/internal/store"
	"mscorebench/internal/workspace"
)

// SessionState tracks the lifecycle of a pipeline session.
type SessionState string

const (
	StateRunning SessionState = "running"
	StateDone    SessionState = "done"
	StateError   SessionState = "error"
)

// Session holds one pipeline execution driven by MCP tool calls. The
// pipeline runs in a background goroutine; tools observe it through the
// persisted state file and the session's final snapshot.
type Session struct {
	ID    string
	RunID string

	state  SessionState
	final  *pipeline.RunState
	err    error
	doneCh chan struct{}
	cancel context.CancelFunc

	mu sync.Mutex
}

// StartPipelineConfig carries everything NewSession needs to spawn a run.
type StartPipelineConfig struct {
	Cfg   *config.Config
	WS    *workspace.Workspace
	Store store.Store // optional; nil disables run history

	// RunID resumes or re-executes an existing run when set. Empty mints
	// a fresh ID.
	RunID     string
	Agents    string // overrides Cfg.Agents when non-empty
	Resume    bool
	KeepGoing bool

	// Exec and Interpreter are test seams; zero values use the real
	// process runner and the configured Python.
	Exec        pipeline.CommandRunner
	Interpreter string
}

// NewSession spawns the pipeline runner goroutine and returns immediately.
func NewSession(in StartPipelineConfig) (*Session, error) {
	runID := in.RunID
	if runID == "" {
		if in.Resume {
			return nil, fmt.Errorf("resume requires run_id")
		}
		runID = in.WS.NewRunID(time.Now())
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:     uuid.NewString(),
		RunID:  runID,
		state:  StateRunning,
		doneCh: make(chan struct{}),
		cancel: cancel,
	}
	runner := &pipeline.Runner{
		Cfg:         in.Cfg,
		WS:          in.WS,
		Store:       in.Store,
		Exec:        in.Exec,
		Interpreter: in.Interpreter,
		Log:         logging.New("mcp-session"),
	}
	go s.run(runCtx, runner, in)
	return s, nil
}

func (s *Session) run(ctx context.Context, runner *pipeline.Runner, in StartPipelineConfig) {
	defer close(s.doneCh)
	defer s.cancel()

	rc := pipeline.RunContext{RunID: s.RunID, Cfg: in.Cfg, WS: in.WS, Agents: in.Agents}
	state, err := runner.RunPipeline(ctx, rc, pipeline.Options{
		Resume:    in.Resume,
		KeepGoing: in.KeepGoing,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.final = state
	if err != nil {
		s.state = StateError
		s.err = err
		return
	}
	s.state = StateDone
}

// GetState returns the current session state in a thread-safe manner.
func (s *Session) GetState() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// FinalState returns the run state snapshot taken when the pipeline
// finished, or nil while it is still running.
func (s *Session) FinalState() *pipeline.RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.final
}

// Err returns the terminal error, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Done is closed when the pipeline goroutine exits.
func (s *Session) Done() <-chan struct{} {
	return s.doneCh
}

// Cancel aborts the running pipeline. Safe to call more than once.
func (s *Session) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}
