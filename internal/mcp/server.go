package mcp

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"mscorebench/internal/config"
	"mscorebench/internal/format"
	"mscorebench/internal/logging"
	"mscorebench/internal/pipeline"
	"mscorebench/internal/results"
	"mscorebench/internal/store"
	"mscorebench/internal/workspace"
)

// Server wraps the MCP SDK server and manages pipeline sessions. One
// pipeline session runs at a time; start_pipeline with force replaces it.
type Server struct {
	MCPServer *sdkmcp.Server
	Cfg       *config.Config
	WS        *workspace.Workspace
	Store     store.Store // optional; nil disables run history

	// Exec and Interpreter are test seams passed through to sessions.
	Exec        pipeline.CommandRunner
	Interpreter string

	mu      sync.Mutex
	session *Session
}

// NewServer creates an MCP server exposing the pipeline tools. The store
// may be nil, in which case list_runs falls back to scanning run state
// files under the workspace.
func NewServer(cfg *config.Config, st store.Store) *Server {
	s := &Server{
		Cfg:   cfg,
		WS:    workspace.New(cfg.Workspace),
		Store: st,
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "mscorebench", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

// ActiveSession returns the current session, or nil.
func (s *Server) ActiveSession() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Shutdown cancels any active session. It does not close the store; the
// caller owns it.
func (s *Server) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		s.session.Cancel()
		s.session = nil
	}
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "start_pipeline",
		Description: "Start the experiment pipeline (run, analyze, visualize, report). Spawns the runner goroutine and returns a session ID.",
	}, s.handleStartPipeline)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_status",
		Description: "Get per-step status for a run. Defaults to the active session's run.",
	}, s.handleGetStatus)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_run_report",
		Description: "Get the analysis summary for a finished run as Markdown tables.",
	}, s.handleGetRunReport)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_runs",
		Description: "List known runs, newest first.",
	}, s.handleListRuns)
}

// --- Tool input/output types ---

type startPipelineInput struct {
	Agents    string `json:"agents,omitempty" jsonschema:"comma-separated agent list (default: configured agents)"`
	RunID     string `json:"run_id,omitempty" jsonschema:"existing run ID to resume or re-execute"`
	Resume    bool   `json:"resume,omitempty" jsonschema:"skip steps already done in the run's state file"`
	KeepGoing bool   `json:"keep_going,omitempty" jsonschema:"continue past failed steps"`
	Force     bool   `json:"force,omitempty" jsonschema:"cancel any active session and start fresh"`
}

type startPipelineOutput struct {
	SessionID string `json:"session_id"`
	RunID     string `json:"run_id"`
	Status    string `json:"status"`
}

type getStatusInput struct {
	RunID string `json:"run_id,omitempty" jsonschema:"run ID (default: active session's run)"`
}

type stepStatus struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	ExitCode int    `json:"exit_code"`
	Attempts int    `json:"attempts"`
	LogPath  string `json:"log_path,omitempty"`
}

type getStatusOutput struct {
	RunID   string       `json:"run_id"`
	Status  string       `json:"status"`
	Session string       `json:"session_state,omitempty"`
	Steps   []stepStatus `json:"steps"`
	Error   string       `json:"error,omitempty"`
}

type getRunReportInput struct {
	RunID string `json:"run_id" jsonschema:"run ID from start_pipeline or list_runs"`
}

type getRunReportOutput struct {
	RunID           string  `json:"run_id"`
	Report          string  `json:"report"`
	OverallAccuracy float64 `json:"overall_accuracy"`
	Samples         int     `json:"samples"`
}

type listRunsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"max runs to return (0 = all)"`
}

type runInfo struct {
	RunID     string `json:"run_id"`
	Status    string `json:"status"`
	Agents    string `json:"agents,omitempty"`
	StartedAt string `json:"started_at,omitempty"`
}

type listRunsOutput struct {
	Runs  []runInfo `json:"runs"`
	Total int       `json:"total"`
}

// --- Tool handlers ---

func (s *Server) handleStartPipeline(ctx context.Context, _ *sdkmcp.CallToolRequest, input startPipelineInput) (*sdkmcp.CallToolResult, startPipelineOutput, error) {
	logger := logging.New("mcp-session")
	s.mu.Lock()
	if s.session != nil {
		select {
		case <-s.session.Done():
			logger.Info("replacing finished session", "old_id", s.session.ID)
			s.session.Cancel()
		default:
			if input.Force {
				logger.Warn("force-replacing active session", "old_id", s.session.ID)
				s.session.Cancel()
			} else {
				s.mu.Unlock()
				return nil, startPipelineOutput{}, fmt.Errorf("a pipeline session is already running (id=%s)", s.session.ID)
			}
		}
	}
	s.session = nil
	s.mu.Unlock()

	sess, err := NewSession(StartPipelineConfig{
		Cfg:       s.Cfg,
		WS:        s.WS,
		Store:     s.Store,
		RunID:     input.RunID,
		Agents:    input.Agents,
		Resume:    input.Resume,
		KeepGoing: input.KeepGoing,

		Exec:        s.Exec,
		Interpreter: s.Interpreter,
	})
	if err != nil {
		return nil, startPipelineOutput{}, fmt.Errorf("start pipeline: %w", err)
	}

	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()

	return nil, startPipelineOutput{
		SessionID: sess.ID,
		RunID:     sess.RunID,
		Status:    string(StateRunning),
	}, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *sdkmcp.CallToolRequest, input getStatusInput) (*sdkmcp.CallToolResult, getStatusOutput, error) {
	runID := input.RunID
	var sess *Session
	s.mu.Lock()
	if s.session != nil && (runID == "" || runID == s.session.RunID) {
		sess = s.session
	}
	s.mu.Unlock()
	if runID == "" {
		if sess == nil {
			return nil, getStatusOutput{}, fmt.Errorf("no active session; pass run_id")
		}
		runID = sess.RunID
	}

	state, err := pipeline.LoadState(s.WS.StatePath(runID))
	if err != nil {
		if errors.Is(err, pipeline.ErrNoState) {
			return nil, getStatusOutput{}, fmt.Errorf("run %s has no recorded state", runID)
		}
		return nil, getStatusOutput{}, err
	}

	out := getStatusOutput{RunID: runID, Status: state.Status}
	for _, ss := range state.Steps {
		out.Steps = append(out.Steps, stepStatus{
			Name:     ss.Name,
			Status:   ss.Status,
			ExitCode: ss.ExitCode,
			Attempts: ss.Attempts,
			LogPath:  ss.LogPath,
		})
	}
	if sess != nil {
		out.Session = string(sess.GetState())
		if err := sess.Err(); err != nil {
			out.Error = err.Error()
		}
	}
	return nil, out, nil
}

func (s *Server) handleGetRunReport(_ context.Context, _ *sdkmcp.CallToolRequest, input getRunReportInput) (*sdkmcp.CallToolResult, getRunReportOutput, error) {
	if input.RunID == "" {
		return nil, getRunReportOutput{}, fmt.Errorf("run_id is required")
	}
	a, err := results.LoadAnalysis(s.WS.AnalysisPath(input.RunID))
	if err != nil {
		return nil, getRunReportOutput{}, fmt.Errorf("run %s: %w", input.RunID, err)
	}
	return nil, getRunReportOutput{
		RunID:           input.RunID,
		Report:          results.AnalysisTables(a, format.Markdown),
		OverallAccuracy: a.Overall.Accuracy,
		Samples:         a.Overall.Samples,
	}, nil
}

func (s *Server) handleListRuns(_ context.Context, _ *sdkmcp.CallToolRequest, input listRunsInput) (*sdkmcp.CallToolResult, listRunsOutput, error) {
	var infos []runInfo
	if s.Store != nil {
		runs, err := s.Store.ListRuns()
		if err != nil {
			return nil, listRunsOutput{}, err
		}
		// ListRuns is oldest-first; clients want the newest on top.
		for i := len(runs) - 1; i >= 0; i-- {
			r := runs[i]
			infos = append(infos, runInfo{
				RunID:     r.ID,
				Status:    r.Status,
				Agents:    r.Agents,
				StartedAt: r.StartedAt,
			})
		}
	} else {
		ids, err := s.WS.ListRunIDs()
		if err != nil {
			return nil, listRunsOutput{}, err
		}
		// Newest first; run IDs are timestamp-ordered.
		for i := len(ids) - 1; i >= 0; i-- {
			info := runInfo{RunID: ids[i], Status: "unknown"}
			if st, err := pipeline.LoadState(s.WS.StatePath(ids[i])); err == nil {
				info.Status = st.Status
				info.Agents = st.Agents
				info.StartedAt = st.Started
			}
			infos = append(infos, info)
		}
	}

	total := len(infos)
	if input.Limit > 0 && len(infos) > input.Limit {
		infos = infos[:input.Limit]
	}
	return nil, listRunsOutput{Runs: infos, Total: total}, nil
}
