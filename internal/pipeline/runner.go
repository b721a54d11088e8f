package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mscorebench/internal/config"
	"mscorebench/internal/logging"
	"mscorebench/internal/store"
	"mscorebench/internal/workspace"
)

// ErrStepFailed is returned when a step exhausts its attempts. The run state
// carries the per-step detail.
var ErrStepFailed = errors.New("pipeline step failed")

// Options control one pipeline execution.
type Options struct {
	// Resume skips steps already done in a persisted state.json.
	Resume bool
	// KeepGoing continues past failed steps (the original wrapper's
	// behavior; off by default).
	KeepGoing bool
}

// Runner executes pipeline steps for one workspace.
type Runner struct {
	Cfg         *config.Config
	WS          *workspace.Workspace
	Store       store.Store   // optional; nil disables run history
	Exec        CommandRunner // nil = OSRunner
	Interpreter string        // python executable; empty = Cfg.Python
	Log         *slog.Logger
}

func (r *Runner) exec() CommandRunner {
	if r.Exec != nil {
		return r.Exec
	}
	return OSRunner{}
}

func (r *Runner) logger() *slog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return logging.New("pipeline")
}

func (r *Runner) interpreter() string {
	if r.Interpreter != "" {
		return r.Interpreter
	}
	return r.Cfg.Python
}

// RunPipeline executes every pipeline step in order for rc.RunID and returns
// the final state. The returned error is ErrStepFailed-wrapped when any step
// failed, even with KeepGoing set.
func (r *Runner) RunPipeline(ctx context.Context, rc RunContext, opts Options) (*RunState, error) {
	names := make([]string, 0, 4)
	for _, s := range Definition() {
		names = append(names, s.Name)
	}
	return r.RunSteps(ctx, rc, names, opts)
}

// RunSteps executes the named steps in definition order, honoring resume,
// retries, per-step timeout, and keep-going semantics.
func (r *Runner) RunSteps(ctx context.Context, rc RunContext, names []string, opts Options) (*RunState, error) {
	if _, err := r.WS.EnsureRunDir(rc.RunID); err != nil {
		return nil, err
	}

	state, err := r.loadOrInitState(rc, opts)
	if err != nil {
		return nil, err
	}
	if err := r.ensureRunRecord(rc); err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var failed []string
	for _, step := range Definition() {
		if !wanted[step.Name] {
			continue
		}
		ss := state.Step(step.Name)
		if opts.Resume && ss.Status == StatusDone {
			r.logger().Info("step already done, skipping", "run", rc.RunID, "step", step.Name)
			continue
		}
		if err := ctx.Err(); err != nil {
			state.Status = "canceled"
			_ = SaveState(r.WS.StatePath(rc.RunID), state)
			r.finishRun(rc.RunID, "canceled")
			return state, fmt.Errorf("pipeline canceled: %w", err)
		}

		err := r.runStep(ctx, rc, step, state)
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			state.Status = "canceled"
			_ = SaveState(r.WS.StatePath(rc.RunID), state)
			r.finishRun(rc.RunID, "canceled")
			return state, fmt.Errorf("pipeline canceled during %s: %w", step.Name, ctx.Err())
		}
		failed = append(failed, step.Name)
		if !opts.KeepGoing && !r.Cfg.KeepGoing {
			break
		}
		r.logger().Warn("continuing past failed step", "run", rc.RunID, "step", step.Name)
	}

	if len(failed) > 0 {
		state.Status = StatusFailed
	} else {
		state.Status = StatusDone
	}
	if err := SaveState(r.WS.StatePath(rc.RunID), state); err != nil {
		return state, err
	}
	r.finishRun(rc.RunID, state.Status)

	if len(failed) > 0 {
		return state, fmt.Errorf("%w: %v", ErrStepFailed, failed)
	}
	return state, nil
}

// runStep executes one step with retries, updating state and store around
// every transition.
func (r *Runner) runStep(ctx context.Context, rc RunContext, step Step, state *RunState) error {
	ss := state.Step(step.Name)
	ss.Status = StatusRunning
	ss.StartedAt = time.Now().UTC().Format(time.RFC3339)
	ss.LogPath = r.WS.StepLogPath(rc.RunID, step.Name)
	if step.Output != nil {
		ss.OutputPath = step.Output(rc)
	}
	r.persistStep(rc.RunID, state, ss)

	spec := CommandSpec{
		Path:    r.interpreter(),
		Args:    append([]string{step.ScriptPath(rc.Cfg)}, step.Args(rc)...),
		LogPath: ss.LogPath,
	}

	attempts := 1 + r.Cfg.Retries
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		ss.Attempts = attempt
		r.logger().Info("invoking step",
			"run", rc.RunID, "step", step.Name, "script", step.Script, "attempt", attempt)

		stepCtx := ctx
		var cancel context.CancelFunc
		if d := r.Cfg.StepTimeout.Std(); d > 0 {
			stepCtx, cancel = context.WithTimeout(ctx, d)
		}
		code, err := r.exec().Run(stepCtx, spec)
		if cancel != nil {
			cancel()
		}
		ss.ExitCode = code
		if err == nil {
			ss.Status = StatusDone
			ss.FinishedAt = time.Now().UTC().Format(time.RFC3339)
			r.persistStep(rc.RunID, state, ss)
			r.logger().Info("step done", "run", rc.RunID, "step", step.Name)
			return nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		r.logger().Warn("step attempt failed",
			"run", rc.RunID, "step", step.Name, "attempt", attempt, "exit_code", code, "err", err)
	}

	ss.Status = StatusFailed
	ss.FinishedAt = time.Now().UTC().Format(time.RFC3339)
	r.persistStep(rc.RunID, state, ss)

	for _, line := range TailFile(ss.LogPath, 5) {
		r.logger().Error("step log tail", "step", step.Name, "line", line)
	}
	return fmt.Errorf("step %s: %w", step.Name, lastErr)
}

func (r *Runner) loadOrInitState(rc RunContext, opts Options) (*RunState, error) {
	statePath := r.WS.StatePath(rc.RunID)
	if opts.Resume {
		state, err := LoadState(statePath)
		if err == nil {
			return state, nil
		}
		if !errors.Is(err, ErrNoState) {
			return nil, err
		}
		// No state yet: resume degrades to a fresh run.
	}
	state := InitState(rc.RunID, rc.agents())
	if err := SaveState(statePath, state); err != nil {
		return nil, err
	}
	return state, nil
}

// ensureRunRecord creates the store row for this run if missing.
func (r *Runner) ensureRunRecord(rc RunContext) error {
	if r.Store == nil {
		return nil
	}
	existing, err := r.Store.GetRun(rc.RunID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	return r.Store.CreateRun(&store.Run{
		ID:      rc.RunID,
		Dataset: rc.Cfg.Dataset,
		Agents:  rc.agents(),
		Samples: rc.Cfg.Samples,
		MaxTime: rc.Cfg.MaxTime,
	})
}

func (r *Runner) finishRun(runID, status string) {
	if r.Store == nil {
		return
	}
	if err := r.Store.FinishRun(runID, status); err != nil {
		r.logger().Warn("record run finish", "run", runID, "err", err)
	}
}

// persistStep saves state.json and mirrors the step into the store. Both are
// best-effort mid-run; a failed save is logged, not fatal to the child.
func (r *Runner) persistStep(runID string, state *RunState, ss *StepState) {
	if err := SaveState(r.WS.StatePath(runID), state); err != nil {
		r.logger().Warn("save state", "run", runID, "err", err)
	}
	if r.Store == nil {
		return
	}
	err := r.Store.RecordStep(&store.Step{
		RunID:      runID,
		Name:       ss.Name,
		Status:     ss.Status,
		ExitCode:   ss.ExitCode,
		Attempts:   ss.Attempts,
		StartedAt:  ss.StartedAt,
		FinishedAt: ss.FinishedAt,
		LogPath:    ss.LogPath,
		OutputPath: ss.OutputPath,
	})
	if err != nil {
		r.logger().Warn("record step", "run", runID, "step", ss.Name, "err", err)
	}
}
