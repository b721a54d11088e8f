package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// SweepResult maps each agent to its final run state.
type SweepResult struct {
	mu     sync.Mutex
	states map[string]*RunState
}

// State returns the run state for one agent (nil if it never started).
func (sr *SweepResult) State(agent string) *RunState {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	return sr.states[agent]
}

// Agents lists agents with recorded states.
func (sr *SweepResult) Agents() []string {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	agents := make([]string, 0, len(sr.states))
	for a := range sr.states {
		agents = append(agents, a)
	}
	return agents
}

// RunSweep runs one full pipeline per agent, at most parallel at a time.
// Each member run stays strictly sequential internally; only whole runs
// overlap. Run IDs are baseID-<agent>. A member failure does not cancel its
// siblings; the joined error reports every failed agent.
func (r *Runner) RunSweep(ctx context.Context, baseID string, agents []string, parallel int, opts Options) (*SweepResult, error) {
	if len(agents) == 0 {
		return nil, fmt.Errorf("sweep: no agents")
	}
	if parallel < 1 {
		parallel = 1
	}

	result := &SweepResult{states: make(map[string]*RunState, len(agents))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	var mu sync.Mutex
	var failed []string

	for _, agent := range agents {
		agent := agent
		g.Go(func() error {
			rc := RunContext{
				RunID:  fmt.Sprintf("%s-%s", baseID, agent),
				Cfg:    r.Cfg,
				WS:     r.WS,
				Agents: agent,
			}
			state, err := r.RunPipeline(gctx, rc, opts)

			result.mu.Lock()
			result.states[agent] = state
			result.mu.Unlock()

			if err != nil {
				r.logger().Warn("sweep member failed", "agent", agent, "err", err)
				mu.Lock()
				failed = append(failed, agent)
				mu.Unlock()
				// Member failures are collected, not propagated, so the
				// other agents keep running.
				if gctx.Err() != nil {
					return gctx.Err()
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, fmt.Errorf("sweep canceled: %w", err)
	}
	if len(failed) > 0 {
		return result, fmt.Errorf("%w: agents %v", ErrStepFailed, failed)
	}
	return result, nil
}
