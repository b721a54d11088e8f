package store

import (
	"fmt"
	"sort"
	"sync"
)

// MemStore is an in-memory Store for tests and the MCP server's dry paths.
type MemStore struct {
	mu    sync.Mutex
	runs  map[string]*Run
	steps map[string]map[string]*Step // run ID -> step name -> step
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		runs:  make(map[string]*Run),
		steps: make(map[string]map[string]*Step),
	}
}

func (m *MemStore) CreateRun(r *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		return fmt.Errorf("create run: empty run ID")
	}
	if _, exists := m.runs[r.ID]; exists {
		return fmt.Errorf("create run: duplicate run %s", r.ID)
	}
	if r.StartedAt == "" {
		r.StartedAt = nowUTC()
	}
	if r.Status == "" {
		r.Status = "running"
	}
	cp := *r
	m.runs[r.ID] = &cp
	return nil
}

func (m *MemStore) FinishRun(runID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[runID]
	if !ok {
		return fmt.Errorf("finish run: no run %s", runID)
	}
	r.Status = status
	r.FinishedAt = nowUTC()
	return nil
}

func (m *MemStore) GetRun(runID string) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[runID]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *MemStore) ListRuns() ([]*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	runs := make([]*Run, 0, len(m.runs))
	for _, r := range m.runs {
		cp := *r
		runs = append(runs, &cp)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].StartedAt < runs[j].StartedAt })
	return runs, nil
}

func (m *MemStore) RecordStep(s *Step) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.RunID == "" || s.Name == "" {
		return fmt.Errorf("record step: run ID and name are required")
	}
	if m.steps[s.RunID] == nil {
		m.steps[s.RunID] = make(map[string]*Step)
	}
	cp := *s
	m.steps[s.RunID][s.Name] = &cp
	return nil
}

func (m *MemStore) ListSteps(runID string) ([]*Step, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var steps []*Step
	for _, s := range m.steps[runID] {
		cp := *s
		steps = append(steps, &cp)
	}
	sort.Slice(steps, func(i, j int) bool {
		if steps[i].StartedAt != steps[j].StartedAt {
			return steps[i].StartedAt < steps[j].StartedAt
		}
		return steps[i].Name < steps[j].Name
	})
	return steps, nil
}

func (m *MemStore) Close() error { return nil }
