package mcp_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"mscorebench/internal/config"
	mcpserver "mscorebench/internal/mcp"
	"mscorebench/internal/pipeline"
	"mscorebench/internal/store"
	"mscorebench/internal/workspace"
)

type failingExec struct{}

func (failingExec) Run(context.Context, pipeline.CommandSpec) (int, error) {
	return 3, pipeline.ErrNonZeroExit
}

func sessionConfig(t *testing.T, exec pipeline.CommandRunner) mcpserver.StartPipelineConfig {
	t.Helper()
	cfg := config.Default()
	cfg.Workspace = t.TempDir()
	return mcpserver.StartPipelineConfig{
		Cfg:         &cfg,
		WS:          workspace.New(cfg.Workspace),
		Store:       store.NewMemStore(),
		Exec:        exec,
		Interpreter: "python3",
	}
}

func waitDone(t *testing.T, sess *mcpserver.Session) {
	t.Helper()
	select {
	case <-sess.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("session did not finish in time")
	}
}

func TestSessionCompletes(t *testing.T) {
	fe := &fakeExec{}
	sess, err := mcpserver.NewSession(sessionConfig(t, fe))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	waitDone(t, sess)

	if got := sess.GetState(); got != mcpserver.StateDone {
		t.Fatalf("state = %s, want %s", got, mcpserver.StateDone)
	}
	if sess.Err() != nil {
		t.Fatalf("unexpected error: %v", sess.Err())
	}
	final := sess.FinalState()
	if final == nil || final.Status != "done" {
		t.Fatalf("final state = %+v, want done", final)
	}
	if fe.count() != 4 {
		t.Fatalf("fake exec saw %d calls, want 4", fe.count())
	}
}

func TestSessionStepFailure(t *testing.T) {
	sess, err := mcpserver.NewSession(sessionConfig(t, failingExec{}))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	waitDone(t, sess)

	if got := sess.GetState(); got != mcpserver.StateError {
		t.Fatalf("state = %s, want %s", got, mcpserver.StateError)
	}
	if !errors.Is(sess.Err(), pipeline.ErrStepFailed) {
		t.Fatalf("err = %v, want ErrStepFailed", sess.Err())
	}
	if final := sess.FinalState(); final == nil || final.Status != "failed" {
		t.Fatalf("final state = %+v, want failed", final)
	}
}

func TestSessionResumeRequiresRunID(t *testing.T) {
	in := sessionConfig(t, &fakeExec{})
	in.Resume = true
	if _, err := mcpserver.NewSession(in); err == nil {
		t.Fatal("expected error for resume without run_id")
	}
}

func TestSessionCancel(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	sess, err := mcpserver.NewSession(sessionConfig(t, blockingExec{release: release}))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	sess.Cancel()
	waitDone(t, sess)

	if got := sess.GetState(); got != mcpserver.StateError {
		t.Fatalf("state = %s, want %s", got, mcpserver.StateError)
	}
}
