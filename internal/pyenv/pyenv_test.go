package pyenv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mscorebench/internal/config"
	"mscorebench/internal/pipeline"
)

type fakeExec struct {
	calls []pipeline.CommandSpec
	fail  string // substring of Path that should fail
}

func (f *fakeExec) Run(_ context.Context, spec pipeline.CommandSpec) (int, error) {
	f.calls = append(f.calls, spec)
	if f.fail != "" && strings.Contains(spec.Path, f.fail) {
		return 1, fmt.Errorf("%s: exit 1: %w", spec.Path, pipeline.ErrNonZeroExit)
	}
	return 0, nil
}

func testEnv(t *testing.T, fe *fakeExec) *Env {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Python = "python3"
	cfg.Venv = filepath.Join(dir, "venv")
	cfg.Requirements = filepath.Join(dir, "requirements.txt")
	if err := os.WriteFile(cfg.Requirements, []byte("numpy\n"), 0644); err != nil {
		t.Fatal(err)
	}
	e := New(&cfg)
	e.Exec = fe
	return e
}

func makeVenv(t *testing.T, e *Env) {
	t.Helper()
	bin := filepath.Join(e.Cfg.Venv, binDir())
	if err := os.MkdirAll(bin, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(bin, "python"), []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
}

func TestInterpreter_FallsBackWithoutVenv(t *testing.T) {
	e := testEnv(t, &fakeExec{})
	if got := e.Interpreter(); got != "python3" {
		t.Errorf("got %q", got)
	}
}

func TestInterpreter_PrefersVenv(t *testing.T) {
	e := testEnv(t, &fakeExec{})
	makeVenv(t, e)
	want := filepath.Join(e.Cfg.Venv, binDir(), "python")
	if got := e.Interpreter(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestProvision_CreatesVenvThenInstalls(t *testing.T) {
	fe := &fakeExec{}
	e := testEnv(t, fe)

	if err := e.Provision(context.Background(), ""); err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if len(fe.calls) != 2 {
		t.Fatalf("calls: %d", len(fe.calls))
	}
	if fe.calls[0].Path != "python3" || fe.calls[0].Args[1] != "venv" {
		t.Errorf("venv call: %+v", fe.calls[0])
	}
	if !strings.HasSuffix(fe.calls[1].Path, "pip") || fe.calls[1].Args[0] != "install" {
		t.Errorf("pip call: %+v", fe.calls[1])
	}
}

func TestProvision_SkipsExistingVenv(t *testing.T) {
	fe := &fakeExec{}
	e := testEnv(t, fe)
	makeVenv(t, e)

	if err := e.Provision(context.Background(), ""); err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if len(fe.calls) != 1 {
		t.Fatalf("calls: %+v", fe.calls)
	}
	if !strings.HasSuffix(fe.calls[0].Path, "pip") {
		t.Errorf("expected only pip install, got %+v", fe.calls[0])
	}
}

func TestProvision_MissingRequirements(t *testing.T) {
	fe := &fakeExec{}
	e := testEnv(t, fe)
	e.Cfg.Requirements = filepath.Join(t.TempDir(), "nope.txt")

	if err := e.Provision(context.Background(), ""); err == nil {
		t.Error("expected error for missing requirements file")
	}
}

func TestProvision_PipFailureSurfaces(t *testing.T) {
	fe := &fakeExec{fail: "pip"}
	e := testEnv(t, fe)

	err := e.Provision(context.Background(), "")
	if err == nil || !strings.Contains(err.Error(), "pip install") {
		t.Errorf("got %v", err)
	}
}

func TestProvision_NoVenvConfigured(t *testing.T) {
	e := testEnv(t, &fakeExec{})
	e.Cfg.Venv = ""
	if err := e.Provision(context.Background(), ""); err == nil {
		t.Error("expected error")
	}
}
