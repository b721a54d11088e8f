// Package pyenv provisions the Python virtual environment the MaAS scripts
// run in: python -m venv plus pip install -r requirements.txt.
package pyenv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"mscorebench/internal/config"
	"mscorebench/internal/logging"
	"mscorebench/internal/pipeline"
)

// Env resolves interpreter paths for one configured virtualenv.
type Env struct {
	Cfg  *config.Config
	Exec pipeline.CommandRunner // nil = pipeline.OSRunner
}

func New(cfg *config.Config) *Env {
	return &Env{Cfg: cfg}
}

func (e *Env) exec() pipeline.CommandRunner {
	if e.Exec != nil {
		return e.Exec
	}
	return pipeline.OSRunner{}
}

// binDir is "Scripts" on Windows, "bin" elsewhere.
func binDir() string {
	if runtime.GOOS == "windows" {
		return "Scripts"
	}
	return "bin"
}

// Interpreter returns the venv's python when the venv exists, otherwise the
// configured base interpreter. Steps must keep running on hosts that never
// ran setup.
func (e *Env) Interpreter() string {
	if e.Cfg.Venv == "" {
		return e.Cfg.Python
	}
	py := filepath.Join(e.Cfg.Venv, binDir(), "python")
	if _, err := os.Stat(py); err == nil {
		return py
	}
	return e.Cfg.Python
}

// pip returns the venv's pip path.
func (e *Env) pip() string {
	return filepath.Join(e.Cfg.Venv, binDir(), "pip")
}

// Exists reports whether the venv directory holds an interpreter.
func (e *Env) Exists() bool {
	if e.Cfg.Venv == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(e.Cfg.Venv, binDir(), "python"))
	return err == nil
}

// Provision creates the venv if absent and installs requirements into it.
// Both child processes are exit-code-checked; output goes to logPath.
func (e *Env) Provision(ctx context.Context, logPath string) error {
	if e.Cfg.Venv == "" {
		return fmt.Errorf("pyenv: no venv configured")
	}
	log := logging.New("pyenv")

	if !e.Exists() {
		log.Info("creating virtualenv", "python", e.Cfg.Python, "venv", e.Cfg.Venv)
		code, err := e.exec().Run(ctx, pipeline.CommandSpec{
			Path:    e.Cfg.Python,
			Args:    []string{"-m", "venv", e.Cfg.Venv},
			LogPath: logPath,
		})
		if err != nil {
			return fmt.Errorf("create venv (exit %d): %w", code, err)
		}
	} else {
		log.Info("virtualenv already present", "venv", e.Cfg.Venv)
	}

	if e.Cfg.Requirements == "" {
		return nil
	}
	if _, err := os.Stat(e.Cfg.Requirements); err != nil {
		return fmt.Errorf("requirements file: %w", err)
	}

	log.Info("installing requirements", "file", e.Cfg.Requirements)
	code, err := e.exec().Run(ctx, pipeline.CommandSpec{
		Path:    e.pip(),
		Args:    []string{"install", "-r", e.Cfg.Requirements},
		LogPath: logPath,
	})
	if err != nil {
		return fmt.Errorf("pip install (exit %d): %w", code, err)
	}
	return nil
}
