package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"
)

// killGrace is how long a canceled child gets after SIGTERM before SIGKILL.
const killGrace = 3 * time.Second

// CommandSpec describes one child process invocation.
type CommandSpec struct {
	Path    string   // executable (interpreter)
	Args    []string // argv after the executable
	Dir     string   // working directory; empty = inherit
	LogPath string   // file capturing combined stdout/stderr; empty = discard
}

// CommandRunner spawns one child process and waits for it. Implementations
// must honor ctx cancellation. The exit code is meaningful only when err is
// nil or ErrNonZeroExit.
type CommandRunner interface {
	Run(ctx context.Context, spec CommandSpec) (exitCode int, err error)
}

// ErrNonZeroExit wraps a child's nonzero exit status.
var ErrNonZeroExit = errors.New("command exited with nonzero status")

// OSRunner runs commands with os/exec. Cancellation sends SIGTERM and
// escalates to SIGKILL after killGrace.
type OSRunner struct{}

func (OSRunner) Run(ctx context.Context, spec CommandSpec) (int, error) {
	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = killGrace

	if spec.LogPath != "" {
		if err := os.MkdirAll(filepath.Dir(spec.LogPath), 0755); err != nil {
			return 0, fmt.Errorf("create log dir: %w", err)
		}
		// Append so retries and multi-command provisioning share one log.
		logFile, err := os.OpenFile(spec.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return 0, fmt.Errorf("create step log: %w", err)
		}
		defer logFile.Close()
		cmd.Stdout = logFile
		cmd.Stderr = logFile
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if ctx.Err() != nil {
			return code, fmt.Errorf("%s canceled: %w", spec.Path, ctx.Err())
		}
		return code, fmt.Errorf("%s: exit %d: %w", spec.Path, code, ErrNonZeroExit)
	}
	return -1, fmt.Errorf("run %s: %w", spec.Path, err)
}

// TailFile returns up to the last n lines of a log file, for surfacing step
// failures without dumping the whole log.
func TailFile(path string, n int) []string {
	data, err := os.ReadFile(path)
	if err != nil || n <= 0 {
		return nil
	}
	var lines []string
	start := 0
	for i, b := range data {
		if b == '\n' {
			if i > start {
				lines = append(lines, string(data[start:i]))
			}
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, string(data[start:]))
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
