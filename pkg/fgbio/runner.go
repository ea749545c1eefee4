package fgbio

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

const (
	// DefaultCommand is the fgbio executable looked up on PATH when no
	// explicit path is configured.
	DefaultCommand = "fgbio"

	// DefaultRunTimeout bounds a single tool invocation. Sorting or
	// filtering a large BAM can legitimately take a long time.
	DefaultRunTimeout = time.Hour

	versionTimeout = 30 * time.Second
	versionMarker  = "Version:"
)

// Result is the immutable record of one completed fgbio invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Command is the reconstructed, shell-quoted command line.
	Command string
}

// Runner executes fgbio tools. Handlers receive it by injection so tests
// can substitute a fake without spawning processes.
type Runner interface {
	// CheckAvailable probes the executable and returns its version banner.
	CheckAvailable(ctx context.Context) (string, error)
	// Run executes one fgbio tool with the given parameters. Callers are
	// expected to have validated their inputs first.
	Run(ctx context.Context, tool string, params Params) (*Result, error)
}

// ExecRunner runs fgbio as a subprocess via os/exec.
type ExecRunner struct {
	// Command is the fgbio executable path or name.
	Command string
	// RunTimeout bounds each Run call. Zero means DefaultRunTimeout.
	RunTimeout time.Duration
}

var _ Runner = (*ExecRunner)(nil)

// NewExecRunner creates a runner for the given fgbio executable. An empty
// command falls back to looking up "fgbio" on PATH.
func NewExecRunner(command string) *ExecRunner {
	if command == "" {
		command = DefaultCommand
	}
	return &ExecRunner{Command: command, RunTimeout: DefaultRunTimeout}
}

// CheckAvailable invokes `fgbio --version` and verifies the output looks
// like a version banner. fgbio exits nonzero on --version while printing
// the banner to stderr; that nonzero exit is treated as success as long as
// the marker is present. This is an observed quirk of fgbio itself and
// deliberately not generalized to Run.
func (r *ExecRunner) CheckAvailable(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.Command, "--version")
	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return "", Errorf(ToolUnavailable, "%s --version timed out after %s", r.Command, versionTimeout)
	}
	if err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return "", Errorf(ToolUnavailable, "fgbio command not found: %s", r.Command)
		}
	}

	version := strings.TrimSpace(errBuf.String())
	if version == "" {
		version = strings.TrimSpace(outBuf.String())
	}
	if !strings.Contains(version, versionMarker) {
		return "", Errorf(ToolUnavailable, "fgbio command returned unexpected output: %q", version)
	}
	return version, nil
}

// Run builds the argument vector for the tool, spawns the fgbio process
// with a bounded timeout, and captures both output streams. A nonzero exit
// surfaces as ToolExecutionFailed carrying the exit code and stderr.
func (r *ExecRunner) Run(ctx context.Context, tool string, params Params) (*Result, error) {
	timeout := r.RunTimeout
	if timeout <= 0 {
		timeout = DefaultRunTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := BuildArgs(tool, params)
	command := quoteCommand(append([]string{r.Command}, args...))
	slog.Info("executing fgbio", "command", command)

	cmd := exec.CommandContext(ctx, r.Command, args...)
	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	start := time.Now()
	err := cmd.Run()
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return nil, Errorf(ToolTimeout, "fgbio %s timed out after %s", tool, timeout)
	case context.Canceled:
		// The caller gave up; the killed process's exit code is noise.
		return nil, fmt.Errorf("fgbio %s canceled: %w", tool, context.Canceled)
	}
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return nil, Errorf(ToolUnavailable, "failed to execute fgbio %s: %v", tool, err)
		}
		runErr := Errorf(ToolExecutionFailed, "fgbio %s failed with exit code %d: %s",
			tool, exitErr.ExitCode(), strings.TrimSpace(errBuf.String()))
		runErr.ExitCode = exitErr.ExitCode()
		runErr.Stderr = errBuf.String()
		return nil, runErr
	}

	slog.Debug("fgbio finished", "tool", tool, "duration", time.Since(start))
	return &Result{
		Stdout:   outBuf.String(),
		Stderr:   errBuf.String(),
		ExitCode: 0,
		Command:  command,
	}, nil
}
