package fgbio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeScript drops a small shell script into a temp dir so runner tests
// can stand in for the real fgbio executable.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fgbio")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckAvailableNonzeroExitWithBanner(t *testing.T) {
	// fgbio --version exits 1 but prints the banner on stderr.
	cmd := writeScript(t, `echo "Version: 2.0.2" 1>&2; exit 1`)

	version, err := NewExecRunner(cmd).CheckAvailable(context.Background())
	if err != nil {
		t.Fatalf("CheckAvailable() error = %v", err)
	}
	if !strings.Contains(version, "Version: 2.0.2") {
		t.Errorf("version = %q, want it to contain the banner", version)
	}
}

func TestCheckAvailableMissingExecutable(t *testing.T) {
	runner := NewExecRunner(filepath.Join(t.TempDir(), "does-not-exist"))

	_, err := runner.CheckAvailable(context.Background())
	if err == nil {
		t.Fatal("expected error for missing executable")
	}
	if kind, _ := KindOf(err); kind != ToolUnavailable {
		t.Errorf("error kind = %v, want %v", kind, ToolUnavailable)
	}
}

func TestCheckAvailableUnexpectedOutput(t *testing.T) {
	cmd := writeScript(t, `echo "usage: not what you wanted"; exit 0`)

	_, err := NewExecRunner(cmd).CheckAvailable(context.Background())
	if err == nil {
		t.Fatal("expected error for output without version marker")
	}
	if kind, _ := KindOf(err); kind != ToolUnavailable {
		t.Errorf("error kind = %v, want %v", kind, ToolUnavailable)
	}
}

func TestRunCapturesOutput(t *testing.T) {
	cmd := writeScript(t, `echo "sorted ok"; echo "progress" 1>&2; exit 0`)

	runner := NewExecRunner(cmd)
	res, err := runner.Run(context.Background(), "SortBam", Params{
		{Name: "input", Value: "in.bam"},
		{Name: "output", Value: "out.bam"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(res.Stdout, "sorted ok") {
		t.Errorf("stdout = %q, want captured stdout", res.Stdout)
	}
	if !strings.Contains(res.Stderr, "progress") {
		t.Errorf("stderr = %q, want captured stderr", res.Stderr)
	}
	if res.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", res.ExitCode)
	}
	if !strings.Contains(res.Command, "SortBam --input in.bam --output out.bam") {
		t.Errorf("command = %q, want reconstructed invocation", res.Command)
	}
}

func TestRunNonzeroExit(t *testing.T) {
	cmd := writeScript(t, `echo "no such file" 1>&2; exit 3`)

	_, err := NewExecRunner(cmd).Run(context.Background(), "FilterBam", nil)
	if err == nil {
		t.Fatal("expected error for nonzero exit")
	}

	if kind, ok := KindOf(err); !ok || kind != ToolExecutionFailed {
		t.Fatalf("error kind = %v, want %v", kind, ToolExecutionFailed)
	}
	fgbioErr := err.(*Error)
	if fgbioErr.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", fgbioErr.ExitCode)
	}
	if !strings.Contains(fgbioErr.Stderr, "no such file") {
		t.Errorf("stderr = %q, want captured stderr", fgbioErr.Stderr)
	}
}

func TestRunParentContextCanceled(t *testing.T) {
	cmd := writeScript(t, `sleep 10`)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	_, err := NewExecRunner(cmd).Run(ctx, "SortBam", nil)
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want it to wrap context.Canceled", err)
	}
	if kind, ok := KindOf(err); ok && kind == ToolExecutionFailed {
		t.Error("cancellation must not be reported as an execution failure")
	}
}

func TestRunTimeout(t *testing.T) {
	cmd := writeScript(t, `sleep 10`)

	runner := NewExecRunner(cmd)
	runner.RunTimeout = 100 * time.Millisecond

	start := time.Now()
	_, err := runner.Run(context.Background(), "SortBam", nil)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if kind, _ := KindOf(err); kind != ToolTimeout {
		t.Errorf("error kind = %v, want %v", kind, ToolTimeout)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("timeout took %s, want the process killed promptly", elapsed)
	}
}
