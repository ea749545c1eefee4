package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bamkit/fgbio-mcp/pkg/fgbio"
)

// fakeRunner is a substitutable process runner so handler tests never spawn
// real processes. It records every invocation.
type fakeRunner struct {
	RunFunc func(ctx context.Context, tool string, params fgbio.Params) (*fgbio.Result, error)

	calls []fakeCall
}

type fakeCall struct {
	tool   string
	params fgbio.Params
}

var _ fgbio.Runner = (*fakeRunner)(nil)

func (f *fakeRunner) CheckAvailable(ctx context.Context) (string, error) {
	return "Version: 2.0.2", nil
}

func (f *fakeRunner) Run(ctx context.Context, tool string, params fgbio.Params) (*fgbio.Result, error) {
	f.calls = append(f.calls, fakeCall{tool: tool, params: params})
	if f.RunFunc != nil {
		return f.RunFunc(ctx, tool, params)
	}
	return &fgbio.Result{Command: "fgbio " + tool}, nil
}

func (f *fakeRunner) paramValue(t *testing.T, call int, name string) (any, bool) {
	t.Helper()
	if call >= len(f.calls) {
		t.Fatalf("no call %d recorded, have %d", call, len(f.calls))
	}
	for _, p := range f.calls[call].params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// existingBam creates a throwaway input file so path validation passes.
func existingBam(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.bam")
	if err := os.WriteFile(path, []byte("BAM\x01"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// touchingRunner returns a fake runner that writes the given output path on
// Run, imitating a well-behaved fgbio.
func touchingRunner(t *testing.T, output string) *fakeRunner {
	t.Helper()
	return &fakeRunner{
		RunFunc: func(ctx context.Context, tool string, params fgbio.Params) (*fgbio.Result, error) {
			if err := os.WriteFile(output, []byte("BAM\x01"), 0o644); err != nil {
				t.Fatal(err)
			}
			return &fgbio.Result{Stdout: "done", Stderr: "", Command: "fgbio " + tool}, nil
		},
	}
}

func intPtr(v int) *int { return &v }
