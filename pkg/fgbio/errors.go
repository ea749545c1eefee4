package fgbio

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failures the fgbio wrapper can report.
type ErrorKind string

const (
	// ToolUnavailable means the fgbio executable is missing, unreachable,
	// or returned unrecognizable version output.
	ToolUnavailable ErrorKind = "tool_unavailable"
	// ToolTimeout means the bounded wait for the subprocess was exceeded.
	ToolTimeout ErrorKind = "tool_timeout"
	// ToolExecutionFailed means the subprocess exited nonzero.
	ToolExecutionFailed ErrorKind = "tool_execution_failed"
	// InvalidPath means a required input file or an output parent
	// directory is missing.
	InvalidPath ErrorKind = "invalid_path"
	// OutputNotProduced means the tool reported success but the
	// destination file is absent.
	OutputNotProduced ErrorKind = "output_not_produced"
	// ValidationError means the request itself was malformed.
	ValidationError ErrorKind = "validation_error"
)

// Error is a structured error raised by the fgbio wrapper. ExitCode and
// Stderr are only populated for ToolExecutionFailed.
type Error struct {
	Kind     ErrorKind
	Message  string
	ExitCode int
	Stderr   string
}

func (e *Error) Error() string {
	return e.Message
}

// Errorf creates an Error of the given kind with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the ErrorKind of err if it is (or wraps) an fgbio Error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
