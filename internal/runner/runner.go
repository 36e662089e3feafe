// Package runner invokes the external aligners: fastANI and BLAST+.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrToolFailed marks a non-zero exit of an external program.
var ErrToolFailed = errors.New("external tool failed")

// stderrTail bounds how much of a failing tool's stderr is kept.
const stderrTail = 2048

// waitDelay bounds the wait for output pipes after a cancelled tool is
// killed; fastANI and BLAST+ wrappers may leave children holding them.
const waitDelay = 2 * time.Second

// ToolError describes a failed invocation.
type ToolError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string // last bytes only
	Err      error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ToolError) Unwrap() []error { return []error{ErrToolFailed, e.Err} }

// Commander runs one program to completion.
type Commander interface {
	Command(ctx context.Context, name string, args ...string) error
}

// newExecCommand creates an exec.Cmd for testability
var newExecCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}

// Exec runs programs with os/exec.
type Exec struct{}

// Command runs name and returns a *ToolError on non-zero exit. A cancelled
// context is reported as the context error.
func (Exec) Command(ctx context.Context, name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := newExecCommand(ctx, name, args...)
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	te := &ToolError{Tool: name, Args: args, ExitCode: -1, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		te.ExitCode = exitErr.ExitCode()
	}
	tail := stderr.Bytes()
	if len(tail) > stderrTail {
		tail = tail[len(tail)-stderrTail:]
	}
	te.Stderr = string(tail)
	return te
}
