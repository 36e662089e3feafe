package runner

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type call struct {
	name string
	args []string
}

// scripted fails the first n calls with a ToolError.
type scripted struct {
	mu    sync.Mutex
	fails int
	err   error
	calls []call
}

func (s *scripted) Command(_ context.Context, name string, args ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call{name, args})
	if s.err != nil {
		return s.err
	}
	if len(s.calls) <= s.fails {
		return &ToolError{Tool: name, ExitCode: 1, Stderr: "boom", Err: errors.New("exit status 1")}
	}
	return nil
}

func TestBlast_Args(t *testing.T) {
	s := &scripted{}
	tools := &Tools{BlastBinDir: "/opt/blast/bin", EValue: "1e-10", Cmd: s}
	require.NoError(t, tools.Blast(context.Background(), "tblastn", "q.faa", "g.fna", "out.txt"))

	require.Len(t, s.calls, 1)
	assert.Equal(t, "/opt/blast/bin/tblastn", s.calls[0].name)
	args := strings.Join(s.calls[0].args, " ")
	assert.Contains(t, args, "-query q.faa -db g.fna -out out.txt")
	assert.Contains(t, args, "-evalue 1e-10")
	assert.Contains(t, args, "-outfmt "+BlastOutFormat)
}

func TestFastANI_Args(t *testing.T) {
	s := &scripted{}
	tools := &Tools{Cmd: s}
	require.NoError(t, tools.FastANI(context.Background(), "g.fna", "refs.txt", "o.txt"))
	assert.Equal(t, "fastANI", s.calls[0].name)
	assert.Equal(t, []string{"-q", "g.fna", "--rl", "refs.txt", "-o", "o.txt"}, s.calls[0].args)
}

func TestRun_RetriesToolFailures(t *testing.T) {
	s := &scripted{fails: 2}
	tools := &Tools{Cmd: s, Retries: 2, MaxInterval: time.Millisecond}
	require.NoError(t, tools.FastANI(context.Background(), "g", "r", "o"))
	assert.Len(t, s.calls, 3)
}

func TestRun_NoRetriesByDefault(t *testing.T) {
	s := &scripted{fails: 1}
	tools := &Tools{Cmd: s}
	err := tools.FastANI(context.Background(), "g", "r", "o")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrToolFailed)
	assert.Contains(t, err.Error(), "boom")
	assert.Len(t, s.calls, 1)
}

func TestRun_GivesUpAfterRetries(t *testing.T) {
	s := &scripted{fails: 100}
	tools := &Tools{Cmd: s, Retries: 1, MaxInterval: time.Millisecond}
	err := tools.Blast(context.Background(), "blastn", "q", "g", "o")
	assert.ErrorIs(t, err, ErrToolFailed)
	assert.Len(t, s.calls, 2)
}

func TestRun_PersistentFailureWithoutRetries(t *testing.T) {
	s := &scripted{fails: 100}
	tools := &Tools{Cmd: s, MaxInterval: time.Millisecond}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := tools.FastANI(ctx, "g", "r", "o")
	assert.ErrorIs(t, err, ErrToolFailed)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, s.calls, 1)
}

func TestRun_LogsToContextLogger(t *testing.T) {
	batchCore, batchLogs := observer.New(zapcore.DebugLevel)
	genomeCore, genomeLogs := observer.New(zapcore.DebugLevel)

	s := &scripted{fails: 1}
	tools := &Tools{Cmd: s, Retries: 1, MaxInterval: time.Millisecond, Log: zap.New(batchCore)}
	ctx := WithLogger(context.Background(), zap.New(genomeCore))
	require.NoError(t, tools.Blast(ctx, "blastn", "q", "g", "o"))

	assert.Equal(t, 1, genomeLogs.FilterMessage("exec").Len())
	assert.Equal(t, 1, genomeLogs.FilterMessage("retrying external tool").Len())
	assert.Zero(t, batchLogs.Len())

	require.NoError(t, tools.Blast(context.Background(), "blastn", "q", "g", "o"))
	assert.Equal(t, 1, batchLogs.FilterMessage("exec").Len(), "falls back to Tools.Log")
}

func TestRun_OtherErrorsArePermanent(t *testing.T) {
	s := &scripted{err: context.Canceled}
	tools := &Tools{Cmd: s, Retries: 5, MaxInterval: time.Millisecond}
	err := tools.FastANI(context.Background(), "g", "r", "o")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, s.calls, 1)
}

func TestEnsureBlastDB(t *testing.T) {
	dir := t.TempDir()
	genome := filepath.Join(dir, "g.fna")

	s := &scripted{}
	tools := &Tools{Cmd: s}
	built, err := tools.EnsureBlastDB(context.Background(), genome)
	require.NoError(t, err)
	assert.True(t, built)
	assert.Equal(t, []string{"-in", genome, "-dbtype", "nucl"}, s.calls[0].args)

	require.NoError(t, os.WriteFile(genome+".nsq", nil, 0o644))
	built, err = tools.EnsureBlastDB(context.Background(), genome)
	require.NoError(t, err)
	assert.False(t, built)
	assert.Len(t, s.calls, 1)
}

func TestRemoveBlastDB(t *testing.T) {
	dir := t.TempDir()
	genome := filepath.Join(dir, "g.fna")
	for _, ext := range []string{".nsq", ".nin"} {
		require.NoError(t, os.WriteFile(genome+ext, nil, 0o644))
	}
	require.NoError(t, RemoveBlastDB(genome))
	for _, ext := range blastDBExts {
		_, err := os.Stat(genome + ext)
		assert.True(t, os.IsNotExist(err), ext)
	}
}

func TestExec_ToolError(t *testing.T) {
	orig := newExecCommand
	t.Cleanup(func() { newExecCommand = orig })
	newExecCommand = func(ctx context.Context, _ string, _ ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c", "echo bad input >&2; exit 3")
	}

	err := Exec{}.Command(context.Background(), "blastn", "-query", "x")
	var te *ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 3, te.ExitCode)
	assert.Equal(t, "bad input\n", te.Stderr)
	assert.ErrorIs(t, err, ErrToolFailed)
}
