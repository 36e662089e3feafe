// Package runlog opens and closes the log of one genome run.
package runlog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures a run log.
type Options struct {
	Dir    string // the log file goes to Dir/<Genome>.log; empty disables it
	Genome string

	// Console receives human-readable entries; nil disables them. Share one
	// Console (see LockedConsole) across concurrent runs.
	Console zapcore.WriteSyncer
	Quiet   bool // console shows warnings and errors only
	Verbose bool // console shows debug entries
}

// Run is the log lifecycle of one genome.
type Run struct {
	ID   string
	Path string
	Log  *zap.Logger

	file *os.File
	once sync.Once
}

// LockedConsole wraps w for shared use by concurrent runs.
func LockedConsole(w io.Writer) zapcore.WriteSyncer {
	return zapcore.Lock(zapcore.AddSync(w))
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

// Open starts a run: a fresh run id, a debug-level JSON file and an optional
// console. Every entry carries run_id and genome.
func Open(o Options) (*Run, error) {
	r := &Run{ID: uuid.NewString()}
	var cores []zapcore.Core

	if o.Dir != "" {
		if err := os.MkdirAll(o.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("log dir: %w", err)
		}
		r.Path = filepath.Join(o.Dir, o.Genome+".log")
		fh, err := os.OpenFile(r.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("log file: %w", err)
		}
		r.file = fh
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(fh), zapcore.DebugLevel))
	}

	if o.Console != nil {
		level := zapcore.InfoLevel
		switch {
		case o.Quiet:
			level = zapcore.WarnLevel
		case o.Verbose:
			level = zapcore.DebugLevel
		}
		ccfg := encoderConfig()
		ccfg.EncodeLevel = zapcore.CapitalLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(ccfg), o.Console, level))
	}

	if len(cores) == 0 {
		r.Log = zap.NewNop()
		return r, nil
	}
	r.Log = zap.New(zapcore.NewTee(cores...)).With(
		zap.String("run_id", r.ID),
		zap.String("genome", o.Genome),
	)
	return r, nil
}

// Close flushes the logger and closes the file. Safe to call twice.
func (r *Run) Close() error {
	var err error
	r.once.Do(func() {
		// Sync on a console such as stderr may fail with EINVAL; only the
		// file matters here.
		_ = r.Log.Sync()
		if r.file != nil {
			err = errors.Join(r.file.Sync(), r.file.Close())
		}
	})
	return err
}
