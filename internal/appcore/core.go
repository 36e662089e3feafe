// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"btyper/internal/config"
	"btyper/internal/pipeline"
	"btyper/internal/report"
	"btyper/internal/runlog"
	"btyper/internal/runner"
	"btyper/internal/version"
	"btyper/internal/writers"
)

type Options struct {
	Inputs     []string
	OutDir     string
	Categories pipeline.Categories

	Threads  int
	FailFast bool

	Quiet   bool
	Verbose bool

	Argv []string // logged at run start
}

type WriterFactory interface {
	Start(out io.Writer, bufSize int) (chan<- report.Record, <-chan error)
}

// AlignerFunc builds the aligner once the configuration is final.
type AlignerFunc func(cfg *config.Config, log *zap.Logger) pipeline.Aligner

// NewTools is the production AlignerFunc.
func NewTools(cfg *config.Config, log *zap.Logger) pipeline.Aligner {
	return &runner.Tools{
		FastANIBin:  cfg.FastANI,
		BlastBinDir: cfg.BlastBinDir,
		Makeblastdb: cfg.Makeblastdb,
		EValue:      cfg.EValue,
		Retries:     cfg.Retry.Attempts,
		MaxInterval: cfg.Retry.MaxInterval,
		Log:         log,
	}
}

// genomes checks that every input exists and that no two inputs share a
// prefix, since they would overwrite each other's result files.
func genomes(inputs []string) ([]pipeline.Genome, error) {
	seen := make(map[string]string, len(inputs))
	out := make([]pipeline.Genome, 0, len(inputs))
	for _, path := range inputs {
		st, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("input genome: %w", err)
		}
		if st.IsDir() {
			return nil, fmt.Errorf("input genome %s is a directory", path)
		}
		g := pipeline.NewGenome(path)
		if prev, dup := seen[g.Prefix]; dup {
			return nil, fmt.Errorf("inputs %s and %s share the prefix %q", prev, path, g.Prefix)
		}
		seen[g.Prefix] = path
		out = append(out, g)
	}
	return out, nil
}

func Run(
	parent context.Context,
	stdout, stderr io.Writer,
	cfg *config.Config,
	o Options,
	newAligner AlignerFunc,
	wf WriterFactory,
) int {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}
	gs, err := genomes(o.Inputs)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}

	console := runlog.LockedConsole(stderr)
	batch, err := runlog.Open(runlog.Options{Genome: "batch", Console: console, Quiet: o.Quiet, Verbose: o.Verbose})
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 3
	}
	defer batch.Close()
	batch.Log.Info("btyper started",
		zap.String("version", version.Version),
		zap.Strings("argv", o.Argv),
		zap.Int("genomes", len(gs)),
	)

	res, err := pipeline.LoadResources(cfg.Layout(), o.Categories)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}
	batch.Log.Debug("resources loaded", res.Fields()...)

	p := &pipeline.Pipeline{
		Config:     cfg,
		Categories: o.Categories,
		Resources:  res,
		Aligner:    newAligner(cfg, batch.Log),
		OutDir:     o.OutDir,
	}

	outw := bufio.NewWriter(stdout)
	thr := max(o.Threads, 1)
	inCh, writeErr := wf.Start(outw, thr*4)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sum, perr := p.RunBatch(ctx,
		pipeline.BatchConfig{
			Threads:  thr,
			FailFast: o.FailFast,
			Console:  console,
			Quiet:    o.Quiet,
			Verbose:  o.Verbose,
		},
		gs,
		func(r report.Record) error {
			select {
			case inCh <- r:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	)

	close(inCh)

	if werr := <-writeErr; writers.IsBrokenPipe(werr) {
		return 0
	} else if werr != nil {
		fmt.Fprintln(stderr, werr)
		return 3
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return 0
	} else if e != nil {
		fmt.Fprintln(stderr, e)
		return 3
	}

	batch.Log.Info("btyper finished", zap.Int("done", sum.Done), zap.Int("failed", sum.Failed))
	if perr != nil {
		if errors.Is(perr, context.Canceled) {
			return 130
		}
		fmt.Fprintln(stderr, "error:", perr)
		return 3
	}
	return 0
}
