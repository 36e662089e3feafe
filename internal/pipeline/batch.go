// internal/pipeline/batch.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"btyper/internal/report"
	"btyper/internal/runlog"
)

// BatchConfig controls fan-out over genomes.
type BatchConfig struct {
	Threads  int  // concurrent genomes (>=1)
	FailFast bool // cancel the batch on the first failing genome

	// Per-genome logs
	Console zapcore.WriteSyncer
	Quiet   bool
	Verbose bool
}

// BatchResult summarizes a batch.
type BatchResult struct {
	Done   int
	Failed int
}

// ErrGenomesFailed is returned when at least one genome failed and the batch
// ran to completion anyway.
var ErrGenomesFailed = errors.New("some genomes failed")

// RunBatch runs every genome, at most cfg.Threads at a time, and passes each
// finished record to emit. emit is called from several goroutines.
func (p *Pipeline) RunBatch(
	ctx context.Context,
	cfg BatchConfig,
	genomes []Genome,
	emit func(report.Record) error,
) (BatchResult, error) {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	var done, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Threads)

	for _, gen := range genomes {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			err := p.runOne(gctx, cfg, gen, emit)
			switch {
			case err == nil:
				done.Add(1)
				return nil
			case errors.Is(err, errEmit), gctx.Err() != nil:
				return err
			}
			failed.Add(1)
			if cfg.FailFast {
				return fmt.Errorf("%s: %w", gen.Prefix, err)
			}
			return nil
		})
	}
	err := g.Wait()

	res := BatchResult{Done: int(done.Load()), Failed: int(failed.Load())}
	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	if err != nil {
		return res, err
	}
	if res.Failed > 0 {
		return res, fmt.Errorf("%w: %d of %d", ErrGenomesFailed, res.Failed, len(genomes))
	}
	return res, nil
}

var errEmit = errors.New("emit record")

func (p *Pipeline) runOne(ctx context.Context, cfg BatchConfig, g Genome, emit func(report.Record) error) error {
	run, err := runlog.Open(runlog.Options{
		Dir:     filepath.Join(p.ResultsDir(), "logs"),
		Genome:  g.Prefix,
		Console: cfg.Console,
		Quiet:   cfg.Quiet,
		Verbose: cfg.Verbose,
	})
	if err != nil {
		return err
	}
	defer run.Close()

	rec, err := p.RunGenome(ctx, g, run.Log)
	if err != nil {
		run.Log.Error("genome failed", zap.Error(err))
		return err
	}
	if err := emit(rec); err != nil {
		return fmt.Errorf("%w: %w", errEmit, err)
	}
	return nil
}
