// internal/runner/tools.go
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"
)

// BlastOutFormat is the tabular layout every BLAST search writes.
const BlastOutFormat = "6 qseqid sseqid pident length mismatch gapopen qstart qend sstart send evalue bitscore qlen slen qcovs qcovhsp"

// blastDBExts are the files makeblastdb writes next to a nucleotide genome.
var blastDBExts = []string{".nsq", ".nin", ".nhr"}

// Tools knows how to call each external program.
type Tools struct {
	FastANIBin  string
	BlastBinDir string // joined to BLAST program names when set
	Makeblastdb string
	EValue      string

	// Retries is the number of extra attempts after a failed run.
	Retries     int
	MaxInterval time.Duration

	Cmd Commander
	Log *zap.Logger // fallback when the context carries no logger
}

type logKey struct{}

// WithLogger returns a copy of ctx whose tool invocations and retries are
// logged to log instead of Tools.Log.
func WithLogger(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, logKey{}, log)
}

func (t *Tools) logger(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(logKey{}).(*zap.Logger); ok && log != nil {
		return log
	}
	if t.Log == nil {
		return zap.NewNop()
	}
	return t.Log
}

func (t *Tools) commander() Commander {
	if t.Cmd == nil {
		return Exec{}
	}
	return t.Cmd
}

func (t *Tools) blastBin(name string) string {
	if t.BlastBinDir == "" || strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	return filepath.Join(t.BlastBinDir, name)
}

// run invokes name with retries on ErrToolFailed.
func (t *Tools) run(ctx context.Context, name string, args ...string) error {
	log := t.logger(ctx)
	log.Debug("exec", zap.String("tool", name), zap.Strings("args", args))

	// WithMaxRetries treats 0 as unlimited, so no retries needs StopBackOff.
	var policy backoff.BackOff = &backoff.StopBackOff{}
	if t.Retries > 0 {
		b := backoff.NewExponentialBackOff()
		if t.MaxInterval > 0 {
			b.MaxInterval = t.MaxInterval
		}
		b.MaxElapsedTime = 0
		policy = backoff.WithMaxRetries(b, uint64(t.Retries))
	}
	bo := backoff.WithContext(policy, ctx)

	op := func() error {
		err := t.commander().Command(ctx, name, args...)
		if err != nil && !errors.Is(err, ErrToolFailed) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Warn("retrying external tool", zap.String("tool", name), zap.Duration("wait", wait), zap.Error(err))
	}
	if err := backoff.RetryNotify(op, bo, notify); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(name), err)
	}
	return nil
}

// FastANI compares query against every genome listed in refList.
func (t *Tools) FastANI(ctx context.Context, query, refList, out string) error {
	bin := t.FastANIBin
	if bin == "" {
		bin = "fastANI"
	}
	return t.run(ctx, bin, "-q", query, "--rl", refList, "-o", out)
}

// Blast searches query against the nucleotide database db with program
// (blastn or tblastn).
func (t *Tools) Blast(ctx context.Context, program, query, db, out string) error {
	evalue := t.EValue
	if evalue == "" {
		evalue = "1e-5"
	}
	return t.run(ctx, t.blastBin(program),
		"-query", query,
		"-db", db,
		"-out", out,
		"-max_target_seqs", "1000000000",
		"-evalue", evalue,
		"-outfmt", BlastOutFormat,
	)
}

// EnsureBlastDB builds a nucleotide database next to genome unless its
// .nsq file already exists. It reports whether a database was built.
func (t *Tools) EnsureBlastDB(ctx context.Context, genome string) (bool, error) {
	if _, err := os.Stat(genome + ".nsq"); err == nil {
		return false, nil
	}
	name := t.Makeblastdb
	if name == "" {
		name = "makeblastdb"
	}
	if err := t.run(ctx, t.blastBin(name), "-in", genome, "-dbtype", "nucl"); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveBlastDB deletes the database files of genome. Missing files are
// ignored.
func RemoveBlastDB(genome string) error {
	var errs []error
	for _, ext := range blastDBExts {
		if err := os.Remove(genome + ext); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
