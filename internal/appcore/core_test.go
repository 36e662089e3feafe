// internal/appcore/core_test.go
package appcore

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"btyper/internal/config"
	"btyper/internal/output"
	"btyper/internal/pipeline"
	"btyper/internal/report"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const panCRow = "Group_III\tcontig_1\t100\t1000\t0\t0\t1\t1000\t1\t1000\t0\t1800\t1000\t5000000\t100\t100\n"

// panCAligner answers every BLAST search with one panC group III hit.
type panCAligner struct{ err error }

func (a panCAligner) FastANI(context.Context, string, string, string) error {
	return errors.New("fastANI not expected")
}

func (a panCAligner) Blast(_ context.Context, _, _, _, out string) error {
	if a.err != nil {
		return a.err
	}
	return os.WriteFile(out, []byte(panCRow), 0o644)
}

func (a panCAligner) EnsureBlastDB(context.Context, string) (bool, error) { return false, nil }

func aligner(a pipeline.Aligner) AlignerFunc {
	return func(*config.Config, *zap.Logger) pipeline.Aligner { return a }
}

func genomeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(">c1\nACGTACGT\n"), 0o644))
	return path
}

func options(t *testing.T, inputs ...string) Options {
	return Options{
		Inputs:     inputs,
		OutDir:     t.TempDir(),
		Categories: pipeline.Categories{report.PanC: true},
		Threads:    2,
		Quiet:      true,
	}
}

func TestRunWritesRecords(t *testing.T) {
	dir := t.TempDir()
	o := options(t, genomeFile(t, dir, "b.fna"), genomeFile(t, dir, "a.fna"))

	var out, errb bytes.Buffer
	code := Run(context.Background(), &out, &errb, config.Default(), o,
		aligner(panCAligner{}), NewRecordWriterFactory(output.FormatText, true, true))
	require.Equal(t, 0, code, errb.String())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, report.Header(), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], filepath.Join(dir, "a.fna")+"\ta\t"))
	assert.Contains(t, lines[2], "Group_III")

	_, err := os.Stat(filepath.Join(o.OutDir, pipeline.ResultsDirName, "b_final_results.txt"))
	assert.NoError(t, err)
}

func TestRunUsageErrors(t *testing.T) {
	dir := t.TempDir()
	g := genomeFile(t, dir, "g.fna")
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	dup := genomeFile(t, sub, "g.fna.gz")

	bad := config.Default()
	bad.Bt.Overlap = 2

	cases := map[string]struct {
		cfg    *config.Config
		inputs []string
	}{
		"invalid config":   {bad, []string{g}},
		"missing genome":   {config.Default(), []string{filepath.Join(dir, "nope.fna")}},
		"directory":        {config.Default(), []string{sub}},
		"duplicate prefix": {config.Default(), []string{g, dup}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var out, errb bytes.Buffer
			code := Run(context.Background(), &out, &errb, tc.cfg, options(t, tc.inputs...),
				aligner(panCAligner{}), NewRecordWriterFactory(output.FormatText, false, true))
			assert.Equal(t, 2, code)
			assert.Contains(t, errb.String(), "error:")
			assert.Empty(t, out.String())
		})
	}
}

func TestRunToolFailure(t *testing.T) {
	dir := t.TempDir()
	o := options(t, genomeFile(t, dir, "g.fna"))

	var out, errb bytes.Buffer
	code := Run(context.Background(), &out, &errb, config.Default(), o,
		aligner(panCAligner{err: errors.New("blastn crashed")}), NewRecordWriterFactory(output.FormatJSONL, false, true))
	assert.Equal(t, 3, code)
	assert.Contains(t, errb.String(), "some genomes failed")
	assert.Empty(t, out.String())
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	o := options(t, genomeFile(t, dir, "g.fna"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errb bytes.Buffer
	code := Run(ctx, &out, &errb, config.Default(), o,
		aligner(panCAligner{}), NewRecordWriterFactory(output.FormatText, false, false))
	assert.Equal(t, 130, code)
}
