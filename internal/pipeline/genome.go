// internal/pipeline/genome.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"btyper/internal/biovar"
	"btyper/internal/config"
	"btyper/internal/fasta"
	"btyper/internal/output"
	"btyper/internal/report"
	"btyper/internal/runner"
	"btyper/internal/virulence"
)

// ResultsDirName is created under the output directory.
const ResultsDirName = "btyper_final_results"

// Genome is one input assembly.
type Genome struct {
	Path   string
	Prefix string
}

// NewGenome derives the prefix from the file name.
func NewGenome(path string) Genome {
	return Genome{Path: path, Prefix: fasta.Prefix(path)}
}

// Pipeline holds everything shared by the genomes of a run.
type Pipeline struct {
	Config     *config.Config
	Categories Categories
	Resources  *Resources
	Aligner    Aligner
	OutDir     string
}

// ResultsDir is <OutDir>/btyper_final_results.
func (p *Pipeline) ResultsDir() string { return filepath.Join(p.OutDir, ResultsDirName) }

// genomeRun is the state of one genome while its categories run.
type genomeRun struct {
	p       *Pipeline
	g       Genome
	log     *zap.Logger
	query   string // path handed to the aligners
	rec     report.Record
	vir     virulence.Presence
	btCalls []string

	dbChecked bool
	dbMade    bool // built here, removed at the end
}

type step struct {
	cat report.Category
	run func(*genomeRun, context.Context, report.Category) error
}

var steps = []step{
	{report.Species, (*genomeRun).ani},
	{report.Subspecies, (*genomeRun).ani},
	{report.Geneflow, (*genomeRun).ani},
	{report.Typestrains, (*genomeRun).ani},
	{report.Virulence, (*genomeRun).virulence},
	{report.Bt, (*genomeRun).bt},
	{report.MLST, (*genomeRun).mlst},
	{report.PanC, (*genomeRun).panC},
}

// RunGenome runs every enabled category for g, writes the per-genome
// results file and returns the record.
func (p *Pipeline) RunGenome(ctx context.Context, g Genome, log *zap.Logger) (report.Record, error) {
	if log == nil {
		log = zap.NewNop()
	}
	ctx = runner.WithLogger(ctx, log)
	start := time.Now()
	log.Info("genome started", zap.String("file", g.Path))

	results := p.ResultsDir()
	if err := os.MkdirAll(results, 0o755); err != nil {
		return report.Record{}, err
	}

	st, err := fasta.ReadStats(g.Path)
	if err != nil {
		return report.Record{}, fmt.Errorf("read genome: %w", err)
	}
	log.Debug("assembly", zap.Int("contigs", st.Contigs), zap.Int("length", st.Total))
	if p.Categories.AnyANI() && st.Fragmented(p.Config.FragmentLength) {
		log.Warn("assembly is highly fragmented; ANI values may be unreliable",
			zap.Int("fragment_length", p.Config.FragmentLength))
	}

	r := &genomeRun{p: p, g: g, log: log, rec: report.New(g.Path, g.Prefix)}

	query, staged, err := fasta.Stage(g.Path, results)
	if err != nil {
		return report.Record{}, err
	}
	r.query = query
	defer func() {
		if r.dbMade {
			if rmErr := runner.RemoveBlastDB(r.query); rmErr != nil {
				log.Warn("could not remove BLAST database", zap.Error(rmErr))
			}
		}
		if staged {
			os.Remove(query)
		}
	}()

	for _, s := range steps {
		if !p.Categories.Has(s.cat) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report.Record{}, err
		}
		t0 := time.Now()
		log.Info("category started", zap.String("category", string(s.cat)))
		if err := s.run(r, ctx, s.cat); err != nil {
			return report.Record{}, fmt.Errorf("%s: %w", s.cat, err)
		}
		log.Info("category finished", zap.String("category", string(s.cat)), zap.Duration("took", time.Since(t0)))
	}

	var vir virulence.Presence
	if p.Categories.Has(report.Virulence) {
		vir = r.vir
	}
	var bt []string
	if p.Categories.Has(report.Bt) {
		bt = r.btCalls
		if bt == nil {
			bt = []string{}
		}
	}
	agg := biovar.Aggregate(r.rec.Species, r.rec.Subspecies, biovar.NewEvidence(vir, bt))
	r.rec.Biovars = agg.Biovars
	r.rec.FinalTaxon = agg.Taxon

	if err := writeFinal(filepath.Join(results, g.Prefix+"_final_results.txt"), r.rec); err != nil {
		return report.Record{}, err
	}
	log.Info("genome finished", zap.String("final_taxon", r.rec.FinalTaxon), zap.Duration("took", time.Since(start)))
	return r.rec, nil
}

func writeFinal(path string, rec report.Record) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := output.WriteTSV(fh, []report.Record{rec}, true); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// categoryDir creates and returns <results>/<category>.
func (r *genomeRun) categoryDir(c report.Category) (string, error) {
	dir := filepath.Join(r.p.ResultsDir(), string(c))
	return dir, os.MkdirAll(dir, 0o755)
}

// missingIsEmpty turns "tool wrote no file" into zero rows.
func missingIsEmpty[T any](list []T, err error) ([]T, error) {
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return list, err
}
