// internal/pipeline/steps.go
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"btyper/internal/hits"
	"btyper/internal/mlst"
	"btyper/internal/report"
	"btyper/internal/taxonomy"
	"btyper/internal/virulence"
)

// ani runs fastANI against the panel of c and stores the rendered call.
func (r *genomeRun) ani(ctx context.Context, c report.Category) error {
	kind := taxonomy.Kind(c)
	panel, ok := r.p.Resources.Panels[kind]
	if !ok {
		return fmt.Errorf("no %s panel loaded", kind)
	}
	dir, err := r.categoryDir(c)
	if err != nil {
		return err
	}

	refList := filepath.Join(dir, fmt.Sprintf("%s_%s_references.txt", r.g.Prefix, c))
	genomes := r.p.Config.Layout().PanelGenomes(kind)
	var b strings.Builder
	for _, id := range panel.IDs() {
		b.WriteString(filepath.Join(genomes, id))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(refList, []byte(b.String()), 0o644); err != nil {
		return err
	}

	out := filepath.Join(dir, fmt.Sprintf("%s_%s_fastani.txt", r.g.Prefix, c))
	if err := r.p.Aligner.FastANI(ctx, r.query, refList, out); err != nil {
		return err
	}
	list, err := hits.ReadANIFile(out, string(c))
	if list, err = missingIsEmpty(list, err); err != nil {
		return err
	}
	r.log.Debug("ani hits", zap.String("category", string(c)), zap.Int("rows", len(list)))

	call, err := taxonomy.Assign(kind, list, panel, r.p.Config.Exemplars)
	if err != nil {
		return err
	}
	cell := call.String()
	switch c {
	case report.Species:
		r.rec.Species = cell
	case report.Subspecies:
		r.rec.Subspecies = cell
	case report.Geneflow:
		r.rec.Geneflow = cell
	case report.Typestrains:
		r.rec.Typestrains = cell
	}
	return nil
}

// blast searches query against the genome and parses the result table.
func (r *genomeRun) blast(ctx context.Context, c report.Category, program, query string) ([]hits.AlignmentHit, error) {
	if !r.dbChecked {
		made, err := r.p.Aligner.EnsureBlastDB(ctx, r.query)
		if err != nil {
			return nil, err
		}
		r.dbChecked, r.dbMade = true, made
	}
	dir, err := r.categoryDir(c)
	if err != nil {
		return nil, err
	}
	out := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", r.g.Prefix, c))
	if err := r.p.Aligner.Blast(ctx, program, query, r.query, out); err != nil {
		return nil, err
	}
	list, err := hits.ReadAlignmentFile(out, string(c))
	if list, err = missingIsEmpty(list, err); err != nil {
		return nil, err
	}
	r.log.Debug("blast hits", zap.String("category", string(c)), zap.String("program", program), zap.Int("rows", len(list)))
	return list, nil
}

func (r *genomeRun) virulence(ctx context.Context, c report.Category) error {
	query, program := r.p.Config.Layout().VirulenceQuery(r.p.Config.VirulenceDB)
	list, err := r.blast(ctx, c, program, query)
	if err != nil {
		return err
	}
	r.vir = virulence.Detect(list, r.p.Config.Virulence)
	r.rec.SetVirulence(r.vir)
	return nil
}

func (r *genomeRun) bt(ctx context.Context, c report.Category) error {
	list, err := r.blast(ctx, c, "tblastn", r.p.Config.Layout().BtQuery())
	if err != nil {
		return err
	}
	r.btCalls = virulence.DetectBt(list, virulence.BtOptions{
		Thresholds: r.p.Config.Bt.Thresholds(),
		Overlap:    r.p.Config.Bt.Overlap,
	})
	r.rec.Bt = virulence.BtCell(r.btCalls)
	return nil
}

func (r *genomeRun) mlst(ctx context.Context, c report.Category) error {
	if r.p.Resources.Profiles == nil {
		return fmt.Errorf("no MLST profiles loaded")
	}
	list, err := r.blast(ctx, c, "blastn", r.p.Config.Layout().MLSTQuery())
	if err != nil {
		return err
	}
	set, perfect := mlst.Extract(list)
	r.rec.MLST = mlst.Resolve(set, perfect, r.p.Resources.Profiles)
	return nil
}

func (r *genomeRun) panC(ctx context.Context, c report.Category) error {
	list, err := r.blast(ctx, c, "blastn", r.p.Config.Layout().PanCQuery())
	if err != nil {
		return err
	}
	r.rec.PanC = virulence.PanCGroup(list, r.p.Config.PanC)
	return nil
}
