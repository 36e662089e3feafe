// internal/cli/options.go
package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/pflag"

	"btyper/internal/config"
	"btyper/internal/output"
	"btyper/internal/report"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Input / output
	Inputs     []string
	OutDir     string
	ConfigPath string
	DBDir      string

	// Categories
	Species     bool
	Subspecies  bool
	Geneflow    bool
	Typestrains bool
	Virulence   bool
	Bt          bool
	MLST        bool
	PanC        bool

	// Thresholds
	VirulenceDB       string
	VirulenceIdentity float64
	VirulenceCoverage float64
	BtIdentity        float64
	BtCoverage        float64
	BtOverlap         float64
	EValue            string
	Retries           int

	// Performance
	Threads  int
	FailFast bool

	// Output
	Format  string
	Sort    bool
	Header  bool // true unless --no-header
	Quiet   bool
	Verbose bool

	noHeader bool
}

// Register adds every flag to fs. Threshold defaults come from def so the
// help text shows the values that apply when nothing else is set.
func (o *Options) Register(fs *pflag.FlagSet, def *config.Config) {
	fs.StringArrayVarP(&o.Inputs, "input", "i", nil, "genome assembly in FASTA format, optionally gzipped (repeatable) [*]")
	fs.StringVarP(&o.OutDir, "output", "o", ".", "directory that receives btyper_final_results/")
	fs.StringVarP(&o.ConfigPath, "config", "c", "", "YAML configuration file")
	fs.StringVar(&o.DBDir, "db", def.DBDir, "reference database directory")

	fs.BoolVar(&o.Species, "species", true, "ANI-based species assignment")
	fs.BoolVar(&o.Subspecies, "subspecies", true, "ANI-based subspecies assignment")
	fs.BoolVar(&o.Geneflow, "geneflow", false, "ANI-based pseudo-gene flow unit assignment")
	fs.BoolVar(&o.Typestrains, "typestrains", false, "ANI comparison against type strain genomes")
	fs.BoolVar(&o.Virulence, "virulence", true, "virulence factor detection")
	fs.BoolVar(&o.Bt, "bt", true, "Bt toxin gene detection")
	fs.BoolVar(&o.MLST, "mlst", true, "seven-gene MLST")
	fs.BoolVar(&o.PanC, "panc", true, "panC group assignment")

	fs.StringVar(&o.VirulenceDB, "virulence-db", def.VirulenceDB, "virulence database: aa (tblastn) | nuc (blastn)")
	fs.Float64Var(&o.VirulenceIdentity, "virulence-identity", def.Virulence.Identity, "minimum percent identity for a virulence gene")
	fs.Float64Var(&o.VirulenceCoverage, "virulence-coverage", def.Virulence.Coverage, "minimum percent coverage for a virulence gene")
	fs.Float64Var(&o.BtIdentity, "bt-identity", def.Bt.Identity, "minimum percent identity for a Bt toxin gene")
	fs.Float64Var(&o.BtCoverage, "bt-coverage", def.Bt.Coverage, "minimum percent coverage for a Bt toxin gene")
	fs.Float64Var(&o.BtOverlap, "bt-overlap", def.Bt.Overlap, "overlap fraction above which two Bt hits compete")
	fs.StringVar(&o.EValue, "evalue", def.EValue, "BLAST e-value cutoff")
	fs.IntVar(&o.Retries, "retries", def.Retry.Attempts, "extra attempts for a failed external tool")

	fs.IntVarP(&o.Threads, "threads", "t", 1, "genomes processed concurrently")
	fs.BoolVar(&o.FailFast, "fail-fast", false, "stop the batch at the first failing genome")

	fs.StringVarP(&o.Format, "format", "f", output.FormatText, "output format: text | json | jsonl | pretty")
	fs.BoolVar(&o.Sort, "sort", false, "sort records by prefix before writing")
	fs.BoolVar(&o.noHeader, "no-header", false, "suppress header line in text output")
	fs.BoolVarP(&o.Quiet, "quiet", "q", false, "only log warnings and errors to stderr")
	fs.BoolVarP(&o.Verbose, "verbose", "V", false, "log debug detail to stderr")
}

// Finish derives computed fields and validates. Call it after parsing.
func (o *Options) Finish() error {
	o.Header = !o.noHeader

	if len(o.Inputs) == 0 {
		return errors.New("at least one --input genome is required")
	}
	if o.Threads < 1 {
		return errors.New("--threads must be ≥ 1")
	}
	if o.Retries < 0 {
		return errors.New("--retries must be ≥ 0")
	}
	if !slices.Contains(output.Formats, o.Format) {
		return fmt.Errorf("invalid --format %q", o.Format)
	}
	if o.Quiet && o.Verbose {
		return errors.New("--quiet conflicts with --verbose")
	}
	if !slices.ContainsFunc(report.Categories, func(c report.Category) bool { return o.Categories()[c] }) {
		return errors.New("every category is switched off; nothing to do")
	}
	return nil
}

// Categories returns the analyses switched on.
func (o *Options) Categories() map[report.Category]bool {
	return map[report.Category]bool{
		report.Species:     o.Species,
		report.Subspecies:  o.Subspecies,
		report.Geneflow:    o.Geneflow,
		report.Typestrains: o.Typestrains,
		report.Virulence:   o.Virulence,
		report.Bt:          o.Bt,
		report.MLST:        o.MLST,
		report.PanC:        o.PanC,
	}
}

// Apply copies every explicitly set flag onto cfg. Flags left at their
// default keep whatever the file or environment configured.
func (o *Options) Apply(fs *pflag.FlagSet, cfg *config.Config) {
	set := func(name string, fn func()) {
		if fs.Changed(name) {
			fn()
		}
	}
	set("db", func() { cfg.DBDir = o.DBDir })
	set("virulence-db", func() { cfg.VirulenceDB = o.VirulenceDB })
	set("virulence-identity", func() { cfg.Virulence.Identity = o.VirulenceIdentity })
	set("virulence-coverage", func() { cfg.Virulence.Coverage = o.VirulenceCoverage })
	set("bt-identity", func() { cfg.Bt.Identity = o.BtIdentity })
	set("bt-coverage", func() { cfg.Bt.Coverage = o.BtCoverage })
	set("bt-overlap", func() { cfg.Bt.Overlap = o.BtOverlap })
	set("evalue", func() { cfg.EValue = o.EValue })
	set("retries", func() { cfg.Retry.Attempts = o.Retries })
}
