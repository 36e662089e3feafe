// Package report holds the per-genome record and its column layout.
package report

import (
	"sort"
	"strings"

	"btyper/internal/virulence"
)

// Category is one optional analysis of a genome. Its value doubles as the
// directory name for raw tool output.
type Category string

const (
	Species     Category = "species"
	Subspecies  Category = "subspecies"
	Geneflow    Category = "geneflow"
	Typestrains Category = "typestrains"
	Virulence   Category = "virulence"
	Bt          Category = "bt"
	MLST        Category = "mlst"
	PanC        Category = "panC"
)

// Categories lists every category in run order.
var Categories = []Category{Species, Subspecies, Geneflow, Typestrains, Virulence, Bt, MLST, PanC}

// ANI reports whether the category is answered by fastANI.
func (c Category) ANI() bool {
	switch c {
	case Species, Subspecies, Geneflow, Typestrains:
		return true
	}
	return false
}

var notPerformed = map[Category]string{
	Species:     "(Species assignment not performed)",
	Subspecies:  "(Subspecies assignment not performed)",
	Geneflow:    "(Pseudo-gene flow unit assignment not performed)",
	Typestrains: "(Type strain-based taxonomic assignment not performed)",
	Virulence:   "(Virulence factor detection not performed)",
	Bt:          "(Bt toxin gene detection not performed)",
	MLST:        "(Seven-gene MLST not performed)",
	PanC:        "(panC group assignment not performed)",
}

// NotPerformed is the cell text of a category that was switched off.
func NotPerformed(c Category) string { return notPerformed[c] }

// Record is the outcome of one genome, every category already rendered.
type Record struct {
	Filename    string
	Prefix      string
	Species     string
	Subspecies  string
	Geneflow    string
	Typestrains string
	Virulence   []string // one cell per virulence.Families entry
	Bt          string
	MLST        string
	PanC        string
	Biovars     []string
	FinalTaxon  string
}

// New returns a record where every category reads as not performed.
func New(filename, prefix string) Record {
	r := Record{
		Filename:    filename,
		Prefix:      prefix,
		Species:     NotPerformed(Species),
		Subspecies:  NotPerformed(Subspecies),
		Geneflow:    NotPerformed(Geneflow),
		Typestrains: NotPerformed(Typestrains),
		Virulence:   make([]string, len(virulence.Families)),
		Bt:          NotPerformed(Bt),
		MLST:        NotPerformed(MLST),
		PanC:        NotPerformed(PanC),
		Biovars:     []string{},
	}
	for i := range r.Virulence {
		r.Virulence[i] = NotPerformed(Virulence)
	}
	return r
}

// SetVirulence fills the virulence cells from a presence map.
func (r *Record) SetVirulence(p virulence.Presence) {
	for i, f := range virulence.Families {
		r.Virulence[i] = virulence.Cell(f, p[f.Name])
	}
}

// Columns is the header of the tabular report.
func Columns() []string {
	cols := []string{
		"#filename", "prefix",
		"species(ANI)", "subspecies(ANI)", "pseudo_gene_flow_unit(ANI)", "typestrain(ANI)",
	}
	for _, f := range virulence.Families {
		cols = append(cols, f.Column)
	}
	return append(cols, "Bt(genes)", "ST(MLST)", "panC_group", "biovars", "final_taxon_names")
}

// Header is Columns joined by tabs.
func Header() string { return strings.Join(Columns(), "\t") }

// Row lays the record out in Columns order.
func (r Record) Row() []string {
	row := []string{r.Filename, r.Prefix, r.Species, r.Subspecies, r.Geneflow, r.Typestrains}
	row = append(row, r.Virulence...)
	return append(row, r.Bt, r.MLST, r.PanC, BiovarCell(r.Biovars), r.FinalTaxon)
}

// BiovarCell renders the biovar list, "-" when empty.
func BiovarCell(b []string) string {
	if len(b) == 0 {
		return "-"
	}
	return strings.Join(b, ",")
}

// Less orders records by prefix, then by file name.
func Less(a, b Record) bool {
	if a.Prefix != b.Prefix {
		return a.Prefix < b.Prefix
	}
	return a.Filename < b.Filename
}

// Sort orders records in place (stable).
func Sort(list []Record) {
	sort.SliceStable(list, func(i, j int) bool { return Less(list[i], list[j]) })
}
