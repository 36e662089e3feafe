// Package virulence turns gene hits into per-family presence lists.
package virulence

import (
	"fmt"
	"strings"

	"btyper/internal/hits"
)

// Family is a virulence gene family tracked in the report.
type Family struct {
	Name   string
	Column string // report column header
	Genes  []string
	// Exclusive families report at most one member: the accepted variant
	// with the highest score.
	Exclusive bool
}

// Total is the denominator shown in the report cell.
func (f Family) Total() int {
	if f.Exclusive {
		return 1
	}
	return len(f.Genes)
}

func (f Family) has(gene string) bool {
	for _, g := range f.Genes {
		if g == gene {
			return true
		}
	}
	return false
}

// Family names.
const (
	Anthrax   = "anthrax_toxin"
	Cereulide = "cereulide"
	Hbl       = "hbl"
	Nhe       = "nhe"
	CytK      = "cytK"
	Sph       = "sph"
	Cap       = "cap"
	Has       = "has"
	Bps       = "bps"
)

// Families is the fixed family table in report order.
var Families = []Family{
	{Name: Anthrax, Column: "anthrax_toxin(genes)", Genes: []string{"cya", "lef", "pagA"}},
	{Name: Cereulide, Column: "cereulide(genes)", Genes: []string{"cesA", "cesB", "cesC", "cesD"}},
	{Name: Hbl, Column: "hbl(genes)", Genes: []string{"hblA", "hblB", "hblC", "hblD"}},
	{Name: Nhe, Column: "nhe(genes)", Genes: []string{"nheA", "nheB", "nheC"}},
	{Name: CytK, Column: "cytK(top_hit)", Genes: []string{"cytK-1", "cytK-2"}, Exclusive: true},
	{Name: Sph, Column: "sph(genes)", Genes: []string{"sph"}},
	{Name: Cap, Column: "capABCDE(genes)", Genes: []string{"capA", "capB", "capC", "capD", "capE"}},
	{Name: Has, Column: "hasABC(genes)", Genes: []string{"hasA", "hasB", "hasC"}},
	{Name: Bps, Column: "bpsXABCDEFGH(genes)", Genes: []string{"bpsA", "bpsB", "bpsC", "bpsD", "bpsE", "bpsF", "bpsG", "bpsH", "bpsX"}},
}

// Presence maps family name to its accepted genes, in gene-name order.
// Every family has an entry, possibly empty.
type Presence map[string][]string

// Classify distributes accepted calls over the family table. calls must be
// ordered by gene name (as hits.Calls returns them).
func Classify(calls []hits.GeneCall) Presence {
	p := make(Presence, len(Families))
	for _, f := range Families {
		p[f.Name] = []string{}
	}
	for _, f := range Families {
		var top float64
		for _, c := range calls {
			if !c.Accepted || !f.has(c.Gene) {
				continue
			}
			if !f.Exclusive {
				p[f.Name] = append(p[f.Name], c.Gene)
				continue
			}
			if s := c.Best.Score(); s > top {
				top = s
				p[f.Name] = []string{c.Gene}
			}
		}
	}
	return p
}

// Detect runs best-hit selection and acceptance over raw virulence hits.
func Detect(list []hits.AlignmentHit, th hits.Thresholds) Presence {
	return Classify(hits.Calls(hits.SelectBest(list, hits.ByGene), th))
}

// Cell formats a family as "n/total(g1;g2)".
func Cell(f Family, genes []string) string {
	return fmt.Sprintf("%d/%d(%s)", len(genes), f.Total(), strings.Join(genes, ";"))
}
