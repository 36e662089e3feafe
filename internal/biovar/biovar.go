// Package biovar derives biovar labels from gene presence and builds the
// composite taxon name reported for a genome.
package biovar

import (
	"strings"

	"btyper/internal/taxonomy"
	"btyper/internal/virulence"
)

// BtFamily is the Evidence key carrying the Bt toxin call list.
const BtFamily = "bt"

// Rule assigns Biovar once Min genes of Family are present. The label is
// flagged unless Complete genes are present; Complete 0 never flags.
type Rule struct {
	Biovar   string
	Family   string
	Min      int
	Complete int
}

// Rules is evaluated in order; the order is the order of labels in the
// composite name.
var Rules = []Rule{
	{Biovar: "Anthracis", Family: virulence.Anthrax, Min: 2, Complete: 3},
	{Biovar: "Emeticus", Family: virulence.Cereulide, Min: 2, Complete: 4},
	{Biovar: "Thuringiensis", Family: BtFamily, Min: 1},
}

// Evidence maps a family to its accepted genes. A family that was not
// screened has no key.
type Evidence map[string][]string

// NewEvidence collects the families screened for a genome. Pass nil for a
// screen that did not run.
func NewEvidence(vir virulence.Presence, bt []string) Evidence {
	e := Evidence{}
	for name, genes := range vir {
		e[name] = genes
	}
	if bt != nil {
		e[BtFamily] = bt
	}
	return e
}

// Labels applies Rules to e.
func Labels(e Evidence) []string {
	out := []string{}
	for _, r := range Rules {
		genes, ok := e[r.Family]
		if !ok || len(genes) < r.Min {
			continue
		}
		label := r.Biovar
		if r.Complete > 0 && len(genes) < r.Complete {
			label += taxonomy.Flag
		}
		out = append(out, label)
	}
	return out
}

type subspeciesName struct {
	trinomial string
	binomial  string
}

// Subspecies whose call replaces the species in the composite name.
var subspeciesNames = map[string]subspeciesName{
	"anthracis": {trinomial: "B. mosaicus subsp. anthracis", binomial: "B. anthracis"},
	"cereus":    {trinomial: "B. mosaicus subsp. cereus", binomial: "B. cereus"},
}

// TaxonName strips the "(ANI)" suffix from a rendered taxonomy cell.
// Cells that start with "(" (unknown or not performed) yield "".
func TaxonName(cell string) string {
	name, _, _ := strings.Cut(cell, "(")
	return strings.TrimSpace(name)
}

// Compose builds the final taxon name from the rendered species and
// subspecies cells and the biovar labels, e.g.
// "B. mosaicus subsp. anthracis biovar Anthracis; B. anthracis biovar Anthracis; B. Anthracis".
func Compose(species, subspecies string, biovars []string) string {
	joined := strings.Join(biovars, ",")
	var clause string
	switch len(biovars) {
	case 0:
	case 1:
		clause = " biovar " + joined
	default:
		clause = " biovars " + joined
	}

	var b strings.Builder
	sp := TaxonName(species)
	if n, ok := subspeciesNames[TaxonName(subspecies)]; ok {
		b.WriteString(n.trinomial + clause + "; " + n.binomial + clause)
	} else if sp != "" && !strings.Contains(sp, taxonomy.Flag) {
		b.WriteString("B. " + sp + clause)
	} else {
		b.WriteString(taxonomy.SpeciesUnknown + clause)
	}
	if len(biovars) > 0 {
		b.WriteString("; B. " + joined)
	}
	return b.String()
}

// Result is the aggregated biovar outcome of one genome.
type Result struct {
	Biovars []string
	Taxon   string
}

// Aggregate runs Labels and Compose.
func Aggregate(species, subspecies string, e Evidence) Result {
	labels := Labels(e)
	return Result{Biovars: labels, Taxon: Compose(species, subspecies, labels)}
}
