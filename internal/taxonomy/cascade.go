// internal/taxonomy/cascade.go
package taxonomy

import (
	"btyper/internal/hits"
)

// Flag marks a label accepted only by fallback or below its threshold.
const Flag = "*"

// Fallback labels used when a panel produced no hits.
const (
	SpeciesUnknown    = "(Species unknown)"
	NoSubspecies      = "No subspecies"
	GeneflowUnknown   = "(Pseudo-gene flow unit unknown)"
	TypeStrainUnknown = "(Type strain unknown)"
)

// GeneflowCandidates is how many hits below the best one are tried when the
// best pseudo-gene flow unit hit misses its own threshold.
const GeneflowCandidates = 4

// Status describes how a Call came about.
type Status int

const (
	NoData   Status = iota // the panel produced zero hits
	Negative               // hits exist but none qualifies (subspecies only)
	Assigned
)

// Call is the outcome of one panel.
type Call struct {
	Kind    Kind
	Status  Status
	Label   string
	ANI     string // verbatim ANI of the reported hit
	Flagged bool
}

// String renders the call as it appears in the report, e.g.
// "cereus s.s.(97.8)" or "mosaicus*(91.2)".
func (c Call) String() string {
	switch c.Status {
	case Assigned:
		s := c.Label
		if c.Flagged {
			s += Flag
		}
		return s + "(" + c.ANI + ")"
	case Negative:
		return NoSubspecies
	}
	return unknownLabel(c.Kind)
}

func unknownLabel(k Kind) string {
	switch k {
	case Species:
		return SpeciesUnknown
	case Subspecies:
		return NoSubspecies
	case Geneflow:
		return GeneflowUnknown
	case Typestrains:
		return TypeStrainUnknown
	}
	return ""
}

func assigned(k Kind, label string, h hits.ANIHit, flagged bool) Call {
	return Call{Kind: k, Status: Assigned, Label: label, ANI: h.ANIText, Flagged: flagged}
}

// Exemplar is a curated subspecies reference genome with its own ANI bound.
type Exemplar struct {
	Reference string  `yaml:"reference"`
	Label     string  `yaml:"label"`
	Threshold float64 `yaml:"threshold"`
}

// AssignSpecies reports the best hit. Below its threshold the label is
// flagged but still returned; lower-ranked hits are never consulted.
func AssignSpecies(list []hits.ANIHit, p *Panel) (Call, error) {
	ranked := hits.RankANI(list)
	if len(ranked) == 0 {
		return Call{Kind: Species, Status: NoData}, nil
	}
	top := ranked[0]
	e, err := p.mustLookup(top.Reference)
	if err != nil {
		return Call{}, err
	}
	return assigned(Species, e.Label, top, top.ANI < e.Threshold), nil
}

// AssignSubspecies reports a subspecies only when the best hit is one of
// the exemplars and reaches that exemplar's threshold.
func AssignSubspecies(list []hits.ANIHit, exemplars []Exemplar) Call {
	ranked := hits.RankANI(list)
	if len(ranked) == 0 {
		return Call{Kind: Subspecies, Status: NoData}
	}
	top := ranked[0]
	for _, ex := range exemplars {
		if top.Reference == ex.Reference && top.ANI >= ex.Threshold {
			return assigned(Subspecies, ex.Label, top, false)
		}
	}
	return Call{Kind: Subspecies, Status: Negative}
}

// AssignGeneflow accepts the best hit if it reaches its own threshold,
// otherwise the first of the next GeneflowCandidates hits that reaches its
// own. If none does, the best hit is returned flagged.
func AssignGeneflow(list []hits.ANIHit, p *Panel) (Call, error) {
	ranked := hits.RankANI(list)
	if len(ranked) == 0 {
		return Call{Kind: Geneflow, Status: NoData}, nil
	}
	last := GeneflowCandidates
	if last > len(ranked)-1 {
		last = len(ranked) - 1
	}
	for _, h := range ranked[:last+1] {
		e, err := p.mustLookup(h.Reference)
		if err != nil {
			return Call{}, err
		}
		if h.ANI >= e.Threshold {
			return assigned(Geneflow, e.Label, h, false), nil
		}
	}
	top := ranked[0]
	e, err := p.mustLookup(top.Reference)
	if err != nil {
		return Call{}, err
	}
	return assigned(Geneflow, e.Label, top, true), nil
}

// AssignTypeStrain reports the nearest type strain with no threshold gating.
func AssignTypeStrain(list []hits.ANIHit, p *Panel) (Call, error) {
	ranked := hits.RankANI(list)
	if len(ranked) == 0 {
		return Call{Kind: Typestrains, Status: NoData}, nil
	}
	top := ranked[0]
	e, err := p.mustLookup(top.Reference)
	if err != nil {
		return Call{}, err
	}
	return assigned(Typestrains, e.Label, top, false), nil
}

// Assign dispatches on the panel kind.
func Assign(k Kind, list []hits.ANIHit, p *Panel, exemplars []Exemplar) (Call, error) {
	switch k {
	case Species:
		return AssignSpecies(list, p)
	case Subspecies:
		return AssignSubspecies(list, exemplars), nil
	case Geneflow:
		return AssignGeneflow(list, p)
	default:
		return AssignTypeStrain(list, p)
	}
}
