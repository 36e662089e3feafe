// internal/pipeline/categories.go
package pipeline

import "btyper/internal/report"

// Categories is the set of analyses switched on.
type Categories map[report.Category]bool

// DefaultCategories has every category on except geneflow and typestrains.
func DefaultCategories() Categories {
	return Categories{
		report.Species:    true,
		report.Subspecies: true,
		report.Virulence:  true,
		report.Bt:         true,
		report.MLST:       true,
		report.PanC:       true,
	}
}

// Has reports whether c is on.
func (cs Categories) Has(c report.Category) bool { return cs[c] }

// AnyANI reports whether a fastANI category is on.
func (cs Categories) AnyANI() bool {
	for c, on := range cs {
		if on && c.ANI() {
			return true
		}
	}
	return false
}

