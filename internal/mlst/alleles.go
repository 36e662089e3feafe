// Package mlst assigns sequence types from seven-gene MLST allele hits.
package mlst

import (
	"sort"
	"strconv"
	"strings"

	"btyper/internal/hits"
)

// Loci is the seven-gene scheme, in profile column order.
var Loci = [LocusCount]string{"glp", "gmk", "ilv", "pta", "pur", "pyc", "tpi"}

// LocusCount is the number of loci in the scheme.
const LocusCount = 7

// AlleleSet maps a locus to its tied best-scoring allele ids. More than one
// id means the best hit was ambiguous.
type AlleleSet map[string][]string

// SplitAlleleID splits "glp_12" into ("glp", "12"). The locus is the token
// before the first underscore and the allele the token after the last one.
func SplitAlleleID(id string) (locus, allele string) {
	locus = id
	if i := strings.IndexByte(id, '_'); i >= 0 {
		locus = id[:i]
	}
	allele = id
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		allele = id[i+1:]
	}
	return locus, allele
}

func byLocus(h hits.AlignmentHit) string {
	l, _ := SplitAlleleID(h.Gene())
	return l
}

// Extract builds the allele set from MLST hits and counts the loci whose
// best hit matched with 100% identity and 100% coverage. Loci outside the
// scheme are ignored.
func Extract(list []hits.AlignmentHit) (AlleleSet, int) {
	tied := hits.SelectTied(list, byLocus)
	set := make(AlleleSet, LocusCount)
	perfect := 0
	for _, locus := range Loci {
		group, ok := tied[locus]
		if !ok {
			continue
		}
		if best := group[0]; best.Identity == 100 && best.Coverage() == 100 {
			perfect++
		}
		seen := make(map[string]struct{}, len(group))
		var ids []string
		for _, h := range group {
			_, a := SplitAlleleID(h.Gene())
			if _, dup := seen[a]; dup {
				continue
			}
			seen[a] = struct{}{}
			ids = append(ids, a)
		}
		sortAlleles(ids)
		set[locus] = ids
	}
	return set, perfect
}

// Complete reports whether every scheme locus has at least one allele.
func (s AlleleSet) Complete() bool {
	for _, l := range Loci {
		if len(s[l]) == 0 {
			return false
		}
	}
	return true
}

// sortAlleles orders numeric ids numerically, then the rest lexically.
func sortAlleles(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return ids[i] < ids[j]
	})
}
