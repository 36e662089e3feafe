// Package overlap collapses toxin gene calls that land on the same genomic
// region, so one physical gene is not reported under several names.
package overlap

import (
	"sort"
	"strings"

	"btyper/internal/hits"
)

// Separator joins gene names that tie for the best score in one region.
const Separator = "/"

// Call is an accepted gene call reduced to what the resolver needs.
type Call struct {
	Gene  string
	Range hits.Interval
	Score float64
}

// FromGeneCalls converts accepted gene calls, keeping their order.
func FromGeneCalls(calls []hits.GeneCall) []Call {
	out := make([]Call, 0, len(calls))
	for _, c := range calls {
		out = append(out, Call{Gene: c.Gene, Range: c.Best.SubjectRange(), Score: c.Best.Score()})
	}
	return out
}

// Fraction is |a ∩ b| / |b|. It is normalized by b, so Fraction(a, b) and
// Fraction(b, a) differ whenever the ranges differ in length.
func Fraction(a, b hits.Interval) float64 {
	return float64(a.Intersect(b)) / float64(b.Len())
}

// Resolve returns the sorted, de-duplicated composite labels.
//
// For each call A, every other call B with Fraction(A, B) > threshold joins
// A's conflict table together with A itself. The labels reaching the highest
// score in that table form A's winner set, joined with Separator. A call with
// no conflicts is its own winner. Conflicts are only ever evaluated from each
// call's own perspective; they are not closed transitively.
func Resolve(calls []Call, threshold float64) []string {
	seen := make(map[string]struct{}, len(calls))
	out := make([]string, 0, len(calls))
	for i, a := range calls {
		conflicts := make(map[string]float64)
		for j, b := range calls {
			if i == j || a.Gene == b.Gene {
				continue
			}
			if Fraction(a.Range, b.Range) > threshold {
				conflicts[a.Gene] = a.Score
				conflicts[b.Gene] = b.Score
			}
		}
		label := a.Gene
		if len(conflicts) > 0 {
			label = strings.Join(winners(conflicts), Separator)
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

func winners(scores map[string]float64) []string {
	var (
		top   float64
		names []string
	)
	for g, s := range scores {
		switch {
		case names == nil || s > top:
			top = s
			names = []string{g}
		case s == top:
			names = append(names, g)
		}
	}
	sort.Strings(names)
	return names
}
