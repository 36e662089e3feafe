// internal/mlst/resolve.go
package mlst

import (
	"fmt"
	"strconv"
	"strings"
)

// Result labels.
const (
	MissingAlleles  = "Unknown(missing alleles)"
	UnknownST       = "Unknown(unknown ST)"
	NoClonalComplex = "No clonal complex"
	Separator       = ";"
)

// Resolve looks up every combination of tied alleles and joins the matching
// sequence types as "ST[clonal complex](perfect/7)". An incomplete allele
// set short-circuits to MissingAlleles without any lookup.
func Resolve(set AlleleSet, perfect int, profiles *Profiles) string {
	if !set.Complete() {
		return MissingAlleles
	}
	var calls []string
	for _, combo := range Combinations(set) {
		key, ok := numericKey(combo)
		if !ok {
			continue
		}
		pr, found := profiles.Lookup(key)
		if !found {
			continue
		}
		cc := pr.ClonalComplex
		if cc == "" {
			cc = NoClonalComplex
		}
		calls = append(calls, fmt.Sprintf("%s[%s](%d/%d)", pr.ST, cc, perfect, LocusCount))
	}
	if len(calls) == 0 {
		return fmt.Sprintf("%s(%d/%d)", UnknownST, perfect, LocusCount)
	}
	return strings.Join(calls, Separator)
}

// Combinations is the Cartesian product of the per-locus allele sets, in
// Loci order with the last locus varying fastest.
func Combinations(set AlleleSet) [][LocusCount]string {
	out := [][LocusCount]string{{}}
	for i, locus := range Loci {
		next := make([][LocusCount]string, 0, len(out)*len(set[locus]))
		for _, prefix := range out {
			for _, a := range set[locus] {
				c := prefix
				c[i] = a
				next = append(next, c)
			}
		}
		out = next
	}
	return out
}

// numericKey converts allele ids to a profile key. Non-numeric ids (novel
// or partial alleles) cannot match any profile.
func numericKey(combo [LocusCount]string) (Key, bool) {
	var k Key
	for i, a := range combo {
		n, err := strconv.Atoi(a)
		if err != nil {
			return Key{}, false
		}
		k[i] = n
	}
	return k, true
}
