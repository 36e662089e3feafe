// internal/hits/select.go
package hits

import (
	"sort"
)

// KeyFunc extracts the grouping key of a hit.
type KeyFunc func(AlignmentHit) string

// ByGene groups hits by exact gene name.
func ByGene(h AlignmentHit) string { return h.Gene() }

// SelectBest picks the highest-scoring hit for every distinct key. Ties keep
// the earliest row, so the result depends only on input order. Keys with no
// hits are absent from the map.
func SelectBest(list []AlignmentHit, key KeyFunc) map[string]AlignmentHit {
	best := make(map[string]AlignmentHit)
	for _, h := range list {
		k := key(h)
		cur, ok := best[k]
		if !ok || h.Score() > cur.Score() {
			best[k] = h
		}
	}
	return best
}

// SelectTied returns, per key, every hit whose score equals the key's
// maximum, in input order. The first element is what SelectBest returns.
func SelectTied(list []AlignmentHit, key KeyFunc) map[string][]AlignmentHit {
	best := SelectBest(list, key)
	out := make(map[string][]AlignmentHit, len(best))
	for _, h := range list {
		k := key(h)
		if h.Score() == best[k].Score() {
			out[k] = append(out[k], h)
		}
	}
	return out
}

// Top returns the single best hit of the whole table.
func Top(list []AlignmentHit) (AlignmentHit, bool) {
	best := SelectBest(list, func(AlignmentHit) string { return "" })
	h, ok := best[""]
	return h, ok
}

// SortedKeys returns the keys of m in lexicographic order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Thresholds are the inclusive acceptance bounds for a gene family.
type Thresholds struct {
	Identity float64 // minimum percent identity
	Coverage float64 // minimum percent query coverage
}

// Accept reports whether h meets both bounds.
func (t Thresholds) Accept(h AlignmentHit) bool {
	return h.Identity >= t.Identity && h.Coverage() >= t.Coverage
}

// GeneCall is the best hit for one gene and whether it passed the thresholds.
type GeneCall struct {
	Gene     string
	Best     AlignmentHit
	Accepted bool
}

// Calls turns a selection into gene calls ordered by gene name.
func Calls(best map[string]AlignmentHit, t Thresholds) []GeneCall {
	out := make([]GeneCall, 0, len(best))
	for _, g := range SortedKeys(best) {
		h := best[g]
		out = append(out, GeneCall{Gene: g, Best: h, Accepted: t.Accept(h)})
	}
	return out
}

// Accepted keeps only accepted calls. Rejected calls are dropped silently.
func Accepted(calls []GeneCall) []GeneCall {
	out := make([]GeneCall, 0, len(calls))
	for _, c := range calls {
		if c.Accepted {
			out = append(out, c)
		}
	}
	return out
}

// RankANI sorts hits by descending ANI, keeping input order among equal
// values, and stamps each hit with its rank.
func RankANI(list []ANIHit) []ANIHit {
	out := make([]ANIHit, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ANI > out[j].ANI })
	for i := range out {
		out[i].Rank = i
	}
	return out
}
