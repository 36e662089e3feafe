package hits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hit(gene string, score, ident, cov float64) AlignmentHit {
	return AlignmentHit{QueryID: gene, SubjectID: "contig", BitScore: score, Identity: ident, QCov: cov}
}

func TestSelectBest_OneEntryPerGene(t *testing.T) {
	list := []AlignmentHit{
		hit("nheA", 100, 90, 90),
		hit("nheB", 50, 90, 90),
		hit("nheA", 300, 80, 90),
		hit("nheB", 20, 99, 99),
		hit("nheA", 299, 99, 99),
	}
	best := SelectBest(list, ByGene)
	require.Len(t, best, 2)
	for g, b := range best {
		for _, h := range list {
			if h.Gene() == g {
				assert.GreaterOrEqual(t, b.Score(), h.Score())
			}
		}
	}
	assert.Equal(t, 300.0, best["nheA"].Score())
}

func TestSelectBest_TieKeepsFirstRow(t *testing.T) {
	first := hit("cya", 10, 91, 80)
	second := hit("cya", 10, 99, 99)
	best := SelectBest([]AlignmentHit{first, second}, ByGene)
	assert.Equal(t, first, best["cya"])
}

func TestSelectBest_ExactKeyMatch(t *testing.T) {
	// "cytK" is a prefix of "cytK-1"; the two must never merge.
	best := SelectBest([]AlignmentHit{hit("cytK-1", 5, 1, 1), hit("cytK", 9, 1, 1)}, ByGene)
	assert.Len(t, best, 2)
}

func TestSelectBest_Empty(t *testing.T) {
	assert.Empty(t, SelectBest(nil, ByGene))
	_, ok := Top(nil)
	assert.False(t, ok)
}

func TestSelectTied(t *testing.T) {
	list := []AlignmentHit{
		hit("glp_1", 400, 100, 100),
		hit("glp_2", 400, 99, 100),
		hit("glp_3", 390, 99, 100),
	}
	tied := SelectTied(list, func(h AlignmentHit) string { return "glp" })
	require.Len(t, tied["glp"], 2)
	assert.Equal(t, "glp_1", tied["glp"][0].QueryID)
	assert.Equal(t, "glp_2", tied["glp"][1].QueryID)
}

func TestThresholdsInclusive(t *testing.T) {
	th := Thresholds{Identity: 70, Coverage: 80}
	assert.True(t, th.Accept(hit("x", 1, 70, 80)))
	assert.False(t, th.Accept(hit("x", 1, 69.99, 80)))
	assert.False(t, th.Accept(hit("x", 1, 70, 79.9)))
}

func TestCallsAndAccepted(t *testing.T) {
	best := SelectBest([]AlignmentHit{
		hit("pagA", 10, 99, 99),
		hit("cya", 10, 50, 99),
	}, ByGene)
	calls := Calls(best, Thresholds{Identity: 70, Coverage: 80})
	require.Len(t, calls, 2)
	assert.Equal(t, "cya", calls[0].Gene)
	assert.False(t, calls[0].Accepted)

	acc := Accepted(calls)
	require.Len(t, acc, 1)
	assert.Equal(t, "pagA", acc[0].Gene)
}

func TestRankANI_StableDescending(t *testing.T) {
	in := []ANIHit{
		{Reference: "a", ANI: 90},
		{Reference: "b", ANI: 95},
		{Reference: "c", ANI: 95},
		{Reference: "d", ANI: 99},
	}
	out := RankANI(in)
	var refs []string
	for i, h := range out {
		refs = append(refs, h.Reference)
		assert.Equal(t, i, h.Rank)
	}
	assert.Equal(t, []string{"d", "b", "c", "a"}, refs)
	assert.Equal(t, "a", in[0].Reference, "input left untouched")
}
