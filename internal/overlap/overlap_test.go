package overlap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"btyper/internal/hits"
)

func call(gene string, start, end int, score float64) Call {
	return Call{Gene: gene, Range: hits.NewInterval(start, end), Score: score}
}

func TestFraction_NormalizedBySecond(t *testing.T) {
	a := hits.NewInterval(0, 10)
	b := hits.NewInterval(5, 25)
	assert.InDelta(t, 6.0/21.0, Fraction(a, b), 1e-12)
	assert.InDelta(t, 6.0/11.0, Fraction(b, a), 1e-12)
	assert.NotEqual(t, Fraction(a, b), Fraction(b, a))
}

func TestResolve_HigherScoreWins(t *testing.T) {
	calls := []Call{call("geneA", 100, 200, 50), call("geneB", 150, 250, 80)}
	assert.Equal(t, []string{"geneB"}, Resolve(calls, 0.3))
}

func TestResolve_BelowThresholdStaysSeparate(t *testing.T) {
	calls := []Call{call("geneA", 100, 200, 50), call("geneB", 150, 250, 80)}
	assert.Equal(t, []string{"geneA", "geneB"}, Resolve(calls, 0.99))
}

func TestResolve_ThresholdIsExclusive(t *testing.T) {
	// |A∩B| = 50, |B| = 100 -> exactly 0.5
	calls := []Call{call("cry1", 1, 100, 10), call("cry2", 51, 150, 20)}
	assert.Equal(t, []string{"cry1", "cry2"}, Resolve(calls, 0.5))
	assert.Equal(t, []string{"cry2"}, Resolve(calls, 0.49))
}

func TestResolve_TiesCombine(t *testing.T) {
	calls := []Call{
		call("Cry2Ab", 500, 1000, 900),
		call("Cry1Aa", 500, 1000, 900),
		call("Vip3A", 5000, 6000, 10),
	}
	assert.Equal(t, []string{"Cry1Aa/Cry2Ab", "Vip3A"}, Resolve(calls, 0.7))
}

func TestResolve_ReverseStrandRanges(t *testing.T) {
	a := Call{Gene: "cyt1", Range: hits.NewInterval(200, 100), Score: 40}
	b := Call{Gene: "cyt2", Range: hits.NewInterval(250, 150), Score: 30}
	assert.Equal(t, []string{"cyt1"}, Resolve([]Call{a, b}, 0.3))
}

func TestResolve_NotTransitive(t *testing.T) {
	// B overlaps both A and C; A and C do not overlap each other.
	// From A's view B wins; from B's and C's views C wins.
	calls := []Call{
		call("A", 1, 100, 10),
		call("B", 60, 160, 20),
		call("C", 120, 220, 30),
	}
	assert.Equal(t, []string{"B", "C"}, Resolve(calls, 0.3))
}

func TestResolve_Empty(t *testing.T) {
	assert.Empty(t, Resolve(nil, 0.7))
}

func TestResolve_Idempotent(t *testing.T) {
	calls := []Call{
		call("geneA", 100, 200, 50),
		call("geneB", 150, 250, 80),
		call("geneC", 1000, 1100, 30),
		call("geneD", 2000, 2100, 60),
		call("geneE", 2000, 2100, 60),
	}
	first := Resolve(calls, 0.3)
	require.Equal(t, []string{"geneB", "geneC", "geneD/geneE"}, first)

	byGene := map[string]Call{}
	for _, c := range calls {
		byGene[c.Gene] = c
	}
	again := []Call{
		{Gene: "geneB", Range: byGene["geneB"].Range, Score: 80},
		{Gene: "geneC", Range: byGene["geneC"].Range, Score: 30},
		{Gene: "geneD/geneE", Range: byGene["geneD"].Range, Score: 60},
	}
	assert.Equal(t, first, Resolve(again, 0.3))
}

func TestFromGeneCalls(t *testing.T) {
	gc := []hits.GeneCall{{
		Gene:     "Cry1Ac",
		Best:     hits.AlignmentHit{QueryID: "Cry1Ac", SStart: 900, SEnd: 100, BitScore: 77},
		Accepted: true,
	}}
	out := FromGeneCalls(gc)
	require.Len(t, out, 1)
	assert.Equal(t, hits.Interval{Start: 100, End: 900}, out[0].Range)
	assert.Equal(t, 77.0, out[0].Score)
}
