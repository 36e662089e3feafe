// internal/virulence/bt.go
package virulence

import (
	"fmt"
	"strings"

	"btyper/internal/hits"
	"btyper/internal/overlap"
)

// BtOptions configures Bt toxin gene calling.
type BtOptions struct {
	Thresholds hits.Thresholds
	Overlap    float64 // exclusive overlap fraction above which calls conflict
}

// DetectBt selects the best hit per toxin gene, keeps accepted ones and
// collapses overlapping calls to composite labels.
func DetectBt(list []hits.AlignmentHit, o BtOptions) []string {
	calls := hits.Accepted(hits.Calls(hits.SelectBest(list, hits.ByGene), o.Thresholds))
	return overlap.Resolve(overlap.FromGeneCalls(calls), o.Overlap)
}

// BtCell formats the Bt call list as "n(g1;g2)".
func BtCell(genes []string) string {
	return fmt.Sprintf("%d(%s)", len(genes), strings.Join(genes, ";"))
}
