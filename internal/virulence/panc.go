// internal/virulence/panc.go
package virulence

import (
	"btyper/internal/hits"
)

// PanCMissing is reported when no panC hit exists.
const PanCMissing = "Unknown(missing allele)"

// DefaultPanCThresholds flag a panC group call below 99% identity or 80%
// coverage.
var DefaultPanCThresholds = hits.Thresholds{Identity: 99, Coverage: 80}

// PanCGroup reports the group of the single best panC hit, flagged with
// "*" when it falls below th.
func PanCGroup(list []hits.AlignmentHit, th hits.Thresholds) string {
	top, ok := hits.Top(list)
	if !ok {
		return PanCMissing
	}
	if !th.Accept(top) {
		return top.Gene() + "*"
	}
	return top.Gene()
}
