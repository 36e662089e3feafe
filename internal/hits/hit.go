// internal/hits/hit.go
package hits

// Interval is an inclusive genomic coordinate range with Start <= End.
type Interval struct {
	Start int
	End   int
}

// NewInterval normalizes a pair of coordinates that may be given in either
// order (reverse-strand hits report send < sstart).
func NewInterval(a, b int) Interval {
	if b < a {
		a, b = b, a
	}
	return Interval{Start: a, End: b}
}

// Len is the number of positions covered.
func (iv Interval) Len() int { return iv.End - iv.Start + 1 }

// Intersect returns the number of positions shared by iv and o.
func (iv Interval) Intersect(o Interval) int {
	lo, hi := iv.Start, iv.End
	if o.Start > lo {
		lo = o.Start
	}
	if o.End < hi {
		hi = o.End
	}
	if hi < lo {
		return 0
	}
	return hi - lo + 1
}

// AlignmentHit is one row of BLAST tabular output in the 16-column layout
// "qseqid sseqid pident length mismatch gapopen qstart qend sstart send
// evalue bitscore qlen slen qcovs qcovhsp".
//
// Marker and toxin sequences are the BLAST query and the genome is the
// database, so the gene lives in QueryID and genomic coordinates in
// SStart/SEnd.
type AlignmentHit struct {
	QueryID    string
	SubjectID  string
	Identity   float64
	AlignLen   int
	Mismatches int
	GapOpens   int
	QStart     int
	QEnd       int
	SStart     int
	SEnd       int
	EValue     float64
	BitScore   float64
	QLen       int
	SLen       int
	QCov       float64
	QCovHSP    float64
}

// Gene is the marker/toxin gene the hit belongs to.
func (h AlignmentHit) Gene() string { return h.QueryID }

// Score is the ranking score (bit score; higher is better).
func (h AlignmentHit) Score() float64 { return h.BitScore }

// Coverage is the per-subject query coverage (qcovs).
func (h AlignmentHit) Coverage() float64 { return h.QCov }

// SubjectRange is the genomic range of the hit.
func (h AlignmentHit) SubjectRange() Interval { return NewInterval(h.SStart, h.SEnd) }

// ANIHit is one fastANI row: query, reference, ANI, matched and total fragments.
type ANIHit struct {
	Query     string
	Reference string // basename of the reference genome path
	ANI       float64
	ANIText   string // ANI exactly as the tool printed it
	Matches   int
	Fragments int
	Rank      int // position after RankANI; -1 before ranking
}
