// internal/pipeline/aligner.go
package pipeline

import "context"

// Aligner is the minimal capability the pipeline needs from the external
// tools. runner.Tools satisfies it; tests use fakes that write canned
// result files.
type Aligner interface {
	FastANI(ctx context.Context, query, refList, out string) error
	Blast(ctx context.Context, program, query, db, out string) error
	EnsureBlastDB(ctx context.Context, genome string) (bool, error)
}
