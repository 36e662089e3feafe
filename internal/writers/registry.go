// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"

	"btyper/internal/report"
)

// Args is what a registered record writer receives.
type Args struct {
	Sort   bool
	Header bool
	In     <-chan report.Record
}

// RecordWriters maps an output format to its handler.
// Register in init() blocks.
var RecordWriters = map[string]func(w io.Writer, args Args) error{}

// Register adds or replaces the handler of format (last wins).
func Register(format string, fn func(io.Writer, Args) error) { RecordWriters[format] = fn }

// Write dispatches to the handler registered for format.
func Write(format string, w io.Writer, args Args) error {
	fn, ok := RecordWriters[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	return fn(w, args)
}
