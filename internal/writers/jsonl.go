// internal/writers/jsonl.go
package writers

import (
	"io"

	"btyper/internal/jsonlutil"
	"btyper/internal/output"
	"btyper/internal/report"
)

// StartJSONLWriter streams each record as one JSON line.
func StartJSONLWriter(out io.Writer, bufSize int) (chan<- report.Record, <-chan error) {
	return jsonlutil.Start[report.Record](out, bufSize, output.EncodeLine, IsBrokenPipe)
}
