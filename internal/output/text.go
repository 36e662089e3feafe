// internal/output/text.go
package output

import (
	"fmt"
	"io"
	"strings"

	"btyper/internal/report"
)

// FormatRowTSV returns one record as a tab-joined line (no trailing newline).
func FormatRowTSV(r report.Record) string {
	return strings.Join(r.Row(), "\t")
}

// WriteTSV writes records as a tab-delimited table.
func WriteTSV(w io.Writer, list []report.Record, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader()); err != nil {
			return err
		}
	}
	for _, r := range list {
		if _, err := fmt.Fprintln(w, FormatRowTSV(r)); err != nil {
			return err
		}
	}
	return nil
}

// StreamTSV writes records as they arrive. The header goes out before the
// first record is awaited.
func StreamTSV(w io.Writer, in <-chan report.Record, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader()); err != nil {
			return err
		}
	}
	for r := range in {
		if _, err := fmt.Fprintln(w, FormatRowTSV(r)); err != nil {
			return err
		}
	}
	return nil
}
