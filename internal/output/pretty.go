// internal/output/pretty.go
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"btyper/internal/report"
)

const prettyKeyWidth = 28

var (
	prettyTitle = lipgloss.NewStyle().Bold(true)
	prettyKey   = lipgloss.NewStyle().Faint(true).Width(prettyKeyWidth)
	prettyBox   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// RenderRecord draws one record as a boxed key/value block.
func RenderRecord(r report.Record) string {
	cols, row := report.Columns(), r.Row()
	lines := make([]string, 0, len(cols))
	lines = append(lines, prettyTitle.Render(r.Prefix+": "+r.FinalTaxon))
	// skip filename and prefix
	for i := 2; i < len(cols) && i < len(row); i++ {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, prettyKey.Render(cols[i]), row[i]))
	}
	return prettyBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// StreamPretty writes one block per record as they arrive.
func StreamPretty(w io.Writer, in <-chan report.Record) error {
	for r := range in {
		if _, err := fmt.Fprintln(w, RenderRecord(r)); err != nil {
			return err
		}
	}
	return nil
}

// WritePretty writes one block per record.
func WritePretty(w io.Writer, list []report.Record) error {
	for _, r := range list {
		if _, err := fmt.Fprintln(w, RenderRecord(r)); err != nil {
			return err
		}
	}
	return nil
}
