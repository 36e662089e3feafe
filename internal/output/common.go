// internal/output/common.go
package output

import "btyper/internal/report"

// Output formats.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatJSONL  = "jsonl"
	FormatPretty = "pretty"
)

// Formats lists every supported format.
var Formats = []string{FormatText, FormatJSON, FormatJSONL, FormatPretty}

// TSVHeader is the header row for text output and the per-genome results file.
func TSVHeader() string { return report.Header() }
