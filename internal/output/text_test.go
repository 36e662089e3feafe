// internal/output/text_test.go
package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"btyper/internal/report"
)

func TestWriteTSV(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteTSV(buf, []report.Record{sampleRecord()}, true))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, TSVHeader(), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "/data/g1.fna\tg1\tmosaicus(99.9)\t"))
	assert.Equal(t, strings.Count(lines[0], "\t"), strings.Count(lines[1], "\t"))
}

func TestStreamTSV_NoHeader(t *testing.T) {
	in := make(chan report.Record, 2)
	in <- sampleRecord()
	in <- report.New("g2.fna", "g2")
	close(in)

	buf := &bytes.Buffer{}
	require.NoError(t, StreamTSV(buf, in, false))
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
	assert.NotContains(t, buf.String(), "#filename")
}

func TestRenderRecord(t *testing.T) {
	out := RenderRecord(sampleRecord())
	assert.Contains(t, out, "g1: B. mosaicus subsp. anthracis")
	assert.Contains(t, out, "3/3(cya;lef;pagA)")
	assert.Contains(t, out, "panC_group")
	assert.NotContains(t, out, "#filename")
}
