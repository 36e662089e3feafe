// internal/output/json_test.go
package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/Jeffail/gabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"btyper/internal/report"
	"btyper/internal/virulence"
)

func sampleRecord() report.Record {
	r := report.New("/data/g1.fna", "g1")
	r.Species = "mosaicus(99.9)"
	r.Subspecies = "anthracis(99.99)"
	r.SetVirulence(virulence.Presence{virulence.Anthrax: {"cya", "lef", "pagA"}})
	r.Bt = "0()"
	r.Biovars = []string{"Anthracis"}
	r.FinalTaxon = "B. mosaicus subsp. anthracis biovar Anthracis; B. anthracis biovar Anthracis; B. Anthracis"
	return r
}

func TestWriteJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteJSON(buf, []report.Record{sampleRecord()}))

	parsed, err := gabs.ParseJSON(buf.Bytes())
	require.NoError(t, err)
	children, err := parsed.Children()
	require.NoError(t, err)
	require.Len(t, children, 1)

	doc := children[0]
	assert.Equal(t, "g1", doc.Path("prefix").Data())
	assert.Equal(t, "anthracis(99.99)", doc.Path("taxonomy.subspecies").Data())
	assert.Equal(t, "3/3(cya;lef;pagA)", doc.Path("virulence.anthrax_toxin").Data())
	assert.Equal(t, "(Seven-gene MLST not performed)", doc.Path("mlst").Data())
	assert.Equal(t, []interface{}{"Anthracis"}, doc.Path("biovars").Data())
}

func TestWriteJSON_EmptyIsArray(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteJSON(buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestEncodeLine(t *testing.T) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	require.NoError(t, EncodeLine(enc, sampleRecord()))
	require.NoError(t, EncodeLine(enc, report.New("g2.fna", "g2")))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[1], &m))
	assert.Equal(t, "g2", m["prefix"])
}
