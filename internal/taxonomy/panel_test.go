package taxonomy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const speciesTSV = `# medoid genomes
id	species	threshold	url
B_cereus_GCF_1.fna.gz	cereus s.s.	92.5	https://example.org/1
B_mosaicus_GCF_2.fna.gz	mosaicus	92.5

`

func TestParsePanel(t *testing.T) {
	p, err := ParsePanel(strings.NewReader(speciesTSV), Species, "species.tsv")
	require.NoError(t, err)
	assert.Equal(t, []string{"B_cereus_GCF_1.fna.gz", "B_mosaicus_GCF_2.fna.gz"}, p.IDs())

	e, ok := p.Lookup("B_cereus_GCF_1.fna.gz")
	require.True(t, ok)
	assert.Equal(t, "cereus s.s.", e.Label)
	assert.Equal(t, 92.5, e.Threshold)
}

func TestParsePanel_LabelColumnPerKind(t *testing.T) {
	in := "id\tpsub\tthreshold\ng1\tA\t96.5\n"
	p, err := ParsePanel(strings.NewReader(in), Geneflow, "geneflow.tsv")
	require.NoError(t, err)
	e, _ := p.Lookup("g1")
	assert.Equal(t, "A", e.Label)

	_, err = ParsePanel(strings.NewReader(in), Typestrains, "ts.tsv")
	assert.ErrorContains(t, err, `missing column "typestrain"`)
}

func TestParsePanel_BadThreshold(t *testing.T) {
	in := "id\tspecies\tthreshold\nr1\tcereus\tninety\n"
	_, err := ParsePanel(strings.NewReader(in), Species, "species.tsv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "species.tsv:2")
}

func TestLoadPanel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "species.tsv")
	require.NoError(t, os.WriteFile(path, []byte(speciesTSV), 0o644))
	p, err := LoadPanel(path, Species)
	require.NoError(t, err)
	assert.Len(t, p.IDs(), 2)

	_, err = LoadPanel(filepath.Join(t.TempDir(), "missing.tsv"), Species)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
