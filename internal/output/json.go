// internal/output/json.go
package output

import (
	"encoding/json"
	"io"

	"github.com/Jeffail/gabs"

	"btyper/internal/jsonutil"
	"btyper/internal/report"
	"btyper/internal/virulence"
)

// Document builds the JSON object of one record. Virulence cells are keyed by
// family name.
func Document(r report.Record) (*gabs.Container, error) {
	doc := gabs.New()
	set := func(v interface{}, path ...string) error {
		_, err := doc.Set(v, path...)
		return err
	}
	fields := []struct {
		v    interface{}
		path []string
	}{
		{r.Filename, []string{"filename"}},
		{r.Prefix, []string{"prefix"}},
		{r.Species, []string{"taxonomy", "species"}},
		{r.Subspecies, []string{"taxonomy", "subspecies"}},
		{r.Geneflow, []string{"taxonomy", "geneflow"}},
		{r.Typestrains, []string{"taxonomy", "typestrain"}},
		{r.Bt, []string{"bt"}},
		{r.MLST, []string{"mlst"}},
		{r.PanC, []string{"panc"}},
		{r.Biovars, []string{"biovars"}},
		{r.FinalTaxon, []string{"final_taxon"}},
	}
	for _, f := range fields {
		if err := set(f.v, f.path...); err != nil {
			return nil, err
		}
	}
	for i, f := range virulence.Families {
		if i >= len(r.Virulence) {
			break
		}
		if err := set(r.Virulence[i], "virulence", f.Name); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// WriteJSON writes a single JSON array of records (pretty-indented).
func WriteJSON(w io.Writer, list []report.Record) error {
	docs := make([]interface{}, 0, len(list))
	for _, r := range list {
		d, err := Document(r)
		if err != nil {
			return err
		}
		docs = append(docs, d.Data())
	}
	return jsonutil.EncodePretty(w, docs)
}

// EncodeLine writes one record as a single JSON line.
func EncodeLine(enc *json.Encoder, r report.Record) error {
	d, err := Document(r)
	if err != nil {
		return err
	}
	return enc.Encode(d.Data())
}
