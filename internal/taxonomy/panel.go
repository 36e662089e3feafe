// internal/taxonomy/panel.go
package taxonomy

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Kind names a reference panel.
type Kind string

const (
	Species     Kind = "species"
	Subspecies  Kind = "subspecies"
	Geneflow    Kind = "geneflow"
	Typestrains Kind = "typestrains"
)

// Kinds lists the panels in report order.
var Kinds = []Kind{Species, Subspecies, Geneflow, Typestrains}

// ErrUnknownReference is returned when a hit names a reference the panel
// metadata does not describe.
var ErrUnknownReference = errors.New("reference not in panel metadata")

// Entry is one reference genome of a panel.
type Entry struct {
	ID        string
	Label     string
	Threshold float64
}

// row mirrors the panel table columns; which label column is filled depends
// on the panel kind.
type row struct {
	ID         string  `mapstructure:"id"`
	Threshold  float64 `mapstructure:"threshold"`
	Species    string  `mapstructure:"species"`
	Subspecies string  `mapstructure:"subspecies"`
	Psub       string  `mapstructure:"psub"`
	Typestrain string  `mapstructure:"typestrain"`
}

func (r row) label(k Kind) string {
	switch k {
	case Species:
		return r.Species
	case Subspecies:
		return r.Subspecies
	case Geneflow:
		return r.Psub
	case Typestrains:
		return r.Typestrain
	}
	return ""
}

// Panel is read-only reference metadata keyed by reference id.
type Panel struct {
	Kind    Kind
	order   []string
	entries map[string]Entry
}

// NewPanel builds a panel from entries, keeping their order.
func NewPanel(k Kind, entries ...Entry) *Panel {
	p := &Panel{Kind: k, entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if _, dup := p.entries[e.ID]; !dup {
			p.order = append(p.order, e.ID)
		}
		p.entries[e.ID] = e
	}
	return p
}

// Lookup returns the metadata of reference id.
func (p *Panel) Lookup(id string) (Entry, bool) {
	e, ok := p.entries[id]
	return e, ok
}

// IDs returns reference ids in table order.
func (p *Panel) IDs() []string { return append([]string(nil), p.order...) }

func (p *Panel) mustLookup(id string) (Entry, error) {
	e, ok := p.Lookup(id)
	if !ok {
		return Entry{}, fmt.Errorf("%s panel: %q: %w", p.Kind, id, ErrUnknownReference)
	}
	return e, nil
}

// LoadPanel reads a panel table from path.
func LoadPanel(path string, k Kind) (*Panel, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s panel: %w", k, err)
	}
	defer fh.Close()
	return ParsePanel(fh, k, path)
}

// ParsePanel reads a tab-separated panel table with a header row. Lines
// starting with '#' are comments. Required columns are id and the label
// column of the panel kind; threshold is optional and other columns are
// ignored.
func ParsePanel(r io.Reader, k Kind, name string) (*Panel, error) {
	sc := bufio.NewScanner(r)
	var (
		header []string
		list   []Entry
		ln     int
	)
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if header == nil {
			header = cols
			for i := range header {
				header[i] = strings.TrimSpace(header[i])
			}
			if err := requireColumns(header, "id", labelColumn(k)); err != nil {
				return nil, fmt.Errorf("%s:%d %s panel: %w", name, ln, k, err)
			}
			continue
		}
		raw := make(map[string]interface{}, len(header))
		for i, h := range header {
			if i < len(cols) && strings.TrimSpace(cols[i]) != "" {
				raw[h] = strings.TrimSpace(cols[i])
			}
		}
		var rw row
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &rw,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(raw); err != nil {
			return nil, fmt.Errorf("%s:%d %s panel: %w", name, ln, k, err)
		}
		if rw.ID == "" {
			return nil, fmt.Errorf("%s:%d %s panel: empty id", name, ln, k)
		}
		list = append(list, Entry{ID: rw.ID, Label: rw.label(k), Threshold: rw.Threshold})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s %s panel: %w", name, k, err)
	}
	return NewPanel(k, list...), nil
}

func labelColumn(k Kind) string {
	if k == Geneflow {
		return "psub"
	}
	if k == Typestrains {
		return "typestrain"
	}
	return string(k)
}

func requireColumns(header []string, names ...string) error {
	for _, n := range names {
		found := false
		for _, h := range header {
			if h == n {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("missing column %q", n)
		}
	}
	return nil
}
