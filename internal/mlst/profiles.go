// internal/mlst/profiles.go
package mlst

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ErrBadProfileTable reports a profile table that cannot be indexed.
var ErrBadProfileTable = errors.New("bad MLST profile table")

// Key is the seven allele numbers of a profile, in Loci order.
type Key [LocusCount]int

// Profile is one sequence type definition.
type Profile struct {
	ST            string
	Alleles       Key
	ClonalComplex string // empty when the table has none
}

type profileRow struct {
	ST            string `mapstructure:"ST"`
	Glp           int    `mapstructure:"glp"`
	Gmk           int    `mapstructure:"gmk"`
	Ilv           int    `mapstructure:"ilv"`
	Pta           int    `mapstructure:"pta"`
	Pur           int    `mapstructure:"pur"`
	Pyc           int    `mapstructure:"pyc"`
	Tpi           int    `mapstructure:"tpi"`
	ClonalComplex string `mapstructure:"clonal_complex"`
}

// Profiles is a read-only index from allele numbers to sequence type.
type Profiles struct {
	index map[Key]Profile
}

// NewProfiles indexes profiles; the first row wins for a repeated key.
func NewProfiles(list ...Profile) *Profiles {
	p := &Profiles{index: make(map[Key]Profile, len(list))}
	for _, pr := range list {
		if _, dup := p.index[pr.Alleles]; !dup {
			p.index[pr.Alleles] = pr
		}
	}
	return p
}

// Lookup finds the profile with exactly these alleles.
func (p *Profiles) Lookup(k Key) (Profile, bool) {
	pr, ok := p.index[k]
	return pr, ok
}

// Len is the number of indexed profiles.
func (p *Profiles) Len() int { return len(p.index) }

// LoadProfiles reads a PubMLST profile table.
func LoadProfiles(path string) (*Profiles, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mlst profiles: %w", err)
	}
	defer fh.Close()
	return ParseProfiles(fh, path)
}

// ParseProfiles reads a tab-separated table whose header names ST, the
// seven loci and optionally clonal_complex.
func ParseProfiles(r io.Reader, name string) (*Profiles, error) {
	sc := bufio.NewScanner(r)
	var (
		header []string
		list   []Profile
		ln     int
	)
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cols := strings.Split(line, "\t")
		if header == nil {
			header = cols
			if err := checkHeader(header); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", name, ln, err)
			}
			continue
		}
		raw := make(map[string]interface{}, len(header))
		for i, h := range header {
			if i < len(cols) && strings.TrimSpace(cols[i]) != "" {
				raw[strings.TrimSpace(h)] = strings.TrimSpace(cols[i])
			}
		}
		var row profileRow
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{WeaklyTypedInput: true, Result: &row})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(raw); err != nil {
			return nil, fmt.Errorf("%s:%d: %w: %v", name, ln, ErrBadProfileTable, err)
		}
		list = append(list, Profile{
			ST:            row.ST,
			Alleles:       Key{row.Glp, row.Gmk, row.Ilv, row.Pta, row.Pur, row.Pyc, row.Tpi},
			ClonalComplex: row.ClonalComplex,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if header == nil {
		return nil, fmt.Errorf("%s: %w: empty", name, ErrBadProfileTable)
	}
	return NewProfiles(list...), nil
}

func checkHeader(header []string) error {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[strings.TrimSpace(h)] = true
	}
	need := append([]string{"ST"}, Loci[:]...)
	for _, n := range need {
		if !have[n] {
			return fmt.Errorf("%w: missing column %q", ErrBadProfileTable, n)
		}
	}
	return nil
}
