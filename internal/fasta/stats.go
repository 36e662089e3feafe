// internal/fasta/stats.go
package fasta

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Stats summarizes an assembly.
type Stats struct {
	Contigs int
	Total   int
	Lengths []int
}

// ReadStats scans path and records contig lengths.
func ReadStats(path string) (Stats, error) {
	rc, err := openReader(path)
	if err != nil {
		return Stats{}, err
	}
	defer rc.Close()
	var st Stats
	err = ScanContigs(rc, func(c Contig) error {
		st.Contigs++
		st.Total += c.Length
		st.Lengths = append(st.Lengths, c.Length)
		return nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("%s: %w", path, err)
	}
	return st, nil
}

// Fragmented reports whether contig tails shorter than fragLen make up so
// much of the assembly that fragment-based ANI is unreliable: twice the sum
// of (length mod fragLen) exceeds the total length.
func (s Stats) Fragmented(fragLen int) bool {
	if fragLen <= 0 || s.Total == 0 {
		return false
	}
	rest := 0
	for _, l := range s.Lengths {
		rest += l % fragLen
	}
	return 2*rest > s.Total
}

// Prefix derives the output prefix of a genome file: the base name without
// ".gz" and without its last extension.
func Prefix(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), ".gz")
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// Stage returns a plain-text copy of path inside dir when path is gzipped,
// or path itself otherwise. The bool reports whether a copy was written.
func Stage(path, dir string) (string, bool, error) {
	if !strings.HasSuffix(path, ".gz") {
		return path, false, nil
	}
	rc, err := openReader(path)
	if err != nil {
		return "", false, err
	}
	defer rc.Close()

	dst := filepath.Join(dir, strings.TrimSuffix(filepath.Base(path), ".gz"))
	fh, err := os.Create(dst)
	if err != nil {
		return "", false, err
	}
	if _, err := io.Copy(fh, rc); err != nil {
		fh.Close()
		os.Remove(dst)
		return "", false, fmt.Errorf("decompress %s: %w", path, err)
	}
	if err := fh.Close(); err != nil {
		return "", false, err
	}
	return dst, true, nil
}
