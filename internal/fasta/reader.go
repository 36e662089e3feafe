// internal/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"strings"
)

// ErrNoRecords is returned when a file holds no FASTA header.
var ErrNoRecords = errors.New("no FASTA records")

// Contig is one sequence header and the number of residues under it.
type Contig struct {
	ID     string
	Length int
}

// ScanContigs calls fn for each record of r in file order. Sequence bytes
// are counted, never kept.
func ScanContigs(r io.Reader, fn func(Contig) error) error {
	br := bufio.NewReader(r)
	var (
		cur     Contig
		seen    bool
		midLine bool // the previous chunk did not end its line
		header  bool // the current line is a header
	)
	for {
		chunk, err := br.ReadSlice('\n')
		if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
			return err
		}
		if !midLine {
			header = len(chunk) > 0 && chunk[0] == '>'
			if header {
				if seen {
					if ferr := fn(cur); ferr != nil {
						return ferr
					}
				}
				// an ID longer than the read buffer is cut at the buffer size
				cur = Contig{}
				if f := strings.Fields(string(bytes.TrimRight(chunk[1:], "\r\n"))); len(f) > 0 {
					cur.ID = f[0]
				}
				seen = true
			}
		}
		if !header && seen {
			cur.Length += len(bytes.TrimRight(chunk, "\r\n"))
		}
		midLine = err == bufio.ErrBufferFull
		if err == io.EOF {
			break
		}
	}
	if !seen {
		return ErrNoRecords
	}
	return fn(cur)
}

func openReader(path string) (io.ReadCloser, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, err
		}
		return struct {
			io.Reader
			io.Closer
		}{Reader: gr, Closer: fh}, nil
	}
	return fh, nil
}
