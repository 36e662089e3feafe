// internal/hits/parse.go
package hits

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// BlastColumns is the number of columns requested from BLAST (-outfmt 6 ...).
const BlastColumns = 16

// ANIColumns is the number of columns fastANI writes per reference.
const ANIColumns = 5

// ErrShortRow reports a row with fewer columns than the format requires.
var ErrShortRow = errors.New("too few columns")

// ParseError attributes a malformed row to its file, task category and position.
type ParseError struct {
	Path     string
	Category string
	Line     int
	Column   int // 1-based; 0 when the whole row is at fault
	Err      error
}

func (e *ParseError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("%s results %s:%d column %d: %v", e.Category, e.Path, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%s results %s:%d: %v", e.Category, e.Path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Source names the file being parsed, for error attribution.
type Source struct {
	Path     string
	Category string
}

// rowReader walks whitespace-separated rows, skipping blank lines.
type rowReader struct {
	src  Source
	sc   *bufio.Scanner
	line int
}

func newRowReader(r io.Reader, src Source) *rowReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &rowReader{src: src, sc: sc}
}

func (rr *rowReader) next() ([]string, bool) {
	for rr.sc.Scan() {
		rr.line++
		f := strings.Fields(rr.sc.Text())
		if len(f) == 0 {
			continue
		}
		return f, true
	}
	return nil, false
}

func (rr *rowReader) fail(col int, err error) error {
	return &ParseError{Path: rr.src.Path, Category: rr.src.Category, Line: rr.line, Column: col, Err: err}
}

func (rr *rowReader) atoi(f []string, col int) (int, error) {
	v, err := strconv.Atoi(f[col-1])
	if err != nil {
		return 0, rr.fail(col, err)
	}
	return v, nil
}

func (rr *rowReader) atof(f []string, col int) (float64, error) {
	v, err := strconv.ParseFloat(f[col-1], 64)
	if err != nil {
		return 0, rr.fail(col, err)
	}
	return v, nil
}

// ParseAlignments reads BLAST tabular rows. Zero rows is a valid, empty table.
func ParseAlignments(r io.Reader, src Source) ([]AlignmentHit, error) {
	rr := newRowReader(r, src)
	var out []AlignmentHit
	for {
		f, ok := rr.next()
		if !ok {
			break
		}
		if len(f) < BlastColumns {
			return nil, rr.fail(0, fmt.Errorf("%w: got %d, want %d", ErrShortRow, len(f), BlastColumns))
		}
		h := AlignmentHit{QueryID: f[0], SubjectID: f[1]}
		var err error
		ints := []struct {
			dst *int
			col int
		}{
			{&h.AlignLen, 4}, {&h.Mismatches, 5}, {&h.GapOpens, 6},
			{&h.QStart, 7}, {&h.QEnd, 8}, {&h.SStart, 9}, {&h.SEnd, 10},
			{&h.QLen, 13}, {&h.SLen, 14},
		}
		for _, c := range ints {
			if *c.dst, err = rr.atoi(f, c.col); err != nil {
				return nil, err
			}
		}
		floats := []struct {
			dst *float64
			col int
		}{
			{&h.Identity, 3}, {&h.EValue, 11}, {&h.BitScore, 12}, {&h.QCov, 15}, {&h.QCovHSP, 16},
		}
		for _, c := range floats {
			if *c.dst, err = rr.atof(f, c.col); err != nil {
				return nil, err
			}
		}
		out = append(out, h)
	}
	if err := rr.sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s results %s: %w", src.Category, src.Path, err)
	}
	return out, nil
}

// ParseANI reads fastANI rows. The reference column is reduced to its basename.
func ParseANI(r io.Reader, src Source) ([]ANIHit, error) {
	rr := newRowReader(r, src)
	var out []ANIHit
	for {
		f, ok := rr.next()
		if !ok {
			break
		}
		if len(f) < ANIColumns {
			return nil, rr.fail(0, fmt.Errorf("%w: got %d, want %d", ErrShortRow, len(f), ANIColumns))
		}
		h := ANIHit{Query: f[0], Reference: filepath.Base(f[1]), ANIText: f[2], Rank: -1}
		var err error
		if h.ANI, err = rr.atof(f, 3); err != nil {
			return nil, err
		}
		if h.Matches, err = rr.atoi(f, 4); err != nil {
			return nil, err
		}
		if h.Fragments, err = rr.atoi(f, 5); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rr.sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s results %s: %w", src.Category, src.Path, err)
	}
	return out, nil
}

// ReadAlignmentFile parses a BLAST results file. A missing file is an error;
// an empty one is not.
func ReadAlignmentFile(path, category string) ([]AlignmentHit, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s results: %w", category, err)
	}
	defer fh.Close()
	return ParseAlignments(fh, Source{Path: path, Category: category})
}

// ReadANIFile parses a fastANI results file.
func ReadANIFile(path, category string) ([]ANIHit, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s results: %w", category, err)
	}
	defer fh.Close()
	return ParseANI(fh, Source{Path: path, Category: category})
}
