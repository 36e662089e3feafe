// internal/writers/record.go
package writers

import (
	"io"

	"btyper/internal/output"
	"btyper/internal/report"
)

func drain(ch <-chan report.Record) []report.Record {
	list := make([]report.Record, 0, 16)
	for r := range ch {
		list = append(list, r)
	}
	return list
}

func init() {
	// JSON array
	Register(output.FormatJSON, func(w io.Writer, args Args) error {
		list := drain(args.In)
		if args.Sort {
			report.Sort(list)
		}
		return output.WriteJSON(w, list)
	})

	// JSONL streaming (sorted when asked)
	Register(output.FormatJSONL, func(w io.Writer, args Args) error {
		pipe, done := StartJSONLWriter(w, 64)
		if args.Sort {
			list := drain(args.In)
			report.Sort(list)
			for _, r := range list {
				pipe <- r
			}
		} else {
			for r := range args.In {
				pipe <- r
			}
		}
		close(pipe)
		return <-done
	})

	// TEXT/TSV
	Register(output.FormatText, func(w io.Writer, args Args) error {
		if args.Sort {
			list := drain(args.In)
			report.Sort(list)
			return output.WriteTSV(w, list, args.Header)
		}
		return output.StreamTSV(w, args.In, args.Header)
	})

	// Pretty blocks
	Register(output.FormatPretty, func(w io.Writer, args Args) error {
		if args.Sort {
			list := drain(args.In)
			report.Sort(list)
			return output.WritePretty(w, list)
		}
		return output.StreamPretty(w, args.In)
	})
}

// StartRecordWriter spins up a writer goroutine for genome records. Close the
// returned channel, then read the error channel once.
func StartRecordWriter(out io.Writer, format string, sort, header bool, bufSize int) (chan<- report.Record, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan report.Record, bufSize)
	errCh := make(chan error, 1)
	go func() {
		err := Write(format, out, Args{Sort: sort, Header: header, In: in})
		if err != nil {
			// keep the producer from blocking on a writer that gave up
			for range in {
			}
		}
		errCh <- err
	}()
	return in, errCh
}
