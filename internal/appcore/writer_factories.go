// internal/appcore/writer_factories.go
package appcore

import (
	"io"

	"btyper/internal/report"
	"btyper/internal/writers"
)

// RecordWriterFactory starts the streaming writer for genome records.
type RecordWriterFactory struct {
	Format string
	Sort   bool
	Header bool
}

func NewRecordWriterFactory(format string, sort, header bool) RecordWriterFactory {
	return RecordWriterFactory{Format: format, Sort: sort, Header: header}
}

func (w RecordWriterFactory) Start(out io.Writer, bufSize int) (chan<- report.Record, <-chan error) {
	return writers.StartRecordWriter(out, w.Format, w.Sort, w.Header, bufSize)
}
