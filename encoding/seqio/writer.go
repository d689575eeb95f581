package seqio

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// Writer emits sequences in FASTA or FASTQ form. Sequences written to a
// FASTQ writer must carry qualities.
type Writer struct {
	w      *bufio.Writer
	format Format
}

// NewWriter returns a Writer emitting the given format.
func NewWriter(w io.Writer, format Format) *Writer {
	return &Writer{w: bufio.NewWriter(w), format: format}
}

// Write appends one sequence record.
func (w *Writer) Write(s *Seq) error {
	switch w.format {
	case FASTA:
		w.w.WriteByte('>')
		w.w.WriteString(s.Name)
		w.w.WriteByte('\n')
		w.w.Write(s.Seq)
		_, err := w.w.WriteString("\n")
		return err
	case FASTQ:
		if len(s.Qual) != len(s.Seq) {
			return errors.Errorf("seqio: record %q has no qualities to write as FASTQ", s.Name)
		}
		w.w.WriteByte('@')
		w.w.WriteString(s.Name)
		w.w.WriteByte('\n')
		w.w.Write(s.Seq)
		w.w.WriteString("\n+\n")
		w.w.Write(s.Qual)
		_, err := w.w.WriteString("\n")
		return err
	}
	return errors.New("seqio: unknown writer format")
}

// Flush flushes buffered output.
func (w *Writer) Flush() error { return w.w.Flush() }
