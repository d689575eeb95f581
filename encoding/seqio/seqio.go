// Package seqio reads and writes the isoform sequence collections consumed
// and produced by isoform collapsing: FASTA or FASTQ, held in memory, with
// unique-id enforcement and name -> length/sequence lookup.
package seqio

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Format identifies the file format of a collection.
type Format int

const (
	Unknown Format = iota
	FASTA
	FASTQ
)

// FormatFromPath guesses the format from the file name, ignoring a trailing
// .gz.
func FormatFromPath(path string) Format {
	p := strings.TrimSuffix(path, ".gz")
	switch {
	case strings.HasSuffix(p, ".fasta"), strings.HasSuffix(p, ".fa"):
		return FASTA
	case strings.HasSuffix(p, ".fastq"), strings.HasSuffix(p, ".fq"):
		return FASTQ
	}
	return Unknown
}

// Ext returns the canonical file extension for the format.
func (f Format) Ext() string {
	switch f {
	case FASTA:
		return "fasta"
	case FASTQ:
		return "fastq"
	}
	return ""
}

// Seq is one named sequence. Qual is nil for FASTA collections and always
// len(Seq) bytes otherwise.
type Seq struct {
	Name string
	Seq  []byte
	Qual []byte
}

// Collection is an in-memory set of named sequences, in file order.
type Collection struct {
	format Format
	seqs   map[string]*Seq
	names  []string
}

// Read parses a whole FASTA or FASTQ stream. Duplicate sequence ids are an
// error: downstream grouping keys members by query id.
func Read(r io.Reader, format Format) (*Collection, error) {
	c := &Collection{format: format, seqs: map[string]*Seq{}}
	var err error
	switch format {
	case FASTA:
		err = c.readFASTA(r)
	case FASTQ:
		err = c.readFASTQ(r)
	default:
		err = errors.New("seqio: unknown collection format")
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Format returns the format the collection was read with.
func (c *Collection) Format() Format { return c.format }

// Names returns the sequence ids in file order.
func (c *Collection) Names() []string { return c.names }

// Get returns the sequence with the given id.
func (c *Collection) Get(name string) (*Seq, bool) {
	s, ok := c.seqs[name]
	return s, ok
}

// SeqLen returns the length of the named sequence.
func (c *Collection) SeqLen(name string) (int, bool) {
	s, ok := c.seqs[name]
	if !ok {
		return 0, false
	}
	return len(s.Seq), true
}

// Sequence returns the named sequence and its qualities (nil for FASTA).
func (c *Collection) Sequence(name string) (seq, qual []byte, ok bool) {
	s, found := c.seqs[name]
	if !found {
		return nil, nil, false
	}
	return s.Seq, s.Qual, true
}

func (c *Collection) add(s *Seq) error {
	if _, dup := c.seqs[s.Name]; dup {
		return errors.Errorf("seqio: duplicate sequence id %q", s.Name)
	}
	c.seqs[s.Name] = s
	c.names = append(c.names, s.Name)
	return nil
}

// seqName extracts the id from a header line: everything after the marker up
// to the first space.
func seqName(line string) string {
	name := line[1:]
	if i := strings.IndexByte(name, ' '); i >= 0 {
		name = name[:i]
	}
	return name
}

func (c *Collection) readFASTA(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 1024*1024*64)
	var cur *Seq
	flush := func() error {
		if cur == nil {
			return nil
		}
		if len(cur.Seq) == 0 {
			return errors.Errorf("seqio: empty FASTA record %q", cur.Name)
		}
		err := c.add(cur)
		cur = nil
		return err
	}
	for sc.Scan() {
		line := sc.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			cur = &Seq{Name: seqName(line)}
			continue
		}
		if cur == nil {
			return errors.New("seqio: FASTA data before the first header")
		}
		cur.Seq = append(cur.Seq, line...)
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "seqio: reading FASTA")
	}
	return flush()
}

func (c *Collection) readFASTQ(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 1024*1024*64)
	for {
		lines, err := scanFASTQRecord(sc)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if lines[0] == "" || lines[0][0] != '@' {
			return errors.Errorf("seqio: malformed FASTQ header %q", lines[0])
		}
		if len(lines[1]) != len(lines[3]) {
			return errors.Errorf("seqio: FASTQ record %q: sequence and quality lengths differ", seqName(lines[0]))
		}
		s := &Seq{Name: seqName(lines[0]), Seq: []byte(lines[1]), Qual: []byte(lines[3])}
		if err := c.add(s); err != nil {
			return err
		}
	}
}

func scanFASTQRecord(sc *bufio.Scanner) ([4]string, error) {
	var lines [4]string
	for i := 0; i < 4; i++ {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return lines, errors.Wrap(err, "seqio: reading FASTQ")
			}
			if i == 0 {
				return lines, io.EOF
			}
			return lines, errors.Errorf("seqio: truncated FASTQ record: want 4 lines, got %d", i)
		}
		lines[i] = sc.Text()
	}
	return lines, nil
}
