package main

import (
	"io"

	"github.com/grailbio/hts/sam"

	"github.com/dayedepps/pbtranscript/collapse"
)

var nmTag = sam.Tag{'N', 'M'}

// samSource adapts a sorted SAM stream to collapse.RecordSource, computing
// per-record query coverage and alignment identity from the CIGAR and the NM
// tag. Unmapped records are skipped.
type samSource struct {
	r    *sam.Reader
	lens map[string]int // query id -> full sequence length
	opts collapse.Opts
}

func newSAMSource(r io.Reader, lens map[string]int, opts collapse.Opts) (*samSource, error) {
	sr, err := sam.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &samSource{r: sr, lens: lens, opts: opts}, nil
}

func (s *samSource) Read() (*collapse.AlignmentRecord, error) {
	for {
		rec, err := s.r.Read()
		if err != nil {
			return nil, err // io.EOF included
		}
		if rec.Flags&sam.Unmapped != 0 || rec.Ref == nil || len(rec.Cigar) == 0 {
			continue
		}
		queryLen, ok := s.lens[rec.Name]
		if !ok {
			queryLen = cigarQueryLen(rec.Cigar)
		}
		cov, ident := alnMetrics(rec, queryLen)
		return collapse.NewAlignmentRecord(rec.Name, rec.Ref.Name(), rec.Strand(),
			rec.Pos, rec.Cigar, queryLen, cov, ident, s.opts)
	}
}

// cigarQueryLen is the full query length implied by the CIGAR, clips
// included.
func cigarQueryLen(cig sam.Cigar) int {
	n := 0
	for _, co := range cig {
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch,
			sam.CigarInsertion, sam.CigarSoftClipped, sam.CigarHardClipped:
			n += co.Len()
		}
	}
	return n
}

// alnMetrics computes the query coverage fraction and the alignment identity
// fraction. Identity uses the NM tag (edit distance) over the number of
// aligned columns; records without NM count as fully identical.
func alnMetrics(rec *sam.Record, queryLen int) (cov, ident float64) {
	var aligned, ins, del int
	for _, co := range rec.Cigar {
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			aligned += co.Len()
		case sam.CigarInsertion:
			ins += co.Len()
		case sam.CigarDeletion:
			del += co.Len()
		}
	}
	if queryLen > 0 {
		cov = float64(aligned+ins) / float64(queryLen)
	}
	cols := aligned + ins + del
	ident = 1.0
	if nm, ok := auxInt(rec.AuxFields.Get(nmTag)); ok && cols > 0 {
		ident = float64(cols-nm) / float64(cols)
		if ident < 0 {
			ident = 0
		}
	}
	return cov, ident
}

func auxInt(aux sam.Aux) (int, bool) {
	if aux == nil {
		return 0, false
	}
	switch v := aux.Value().(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	}
	return 0, false
}
