package collapse

import (
	"fmt"

	"github.com/grailbio/hts/sam"
)

// Exon is a reference-coordinate interval, 0-based half-open.
type Exon struct {
	Start, End int
}

// Len returns the number of reference bases covered by the exon.
func (e Exon) Len() int { return e.End - e.Start }

// Junction is the boundary pair between two consecutive exons, in ascending
// reference order: Donor is the end of the upstream exon, Acceptor the start
// of the downstream one. (On the minus strand the biological donor/acceptor
// roles are swapped, but comparisons only ever use the coordinates.)
type Junction struct {
	Donor, Acceptor int
}

// ExonChain is the ordered exon structure of one alignment, sorted ascending
// by reference start, with disjoint exons.
type ExonChain []Exon

// Start returns the lowest reference coordinate of the chain.
func (c ExonChain) Start() int { return c[0].Start }

// End returns one past the highest reference coordinate of the chain.
func (c ExonChain) End() int { return c[len(c)-1].End }

// Span returns the reference interval covered by the chain, introns included.
func (c ExonChain) Span() int { return c.End() - c.Start() }

// Junctions returns the internal junction coordinates in ascending reference
// order. A single-exon chain has none.
func (c ExonChain) Junctions() []Junction {
	if len(c) < 2 {
		return nil
	}
	js := make([]Junction, len(c)-1)
	for i := 1; i < len(c); i++ {
		js[i-1] = Junction{Donor: c[i-1].End, Acceptor: c[i].Start}
	}
	return js
}

func (c ExonChain) validate(name string) error {
	if len(c) == 0 {
		return &ExonChainError{Name: name, Reason: "empty chain"}
	}
	for i, e := range c {
		if e.End <= e.Start {
			return &ExonChainError{Name: name, Reason: fmt.Sprintf("exon %d is empty or inverted: [%d,%d)", i, e.Start, e.End)}
		}
		if i > 0 && e.Start < c[i-1].End {
			return &ExonChainError{Name: name, Reason: fmt.Sprintf("exon %d overlaps exon %d", i, i-1)}
		}
	}
	return nil
}

// AlignmentRecord is one alignment of a query isoform to the reference.
// Immutable after construction.
type AlignmentRecord struct {
	// Name is the query id, unique within one input stream.
	Name string
	// Ref is the reference sequence name.
	Ref string
	// Strand is +1 or -1, as reported by sam.Record.Strand.
	Strand int8
	// Start and End delimit the alignment on the reference, 0-based
	// half-open. They always equal the exon chain's outer bounds.
	Start, End int
	// QueryLen is the full (unclipped) query sequence length.
	QueryLen int
	// Coverage is the fraction of the query covered by the alignment.
	Coverage float64
	// Identity is the alignment identity fraction.
	Identity float64
	// Exons is the chain derived from the alignment's CIGAR.
	Exons ExonChain
}

// NewAlignmentRecord derives the exon chain from the record's gapped
// alignment encoding and validates it. pos is the 0-based reference start.
func NewAlignmentRecord(name, ref string, strand int8, pos int, cig sam.Cigar,
	queryLen int, coverage, identity float64, opts Opts) (*AlignmentRecord, error) {
	exons, err := exonsFromCigar(name, pos, cig, opts.MinIntronLength)
	if err != nil {
		return nil, err
	}
	return &AlignmentRecord{
		Name:     name,
		Ref:      ref,
		Strand:   strand,
		Start:    exons.Start(),
		End:      exons.End(),
		QueryLen: queryLen,
		Coverage: coverage,
		Identity: identity,
		Exons:    exons,
	}, nil
}
