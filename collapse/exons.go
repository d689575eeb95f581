package collapse

import (
	"github.com/grailbio/hts/sam"
)

// exonsFromCigar walks the CIGAR of an alignment starting at reference
// position pos and accumulates reference-consuming runs into exons. A
// reference skip of at least minIntron bases closes the current exon and
// opens the next one; shorter skips and deletions are absorbed into the
// current exon. Operations that consume no reference (insertions, clips,
// padding) never split an exon.
func exonsFromCigar(name string, pos int, cig sam.Cigar, minIntron int) (ExonChain, error) {
	var (
		chain  ExonChain
		start  = pos
		refPos = pos
		inExon = false
	)
	closeExon := func() {
		if inExon {
			chain = append(chain, Exon{Start: start, End: refPos})
			inExon = false
		}
	}
	for _, co := range cig {
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			if !inExon {
				start = refPos
				inExon = true
			}
			refPos += co.Len()
		case sam.CigarDeletion:
			// Deletions consume reference but stay inside the exon.
			if !inExon {
				start = refPos
				inExon = true
			}
			refPos += co.Len()
		case sam.CigarSkipped:
			if co.Len() >= minIntron {
				closeExon()
				refPos += co.Len()
				break
			}
			// A short skip is alignment noise, not a splice junction.
			if !inExon {
				start = refPos
				inExon = true
			}
			refPos += co.Len()
		case sam.CigarInsertion, sam.CigarSoftClipped, sam.CigarHardClipped, sam.CigarPadded:
			// No reference consumed.
		case sam.CigarBack:
			refPos -= co.Len()
		}
	}
	closeExon()
	if err := chain.validate(name); err != nil {
		return nil, err
	}
	return chain, nil
}
