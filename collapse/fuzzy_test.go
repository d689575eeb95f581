package collapse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func cand(locus, isoform int, ref string, strand int8, members []string, exons ...Exon) *Candidate {
	c := &Candidate{
		ID:     CandidateID{Locus: locus, Isoform: isoform},
		Ref:    ref,
		Strand: strand,
		Exons:  ExonChain(exons),
		Good:   true,
	}
	for _, m := range members {
		c.Members = append(c.Members, Member{Name: m, Exons: c.Exons})
	}
	return c
}

func TestFuzzyMerge(t *testing.T) {
	opts := DefaultOpts
	opts.MaxFuzzyJunction = 5

	cands := []*Candidate{
		cand(1, 1, "chr1", 1, []string{"a"}, Exon{100, 500}, Exon{700, 1100}),
		cand(1, 2, "chr1", 1, []string{"b"}, Exon{100, 503}, Exon{704, 1100}),
		cand(1, 3, "chr1", 1, []string{"c"}, Exon{100, 520}, Exon{700, 1100}),
	}
	merged := MergeFuzzyJunctions(cands, opts, nil)
	assert.Equal(t, 2, len(merged))
	assert.Equal(t, "PB.1.1", merged[0].ID.String())
	assert.Equal(t, []string{"a", "b"}, merged[0].MemberNames())
	assert.Equal(t, []string{"c"}, merged[1].MemberNames())
}

func TestFuzzyMergeTransitive(t *testing.T) {
	opts := DefaultOpts
	opts.MaxFuzzyJunction = 5

	// a-b within 5, b-c within 5, a-c off by 8: still one group.
	cands := []*Candidate{
		cand(1, 1, "chr1", 1, []string{"a"}, Exon{100, 500}, Exon{700, 1100}),
		cand(1, 2, "chr1", 1, []string{"b"}, Exon{100, 504}, Exon{700, 1100}),
		cand(1, 3, "chr1", 1, []string{"c"}, Exon{100, 508}, Exon{700, 1100}),
	}
	merged := MergeFuzzyJunctions(cands, opts, nil)
	assert.Equal(t, 1, len(merged))
	assert.Equal(t, []string{"a", "b", "c"}, merged[0].MemberNames())
}

func TestFuzzyMergeDisabled(t *testing.T) {
	opts := DefaultOpts
	opts.MaxFuzzyJunction = 0
	cands := []*Candidate{
		cand(1, 1, "chr1", 1, []string{"a"}, Exon{100, 500}, Exon{700, 1100}),
		cand(1, 2, "chr1", 1, []string{"b"}, Exon{100, 501}, Exon{700, 1100}),
	}
	merged := MergeFuzzyJunctions(cands, opts, nil)
	assert.Equal(t, 2, len(merged))
}

func TestFuzzyMergeRespectsRefAndStrand(t *testing.T) {
	opts := DefaultOpts
	opts.MaxFuzzyJunction = 5
	cands := []*Candidate{
		cand(1, 1, "chr1", 1, []string{"a"}, Exon{100, 500}, Exon{700, 1100}),
		cand(2, 1, "chr1", -1, []string{"b"}, Exon{100, 500}, Exon{700, 1100}),
		cand(3, 1, "chr2", 1, []string{"c"}, Exon{100, 500}, Exon{700, 1100}),
	}
	merged := MergeFuzzyJunctions(cands, opts, nil)
	assert.Equal(t, 3, len(merged))
}

func TestFuzzyMergeExonCountMismatch(t *testing.T) {
	opts := DefaultOpts
	opts.MaxFuzzyJunction = 5
	cands := []*Candidate{
		cand(1, 1, "chr1", 1, []string{"a"}, Exon{100, 500}, Exon{700, 1100}),
		cand(1, 2, "chr1", 1, []string{"b"}, Exon{100, 1100}),
	}
	merged := MergeFuzzyJunctions(cands, opts, nil)
	assert.Equal(t, 2, len(merged))
}

func TestFuzzyMergeSingleExonNeedsOverlap(t *testing.T) {
	opts := DefaultOpts
	opts.MaxFuzzyJunction = 5
	// Single-exon candidates have no junctions; only span overlap gates the
	// merge, so disjoint ones stay separate.
	cands := []*Candidate{
		cand(1, 1, "chr1", 1, []string{"a"}, Exon{100, 500}),
		cand(2, 1, "chr1", 1, []string{"b"}, Exon{600, 900}),
		cand(2, 2, "chr1", 1, []string{"c"}, Exon{650, 950}),
	}
	merged := MergeFuzzyJunctions(cands, opts, nil)
	assert.Equal(t, 2, len(merged))
	assert.Equal(t, []string{"a"}, merged[0].MemberNames())
	assert.Equal(t, []string{"b", "c"}, merged[1].MemberNames())
}

func TestFuzzyMergeKeepsBestChain(t *testing.T) {
	opts := DefaultOpts
	opts.MaxFuzzyJunction = 5
	// The later candidate is more 5'-extended; its chain survives but the
	// merged candidate keeps the earlier id.
	cands := []*Candidate{
		cand(1, 1, "chr1", 1, []string{"a"}, Exon{150, 500}, Exon{700, 1100}),
		cand(1, 2, "chr1", 1, []string{"b"}, Exon{100, 500}, Exon{700, 1100}),
	}
	merged := MergeFuzzyJunctions(cands, opts, nil)
	assert.Equal(t, 1, len(merged))
	assert.Equal(t, "PB.1.1", merged[0].ID.String())
	assert.Equal(t, 100, merged[0].Exons.Start())
}

func TestFuzzyMergeStats(t *testing.T) {
	opts := DefaultOpts
	opts.MaxFuzzyJunction = 5
	var stats Stats
	cands := []*Candidate{
		cand(1, 1, "chr1", 1, []string{"a"}, Exon{100, 500}, Exon{700, 1100}),
		cand(1, 2, "chr1", 1, []string{"b"}, Exon{100, 503}, Exon{700, 1100}),
		cand(1, 3, "chr1", 1, []string{"c"}, Exon{100, 504}, Exon{700, 1100}),
	}
	MergeFuzzyJunctions(cands, opts, &stats)
	assert.Equal(t, 2, stats.FuzzyMerges)
}
