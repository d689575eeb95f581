package collapse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func group(ref string, strand int8, recs ...*AlignmentRecord) *OverlapGroup {
	return &OverlapGroup{Ref: ref, Strand: strand, Records: recs}
}

func TestCollapseExactMatch(t *testing.T) {
	opts := DefaultOpts
	opts.CovThreshold = 2
	b := NewBrancher(opts, nil)

	// Identical junctions, ends within TolerateEnd.
	cands := b.Collapse(group("chr1", 1,
		rec("r1", "chr1", 1, Exon{100, 500}, Exon{700, 1100}),
		rec("r2", "chr1", 1, Exon{130, 500}, Exon{700, 1080}),
		rec("r3", "chr1", 1, Exon{100, 550}, Exon{700, 1100}),
	))
	assert.Equal(t, 2, len(cands))
	assert.Equal(t, "PB.1.1", cands[0].ID.String())
	assert.Equal(t, []string{"r1", "r2"}, cands[0].MemberNames())
	assert.True(t, cands[0].Good)
	// r3 differs in an internal junction (donor 550 vs 500).
	assert.Equal(t, "PB.1.2", cands[1].ID.String())
	assert.False(t, cands[1].Good)
}

func TestCollapseTolerateEnd(t *testing.T) {
	opts := DefaultOpts
	opts.TolerateEnd = 10
	b := NewBrancher(opts, nil)

	cands := b.Collapse(group("chr1", 1,
		rec("r1", "chr1", 1, Exon{100, 500}, Exon{700, 1100}),
		rec("r2", "chr1", 1, Exon{111, 500}, Exon{700, 1100}), // start off by 11
	))
	assert.Equal(t, 2, len(cands))
}

func TestCollapseSingleExon(t *testing.T) {
	opts := DefaultOpts
	opts.TolerateEnd = 100
	b := NewBrancher(opts, nil)

	cands := b.Collapse(group("chr1", 1,
		rec("r1", "chr1", 1, Exon{100, 900}),
		rec("r2", "chr1", 1, Exon{150, 850}),  // both bounds within 100
		rec("r3", "chr1", 1, Exon{100, 1200}), // end off by 300
	))
	assert.Equal(t, 2, len(cands))
	assert.Equal(t, []string{"r1", "r2"}, cands[0].MemberNames())
}

func TestCollapse5PrimeContainment(t *testing.T) {
	full := rec("full", "chr1", 1,
		Exon{100, 500}, Exon{700, 1100}, Exon{1300, 1700})
	trunc := rec("trunc", "chr1", 1,
		Exon{750, 1100}, Exon{1300, 1700})

	// Disabled: the truncated chain founds its own candidate.
	b := NewBrancher(DefaultOpts, nil)
	cands := b.Collapse(group("chr1", 1, full, trunc))
	assert.Equal(t, 2, len(cands))

	// Enabled: it folds into the full one, marked truncated.
	opts := DefaultOpts
	opts.AllowExtra5Exon = true
	b = NewBrancher(opts, nil)
	cands = b.Collapse(group("chr1", 1, full, trunc))
	assert.Equal(t, 1, len(cands))
	assert.Equal(t, []string{"full", "trunc"}, cands[0].MemberNames())
	assert.False(t, cands[0].Members[0].Truncated5)
	assert.True(t, cands[0].Members[1].Truncated5)
	assert.Equal(t, full.Exons, cands[0].Exons)
}

func TestCollapseExtendsReplacesRepresentative(t *testing.T) {
	opts := DefaultOpts
	opts.AllowExtra5Exon = true
	b := NewBrancher(opts, nil)

	// The truncated chain arrives first; the full one extends it and takes
	// over as representative.
	cands := b.Collapse(group("chr1", 1,
		rec("trunc", "chr1", 1, Exon{750, 1100}, Exon{1300, 1700}),
		rec("full", "chr1", 1, Exon{100, 500}, Exon{700, 1100}, Exon{1300, 1700}),
	))
	assert.Equal(t, 1, len(cands))
	assert.Equal(t, 3, len(cands[0].Exons))
	assert.True(t, cands[0].Members[0].Truncated5)
	assert.False(t, cands[0].Members[1].Truncated5)
}

func TestCollapseSkip5ExonAlt(t *testing.T) {
	full := rec("full", "chr1", 1,
		Exon{100, 500}, Exon{700, 1100}, Exon{1300, 1700})
	// First exon starts before the anchor exon of full (alternative 5' exon).
	alt := rec("alt", "chr1", 1,
		Exon{600, 1100}, Exon{1300, 1700})

	opts := DefaultOpts
	opts.AllowExtra5Exon = true
	b := NewBrancher(opts, nil)
	cands := b.Collapse(group("chr1", 1, full, alt))
	assert.Equal(t, 1, len(cands))

	opts.Skip5ExonAlt = true
	b = NewBrancher(opts, nil)
	cands = b.Collapse(group("chr1", 1, full, alt))
	assert.Equal(t, 2, len(cands))
}

func TestCollapseMinusStrandContainment(t *testing.T) {
	// Minus strand: the 5' end is the high-coordinate side, so a truncated
	// chain is missing high-coordinate exons.
	full := rec("full", "chr1", -1,
		Exon{100, 500}, Exon{700, 1100}, Exon{1300, 1700})
	trunc := rec("trunc", "chr1", -1,
		Exon{100, 500}, Exon{700, 1050})

	opts := DefaultOpts
	opts.AllowExtra5Exon = true
	b := NewBrancher(opts, nil)
	cands := b.Collapse(group("chr1", -1, full, trunc))
	assert.Equal(t, 1, len(cands))
	assert.True(t, cands[0].Members[1].Truncated5)
}

func TestCollapseLocusNumbering(t *testing.T) {
	b := NewBrancher(DefaultOpts, nil)
	c1 := b.Collapse(group("chr1", 1, rec("a", "chr1", 1, Exon{100, 400})))
	c2 := b.Collapse(group("chr1", 1, rec("b", "chr1", 1, Exon{900, 1200})))
	assert.Equal(t, "PB.1.1", c1[0].ID.String())
	assert.Equal(t, "PB.2.1", c2[0].ID.String())
	assert.Equal(t, "PB.2", c2[0].ID.GeneID())
}

func TestCollapseRepresentativePrefersCompletion(t *testing.T) {
	b := NewBrancher(DefaultOpts, nil)
	// Same junctions, second record more 5'-extended; it should become the
	// representative chain.
	cands := b.Collapse(group("chr1", 1,
		rec("short", "chr1", 1, Exon{150, 500}, Exon{700, 1100}),
		rec("long", "chr1", 1, Exon{100, 500}, Exon{700, 1100}),
	))
	assert.Equal(t, 1, len(cands))
	assert.Equal(t, 100, cands[0].Exons.Start())
}
