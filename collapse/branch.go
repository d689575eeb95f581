package collapse

import "fmt"

// CandidateID identifies a collapsed isoform: Locus is assigned in genome
// order as overlap groups are processed, Isoform in discovery order within
// the locus. Rendered as "PB.<locus>.<isoform>".
type CandidateID struct {
	Locus, Isoform int
}

// GeneID returns the locus-level id, e.g. "PB.3".
func (id CandidateID) GeneID() string { return fmt.Sprintf("PB.%d", id.Locus) }

func (id CandidateID) String() string { return fmt.Sprintf("PB.%d.%d", id.Locus, id.Isoform) }

// Member is one alignment folded into a candidate.
type Member struct {
	Name     string
	QueryLen int
	Exons    ExonChain
	// Truncated5 marks members missing 5' structure relative to the
	// candidate's representative chain.
	Truncated5 bool
}

// Candidate is a collapsed transcript model: a representative exon chain and
// the alignments that collapsed into it. Good candidates meet the support
// threshold; bad ones are emitted for diagnostics only.
type Candidate struct {
	ID      CandidateID
	Ref     string
	Strand  int8
	Exons   ExonChain
	Members []Member
	Good    bool
}

// MemberNames returns the member query ids in insertion order.
func (c *Candidate) MemberNames() []string {
	names := make([]string, len(c.Members))
	for i, m := range c.Members {
		names[i] = m.Name
	}
	return names
}

// Brancher collapses overlap groups into candidates. Locus ids increase
// monotonically across Collapse calls, so groups must be fed in stream order.
type Brancher struct {
	opts  Opts
	stats *Stats
	locus int
}

// NewBrancher returns a Brancher. stats may be nil.
func NewBrancher(opts Opts, stats *Stats) *Brancher {
	return &Brancher{opts: opts, stats: stats}
}

// Collapse merges the group's structurally compatible alignments and returns
// the resulting candidates in discovery order, good and bad alike.
func (b *Brancher) Collapse(g *OverlapGroup) []*Candidate {
	b.locus++
	var cands []*Candidate
	for _, rec := range g.Records {
		matched := false
		for _, c := range cands {
			if b.fold(c, rec) {
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		cands = append(cands, &Candidate{
			ID:      CandidateID{Locus: b.locus, Isoform: len(cands) + 1},
			Ref:     g.Ref,
			Strand:  g.Strand,
			Exons:   rec.Exons,
			Members: []Member{{Name: rec.Name, QueryLen: rec.QueryLen, Exons: rec.Exons}},
		})
	}
	for _, c := range cands {
		c.Good = len(c.Members) >= b.opts.CovThreshold
		if b.stats != nil {
			if c.Good {
				b.stats.GoodCandidates++
			} else {
				b.stats.BadCandidates++
			}
		}
	}
	return cands
}

// fold attempts to merge rec into candidate c. On success the member is
// appended and, if rec's chain is the more complete one, it replaces the
// representative chain and the truncation marks are recomputed.
func (b *Brancher) fold(c *Candidate, rec *AlignmentRecord) bool {
	kind := compareChains(rec.Exons, c.Exons, c.Strand, b.opts)
	if kind == matchNone {
		return false
	}
	m := Member{Name: rec.Name, QueryLen: rec.QueryLen, Exons: rec.Exons}
	switch kind {
	case matchExact:
		if moreComplete(rec.Exons, c.Exons, c.Strand) {
			c.Exons = rec.Exons
		}
		c.Members = append(c.Members, m)
	case matchContained:
		m.Truncated5 = true
		c.Members = append(c.Members, m)
	case matchExtends:
		c.Exons = rec.Exons
		c.Members = append(c.Members, m)
		for i := range c.Members {
			c.Members[i].Truncated5 = compareChains(c.Members[i].Exons, c.Exons, c.Strand, b.opts) != matchExact
		}
	}
	return true
}

type matchKind int

const (
	matchNone matchKind = iota
	// matchExact: same junctions, outer bounds within TolerateEnd.
	matchExact
	// matchContained: a's structure is a 3'-anchored suffix of b's.
	matchContained
	// matchExtends: b's structure is a 3'-anchored suffix of a's.
	matchExtends
)

// compareChains classifies chain a against representative chain b. Both
// chains are on the given strand.
func compareChains(a, b ExonChain, strand int8, opts Opts) matchKind {
	if exactMatch(a, b, opts.TolerateEnd) {
		return matchExact
	}
	if !opts.AllowExtra5Exon {
		return matchNone
	}
	if suffixMatch(a, b, strand, opts) {
		return matchContained
	}
	if suffixMatch(b, a, strand, opts) {
		return matchExtends
	}
	return matchNone
}

// exactMatch reports whether the chains have identical junction coordinates
// and outer bounds within tolerateEnd bases. Single-exon chains therefore
// match purely on start/end proximity.
func exactMatch(a, b ExonChain, tolerateEnd int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 1; i < len(a); i++ {
		if a[i].Start != b[i].Start || a[i-1].End != b[i-1].End {
			return false
		}
	}
	return abs(a.Start()-b.Start()) <= tolerateEnd && abs(a.End()-b.End()) <= tolerateEnd
}

// suffixMatch reports whether sub's exon structure is a 3'-anchored suffix of
// full's: sub is missing 5' exons, or has fewer of them, with all of its
// junctions equal to the corresponding 3'-most junctions of full and its 3'
// outer bound within TolerateEnd. The 5'-most exon of sub must lie within the
// matching exon of full; if it instead extends past that exon's boundary (an
// alternative 5' exon), the match is accepted only when Skip5ExonAlt is off.
func suffixMatch(sub, full ExonChain, strand int8, opts Opts) bool {
	if len(sub) > len(full) {
		return false
	}
	js, jf := sub.Junctions(), full.Junctions()
	if strand >= 0 {
		// 3' end is the high-coordinate side; junctions align right.
		off := len(jf) - len(js)
		for i, j := range js {
			if j != jf[off+i] {
				return false
			}
		}
		if abs(sub.End()-full.End()) > opts.TolerateEnd {
			return false
		}
		// full exon the 5'-most sub exon must land in.
		anchor := full[len(full)-len(sub)]
		if len(sub) > 1 && sub[0].End != anchor.End {
			return false
		}
		if sub[0].Start < anchor.Start && opts.Skip5ExonAlt {
			return false
		}
		if len(sub) == 1 && sub[0].Start >= anchor.End {
			return false
		}
	} else {
		// Minus strand: 3' end is the low-coordinate side; junctions
		// align left.
		for i, j := range js {
			if j != jf[i] {
				return false
			}
		}
		if abs(sub.Start()-full.Start()) > opts.TolerateEnd {
			return false
		}
		anchor := full[len(sub)-1]
		if len(sub) > 1 && sub[len(sub)-1].Start != anchor.Start {
			return false
		}
		if sub[len(sub)-1].End > anchor.End && opts.Skip5ExonAlt {
			return false
		}
		if len(sub) == 1 && sub[0].End <= anchor.Start {
			return false
		}
	}
	return true
}

// moreComplete reports whether chain a is the better representative than b:
// more exons, then the more 5'-extended outer bound, then the longer span.
func moreComplete(a, b ExonChain, strand int8) bool {
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	if strand >= 0 {
		if a.Start() != b.Start() {
			return a.Start() < b.Start()
		}
	} else {
		if a.End() != b.End() {
			return a.End() > b.End()
		}
	}
	return a.Span() > b.Span()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
