package collapse

import (
	"sort"

	"github.com/biogo/store/interval"
)

// refStrand keys one interval tree per reference and strand.
type refStrand struct {
	ref    string
	strand int8
}

// candInterval indexes one candidate's reference span in an interval tree.
type candInterval struct {
	idx        int
	start, end int
}

func (iv candInterval) Overlap(b interval.IntRange) bool {
	return iv.start < b.End && iv.end > b.Start
}
func (iv candInterval) ID() uintptr              { return uintptr(iv.idx) }
func (iv candInterval) Range() interval.IntRange { return interval.IntRange{Start: iv.start, End: iv.end} }

// MergeFuzzyJunctions is the second collapsing pass: good candidates on the
// same reference and strand whose junction coordinates agree within
// MaxFuzzyJunction bases are merged, transitively, into one candidate. Each
// merged candidate keeps the id of its earliest constituent and lists the
// constituents' members in emission order. With MaxFuzzyJunction == 0 the
// input is returned unchanged.
//
// Only span-overlapping candidates are compared, so the pass is sized by the
// largest locus, not the genome; spans are probed through per-(reference,
// strand) interval trees over all good candidates.
func MergeFuzzyJunctions(cands []*Candidate, opts Opts, stats *Stats) []*Candidate {
	if opts.MaxFuzzyJunction <= 0 || len(cands) == 0 {
		return cands
	}
	ds := newDisjointSet(len(cands))
	trees := map[refStrand]*interval.IntTree{}
	for i, c := range cands {
		key := refStrand{ref: c.Ref, strand: c.Strand}
		t := trees[key]
		if t == nil {
			t = &interval.IntTree{}
			trees[key] = t
		}
		probe := candInterval{idx: i, start: c.Exons.Start(), end: c.Exons.End()}
		t.DoMatching(func(e interval.IntInterface) (done bool) {
			j := e.(candInterval).idx
			if fuzzyEligible(cands[j], c, opts.MaxFuzzyJunction) {
				ds.union(j, i)
			}
			return
		}, probe)
		if err := t.Insert(probe, false); err != nil {
			// Insert only fails on duplicate IDs, which indexes rule out.
			panic(err)
		}
	}

	// Collect merged groups keyed by their earliest candidate.
	groups := map[int][]int{}
	var heads []int
	for i := range cands {
		root := ds.find(i)
		if _, ok := groups[root]; !ok {
			heads = append(heads, root)
		}
		groups[root] = append(groups[root], i)
	}
	sort.Ints(heads)

	merged := make([]*Candidate, 0, len(heads))
	for _, root := range heads {
		idxs := groups[root]
		sort.Ints(idxs)
		head := cands[idxs[0]]
		if len(idxs) == 1 {
			merged = append(merged, head)
			continue
		}
		mc := &Candidate{
			ID:     head.ID,
			Ref:    head.Ref,
			Strand: head.Strand,
			Exons:  head.Exons,
			Good:   true,
		}
		for _, i := range idxs {
			c := cands[i]
			if moreComplete(c.Exons, mc.Exons, mc.Strand) {
				mc.Exons = c.Exons
			}
			mc.Members = append(mc.Members, c.Members...)
		}
		for i := range mc.Members {
			mc.Members[i].Truncated5 = compareChains(mc.Members[i].Exons, mc.Exons, mc.Strand, opts) != matchExact
		}
		merged = append(merged, mc)
		if stats != nil {
			stats.FuzzyMerges += len(idxs) - 1
		}
	}
	return merged
}

// fuzzyEligible reports whether two candidates may merge: same reference,
// strand, and exon count, with every internal junction within maxFuzzy bases.
// Outer bounds are unconstrained beyond the span overlap required to be
// probed at all.
func fuzzyEligible(a, b *Candidate, maxFuzzy int) bool {
	if a.Ref != b.Ref || a.Strand != b.Strand || len(a.Exons) != len(b.Exons) {
		return false
	}
	ja, jb := a.Exons.Junctions(), b.Exons.Junctions()
	for i := range ja {
		if abs(ja[i].Donor-jb[i].Donor) > maxFuzzy || abs(ja[i].Acceptor-jb[i].Acceptor) > maxFuzzy {
			return false
		}
	}
	return true
}

// disjointSet is a union-find over candidate indices with union by rank and
// path halving.
type disjointSet struct {
	parent []int
	rank   []byte
}

func newDisjointSet(n int) *disjointSet {
	ds := &disjointSet{parent: make([]int, n), rank: make([]byte, n)}
	for i := range ds.parent {
		ds.parent[i] = i
	}
	return ds
}

func (ds *disjointSet) find(x int) int {
	for ds.parent[x] != x {
		ds.parent[x] = ds.parent[ds.parent[x]]
		x = ds.parent[x]
	}
	return x
}

func (ds *disjointSet) union(x, y int) {
	rx, ry := ds.find(x), ds.find(y)
	if rx == ry {
		return
	}
	if ds.rank[rx] < ds.rank[ry] {
		rx, ry = ry, rx
	}
	ds.parent[ry] = rx
	if ds.rank[rx] == ds.rank[ry] {
		ds.rank[rx]++
	}
}
