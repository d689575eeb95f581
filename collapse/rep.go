package collapse

import "math"

// SequenceSource is the upstream isoform sequence collection consulted when
// picking representatives. Qual is nil for collections without qualities.
type SequenceSource interface {
	SeqLen(name string) (int, bool)
	Sequence(name string) (seq, qual []byte, ok bool)
}

// Representative is the member chosen to stand for a collapsed group, with
// its full sequence.
type Representative struct {
	ID   CandidateID
	Name string
	Seq  []byte
	Qual []byte
}

// PickRepresentatives selects one member per candidate, in candidate order.
// With AllowExtra5Exon the longest member sequence wins; otherwise the member
// whose exon chain deviates least from the candidate's representative chain
// wins (total absolute boundary deviation, members with a different exon
// count losing to any with the same count). Ties break to the
// lexicographically smallest query id. The choice is deterministic for a
// given group and policy.
func PickRepresentatives(cands []*Candidate, seqs SequenceSource, opts Opts) ([]Representative, error) {
	reps := make([]Representative, 0, len(cands))
	for _, c := range cands {
		name, err := pickMember(c, seqs, opts)
		if err != nil {
			return nil, err
		}
		seq, qual, ok := seqs.Sequence(name)
		if !ok {
			return nil, &MissingSequenceError{Name: name}
		}
		reps = append(reps, Representative{ID: c.ID, Name: name, Seq: seq, Qual: qual})
	}
	return reps, nil
}

func pickMember(c *Candidate, seqs SequenceSource, opts Opts) (string, error) {
	if len(c.Members) == 0 {
		return "", &EmptyGroupError{ID: c.ID}
	}
	if opts.AllowExtra5Exon {
		return pickLongest(c, seqs)
	}
	return pickLeastDeviant(c)
}

// pickLongest returns the member with the greatest sequence length.
func pickLongest(c *Candidate, seqs SequenceSource) (string, error) {
	best := ""
	bestLen := -1
	for _, m := range c.Members {
		n, ok := seqs.SeqLen(m.Name)
		if !ok {
			return "", &MissingSequenceError{Name: m.Name}
		}
		if n > bestLen || (n == bestLen && m.Name < best) {
			best, bestLen = m.Name, n
		}
	}
	return best, nil
}

// pickLeastDeviant returns the member whose chain best matches the
// candidate's representative chain.
func pickLeastDeviant(c *Candidate) (string, error) {
	best := ""
	bestDev := math.Inf(1)
	for _, m := range c.Members {
		dev := chainDeviation(m.Exons, c.Exons)
		if dev < bestDev || (dev == bestDev && m.Name < best) {
			best, bestDev = m.Name, dev
		}
	}
	return best, nil
}

// chainDeviation is the total absolute boundary difference between a member
// chain and the representative chain, or +Inf when the exon counts differ.
func chainDeviation(m, rep ExonChain) float64 {
	if len(m) != len(rep) {
		return math.Inf(1)
	}
	d := 0
	for i := range m {
		d += abs(m[i].Start-rep[i].Start) + abs(m[i].End-rep[i].End)
	}
	return float64(d)
}
