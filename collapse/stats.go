package collapse

import "fmt"

// Stats counts work done by one collapsing run.
type Stats struct {
	// Records is the number of alignment records read from the source.
	Records int
	// Ignored is the number of records dropped by the coverage/identity
	// filters.
	Ignored int
	// Groups is the number of overlap groups flushed.
	Groups int
	// GoodCandidates and BadCandidates partition the unfuzzy candidates by
	// the support threshold.
	GoodCandidates int
	BadCandidates  int
	// FuzzyMerges is the number of candidates folded away by the
	// fuzzy-junction pass.
	FuzzyMerges int
}

func (s Stats) String() string {
	return fmt.Sprintf("records: %d, ignored: %d, loci: %d, good: %d, bad: %d, fuzzy merges: %d",
		s.Records, s.Ignored, s.Groups, s.GoodCandidates, s.BadCandidates, s.FuzzyMerges)
}
