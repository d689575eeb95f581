package collapse

// Opts controls every stage of the collapsing pipeline. Zero values are not
// meaningful; start from DefaultOpts.
type Opts struct {
	// MinAlnCoverage is the minimum fraction of the query covered by the
	// alignment. Records below it are recorded as ignored and dropped
	// before grouping.
	MinAlnCoverage float64
	// MinAlnIdentity is the minimum alignment identity fraction. Records
	// below it are recorded as ignored and dropped before grouping.
	MinAlnIdentity float64

	// CovThreshold is the minimum number of supporting alignments for a
	// collapsed isoform to be routed to the good output. Candidates with
	// fewer members are still emitted, on the bad output.
	CovThreshold int

	// AllowExtra5Exon permits an alignment whose exon structure is a
	// 3'-anchored suffix of another's (missing or truncated 5' exons) to
	// collapse into the longer isoform.
	AllowExtra5Exon bool
	// Skip5ExonAlt rejects a 5'-truncated match whose first exon extends
	// past the matching exon boundary of the longer chain (an alternative
	// 5' exon) instead of folding it in. Only relevant with
	// AllowExtra5Exon.
	Skip5ExonAlt bool

	// TolerateEnd is the slack, in bases, allowed on the outermost 5' and
	// 3' exon boundaries when comparing chains. Internal junctions must
	// match exactly.
	TolerateEnd int

	// MaxFuzzyJunction is the maximum per-junction difference, in bases,
	// for the second-pass fuzzy merge of collapsed isoforms. Zero disables
	// the pass.
	MaxFuzzyJunction int

	// MinIntronLength is the smallest reference skip treated as a splice
	// junction when deriving exons from an alignment. Shorter skips are
	// absorbed into the surrounding exon. Not exposed on the command line.
	MinIntronLength int
}

// DefaultOpts mirrors the defaults of the original isoform collapse tool.
var DefaultOpts = Opts{
	MinAlnCoverage:   0.99,
	MinAlnIdentity:   0.85,
	CovThreshold:     1,
	AllowExtra5Exon:  false,
	Skip5ExonAlt:     false,
	TolerateEnd:      100,
	MaxFuzzyJunction: 5,
	MinIntronLength:  40,
}
