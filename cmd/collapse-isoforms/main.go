package main

// collapse-isoforms collapses redundant isoform alignments into transcript
// models.
//
// Inputs:
//   -input   isoform sequences (FASTA/FASTQ) that were mapped to the genome
//   -sam     SAM alignments of those isoforms, sorted by (reference, start)
//   -prefix  shared prefix for all output artifacts
//
// Outputs (see artifacts.go for the naming scheme): good/bad collapsed
// transcript GFFs, group membership, ignored ids, and one representative
// sequence per good group.
//
// Example:
//
//	collapse-isoforms -input hq_isoforms.fastq -sam sorted.sam -prefix out \
//	    -min-coverage 0.99 -min-identity 0.85 -max-fuzzy-junction 5

import (
	"context"
	"flag"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/dayedepps/pbtranscript/collapse"
)

type runnerFlags struct {
	isoformsPath string
	samPath      string
	prefix       string
}

func main() {
	var (
		flags runnerFlags
		opts  = collapse.DefaultOpts
	)
	flag.StringVar(&flags.isoformsPath, "input", "", "Isoform sequences that were mapped to the reference, as FASTA or FASTQ.")
	flag.StringVar(&flags.samPath, "sam", "", "SAM alignments of the input isoforms, sorted by (reference, start).")
	flag.StringVar(&flags.prefix, "prefix", "", "Prefix for all output files.")
	flag.Float64Var(&opts.MinAlnCoverage, "min-coverage", collapse.DefaultOpts.MinAlnCoverage,
		"Ignore alignments covering less than this fraction of the query.")
	flag.Float64Var(&opts.MinAlnIdentity, "min-identity", collapse.DefaultOpts.MinAlnIdentity,
		"Ignore alignments below this identity fraction.")
	flag.IntVar(&opts.CovThreshold, "min-count", collapse.DefaultOpts.CovThreshold,
		"Minimum number of supporting alignments for a collapsed isoform to be good.")
	flag.BoolVar(&opts.AllowExtra5Exon, "allow-extra-5exon", collapse.DefaultOpts.AllowExtra5Exon,
		"Collapse isoforms missing 5' exons into their longer variants.")
	flag.BoolVar(&opts.Skip5ExonAlt, "skip-5exon-alt", collapse.DefaultOpts.Skip5ExonAlt,
		"Keep isoforms with an alternative 5' exon as separate transcripts.")
	flag.IntVar(&opts.TolerateEnd, "tolerate-end", collapse.DefaultOpts.TolerateEnd,
		"Slack in bases allowed on the outermost transcript boundaries.")
	flag.IntVar(&opts.MaxFuzzyJunction, "max-fuzzy-junction", collapse.DefaultOpts.MaxFuzzyJunction,
		"Merge collapsed isoforms whose junctions differ by at most this many bases; 0 disables.")
	flag.Parse()

	cleanup := grail.Init()
	defer cleanup()
	if flags.isoformsPath == "" || flags.samPath == "" || flags.prefix == "" {
		log.Fatal("-input, -sam, and -prefix are required")
	}
	ctx := vcontext.Background()
	if err := run(ctx, flags, opts); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, flags runnerFlags, opts collapse.Opts) error {
	isoforms, err := readIsoforms(ctx, flags.isoformsPath)
	if err != nil {
		return err
	}
	log.Printf("Read %d isoform sequences from %s", len(isoforms.Names()), flags.isoformsPath)
	arts := artifacts{
		prefix:          flags.prefix,
		allowExtra5Exon: opts.AllowExtra5Exon,
		repExt:          isoforms.Format().Ext(),
	}

	lens := make(map[string]int, len(isoforms.Names()))
	for _, name := range isoforms.Names() {
		n, _ := isoforms.SeqLen(name)
		lens[name] = n
	}

	log.Printf("Collapsing isoforms into transcripts.")
	var stats collapse.Stats
	good, scanner, err := collapseSAM(ctx, flags.samPath, lens, opts, &stats, arts)
	if err != nil {
		return err
	}
	if err := writeIgnored(ctx, arts.ignoredIDs(), scanner.Ignored()); err != nil {
		return err
	}
	log.Printf("Ignored IDs written to: %s", arts.ignoredIDs())
	log.Printf("Good unfuzzy isoforms written to: %s", arts.goodUnfuzzyGFF())
	log.Printf("Bad unfuzzy isoforms written to: %s", arts.badUnfuzzyGFF())
	log.Printf("Unfuzzy isoform groups written to: %s", arts.unfuzzyGroup())

	final := good
	if opts.MaxFuzzyJunction > 0 {
		log.Printf("Further collapsing fuzzy junctions.")
		final = collapse.MergeFuzzyJunctions(good, opts, &stats)
		if err := writeGFF(ctx, arts.goodFuzzyGFF(), final); err != nil {
			return err
		}
		if err := writeGroups(ctx, arts.fuzzyGroup(), final); err != nil {
			return err
		}
		log.Printf("Good fuzzy isoforms written to: %s", arts.goodFuzzyGFF())
		log.Printf("Fuzzy isoform groups written to: %s", arts.fuzzyGroup())
		for _, l := range [][2]string{
			{arts.goodFuzzyGFF(), arts.goodGFF()},
			{arts.goodFuzzyGFF(), arts.gff()},
			{arts.fuzzyGroup(), arts.group()},
		} {
			if err := symlink(l[0], l[1]); err != nil {
				return err
			}
		}
	} else {
		log.Printf("No need to further collapse fuzzy junctions.")
		for _, l := range [][2]string{
			{arts.goodUnfuzzyGFF(), arts.goodGFF()},
			{arts.goodUnfuzzyGFF(), arts.gff()},
			{arts.unfuzzyGroup(), arts.group()},
		} {
			if err := symlink(l[0], l[1]); err != nil {
				return err
			}
		}
	}

	log.Printf("Picking up representative records.")
	reps, err := collapse.PickRepresentatives(final, isoforms, opts)
	if err != nil {
		return err
	}
	if err := writeReps(ctx, arts.rep(), isoforms.Format(), final, reps); err != nil {
		return err
	}
	log.Printf("Output GFF written to: %s", arts.gff())
	log.Printf("Output group TXT written to: %s", arts.group())
	log.Printf("Output collapsed isoforms written to: %s", arts.rep())
	log.Printf("Stats: %s", stats)
	return nil
}

// collapseSAM streams the sorted SAM file through the grouping scanner and
// the unfuzzy collapsing engine, writing the unfuzzy artifacts as groups
// flush. It returns the good candidates for the later passes.
func collapseSAM(ctx context.Context, samPath string, lens map[string]int, opts collapse.Opts,
	stats *collapse.Stats, arts artifacts) ([]*collapse.Candidate, *collapse.GroupScanner, error) {
	in, closeIn, err := openInput(ctx, samPath)
	if err != nil {
		return nil, nil, err
	}
	defer closeIn()

	src, err := newSAMSource(in, lens, opts)
	if err != nil {
		return nil, nil, err
	}
	scanner := collapse.NewGroupScanner(src, opts, stats)
	brancher := collapse.NewBrancher(opts, stats)

	goodW, closeGood, err := newGFFWriter(ctx, arts.goodUnfuzzyGFF())
	if err != nil {
		return nil, nil, err
	}
	badW, closeBad, err := newGFFWriter(ctx, arts.badUnfuzzyGFF())
	if err != nil {
		closeGood()
		return nil, nil, err
	}
	groupW, closeGroup, err := newGroupWriter(ctx, arts.unfuzzyGroup())
	if err != nil {
		closeGood()
		closeBad()
		return nil, nil, err
	}

	var good []*collapse.Candidate
	for scanner.Scan() {
		for _, c := range brancher.Collapse(scanner.Group()) {
			w := badW
			if c.Good {
				w = goodW
				good = append(good, c)
			}
			if err := w.Write(c); err != nil {
				return nil, nil, err
			}
			if err := groupW.write(c.ID.String(), strings.Join(c.MemberNames(), ",")); err != nil {
				return nil, nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	for _, closeFn := range []func() error{closeGood, closeBad, closeGroup} {
		if err := closeFn(); err != nil {
			return nil, nil, err
		}
	}
	return good, scanner, nil
}
