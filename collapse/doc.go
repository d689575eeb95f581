/*Package collapse reduces redundant genome alignments of long-read isoform
  sequences to a non-redundant set of transcript models.

  The pipeline is a single deterministic streaming pass in four stages:

  1) GroupScanner consumes alignment records pre-sorted by (reference,
     start), drops records below the coverage/identity thresholds onto an
     ignored list, and flushes maximal runs of overlapping records as
     per-strand OverlapGroups.

  2) Brancher compares the exon chains within a group and merges records
     that are structurally equivalent (identical junctions, outer bounds
     within TolerateEnd) or, with AllowExtra5Exon, 3'-anchored suffixes of a
     longer chain. Each resulting Candidate keeps the most complete chain
     seen, its members in insertion order, and a good/bad mark from the
     support threshold.

  3) MergeFuzzyJunctions re-merges good candidates whose junction
     coordinates agree within MaxFuzzyJunction bases, transitively, across
     the whole reference/strand scope.

  4) PickRepresentatives chooses one member sequence per final group,
     either the longest member or the one deviating least from the group's
     chain, and resolves it against the isoform sequence collection.

  Exon chains are derived from the alignments' CIGAR encoding; reference
  skips of at least MinIntronLength bases split exons, anything shorter is
  absorbed. Input order violations, malformed chains, empty groups, and
  missing sequences abort the run with typed errors; there is no partial
  output recovery.
*/
package collapse
