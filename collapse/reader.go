package collapse

import (
	"fmt"
	"io"
)

// RecordSource produces alignment records in (reference, start) order. Read
// returns io.EOF after the last record. Sources are consumed in a single
// forward pass and are not restartable.
type RecordSource interface {
	Read() (*AlignmentRecord, error)
}

// IgnoredRecord is a query excluded before grouping, with the reason it was
// excluded.
type IgnoredRecord struct {
	Name   string
	Reason string
}

// OverlapGroup is a maximal run of transitively overlapping alignments on one
// reference and strand, in input order.
type OverlapGroup struct {
	Ref     string
	Strand  int8
	Records []*AlignmentRecord
}

// GroupScanner pulls records from a sorted source and emits OverlapGroups.
// It keeps a single window of overlapping records per reference; when a
// record starts past the window's maximum end (or the reference changes, or
// the source is exhausted) the window is flushed, partitioned by strand, and
// the plus-strand group is emitted before the minus-strand one.
//
// Usage follows the iterator convention of the encoding readers:
//
//	sc := collapse.NewGroupScanner(src, opts, stats)
//	for sc.Scan() {
//		g := sc.Group()
//		...
//	}
//	if err := sc.Err(); err != nil { ... }
type GroupScanner struct {
	src   RecordSource
	opts  Opts
	stats *Stats

	window  []*AlignmentRecord
	ref     string
	maxEnd  int
	hasPrev bool
	prevRef string
	prevPos int
	closed  map[string]bool

	pending []*OverlapGroup
	group   *OverlapGroup
	ignored []IgnoredRecord
	err     error
	done    bool
}

// NewGroupScanner returns a scanner over src. stats may be nil.
func NewGroupScanner(src RecordSource, opts Opts, stats *Stats) *GroupScanner {
	return &GroupScanner{src: src, opts: opts, stats: stats, closed: map[string]bool{}}
}

// Scan advances to the next OverlapGroup. It returns false at the end of the
// stream or on error; consult Err afterwards.
func (s *GroupScanner) Scan() bool {
	for {
		if len(s.pending) > 0 {
			s.group = s.pending[0]
			s.pending = s.pending[1:]
			if s.stats != nil {
				s.stats.Groups++
			}
			return true
		}
		if s.done || s.err != nil {
			return false
		}
		rec, err := s.src.Read()
		if err == io.EOF {
			s.done = true
			s.flushWindow()
			continue
		}
		if err != nil {
			s.err = err
			return false
		}
		if s.stats != nil {
			s.stats.Records++
		}
		if err := s.checkSorted(rec); err != nil {
			s.err = err
			return false
		}
		if rec.Coverage < s.opts.MinAlnCoverage {
			s.ignore(rec.Name, fmt.Sprintf("coverage %.4f < %.4f", rec.Coverage, s.opts.MinAlnCoverage))
			continue
		}
		if rec.Identity < s.opts.MinAlnIdentity {
			s.ignore(rec.Name, fmt.Sprintf("identity %.4f < %.4f", rec.Identity, s.opts.MinAlnIdentity))
			continue
		}
		if len(s.window) > 0 && (rec.Ref != s.ref || rec.Start >= s.maxEnd) {
			s.flushWindow()
		}
		if len(s.window) == 0 {
			s.ref = rec.Ref
			s.maxEnd = rec.End
		} else if rec.End > s.maxEnd {
			s.maxEnd = rec.End
		}
		s.window = append(s.window, rec)
	}
}

// Group returns the group found by the last successful Scan. The scanner
// does not retain it; the caller owns it.
func (s *GroupScanner) Group() *OverlapGroup { return s.group }

// Err returns the first error encountered, if any.
func (s *GroupScanner) Err() error { return s.err }

// Ignored returns the queries excluded by the coverage/identity filters, in
// encounter order.
func (s *GroupScanner) Ignored() []IgnoredRecord { return s.ignored }

func (s *GroupScanner) ignore(name, reason string) {
	s.ignored = append(s.ignored, IgnoredRecord{Name: name, Reason: reason})
	if s.stats != nil {
		s.stats.Ignored++
	}
}

// checkSorted enforces the (reference, start) sort precondition: starts must
// be non-decreasing within a reference, and a reference may not reappear
// after the stream has moved past it.
func (s *GroupScanner) checkSorted(rec *AlignmentRecord) error {
	if s.hasPrev {
		switch {
		case rec.Ref == s.prevRef:
			if rec.Start < s.prevPos {
				return &UnsortedInputError{
					Name: rec.Name, Ref: rec.Ref, Start: rec.Start,
					PrevRef: s.prevRef, PrevStart: s.prevPos,
				}
			}
		default:
			if s.closed[rec.Ref] {
				return &UnsortedInputError{
					Name: rec.Name, Ref: rec.Ref, Start: rec.Start,
					PrevRef: s.prevRef, PrevStart: s.prevPos,
				}
			}
			s.closed[s.prevRef] = true
		}
	}
	s.hasPrev = true
	s.prevRef = rec.Ref
	s.prevPos = rec.Start
	return nil
}

// flushWindow partitions the open window by strand and queues the resulting
// groups, plus strand first.
func (s *GroupScanner) flushWindow() {
	if len(s.window) == 0 {
		return
	}
	var plus, minus []*AlignmentRecord
	for _, r := range s.window {
		if r.Strand >= 0 {
			plus = append(plus, r)
		} else {
			minus = append(minus, r)
		}
	}
	if len(plus) > 0 {
		s.pending = append(s.pending, &OverlapGroup{Ref: s.ref, Strand: 1, Records: plus})
	}
	if len(minus) > 0 {
		s.pending = append(s.pending, &OverlapGroup{Ref: s.ref, Strand: -1, Records: minus})
	}
	s.window = s.window[:0]
}
