package collapse

import "fmt"

// UnsortedInputError reports an alignment record that violates the
// (reference, start) sort order precondition. The stream cannot be grouped
// correctly past this point, so it aborts the run.
type UnsortedInputError struct {
	Name      string // query id of the offending record
	Ref       string
	Start     int
	PrevRef   string
	PrevStart int
}

func (e *UnsortedInputError) Error() string {
	return fmt.Sprintf("collapse: input not sorted by (reference, start): record %q at %s:%d follows %s:%d",
		e.Name, e.Ref, e.Start, e.PrevRef, e.PrevStart)
}

// ExonChainError reports a malformed exon chain (empty, unsorted, or
// overlapping). The engine does not attempt repair.
type ExonChainError struct {
	Name   string // query id of the offending record
	Reason string
}

func (e *ExonChainError) Error() string {
	return fmt.Sprintf("collapse: malformed exon chain for %q: %s", e.Name, e.Reason)
}

// EmptyGroupError reports a collapsed group with no members. It signals a
// logic error in grouping, not bad input.
type EmptyGroupError struct {
	ID CandidateID
}

func (e *EmptyGroupError) Error() string {
	return fmt.Sprintf("collapse: group %s has no members", e.ID)
}

// MissingSequenceError reports a representative query id absent from the
// isoform sequence collection. It signals an incomplete upstream collection.
type MissingSequenceError struct {
	Name string
}

func (e *MissingSequenceError) Error() string {
	return fmt.Sprintf("collapse: sequence %q not found in the isoform collection", e.Name)
}
