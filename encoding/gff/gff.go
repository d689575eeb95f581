// Package gff reads and writes collapsed transcript models as GFF2 features
// with GTF-style gene_id/transcript_id attributes, one transcript feature
// followed by its exon features:
//
//	chr1	PacBio	transcript	101	500	.	+	.	gene_id "PB.1"; transcript_id "PB.1.1"
//	chr1	PacBio	exon	101	200	.	+	.	gene_id "PB.1"; transcript_id "PB.1.1"
//	...
package gff

import (
	"io"
	"strings"

	"github.com/biogo/biogo/io/featio"
	biogff "github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"
	"github.com/pkg/errors"

	"github.com/dayedepps/pbtranscript/collapse"
)

const source = "PacBio"

// Transcript is one annotation record: a collapsed isoform's id pair,
// location, and exon boundaries.
type Transcript struct {
	GeneID       string
	TranscriptID string
	Ref          string
	Strand       int8
	Exons        collapse.ExonChain
}

// Writer emits collapsed candidates as annotation records.
type Writer struct {
	w *biogff.Writer
}

// NewWriter returns a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: biogff.NewWriter(w, 2, false)}
}

// Write emits the transcript feature and one exon feature per exon of c.
func (w *Writer) Write(c *collapse.Candidate) error {
	attrs := biogff.Attributes{
		{Tag: "gene_id", Value: `"` + c.ID.GeneID() + `"`},
		{Tag: "transcript_id", Value: `"` + c.ID.String() + `"`},
	}
	strand := seq.Plus
	if c.Strand < 0 {
		strand = seq.Minus
	}
	ft := &biogff.Feature{
		SeqName:        c.Ref,
		Source:         source,
		Feature:        "transcript",
		FeatStart:      c.Exons.Start(),
		FeatEnd:        c.Exons.End(),
		FeatStrand:     strand,
		FeatFrame:      biogff.NoFrame,
		FeatAttributes: attrs,
	}
	if _, err := w.w.Write(ft); err != nil {
		return err
	}
	for _, e := range c.Exons {
		ft.Feature = "exon"
		ft.FeatStart = e.Start
		ft.FeatEnd = e.End
		if _, err := w.w.Write(ft); err != nil {
			return err
		}
	}
	return nil
}

// ReadAll parses a stream written by Writer back into transcripts, in file
// order. Exon features are folded into the transcript with the same
// transcript_id.
func ReadAll(r io.Reader) ([]Transcript, error) {
	var (
		out   []Transcript
		index = map[string]int{}
	)
	sc := featio.NewScanner(biogff.NewReader(r))
	for sc.Next() {
		f, ok := sc.Feat().(*biogff.Feature)
		if !ok {
			continue
		}
		tid := unquote(f.FeatAttributes.Get("transcript_id"))
		if tid == "" {
			return nil, errors.Errorf("gff: feature at %s:%d-%d has no transcript_id",
				f.SeqName, f.FeatStart, f.FeatEnd)
		}
		switch f.Feature {
		case "transcript":
			var strand int8 = 1
			if f.FeatStrand == seq.Minus {
				strand = -1
			}
			index[tid] = len(out)
			out = append(out, Transcript{
				GeneID:       unquote(f.FeatAttributes.Get("gene_id")),
				TranscriptID: tid,
				Ref:          f.SeqName,
				Strand:       strand,
			})
		case "exon":
			i, ok := index[tid]
			if !ok {
				return nil, errors.Errorf("gff: exon feature for unknown transcript %q", tid)
			}
			out[i].Exons = append(out[i].Exons, collapse.Exon{Start: f.FeatStart, End: f.FeatEnd})
		}
	}
	if err := sc.Error(); err != nil {
		return nil, errors.Wrap(err, "gff: reading annotation")
	}
	return out, nil
}

func unquote(v string) string {
	v = strings.TrimSuffix(strings.TrimSpace(v), ";")
	return strings.Trim(v, `"`)
}
