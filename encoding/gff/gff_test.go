package gff

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dayedepps/pbtranscript/collapse"
)

func TestWriteReadRoundTrip(t *testing.T) {
	cands := []*collapse.Candidate{
		{
			ID:     collapse.CandidateID{Locus: 1, Isoform: 1},
			Ref:    "chr1",
			Strand: 1,
			Exons:  collapse.ExonChain{{Start: 100, End: 500}, {Start: 700, End: 1100}},
		},
		{
			ID:     collapse.CandidateID{Locus: 2, Isoform: 1},
			Ref:    "chr2",
			Strand: -1,
			Exons:  collapse.ExonChain{{Start: 50, End: 900}},
		},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, c := range cands {
		assert.NoError(t, w.Write(c))
	}

	got, err := ReadAll(&buf)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(got))

	assert.Equal(t, "PB.1", got[0].GeneID)
	assert.Equal(t, "PB.1.1", got[0].TranscriptID)
	assert.Equal(t, "chr1", got[0].Ref)
	assert.Equal(t, int8(1), got[0].Strand)
	assert.Equal(t, cands[0].Exons, got[0].Exons)

	assert.Equal(t, "PB.2.1", got[1].TranscriptID)
	assert.Equal(t, int8(-1), got[1].Strand)
	assert.Equal(t, cands[1].Exons, got[1].Exons)
}

func TestWriteFeatureLayout(t *testing.T) {
	c := &collapse.Candidate{
		ID:     collapse.CandidateID{Locus: 3, Isoform: 2},
		Ref:    "chrX",
		Strand: 1,
		Exons:  collapse.ExonChain{{Start: 10, End: 20}, {Start: 30, End: 40}},
	}
	var buf bytes.Buffer
	assert.NoError(t, NewWriter(&buf).Write(c))

	var lines []string
	for _, l := range strings.Split(buf.String(), "\n") {
		if l == "" || strings.HasPrefix(l, "##") {
			continue
		}
		lines = append(lines, l)
	}
	// One transcript feature, then one feature per exon.
	assert.Equal(t, 3, len(lines))
	assert.Contains(t, lines[0], "\ttranscript\t")
	assert.Contains(t, lines[1], "\texon\t")
	assert.Contains(t, lines[2], "\texon\t")
	for _, l := range lines {
		assert.Contains(t, l, "PacBio")
		assert.Contains(t, l, `gene_id "PB.3"`)
		assert.Contains(t, l, `transcript_id "PB.3.2"`)
	}
	// GFF coordinates are 1-based inclusive.
	assert.Contains(t, lines[0], "\t11\t20\t")
}

func TestReadAllRejectsOrphanExon(t *testing.T) {
	in := "chr1\tPacBio\texon\t11\t20\t.\t+\t.\tgene_id \"PB.1\"; transcript_id \"PB.1.1\"\n"
	_, err := ReadAll(strings.NewReader(in))
	assert.Error(t, err)
}
