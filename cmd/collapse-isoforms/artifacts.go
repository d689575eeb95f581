package main

import "fmt"

// artifacts derives the output file names from the shared prefix, the way the
// original tool names them: <prefix>.<5merge|no5merge>.collapsed.<part>, with
// .fuzzy/.unfuzzy variants for the intermediate annotation and group files.
type artifacts struct {
	prefix          string
	allowExtra5Exon bool
	repExt          string // fasta or fastq, from the input collection
}

func (a artifacts) mergeTag() string {
	if a.allowExtra5Exon {
		return "5merge"
	}
	return "no5merge"
}

func (a artifacts) collapsed() string {
	return fmt.Sprintf("%s.%s.collapsed", a.prefix, a.mergeTag())
}

func (a artifacts) gff() string            { return a.collapsed() + ".gff" }
func (a artifacts) goodGFF() string        { return a.collapsed() + ".good.gff" }
func (a artifacts) badGFF() string         { return a.collapsed() + ".bad.gff" }
func (a artifacts) group() string          { return a.collapsed() + ".group.txt" }
func (a artifacts) ignoredIDs() string     { return a.collapsed() + ".ignored_ids.txt" }
func (a artifacts) rep() string            { return a.collapsed() + ".rep." + a.repExt }
func (a artifacts) goodUnfuzzyGFF() string { return a.goodGFF() + ".unfuzzy" }
func (a artifacts) goodFuzzyGFF() string   { return a.goodGFF() + ".fuzzy" }
func (a artifacts) badUnfuzzyGFF() string  { return a.badGFF() + ".unfuzzy" }
func (a artifacts) unfuzzyGroup() string   { return a.group() + ".unfuzzy" }
func (a artifacts) fuzzyGroup() string     { return a.group() + ".fuzzy" }
