package main

// File-level plumbing for the collapse pipeline: opening (possibly
// compressed) inputs, the artifact writers, and the final symlinks.

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"

	"github.com/dayedepps/pbtranscript/collapse"
	"github.com/dayedepps/pbtranscript/encoding/gff"
	"github.com/dayedepps/pbtranscript/encoding/seqio"
)

// openInput opens path for reading, transparently decompressing by
// extension. The returned closer must be called once.
func openInput(ctx context.Context, path string) (io.Reader, func() error, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, errors.E(err, "open", path)
	}
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	return r, func() error { return in.Close(ctx) }, nil
}

// readIsoforms loads the isoform sequence collection, inferring the format
// from the file name.
func readIsoforms(ctx context.Context, path string) (*seqio.Collection, error) {
	format := seqio.FormatFromPath(path)
	if format == seqio.Unknown {
		return nil, fmt.Errorf("cannot tell FASTA from FASTQ for %s; expected a .fasta/.fa/.fastq/.fq file", path)
	}
	in, closeIn, err := openInput(ctx, path)
	if err != nil {
		return nil, err
	}
	c, err := seqio.Read(in, format)
	once := errors.Once{}
	once.Set(err)
	once.Set(closeIn())
	if err := once.Err(); err != nil {
		return nil, errors.E(err, "read isoforms", path)
	}
	return c, nil
}

// newGFFWriter opens a collapse annotation writer on path.
func newGFFWriter(ctx context.Context, path string) (*gff.Writer, func() error, error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, nil, errors.E(err, "create", path)
	}
	return gff.NewWriter(out.Writer(ctx)), func() error { return out.Close(ctx) }, nil
}

// groupWriter emits the group membership table: one line per collapsed
// isoform, id TAB comma-separated member ids.
type groupWriter struct {
	w *tsv.Writer
}

func (g *groupWriter) write(id, members string) error {
	g.w.WriteString(id)
	g.w.WriteString(members)
	return g.w.EndLine()
}

func newGroupWriter(ctx context.Context, path string) (*groupWriter, func() error, error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, nil, errors.E(err, "create", path)
	}
	w := &groupWriter{w: tsv.NewWriter(out.Writer(ctx))}
	return w, func() error {
		once := errors.Once{}
		once.Set(w.w.Flush())
		once.Set(out.Close(ctx))
		return once.Err()
	}, nil
}

// writeGFF writes all candidates to one annotation file.
func writeGFF(ctx context.Context, path string, cands []*collapse.Candidate) error {
	w, closeW, err := newGFFWriter(ctx, path)
	if err != nil {
		return err
	}
	for _, c := range cands {
		if err := w.Write(c); err != nil {
			closeW()
			return err
		}
	}
	return closeW()
}

// writeGroups writes the membership table for all candidates.
func writeGroups(ctx context.Context, path string, cands []*collapse.Candidate) error {
	w, closeW, err := newGroupWriter(ctx, path)
	if err != nil {
		return err
	}
	for _, c := range cands {
		if err := w.write(c.ID.String(), strings.Join(c.MemberNames(), ",")); err != nil {
			closeW()
			return err
		}
	}
	return closeW()
}

// writeIgnored writes the queries dropped by the coverage/identity filters,
// in encounter order, with the failing metric.
func writeIgnored(ctx context.Context, path string, ignored []collapse.IgnoredRecord) error {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	w := tsv.NewWriter(out.Writer(ctx))
	for _, rec := range ignored {
		w.WriteString(rec.Name)
		w.WriteString(rec.Reason)
		if err := w.EndLine(); err != nil {
			out.Close(ctx) // nolint: errcheck
			return err
		}
	}
	once := errors.Once{}
	once.Set(w.Flush())
	once.Set(out.Close(ctx))
	return once.Err()
}

// writeReps writes one representative sequence per final good group. The
// record id carries the collapsed id, the locus span, and the source read:
// PB.1.2|chr1:100-4500(+)|movie/4/ccs.
func writeReps(ctx context.Context, path string, format seqio.Format,
	cands []*collapse.Candidate, reps []collapse.Representative) error {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	w := seqio.NewWriter(out.Writer(ctx), format)
	for i, rep := range reps {
		c := cands[i]
		strand := "+"
		if c.Strand < 0 {
			strand = "-"
		}
		name := fmt.Sprintf("%s|%s:%d-%d(%s)|%s",
			rep.ID, c.Ref, c.Exons.Start(), c.Exons.End(), strand, rep.Name)
		if err := w.Write(&seqio.Seq{Name: name, Seq: rep.Seq, Qual: rep.Qual}); err != nil {
			out.Close(ctx) // nolint: errcheck
			return err
		}
	}
	once := errors.Once{}
	once.Set(w.Flush())
	once.Set(out.Close(ctx))
	return once.Err()
}

// symlink points link at target (relative, same directory), replacing any
// previous link, the way the original pipeline publishes its final artifact
// names.
func symlink(target, link string) error {
	if err := os.Remove(link); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Symlink(filepath.Base(target), link)
}
