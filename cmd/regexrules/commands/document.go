package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	"github.com/walteh/regexrules/cmd/regexrules/opts"
	"github.com/walteh/regexrules/pkg/document"
	"github.com/walteh/regexrules/pkg/invoke"
	"github.com/walteh/regexrules/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/term"
)

// documentFlags select the document a command edits and where the result goes
type documentFlags struct {
	file     string
	language string
	lines    []string
	write    bool
	diff     bool
}

func (f *documentFlags) register(cmd *cobra.Command, withDiff bool) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "file to edit (default: stdin)")
	cmd.Flags().StringVarP(&f.language, "language", "l", "", "language id (default: detected from the file name)")
	cmd.Flags().StringArrayVar(&f.lines, "lines", nil, "1-based inclusive line range A:B to select, repeatable")
	cmd.Flags().BoolVarP(&f.write, "write", "w", false, "write the result back to the file")
	if withDiff {
		cmd.Flags().BoolVar(&f.diff, "diff", false, "print a diff instead of the result")
	}
}

// load builds the document. Without -f the text comes from stdin unless
// readInput is false, in which case the document starts empty.
func (f *documentFlags) load(o *opts.RootOpts, readInput bool) (*document.Document, error) {
	if f.write && f.file == "" {
		return nil, errors.Errorf("--write requires --file")
	}

	var text string
	switch {
	case f.file != "":
		data, err := os.ReadFile(f.file)
		if err != nil {
			return nil, errors.Errorf("reading %s: %w", f.file, err)
		}
		text = string(data)
	case readInput:
		if isTerminal(o.In) {
			return nil, errors.Errorf("refusing to read rules input from a terminal: pass --file or pipe text in")
		}
		data, err := io.ReadAll(o.In)
		if err != nil {
			return nil, errors.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	doc := document.New(f.file, text)
	if f.language != "" {
		doc.LanguageID = f.language
	}

	for _, lr := range f.lines {
		first, last, err := parseLines(lr)
		if err != nil {
			return nil, err
		}
		r, err := document.LineRange(text, first, last)
		if err != nil {
			return nil, err
		}
		doc.Selections = append(doc.Selections, r)
	}

	return doc, nil
}

// emit prints or writes the outcome of editing before
func (f *documentFlags) emit(ctx context.Context, o *opts.RootOpts, target invoke.Target, before *document.Document, out *invoke.Outcome) error {
	logger := o.Logger(ctx)

	switch {
	case f.diff:
		fmt.Fprint(o.Out, unifiedDiff(before.Text, out.Document.Text))
	case f.write:
		if out.Changed {
			dir, name := filepath.Split(f.file)
			if err := status.New(dir).WriteFileAtomic(ctx, name, []byte(out.Document.Text)); err != nil {
				return errors.Errorf("writing %s: %w", f.file, err)
			}
		}
	default:
		fmt.Fprint(o.Out, out.Document.Text)
	}

	logger.Outcome(target, out)
	return nil
}

func parseLines(lr string) (int, int, error) {
	a, b, ok := strings.Cut(lr, ":")
	if !ok {
		b = a
	}
	first, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, errors.Errorf("invalid --lines %q: want A:B", lr)
	}
	last, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, errors.Errorf("invalid --lines %q: want A:B", lr)
	}
	return first, last, nil
}

func unifiedDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	if len(diffs) == 1 && diffs[0].Type == diffmatchpatch.DiffEqual {
		return ""
	}
	return dmp.PatchToText(dmp.PatchMake(before, diffs))
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
