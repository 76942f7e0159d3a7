// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/regexrules/pkg/document"
	"github.com/walteh/regexrules/pkg/engine"
	"github.com/walteh/regexrules/pkg/invoke"
	"github.com/walteh/regexrules/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Applier transforms text with a rule or ruleset. *invoke.Invoker
// satisfies it.
type Applier interface {
	Apply(ctx context.Context, target invoke.Target, text, languageID string) (*engine.Result, error)
}

// 🔧 Options configures a batch run
type Options struct {
	// Applier runs the target over each file's content
	Applier Applier
	// Tracker records the batch as one use of Target, may be nil
	Tracker invoke.Tracker
	// Target is the rule or ruleset to apply
	Target invoke.Target
	// Root is the directory patterns are matched under, "." when empty
	Root string
	// Patterns are doublestar globs selecting files relative to Root
	Patterns []string
	// Exclude are doublestar globs removing files from the selection
	Exclude []string
	// LanguageID overrides detection from the file name
	LanguageID string
	// Jobs bounds the number of files processed at once, unbounded below one
	Jobs int
	// DryRun computes results without writing
	DryRun bool
	// Backup keeps a .bak copy of every rewritten file
	Backup bool
}

// 📊 Report lists what happened to each file, sorted by path
type Report struct {
	Files []status.FileInfo
}

// Count returns the number of files with status s
func (r *Report) Count(s status.FileStatus) int {
	n := 0
	for _, f := range r.Files {
		if f.Status == s {
			n++
		}
	}
	return n
}

// Replacements returns the total number of matches replaced
func (r *Report) Replacements() int {
	n := 0
	for _, f := range r.Files {
		n += f.Replacements
	}
	return n
}

// 📦 Operation applies one target to many files
type Operation struct {
	opts   Options
	status *status.Manager
	runner *Runner

	mu      sync.Mutex
	pending []change
}

// 🏭 New creates a batch operation
func New(opts Options) (*Operation, error) {
	if opts.Applier == nil {
		return nil, errors.Errorf("applier is required")
	}
	if opts.Target.Name == "" {
		return nil, errors.Errorf("target name is required")
	}
	if len(opts.Patterns) == 0 {
		return nil, errors.Errorf("at least one pattern is required")
	}
	for _, p := range append(append([]string{}, opts.Patterns...), opts.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Errorf("invalid pattern %q", p)
		}
	}
	if opts.Root == "" {
		opts.Root = "."
	}

	return &Operation{
		opts:   opts,
		status: status.New(opts.Root),
		runner: NewRunner(opts.Jobs),
	}, nil
}

// Status returns the manager tracking this operation's files
func (op *Operation) Status() *status.Manager {
	return op.status
}

// 🔍 Files returns the paths selected by the patterns, relative to Root
func (op *Operation) Files(ctx context.Context) ([]string, error) {
	logger := zerolog.Ctx(ctx)
	fsys := os.DirFS(op.opts.Root)

	seen := make(map[string]bool)
	var files []string
	for _, pattern := range op.opts.Patterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("matching %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			if op.excluded(m) {
				logger.Debug().Str("file", m).Msg("file excluded by pattern")
				continue
			}
			files = append(files, filepath.FromSlash(m))
		}
	}

	sort.Strings(files)
	return files, nil
}

func (op *Operation) excluded(path string) bool {
	for _, pattern := range op.opts.Exclude {
		if doublestar.MatchUnvalidated(pattern, path) {
			return true
		}
	}
	return false
}

// 🏃 Execute runs the target over every selected file. A file whose language
// the rule excludes is skipped. Every output is computed before anything is
// written; any failure stops the batch, leaves the tree as it was and returns
// no report.
func (op *Operation) Execute(ctx context.Context) (*Report, error) {
	logger := zerolog.Ctx(ctx)

	files, err := op.Files(ctx)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("target", op.opts.Target.String()).
		Str("root", op.opts.Root).
		Int("files", len(files)).
		Bool("dry_run", op.opts.DryRun).
		Msg("starting batch")

	if op.opts.Tracker != nil {
		if err := op.opts.Tracker.Record(ctx, op.opts.Target.Name); err != nil {
			logger.Warn().Err(err).Str("target", op.opts.Target.String()).Msg("recording usage failed")
		}
	}

	op.mu.Lock()
	op.pending = nil
	op.mu.Unlock()

	op.status.StartOperation(ctx, len(files))
	defer op.status.FinishOperation(ctx)

	if err := op.runner.Run(ctx, files, op.processFile); err != nil {
		return nil, err
	}

	if !op.opts.DryRun {
		if err := op.commit(ctx); err != nil {
			return nil, err
		}
	}

	tracked, err := op.status.ListFiles(ctx)
	if err != nil {
		return nil, errors.Errorf("listing results: %w", err)
	}
	return &Report{Files: tracked}, nil
}

// 📝 change is a computed rewrite waiting for the commit phase
type change struct {
	path   string
	before []byte
	after  []byte
	info   status.FileInfo
}

// 📄 processFile computes the target's output for a single file. Nothing is
// written here.
func (op *Operation) processFile(ctx context.Context, path string) error {
	defer op.status.Increment(ctx)

	languageID := op.opts.LanguageID
	if languageID == "" {
		languageID = document.DetectLanguage(path)
	}
	info := status.FileInfo{LanguageID: languageID, DryRun: op.opts.DryRun}

	content, err := op.status.ReadFile(ctx, path)
	if err != nil {
		info.Status = status.StatusFailed
		info.Error = err
		op.status.TrackFile(ctx, path, info)
		return errors.Errorf("reading %s: %w", path, err)
	}

	res, err := op.opts.Applier.Apply(ctx, op.opts.Target, string(content), languageID)
	if errors.Is(err, engine.ErrNotApplicable) {
		info.Status = status.StatusSkipped
		info.Error = err
		info.Size = int64(len(content))
		info.Checksum = status.Checksum(content)
		op.status.TrackFile(ctx, path, info)
		return nil
	}
	if err != nil {
		info.Status = status.StatusFailed
		info.Error = err
		op.status.TrackFile(ctx, path, info)
		return errors.Errorf("applying %s to %s: %w", op.opts.Target, path, err)
	}

	out := []byte(res.Text)
	info.Replacements = res.Replacements
	info.Size = int64(len(out))
	info.Checksum = status.Checksum(out)

	if !res.WasModified() {
		info.Status = status.StatusUnchanged
		op.status.TrackFile(ctx, path, info)
		return nil
	}

	info.Status = status.StatusModified
	op.status.TrackFile(ctx, path, info)
	if !op.opts.DryRun {
		op.mu.Lock()
		op.pending = append(op.pending, change{path: path, before: content, after: out, info: info})
		op.mu.Unlock()
	}
	return nil
}

// 💾 commit writes every pending change in path order. When a write fails the
// files already written are put back before the error is returned.
func (op *Operation) commit(ctx context.Context) error {
	op.mu.Lock()
	pending := op.pending
	op.pending = nil
	op.mu.Unlock()

	sort.Slice(pending, func(i, j int) bool { return pending[i].path < pending[j].path })

	for n, c := range pending {
		err := op.write(ctx, c)
		if err == nil {
			continue
		}

		c.info.Status = status.StatusFailed
		c.info.Error = err
		op.status.TrackFile(ctx, c.path, c.info)
		op.rollback(ctx, pending[:n])
		return err
	}
	return nil
}

func (op *Operation) write(ctx context.Context, c change) error {
	if op.opts.Backup {
		if err := op.status.BackupFile(ctx, c.path); err != nil {
			return errors.Errorf("backing up %s: %w", c.path, err)
		}
	}
	if err := op.status.WriteFileAtomic(ctx, c.path, c.after); err != nil {
		return errors.Errorf("writing %s: %w", c.path, err)
	}
	return nil
}

// rollback restores files written earlier in a failed commit
func (op *Operation) rollback(ctx context.Context, written []change) {
	logger := zerolog.Ctx(ctx)

	for _, c := range written {
		var err error
		if op.opts.Backup {
			err = op.status.RestoreFile(ctx, c.path)
		} else {
			err = op.status.WriteFileAtomic(ctx, c.path, c.before)
		}
		if err != nil {
			logger.Error().Err(err).Str("file", c.path).Msg("restoring file after failed batch")
			continue
		}
		c.info.Status = status.StatusUnchanged
		c.info.Replacements = 0
		c.info.Size = int64(len(c.before))
		c.info.Checksum = status.Checksum(c.before)
		op.status.TrackFile(ctx, c.path, c.info)
	}
}
