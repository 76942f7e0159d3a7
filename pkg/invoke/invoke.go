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

package invoke

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"github.com/walteh/regexrules/pkg/document"
	"github.com/walteh/regexrules/pkg/engine"
	"github.com/walteh/regexrules/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// ErrUnknownRuleset is returned when a ruleset name is not in the store
var ErrUnknownRuleset = errors.Base("unknown ruleset")

// ErrNoClipboard is returned by clipboard commands when none is configured
var ErrNoClipboard = errors.Base("no clipboard available")

// 🗄️ Store is the read side of the rule store
type Store interface {
	GetRule(name string) (rule.Rule, bool)
	GetRuleset(name string) (rule.Ruleset, bool)
}

// 📊 Tracker records that a rule or ruleset was invoked
type Tracker interface {
	Record(ctx context.Context, name string) error
}

// 📋 Clipboard reads and writes the system clipboard
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// SystemClipboard uses the OS clipboard
type SystemClipboard struct{}

func (SystemClipboard) ReadAll() (string, error) {
	return clipboard.ReadAll()
}

func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// SystemClipboardSupported reports whether the OS clipboard can be used
func SystemClipboardSupported() bool {
	return !clipboard.Unsupported
}

// Kind selects what a Target names
type Kind int

const (
	KindRule Kind = iota + 1
	KindRuleset
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindRule:
		return "rule"
	case KindRuleset:
		return "ruleset"
	default:
		return "unknown"
	}
}

// 🎯 Target names a rule or a ruleset
type Target struct {
	Kind Kind
	Name string
}

// Rule targets the named rule
func Rule(name string) Target {
	return Target{Kind: KindRule, Name: name}
}

// Ruleset targets the named ruleset
func Ruleset(name string) Target {
	return Target{Kind: KindRuleset, Name: name}
}

func (t Target) String() string {
	return t.Kind.String() + " " + t.Name
}

// Options are the collaborators of an Invoker. Store is required; Engine
// defaults to engine.New(); Tracker and Clipboard may be nil.
type Options struct {
	Store     Store
	Engine    engine.Applier
	Tracker   Tracker
	Clipboard Clipboard
}

// ⚙️ Invoker runs rules and rulesets against documents and the clipboard
type Invoker struct {
	store     Store
	engine    engine.Applier
	tracker   Tracker
	clipboard Clipboard
}

// 🏭 New creates an Invoker
func New(opts Options) *Invoker {
	e := opts.Engine
	if e == nil {
		e = engine.New()
	}
	return &Invoker{
		store:     opts.Store,
		engine:    e,
		tracker:   opts.Tracker,
		clipboard: opts.Clipboard,
	}
}

// 📦 Outcome is the result of one invocation
type Outcome struct {
	// Document is the edited document, nil for clipboard transforms
	Document *document.Document

	// Results holds one engine result per transformed range
	Results []*engine.Result

	// Replacements is the total across Results
	Replacements int

	// Changed reports whether any text differs from the input
	Changed bool
}

// RunRule applies a rule to each selection of doc, or to the whole text
func (i *Invoker) RunRule(ctx context.Context, name string, doc *document.Document) (*Outcome, error) {
	return i.runDocument(ctx, Rule(name), doc)
}

// RunRuleset applies a ruleset to each selection of doc, or to the whole text
func (i *Invoker) RunRuleset(ctx context.Context, name string, doc *document.Document) (*Outcome, error) {
	return i.runDocument(ctx, Ruleset(name), doc)
}

// PasteRule transforms the clipboard with a rule and puts the result in place
// of each selection of doc, or of the whole text
func (i *Invoker) PasteRule(ctx context.Context, name string, doc *document.Document) (*Outcome, error) {
	return i.pasteDocument(ctx, Rule(name), doc)
}

// PasteRuleset is PasteRule for a ruleset
func (i *Invoker) PasteRuleset(ctx context.Context, name string, doc *document.Document) (*Outcome, error) {
	return i.pasteDocument(ctx, Ruleset(name), doc)
}

// TransformClipboard rewrites the clipboard contents in place
func (i *Invoker) TransformClipboard(ctx context.Context, target Target) (*Outcome, error) {
	if i.clipboard == nil {
		return nil, errors.WithStack(ErrNoClipboard)
	}
	if err := i.exists(target); err != nil {
		return nil, err
	}
	defer i.record(ctx, target)

	input, err := i.clipboard.ReadAll()
	if err != nil {
		return nil, errors.Errorf("reading clipboard: %w", err)
	}

	res, err := i.Apply(ctx, target, input, document.PlainText)
	if err != nil {
		return nil, err
	}

	if res.WasModified() {
		if err := i.clipboard.WriteAll(res.Text); err != nil {
			return nil, errors.Errorf("writing clipboard: %w", err)
		}
	}

	return &Outcome{
		Results:      []*engine.Result{res},
		Replacements: res.Replacements,
		Changed:      res.WasModified(),
	}, nil
}

// 🔧 Apply runs target over text without recording usage
func (i *Invoker) Apply(ctx context.Context, target Target, text, languageID string) (*engine.Result, error) {
	switch target.Kind {
	case KindRule:
		r, ok := i.store.GetRule(target.Name)
		if !ok {
			return nil, &engine.Error{Kind: engine.KindUnknownRule, Rule: target.Name}
		}
		return i.engine.ApplyRule(ctx, target.Name, r, text, languageID)
	case KindRuleset:
		rs, ok := i.store.GetRuleset(target.Name)
		if !ok {
			return nil, errors.Errorf("%w %q", ErrUnknownRuleset, target.Name)
		}
		return i.engine.ApplyRuleset(ctx, i.store, target.Name, rs, text, languageID)
	default:
		return nil, errors.Errorf("invalid target kind %d", target.Kind)
	}
}

func (i *Invoker) runDocument(ctx context.Context, target Target, doc *document.Document) (*Outcome, error) {
	if err := i.exists(target); err != nil {
		return nil, err
	}
	defer i.record(ctx, target)

	ranges, err := doc.Targets()
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(ranges))
	results := make([]*engine.Result, len(ranges))
	for n, r := range ranges {
		res, err := i.Apply(ctx, target, doc.Slice(r), doc.LanguageID)
		if err != nil {
			return nil, err
		}
		texts[n] = res.Text
		results[n] = res
	}

	return i.outcome(ctx, target, doc, ranges, texts, results)
}

func (i *Invoker) pasteDocument(ctx context.Context, target Target, doc *document.Document) (*Outcome, error) {
	if i.clipboard == nil {
		return nil, errors.WithStack(ErrNoClipboard)
	}
	if err := i.exists(target); err != nil {
		return nil, err
	}
	defer i.record(ctx, target)

	ranges, err := doc.Targets()
	if err != nil {
		return nil, err
	}

	input, err := i.clipboard.ReadAll()
	if err != nil {
		return nil, errors.Errorf("reading clipboard: %w", err)
	}

	res, err := i.Apply(ctx, target, input, doc.LanguageID)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(ranges))
	for n := range ranges {
		texts[n] = res.Text
	}

	return i.outcome(ctx, target, doc, ranges, texts, []*engine.Result{res})
}

func (i *Invoker) outcome(ctx context.Context, target Target, doc *document.Document, ranges []document.Range, texts []string, results []*engine.Result) (*Outcome, error) {
	out, err := doc.Replace(ranges, texts)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += r.Replacements
	}

	zerolog.Ctx(ctx).Debug().
		Str("target", target.String()).
		Str("path", doc.Path).
		Int("ranges", len(ranges)).
		Int("replacements", total).
		Msg("invocation complete")

	return &Outcome{
		Document:     out,
		Results:      results,
		Replacements: total,
		Changed:      out.Text != doc.Text,
	}, nil
}

func (i *Invoker) exists(target Target) error {
	switch target.Kind {
	case KindRule:
		if _, ok := i.store.GetRule(target.Name); !ok {
			return &engine.Error{Kind: engine.KindUnknownRule, Rule: target.Name}
		}
	case KindRuleset:
		if _, ok := i.store.GetRuleset(target.Name); !ok {
			return errors.Errorf("%w %q", ErrUnknownRuleset, target.Name)
		}
	default:
		return errors.Errorf("invalid target kind %d", target.Kind)
	}
	return nil
}

func (i *Invoker) record(ctx context.Context, target Target) {
	if i.tracker == nil {
		return
	}
	if err := i.tracker.Record(ctx, target.Name); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("target", target.String()).Msg("recording usage failed")
	}
}
