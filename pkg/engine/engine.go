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

package engine

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/regexrules/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// 🗄️ Store resolves rule names for ruleset application
type Store interface {
	GetRule(name string) (rule.Rule, bool)
}

// 📊 Result contains the outcome of applying a rule or ruleset
type Result struct {
	// Original is the input text
	Original string

	// Text is the transformed text
	Text string

	// Replacements is the number of matches replaced across all rules
	Replacements int

	// Applied lists the rules that ran, in order
	Applied []string

	// Skipped lists ruleset members filtered out by language
	Skipped []string
}

// WasModified reports whether the text changed
func (r *Result) WasModified() bool {
	return r.Text != r.Original
}

// 🔌 Applier is the engine surface used by callers
type Applier interface {
	ApplyRule(ctx context.Context, name string, r rule.Rule, text, languageID string) (*Result, error)
	ApplyRuleset(ctx context.Context, store Store, name string, rs rule.Ruleset, text, languageID string) (*Result, error)
}

// ⚙️ Engine compiles and applies rules. It holds no per-call state and is
// safe for concurrent use.
type Engine struct {
	backend Backend
	compile compileFunc
	timeout time.Duration
}

// Option configures an Engine
type Option func(*Engine)

// WithBackend selects the regex implementation
func WithBackend(b Backend) Option {
	return func(e *Engine) {
		e.backend = b
	}
}

// WithMatchTimeout bounds a single match attempt on backtracking backends.
// Zero disables the bound.
func WithMatchTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// 🏭 New creates an engine, using the ECMAScript backend unless told otherwise
func New(opts ...Option) *Engine {
	e := &Engine{backend: BackendECMAScript}
	for _, opt := range opts {
		opt(e)
	}
	e.compile = compilerFor(e.backend)
	return e
}

// Backend returns the regex implementation in use
func (e *Engine) Backend() Backend {
	return e.backend
}

// Applicable reports whether r may run on a document of languageID.
func Applicable(r rule.Rule, languageID string) bool {
	return r.AppliesTo(languageID)
}

// 🧩 Compiled is a rule ready to run
type Compiled struct {
	Name       string
	Normalized Normalized
	matcher    matcher
}

// Compile normalizes and compiles a rule, failing with KindInvalidPattern.
func (e *Engine) Compile(name string, r rule.Rule) (*Compiled, error) {
	c, err := e.compileRule(name, r)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (e *Engine) compileRule(name string, r rule.Rule) (*Compiled, *Error) {
	n, err := Normalize(r)
	if err != nil {
		return nil, invalidPattern(name, err)
	}
	m, err := e.compile(n.Pattern, n.Flags, e.timeout)
	if err != nil {
		return nil, invalidPattern(name, err)
	}
	return &Compiled{Name: name, Normalized: n, matcher: m}, nil
}

// Replace runs one substitution pass over text and returns the new text with
// the number of matches replaced.
func (c *Compiled) Replace(text string) (string, int, error) {
	limit := 1
	if c.Normalized.Flags.Global {
		limit = -1
	}

	matches, err := c.matcher.findAll(text, limit)
	if err != nil {
		return "", 0, errors.Errorf("matching rule %q: %w", c.Name, err)
	}
	if c.Normalized.Flags.Sticky {
		matches = keepSticky(text, matches)
	}
	if len(matches) == 0 {
		return text, 0, nil
	}

	names := c.matcher.groupNames()
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range matches {
		w := m.whole()
		b.WriteString(text[last:w.start])
		if c.Normalized.Literal {
			b.WriteString(c.Normalized.Replacement)
		} else {
			expand(&b, c.Normalized.Replacement, text, m, names)
		}
		last = w.end
	}
	b.WriteString(text[last:])

	return b.String(), len(matches), nil
}

// 🎯 ApplyRule applies a directly invoked rule. A language mismatch fails
// with KindNotApplicable, a bad pattern with KindInvalidPattern.
func (e *Engine) ApplyRule(ctx context.Context, name string, r rule.Rule, text, languageID string) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	if !Applicable(r, languageID) {
		return nil, &Error{
			Kind:       KindNotApplicable,
			Rule:       name,
			LanguageID: languageID,
			Languages:  r.Languages,
		}
	}

	c, cerr := e.compileRule(name, r)
	if cerr != nil {
		return nil, cerr
	}

	out, n, err := c.Replace(text)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("rule", name).
		Str("language", languageID).
		Int("replacements", n).
		Msg("applied rule")

	return &Result{
		Original:     text,
		Text:         out,
		Replacements: n,
		Applied:      []string{name},
	}, nil
}

// 🔗 ApplyRuleset resolves every member name, then chains the applicable
// members in order. Members excluded by language are skipped. Any failure
// returns no result at all.
func (e *Engine) ApplyRuleset(ctx context.Context, store Store, name string, rs rule.Ruleset, text, languageID string) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	type member struct {
		name string
		rule rule.Rule
	}

	members := make([]member, 0, len(rs.Rules))
	for _, rn := range rs.Rules {
		r, ok := store.GetRule(rn)
		if !ok {
			return nil, &Error{Kind: KindUnknownRule, Rule: rn, Ruleset: name}
		}
		members = append(members, member{name: rn, rule: r})
	}

	result := &Result{Original: text, Text: text}
	for _, m := range members {
		if !Applicable(m.rule, languageID) {
			logger.Debug().
				Str("ruleset", name).
				Str("rule", m.name).
				Str("language", languageID).
				Msg("skipping rule for language")
			result.Skipped = append(result.Skipped, m.name)
			continue
		}

		c, cerr := e.compileRule(m.name, m.rule)
		if cerr != nil {
			cerr.Ruleset = name
			return nil, cerr
		}

		out, n, err := c.Replace(result.Text)
		if err != nil {
			return nil, errors.Errorf("ruleset %q: %w", name, err)
		}

		result.Text = out
		result.Replacements += n
		result.Applied = append(result.Applied, m.name)
	}

	logger.Debug().
		Str("ruleset", name).
		Str("language", languageID).
		Strs("applied", result.Applied).
		Strs("skipped", result.Skipped).
		Int("replacements", result.Replacements).
		Msg("applied ruleset")

	return result, nil
}
