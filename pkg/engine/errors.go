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
	"fmt"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Kind tags an engine failure
type Kind int

const (
	KindInvalidPattern Kind = iota + 1 // find does not compile under its flags
	KindUnknownRule                    // a ruleset names a rule the store does not have
	KindNotApplicable                  // a directly invoked rule excludes the document language
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindInvalidPattern:
		return "invalid_pattern"
	case KindUnknownRule:
		return "unknown_rule"
	case KindNotApplicable:
		return "not_applicable"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidPattern matches every *Error of KindInvalidPattern
	ErrInvalidPattern = errors.Base("invalid pattern")
	// ErrUnknownRule matches every *Error of KindUnknownRule
	ErrUnknownRule = errors.Base("unknown rule")
	// ErrNotApplicable matches every *Error of KindNotApplicable
	ErrNotApplicable = errors.Base("rule not applicable")
)

// ❌ Error is the failure value returned by the engine
type Error struct {
	Kind       Kind
	Rule       string   // rule the failure is about
	Ruleset    string   // ruleset being applied, if any
	LanguageID string   // document language, for KindNotApplicable
	Languages  []string // languages the rule accepts, for KindNotApplicable
	Err        error    // regex diagnostic, for KindInvalidPattern
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Ruleset != "" {
		fmt.Fprintf(&b, "ruleset %q: ", e.Ruleset)
	}
	switch e.Kind {
	case KindInvalidPattern:
		if e.Rule != "" {
			fmt.Fprintf(&b, "rule %q: ", e.Rule)
		}
		b.WriteString("invalid pattern")
		if e.Err != nil {
			fmt.Fprintf(&b, ": %s", e.Err.Error())
		}
	case KindUnknownRule:
		fmt.Fprintf(&b, "unknown rule %q", e.Rule)
	case KindNotApplicable:
		fmt.Fprintf(&b, "rule %q does not apply to language %q (applies to: %s)",
			e.Rule, e.LanguageID, strings.Join(e.Languages, ", "))
	default:
		fmt.Fprintf(&b, "rule %q: engine error", e.Rule)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInvalidPattern) and friends work on *Error
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidPattern:
		return e.Kind == KindInvalidPattern
	case ErrUnknownRule:
		return e.Kind == KindUnknownRule
	case ErrNotApplicable:
		return e.Kind == KindNotApplicable
	}
	return false
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func invalidPattern(name string, err error) *Error {
	return &Error{Kind: KindInvalidPattern, Rule: name, Err: err}
}
