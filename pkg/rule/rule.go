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

// Package rule holds the configuration shapes of rules and rulesets.
//
// Values of these types are read-only snapshots owned by the rule store.
package rule

// DefaultFlags is used when a rule does not declare flags: replace every match
// and let ^ and $ anchor at line boundaries.
const DefaultFlags = "gm"

// Rule defines a single named find/replace transformation
type Rule struct {
	// Find is the pattern, either one string or lines joined with "\n"
	Find Text `json:"find" yaml:"find"`

	// Replace is the replacement, nil means delete the match
	Replace *Text `json:"replace,omitempty" yaml:"replace,omitempty"`

	// Flags are regex flag letters, nil means DefaultFlags
	Flags *Text `json:"flags,omitempty" yaml:"flags,omitempty"`

	// Languages restricts the rule to documents of these language ids
	Languages []string `json:"languages,omitempty" yaml:"languages,omitempty"`

	// Literal makes Find match verbatim and Replace insert verbatim
	Literal bool `json:"literal,omitempty" yaml:"literal,omitempty"`
}

// Ruleset is an ordered list of rule names
type Ruleset struct {
	Rules []string `json:"rules" yaml:"rules"`
}

// FindString returns the find pattern with list lines joined.
func (r Rule) FindString() string {
	return r.Find.Join("\n")
}

// ReplaceString returns the replacement with list lines joined, or "" when unset.
func (r Rule) ReplaceString() string {
	if r.Replace == nil {
		return ""
	}
	return r.Replace.Join("\n")
}

// FlagsString returns the flag letters, or DefaultFlags when unset.
// List elements are concatenated since each one is a flag letter (or several).
func (r Rule) FlagsString() string {
	if r.Flags == nil {
		return DefaultFlags
	}
	return r.Flags.Join("")
}

// AppliesTo reports whether the rule may run on a document of the given language.
func (r Rule) AppliesTo(languageID string) bool {
	if len(r.Languages) == 0 {
		return true
	}
	for _, l := range r.Languages {
		if l == languageID {
			return true
		}
	}
	return false
}
