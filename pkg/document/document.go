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

// Package document models the text a rule runs on: the buffer, its language
// and the selected ranges.
package document

import (
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Range is a half-open byte range [Start, End) of a document's text
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Empty reports whether the range selects nothing
func (r Range) Empty() bool {
	return r.Start == r.End
}

// 📄 Document is an open buffer
type Document struct {
	Path       string
	Text       string
	LanguageID string
	Selections []Range
}

// New creates a document, detecting the language from path
func New(path, text string) *Document {
	return &Document{
		Path:       path,
		Text:       text,
		LanguageID: DetectLanguage(path),
	}
}

// Targets returns the ranges a command operates on: every non-empty
// selection, or the whole text when there is none. The ranges are sorted
// and must not overlap.
func (d *Document) Targets() ([]Range, error) {
	var out []Range
	for _, r := range d.Selections {
		if r.Start < 0 || r.End < r.Start || r.End > len(d.Text) {
			return nil, errors.Errorf("selection %d:%d is outside the document (length %d)", r.Start, r.End, len(d.Text))
		}
		if !r.Empty() {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return []Range{{Start: 0, End: len(d.Text)}}, nil
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})
	for i := 1; i < len(out); i++ {
		if out[i].Start < out[i-1].End {
			return nil, errors.Errorf("selections %d:%d and %d:%d overlap", out[i-1].Start, out[i-1].End, out[i].Start, out[i].End)
		}
	}
	return out, nil
}

// Slice returns the text covered by r
func (d *Document) Slice(r Range) string {
	return d.Text[r.Start:r.End]
}

// Replace returns a copy of d with each target range replaced by the text at
// the same index. The copy's selections cover the inserted texts.
func (d *Document) Replace(targets []Range, texts []string) (*Document, error) {
	if len(targets) != len(texts) {
		return nil, errors.Errorf("got %d replacement texts for %d ranges", len(texts), len(targets))
	}

	var b strings.Builder
	selections := make([]Range, 0, len(targets))
	last := 0
	for i, r := range targets {
		if r.Start < last || r.End > len(d.Text) || r.End < r.Start {
			return nil, errors.Errorf("range %d:%d is out of order or outside the document", r.Start, r.End)
		}
		b.WriteString(d.Text[last:r.Start])
		start := b.Len()
		b.WriteString(texts[i])
		selections = append(selections, Range{Start: start, End: b.Len()})
		last = r.End
	}
	b.WriteString(d.Text[last:])

	return &Document{
		Path:       d.Path,
		Text:       b.String(),
		LanguageID: d.LanguageID,
		Selections: selections,
	}, nil
}

// LineRange converts the 1-based inclusive line range [first, last] to a byte
// range. The range includes the line break ending the last line, if any.
func LineRange(text string, first, last int) (Range, error) {
	if first < 1 || last < first {
		return Range{}, errors.Errorf("invalid line range %d:%d", first, last)
	}

	line := 1
	start := -1
	if first == 1 {
		start = 0
	}
	for i := 0; i < len(text); i++ {
		if text[i] != '\n' {
			continue
		}
		if line == last {
			return Range{Start: start, End: i + 1}, nil
		}
		line++
		if line == first {
			start = i + 1
		}
	}

	if start < 0 || (line < last) {
		return Range{}, errors.Errorf("line range %d:%d is past the end of the document (%d lines)", first, last, line)
	}
	return Range{Start: start, End: len(text)}, nil
}
