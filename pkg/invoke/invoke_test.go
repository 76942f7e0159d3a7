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
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/regexrules/pkg/config"
	"github.com/walteh/regexrules/pkg/document"
	"github.com/walteh/regexrules/pkg/engine"
	"github.com/walteh/regexrules/pkg/rule"
	"github.com/walteh/regexrules/pkg/state"
	"gitlab.com/tozd/go/errors"
)

// 🔧 MockTracker is a mock implementation of Tracker
type MockTracker struct {
	mock.Mock
}

func (m *MockTracker) Record(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

// 🔧 MockClipboard is a mock implementation of Clipboard
type MockClipboard struct {
	mock.Mock
}

func (m *MockClipboard) ReadAll() (string, error) {
	result := m.Called()
	return result.String(0), result.Error(1)
}

func (m *MockClipboard) WriteAll(text string) error {
	return m.Called(text).Error(0)
}

func setupTestContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t}).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

func testStore() *config.Config {
	cfg := config.New()
	cfg.Rules["upper-x"] = rule.Rule{Find: rule.String("x"), Replace: rule.String("X").Ptr()}
	cfg.Rules["strip-trailing-ws"] = rule.Rule{Find: rule.String(" +$")}
	cfg.Rules["collapse-blank-lines"] = rule.Rule{
		Find:    rule.String(`\n{3,}`),
		Replace: rule.String("\n\n").Ptr(),
		Flags:   rule.String("g").Ptr(),
	}
	cfg.Rules["py-only"] = rule.Rule{Find: rule.String("x"), Replace: rule.String("PY").Ptr(), Languages: []string{"python"}}
	cfg.Rules["broken"] = rule.Rule{Find: rule.String("(unclosed")}
	cfg.Rulesets["cleanup"] = rule.Ruleset{Rules: []string{"strip-trailing-ws", "collapse-blank-lines"}}
	cfg.Rulesets["mixed"] = rule.Ruleset{Rules: []string{"py-only", "upper-x"}}
	cfg.Rulesets["dangling"] = rule.Ruleset{Rules: []string{"upper-x", "missing"}}
	return cfg
}

func TestInvoker_Run(t *testing.T) {
	tests := []struct {
		name         string
		target       Target
		doc          *document.Document
		want         string
		wantChanged  bool
		wantRecorded bool
		wantError    error
	}{
		{
			name:         "rule_whole_document",
			target:       Rule("upper-x"),
			doc:          &document.Document{Text: "x y x", LanguageID: "plaintext"},
			want:         "X y X",
			wantChanged:  true,
			wantRecorded: true,
		},
		{
			name:   "rule_each_selection",
			target: Rule("upper-x"),
			doc: &document.Document{
				Text:       "xx | xx | xx",
				LanguageID: "plaintext",
				Selections: []document.Range{{Start: 10, End: 12}, {Start: 0, End: 2}},
			},
			want:         "XX | xx | XX",
			wantChanged:  true,
			wantRecorded: true,
		},
		{
			name:         "ruleset_chain",
			target:       Ruleset("cleanup"),
			doc:          &document.Document{Text: "a   \nb\n\n\nc", LanguageID: "plaintext"},
			want:         "a\nb\n\nc",
			wantChanged:  true,
			wantRecorded: true,
		},
		{
			name:         "ruleset_skips_other_language",
			target:       Ruleset("mixed"),
			doc:          &document.Document{Text: "x", LanguageID: "javascript"},
			want:         "X",
			wantChanged:  true,
			wantRecorded: true,
		},
		{
			name:         "no_match",
			target:       Rule("upper-x"),
			doc:          &document.Document{Text: "abc", LanguageID: "plaintext"},
			want:         "abc",
			wantRecorded: true,
		},
		{
			name:         "not_applicable_still_recorded",
			target:       Rule("py-only"),
			doc:          &document.Document{Text: "x", LanguageID: "javascript"},
			wantRecorded: true,
			wantError:    engine.ErrNotApplicable,
		},
		{
			name:         "invalid_pattern",
			target:       Rule("broken"),
			doc:          &document.Document{Text: "x", LanguageID: "plaintext"},
			wantRecorded: true,
			wantError:    engine.ErrInvalidPattern,
		},
		{
			name:         "dangling_member",
			target:       Ruleset("dangling"),
			doc:          &document.Document{Text: "x", LanguageID: "plaintext"},
			wantRecorded: true,
			wantError:    engine.ErrUnknownRule,
		},
		{
			name:      "unknown_rule",
			target:    Rule("nope"),
			doc:       &document.Document{Text: "x", LanguageID: "plaintext"},
			wantError: engine.ErrUnknownRule,
		},
		{
			name:      "unknown_ruleset",
			target:    Ruleset("nope"),
			doc:       &document.Document{Text: "x", LanguageID: "plaintext"},
			wantError: ErrUnknownRuleset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := setupTestContext(t)
			tracker := &MockTracker{}
			if tt.wantRecorded {
				tracker.On("Record", mock.Anything, tt.target.Name).Return(nil).Once()
			}

			inv := New(Options{Store: testStore(), Tracker: tracker})

			var out *Outcome
			var err error
			if tt.target.Kind == KindRule {
				out, err = inv.RunRule(ctx, tt.target.Name, tt.doc)
			} else {
				out, err = inv.RunRuleset(ctx, tt.target.Name, tt.doc)
			}

			tracker.AssertExpectations(t)
			if !tt.wantRecorded {
				tracker.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
			}

			if tt.wantError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantError)
				assert.Contains(t, err.Error(), tt.target.Name)
				assert.Nil(t, out, "no outcome on error")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Document.Text)
			assert.Equal(t, tt.wantChanged, out.Changed)
		})
	}
}

func TestInvoker_RunKeepsSelectionsIndependent(t *testing.T) {
	ctx := setupTestContext(t)
	cfg := config.New()
	cfg.Rules["first-word"] = rule.Rule{
		Find:    rule.String(`^\w+`),
		Replace: rule.String("<$&>").Ptr(),
		Flags:   rule.String("").Ptr(),
	}

	doc := &document.Document{
		Text:       "alpha beta gamma",
		LanguageID: "plaintext",
		Selections: []document.Range{{Start: 6, End: 16}, {Start: 0, End: 5}},
	}

	out, err := New(Options{Store: cfg}).RunRule(ctx, "first-word", doc)
	require.NoError(t, err)
	assert.Equal(t, "<alpha> <beta> gamma", out.Document.Text, "each selection is its own input")
	assert.Equal(t, []document.Range{{Start: 0, End: 7}, {Start: 8, End: 20}}, out.Document.Selections)
	assert.Len(t, out.Results, 2)
	assert.Equal(t, 2, out.Replacements)
}

func TestInvoker_Paste(t *testing.T) {
	ctx := setupTestContext(t)

	clip := &MockClipboard{}
	clip.On("ReadAll").Return("x marks x", nil)
	tracker := &MockTracker{}
	tracker.On("Record", mock.Anything, "upper-x").Return(nil).Twice()

	inv := New(Options{Store: testStore(), Tracker: tracker, Clipboard: clip})

	doc := &document.Document{
		Text:       "[sel1] and [sel2]",
		LanguageID: "plaintext",
		Selections: []document.Range{{Start: 0, End: 6}, {Start: 11, End: 17}},
	}
	out, err := inv.PasteRule(ctx, "upper-x", doc)
	require.NoError(t, err)
	assert.Equal(t, "X marks X and X marks X", out.Document.Text)
	assert.Equal(t, 2, out.Replacements)

	whole := &document.Document{Text: "replace me", LanguageID: "plaintext"}
	out, err = inv.PasteRule(ctx, "upper-x", whole)
	require.NoError(t, err)
	assert.Equal(t, "X marks X", out.Document.Text)

	tracker.AssertExpectations(t)
	clip.AssertNotCalled(t, "WriteAll", mock.Anything)
}

func TestInvoker_PasteRuleset(t *testing.T) {
	ctx := setupTestContext(t)

	clip := &MockClipboard{}
	clip.On("ReadAll").Return("a  \n\n\n\nb", nil)

	inv := New(Options{Store: testStore(), Clipboard: clip})
	out, err := inv.PasteRuleset(ctx, "cleanup", &document.Document{Text: "", LanguageID: "markdown"})
	require.NoError(t, err)
	assert.Equal(t, "a\n\nb", out.Document.Text)
}

func TestInvoker_PasteErrors(t *testing.T) {
	ctx := setupTestContext(t)
	doc := &document.Document{Text: "keep", LanguageID: "plaintext"}

	_, err := New(Options{Store: testStore()}).PasteRule(ctx, "upper-x", doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoClipboard)

	clip := &MockClipboard{}
	clip.On("ReadAll").Return("", errors.New("no display"))
	_, err = New(Options{Store: testStore(), Clipboard: clip}).PasteRule(ctx, "upper-x", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading clipboard: no display")
	assert.Equal(t, "keep", doc.Text)
}

func TestInvoker_TransformClipboard(t *testing.T) {
	ctx := setupTestContext(t)

	clip := &MockClipboard{}
	clip.On("ReadAll").Return("x and x", nil).Once()
	clip.On("WriteAll", "X and X").Return(nil).Once()

	out, err := New(Options{Store: testStore(), Clipboard: clip}).TransformClipboard(ctx, Rule("upper-x"))
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.Nil(t, out.Document)
	clip.AssertExpectations(t)

	unchanged := &MockClipboard{}
	unchanged.On("ReadAll").Return("nothing here", nil).Once()
	out, err = New(Options{Store: testStore(), Clipboard: unchanged}).TransformClipboard(ctx, Rule("upper-x"))
	require.NoError(t, err)
	assert.False(t, out.Changed)
	unchanged.AssertNotCalled(t, "WriteAll", mock.Anything)
}

func TestInvoker_TrackerFailureDoesNotMaskResult(t *testing.T) {
	ctx := setupTestContext(t)
	tracker := &MockTracker{}
	tracker.On("Record", mock.Anything, "upper-x").Return(errors.New("disk full"))

	out, err := New(Options{Store: testStore(), Tracker: tracker}).RunRule(ctx, "upper-x",
		&document.Document{Text: "x", LanguageID: "plaintext"})
	require.NoError(t, err)
	assert.Equal(t, "X", out.Document.Text)
	tracker.AssertExpectations(t)
}

func TestInvoker_Apply(t *testing.T) {
	ctx := setupTestContext(t)
	tracker := &MockTracker{}
	inv := New(Options{Store: testStore(), Tracker: tracker, Engine: engine.New(engine.WithBackend(engine.BackendRE2))})

	res, err := inv.Apply(ctx, Ruleset("cleanup"), "a \n\n\n\nb", "plaintext")
	require.NoError(t, err)
	assert.Equal(t, "a\n\nb", res.Text)
	tracker.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)

	_, err = inv.Apply(ctx, Target{Kind: 0, Name: "x"}, "", "plaintext")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid target kind")
}

func TestInvoker_RuleAndRulesetShareUsageByName(t *testing.T) {
	ctx := setupTestContext(t)

	cfg := testStore()
	cfg.Rulesets["upper-x"] = rule.Ruleset{Rules: []string{"upper-x"}}

	st, err := state.Load(ctx, filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	inv := New(Options{Store: cfg, Tracker: st})
	doc := &document.Document{Text: "x", LanguageID: "plaintext"}

	_, err = inv.RunRule(ctx, "upper-x", doc)
	require.NoError(t, err)
	_, err = inv.RunRuleset(ctx, "upper-x", doc)
	require.NoError(t, err)

	u, ok := st.Usage("upper-x")
	require.True(t, ok)
	assert.Equal(t, 2, u.Count, "usage is keyed by bare name")
}
