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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/regexrules/pkg/engine"
	"github.com/walteh/regexrules/pkg/invoke"
	"github.com/walteh/regexrules/pkg/operation"
	"github.com/walteh/regexrules/pkg/status"
	"gitlab.com/tozd/go/errors"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "outcome_changed",
			op: func(t *testing.T, logger *Logger) {
				logger.Outcome(invoke.Rule("strip"), &invoke.Outcome{
					Results:      []*engine.Result{{Replacements: 3}},
					Replacements: 3,
					Changed:      true,
				})
			},
			wantLogs: []string{"✅ rule strip replaced 3 matches"},
		},
		{
			name: "outcome_unchanged",
			op: func(t *testing.T, logger *Logger) {
				logger.Outcome(invoke.Ruleset("cleanup"), &invoke.Outcome{})
			},
			wantLogs: []string{"👍 ruleset cleanup made no changes"},
		},
		{
			name: "failure_not_applicable",
			op: func(t *testing.T, logger *Logger) {
				logger.Failure(&engine.Error{
					Kind:       engine.KindNotApplicable,
					Rule:       "py",
					LanguageID: "go",
					Languages:  []string{"python"},
				})
			},
			wantLogs: []string{`⚠️  rule "py" does not apply to language "go" (applies to: python)`},
		},
		{
			name: "failure_other",
			op: func(t *testing.T, logger *Logger) {
				logger.Failure(errors.Errorf("wrapped: %w", &engine.Error{Kind: engine.KindUnknownRule, Rule: "x"}))
			},
			wantLogs: []string{`❌ wrapped: unknown rule "x"`},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("applying cleanup")
			},
			wantLogs: []string{
				"regexrules • applying cleanup",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.New(zerolog.TestWriter{T: t}))

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLogger_Report(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	buf := &bytes.Buffer{}
	logger := New(buf, zerolog.New(zerolog.TestWriter{T: t}))

	logger.Report(invoke.Ruleset("cleanup"), &operation.Report{Files: []status.FileInfo{
		{Path: "a.md", LanguageID: "markdown", Status: status.StatusModified, Replacements: 2, DryRun: true},
		{Path: "b.go", LanguageID: "go", Status: status.StatusSkipped, DryRun: true},
	}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "regexrules • ruleset cleanup previewed", lines[0])
	assert.Empty(t, lines[1])
	assert.Contains(t, lines[2], "⟳ a.md")
	assert.Contains(t, lines[2], "2 replacements")
	assert.Contains(t, lines[3], "- b.go")
	assert.Equal(t, "✅ ruleset cleanup: would modify 1 of 2 files (1 skipped, 2 replacements)", lines[4])
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.Nop())

	ctx := NewContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx), "logger from context should be the same instance")

	fallback := FromContext(context.Background())
	require.NotNil(t, fallback)
	assert.NotSame(t, logger, fallback)
}
