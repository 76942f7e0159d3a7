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
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/regexrules/pkg/engine"
	"github.com/walteh/regexrules/pkg/invoke"
	"github.com/walteh/regexrules/pkg/operation"
	"github.com/walteh/regexrules/pkg/status"
)

// 🎯 Logger writes user facing lines to the console and mirrors them to zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a logger printing to console
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, falling back to stderr
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return logger
	}
	return New(os.Stderr, *zerolog.Ctx(ctx))
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 Outcome reports a finished invocation
func (l *Logger) Outcome(target invoke.Target, out *invoke.Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()

	name := color.New(color.Bold).Sprint(target.Name)
	if !out.Changed {
		fmt.Fprintf(l.console, "👍 %s %s %s\n", target.Kind, name, color.New(color.Faint).Sprint("made no changes"))
	} else {
		fmt.Fprintf(l.console, "✅ %s %s %s\n", target.Kind, name,
			color.New(color.FgGreen).Sprintf("replaced %d %s", out.Replacements, plural(out.Replacements, "match", "matches")))
	}

	var skipped []string
	for _, r := range out.Results {
		skipped = append(skipped, r.Skipped...)
	}

	l.zlog.Info().
		Str("target", target.String()).
		Bool("changed", out.Changed).
		Int("replacements", out.Replacements).
		Int("ranges", len(out.Results)).
		Strs("skipped", skipped).
		Msg("invocation finished")
}

// 📝 Failure reports a command error. A rule that does not apply to the
// document is a warning, anything else an error.
func (l *Logger) Failure(err error) {
	if kind, ok := engine.KindOf(err); ok && kind == engine.KindNotApplicable {
		l.Warning(err.Error())
		return
	}
	l.Error(err.Error())
}

// 📝 LogFile prints one file outcome of a batch
func (l *Logger) LogFile(info status.FileInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, status.FormatFileLine(info))

	event := l.zlog.Debug()
	if info.Error != nil && info.Status == status.StatusFailed {
		event = l.zlog.Error().Err(info.Error)
	}
	event.
		Str("file", info.Path).
		Str("language", info.LanguageID).
		Str("status", info.Status.String()).
		Int("replacements", info.Replacements).
		Bool("dry_run", info.DryRun).
		Msg("file processed")
}

// 📝 Report prints a header, every file of a batch and a summary line
func (l *Logger) Report(target invoke.Target, report *operation.Report) {
	verb, action := "modified", "applied"
	for _, f := range report.Files {
		if f.DryRun {
			verb, action = "would modify", "previewed"
			break
		}
	}

	l.Header(fmt.Sprintf("%s %s", target, action))
	for _, f := range report.Files {
		l.LogFile(f)
	}

	modified := report.Count(status.StatusModified)

	l.Successf("%s: %s %d of %d %s (%d skipped, %d %s)",
		target, verb, modified, len(report.Files), plural(len(report.Files), "file", "files"),
		report.Count(status.StatusSkipped),
		report.Replacements(), plural(report.Replacements(), "replacement", "replacements"))
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("regexrules")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
