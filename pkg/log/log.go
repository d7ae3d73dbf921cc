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
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/status"
	"github.com/walteh/rewriterc/pkg/text"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	diffIndent  = 8  // spaces to indent diff lines
	nameWidth   = 35 // Base width for filename
	statusWidth = 12 // Width for status text
	bannerWidth = 50 // Width of the summary rule
)

// 🎯 Logger writes human readable progress to the console and mirrors
// every line to a structured zerolog logger
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 📝 formatFileResult formats a file result for display
func (l *Logger) formatFileResult(result status.FileResult, dryRun bool) string {
	var symbol rune
	var symbolColor color.Attribute
	label := result.Status.String()
	switch result.Status {
	case status.StatusModified:
		symbol = '✓'
		symbolColor = color.FgGreen
		if dryRun {
			symbol = '⟳'
			symbolColor = color.FgBlue
			label = "would modify"
		}
	case status.StatusFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	line := fmt.Sprintf("%s%s %s %s",
		strings.Repeat(" ", fileIndent),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, result.Path),
		fmt.Sprintf("%-*s", statusWidth, label))

	switch {
	case result.Err != nil:
		line += " " + color.New(color.FgRed).Sprint(result.Err.Error())
	case len(result.Changes) > 0:
		line += " " + color.New(color.Faint).Sprint(formatChanges(result.Changes))
	}
	return line
}

// formatChanges renders non-zero rule counts, e.g. "replace 2, strip 1"
func formatChanges(changes []text.RuleChange) string {
	parts := make([]string, 0, len(changes))
	for _, c := range changes {
		if c.Count == 0 {
			continue
		}
		parts = append(parts, c.Rule+" "+strconv.Itoa(c.Count))
	}
	return strings.Join(parts, ", ")
}

// 📝 LogFileResult logs the outcome of one file. Unchanged files only go to
// the structured log.
func (l *Logger) LogFileResult(ctx context.Context, result status.FileResult, dryRun bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	event := l.zlog.Info()
	switch result.Status {
	case status.StatusFailed:
		event = l.zlog.Error().Err(result.Err)
	case status.StatusUnchanged:
		event = l.zlog.Debug()
	}
	event.
		Str("file", result.Path).
		Str("status", result.Status.String()).
		Bool("dry_run", dryRun).
		Msg("file processed")

	if result.Status == status.StatusUnchanged {
		return
	}

	fmt.Fprintln(l.console, l.formatFileResult(result, dryRun))
	for _, d := range result.Diff {
		fmt.Fprintln(l.console, formatDiffLine(d))
	}
}

func formatDiffLine(d text.DiffLine) string {
	c := color.New(color.FgGreen)
	if d.Op == text.DiffRemoved {
		c = color.New(color.FgRed)
	}
	return strings.Repeat(" ", diffIndent) + c.Sprint(d.String())
}

// 📊 Summary prints the final banner with the run counts
func (l *Logger) Summary(ctx context.Context, summary *status.Summary) {
	l.mu.Lock()
	defer l.mu.Unlock()

	title := "rewrite complete"
	modifiedLabel := "files modified"
	if summary.DryRun {
		title = "dry run complete, nothing written"
		modifiedLabel = "files to modify"
	}

	table, err := pterm.DefaultTable.WithData(pterm.TableData{
		{"files processed", strconv.Itoa(summary.Discovered)},
		{modifiedLabel, strconv.Itoa(summary.ModifiedCount())},
		{"files failed", strconv.Itoa(summary.FailedCount())},
	}).Srender()
	if err != nil {
		table = fmt.Sprintf("files processed: %d\n%s: %d\nfiles failed: %d",
			summary.Discovered, modifiedLabel, summary.ModifiedCount(), summary.FailedCount())
	}

	rule := strings.Repeat("=", bannerWidth)
	fmt.Fprintf(l.console, "\n%s\n%s\n%s\n%s\n",
		rule,
		color.New(color.Bold, color.FgGreen).Sprint(title),
		strings.TrimRight(table, "\n"),
		rule)

	l.zlog.Info().
		Int("discovered", summary.Discovered).
		Int("modified", summary.ModifiedCount()).
		Int("failed", summary.FailedCount()).
		Bool("dry_run", summary.DryRun).
		Msg(title)
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("rewriterc")
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
