// Package operation drives a rewrite run: discover files, apply the rules,
// persist changes and report a summary
package operation

import (
	"context"
	"iter"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/scan"
	"github.com/walteh/rewriterc/pkg/status"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔍 FileSource enumerates the files to process
type FileSource interface {
	Files(ctx context.Context) iter.Seq2[string, error]
}

// 🔧 Options contains everything a Rewriter needs
type Options struct {
	// Files lists the candidate files, relative to the root
	Files FileSource
	// Store reads and writes the files
	Store status.FileStore
	// Replacer applies the rules
	Replacer text.TextReplacer
	// Rules is the ordered rule sequence
	Rules []text.Rule
	// Console receives the human readable report
	Console *log.Logger
	// Extension is only used for reporting
	Extension string
	// DryRun computes changes without writing them
	DryRun bool
}

// 🎮 Rewriter implements a single rewrite run
type Rewriter struct {
	files     FileSource
	store     status.FileStore
	replacer  text.TextReplacer
	rules     []text.Rule
	console   *log.Logger
	extension string
	dryRun    bool
}

// 🏭 New creates a new rewriter with the given options
func New(opts Options) (*Rewriter, error) {
	if opts.Files == nil {
		return nil, errors.Errorf("file source is required")
	}
	if opts.Store == nil {
		return nil, errors.Errorf("store is required")
	}
	if opts.Replacer == nil {
		return nil, errors.Errorf("replacer is required")
	}
	if opts.Console == nil {
		return nil, errors.Errorf("console logger is required")
	}
	if err := opts.Replacer.ValidateRules(opts.Rules); err != nil {
		return nil, errors.Errorf("validating rules: %w", err)
	}
	return &Rewriter{
		files:     opts.Files,
		store:     opts.Store,
		replacer:  opts.Replacer,
		rules:     opts.Rules,
		console:   opts.Console,
		extension: opts.Extension,
		dryRun:    opts.DryRun,
	}, nil
}

// 🏃 Run processes every discovered file and returns the summary. Per-file
// failures are part of the summary; only a root enumeration failure is
// returned as error, before any file is touched.
func (r *Rewriter) Run(ctx context.Context) (*status.Summary, error) {
	logger := zerolog.Ctx(ctx)

	var (
		files    []string
		failures []status.FileResult
	)
	for path, err := range r.files.Files(ctx) {
		if err != nil {
			if errors.Is(err, scan.ErrRoot) {
				return nil, errors.Errorf("listing files: %w", err)
			}
			failures = append(failures, status.Failed(path, err))
			continue
		}
		files = append(files, path)
	}

	logger.Debug().Int("files", len(files)).Int("walk_failures", len(failures)).Msg("discovery complete")
	r.console.Infof("found %d %s files", len(files), r.extension)
	r.console.LogNewline()

	summary := status.NewSummary(len(files), r.dryRun)
	for _, failure := range failures {
		summary.Record(failure)
		r.console.LogFileResult(ctx, failure, r.dryRun)
	}

	for _, path := range files {
		result := r.ProcessFile(ctx, path)
		summary.Record(result)
		r.console.LogFileResult(ctx, result, r.dryRun)
	}

	r.console.Summary(ctx, summary)
	return summary, nil
}

// 📄 ProcessFile runs the rules over one file and writes it back when its
// content changed
func (r *Rewriter) ProcessFile(ctx context.Context, path string) status.FileResult {
	result, err := r.transform(ctx, path)
	if err != nil {
		return status.Failed(path, errors.Errorf("reading %s: %w", path, err))
	}

	if !result.WasModified {
		return status.Unchanged(path)
	}

	modified := status.Modified(path, result.Changes)
	if r.dryRun {
		modified.Diff = text.LineDiff(string(result.OriginalContent), string(result.ModifiedContent))
		return modified
	}

	if err := r.store.WriteFile(ctx, path, result.ModifiedContent); err != nil {
		return status.Failed(path, errors.Errorf("writing %s: %w", path, err))
	}

	return modified
}

// transform reads the file and applies the rules; the file is closed
// before returning
func (r *Rewriter) transform(ctx context.Context, path string) (*text.ReplacementResult, error) {
	rc, err := r.store.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return r.replacer.ReplaceText(ctx, rc, r.rules)
}
