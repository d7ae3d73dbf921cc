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

package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/operation"
	"github.com/walteh/rewriterc/pkg/scan"
	"github.com/walteh/rewriterc/pkg/status"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// RootEnv names the environment variable that selects the root directory
const RootEnv = "REWRITERC_ROOT"

// ErrFilesFailed is returned in strict mode when at least one file failed
var ErrFilesFailed = errors.New("one or more files failed")

// 🎮 Handler holds the parsed flags of the root command
type Handler struct {
	configFile string
	extension  string
	exclude    []string
	dryRun     bool
	strict     bool
	debug      bool

	getenv func(string) (string, bool)
}

// 🏭 NewRootCmd creates the rewriterc command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(&Handler{getenv: os.LookupEnv})
}

func newRootCmd(h *Handler) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewriterc [root]",
		Short: "Rewrite author headers across a source tree",
		Long: `rewriterc walks a directory tree, replaces the author marker in every
matching file and removes the project group promotion lines. A file is
only written when its content changed.

The root is taken from the argument, then $` + RootEnv + `, then the
config file, then the current directory.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := h.setupLogging(cmd.ErrOrStderr())
			cmd.SetContext(logger.WithContext(cmd.Context()))
		},
		RunE: h.Run,
	}

	h.addFlags(cmd)
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// addFlags adds the root command flags
func (h *Handler) addFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&h.debug, "debug", "d", false, "enable debug logging")
	cmd.Flags().StringVarP(&h.configFile, "config", "c", "", "config file path (.yaml, .yml, .json, .hcl or .rewriterc)")
	cmd.Flags().StringVarP(&h.extension, "ext", "e", config.DefaultExtension, "file extension to rewrite")
	cmd.Flags().StringArrayVarP(&h.exclude, "exclude", "x", nil, "doublestar pattern to skip, relative to the root (repeatable)")
	cmd.Flags().BoolVarP(&h.dryRun, "dry-run", "n", false, "report changes without writing them")
	cmd.Flags().BoolVar(&h.strict, "strict", false, "exit with an error when any file fails")
}

// setupLogging creates the structured logger; --debug lowers the level
func (h *Handler) setupLogging(w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if h.debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// 🏃 Run resolves the options, rewrites the tree and reports the summary
func (h *Handler) Run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	cfg, err := h.resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	logger.Debug().Str("config", cfg.String()).Bool("dry_run", cfg.DryRun).Msg("configuration resolved")

	fs, root, err := scan.OpenRoot(cfg.Root)
	if err != nil {
		return errors.Errorf("opening root: %w", err)
	}

	console := log.New(cmd.OutOrStdout(), *logger)
	console.Header("rewriting " + root)
	if cfg.DryRun {
		console.Warning("dry run, no file will be written")
	}

	rewriter, err := operation.New(operation.Options{
		Files:     scan.NewWalker(fs, cfg.Extension, cfg.Exclude),
		Store:     status.NewStore(fs),
		Replacer:  text.NewRuleReplacer(),
		Rules:     cfg.Rules(),
		Console:   console,
		Extension: cfg.Extension,
		DryRun:    cfg.DryRun,
	})
	if err != nil {
		return errors.Errorf("creating rewriter: %w", err)
	}

	summary, err := rewriter.Run(ctx)
	if err != nil {
		return errors.Errorf("rewriting %s: %w", root, err)
	}

	reportOutcome(console, summary)

	if cfg.Strict && summary.FailedCount() > 0 {
		return errors.Errorf("%d of %d files: %w", summary.FailedCount(), summary.Discovered, ErrFilesFailed)
	}
	return nil
}

// reportOutcome prints a one line verdict under the summary banner
func reportOutcome(console *log.Logger, summary *status.Summary) {
	verb := "rewritten"
	if summary.DryRun {
		verb = "would be rewritten"
	}

	switch {
	case summary.FailedCount() > 0:
		console.Warningf("%d of %d files failed", summary.FailedCount(), summary.Discovered)
	case summary.ModifiedCount() == 0:
		console.Success("nothing to rewrite")
	default:
		console.Successf("%d of %d files %s", summary.ModifiedCount(), summary.Discovered, verb)
	}
}

// resolveConfig merges the config file, the environment, the flags and the
// positional argument, in increasing order of precedence
func (h *Handler) resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.Default()
	if h.configFile != "" {
		loaded, err := config.LoadConfig(cmd.Context(), h.configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("ext") {
		cfg.Extension = h.extension
	}
	cfg.Exclude = append(cfg.Exclude, h.exclude...)
	if flags.Changed("dry-run") {
		cfg.DryRun = h.dryRun
	}
	if flags.Changed("strict") {
		cfg.Strict = h.strict
	}

	if len(args) == 1 {
		cfg.Root = args[0]
	} else if root, ok := h.getenv(RootEnv); ok && root != "" {
		cfg.Root = root
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating options: %w", err)
	}
	return cfg, nil
}
