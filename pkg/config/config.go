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

package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📌 Defaults used when a value is not configured
const (
	DefaultRoot           = "."
	DefaultExtension      = ".java"
	DefaultReplaceFrom    = "作者：马丁"
	DefaultReplaceTo      = "作者：杨潇"
	DefaultStripMarker    = "*"
	DefaultStripKeyword   = "加项目群"
	DefaultStripDelimiter = "："
)

// 🔄 ReplaceArgs configures the literal author replacement
type ReplaceArgs struct {
	From string `json:"from" yaml:"from" hcl:"from"`
	To   string `json:"to" yaml:"to" hcl:"to"`
}

// ✂️ StripArgs configures the comment line deletion
type StripArgs struct {
	Marker    string `json:"marker,omitempty" yaml:"marker,omitempty" hcl:"marker,optional"`
	Keyword   string `json:"keyword,omitempty" yaml:"keyword,omitempty" hcl:"keyword,optional"`
	Delimiter string `json:"delimiter,omitempty" yaml:"delimiter,omitempty" hcl:"delimiter,optional"`
}

// 📚 Config represents the complete configuration of a run
type Config struct {
	Root      string       `json:"root,omitempty" yaml:"root,omitempty" hcl:"root,optional"`
	Extension string       `json:"extension,omitempty" yaml:"extension,omitempty" hcl:"extension,optional"`
	Exclude   []string     `json:"exclude,omitempty" yaml:"exclude,omitempty" hcl:"exclude,optional"`
	Replace   *ReplaceArgs `json:"replace,omitempty" yaml:"replace,omitempty" hcl:"replace,block"`
	Strip     *StripArgs   `json:"strip,omitempty" yaml:"strip,omitempty" hcl:"strip,block"`
	DryRun    bool         `json:"dry_run,omitempty" yaml:"dry_run,omitempty" hcl:"dry_run,optional"`
	Strict    bool         `json:"strict,omitempty" yaml:"strict,omitempty" hcl:"strict,optional"`
}

// 🏭 Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// 🧩 SetDefaults fills every unset value with its default
func (cfg *Config) SetDefaults() {
	if cfg.Root == "" {
		cfg.Root = DefaultRoot
	}
	if cfg.Extension == "" {
		cfg.Extension = DefaultExtension
	}
	if cfg.Replace == nil {
		cfg.Replace = &ReplaceArgs{From: DefaultReplaceFrom, To: DefaultReplaceTo}
	}
	if cfg.Strip == nil {
		cfg.Strip = &StripArgs{Keyword: DefaultStripKeyword}
	}
	if cfg.Strip.Marker == "" {
		cfg.Strip.Marker = DefaultStripMarker
	}
	if cfg.Strip.Keyword == "" {
		cfg.Strip.Keyword = DefaultStripKeyword
	}
	if cfg.Strip.Delimiter == "" {
		cfg.Strip.Delimiter = DefaultStripDelimiter
	}
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if cfg.Root == "" {
		return errors.Errorf("root is required")
	}
	if cfg.Extension == "" {
		return errors.Errorf("extension is required")
	}
	if strings.ContainsAny(cfg.Extension, `/\`) {
		return errors.Errorf("extension %q must not contain a path separator", cfg.Extension)
	}
	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("exclude pattern %q is invalid", pattern)
		}
	}
	if cfg.Replace == nil {
		return errors.Errorf("replace is required")
	}
	if cfg.Strip == nil {
		return errors.Errorf("strip is required")
	}
	for _, rule := range cfg.Rules() {
		if err := rule.Validate(); err != nil {
			return err
		}
	}

	cfg.Root = filepath.Clean(cfg.Root)
	return nil
}

// 📜 Rules returns the fixed rule sequence: replacement first, then line deletion
func (cfg *Config) Rules() []text.Rule {
	return []text.Rule{
		text.NewLiteralRule(cfg.Replace.From, cfg.Replace.To),
		text.NewLineStripRule(cfg.Strip.Marker, cfg.Strip.Keyword, cfg.Strip.Delimiter),
	}
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s/**/*%s [%s -> %s, strip %s %s%s]",
		cfg.Root, cfg.Extension, cfg.Replace.From, cfg.Replace.To,
		cfg.Strip.Marker, cfg.Strip.Keyword, cfg.Strip.Delimiter)
}
