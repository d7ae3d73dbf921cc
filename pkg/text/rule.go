package text

import (
	"context"
	"io"
)

// Rule is a single pure text transformation
type Rule interface {
	// Name identifies the rule in logs and change counts
	Name() string

	// Apply transforms content and reports how many changes it made
	Apply(content string) (string, int)

	// Validate checks that the rule is well formed
	Validate() error
}

// RuleChange is the number of changes made by one rule
type RuleChange struct {
	Rule  string
	Count int
}

// ReplacementResult contains the results of running a rule sequence
type ReplacementResult struct {
	// WasModified indicates if the content changed
	WasModified bool

	// ReplacementCount is the total number of changes across all rules
	ReplacementCount int

	// Changes holds the per-rule counts, in rule order
	Changes []RuleChange

	// OriginalContent is the content before the rules ran
	OriginalContent []byte

	// ModifiedContent is the content after the rules ran
	ModifiedContent []byte
}

// TextReplacer defines the interface for rule application
type TextReplacer interface {
	// ReplaceText applies the rules in order to the content
	ReplaceText(ctx context.Context, content io.Reader, rules []Rule) (*ReplacementResult, error)

	// ValidateRules checks that all rules are valid
	ValidateRules(rules []Rule) error
}
