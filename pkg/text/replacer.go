package text

import (
	"context"
	"io"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalidEncoding is returned for content that is not valid UTF-8
var ErrInvalidEncoding = errors.New("content is not valid UTF-8")

var _ TextReplacer = (*RuleReplacer)(nil)

// RuleReplacer implements TextReplacer by running each rule over the output of the previous one
type RuleReplacer struct{}

// NewRuleReplacer creates a new RuleReplacer
func NewRuleReplacer() *RuleReplacer {
	return &RuleReplacer{}
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *RuleReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []Rule) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	if !utf8.Valid(originalContent) {
		return nil, errors.WithStack(ErrInvalidEncoding)
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
	}

	logger := zerolog.Ctx(ctx)
	currentContent := string(originalContent)
	for _, rule := range rules {
		newContent, count := rule.Apply(currentContent)
		if count > 0 {
			logger.Trace().Str("rule", rule.Name()).Int("count", count).Msg("rule applied")
		}
		result.Changes = append(result.Changes, RuleChange{Rule: rule.Name(), Count: count})
		result.ReplacementCount += count
		currentContent = newContent
	}

	// counts alone are not enough, a rule may rewrite text to itself
	if currentContent != string(originalContent) {
		result.WasModified = true
		result.ModifiedContent = []byte(currentContent)
	}

	return result, nil
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *RuleReplacer) ValidateRules(rules []Rule) error {
	if len(rules) == 0 {
		return errors.Errorf("at least one rule is required")
	}
	for i, rule := range rules {
		if rule == nil {
			return errors.Errorf("rule %d is nil", i)
		}
		if err := rule.Validate(); err != nil {
			return errors.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}
