package text

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

var _ Rule = (*LiteralRule)(nil)

// LiteralRule replaces every occurrence of From with To
type LiteralRule struct {
	From string
	To   string
}

// NewLiteralRule creates a new LiteralRule
func NewLiteralRule(from, to string) *LiteralRule {
	return &LiteralRule{From: from, To: to}
}

// Name implements Rule.Name
func (r *LiteralRule) Name() string {
	return "replace"
}

// Apply implements Rule.Apply
func (r *LiteralRule) Apply(content string) (string, int) {
	if r.From == "" {
		return content, 0
	}
	count := strings.Count(content, r.From)
	if count == 0 {
		return content, 0
	}
	return strings.ReplaceAll(content, r.From, r.To), count
}

// Validate implements Rule.Validate
func (r *LiteralRule) Validate() error {
	if r.From == "" {
		return errors.Errorf("replace: from is required")
	}
	// a replacement that contains its own marker never reaches a fixed point
	if strings.Contains(r.To, r.From) {
		return errors.Errorf("replace: to %q must not contain from %q", r.To, r.From)
	}
	return nil
}
