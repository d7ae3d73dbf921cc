package text

import (
	"strings"
	"unicode"

	"gitlab.com/tozd/go/errors"
)

var _ Rule = (*LineStripRule)(nil)

// LineStripRule deletes every line that, after leading whitespace, starts
// with Marker, optional whitespace, then Keyword directly followed by
// Delimiter. For example with the defaults the line
//
//	 * 加项目群：12345
//
// is removed. Both "\n" and "\r\n" terminated lines are handled.
type LineStripRule struct {
	Marker    string
	Keyword   string
	Delimiter string
}

// NewLineStripRule creates a new LineStripRule
func NewLineStripRule(marker, keyword, delimiter string) *LineStripRule {
	return &LineStripRule{Marker: marker, Keyword: keyword, Delimiter: delimiter}
}

// Name implements Rule.Name
func (r *LineStripRule) Name() string {
	return "strip"
}

// Matches reports whether a single line (without its terminator) should be deleted
func (r *LineStripRule) Matches(line string) bool {
	if r.Marker == "" || r.Keyword == "" {
		return false
	}
	rest, ok := strings.CutPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), r.Marker)
	if !ok {
		return false
	}
	return strings.HasPrefix(strings.TrimLeftFunc(rest, unicode.IsSpace), r.Keyword+r.Delimiter)
}

// Apply implements Rule.Apply
//
// A deleted line takes one terminator with it so no blank line is left
// behind: its own, or the previous line's when it is the last, unterminated
// line of the content. Kept lines are written back byte for byte.
//
// A match on the first line is removed as well, together with its own
// terminator. Matching does not require a preceding line break, unlike a
// pattern anchored on "\n", and that difference is intended.
func (r *LineStripRule) Apply(content string) (string, int) {
	if r.Marker == "" || r.Keyword == "" || !strings.Contains(content, r.Keyword) {
		return content, 0
	}

	var (
		out     strings.Builder
		removed int
		pending string // terminator of the last kept line, not yet written
	)
	out.Grow(len(content))

	for rest := content; rest != ""; {
		line, term := nextLine(rest)
		rest = rest[len(line)+len(term):]

		if r.Matches(line) {
			removed++
			if term == "" {
				pending = ""
			}
			continue
		}

		out.WriteString(pending)
		out.WriteString(line)
		pending = term
	}
	out.WriteString(pending)

	if removed == 0 {
		return content, 0
	}
	return out.String(), removed
}

// Validate implements Rule.Validate
func (r *LineStripRule) Validate() error {
	if r.Marker == "" {
		return errors.Errorf("strip: marker is required")
	}
	if r.Keyword == "" {
		return errors.Errorf("strip: keyword is required")
	}
	return nil
}

// nextLine splits the first line off s, returning its content and its
// terminator ("\n", "\r\n" or "" for an unterminated final line)
func nextLine(s string) (string, string) {
	idx := strings.IndexByte(s, '\n')
	if idx < 0 {
		return s, ""
	}
	if idx > 0 && s[idx-1] == '\r' {
		return s[:idx-1], "\r\n"
	}
	return s[:idx], "\n"
}
