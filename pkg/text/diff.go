package text

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffOp marks a line as removed or added
type DiffOp rune

const (
	DiffRemoved DiffOp = '-'
	DiffAdded   DiffOp = '+'
)

// DiffLine is one changed line, without its terminator
type DiffLine struct {
	Op   DiffOp
	Text string
}

func (l DiffLine) String() string {
	return string(l.Op) + " " + l.Text
}

// LineDiff returns the removed and added lines between before and after.
// Unchanged lines are omitted.
func LineDiff(before, after string) []DiffLine {
	if before == after {
		return nil
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []DiffLine
	for _, d := range diffs {
		var op DiffOp
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = DiffRemoved
		case diffmatchpatch.DiffInsert:
			op = DiffAdded
		default:
			continue
		}
		for _, line := range splitLines(d.Text) {
			out = append(out, DiffLine{Op: op, Text: line})
		}
	}
	return out
}

func splitLines(s string) []string {
	var lines []string
	for rest := s; rest != ""; {
		line, term := nextLine(rest)
		rest = rest[len(line)+len(term):]
		lines = append(lines, strings.TrimSuffix(line, "\r"))
	}
	return lines
}
