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

package status

import (
	"github.com/walteh/rewriterc/pkg/text"
)

// 📊 FileStatus is the final state of a processed file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusUnchanged            // Rules left the content as is
	StatusModified             // Content changed and was written (or would be, in a dry run)
	StatusFailed               // Reading, decoding or writing failed
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusModified:
		return "modified"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 FileResult is the outcome of processing one file
type FileResult struct {
	Path    string            // Path relative to the root
	Status  FileStatus        // Final state
	Err     error             // Cause, set when Status is StatusFailed
	Changes []text.RuleChange // Per-rule change counts
	Diff    []text.DiffLine   // Changed lines, only filled for dry runs
}

// Unchanged creates an unchanged result
func Unchanged(path string) FileResult {
	return FileResult{Path: path, Status: StatusUnchanged}
}

// Modified creates a modified result
func Modified(path string, changes []text.RuleChange) FileResult {
	return FileResult{Path: path, Status: StatusModified, Changes: changes}
}

// Failed creates a failed result
func Failed(path string, err error) FileResult {
	return FileResult{Path: path, Status: StatusFailed, Err: err}
}

// 📈 Summary aggregates the results of one run
type Summary struct {
	Discovered int
	Unchanged  int
	Modified   []string
	Failed     []FileResult
	DryRun     bool
}

// NewSummary creates an empty summary for a run over discovered files
func NewSummary(discovered int, dryRun bool) *Summary {
	return &Summary{Discovered: discovered, DryRun: dryRun}
}

// Record adds a file result to the summary
func (s *Summary) Record(result FileResult) {
	switch result.Status {
	case StatusModified:
		s.Modified = append(s.Modified, result.Path)
	case StatusFailed:
		s.Failed = append(s.Failed, result)
	default:
		s.Unchanged++
	}
}

// ModifiedCount returns the number of modified files
func (s *Summary) ModifiedCount() int {
	return len(s.Modified)
}

// FailedCount returns the number of failed paths
func (s *Summary) FailedCount() int {
	return len(s.Failed)
}

// Succeeded returns the number of files processed without error
func (s *Summary) Succeeded() int {
	return s.Unchanged + len(s.Modified)
}
