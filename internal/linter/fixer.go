package linter

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/getlawrence/useserver/internal/domain"
)

var (
	// ErrOverlappingEdits is returned when two edits touch the same text.
	ErrOverlappingEdits = errors.New("overlapping edits")
	// ErrEditOutOfRange is returned when an edit lies outside the source.
	ErrEditOutOfRange = errors.New("edit out of range")
)

// AppliedSuggestion records a suggestion written back to disk
type AppliedSuggestion struct {
	File        string `json:"file" yaml:"file"`
	Line        int    `json:"line" yaml:"line"`
	Description string `json:"description" yaml:"description"`
}

// SkippedSuggestion records a suggestion that was not applied and why
type SkippedSuggestion struct {
	File        string `json:"file" yaml:"file"`
	Line        int    `json:"line" yaml:"line"`
	Description string `json:"description" yaml:"description"`
	Reason      string `json:"reason" yaml:"reason"`
}

// FixResult summarises an ApplySuggestions run
type FixResult struct {
	Applied []AppliedSuggestion `json:"applied" yaml:"applied"`
	Skipped []SkippedSuggestion `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// ApplyEdits returns src with edits applied. Edits are positioned against
// the original src and must not overlap.
func ApplyEdits(src []byte, edits []domain.TextEdit) ([]byte, error) {
	sorted := make([]domain.TextEdit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Range.Start.Offset < sorted[j].Range.Start.Offset
	})

	for i, e := range sorted {
		start, end := e.Range.Start.Offset, e.Range.End.Offset
		if start < 0 || end < start || end > len(src) {
			return nil, fmt.Errorf("%w: [%d,%d) in %d bytes", ErrEditOutOfRange, start, end, len(src))
		}
		if i > 0 && overlaps(sorted[i-1], e) {
			return nil, fmt.Errorf("%w at offset %d", ErrOverlappingEdits, start)
		}
	}

	out := make([]byte, 0, len(src)+editGrowth(sorted))
	pos := 0
	for _, e := range sorted {
		out = append(out, src[pos:e.Range.Start.Offset]...)
		out = append(out, e.NewText...)
		pos = e.Range.End.Offset
	}
	out = append(out, src[pos:]...)
	return out, nil
}

// Checksum returns the digest ApplySuggestions compares against the file on
// disk before rewriting it.
func Checksum(src []byte) uint64 {
	return xxhash.Sum64(src)
}

// ApplySuggestions applies the first suggestion of every diagnostic and
// writes the changed files back. Suggestions whose edits conflict with one
// already accepted for the same file are skipped. When checksums holds an
// entry for a file (see Result.Checksums) and the content on disk no longer
// matches it, every suggestion for that file is skipped.
func ApplySuggestions(diagnostics []domain.Diagnostic, checksums map[string]uint64) (*FixResult, error) {
	result := &FixResult{}

	byFile := make(map[string][]domain.Diagnostic)
	var files []string
	for _, d := range diagnostics {
		if len(d.Suggestions) == 0 || d.File == "" {
			continue
		}
		if _, seen := byFile[d.File]; !seen {
			files = append(files, d.File)
		}
		byFile[d.File] = append(byFile[d.File], d)
	}
	sort.Strings(files)

	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			return result, fmt.Errorf("failed to stat %s: %w", file, err)
		}
		src, err := os.ReadFile(file)
		if err != nil {
			return result, fmt.Errorf("failed to read %s: %w", file, err)
		}
		if want, ok := checksums[file]; ok && Checksum(src) != want {
			for _, d := range byFile[file] {
				result.Skipped = append(result.Skipped, SkippedSuggestion{
					File:        file,
					Line:        d.Range.Start.Line,
					Description: d.Suggestions[0].Description,
					Reason:      "file changed since it was linted",
				})
			}
			continue
		}

		var accepted []domain.TextEdit
		var applied []AppliedSuggestion
		for _, d := range byFile[file] {
			s := d.Suggestions[0]
			candidate := append(append([]domain.TextEdit{}, accepted...), s.Edits...)
			if hasOverlap(candidate) {
				result.Skipped = append(result.Skipped, SkippedSuggestion{
					File:        file,
					Line:        d.Range.Start.Line,
					Description: s.Description,
					Reason:      "conflicts with another suggestion",
				})
				continue
			}
			accepted = candidate
			applied = append(applied, AppliedSuggestion{File: file, Line: d.Range.Start.Line, Description: s.Description})
		}
		if len(accepted) == 0 {
			continue
		}

		out, err := ApplyEdits(src, accepted)
		if err != nil {
			return result, fmt.Errorf("failed to apply edits to %s: %w", file, err)
		}
		if err := os.WriteFile(file, out, info.Mode().Perm()); err != nil {
			return result, fmt.Errorf("failed to write %s: %w", file, err)
		}
		result.Applied = append(result.Applied, applied...)
	}
	return result, nil
}

func hasOverlap(edits []domain.TextEdit) bool {
	sorted := make([]domain.TextEdit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Range.Start.Offset < sorted[j].Range.Start.Offset
	})
	for i := 1; i < len(sorted); i++ {
		if overlaps(sorted[i-1], sorted[i]) {
			return true
		}
	}
	return false
}

// overlaps expects a.Start <= b.Start. Two insertions at the same offset
// count as overlapping since their order would be ambiguous.
func overlaps(a, b domain.TextEdit) bool {
	if b.Range.Start.Offset < a.Range.End.Offset {
		return true
	}
	return a.Range.Start.Offset == b.Range.Start.Offset
}

func editGrowth(edits []domain.TextEdit) int {
	n := 0
	for _, e := range edits {
		n += len(e.NewText)
	}
	return n
}
