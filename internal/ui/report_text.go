package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/getlawrence/useserver/internal/domain"
	"github.com/getlawrence/useserver/internal/linter"
)

var (
	fileStyle       = lipgloss.NewStyle().Bold(true).Underline(true)
	locationStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	ruleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	severityStyles  = map[domain.Severity]lipgloss.Style{
		domain.SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		domain.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		domain.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	}
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	okStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
)

// ReportOptions controls text rendering
type ReportOptions struct {
	// Root makes file paths relative when set.
	Root  string
	Color bool
}

// RenderReport returns diagnostics grouped by file followed by a summary.
// fixes may be nil when suggestions were not applied.
func RenderReport(result *linter.Result, fixes *linter.FixResult, opts ReportOptions) string {
	if result == nil {
		return ""
	}
	paint := func(style lipgloss.Style, s string) string {
		if !opts.Color {
			return s
		}
		return style.Render(s)
	}

	var b strings.Builder
	current := ""
	for _, d := range result.Diagnostics {
		if d.File != current {
			if current != "" {
				b.WriteString("\n")
			}
			current = d.File
			fmt.Fprintf(&b, "%s\n", paint(fileStyle, displayPath(opts.Root, d.File)))
		}
		loc := fmt.Sprintf("%d:%d", d.Range.Start.Line, d.Range.Start.Column)
		fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
			paint(locationStyle, fmt.Sprintf("%-7s", loc)),
			paint(severityStyles[d.Severity], fmt.Sprintf("%-7s", d.Severity)),
			d.Message,
			paint(ruleStyle, d.RuleID),
		)
		for _, s := range d.Suggestions {
			fmt.Fprintf(&b, "  %9s  %s\n", "", paint(suggestionStyle, "💡 "+s.Description))
		}
	}
	if len(result.Diagnostics) > 0 {
		b.WriteString("\n")
	}

	if fixes != nil {
		for _, s := range fixes.Skipped {
			fmt.Fprintf(&b, "skipped %s:%d %s (%s)\n", displayPath(opts.Root, s.File), s.Line, s.Description, s.Reason)
		}
		if len(fixes.Applied) > 0 {
			fmt.Fprintf(&b, "🔧 Applied %s\n", plural(len(fixes.Applied), "suggestion"))
		}
	}

	total := len(result.Diagnostics)
	if total == 0 {
		fmt.Fprintf(&b, "%s\n", paint(okStyle, fmt.Sprintf("✓ No problems found in %s", plural(result.Files, "file"))))
		return b.String()
	}
	summary := fmt.Sprintf("✖ %s (%s, %s, %s)",
		plural(total, "problem"),
		plural(result.Count(domain.SeverityError), "error"),
		plural(result.Count(domain.SeverityWarning), "warning"),
		plural(result.Count(domain.SeverityInfo), "info"),
	)
	style := failStyle
	if result.Count(domain.SeverityError) == 0 {
		style = severityStyles[domain.SeverityWarning].Bold(true)
	}
	fmt.Fprintf(&b, "%s\n", paint(style, summary))
	return b.String()
}

func displayPath(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
