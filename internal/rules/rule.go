package rules

import (
	"github.com/getlawrence/useserver/internal/domain"
	"github.com/getlawrence/useserver/internal/jsast"
)

// ReportFunc receives diagnostics produced by a rule. The linter fills in
// RuleID, Severity and File.
type ReportFunc func(domain.Diagnostic)

// Meta describes a rule for listings and documentation.
type Meta struct {
	Description     string          `json:"description" yaml:"description"`
	Category        domain.Category `json:"category" yaml:"category"`
	Type            domain.RuleType `json:"type" yaml:"type"`
	Recommended     bool            `json:"recommended" yaml:"recommended"`
	HasSuggestions  bool            `json:"has_suggestions" yaml:"has_suggestions"`
	URL             string          `json:"url,omitempty" yaml:"url,omitempty"`
	DefaultSeverity domain.Severity `json:"default_severity" yaml:"default_severity"`
	// Messages maps message IDs to their templates.
	Messages map[string]string `json:"messages,omitempty" yaml:"messages,omitempty"`
}

// Rule is a check run against every function in a parsed source file.
type Rule interface {
	// ID returns a unique identifier for this rule
	ID() string
	// Meta returns descriptive metadata
	Meta() Meta
	// Check inspects one function and reports any violations. It must not
	// retain fn or report after returning.
	Check(fn jsast.FunctionNode, report ReportFunc)
}
