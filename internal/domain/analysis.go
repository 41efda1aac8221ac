package domain

import "github.com/getlawrence/useserver/internal/jsast"

// Position and Range locate a diagnostic or edit in a source file.
type (
	Position = jsast.Position
	Range    = jsast.Range
)

// Severity levels for diagnostics
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityOff     Severity = "off"
)

// ParseSeverity validates a severity name from config or flags.
func ParseSeverity(s string) (Severity, bool) {
	switch sev := Severity(s); sev {
	case SeverityError, SeverityWarning, SeverityInfo, SeverityOff:
		return sev, true
	}
	return "", false
}

// TextEdit replaces Range with NewText. An empty range is an insertion.
type TextEdit struct {
	Range   Range  `json:"range" yaml:"range"`
	NewText string `json:"new_text" yaml:"new_text"`
}

// Suggestion is an opt-in fix offered alongside a diagnostic.
type Suggestion struct {
	MessageID   string     `json:"message_id" yaml:"message_id"`
	Description string     `json:"description" yaml:"description"`
	Edits       []TextEdit `json:"edits" yaml:"edits"`
}

// Diagnostic represents a rule violation at a source range
type Diagnostic struct {
	RuleID      string       `json:"rule_id" yaml:"rule_id"`
	MessageID   string       `json:"message_id" yaml:"message_id"`
	Message     string       `json:"message" yaml:"message"`
	Severity    Severity     `json:"severity" yaml:"severity"`
	File        string       `json:"file,omitempty" yaml:"file,omitempty"`
	Language    string       `json:"language,omitempty" yaml:"language,omitempty"`
	Range       Range        `json:"range" yaml:"range"`
	Suggestions []Suggestion `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// Category groups rules in listings
type Category string

const (
	CategoryPossibleErrors Category = "Possible Errors"
	CategoryBestPractice   Category = "Best Practices"
)

// RuleType mirrors the kind of problem a rule reports.
type RuleType string

const (
	RuleTypeProblem    RuleType = "problem"
	RuleTypeSuggestion RuleType = "suggestion"
	RuleTypeLayout     RuleType = "layout"
)

// Languages understood by the linter
const (
	LanguageJavaScript = "javascript"
	LanguageTypeScript = "typescript"
	LanguageTSX        = "tsx"
)

// SourceFile is a file selected for linting
type SourceFile struct {
	Path     string `json:"path" yaml:"path"`
	Language string `json:"language" yaml:"language"`
}
