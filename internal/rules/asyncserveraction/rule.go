// Package asyncserveraction flags functions carrying the "use server"
// directive that are not declared async, and suggests adding the keyword.
package asyncserveraction

import (
	"strings"

	"github.com/getlawrence/useserver/internal/domain"
	"github.com/getlawrence/useserver/internal/jsast"
	"github.com/getlawrence/useserver/internal/rules"
)

const (
	RuleID = "async-server-action"

	// Directive is the statement that marks a function as a Server Action.
	Directive = "use server"

	MessageAsyncServerAction = "asyncServerAction"
	MessageSuggestAsync      = "suggestAsync"

	anonymousName = "this function"
	asyncKeyword  = "async "
	docsURL       = "https://github.com/getlawrence/useserver/blob/main/docs/rules/async-server-action.md"
)

var messages = map[string]string{
	MessageAsyncServerAction: "Server Actions must be async",
	MessageSuggestAsync:      "Make {{functionName}} async",
}

// Rule requires Server Actions to be async.
type Rule struct{}

// New creates the rule
func New() *Rule {
	return &Rule{}
}

func (r *Rule) ID() string {
	return RuleID
}

func (r *Rule) Meta() rules.Meta {
	return rules.Meta{
		Description:     "Require functions with the `use server` directive to be async",
		Category:        domain.CategoryPossibleErrors,
		Type:            domain.RuleTypeSuggestion,
		HasSuggestions:  true,
		URL:             docsURL,
		DefaultSeverity: domain.SeverityError,
		Messages:        messages,
	}
}

func (r *Rule) Check(fn jsast.FunctionNode, report rules.ReportFunc) {
	if Matches(fn) {
		report(Report(fn))
	}
}

// Matches reports whether fn is a synchronous, non-generator function whose
// body opens with the "use server" directive.
func Matches(fn jsast.FunctionNode) bool {
	if fn == nil || fn.IsAsync() || fn.IsGenerator() {
		return false
	}
	stmt, ok := fn.Body().First().(*jsast.ExpressionStatement)
	if !ok || stmt.Expression == nil {
		return false
	}
	value, ok := jsast.StaticString(stmt.Expression)
	return ok && value == Directive
}

// Report builds the diagnostic for a function accepted by Matches.
func Report(fn jsast.FunctionNode) domain.Diagnostic {
	at := fn.InsertionPoint()
	return domain.Diagnostic{
		RuleID:    RuleID,
		MessageID: MessageAsyncServerAction,
		Message:   messages[MessageAsyncServerAction],
		Range:     fn.Range(),
		Suggestions: []domain.Suggestion{{
			MessageID:   MessageSuggestAsync,
			Description: render(messages[MessageSuggestAsync], displayName(fn)),
			Edits: []domain.TextEdit{{
				Range:   domain.Range{Start: at, End: at},
				NewText: asyncKeyword,
			}},
		}},
	}
}

// displayName uses the function's own identifier only. The variable a
// function is assigned to is not consulted.
func displayName(fn jsast.FunctionNode) string {
	if name, ok := fn.Name(); ok {
		return "`" + name + "`"
	}
	return anonymousName
}

func render(template, functionName string) string {
	return strings.ReplaceAll(template, "{{functionName}}", functionName)
}
