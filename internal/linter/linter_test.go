package linter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/getlawrence/useserver/internal/domain"
	"github.com/getlawrence/useserver/internal/jsast"
	"github.com/getlawrence/useserver/internal/rules"
)

const action = "function save(data) {\n  'use server';\n}\n"

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingLogger) Logf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, format)
}

func (r *recordingLogger) Log(msg string) { r.Logf(msg) }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultRules(t *testing.T) {
	all := DefaultRules().All()
	if len(all) != 1 || all[0].ID() != "async-server-action" {
		t.Fatalf("unexpected default rules: %v", all)
	}
}

func TestLintSource_StampsDiagnostics(t *testing.T) {
	l := New(DefaultRules(), Options{})
	diagnostics, err := l.LintSource(context.Background(), "app/actions.js", domain.LanguageJavaScript, []byte(action))
	if err != nil {
		t.Fatalf("LintSource failed: %v", err)
	}
	if len(diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diagnostics))
	}
	d := diagnostics[0]
	if d.File != "app/actions.js" || d.Language != domain.LanguageJavaScript {
		t.Fatalf("file/language not stamped: %+v", d)
	}
	if d.RuleID != "async-server-action" || d.Severity != domain.SeverityError {
		t.Fatalf("rule/severity not stamped: %+v", d)
	}
}

func TestLintSource_SeverityOverrides(t *testing.T) {
	l := New(DefaultRules(), Options{Severities: map[string]domain.Severity{"async-server-action": domain.SeverityWarning}})
	diagnostics, err := l.LintSource(context.Background(), "a.js", domain.LanguageJavaScript, []byte(action))
	if err != nil {
		t.Fatalf("LintSource failed: %v", err)
	}
	if len(diagnostics) != 1 || diagnostics[0].Severity != domain.SeverityWarning {
		t.Fatalf("expected warning, got %+v", diagnostics)
	}

	off := New(DefaultRules(), Options{Severities: map[string]domain.Severity{"async-server-action": domain.SeverityOff}})
	if len(off.Rules()) != 0 {
		t.Fatalf("rule should be disabled, got %v", off.Rules())
	}
	diagnostics, err = off.LintSource(context.Background(), "a.js", domain.LanguageJavaScript, []byte(action))
	if err != nil {
		t.Fatalf("LintSource failed: %v", err)
	}
	if len(diagnostics) != 0 {
		t.Fatalf("disabled rule reported: %+v", diagnostics)
	}
}

func TestLintSource_UnsupportedLanguage(t *testing.T) {
	l := New(DefaultRules(), Options{})
	_, err := l.LintSource(context.Background(), "main.py", "python", []byte("def f(): pass"))
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
}

func TestLintSource_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := New(DefaultRules(), Options{})
	if _, err := l.LintSource(ctx, "a.js", domain.LanguageJavaScript, []byte(action)); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}

func TestLintSource_SyntaxErrorsAreTolerated(t *testing.T) {
	src := "function save() {\n  'use server';\n}\nconst broken = ;\n"
	l := New(DefaultRules(), Options{})
	diagnostics, err := l.LintSource(context.Background(), "a.js", domain.LanguageJavaScript, []byte(src))
	if err != nil {
		t.Fatalf("LintSource failed: %v", err)
	}
	if len(diagnostics) != 1 {
		t.Fatalf("expected the valid function to be checked, got %d diagnostics", len(diagnostics))
	}
}

// countingRule reports every function it sees so traversal can be observed.
type countingRule struct{}

func (countingRule) ID() string { return "count" }
func (countingRule) Meta() rules.Meta {
	return rules.Meta{DefaultSeverity: domain.SeverityInfo}
}
func (countingRule) Check(fn jsast.FunctionNode, report rules.ReportFunc) {
	report(domain.Diagnostic{Message: string(fn.Kind()), Range: fn.Range()})
}

func TestLintSource_VisitsEveryFunction(t *testing.T) {
	registry := rules.NewRegistry()
	registry.MustRegister(countingRule{})
	l := New(registry, Options{})

	src := `
function a() {
  const b = () => {
    return function c() {};
  };
}
class D { e() {} get f() { return 1; } }
const g = { h() {}, i: async function* () {} };
`
	diagnostics, err := l.LintSource(context.Background(), "a.js", domain.LanguageJavaScript, []byte(src))
	if err != nil {
		t.Fatalf("LintSource failed: %v", err)
	}
	want := []string{"function_declaration", "arrow_function", "function_expression", "method_definition", "method_definition", "function_expression"}
	if len(diagnostics) != len(want) {
		t.Fatalf("expected %d functions, got %d: %+v", len(want), len(diagnostics), diagnostics)
	}
	for i, d := range diagnostics {
		if d.Message != want[i] {
			t.Errorf("function %d: kind %s, want %s", i, d.Message, want[i])
		}
		if i > 0 && diagnostics[i-1].Range.Start.Offset > d.Range.Start.Offset {
			t.Errorf("diagnostics not in source order")
		}
	}
}

func TestRegistry_Duplicate(t *testing.T) {
	registry := DefaultRules()
	for _, r := range registry.All() {
		if err := registry.Register(r); !errors.Is(err, rules.ErrDuplicateRule) {
			t.Fatalf("expected ErrDuplicateRule, got %v", err)
		}
	}
	if _, ok := registry.Get("async-server-action"); !ok {
		t.Fatalf("expected rule lookup to succeed")
	}
}

func TestLintFiles(t *testing.T) {
	dir := t.TempDir()
	files := []domain.SourceFile{
		{Path: writeFile(t, dir, "b/actions.ts", "export function b(d: FormData) {\n  'use server';\n}\n"), Language: domain.LanguageTypeScript},
		{Path: writeFile(t, dir, "a/actions.js", action+action), Language: domain.LanguageJavaScript},
		{Path: writeFile(t, dir, "c/page.tsx", "export default function Page() {\n  return <div />;\n}\n"), Language: domain.LanguageTSX},
	}

	log := &recordingLogger{}
	l := New(DefaultRules(), Options{Workers: 2, Logger: log})
	result, err := l.LintFiles(context.Background(), files)
	if err != nil {
		t.Fatalf("LintFiles failed: %v", err)
	}
	if result.Files != 3 {
		t.Fatalf("expected 3 files, got %d", result.Files)
	}
	if len(result.Diagnostics) != 3 || result.Count(domain.SeverityError) != 3 {
		t.Fatalf("expected 3 error diagnostics, got %+v", result.Diagnostics)
	}
	if result.Diagnostics[0].File != files[1].Path || result.Diagnostics[2].File != files[0].Path {
		t.Fatalf("diagnostics not sorted by file: %+v", result.Diagnostics)
	}
	if len(log.lines) != 2 {
		t.Fatalf("expected a log line per file with problems, got %v", log.lines)
	}
}

func TestLintFiles_MissingFile(t *testing.T) {
	l := New(DefaultRules(), Options{})
	_, err := l.LintFiles(context.Background(), []domain.SourceFile{{Path: filepath.Join(t.TempDir(), "gone.js"), Language: domain.LanguageJavaScript}})
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLintFiles_Empty(t *testing.T) {
	l := New(DefaultRules(), Options{})
	result, err := l.LintFiles(context.Background(), nil)
	if err != nil {
		t.Fatalf("LintFiles failed: %v", err)
	}
	if result.Files != 0 || len(result.Diagnostics) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestLintFiles_SkipsUnsupportedLanguages(t *testing.T) {
	dir := t.TempDir()
	files := []domain.SourceFile{
		{Path: writeFile(t, dir, "actions.js", action), Language: domain.LanguageJavaScript},
		{Path: writeFile(t, dir, "script.py", "def save():\n    pass\n"), Language: "python"},
	}

	log := &recordingLogger{}
	l := New(DefaultRules(), Options{Logger: log})
	result, err := l.LintFiles(context.Background(), files)
	if err != nil {
		t.Fatalf("unsupported files should be skipped, got %v", err)
	}
	if result.Files != 1 || len(result.Diagnostics) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if _, ok := result.Checksums[files[1].Path]; ok {
		t.Fatalf("skipped file should have no checksum")
	}
	if !l.parser.Supports(domain.LanguageTSX) || l.parser.Supports("python") {
		t.Fatalf("Supports mismatch")
	}
	if len(log.lines) != 2 {
		t.Fatalf("expected a skip line and a problem line, got %v", log.lines)
	}
}
