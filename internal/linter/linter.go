package linter

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"

	"github.com/getlawrence/useserver/internal/domain"
	"github.com/getlawrence/useserver/internal/jsast"
	"github.com/getlawrence/useserver/internal/logger"
	"github.com/getlawrence/useserver/internal/rules"
	"github.com/getlawrence/useserver/internal/rules/asyncserveraction"
	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/sync/errgroup"
)

// DefaultRules returns a registry holding every built-in rule.
func DefaultRules() *rules.Registry {
	r := rules.NewRegistry()
	r.MustRegister(asyncserveraction.New())
	return r
}

// Options configures a Linter
type Options struct {
	// Severities overrides rule default severities by rule ID.
	Severities map[string]domain.Severity
	// Workers bounds parallel file linting. Zero means GOMAXPROCS.
	Workers int
	Logger  logger.Logger
}

// Result aggregates diagnostics from a lint run
type Result struct {
	Files       int                 `json:"files" yaml:"files"`
	Diagnostics []domain.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	// Checksums holds the digest of each linted file's content, keyed by path.
	Checksums map[string]uint64 `json:"-" yaml:"-"`
}

// Count returns the number of diagnostics at the given severity.
func (r *Result) Count(sev domain.Severity) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

type enabledRule struct {
	rule     rules.Rule
	severity domain.Severity
}

// Linter runs enabled rules over every function of a source file.
type Linter struct {
	parser  *Parser
	rules   []enabledRule
	workers int
	logger  logger.Logger
}

// New creates a linter for the rules in registry that are not turned off.
func New(registry *rules.Registry, opts Options) *Linter {
	l := &Linter{
		parser:  NewParser(),
		workers: opts.Workers,
		logger:  opts.Logger,
	}
	if l.workers <= 0 {
		l.workers = runtime.GOMAXPROCS(0)
	}
	if l.logger == nil {
		l.logger = logger.Discard
	}
	for _, rule := range registry.All() {
		sev := rule.Meta().DefaultSeverity
		if override, ok := opts.Severities[rule.ID()]; ok {
			sev = override
		}
		if sev == domain.SeverityOff {
			continue
		}
		l.rules = append(l.rules, enabledRule{rule: rule, severity: sev})
	}
	return l
}

// Rules returns the IDs of enabled rules
func (l *Linter) Rules() []string {
	ids := make([]string, 0, len(l.rules))
	for _, er := range l.rules {
		ids = append(ids, er.rule.ID())
	}
	return ids
}

// LintSource lints one in-memory source buffer.
func (l *Linter) LintSource(ctx context.Context, path, lang string, src []byte) ([]domain.Diagnostic, error) {
	tree, err := l.parser.Parse(ctx, lang, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var diagnostics []domain.Diagnostic
	err = walkFunctions(ctx, tree.RootNode(), src, func(fn jsast.FunctionNode) {
		for _, er := range l.rules {
			er.rule.Check(fn, func(d domain.Diagnostic) {
				d.RuleID = er.rule.ID()
				d.Severity = er.severity
				d.File = path
				d.Language = lang
				diagnostics = append(diagnostics, d)
			})
		}
	})
	if err != nil {
		return nil, err
	}

	sortDiagnostics(diagnostics)
	return diagnostics, nil
}

// LintFiles lints files in parallel. Files in languages without a grammar
// are skipped. Output order does not depend on scheduling.
func (l *Linter) LintFiles(ctx context.Context, files []domain.SourceFile) (*Result, error) {
	files = l.supported(files)
	results := make([][]domain.Diagnostic, len(files))
	checksums := make([]uint64, len(files))
	if len(files) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(min(l.workers, len(files)))

		for i, file := range files {
			i, file := i, file
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				src, err := os.ReadFile(file.Path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", file.Path, err)
				}
				checksums[i] = Checksum(src)
				diagnostics, err := l.LintSource(gctx, file.Path, file.Language, src)
				if err != nil {
					return fmt.Errorf("failed to lint %s: %w", file.Path, err)
				}
				if len(diagnostics) > 0 {
					l.logger.Logf("%s: %d problem(s)\n", file.Path, len(diagnostics))
				}
				results[i] = diagnostics
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	result := &Result{Files: len(files), Checksums: make(map[string]uint64, len(files))}
	for i, diagnostics := range results {
		result.Diagnostics = append(result.Diagnostics, diagnostics...)
		result.Checksums[files[i].Path] = checksums[i]
	}
	sortDiagnostics(result.Diagnostics)
	return result, nil
}

// supported drops files whose language has no grammar.
func (l *Linter) supported(files []domain.SourceFile) []domain.SourceFile {
	out := make([]domain.SourceFile, 0, len(files))
	for _, f := range files {
		if !l.parser.Supports(f.Language) {
			l.logger.Logf("%s: skipped, unsupported language %q\n", f.Path, f.Language)
			continue
		}
		out = append(out, f)
	}
	return out
}

// walkFunctions visits nodes depth-first in source order and calls visit for
// every function node.
func walkFunctions(ctx context.Context, root *sitter.Node, src []byte, visit func(jsast.FunctionNode)) error {
	if root == nil {
		return nil
	}
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if jsast.IsFunctionType(n.Type()) {
			if err := ctx.Err(); err != nil {
				return err
			}
			if fn, ok := jsast.FromNode(n, src); ok {
				visit(fn)
			}
		}
		for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, n.NamedChild(i))
		}
	}
	return nil
}

func sortDiagnostics(diagnostics []domain.Diagnostic) {
	sort.SliceStable(diagnostics, func(i, j int) bool {
		a, b := diagnostics[i], diagnostics[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Range.Start.Offset != b.Range.Start.Offset {
			return a.Range.Start.Offset < b.Range.Start.Offset
		}
		return a.RuleID < b.RuleID
	})
}
