package linter

import (
	"context"
	"errors"
	"fmt"

	"github.com/getlawrence/useserver/internal/domain"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// ErrUnsupportedLanguage is returned for languages without a grammar.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Parser maps linter languages to tree-sitter grammars. A sitter.Parser is
// not safe for concurrent use, so one is created per call.
type Parser struct {
	languages map[string]*sitter.Language
}

// NewParser creates a parser for JavaScript, TypeScript and TSX
func NewParser() *Parser {
	return &Parser{
		languages: map[string]*sitter.Language{
			domain.LanguageJavaScript: javascript.GetLanguage(),
			domain.LanguageTypeScript: typescript.GetLanguage(),
			domain.LanguageTSX:        tsx.GetLanguage(),
		},
	}
}

// Supports reports whether a grammar is registered for lang.
func (p *Parser) Supports(lang string) bool {
	_, ok := p.languages[lang]
	return ok
}

// Parse parses src. The caller must Close the returned tree.
func (p *Parser) Parse(ctx context.Context, lang string, src []byte) (*sitter.Tree, error) {
	grammar, ok := p.languages[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s source: %w", lang, err)
	}
	return tree, nil
}
