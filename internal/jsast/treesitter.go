package jsast

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Tree-sitter node types for the JavaScript, TypeScript and TSX grammars.
const (
	nodeFunctionDeclaration  = "function_declaration"
	nodeGeneratorDeclaration = "generator_function_declaration"
	nodeFunction             = "function"
	nodeFunctionExpression   = "function_expression"
	nodeGeneratorFunction    = "generator_function"
	nodeArrowFunction        = "arrow_function"
	nodeMethodDefinition     = "method_definition"
	nodeStatementBlock       = "statement_block"
	nodeExpressionStatement  = "expression_statement"
	nodeParenthesized        = "parenthesized_expression"
	nodeString               = "string"
	nodeTemplateString       = "template_string"
	nodeTemplateSubstitution = "template_substitution"
	nodeComment              = "comment"
	nodeHTMLComment          = "html_comment"
	nodeIdentifier           = "identifier"
	nodePropertyIdentifier   = "property_identifier"
	nodePrivateProperty      = "private_property_identifier"
)

// IsFunctionType reports whether a tree-sitter node type defines a function.
func IsFunctionType(nodeType string) bool {
	switch nodeType {
	case nodeFunctionDeclaration, nodeGeneratorDeclaration,
		nodeFunction, nodeFunctionExpression, nodeGeneratorFunction,
		nodeArrowFunction, nodeMethodDefinition:
		return true
	}
	return false
}

// FromNode builds the function view of a tree-sitter node. It returns false
// for nodes that are not functions, for accessors and for nodes missing the
// structure a function needs.
func FromNode(n *sitter.Node, src []byte) (FunctionNode, bool) {
	if n == nil || !n.IsNamed() || n.IsMissing() {
		return nil, false
	}

	switch n.Type() {
	case nodeFunctionDeclaration, nodeGeneratorDeclaration:
		return &Declaration{function: buildFunction(n, src)}, true
	case nodeFunction, nodeFunctionExpression, nodeGeneratorFunction:
		return &FunctionExpression{function: buildFunction(n, src)}, true
	case nodeArrowFunction:
		fn := buildFunction(n, src)
		fn.name = ""
		return &Arrow{function: fn}, true
	case nodeMethodDefinition:
		return methodFromNode(n, src)
	}
	return nil, false
}

func methodFromNode(n *sitter.Node, src []byte) (FunctionNode, bool) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.IsNamed() {
			continue
		}
		if t := child.Type(); t == "get" || t == "set" {
			return nil, false
		}
	}
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return nil, false
	}
	fn := buildFunction(n, src)
	fn.name = propertyName(nameNode, src)
	return &Method{function: fn, nameStart: startOf(nameNode)}, true
}

func buildFunction(n *sitter.Node, src []byte) function {
	fn := function{
		generator: n.Type() == nodeGeneratorDeclaration || n.Type() == nodeGeneratorFunction,
		rng:       Range{Start: startOf(n), End: endOf(n)},
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.IsNamed() {
			continue
		}
		switch child.Type() {
		case "async":
			fn.async = true
		case "*":
			fn.generator = true
		}
	}
	if name := n.ChildByFieldName("name"); name != nil && name.Type() == nodeIdentifier {
		fn.name = name.Content(src)
	}
	if body := n.ChildByFieldName("body"); body != nil && body.Type() == nodeStatementBlock {
		fn.body = buildBlock(body, src)
	}
	return fn
}

func buildBlock(n *sitter.Node, src []byte) *BlockStatement {
	block := &BlockStatement{}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if isComment(child) {
			continue
		}
		block.Statements = append(block.Statements, buildStatement(child, src))
	}
	return block
}

func buildStatement(n *sitter.Node, src []byte) Statement {
	if n.Type() != nodeExpressionStatement {
		return &OtherStatement{Type: n.Type()}
	}
	expr := firstNamed(n)
	if expr == nil {
		return &OtherStatement{Type: n.Type()}
	}
	return &ExpressionStatement{Expression: buildExpression(expr, src)}
}

func buildExpression(n *sitter.Node, src []byte) Expression {
	for n.Type() == nodeParenthesized {
		inner := firstNamed(n)
		if inner == nil {
			return &OtherExpression{Type: n.Type()}
		}
		n = inner
	}

	switch n.Type() {
	case nodeString:
		raw := n.Content(src)
		return &StringLiteral{Raw: raw, Value: unquote(raw)}
	case nodeTemplateString:
		return buildTemplate(n, src)
	}
	return &OtherExpression{Type: n.Type()}
}

func buildTemplate(n *sitter.Node, src []byte) *TemplateLiteral {
	tpl := &TemplateLiteral{Raw: n.Content(src)}
	start, end := int(n.StartByte())+1, int(n.EndByte())-1
	if end < start {
		end = start
	}
	pos := start
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != nodeTemplateSubstitution {
			continue
		}
		tpl.Quasis = append(tpl.Quasis, decodeEscapes(string(src[pos:int(child.StartByte())])))
		tpl.Substitutions++
		pos = int(child.EndByte())
	}
	if pos > end {
		pos = end
	}
	tpl.Quasis = append(tpl.Quasis, decodeEscapes(string(src[pos:end])))
	return tpl
}

func propertyName(n *sitter.Node, src []byte) string {
	switch n.Type() {
	case nodePropertyIdentifier, nodePrivateProperty, nodeIdentifier:
		return n.Content(src)
	case nodeString:
		return unquote(n.Content(src))
	}
	return ""
}

func firstNamed(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if !isComment(child) {
			return child
		}
	}
	return nil
}

func isComment(n *sitter.Node) bool {
	return n.Type() == nodeComment || n.Type() == nodeHTMLComment
}

func startOf(n *sitter.Node) Position {
	p := n.StartPoint()
	return Position{Offset: int(n.StartByte()), Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

func endOf(n *sitter.Node) Position {
	p := n.EndPoint()
	return Position{Offset: int(n.EndByte()), Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}
