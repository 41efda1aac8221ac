package jsast

// Position is a location in a source buffer. Line and Column are 1-based,
// Offset is a 0-based byte offset.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// Range spans [Start, End) in a source buffer.
type Range struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

// FunctionKind identifies which function-defining construct a node came from.
type FunctionKind string

const (
	KindDeclaration FunctionKind = "function_declaration"
	KindExpression  FunctionKind = "function_expression"
	KindArrow       FunctionKind = "arrow_function"
	KindMethod      FunctionKind = "method_definition"
)

// FunctionNode is the capability surface shared by every function variant.
type FunctionNode interface {
	Kind() FunctionKind
	IsAsync() bool
	IsGenerator() bool
	// Name returns the function's own identifier, if it has one.
	Name() (string, bool)
	// Body returns nil for concise arrow bodies.
	Body() *BlockStatement
	Range() Range
	// InsertionPoint is where a leading modifier such as `async ` belongs.
	InsertionPoint() Position
}

type function struct {
	async     bool
	generator bool
	name      string
	body      *BlockStatement
	rng       Range
}

func (f *function) IsAsync() bool            { return f.async }
func (f *function) IsGenerator() bool        { return f.generator }
func (f *function) Body() *BlockStatement    { return f.body }
func (f *function) Range() Range             { return f.rng }
func (f *function) InsertionPoint() Position { return f.rng.Start }

func (f *function) Name() (string, bool) {
	return f.name, f.name != ""
}

// Declaration is a `function name() {}` statement, generator or not.
type Declaration struct{ function }

func (*Declaration) Kind() FunctionKind { return KindDeclaration }

// FunctionExpression is a function expression, named or anonymous.
type FunctionExpression struct{ function }

func (*FunctionExpression) Kind() FunctionKind { return KindExpression }

// Arrow is an arrow function. Its body is nil when it is a concise expression.
type Arrow struct{ function }

func (*Arrow) Kind() FunctionKind { return KindArrow }

// Method is a class or object-literal method. Modifiers must go before the
// property name, after any `static` or accessibility keyword.
type Method struct {
	function
	nameStart Position
}

func (*Method) Kind() FunctionKind { return KindMethod }

func (m *Method) InsertionPoint() Position { return m.nameStart }

// BlockStatement is a braced statement list. Comments are not statements.
type BlockStatement struct {
	Statements []Statement
}

// First returns the leading statement or nil for an empty block.
func (b *BlockStatement) First() Statement {
	if b == nil || len(b.Statements) == 0 {
		return nil
	}
	return b.Statements[0]
}

// Statement is any statement in a block.
type Statement interface {
	statementNode()
}

// ExpressionStatement wraps a single expression followed by an optional `;`.
type ExpressionStatement struct {
	Expression Expression
}

// OtherStatement stands in for statements the view does not model.
type OtherStatement struct {
	Type string
}

func (*ExpressionStatement) statementNode() {}
func (*OtherStatement) statementNode()      {}

// Expression is any expression. Only literals are modelled.
type Expression interface {
	expressionNode()
}

// StringLiteral is a single- or double-quoted string. Value is decoded.
type StringLiteral struct {
	Raw   string
	Value string
}

// TemplateLiteral is a backtick string.
type TemplateLiteral struct {
	Raw           string
	Quasis        []string
	Substitutions int
}

// StaticValue returns the cooked text of a template without substitutions.
func (t *TemplateLiteral) StaticValue() (string, bool) {
	if t.Substitutions > 0 || len(t.Quasis) != 1 {
		return "", false
	}
	return t.Quasis[0], true
}

// OtherExpression stands in for expressions the view does not model.
type OtherExpression struct {
	Type string
}

func (*StringLiteral) expressionNode()   {}
func (*TemplateLiteral) expressionNode() {}
func (*OtherExpression) expressionNode() {}

// StaticString reports the compile-time string value of e, if it has one.
func StaticString(e Expression) (string, bool) {
	switch lit := e.(type) {
	case *StringLiteral:
		return lit.Value, true
	case *TemplateLiteral:
		return lit.StaticValue()
	}
	return "", false
}

// Init carries the attributes of a function built without tree-sitter.
type Init struct {
	Async     bool
	Generator bool
	Name      string
	Body      *BlockStatement
	Range     Range
}

func (i Init) build() function {
	return function{async: i.Async, generator: i.Generator, name: i.Name, body: i.Body, rng: i.Range}
}

func NewDeclaration(i Init) *Declaration { return &Declaration{function: i.build()} }

func NewFunctionExpression(i Init) *FunctionExpression {
	return &FunctionExpression{function: i.build()}
}

// NewArrow ignores i.Name; arrows have no identifier of their own.
func NewArrow(i Init) *Arrow {
	i.Name = ""
	return &Arrow{function: i.build()}
}

func NewMethod(i Init, nameStart Position) *Method {
	return &Method{function: i.build(), nameStart: nameStart}
}
