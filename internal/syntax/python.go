package syntax

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// pythonParser parses Python source with tree-sitter.
type pythonParser struct {
	language *sitter.Language
}

// NewPythonParser creates a Parser backed by the tree-sitter Python grammar.
func NewPythonParser() Parser {
	return &pythonParser{
		language: sitter.NewLanguage(python.Language()),
	}
}

// Parse parses source into a module node. Source containing any error or
// missing node yields a *SyntaxError.
func (p *pythonParser) Parse(ctx context.Context, source []byte) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(p.language); err != nil {
		return nil, fmt.Errorf("failed to load python grammar: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse python source")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(root, source)
	}

	c := &converter{source: source}
	return c.module(root), nil
}

// syntaxError reports the first ERROR or MISSING node in document order.
func syntaxError(root *sitter.Node, source []byte) error {
	var bad *sitter.Node
	walkTree(root, func(n *sitter.Node) bool {
		if bad != nil {
			return false
		}
		if n.IsError() || n.IsMissing() {
			bad = n
			return false
		}
		return n.HasError()
	})
	if bad == nil {
		bad = root
	}

	near := strings.TrimSpace(firstLine(extractNodeText(bad, source)))
	if len(near) > 40 {
		near = near[:40]
	}
	return &SyntaxError{
		Line:   int(bad.StartPosition().Row) + 1,
		Column: int(bad.StartPosition().Column) + 1,
		Near:   near,
	}
}

// converter maps tree-sitter nodes onto Node.
type converter struct {
	source []byte
}

func (c *converter) module(root *sitter.Node) *Node {
	body := c.statements(root)
	line := 0
	if len(body) > 0 {
		line = body[0].Line
	}
	return &Node{
		Kind:    KindModule,
		Line:    line,
		EndLine: int(root.EndPosition().Row) + 1,
		Body:    body,
	}
}

// statements converts the named children of a module or block, skipping comments.
func (c *converter) statements(block *sitter.Node) []*Node {
	if block == nil {
		return nil
	}

	var out []*Node
	for i := uint(0); i < block.NamedChildCount(); i++ {
		child := block.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		out = append(out, c.statement(child))
	}
	return out
}

func (c *converter) statement(n *sitter.Node) *Node {
	switch n.Kind() {
	case "class_definition":
		return c.class(n)
	case "function_definition":
		return c.function(n)
	case "decorated_definition":
		if def := n.ChildByFieldName("definition"); def != nil {
			return c.statement(def)
		}
	case "expression_statement":
		if lit := c.stringStatement(n); lit != nil {
			return lit
		}
	}
	return c.other(n)
}

func (c *converter) other(n *sitter.Node) *Node {
	return &Node{
		Kind:    KindOther,
		Line:    int(n.StartPosition().Row) + 1,
		EndLine: int(n.EndPosition().Row) + 1,
	}
}

func (c *converter) class(n *sitter.Node) *Node {
	return &Node{
		Kind:    KindClass,
		Name:    extractNodeText(n.ChildByFieldName("name"), c.source),
		Line:    int(n.StartPosition().Row) + 1,
		EndLine: int(n.EndPosition().Row) + 1,
		Body:    c.statements(n.ChildByFieldName("body")),
	}
}

func (c *converter) function(n *sitter.Node) *Node {
	return &Node{
		Kind:    KindFunction,
		Name:    extractNodeText(n.ChildByFieldName("name"), c.source),
		Line:    int(n.StartPosition().Row) + 1,
		EndLine: int(n.EndPosition().Row) + 1,
		Body:    c.statements(n.ChildByFieldName("body")),
		Params:  c.params(n.ChildByFieldName("parameters")),
		Async:   findChildByType(n, "async") != nil,
	}
}

// stringStatement returns a KindString node when the expression statement is a
// lone str literal (implicit concatenation included).
func (c *converter) stringStatement(n *sitter.Node) *Node {
	if n.NamedChildCount() != 1 {
		return nil
	}
	expr := n.NamedChild(0)
	text, ok := c.stringValue(expr)
	if !ok {
		return nil
	}
	return &Node{
		Kind:    KindString,
		Line:    int(expr.StartPosition().Row) + 1,
		EndLine: int(expr.EndPosition().Row) + 1,
		Text:    text,
		Raw:     extractNodeText(expr, c.source),
	}
}

// stringValue decodes a string or concatenated_string node.
func (c *converter) stringValue(n *sitter.Node) (string, bool) {
	if n == nil {
		return "", false
	}

	switch n.Kind() {
	case "string":
		if findChildByType(n, "interpolation") != nil {
			return "", false
		}
		return decodeString(extractNodeText(n, c.source))
	case "concatenated_string":
		var b strings.Builder
		for _, part := range findChildrenByType(n, "string") {
			s, ok := c.stringValue(part)
			if !ok {
				return "", false
			}
			b.WriteString(s)
		}
		return b.String(), true
	}
	return "", false
}

func (c *converter) params(n *sitter.Node) *Params {
	p := &Params{}
	if n == nil {
		return p
	}

	kwOnly := false
	addArg := func(param Param, def *Value) {
		if kwOnly {
			p.KwOnly = append(p.KwOnly, param)
			p.KwDefaults = append(p.KwDefaults, def)
			return
		}
		p.Args = append(p.Args, param)
		if def != nil {
			p.Defaults = append(p.Defaults, *def)
		}
	}

	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}

		switch child.Kind() {
		case "identifier":
			addArg(c.param(child, nil), nil)
		case "typed_parameter":
			if splat := c.splatName(child); splat != "" {
				c.setSplat(p, child, &kwOnly)
				continue
			}
			addArg(c.param(firstIdentifier(child), child.ChildByFieldName("type")), nil)
		case "default_parameter":
			def := c.value(child.ChildByFieldName("value"))
			addArg(c.param(child.ChildByFieldName("name"), nil), &def)
		case "typed_default_parameter":
			def := c.value(child.ChildByFieldName("value"))
			addArg(c.param(child.ChildByFieldName("name"), child.ChildByFieldName("type")), &def)
		case "list_splat_pattern", "dictionary_splat_pattern":
			c.setSplat(p, child, &kwOnly)
		case "keyword_separator":
			kwOnly = true
		case "positional_separator":
			p.PosOnly = len(p.Args)
		}
	}
	return p
}

// setSplat records *args or **kwargs; both may be wrapped in a typed_parameter.
func (c *converter) setSplat(p *Params, n *sitter.Node, kwOnly *bool) {
	splat := n
	if n.Kind() == "typed_parameter" {
		splat = n.NamedChild(0)
	}
	name := c.splatName(splat)

	switch splat.Kind() {
	case "list_splat_pattern":
		p.Vararg = name
		*kwOnly = true
	case "dictionary_splat_pattern":
		p.Kwarg = name
	}
}

// splatName returns the identifier of a splat pattern, looking through a
// typed_parameter wrapper.
func (c *converter) splatName(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind() == "typed_parameter" {
		return c.splatName(n.NamedChild(0))
	}
	if n.Kind() != "list_splat_pattern" && n.Kind() != "dictionary_splat_pattern" {
		return ""
	}
	return extractNodeText(firstIdentifier(n), c.source)
}

func (c *converter) param(name, annotation *sitter.Node) Param {
	p := Param{
		Name:     extractNodeText(name, c.source),
		Position: nodePosition(name),
	}
	if annotation != nil {
		p.Annotation = extractNodeText(annotation, c.source)
		if annotation.NamedChildCount() == 1 && annotation.NamedChild(0).Kind() == "identifier" {
			p.TypeName = p.Annotation
		}
	}
	return p
}

func (c *converter) value(n *sitter.Node) Value {
	v := Value{
		Kind:     ValueOther,
		Text:     extractNodeText(n, c.source),
		Position: nodePosition(n),
	}
	if n == nil {
		return v
	}

	switch n.Kind() {
	case "string", "concatenated_string":
		if s, ok := c.stringValue(n); ok {
			v.Kind = ValueString
			v.Text = s
		}
	case "integer", "float":
		v.Kind = ValueNumber
	case "true", "false", "none":
		v.Kind = ValueConstant
	case "unary_operator":
		if arg := n.ChildByFieldName("argument"); arg != nil && (arg.Kind() == "integer" || arg.Kind() == "float") {
			v.Kind = ValueNumber
		}
	}
	return v
}

func nodePosition(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.StartByte())
}

func firstIdentifier(n *sitter.Node) *sitter.Node {
	return findChildByType(n, "identifier")
}
