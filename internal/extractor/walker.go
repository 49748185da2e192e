package extractor

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mvp-joe/docstrings/internal/docstring"
	"github.com/mvp-joe/docstrings/internal/signature"
	"github.com/mvp-joe/docstrings/internal/syntax"
)

// Walk converts a syntax tree into a declaration tree. Only modules, classes
// and functions are materialized; Walk returns nil for any other node.
//
// A docstring that fails to parse leaves Parsed nil and is logged at debug
// level; it never stops the walk.
func Walk(ctx context.Context, n *syntax.Node) *Node {
	if n == nil {
		return nil
	}

	var kind Kind
	switch n.Kind {
	case syntax.KindModule:
		kind = KindModule
	case syntax.KindClass:
		kind = KindClass
	case syntax.KindFunction:
		kind = KindFunction
	default:
		return nil
	}

	out := &Node{
		Kind:     kind,
		Name:     n.Name,
		Line:     n.Line,
		Children: []*Node{},
	}

	// An empty literal counts as no docstring.
	if doc := docstringOf(n); doc != nil && strings.TrimSpace(doc.Text) != "" {
		out.Line = docstringLine(doc)
		out.Docstring = docstring.CleanDoc(doc.Text)

		parsed, err := docstring.Parse(doc.Text)
		if err != nil {
			slog.DebugContext(ctx, "docstring not parsed",
				"kind", kind.String(), "name", n.Name, "line", out.Line, "error", err)
		} else {
			out.Parsed = parsed
		}
	}

	if kind == KindFunction {
		out.Signature, out.Arguments = describeParams(n.Params)
	}

	for _, stmt := range n.Body {
		if stmt.Kind != syntax.KindClass && stmt.Kind != syntax.KindFunction {
			continue
		}
		if child := Walk(ctx, stmt); child != nil {
			out.Children = append(out.Children, child)
		}
	}

	return out
}

// docstringOf returns the leading string statement of a body, if any.
func docstringOf(n *syntax.Node) *syntax.Node {
	if len(n.Body) == 0 || n.Body[0].Kind != syntax.KindString {
		return nil
	}
	return n.Body[0]
}

// docstringLine is the first physical line of a string literal that ends on
// EndLine and spans K lines: EndLine - K + 1.
func docstringLine(lit *syntax.Node) int {
	return lit.EndLine - strings.Count(lit.Raw, "\n")
}

func describeParams(p *syntax.Params) (string, []Argument) {
	if p == nil {
		return "", nil
	}

	params := signature.Params{
		PosOnly: p.PosOnly,
		Vararg:  p.Vararg,
		Kwarg:   p.Kwarg,
	}

	var arguments []Argument
	for i, a := range p.Args {
		params.Args = append(params.Args, signature.Arg{Name: a.Name, Position: a.Position})
		// Positional-only parameters are rendered in the signature only.
		if i >= p.PosOnly {
			arguments = append(arguments, Argument{Name: a.Name, Type: a.TypeName})
		}
	}
	for _, d := range p.Defaults {
		params.Defaults = append(params.Defaults, signature.Default{
			Position: d.Position,
			Value:    literal(d),
		})
	}
	for i, kw := range p.KwOnly {
		arg := signature.KwArg{Name: kw.Name}
		if i < len(p.KwDefaults) && p.KwDefaults[i] != nil {
			lit := literal(*p.KwDefaults[i])
			arg.Default = &lit
		}
		params.KwOnly = append(params.KwOnly, arg)
	}

	return signature.Build(params), arguments
}

func literal(v syntax.Value) signature.Literal {
	var kind signature.LiteralKind
	switch v.Kind {
	case syntax.ValueString:
		kind = signature.LiteralString
	case syntax.ValueNumber:
		kind = signature.LiteralNumber
	case syntax.ValueConstant:
		kind = signature.LiteralConstant
	default:
		kind = signature.LiteralOther
	}
	return signature.Literal{Kind: kind, Text: v.Text}
}
