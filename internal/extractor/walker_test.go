package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/docstrings/internal/syntax"
)

// Test Plan for Walk:
// - Only module, class and function nodes are materialized, in source order
// - Children of non-declarations are not visited
// - Docstring line is EndLine minus the literal's extra lines
// - Declarations without docstring keep their own line
// - Empty docstrings count as absent
// - Malformed docstrings keep the text and leave Parsed nil
// - Functions carry a signature and arguments; classes and modules do not
// - Positional-only parameters appear in the signature but not in arguments
// - Walking the same tree twice gives equal results

func str(line int, raw, text string) *syntax.Node {
	return &syntax.Node{
		Kind:    syntax.KindString,
		Line:    line,
		EndLine: line + countLines(raw) - 1,
		Raw:     raw,
		Text:    text,
	}
}

func countLines(s string) int {
	n := 1
	for _, r := range s {
		if r == '\n' {
			n++
		}
	}
	return n
}

func fn(name string, line int, params *syntax.Params, body ...*syntax.Node) *syntax.Node {
	return &syntax.Node{Kind: syntax.KindFunction, Name: name, Line: line, Params: params, Body: body}
}

func class(name string, line int, body ...*syntax.Node) *syntax.Node {
	return &syntax.Node{Kind: syntax.KindClass, Name: name, Line: line, Body: body}
}

func other(line int, body ...*syntax.Node) *syntax.Node {
	return &syntax.Node{Kind: syntax.KindOther, Line: line, Body: body}
}

func sampleModule() *syntax.Node {
	return &syntax.Node{
		Kind: syntax.KindModule,
		Line: 1,
		Body: []*syntax.Node{
			str(1, `"""Utilities."""`, "Utilities."),
			other(3),
			class("Stack", 5,
				str(6, "\"\"\"A stack.\n\n    Backed by a list.\n    \"\"\"", "A stack.\n\n    Backed by a list.\n    "),
				fn("push", 11, &syntax.Params{
					Args: []syntax.Param{{Name: "self", Position: 100}, {Name: "item", TypeName: "int", Annotation: "int", Position: 106}},
				}, str(12, `"""Push an item."""`, "Push an item.")),
			),
			other(20, fn("hidden", 21, &syntax.Params{})),
			fn("main", 30, &syntax.Params{}),
		},
	}
}

func TestWalk_Structure(t *testing.T) {
	t.Parallel()

	tree := Walk(context.Background(), sampleModule())
	require.NotNil(t, tree)

	assert.Equal(t, KindModule, tree.Kind)
	assert.Equal(t, "Utilities.", tree.Docstring)
	require.Len(t, tree.Children, 2)

	stack := tree.Children[0]
	assert.Equal(t, KindClass, stack.Kind)
	assert.Equal(t, "Stack", stack.Name)
	assert.Equal(t, 6, stack.Line)
	assert.Equal(t, "A stack.\n\nBacked by a list.", stack.Docstring)
	require.NotNil(t, stack.Parsed)
	assert.Equal(t, "A stack.", stack.Parsed.Description.Short)
	assert.Equal(t, "Backed by a list.", stack.Parsed.Description.Long)
	assert.Empty(t, stack.Signature)
	assert.Nil(t, stack.Arguments)

	require.Len(t, stack.Children, 1)
	push := stack.Children[0]
	assert.Equal(t, KindFunction, push.Kind)
	assert.Equal(t, 12, push.Line)
	assert.Equal(t, "(self, item)", push.Signature)
	assert.Equal(t, []Argument{{Name: "self"}, {Name: "item", Type: "int"}}, push.Arguments)
	assert.Empty(t, push.Children)

	main := tree.Children[1]
	assert.Equal(t, "main", main.Name)
	assert.Equal(t, 30, main.Line)
	assert.Empty(t, main.Docstring)
	assert.Nil(t, main.Parsed)
	assert.Empty(t, main.Signature)
}

func TestWalk_SkipsNonDeclarations(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Walk(context.Background(), other(1)))
	assert.Nil(t, Walk(context.Background(), str(1, `"x"`, "x")))
	assert.Nil(t, Walk(context.Background(), nil))
}

func TestWalk_DocstringLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lit  *syntax.Node
		want int
	}{
		{
			name: "single line",
			lit:  &syntax.Node{Kind: syntax.KindString, EndLine: 4, Raw: `"""One."""`, Text: "One."},
			want: 4,
		},
		{
			name: "three lines",
			lit:  &syntax.Node{Kind: syntax.KindString, EndLine: 10, Raw: "\"\"\"One.\n\nTwo.\"\"\"", Text: "One.\n\nTwo."},
			want: 8,
		},
		{
			name: "escaped newline does not count",
			lit:  &syntax.Node{Kind: syntax.KindString, EndLine: 7, Raw: `"One.\nTwo."`, Text: "One.\nTwo."},
			want: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mod := &syntax.Node{Kind: syntax.KindModule, Body: []*syntax.Node{tt.lit}}
			tree := Walk(context.Background(), mod)
			assert.Equal(t, tt.want, tree.Line)
		})
	}
}

func TestWalk_EmptyDocstring(t *testing.T) {
	t.Parallel()

	tree := Walk(context.Background(), fn("f", 3, nil, str(4, `""""""`, "")))

	assert.Equal(t, 3, tree.Line)
	assert.Empty(t, tree.Docstring)
	assert.Nil(t, tree.Parsed)
}

func TestWalk_DocstringNotFirst(t *testing.T) {
	t.Parallel()

	tree := Walk(context.Background(), fn("f", 3, nil, other(4), str(5, `"""Late."""`, "Late.")))

	assert.Equal(t, 3, tree.Line)
	assert.Empty(t, tree.Docstring)
}

func TestWalk_MalformedDocstring(t *testing.T) {
	t.Parallel()

	text := "Summary.\n\n:param x missing colon\n"
	tree := Walk(context.Background(), fn("f", 1, nil, str(2, `"""`+text+`"""`, text)))

	assert.Equal(t, "Summary.\n\n:param x missing colon", tree.Docstring)
	assert.Nil(t, tree.Parsed)
}

func TestWalk_Signature(t *testing.T) {
	t.Parallel()

	params := &syntax.Params{
		Args: []syntax.Param{
			{Name: "a", Position: 10},
			{Name: "b", Position: 13},
			{Name: "c", Position: 16},
		},
		Defaults: []syntax.Value{
			{Kind: syntax.ValueString, Text: "x", Position: 18},
		},
		Vararg: "args",
		KwOnly: []syntax.Param{{Name: "flag", Position: 30}},
		KwDefaults: []*syntax.Value{
			{Kind: syntax.ValueConstant, Text: "False", Position: 35},
		},
		Kwarg: "kwargs",
	}

	tree := Walk(context.Background(), fn("f", 1, params))

	assert.Equal(t, "(a, b, c='x', *args, flag=False, **kwargs)", tree.Signature)
	assert.Equal(t, []Argument{{Name: "a"}, {Name: "b"}, {Name: "c"}}, tree.Arguments)
}

func TestWalk_PositionalOnlyArguments(t *testing.T) {
	t.Parallel()

	params := &syntax.Params{
		Args: []syntax.Param{
			{Name: "a", Position: 6},
			{Name: "b", TypeName: "int", Position: 9},
			{Name: "c", Position: 20},
		},
		PosOnly: 2,
	}

	tree := Walk(context.Background(), fn("f", 1, params))

	assert.Equal(t, "(a, b, /, c)", tree.Signature)
	assert.Equal(t, []Argument{{Name: "c"}}, tree.Arguments)
}

func TestWalk_Idempotent(t *testing.T) {
	t.Parallel()

	mod := sampleModule()
	first := Walk(context.Background(), mod)
	second := Walk(context.Background(), mod)

	assert.Equal(t, first, second)
	assert.Equal(t, 4, first.Count())
}
