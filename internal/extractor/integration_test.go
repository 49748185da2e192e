package extractor

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/docstrings/internal/syntax"
)

// Test Plan for extraction with the tree-sitter parser:
// - Every class and function in the fixture appears exactly once, in order
// - Docstring lines point at the first line of the literal
// - Tags land in parameters, attributes or returns
// - Signatures and arguments come from the real parameter lists
// - A malformed docstring degrades to raw text only
// - Files without docstrings still produce their declarations
// - Invalid Python is a syntax error
// - CRLF line endings do not leak carriage returns into docstrings
// - Positional-only and keyword-only parameters are left out of arguments

const fixtures = "../../testdata/code/python/"

func TestExtractFile_Shapes(t *testing.T) {
	t.Parallel()

	tree, err := New().ExtractFile(context.Background(), fixtures+"shapes.py", "")
	require.NoError(t, err)

	assert.Equal(t, KindModule, tree.Kind)
	assert.Equal(t, "shapes", tree.Name)
	assert.Equal(t, 1, tree.Line)
	require.NotNil(t, tree.Parsed)
	assert.Equal(t, "Geometric shapes.", tree.Parsed.Description.Short)
	assert.Equal(t, "Simple value types used by the examples.", tree.Parsed.Description.Long)

	var names []string
	var lines []int
	var visit func(n *Node)
	visit = func(n *Node) {
		for _, c := range n.Children {
			names = append(names, c.Name)
			lines = append(lines, c.Line)
			visit(c)
		}
	}
	visit(tree)

	assert.Equal(t, []string{"Shape", "area", "Circle", "__init__", "area", "scale", "points", "broken"}, names)
	assert.Equal(t, []int{10, 17, 26, 29, 37, 42, 51, 59}, lines)

	shape := tree.Children[0]
	require.NotNil(t, shape.Parsed)
	assert.Equal(t, "Base class for shapes.", shape.Parsed.Description.Short)
	assert.Empty(t, shape.Parsed.Params)
	require.Len(t, shape.Parsed.Attributes, 2)
	assert.Equal(t, "name", shape.Parsed.Attributes[0].Name)
	assert.Equal(t, "sides", shape.Parsed.Attributes[1].Name)
	assert.Equal(t, "int", shape.Parsed.Attributes[1].TypeName)

	area := shape.Children[0]
	require.NotNil(t, area.Parsed)
	require.NotNil(t, area.Parsed.Returns)
	assert.Equal(t, "float", area.Parsed.Returns.TypeName)
	assert.Equal(t, "The area in square units.", area.Parsed.Returns.Description)
	assert.Equal(t, "(self)", area.Signature)

	ctor := tree.Children[1].Children[0]
	assert.Equal(t, "(self, radius, name='circle')", ctor.Signature)
	assert.Equal(t, []Argument{{Name: "self"}, {Name: "radius", Type: "float"}, {Name: "name"}}, ctor.Arguments)
	require.NotNil(t, ctor.Parsed)
	require.Len(t, ctor.Parsed.Params, 2)
	assert.Equal(t, "float", ctor.Parsed.Params[0].TypeName)
	assert.Equal(t, "circle", ctor.Parsed.Params[1].Default)

	undocumented := tree.Children[1].Children[1]
	assert.Empty(t, undocumented.Docstring)
	assert.Nil(t, undocumented.Parsed)

	scale := tree.Children[2]
	assert.Equal(t, "(shape, factor=2, *others, inplace=False, **options)", scale.Signature)
	require.NotNil(t, scale.Parsed)
	assert.Equal(t, "Scale a shape by a factor. Returns a new shape unless inplace is set.", scale.Parsed.Description.Short)
	assert.Empty(t, scale.Parsed.Description.Long)
	require.Len(t, scale.Parsed.Params, 2)
	assert.True(t, scale.Parsed.Params[1].IsOptional)

	points := tree.Children[3]
	require.NotNil(t, points.Parsed)
	require.NotNil(t, points.Parsed.Returns)
	assert.True(t, points.Parsed.Returns.IsGenerator)

	broken := tree.Children[4]
	assert.Nil(t, broken.Parsed)
	assert.Contains(t, broken.Docstring, ":param x missing the closing colon")
}

func TestExtractFile_NoDocstrings(t *testing.T) {
	t.Parallel()

	tree, err := New().ExtractFile(context.Background(), fixtures+"plain.py", "")
	require.NoError(t, err)

	assert.Equal(t, "plain", tree.Name)
	assert.Equal(t, 1, tree.Line)
	assert.Empty(t, tree.Docstring)
	assert.Nil(t, tree.Parsed)

	require.Len(t, tree.Children, 1)
	assert.Equal(t, "untouched", tree.Children[0].Name)
	assert.Equal(t, 6, tree.Children[0].Line)
	assert.Empty(t, tree.Children[0].Signature)
}

func TestExtractFile_Invalid(t *testing.T) {
	t.Parallel()

	_, err := New().ExtractFile(context.Background(), fixtures+"invalid.py", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, syntax.ErrSyntax))
}

func TestExtractSource_Idempotent(t *testing.T) {
	t.Parallel()

	source, err := os.ReadFile(fixtures + "shapes.py")
	require.NoError(t, err)

	e := New()
	first, err := e.ExtractSource(context.Background(), source, "shapes")
	require.NoError(t, err)
	second, err := e.ExtractSource(context.Background(), source, "shapes")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExtractSource_CRLFLineEndings(t *testing.T) {
	t.Parallel()

	src := "class Stack:\r\n    \"\"\"A stack.\r\n\r\n    Backed by a list.\r\n    \"\"\"\r\n"
	tree, err := New().ExtractSource(context.Background(), []byte(src), "stack")
	require.NoError(t, err)

	require.Len(t, tree.Children, 1)
	stack := tree.Children[0]
	assert.Equal(t, 2, stack.Line)
	assert.Equal(t, "A stack.\n\nBacked by a list.", stack.Docstring)
	require.NotNil(t, stack.Parsed)
	assert.Equal(t, "A stack.", stack.Parsed.Description.Short)
	assert.Equal(t, "Backed by a list.", stack.Parsed.Description.Long)
}

func TestExtractSource_PositionalOnlyArguments(t *testing.T) {
	t.Parallel()

	tree, err := New().ExtractSource(context.Background(), []byte("def f(a, /, b: int, *, c=1):\n    pass\n"), "")
	require.NoError(t, err)

	require.Len(t, tree.Children, 1)
	f := tree.Children[0]
	assert.Equal(t, "(a, /, b, *, c=1)", f.Signature)
	assert.Equal(t, []Argument{{Name: "b", Type: "int"}}, f.Arguments)
}
