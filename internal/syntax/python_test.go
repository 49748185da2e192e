package syntax

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the tree-sitter Python parser:
// - Module, class and function statements map to their kinds in source order
// - Decorated definitions are unwrapped to the class/function they decorate
// - A lone string expression becomes KindString with decoded text and line span
// - f-strings, bytes and non-string expressions stay KindOther
// - Comments are skipped
// - Parameters: plain, typed, defaults, *args, **kwargs, "/" and bare "*"
// - Default values are classified as string, number, constant or other
// - Async functions are flagged
// - Broken source yields *SyntaxError wrapping ErrSyntax
// - Cancelled context aborts before parsing

func parse(t *testing.T, src string) *Node {
	t.Helper()

	node, err := NewPythonParser().Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	require.NotNil(t, node)
	return node
}

func TestPythonParser_Structure(t *testing.T) {
	t.Parallel()

	src := `"""Module doc."""

import os

# a comment
class Greeter:
    """Says hello."""

    def greet(self, name):
        return "hi " + name

@decorator
def helper():
    pass

x = 1
`
	mod := parse(t, src)

	assert.Equal(t, KindModule, mod.Kind)
	assert.Equal(t, 1, mod.Line)

	kinds := make([]Kind, len(mod.Body))
	for i, n := range mod.Body {
		kinds[i] = n.Kind
	}
	assert.Equal(t, []Kind{KindString, KindOther, KindClass, KindFunction, KindOther}, kinds)

	doc := mod.Body[0]
	assert.Equal(t, "Module doc.", doc.Text)
	assert.Equal(t, `"""Module doc."""`, doc.Raw)
	assert.Equal(t, 1, doc.Line)
	assert.Equal(t, 1, doc.EndLine)

	class := mod.Body[2]
	assert.Equal(t, "Greeter", class.Name)
	assert.Equal(t, 6, class.Line)
	require.Len(t, class.Body, 2)
	assert.Equal(t, KindString, class.Body[0].Kind)
	assert.Equal(t, "Says hello.", class.Body[0].Text)
	assert.Equal(t, KindFunction, class.Body[1].Kind)
	assert.Equal(t, "greet", class.Body[1].Name)
	assert.Equal(t, 9, class.Body[1].Line)

	helper := mod.Body[3]
	assert.Equal(t, "helper", helper.Name)
	assert.Equal(t, 13, helper.Line, "line of the def, not the decorator")
}

func TestPythonParser_MultiLineDocstring(t *testing.T) {
	t.Parallel()

	src := `def f():
    """First line.

    Second paragraph.
    """
    return 1
`
	mod := parse(t, src)
	require.Len(t, mod.Body, 1)

	fn := mod.Body[0]
	require.NotEmpty(t, fn.Body)
	doc := fn.Body[0]
	assert.Equal(t, KindString, doc.Kind)
	assert.Equal(t, 2, doc.Line)
	assert.Equal(t, 5, doc.EndLine)
	assert.Equal(t, "First line.\n\n    Second paragraph.\n    ", doc.Text)
}

func TestPythonParser_CRLFDocstring(t *testing.T) {
	t.Parallel()

	src := "def f():\r\n    \"\"\"First line.\r\n\r\n    Second paragraph.\r\n    \"\"\"\r\n    return 1\r\n"
	mod := parse(t, src)
	require.Len(t, mod.Body, 1)

	fn := mod.Body[0]
	require.NotEmpty(t, fn.Body)
	doc := fn.Body[0]
	assert.Equal(t, KindString, doc.Kind)
	assert.Equal(t, 2, doc.Line)
	assert.Equal(t, 5, doc.EndLine)
	assert.Equal(t, "First line.\n\n    Second paragraph.\n    ", doc.Text)
}

func TestPythonParser_NonDocstringExpressions(t *testing.T) {
	t.Parallel()

	src := `def a():
    f"value {x}"

def b():
    b"raw bytes"

def c():
    42

def d():
    "implicit" " concatenation"
`
	mod := parse(t, src)
	require.Len(t, mod.Body, 4)

	assert.Equal(t, KindOther, mod.Body[0].Body[0].Kind)
	assert.Equal(t, KindOther, mod.Body[1].Body[0].Kind)
	assert.Equal(t, KindOther, mod.Body[2].Body[0].Kind)

	concat := mod.Body[3].Body[0]
	assert.Equal(t, KindString, concat.Kind)
	assert.Equal(t, "implicit concatenation", concat.Text)
}

func TestPythonParser_Params(t *testing.T) {
	t.Parallel()

	src := `def f(a, b: int, c='x', d: List[int] = None, *args, e, g=2.5, **kw):
    pass
`
	mod := parse(t, src)
	fn := mod.Body[0]
	require.NotNil(t, fn.Params)
	p := fn.Params

	names := make([]string, len(p.Args))
	for i, a := range p.Args {
		names[i] = a.Name
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, names)
	assert.Equal(t, "int", p.Args[1].TypeName)
	assert.Equal(t, "List[int]", p.Args[3].Annotation)
	assert.Empty(t, p.Args[3].TypeName, "only bare identifiers resolve to a type name")

	require.Len(t, p.Defaults, 2)
	assert.Equal(t, ValueString, p.Defaults[0].Kind)
	assert.Equal(t, "x", p.Defaults[0].Text)
	assert.Equal(t, ValueConstant, p.Defaults[1].Kind)
	assert.Equal(t, "None", p.Defaults[1].Text)
	assert.Less(t, p.Defaults[0].Position, p.Defaults[1].Position)

	assert.Equal(t, "args", p.Vararg)
	assert.Equal(t, "kw", p.Kwarg)

	require.Len(t, p.KwOnly, 2)
	assert.Equal(t, "e", p.KwOnly[0].Name)
	assert.Nil(t, p.KwDefaults[0])
	assert.Equal(t, "g", p.KwOnly[1].Name)
	require.NotNil(t, p.KwDefaults[1])
	assert.Equal(t, ValueNumber, p.KwDefaults[1].Kind)
	assert.Equal(t, "2.5", p.KwDefaults[1].Text)
}

func TestPythonParser_Separators(t *testing.T) {
	t.Parallel()

	src := `def f(a, b, /, c, *, d=-1, e=[]):
    pass
`
	p := parse(t, src).Body[0].Params

	assert.Equal(t, 2, p.PosOnly)
	require.Len(t, p.Args, 3)
	assert.Empty(t, p.Vararg)

	require.Len(t, p.KwOnly, 2)
	assert.Equal(t, ValueNumber, p.KwDefaults[0].Kind)
	assert.Equal(t, "-1", p.KwDefaults[0].Text)
	assert.Equal(t, ValueOther, p.KwDefaults[1].Kind)
	assert.Equal(t, "[]", p.KwDefaults[1].Text)
}

func TestPythonParser_TypedSplats(t *testing.T) {
	t.Parallel()

	p := parse(t, "def f(*args: int, **kwargs: str):\n    pass\n").Body[0].Params

	assert.Equal(t, "args", p.Vararg)
	assert.Equal(t, "kwargs", p.Kwarg)
	assert.Empty(t, p.Args)
}

func TestPythonParser_Async(t *testing.T) {
	t.Parallel()

	mod := parse(t, "async def fetch(url):\n    pass\n\ndef sync():\n    pass\n")

	require.Len(t, mod.Body, 2)
	assert.True(t, mod.Body[0].Async)
	assert.Equal(t, KindFunction, mod.Body[0].Kind)
	assert.False(t, mod.Body[1].Async)
}

func TestPythonParser_EmptyModule(t *testing.T) {
	t.Parallel()

	mod := parse(t, "")
	assert.Equal(t, KindModule, mod.Kind)
	assert.Empty(t, mod.Body)
	assert.Equal(t, 0, mod.Line)
}

func TestPythonParser_SyntaxError(t *testing.T) {
	t.Parallel()

	_, err := NewPythonParser().Parse(context.Background(), []byte("def broken(:\n    pass\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSyntax))

	var serr *SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 1, serr.Line)
}

func TestPythonParser_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPythonParser().Parse(ctx, []byte("x = 1\n"))
	assert.ErrorIs(t, err, context.Canceled)
}
