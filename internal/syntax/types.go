// Package syntax is the boundary to the Python syntax parser. The extractor only
// sees the Node tree defined here, so it can be driven by hand-built trees in
// tests and by the tree-sitter backed parser in production.
package syntax

import "context"

// Parser turns Python source into a syntax tree rooted at a KindModule node.
type Parser interface {
	Parse(ctx context.Context, source []byte) (*Node, error)
}

// Kind is the construct type of a statement.
type Kind int

const (
	// KindOther is any statement the extractor does not care about.
	KindOther Kind = iota
	KindModule
	KindClass
	KindFunction
	// KindString is an expression statement consisting of a single str literal.
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindClass:
		return "class"
	case KindFunction:
		return "function"
	case KindString:
		return "string"
	default:
		return "other"
	}
}

// Node is a statement in the syntax tree.
type Node struct {
	Kind Kind
	// Name is the declared identifier of a class or function.
	Name string
	// Line and EndLine are 1-based.
	Line    int
	EndLine int
	// Body holds the statements of a module, class or function in source order.
	Body []*Node

	// Text is the decoded value of a KindString literal and Raw its source text.
	Text string
	Raw  string

	// Params is set for KindFunction.
	Params *Params
	Async  bool
}

// ValueKind classifies a default value expression.
type ValueKind int

const (
	ValueOther ValueKind = iota
	ValueString
	ValueNumber
	ValueConstant
)

// Value is a default value. Text is the decoded value for ValueString and the
// source spelling otherwise.
type Value struct {
	Kind     ValueKind
	Text     string
	Position int
}

// Param is one formal parameter.
type Param struct {
	Name string
	// Annotation is the annotation source text; TypeName is set only when the
	// annotation is a bare identifier.
	Annotation string
	TypeName   string
	// Position is the byte offset of the parameter in the source.
	Position int
}

// Params is the formal parameter list of a function.
type Params struct {
	// Args are positional-only parameters followed by ordinary ones.
	Args    []Param
	PosOnly int
	// Defaults belong to the trailing len(Defaults) entries of Args.
	Defaults []Value
	Vararg   string
	KwOnly   []Param
	// KwDefaults is aligned with KwOnly; nil entries have no default.
	KwDefaults []*Value
	Kwarg      string
}
