package extractor

import (
	"fmt"

	"github.com/mvp-joe/docstrings/internal/docstring"
)

// Kind is the kind of a documented declaration.
type Kind int

const (
	KindModule Kind = iota
	KindClass
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindModule:
		return "Module"
	case KindClass:
		return "Class"
	case KindFunction:
		return "Function"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText renders the kind as "Module", "Class" or "Function" in JSON and YAML.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case KindModule, KindClass, KindFunction:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("unknown declaration kind %d", int(k))
}

// UnmarshalText parses a kind rendered by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Module":
		*k = KindModule
	case "Class":
		*k = KindClass
	case "Function":
		*k = KindFunction
	default:
		return fmt.Errorf("unknown declaration kind %q", text)
	}
	return nil
}

// Node is a module, class or function together with its documentation.
type Node struct {
	Kind Kind   `json:"type" yaml:"type"`
	Name string `json:"name" yaml:"name"`
	// Line is the first line of the docstring, or the declaration line when
	// there is none.
	Line int `json:"line" yaml:"line"`
	// Docstring is the docstring with indentation normalized.
	Docstring string `json:"docstring_text" yaml:"docstring_text"`
	// Parsed is nil when there is no docstring or it could not be parsed.
	Parsed *docstring.Doc `json:"docstring" yaml:"docstring"`

	// Signature and Arguments are only set on functions.
	Signature string     `json:"signature,omitempty" yaml:"signature,omitempty"`
	Arguments []Argument `json:"arguments,omitempty" yaml:"arguments,omitempty"`

	Children []*Node `json:"content" yaml:"content"`
}

// Argument is a positional parameter of a function. Type is only set when the
// annotation is a plain name.
type Argument struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Count returns the number of nodes in the tree rooted at n.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}
