// Package signature rebuilds a readable parameter list for a function from the
// positional metadata of its formal parameters and default values.
package signature

import (
	"cmp"
	"slices"
	"strings"
)

// LiteralKind classifies a default value expression.
type LiteralKind int

const (
	// LiteralOther is any expression rendered with its source spelling ([], foo(), -1).
	LiteralOther LiteralKind = iota
	// LiteralString is a string constant; Text holds the decoded value.
	LiteralString
	// LiteralNumber is an integer, float or complex constant.
	LiteralNumber
	// LiteralConstant is one of True, False, None or Ellipsis.
	LiteralConstant
)

// Literal is a default value.
type Literal struct {
	Kind LiteralKind
	Text string
}

// String renders the literal the way it appears after "=" in a signature.
func (l Literal) String() string {
	if l.Kind == LiteralString {
		return "'" + l.Text + "'"
	}
	return l.Text
}

// Arg is a positional parameter. Position is the parameter's byte offset in the
// source and only serves to order the list.
type Arg struct {
	Name     string
	Position int
}

// Default is the default value bound to one of the trailing positional parameters.
type Default struct {
	Position int
	Value    Literal
}

// KwArg is a keyword-only parameter, declared after *args or a bare *.
type KwArg struct {
	Name    string
	Default *Literal
}

// Params is the parameter metadata of one function.
type Params struct {
	// Args holds positional-only parameters followed by ordinary ones.
	Args []Arg
	// PosOnly is the number of leading Args declared before "/".
	PosOnly int
	// Defaults align with the last len(Defaults) entries of Args.
	Defaults []Default
	Vararg   string
	KwOnly   []KwArg
	Kwarg    string
}

// Empty reports whether there is nothing to render.
func (p Params) Empty() bool {
	return len(p.Args) == 0 && p.Vararg == "" && len(p.KwOnly) == 0 && p.Kwarg == ""
}

// Build renders p as "(a, b, c='x', *args, **kwargs)". It returns "" when the
// function takes no parameters at all.
//
// Defaults are paired by counting from the end of the argument list: with five
// arguments and two defaults the defaults belong to the fourth and fifth.
func Build(p Params) string {
	if p.Empty() {
		return ""
	}

	args := slices.Clone(p.Args)
	slices.SortStableFunc(args, func(a, b Arg) int { return cmp.Compare(a.Position, b.Position) })
	defaults := slices.Clone(p.Defaults)
	slices.SortStableFunc(defaults, func(a, b Default) int { return cmp.Compare(a.Position, b.Position) })

	offset := len(args) - len(defaults)
	parts := make([]string, 0, len(args)+len(p.KwOnly)+3)

	for i, a := range args {
		part := a.Name
		if j := i - offset; j >= 0 && j < len(defaults) {
			part += "=" + defaults[j].Value.String()
		}
		parts = append(parts, part)

		if p.PosOnly > 0 && i == p.PosOnly-1 {
			parts = append(parts, "/")
		}
	}

	switch {
	case p.Vararg != "":
		parts = append(parts, "*"+p.Vararg)
	case len(p.KwOnly) > 0:
		parts = append(parts, "*")
	}

	for _, kw := range p.KwOnly {
		part := kw.Name
		if kw.Default != nil {
			part += "=" + kw.Default.String()
		}
		parts = append(parts, part)
	}

	if p.Kwarg != "" {
		parts = append(parts, "**"+p.Kwarg)
	}

	return "(" + strings.Join(parts, ", ") + ")"
}
