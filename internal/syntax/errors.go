package syntax

import (
	"errors"
	"fmt"
)

// ErrSyntax is wrapped by every SyntaxError.
var ErrSyntax = errors.New("invalid python syntax")

// SyntaxError locates the first unparseable construct in the source.
type SyntaxError struct {
	Line   int
	Column int
	Near   string
}

func (e *SyntaxError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("syntax error at line %d, column %d", e.Line, e.Column)
	}
	return fmt.Sprintf("syntax error at line %d, column %d near %q", e.Line, e.Column, e.Near)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}
