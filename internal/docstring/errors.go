package docstring

import (
	"errors"
	"fmt"
)

// ErrMalformedTag is wrapped by every ParseError.
var ErrMalformedTag = errors.New("malformed docstring tag")

// ParseError reports a tag line that does not follow the tag grammar.
type ParseError struct {
	Line   int // 1-based line within the docstring
	Tag    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("docstring line %d: %s tag: %s", e.Line, e.Tag, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedTag
}
