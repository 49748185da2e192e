// Package docstring parses reStructuredText-style Python docstrings into a
// description and typed tag entries.
//
// A tag starts at the beginning of a line:
//
//	:param [type] name (optional, default: X): description
//	:attribute type name: description
//	:returns [type] [name]: description
//	:yields [type]: description
//	:rtype: type
//
// Indented lines that follow a tag continue its description.
package docstring

import (
	"regexp"
	"strings"
)

type tagKind int

const (
	tagUnknown tagKind = iota
	tagParam
	tagAttribute
	tagReturns
	tagYields
	tagReturnType
)

var tagKeywords = map[string]tagKind{
	"param":     tagParam,
	"parameter": tagParam,
	"arg":       tagParam,
	"argument":  tagParam,
	"attribute": tagAttribute,
	"attr":      tagAttribute,
	"ivar":      tagAttribute,
	"returns":   tagReturns,
	"return":    tagReturns,
	"yields":    tagYields,
	"yield":     tagYields,
	"rtype":     tagReturnType,
}

// defaultsToRe captures "defaults to X" up to the end of its sentence; a
// period inside X, as in 3.14, does not end it.
var defaultsToRe = regexp.MustCompile(`(?i)\bdefaults to (.+?)(?:\.\s|\.$|$)`)

// tag is one parsed tag block.
type tag struct {
	kind        tagKind
	keyword     string
	typeName    string
	name        string
	optional    bool
	defaultVal  string
	description string
}

// Parse parses a docstring. It returns a *ParseError when a tag block is
// malformed, for example when a param tag has no name.
func Parse(text string) (*Doc, error) {
	text = dedent(text)

	descText, blocks := split(text)

	doc := &Doc{
		Description: parseDescription(descText),
		Params:      []Param{},
		Attributes:  []Param{},
	}

	var returnType string
	for _, b := range blocks {
		t, err := parseTag(b)
		if err != nil {
			return nil, err
		}

		switch t.kind {
		case tagParam:
			doc.Params = append(doc.Params, t.param())
		case tagAttribute:
			doc.Attributes = append(doc.Attributes, t.param())
		case tagReturns, tagYields:
			// Last one wins.
			doc.Returns = &Returns{
				Name:        t.name,
				TypeName:    t.typeName,
				IsGenerator: t.kind == tagYields || hasYieldsCue(t.description),
				Description: t.description,
			}
		case tagReturnType:
			returnType = t.description
		case tagUnknown:
		}
	}

	if returnType != "" {
		if doc.Returns == nil {
			doc.Returns = &Returns{}
		}
		if doc.Returns.TypeName == "" {
			doc.Returns.TypeName = returnType
		}
	}

	return doc, nil
}

func (t tag) param() Param {
	return Param{
		Name:        t.name,
		TypeName:    t.typeName,
		IsOptional:  t.optional,
		Description: t.description,
		Default:     t.defaultVal,
	}
}

// block is the raw text of one tag and the docstring line it starts on.
type block struct {
	line int
	text string
}

// split separates the free-text description from the tag blocks. The
// description keeps the line break that precedes the first tag.
func split(text string) (string, []block) {
	lines := strings.Split(text, "\n")

	first := -1
	for i, line := range lines {
		if strings.HasPrefix(line, ":") {
			first = i
			break
		}
	}
	if first < 0 {
		return text, nil
	}

	desc := ""
	if first > 0 {
		desc = strings.Join(lines[:first], "\n") + "\n"
	}

	var blocks []block
	for i := first; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], ":") {
			blocks = append(blocks, block{line: i + 1, text: lines[i]})
			continue
		}
		blocks[len(blocks)-1].text += "\n" + lines[i]
	}
	return desc, blocks
}

// parseDescription resolves the summary and body. The summary runs up to the
// first blank line; a blank line only separates when another line follows it,
// so a lone trailing newline does not count.
func parseDescription(text string) Description {
	lines := strings.Split(text, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}

	sep := -1
	for i := 0; i < len(lines)-1; i++ {
		if strings.TrimSpace(lines[i]) == "" {
			sep = i
			break
		}
	}

	if sep < 0 {
		return Description{Long: joinLines(lines)}
	}

	short := joinLines(lines[:sep])
	long := strings.TrimSpace(strings.Join(lines[sep+1:], "\n"))
	return Description{Short: short, Long: long}
}

// joinLines joins the trimmed, non-empty lines with single spaces.
func joinLines(lines []string) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		parts = append(parts, strings.TrimSpace(line))
	}
	return joinNonEmpty(parts...)
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// parseTag parses ":keyword args: description".
func parseTag(b block) (tag, error) {
	head := strings.TrimPrefix(b.text, ":")

	end := closingColon(head)
	if end < 0 {
		keyword, _, _ := strings.Cut(strings.TrimSpace(head), " ")
		return tag{}, &ParseError{Line: b.line, Tag: firstLine(keyword), Reason: "missing closing ':'"}
	}

	tokens := tokenize(head[:end])
	if len(tokens) == 0 {
		return tag{}, &ParseError{Line: b.line, Tag: "", Reason: "missing keyword"}
	}

	t := tag{
		keyword:     tokens[0],
		kind:        tagKeywords[strings.ToLower(tokens[0])],
		description: strings.Join(strings.Fields(head[end+1:]), " "),
	}
	args := tokens[1:]

	if n := len(args); n > 0 && strings.HasPrefix(args[n-1], "(") {
		switch t.kind {
		case tagReturns, tagYields, tagReturnType:
			return tag{}, &ParseError{Line: b.line, Tag: t.keyword, Reason: "optionality marker is only allowed on params and attributes"}
		}
		t.applyMarker(args[n-1])
		args = args[:n-1]
	}

	switch t.kind {
	case tagParam, tagAttribute:
		switch len(args) {
		case 1:
			t.name = args[0]
		case 2:
			t.setType(args[0])
			t.name = args[1]
		case 0:
			return tag{}, &ParseError{Line: b.line, Tag: t.keyword, Reason: "missing name"}
		default:
			return tag{}, &ParseError{Line: b.line, Tag: t.keyword, Reason: "expected [type] name"}
		}
		if t.defaultVal == "" {
			if m := defaultsToRe.FindStringSubmatch(t.description); m != nil {
				t.defaultVal = strings.TrimRight(strings.TrimSpace(m[1]), ".")
			}
		}
	case tagReturns, tagYields:
		switch len(args) {
		case 0:
		case 1:
			t.setType(args[0])
		case 2:
			t.setType(args[0])
			t.name = args[1]
		default:
			return tag{}, &ParseError{Line: b.line, Tag: t.keyword, Reason: "expected at most [type] name"}
		}
	case tagReturnType:
		if len(args) != 0 {
			return tag{}, &ParseError{Line: b.line, Tag: t.keyword, Reason: "type belongs after the colon"}
		}
	case tagUnknown:
	}

	return t, nil
}

// setType stores a type token, unwrapping [brackets]; a trailing "?" marks
// the entry optional.
func (t *tag) setType(token string) {
	if strings.HasPrefix(token, "[") && strings.HasSuffix(token, "]") {
		token = token[1 : len(token)-1]
	}
	if strings.HasSuffix(token, "?") {
		t.optional = true
		token = strings.TrimSuffix(token, "?")
	}
	t.typeName = strings.TrimSpace(token)
}

// applyMarker reads "(optional)", "(default: X)" or "(optional, default: X)".
func (t *tag) applyMarker(marker string) {
	inner := strings.TrimSuffix(strings.TrimPrefix(marker, "("), ")")
	for _, item := range splitTopLevel(inner, ',') {
		item = strings.TrimSpace(item)
		lower := strings.ToLower(item)
		switch {
		case lower == "optional":
			t.optional = true
		case strings.HasPrefix(lower, "default:"), strings.HasPrefix(lower, "default="):
			t.defaultVal = strings.TrimSpace(item[len("default:"):])
		case strings.HasPrefix(lower, "defaults to "):
			t.defaultVal = strings.TrimSpace(item[len("defaults to "):])
		}
	}
}

func hasYieldsCue(description string) bool {
	return strings.HasPrefix(strings.ToLower(description), "yields")
}

// closingColon returns the index of the first ':' outside brackets, or -1.
func closingColon(s string) int {
	depth := 0
	for i, r := range s {
		switch r {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			if depth > 0 {
				depth--
			}
		case '\n':
			if depth == 0 {
				return -1
			}
		case ':':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// tokenize splits on whitespace outside brackets.
func tokenize(s string) []string {
	var tokens []string
	var cur strings.Builder
	depth := 0

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range s {
		switch {
		case r == '[' || r == '(' || r == '{':
			if depth == 0 && r == '(' {
				flush()
			}
			depth++
			cur.WriteRune(r)
		case r == ']' || r == ')' || r == '}':
			if depth > 0 {
				depth--
			}
			cur.WriteRune(r)
		case depth == 0 && (r == ' ' || r == '\t'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

func splitTopLevel(s string, sep rune) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
