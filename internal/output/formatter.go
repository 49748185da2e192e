package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Formatter encodes a value to a writer.
type Formatter interface {
	Write(w io.Writer, v any) error
}

// JSONFormatter writes indented JSON, one document per call.
type JSONFormatter struct {
	Indent int
}

func (f *JSONFormatter) Write(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if f.Indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", f.Indent))
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// YAMLFormatter writes YAML documents.
type YAMLFormatter struct {
	Indent int
}

func (f *YAMLFormatter) Write(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	if f.Indent > 0 {
		enc.SetIndent(f.Indent)
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// NewFormatter returns the formatter for format. An indent of 0 gives compact
// JSON and the yaml.v3 default of 4 spaces.
func NewFormatter(format Format, indent int) (Formatter, error) {
	if indent < 0 {
		return nil, fmt.Errorf("invalid indent: %d", indent)
	}
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: indent}, nil
	case FormatYAML:
		return &YAMLFormatter{Indent: indent}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %q", format)
	}
}

// Render encodes v to a string.
func Render(f Formatter, v any) (string, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}
