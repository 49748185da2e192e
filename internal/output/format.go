// Package output renders extracted declaration trees as JSON or YAML.
package output

import (
	"fmt"
	"strings"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DefaultFormat is used when no format is configured.
const DefaultFormat = FormatJSON

// ParseFormat parses "json" or "yaml", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid format: %q (expected json or yaml)", s)
	}
}

func (f Format) String() string {
	return string(f)
}
