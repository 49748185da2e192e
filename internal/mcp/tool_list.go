package mcp

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/docstrings/internal/discovery"
	"github.com/mvp-joe/docstrings/internal/output"
)

// ListResponse is the result of the list_sources tool.
type ListResponse struct {
	Files []string `json:"files"`
	Total int      `json:"total"`
}

// AddListTool registers the list_sources tool, which lists the Python files
// the configured include and ignore patterns select.
func AddListTool(s *server.MCPServer, finder *discovery.Finder) {
	tool := mcp.NewTool(
		"list_sources",
		mcp.WithDescription("List Python source files under the project root that extract_docstrings can read, as paths relative to the root."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createListHandler(finder))
}

func createListHandler(finder *discovery.Finder) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		files, err := finder.Discover()
		if err != nil {
			return nil, fmt.Errorf("failed to list sources: %w", err)
		}

		rel := make([]string, 0, len(files))
		for _, f := range files {
			r, err := filepath.Rel(finder.Root(), f)
			if err != nil {
				return nil, err
			}
			rel = append(rel, filepath.ToSlash(r))
		}

		return formatToolResponse(output.FormatJSON, &ListResponse{Files: rel, Total: len(rel)})
	}
}
