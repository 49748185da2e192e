package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/docstrings/internal/extractor"
	"github.com/mvp-joe/docstrings/internal/output"
	"github.com/mvp-joe/docstrings/internal/syntax"
)

// ExtractRequest is the argument schema of the extract_docstrings tool.
type ExtractRequest struct {
	Source     string `json:"source,omitempty"`
	Path       string `json:"path,omitempty"`
	ModuleName string `json:"module_name,omitempty"`
	Format     string `json:"format,omitempty"`
}

// AddExtractTool registers the extract_docstrings tool with an MCP server.
// Paths are resolved against projectRoot and may not leave it.
func AddExtractTool(s *server.MCPServer, e *extractor.Extractor, projectRoot string) {
	tool := mcp.NewTool(
		"extract_docstrings",
		mcp.WithDescription(`Extract the module/class/function tree of Python source with parsed docstrings.

Pass either inline "source" or a "path" relative to the project root.
Each node has its type, name, line, cleaned docstring text, parsed docstring
(description, parameters, attributes, returns) and, for functions, the
reconstructed signature and argument list.`),
		mcp.WithString("source",
			mcp.Description("Python source text")),
		mcp.WithString("path",
			mcp.Description("Python file relative to the project root")),
		mcp.WithString("module_name",
			mcp.Description("Name for the root module; defaults to the file name without extension")),
		mcp.WithString("format",
			mcp.Description("Output encoding: json (default) or yaml"),
			mcp.Enum("json", "yaml")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createExtractHandler(e, projectRoot))
}

// createExtractHandler creates the handler function for extract_docstrings.
func createExtractHandler(e *extractor.Extractor, projectRoot string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, ok := request.GetRawArguments().(map[string]any); !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var req ExtractRequest
		if err := bindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}

		if (req.Source == "") == (req.Path == "") {
			return mcp.NewToolResultError("exactly one of source or path is required"), nil
		}

		format := output.DefaultFormat
		if req.Format != "" {
			f, err := output.ParseFormat(req.Format)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			format = f
		}

		var tree *extractor.Node
		var err error
		if req.Source != "" {
			tree, err = e.ExtractSource(ctx, []byte(req.Source), req.ModuleName)
		} else {
			path, perr := resolvePath(projectRoot, req.Path)
			if perr != nil {
				return mcp.NewToolResultError(perr.Error()), nil
			}
			tree, err = e.ExtractFile(ctx, path, req.ModuleName)
		}
		if err != nil {
			if isUserError(err) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, err
		}

		return formatToolResponse(format, tree)
	}
}

// resolvePath joins rel onto root and rejects paths that escape it.
func resolvePath(root, rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("path must be relative to the project root: %s", rel)
	}
	full := filepath.Join(root, rel)
	r, err := filepath.Rel(root, full)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes the project root: %s", rel)
	}
	return full, nil
}

// isUserError separates bad input from failures of the server itself.
func isUserError(err error) bool {
	return errors.Is(err, syntax.ErrSyntax) || errors.Is(err, os.ErrNotExist)
}

func formatToolResponse(format output.Format, v any) (*mcp.CallToolResult, error) {
	f, err := output.NewFormatter(format, 0)
	if err != nil {
		return nil, err
	}
	text, err := output.Render(f, v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(text), nil
}
