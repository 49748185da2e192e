package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/docstrings/internal/discovery"
	"github.com/mvp-joe/docstrings/internal/extractor"
	"github.com/mvp-joe/docstrings/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for docstring extraction",
	Long: `Start the Model Context Protocol (MCP) server so coding assistants can
read the documentation of Python code in the current project.

The MCP server:
- Provides extract_docstrings for inline source or a project-relative path
- Provides list_sources for the files selected by paths.include/paths.ignore
- Caches extracted trees in memory (cache.max_entries)
- Communicates via stdio (standard MCP transport)

Example:
  docstrings mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	projectPath, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	cfg, err := loadConfig(projectPath)
	if err != nil {
		return err
	}

	finder, err := discovery.NewFinder(projectPath, cfg.Paths.Include, cfg.Paths.Ignore)
	if err != nil {
		return err
	}

	cache, err := extractor.NewCache(cfg.Cache.MaxEntries)
	if err != nil {
		return err
	}
	defer cache.Close()

	// stdout is the MCP transport; startup information goes to stderr.
	fmt.Fprintf(os.Stderr, "docstrings MCP Server %s\n", Version)
	fmt.Fprintf(os.Stderr, "Project Root: %s\n", projectPath)
	fmt.Fprintf(os.Stderr, "Cache Size:   %d entries\n", cfg.Cache.MaxEntries)
	fmt.Fprintf(os.Stderr, "\n")

	server, err := mcp.NewServer(&mcp.ServerConfig{
		Name:        "docstrings",
		Version:     Version,
		ProjectRoot: projectPath,
		Extractor:   extractor.New(extractor.WithCache(cache)),
		Finder:      finder,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	return server.Serve(cmd.Context())
}
